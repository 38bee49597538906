package labels

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"domicilios/internal"
)

const (
	pageMargin  = 2.0
	ticketGap   = 2.0
	padding     = 2.0
	lineHeight  = 5.0
	matLineH    = 4.5
	qrSize      = 30.0
	logoWidth   = 57.9
	logoHeight  = 7.2
	labelWidth  = 30.0
	headerBlock = logoHeight + 2*padding
)

// Renderer draws one bordered ticket per request on Letter pages. A ticket
// never straddles a page break.
type Renderer struct {
	LogoPath string
	Banner   string
	DateLine string
}

func (r Renderer) Render(tickets []internal.Ticket, w io.Writer) error {
	if r.LogoPath != "" {
		if _, err := os.Stat(r.LogoPath); err != nil {
			return fmt.Errorf("logo: %w", err)
		}
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	width := pageW - 2*pageMargin
	y := pageMargin

	for i, t := range tickets {
		height := ticketHeight(t)
		if y+height > pageH-pageMargin && y > pageMargin {
			pdf.AddPage()
			y = pageMargin
		}
		if err := r.drawTicket(pdf, tr, i, t, pageMargin, y, width, height); err != nil {
			return err
		}
		y += height + ticketGap
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func (r Renderer) RenderFile(tickets []internal.Ticket, path string) error {
	var buf bytes.Buffer
	if err := r.Render(tickets, &buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func ticketHeight(t internal.Ticket) float64 {
	fields := 7 * lineHeight
	materials := float64(materialLines(t)) * matLineH
	body := fields + materials + lineHeight
	if body < qrSize {
		body = qrSize
	}
	return headerBlock + lineHeight + body + padding
}

func materialLines(t internal.Ticket) int {
	if len(t.Materials) == 0 {
		return 1
	}
	return (len(t.Materials) + 1) / 2
}

func (r Renderer) drawTicket(pdf *fpdf.Fpdf, tr func(string) string, idx int, t internal.Ticket, x, y, w, h float64) error {
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.3)
	pdf.Rect(x, y, w, h, "D")

	bannerX := x + padding
	if r.LogoPath != "" {
		pdf.ImageOptions(r.LogoPath, x+padding, y+padding, logoWidth, logoHeight, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
		bannerX += logoWidth + padding
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(bannerX, y+padding)
	pdf.CellFormat(x+w-bannerX-padding, logoHeight, tr(r.Banner), "", 0, "L", false, 0, "")

	cy := y + headerBlock
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetXY(x+padding, cy)
	pdf.CellFormat(w-2*padding, lineHeight, tr(r.DateLine), "", 0, "R", false, 0, "")
	cy += lineHeight

	textW := w - 3*padding - qrSize
	fields := [][2]string{
		{"Nombre", t.Name},
		{"Cédula", t.Identity},
		{"Dirección", t.Address},
		{"Localidad", t.Locality},
		{"Barrio", t.Neighborhood},
		{"Teléfono", t.Phone},
		{"Biblioteca", t.Library},
	}
	for _, f := range fields {
		pdf.SetXY(x+padding, cy)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(labelWidth, lineHeight, tr(f[0]+":"), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(textW-labelWidth, lineHeight, tr(f[1]), "", 0, "L", false, 0, "")
		cy += lineHeight
	}

	pdf.SetXY(x+padding, cy)
	pdf.SetFont("Helvetica", "", 8)
	block := FormatMaterials(t.Materials)
	for _, line := range strings.Split(block, "\n") {
		pdf.SetXY(x+padding, cy)
		pdf.CellFormat(textW, matLineH, tr(line), "", 0, "L", false, 0, "")
		cy += matLineH
	}
	if len(t.Materials) == 0 {
		cy += matLineH
	}

	pdf.SetXY(x+padding, cy)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(textW, lineHeight, tr("Cantidad: "+strconv.Itoa(t.Count)), "", 0, "L", false, 0, "")

	png, err := qrcode.Encode(QRContent(t), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("qr for %s: %w", t.Identity, err)
	}
	name := "qr-" + strconv.Itoa(idx)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	pdf.ImageOptions(name, x+w-padding-qrSize, y+headerBlock+lineHeight, qrSize, qrSize, false, opts, 0, "")
	return nil
}

func QRContent(t internal.Ticket) string {
	return t.Identity + "|" + t.Name + "|" + t.Phone
}
