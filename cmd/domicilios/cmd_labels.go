package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"domicilios/internal/connectors"
	"domicilios/internal/connectors/sheets"
	"domicilios/internal/connectors/workbook"
	"domicilios/internal/labels"
)

var (
	labelsFirst   int
	labelsLast    int
	labelsSheetID string
	labelsInput   string
	labelsLibrary string
	labelsBanner  string
	labelsOutput  string
	labelsDeliver bool
)

var labelsGenerateCmd = &cobra.Command{
	Use:   "labels:generate",
	Short: "Print delivery tickets for a range of label-sheet rows",
	Long: `Reads the label sheet (Google Sheet by key, or a local xlsx export), keeps the
rows between --first and --last inclusive and renders one ticket per row into a
Letter PDF named after the current date.

Example:
  domicilios labels:generate --first 3 --last 40 --deliver`,
	Args: cobra.NoArgs,
	RunE: runLabelsGenerate,
}

func init() {
	f := labelsGenerateCmd.Flags()
	f.IntVar(&labelsFirst, "first", 0, "first sheet row (inclusive)")
	f.IntVar(&labelsLast, "last", 0, "last sheet row (inclusive)")
	f.StringVar(&labelsSheetID, "sheet-id", "", "Google Sheet key (default LABEL_SHEET_ID)")
	f.StringVar(&labelsInput, "input", "", "local xlsx export instead of the Google Sheet")
	f.StringVar(&labelsLibrary, "library", "", "library printed when the row has none (default LABEL_LIBRARY)")
	f.StringVar(&labelsBanner, "banner", "", "banner text (default LABEL_BANNER)")
	f.StringVar(&labelsOutput, "output", "", "output pdf path")
	f.BoolVar(&labelsDeliver, "deliver", false, "copy the PDF to DELIVERY_DIR")
	_ = labelsGenerateCmd.MarkFlagRequired("first")
	_ = labelsGenerateCmd.MarkFlagRequired("last")
	labelsGenerateCmd.MarkFlagsMutuallyExclusive("sheet-id", "input")
}

func runLabelsGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	source, err := labelSource(ctx)
	if err != nil {
		return err
	}

	svc := labels.NewService(cfg, source, logger)
	res, err := svc.Generate(ctx, labels.Options{
		Range:   labels.Range{First: labelsFirst, Last: labelsLast},
		Library: labelsLibrary,
		Banner:  labelsBanner,
		Output:  labelsOutput,
		Deliver: labelsDeliver,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "labels done tickets=%d output=%s\n", res.Tickets, res.Output)
	if res.Delivered != "" {
		fmt.Fprintf(out, "delivered to %s\n", res.Delivered)
	}
	return nil
}

func labelSource(ctx context.Context) (connectors.RowSource, error) {
	if labelsInput != "" {
		return workbook.NewConnector(cfg.ResolveInput(labelsInput)), nil
	}
	id := labelsSheetID
	if id == "" {
		id = cfg.LabelSheetID
	}
	return sheets.NewConnector(ctx, cfg, id)
}
