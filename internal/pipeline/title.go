package pipeline

import (
	"regexp"
	"strings"

	"domicilios/internal/util"
)

const (
	titleMaxLen    = 25
	titleEllipsis  = "..."
	distributionDG = "DG"
)

var (
	reShelfLiteral     = regexp.MustCompile(`^[A-Z0-9]{4,5}$`)
	reNumericClass     = regexp.MustCompile(`^\d{1,3}(\.\d+)?$`)
	reGeneralClass     = regexp.MustCompile(`^[A-Za-z]\d+[A-Za-z]$`)
	reDistributionCode = regexp.MustCompile(`^[A-Za-z0-9]{2,}$`)
)

var genreCodes = tokenSet(
	"A", "B", "C", "CC", "CF", "CI", "CR", "E", "F", "H", "I",
	"LJ", "N", "NG", "P", "PR", "R", "T", "TE",
)

var stopWords = tokenSet(
	// edition ordinals
	"PRIMERA", "SEGUNDA", "TERCERA", "CUARTA", "QUINTA", "SEXTA",
	"SEPTIMA", "SÉPTIMA", "OCTAVA", "NOVENA", "DECIMA", "DÉCIMA",
	"1a.", "2a.", "3a.", "4a.", "5a.", "1ra.", "2da.", "3ra.", "4ta.", "5ta.",
	// volume and edition markers
	"V.", "v.", "VOL.", "Vol.", "TOMO", "T.", "ED.", "Ed.",
	"EDICION", "EDICIÓN", "EJ.", "EJEMPLAR",
	// status
	"NUEVO", "PRESTADO", "CAMBIADO", "POR", "DEVUELTO", "RESERVADO",
)

// skipRule inspects the first tokens of a material description and reports
// how many belong to the call number.
type skipRule struct {
	first  func(string) bool
	second func(string) bool
}

// Order matters: a token such as "C" is a genre code before anything else.
var skipRules = []skipRule{
	{
		first:  func(tok string) bool { _, ok := genreCodes[tok]; return ok },
		second: reShelfLiteral.MatchString,
	},
	{
		first:  reNumericClass.MatchString,
		second: reGeneralClass.MatchString,
	},
	{
		first:  func(tok string) bool { return tok == distributionDG },
		second: reDistributionCode.MatchString,
	},
}

func callNumberLength(tokens []string) int {
	if len(tokens) == 0 {
		return 0
	}
	for _, rule := range skipRules {
		if !rule.first(tokens[0]) {
			continue
		}
		if len(tokens) > 1 && rule.second(tokens[1]) {
			return 2
		}
		return 1
	}
	return 0
}

func contentEnd(tokens []string, start int) int {
	for i := start; i < len(tokens); i++ {
		if _, stop := stopWords[tokens[i]]; stop {
			return i
		}
	}
	return len(tokens)
}

// CleanTitle drops the leading call number and everything from the first
// stop word on. With truncate set the result is capped at 25 characters
// plus an ellipsis.
func CleanTitle(tokens []string, truncate bool) string {
	start := callNumberLength(tokens)
	end := contentEnd(tokens, start)

	kept := make([]string, 0, end-start)
	for _, tok := range tokens[start:end] {
		if tok == "-" || tok == ":" {
			continue
		}
		kept = append(kept, tok)
	}
	title := strings.Join(kept, " ")
	if !truncate {
		return title
	}
	return TruncateTitle(title)
}

func TruncateTitle(title string) string {
	if cut, ok := util.TruncateRunes(title, titleMaxLen); ok {
		return cut + titleEllipsis
	}
	return title
}

func CleanMaterial(raw string, truncate bool) string {
	return CleanTitle(strings.Fields(util.NormalizeText(raw)), truncate)
}

func tokenSet(tokens ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		out[util.NormalizeText(t)] = struct{}{}
	}
	return out
}
