package internal

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidPolicy = errors.New("invalid policy")

// Policy drives extraction and validation of one batch.
type Policy struct {
	Prefixes    []PrefixRule `yaml:"prefixes"`
	Required    []FieldKey   `yaml:"required"`
	Alternative [2]FieldKey  `yaml:"alternative"`
}

func DefaultPrefixes() []PrefixRule {
	return []PrefixRule{
		{Key: FieldCollection, Prefix: "Acervo:"},
		{Key: FieldTitle, Prefix: "Título:"},
		{Key: FieldClassification, Prefix: "Classificação:"},
		{Key: FieldOriginLibrary, Prefix: "Biblioteca de origem:"},
		{Key: FieldReceivingLibrary, Prefix: "Biblioteca de recebimento:"},
		{Key: FieldPhone, Prefix: "Telefone:"},
		{Key: FieldEmail, Prefix: "E-mail:"},
		{Key: FieldAddress, Prefix: "Domicílio:"},
		{Key: FieldRequestDate, Prefix: "Data de solicitação:"},
	}
}

func DefaultPolicy() Policy {
	return Policy{
		Prefixes:    DefaultPrefixes(),
		Required:    []FieldKey{FieldTitle, FieldClassification, FieldPhone, FieldEmail},
		Alternative: [2]FieldKey{FieldAddress, FieldReceivingLibrary},
	}
}

// Validate reports a structurally broken policy. It is meant to run once,
// before any row is processed.
func (p Policy) Validate() error {
	if len(p.Prefixes) == 0 {
		return fmt.Errorf("%w: empty prefix table", ErrInvalidPolicy)
	}
	for i, rule := range p.Prefixes {
		if !rule.Key.Known() {
			return fmt.Errorf("%w: prefix rule %d has unknown key %q", ErrInvalidPolicy, i+1, rule.Key)
		}
		if strings.TrimSpace(rule.Prefix) == "" {
			return fmt.Errorf("%w: prefix rule %d (%s) has empty prefix", ErrInvalidPolicy, i+1, rule.Key)
		}
	}

	extracted := map[FieldKey]struct{}{}
	for _, rule := range p.Prefixes {
		extracted[rule.Key] = struct{}{}
	}

	seen := map[FieldKey]struct{}{}
	for _, key := range p.Required {
		if !key.Known() {
			return fmt.Errorf("%w: unknown required key %q", ErrInvalidPolicy, key)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: required key %q listed twice", ErrInvalidPolicy, key)
		}
		if _, ok := extracted[key]; !ok {
			return fmt.Errorf("%w: required key %q has no prefix rule", ErrInvalidPolicy, key)
		}
		seen[key] = struct{}{}
	}

	a, b := p.Alternative[0], p.Alternative[1]
	if !a.Known() || !b.Known() {
		return fmt.Errorf("%w: alternative pair must name two known keys, got %q and %q", ErrInvalidPolicy, a, b)
	}
	if a == b {
		return fmt.Errorf("%w: alternative pair repeats %q", ErrInvalidPolicy, a)
	}
	for _, key := range p.Alternative {
		if _, ok := extracted[key]; !ok {
			return fmt.Errorf("%w: alternative key %q has no prefix rule", ErrInvalidPolicy, key)
		}
	}
	return nil
}
