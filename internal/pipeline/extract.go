package pipeline

import (
	"strings"

	"domicilios/internal"
	"domicilios/internal/util"
)

const segmentSeparator = "|"

// Extractor turns an annotation into a FieldMap using an ordered prefix table.
type Extractor struct {
	rules []internal.PrefixRule
}

func NewExtractor(policy internal.Policy) (*Extractor, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	rules := make([]internal.PrefixRule, 0, len(policy.Prefixes))
	for _, rule := range policy.Prefixes {
		rules = append(rules, internal.PrefixRule{Key: rule.Key, Prefix: util.NormalizeText(rule.Prefix)})
	}
	return &Extractor{rules: rules}, nil
}

// Extract scans every segment against the rules; the first matching rule
// claims the segment and a later segment for the same key overwrites it.
func (e *Extractor) Extract(annotation string) internal.FieldMap {
	var fields internal.FieldMap
	for _, segment := range SplitAnnotation(annotation) {
		key, value, ok := e.match(segment)
		if !ok {
			continue
		}
		fields.Set(key, value)
	}
	return fields
}

func (e *Extractor) match(segment string) (internal.FieldKey, string, bool) {
	for _, rule := range e.rules {
		if strings.HasPrefix(segment, rule.Prefix) {
			return rule.Key, strings.TrimSpace(segment[len(rule.Prefix):]), true
		}
	}
	return "", "", false
}

func SplitAnnotation(annotation string) []string {
	return util.SplitSegments(util.NormalizeText(annotation), segmentSeparator)
}
