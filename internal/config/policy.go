package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"domicilios/internal"
)

// LoadPolicy reads a YAML policy file. Sections left out of the file keep
// their defaults. An empty path returns the default policy.
func LoadPolicy(path string) (internal.Policy, error) {
	if strings.TrimSpace(path) == "" {
		return internal.DefaultPolicy(), nil
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return internal.Policy{}, err
	}
	policy, err := ParsePolicy(blob)
	if err != nil {
		return internal.Policy{}, fmt.Errorf("policy %s: %w", path, err)
	}
	return policy, nil
}

func ParsePolicy(blob []byte) (internal.Policy, error) {
	var file struct {
		Prefixes    []internal.PrefixRule `yaml:"prefixes"`
		Required    []internal.FieldKey   `yaml:"required"`
		Alternative []internal.FieldKey   `yaml:"alternative"`
	}
	dec := yaml.NewDecoder(bytes.NewReader(blob))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return internal.Policy{}, err
	}

	policy := internal.DefaultPolicy()
	if file.Prefixes != nil {
		policy.Prefixes = file.Prefixes
	}
	if file.Required != nil {
		policy.Required = file.Required
	}
	if file.Alternative != nil {
		if len(file.Alternative) != 2 {
			return internal.Policy{}, fmt.Errorf("%w: alternative needs exactly 2 keys, got %d", internal.ErrInvalidPolicy, len(file.Alternative))
		}
		policy.Alternative = [2]internal.FieldKey{file.Alternative[0], file.Alternative[1]}
	}

	if err := policy.Validate(); err != nil {
		return internal.Policy{}, err
	}
	return policy, nil
}
