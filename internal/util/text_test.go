package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSegments(t *testing.T) {
	got := SplitSegments(" a | | b|c  |", "|")
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Empty(t, SplitSegments("  |  ", "|"))
}

func TestNormalizeTextComposesAccents(t *testing.T) {
	decomposed := "Ti\u0301tulo:"
	assert.NotEqual(t, "Título:", decomposed)
	assert.Equal(t, "Título:", NormalizeText(decomposed))
}

func TestHeaderKey(t *testing.T) {
	assert.Equal(t, "usuario / solicitante", HeaderKey("  Usuario   /  Solicitante "))
	assert.Equal(t, HeaderKey("Observación"), HeaderKey("OBSERVACIO\u0301N"))
}

func TestTruncateRunes(t *testing.T) {
	cases := []struct {
		name  string
		input string
		n     int
		want  string
		cut   bool
	}{
		{name: "short", input: "hola", n: 25, want: "hola", cut: false},
		{name: "exact", input: "abcde", n: 5, want: "abcde", cut: false},
		{name: "multibyte", input: "añoañoaño", n: 4, want: "añoa", cut: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, cut := TruncateRunes(tc.input, tc.n)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.cut, cut)
		})
	}
}
