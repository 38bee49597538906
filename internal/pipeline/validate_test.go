package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"domicilios/internal"
)

func validateNote(t *testing.T, n note) (string, *internal.Rejection) {
	t.Helper()
	v, err := NewValidator(internal.DefaultPolicy())
	require.NoError(t, err)
	return v.Validate(newTestExtractor(t).Extract(annotation(n)))
}

func TestValidateMissingRequired(t *testing.T) {
	_, rej := validateNote(t, fullNote().without("E-mail:", "Título:"))
	require.NotNil(t, rej)
	require.Equal(t, internal.ReasonMissingRequiredFields, rej.Code)
	require.Equal(t, []internal.FieldKey{internal.FieldTitle, internal.FieldEmail}, rej.Missing)
	require.Equal(t, "Faltan campos requeridos: title, email", rej.Message)
}

func TestValidateRequiredBeforeAlternative(t *testing.T) {
	_, rej := validateNote(t, fullNote().without("Telefone:", "Domicílio:"))
	require.NotNil(t, rej)
	require.Equal(t, internal.ReasonMissingRequiredFields, rej.Code)
}

func TestValidateAddressComposition(t *testing.T) {
	cases := []struct {
		name string
		note note
		want string
	}{
		{"address only", fullNote(), "Cra 1 # 2-3"},
		{"receiving only", fullNote().without("Domicílio:").with("Biblioteca de recebimento:", "El Tintal"), "Recibe en: El Tintal"},
		{"both", fullNote().with("Biblioteca de recebimento:", "El Tintal"), "Cra 1 # 2-3 | Recibe en: El Tintal"},
		{"empty address counts as present", fullNote().with("Domicílio:", ""), ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, rej := validateNote(t, tc.note)
			require.Nil(t, rej)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestValidateNoAddressNorReceiving(t *testing.T) {
	_, rej := validateNote(t, fullNote().without("Domicílio:"))
	require.NotNil(t, rej)
	require.Equal(t, internal.ReasonMissingAddressAndReceivingLibrary, rej.Code)
	require.Equal(t, []internal.FieldKey{internal.FieldAddress, internal.FieldReceivingLibrary}, rej.Missing)
}
