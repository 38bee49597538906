package pipeline

import (
	"fmt"
	"strings"

	"domicilios/internal"
)

const receivingLabel = "Recibe en: "

type Validator struct {
	required    []internal.FieldKey
	alternative [2]internal.FieldKey
}

func NewValidator(policy internal.Policy) (*Validator, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	required := append([]internal.FieldKey(nil), policy.Required...)
	return &Validator{required: required, alternative: policy.Alternative}, nil
}

// Validate checks the required keys first, then the address alternative. On
// success it returns the composed address.
func (v *Validator) Validate(fields internal.FieldMap) (string, *internal.Rejection) {
	var missing []internal.FieldKey
	for _, key := range v.required {
		if !fields.Has(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, k := range missing {
			names = append(names, string(k))
		}
		return "", &internal.Rejection{
			Code:    internal.ReasonMissingRequiredFields,
			Missing: missing,
			Message: "Faltan campos requeridos: " + strings.Join(names, ", "),
		}
	}

	address, hasAddress := fields.Get(v.alternative[0])
	receiving, hasReceiving := fields.Get(v.alternative[1])
	switch {
	case hasAddress && hasReceiving:
		return address + " | " + receivingLabel + receiving, nil
	case hasAddress:
		return address, nil
	case hasReceiving:
		return receivingLabel + receiving, nil
	default:
		return "", &internal.Rejection{
			Code:    internal.ReasonMissingAddressAndReceivingLibrary,
			Missing: []internal.FieldKey{v.alternative[0], v.alternative[1]},
			Message: fmt.Sprintf("Sin domicilio ni biblioteca de recibo (%s, %s)", v.alternative[0], v.alternative[1]),
		}
	}
}
