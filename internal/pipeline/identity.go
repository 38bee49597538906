package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"domicilios/internal"
)

const identitySeparator = "-"

var ErrInvalidIdentityFormat = errors.New("invalid identity format")

// ParseIdentity splits "00123-Jane Doe" on the first separator into the
// canonical id "123" and the display name "Jane Doe".
func ParseIdentity(raw string) (internal.Identity, error) {
	idPart, namePart, ok := strings.Cut(raw, identitySeparator)
	if !ok {
		return internal.Identity{}, fmt.Errorf("%w: no %q in %q", ErrInvalidIdentityFormat, identitySeparator, raw)
	}
	idPart = strings.TrimSpace(idPart)
	if idPart == "" {
		return internal.Identity{}, fmt.Errorf("%w: empty identifier in %q", ErrInvalidIdentityFormat, raw)
	}

	id := strings.TrimLeft(idPart, "0")
	if id == "" {
		id = "0"
	}
	return internal.Identity{ID: id, Name: strings.TrimSpace(namePart)}, nil
}
