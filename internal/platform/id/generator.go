package id

import (
	"strings"

	"github.com/rs/xid"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

// XIDGenerator produces sortable 20-char ids, optionally prefixed ("team_", "match_").
type XIDGenerator struct {
	prefix string
}

func NewXIDGenerator(prefix string) *XIDGenerator {
	return &XIDGenerator{prefix: strings.TrimSpace(prefix)}
}

func (g *XIDGenerator) NewID() (string, error) {
	return g.prefix + xid.New().String(), nil
}

// Valid reports whether value is an id this generator could have produced.
func (g *XIDGenerator) Valid(value string) bool {
	raw, ok := strings.CutPrefix(value, g.prefix)
	if !ok {
		return false
	}
	_, err := xid.FromString(raw)
	return err == nil
}
