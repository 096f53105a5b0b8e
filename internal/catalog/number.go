package catalog

import (
	"github.com/shopspring/decimal"
)

// Number is an exact decimal that encodes as a bare number in both JSON and
// YAML. Price and stock use it so any JSON number in the backing file loads.
type Number struct {
	decimal.Decimal
}

func NewNumber(s string) (Number, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Number{}, err
	}
	return Number{Decimal: d}, nil
}

// MustNumber is NewNumber for literals known to be valid.
func MustNumber(s string) Number {
	return Number{Decimal: decimal.RequireFromString(s)}
}

func NumberFromInt(i int64) Number {
	return Number{Decimal: decimal.NewFromInt(i)}
}

func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalJSON accepts quoted and bare numbers.
func (n *Number) UnmarshalJSON(b []byte) error {
	return n.Decimal.UnmarshalJSON(b)
}

// MarshalYAML hands goccy/go-yaml the literal so it emits a number scalar
// instead of the quoted text form.
func (n Number) MarshalYAML() ([]byte, error) {
	return []byte(n.String()), nil
}
