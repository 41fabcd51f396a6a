package order

import (
	"fmt"

	nanoid "github.com/jaevor/go-nanoid"
)

// NumberLength is the number of digits in an order number.
const NumberLength = 5

// NumberGenerator produces random order numbers in 10000..99999.
type NumberGenerator struct {
	lead func() string
	rest func() string
}

// NewNumberGenerator creates a NumberGenerator.
func NewNumberGenerator() (*NumberGenerator, error) {
	lead, err := nanoid.CustomASCII("123456789", 1)
	if err != nil {
		return nil, fmt.Errorf("failed to create order number generator: %w", err)
	}
	rest, err := nanoid.CustomASCII("0123456789", NumberLength-1)
	if err != nil {
		return nil, fmt.Errorf("failed to create order number generator: %w", err)
	}
	return &NumberGenerator{lead: lead, rest: rest}, nil
}

// Next returns a new order number.
func (g *NumberGenerator) Next() string {
	return g.lead() + g.rest()
}

// ValidateNumber checks that s looks like a generated order number.
// A leading "#" is accepted.
func ValidateNumber(s string) (string, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != NumberLength || s[0] == '0' {
		return "", ErrInvalidOrderCode
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", ErrInvalidOrderCode
		}
	}
	return s, nil
}
