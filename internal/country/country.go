package country

import (
	"fmt"
	"strings"
)

// Code identifies a storefront country.
type Code string

const (
	Nigeria Code = "nigeria"
	Canada  Code = "canada"
)

// Default is the storefront shown when no preference has been saved.
const Default = Nigeria

// Currency is an ISO 4217 code. Each country maps to exactly one currency.
type Currency string

const (
	NGN Currency = "NGN"
	CAD Currency = "CAD"
)

// Currency returns the canonical currency for the country. The pairing is
// fixed: NGN for nigeria, CAD for canada.
func (c Code) Currency() Currency {
	switch c {
	case Canada:
		return CAD
	default:
		return NGN
	}
}

func (c Code) Valid() bool {
	return c == Nigeria || c == Canada
}

// Parse normalises a raw country value.
func Parse(raw string) (Code, error) {
	code := Code(strings.ToLower(strings.TrimSpace(raw)))
	if !code.Valid() {
		return "", fmt.Errorf("unknown country: %q", raw)
	}
	return code, nil
}

// All lists the available storefront countries.
func All() []Code {
	return []Code{Nigeria, Canada}
}
