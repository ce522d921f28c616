package handlers

import (
	"fmt"
	"math"
	"strconv"

	"storefront/internal/country"
)

// formatPrice renders an amount the way the storefront displays it:
// naira amounts as whole numbers with thousands separators, Canadian
// dollar amounts with two decimals.
func formatPrice(amount float64, currency country.Currency) string {
	switch currency {
	case country.NGN:
		return "₦" + groupThousands(int64(math.Round(amount)))
	case country.CAD:
		cents := int64(math.Round(amount * 100))
		whole, frac := cents/100, cents%100
		if frac < 0 {
			frac = -frac
		}
		return fmt.Sprintf("CA$%s.%02d", groupThousands(whole), frac)
	default:
		return fmt.Sprintf("%.2f %s", amount, currency)
	}
}

func groupThousands(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	digits := strconv.FormatInt(n, 10)
	if len(digits) <= 3 {
		return sign + digits
	}

	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	return sign + string(out)
}

func lineTotal(price float64, quantity int) float64 {
	return price * float64(quantity)
}
