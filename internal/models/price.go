package models

import (
	"math"
	"strconv"
	"strings"
)

const (
	CurrencyARS = "ARS"
	CurrencyUSD = "USD"
)

// usdCeiling is the legacy cutoff: listings priced below it were published in dollars.
const usdCeiling = 1_000_000

// CurrencyFromPrice guesses the currency of a listing that carries none.
// Only used for rows the marketplace did not tag with a currency.
func CurrencyFromPrice(price *float64) string {
	if price != nil && *price > 0 && *price < usdCeiling {
		return CurrencyUSD
	}
	return CurrencyARS
}

// PriceText formats a price for display, e.g. "USD 12.500" or "$ 15.000.000".
func PriceText(price *float64, currency string) string {
	if price == nil {
		return "Consultar"
	}
	if currency == "" {
		currency = CurrencyFromPrice(price)
	}
	n := groupThousands(int64(math.Round(*price)))
	if currency == CurrencyUSD {
		return "USD " + n
	}
	return "$ " + n
}

func groupThousands(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return sign + s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return sign + strings.Join(parts, ".")
}
