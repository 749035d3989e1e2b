package platform

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// AsNumber coerces a JSON value to a finite float64. Strings may carry
// currency symbols and either "1.234,56" or "1234.56" separators.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return 0, false
		}
		return finite(f)
	case string:
		return parseLooseNumber(n)
	default:
		return 0, false
	}
}

// NumberAt returns an extractor that coerces the value under key with AsNumber.
func NumberAt(key string) Extractor[float64] {
	return func(v any) (float64, bool) {
		raw, ok := Lookup(v, key)
		if !ok {
			return 0, false
		}
		return AsNumber(raw)
	}
}

// Numbers builds one NumberAt extractor per candidate key, in priority order.
func Numbers(keys ...string) []Extractor[float64] {
	out := make([]Extractor[float64], len(keys))
	for i, k := range keys {
		out[i] = NumberAt(k)
	}
	return out
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseLooseNumber(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	dots := strings.Count(cleaned, ".")
	commas := strings.Count(cleaned, ",")
	switch {
	case dots > 0 && commas > 0:
		// The separator that appears last is the decimal one.
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case commas == 1:
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case commas > 1:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case dots > 1:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}
