package creditcar

import (
	"math"
	"sort"

	"github.com/lukman83/autolot/internal/models"
	"github.com/lukman83/autolot/internal/platform"
)

// AllowedTerms are the only financing terms (months) offered to buyers.
var AllowedTerms = map[int]bool{6: true, 12: true, 18: true, 24: true}

// optionArrays lists the response shapes seen from the provider, most common first.
var optionArrays = []platform.Extractor[[]any]{
	platform.ArrayAt(),
	platform.ArrayAt("quote", "raw"),
	platform.ArrayAt("options"),
	platform.ArrayAt("data"),
	platform.ArrayAt("data", "options"),
	platform.ArrayAt("results"),
	platform.ArrayAt("cuotas"),
	platform.ArrayAt("plans"),
}

var (
	termFields        = platform.Numbers("plazo", "term", "meses", "months")
	installmentFields = platform.Numbers("cuota", "installment", "installmentAmount", "monto_cuota", "valor_cuota")
	feeFields         = platform.Numbers("inclusion", "inclusionFee", "gastos_inclusion", "fee")
)

// NormalizeOptions keeps options with a known term and an installment,
// sorted by term. Pure, so applying it twice gives the same result.
func NormalizeOptions(raw []any) []models.QuoteOption {
	out := make([]models.QuoteOption, 0, len(raw))
	for _, it := range raw {
		term, ok := platform.FirstMatch(it, termFields...)
		if !ok || term != math.Trunc(term) || !AllowedTerms[int(term)] {
			continue
		}
		installment, ok := platform.FirstMatch(it, installmentFields...)
		if !ok {
			continue
		}
		fee, _ := platform.FirstMatch(it, feeFields...)
		out = append(out, models.QuoteOption{
			Term:         int(term),
			Installment:  installment,
			InclusionFee: fee,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Term < out[j].Term })
	return out
}
