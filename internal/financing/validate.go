// Package financing validates quote requests and applies the credit
// provider's business rules before the outbound call.
package financing

import (
	"errors"
	"fmt"
	"math"

	"github.com/lukman83/autolot/internal/platform"
)

const (
	// MaxFinanceRatio is the share of the price that may be financed; the rest is the down payment.
	MaxFinanceRatio = 0.4
	// financeTolerance absorbs floating-point noise in the 40% check.
	financeTolerance = 0.01
	// DefaultFloorYear is the oldest model year the provider quotes.
	DefaultFloorYear = 2013
	// maxAmount is 2^63: amounts that round to it or above do not fit the provider's integer field.
	maxAmount = 1 << 63
)

var (
	ErrInvalidPrice  = errors.New("price must be a number greater than zero")
	ErrInvalidAmount = errors.New("amount to finance must be a number not below zero")
)

// LimitError rejects a request that finances more than MaxFinanceRatio of the price.
type LimitError struct {
	MaxFinance     float64
	MinDownPayment float64
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("amount exceeds the financing limit: max %.2f, min down payment %.2f", e.MaxFinance, e.MinDownPayment)
}

// yearFields are the request keys that may carry the model year, in priority order.
var yearFields = platform.Numbers("modelo", "year", "anio", "año", "modelYear", "vehicleYear")

// Request is a validated quote request.
type Request struct {
	Price           float64
	AmountToFinance float64
	Year            int
}

// FinanceAmount is the integer amount sent to the provider.
func (r Request) FinanceAmount() int64 {
	return int64(math.Round(r.AmountToFinance))
}

// Validate coerces and checks body. Rules run in order and the first failure is returned.
func Validate(body map[string]any, floorYear int) (Request, error) {
	price, ok := platform.AsNumber(body["price"])
	if !ok || price <= 0 {
		return Request{}, ErrInvalidPrice
	}
	amount, ok := platform.AsNumber(body["amountToFinance"])
	if !ok || amount < 0 || math.Round(amount) >= maxAmount {
		return Request{}, ErrInvalidAmount
	}

	maxFinance := price * MaxFinanceRatio
	if amount > maxFinance+financeTolerance {
		return Request{}, &LimitError{MaxFinance: maxFinance, MinDownPayment: price - maxFinance}
	}

	return Request{
		Price:           price,
		AmountToFinance: amount,
		Year:            AdjustYear(body, floorYear),
	}, nil
}

// AdjustYear reads the model year from any known field and raises it to floorYear.
// A missing or unreadable year counts as floorYear.
func AdjustYear(body map[string]any, floorYear int) int {
	if floorYear <= 0 {
		floorYear = DefaultFloorYear
	}
	raw, ok := platform.FirstMatch[float64](body, yearFields...)
	if !ok {
		return floorYear
	}
	return max(int(math.Round(raw)), floorYear)
}
