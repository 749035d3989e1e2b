package catalog

import (
	"strings"

	"github.com/lukman83/autolot/internal/models"
)

// Listing is a vehicle as the site shows it.
type Listing struct {
	models.Vehicle
	PriceText string `json:"priceText"`
}

// NewListing attaches the display price to v.
func NewListing(v models.Vehicle) Listing {
	return Listing{Vehicle: v, PriceText: models.PriceText(v.Price, v.Currency)}
}

// Listings converts vehicles for display, keeping only the given brand when it is set.
// Brand matching ignores case and surrounding spaces.
func Listings(vehicles []models.Vehicle, brand string) []Listing {
	brand = strings.TrimSpace(brand)
	out := make([]Listing, 0, len(vehicles))
	for _, v := range vehicles {
		if brand != "" && (v.Brand == nil || !strings.EqualFold(strings.TrimSpace(*v.Brand), brand)) {
			continue
		}
		out = append(out, NewListing(v))
	}
	return out
}
