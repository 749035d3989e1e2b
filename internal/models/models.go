package models

import (
	"encoding/json"
	"time"
)

// Vehicle is one catalog entry, keyed by the marketplace item ID.
// Nil pointer fields mean the marketplace did not supply the attribute.
type Vehicle struct {
	ID           string    `json:"id" bson:"_id"`
	Title        string    `json:"title" bson:"title"`
	Brand        *string   `json:"brand" bson:"brand"`
	Year         *int      `json:"year" bson:"year"`
	Price        *float64  `json:"price" bson:"price"`
	Currency     string    `json:"currency" bson:"currency"`
	Slug         string    `json:"slug" bson:"slug"`
	Permalink    string    `json:"permalink" bson:"permalink"`
	Pictures     []string  `json:"pictures" bson:"pictures"`
	Km           *int      `json:"km" bson:"km"`
	Motor        *string   `json:"motor" bson:"motor"`
	Transmission *string   `json:"transmission" bson:"transmission"`
	Fuel         *string   `json:"fuel" bson:"fuel"`
	Doors        *int      `json:"doors" bson:"doors"`
	SyncedAt     time.Time `json:"synced_at" bson:"synced_at"`
}

// QuoteOption is one financing plan offered by the credit provider.
type QuoteOption struct {
	Term         int     `json:"term"`
	Installment  float64 `json:"installment"`
	InclusionFee float64 `json:"inclusionFee"`
}

// Event is a single analytics hit recorded from the public site.
type Event struct {
	ID             string          `json:"id" bson:"_id"`
	Type           string          `json:"event_type" bson:"event_type"`
	Path           *string         `json:"path" bson:"path"`
	SessionID      *string         `json:"session_id" bson:"session_id"`
	VehicleID      *string         `json:"vehicle_id" bson:"vehicle_id"`
	VehicleSlug    *string         `json:"vehicle_slug" bson:"vehicle_slug"`
	Phone          *string         `json:"phone" bson:"phone"`
	Location       *string         `json:"location" bson:"location"`
	Referrer       *string         `json:"referrer" bson:"referrer"`
	// ReferrerDomain is the referrer's host without "www.", derived at intake.
	ReferrerDomain *string         `json:"referrer_domain" bson:"referrer_domain"`
	UTMSource      *string         `json:"utm_source" bson:"utm_source"`
	UTMMedium      *string         `json:"utm_medium" bson:"utm_medium"`
	UTMCampaign    *string         `json:"utm_campaign" bson:"utm_campaign"`
	UserAgent      *string         `json:"user_agent" bson:"user_agent"`
	IPHash         *string         `json:"ip_hash" bson:"ip_hash"`
	Meta           json.RawMessage `json:"meta" bson:"-"`
	CreatedAt      time.Time       `json:"created_at" bson:"created_at"`
}
