package models

import "time"

// AnalyticsReport aggregates the events recorded in [Start, End).
type AnalyticsReport struct {
	Start           time.Time       `json:"start" bson:"start"`
	End             time.Time       `json:"end" bson:"end"`
	Label           string          `json:"label" bson:"label"`
	Summary         ReportSummary   `json:"summary" bson:"summary"`
	Funnel          ReportFunnel    `json:"funnel" bson:"funnel"`
	TopVehicles     []VehicleStats  `json:"top_vehicles" bson:"top_vehicles"`
	Sources         []SourceStats   `json:"sources" bson:"sources"`
	Locations       []LocationStats `json:"locations" bson:"locations"`
	WhatsAppByPhone []PhoneStats    `json:"whatsapp_by_phone" bson:"whatsapp_by_phone"`
	Referrers       []ReferrerStats `json:"referrers" bson:"referrers"`
}

type ReportSummary struct {
	PageViews      int64 `json:"page_views" bson:"page_views"`
	VehicleViews   int64 `json:"vehicle_views" bson:"vehicle_views"`
	WhatsAppClicks int64 `json:"whatsapp_clicks" bson:"whatsapp_clicks"`
	CallClicks     int64 `json:"call_clicks" bson:"call_clicks"`
	MapsClicks     int64 `json:"maps_clicks" bson:"maps_clicks"`
	ShareClicks    int64 `json:"share_clicks" bson:"share_clicks"`
	Sessions       int64 `json:"sessions" bson:"sessions"`
}

// ReportFunnel counts distinct sessions at each step: catalog, vehicle page, WhatsApp.
type ReportFunnel struct {
	CatalogSessions  int64 `json:"catalog_sessions" bson:"catalog_sessions"`
	VehicleSessions  int64 `json:"vehicle_sessions" bson:"vehicle_sessions"`
	WhatsAppSessions int64 `json:"whatsapp_sessions" bson:"whatsapp_sessions"`
}

type VehicleStats struct {
	VehicleID        string  `json:"vehicle_id" bson:"vehicle_id"`
	Slug             string  `json:"slug" bson:"slug"`
	Title            string  `json:"title" bson:"title"`
	Views            int64   `json:"views" bson:"views"`
	WhatsAppClicks   int64   `json:"whatsapp_clicks" bson:"whatsapp_clicks"`
	ConvClickRate    float64 `json:"conv_click_rate" bson:"conv_click_rate"`
	SessionsViewed   int64   `json:"sessions_viewed" bson:"sessions_viewed"`
	SessionsWhatsApp int64   `json:"sessions_whatsapp" bson:"sessions_whatsapp"`
	ConvSessionRate  float64 `json:"conv_session_rate" bson:"conv_session_rate"`
}

type SourceStats struct {
	Source    string `json:"utm_source" bson:"utm_source"`
	Medium    string `json:"utm_medium" bson:"utm_medium"`
	Campaign  string `json:"utm_campaign" bson:"utm_campaign"`
	Sessions  int64  `json:"sessions" bson:"sessions"`
	PageViews int64  `json:"page_views" bson:"page_views"`
}

type LocationStats struct {
	Location       string `json:"location" bson:"location"`
	TotalClicks    int64  `json:"total_clicks" bson:"total_clicks"`
	WhatsAppClicks int64  `json:"whatsapp_clicks" bson:"whatsapp_clicks"`
	CallClicks     int64  `json:"call_clicks" bson:"call_clicks"`
	MapsClicks     int64  `json:"maps_clicks" bson:"maps_clicks"`
	ShareClicks    int64  `json:"share_clicks" bson:"share_clicks"`
}

type PhoneStats struct {
	Phone    string `json:"phone" bson:"phone"`
	Clicks   int64  `json:"clicks" bson:"clicks"`
	Sessions int64  `json:"sessions" bson:"sessions"`
}

type ReferrerStats struct {
	Domain    string `json:"referrer_domain" bson:"referrer_domain"`
	Sessions  int64  `json:"sessions" bson:"sessions"`
	PageViews int64  `json:"page_views" bson:"page_views"`
}
