package store

import (
	"context"
	"fmt"
	"time"

	"github.com/lukman83/autolot/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

type reportFacets struct {
	Summary []struct {
		models.ReportSummary `bson:",inline"`
		models.ReportFunnel  `bson:",inline"`
	} `bson:"summary"`
	TopVehicles     []models.VehicleStats  `bson:"top_vehicles"`
	Sources         []models.SourceStats   `bson:"sources"`
	Locations       []models.LocationStats `bson:"locations"`
	WhatsAppByPhone []models.PhoneStats    `bson:"whatsapp_by_phone"`
	Referrers       []models.ReferrerStats `bson:"referrers"`
}

// AnalyticsReport runs one $facet aggregation over the window.
func (m *Mongo) AnalyticsReport(ctx context.Context, start, end time.Time) (*models.AnalyticsReport, error) {
	pipeline := bson.A{
		bson.M{"$match": bson.M{"created_at": bson.M{"$gte": start, "$lt": end}}},
		bson.M{"$facet": bson.M{
			"summary":           summaryFacet(),
			"top_vehicles":      topVehiclesFacet(),
			"sources":           sourcesFacet(),
			"locations":         locationsFacet(),
			"whatsapp_by_phone": phonesFacet(),
			"referrers":         referrersFacet(),
		}},
	}
	cur, err := m.events.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("report aggregate: %w", err)
	}
	var facets []reportFacets
	if err := cur.All(ctx, &facets); err != nil {
		return nil, fmt.Errorf("report decode: %w", err)
	}

	r := &models.AnalyticsReport{Start: start, End: end}
	if len(facets) > 0 {
		f := facets[0]
		if len(f.Summary) > 0 {
			r.Summary = f.Summary[0].ReportSummary
			r.Funnel = f.Summary[0].ReportFunnel
		}
		r.TopVehicles = f.TopVehicles
		r.Sources = f.Sources
		r.Locations = f.Locations
		r.WhatsAppByPhone = f.WhatsAppByPhone
		r.Referrers = f.Referrers
	}

	vehicles, err := m.Vehicles(ctx)
	if err != nil {
		return nil, err
	}
	finishReport(r, vehicles)
	return r, nil
}

func isType(t string) bson.M {
	return bson.M{"$eq": bson.A{"$event_type", t}}
}

func countIf(cond bson.M) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{cond, 1, 0}}}
}

// sessionsIf collects session ids of matching events. Non-matching events
// contribute null, which distinct drops along with null session ids.
func sessionsIf(cond bson.M) bson.M {
	return bson.M{"$addToSet": bson.M{"$cond": bson.A{cond, "$session_id", nil}}}
}

func distinct(field string) bson.M {
	return bson.M{"$size": bson.M{"$setDifference": bson.A{"$" + field, bson.A{nil}}}}
}

func summaryFacet() bson.A {
	catalogView := bson.M{"$and": bson.A{
		isType(evPageView),
		bson.M{"$regexMatch": bson.M{
			"input": bson.M{"$ifNull": bson.A{"$path", ""}},
			"regex": "^" + catalogPathPrefix,
		}},
	}}
	return bson.A{
		bson.M{"$group": bson.M{
			"_id":             nil,
			"page_views":      countIf(isType(evPageView)),
			"vehicle_views":   countIf(isType(evVehicleView)),
			"whatsapp_clicks": countIf(isType(evWhatsAppClick)),
			"call_clicks":     countIf(isType(evCallClick)),
			"maps_clicks":     countIf(isType(evMapsClick)),
			"share_clicks":    countIf(isType(evShareClick)),
			"sessions":        bson.M{"$addToSet": "$session_id"},
			"catalog":         sessionsIf(catalogView),
			"vehicle":         sessionsIf(isType(evVehicleView)),
			"whatsapp":        sessionsIf(isType(evWhatsAppClick)),
		}},
		bson.M{"$project": bson.M{
			"_id":               0,
			"page_views":        1,
			"vehicle_views":     1,
			"whatsapp_clicks":   1,
			"call_clicks":       1,
			"maps_clicks":       1,
			"share_clicks":      1,
			"sessions":          distinct("sessions"),
			"catalog_sessions":  distinct("catalog"),
			"vehicle_sessions":  distinct("vehicle"),
			"whatsapp_sessions": distinct("whatsapp"),
		}},
	}
}

func topVehiclesFacet() bson.A {
	return bson.A{
		bson.M{"$match": bson.M{
			"vehicle_id": bson.M{"$ne": nil},
			"event_type": bson.M{"$in": bson.A{evVehicleView, evWhatsAppClick}},
		}},
		bson.M{"$group": bson.M{
			"_id":             "$vehicle_id",
			"slug":            bson.M{"$max": "$vehicle_slug"},
			"views":           countIf(isType(evVehicleView)),
			"whatsapp_clicks": countIf(isType(evWhatsAppClick)),
			"viewed":          sessionsIf(isType(evVehicleView)),
			"whatsapp":        sessionsIf(isType(evWhatsAppClick)),
		}},
		bson.M{"$project": bson.M{
			"_id":               0,
			"vehicle_id":        "$_id",
			"slug":              bson.M{"$ifNull": bson.A{"$slug", ""}},
			"views":             1,
			"whatsapp_clicks":   1,
			"sessions_viewed":   distinct("viewed"),
			"sessions_whatsapp": distinct("whatsapp"),
		}},
		bson.M{"$sort": bson.D{{Key: "views", Value: -1}, {Key: "whatsapp_clicks", Value: -1}, {Key: "vehicle_id", Value: 1}}},
		bson.M{"$limit": topVehiclesLimit},
	}
}

func sourcesFacet() bson.A {
	return bson.A{
		bson.M{"$match": bson.M{"event_type": evPageView, "utm_source": bson.M{"$ne": nil}}},
		bson.M{"$group": bson.M{
			"_id": bson.M{
				"source":   "$utm_source",
				"medium":   bson.M{"$ifNull": bson.A{"$utm_medium", ""}},
				"campaign": bson.M{"$ifNull": bson.A{"$utm_campaign", ""}},
			},
			"page_views": bson.M{"$sum": 1},
			"sessions":   bson.M{"$addToSet": "$session_id"},
		}},
		bson.M{"$project": bson.M{
			"_id":          0,
			"utm_source":   "$_id.source",
			"utm_medium":   "$_id.medium",
			"utm_campaign": "$_id.campaign",
			"page_views":   1,
			"sessions":     distinct("sessions"),
		}},
		bson.M{"$sort": bson.D{
			{Key: "sessions", Value: -1}, {Key: "page_views", Value: -1},
			{Key: "utm_source", Value: 1}, {Key: "utm_medium", Value: 1}, {Key: "utm_campaign", Value: 1},
		}},
		bson.M{"$limit": sourcesLimit},
	}
}

func locationsFacet() bson.A {
	return bson.A{
		bson.M{"$match": bson.M{
			"location":   bson.M{"$ne": nil},
			"event_type": bson.M{"$in": bson.A{evWhatsAppClick, evCallClick, evMapsClick, evShareClick}},
		}},
		bson.M{"$group": bson.M{
			"_id":             "$location",
			"total_clicks":    bson.M{"$sum": 1},
			"whatsapp_clicks": countIf(isType(evWhatsAppClick)),
			"call_clicks":     countIf(isType(evCallClick)),
			"maps_clicks":     countIf(isType(evMapsClick)),
			"share_clicks":    countIf(isType(evShareClick)),
		}},
		bson.M{"$set": bson.M{"location": "$_id"}},
		bson.M{"$unset": "_id"},
		bson.M{"$sort": bson.D{{Key: "total_clicks", Value: -1}, {Key: "location", Value: 1}}},
		bson.M{"$limit": locationsLimit},
	}
}

func phonesFacet() bson.A {
	return bson.A{
		bson.M{"$match": bson.M{"event_type": evWhatsAppClick, "phone": bson.M{"$ne": nil}}},
		bson.M{"$group": bson.M{
			"_id":      "$phone",
			"clicks":   bson.M{"$sum": 1},
			"sessions": bson.M{"$addToSet": "$session_id"},
		}},
		bson.M{"$project": bson.M{"_id": 0, "phone": "$_id", "clicks": 1, "sessions": distinct("sessions")}},
		bson.M{"$sort": bson.D{{Key: "clicks", Value: -1}, {Key: "phone", Value: 1}}},
	}
}

func referrersFacet() bson.A {
	return bson.A{
		bson.M{"$match": bson.M{"event_type": evPageView, "referrer_domain": bson.M{"$ne": nil}}},
		bson.M{"$group": bson.M{
			"_id":        "$referrer_domain",
			"page_views": bson.M{"$sum": 1},
			"sessions":   bson.M{"$addToSet": "$session_id"},
		}},
		bson.M{"$project": bson.M{
			"_id": 0, "referrer_domain": "$_id", "page_views": 1, "sessions": distinct("sessions"),
		}},
		bson.M{"$sort": bson.D{{Key: "sessions", Value: -1}, {Key: "page_views", Value: -1}, {Key: "referrer_domain", Value: 1}}},
		bson.M{"$limit": referrersLimit},
	}
}
