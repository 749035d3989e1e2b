package store

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/lukman83/autolot/internal/models"
)

// Row caps for the report tables. WhatsApp by phone is unbounded.
const (
	topVehiclesLimit = 20
	sourcesLimit     = 20
	locationsLimit   = 25
	referrersLimit   = 20
)

const (
	evPageView      = "page_view"
	evVehicleView   = "vehicle_view"
	evWhatsAppClick = "whatsapp_click"
	evCallClick     = "call_click"
	evMapsClick     = "maps_click"
	evShareClick    = "share_click"
)

// catalogPathPrefix marks the page views that count as the funnel's first step.
const catalogPathPrefix = "/catalogo"

// finishReport fills vehicle titles from the catalog, computes conversion
// rates and replaces nil tables with empty ones.
func finishReport(r *models.AnalyticsReport, vehicles []models.Vehicle) {
	titles := make(map[string]string, len(vehicles))
	for _, v := range vehicles {
		titles[v.ID] = v.Title
	}
	for i := range r.TopVehicles {
		tv := &r.TopVehicles[i]
		switch {
		case titles[tv.VehicleID] != "":
			tv.Title = titles[tv.VehicleID]
		case tv.Slug != "":
			tv.Title = tv.Slug
		default:
			tv.Title = tv.VehicleID
		}
		tv.ConvClickRate = rate(tv.WhatsAppClicks, tv.Views)
		tv.ConvSessionRate = rate(tv.SessionsWhatsApp, tv.SessionsViewed)
	}

	r.TopVehicles = nonNil(r.TopVehicles)
	r.Sources = nonNil(r.Sources)
	r.Locations = nonNil(r.Locations)
	r.WhatsAppByPhone = nonNil(r.WhatsAppByPhone)
	r.Referrers = nonNil(r.Referrers)
}

func rate(n, d int64) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func capRows[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

type sessionSet map[string]struct{}

func (s sessionSet) add(id *string) {
	if id != nil {
		s[*id] = struct{}{}
	}
}

// foldReport computes the report in process. The SQL and aggregation
// pipelines in the other backends follow the same definitions.
func foldReport(events []models.Event, start, end time.Time) models.AnalyticsReport {
	type vehicleAcc struct {
		stats            models.VehicleStats
		viewed, whatsApp sessionSet
	}
	type sourceKey struct{ source, medium, campaign string }
	type trafficAcc struct {
		pageViews int64
		sessions  sessionSet
	}
	type phoneAcc struct {
		clicks   int64
		sessions sessionSet
	}

	var (
		r           = models.AnalyticsReport{Start: start, End: end}
		allSessions = sessionSet{}
		catalog     = sessionSet{}
		viewed      = sessionSet{}
		whatsApp    = sessionSet{}
		vehicles    = map[string]*vehicleAcc{}
		sources     = map[sourceKey]*trafficAcc{}
		referrers   = map[string]*trafficAcc{}
		locations   = map[string]*models.LocationStats{}
		phones      = map[string]*phoneAcc{}
	)

	for _, ev := range events {
		if ev.CreatedAt.Before(start) || !ev.CreatedAt.Before(end) {
			continue
		}
		allSessions.add(ev.SessionID)

		switch ev.Type {
		case evPageView:
			r.Summary.PageViews++
			if ev.Path != nil && strings.HasPrefix(*ev.Path, catalogPathPrefix) {
				catalog.add(ev.SessionID)
			}
			if ev.UTMSource != nil {
				k := sourceKey{*ev.UTMSource, deref(ev.UTMMedium), deref(ev.UTMCampaign)}
				acc := sources[k]
				if acc == nil {
					acc = &trafficAcc{sessions: sessionSet{}}
					sources[k] = acc
				}
				acc.pageViews++
				acc.sessions.add(ev.SessionID)
			}
			if ev.ReferrerDomain != nil {
				acc := referrers[*ev.ReferrerDomain]
				if acc == nil {
					acc = &trafficAcc{sessions: sessionSet{}}
					referrers[*ev.ReferrerDomain] = acc
				}
				acc.pageViews++
				acc.sessions.add(ev.SessionID)
			}
		case evVehicleView:
			r.Summary.VehicleViews++
			viewed.add(ev.SessionID)
		case evWhatsAppClick:
			r.Summary.WhatsAppClicks++
			whatsApp.add(ev.SessionID)
			if ev.Phone != nil {
				acc := phones[*ev.Phone]
				if acc == nil {
					acc = &phoneAcc{sessions: sessionSet{}}
					phones[*ev.Phone] = acc
				}
				acc.clicks++
				acc.sessions.add(ev.SessionID)
			}
		case evCallClick:
			r.Summary.CallClicks++
		case evMapsClick:
			r.Summary.MapsClicks++
		case evShareClick:
			r.Summary.ShareClicks++
		}

		if ev.VehicleID != nil && (ev.Type == evVehicleView || ev.Type == evWhatsAppClick) {
			acc := vehicles[*ev.VehicleID]
			if acc == nil {
				acc = &vehicleAcc{
					stats:    models.VehicleStats{VehicleID: *ev.VehicleID},
					viewed:   sessionSet{},
					whatsApp: sessionSet{},
				}
				vehicles[*ev.VehicleID] = acc
			}
			if ev.VehicleSlug != nil && *ev.VehicleSlug > acc.stats.Slug {
				acc.stats.Slug = *ev.VehicleSlug
			}
			if ev.Type == evVehicleView {
				acc.stats.Views++
				acc.viewed.add(ev.SessionID)
			} else {
				acc.stats.WhatsAppClicks++
				acc.whatsApp.add(ev.SessionID)
			}
		}

		if ev.Location != nil && isClick(ev.Type) {
			loc := locations[*ev.Location]
			if loc == nil {
				loc = &models.LocationStats{Location: *ev.Location}
				locations[*ev.Location] = loc
			}
			loc.TotalClicks++
			switch ev.Type {
			case evWhatsAppClick:
				loc.WhatsAppClicks++
			case evCallClick:
				loc.CallClicks++
			case evMapsClick:
				loc.MapsClicks++
			case evShareClick:
				loc.ShareClicks++
			}
		}
	}

	r.Summary.Sessions = int64(len(allSessions))
	r.Funnel = models.ReportFunnel{
		CatalogSessions:  int64(len(catalog)),
		VehicleSessions:  int64(len(viewed)),
		WhatsAppSessions: int64(len(whatsApp)),
	}

	for _, acc := range vehicles {
		acc.stats.SessionsViewed = int64(len(acc.viewed))
		acc.stats.SessionsWhatsApp = int64(len(acc.whatsApp))
		r.TopVehicles = append(r.TopVehicles, acc.stats)
	}
	slices.SortFunc(r.TopVehicles, func(a, b models.VehicleStats) int {
		return cmp.Or(
			cmp.Compare(b.Views, a.Views),
			cmp.Compare(b.WhatsAppClicks, a.WhatsAppClicks),
			cmp.Compare(a.VehicleID, b.VehicleID),
		)
	})
	r.TopVehicles = capRows(r.TopVehicles, topVehiclesLimit)

	for k, acc := range sources {
		r.Sources = append(r.Sources, models.SourceStats{
			Source: k.source, Medium: k.medium, Campaign: k.campaign,
			Sessions: int64(len(acc.sessions)), PageViews: acc.pageViews,
		})
	}
	slices.SortFunc(r.Sources, func(a, b models.SourceStats) int {
		return cmp.Or(
			cmp.Compare(b.Sessions, a.Sessions),
			cmp.Compare(b.PageViews, a.PageViews),
			cmp.Compare(a.Source, b.Source),
			cmp.Compare(a.Medium, b.Medium),
			cmp.Compare(a.Campaign, b.Campaign),
		)
	})
	r.Sources = capRows(r.Sources, sourcesLimit)

	for _, loc := range locations {
		r.Locations = append(r.Locations, *loc)
	}
	slices.SortFunc(r.Locations, func(a, b models.LocationStats) int {
		return cmp.Or(cmp.Compare(b.TotalClicks, a.TotalClicks), cmp.Compare(a.Location, b.Location))
	})
	r.Locations = capRows(r.Locations, locationsLimit)

	for phone, acc := range phones {
		r.WhatsAppByPhone = append(r.WhatsAppByPhone, models.PhoneStats{
			Phone: phone, Clicks: acc.clicks, Sessions: int64(len(acc.sessions)),
		})
	}
	slices.SortFunc(r.WhatsAppByPhone, func(a, b models.PhoneStats) int {
		return cmp.Or(cmp.Compare(b.Clicks, a.Clicks), cmp.Compare(a.Phone, b.Phone))
	})

	for domain, acc := range referrers {
		r.Referrers = append(r.Referrers, models.ReferrerStats{
			Domain: domain, Sessions: int64(len(acc.sessions)), PageViews: acc.pageViews,
		})
	}
	slices.SortFunc(r.Referrers, func(a, b models.ReferrerStats) int {
		return cmp.Or(
			cmp.Compare(b.Sessions, a.Sessions),
			cmp.Compare(b.PageViews, a.PageViews),
			cmp.Compare(a.Domain, b.Domain),
		)
	})
	r.Referrers = capRows(r.Referrers, referrersLimit)

	return r
}

func isClick(eventType string) bool {
	switch eventType {
	case evWhatsAppClick, evCallClick, evMapsClick, evShareClick:
		return true
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
