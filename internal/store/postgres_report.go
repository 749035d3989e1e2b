package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lukman83/autolot/internal/models"
	"golang.org/x/sync/errgroup"
)

// Every report query takes $1 = start, $2 = end. Tie-breaks use the "C"
// collation so ordering is bytewise on every backend.
const (
	reportWindow = `created_at >= $1 AND created_at < $2`

	summarySQL = `
SELECT
	count(*) FILTER (WHERE event_type = 'page_view'),
	count(*) FILTER (WHERE event_type = 'vehicle_view'),
	count(*) FILTER (WHERE event_type = 'whatsapp_click'),
	count(*) FILTER (WHERE event_type = 'call_click'),
	count(*) FILTER (WHERE event_type = 'maps_click'),
	count(*) FILTER (WHERE event_type = 'share_click'),
	count(DISTINCT session_id),
	count(DISTINCT session_id) FILTER (WHERE event_type = 'page_view' AND path LIKE '` + catalogPathPrefix + `%'),
	count(DISTINCT session_id) FILTER (WHERE event_type = 'vehicle_view'),
	count(DISTINCT session_id) FILTER (WHERE event_type = 'whatsapp_click')
FROM analytics_events
WHERE ` + reportWindow

	topVehiclesSQL = `
SELECT
	vehicle_id,
	coalesce(max(vehicle_slug COLLATE "C"), ''),
	count(*) FILTER (WHERE event_type = 'vehicle_view') AS views,
	count(*) FILTER (WHERE event_type = 'whatsapp_click') AS whatsapp,
	count(DISTINCT session_id) FILTER (WHERE event_type = 'vehicle_view'),
	count(DISTINCT session_id) FILTER (WHERE event_type = 'whatsapp_click')
FROM analytics_events
WHERE ` + reportWindow + `
	AND vehicle_id IS NOT NULL
	AND event_type IN ('vehicle_view', 'whatsapp_click')
GROUP BY vehicle_id
ORDER BY views DESC, whatsapp DESC, vehicle_id COLLATE "C"
LIMIT $3`

	sourcesSQL = `
SELECT
	utm_source,
	coalesce(utm_medium, ''),
	coalesce(utm_campaign, ''),
	count(DISTINCT session_id) AS sessions,
	count(*) AS page_views
FROM analytics_events
WHERE ` + reportWindow + `
	AND event_type = 'page_view'
	AND utm_source IS NOT NULL
GROUP BY utm_source, coalesce(utm_medium, ''), coalesce(utm_campaign, '')
ORDER BY sessions DESC, page_views DESC,
	utm_source COLLATE "C", coalesce(utm_medium, '') COLLATE "C", coalesce(utm_campaign, '') COLLATE "C"
LIMIT $3`

	locationsSQL = `
SELECT
	location,
	count(*) AS total,
	count(*) FILTER (WHERE event_type = 'whatsapp_click'),
	count(*) FILTER (WHERE event_type = 'call_click'),
	count(*) FILTER (WHERE event_type = 'maps_click'),
	count(*) FILTER (WHERE event_type = 'share_click')
FROM analytics_events
WHERE ` + reportWindow + `
	AND location IS NOT NULL
	AND event_type IN ('whatsapp_click', 'call_click', 'maps_click', 'share_click')
GROUP BY location
ORDER BY total DESC, location COLLATE "C"
LIMIT $3`

	phonesSQL = `
SELECT phone, count(*) AS clicks, count(DISTINCT session_id)
FROM analytics_events
WHERE ` + reportWindow + `
	AND event_type = 'whatsapp_click'
	AND phone IS NOT NULL
GROUP BY phone
ORDER BY clicks DESC, phone COLLATE "C"`

	referrersSQL = `
SELECT referrer_domain, count(DISTINCT session_id) AS sessions, count(*) AS page_views
FROM analytics_events
WHERE ` + reportWindow + `
	AND event_type = 'page_view'
	AND referrer_domain IS NOT NULL
GROUP BY referrer_domain
ORDER BY sessions DESC, page_views DESC, referrer_domain COLLATE "C"
LIMIT $3`
)

// AnalyticsReport runs the report queries concurrently on the pool.
func (p *Postgres) AnalyticsReport(ctx context.Context, start, end time.Time) (*models.AnalyticsReport, error) {
	r := &models.AnalyticsReport{Start: start, End: end}
	var vehicles []models.Vehicle

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := p.pool.QueryRow(ctx, summarySQL, start, end).Scan(
			&r.Summary.PageViews, &r.Summary.VehicleViews, &r.Summary.WhatsAppClicks,
			&r.Summary.CallClicks, &r.Summary.MapsClicks, &r.Summary.ShareClicks, &r.Summary.Sessions,
			&r.Funnel.CatalogSessions, &r.Funnel.VehicleSessions, &r.Funnel.WhatsAppSessions,
		)
		if err != nil {
			return fmt.Errorf("report summary: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		r.TopVehicles, err = queryRows(ctx, p, "top vehicles", topVehiclesSQL,
			func(row pgx.CollectableRow) (models.VehicleStats, error) {
				var v models.VehicleStats
				err := row.Scan(&v.VehicleID, &v.Slug, &v.Views, &v.WhatsAppClicks, &v.SessionsViewed, &v.SessionsWhatsApp)
				return v, err
			}, start, end, topVehiclesLimit)
		return err
	})
	g.Go(func() (err error) {
		r.Sources, err = queryRows(ctx, p, "sources", sourcesSQL,
			pgx.RowToStructByPos[models.SourceStats], start, end, sourcesLimit)
		return err
	})
	g.Go(func() (err error) {
		r.Locations, err = queryRows(ctx, p, "locations", locationsSQL,
			pgx.RowToStructByPos[models.LocationStats], start, end, locationsLimit)
		return err
	})
	g.Go(func() (err error) {
		r.WhatsAppByPhone, err = queryRows(ctx, p, "whatsapp by phone", phonesSQL,
			pgx.RowToStructByPos[models.PhoneStats], start, end)
		return err
	})
	g.Go(func() (err error) {
		r.Referrers, err = queryRows(ctx, p, "referrers", referrersSQL,
			pgx.RowToStructByPos[models.ReferrerStats], start, end, referrersLimit)
		return err
	})
	g.Go(func() (err error) {
		vehicles, err = p.Vehicles(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	finishReport(r, vehicles)
	return r, nil
}

func queryRows[T any](ctx context.Context, p *Postgres, name, sql string, fn pgx.RowToFunc[T], args ...any) ([]T, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", name, err)
	}
	out, err := pgx.CollectRows(rows, fn)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", name, err)
	}
	return out, nil
}
