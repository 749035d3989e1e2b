package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lukman83/autolot/internal/models"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS vehicles (
		id           text PRIMARY KEY,
		title        text NOT NULL,
		brand        text,
		year         integer,
		price        double precision,
		currency     text NOT NULL DEFAULT 'ARS',
		slug         text NOT NULL,
		permalink    text NOT NULL DEFAULT '',
		pictures     text[] NOT NULL DEFAULT '{}',
		km           integer,
		motor        text,
		transmission text,
		fuel         text,
		doors        integer,
		synced_at    timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS vehicles_slug_idx ON vehicles (slug)`,
	`CREATE TABLE IF NOT EXISTS analytics_events (
		id           uuid PRIMARY KEY,
		event_type   text NOT NULL,
		path         text,
		session_id   text,
		vehicle_id   text,
		vehicle_slug text,
		phone        text,
		location     text,
		referrer     text,
		referrer_domain text,
		utm_source   text,
		utm_medium   text,
		utm_campaign text,
		user_agent   text,
		ip_hash      text,
		meta         jsonb NOT NULL DEFAULT '{}',
		created_at   timestamptz NOT NULL DEFAULT now()
	)`,
	`ALTER TABLE analytics_events ADD COLUMN IF NOT EXISTS referrer_domain text`,
	`CREATE INDEX IF NOT EXISTS analytics_events_created_at_idx ON analytics_events (created_at)`,
}

const upsertVehicleSQL = `
INSERT INTO vehicles
	(id, title, brand, year, price, currency, slug, permalink, pictures,
	 km, motor, transmission, fuel, doors, synced_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
ON CONFLICT (id) DO UPDATE SET
	title        = EXCLUDED.title,
	brand        = EXCLUDED.brand,
	year         = EXCLUDED.year,
	price        = EXCLUDED.price,
	currency     = EXCLUDED.currency,
	slug         = EXCLUDED.slug,
	permalink    = EXCLUDED.permalink,
	pictures     = EXCLUDED.pictures,
	km           = EXCLUDED.km,
	motor        = EXCLUDED.motor,
	transmission = EXCLUDED.transmission,
	fuel         = EXCLUDED.fuel,
	doors        = EXCLUDED.doors,
	synced_at    = EXCLUDED.synced_at`

const vehicleColumns = `id, title, brand, year, price, currency, slug, permalink, pictures,
	km, motor, transmission, fuel, doors, synced_at`

// Postgres is the production store, backed by a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects and pings the database at dsn.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	log.Println("[store] connected to postgres")
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// UpsertVehicles writes all rows in one transaction; any failure rolls back the batch.
func (p *Postgres) UpsertVehicles(ctx context.Context, vehicles []models.Vehicle) error {
	if len(vehicles) == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		b := &pgx.Batch{}
		for _, v := range vehicles {
			pictures := v.Pictures
			if pictures == nil {
				pictures = []string{}
			}
			b.Queue(upsertVehicleSQL,
				v.ID, v.Title, v.Brand, v.Year, v.Price, v.Currency, v.Slug, v.Permalink, pictures,
				v.Km, v.Motor, v.Transmission, v.Fuel, v.Doors, v.SyncedAt,
			)
		}
		br := tx.SendBatch(ctx, b)
		for i := range vehicles {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("upsert %s: %w", vehicles[i].ID, err)
			}
		}
		return br.Close()
	})
}

func (p *Postgres) Vehicles(ctx context.Context) ([]models.Vehicle, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+vehicleColumns+` FROM vehicles ORDER BY title, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// VehicleBySlug returns the most recently synced vehicle with that slug.
func (p *Postgres) VehicleBySlug(ctx context.Context, slug string) (*models.Vehicle, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE slug = $1 ORDER BY synced_at DESC, id LIMIT 1`, slug)
	v, err := scanVehicle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (p *Postgres) InsertEvent(ctx context.Context, ev models.Event) error {
	meta, err := json.Marshal(metaObject(ev.Meta))
	if err != nil {
		return fmt.Errorf("encode meta: %w", err)
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO analytics_events
			(id, event_type, path, session_id, vehicle_id, vehicle_slug, phone, location, referrer,
			 referrer_domain, utm_source, utm_medium, utm_campaign, user_agent, ip_hash, meta, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16::jsonb,$17)`,
		ev.ID, ev.Type, ev.Path, ev.SessionID, ev.VehicleID, ev.VehicleSlug, ev.Phone, ev.Location, ev.Referrer,
		ev.ReferrerDomain, ev.UTMSource, ev.UTMMedium, ev.UTMCampaign, ev.UserAgent, ev.IPHash, string(meta), ev.CreatedAt,
	)
	return err
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func scanVehicle(row pgx.Row) (models.Vehicle, error) {
	var v models.Vehicle
	err := row.Scan(&v.ID, &v.Title, &v.Brand, &v.Year, &v.Price, &v.Currency, &v.Slug, &v.Permalink, &v.Pictures,
		&v.Km, &v.Motor, &v.Transmission, &v.Fuel, &v.Doors, &v.SyncedAt)
	return v, err
}
