// Package catalog runs the marketplace → store synchronization job.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lukman83/autolot/internal/meli"
	"github.com/lukman83/autolot/internal/models"
	"github.com/lukman83/autolot/internal/platform"
	"golang.org/x/sync/singleflight"
)

// Marketplace is the listing source the sync reads from.
type Marketplace interface {
	ActiveListingIDs(ctx context.Context, sellerID string) ([]string, error)
	Items(ctx context.Context, ids []string) ([]meli.Item, error)
}

// Writer persists normalized vehicles.
type Writer interface {
	UpsertVehicles(ctx context.Context, vehicles []models.Vehicle) error
}

// Result summarizes one sync run.
type Result struct {
	Count int `json:"count"`
}

// Syncer mirrors a seller's active listings into the store.
type Syncer struct {
	market   Marketplace
	store    Writer
	sellerID string
	now      func() time.Time
	group    singleflight.Group
}

func NewSyncer(market Marketplace, store Writer, sellerID string) (*Syncer, error) {
	if market == nil || store == nil {
		return nil, errors.New("catalog: marketplace and store are required")
	}
	if sellerID == "" {
		return nil, errors.New("catalog: seller id is required")
	}
	return &Syncer{market: market, store: store, sellerID: sellerID, now: time.Now}, nil
}

// Run performs one full sync. Triggers that arrive while a run is in flight
// in this process wait for it and share its result. The shared run is
// detached from the caller's cancellation; a caller whose ctx ends stops
// waiting without aborting the run for everyone else.
func (s *Syncer) Run(ctx context.Context) (Result, error) {
	ch := s.group.DoChan("sync", func() (any, error) {
		return s.run(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case res := <-ch:
		if res.Shared {
			log.Printf("[sync] joined in-flight run")
		}
		if res.Err != nil {
			return Result{}, res.Err
		}
		return res.Val.(Result), nil
	}
}

func (s *Syncer) run(ctx context.Context) (Result, error) {
	start := s.now()

	ids, err := s.market.ActiveListingIDs(ctx, s.sellerID)
	if err != nil {
		return Result{}, fmt.Errorf("fetch listings: %w", err)
	}
	if len(ids) == 0 {
		log.Printf("[sync] seller %s has no active listings", s.sellerID)
		return Result{Count: 0}, nil
	}

	items, err := s.market.Items(ctx, ids)
	if err != nil {
		return Result{}, fmt.Errorf("fetch items: %w", err)
	}

	vehicles := make([]models.Vehicle, 0, len(items))
	for _, it := range items {
		vehicles = append(vehicles, meli.Normalize(it, start))
	}

	platform.ReportProgress(ctx, "Saving %d vehicles...", len(vehicles))
	if err := s.store.UpsertVehicles(ctx, vehicles); err != nil {
		return Result{}, fmt.Errorf("upsert vehicles: %w", err)
	}

	log.Printf("[sync] ids=%d items=%d upserted=%d duration=%s",
		len(ids), len(items), len(vehicles), time.Since(start).Round(time.Millisecond))
	return Result{Count: len(vehicles)}, nil
}
