package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/lukman83/autolot/internal/models"
	"github.com/lukman83/autolot/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReports struct{}

func (failingReports) AnalyticsReport(context.Context, time.Time, time.Time) (*models.AnalyticsReport, error) {
	return nil, errors.New("timeout")
}

func reportRouter(t *testing.T, key string) (http.Handler, time.Time) {
	t.Helper()
	now := time.Date(2026, 10, 15, 15, 0, 0, 0, time.UTC)
	mem := store.NewMemory()
	ctx := context.Background()
	session := "s1"
	for _, ev := range []models.Event{
		{ID: "1", Type: "page_view", SessionID: &session, CreatedAt: now.Add(-time.Hour)},
		{ID: "2", Type: "page_view", SessionID: &session, CreatedAt: now.AddDate(0, 0, -10)},
	} {
		require.NoError(t, mem.InsertEvent(ctx, ev))
	}
	return NewRouter(Deps{Reports: mem, AdminAPIKey: key, Now: func() time.Time { return now }}), now
}

func TestAdminAnalyticsAuth(t *testing.T) {
	r, _ := reportRouter(t, "admin-secret")

	code, body := do(t, r, http.MethodGet, "/api/admin/analytics", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "unauthorized", body["error"])

	code, _ = do(t, r, http.MethodGet, "/api/admin/analytics", "", "Authorization", "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = do(t, r, http.MethodGet, "/api/admin/analytics", "", "Authorization", "Bearer admin-secret")
	assert.Equal(t, http.StatusOK, code)
}

func TestAdminAnalyticsClosedWithoutKey(t *testing.T) {
	r, _ := reportRouter(t, "")
	code, _ := do(t, r, http.MethodGet, "/api/admin/analytics", "", "Authorization", "Bearer ")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAdminAnalyticsRanges(t *testing.T) {
	r, _ := reportRouter(t, "k")
	auth := []string{"Authorization", "Bearer k"}

	tests := []struct {
		query     string
		label     string
		pageViews float64
	}{
		{"", "Últimos 7 días", 1},
		{"?range=30", "Últimos 30 días", 2},
		{"?range=today", "Hoy", 1},
		{"?from=2026-10-01&to=2026-10-10", "Rango 2026-10-01 → 2026-10-10", 1},
		{"?from=2026-10-14", "Desde 2026-10-14", 1},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			code, body := do(t, r, http.MethodGet, "/api/admin/analytics"+tt.query, "", auth...)
			require.Equal(t, http.StatusOK, code)
			assert.Equal(t, true, body["ok"])

			report := body["report"].(map[string]any)
			assert.Equal(t, tt.label, report["label"])
			summary := report["summary"].(map[string]any)
			assert.Equal(t, tt.pageViews, summary["page_views"])
			assert.Equal(t, []any{}, report["top_vehicles"])
		})
	}
}

func TestAdminAnalyticsFailures(t *testing.T) {
	r := NewRouter(Deps{AdminAPIKey: "k"})
	code, _ := do(t, r, http.MethodGet, "/api/admin/analytics", "", "Authorization", "Bearer k")
	assert.Equal(t, http.StatusInternalServerError, code)

	r = NewRouter(Deps{AdminAPIKey: "k", Reports: failingReports{}})
	code, body := do(t, r, http.MethodGet, "/api/admin/analytics", "", "Authorization", "Bearer k")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "report_failed", body["error"])
}
