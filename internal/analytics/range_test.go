package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRange(t *testing.T) {
	// 01:30 UTC is still the previous evening in Argentina.
	now := time.Date(2026, 10, 15, 1, 30, 0, 0, time.UTC)
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, Argentina)
	}

	tests := []struct {
		name      string
		rangeRaw  string
		from, to  string
		wantStart time.Time
		wantEnd   time.Time
		wantLabel string
	}{
		{"default", "", "", "", now.AddDate(0, 0, -7), now, "Últimos 7 días"},
		{"days", "30", "", "", now.AddDate(0, 0, -30), now, "Últimos 30 días"},
		{"zero days", "0", "", "", now.AddDate(0, 0, -7), now, "Últimos 7 días"},
		{"negative days", "-3", "", "", now.AddDate(0, 0, -7), now, "Últimos 7 días"},
		{"garbage", "week", "", "", now.AddDate(0, 0, -7), now, "Últimos 7 días"},
		{"today in argentina", "today", "", "", day(2026, 10, 14), now, "Hoy"},
		{"from and to", "30", "2026-10-01", "2026-10-10", day(2026, 10, 1), day(2026, 10, 11), "Rango 2026-10-01 → 2026-10-10"},
		{"from only", "", "2026-10-01", "", day(2026, 10, 1), now, "Desde 2026-10-01"},
		{"to only", "", "", "2026-10-10", now.AddDate(0, 0, -7), day(2026, 10, 11), "Hasta 2026-10-10"},
		{"invalid from", "", "10/01/2026", "2026-10-10", now.AddDate(0, 0, -7), day(2026, 10, 11), "Rango 10/01/2026 → 2026-10-10"},
		{"impossible date", "", "2026-02-30", "", now.AddDate(0, 0, -7), now, "Desde 2026-02-30"},
		{"month end", "", "", "2026-12-31", now.AddDate(0, 0, -7), day(2027, 1, 1), "Hasta 2026-12-31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ParseRange(tt.rangeRaw, tt.from, tt.to, now)
			assert.True(t, tt.wantStart.Equal(r.Start), "start: want %v got %v", tt.wantStart, r.Start)
			assert.True(t, tt.wantEnd.Equal(r.End), "end: want %v got %v", tt.wantEnd, r.End)
			assert.Equal(t, tt.wantLabel, r.Label)
		})
	}
}

func TestParseRangeFromIsArgentineMidnight(t *testing.T) {
	r := ParseRange("", "2026-10-01", "", time.Now())
	assert.Equal(t, time.Date(2026, 10, 1, 3, 0, 0, 0, time.UTC), r.Start.UTC())
}
