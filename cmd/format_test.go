package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/lukman83/autolot/internal/catalog"
	"github.com/lukman83/autolot/internal/financing"
	"github.com/lukman83/autolot/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1.000",
		45000:    "45.000",
		15000000: "15.000.000",
		-1234:    "-1.234",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatNumber(in))
	}
}

func TestCleanURL(t *testing.T) {
	assert.Equal(t, "https://auto.mercadolibre.com.ar/MLA-1-ford-ka",
		cleanURL("https://auto.mercadolibre.com.ar/MLA-1-ford-ka?tracking_id=x#pos"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Ford", truncate("Ford", 10))
	assert.Equal(t, "Volkswa...", truncate("Volkswagen Amarok", 10))
	assert.Equal(t, "Ñan", truncate("Ñandú", 3))
}

func TestPrintListingsTable(t *testing.T) {
	year, km, doors := 2015, 45000, 5
	motor := "1.5"
	price := 12500.0
	var buf bytes.Buffer
	printListingsTable(&buf, []catalog.Listing{catalog.NewListing(models.Vehicle{
		Title: "Ford Ka 2015", Slug: "ford-ka-2015", Price: &price, Currency: models.CurrencyUSD,
		Year: &year, Km: &km, Motor: &motor, Doors: &doors, Permalink: "https://x/MLA1?src=y",
	})})

	out := buf.String()
	assert.Contains(t, out, "1. Ford Ka 2015")
	assert.Contains(t, out, "Price: USD 12.500  |  Year: 2015  |  45.000 km")
	assert.Contains(t, out, "1.5 · 5 puertas")
	assert.Contains(t, out, "/ford-ka-2015  https://x/MLA1")

	buf.Reset()
	printListingsTable(&buf, nil)
	assert.Equal(t, "No vehicles found.\n", buf.String())
}

func TestPrintQuoteTable(t *testing.T) {
	var buf bytes.Buffer
	printQuoteTable(&buf, &financing.Result{
		Price: 15000000, AmountToFinance: 3000000, Modelo: 2013,
		Options: []models.QuoteOption{{Term: 12, Installment: 312345.6, InclusionFee: 15000}},
	})
	out := buf.String()
	assert.Contains(t, out, "Price: $ 15.000.000")
	assert.Contains(t, out, "Model year: 2013")
	assert.Contains(t, out, "$ 312.346")
	assert.Contains(t, out, "$ 15.000")
}

func TestPrintReportTable(t *testing.T) {
	start := time.Date(2026, 10, 8, 3, 0, 0, 0, time.UTC)
	r := &models.AnalyticsReport{
		Start: start, End: start.AddDate(0, 0, 7), Label: "Últimos 7 días",
		Summary: models.ReportSummary{PageViews: 1200, Sessions: 300, WhatsAppClicks: 12},
		Funnel:  models.ReportFunnel{CatalogSessions: 200, VehicleSessions: 80, WhatsAppSessions: 10},
		TopVehicles: []models.VehicleStats{
			{VehicleID: "MLA1", Title: "Ford Ka 2015", Views: 40, WhatsAppClicks: 4, ConvClickRate: 0.1,
				SessionsViewed: 30, SessionsWhatsApp: 3, ConvSessionRate: 0.1},
		},
		Referrers:       []models.ReferrerStats{{Domain: "instagram.com", Sessions: 50, PageViews: 90}},
		WhatsAppByPhone: []models.PhoneStats{{Phone: "5491100000001", Clicks: 12, Sessions: 9}},
	}

	var buf bytes.Buffer
	printReportTable(&buf, r)
	out := buf.String()

	assert.Contains(t, out, "Últimos 7 días  (2026-10-08 00:00 → 2026-10-15 00:00)")
	assert.Contains(t, out, "Sessions 300  |  Page views 1.200")
	assert.Contains(t, out, "catalog 200 → vehicle 80 → WhatsApp 10")
	assert.Contains(t, out, "Ford Ka 2015")
	assert.Contains(t, out, "10.0%")
	assert.Contains(t, out, "instagram.com")
	assert.Contains(t, out, "5491100000001")
}

func TestPrintReportTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	printReportTable(&buf, &models.AnalyticsReport{Label: "Hoy"})
	assert.Contains(t, buf.String(), "No data yet.")
}
