package cmd

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/lukman83/autolot/internal/analytics"
	"github.com/lukman83/autolot/internal/catalog"
	"github.com/lukman83/autolot/internal/financing"
	"github.com/lukman83/autolot/internal/models"
)

// printListingsTable prints vehicles in a human-friendly card layout.
func printListingsTable(w io.Writer, listings []catalog.Listing) {
	if len(listings) == 0 {
		fmt.Fprintln(w, "No vehicles found.")
		return
	}
	for i, l := range listings {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, " %d. %s\n", i+1, truncate(l.Title, 70))

		line := "    Price: " + l.PriceText
		if l.Year != nil {
			line += fmt.Sprintf("  |  Year: %d", *l.Year)
		}
		if l.Km != nil {
			line += "  |  " + formatNumber(int64(*l.Km)) + " km"
		}
		fmt.Fprintln(w, line)

		var specs []string
		for _, s := range []*string{l.Motor, l.Transmission, l.Fuel} {
			if s != nil {
				specs = append(specs, *s)
			}
		}
		if l.Doors != nil {
			specs = append(specs, fmt.Sprintf("%d puertas", *l.Doors))
		}
		if len(specs) > 0 {
			fmt.Fprintf(w, "    %s\n", strings.Join(specs, " · "))
		}
		fmt.Fprintf(w, "    /%s  %s\n", l.Slug, cleanURL(l.Permalink))
	}
}

// printQuoteTable prints the financing options one term per line.
func printQuoteTable(w io.Writer, res *financing.Result) {
	price := res.Price
	fmt.Fprintf(w, "Price: %s  |  Financed: %s  |  Model year: %d\n\n",
		models.PriceText(&price, models.CurrencyARS), "$ "+formatNumber(int64(res.AmountToFinance+0.5)), res.Modelo)

	if len(res.Options) == 0 {
		fmt.Fprintln(w, "No financing options returned.")
		if res.RawText != "" {
			fmt.Fprintf(w, "Provider said: %s\n", truncate(res.RawText, 200))
		}
		return
	}
	fmt.Fprintf(w, " %-8s %16s %16s\n", "Term", "Installment", "Inclusion fee")
	for _, o := range res.Options {
		fmt.Fprintf(w, " %-8s %16s %16s\n",
			fmt.Sprintf("%d m", o.Term), "$ "+formatNumber(int64(o.Installment+0.5)), "$ "+formatNumber(int64(o.InclusionFee+0.5)))
	}
}

// printReportTable prints the analytics report section by section.
func printReportTable(w io.Writer, r *models.AnalyticsReport) {
	fmt.Fprintf(w, "%s  (%s → %s)\n\n", r.Label,
		r.Start.In(analytics.Argentina).Format("2006-01-02 15:04"),
		r.End.In(analytics.Argentina).Format("2006-01-02 15:04"))

	s := r.Summary
	fmt.Fprintf(w, " Sessions %s  |  Page views %s  |  Vehicle views %s\n",
		formatNumber(s.Sessions), formatNumber(s.PageViews), formatNumber(s.VehicleViews))
	fmt.Fprintf(w, " WhatsApp %s  |  Call %s  |  Maps %s  |  Share %s\n",
		formatNumber(s.WhatsAppClicks), formatNumber(s.CallClicks), formatNumber(s.MapsClicks), formatNumber(s.ShareClicks))
	fmt.Fprintf(w, " Funnel: catalog %s → vehicle %s → WhatsApp %s\n",
		formatNumber(r.Funnel.CatalogSessions), formatNumber(r.Funnel.VehicleSessions), formatNumber(r.Funnel.WhatsAppSessions))

	fmt.Fprintln(w, "\nTop vehicles")
	if len(r.TopVehicles) == 0 {
		fmt.Fprintln(w, " No data yet.")
	}
	for _, v := range r.TopVehicles {
		fmt.Fprintf(w, " %-40s %6d views %5d WA %7s  sessions %d/%d %7s\n",
			truncate(v.Title, 40), v.Views, v.WhatsAppClicks, percent(v.ConvClickRate),
			v.SessionsWhatsApp, v.SessionsViewed, percent(v.ConvSessionRate))
	}

	fmt.Fprintln(w, "\nSources (UTM)")
	for _, src := range r.Sources {
		fmt.Fprintf(w, " %-40s %6d sessions %6d views\n",
			truncate(strings.Join([]string{src.Source, src.Medium, src.Campaign}, " / "), 40), src.Sessions, src.PageViews)
	}

	fmt.Fprintln(w, "\nReferrers")
	for _, ref := range r.Referrers {
		fmt.Fprintf(w, " %-40s %6d sessions %6d views\n", truncate(ref.Domain, 40), ref.Sessions, ref.PageViews)
	}

	fmt.Fprintln(w, "\nCTA locations")
	for _, loc := range r.Locations {
		fmt.Fprintf(w, " %-20s total %5d  WA %5d  call %5d  maps %5d  share %5d\n",
			truncate(loc.Location, 20), loc.TotalClicks, loc.WhatsAppClicks, loc.CallClicks, loc.MapsClicks, loc.ShareClicks)
	}

	fmt.Fprintln(w, "\nWhatsApp by number")
	for _, p := range r.WhatsAppByPhone {
		fmt.Fprintf(w, " %-20s %5d clicks %5d sessions\n", p.Phone, p.Clicks, p.Sessions)
	}
}

func percent(x float64) string {
	return fmt.Sprintf("%.1f%%", x*100)
}

// formatNumber groups thousands with dots: 1234567 → "1.234.567".
func formatNumber(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ".")
	if neg {
		return "-" + out
	}
	return out
}

// cleanURL strips tracking query params and returns just the listing page URL.
func cleanURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
