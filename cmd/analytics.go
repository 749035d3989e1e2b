package cmd

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lukman83/autolot/internal/analytics"
	"github.com/spf13/cobra"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Print the analytics report for a date range",
	Long:  "Aggregates tracked site events: KPIs, the catalog funnel, top vehicles, UTM sources, CTA locations, WhatsApp numbers and referrers.",
	RunE:  runAnalytics,
}

func init() {
	analyticsCmd.Flags().String("range", "7", `"today" or a number of days`)
	analyticsCmd.Flags().String("from", "", "First day, YYYY-MM-DD in Argentina time (overrides --range)")
	analyticsCmd.Flags().String("to", "", "Last day, inclusive (overrides --range)")
	analyticsCmd.Flags().String("format", "table", "Output format: json, table")
	rootCmd.AddCommand(analyticsCmd)
}

func runAnalytics(cmd *cobra.Command, args []string) error {
	rangeRaw, _ := cmd.Flags().GetString("range")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	format, _ := cmd.Flags().GetString("format")

	ctx := context.Background()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	rg := analytics.ParseRange(rangeRaw, from, to, time.Now())
	report, err := st.AnalyticsReport(ctx, rg.Start, rg.End)
	if err != nil {
		return err
	}
	report.Label = rg.Label

	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	default:
		printReportTable(cmd.OutOrStdout(), report)
	}
	return nil
}
