package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lukman83/autolot/internal/ui"
	"github.com/spf13/cobra"
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Quote financing options for a vehicle",
	RunE:  runQuote,
}

func init() {
	quoteCmd.Flags().Float64("price", 0, "Vehicle price")
	quoteCmd.Flags().Float64("amount", 0, "Amount to finance (max 40% of the price)")
	quoteCmd.Flags().Int("year", 0, "Model year (omit to quote at the floor year)")
	quoteCmd.Flags().String("format", "table", "Output format: json, table")
	quoteCmd.MarkFlagRequired("price")
	quoteCmd.MarkFlagRequired("amount")
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command, args []string) error {
	price, _ := cmd.Flags().GetFloat64("price")
	amount, _ := cmd.Flags().GetFloat64("amount")
	year, _ := cmd.Flags().GetInt("year")
	format, _ := cmd.Flags().GetString("format")

	svc, err := buildQuoteService()
	if err != nil {
		return err
	}

	body := map[string]any{"price": price, "amountToFinance": amount}
	if cmd.Flags().Changed("year") {
		body["modelo"] = year
	}

	spin := ui.NewSpinner()
	spin.Start("Asking the credit provider...")
	res, err := svc.Quote(context.Background(), body)
	spin.Stop()
	if err != nil {
		return fmt.Errorf("quote failed: %w", err)
	}

	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	default:
		printQuoteTable(cmd.OutOrStdout(), res)
	}
	return nil
}
