package cmd

import (
	"context"
	"encoding/json"

	"github.com/lukman83/autolot/internal/catalog"
	"github.com/spf13/cobra"
)

var vehiclesCmd = &cobra.Command{
	Use:   "vehicles",
	Short: "List vehicles in the catalog",
	RunE:  runVehicles,
}

func init() {
	vehiclesCmd.Flags().String("brand", "", "Brand filter")
	vehiclesCmd.Flags().String("format", "table", "Output format: json, table")
	rootCmd.AddCommand(vehiclesCmd)
}

func runVehicles(cmd *cobra.Command, args []string) error {
	brand, _ := cmd.Flags().GetString("brand")
	format, _ := cmd.Flags().GetString("format")

	ctx := context.Background()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	vehicles, err := st.Vehicles(ctx)
	if err != nil {
		return err
	}
	listings := catalog.Listings(vehicles, brand)

	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(listings)
	default:
		printListingsTable(cmd.OutOrStdout(), listings)
	}
	return nil
}
