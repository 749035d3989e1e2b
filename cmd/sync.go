package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/lukman83/autolot/internal/catalog"
	"github.com/lukman83/autolot/internal/platform"
	"github.com/lukman83/autolot/internal/store"
	"github.com/lukman83/autolot/internal/ui"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror the seller's active listings into the catalog",
	RunE:  runSync,
}

func init() {
	syncCmd.Flags().Bool("dry-run", false, "Fetch and normalize without writing to the store; prints the vehicles")
	syncCmd.Flags().String("format", "table", "Dry-run output format: json, table")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	format, _ := cmd.Flags().GetString("format")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var st store.Store
	if dryRun {
		st = store.NewMemory()
	} else {
		var err error
		if st, err = openStore(ctx); err != nil {
			return err
		}
	}
	defer st.Close()

	syncer, err := buildSyncer(st)
	if err != nil {
		return err
	}

	spin := ui.NewSpinner()
	spin.Start(fmt.Sprintf("Syncing listings of seller %s...", cfg.MeliUserID))
	res, err := syncer.Run(platform.WithProgress(ctx, spin.Update))
	spin.Stop()
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	if !dryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "Synced %d vehicles.\n", res.Count)
		return nil
	}

	vehicles, err := st.Vehicles(ctx)
	if err != nil {
		return err
	}
	listings := catalog.Listings(vehicles, "")
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
