package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lukman83/autolot/internal/analytics"
	"github.com/lukman83/autolot/internal/api"
	"github.com/lukman83/autolot/internal/store"
	mcpserver "github.com/lukman83/autolot/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API (with MCP mounted at /mcp)",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("port", "", "HTTP port (default from $PORT or 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	port := cfg.HTTPPort
	if p, _ := cmd.Flags().GetString("port"); p != "" {
		port = p
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	backend, deps := buildBackend(st)
	deps.CronSecret = cfg.CronSecret
	deps.AdminAPIKey = cfg.AdminAPIKey
	deps.Analytics = analytics.NewBuilder(cfg.AnalyticsSalt)
	deps.MCP = mcpserver.Handler(backend)
	deps.MCPAPIKey = cfg.MCPAPIKey

	gin.SetMode(gin.ReleaseMode)
	srv := api.NewServer(fmt.Sprintf(":%s", port), api.NewRouter(deps))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Autolot HTTP server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Printf("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// buildBackend wires the services shared by the HTTP API and the MCP tools.
// A service whose configuration is incomplete is left out and logged; its
// endpoints answer with a configuration error instead of failing startup.
func buildBackend(st store.Store) (mcpserver.Backend, api.Deps) {
	backend := mcpserver.Backend{Catalog: st}
	deps := api.Deps{Catalog: st, Events: st, Reports: st}

	if syncer, err := buildSyncer(st); err != nil {
		log.Printf("[serve] marketplace sync disabled: %v", err)
	} else {
		backend.Syncer, deps.Syncer = syncer, syncer
	}
	if quotes, err := buildQuoteService(); err != nil {
		log.Printf("[serve] financing quotes disabled: %v", err)
	} else {
		backend.Quotes, deps.Quotes = quotes, quotes
	}
	return backend, deps
}
