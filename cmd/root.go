package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/lukman83/autolot/config"
	"github.com/lukman83/autolot/internal/catalog"
	"github.com/lukman83/autolot/internal/creditcar"
	"github.com/lukman83/autolot/internal/financing"
	"github.com/lukman83/autolot/internal/httputil"
	"github.com/lukman83/autolot/internal/meli"
	"github.com/lukman83/autolot/internal/platform"
	"github.com/lukman83/autolot/internal/store"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "autolot",
	Short: "Autolot - dealership catalog sync & financing quotes",
	Long:  "Mirrors a seller's marketplace listings into the dealership catalog and proxies financing quotes to the credit provider.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("store", "", "Storage backend: postgres, mongo, memory (default from $AUTOLOT_STORE)")
	rootCmd.PersistentFlags().Float64("rate", 0, "Marketplace requests per second (default from $MELI_RATE_PER_SECOND)")
	rootCmd.PersistentFlags().Duration("creditcar-timeout", 0, "Credit provider timeout (default from $CREDITCAR_TIMEOUT)")
}

func initConfig() {
	cfg = config.DefaultConfig()
	cfg.LoadFromEnv()

	// Override from flags
	if v, _ := rootCmd.PersistentFlags().GetString("store"); v != "" {
		cfg.Store = v
	}
	if v, _ := rootCmd.PersistentFlags().GetFloat64("rate"); v > 0 {
		cfg.RatePerSecond = v
	}
	if v, _ := rootCmd.PersistentFlags().GetDuration("creditcar-timeout"); v > 0 {
		cfg.CreditcarTimeout = v
	}
}

// buildMeliClient creates the marketplace client behind the token + rate limit transport.
func buildMeliClient() (*meli.Client, error) {
	transport := &httputil.APITransport{
		Base: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
		},
		Tokens:      platform.StaticToken(cfg.MeliAccessToken),
		RateLimiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
	}
	return meli.NewClient(httputil.NewHTTPClient(transport, 0), meli.Options{
		BaseURL:   cfg.MeliAPIURL,
		PageSize:  cfg.PageSize,
		BatchSize: cfg.BatchSize,
	})
}

func openStore(ctx context.Context) (store.Store, error) {
	if err := cfg.ValidateStore(); err != nil {
		return nil, err
	}
	return store.Open(ctx, store.Options{
		Driver:        cfg.Store,
		DatabaseURL:   cfg.DatabaseURL,
		MongoURI:      cfg.MongoURI,
		MongoDatabase: cfg.MongoDatabase,
	})
}

func buildSyncer(w catalog.Writer) (*catalog.Syncer, error) {
	if err := cfg.ValidateSync(); err != nil {
		return nil, err
	}
	client, err := buildMeliClient()
	if err != nil {
		return nil, err
	}
	return catalog.NewSyncer(client, w, cfg.MeliUserID)
}

func buildQuoteService() (*financing.Service, error) {
	if err := cfg.ValidateQuote(); err != nil {
		return nil, err
	}
	client, err := creditcar.NewClient(nil, creditcar.Options{
		BaseURL: cfg.CreditcarURL,
		Method:  cfg.CreditcarMethod,
		Timeout: cfg.CreditcarTimeout,
	})
	if err != nil {
		return nil, err
	}
	return financing.NewService(client, cfg.FloorYear)
}
