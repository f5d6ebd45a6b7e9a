// Package cmd implements the dtr command line application to track a
// budget, expenses, loans and company records.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&budgetCmd{}, "records")
	c.Register(&expenseCmd{}, "records")
	c.Register(&loanCmd{}, "records")
	c.Register(&companyCmd{}, "records")
	c.Register(&rmCmd{}, "records")

	c.Register(&lsCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&reportCmd{}, "reports")
	c.Register(&queryCmd{}, "reports")

	c.Register(&serveCmd{}, "server")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	storeURI  = flag.String("store", envOr(EnvStore, "file://.dtr"), "Where the tracker is saved: mem:, file://<dir>, redis://..., postgres://... or sqlite://<file>")
	currency  = flag.String("currency", envOr(EnvCurrency, tracker.DefaultCurrency), "Currency amounts are displayed in")
	policy    = flag.String("policy", envOr(EnvPolicy, tracker.PolicyWriteAll.String()), "Persist policy: write-all or skip-defaults")
	logFormat = flag.String("log-format", envOr(EnvLogFormat, "human"), "Log format: human or json")
	// Verbose enables debug logs.
	Verbose = flag.Bool("v", envBool(EnvVerbose), "Verbose output")
)

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func envBool(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}

// SetupLogging configures the global logger from the flags. It must be
// called after the flags are parsed.
func SetupLogging() {
	output := io.Writer(os.Stderr)
	if *logFormat != "json" {
		output = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	gin.SetMode(gin.ReleaseMode)
	if *Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		gin.SetMode(gin.DebugMode)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()
}

// OpenStore opens the storage and loads the tracker. The returned close
// function releases the storage.
func OpenStore(ctx context.Context) (*tracker.Store, func() error, error) {
	p, err := tracker.ParsePolicy(*policy)
	if err != nil {
		return nil, nil, err
	}
	kv, err := storage.Open(ctx, *storeURI)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open store %q: %w", *storeURI, err)
	}
	s, err := tracker.Open(ctx, kv, tracker.WithPolicy(p), tracker.WithCurrency(*currency))
	if err != nil {
		kv.Close()
		return nil, nil, err
	}
	return s, kv.Close, nil
}

// withStore opens the store, runs f and closes the store, printing errors
// the way every command does.
func withStore(ctx context.Context, f func(*tracker.Store) subcommands.ExitStatus) subcommands.ExitStatus {
	s, closeStore, err := OpenStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening tracker: %v\n", err)
		return subcommands.ExitFailure
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn().Err(err).Msg("cannot close store")
		}
	}()
	return f(s)
}

// amount formats a value in the store currency.
func amount(s *tracker.Store, v decimal.Decimal) string {
	return tracker.M(v, s.Currency()).String()
}
