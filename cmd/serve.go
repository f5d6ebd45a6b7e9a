package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/renderer"
	"github.com/etnz/tracker/server"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

type serveCmd struct {
	addr      string
	signature string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the tracker over a local JSON API" }
func (*serveCmd) Usage() string {
	return `dtr serve [-addr <host:port>]

  Serves the tracker over HTTP until interrupted. Cross origin requests are
  allowed from the space separated origins in DTR_CORS_ALLOW_ORIGINS.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", envOr("DTR_ADDR", "localhost:8080"), "Address to listen on")
	f.StringVar(&c.signature, "signature", "", "PNG or JPEG signature printed at the end of reports")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withStore(ctx, func(s *tracker.Store) subcommands.ExitStatus {
		srv := &http.Server{
			Addr:              c.addr,
			Handler:           server.Router(server.Controller{Store: s, Report: renderer.Options{SignaturePath: c.signature}}),
			ReadHeaderTimeout: 10 * time.Second,
		}
		errc := make(chan error, 1)
		go func() { errc <- srv.ListenAndServe() }()
		log.Info().Str("addr", c.addr).Str("store", *storeURI).Msg("serving")

		select {
		case err := <-errc:
			fmt.Fprintf(os.Stderr, "Error serving: %v\n", err)
			return subcommands.ExitFailure
		case <-ctx.Done():
		}

		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("shutdown")
		}
		// a last chance for changes whose write failed
		if err := s.Save(shutdown); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving tracker: %v\n", err)
			return subcommands.ExitFailure
		}
		log.Info().Msg("stopped")
		return subcommands.ExitSuccess
	})
}
