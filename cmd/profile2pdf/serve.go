package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/profile2pdf/internal/observability"
	"github.com/jonathan/profile2pdf/internal/rendering"
	"github.com/jonathan/profile2pdf/internal/server"
	"github.com/jonathan/profile2pdf/internal/server/ratelimit"
	"github.com/jonathan/profile2pdf/internal/session"
)

// sweepInterval is how often expired in-memory sessions are dropped
const sweepInterval = time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for fetching profiles, editing résumés and rendering them.`,
	RunE:  runServe,
}

var servePort int

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	publisher, err := a.publisher()
	if err != nil {
		return fmt.Errorf("failed to create event publisher: %w", err)
	}

	store, memory := a.sessionStore()
	if memory != nil {
		sweepCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go sweepSessions(sweepCtx, memory, a.logger)
	}

	limiter := ratelimit.NewLimiter(ratelimit.FromSettings(a.cfg.Server.RateLimit))

	port := a.cfg.Server.Port
	if servePort != 0 {
		port = servePort
	}

	srv, err := server.New(server.Config{
		Port:        port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
	}, server.Deps{
		Fetcher:     a.aggregator(),
		Credentials: a.credentials,
		Sessions:    session.NewManager(store),
		Synthesizer: a.synthesizer(),
		PDF:         rendering.NewPDFRenderer(),
		Events:      publisher,
		Logger:      a.logger,
		Limiter:     limiter,
	})
	if err != nil {
		limiter.Stop()
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}

func sweepSessions(ctx context.Context, memory *session.Memory, logger observability.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := memory.Sweep(); n > 0 {
				logger.Debug("expired sessions removed", zap.Int("count", n))
			}
		}
	}
}
