package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Bahjat/page-analyzer/internal/analyzer"
	"github.com/Bahjat/page-analyzer/internal/mockpages"
	"github.com/Bahjat/page-analyzer/internal/pageinsight"
	"github.com/Bahjat/page-analyzer/internal/platform/config"
	"github.com/Bahjat/page-analyzer/internal/platform/logger"
	"github.com/Bahjat/page-analyzer/internal/platform/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	fetcher := pageinsight.NewHTTPClient(pageinsight.HTTPClientOptions{
		Timeout:      cfg.FetchTimeout,
		AllowPrivate: cfg.AllowPrivateTargets,
	})
	checker := pageinsight.NewLinkChecker(pageinsight.LinkCheckerOptions{
		Concurrency:   cfg.LinkCheckConcurrency,
		PerHost:       cfg.LinkCheckPerHost,
		Timeout:       cfg.LinkCheckTimeout,
		Budget:        cfg.LinkCheckBudget,
		RatePerSecond: cfg.LinkCheckRate,
		AllowPrivate:  cfg.AllowPrivateTargets,
	})
	engine := pageinsight.NewEngine(fetcher, checker)

	svc := analyzer.NewService(engine, log)
	transport := analyzer.NewTransport(svc, log, cfg.LinksOutput)

	mux := http.NewServeMux()
	transport.RegisterRoutes(mux)
	if cfg.MockPagesEnabled {
		mockpages.RegisterRoutes(mux, log)
	}

	srv := &http.Server{
		Addr: net.JoinHostPort("", cfg.Port),
		Handler: middleware.Chain(mux,
			middleware.RequestID,
			middleware.Logging(log),
			middleware.CORS(cfg.CORSAllowedOrigins),
		),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "addr", srv.Addr, "mock_pages", cfg.MockPagesEnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", "grace", cfg.ShutdownGrace.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
