package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"expenses/internal/cache"
	"expenses/internal/cli"
	apphttp "expenses/internal/http"
	applog "expenses/internal/log"
)

func runServe(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("serve", a)
	addr := fs.String("addr", a.cfg.Addr(), "listen address")
	if ok, err := parseFlags(fs, args); !ok {
		return err
	}

	ctx, stop := cli.SignalContext(ctx, a.logger)
	defer stop()

	sweeper := cache.NewManager()
	sweeper.Register(a.aggregates)
	sweeper.OnSweep(func(removed int) {
		a.logger.Debug("Expired aggregates removed", applog.FieldComponent, applog.ComponentCache, applog.FieldCount, removed)
	})
	sweeper.StartCleanup(a.cfg.CacheTTL)
	defer sweeper.Stop()

	srv := apphttp.NewServer(*addr, a.svc, apphttp.Options{
		Logger:             a.logger,
		CurrencySymbol:     a.cfg.CurrencySymbol,
		RateLimitPerMinute: a.cfg.RateLimitPerMinute,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("Starting expenses API",
			applog.FieldOperation, applog.OpStartup,
			"addr", *addr,
			"backend", a.cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", *addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		a.logger.Info("Server stopped gracefully", applog.FieldOperation, applog.OpShutdown)
		return nil
	})

	return g.Wait()
}
