package app

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AkaOko/react-trpo/config"
	"github.com/AkaOko/react-trpo/internal/server"
	"github.com/AkaOko/react-trpo/pkg/database"
	appgrpc "github.com/AkaOko/react-trpo/pkg/grpc"
	"github.com/AkaOko/react-trpo/pkg/logger"
	"github.com/AkaOko/react-trpo/pkg/schedule"
)

// Serve runs the HTTP API, the gRPC health endpoint and the live feed hub
// until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	handler, err := a.Handler(ctx.Done())
	if err != nil {
		return err
	}

	health := appgrpc.New(func(ctx context.Context) error { return database.Ping(ctx, a.DB) })

	g, gctx := errgroup.WithContext(ctx)

	jobs := a.Jobs(config.ReconcileInterval())
	jobs.Start(gctx)
	defer jobs.Wait()

	g.Go(func() error {
		a.Hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		health.Watch(gctx, 10*time.Second)
		return nil
	})
	g.Go(func() error {
		go func() {
			<-gctx.Done()
			health.Stop()
		}()
		if err := health.ListenAndServe(config.GRPCPort()); err != nil {
			logger.Error("grpc health server stopped", "error", err)
			return err
		}
		return nil
	})
	g.Go(func() error {
		return server.Run(gctx, ":"+config.AppPort(), handler)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Jobs returns the background jobs the server runs. The drift check only
// reports; repairs go through users:reconcile --fix.
func (a *App) Jobs(driftEvery time.Duration) *schedule.Scheduler {
	s := schedule.New()
	s.Every("users.drift", driftEvery, func(ctx context.Context) error {
		report, err := a.Services.Users.Reconcile(ctx, 4, false)
		if err != nil {
			return err
		}
		if len(report.Drifts) > 0 {
			logger.Warn("delivered totals drifted", "checked", report.Checked, "drifted", len(report.Drifts))
		}
		return nil
	})
	return s
}
