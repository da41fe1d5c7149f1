package main

import (
	"context"
	"errors"
	"net/http"
	"nudgebot/internal/app"
	"nudgebot/internal/app/deps"
	"nudgebot/internal/app/services"
	"nudgebot/internal/app/sweeps"
	"os"
	"os/signal"
	"syscall"

	dl "nudgebot/internal/core/domain/logging"
)

func main() {
	deps, shutdownDeps := deps.InitDeps()
	services := services.InitServices(deps)

	sweeper := sweeps.New(deps.Logger, services.ScheduleReminders, services.CleanupExpiredReminders)
	// Timers live in memory only, so they are rebuilt from the store first.
	if _, _, err := sweeper.Run(context.Background()); err != nil {
		dl.Error(context.Background(), deps.Logger, err)
	}
	stopSweeps, err := sweeper.Start(deps.Config.SweepSchedule)
	if err != nil {
		panic(err)
	}

	httpServer := app.InitHttpServer(deps, services)
	go start(httpServer, deps)

	stopCh, closeCh := createChannel()
	defer closeCh()

	<-stopCh
	shutdown(context.Background(), httpServer, deps, stopSweeps, shutdownDeps)
}

func createChannel() (chan os.Signal, func()) {
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	return stopCh, func() {
		close(stopCh)
	}
}

func start(server *http.Server, deps *deps.Deps) {
	deps.Logger.Info(
		context.Background(),
		"HTTP server has started.",
		dl.Entry("address", server.Addr),
		dl.Entry("isTestMode", deps.Config.IsTestMode),
		dl.Entry("primaryChannel", deps.PrimaryChannel.Name()),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	} else {
		deps.Logger.Info(context.Background(), "HTTP service is stopping gracefully.")
	}
}

func shutdown(
	ctx context.Context,
	server *http.Server,
	deps *deps.Deps,
	stopSweeps func(),
	shutDownDeps func(),
) {
	ctx, cancel := context.WithTimeout(ctx, deps.Config.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		panic(err)
	}
	stopSweeps()

	shutDownDeps()
	deps.Logger.Info(ctx, "HTTP server has shutdowned.")
}
