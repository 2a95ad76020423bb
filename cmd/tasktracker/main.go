package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"tasktracker/internal/server"
	"tasktracker/internal/storage"
	"tasktracker/internal/storage/memory"
	"tasktracker/internal/storage/sqlite"
	"tasktracker/internal/util"
)

func main() {
	addrFlag := flag.String("addr", util.EnvOrDefault("TASKS_ADDR", ":8080"), "HTTP listen address")
	backendFlag := flag.String("backend", util.EnvOrDefault("TASKS_BACKEND", "memory"), "Task store backend: memory or sqlite")
	levelFlag := flag.String("log-level", util.EnvOrDefault("TASKS_LOG_LEVEL", "info"), "Log level: debug, info, warn or error")
	formatFlag := flag.String("log-format", util.EnvOrDefault("TASKS_LOG_FORMAT", "text"), "Log format: text or json")
	timeoutFlag := flag.Duration("shutdown-timeout", util.EnvDurationOrDefault("TASKS_SHUTDOWN_TIMEOUT", 5*time.Second), "Time allowed for in-flight requests on shutdown")
	flag.Parse()

	logger, err := util.NewLogger(os.Stdout, *levelFlag, *formatFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger.Info("task tracker starting", slog.String("backend", *backendFlag))

	store, err := openStore(*backendFlag, logger)
	if err != nil {
		logger.Error("unable to open task store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := server.New(store, logger)

	httpServer := &http.Server{
		Addr:              *addrFlag,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		*timeoutFlag,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				logger.Info("shutting down http server")
				return httpServer.Shutdown(ctx)
			},
		},
	)

	exitCode := <-wait
	if err := store.Close(); err != nil {
		logger.Error("failed to close task store", slog.String("error", err.Error()))
	}
	logger.Info("server stopped", slog.Int("exit_code", exitCode))
	os.Exit(exitCode)
}

func openStore(backend string, logger *slog.Logger) (storage.Store, error) {
	switch backend {
	case "memory":
		return memory.New(logger), nil
	case "sqlite":
		store, err := sqlite.Open("", logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}
