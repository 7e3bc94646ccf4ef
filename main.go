package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ytget/yt-webfront/internal/app"
	"github.com/ytget/yt-webfront/internal/config"
	"github.com/ytget/yt-webfront/internal/server"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	settings, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load config")
	}

	components, err := app.Build(settings)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize")
	}
	defer components.LogCloser.Close()

	srv, err := server.NewServer(settings.GetAddr(), components.Downloads, components.Inspector)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logrus.WithFields(logrus.Fields{
			"version": version,
			"addr":    settings.GetAddr(),
		}).Info("yt-webfront starting")
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("Server stopped")
			components.LogCloser.Close()
			os.Exit(1)
		}
	case <-ctx.Done():
		logrus.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			logrus.WithError(err).Warn("Graceful shutdown failed")
		}
	}
}
