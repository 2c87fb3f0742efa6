package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/Kerhoff/wishlist/internal/api"
	"github.com/Kerhoff/wishlist/internal/handlers"
	"github.com/Kerhoff/wishlist/internal/telegram"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI, JSON API, metrics endpoint and Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(nil)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), a)
		},
	}
}

func serve(ctx context.Context, a *app) error {
	l := a.logger
	l.Info("Starting wishlist...")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.cfg.SeedDefault {
		seeded, err := a.svc.Seed(ctx)
		if err != nil {
			a.close(ctx)
			return err
		}
		if seeded {
			l.Info("Seeded empty wishlist with the default item")
		}
	}

	errCh := make(chan error, 2)

	httpServer := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           api.NewServer(a.svc, l, a.metrics).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		l.Infof("HTTP server listening on :%s", a.cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var metricsServer *http.Server
	if a.cfg.PrometheusPort != "" {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", a.metrics.Handler())
		metricsServer = &http.Server{
			Addr:              ":" + a.cfg.PrometheusPort,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			l.Infof("Metrics server listening on :%s", a.cfg.PrometheusPort)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	if a.cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(a.cfg.TelegramToken, a.cfg.TelegramChatID, l)
		if err != nil {
			l.Errorf("Failed to create Telegram bot, continuing without it: %v", err)
		} else {
			registerBotHandlers(bot, a)
			go func() {
				if err := bot.Start(ctx); err != nil {
					l.Errorf("Bot error: %v", err)
				}
			}()
		}
	}

	l.Info("Wishlist started successfully")

	var result *multierror.Error
	select {
	case <-ctx.Done():
		l.Info("Received shutdown signal...")
	case err := <-errCh:
		result = multierror.Append(result, err)
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	l.Info("Shutting down HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		result = multierror.Append(result, fmt.Errorf("http shutdown: %w", err))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			result = multierror.Append(result, fmt.Errorf("metrics shutdown: %w", err))
		}
	}
	if err := a.close(shutdownCtx); err != nil {
		result = multierror.Append(result, err)
	}

	l.Info("Wishlist stopped")
	return result.ErrorOrNil()
}

func registerBotHandlers(bot *telegram.Bot, a *app) {
	l := a.logger
	bot.RegisterCommand("start", handlers.NewStartHandler(l))
	bot.RegisterCommand("help", handlers.NewHelpHandler(l))
	bot.RegisterCommand("wish", handlers.NewWishAddHandler(a.svc, l))
	bot.RegisterCommand("wishlist", handlers.NewWishListHandler(a.svc, l))
	bot.RegisterCommand("item", handlers.NewWishShowHandler(a.svc, l))
	bot.RegisterCommand("delete", handlers.NewWishDeleteHandler(a.svc, l))
	bot.RegisterCallback(handlers.UndoCallbackPrefix, handlers.NewUndoHandler(a.svc, l))
}
