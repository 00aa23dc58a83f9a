// Package main запускает клиент shopfront с локальным API управления.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/shopfront-client/internal/config"
	"github.com/mmeshcher/shopfront-client/internal/gateway"
	"github.com/mmeshcher/shopfront-client/internal/handler"
	"github.com/mmeshcher/shopfront-client/internal/health"
	"github.com/mmeshcher/shopfront-client/internal/notify"
	"github.com/mmeshcher/shopfront-client/internal/orders"
	"github.com/mmeshcher/shopfront-client/internal/purchase"
	"github.com/mmeshcher/shopfront-client/internal/session"
	"github.com/mmeshcher/shopfront-client/internal/store"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	gatewayClient := gateway.NewClient(cfg.GatewayAddress)
	sessionStore := store.NewFileStore(cfg.SessionFile)
	notifications := notify.NewChannel(notify.DefaultTTL)

	orderSync := orders.NewSynchronizer(gatewayClient, notifications, logger)
	sessionManager := session.NewManager(gatewayClient, sessionStore, orderSync, notifications, logger)
	purchaseWorkflow := purchase.NewWorkflow(sessionManager, gatewayClient, orderSync, notifications, logger)
	healthMonitor := health.NewMonitor(gatewayClient, logger, health.DefaultInterval)

	h := handler.NewHandler(sessionManager, purchaseWorkflow, orderSync, healthMonitor, notifications, logger)
	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Восстановление сессии из файла до приёма запросов
	sessionManager.Restore(ctx)

	g, ctx := errgroup.WithContext(ctx)

	// Фоновый опрос состояния сервисов на всё время жизни процесса
	g.Go(func() error {
		healthMonitor.Run(ctx)
		return nil
	})

	// Локальный API управления
	g.Go(func() error {
		sugar.Infow("starting shopfront client", "addr", cfg.RunAddress, "gateway", cfg.GatewayAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down client...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("client stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
