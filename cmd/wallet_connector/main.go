package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"wallet_connector/internal/app/port"
	"wallet_connector/internal/app/service"
	"wallet_connector/internal/infrastructure/clipboard"
	"wallet_connector/internal/infrastructure/configloader"
	networkdefinition "wallet_connector/internal/infrastructure/network/definition"
	"wallet_connector/internal/infrastructure/restapi"
	"wallet_connector/internal/infrastructure/tui"
	"wallet_connector/internal/infrastructure/walletprovider"
	"wallet_connector/internal/pkg/logger"
	"wallet_connector/internal/pkg/metrics"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

// tuiLogFile receives the logs in tui mode when no file is configured, so they do not
// draw over the card.
const tuiLogFile = "wallet_connector.log"

func main() {
	cfgPath := configloader.PathFromEnv()
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logFile := cfg.Logging.File
	if cfg.UI.Mode == configloader.ModeTUI && logFile == "" {
		logFile = tuiLogFile
	}
	zapLogger, err := logger.InitZap(cfg.Logging.Level, logFile)
	if err != nil {
		logrus.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath), zap.String("mode", cfg.UI.Mode))
	appLogger := logger.NewSlogAdapter()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.MustRegisterMetrics()
	}

	network, err := networkdefinition.NewNetworkDefinitionProvider(appLogger).Resolve(cfg.Connector.Network)
	if err != nil {
		zapLogger.Fatal("Unknown network in connector.network", zap.String("network", cfg.Connector.Network), zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A wallet that cannot be reached is reported on the card like a missing extension.
	provider, err := walletprovider.New(ctx, walletprovider.Options{
		Kind:           cfg.Provider.Kind,
		URL:            cfg.Provider.URL,
		FallbackURLs:   cfg.Provider.FallbackURLs,
		DialTimeout:    cfg.Provider.DialTimeout(),
		RequestTimeout: cfg.Provider.RequestTimeout(),
		PollInterval:   cfg.Provider.PollInterval(),
		RateLimit:      cfg.Provider.RateLimit,
		RateBurst:      cfg.Provider.RateBurst,
	}, appLogger, m)
	if err != nil {
		zapLogger.Error("Wallet provider unavailable", zap.Error(err))
		provider = nil
	}
	if provider != nil {
		defer func() {
			if err := provider.Close(); err != nil {
				zapLogger.Warn("Failed to close wallet provider", zap.Error(err))
			}
		}()
	}

	connector := service.NewWalletConnector(
		provider,
		clipboard.New(cfg.UI.Clipboard),
		network,
		service.ConnectorOptions{
			WalletName:     cfg.Connector.WalletName,
			BannerDuration: cfg.Connector.BannerDuration(),
			CopyConfirm:    cfg.Connector.CopyConfirm(),
		},
		appLogger,
		m,
	)
	defer connector.Close()

	switch cfg.UI.Mode {
	case configloader.ModeTUI:
		err = runTUI(ctx, connector)
	default:
		err = runServer(ctx, cfg, connector, appLogger, zapLogger)
	}
	if err != nil {
		zapLogger.Error("Exiting with error", zap.Error(err))
		os.Exit(1)
	}
	zapLogger.Info("Wallet connector exiting")
}

func runTUI(ctx context.Context, connector port.WalletConnector) error {
	p := tea.NewProgram(tui.New(connector), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}

func runServer(ctx context.Context, cfg *configloader.Config, connector port.WalletConnector, appLogger port.Logger, zapLogger *zap.Logger) error {
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := restapi.SetupRouter(restapi.NewWalletHandler(connector, appLogger), zapLogger, restapi.RouterOptions{
		CORSOrigins:    cfg.Server.CORSOrigins,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
	})

	addr := cfg.Server.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: cfg.HTTPWriteTimeout(),
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	if srv.WriteTimeout == 0 {
		zapLogger.Info("HTTP write timeout disabled: connect waits for the wallet prompt without a deadline")
	}

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on %s", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
