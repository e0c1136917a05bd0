package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/optionlab/backend/internal/api"
	"github.com/wonny/optionlab/backend/internal/api/handlers"
	"github.com/wonny/optionlab/backend/internal/backtest"
	"github.com/wonny/optionlab/backend/pkg/config"
	"github.com/wonny/optionlab/backend/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Start the REST API server.

Endpoints:
  GET  /health                        - Health check
  POST /api/calculator/greeks         - Price one contract with full greeks
  POST /api/calculator/surface        - P&L surface over price x vol shocks
  POST /api/calculator/scenarios      - Scenario grid repricing
  POST /api/calculator/theta-decay    - Day-by-day decay toward expiry
  POST /api/portfolio/greeks          - Aggregate position-weighted greeks
  POST /api/portfolio/hedge           - Solve the neutralizing hedge
  POST /api/backtest/run              - Run a strategy backtest
  GET  /api/backtest/strategies       - List runnable strategies
  GET  /api/backtest/stream           - Websocket backtest with live equity

Example:
  go run ./cmd/optionlab api
  go run ./cmd/optionlab api --port 8087`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== OptionLab API Server ===")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port":     cfg.Port,
		"env":      cfg.Env,
		"provider": cfg.MarketData.Provider,
	}).Info("Initializing API server")

	provider, cleanup, err := buildProvider(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	engine := backtest.NewEngine(provider, backtest.Config{
		Multiplier:        cfg.Engine.Multiplier,
		PeriodsPerYear:    cfg.Engine.PeriodsPerYear,
		RiskFreeRate:      cfg.Engine.RiskFreeRate,
		DefaultVolatility: cfg.Engine.DefaultVol,
	}, log)

	calculatorHandler := handlers.NewCalculatorHandler(log)
	portfolioHandler := handlers.NewPortfolioHandler(log)
	backtestHandler := handlers.NewBacktestHandler(engine, log)

	router := api.NewRouter(calculatorHandler, portfolioHandler, backtestHandler, log)
	server := api.New(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\nServer running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
