package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/NewLouwa/CookieTrading/internal/config"
	"github.com/NewLouwa/CookieTrading/internal/database"
	"github.com/NewLouwa/CookieTrading/internal/ledger"
	"github.com/NewLouwa/CookieTrading/internal/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Read-only JSON dashboard over the same database the trader writes to.
func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Connect to the database
	db, err := database.New(&cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	svc := ledger.NewService(log, &cfg, db)

	// Setup HTTP server
	mux := http.NewServeMux()
	apiHandler := NewAPIHandler(log, svc)

	// API endpoints
	mux.HandleFunc("/api/dashboard", apiHandler.DashboardHandler)
	mux.HandleFunc("/api/positions", apiHandler.PositionsHandler)
	mux.HandleFunc("/api/history", apiHandler.HistoryHandler)
	mux.HandleFunc("/api/portfolio", apiHandler.PortfolioHandler)
	mux.HandleFunc("/api/statistics", apiHandler.StatisticsHandler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("Starting dashboard server", zap.String("address", addr))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal("Dashboard server failed", zap.Error(err))
	}
}
