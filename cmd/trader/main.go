package main

import (
	"fmt"
	"os"

	"github.com/NewLouwa/CookieTrading/internal/config"
	"github.com/NewLouwa/CookieTrading/internal/database"
	"github.com/NewLouwa/CookieTrading/internal/ledger"
	"github.com/NewLouwa/CookieTrading/internal/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Optional .env file, mostly used to point at a different database.
	_ = godotenv.Load()

	// Load application configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		// We can't use the logger here because it's not initialized yet.
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Initialize database
	db, err := database.New(&cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database ready", zap.String("dsn", cfg.Database.DSN))

	svc := ledger.NewService(log, &cfg, db)

	app := newApp(log, &cfg, svc, os.Stdin, os.Stdout)
	app.run()
}
