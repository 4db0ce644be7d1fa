package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Trading  Trading  `mapstructure:"trading"`
	Logger   Logger   `mapstructure:"logger"`
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
}

// Trading holds the fee model and input limits.
type Trading struct {
	BaseFee          float64 `mapstructure:"base_fee"`
	FeePerTrader     float64 `mapstructure:"fee_per_trader"`
	MinFee           float64 `mapstructure:"min_fee"`
	MaxQuantity      int64   `mapstructure:"max_quantity"`
	MaxCommentLength int     `mapstructure:"max_comment_length"`
}

// Server holds the configuration for the dashboard web server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
// A missing config file is not an error: defaults plus environment
// variables are enough to run.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("database.dsn", "trading.db")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("server.port", 8085)
	viper.SetDefault("trading.base_fee", 20)       // fee percentage with zero traders
	viper.SetDefault("trading.fee_per_trader", 1)  // percentage points shaved per trader
	viper.SetDefault("trading.min_fee", 0)         // fee floor
	viper.SetDefault("trading.max_quantity", 1000) // per-position share cap
	viper.SetDefault("trading.max_comment_length", 500)

	err = viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	return
}
