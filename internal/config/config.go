package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/poolotto/poolotto-backend/internal/engine"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Operator OperatorConfig
	Engine   EngineConfig
	Tiers    []TierConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// OperatorConfig identifies the privileged operator: the ledger account that
// receives profit payouts and the backend login used for admin operations.
// PasswordHash is a bcrypt hash; it seeds the operator_users collection when
// it is empty.
type OperatorConfig struct {
	Account      string
	Username     string
	PasswordHash string
}

// EngineConfig holds engine-level configuration
type EngineConfig struct {
	// Identity is mixed into the draw seed; set it per deployment
	Identity string
}

// TierConfig declares one lottery tier. All amounts are in the custody
// token's smallest unit (1e18 = 1 token).
type TierConfig struct {
	ID              int
	EntryFee        int64
	PrizeAmount     int64
	ProfitAmount    int64
	MaxParticipants int
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if len(config.Tiers) == 0 {
		config.Tiers = defaultTiers()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects configurations the engine would refuse: duplicate tier
// ids, or a tier promising more in payouts than a full round collects.
func (c *Config) Validate() error {
	if c.Operator.Account == "" {
		return fmt.Errorf("config: Operator.Account is required")
	}
	seen := make(map[int]bool, len(c.Tiers))
	for _, t := range c.Tiers {
		if seen[t.ID] {
			return fmt.Errorf("config: duplicate tier id %d", t.ID)
		}
		seen[t.ID] = true
		if err := t.Engine().Validate(); err != nil {
			return fmt.Errorf("config: tier %d: %w", t.ID, err)
		}
	}
	return nil
}

// Engine converts a configured tier to the engine's immutable form.
func (t TierConfig) Engine() engine.TierConfig {
	return engine.TierConfig{
		EntryFee:        t.EntryFee,
		PrizeAmount:     t.PrizeAmount,
		ProfitAmount:    t.ProfitAmount,
		MaxParticipants: t.MaxParticipants,
	}
}

// EngineTiers returns the configured tiers keyed by tier id.
func (c *Config) EngineTiers() map[int]engine.TierConfig {
	tiers := make(map[int]engine.TierConfig, len(c.Tiers))
	for _, t := range c.Tiers {
		tiers[t.ID] = t.Engine()
	}
	return tiers
}

// defaultTiers returns the two predefined tiers: fee 0.00125 / prize 0.025 /
// profit 0.0125 at cap 100, and the same shape one order of magnitude up.
func defaultTiers() []TierConfig {
	return []TierConfig{
		{
			ID:              1,
			EntryFee:        1_250_000_000_000_000,  // 0.00125
			PrizeAmount:     25_000_000_000_000_000, // 0.025
			ProfitAmount:    12_500_000_000_000_000, // 0.0125
			MaxParticipants: 100,
		},
		{
			ID:              2,
			EntryFee:        12_500_000_000_000_000,  // 0.0125
			PrizeAmount:     250_000_000_000_000_000, // 0.25
			ProfitAmount:    125_000_000_000_000_000, // 0.125
			MaxParticipants: 100,
		},
	}
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "poolotto")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Operator.Account", "operator")
	viper.SetDefault("Operator.Username", "operator")
	viper.SetDefault("Engine.Identity", "poolotto-dev")
	viper.SetDefault("LogLevel", "info")
}
