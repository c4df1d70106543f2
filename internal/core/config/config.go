package config

import (
	"time"

	redisclient "github.com/trungle-dev/ethtribute/internal/infra/redis"
	"github.com/trungle-dev/ethtribute/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	Watch    WatchConfig        `yaml:"watch"`
	Redis    redisclient.Config `yaml:"redis"`
	Logging  LoggingConfig      `yaml:"logging"`
	Database postgres.Config    `yaml:"database"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// WatchConfig holds the monitored address pair and ingestion settings.
type WatchConfig struct {
	ChainID         uint64          `yaml:"chain_id"`
	TransferAddress string          `yaml:"transfer_address"` // receives native sends
	DonationAddress string          `yaml:"donation_address"` // emits Donation events
	StartBlock      uint64          `yaml:"start_block"`      // backfill lower bound
	PollInterval    time.Duration   `yaml:"poll_interval"`
	TransferRPCURL  string          `yaml:"transfer_rpc_url"` // ENS lookups
	DonationRPCURL  string          `yaml:"donation_rpc_url"` // log scanning
	Etherscan       EtherscanConfig `yaml:"etherscan"`
}

// EtherscanConfig holds explorer API settings.
type EtherscanConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}
