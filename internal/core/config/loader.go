package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults if necessary
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Watch.ChainID == 0 {
		cfg.Watch.ChainID = 1
	}
	if cfg.Watch.PollInterval == 0 {
		cfg.Watch.PollInterval = 20 * time.Second
	}
	if cfg.Watch.Etherscan.BaseURL == "" {
		cfg.Watch.Etherscan.BaseURL = "https://api.etherscan.io/v2"
	}

	if err := cfg.Watch.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate rejects incomplete watch settings before the poll loop can start.
func (w WatchConfig) validate() error {
	switch {
	case w.TransferAddress == "":
		return fmt.Errorf("watch.transfer_address is required")
	case w.DonationAddress == "":
		return fmt.Errorf("watch.donation_address is required")
	case w.TransferRPCURL == "":
		return fmt.Errorf("watch.transfer_rpc_url is required")
	case w.DonationRPCURL == "":
		return fmt.Errorf("watch.donation_rpc_url is required")
	case w.Etherscan.APIKey == "":
		return fmt.Errorf("watch.etherscan.api_key is required")
	case w.StartBlock == 0:
		return fmt.Errorf("watch.start_block is required")
	}
	if !common.IsHexAddress(w.TransferAddress) {
		return fmt.Errorf("watch.transfer_address %q is not a hex address", w.TransferAddress)
	}
	if !common.IsHexAddress(w.DonationAddress) {
		return fmt.Errorf("watch.donation_address %q is not a hex address", w.DonationAddress)
	}
	return nil
}
