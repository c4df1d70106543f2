package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validWatch = `
watch:
  transfer_address: "0x1111111111111111111111111111111111111111"
  donation_address: "0x2222222222222222222222222222222222222222"
  start_block: 21000000
  transfer_rpc_url: "https://rpc.example/a"
  donation_rpc_url: "https://rpc.example/b"
  etherscan:
    api_key: "key"
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validWatch))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d", cfg.Server.Port)
	}
	if cfg.Watch.ChainID != 1 {
		t.Errorf("default chain id = %d", cfg.Watch.ChainID)
	}
	if cfg.Watch.PollInterval != 20*time.Second {
		t.Errorf("default poll interval = %s", cfg.Watch.PollInterval)
	}
	if cfg.Watch.Etherscan.BaseURL == "" {
		t.Error("default etherscan base URL not set")
	}
	if cfg.Watch.StartBlock != 21000000 {
		t.Errorf("start block = %d", cfg.Watch.StartBlock)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_DONATION_ADDR", "0x2222222222222222222222222222222222222222")
	cfg, err := Load(writeConfig(t, `
watch:
  transfer_address: "0x1111111111111111111111111111111111111111"
  donation_address: "${TEST_DONATION_ADDR}"
  start_block: 21000000
  transfer_rpc_url: "https://rpc.example/a"
  donation_rpc_url: "https://rpc.example/b"
  etherscan:
    api_key: "key"
`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Watch.DonationAddress != "0x2222222222222222222222222222222222222222" {
		t.Errorf("env not expanded: %q", cfg.Watch.DonationAddress)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	cases := map[string]string{
		"transfer address": `
watch:
  donation_address: "0x2222222222222222222222222222222222222222"
  transfer_rpc_url: "https://rpc.example/a"
  donation_rpc_url: "https://rpc.example/b"
  etherscan: {api_key: "key"}
`,
		"api key": `
watch:
  transfer_address: "0x1111111111111111111111111111111111111111"
  donation_address: "0x2222222222222222222222222222222222222222"
  start_block: 21000000
  transfer_rpc_url: "https://rpc.example/a"
  donation_rpc_url: "https://rpc.example/b"
`,
		"start block": `
watch:
  transfer_address: "0x1111111111111111111111111111111111111111"
  donation_address: "0x2222222222222222222222222222222222222222"
  transfer_rpc_url: "https://rpc.example/a"
  donation_rpc_url: "https://rpc.example/b"
  etherscan: {api_key: "key"}
`,
		"bad hex address": `
watch:
  transfer_address: "not-an-address"
  donation_address: "0x2222222222222222222222222222222222222222"
  start_block: 21000000
  transfer_rpc_url: "https://rpc.example/a"
  donation_rpc_url: "https://rpc.example/b"
  etherscan: {api_key: "key"}
`,
	}
	for label, content := range cases {
		if _, err := Load(writeConfig(t, content)); err == nil {
			t.Errorf("%s: expected a configuration error", label)
		}
	}
}

func TestLoad_FileMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
