package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
environment: test
server:
  port: 8080
market_data:
  providers: [alphavantage, yahoo]
  allow_mock: false
  alphavantage:
    api_key: demo
models:
  dir: /tmp/models
cache:
  quote_ttl: 15m
  history_ttl: 24h
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	c, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server.Port != 8080 {
		t.Fatalf("port = %d", c.Server.Port)
	}
	if len(c.MarketData.Providers) != 2 {
		t.Fatalf("providers = %v", c.MarketData.Providers)
	}
	if c.Cache.QuoteTTL.Minutes() != 15 {
		t.Fatalf("quote ttl = %v", c.Cache.QuoteTTL)
	}
}

func TestValidateRejectsMockWithoutFlag(t *testing.T) {
	body := `
environment: test
market_data:
  providers: [mock]
  allow_mock: false
models:
  dir: /tmp/models
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatal("expected validation error for mock without allow_mock")
	}
}

func TestValidateRequiresModelsDir(t *testing.T) {
	body := `
environment: test
market_data:
  providers: [yahoo]
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatal("expected validation error for missing models.dir")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ALPHAVANTAGE_API_KEY", "from-env")
	t.Setenv("MODELS_DIR", "/env/models")

	c, err := LoadWithEnv(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	if c.MarketData.AlphaVantage.APIKey != "from-env" {
		t.Fatalf("api key override missing: %q", c.MarketData.AlphaVantage.APIKey)
	}
	if c.Models.Dir != "/env/models" {
		t.Fatalf("models dir override missing: %q", c.Models.Dir)
	}
}
