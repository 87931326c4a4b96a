package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Trading.Universe, 25)
	assert.Equal(t, 5, cfg.Trading.SymbolsPerCycle)
	assert.InDelta(t, 0.02, cfg.Risk.MaxDailyLossPct, 1e-12)
	assert.InDelta(t, 0.20, cfg.Risk.PositionSizeFraction, 1e-12)
}

func TestValidateRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		mutil func(*Config)
	}{
		{"missing base url", func(c *Config) { c.Broker.BaseURL = "" }},
		{"loss pct zero", func(c *Config) { c.Risk.MaxDailyLossPct = 0 }},
		{"loss pct one", func(c *Config) { c.Risk.MaxDailyLossPct = 1 }},
		{"fraction zero", func(c *Config) { c.Risk.PositionSizeFraction = 0 }},
		{"fraction above one", func(c *Config) { c.Risk.PositionSizeFraction = 1.5 }},
		{"portfolio zero", func(c *Config) { c.Risk.PortfolioValue = 0 }},
		{"empty universe", func(c *Config) { c.Trading.Universe = nil }},
		{"too many per cycle", func(c *Config) { c.Trading.SymbolsPerCycle = 100 }},
		{"bad timezone", func(c *Config) { c.Trading.Timezone = "Mars/Olympus" }},
		{"missing cache dir", func(c *Config) { c.Cache.Dir = "" }},
		{"missing db path", func(c *Config) { c.Journal.DBPath = "" }},
		{"missing log path", func(c *Config) { c.Log.Path = "" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutil(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	for _, name := range []string{"cfg.yaml", "cfg.json"} {
		path := filepath.Join(dir, name)

		cfg := Default()
		cfg.Trading.SymbolsPerCycle = 3
		assert.NoError(t, cfg.SaveToFile(path))

		loaded, err := LoadFromFile(path)
		assert.NoError(t, err)
		assert.Equal(t, 3, loaded.Trading.SymbolsPerCycle)
		assert.Equal(t, cfg.Trading.Universe, loaded.Trading.Universe)
	}
}

func TestApplyEnvOverlaysCredentials(t *testing.T) {
	t.Setenv(EnvClientID, "client-42")
	t.Setenv(EnvAccessToken, "token-42")
	t.Setenv(EnvAlertEmail, "op@example.com")
	t.Setenv(EnvAlertPassword, "hunter2")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, "client-42", cfg.Broker.ClientID)
	assert.Equal(t, "token-42", cfg.Broker.AccessToken)
	assert.Equal(t, "op@example.com", cfg.Notify.Address)
	assert.Equal(t, "hunter2", cfg.Notify.Password)
}

func TestApplyEnvKeepsExistingWhenUnset(t *testing.T) {
	t.Setenv(EnvClientID, "")
	t.Setenv(EnvAccessToken, "")

	cfg := Default()
	cfg.Broker.ClientID = "kept"
	cfg.ApplyEnv()

	assert.Equal(t, "kept", cfg.Broker.ClientID)
}
