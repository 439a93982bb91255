package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miguelfer1410/stocks-crypto-analizer/internal/model"
)

const sampleYAML = `
server:
  port: "9000"
dashboard:
  default_period: "3mo"
  forecast_horizon_days: 14
database:
  sqlite_path: "test.db"
holdings:
  - symbol: "BTC"
    label: "Bitcoin"
    kind: "crypto"
    quantity: 0.5
    invested: 100
  - symbol: "NVDA"
    label: "Nvidia"
    kind: "stock"
    quantity: 2
    invested: 250
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("reads yaml values", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, sampleYAML))
		require.NoError(t, err)
		assert.Equal(t, "9000", cfg.Server.Port)
		assert.Equal(t, "3mo", cfg.Dashboard.DefaultPeriod)
		assert.Equal(t, 14, cfg.Dashboard.ForecastHorizon)
		assert.Equal(t, "test.db", cfg.Database.SQLitePath)
		require.Len(t, cfg.Holdings, 2)
		assert.Equal(t, model.AssetCrypto, cfg.Holdings[0].Kind)
		assert.Equal(t, 0.5, cfg.Holdings[0].Quantity)
	})

	t.Run("defaults fill the gaps", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "holdings:\n  - symbol: BTC\n    kind: crypto\n"))
		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, "8050", cfg.Server.Port)
		assert.Equal(t, "EUR", cfg.Dashboard.DisplayCurrency)
		assert.Equal(t, "1y", cfg.Dashboard.DefaultPeriod)
		assert.Equal(t, "*/10 * * * * *", cfg.Dashboard.RefreshCron)
		assert.Equal(t, 30, cfg.Dashboard.ForecastHorizon)
	})

	t.Run("missing file is not an error", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "8050", cfg.Server.Port)
	})

	t.Run("environment overrides win", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "7777")
		t.Setenv("REFRESH_CRON", "0 * * * * *")
		t.Setenv("FORECAST_HORIZON_DAYS", "60")
		cfg, err := Load(writeConfig(t, sampleYAML))
		require.NoError(t, err)
		assert.Equal(t, "7777", cfg.Server.Port)
		assert.Equal(t, "0 * * * * *", cfg.Dashboard.RefreshCron)
		assert.Equal(t, 60, cfg.Dashboard.ForecastHorizon)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		_, err := Load(writeConfig(t, "holdings: [whoops"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func(t *testing.T) *Config {
		cfg, err := Load(writeConfig(t, sampleYAML))
		require.NoError(t, err)
		return cfg
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, valid(t).Validate())
	})

	t.Run("bad period", func(t *testing.T) {
		cfg := valid(t)
		cfg.Dashboard.DefaultPeriod = "7y"
		assert.Error(t, cfg.Validate())
	})

	t.Run("no holdings", func(t *testing.T) {
		cfg := valid(t)
		cfg.Holdings = nil
		assert.Error(t, cfg.Validate())
	})

	t.Run("duplicate symbol", func(t *testing.T) {
		cfg := valid(t)
		cfg.Holdings = append(cfg.Holdings, cfg.Holdings[0])
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown kind", func(t *testing.T) {
		cfg := valid(t)
		cfg.Holdings[0].Kind = "bond"
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative quantity", func(t *testing.T) {
		cfg := valid(t)
		cfg.Holdings[0].Quantity = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative horizon", func(t *testing.T) {
		cfg := valid(t)
		cfg.Dashboard.ForecastHorizon = -5
		assert.Error(t, cfg.Validate())
	})
}

func TestSymbols(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, []string{"BTC", "NVDA"}, cfg.Symbols())
}
