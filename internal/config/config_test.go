package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, VN30, cfg.Symbols)
	assert.Equal(t, 126, cfg.Analysis.LookbackSessions)
	assert.Equal(t, 63, cfg.Analysis.MinLookbackSessions)
	assert.Equal(t, 0.01, cfg.Analysis.FibTolerance)
	assert.Equal(t, 7, cfg.Analysis.MonthsBack)
	assert.Equal(t, "0 30 15 * * 1-5", cfg.Schedule.DailyCron)
	assert.Equal(t, "data/vn30radar.db", cfg.Database.SQLitePath)
	assert.Equal(t, "reports", cfg.Reports.Dir)
	assert.Equal(t, "reports/SUMMARY_REPORT.csv", cfg.Reports.SummaryCSV)
	assert.Zero(t, cfg.Backtest.ExpirySessions, "expiry disabled by default")
	require.NoError(t, cfg.Validate())
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
data_source:
  base_url: https://trading.example.com
symbols: [HPG, VNM]
analysis:
  lookback_sessions: 90
  min_lookback_sessions: 45
backtest:
  expiry_sessions: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://trading.example.com", cfg.DataSource.BaseURL)
	assert.Equal(t, []string{"HPG", "VNM"}, cfg.Symbols)
	assert.Equal(t, 90, cfg.Analysis.LookbackSessions)
	assert.Equal(t, 45, cfg.Analysis.MinLookbackSessions)
	assert.Equal(t, 10, cfg.Backtest.ExpirySessions)
	// Unset fields still pick up defaults.
	assert.Equal(t, 0.01, cfg.Analysis.FibTolerance)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("VCI_BASE_URL", "https://override.example.com")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")
	t.Setenv("SQLITE_PATH", "/tmp/other.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "https://override.example.com", cfg.DataSource.BaseURL)
	assert.Equal(t, "tok", cfg.Telegram.BotToken)
	assert.Equal(t, "-100123", cfg.Telegram.ChatID)
	assert.Equal(t, "/tmp/other.db", cfg.Database.SQLitePath)
}

func TestValidate(t *testing.T) {
	base := func(t *testing.T) *Config {
		t.Helper()
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		return cfg
	}

	t.Run("lookback below minimum", func(t *testing.T) {
		cfg := base(t)
		cfg.Analysis.LookbackSessions = 30
		assert.Error(t, cfg.Validate())
	})

	t.Run("tolerance out of range", func(t *testing.T) {
		cfg := base(t)
		cfg.Analysis.FibTolerance = 1.5
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative expiry", func(t *testing.T) {
		cfg := base(t)
		cfg.Backtest.ExpirySessions = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("token without chat id", func(t *testing.T) {
		cfg := base(t)
		cfg.Telegram.BotToken = "tok"
		assert.Error(t, cfg.Validate())
	})

	t.Run("no symbols", func(t *testing.T) {
		cfg := base(t)
		cfg.Symbols = nil
		assert.Error(t, cfg.Validate())
	})
}
