package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// VN30 is the default symbol basket.
var VN30 = []string{
	"ACB", "BID", "BVH", "CTG", "FPT",
	"GAS", "GVR", "HDB", "HPG", "KDH",
	"MBB", "MSN", "MWG", "NVL", "PDR",
	"PLX", "PNJ", "POW", "SAB", "SSI",
	"STB", "TCB", "TPB", "VCB", "VHM",
	"VIC", "VJC", "VNM", "VPB", "VRE",
}

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"data_source"`
	Symbols  []string `yaml:"symbols"`
	Analysis struct {
		LookbackSessions    int     `yaml:"lookback_sessions"`
		MinLookbackSessions int     `yaml:"min_lookback_sessions"`
		FibTolerance        float64 `yaml:"fib_tolerance"`
		MonthsBack          int     `yaml:"months_back"`
	} `yaml:"analysis"`
	Backtest struct {
		ExpirySessions int `yaml:"expiry_sessions"`
	} `yaml:"backtest"`
	Run struct {
		Workers int `yaml:"workers"` // 0 means one per CPU core
	} `yaml:"run"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Reports struct {
		Dir        string `yaml:"dir"`
		SummaryCSV string `yaml:"summary_csv"`
	} `yaml:"reports"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("VCI_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("VCI_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REPORTS_DIR"); v != "" {
		cfg.Reports.Dir = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}

	// Defaults
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = VN30
	}
	if cfg.Analysis.LookbackSessions == 0 {
		cfg.Analysis.LookbackSessions = 126
	}
	if cfg.Analysis.MinLookbackSessions == 0 {
		cfg.Analysis.MinLookbackSessions = 63
	}
	if cfg.Analysis.FibTolerance == 0 {
		cfg.Analysis.FibTolerance = 0.01
	}
	if cfg.Analysis.MonthsBack == 0 {
		cfg.Analysis.MonthsBack = 7
	}
	if cfg.Schedule.DailyCron == "" {
		// 15:30 ICT, Monday-Friday, after the HOSE close
		cfg.Schedule.DailyCron = "0 30 15 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/vn30radar.db"
	}
	if cfg.Reports.Dir == "" {
		cfg.Reports.Dir = "reports"
	}
	if cfg.Reports.SummaryCSV == "" {
		cfg.Reports.SummaryCSV = "reports/SUMMARY_REPORT.csv"
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("symbols must not be empty")
	}
	if c.Analysis.MinLookbackSessions <= 0 {
		return fmt.Errorf("analysis.min_lookback_sessions must be positive")
	}
	if c.Analysis.LookbackSessions < c.Analysis.MinLookbackSessions {
		return fmt.Errorf("analysis.lookback_sessions must be >= min_lookback_sessions")
	}
	if c.Analysis.FibTolerance <= 0 || c.Analysis.FibTolerance >= 1 {
		return fmt.Errorf("analysis.fib_tolerance must be in (0, 1)")
	}
	if c.Backtest.ExpirySessions < 0 {
		return fmt.Errorf("backtest.expiry_sessions must not be negative")
	}
	if c.Run.Workers < 0 {
		return fmt.Errorf("run.workers must not be negative")
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when bot_token is set")
	}
	return nil
}
