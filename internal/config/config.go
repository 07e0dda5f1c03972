// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// TokenEnvVar supplies the bot authentication token. It is the one required
// environment variable; absence is a fatal startup error.
const TokenEnvVar = "TELEGRAM_BOT_TOKEN"

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token       string  `yaml:"token"` // overridden by TELEGRAM_BOT_TOKEN
	Mode        string  `yaml:"mode"`  // polling | webhook (future)
	Workers     int     `yaml:"workers"`
	AdminIDs    []int64 `yaml:"admin_ids"`
	MaxUploadMB int64   `yaml:"max_upload_mb"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // json|console
}

type AdminConfig struct {
	Port       int           `yaml:"port"`
	APIKey     string        `yaml:"api_key"`
	JWTSecret  string        `yaml:"jwt_secret"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	StateTTL time.Duration `yaml:"state_ttl"`
}

// ConvertConfig holds the knobs for the external conversion tools. Paths
// default to PATH lookup so containers only need the binaries installed.
type ConvertConfig struct {
	WorkDir      string        `yaml:"work_dir"` // "" -> os.TempDir
	ToolTimeout  time.Duration `yaml:"tool_timeout"`
	RasterDPI    int           `yaml:"raster_dpi"`
	PDFSettings  string        `yaml:"pdf_settings"` // ghostscript -dPDFSETTINGS
	JPEGQuality  int           `yaml:"jpeg_quality"`
	SofficePath  string        `yaml:"soffice_path"`
	PdftoppmPath string        `yaml:"pdftoppm_path"`
	PdfunitePath string        `yaml:"pdfunite_path"`
	GsPath       string        `yaml:"gs_path"`
	Queue        int           `yaml:"queue"` // conversion worker goroutines
}

type Config struct {
	Bot      BotConfig      `yaml:"bot"`
	Log      LogConfig      `yaml:"log"`
	Admin    AdminConfig    `yaml:"admin"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Convert  ConvertConfig  `yaml:"convert"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// The env var always wins over yaml.
	if tok := os.Getenv(TokenEnvVar); tok != "" {
		cfg.Bot.Token = tok
	}

	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Bot.MaxUploadMB <= 0 {
		cfg.Bot.MaxUploadMB = 50
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Redis.StateTTL <= 0 {
		cfg.Redis.StateTTL = 15 * time.Minute
	}
	if cfg.Convert.ToolTimeout <= 0 {
		cfg.Convert.ToolTimeout = 2 * time.Minute
	}
	if cfg.Convert.RasterDPI <= 0 {
		cfg.Convert.RasterDPI = 200
	}
	if cfg.Convert.PDFSettings == "" {
		cfg.Convert.PDFSettings = "/ebook"
	}
	if cfg.Convert.JPEGQuality <= 0 {
		cfg.Convert.JPEGQuality = 95
	}
	if cfg.Convert.SofficePath == "" {
		cfg.Convert.SofficePath = "soffice"
	}
	if cfg.Convert.PdftoppmPath == "" {
		cfg.Convert.PdftoppmPath = "pdftoppm"
	}
	if cfg.Convert.PdfunitePath == "" {
		cfg.Convert.PdfunitePath = "pdfunite"
	}
	if cfg.Convert.GsPath == "" {
		cfg.Convert.GsPath = "gs"
	}
	if cfg.Convert.Queue <= 0 {
		cfg.Convert.Queue = 4
	}
	if cfg.Admin.SessionTTL <= 0 {
		cfg.Admin.SessionTTL = 30 * time.Minute
	}

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New(TokenEnvVar + " is required (or bot.token in yaml)")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
