package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv  = "INFOSEEK_CONFIG"
	serverAddrEnv  = "INFOSEEK_ADDR"
	dbPathEnv      = "INFOSEEK_DB_PATH"
	mediaDirEnv    = "INFOSEEK_MEDIA_DIR"
	browserURLEnv  = "BROWSER_REMOTE_URL"
	chromePathEnv  = "CHROME_PATH"
	logLevelEnv    = "INFOSEEK_LOG_LEVEL"
	workerCountEnv = "INFOSEEK_WORKERS"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Media    MediaConfig    `yaml:"media"`
	Browser  BrowserConfig  `yaml:"browser"`
	Scraper  ScraperConfig  `yaml:"scraper"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig describes the HTTP API listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig describes the sqlite database location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// MediaConfig points at the artifact root; PDFs go under <dir>/pdfs.
type MediaConfig struct {
	Dir string `yaml:"dir"`
}

// BrowserConfig wires the remote automation endpoint and launch flags.
// RemoteURL empty means launch a local headless browser instead.
// Headless is a pointer so an explicit `headless: false` in the file is
// distinguishable from the knob being absent.
type BrowserConfig struct {
	RemoteURL       string `yaml:"remoteUrl"`
	ChromePath      string `yaml:"chromePath"`
	Headless        *bool  `yaml:"headless"`
	WindowWidth     int    `yaml:"windowWidth"`
	WindowHeight    int    `yaml:"windowHeight"`
	PageLoadSeconds int    `yaml:"pageLoadSeconds"`
}

// IsHeadless resolves the headless flag; unset means headless.
func (b BrowserConfig) IsHeadless() bool {
	if b.Headless == nil {
		return true
	}
	return *b.Headless
}

// PageLoadTimeout resolves the configured page-load bound.
func (b BrowserConfig) PageLoadTimeout() time.Duration {
	if b.PageLoadSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(b.PageLoadSeconds) * time.Second
}

// ScraperConfig tunes the search/extraction flow for the target site.
type ScraperConfig struct {
	SearchURLTemplate string `yaml:"searchUrlTemplate"`
	BaseOrigin        string `yaml:"baseOrigin"`
	ExtractStrategy   string `yaml:"extractStrategy"`
	RenderMode        string `yaml:"renderMode"`
	ElementSeconds    int    `yaml:"elementSeconds"`
	SettleMillis      int    `yaml:"settleMillis"`
	Workers           int    `yaml:"workers"`
	QueueSize         int    `yaml:"queueSize"`
}

// ElementTimeout bounds waits for consent buttons and the results widget.
func (s ScraperConfig) ElementTimeout() time.Duration {
	if s.ElementSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.ElementSeconds) * time.Second
}

// SettleDelay is the pause allowed for layout/fonts after a document swap.
func (s ScraperConfig) SettleDelay() time.Duration {
	if s.SettleMillis <= 0 {
		return time.Second
	}
	return time.Duration(s.SettleMillis) * time.Millisecond
}

// SearchURL substitutes the keyword into the configured query template.
func (s ScraperConfig) SearchURL(keyword string) string {
	return fmt.Sprintf(s.SearchURLTemplate, keyword)
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(serverAddrEnv); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(dbPathEnv); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(mediaDirEnv); v != "" {
		c.Media.Dir = v
	}
	if v := os.Getenv(browserURLEnv); v != "" {
		c.Browser.RemoteURL = v
	}
	if v := os.Getenv(chromePathEnv); v != "" {
		c.Browser.ChromePath = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(workerCountEnv); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil && n > 0 {
			c.Scraper.Workers = n
		}
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.Addr != "" {
		base.Server = override.Server
	}
	if override.Database.Path != "" {
		base.Database = override.Database
	}
	if override.Media.Dir != "" {
		base.Media = override.Media
	}

	if override.Browser.RemoteURL != "" {
		base.Browser.RemoteURL = override.Browser.RemoteURL
	}
	if override.Browser.ChromePath != "" {
		base.Browser.ChromePath = override.Browser.ChromePath
	}
	if override.Browser.Headless != nil {
		base.Browser.Headless = override.Browser.Headless
	}
	if override.Browser.WindowWidth > 0 {
		base.Browser.WindowWidth = override.Browser.WindowWidth
	}
	if override.Browser.WindowHeight > 0 {
		base.Browser.WindowHeight = override.Browser.WindowHeight
	}
	if override.Browser.PageLoadSeconds > 0 {
		base.Browser.PageLoadSeconds = override.Browser.PageLoadSeconds
	}

	if override.Scraper.SearchURLTemplate != "" {
		base.Scraper.SearchURLTemplate = override.Scraper.SearchURLTemplate
	}
	if override.Scraper.BaseOrigin != "" {
		base.Scraper.BaseOrigin = override.Scraper.BaseOrigin
	}
	if override.Scraper.ExtractStrategy != "" {
		base.Scraper.ExtractStrategy = override.Scraper.ExtractStrategy
	}
	if override.Scraper.RenderMode != "" {
		base.Scraper.RenderMode = override.Scraper.RenderMode
	}
	if override.Scraper.ElementSeconds > 0 {
		base.Scraper.ElementSeconds = override.Scraper.ElementSeconds
	}
	if override.Scraper.SettleMillis > 0 {
		base.Scraper.SettleMillis = override.Scraper.SettleMillis
	}
	if override.Scraper.Workers > 0 {
		base.Scraper.Workers = override.Scraper.Workers
	}
	if override.Scraper.QueueSize > 0 {
		base.Scraper.QueueSize = override.Scraper.QueueSize
	}

	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Server:   ServerConfig{Addr: ":8000"},
		Database: DatabaseConfig{Path: "infoseek.db"},
		Media:    MediaConfig{Dir: "media"},
		Browser: BrowserConfig{
			RemoteURL:       "",
			WindowWidth:     1920,
			WindowHeight:    1080,
			PageLoadSeconds: 30,
		},
		Scraper: ScraperConfig{
			SearchURLTemplate: "https://www.radiozet.pl/Wyszukaj?q=%s",
			BaseOrigin:        "https://www.radiozet.pl",
			ExtractStrategy:   "live",
			RenderMode:        "swap",
			ElementSeconds:    10,
			SettleMillis:      1000,
			Workers:           2,
			QueueSize:         32,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
