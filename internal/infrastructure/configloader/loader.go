package configloader

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. WALLET_CONNECTOR_PROVIDER_URL.
const EnvPrefix = "WALLET_CONNECTOR"

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "config/config.yml"

// UI modes.
const (
	ModeServer = "server"
	ModeTUI    = "tui"
)

// Clipboard kinds.
const (
	ClipboardMemory = "memory"
	ClipboardSystem = "system"
)

// Environment overrides are looked up only under EnvPrefix. Fields carry no envconfig
// name tags: a tagged field would also be read from the bare name (PATH, PORT, ...).

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port         string   `yaml:"port"`
	ReadTimeout  int      `yaml:"readTimeout" split_words:"true"` // seconds
	WriteTimeout int      `yaml:"writeTimeout" split_words:"true"`
	IdleTimeout  int      `yaml:"idleTimeout" split_words:"true"`
	CORSOrigins  []string `yaml:"corsOrigins" split_words:"true"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`
}

// ProviderConfig describes how to reach the wallet.
type ProviderConfig struct {
	Kind             string   `yaml:"kind"` // ws, rpc, http or none
	URL              string   `yaml:"url"`
	FallbackURLs     []string `yaml:"fallbackUrls" ignored:"true"`
	DialTimeoutMs    int64    `yaml:"dialTimeoutMs" split_words:"true"`
	RequestTimeoutMs int64    `yaml:"requestTimeoutMs" split_words:"true"` // 0 waits for the wallet indefinitely
	PollIntervalMs   int64    `yaml:"pollIntervalMs" split_words:"true"`
	RateLimit        float64  `yaml:"rateLimit" split_words:"true"` // requests per second
	RateBurst        int      `yaml:"rateBurst" split_words:"true"`
}

// ConnectorConfig holds the wallet card settings.
type ConnectorConfig struct {
	Network          string `yaml:"network"` // identifier or chain id of the accepted network
	WalletName       string `yaml:"walletName" split_words:"true"`
	BannerDurationMs int64  `yaml:"bannerDurationMs" split_words:"true"`
	CopyConfirmMs    int64  `yaml:"copyConfirmMs" split_words:"true"`
}

// UIConfig selects the frontend.
type UIConfig struct {
	Mode      string `yaml:"mode"`
	Clipboard string `yaml:"clipboard"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Provider  ProviderConfig  `yaml:"provider"`
	Connector ConnectorConfig `yaml:"connector"`
	UI        UIConfig        `yaml:"ui"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// PathFromEnv returns CONFIG_PATH or DefaultPath.
func PathFromEnv() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads the YAML configuration file from the given path, applies environment
// overrides and fills in defaults. A missing file is not an error: the configuration
// then comes from the environment and defaults only.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logrus.Warnf("Config file %s not found, using environment and defaults", path)
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
		logrus.Infof("Loaded configuration from %s", path)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 10
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 10
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = 60
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	cfg.Provider.Kind = strings.ToLower(strings.TrimSpace(cfg.Provider.Kind))
	if cfg.Provider.Kind == "" {
		if cfg.Provider.URL == "" {
			cfg.Provider.Kind = "none"
		} else if strings.HasPrefix(cfg.Provider.URL, "http") {
			cfg.Provider.Kind = "http"
		} else {
			cfg.Provider.Kind = "ws"
		}
		logrus.Infof("Provider.Kind not set, defaulting to %s", cfg.Provider.Kind)
	}
	if cfg.Provider.DialTimeoutMs <= 0 {
		cfg.Provider.DialTimeoutMs = 5000
	}
	if cfg.Provider.PollIntervalMs <= 0 {
		cfg.Provider.PollIntervalMs = 2000
	}
	if cfg.Provider.RateLimit > 0 && cfg.Provider.RateBurst <= 0 {
		cfg.Provider.RateBurst = 1
	}

	if cfg.Connector.Network == "" {
		cfg.Connector.Network = "fuji"
	}
	if cfg.Connector.WalletName == "" {
		cfg.Connector.WalletName = "Core Wallet"
	}
	if cfg.Connector.BannerDurationMs <= 0 {
		cfg.Connector.BannerDurationMs = 5000
	}
	if cfg.Connector.CopyConfirmMs <= 0 {
		cfg.Connector.CopyConfirmMs = 1500
	}

	cfg.UI.Mode = strings.ToLower(cfg.UI.Mode)
	if cfg.UI.Mode == "" {
		cfg.UI.Mode = ModeServer
	}
	cfg.UI.Clipboard = strings.ToLower(cfg.UI.Clipboard)
	if cfg.UI.Clipboard == "" {
		if cfg.UI.Mode == ModeTUI {
			cfg.UI.Clipboard = ClipboardSystem
		} else {
			cfg.UI.Clipboard = ClipboardMemory
		}
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

// Validate rejects values the application cannot start with.
func (c *Config) Validate() error {
	switch c.Provider.Kind {
	case "none", "rpc", "ws", "http":
	default:
		return fmt.Errorf("invalid provider.kind %q: expected ws, rpc, http or none", c.Provider.Kind)
	}
	switch c.UI.Mode {
	case ModeServer, ModeTUI:
	default:
		return fmt.Errorf("invalid ui.mode %q: expected server or tui", c.UI.Mode)
	}
	switch c.UI.Clipboard {
	case ClipboardMemory, ClipboardSystem:
	default:
		return fmt.Errorf("invalid ui.clipboard %q: expected memory or system", c.UI.Clipboard)
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") || strings.ContainsAny(c.Metrics.Path, ":*") {
		return fmt.Errorf("invalid metrics.path %q: expected an absolute route without wildcards", c.Metrics.Path)
	}
	if c.Provider.RequestTimeoutMs < 0 {
		return fmt.Errorf("provider.requestTimeoutMs must not be negative")
	}
	return nil
}

// connectRequests is the number of sequential provider calls a connect makes.
const connectRequests = 3

// HTTPWriteTimeout is the write timeout of the HTTP server. POST /wallet/connect waits on the
// wallet prompt, so the configured value is lifted to cover a full connect. With no provider
// request timeout a connect can wait forever and the write timeout is disabled.
func (c *Config) HTTPWriteTimeout() time.Duration {
	configured := time.Duration(c.Server.WriteTimeout) * time.Second
	if c.Provider.Kind == "none" {
		return configured
	}
	if c.Provider.RequestTimeoutMs == 0 {
		return 0
	}
	needed := connectRequests*c.Provider.RequestTimeout() + time.Second
	if needed > configured {
		return needed
	}
	return configured
}

// Durations in the form the services take them.

func (p ProviderConfig) DialTimeout() time.Duration {
	return time.Duration(p.DialTimeoutMs) * time.Millisecond
}

func (p ProviderConfig) RequestTimeout() time.Duration {
	return time.Duration(p.RequestTimeoutMs) * time.Millisecond
}

func (p ProviderConfig) PollInterval() time.Duration {
	return time.Duration(p.PollIntervalMs) * time.Millisecond
}

func (c ConnectorConfig) BannerDuration() time.Duration {
	return time.Duration(c.BannerDurationMs) * time.Millisecond
}

func (c ConnectorConfig) CopyConfirm() time.Duration {
	return time.Duration(c.CopyConfirmMs) * time.Millisecond
}
