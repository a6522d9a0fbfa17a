// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultMaxRequestSize is the default maximum request body size (1MB).
	DefaultMaxRequestSize = 1 << 20

	// DefaultTransportMaxIdleConns is the default max idle connections.
	DefaultTransportMaxIdleConns = 100

	// DefaultTransportMaxIdleConnsPerHost is the default max idle connections per host.
	DefaultTransportMaxIdleConnsPerHost = 10

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 100

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28

	// DefaultUserAgent identifies this service to the vendors.
	DefaultUserAgent = "sitebuilder-provisioner/1.0"
)

// Supported provider names.
const (
	ProviderBaseKit    = "basekit"
	ProviderWeebly     = "weebly"
	ProviderYola       = "yola"
	ProviderWebsitecom = "websitecom"
)

// envNestingSeparator maps APP_BASEKIT__API_URL to basekit.api_url.
const envNestingSeparator = "__"

// Config is the root configuration structure.
//
// Only the vendor section named by Provider.Name is validated; the others
// may stay empty.
type Config struct {
	App        AppConfig        `koanf:"app"        validate:"required"`
	Server     ServerConfig     `koanf:"server"     validate:"required"`
	Log        LogConfig        `koanf:"log"        validate:"required"`
	Telemetry  TelemetryConfig  `koanf:"telemetry"`
	Client     ClientConfig     `koanf:"client"     validate:"required"`
	Provider   ProviderConfig   `koanf:"provider"`
	BaseKit    BaseKitConfig    `koanf:"basekit"    validate:"-"`
	Weebly     WeeblyConfig     `koanf:"weebly"     validate:"-"`
	Yola       YolaConfig       `koanf:"yola"       validate:"-"`
	Websitecom WebsitecomConfig `koanf:"websitecom" validate:"-"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"required,min=1s"`

	// APIToken is the bearer token required on /api/v1. Empty disables the check.
	APIToken string `koanf:"api_token"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// ClientConfig contains vendor HTTP client settings shared by all adapters.
// Each call is a single attempt: there is no retry configuration.
type ClientConfig struct {
	ConnectTimeout time.Duration   `koanf:"connect_timeout" validate:"required,min=100ms"`
	UserAgent      string          `koanf:"user_agent"      validate:"required"`
	Transport      TransportConfig `koanf:"transport"       validate:"required"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// ProviderConfig selects the vendor adapter.
type ProviderConfig struct {
	Name string `koanf:"name" validate:"required,oneof=basekit weebly yola websitecom"`
}

// BaseKitConfig holds BaseKit reseller credentials (HTTP Basic auth).
type BaseKitConfig struct {
	APIURL               string        `koanf:"api_url"                 validate:"required,url"`
	Username             string        `koanf:"username"                validate:"required"`
	Password             string        `koanf:"password"                validate:"required"`
	BrandRef             string        `koanf:"brand_ref"               validate:"required"`
	SuspensionPackageRef string        `koanf:"suspension_package_ref"  validate:"required"`
	AutoLoginRedirectURL string        `koanf:"auto_login_redirect_url" validate:"omitempty,url"`
	Timeout              time.Duration `koanf:"timeout"                 validate:"required,min=1s"`
	Debug                bool          `koanf:"debug"`
}

// WeeblyConfig holds Weebly Cloud credentials (HMAC-SHA256 signed requests).
type WeeblyConfig struct {
	BaseURL   string        `koanf:"base_url"   validate:"required,url"`
	APIKey    string        `koanf:"api_key"    validate:"required"`
	APISecret string        `koanf:"api_secret" validate:"required"`
	Timeout   time.Duration `koanf:"timeout"    validate:"required,min=1s"`
	Debug     bool          `koanf:"debug"`
}

// YolaConfig holds Topline Yola credentials (timed HMAC-SHA1 signed requests).
type YolaConfig struct {
	AuthKey string        `koanf:"auth_key" validate:"required"`
	AgentID string        `koanf:"agent_id" validate:"required"`
	BrandID string        `koanf:"brand_id" validate:"required"`
	Sandbox bool          `koanf:"sandbox"`
	BaseURL string        `koanf:"base_url" validate:"omitempty,url"`
	Timeout time.Duration `koanf:"timeout"  validate:"required,min=1s"`
	Debug   bool          `koanf:"debug"`
}

// Yola API hosts.
const (
	YolaProductionURL = "https://sbsapi.com"
	YolaSandboxURL    = "https://sandbox.sbsapi.com"
)

// ResolvedBaseURL returns the explicit base URL, else the sandbox or production host.
func (c *YolaConfig) ResolvedBaseURL() string {
	switch {
	case c.BaseURL != "":
		return c.BaseURL
	case c.Sandbox:
		return YolaSandboxURL
	default:
		return YolaProductionURL
	}
}

// WebsitecomConfig holds Website.com reseller credentials (static header key).
type WebsitecomConfig struct {
	BaseURL     string        `koanf:"base_url"     validate:"required,url"`
	ResellerKey string        `koanf:"reseller_key" validate:"required"`
	ClientID    string        `koanf:"client_id"    validate:"required"`
	Timeout     time.Duration `koanf:"timeout"      validate:"required,min=1s"`
	Debug       bool          `koanf:"debug"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "sitebuilder-provisioner",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "90s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "90s",
		"server.max_request_size": DefaultMaxRequestSize,
		"server.request_timeout":  "80s",
		"server.api_token":        "",

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/provisioner.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "sitebuilder-provisioner",
		"telemetry.sampling_rate": 1.0,

		"client.connect_timeout":                   "5s",
		"client.user_agent":                        DefaultUserAgent,
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       "90s",

		"provider.name": ProviderBaseKit,

		"basekit.timeout": "10s",
		"basekit.debug":   false,

		"weebly.base_url": "https://api.weeblycloud.com/",
		"weebly.timeout":  "30s",
		"weebly.debug":    false,

		"yola.sandbox": false,
		"yola.timeout": "30s",
		"yola.debug":   false,

		"websitecom.base_url": "https://api.websiteserver.cloud/site-builder/v1de/",
		"websitecom.timeout":  "10s",
		"websitecom.debug":    false,
	}
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. Environment variables (APP_ prefix, "__" separates nesting levels)
//  2. Profile config file (configs/{profile}.yaml)
//  3. Base config file (configs/base.yaml)
//  4. Default values
func Load(profile string) (*Config, error) {
	return LoadFrom("configs", profile)
}

// LoadFrom is Load with an explicit config directory.
func LoadFrom(dir, profile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if err := loadFileIfExists(k, dir+"/base.yaml"); err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		if err := loadFileIfExists(k, fmt.Sprintf("%s/%s.yaml", dir, profile)); err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	err := k.Load(env.Provider("APP_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "APP_")),
			envNestingSeparator,
			".",
		)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// loadFileIfExists loads a YAML config file if it exists.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
