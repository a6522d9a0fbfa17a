package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a fully valid configuration for testing.
func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "test-service",
			Version:     "1.0.0",
			Environment: "local",
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxRequestSize:  1048576,
			RequestTimeout:  80 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Client: ClientConfig{
			ConnectTimeout: 5 * time.Second,
			UserAgent:      DefaultUserAgent,
			Transport: TransportConfig{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		Provider: ProviderConfig{Name: ProviderBaseKit},
		BaseKit: BaseKitConfig{
			APIURL:               "https://rest.example-basekit.test",
			Username:             "reseller",
			Password:             "hunter2",
			BrandRef:             "12",
			SuspensionPackageRef: "99",
			Timeout:              10 * time.Second,
		},
	}
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_CommonSections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "missing app name", mutate: func(c *Config) { c.App.Name = "" }, want: "app.name is required"},
		{name: "unknown environment", mutate: func(c *Config) { c.App.Environment = "staging" }, want: "app.environment must be one of: local dev qa prod test"},
		{name: "port out of range", mutate: func(c *Config) { c.Server.Port = 70000 }, want: "server.port must be at most 65535"},
		{name: "missing host", mutate: func(c *Config) { c.Server.Host = "" }, want: "server.host is required"},
		{name: "sub-second read timeout", mutate: func(c *Config) { c.Server.ReadTimeout = 500 * time.Millisecond }, want: "server.read_timeout must be at least 1s"},
		{name: "missing request timeout", mutate: func(c *Config) { c.Server.RequestTimeout = 0 }, want: "server.request_timeout is required"},
		{name: "zero body limit", mutate: func(c *Config) { c.Server.MaxRequestSize = 0 }, want: "server.max_request_size is required"},
		{name: "unknown log level", mutate: func(c *Config) { c.Log.Level = "verbose" }, want: "log.level must be one of: trace debug info warn error"},
		{name: "unknown log format", mutate: func(c *Config) { c.Log.Format = "xml" }, want: "log.format must be one of: json text pretty"},
		{name: "log file without path", mutate: func(c *Config) { c.Log.File = LogFileConfig{Enabled: true} }, want: "log.file.path is required when Enabled true"},
		{name: "log file too large", mutate: func(c *Config) { c.Log.File = LogFileConfig{Path: "x.log", MaxSizeMB: 2048} }, want: "log.file.max_size must be at most 1024"},
		{name: "telemetry without endpoint", mutate: func(c *Config) { c.Telemetry = TelemetryConfig{Enabled: true, ServiceName: "p"} }, want: "telemetry.endpoint is required when Enabled true"},
		{name: "telemetry endpoint not a url", mutate: func(c *Config) { c.Telemetry = TelemetryConfig{Enabled: true, ServiceName: "p", Endpoint: "collector"} }, want: "telemetry.endpoint must be a valid URL"},
		{name: "sampling above one", mutate: func(c *Config) { c.Telemetry.SamplingRate = 1.5 }, want: "telemetry.sampling_rate must be at most 1"},
		{name: "connect timeout too short", mutate: func(c *Config) { c.Client.ConnectTimeout = 10 * time.Millisecond }, want: "client.connect_timeout must be at least 100ms"},
		{name: "missing user agent", mutate: func(c *Config) { c.Client.UserAgent = "" }, want: "client.user_agent is required"},
		{name: "empty transport pool", mutate: func(c *Config) { c.Client.Transport.MaxIdleConns = 0 }, want: "client.transport.max_idle_conns is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfig_Validate_Environments(t *testing.T) {
	for _, env := range []string{"local", "dev", "qa", "prod", "test"} {
		cfg := validConfig()
		cfg.App.Environment = env
		assert.NoError(t, cfg.Validate(), env)
	}
}

func TestConfig_Validate_OptionalSections(t *testing.T) {
	cfg := validConfig()
	cfg.Server.APIToken = ""
	cfg.Log.File = LogFileConfig{}
	cfg.Telemetry = TelemetryConfig{}

	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate_ProviderName(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		cfg := validConfig()
		cfg.Provider.Name = "wix"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "provider.name must be one of")
	})

	t.Run("missing provider", func(t *testing.T) {
		cfg := validConfig()
		cfg.Provider.Name = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "provider.name is required")
		assert.NotContains(t, err.Error(), "  provider is required")
	})
}

func TestConfig_Validate_BaseKit(t *testing.T) {
	t.Run("missing credentials", func(t *testing.T) {
		cfg := validConfig()
		cfg.BaseKit.Username = ""
		cfg.BaseKit.Password = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "basekit.username is required")
		assert.Contains(t, err.Error(), "basekit.password is required")
	})

	t.Run("invalid api url", func(t *testing.T) {
		cfg := validConfig()
		cfg.BaseKit.APIURL = "rest-basekit"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "basekit.api_url must be a valid URL")
	})

	t.Run("invalid auto login redirect", func(t *testing.T) {
		cfg := validConfig()
		cfg.BaseKit.AutoLoginRedirectURL = "not a url"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "basekit.auto_login_redirect_url")
	})
}

func TestConfig_Validate_UnselectedVendorsIgnored(t *testing.T) {
	cfg := validConfig()
	cfg.Weebly = WeeblyConfig{}
	cfg.Yola = YolaConfig{}
	cfg.Websitecom = WebsitecomConfig{}

	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate_SelectedVendor(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		contains []string
	}{
		{
			name: "weebly missing secret",
			mutate: func(c *Config) {
				c.Provider.Name = ProviderWeebly
				c.Weebly = WeeblyConfig{BaseURL: "https://api.weeblycloud.com/", APIKey: "k", Timeout: 30 * time.Second}
			},
			contains: []string{"weebly.api_secret is required"},
		},
		{
			name: "yola missing brand and agent",
			mutate: func(c *Config) {
				c.Provider.Name = ProviderYola
				c.Yola = YolaConfig{AuthKey: "k", Timeout: 30 * time.Second}
			},
			contains: []string{"yola.brand_id is required", "yola.agent_id is required"},
		},
		{
			name: "websitecom missing reseller key",
			mutate: func(c *Config) {
				c.Provider.Name = ProviderWebsitecom
				c.Websitecom = WebsitecomConfig{BaseURL: "https://api.example.test/v1/", ClientID: "7", Timeout: 10 * time.Second}
			},
			contains: []string{"websitecom.reseller_key is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, err.Error(), want)
			}
		})
	}

	t.Run("valid weebly", func(t *testing.T) {
		cfg := validConfig()
		cfg.Provider.Name = ProviderWeebly
		cfg.BaseKit = BaseKitConfig{}
		cfg.Weebly = WeeblyConfig{
			BaseURL:   "https://api.weeblycloud.com/",
			APIKey:    "k",
			APISecret: "s",
			Timeout:   30 * time.Second,
		}

		assert.NoError(t, cfg.Validate())
	})
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := validConfig()
	cfg.App.Name = ""
	cfg.Server.Port = -1
	cfg.BaseKit.BrandRef = ""

	err := cfg.Validate()
	require.Error(t, err)

	lines := strings.Split(err.Error(), "\n")
	assert.Equal(t, "config validation failed:", lines[0])
	assert.Len(t, lines, 4, "common and vendor errors are reported together")
	assert.Contains(t, err.Error(), "app.name is required")
	assert.Contains(t, err.Error(), "server.port must be at least 1")
	assert.Contains(t, err.Error(), "basekit.brand_ref is required")
}

func TestFormatFieldPath(t *testing.T) {
	tests := []struct {
		namespace string
		expected  string
	}{
		{"Config.server.port", "server.port"},
		{"Config.app.name", "app.name"},
		{"Config.client.transport.max_idle_conns", "client.transport.max_idle_conns"},
		{"Config.log.file.path", "log.file.path"},
		{"BaseKitConfig.api_url", "api_url"},
		{"Config.Telemetry.SamplingRate", "telemetry.samplingrate"},
	}

	for _, tt := range tests {
		t.Run(tt.namespace, func(t *testing.T) {
			result := formatFieldPath(tt.namespace)
			assert.Equal(t, tt.expected, result)
		})
	}
}
