package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_DefaultValues tests that hardcoded defaults are applied correctly.
// This test doesn't depend on YAML files - it only tests the defaults() function.
func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sitebuilder-provisioner", cfg.App.Name)
	assert.Equal(t, "dev", cfg.App.Version)
	assert.Equal(t, "local", cfg.App.Environment)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ProviderBaseKit, cfg.Provider.Name)
	assert.Equal(t, DefaultUserAgent, cfg.Client.UserAgent)
}

// TestLoad_EnvVarOverrides tests that environment variables override defaults.
func TestLoad_EnvVarOverrides(t *testing.T) {
	t.Setenv("APP_SERVER__PORT", "9090")
	t.Setenv("APP_LOG__LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}

// TestLoad_EnvVarUnderscoreKeys tests that single underscores survive inside keys.
func TestLoad_EnvVarUnderscoreKeys(t *testing.T) {
	t.Setenv("APP_PROVIDER__NAME", "weebly")
	t.Setenv("APP_WEEBLY__API_KEY", "public")
	t.Setenv("APP_WEEBLY__API_SECRET", "private")
	t.Setenv("APP_CLIENT__CONNECT_TIMEOUT", "2s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ProviderWeebly, cfg.Provider.Name)
	assert.Equal(t, "public", cfg.Weebly.APIKey)
	assert.Equal(t, "private", cfg.Weebly.APISecret)
	assert.Equal(t, 2*time.Second, cfg.Client.ConnectTimeout)
}

// TestLoad_DurationParsing tests that duration strings are parsed correctly.
func TestLoad_DurationParsing(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 90*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 120*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, 90*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 80*time.Second, cfg.Server.RequestTimeout)
	assert.Empty(t, cfg.Server.APIToken)
	assert.Equal(t, 5*time.Second, cfg.Client.ConnectTimeout)
	assert.Equal(t, 90*time.Second, cfg.Client.Transport.IdleConnTimeout)
}

// TestLoad_NonExistentProfile tests that a missing profile file doesn't cause errors.
func TestLoad_NonExistentProfile(t *testing.T) {
	cfg, err := Load("nonexistent")
	require.NoError(t, err)

	assert.Equal(t, "sitebuilder-provisioner", cfg.App.Name)
}

// TestLoad_BoolEnvVar tests that boolean environment variables are parsed correctly.
func TestLoad_BoolEnvVar(t *testing.T) {
	t.Setenv("APP_TELEMETRY__ENABLED", "true")
	t.Setenv("APP_YOLA__SANDBOX", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.Telemetry.Enabled)
	assert.True(t, cfg.Yola.Sandbox)
}

// TestLoad_ProfileFiles tests base and profile YAML layering.
func TestLoad_ProfileFiles(t *testing.T) {
	dir := t.TempDir()

	base := `
provider:
  name: yola
yola:
  auth_key: base-key
  agent_id: agent-1
  brand_id: brand-1
`
	prod := `
yola:
  auth_key: prod-key
  timeout: 45s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte(base), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prod.yaml"), []byte(prod), 0o600))

	cfg, err := LoadFrom(dir, "prod")
	require.NoError(t, err)

	assert.Equal(t, ProviderYola, cfg.Provider.Name)
	assert.Equal(t, "prod-key", cfg.Yola.AuthKey)
	assert.Equal(t, "agent-1", cfg.Yola.AgentID)
	assert.Equal(t, 45*time.Second, cfg.Yola.Timeout)
	require.NoError(t, cfg.Validate())
}

// TestLoad_LogFileDefaults tests that log file defaults are set correctly.
func TestLoad_LogFileDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.False(t, cfg.Log.File.Enabled)
	assert.Equal(t, "./logs/provisioner.log", cfg.Log.File.Path)
	assert.Equal(t, DefaultLogFileMaxSizeMB, cfg.Log.File.MaxSizeMB)
	assert.Equal(t, DefaultLogFileMaxBackups, cfg.Log.File.MaxBackups)
	assert.Equal(t, DefaultLogFileMaxAgeDays, cfg.Log.File.MaxAgeDays)
	assert.True(t, cfg.Log.File.Compress)
}

// TestLoad_TelemetryDefaults tests that telemetry defaults are set correctly.
func TestLoad_TelemetryDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "sitebuilder-provisioner", cfg.Telemetry.ServiceName)
	assert.InDelta(t, 1.0, cfg.Telemetry.SamplingRate, 0)
}

// TestLoad_VendorDefaults tests the per-vendor timeouts and base URLs.
func TestLoad_VendorDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.BaseKit.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Weebly.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Yola.Timeout)
	assert.Equal(t, 10*time.Second, cfg.Websitecom.Timeout)
	assert.Equal(t, "https://api.weeblycloud.com/", cfg.Weebly.BaseURL)
	assert.Equal(t, "https://api.websiteserver.cloud/site-builder/v1de/", cfg.Websitecom.BaseURL)
	assert.False(t, cfg.BaseKit.Debug)
}

func TestYolaConfig_ResolvedBaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  YolaConfig
		want string
	}{
		{"production", YolaConfig{}, YolaProductionURL},
		{"sandbox", YolaConfig{Sandbox: true}, YolaSandboxURL},
		{"explicit override wins", YolaConfig{Sandbox: true, BaseURL: "http://127.0.0.1:9000"}, "http://127.0.0.1:9000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.ResolvedBaseURL())
		})
	}
}

// TestDefaults tests that the defaults map contains expected values.
func TestDefaults(t *testing.T) {
	d := defaults()

	assert.Equal(t, "sitebuilder-provisioner", d["app.name"])
	assert.Equal(t, "dev", d["app.version"])
	assert.Equal(t, "local", d["app.environment"])
	assert.Equal(t, DefaultServerPort, d["server.port"])
	assert.Equal(t, "0.0.0.0", d["server.host"])
	assert.Equal(t, "info", d["log.level"])
	assert.Equal(t, "json", d["log.format"])
	assert.Equal(t, "5s", d["client.connect_timeout"])
	assert.Equal(t, ProviderBaseKit, d["provider.name"])
}
