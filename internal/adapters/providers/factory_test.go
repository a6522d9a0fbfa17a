package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/platform/config"
)

func testConfig(name string) *config.Config {
	return &config.Config{
		Client:   config.ClientConfig{ConnectTimeout: time.Second, UserAgent: "test"},
		Provider: config.ProviderConfig{Name: name},
		BaseKit: config.BaseKitConfig{
			APIURL:               "https://api.basekit.test",
			Username:             "reseller",
			Password:             "secret",
			BrandRef:             "1",
			SuspensionPackageRef: "99",
			Timeout:              time.Second,
		},
		Weebly: config.WeeblyConfig{
			BaseURL:   "https://api.weebly.test/v1",
			APIKey:    "key",
			APISecret: "secret",
			Timeout:   time.Second,
		},
		Yola: config.YolaConfig{
			AuthKey: "auth",
			AgentID: "agent",
			BrandID: "brand",
			Sandbox: true,
			Timeout: time.Second,
		},
		Websitecom: config.WebsitecomConfig{
			BaseURL:     "https://api.website.test/v1/",
			ResellerKey: "key",
			ClientID:    "client",
			Timeout:     time.Second,
		},
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		wantChecker bool
	}{
		{name: config.ProviderBaseKit, wantChecker: false},
		{name: config.ProviderWeebly, wantChecker: true},
		{name: config.ProviderYola, wantChecker: true},
		{name: config.ProviderWebsitecom, wantChecker: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder, err := New(testConfig(tt.name), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.name, builder.Name())

			checker, ok := HealthChecker(builder)
			assert.Equal(t, tt.wantChecker, ok)
			if ok {
				assert.Equal(t, tt.name, checker.Name())
			}
		})
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(testConfig("wix"), nil)

	require.Error(t, err)
	assert.Equal(t, `building provider: unknown provider "wix"`, err.Error())
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(nil, nil)

	require.Error(t, err)
}

func TestNew_InvalidVendorConfig(t *testing.T) {
	cfg := testConfig(config.ProviderWeebly)
	cfg.Weebly.BaseURL = ""

	_, err := New(cfg, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "building weebly provider")
}
