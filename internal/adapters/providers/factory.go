// Package providers selects the vendor adapter named by configuration.
package providers

import (
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/providers/basekit"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/providers/websitecom"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/providers/weebly"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/providers/yola"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/platform/config"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/ports"
)

// New builds the adapter for cfg.Provider.Name. An unknown name is a
// configuration error.
func New(cfg *config.Config, logger *slog.Logger) (ports.WebsiteBuilder, error) {
	if cfg == nil {
		return nil, fmt.Errorf("building provider: config is required")
	}

	var (
		builder ports.WebsiteBuilder
		err     error
	)

	switch cfg.Provider.Name {
	case config.ProviderBaseKit:
		builder, err = basekit.New(cfg.BaseKit, cfg.Client, logger)
	case config.ProviderWeebly:
		builder, err = weebly.New(cfg.Weebly, cfg.Client, logger)
	case config.ProviderYola:
		builder, err = yola.New(cfg.Yola, cfg.Client, logger)
	case config.ProviderWebsitecom:
		builder, err = websitecom.New(cfg.Websitecom, cfg.Client, logger)
	default:
		return nil, fmt.Errorf("building provider: unknown provider %q", cfg.Provider.Name)
	}

	if err != nil {
		return nil, fmt.Errorf("building %s provider: %w", cfg.Provider.Name, err)
	}

	return builder, nil
}

// HealthChecker returns the adapter's readiness probe when it has one.
func HealthChecker(builder ports.WebsiteBuilder) (ports.HealthChecker, bool) {
	checker, ok := builder.(ports.HealthChecker)

	return checker, ok
}
