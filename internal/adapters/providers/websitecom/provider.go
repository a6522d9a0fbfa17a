// Package websitecom implements the WebsiteBuilder contract for Website.com.
//
// The account reference is the Website.com user GUID. Every account belongs
// to the configured reseller client, so site_builder_user_id is not used.
package websitecom

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/clients"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/clients/acl"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/domain"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/platform/config"
)

const resellerKeyHeader = "resellerKey"

// Provider is the Website.com adapter.
type Provider struct {
	api *API
}

// New builds a Website.com adapter.
func New(cfg config.WebsitecomConfig, clientCfg config.ClientConfig, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client, err := clients.New(&clients.Config{
		BaseURL:        cfg.BaseURL,
		ServiceName:    Name,
		Timeout:        cfg.Timeout,
		ConnectTimeout: clientCfg.ConnectTimeout,
		Transport:      clientCfg.Transport,
		UserAgent:      clientCfg.UserAgent,
		Headers: http.Header{
			"Content-Type": {clients.ContentTypeJSON},
			"Accept":       {clients.ContentTypeJSON},
		},
		Signer: clients.StaticHeaders{resellerKeyHeader: cfg.ResellerKey},
		Debug:  cfg.Debug,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating websitecom client: %w", err)
	}

	return &Provider{
		api: NewAPI(client, cfg.ClientID),
	}, nil
}

// Name implements ports.WebsiteBuilder.
func (p *Provider) Name() string {
	return Name
}

// Create creates the user and its site in one call. The package reference
// is passed through as the Website.com plan id.
func (p *Provider) Create(ctx context.Context, params domain.CreateParams) (*domain.AccountInfo, error) {
	if err := acl.ValidateRequired(params.DomainName, "domain_name"); err != nil {
		return nil, err
	}
	if err := acl.ValidateRequired(params.PackageReference, "package_reference"); err != nil {
		return nil, err
	}
	if err := acl.ValidateRequired(params.CustomerEmail, "customer_email"); err != nil {
		return nil, err
	}

	first, _ := params.NameParts()

	userGUID, err := p.api.CreateUser(ctx, &NewUser{
		DomainName: strings.TrimSpace(params.DomainName),
		PlanID:     strings.TrimSpace(params.PackageReference),
		Email:      params.CustomerEmail,
		FirstName:  first,
		LastName:   params.LastNameOrUnknown(),
	})
	if err != nil {
		return nil, err
	}

	return p.info(ctx, userGUID, domain.MsgWebsiteCreated)
}

// GetInfo reads the user.
func (p *Provider) GetInfo(ctx context.Context, id domain.AccountIdentifier) (*domain.AccountInfo, error) {
	if err := validateIdentifier(id); err != nil {
		return nil, err
	}

	return p.info(ctx, id.AccountReference, domain.MsgAccountDataObtained)
}

func (p *Provider) info(ctx context.Context, userGUID, message string) (*domain.AccountInfo, error) {
	user, err := p.api.GetUser(ctx, userGUID)
	if err != nil {
		return nil, err
	}

	info := &domain.AccountInfo{
		AccountReference: user.UserGUID.String(),
		DomainName:       user.SiteDomain,
		PackageReference: user.PlanID.String(),
		Suspended:        user.Suspended(),
	}

	return info.WithMessage(message), nil
}

// Login returns a single sign-on URL.
func (p *Provider) Login(ctx context.Context, id domain.AccountIdentifier) (*domain.LoginResult, error) {
	if err := validateIdentifier(id); err != nil {
		return nil, err
	}

	loginURL, err := p.api.LoginURL(ctx, id.AccountReference)
	if err != nil {
		return nil, err
	}

	return &domain.LoginResult{LoginURL: loginURL}, nil
}

// ChangePackage moves the user to another plan.
func (p *Provider) ChangePackage(ctx context.Context, params domain.ChangePackageParams) (*domain.AccountInfo, error) {
	if err := validateIdentifier(params.AccountIdentifier); err != nil {
		return nil, err
	}
	if err := acl.ValidateRequired(params.PackageReference, "package_reference"); err != nil {
		return nil, err
	}

	if err := p.api.ChangePlan(ctx, params.AccountReference, strings.TrimSpace(params.PackageReference)); err != nil {
		return nil, err
	}

	return p.info(ctx, params.AccountReference, domain.MsgPackageChanged)
}

// Suspend suspends the user.
func (p *Provider) Suspend(ctx context.Context, id domain.AccountIdentifier) (*domain.AccountInfo, error) {
	if err := validateIdentifier(id); err != nil {
		return nil, err
	}

	if err := p.api.Suspend(ctx, id.AccountReference); err != nil {
		return nil, err
	}

	return p.info(ctx, id.AccountReference, domain.MsgAccountSuspended)
}

// UnSuspend lifts the suspension and restores the package when the user
// is no longer on it.
func (p *Provider) UnSuspend(ctx context.Context, params domain.UnSuspendParams) (*domain.AccountInfo, error) {
	if err := validateIdentifier(params.AccountIdentifier); err != nil {
		return nil, err
	}
	if err := acl.ValidateRequired(params.PackageReference, "package_reference"); err != nil {
		return nil, err
	}

	userGUID := params.AccountReference

	if err := p.api.Unsuspend(ctx, userGUID); err != nil {
		return nil, err
	}

	user, err := p.api.GetUser(ctx, userGUID)
	if err != nil {
		return nil, err
	}

	if want := strings.TrimSpace(params.PackageReference); user.PlanID.String() != want {
		if err := p.api.ChangePlan(ctx, userGUID, want); err != nil {
			return nil, err
		}
	}

	return p.info(ctx, userGUID, domain.MsgAccountUnsuspended)
}

// Terminate removes the user and its site.
func (p *Provider) Terminate(ctx context.Context, id domain.AccountIdentifier) (*domain.TerminateResult, error) {
	if err := validateIdentifier(id); err != nil {
		return nil, err
	}

	if err := p.api.Terminate(ctx, id.AccountReference); err != nil {
		return nil, err
	}

	return &domain.TerminateResult{Message: domain.MsgAccountTerminated}, nil
}

func validateIdentifier(id domain.AccountIdentifier) error {
	return acl.ValidateRequired(id.AccountReference, "account_reference")
}
