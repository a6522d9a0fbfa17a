// Package yola implements the WebsiteBuilder contract for Yola accounts
// resold through Topline Cloud Services.
//
// The account reference is the Yola domain id; a domain name is accepted and
// resolved against the account's domains. site_builder_user_id is the Yola
// account id and is required by every operation except Create and Login.
//
// A package that cannot be applied during Create does not fail it: the
// account is usable and the returned info carries the package error as its
// message.
package yola

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
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/platform/logging"
)

const (
	signaturePrefix = "SBS"
	agentIDHeader   = "SBS-AgentID"
)

// Provider is the Topline Yola adapter.
type Provider struct {
	api *API
}

// New builds a Yola adapter. The host follows cfg.ResolvedBaseURL.
func New(cfg config.YolaConfig, clientCfg config.ClientConfig, logger *slog.Logger) (*Provider, error) {
	return newProvider(cfg, clientCfg, logger, &clients.TimedHMACSHA1{
		Secret:       cfg.AuthKey,
		HeaderPrefix: signaturePrefix,
	})
}

func newProvider(cfg config.YolaConfig, clientCfg config.ClientConfig, logger *slog.Logger, signer clients.Signer) (*Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client, err := clients.New(&clients.Config{
		BaseURL:        cfg.ResolvedBaseURL(),
		ServiceName:    Name,
		Timeout:        cfg.Timeout,
		ConnectTimeout: clientCfg.ConnectTimeout,
		Transport:      clientCfg.Transport,
		UserAgent:      clientCfg.UserAgent,
		Headers: http.Header{
			"Accept":      {clients.ContentTypeJSON},
			agentIDHeader: {cfg.AgentID},
		},
		Signer: signer,
		Debug:  cfg.Debug,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating yola client: %w", err)
	}

	return &Provider{
		api: NewAPI(client, cfg.BrandID),
	}, nil
}

// Name implements ports.WebsiteBuilder.
func (p *Provider) Name() string {
	return Name
}

// Check implements ports.HealthChecker.
func (p *Provider) Check(ctx context.Context) error {
	_, err := p.api.ListPlans(ctx)

	return err
}

// Create creates the account, or adds the domain to an existing one, then
// applies the package.
func (p *Provider) Create(ctx context.Context, params domain.CreateParams) (*domain.AccountInfo, error) {
	if err := acl.ValidateRequired(params.DomainName, "domain_name"); err != nil {
		return nil, err
	}
	if err := acl.ValidateRequired(params.PackageReference, "package_reference"); err != nil {
		return nil, err
	}

	userID := params.SiteBuilderUserID
	if userID == "" {
		if err := acl.ValidateRequired(params.CustomerEmail, "customer_email"); err != nil {
			return nil, err
		}

		var err error
		userID, err = p.api.CreateUser(ctx, newUserFrom(&params))
		if err != nil {
			return nil, err
		}
	} else if err := p.api.AddDomain(ctx, userID, params.DomainName); err != nil {
		return nil, err
	}

	d, err := p.api.ResolveDomain(ctx, userID, params.DomainName)
	if err != nil {
		return nil, err
	}

	message := domain.MsgWebsiteCreated
	if err := p.applyPackage(ctx, d.DomainID.String(), params.PackageReference); err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "package not applied to new account",
			slog.String("site_builder_user_id", userID),
			slog.String("package_reference", params.PackageReference),
			slog.Any("error", err),
		)
		message = fmt.Sprintf("Package %s error: %s", params.PackageReference, failureReason(err))
	}

	info, err := p.accountInfo(ctx, userID, d.DomainID.String())
	if err != nil {
		return nil, err
	}

	return info.WithMessage(message), nil
}

func newUserFrom(params *domain.CreateParams) *NewUser {
	first, _ := params.NameParts()

	return &NewUser{
		UserID:    params.CustomerID,
		Domain:    strings.TrimSpace(params.DomainName),
		Email:     params.CustomerEmail,
		FirstName: first,
		LastName:  params.LastNameOrUnknown(),
		Language:  params.Language(),
	}
}

// failureReason strips the taxonomy prefix from a vendor error message.
func failureReason(err error) string {
	return strings.TrimPrefix(err.Error(), domain.MsgProviderErrorPrefix)
}

func (p *Provider) applyPackage(ctx context.Context, domainID, packageRef string) error {
	plan, err := p.api.FindPlan(ctx, packageRef)
	if err != nil {
		return err
	}

	return p.api.ReplaceSubscription(ctx, domainID, plan.Field("planID"))
}

// GetInfo reads the domain from its account.
func (p *Provider) GetInfo(ctx context.Context, id domain.AccountIdentifier) (*domain.AccountInfo, error) {
	if err := validateIdentifier(id); err != nil {
		return nil, err
	}

	info, err := p.accountInfo(ctx, id.SiteBuilderUserID, id.AccountReference)
	if err != nil {
		return nil, err
	}

	return info.WithMessage(domain.MsgAccountDataObtained), nil
}

func (p *Provider) accountInfo(ctx context.Context, userID, ref string) (*domain.AccountInfo, error) {
	d, err := p.api.ResolveDomain(ctx, userID, ref)
	if err != nil {
		return nil, err
	}

	return &domain.AccountInfo{
		AccountReference:  d.DomainID.String(),
		DomainName:        d.Domain,
		PackageReference:  d.PlanID(),
		Suspended:         d.Suspended(),
		SiteBuilderUserID: userID,
	}, nil
}

// Login returns a single sign-on URL. A domain name is only resolvable when
// site_builder_user_id is given.
func (p *Provider) Login(ctx context.Context, id domain.AccountIdentifier) (*domain.LoginResult, error) {
	if err := acl.ValidateRequired(id.AccountReference, "account_reference"); err != nil {
		return nil, err
	}

	domainID := id.AccountReference
	if id.SiteBuilderUserID != "" && !acl.IsNumeric(domainID) {
		d, err := p.api.ResolveDomain(ctx, id.SiteBuilderUserID, domainID)
		if err != nil {
			return nil, err
		}
		domainID = d.DomainID.String()
	}

	loginURL, err := p.api.SSOURL(ctx, domainID)
	if err != nil {
		return nil, err
	}

	return &domain.LoginResult{LoginURL: loginURL}, nil
}

// ChangePackage replaces the domain's active subscription.
func (p *Provider) ChangePackage(ctx context.Context, params domain.ChangePackageParams) (*domain.AccountInfo, error) {
	if err := validateIdentifier(params.AccountIdentifier); err != nil {
		return nil, err
	}
	if err := acl.ValidateRequired(params.PackageReference, "package_reference"); err != nil {
		return nil, err
	}

	d, err := p.api.ResolveDomain(ctx, params.SiteBuilderUserID, params.AccountReference)
	if err != nil {
		return nil, err
	}

	if err := p.applyPackage(ctx, d.DomainID.String(), params.PackageReference); err != nil {
		return nil, err
	}

	info, err := p.accountInfo(ctx, params.SiteBuilderUserID, d.DomainID.String())
	if err != nil {
		return nil, err
	}

	return info.WithMessage(domain.MsgPackageChanged), nil
}

// Suspend suspends the domain.
func (p *Provider) Suspend(ctx context.Context, id domain.AccountIdentifier) (*domain.AccountInfo, error) {
	if err := validateIdentifier(id); err != nil {
		return nil, err
	}

	d, err := p.api.ResolveDomain(ctx, id.SiteBuilderUserID, id.AccountReference)
	if err != nil {
		return nil, err
	}

	if err := p.api.Suspend(ctx, id.SiteBuilderUserID, d.DomainID.String()); err != nil {
		return nil, err
	}

	info, err := p.accountInfo(ctx, id.SiteBuilderUserID, d.DomainID.String())
	if err != nil {
		return nil, err
	}

	return info.WithMessage(domain.MsgAccountSuspended), nil
}

// UnSuspend reactivates the domain and re-applies the package.
func (p *Provider) UnSuspend(ctx context.Context, params domain.UnSuspendParams) (*domain.AccountInfo, error) {
	if err := validateIdentifier(params.AccountIdentifier); err != nil {
		return nil, err
	}
	if err := acl.ValidateRequired(params.PackageReference, "package_reference"); err != nil {
		return nil, err
	}

	userID := params.SiteBuilderUserID

	d, err := p.api.ResolveDomain(ctx, userID, params.AccountReference)
	if err != nil {
		return nil, err
	}
	domainID := d.DomainID.String()

	if err := p.api.Reactivate(ctx, userID, domainID); err != nil {
		return nil, err
	}

	if err := p.applyPackage(ctx, domainID, params.PackageReference); err != nil {
		return nil, err
	}

	info, err := p.accountInfo(ctx, userID, domainID)
	if err != nil {
		return nil, err
	}

	return info.WithMessage(domain.MsgAccountUnsuspended), nil
}

// Terminate deletes the domain, and the account once it has no domains left.
func (p *Provider) Terminate(ctx context.Context, id domain.AccountIdentifier) (*domain.TerminateResult, error) {
	if err := validateIdentifier(id); err != nil {
		return nil, err
	}

	userID := id.SiteBuilderUserID

	d, err := p.api.ResolveDomain(ctx, userID, id.AccountReference)
	if err != nil {
		return nil, err
	}

	if err := p.api.DeleteDomain(ctx, userID, d.DomainID.String()); err != nil {
		return nil, err
	}

	account, _, err := p.api.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(account.Domains) == 0 {
		if err := p.api.DeleteAccount(ctx, userID); err != nil {
			return nil, err
		}
	}

	return &domain.TerminateResult{Message: domain.MsgAccountTerminated}, nil
}

func validateIdentifier(id domain.AccountIdentifier) error {
	if err := acl.ValidateRequired(id.SiteBuilderUserID, "site_builder_user_id"); err != nil {
		return err
	}

	return acl.ValidateRequired(id.AccountReference, "account_reference")
}
