// Package weebly implements the WebsiteBuilder contract for Weebly Cloud.
//
// The account reference is the Weebly site id and site_builder_user_id is
// the owning Weebly user, required for every operation except Create. A
// non-numeric account reference is treated as the site's domain.
//
// Weebly applies the plan in the same call that creates the site, so Create
// has no separate package step to fail. When site creation fails after a
// new user was created, the user id is attached to the error data so the
// caller can reuse it.
package weebly

import (
	"context"
	"errors"
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
	publicKeyHeader = "X-Public-Key"
	signatureHeader = "X-Signed-Request-Hash"
)

// Provider is the Weebly adapter.
type Provider struct {
	api *API
}

// New builds a Weebly adapter with its own HTTP client.
func New(cfg config.WeeblyConfig, clientCfg config.ClientConfig, logger *slog.Logger) (*Provider, error) {
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
			"Content-Type":  {clients.ContentTypeJSON},
			"Accept":        {clients.ContentTypeJSON},
			publicKeyHeader: {cfg.APIKey},
		},
		Signer: clients.HMACSHA256{Secret: cfg.APISecret, Header: signatureHeader},
		Debug:  cfg.Debug,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating weebly client: %w", err)
	}

	return &Provider{
		api: NewAPI(client),
	}, nil
}

// Name implements ports.WebsiteBuilder.
func (p *Provider) Name() string {
	return Name
}

// Check implements ports.HealthChecker by fetching the plan catalog, which
// needs valid credentials.
func (p *Provider) Check(ctx context.Context) error {
	_, err := p.api.ListPlans(ctx)

	return err
}

// Create finds the plan, creates the user unless one is supplied, then
// creates the site with the plan applied.
func (p *Provider) Create(ctx context.Context, params domain.CreateParams) (*domain.AccountInfo, error) {
	if err := acl.ValidateRequired(params.DomainName, "domain_name"); err != nil {
		return nil, err
	}
	if err := acl.ValidateRequired(params.PackageReference, "package_reference"); err != nil {
		return nil, err
	}

	plan, err := p.api.FindPlan(ctx, params.PackageReference)
	if err != nil {
		return nil, err
	}

	userID := params.SiteBuilderUserID
	newUser := userID == ""
	if newUser {
		if err := acl.ValidateRequired(params.CustomerEmail, "customer_email"); err != nil {
			return nil, err
		}

		userID, err = p.api.CreateUser(ctx, newUserFrom(&params))
		if err != nil {
			return nil, err
		}
	}

	siteID, err := p.api.CreateSite(ctx, userID, params.DomainName, plan.Field("plan_id"), params.BillingCycleMonths)
	if err != nil {
		if newUser {
			logging.FromContext(ctx).WarnContext(ctx, "site creation failed after creating user",
				slog.String("site_builder_user_id", userID),
				slog.Any("error", err),
			)
			attachUserID(err, userID)
		}

		return nil, err
	}

	info, err := p.accountInfo(ctx, userID, siteID)
	if err != nil {
		return nil, err
	}

	return info.WithMessage(domain.MsgWebsiteCreated), nil
}

func newUserFrom(params *domain.CreateParams) *NewUser {
	first, last := params.NameParts()

	user := &NewUser{
		Email:     params.CustomerEmail,
		FirstName: first,
		Language:  params.Language(),
		Password:  params.Password,
	}
	if last != "" {
		user.LastName = &last
	}

	return user
}

// attachUserID records a freshly created user on a vendor error.
func attachUserID(err error, userID string) {
	var provErr *domain.ProviderError
	if !errors.As(err, &provErr) {
		return
	}

	if provErr.Data == nil {
		provErr.Data = make(map[string]any)
	}
	provErr.Data["site_builder_user_id"] = userID
}

// GetInfo reads the site and its plan.
func (p *Provider) GetInfo(ctx context.Context, id domain.AccountIdentifier) (*domain.AccountInfo, error) {
	if err := validateIdentifier(id); err != nil {
		return nil, err
	}

	siteID, err := p.api.ResolveSiteID(ctx, id.SiteBuilderUserID, id.AccountReference)
	if err != nil {
		return nil, err
	}

	info, err := p.accountInfo(ctx, id.SiteBuilderUserID, siteID)
	if err != nil {
		return nil, err
	}

	return info.WithMessage(domain.MsgAccountDataObtained), nil
}

func (p *Provider) accountInfo(ctx context.Context, userID, siteID string) (*domain.AccountInfo, error) {
	site, err := p.api.GetSite(ctx, userID, siteID)
	if err != nil {
		return nil, err
	}

	plan, err := p.api.SitePlan(ctx, userID, siteID)
	if err != nil {
		return nil, err
	}

	return &domain.AccountInfo{
		AccountReference:  siteID,
		DomainName:        site.Domain,
		PackageReference:  plan.Field("name"),
		Suspended:         bool(site.Suspended),
		IsPublished:       domain.Ptr(site.Published()),
		HasSSL:            domain.Ptr(bool(site.AllowSSL)),
		SiteBuilderUserID: userID,
	}, nil
}

// Login returns the user's single sign-on link.
func (p *Provider) Login(ctx context.Context, id domain.AccountIdentifier) (*domain.LoginResult, error) {
	if err := acl.ValidateRequired(id.SiteBuilderUserID, "site_builder_user_id"); err != nil {
		return nil, err
	}

	link, err := p.api.LoginLink(ctx, id.SiteBuilderUserID)
	if err != nil {
		return nil, err
	}

	return &domain.LoginResult{LoginURL: link}, nil
}

// ChangePackage re-plans the site when the plan name differs and moves it to
// the requested domain when that differs too.
func (p *Provider) ChangePackage(ctx context.Context, params domain.ChangePackageParams) (*domain.AccountInfo, error) {
	if err := validateIdentifier(params.AccountIdentifier); err != nil {
		return nil, err
	}
	if err := acl.ValidateRequired(params.PackageReference, "package_reference"); err != nil {
		return nil, err
	}

	userID := params.SiteBuilderUserID

	siteID, err := p.api.ResolveSiteID(ctx, userID, params.AccountReference)
	if err != nil {
		return nil, err
	}

	current, err := p.accountInfo(ctx, userID, siteID)
	if err != nil {
		return nil, err
	}

	plan, err := p.api.FindPlan(ctx, params.PackageReference)
	if err != nil {
		return nil, err
	}

	if current.PackageReference != plan.Field("name") {
		if err := p.api.SetPlan(ctx, userID, siteID, plan.Field("plan_id"), params.BillingCycleMonths); err != nil {
			return nil, err
		}
	}

	if params.DomainName != "" && !acl.DomainsEqual(current.DomainName, params.DomainName) {
		if err := p.api.SetDomain(ctx, userID, siteID, strings.TrimSpace(params.DomainName)); err != nil {
			return nil, err
		}
	}

	info, err := p.accountInfo(ctx, userID, siteID)
	if err != nil {
		return nil, err
	}

	return info.WithMessage(domain.MsgPackageChanged), nil
}

// Suspend disables the site.
func (p *Provider) Suspend(ctx context.Context, id domain.AccountIdentifier) (*domain.AccountInfo, error) {
	if err := validateIdentifier(id); err != nil {
		return nil, err
	}

	siteID, err := p.api.ResolveSiteID(ctx, id.SiteBuilderUserID, id.AccountReference)
	if err != nil {
		return nil, err
	}

	if err := p.api.Disable(ctx, id.SiteBuilderUserID, siteID); err != nil {
		return nil, err
	}

	info, err := p.accountInfo(ctx, id.SiteBuilderUserID, siteID)
	if err != nil {
		return nil, err
	}

	return info.WithMessage(domain.MsgAccountSuspended), nil
}

// UnSuspend enables the site and re-applies the package, which Weebly may
// have dropped while the site was disabled.
func (p *Provider) UnSuspend(ctx context.Context, params domain.UnSuspendParams) (*domain.AccountInfo, error) {
	if err := validateIdentifier(params.AccountIdentifier); err != nil {
		return nil, err
	}
	if err := acl.ValidateRequired(params.PackageReference, "package_reference"); err != nil {
		return nil, err
	}

	userID := params.SiteBuilderUserID

	siteID, err := p.api.ResolveSiteID(ctx, userID, params.AccountReference)
	if err != nil {
		return nil, err
	}

	if err := p.api.Enable(ctx, userID, siteID); err != nil {
		return nil, err
	}

	if err := p.reapplyPlan(ctx, userID, siteID, params.PackageReference, params.BillingCycleMonths); err != nil {
		return nil, err
	}

	info, err := p.accountInfo(ctx, userID, siteID)
	if err != nil {
		return nil, err
	}

	return info.WithMessage(domain.MsgAccountUnsuspended), nil
}

func (p *Provider) reapplyPlan(ctx context.Context, userID, siteID, packageRef string, term int) error {
	plan, err := p.api.FindPlan(ctx, packageRef)
	if err != nil {
		return err
	}

	current, err := p.api.SitePlan(ctx, userID, siteID)
	if err != nil {
		return err
	}

	if current.Field("name") == plan.Field("name") {
		return nil
	}

	return p.api.SetPlan(ctx, userID, siteID, plan.Field("plan_id"), term)
}

// Terminate deletes the site. The Weebly user is kept since it may own other sites.
func (p *Provider) Terminate(ctx context.Context, id domain.AccountIdentifier) (*domain.TerminateResult, error) {
	if err := validateIdentifier(id); err != nil {
		return nil, err
	}

	siteID, err := p.api.ResolveSiteID(ctx, id.SiteBuilderUserID, id.AccountReference)
	if err != nil {
		return nil, err
	}

	if err := p.api.DeleteSite(ctx, id.SiteBuilderUserID, siteID); err != nil {
		return nil, err
	}

	return &domain.TerminateResult{Message: domain.MsgAccountTerminated}, nil
}

func validateIdentifier(id domain.AccountIdentifier) error {
	if err := acl.ValidateRequired(id.SiteBuilderUserID, "site_builder_user_id"); err != nil {
		return err
	}

	return acl.ValidateRequired(id.AccountReference, "account_reference")
}
