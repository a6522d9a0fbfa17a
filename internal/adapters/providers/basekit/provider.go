// Package basekit implements the WebsiteBuilder contract for BaseKit.
//
// The account reference is the BaseKit account holder ref. Suspension is
// modelled by BaseKit as assignment of a configured suspension package, so
// an account is suspended exactly when its live package equals that ref.
//
// Create is fatal on partial failure: when the site or the package cannot be
// set up, the sites and user created so far are deleted before the original
// error is returned.
package basekit

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/clients"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/clients/acl"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/domain"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/platform/config"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/platform/logging"
)

// metadataClientIDKey carries the caller's customer id into BaseKit user metadata.
const metadataClientIDKey = "upmind_client_id"

// Provider is the BaseKit adapter.
type Provider struct {
	api    *API
	cfg    config.BaseKitConfig
	logger *slog.Logger
	creds  credentialGenerator
}

// New builds a BaseKit adapter with its own HTTP client.
func New(cfg config.BaseKitConfig, clientCfg config.ClientConfig, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client, err := clients.New(&clients.Config{
		BaseURL:        cfg.APIURL,
		ServiceName:    Name,
		Timeout:        cfg.Timeout,
		ConnectTimeout: clientCfg.ConnectTimeout,
		Transport:      clientCfg.Transport,
		UserAgent:      clientCfg.UserAgent,
		Headers: http.Header{
			"Content-Type": {clients.ContentTypeJSON},
			"Accept":       {clients.ContentTypeJSON},
		},
		Signer: clients.BasicAuth{Username: cfg.Username, Password: cfg.Password},
		Debug:  cfg.Debug,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating basekit client: %w", err)
	}

	return &Provider{
		api:    NewAPI(client),
		cfg:    cfg,
		logger: logger.With(slog.String("provider", Name)),
		creds:  defaultCredentials,
	}, nil
}

// Name implements ports.WebsiteBuilder.
func (p *Provider) Name() string {
	return Name
}

// Create creates a user, one site and assigns the package.
func (p *Provider) Create(ctx context.Context, params domain.CreateParams) (*domain.AccountInfo, error) {
	if err := acl.ValidateRequired(params.CustomerEmail, "customer_email"); err != nil {
		return nil, err
	}
	if err := acl.ValidateRequired(params.PackageReference, "package_reference"); err != nil {
		return nil, err
	}

	firstName, lastName := params.NameParts()

	password := params.Password
	if password == "" {
		password = p.creds.password()
	}

	metadata := make(map[string]any, len(params.Extra)+1)
	for k, v := range params.Extra {
		metadata[k] = v
	}
	metadata[metadataClientIDKey] = params.CustomerID

	userRef, err := p.api.CreateUser(ctx, &NewUser{
		BrandRef:     p.cfg.BrandRef,
		Username:     p.creds.username(firstName, lastName),
		Email:        params.CustomerEmail,
		Password:     password,
		FirstName:    firstName,
		LastName:     params.LastNameOrUnknown(),
		LanguageCode: params.Language(),
		Metadata:     metadata,
	})
	if err != nil {
		return nil, err
	}

	site, err := p.api.CreateSite(ctx, p.cfg.BrandRef, userRef, params.DomainName)
	if err != nil {
		p.rollback(ctx, userRef, nil)
		return nil, err
	}

	if err := p.api.SetPackage(ctx, userRef, params.PackageReference, domain.Ptr(params.BillingCycleMonths)); err != nil {
		p.rollback(ctx, userRef, []string{site.Ref.String()})
		return nil, err
	}

	info := &domain.AccountInfo{
		AccountReference: userRef,
		DomainName:       site.DomainName(),
		PackageReference: params.PackageReference,
		Suspended:        params.PackageReference == p.cfg.SuspensionPackageRef,
		SiteCount:        domain.Ptr(1),
		StorageUsed:      domain.HumanReadableStorage(0, 0),
	}

	return info.WithMessage(domain.MsgWebsiteCreated), nil
}

// rollback deletes what a failed Create left behind. Failures are logged;
// the caller reports the error that triggered the rollback.
//
// The deletes ignore the caller's cancellation and get one client timeout
// each, so a create that failed on the request deadline is still undone.
func (p *Provider) rollback(ctx context.Context, userRef string, siteRefs []string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.rollbackTimeout(len(siteRefs)+1))
	defer cancel()

	logger := logging.FromContext(ctx).With(slog.String("account_reference", userRef))

	for _, ref := range siteRefs {
		if err := p.api.DeleteSite(ctx, ref); err != nil {
			logger.ErrorContext(ctx, "rollback: failed to delete site",
				slog.String("site_ref", ref),
				slog.Any("error", err),
			)
		}
	}

	if err := p.api.DeleteUser(ctx, userRef); err != nil {
		logger.ErrorContext(ctx, "rollback: failed to delete user", slog.Any("error", err))
		return
	}

	logger.InfoContext(ctx, "rolled back partially created account")
}

func (p *Provider) rollbackTimeout(calls int) time.Duration {
	timeout := p.cfg.Timeout
	if timeout <= 0 {
		timeout = clients.DefaultTimeout
	}

	return time.Duration(calls) * timeout
}

// GetInfo reads the user and its sites.
func (p *Provider) GetInfo(ctx context.Context, id domain.AccountIdentifier) (*domain.AccountInfo, error) {
	if err := acl.ValidateRequired(id.AccountReference, "account_reference"); err != nil {
		return nil, err
	}

	info, err := p.accountInfo(ctx, id.AccountReference, id.DomainName)
	if err != nil {
		return nil, err
	}

	return info.WithMessage(domain.MsgAccountDataObtained), nil
}

func (p *Provider) accountInfo(ctx context.Context, userRef, domainName string) (*domain.AccountInfo, error) {
	user, err := p.api.GetUser(ctx, userRef)
	if err != nil {
		return nil, err
	}

	sites, err := p.api.ListSites(ctx, userRef)
	if err != nil {
		return nil, err
	}

	if domainName == "" && len(sites) > 0 {
		domainName = sites[0].DomainName()
	}

	packageRef := user.SubscriptionPackageRef.String()

	return &domain.AccountInfo{
		AccountReference: userRef,
		DomainName:       domainName,
		PackageReference: packageRef,
		Suspended:        packageRef == p.cfg.SuspensionPackageRef,
		SiteCount:        domain.Ptr(len(sites)),
		StorageUsed:      domain.HumanReadableStorage(user.StorageBytes(), 0),
	}, nil
}

// Login returns an auto-login URL for the site matching DomainName, or the
// user's first site when no domain is given.
func (p *Provider) Login(ctx context.Context, id domain.AccountIdentifier) (*domain.LoginResult, error) {
	if err := acl.ValidateRequired(id.AccountReference, "account_reference"); err != nil {
		return nil, err
	}

	sites, err := p.api.ListSites(ctx, id.AccountReference)
	if err != nil {
		return nil, err
	}

	site, err := loginSite(id, sites)
	if err != nil {
		return nil, err
	}

	loginURL, err := p.api.AutoLogin(ctx, id.AccountReference, site.Ref.String())
	if err != nil {
		return nil, err
	}

	return &domain.LoginResult{LoginURL: withRedirect(loginURL, p.cfg.AutoLoginRedirectURL)}, nil
}

func loginSite(id domain.AccountIdentifier, sites []Site) (Site, error) {
	listing := map[string]any{"sites": sites}

	if id.DomainName != "" {
		return acl.ResolveDomain(id.DomainName, sites, Site.DomainName, listing)
	}

	if len(sites) == 0 {
		return Site{}, domain.NewNotFoundErrorWithListing("site", id.AccountReference,
			"User has no sites to login to", listing)
	}

	return sites[0], nil
}

// withRedirect appends the r= parameter BaseKit uses to land the user after login.
func withRedirect(loginURL, redirect string) string {
	if redirect == "" {
		return loginURL
	}

	sep := "?"
	if strings.Contains(loginURL, "?") {
		sep = "&"
	}

	return loginURL + sep + url.Values{"r": {redirect}}.Encode()
}

// ChangePackage assigns a new package and returns the fresh account state.
func (p *Provider) ChangePackage(ctx context.Context, params domain.ChangePackageParams) (*domain.AccountInfo, error) {
	if err := validatePackageChange(params.AccountReference, params.PackageReference); err != nil {
		return nil, err
	}

	return p.assignAndRead(ctx, params.AccountIdentifier, params.PackageReference,
		domain.Ptr(params.BillingCycleMonths), domain.MsgPackageChanged)
}

// Suspend assigns the configured suspension package.
func (p *Provider) Suspend(ctx context.Context, id domain.AccountIdentifier) (*domain.AccountInfo, error) {
	if err := acl.ValidateRequired(id.AccountReference, "account_reference"); err != nil {
		return nil, err
	}

	return p.assignAndRead(ctx, id, p.cfg.SuspensionPackageRef, nil, domain.MsgAccountSuspended)
}

// UnSuspend re-assigns the caller's package, which lifts the suspension.
func (p *Provider) UnSuspend(ctx context.Context, params domain.UnSuspendParams) (*domain.AccountInfo, error) {
	if err := validatePackageChange(params.AccountReference, params.PackageReference); err != nil {
		return nil, err
	}

	return p.assignAndRead(ctx, params.AccountIdentifier, params.PackageReference,
		domain.Ptr(params.BillingCycleMonths), domain.MsgAccountUnsuspended)
}

func (p *Provider) assignAndRead(
	ctx context.Context,
	id domain.AccountIdentifier,
	packageRef string,
	billingMonths *int,
	message string,
) (*domain.AccountInfo, error) {
	if err := p.api.SetPackage(ctx, id.AccountReference, packageRef, billingMonths); err != nil {
		return nil, err
	}

	info, err := p.accountInfo(ctx, id.AccountReference, id.DomainName)
	if err != nil {
		return nil, err
	}

	return info.WithMessage(message), nil
}

// Terminate suspends the user, deletes every site, then deletes the user.
// The first failing delete aborts the termination.
func (p *Provider) Terminate(ctx context.Context, id domain.AccountIdentifier) (*domain.TerminateResult, error) {
	if err := acl.ValidateRequired(id.AccountReference, "account_reference"); err != nil {
		return nil, err
	}

	if err := p.api.SetPackage(ctx, id.AccountReference, p.cfg.SuspensionPackageRef, nil); err != nil {
		return nil, err
	}

	sites, err := p.api.ListSites(ctx, id.AccountReference)
	if err != nil {
		return nil, err
	}

	for _, site := range sites {
		if err := p.api.DeleteSite(ctx, site.Ref.String()); err != nil {
			return nil, err
		}
	}

	if err := p.api.DeleteUser(ctx, id.AccountReference); err != nil {
		return nil, err
	}

	return &domain.TerminateResult{Message: domain.MsgAccountTerminated}, nil
}

func validatePackageChange(accountRef, packageRef string) error {
	if err := acl.ValidateRequired(accountRef, "account_reference"); err != nil {
		return err
	}

	return acl.ValidateRequired(packageRef, "package_reference")
}
