package basekit

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/clients"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/clients/acl"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/domain"
)

// Name identifies BaseKit in logs, metrics and configuration.
const Name = "basekit"

// errorShape: {"status":409,"message":"...","errors":{"username":{"taken":"..."}}}.
var errorShape = acl.ErrorShape{
	StatusFields:     []string{"status", "code"},
	MessagePaths:     []string{"message"},
	FieldErrorsField: "errors",
	InBandFailure:    acl.StatusFieldFailure("status", "code"),
	AllowFalsyBodies: true,
}

// API is the typed BaseKit REST client.
type API struct {
	acl.BaseAdapter
}

// NewAPI wraps a client configured for the BaseKit API host.
func NewAPI(client *clients.Client) *API {
	return &API{BaseAdapter: acl.NewBaseAdapter(client, Name, errorShape)}
}

// NewUser is the body of POST /users.
type NewUser struct {
	BrandRef     string         `json:"brandRef"`
	Username     string         `json:"username"`
	Email        string         `json:"email"`
	Password     string         `json:"password"`
	FirstName    string         `json:"firstName"`
	LastName     string         `json:"lastName"`
	LanguageCode string         `json:"languageCode"`
	Metadata     map[string]any `json:"metadata"`
}

// AccountHolder is a BaseKit user.
type AccountHolder struct {
	Ref                    acl.FlexString `json:"ref"`
	SubscriptionPackageRef acl.FlexString `json:"subscriptionPackageRef"`
	StorageBytesUsed       acl.FlexString `json:"storageBytesUsed"`
	Deleted                acl.FlexBool   `json:"deleted"`
}

// StorageBytes returns the storage used, zero when unreported.
func (h *AccountHolder) StorageBytes() int64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(h.StorageBytesUsed.String()), 64)
	if err != nil {
		return 0
	}

	return int64(n)
}

// Site is a BaseKit website.
type Site struct {
	Ref           acl.FlexString `json:"ref"`
	PrimaryDomain *struct {
		DomainName string `json:"domainName"`
	} `json:"primaryDomain"`
}

// DomainName returns the primary domain, or "" when the site has none.
func (s Site) DomainName() string {
	if s.PrimaryDomain == nil {
		return ""
	}

	return s.PrimaryDomain.DomainName
}

type accountHolderResponse struct {
	AccountHolder *AccountHolder `json:"accountHolder"`
}

type siteResponse struct {
	Site *Site `json:"site"`
}

type sitesResponse struct {
	Sites []Site `json:"sites"`
}

type autoLoginResponse struct {
	FlowURL string `json:"flowUrl"`
}

// CreateUser creates an account holder and returns its ref.
func (a *API) CreateUser(ctx context.Context, user *NewUser) (string, error) {
	raw, err := a.Request(ctx, "create user", http.MethodPost, "/users", nil, user)
	if err != nil {
		return "", err
	}

	out, err := acl.Decode[accountHolderResponse](Name, raw)
	if err != nil {
		return "", err
	}

	if out.AccountHolder == nil || out.AccountHolder.Ref == "" {
		return "", domain.NewUnexpectedResponseError(Name, http.StatusOK, string(raw))
	}

	return out.AccountHolder.Ref.String(), nil
}

// CreateSite creates a website for userRef. An empty domainName asks BaseKit
// for a demo domain.
func (a *API) CreateSite(ctx context.Context, brandRef, userRef, domainName string) (*Site, error) {
	body := map[string]any{
		"brandRef":         brandRef,
		"accountHolderRef": userRef,
	}
	if domainName != "" {
		body["domain"] = domainName
	} else {
		body["createDemoDomain"] = true
	}

	raw, err := a.Request(ctx, "create site", http.MethodPost, "/sites", nil, body)
	if err != nil {
		return nil, err
	}

	out, err := acl.Decode[siteResponse](Name, raw)
	if err != nil {
		return nil, err
	}

	if out.Site == nil {
		return nil, domain.NewUnexpectedResponseError(Name, http.StatusOK, string(raw))
	}

	return out.Site, nil
}

// SetPackage assigns packageRef to userRef. A nil billingMonths is sent as null.
func (a *API) SetPackage(ctx context.Context, userRef, packageRef string, billingMonths *int) error {
	body := map[string]any{
		"packageRef":       packageRef,
		"billingFrequency": billingMonths,
	}

	_, err := a.Request(ctx, "set package", http.MethodPost, "/users/"+userRef+"/account-packages", nil, body)

	return err
}

// GetUser fetches an account holder. A deleted holder is reported as a vendor error.
func (a *API) GetUser(ctx context.Context, userRef string) (*AccountHolder, error) {
	raw, err := a.Request(ctx, "get user", http.MethodGet, "/users/"+userRef, nil, nil)
	if err != nil {
		return nil, err
	}

	out, err := acl.Decode[accountHolderResponse](Name, raw)
	if err != nil {
		return nil, err
	}

	if out.AccountHolder == nil {
		return nil, domain.NewUnexpectedResponseError(Name, http.StatusOK, string(raw))
	}

	if out.AccountHolder.Deleted {
		return nil, domain.NewProviderError(Name, "User is deleted", 0, nil,
			map[string]any{"user_data": out.AccountHolder})
	}

	return out.AccountHolder, nil
}

// ListSites returns every site of userRef.
func (a *API) ListSites(ctx context.Context, userRef string) ([]Site, error) {
	raw, err := a.Request(ctx, "list sites", http.MethodGet, "/users/"+userRef+"/sites", nil, nil)
	if err != nil {
		return nil, err
	}

	out, err := acl.Decode[sitesResponse](Name, raw)
	if err != nil {
		return nil, err
	}

	return out.Sites, nil
}

// AutoLogin returns a single-use login flow URL for one site.
func (a *API) AutoLogin(ctx context.Context, userRef, siteRef string) (string, error) {
	raw, err := a.Request(ctx, "auto login", http.MethodPost, "/users/"+userRef+"/auto-login", nil,
		map[string]string{"siteRef": siteRef})
	if err != nil {
		return "", err
	}

	out, err := acl.Decode[autoLoginResponse](Name, raw)
	if err != nil {
		return "", err
	}

	if out.FlowURL == "" {
		return "", domain.NewUnexpectedResponseError(Name, http.StatusOK, string(raw))
	}

	return out.FlowURL, nil
}

// DeleteSite deletes one site.
func (a *API) DeleteSite(ctx context.Context, siteRef string) error {
	_, err := a.Request(ctx, "delete site", http.MethodDelete, "/sites/"+siteRef, nil, nil)

	return err
}

// DeleteUser deletes an account holder. BaseKit rejects holders with live sites.
func (a *API) DeleteUser(ctx context.Context, userRef string) error {
	_, err := a.Request(ctx, "delete user", http.MethodDelete, "/users/"+userRef, nil, nil)

	return err
}
