package yola

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"slices"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/clients"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/clients/acl"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/domain"
)

// Name identifies Topline Yola in logs, metrics and configuration.
const Name = "yola"

// Yola wraps every payload in "detail", which on failure is either a message
// string or an object carrying one.
var errorShape = acl.ErrorShape{
	MessagePaths: []string{"message"},
	DetailField:  "detail",
}

var planMatcher = acl.PlanMatcher{
	IDField:    "ID",
	NameFields: []string{"planID", "planName", "shortName"},
}

// Subscription statuses that count as the live plan of a domain.
var activeStatuses = []string{"1", "2", "8"}

const suspendedDomainStatus = "3"

// API is the typed Topline Yola client. Every path is scoped to one brand.
type API struct {
	acl.BaseAdapter
	brandID string
}

// NewAPI wraps a client configured for the Yola API.
func NewAPI(client *clients.Client, brandID string) *API {
	return &API{
		BaseAdapter: acl.NewBaseAdapter(client, Name, errorShape),
		brandID:     brandID,
	}
}

// NewUser is the body of POST /users.
type NewUser struct {
	UserID    string `json:"userID,omitempty"`
	Domain    string `json:"domain"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Language  string `json:"language"`
}

// Subscription is one plan subscription of a domain.
type Subscription struct {
	ID     acl.FlexString `json:"ID"`
	PlanID acl.FlexString `json:"planID"`
	Status acl.FlexString `json:"status"`
}

// Active reports whether the subscription is the live plan.
func (s Subscription) Active() bool {
	return slices.Contains(activeStatuses, s.Status.String())
}

// Domain is one domain (site) of a Yola account.
type Domain struct {
	DomainID acl.FlexString `json:"domainID"`
	Domain   string         `json:"domain"`
	Status   acl.FlexString `json:"status"`
	Subs     []Subscription `json:"subs"`
}

// DomainName returns the domain name.
func (d Domain) DomainName() string {
	return d.Domain
}

// Suspended reports whether the domain is suspended.
func (d Domain) Suspended() bool {
	return d.Status.String() == suspendedDomainStatus
}

// PlanID returns the plan of the last active subscription, or "".
func (d Domain) PlanID() string {
	if s, ok := activeSubscription(d.Subs); ok {
		return s.PlanID.String()
	}

	return ""
}

// Account is a Yola account and its domains.
type Account struct {
	UserID  acl.FlexString `json:"userID"`
	Domains []Domain       `json:"domains"`
}

// Find returns the domain whose id is ref, or else whose name equals ref
// under acl.DomainsEqual. listing is attached to the not-found error.
func (a *Account) Find(ref string, listing any) (Domain, error) {
	for _, d := range a.Domains {
		if d.DomainID.String() == ref {
			return d, nil
		}
	}

	return acl.ResolveDomain(ref, a.Domains, Domain.DomainName, listing)
}

func activeSubscription(subs []Subscription) (Subscription, bool) {
	var (
		found Subscription
		ok    bool
	)
	for _, s := range subs {
		if s.Active() {
			found, ok = s, true
		}
	}

	return found, ok
}

type envelope[T any] struct {
	Detail T `json:"detail"`
}

func (a *API) path(p string) string {
	return a.brandID + p
}

// CreateUser creates an account with its first domain and returns the user id.
func (a *API) CreateUser(ctx context.Context, user *NewUser) (string, error) {
	raw, err := a.Request(ctx, "create user", http.MethodPost, a.path("/users"), nil, user)
	if err != nil {
		return "", err
	}

	out, err := acl.Decode[envelope[struct {
		UserID acl.FlexString `json:"userID"`
	}]](Name, raw)
	if err != nil {
		return "", err
	}

	if out.Detail.UserID == "" {
		return "", domain.NewUnexpectedResponseError(Name, http.StatusOK, string(raw))
	}

	return out.Detail.UserID.String(), nil
}

// AddDomain attaches another domain to an existing account.
func (a *API) AddDomain(ctx context.Context, userID, domainName string) error {
	body := map[string]string{"domain": domainName}
	_, err := a.Request(ctx, "add domain", http.MethodPost, a.path("/accounts/"+userID+"/domains"), nil, body)

	return err
}

// GetAccount fetches an account with its domains and their subscriptions.
// The raw response is returned alongside for diagnostics.
func (a *API) GetAccount(ctx context.Context, userID string) (*Account, json.RawMessage, error) {
	query := url.Values{"extras": {"subs"}}

	raw, err := a.Request(ctx, "get account", http.MethodGet, a.path("/accounts/"+userID), query, nil)
	if err != nil {
		return nil, nil, err
	}

	out, err := acl.Decode[envelope[Account]](Name, raw)
	if err != nil {
		return nil, nil, err
	}

	return &out.Detail, raw, nil
}

// ResolveDomain returns the account domain addressed by ref, an id or a name.
func (a *API) ResolveDomain(ctx context.Context, userID, ref string) (Domain, error) {
	account, listing, err := a.GetAccount(ctx, userID)
	if err != nil {
		return Domain{}, err
	}

	return account.Find(ref, listing)
}

// ListPlans fetches the brand plan catalog.
func (a *API) ListPlans(ctx context.Context) ([]acl.Plan, error) {
	raw, err := a.Request(ctx, "list plans", http.MethodGet, a.path("/plans"), nil, nil)
	if err != nil {
		return nil, err
	}

	out, err := acl.Decode[envelope[struct {
		PlanIDs []acl.Plan `json:"planIDs"`
	}]](Name, raw)
	if err != nil {
		return nil, err
	}

	return out.Detail.PlanIDs, nil
}

// FindPlan matches packageRef against the catalog by ID (numeric references
// only), then planID, planName and shortName.
func (a *API) FindPlan(ctx context.Context, packageRef string) (acl.Plan, error) {
	plans, err := a.ListPlans(ctx)
	if err != nil {
		return nil, err
	}

	return planMatcher.Match(packageRef, plans)
}

// Subscriptions lists the plan subscriptions of a domain.
func (a *API) Subscriptions(ctx context.Context, domainID string) ([]Subscription, error) {
	query := url.Values{"extras": {"subs"}}

	raw, err := a.Request(ctx, "get subscriptions", http.MethodGet, a.path("/users/"+domainID), query, nil)
	if err != nil {
		return nil, err
	}

	out, err := acl.Decode[envelope[struct {
		Subs []Subscription `json:"subs"`
	}]](Name, raw)
	if err != nil {
		return nil, err
	}

	return out.Detail.Subs, nil
}

// ReplaceSubscription cancels the active subscription of a domain, if any,
// and subscribes it to planID. Both calls carry the target planID.
func (a *API) ReplaceSubscription(ctx context.Context, domainID, planID string) error {
	subs, err := a.Subscriptions(ctx, domainID)
	if err != nil {
		return err
	}

	body := map[string]string{"planID": planID}

	if active, ok := activeSubscription(subs); ok {
		subPath := a.path("/users/" + domainID + "/subscriptions/" + active.ID.String())
		if _, err := a.Request(ctx, "cancel subscription", http.MethodDelete, subPath, nil, body); err != nil {
			return err
		}
	}

	_, err = a.Request(ctx, "create subscription", http.MethodPost, a.path("/users/"+domainID+"/subscriptions"), nil, body)

	return err
}

// Suspend suspends a domain.
func (a *API) Suspend(ctx context.Context, userID, domainID string) error {
	_, err := a.Request(ctx, "suspend domain", http.MethodPut, a.domainPath(userID, domainID)+"/suspend", nil, nil)

	return err
}

// Reactivate lifts every suspension on a domain.
func (a *API) Reactivate(ctx context.Context, userID, domainID string) error {
	_, err := a.Request(ctx, "reactivate domain", http.MethodPut, a.domainPath(userID, domainID)+"/reactivate-all", nil, nil)

	return err
}

// DeleteDomain removes a domain from its account.
func (a *API) DeleteDomain(ctx context.Context, userID, domainID string) error {
	_, err := a.Request(ctx, "delete domain", http.MethodDelete, a.domainPath(userID, domainID), nil, nil)

	return err
}

// DeleteAccount deletes an account.
func (a *API) DeleteAccount(ctx context.Context, userID string) error {
	_, err := a.Request(ctx, "delete account", http.MethodDelete, a.path("/accounts/"+userID), nil, nil)

	return err
}

// SSOURL returns a single sign-on URL for a domain.
func (a *API) SSOURL(ctx context.Context, domainID string) (string, error) {
	query := url.Values{"noredir": {"1"}}

	raw, err := a.Request(ctx, "sso link", http.MethodGet, a.path("/users/"+domainID+"/sso/yola"), query, nil)
	if err != nil {
		return "", err
	}

	out, err := acl.Decode[envelope[struct {
		SSOURL string `json:"ssoURL"`
	}]](Name, raw)
	if err != nil {
		return "", err
	}

	if out.Detail.SSOURL == "" {
		return "", domain.NewUnexpectedResponseError(Name, http.StatusOK, string(raw))
	}

	return out.Detail.SSOURL, nil
}

func (a *API) domainPath(userID, domainID string) string {
	return a.path("/accounts/" + userID + "/domains/" + domainID)
}
