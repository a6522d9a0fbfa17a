package weebly

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/clients"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/clients/acl"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/domain"
)

// Name identifies Weebly in logs, metrics and configuration.
const Name = "weebly"

// Weebly reports failures as {"error":{"code":...,"message":"..."}}, and
// sometimes as a bare {"error":"..."} on a 200.
var errorShape = acl.ErrorShape{
	MessagePaths:  []string{"error.message", "error"},
	InBandFailure: acl.FieldPresentFailure("error"),
}

var planMatcher = acl.PlanMatcher{IDField: "plan_id", NameFields: []string{"name"}}

// API is the typed Weebly Cloud client. Paths are relative to the API root
// and are signed exactly as written.
type API struct {
	acl.BaseAdapter
}

// NewAPI wraps a client configured for the Weebly Cloud API.
func NewAPI(client *clients.Client) *API {
	return &API{BaseAdapter: acl.NewBaseAdapter(client, Name, errorShape)}
}

// NewUser is the body of POST user.
type NewUser struct {
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  *string `json:"last_name"`
	Language  string  `json:"language"`
	Password  string  `json:"password,omitempty"`
}

// Site is a Weebly site.
type Site struct {
	SiteID       acl.FlexString `json:"site_id"`
	Domain       string         `json:"domain"`
	Suspended    acl.FlexBool   `json:"suspended"`
	PublishState string         `json:"publish_state"`
	AllowSSL     acl.FlexBool   `json:"allow_ssl"`
}

// DomainName returns the site domain.
func (s Site) DomainName() string {
	return s.Domain
}

// Published reports whether the site is live.
func (s Site) Published() bool {
	return s.PublishState == "published"
}

type userResponse struct {
	User struct {
		UserID acl.FlexString `json:"user_id"`
	} `json:"user"`
}

type siteResponse struct {
	Site *Site `json:"site"`
}

type sitesResponse struct {
	Sites []Site `json:"sites"`
}

type plansResponse struct {
	Plans json.RawMessage `json:"plans"`
}

type loginResponse struct {
	Link string `json:"link"`
}

func userPath(userID string) string {
	return "user/" + userID
}

func sitePath(userID, siteID string) string {
	return userPath(userID) + "/site/" + siteID
}

// CreateUser creates a Weebly user and returns its id.
func (a *API) CreateUser(ctx context.Context, user *NewUser) (string, error) {
	raw, err := a.Request(ctx, "create user", http.MethodPost, "user", nil, user)
	if err != nil {
		return "", err
	}

	out, err := acl.Decode[userResponse](Name, raw)
	if err != nil {
		return "", err
	}

	if out.User.UserID == "" {
		return "", domain.NewUnexpectedResponseError(Name, http.StatusOK, string(raw))
	}

	return out.User.UserID.String(), nil
}

// CreateSite creates a site for domainName with the plan already applied and
// returns the site id.
func (a *API) CreateSite(ctx context.Context, userID, domainName, planID string, term int) (string, error) {
	body := map[string]any{
		"domain":  domainName,
		"plan_id": planID,
		"term":    term,
	}

	raw, err := a.Request(ctx, "create site", http.MethodPost, userPath(userID)+"/site", nil, body)
	if err != nil {
		return "", err
	}

	out, err := acl.Decode[siteResponse](Name, raw)
	if err != nil {
		return "", err
	}

	if out.Site == nil || out.Site.SiteID == "" {
		return "", domain.NewUnexpectedResponseError(Name, http.StatusOK, string(raw))
	}

	return out.Site.SiteID.String(), nil
}

// GetSite fetches one site.
func (a *API) GetSite(ctx context.Context, userID, siteID string) (*Site, error) {
	raw, err := a.Request(ctx, "get site", http.MethodGet, sitePath(userID, siteID), nil, nil)
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

// ResolveSiteID returns siteRef when it is already a numeric site id, and
// otherwise treats it as a domain and looks the site up in the user's sites.
func (a *API) ResolveSiteID(ctx context.Context, userID, siteRef string) (string, error) {
	if acl.IsNumeric(siteRef) {
		return siteRef, nil
	}

	raw, err := a.Request(ctx, "list sites", http.MethodGet, userPath(userID)+"/site", nil, nil)
	if err != nil {
		return "", err
	}

	out, err := acl.Decode[sitesResponse](Name, raw)
	if err != nil {
		return "", err
	}

	site, err := acl.ResolveDomain(siteRef, out.Sites, Site.DomainName, json.RawMessage(raw))
	if err != nil {
		return "", err
	}

	return site.SiteID.String(), nil
}

// SitePlan returns the plan currently applied to a site, or an empty plan.
func (a *API) SitePlan(ctx context.Context, userID, siteID string) (acl.Plan, error) {
	raw, err := a.Request(ctx, "get site plan", http.MethodGet, sitePath(userID, siteID)+"/plan", nil, nil)
	if err != nil {
		return nil, err
	}

	plans, err := a.decodePlans(raw)
	if err != nil {
		return nil, err
	}

	if len(plans) == 0 {
		return acl.Plan{}, nil
	}

	return plans[0], nil
}

// ListPlans fetches the reseller plan catalog.
func (a *API) ListPlans(ctx context.Context) ([]acl.Plan, error) {
	raw, err := a.Request(ctx, "list plans", http.MethodGet, "plan", nil, nil)
	if err != nil {
		return nil, err
	}

	return a.decodePlans(raw)
}

// FindPlan matches packageRef against the catalog by plan_id (numeric
// references only) and then by name.
func (a *API) FindPlan(ctx context.Context, packageRef string) (acl.Plan, error) {
	plans, err := a.ListPlans(ctx)
	if err != nil {
		return nil, err
	}

	return planMatcher.Match(packageRef, plans)
}

// SetPlan changes the plan of a site.
func (a *API) SetPlan(ctx context.Context, userID, siteID, planID string, term int) error {
	body := map[string]any{"plan_id": planID, "term": term}
	_, err := a.Request(ctx, "set plan", http.MethodPost, sitePath(userID, siteID)+"/plan", nil, body)

	return err
}

// SetDomain changes the domain of a site.
func (a *API) SetDomain(ctx context.Context, userID, siteID, domainName string) error {
	body := map[string]string{"domain": domainName}
	_, err := a.Request(ctx, "set domain", http.MethodPatch, sitePath(userID, siteID), nil, body)

	return err
}

// Disable suspends a site.
func (a *API) Disable(ctx context.Context, userID, siteID string) error {
	_, err := a.Request(ctx, "disable site", http.MethodPost, sitePath(userID, siteID)+"/disable", nil, nil)

	return err
}

// Enable lifts a site suspension.
func (a *API) Enable(ctx context.Context, userID, siteID string) error {
	_, err := a.Request(ctx, "enable site", http.MethodPost, sitePath(userID, siteID)+"/enable", nil, nil)

	return err
}

// DeleteSite deletes a site.
func (a *API) DeleteSite(ctx context.Context, userID, siteID string) error {
	_, err := a.Request(ctx, "delete site", http.MethodDelete, sitePath(userID, siteID), nil, nil)

	return err
}

// LoginLink returns a single sign-on link for the user.
func (a *API) LoginLink(ctx context.Context, userID string) (string, error) {
	raw, err := a.Request(ctx, "login link", http.MethodGet, userPath(userID)+"/loginLink", nil, nil)
	if err != nil {
		return "", err
	}

	out, err := acl.Decode[loginResponse](Name, raw)
	if err != nil {
		return "", err
	}

	if out.Link == "" {
		return "", domain.NewUnexpectedResponseError(Name, http.StatusOK, string(raw))
	}

	return out.Link, nil
}

// decodePlans reads {"plans": ...} where plans is either a list or an object
// keyed by plan id. Object entries keep their wire order.
func (a *API) decodePlans(raw json.RawMessage) ([]acl.Plan, error) {
	out, err := acl.Decode[plansResponse](Name, raw)
	if err != nil {
		return nil, err
	}

	plans, err := orderedPlans(out.Plans)
	if err != nil {
		return nil, domain.NewUnexpectedResponseError(Name, http.StatusOK, string(raw))
	}

	return plans, nil
}

func orderedPlans(raw json.RawMessage) ([]acl.Plan, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	if trimmed[0] == '[' {
		var plans []acl.Plan
		if err := dec.Decode(&plans); err != nil {
			return nil, err
		}
		return plans, nil
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var plans []acl.Plan
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return nil, err
		}

		var plan acl.Plan
		if err := dec.Decode(&plan); err != nil {
			return nil, fmt.Errorf("decoding plan: %w", err)
		}
		plans = append(plans, plan)
	}

	return plans, nil
}
