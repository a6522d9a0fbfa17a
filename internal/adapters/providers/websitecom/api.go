package websitecom

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/clients"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/clients/acl"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/domain"
)

// Name identifies Website.com in logs, metrics and configuration.
const Name = "websitecom"

const suspendedStatus = "S"

// Website.com answers {"success":false,"message":"..."} on failure, often
// with a 200. Requests from unlisted IPs get a Cloudflare HTML page.
var errorShape = acl.ErrorShape{
	MessagePaths:  []string{"message"},
	InBandFailure: acl.FlagMessageFailure("success", "message"),
	RawHints: []acl.RawHint{
		{Contains: "cloudflare", Suffix: " - check whitelisted IPs"},
	},
}

// API is the typed Website.com reseller client.
type API struct {
	acl.BaseAdapter
	clientID string
}

// NewAPI wraps a client configured for the Website.com API. clientID is the
// reseller client every account belongs to.
func NewAPI(client *clients.Client, clientID string) *API {
	return &API{
		BaseAdapter: acl.NewBaseAdapter(client, Name, errorShape),
		clientID:    clientID,
	}
}

// NewUser is the body of POST create.
type NewUser struct {
	ClientID   string `json:"clientId"`
	DomainName string `json:"domainName"`
	PlanID     string `json:"planId"`
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
}

// User is the account data returned by getInfo.
type User struct {
	UserGUID   acl.FlexString `json:"userGuid"`
	SiteDomain string         `json:"siteDomain"`
	PlanID     acl.FlexString `json:"planId"`
	UserStatus string         `json:"userStatus"`
}

// Suspended reports whether the user is suspended.
func (u *User) Suspended() bool {
	return u.UserStatus == suspendedStatus
}

type envelope[T any] struct {
	Data T `json:"data"`
}

func (a *API) userQuery(userGUID string) url.Values {
	return url.Values{
		"clientId": {a.clientID},
		"userGuid": {userGUID},
	}
}

// CreateUser creates the user and its site and returns the user GUID.
func (a *API) CreateUser(ctx context.Context, user *NewUser) (string, error) {
	user.ClientID = a.clientID

	raw, err := a.Request(ctx, "create", http.MethodPost, "create", nil, user)
	if err != nil {
		return "", err
	}

	out, err := acl.Decode[envelope[struct {
		UserGUID acl.FlexString `json:"userGuid"`
	}]](Name, raw)
	if err != nil {
		return "", err
	}

	if out.Data.UserGUID == "" {
		return "", domain.NewUnexpectedResponseError(Name, http.StatusOK, string(raw))
	}

	return out.Data.UserGUID.String(), nil
}

// GetUser fetches one user.
func (a *API) GetUser(ctx context.Context, userGUID string) (*User, error) {
	raw, err := a.Request(ctx, "get info", http.MethodGet, "getInfo", a.userQuery(userGUID), nil)
	if err != nil {
		return nil, err
	}

	out, err := acl.Decode[envelope[*User]](Name, raw)
	if err != nil {
		return nil, err
	}

	if out.Data == nil || out.Data.UserGUID == "" {
		return nil, domain.NewUnexpectedResponseError(Name, http.StatusOK, string(raw))
	}

	return out.Data, nil
}

// ChangePlan moves the user to planID.
func (a *API) ChangePlan(ctx context.Context, userGUID, planID string) error {
	query := a.userQuery(userGUID)
	query.Set("planId", planID)

	_, err := a.Request(ctx, "change package", http.MethodGet, "changePackage", query, nil)

	return err
}

// Suspend suspends the user.
func (a *API) Suspend(ctx context.Context, userGUID string) error {
	_, err := a.Request(ctx, "suspend", http.MethodGet, "suspend", a.userQuery(userGUID), nil)

	return err
}

// Unsuspend lifts the suspension.
func (a *API) Unsuspend(ctx context.Context, userGUID string) error {
	_, err := a.Request(ctx, "unsuspend", http.MethodGet, "unsuspend", a.userQuery(userGUID), nil)

	return err
}

// Terminate removes the user together with its site.
func (a *API) Terminate(ctx context.Context, userGUID string) error {
	_, err := a.Request(ctx, "terminate", http.MethodGet, "terminate", a.userQuery(userGUID), nil)

	return err
}

// LoginURL returns a single sign-on URL for the user.
func (a *API) LoginURL(ctx context.Context, userGUID string) (string, error) {
	raw, err := a.Request(ctx, "login", http.MethodGet, "login", a.userQuery(userGUID), nil)
	if err != nil {
		return "", err
	}

	out, err := acl.Decode[envelope[struct {
		LoginURL string `json:"loginUrl"`
	}]](Name, raw)
	if err != nil {
		return "", err
	}

	if out.Data.LoginURL == "" {
		return "", domain.NewUnexpectedResponseError(Name, http.StatusOK, string(raw))
	}

	return out.Data.LoginURL, nil
}
