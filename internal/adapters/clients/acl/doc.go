// Package acl is the anti-corruption layer between vendor website builder
// APIs and the domain types.
//
// Vendor payloads never leak past this package and the provider adapters
// built on it. Every vendor exchange goes through [BaseAdapter.Request],
// which classifies the outcome into the domain error taxonomy:
//
//   - no response received: [domain.ErrUnavailable] ("Provider API Connection Error")
//   - non-2xx status, or a 2xx body declaring failure: [domain.ErrProvider]
//   - a body that is not JSON, or decodes to a falsy value: [domain.ErrUnexpectedResponse]
//
// Vendors disagree on where they put status codes and messages. Each adapter
// describes its own layout once with an [ErrorShape] and [Normalize] does the
// rest, so the flattening rules for field errors live in one place.
//
// # Creating an Adapter
//
//	type API struct {
//	    acl.BaseAdapter
//	}
//
//	func NewAPI(client *clients.Client) *API {
//	    return &API{BaseAdapter: acl.NewBaseAdapter(client, "weebly", errorShape)}
//	}
//
//	// siteResponse is the vendor DTO (unexported).
//	type siteResponse struct {
//	    Site struct {
//	        SiteID acl.FlexString `json:"site_id"`
//	    } `json:"site"`
//	}
//
//	func (a *API) CreateSite(ctx context.Context, userID, domainName string) (string, error) {
//	    raw, err := a.Request(ctx, "create site", http.MethodPost, "user/"+userID+"/site", nil,
//	        map[string]string{"domain": domainName})
//	    if err != nil {
//	        return "", err // already a domain error
//	    }
//
//	    out, err := acl.Decode[siteResponse](a.ServiceName(), raw)
//	    if err != nil {
//	        return "", err
//	    }
//
//	    return out.Site.SiteID.String(), nil
//	}
//
// # Resolvers
//
// [ResolveDomain] maps a caller domain name onto a vendor resource and
// [PlanMatcher] maps a caller package reference onto a catalog plan. Both fail
// with a [domain.NotFoundError] carrying the listing that was searched.
package acl
