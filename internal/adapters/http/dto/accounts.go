package dto

import (
	"strings"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/domain"
)

// Request bodies only check formats. Whether a field is required depends on
// the configured vendor and is enforced by its adapter.

// CreateAccountRequest is the body of POST /api/v1/accounts.
type CreateAccountRequest struct {
	CustomerID         string         `json:"customer_id"          validate:"max=64"`
	CustomerName       string         `json:"customer_name"        validate:"max=255"`
	CustomerEmail      string         `json:"customer_email"       validate:"omitempty,email"`
	DomainName         string         `json:"domain_name"          validate:"omitempty,fqdn"`
	PackageReference   string         `json:"package_reference"    validate:"max=128"`
	BillingCycleMonths int            `json:"billing_cycle_months" validate:"gte=0,lte=120"`
	Password           string         `json:"password"             validate:"omitempty,min=8,max=128"`
	LanguageCode       string         `json:"language_code"        validate:"omitempty,min=2,max=10"`
	SiteBuilderUserID  string         `json:"site_builder_user_id" validate:"max=64"`
	Extra              map[string]any `json:"extra"`
}

// ToParams converts the request to domain parameters.
func (r *CreateAccountRequest) ToParams() domain.CreateParams {
	return domain.CreateParams{
		CustomerID:         strings.TrimSpace(r.CustomerID),
		CustomerName:       strings.TrimSpace(r.CustomerName),
		CustomerEmail:      strings.TrimSpace(r.CustomerEmail),
		DomainName:         strings.TrimSpace(r.DomainName),
		PackageReference:   r.PackageReference,
		BillingCycleMonths: r.BillingCycleMonths,
		Password:           r.Password,
		LanguageCode:       r.LanguageCode,
		SiteBuilderUserID:  strings.TrimSpace(r.SiteBuilderUserID),
		Extra:              r.Extra,
	}
}

// AccountQuery carries the optional identifier parts of every account route.
type AccountQuery struct {
	DomainName        string `form:"domain_name"          validate:"max=253"`
	SiteBuilderUserID string `form:"site_builder_user_id" validate:"max=64"`
}

// Identifier combines the path reference with the query.
func (q *AccountQuery) Identifier(reference string) domain.AccountIdentifier {
	return domain.AccountIdentifier{
		AccountReference:  strings.TrimSpace(reference),
		DomainName:        strings.TrimSpace(q.DomainName),
		SiteBuilderUserID: strings.TrimSpace(q.SiteBuilderUserID),
	}
}

// ChangePackageRequest is the body of PUT /api/v1/accounts/:reference/package.
type ChangePackageRequest struct {
	PackageReference   string `json:"package_reference"    validate:"required,notblank,max=128"`
	BillingCycleMonths int    `json:"billing_cycle_months" validate:"gte=0,lte=120"`
}

// ToParams converts the request to domain parameters.
func (r *ChangePackageRequest) ToParams(id domain.AccountIdentifier) domain.ChangePackageParams {
	return domain.ChangePackageParams{
		AccountIdentifier:  id,
		PackageReference:   r.PackageReference,
		BillingCycleMonths: r.BillingCycleMonths,
	}
}

// UnSuspendRequest is the body of POST /api/v1/accounts/:reference/unsuspend.
// The package is re-applied because some vendors drop it on suspension.
type UnSuspendRequest struct {
	PackageReference   string `json:"package_reference"    validate:"required,notblank,max=128"`
	BillingCycleMonths int    `json:"billing_cycle_months" validate:"gte=0,lte=120"`
}

// ToParams converts the request to domain parameters.
func (r *UnSuspendRequest) ToParams(id domain.AccountIdentifier) domain.UnSuspendParams {
	return domain.UnSuspendParams{
		AccountIdentifier:  id,
		PackageReference:   r.PackageReference,
		BillingCycleMonths: r.BillingCycleMonths,
	}
}

// AccountResponse is the normalized account state returned by every
// account-changing route.
//
// PackageReference is read back from the vendor: the Weebly plan name, the
// Yola planID, and the package or plan reference for BaseKit and Website.com.
type AccountResponse struct {
	Provider          string         `json:"provider"`
	AccountReference  string         `json:"account_reference"`
	DomainName        string         `json:"domain_name,omitempty"`
	PackageReference  string         `json:"package_reference"`
	Suspended         bool           `json:"suspended"`
	SiteCount         *int           `json:"site_count,omitempty"`
	StorageUsed       string         `json:"storage_used,omitempty"`
	IPAddress         string         `json:"ip_address,omitempty"`
	IsPublished       *bool          `json:"is_published,omitempty"`
	HasSSL            *bool          `json:"has_ssl,omitempty"`
	SiteBuilderUserID string         `json:"site_builder_user_id,omitempty"`
	Extra             map[string]any `json:"extra,omitempty"`
	Message           string         `json:"message,omitempty"`
}

// NewAccountResponse converts a domain AccountInfo.
func NewAccountResponse(provider string, info *domain.AccountInfo) *AccountResponse {
	return &AccountResponse{
		Provider:          provider,
		AccountReference:  info.AccountReference,
		DomainName:        info.DomainName,
		PackageReference:  info.PackageReference,
		Suspended:         info.Suspended,
		SiteCount:         info.SiteCount,
		StorageUsed:       info.StorageUsed,
		IPAddress:         info.IPAddress,
		IsPublished:       info.IsPublished,
		HasSSL:            info.HasSSL,
		SiteBuilderUserID: info.SiteBuilderUserID,
		Extra:             info.Extra,
		Message:           info.Message,
	}
}

// LoginResponse is returned by the login route.
type LoginResponse struct {
	Provider string `json:"provider"`
	LoginURL string `json:"login_url"`
}

// TerminateResponse is returned by the terminate route.
type TerminateResponse struct {
	Provider string `json:"provider"`
	Message  string `json:"message"`
}
