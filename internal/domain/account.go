package domain

import (
	"strings"
)

// DefaultLanguageCode is used when the caller does not choose a language.
const DefaultLanguageCode = "en"

// UnknownLastName is sent to vendors that require a last name the customer never gave.
const UnknownLastName = "UNKNOWN"

// AccountIdentifier addresses one account at one vendor. It is supplied by
// the caller and never mutated.
type AccountIdentifier struct {
	// AccountReference is the opaque vendor key: a user ref, site id, domain id or user guid.
	AccountReference string `json:"account_reference"`

	// DomainName is the human domain. Some vendors resolve it to a site id.
	DomainName string `json:"domain_name,omitempty"`

	// SiteBuilderUserID is the secondary vendor-scoped user id, required by some vendors.
	SiteBuilderUserID string `json:"site_builder_user_id,omitempty"`
}

// CreateParams describes a new website builder account.
type CreateParams struct {
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`

	// DomainName is optional for vendors that allocate a demo domain.
	DomainName string `json:"domain_name,omitempty"`

	PackageReference   string `json:"package_reference"`
	BillingCycleMonths int    `json:"billing_cycle_months"`

	// Password is generated by the adapter when empty and the vendor needs one.
	Password string `json:"password,omitempty"`

	LanguageCode string `json:"language_code,omitempty"`

	// SiteBuilderUserID reuses an existing vendor user instead of creating one.
	SiteBuilderUserID string `json:"site_builder_user_id,omitempty"`

	Extra map[string]any `json:"extra,omitempty"`
}

// Language returns the requested language code, defaulting to "en".
func (p *CreateParams) Language() string {
	if p.LanguageCode == "" {
		return DefaultLanguageCode
	}

	return p.LanguageCode
}

// NameParts splits the customer name at the first space. last is empty for single names.
func (p *CreateParams) NameParts() (first, last string) {
	first, last, _ = strings.Cut(strings.TrimSpace(p.CustomerName), " ")

	return first, strings.TrimSpace(last)
}

// LastNameOrUnknown returns the last name, or UnknownLastName when there is none.
func (p *CreateParams) LastNameOrUnknown() string {
	if _, last := p.NameParts(); last != "" {
		return last
	}

	return UnknownLastName
}

// ChangePackageParams moves an account to another package.
type ChangePackageParams struct {
	AccountIdentifier

	PackageReference   string `json:"package_reference"`
	BillingCycleMonths int    `json:"billing_cycle_months"`
}

// UnSuspendParams restores an account and re-applies its package, since some
// vendors clear the plan on suspension.
type UnSuspendParams struct {
	AccountIdentifier

	PackageReference   string `json:"package_reference"`
	BillingCycleMonths int    `json:"billing_cycle_months"`
}

// AccountInfo is the normalized view of an account's live vendor state.
// Suspended is always derived from the vendor, never stored locally.
type AccountInfo struct {
	AccountReference  string         `json:"account_reference"`
	DomainName        string         `json:"domain_name,omitempty"`
	PackageReference  string         `json:"package_reference"`
	Suspended         bool           `json:"suspended"`
	SiteCount         *int           `json:"site_count,omitempty"`
	StorageUsed       string         `json:"storage_used,omitempty"`
	IPAddress         string         `json:"ip_address,omitempty"`
	IsPublished       *bool          `json:"is_published,omitempty"`
	HasSSL            *bool          `json:"has_ssl,omitempty"`
	Extra             map[string]any `json:"extra,omitempty"`
	SiteBuilderUserID string         `json:"site_builder_user_id,omitempty"`

	// Message describes the outcome, including non-fatal partial failures.
	Message string `json:"message,omitempty"`
}

// WithMessage sets the outcome message and returns the same info.
func (a *AccountInfo) WithMessage(message string) *AccountInfo {
	a.Message = message

	return a
}

// LoginResult carries a time-limited SSO link into the vendor control panel.
type LoginResult struct {
	LoginURL string `json:"login_url"`
}

// TerminateResult reports a completed termination.
type TerminateResult struct {
	Message string `json:"message"`
}

// Outcome messages shared by all adapters.
const (
	MsgAccountDataObtained = "Account data obtained"
	MsgWebsiteCreated      = "Website created"
	MsgPackageChanged      = "Package changed"
	MsgAccountSuspended    = "Account suspended"
	MsgAccountUnsuspended  = "Account unsuspended"
	MsgAccountTerminated   = "Account Terminated"
)

// Ptr returns a pointer to v, for optional AccountInfo fields.
func Ptr[T any](v T) *T {
	return &v
}
