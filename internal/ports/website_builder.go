// Package ports defines the contracts between the application layer and the
// vendor adapters.
//
// Port Design Principles:
//   - Context as first parameter for cancellation and deadlines
//   - Return domain types, never vendor DTOs
//   - Errors use the domain taxonomy (ErrValidation, ErrUnavailable, ErrProvider, ErrNotFound)
package ports

import (
	"context"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/domain"
)

// WebsiteBuilder is the seven-operation contract every vendor adapter implements.
// One implementation is selected at construction time from configuration.
//
// Operations run their vendor calls strictly in sequence and make exactly one
// attempt per call. None are idempotent: retrying Create against a vendor
// without deduplication creates a second account, so retries are the caller's
// responsibility.
type WebsiteBuilder interface {
	// Name returns the vendor identifier, e.g. "basekit".
	Name() string

	// Create allocates (or reuses) a vendor user, attaches a site/domain and
	// applies the package. Partial-failure handling is vendor specific and
	// documented on each adapter.
	Create(ctx context.Context, params domain.CreateParams) (*domain.AccountInfo, error)

	// GetInfo reads the live account state.
	GetInfo(ctx context.Context, id domain.AccountIdentifier) (*domain.AccountInfo, error)

	// Login returns an SSO link into the vendor control panel.
	Login(ctx context.Context, id domain.AccountIdentifier) (*domain.LoginResult, error)

	// ChangePackage moves the account to another package.
	ChangePackage(ctx context.Context, params domain.ChangePackageParams) (*domain.AccountInfo, error)

	// Suspend disables the account.
	Suspend(ctx context.Context, id domain.AccountIdentifier) (*domain.AccountInfo, error)

	// UnSuspend re-enables the account and re-applies its package.
	UnSuspend(ctx context.Context, params domain.UnSuspendParams) (*domain.AccountInfo, error)

	// Terminate permanently removes the account and every child site/domain.
	Terminate(ctx context.Context, id domain.AccountIdentifier) (*domain.TerminateResult, error)
}
