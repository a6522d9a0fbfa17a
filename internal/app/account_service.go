// Package app contains the application service that runs provisioning
// operations against the configured website builder.
//
// AccountService is the only entry point used by the HTTP facade and the
// operator CLI. It tags the context logger with the vendor and operation,
// rejects inputs no vendor could accept, and logs each outcome. Vendor
// errors are returned unchanged so callers can classify them with the
// domain predicates.
package app

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/domain"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/platform/logging"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/ports"
)

// Operation names used in logs.
const (
	OpCreate        = "create"
	OpGetInfo       = "getInfo"
	OpLogin         = "login"
	OpChangePackage = "changePackage"
	OpSuspend       = "suspend"
	OpUnSuspend     = "unSuspend"
	OpTerminate     = "terminate"
)

// AccountService runs the seven account operations through one WebsiteBuilder.
//
// Example usage:
//
//	builder, err := providers.New(cfg, logger)
//	svc := app.NewAccountService(app.AccountServiceConfig{Builder: builder, Logger: logger})
//
//	info, err := svc.GetInfo(ctx, domain.AccountIdentifier{AccountReference: "1234"})
type AccountService struct {
	builder ports.WebsiteBuilder
	logger  *slog.Logger
}

// AccountServiceConfig contains the dependencies of AccountService.
type AccountServiceConfig struct {
	Builder ports.WebsiteBuilder
	Logger  *slog.Logger
}

// NewAccountService creates the service. It panics without a Builder.
func NewAccountService(cfg AccountServiceConfig) *AccountService {
	if cfg.Builder == nil {
		panic("app: AccountServiceConfig.Builder is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AccountService{
		builder: cfg.Builder,
		logger:  logger.With(slog.String("component", "app.AccountService")),
	}
}

// Provider returns the name of the configured vendor.
func (s *AccountService) Provider() string {
	return s.builder.Name()
}

// Create provisions a new account.
func (s *AccountService) Create(ctx context.Context, params domain.CreateParams) (*domain.AccountInfo, error) {
	ctx, logger := s.begin(ctx, OpCreate,
		slog.String("customer_id", params.CustomerID),
		slog.String("domain_name", params.DomainName),
		slog.String("package_reference", params.PackageReference),
	)

	if err := validateBillingCycle(params.BillingCycleMonths); err != nil {
		return nil, s.fail(ctx, logger, err)
	}

	info, err := s.builder.Create(ctx, params)
	if err != nil {
		return nil, s.fail(ctx, logger, err)
	}

	s.succeed(ctx, logger, info)

	return info, nil
}

// GetInfo reads the live account state.
func (s *AccountService) GetInfo(ctx context.Context, id domain.AccountIdentifier) (*domain.AccountInfo, error) {
	ctx, logger := s.begin(ctx, OpGetInfo, identifierAttrs(id)...)

	info, err := s.builder.GetInfo(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, logger, err)
	}

	s.succeed(ctx, logger, info)

	return info, nil
}

// Login returns a single sign-on URL. The URL itself is not logged.
func (s *AccountService) Login(ctx context.Context, id domain.AccountIdentifier) (*domain.LoginResult, error) {
	ctx, logger := s.begin(ctx, OpLogin, identifierAttrs(id)...)

	result, err := s.builder.Login(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, logger, err)
	}

	logger.InfoContext(ctx, "login url issued")

	return result, nil
}

// ChangePackage moves the account to another package.
func (s *AccountService) ChangePackage(
	ctx context.Context,
	params domain.ChangePackageParams,
) (*domain.AccountInfo, error) {
	ctx, logger := s.begin(ctx, OpChangePackage,
		append(identifierAttrs(params.AccountIdentifier),
			slog.String("package_reference", params.PackageReference))...,
	)

	if err := validateBillingCycle(params.BillingCycleMonths); err != nil {
		return nil, s.fail(ctx, logger, err)
	}

	info, err := s.builder.ChangePackage(ctx, params)
	if err != nil {
		return nil, s.fail(ctx, logger, err)
	}

	s.succeed(ctx, logger, info)

	return info, nil
}

// Suspend disables the account.
func (s *AccountService) Suspend(ctx context.Context, id domain.AccountIdentifier) (*domain.AccountInfo, error) {
	ctx, logger := s.begin(ctx, OpSuspend, identifierAttrs(id)...)

	info, err := s.builder.Suspend(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, logger, err)
	}

	s.succeed(ctx, logger, info)

	return info, nil
}

// UnSuspend re-enables the account.
func (s *AccountService) UnSuspend(ctx context.Context, params domain.UnSuspendParams) (*domain.AccountInfo, error) {
	ctx, logger := s.begin(ctx, OpUnSuspend,
		append(identifierAttrs(params.AccountIdentifier),
			slog.String("package_reference", params.PackageReference))...,
	)

	if err := validateBillingCycle(params.BillingCycleMonths); err != nil {
		return nil, s.fail(ctx, logger, err)
	}

	info, err := s.builder.UnSuspend(ctx, params)
	if err != nil {
		return nil, s.fail(ctx, logger, err)
	}

	s.succeed(ctx, logger, info)

	return info, nil
}

// Terminate permanently removes the account.
func (s *AccountService) Terminate(ctx context.Context, id domain.AccountIdentifier) (*domain.TerminateResult, error) {
	ctx, logger := s.begin(ctx, OpTerminate, identifierAttrs(id)...)

	result, err := s.builder.Terminate(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, logger, err)
	}

	logger.InfoContext(ctx, result.Message)

	return result, nil
}

func (s *AccountService) begin(ctx context.Context, operation string, attrs ...slog.Attr) (context.Context, *slog.Logger) {
	ctx = logging.WithContext(ctx, logging.FromContextOr(ctx, s.logger))
	ctx = logging.WithOperation(ctx, s.builder.Name(), operation)

	logger := logging.FromContext(ctx)
	logger.LogAttrs(ctx, slog.LevelDebug, "operation started", attrs...)

	return ctx, logger
}

// fail logs err at a level matching who is at fault and returns it unchanged.
func (s *AccountService) fail(ctx context.Context, logger *slog.Logger, err error) error {
	level := slog.LevelError
	if domain.IsValidation(err) || domain.IsNotFound(err) {
		level = slog.LevelWarn
	}

	logger.LogAttrs(ctx, level, "operation failed", slog.Any("error", err))

	return err
}

func (s *AccountService) succeed(ctx context.Context, logger *slog.Logger, info *domain.AccountInfo) {
	logger.InfoContext(ctx, info.Message,
		slog.String("account_reference", info.AccountReference),
		slog.String("package_reference", info.PackageReference),
		slog.Bool("suspended", info.Suspended),
	)
}

func identifierAttrs(id domain.AccountIdentifier) []slog.Attr {
	return []slog.Attr{
		slog.String("account_reference", id.AccountReference),
		slog.String("domain_name", id.DomainName),
		slog.String("site_builder_user_id", id.SiteBuilderUserID),
	}
}

func validateBillingCycle(months int) error {
	if months < 0 {
		return domain.NewValidationErrorWithValue("billing_cycle_months", "must not be negative", months)
	}

	return nil
}
