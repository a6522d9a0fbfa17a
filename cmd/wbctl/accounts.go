package main

import (
	"github.com/spf13/cobra"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/http/dto"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/domain"
)

// identifierFlags binds the optional secondary keys of an account.
type identifierFlags struct {
	domainName string
	userID     string
}

func (f *identifierFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.domainName, "domain", "", "domain name of the account")
	cmd.Flags().StringVar(&f.userID, "user-id", "", "vendor user id (required by some vendors)")
}

func (f *identifierFlags) identifier(reference string) domain.AccountIdentifier {
	return domain.AccountIdentifier{
		AccountReference:  reference,
		DomainName:        f.domainName,
		SiteBuilderUserID: f.userID,
	}
}

func newCreateCmd(service serviceFunc) *cobra.Command {
	var params domain.CreateParams

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a website builder account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := service(cmd)
			if err != nil {
				return err
			}

			info, err := svc.Create(cmd.Context(), params)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), dto.NewAccountResponse(svc.Provider(), info))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&params.CustomerID, "customer-id", "", "billing customer id")
	flags.StringVar(&params.CustomerName, "name", "", "customer full name")
	flags.StringVar(&params.CustomerEmail, "email", "", "customer email address")
	flags.StringVar(&params.DomainName, "domain", "", "domain name for the site")
	flags.StringVar(&params.PackageReference, "package", "", "vendor package or plan reference")
	flags.IntVar(&params.BillingCycleMonths, "billing-months", 0, "billing cycle in months")
	flags.StringVar(&params.Password, "password", "", "account password (generated when empty)")
	flags.StringVar(&params.LanguageCode, "language", "", "language code (default en)")
	flags.StringVar(&params.SiteBuilderUserID, "user-id", "", "reuse an existing vendor user")

	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("package")

	return cmd
}

func newInfoCmd(service serviceFunc) *cobra.Command {
	var id identifierFlags

	cmd := &cobra.Command{
		Use:   "info <reference>",
		Short: "Show the live account state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service(cmd)
			if err != nil {
				return err
			}

			info, err := svc.GetInfo(cmd.Context(), id.identifier(args[0]))
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), dto.NewAccountResponse(svc.Provider(), info))
		},
	}

	id.register(cmd)

	return cmd
}

func newLoginCmd(service serviceFunc) *cobra.Command {
	var id identifierFlags

	cmd := &cobra.Command{
		Use:   "login <reference>",
		Short: "Print a control panel login link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service(cmd)
			if err != nil {
				return err
			}

			result, err := svc.Login(cmd.Context(), id.identifier(args[0]))
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), dto.LoginResponse{
				Provider: svc.Provider(),
				LoginURL: result.LoginURL,
			})
		},
	}

	id.register(cmd)

	return cmd
}

func newChangePackageCmd(service serviceFunc) *cobra.Command {
	var (
		id     identifierFlags
		pkg    string
		months int
	)

	cmd := &cobra.Command{
		Use:   "change-package <reference>",
		Short: "Move an account to another package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service(cmd)
			if err != nil {
				return err
			}

			info, err := svc.ChangePackage(cmd.Context(), domain.ChangePackageParams{
				AccountIdentifier:  id.identifier(args[0]),
				PackageReference:   pkg,
				BillingCycleMonths: months,
			})
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), dto.NewAccountResponse(svc.Provider(), info))
		},
	}

	id.register(cmd)
	cmd.Flags().StringVar(&pkg, "package", "", "target package or plan reference")
	cmd.Flags().IntVar(&months, "billing-months", 0, "billing cycle in months")
	_ = cmd.MarkFlagRequired("package")

	return cmd
}

func newSuspendCmd(service serviceFunc) *cobra.Command {
	var id identifierFlags

	cmd := &cobra.Command{
		Use:   "suspend <reference>",
		Short: "Suspend an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service(cmd)
			if err != nil {
				return err
			}

			info, err := svc.Suspend(cmd.Context(), id.identifier(args[0]))
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), dto.NewAccountResponse(svc.Provider(), info))
		},
	}

	id.register(cmd)

	return cmd
}

func newUnSuspendCmd(service serviceFunc) *cobra.Command {
	var (
		id     identifierFlags
		pkg    string
		months int
	)

	cmd := &cobra.Command{
		Use:   "unsuspend <reference>",
		Short: "Re-enable a suspended account and re-apply its package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service(cmd)
			if err != nil {
				return err
			}

			info, err := svc.UnSuspend(cmd.Context(), domain.UnSuspendParams{
				AccountIdentifier:  id.identifier(args[0]),
				PackageReference:   pkg,
				BillingCycleMonths: months,
			})
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), dto.NewAccountResponse(svc.Provider(), info))
		},
	}

	id.register(cmd)
	cmd.Flags().StringVar(&pkg, "package", "", "package to restore")
	cmd.Flags().IntVar(&months, "billing-months", 0, "billing cycle in months")
	_ = cmd.MarkFlagRequired("package")

	return cmd
}

func newTerminateCmd(service serviceFunc) *cobra.Command {
	var id identifierFlags

	cmd := &cobra.Command{
		Use:   "terminate <reference>",
		Short: "Permanently remove an account and its sites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service(cmd)
			if err != nil {
				return err
			}

			result, err := svc.Terminate(cmd.Context(), id.identifier(args[0]))
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), dto.TerminateResponse{
				Provider: svc.Provider(),
				Message:  result.Message,
			})
		},
	}

	id.register(cmd)

	return cmd
}
