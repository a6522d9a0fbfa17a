package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/http/dto"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/providers"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/app"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/platform/config"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/platform/logging"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	configDir string
	profile   string
	provider  string
	logLevel  string
}

// wireFunc builds the account service for one invocation. Log output goes
// to logOutput so stdout carries only the JSON result.
type wireFunc func(opts *options, logOutput io.Writer) (*app.AccountService, error)

// serviceFunc resolves the account service for a running command.
type serviceFunc func(cmd *cobra.Command) (*app.AccountService, error)

func newRootCmd(wire wireFunc) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "wbctl",
		Short: "Provision website builder accounts",
		Long: "wbctl runs a single provisioning operation (create, info, login, change-package, " +
			"suspend, unsuspend, terminate) against the website builder selected in configuration " +
			"and prints the result as JSON.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configDir, "config-dir", "configs", "directory holding base.yaml and <profile>.yaml")
	flags.StringVar(&opts.profile, "profile", envOrDefault("APP_ENVIRONMENT", "local"), "configuration profile")
	flags.StringVarP(&opts.provider, "provider", "p", "", "override provider.name (basekit, weebly, yola, websitecom)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "stderr log level (trace, debug, info, warn, error)")

	service := func(cmd *cobra.Command) (*app.AccountService, error) {
		return wire(opts, cmd.ErrOrStderr())
	}

	root.AddCommand(
		newCreateCmd(service),
		newInfoCmd(service),
		newLoginCmd(service),
		newChangePackageCmd(service),
		newSuspendCmd(service),
		newUnSuspendCmd(service),
		newTerminateCmd(service),
	)

	return root
}

// wireService loads configuration and builds the adapter it selects.
func wireService(opts *options, logOutput io.Writer) (*app.AccountService, error) {
	cfg, err := config.LoadFrom(opts.configDir, opts.profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if opts.provider != "" {
		cfg.Provider.Name = opts.provider
	}

	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  "pretty",
		Service: "wbctl",
		Version: Version,
	}, logOutput)

	builder, err := providers.New(cfg, logger)
	if err != nil {
		return nil, err
	}

	return app.NewAccountService(app.AccountServiceConfig{
		Builder: builder,
		Logger:  logger,
	}), nil
}

// execute runs root and returns the process exit code. Domain errors are
// written to stdout as the same JSON envelope the HTTP API returns, so
// stdout stays machine readable. Anything else goes to stderr.
func execute(ctx context.Context, root *cobra.Command) int {
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	status, resp := dto.MapDomainError(err)
	if status == http.StatusInternalServerError || writeJSON(root.OutOrStdout(), resp) != nil {
		_, _ = fmt.Fprintf(root.ErrOrStderr(), "error: %v\n", err)
	}

	return 1
}

// writeJSON encodes v, indenting it when w is a terminal.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if isTerminal(w) {
		enc.SetIndent("", "  ")
	}

	return enc.Encode(v)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}
