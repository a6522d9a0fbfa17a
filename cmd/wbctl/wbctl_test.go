package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/http/dto"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/providers/basekit/basekittest"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/app"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/domain"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/mocks"
)

// writeBaseKitConfig writes a profile pointing at a fake BaseKit API and
// returns the config directory.
func writeBaseKitConfig(t *testing.T, vendor *basekittest.Server) string {
	t.Helper()

	dir := t.TempDir()
	profile := fmt.Sprintf(`app:
  environment: test
provider:
  name: basekit
basekit:
  api_url: %s
  username: %s
  password: %s
  brand_ref: brand-1
  suspension_package_ref: suspended
`, vendor.URL, basekittest.Username, basekittest.Password)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.yaml"), []byte(profile), 0o600))

	return dir
}

func executeCLI(t *testing.T, wire wireFunc, args ...string) (stdout, stderr string, code int) {
	t.Helper()

	var out, errOut bytes.Buffer

	root := newRootCmd(wire)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)

	code = execute(context.Background(), root)

	return out.String(), errOut.String(), code
}

func TestCLI_BaseKitLifecycle(t *testing.T) {
	vendor := basekittest.NewServer(t)
	base := []string{"--config-dir", writeBaseKitConfig(t, vendor), "--profile", "test", "--log-level", "error"}
	run := func(args ...string) string {
		t.Helper()

		stdout, stderr, code := executeCLI(t, wireService, append(args, base...)...)
		require.Zero(t, code, stderr)

		return stdout
	}

	var created dto.AccountResponse
	require.NoError(t, json.Unmarshal([]byte(run(
		"create",
		"--name", "Jane Doe",
		"--email", "jane@example.com",
		"--domain", "example.com",
		"--package", "gold",
	)), &created))

	assert.Equal(t, "basekit", created.Provider)
	assert.Equal(t, domain.MsgWebsiteCreated, created.Message)
	require.NotEmpty(t, created.AccountReference)
	assert.Equal(t, 1, vendor.UserCount())
	assert.InDelta(t, 0, vendor.LastBody("POST /users/101/account-packages")["billingFrequency"], 0,
		"an omitted --billing-months matches the REST default")

	ref := created.AccountReference

	assert.Contains(t, run("info", ref), `"package_reference":"gold"`)
	assert.Contains(t, run("login", ref), basekittest.FlowURL)
	assert.Contains(t, run("suspend", ref), `"suspended":true`)
	assert.Contains(t, run("unsuspend", ref, "--package", "gold"), `"suspended":false`)
	assert.Contains(t, run("change-package", ref, "--package", "silver"), `"package_reference":"silver"`)

	assert.JSONEq(t, `{"provider":"basekit","message":"Account Terminated"}`, run("terminate", ref))
	assert.Zero(t, vendor.UserCount())
}

func TestCLI_VendorErrorWritesEnvelope(t *testing.T) {
	vendor := basekittest.NewServer(t)
	vendor.RejectPackage("platinum")

	stdout, stderr, code := executeCLI(t, wireService,
		"--config-dir", writeBaseKitConfig(t, vendor), "--profile", "test", "--log-level", "error",
		"create", "--name", "Jane Doe", "--email", "jane@example.com", "--package", "platinum",
	)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "operation failed")

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp), stdout)
	assert.Equal(t, dto.ErrorCodeProvider, resp.Error.Code)
	assert.Equal(t, "Provider API Error: Invalid package; Package does not exist", resp.Error.Message)
	assert.Zero(t, vendor.UserCount())
}

func TestCLI_UsageErrors(t *testing.T) {
	noWire := func(*options, io.Writer) (*app.AccountService, error) {
		t.Fatal("service must not be built for usage errors")
		return nil, nil
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "create without required flags", args: []string{"create", "--name", "Jane"}, want: `required flag(s) "email", "package" not set`},
		{name: "info without reference", args: []string{"info"}, want: "accepts 1 arg(s), received 0"},
		{name: "change-package without package", args: []string{"change-package", "42"}, want: `required flag(s) "package" not set`},
		{name: "unsuspend without package", args: []string{"unsuspend", "42"}, want: `required flag(s) "package" not set`},
		{name: "unknown command", args: []string{"resize", "42"}, want: `unknown command "resize"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, code := executeCLI(t, noWire, tt.args...)

			assert.Equal(t, 1, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, "error: ")
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestCLI_InvalidProviderOverride(t *testing.T) {
	vendor := basekittest.NewServer(t)

	_, stderr, code := executeCLI(t, wireService,
		"--config-dir", writeBaseKitConfig(t, vendor), "--profile", "test",
		"--provider", "geocities", "info", "42",
	)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid config")
	assert.Empty(t, vendor.Calls())
}

func TestCLI_IdentifierFlags(t *testing.T) {
	builder := mocks.NewMockWebsiteBuilder(t)
	builder.EXPECT().Name().Return("weebly").Maybe()
	builder.EXPECT().
		GetInfo(mock.Anything, domain.AccountIdentifier{
			AccountReference:  "site-9",
			DomainName:        "example.com",
			SiteBuilderUserID: "user-3",
		}).
		Return(&domain.AccountInfo{AccountReference: "site-9", PackageReference: "pro"}, nil).
		Once()

	wire := func(*options, io.Writer) (*app.AccountService, error) {
		return app.NewAccountService(app.AccountServiceConfig{
			Builder: builder,
			Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		}), nil
	}

	stdout, stderr, code := executeCLI(t, wire, "info", "site-9", "--domain", "example.com", "--user-id", "user-3")

	require.Zero(t, code, stderr)
	assert.JSONEq(t, `{
		"provider": "weebly",
		"account_reference": "site-9",
		"package_reference": "pro",
		"suspended": false
	}`, stdout)
}

func TestCLI_NotFoundCarriesListing(t *testing.T) {
	builder := mocks.NewMockWebsiteBuilder(t)
	builder.EXPECT().Name().Return("weebly").Maybe()
	builder.EXPECT().
		Suspend(mock.Anything, mock.Anything).
		Return(nil, domain.NewNotFoundErrorWithListing("site", "missing.example", "Domain `missing.example` not found", []any{"example.com"})).
		Once()

	wire := func(*options, io.Writer) (*app.AccountService, error) {
		return app.NewAccountService(app.AccountServiceConfig{
			Builder: builder,
			Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		}), nil
	}

	stdout, stderr, code := executeCLI(t, wire, "suspend", "42", "--domain", "missing.example")

	assert.Equal(t, 1, code)
	assert.Empty(t, stderr)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp), stdout)
	assert.Equal(t, dto.ErrorCodeNotFound, resp.Error.Code)
	assert.Equal(t, map[string]any{"response": []any{"example.com"}}, resp.Error.Details["data"])
}
