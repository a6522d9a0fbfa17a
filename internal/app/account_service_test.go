package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/domain"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/mocks"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/platform/logging"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMockBuilder(t *testing.T) *mocks.MockWebsiteBuilder {
	t.Helper()

	m := mocks.NewMockWebsiteBuilder(t)
	m.EXPECT().Name().Return("basekit").Maybe()

	return m
}

func newService(builder *mocks.MockWebsiteBuilder) *AccountService {
	return NewAccountService(AccountServiceConfig{
		Builder: builder,
		Logger:  discardLogger(),
	})
}

var testID = domain.AccountIdentifier{AccountReference: "101", DomainName: "example.com"}

func TestNewAccountService_PanicsWithoutBuilder(t *testing.T) {
	assert.Panics(t, func() {
		NewAccountService(AccountServiceConfig{Logger: slog.Default()})
	})
}

func TestNewAccountService_DefaultsLogger(t *testing.T) {
	svc := NewAccountService(AccountServiceConfig{Builder: newMockBuilder(t)})

	require.NotNil(t, svc)
	assert.Equal(t, "basekit", svc.Provider())
}

func TestAccountService_Create(t *testing.T) {
	params := domain.CreateParams{
		CustomerName:     "Jane Public",
		CustomerEmail:    "jane@example.com",
		DomainName:       "example.com",
		PackageReference: "12",
	}

	tests := []struct {
		name      string
		params    func() domain.CreateParams
		setupMock func(*mocks.MockWebsiteBuilder)
		wantRef   string
		errCheck  func(error) bool
	}{
		{
			name:   "success",
			params: func() domain.CreateParams { return params },
			setupMock: func(m *mocks.MockWebsiteBuilder) {
				m.EXPECT().Create(mock.Anything, params).
					Return(&domain.AccountInfo{
						AccountReference: "101",
						PackageReference: "12",
						Message:          domain.MsgWebsiteCreated,
					}, nil)
			},
			wantRef: "101",
		},
		{
			name:   "vendor error is returned unchanged",
			params: func() domain.CreateParams { return params },
			setupMock: func(m *mocks.MockWebsiteBuilder) {
				m.EXPECT().Create(mock.Anything, params).
					Return(nil, domain.NewProviderError("basekit", "Provider API Error: Invalid package", 422, nil, nil))
			},
			errCheck: domain.IsProvider,
		},
		{
			name:   "unavailable",
			params: func() domain.CreateParams { return params },
			setupMock: func(m *mocks.MockWebsiteBuilder) {
				m.EXPECT().Create(mock.Anything, params).
					Return(nil, domain.NewConnectionError("basekit", errors.New("dial tcp: refused")))
			},
			errCheck: domain.IsUnavailable,
		},
		{
			name: "negative billing cycle never reaches the vendor",
			params: func() domain.CreateParams {
				p := params
				p.BillingCycleMonths = -1
				return p
			},
			setupMock: func(*mocks.MockWebsiteBuilder) {},
			errCheck:  domain.IsValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := newMockBuilder(t)
			tt.setupMock(builder)

			info, err := newService(builder).Create(context.Background(), tt.params())

			if tt.errCheck != nil {
				require.Error(t, err)
				assert.True(t, tt.errCheck(err))
				assert.Nil(t, info)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantRef, info.AccountReference)
			assert.Equal(t, domain.MsgWebsiteCreated, info.Message)
		})
	}
}

func TestAccountService_ErrorIdentity(t *testing.T) {
	builder := newMockBuilder(t)
	want := domain.NewNotFoundErrorWithListing("site", "nope.com", "Domain nope.com not found", []string{"a.com"})
	builder.EXPECT().GetInfo(mock.Anything, testID).Return(nil, want)

	_, err := newService(builder).GetInfo(context.Background(), testID)

	assert.Same(t, want, err)
}

func TestAccountService_Operations(t *testing.T) {
	info := &domain.AccountInfo{AccountReference: "101", PackageReference: "12"}

	tests := []struct {
		name string
		run  func(*AccountService) (any, error)
		mock func(*mocks.MockWebsiteBuilder)
		want any
	}{
		{
			name: "getInfo",
			run: func(s *AccountService) (any, error) {
				return s.GetInfo(context.Background(), testID)
			},
			mock: func(m *mocks.MockWebsiteBuilder) {
				m.EXPECT().GetInfo(mock.Anything, testID).Return(info, nil)
			},
			want: info,
		},
		{
			name: "login",
			run: func(s *AccountService) (any, error) {
				return s.Login(context.Background(), testID)
			},
			mock: func(m *mocks.MockWebsiteBuilder) {
				m.EXPECT().Login(mock.Anything, testID).
					Return(&domain.LoginResult{LoginURL: "https://sso.test/abc"}, nil)
			},
			want: &domain.LoginResult{LoginURL: "https://sso.test/abc"},
		},
		{
			name: "changePackage",
			run: func(s *AccountService) (any, error) {
				return s.ChangePackage(context.Background(),
					domain.ChangePackageParams{AccountIdentifier: testID, PackageReference: "13"})
			},
			mock: func(m *mocks.MockWebsiteBuilder) {
				m.EXPECT().ChangePackage(mock.Anything,
					domain.ChangePackageParams{AccountIdentifier: testID, PackageReference: "13"}).
					Return(info, nil)
			},
			want: info,
		},
		{
			name: "suspend",
			run: func(s *AccountService) (any, error) {
				return s.Suspend(context.Background(), testID)
			},
			mock: func(m *mocks.MockWebsiteBuilder) {
				m.EXPECT().Suspend(mock.Anything, testID).Return(info, nil)
			},
			want: info,
		},
		{
			name: "unSuspend",
			run: func(s *AccountService) (any, error) {
				return s.UnSuspend(context.Background(),
					domain.UnSuspendParams{AccountIdentifier: testID, PackageReference: "12"})
			},
			mock: func(m *mocks.MockWebsiteBuilder) {
				m.EXPECT().UnSuspend(mock.Anything,
					domain.UnSuspendParams{AccountIdentifier: testID, PackageReference: "12"}).
					Return(info, nil)
			},
			want: info,
		},
		{
			name: "terminate",
			run: func(s *AccountService) (any, error) {
				return s.Terminate(context.Background(), testID)
			},
			mock: func(m *mocks.MockWebsiteBuilder) {
				m.EXPECT().Terminate(mock.Anything, testID).
					Return(&domain.TerminateResult{Message: domain.MsgAccountTerminated}, nil)
			},
			want: &domain.TerminateResult{Message: domain.MsgAccountTerminated},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := newMockBuilder(t)
			tt.mock(builder)

			got, err := tt.run(newService(builder))

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAccountService_BillingCycleValidation(t *testing.T) {
	builder := newMockBuilder(t)
	svc := newService(builder)
	ctx := context.Background()

	_, err := svc.ChangePackage(ctx, domain.ChangePackageParams{AccountIdentifier: testID, BillingCycleMonths: -12})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.UnSuspend(ctx, domain.UnSuspendParams{AccountIdentifier: testID, BillingCycleMonths: -1})
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "billing_cycle_months")
}

func TestAccountService_TagsContextLogger(t *testing.T) {
	var buf bytes.Buffer
	requestLogger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	builder := newMockBuilder(t)
	builder.EXPECT().Suspend(mock.Anything, testID).
		Run(func(ctx context.Context, _ domain.AccountIdentifier) {
			logging.FromContext(ctx).InfoContext(ctx, "from adapter")
		}).
		Return(&domain.AccountInfo{AccountReference: "101", Suspended: true, Message: domain.MsgAccountSuspended}, nil)

	ctx := logging.WithRequestID(logging.WithContext(context.Background(), requestLogger), "req-1")

	_, err := newService(builder).Suspend(ctx, testID)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	for _, line := range lines {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		assert.Equal(t, "basekit", entry["provider"])
		assert.Equal(t, "suspend", entry["operation"])
		assert.Equal(t, "req-1", entry["request_id"])
	}

	assert.Contains(t, lines[1], "from adapter")
	assert.Contains(t, lines[2], domain.MsgAccountSuspended)
}

func TestAccountService_FailureLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		level string
	}{
		{name: "validation", err: domain.NewValidationError("domain_name", "is required"), level: "WARN"},
		{name: "not found", err: domain.NewNotFoundError("site", "x"), level: "WARN"},
		{name: "provider", err: domain.NewProviderError("basekit", "Provider API Error: boom", 500, nil, nil), level: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			builder := newMockBuilder(t)
			builder.EXPECT().Terminate(mock.Anything, testID).Return(nil, tt.err)

			svc := NewAccountService(AccountServiceConfig{Builder: builder, Logger: logger})

			_, err := svc.Terminate(context.Background(), testID)
			require.Error(t, err)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, "operation failed", entry["msg"])
			assert.Equal(t, "app.AccountService", entry["component"])
		})
	}
}
