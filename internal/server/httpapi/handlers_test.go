package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arcadia-platform/arcadia-auth/internal/common"
	"github.com/arcadia-platform/arcadia-auth/internal/logging"
	"github.com/arcadia-platform/arcadia-auth/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	register        func(ctx context.Context, email, username, password string) (*models.Account, error)
	authenticate    func(ctx context.Context, email, password string) (string, *models.Account, error)
	validateSession func(ctx context.Context, token string) (*models.Account, error)
	changePassword  func(ctx context.Context, accountID, oldPassword, newPassword string) error
	logout          func(ctx context.Context, token string) error
}

func (s *stubService) Register(ctx context.Context, email, username, password string) (*models.Account, error) {
	return s.register(ctx, email, username, password)
}

func (s *stubService) Authenticate(ctx context.Context, email, password string) (string, *models.Account, error) {
	return s.authenticate(ctx, email, password)
}

func (s *stubService) ValidateSession(ctx context.Context, token string) (*models.Account, error) {
	return s.validateSession(ctx, token)
}

func (s *stubService) ChangePassword(ctx context.Context, accountID, oldPassword, newPassword string) error {
	return s.changePassword(ctx, accountID, oldPassword, newPassword)
}

func (s *stubService) Logout(ctx context.Context, token string) error {
	return s.logout(ctx, token)
}

func newTestServer(svc *stubService) *Server {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewServer(":0", svc, logger)
}

func do(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRegister_Created(t *testing.T) {
	srv := newTestServer(&stubService{
		register: func(ctx context.Context, email, username, password string) (*models.Account, error) {
			assert.Equal(t, "demo@arcadia.local", email)
			return &models.Account{ID: "acc-1", Email: email, Username: username, Tokens: 100}, nil
		},
	})

	rec := do(t, srv, http.MethodPost, "/api/v1/register", "",
		registerRequest{Email: "demo@arcadia.local", Username: "demo_user", Password: "Demo123!"})

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode(t, rec)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Account)
	assert.Equal(t, "acc-1", resp.Account.ID)
	assert.Equal(t, 100, resp.Account.Tokens)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegister_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", fmt.Errorf("%w: invalid email format", common.ErrValidation), http.StatusBadRequest, "invalid email format"},
		{"conflict", fmt.Errorf("email %w", common.ErrConflict), http.StatusConflict, "email already exists"},
		{"rate limited", common.ErrRateLimited, http.StatusTooManyRequests, "too many attempts"},
		{"internal", common.ErrInternal, http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&stubService{
				register: func(ctx context.Context, email, username, password string) (*models.Account, error) {
					return nil, tt.err
				},
			})

			rec := do(t, srv, http.MethodPost, "/api/v1/register", "",
				registerRequest{Email: "demo@arcadia.local", Username: "demo_user", Password: "Demo123!"})

			require.Equal(t, tt.wantStatus, rec.Code)
			resp := decode(t, rec)
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Message, tt.wantMsg)
		})
	}
}

func TestRegister_MalformedBody(t *testing.T) {
	srv := newTestServer(&stubService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/register", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_OK(t *testing.T) {
	srv := newTestServer(&stubService{
		authenticate: func(ctx context.Context, email, password string) (string, *models.Account, error) {
			return "signed.jwt.token", &models.Account{ID: "acc-1", Email: email}, nil
		},
	})

	rec := do(t, srv, http.MethodPost, "/api/v1/login", "",
		loginRequest{Email: "demo@arcadia.local", Password: "Demo123!"})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "signed.jwt.token", resp.Token)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	srv := newTestServer(&stubService{
		authenticate: func(ctx context.Context, email, password string) (string, *models.Account, error) {
			return "", nil, common.ErrAuthentication
		},
	})

	rec := do(t, srv, http.MethodPost, "/api/v1/login", "",
		loginRequest{Email: "demo@arcadia.local", Password: "nope"})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, decode(t, rec).Message, "invalid credentials")
}

func TestSession_OK(t *testing.T) {
	srv := newTestServer(&stubService{
		validateSession: func(ctx context.Context, token string) (*models.Account, error) {
			assert.Equal(t, "tok-1", token)
			return &models.Account{ID: "acc-1", Username: "demo_user"}, nil
		},
	})

	rec := do(t, srv, http.MethodGet, "/api/v1/session", "tok-1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	require.NotNil(t, resp.Account)
	assert.Equal(t, "demo_user", resp.Account.Username)
}

func TestSession_MissingToken(t *testing.T) {
	srv := newTestServer(&stubService{})

	rec := do(t, srv, http.MethodGet, "/api/v1/session", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSession_RejectedToken(t *testing.T) {
	srv := newTestServer(&stubService{
		validateSession: func(ctx context.Context, token string) (*models.Account, error) {
			return nil, common.ErrAuthentication
		},
	})

	rec := do(t, srv, http.MethodGet, "/api/v1/session", "expired", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChangePassword_OK(t *testing.T) {
	var gotAccountID string
	srv := newTestServer(&stubService{
		validateSession: func(ctx context.Context, token string) (*models.Account, error) {
			return &models.Account{ID: "acc-1"}, nil
		},
		changePassword: func(ctx context.Context, accountID, oldPassword, newPassword string) error {
			gotAccountID = accountID
			return nil
		},
	})

	rec := do(t, srv, http.MethodPut, "/api/v1/password", "tok-1",
		changePasswordRequest{OldPassword: "Demo123!", NewPassword: "NewPass456$"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acc-1", gotAccountID)
}

func TestChangePassword_WeakPassword(t *testing.T) {
	srv := newTestServer(&stubService{
		validateSession: func(ctx context.Context, token string) (*models.Account, error) {
			return &models.Account{ID: "acc-1"}, nil
		},
		changePassword: func(ctx context.Context, accountID, oldPassword, newPassword string) error {
			return fmt.Errorf("%w: password must be at least 8 characters long", common.ErrValidation)
		},
	})

	rec := do(t, srv, http.MethodPut, "/api/v1/password", "tok-1",
		changePasswordRequest{OldPassword: "Demo123!", NewPassword: "weak"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogout_OK(t *testing.T) {
	called := false
	srv := newTestServer(&stubService{
		logout: func(ctx context.Context, token string) error {
			called = true
			return nil
		},
	})

	rec := do(t, srv, http.MethodPost, "/api/v1/logout", "tok-1", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(&stubService{})

	rec := do(t, srv, http.MethodGet, "/healthz", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(&stubService{})

	rec := do(t, srv, http.MethodGet, "/api/v1/register", "", nil)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
