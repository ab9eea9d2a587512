// Package httpapi exposes the authentication service over a JSON HTTP API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/arcadia-platform/arcadia-auth/internal/logging"
	"github.com/arcadia-platform/arcadia-auth/internal/server/models"
	"github.com/gorilla/mux"
)

// Service is the authentication surface the API exposes. Implemented by
// services.AuthService.
type Service interface {
	Register(ctx context.Context, email, username, password string) (*models.Account, error)
	Authenticate(ctx context.Context, email, password string) (string, *models.Account, error)
	ValidateSession(ctx context.Context, token string) (*models.Account, error)
	ChangePassword(ctx context.Context, accountID, oldPassword, newPassword string) error
	Logout(ctx context.Context, token string) error
}

type Server struct {
	address string
	service Service
	logger  logging.Logger
}

func NewServer(address string, service Service, logger logging.Logger) *Server {
	return &Server{
		address: address,
		service: service,
		logger:  logger.With("module", "http_server"),
	}
}

// Router builds the route table. Exposed separately from Run so tests can
// drive it with httptest.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	api.HandleFunc("/session", s.handleSession).Methods(http.MethodGet)
	api.HandleFunc("/password", s.handleChangePassword).Methods(http.MethodPut)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
