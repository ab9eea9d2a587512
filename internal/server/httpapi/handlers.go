package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/arcadia-platform/arcadia-auth/internal/common"
	"github.com/arcadia-platform/arcadia-auth/internal/server/models"
)

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type response struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Account *models.Account `json:"account,omitempty"`
	Token   string          `json:"token,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body *response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps service errors onto HTTP statuses. Unknown errors become a
// plain 500 so internal details never reach the client.
func writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, common.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, common.ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, common.ErrAuthentication), errors.Is(err, common.ErrInvalidToken):
		status = http.StatusUnauthorized
	default:
		writeJSON(w, http.StatusInternalServerError, &response{Message: common.ErrInternal.Error()})
		return
	}
	writeJSON(w, status, &response{Message: err.Error()})
}

// bearerToken extracts the token from an "Authorization: Bearer ..." header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, prefix))
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, &response{Message: "invalid request body"})
		return
	}

	account, err := s.service.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, &response{
		Success: true,
		Message: "registration successful",
		Account: account,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, &response{Message: "invalid request body"})
		return
	}

	token, account, err := s.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &response{
		Success: true,
		Message: "login successful",
		Account: account,
		Token:   token,
	})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, &response{Message: "missing bearer token"})
		return
	}

	account, err := s.service.ValidateSession(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &response{Success: true, Account: account})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, &response{Message: "missing bearer token"})
		return
	}

	account, err := s.service.ValidateSession(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, &response{Message: "invalid request body"})
		return
	}

	if err := s.service.ChangePassword(r.Context(), account.ID, req.OldPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &response{Success: true, Message: "password changed"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, &response{Message: "missing bearer token"})
		return
	}

	if err := s.service.Logout(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &response{Success: true, Message: "logged out"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
