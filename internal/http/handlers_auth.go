package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/cdJohnEl/PocketLens/internal/auth"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User  auth.User `json:"user"`
	Token string    `json:"token"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := s.auth.SignUp(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		s.writeAuthError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, sessionResponse{User: user, Token: token})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := s.auth.SignIn(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		s.writeAuthError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sessionResponse{User: user, Token: token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		s.auth.SignOut(token)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]auth.User{"user": currentUser(r)})
}

// writeAuthError maps auth error kinds onto HTTP statuses, passing the
// user-facing message through.
func (s *Server) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	var authErr *auth.Error
	if !errors.As(err, &authErr) {
		writeError(w, r, http.StatusBadGateway, "authentication service unavailable")
		return
	}

	status := http.StatusInternalServerError
	switch authErr.Kind {
	case auth.KindUserNotFound, auth.KindWrongPassword:
		status = http.StatusUnauthorized
	case auth.KindEmailExists:
		status = http.StatusConflict
	case auth.KindWeakPassword, auth.KindInvalidEmail:
		status = http.StatusBadRequest
	case auth.KindNotConfigured:
		status = http.StatusServiceUnavailable
	}
	writeError(w, r, status, authErr.Message)
}
