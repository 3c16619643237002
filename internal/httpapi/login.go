package httpapi

import (
	"errors"
	"net/http"

	"github.com/p-n-ai/pai-learn/internal/auth"
)

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, loginSchema, &req, "Username and password are required") {
		return
	}

	res, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrUnauthorized) {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		writeServiceError(w, r, err, "Not found", "Login failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := s.auth.CurrentUser(r.Context(), claims)
	if err != nil {
		writeServiceError(w, r, err, "Not found", "Failed to load user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]auth.User{"user": user})
}
