package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/p-n-ai/pai-learn/internal/auth"
	"github.com/p-n-ai/pai-learn/internal/course"
	"github.com/p-n-ai/pai-learn/internal/platform/schema"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Message string              `json:"message"`
	Errors  []schema.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"message":"Internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}

// writeServiceError maps domain errors to status codes. notFound and fallback
// are the messages used for 404 and 500 respectively; internal error text is
// only logged.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound, fallback string) {
	switch {
	case errors.Is(err, course.ErrNotFound):
		writeMessage(w, http.StatusNotFound, notFound)
	case errors.Is(err, course.ErrInvalidInput):
		writeMessage(w, http.StatusBadRequest, "Missing required fields")
	case errors.Is(err, auth.ErrUnauthorized):
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
	default:
		logger(r.Context()).Error("request failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, fallback)
	}
}

// decodeBody validates the request body against s and then decodes it into v.
// On failure it writes a 400 response with msg and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, s *schema.Schema, v any, msg string) bool {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeMessage(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		writeMessage(w, http.StatusBadRequest, msg)
		return false
	}

	if err := s.ValidateBytes(data); err != nil {
		resp := errorResponse{Message: msg}
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			resp.Errors = verr.Fields
		}
		logger(r.Context()).Debug("rejected request body", "schema", s.Name(), "error", err)
		writeJSON(w, http.StatusBadRequest, resp)
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		writeMessage(w, http.StatusBadRequest, msg)
		return false
	}
	return true
}

func methodNotAllowed(methods ...string) http.HandlerFunc {
	allow := strings.Join(methods, ", ")
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allow)
		writeMessage(w, http.StatusMethodNotAllowed, fmt.Sprintf("Method %s not allowed", r.Method))
	}
}
