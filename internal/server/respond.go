package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/matzehuels/pointmap/pkg/errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)
	if status >= 500 {
		s.cfg.Logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:    string(code),
		Message: errors.UserMessage(err),
	}})
}

// statusFor maps an error code to an HTTP status: input and configuration
// problems are the caller's (400), unknown resources are 404, anything else
// is 500.
func statusFor(code errors.Code) int {
	switch {
	case code == errors.ErrCodeNotFound:
		return http.StatusNotFound
	case strings.HasPrefix(string(code), "INVALID_"),
		strings.HasPrefix(string(code), "MISSING_"),
		strings.HasPrefix(string(code), "DUPLICATE_"),
		code == errors.ErrCodeEmptyLocation:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
