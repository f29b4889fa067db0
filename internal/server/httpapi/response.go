package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/yardcms/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type historyResponse struct {
	History []string `json:"history"`
}

type authResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and a client-safe message. Anything
// that is not a known sentinel is logged and reported as a 500.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Msg})
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	case errors.Is(err, common.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

const unknownFieldPrefix = "json: unknown field "

// decodeJSON reads a single JSON object from the request body into dst.
// Fields dst does not declare are rejected rather than dropped.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return common.NewValidationError(fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		case errors.Is(err, io.EOF):
			return common.NewValidationError("empty request body")
		case strings.HasPrefix(err.Error(), unknownFieldPrefix):
			return common.NewValidationError("unknown field " + strings.TrimPrefix(err.Error(), unknownFieldPrefix))
		default:
			return common.NewValidationError("invalid JSON body")
		}
	}
	if dec.More() {
		return common.NewValidationError("invalid JSON body")
	}
	return nil
}
