package httpapp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/openboard-dev/openboard/internal/auth"
	"github.com/openboard-dev/openboard/internal/logutil"
	"github.com/openboard-dev/openboard/internal/store"
)

const maxBodySize = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

// writeDomainError maps the error taxonomy to status codes. Anything
// outside the taxonomy is an internal failure: logged in full,
// reported without detail.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, auth.ErrAccountTaken):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, auth.ErrUnknownAccount),
		errors.Is(err, auth.ErrBadCredentials),
		errors.Is(err, auth.ErrMissingCredential),
		errors.Is(err, auth.ErrMalformedToken),
		errors.Is(err, auth.ErrBadSignature),
		errors.Is(err, auth.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, err)
	case errors.Is(err, auth.ErrForbidden):
		writeError(w, http.StatusForbidden, err)
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, context.DeadlineExceeded):
		logger := logutil.GetOrDefault(r.Context())
		logger.Error().Err(err).Msg("store timeout")
		writeError(w, http.StatusServiceUnavailable, errors.New("service unavailable"))
	default:
		logger := logutil.GetOrDefault(r.Context())
		logger.Error().Err(err).Msg("internal failure")
		writeError(w, http.StatusInternalServerError, errors.New("server error"))
	}
}

func readJSON(body io.ReadCloser, dest any) error {
	defer body.Close()
	return json.NewDecoder(io.LimitReader(body, maxBodySize)).Decode(dest)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
