package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

const (
	contentTypeHeader = "Content-Type"
	contentTypeJSON   = "application/json; charset=utf-8"
)

// Error codes returned in the response body. They map to HTTP statuses but
// stay stable when statuses are reused across causes.
const (
	codeBadRequest       = "bad_request"
	codeUnauthorized     = "unauthorized"
	codeNotFound         = "not_found"
	codeMethodNotAllowed = "method_not_allowed"
	codeRateLimited      = "rate_limited"
	codeUpstreamFailed   = "upstream_failed"
	codeInternal         = "internal_error"
)

var codeStatus = map[string]int{
	codeBadRequest:       http.StatusBadRequest,
	codeUnauthorized:     http.StatusUnauthorized,
	codeNotFound:         http.StatusNotFound,
	codeMethodNotAllowed: http.StatusMethodNotAllowed,
	codeRateLimited:      http.StatusTooManyRequests,
	codeUpstreamFailed:   http.StatusBadGateway,
	codeInternal:         http.StatusInternalServerError,
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// writeJSON writes v with the given status and returns the status for
// metrics recording.
func writeJSON(w http.ResponseWriter, logger *zerolog.Logger, status int, v any) int {
	w.Header().Set(contentTypeHeader, contentTypeJSON)
	w.WriteHeader(status)

	if v == nil {
		return status
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn().Err(err).Msg("failed to encode response")
	}

	return status
}

// writeError writes the stable error envelope for a code.
func writeError(w http.ResponseWriter, logger *zerolog.Logger, code, message string) int {
	status, ok := codeStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	var body errorBody

	body.Error.Code = code
	body.Error.Message = message

	return writeJSON(w, logger, status, body)
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		}

		return fmt.Errorf("invalid JSON body: %w", err)
	}

	return nil
}
