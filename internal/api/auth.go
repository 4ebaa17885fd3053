package api

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	db "github.com/boardofone/advisory-backend/internal/storage"
)

const bearerPrefix = "Bearer "

var errMissingToken = errors.New("missing bearer token")

// HashToken maps an opaque API token to its stored hash. Only the hash ever
// touches the database or its logs.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))

	return hex.EncodeToString(sum[:])
}

// authenticate resolves the request's bearer token to a user ID.
func (h *Handler) authenticate(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", errMissingToken
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return "", errMissingToken
	}

	userID, err := h.db.LookupToken(r.Context(), HashToken(token))
	if err != nil {
		return "", err
	}

	return userID, nil
}

// requireUser authenticates and writes the 401 itself on failure. The bool
// reports whether the caller should continue.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, err := h.authenticate(r)
	if err != nil {
		if errors.Is(err, errMissingToken) || errors.Is(err, db.ErrTokenNotFound) {
			writeError(w, h.logger, codeUnauthorized, "A valid bearer token is required.")

			return "", false
		}

		h.logger.Error().Err(err).Msg("token lookup failed")
		writeError(w, h.logger, codeInternal, "Authentication failed.")

		return "", false
	}

	return userID, true
}
