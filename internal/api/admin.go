package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/opsmind/phonesystem/backend/internal/storage"
	"github.com/rs/zerolog"
)

// AdminTokenHeader carries the operator token on admin routes.
const AdminTokenHeader = "X-Admin-Token"

// AdminHandler serves operator-only maintenance endpoints
type AdminHandler struct {
	store  storage.Store
	logger zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(store storage.Store, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		store:  store,
		logger: logger.With().Str("component", "admin_api").Logger(),
	}
}

// RequireAdmin only lets requests through that present token. An empty token
// closes the routes entirely.
func RequireAdmin(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(AdminTokenHeader)
			if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				writeError(w, http.StatusForbidden, "admin token required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WipeOwnership handles DELETE /internal/admin/ownership. It removes every
// user to assistant and user to phone link.
func (h *AdminHandler) WipeOwnership(w http.ResponseWriter, r *http.Request) {
	if err := h.store.TruncateAll(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("failed to truncate ownership tables")
		writeError(w, http.StatusInternalServerError, "failed to truncate ownership tables")
		return
	}

	h.logger.Warn().Msg("ownership tables truncated")
	writeJSON(w, http.StatusOK, map[string]string{"message": "ownership tables truncated"})
}
