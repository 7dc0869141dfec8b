package httpapi

import (
	"net/http"
	"sort"
)

type ProfileHandler struct {
	sessions *Sessions
}

func NewProfileHandler(sessions *Sessions) *ProfileHandler {
	return &ProfileHandler{sessions: sessions}
}

// GetProfile returns the stored customer data for form prepopulation. A
// freshly prepopulated field must not carry stale error decoration, so the
// response names the fields the client should clear.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Get(r.Context(), getUserIDFromContext(r.Context()))
	stored := session.Profile.Load(r.Context())

	fields := make([]string, 0, len(stored))
	for name := range stored {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"profile":      stored,
		"clear_errors": fields,
	})
}
