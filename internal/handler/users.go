package handler

import (
	"net/http"
)

// UpsertUser handles PUT /users/{email}
// Merges the body into the user keyed by email, creating it if absent.
func (h *Handler) UpsertUser(w http.ResponseWriter, r *http.Request) {
	email, err := emailParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid email in path")
		return
	}
	doc, err := decodeDocument(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := h.users.Upsert(r.Context(), email, doc)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to save user")
		return
	}

	writeJSON(w, http.StatusOK, res)
}
