package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/care-connect/internal/model"
)

// ListPlaces handles GET /places
func (h *Handler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	places, err := h.places.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "failed to list places")
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(places))
}

// ListHostPlaces handles GET /places/{email}
// The route is guarded so that email is always the caller's own identity.
func (h *Handler) ListHostPlaces(w http.ResponseWriter, r *http.Request) {
	email, err := emailParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid email in path")
		return
	}
	places, err := h.places.ListByHost(r.Context(), email)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to list places")
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(places))
}

// GetPlace handles GET /place/{id}
// A missing place is a 200 with a null body.
func (h *Handler) GetPlace(w http.ResponseWriter, r *http.Request) {
	place, err := h.places.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err, "failed to get place")
		return
	}
	writeJSON(w, http.StatusOK, place)
}

// CreatePlace handles POST /places
func (h *Handler) CreatePlace(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeDocument(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := h.places.Create(r.Context(), doc)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to create place")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// UpdatePlace handles PUT /places/{id}
func (h *Handler) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeDocument(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := h.places.Update(r.Context(), chi.URLParam(r, "id"), doc)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to update place")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// SetPlaceStatus handles PATCH /places/status/{id}
func (h *Handler) SetPlaceStatus(w http.ResponseWriter, r *http.Request) {
	var req model.PlaceStatusRequest
	if err := h.decodeValid(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := h.places.SetBooked(r.Context(), chi.URLParam(r, "id"), *req.Status)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to update place status")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// DeletePlace handles DELETE /places/{id}
func (h *Handler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	res, err := h.places.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err, "failed to delete place")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
