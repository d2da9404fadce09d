package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/care-connect/internal/lib/logger/sl"
	"github.com/Shivanand-hulikatti/care-connect/internal/model"
	"github.com/Shivanand-hulikatti/care-connect/internal/repository"
)

// ListGuestBookings handles GET /bookings?email=
func (h *Handler) ListGuestBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.ListByGuest(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		h.writeServiceError(w, r, err, "failed to list bookings")
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(bookings))
}

// ListHostBookings handles GET /bookings/host?email=
func (h *Handler) ListHostBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.ListByHost(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		h.writeServiceError(w, r, err, "failed to list bookings")
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(bookings))
}

// CreateBooking handles POST /bookings
// The response does not wait for the guest and host notices.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeDocument(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := h.bookings.Create(r.Context(), doc)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to create booking")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// DeleteBooking handles DELETE /bookings/{id}
// Responses use a bare message envelope rather than the error envelope.
func (h *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	_, err := h.bookings.Delete(r.Context(), chi.URLParam(r, "id"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Booking deleted successfully."})
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, model.MessageResponse{Message: "Booking not found."})
	default:
		h.log.Error("failed to delete booking", slog.String("id", chi.URLParam(r, "id")), sl.Err(err))
		writeJSON(w, http.StatusInternalServerError, model.MessageResponse{Message: msgInternal})
	}
}
