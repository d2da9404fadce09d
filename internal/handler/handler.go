// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Shivanand-hulikatti/care-connect/internal/auth"
	"github.com/Shivanand-hulikatti/care-connect/internal/lib/logger/sl"
	"github.com/Shivanand-hulikatti/care-connect/internal/model"
	"github.com/Shivanand-hulikatti/care-connect/internal/payment"
	"github.com/Shivanand-hulikatti/care-connect/internal/repository"
	"github.com/Shivanand-hulikatti/care-connect/internal/service"
)

const (
	msgUnauthorized = "Unauthorized Access"
	msgForbidden    = "Forbidden Access"
	msgInternal     = "Internal server error."
)

// UserService saves user profiles.
type UserService interface {
	Upsert(ctx context.Context, email string, fields model.Document) (model.UpdateResult, error)
}

// PlaceService manages place listings.
type PlaceService interface {
	List(ctx context.Context) ([]model.Document, error)
	ListByHost(ctx context.Context, email string) ([]model.Document, error)
	Get(ctx context.Context, id string) (model.Document, error)
	Create(ctx context.Context, fields model.Document) (model.InsertResult, error)
	Update(ctx context.Context, id string, fields model.Document) (model.UpdateResult, error)
	SetBooked(ctx context.Context, id string, status bool) (model.UpdateResult, error)
	Delete(ctx context.Context, id string) (model.DeleteResult, error)
}

// BookingService manages bookings and their notices.
type BookingService interface {
	ListByGuest(ctx context.Context, email string) ([]model.Document, error)
	ListByHost(ctx context.Context, email string) ([]model.Document, error)
	Create(ctx context.Context, fields model.Document) (model.InsertResult, error)
	Delete(ctx context.Context, id string) (model.DeleteResult, error)
}

// PaymentService stages payments with the gateway.
type PaymentService interface {
	CreateIntent(ctx context.Context, price string) (string, error)
}

// Handler holds all HTTP handlers for the marketplace API.
type Handler struct {
	log       *slog.Logger
	validator *validator.Validate
	tokens    *auth.Manager

	users    UserService
	places   PlaceService
	bookings BookingService
	payments PaymentService
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: true, Message: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	return json.NewDecoder(r.Body).Decode(dst)
}

// decodeDocument reads an arbitrary JSON object. A null body is an empty document.
func decodeDocument(w http.ResponseWriter, r *http.Request) (model.Document, error) {
	var doc model.Document
	if err := decodeJSON(w, r, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = model.Document{}
	}
	return doc, nil
}

// decodeValid reads a typed body and runs its struct tag validation.
func (h *Handler) decodeValid(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := decodeJSON(w, r, dst); err != nil {
		return err
	}
	return h.validator.Struct(dst)
}

// clientErrors are reported to the caller with their own message.
var clientErrors = []error{
	repository.ErrInvalidID,
	service.ErrEmailRequired,
	service.ErrEmptyUpdate,
	payment.ErrInvalidAmount,
}

// statusFor maps service and store errors onto an HTTP status and the
// message safe to show the caller.
func statusFor(err error) (int, string) {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest, target.Error()
		}
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, repository.ErrNotFound.Error()
	case errors.Is(err, payment.ErrGateway):
		return http.StatusBadGateway, payment.ErrGateway.Error()
	}
	return http.StatusInternalServerError, ""
}

// writeServiceError logs the failure and writes the mapped status. Server
// errors carry msg instead of the internal error text.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status, clientMsg := statusFor(err)
	if status < http.StatusInternalServerError {
		writeError(w, status, clientMsg)
		return
	}
	h.log.Error(msg,
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		sl.Err(err),
	)
	if status == http.StatusBadGateway {
		writeError(w, status, clientMsg)
		return
	}
	writeError(w, status, msg)
}

// emailParam returns the decoded {email} path parameter. chi leaves the
// segment escaped when the request path carries escapes.
func emailParam(r *http.Request) (string, error) {
	return url.PathUnescape(chi.URLParam(r, "email"))
}

// emptyIfNil keeps list responses encoding as [] rather than null.
func emptyIfNil(docs []model.Document) []model.Document {
	if docs == nil {
		return []model.Document{}
	}
	return docs
}

// ─── Ambient routes ───────────────────────────────────────────────────────────

// Root handles GET /
func Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Care Connects Server is running."))
}

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
