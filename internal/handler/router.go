package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/Shivanand-hulikatti/care-connect/internal/auth"
	"github.com/Shivanand-hulikatti/care-connect/internal/metrics"
)

// Deps is everything the router needs. Metrics may be nil.
type Deps struct {
	Log     *slog.Logger
	Tokens  *auth.Manager
	Metrics *metrics.Metrics

	Users    UserService
	Places   PlaceService
	Bookings BookingService
	Payments PaymentService

	// StrictMutations puts the token check on the otherwise open
	// place delete, place status, booking create and booking delete routes.
	StrictMutations bool
}

// NewRouter builds the chi router with the global middleware stack and
// every API route.
func NewRouter(d Deps) http.Handler {
	h := &Handler{
		log:       d.Log,
		validator: validator.New(),
		tokens:    d.Tokens,
		users:     d.Users,
		places:    d.Places,
		bookings:  d.Bookings,
		payments:  d.Payments,
	}

	requireToken := RequireToken(d.Tokens)
	mutation := func(fn http.HandlerFunc) http.Handler {
		if d.StrictMutations {
			return requireToken(fn)
		}
		return fn
	}

	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger(d.Log))           // structured access log
	r.Use(CORS())
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	r.Get("/", Root)
	r.Get("/health", HealthCheck)

	r.With(requireToken).Post("/create-payment-intent", h.CreatePaymentIntent)
	r.Post("/jwt", h.IssueToken)

	r.Put("/users/{email}", h.UpsertUser)

	r.Get("/place/{id}", h.GetPlace)
	r.Route("/places", func(r chi.Router) {
		r.Get("/", h.ListPlaces)
		r.Post("/", h.CreatePlace)
		r.With(requireToken, RequireSameEmail).Get("/{email}", h.ListHostPlaces)
		r.With(requireToken).Put("/{id}", h.UpdatePlace)
		r.Method(http.MethodDelete, "/{id}", mutation(h.DeletePlace))
		r.Method(http.MethodPatch, "/status/{id}", mutation(h.SetPlaceStatus))
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Get("/", h.ListGuestBookings)
		r.Get("/host", h.ListHostBookings)
		r.Method(http.MethodPost, "/", mutation(h.CreateBooking))
		r.Method(http.MethodDelete, "/{id}", mutation(h.DeleteBooking))
	})

	return r
}
