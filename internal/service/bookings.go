package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Shivanand-hulikatti/care-connect/internal/lib/logger/sl"
	"github.com/Shivanand-hulikatti/care-connect/internal/model"
	"github.com/Shivanand-hulikatti/care-connect/internal/notify"
	"github.com/Shivanand-hulikatti/care-connect/internal/repository"
)

// BookingService stores bookings and notifies both parties.
type BookingService struct {
	log         *slog.Logger
	bookings    BookingStore
	notifier    Notifier
	meetingLink string
}

// NewBookingService constructs a BookingService. meetingLink goes into the host notice.
func NewBookingService(log *slog.Logger, bookings BookingStore, notifier Notifier, meetingLink string) *BookingService {
	return &BookingService{
		log:         log,
		bookings:    bookings,
		notifier:    notifier,
		meetingLink: meetingLink,
	}
}

// ListByGuest returns the guest's bookings; a blank email yields none.
func (s *BookingService) ListByGuest(ctx context.Context, email string) ([]model.Document, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return []model.Document{}, nil
	}
	return s.bookings.ListByGuest(ctx, email)
}

// ListByHost returns the host's bookings; a blank email yields none.
func (s *BookingService) ListByHost(ctx context.Context, email string) ([]model.Document, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return []model.Document{}, nil
	}
	return s.bookings.ListByHost(ctx, email)
}

// Create stores the booking verbatim and then dispatches one confirmation
// to the guest and one to the host. Payment completion is not checked and
// notice delivery never affects the result.
func (s *BookingService) Create(ctx context.Context, fields model.Document) (model.InsertResult, error) {
	const op = "service.BookingService.Create"
	log := s.log.With(slog.String("op", op))

	res, err := s.bookings.Create(ctx, fields)
	if err != nil {
		log.Error("failed to create booking", sl.Err(err))
		return model.InsertResult{}, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("booking created", slog.String("id", res.InsertedID))

	notices, err := notify.BookingNotices(notify.BookingDetails{
		BookingID:     res.InsertedID,
		TransactionID: model.TransactionID(fields),
		GuestEmail:    model.GuestEmail(fields),
		HostEmail:     model.HostEmail(fields),
		MeetingLink:   s.meetingLink,
	})
	if err != nil {
		log.Error("failed to render booking notices", sl.Err(err))
		return res, nil
	}
	for _, n := range notices {
		s.notifier.Dispatch(n)
	}

	return res, nil
}

// Delete removes the booking or reports repository.ErrNotFound when no
// booking has that id.
func (s *BookingService) Delete(ctx context.Context, id string) (model.DeleteResult, error) {
	const op = "service.BookingService.Delete"

	res, err := s.bookings.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return model.DeleteResult{}, repository.ErrNotFound
		}
		s.log.Error("failed to delete booking", slog.String("op", op), sl.Err(err))
		return model.DeleteResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if res.DeletedCount == 0 {
		return res, repository.ErrNotFound
	}
	return res, nil
}
