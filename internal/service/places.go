package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Shivanand-hulikatti/care-connect/internal/lib/logger/sl"
	"github.com/Shivanand-hulikatti/care-connect/internal/model"
	"github.com/Shivanand-hulikatti/care-connect/internal/repository"
)

// PlaceService manages place listings.
type PlaceService struct {
	log    *slog.Logger
	places PlaceStore
}

// NewPlaceService constructs a PlaceService.
func NewPlaceService(log *slog.Logger, places PlaceStore) *PlaceService {
	return &PlaceService{log: log, places: places}
}

// List returns every place.
func (s *PlaceService) List(ctx context.Context) ([]model.Document, error) {
	return s.places.List(ctx)
}

// ListByHost returns the places owned by email. Callers must have checked
// that email is the verified identity.
func (s *PlaceService) ListByHost(ctx context.Context, email string) ([]model.Document, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	return s.places.ListByHost(ctx, email)
}

// Get returns the place or a nil document when no place has that id.
func (s *PlaceService) Get(ctx context.Context, id string) (model.Document, error) {
	const op = "service.PlaceService.Get"

	doc, err := s.places.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return doc, nil
}

// Create stores a new listing. booked defaults to false.
func (s *PlaceService) Create(ctx context.Context, fields model.Document) (model.InsertResult, error) {
	const op = "service.PlaceService.Create"

	doc := fields.Clone()
	if _, ok := doc[model.BookedKey]; !ok {
		doc[model.BookedKey] = false
	}

	res, err := s.places.Create(ctx, doc)
	if err != nil {
		s.log.Error("failed to create place", slog.String("op", op), sl.Err(err))
		return model.InsertResult{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("place created", slog.String("op", op), slog.String("id", res.InsertedID))
	return res, nil
}

// Update merges fields into the place, creating it under id if absent.
// The booked flag is owned by SetBooked and is ignored here.
func (s *PlaceService) Update(ctx context.Context, id string, fields model.Document) (model.UpdateResult, error) {
	const op = "service.PlaceService.Update"

	doc := fields.Without(model.IDKey, model.BookedKey)
	if len(doc) == 0 {
		return model.UpdateResult{}, ErrEmptyUpdate
	}

	res, err := s.places.Upsert(ctx, id, doc)
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// SetBooked changes the booked flag of a place.
func (s *PlaceService) SetBooked(ctx context.Context, id string, status bool) (model.UpdateResult, error) {
	const op = "service.PlaceService.SetBooked"

	res, err := s.places.SetBooked(ctx, id, status)
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("place status changed",
		slog.String("op", op),
		slog.String("id", id),
		slog.Bool("booked", status),
		slog.Int64("matched", res.MatchedCount),
	)
	return res, nil
}

// Delete removes a place.
func (s *PlaceService) Delete(ctx context.Context, id string) (model.DeleteResult, error) {
	const op = "service.PlaceService.Delete"

	res, err := s.places.Delete(ctx, id)
	if err != nil {
		return model.DeleteResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}
