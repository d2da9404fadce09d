// Package service implements the thin orchestration between HTTP handlers
// and the document stores: input normalization, payment amount conversion
// and booking notification fan-out.
package service

import (
	"context"
	"errors"

	"github.com/Shivanand-hulikatti/care-connect/internal/model"
	"github.com/Shivanand-hulikatti/care-connect/internal/notify"
)

// Input errors reported to callers as bad requests.
var (
	ErrEmailRequired = errors.New("email is required")
	ErrEmptyUpdate   = errors.New("update has no fields")
)

// UserStore is implemented by the user repositories.
type UserStore interface {
	Upsert(ctx context.Context, email string, fields model.Document) (model.UpdateResult, error)
}

// PlaceStore is implemented by the place repositories.
type PlaceStore interface {
	List(ctx context.Context) ([]model.Document, error)
	ListByHost(ctx context.Context, email string) ([]model.Document, error)
	Get(ctx context.Context, id string) (model.Document, error)
	Create(ctx context.Context, fields model.Document) (model.InsertResult, error)
	Upsert(ctx context.Context, id string, fields model.Document) (model.UpdateResult, error)
	SetBooked(ctx context.Context, id string, status bool) (model.UpdateResult, error)
	Delete(ctx context.Context, id string) (model.DeleteResult, error)
}

// BookingStore is implemented by the booking repositories.
type BookingStore interface {
	Create(ctx context.Context, fields model.Document) (model.InsertResult, error)
	ListByGuest(ctx context.Context, email string) ([]model.Document, error)
	ListByHost(ctx context.Context, email string) ([]model.Document, error)
	Delete(ctx context.Context, id string) (model.DeleteResult, error)
}

// Notifier starts delivery of a notice without waiting for it.
type Notifier interface {
	Dispatch(n notify.Notice)
}
