package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/care-connect/internal/model"
)

// BookingRepository handles persistence for bookings. Bookings are never
// updated; they are created and deleted.
type BookingRepository struct {
	db *pgxpool.Pool
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts the booking document verbatim under a generated UUID.
func (r *BookingRepository) Create(ctx context.Context, fields model.Document) (model.InsertResult, error) {
	const op = "repository.BookingRepository.Create"

	payload, err := encodeDocument(fields.Without(model.IDKey))
	if err != nil {
		return model.InsertResult{}, fmt.Errorf("%s: %w", op, err)
	}

	id := uuid.New().String()
	if _, err := r.db.Exec(ctx,
		`INSERT INTO bookings (id, doc) VALUES ($1, $2::jsonb)`,
		id, payload,
	); err != nil {
		return model.InsertResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return model.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

// ListByGuest returns bookings whose guest.email equals email.
func (r *BookingRepository) ListByGuest(ctx context.Context, email string) ([]model.Document, error) {
	const op = "repository.BookingRepository.ListByGuest"

	rows, err := r.db.Query(ctx,
		`SELECT id, doc FROM bookings WHERE doc->'guest'->>'email' = $1 ORDER BY created_at ASC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	docs, err := collectDocuments(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return docs, nil
}

// ListByHost returns bookings whose host is email, stored either as a
// plain string or as an object with an email field.
func (r *BookingRepository) ListByHost(ctx context.Context, email string) ([]model.Document, error) {
	const op = "repository.BookingRepository.ListByHost"

	rows, err := r.db.Query(ctx,
		`SELECT id, doc FROM bookings
		 WHERE doc->>'host' = $1 OR doc->'host'->>'email' = $1
		 ORDER BY created_at ASC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	docs, err := collectDocuments(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return docs, nil
}

// Delete removes the booking by id and reports how many documents went away.
func (r *BookingRepository) Delete(ctx context.Context, id string) (model.DeleteResult, error) {
	const op = "repository.BookingRepository.Delete"

	key, err := parseID(id)
	if err != nil {
		return model.DeleteResult{}, fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, key)
	if err != nil {
		return model.DeleteResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return model.DeleteResult{Acknowledged: true, DeletedCount: tag.RowsAffected()}, nil
}
