package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/care-connect/internal/model"
)

// PlaceRepository handles persistence for places.
type PlaceRepository struct {
	db *pgxpool.Pool
}

// NewPlaceRepository constructs a PlaceRepository.
func NewPlaceRepository(db *pgxpool.Pool) *PlaceRepository {
	return &PlaceRepository{db: db}
}

// List returns all places ordered by creation time.
func (r *PlaceRepository) List(ctx context.Context) ([]model.Document, error) {
	const op = "repository.PlaceRepository.List"

	rows, err := r.db.Query(ctx, `SELECT id, doc FROM places ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	docs, err := collectDocuments(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return docs, nil
}

// ListByHost returns the places whose embedded host.email equals email.
func (r *PlaceRepository) ListByHost(ctx context.Context, email string) ([]model.Document, error) {
	const op = "repository.PlaceRepository.ListByHost"

	rows, err := r.db.Query(ctx,
		`SELECT id, doc FROM places WHERE doc->'host'->>'email' = $1 ORDER BY created_at ASC`,
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

// Get returns a single place or ErrNotFound.
func (r *PlaceRepository) Get(ctx context.Context, id string) (model.Document, error) {
	const op = "repository.PlaceRepository.Get"

	key, err := parseID(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, `SELECT id, doc FROM places WHERE id = $1`, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	doc, err := pgx.CollectExactlyOneRow(rows, scanDocument)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return doc, nil
}

// Create inserts a place under a generated UUID.
func (r *PlaceRepository) Create(ctx context.Context, fields model.Document) (model.InsertResult, error) {
	const op = "repository.PlaceRepository.Create"

	payload, err := encodeDocument(fields.Without(model.IDKey))
	if err != nil {
		return model.InsertResult{}, fmt.Errorf("%s: %w", op, err)
	}

	id := uuid.New().String()
	if _, err := r.db.Exec(ctx,
		`INSERT INTO places (id, doc) VALUES ($1, $2::jsonb)`,
		id, payload,
	); err != nil {
		return model.InsertResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return model.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

// Upsert merges fields into the place keyed by id, creating it if absent.
func (r *PlaceRepository) Upsert(ctx context.Context, id string, fields model.Document) (model.UpdateResult, error) {
	const op = "repository.PlaceRepository.Upsert"

	key, err := parseID(id)
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}
	payload, err := encodeDocument(fields.Without(model.IDKey))
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}

	var inserted, changed bool
	err = r.db.QueryRow(ctx,
		`WITH prev AS (SELECT doc FROM places WHERE id = $1)
		 INSERT INTO places (id, doc) VALUES ($1, $2::jsonb)
		 ON CONFLICT (id) DO UPDATE SET doc = places.doc || EXCLUDED.doc
		 RETURNING (xmax = 0), places.doc IS DISTINCT FROM (SELECT doc FROM prev)`,
		key, payload,
	).Scan(&inserted, &changed)
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return upsertResult(key, inserted, changed), nil
}

// SetBooked sets only the booked flag. A missing place matches nothing.
func (r *PlaceRepository) SetBooked(ctx context.Context, id string, status bool) (model.UpdateResult, error) {
	const op = "repository.PlaceRepository.SetBooked"

	key, err := parseID(id)
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}

	var changed bool
	err = r.db.QueryRow(ctx,
		`UPDATE places p
		 SET doc = jsonb_set(p.doc, '{booked}', to_jsonb($2::boolean), true)
		 FROM (SELECT id, doc->'booked' AS booked FROM places WHERE id = $1) prev
		 WHERE p.id = prev.id
		 RETURNING prev.booked IS DISTINCT FROM to_jsonb($2::boolean)`,
		key, status,
	).Scan(&changed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.UpdateResult{Acknowledged: true}, nil
		}
		return model.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}

	res := model.UpdateResult{Acknowledged: true, MatchedCount: 1}
	if changed {
		res.ModifiedCount = 1
	}
	return res, nil
}

// Delete removes the place by id and reports how many documents went away.
func (r *PlaceRepository) Delete(ctx context.Context, id string) (model.DeleteResult, error) {
	const op = "repository.PlaceRepository.Delete"

	key, err := parseID(id)
	if err != nil {
		return model.DeleteResult{}, fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM places WHERE id = $1`, key)
	if err != nil {
		return model.DeleteResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return model.DeleteResult{Acknowledged: true, DeletedCount: tag.RowsAffected()}, nil
}
