package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/care-connect/internal/model"
)

// UserRepository handles persistence for users, keyed by email.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert creates the user on first write and merges fields into the stored
// document thereafter. The key email is always written into the document.
func (r *UserRepository) Upsert(ctx context.Context, email string, fields model.Document) (model.UpdateResult, error) {
	const op = "repository.UserRepository.Upsert"

	doc := fields.Without(model.IDKey)
	doc["email"] = email
	payload, err := encodeDocument(doc)
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}

	var inserted, changed bool
	err = r.db.QueryRow(ctx,
		`WITH prev AS (SELECT doc FROM users WHERE email = $1)
		 INSERT INTO users (email, doc) VALUES ($1, $2::jsonb)
		 ON CONFLICT (email) DO UPDATE SET doc = users.doc || EXCLUDED.doc
		 RETURNING (xmax = 0), users.doc IS DISTINCT FROM (SELECT doc FROM prev)`,
		email, payload,
	).Scan(&inserted, &changed)
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return upsertResult(email, inserted, changed), nil
}
