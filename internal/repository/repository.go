// Package repository implements the PostgreSQL document store. Every
// collection is a table of JSONB documents; each operation is a single
// statement with no cross-table transaction.
package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Shivanand-hulikatti/care-connect/internal/model"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidID is returned when an id cannot be a key in this store.
var ErrInvalidID = errors.New("invalid id")

func encodeDocument(doc model.Document) (string, error) {
	if doc == nil {
		doc = model.Document{}
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(b), nil
}

// scanDocument reads an (id, doc) row and exposes id under model.IDKey.
func scanDocument(row pgx.CollectableRow) (model.Document, error) {
	var (
		id  string
		doc model.Document
	)
	if err := row.Scan(&id, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = model.Document{}
	}
	doc[model.IDKey] = id
	return doc, nil
}

func parseID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return u.String(), nil
}

// upsertResult shapes the RETURNING (inserted, changed) pair of an upsert.
func upsertResult(id string, inserted, changed bool) model.UpdateResult {
	res := model.UpdateResult{Acknowledged: true}
	if inserted {
		res.UpsertedCount = 1
		res.UpsertedID = &id
		return res
	}
	res.MatchedCount = 1
	if changed {
		res.ModifiedCount = 1
	}
	return res
}

func collectDocuments(rows pgx.Rows) ([]model.Document, error) {
	docs, err := pgx.CollectRows(rows, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("scan document: %w", err)
	}
	if docs == nil {
		docs = []model.Document{}
	}
	return docs, nil
}
