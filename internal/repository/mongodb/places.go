package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Shivanand-hulikatti/care-connect/internal/model"
	"github.com/Shivanand-hulikatti/care-connect/internal/repository"
)

// PlaceRepository handles persistence for places.
type PlaceRepository struct {
	coll *mongo.Collection
}

// NewPlaceRepository constructs a PlaceRepository on the places collection.
func NewPlaceRepository(db *mongo.Database) *PlaceRepository {
	return &PlaceRepository{coll: db.Collection(placesCollection)}
}

// List returns all places in insertion order.
func (r *PlaceRepository) List(ctx context.Context) ([]model.Document, error) {
	const op = "repository.mongodb.PlaceRepository.List"

	docs, err := findAll(ctx, r.coll, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return docs, nil
}

// ListByHost returns the places whose host.email equals email.
func (r *PlaceRepository) ListByHost(ctx context.Context, email string) ([]model.Document, error) {
	const op = "repository.mongodb.PlaceRepository.ListByHost"

	docs, err := findAll(ctx, r.coll, bson.M{"host.email": email})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return docs, nil
}

// Get returns a single place or repository.ErrNotFound.
func (r *PlaceRepository) Get(ctx context.Context, id string) (model.Document, error) {
	const op = "repository.mongodb.PlaceRepository.Get"

	oid, err := parseID(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var doc model.Document
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return normalizeDocument(doc), nil
}

// Create inserts a place under a new ObjectID.
func (r *PlaceRepository) Create(ctx context.Context, fields model.Document) (model.InsertResult, error) {
	const op = "repository.mongodb.PlaceRepository.Create"

	res, err := r.coll.InsertOne(ctx, fields.Without(model.IDKey))
	if err != nil {
		return model.InsertResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return model.InsertResult{Acknowledged: true, InsertedID: idString(res.InsertedID)}, nil
}

// Upsert $sets fields on the place keyed by id, creating it if absent.
func (r *PlaceRepository) Upsert(ctx context.Context, id string, fields model.Document) (model.UpdateResult, error) {
	const op = "repository.mongodb.PlaceRepository.Upsert"

	oid, err := parseID(id)
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": fields.Without(model.IDKey)},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return toUpdateResult(res), nil
}

// SetBooked sets only the booked flag. A missing place matches nothing.
func (r *PlaceRepository) SetBooked(ctx context.Context, id string, status bool) (model.UpdateResult, error) {
	const op = "repository.mongodb.PlaceRepository.SetBooked"

	oid, err := parseID(id)
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{model.BookedKey: status}},
	)
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return toUpdateResult(res), nil
}

// Delete removes the place by id.
func (r *PlaceRepository) Delete(ctx context.Context, id string) (model.DeleteResult, error) {
	const op = "repository.mongodb.PlaceRepository.Delete"

	oid, err := parseID(id)
	if err != nil {
		return model.DeleteResult{}, fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return model.DeleteResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return model.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}
