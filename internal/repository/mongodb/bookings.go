package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/Shivanand-hulikatti/care-connect/internal/model"
)

// BookingRepository handles persistence for bookings.
type BookingRepository struct {
	coll *mongo.Collection
}

// NewBookingRepository constructs a BookingRepository on the bookings collection.
func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{coll: db.Collection(bookingsCollection)}
}

// Create inserts the booking as posted under a new ObjectID.
func (r *BookingRepository) Create(ctx context.Context, fields model.Document) (model.InsertResult, error) {
	const op = "repository.mongodb.BookingRepository.Create"

	res, err := r.coll.InsertOne(ctx, fields.Without(model.IDKey))
	if err != nil {
		return model.InsertResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return model.InsertResult{Acknowledged: true, InsertedID: idString(res.InsertedID)}, nil
}

// ListByGuest returns the bookings whose guest.email equals email.
func (r *BookingRepository) ListByGuest(ctx context.Context, email string) ([]model.Document, error) {
	const op = "repository.mongodb.BookingRepository.ListByGuest"

	docs, err := findAll(ctx, r.coll, bson.M{"guest.email": email})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return docs, nil
}

// ListByHost matches host stored as a plain email or as {email: ...}.
func (r *BookingRepository) ListByHost(ctx context.Context, email string) ([]model.Document, error) {
	const op = "repository.mongodb.BookingRepository.ListByHost"

	filter := bson.M{"$or": bson.A{
		bson.M{"host": email},
		bson.M{"host.email": email},
	}}
	docs, err := findAll(ctx, r.coll, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return docs, nil
}

// Delete removes the booking by id.
func (r *BookingRepository) Delete(ctx context.Context, id string) (model.DeleteResult, error) {
	const op = "repository.mongodb.BookingRepository.Delete"

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
