package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Shivanand-hulikatti/care-connect/internal/model"
)

// UserRepository stores users keyed by their email field.
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository constructs a UserRepository on the users collection.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

// Upsert sets fields on the user matching email, inserting it if absent.
func (r *UserRepository) Upsert(ctx context.Context, email string, fields model.Document) (model.UpdateResult, error) {
	const op = "repository.mongodb.UserRepository.Upsert"

	doc := fields.Without(model.IDKey)
	doc["email"] = email

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": doc},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return toUpdateResult(res), nil
}
