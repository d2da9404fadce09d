// Package mongodb implements the document store on MongoDB. It mirrors the
// PostgreSQL repositories operation for operation and reports the same
// sentinel errors.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Shivanand-hulikatti/care-connect/internal/model"
	"github.com/Shivanand-hulikatti/care-connect/internal/repository"
)

const (
	usersCollection    = "users"
	placesCollection   = "places"
	bookingsCollection = "bookings"
)

func parseID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, fmt.Errorf("%w: %q", repository.ErrInvalidID, id)
	}
	return oid, nil
}

func idString(v any) string {
	switch id := v.(type) {
	case bson.ObjectID:
		return id.Hex()
	case string:
		return id
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}

// normalize turns driver types into plain JSON-friendly values.
func normalize(v any) any {
	switch t := v.(type) {
	case bson.ObjectID:
		return t.Hex()
	case bson.M:
		return normalizeMap(map[string]any(t))
	case map[string]any:
		return normalizeMap(t)
	case model.Document:
		return model.Document(normalizeMap(map[string]any(t)))
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = normalize(e.Value)
		}
		return m
	case bson.A:
		return normalizeSlice([]any(t))
	case []any:
		return normalizeSlice(t)
	}
	return v
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}

func normalizeSlice(s []any) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = normalize(v)
	}
	return out
}

func normalizeDocument(doc model.Document) model.Document {
	if doc == nil {
		return model.Document{}
	}
	return model.Document(normalizeMap(doc))
}

func findAll(ctx context.Context, coll *mongo.Collection, filter any) ([]model.Document, error) {
	cursor, err := coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []model.Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]model.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, normalizeDocument(d))
	}
	return out, nil
}

func toUpdateResult(res *mongo.UpdateResult) model.UpdateResult {
	out := model.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
	if res.UpsertedID != nil {
		id := idString(res.UpsertedID)
		out.UpsertedID = &id
	}
	return out
}
