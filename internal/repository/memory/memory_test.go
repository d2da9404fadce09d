package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/care-connect/internal/model"
	"github.com/Shivanand-hulikatti/care-connect/internal/repository"
)

func TestUsers_UpsertMerges(t *testing.T) {
	users := New().Users()
	ctx := context.Background()

	first, err := users.Upsert(ctx, "a@example.com", model.Document{"role": "guest", "name": "A"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, first.UpsertedCount)

	second, err := users.Upsert(ctx, "a@example.com", model.Document{"role": "host"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, second.MatchedCount)
	assert.EqualValues(t, 1, second.ModifiedCount)

	third, err := users.Upsert(ctx, "a@example.com", model.Document{"role": "host"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, third.ModifiedCount)

	assert.Equal(t, 1, users.Count())
	doc, ok := users.Get("a@example.com")
	require.True(t, ok)
	assert.Equal(t, "host", doc["role"])
	assert.Equal(t, "A", doc["name"])
}

func TestPlaces_Lifecycle(t *testing.T) {
	places := New().Places()
	ctx := context.Background()

	res, err := places.Create(ctx, model.Document{"title": "GP", "host": map[string]any{"email": "h@example.com"}})
	require.NoError(t, err)

	list, err := places.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	byHost, err := places.ListByHost(ctx, "h@example.com")
	require.NoError(t, err)
	assert.Len(t, byHost, 1)

	upd, err := places.SetBooked(ctx, res.InsertedID, true)
	require.NoError(t, err)
	assert.EqualValues(t, 1, upd.ModifiedCount)

	missing, err := places.SetBooked(ctx, uuid.NewString(), true)
	require.NoError(t, err)
	assert.EqualValues(t, 0, missing.MatchedCount)
	assert.EqualValues(t, 0, missing.UpsertedCount)

	del, err := places.Delete(ctx, res.InsertedID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, del.DeletedCount)

	_, err = places.Get(ctx, res.InsertedID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = places.Get(ctx, "bad")
	assert.ErrorIs(t, err, repository.ErrInvalidID)
}

func TestBookings_HostFilterAcceptsStringOrObject(t *testing.T) {
	bookings := New().Bookings()
	ctx := context.Background()

	_, err := bookings.Create(ctx, model.Document{"host": "h@example.com"})
	require.NoError(t, err)
	_, err = bookings.Create(ctx, model.Document{"host": map[string]any{"email": "h@example.com"}})
	require.NoError(t, err)
	_, err = bookings.Create(ctx, model.Document{"host": "other@example.com"})
	require.NoError(t, err)

	got, err := bookings.ListByHost(ctx, "h@example.com")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
