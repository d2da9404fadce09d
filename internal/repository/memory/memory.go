// Package memory is an in-process document store for local runs without a
// database. It keeps the same keys, filters and acknowledgements as the
// PostgreSQL repositories. Contents are lost on restart.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/care-connect/internal/model"
	"github.com/Shivanand-hulikatti/care-connect/internal/repository"
)

// collection keeps documents in insertion order.
type collection struct {
	mu    sync.RWMutex
	order []string
	docs  map[string]model.Document
}

func newCollection() *collection {
	return &collection{docs: make(map[string]model.Document)}
}

func (c *collection) insert(id string, doc model.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = append(c.order, id)
	c.docs[id] = doc.Without(model.IDKey)
}

func (c *collection) get(id string) (model.Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[id]
	if !ok {
		return nil, false
	}
	out := doc.Clone()
	out[model.IDKey] = id
	return out, true
}

func (c *collection) filter(match func(model.Document) bool) []model.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := []model.Document{}
	for _, id := range c.order {
		doc := c.docs[id]
		if match != nil && !match(doc) {
			continue
		}
		d := doc.Clone()
		d[model.IDKey] = id
		out = append(out, d)
	}
	return out
}

// merge applies $set semantics, inserting under id when absent.
func (c *collection) merge(id string, fields model.Document, upsert bool) model.UpdateResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := model.UpdateResult{Acknowledged: true}
	doc, ok := c.docs[id]
	if !ok {
		if !upsert {
			return res
		}
		c.order = append(c.order, id)
		c.docs[id] = fields.Without(model.IDKey)
		res.UpsertedCount = 1
		res.UpsertedID = &id
		return res
	}

	res.MatchedCount = 1
	next := doc.Clone()
	for k, v := range fields {
		if k == model.IDKey {
			continue
		}
		next[k] = v
	}
	if !reflect.DeepEqual(doc, next) {
		res.ModifiedCount = 1
	}
	c.docs[id] = next
	return res
}

func (c *collection) remove(id string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return 0
	}
	delete(c.docs, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return 1
}

func (c *collection) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

func parseID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", repository.ErrInvalidID, id)
	}
	return u.String(), nil
}

// Store holds the three collections.
type Store struct {
	users    *collection
	places   *collection
	bookings *collection
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:    newCollection(),
		places:   newCollection(),
		bookings: newCollection(),
	}
}

// Users returns the user repository.
func (s *Store) Users() *UserRepository       { return &UserRepository{c: s.users} }
// Places returns the place repository.
func (s *Store) Places() *PlaceRepository     { return &PlaceRepository{c: s.places} }
// Bookings returns the booking repository.
func (s *Store) Bookings() *BookingRepository { return &BookingRepository{c: s.bookings} }

// UserRepository keys users by email.
type UserRepository struct{ c *collection }

// Upsert merges fields into the user keyed by email.
func (r *UserRepository) Upsert(_ context.Context, email string, fields model.Document) (model.UpdateResult, error) {
	doc := fields.Without(model.IDKey)
	doc["email"] = email
	return r.c.merge(email, doc, true), nil
}

// Get returns the stored user. Not part of the service contract.
func (r *UserRepository) Get(email string) (model.Document, bool) { return r.c.get(email) }

// Count returns how many users are stored.
func (r *UserRepository) Count() int { return r.c.len() }

// PlaceRepository keys places by UUID.
type PlaceRepository struct{ c *collection }

// List returns all places in insertion order.
func (r *PlaceRepository) List(context.Context) ([]model.Document, error) {
	return r.c.filter(nil), nil
}

// ListByHost returns the places whose host.email equals email.
func (r *PlaceRepository) ListByHost(_ context.Context, email string) ([]model.Document, error) {
	return r.c.filter(func(d model.Document) bool {
		host, ok := d["host"].(map[string]any)
		return ok && host["email"] == email
	}), nil
}

// Get returns a single place or repository.ErrNotFound.
func (r *PlaceRepository) Get(_ context.Context, id string) (model.Document, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}
	doc, ok := r.c.get(key)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return doc, nil
}

// Create stores a place under a generated UUID.
func (r *PlaceRepository) Create(_ context.Context, fields model.Document) (model.InsertResult, error) {
	id := uuid.New().String()
	r.c.insert(id, fields)
	return model.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

// Upsert merges fields into the place keyed by id, creating it if absent.
func (r *PlaceRepository) Upsert(_ context.Context, id string, fields model.Document) (model.UpdateResult, error) {
	key, err := parseID(id)
	if err != nil {
		return model.UpdateResult{}, err
	}
	return r.c.merge(key, fields, true), nil
}

// SetBooked sets only the booked flag. A missing place matches nothing.
func (r *PlaceRepository) SetBooked(_ context.Context, id string, status bool) (model.UpdateResult, error) {
	key, err := parseID(id)
	if err != nil {
		return model.UpdateResult{}, err
	}
	return r.c.merge(key, model.Document{model.BookedKey: status}, false), nil
}

// Delete removes the place by id.
func (r *PlaceRepository) Delete(_ context.Context, id string) (model.DeleteResult, error) {
	key, err := parseID(id)
	if err != nil {
		return model.DeleteResult{}, err
	}
	return model.DeleteResult{Acknowledged: true, DeletedCount: r.c.remove(key)}, nil
}

// BookingRepository keys bookings by UUID.
type BookingRepository struct{ c *collection }

// Create stores the booking as posted under a generated UUID.
func (r *BookingRepository) Create(_ context.Context, fields model.Document) (model.InsertResult, error) {
	id := uuid.New().String()
	r.c.insert(id, fields)
	return model.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

// ListByGuest returns the bookings whose guest.email equals email.
func (r *BookingRepository) ListByGuest(_ context.Context, email string) ([]model.Document, error) {
	return r.c.filter(func(d model.Document) bool {
		guest, ok := d["guest"].(map[string]any)
		return ok && guest["email"] == email
	}), nil
}

// ListByHost returns the bookings whose host is email.
func (r *BookingRepository) ListByHost(_ context.Context, email string) ([]model.Document, error) {
	return r.c.filter(func(d model.Document) bool {
		return model.HostEmail(d) == email
	}), nil
}

// Delete removes the booking by id.
func (r *BookingRepository) Delete(_ context.Context, id string) (model.DeleteResult, error) {
	key, err := parseID(id)
	if err != nil {
		return model.DeleteResult{}, err
	}
	return model.DeleteResult{Acknowledged: true, DeletedCount: r.c.remove(key)}, nil
}

// Count returns how many bookings are stored.
func (r *BookingRepository) Count() int { return r.c.len() }
