// Package model defines the core domain types for the appointment marketplace.
package model

import (
	"encoding/json"
	"strings"
)

// Document is a schema-less user, place or booking record.
// Stored documents expose their key under IDKey.
type Document map[string]any

// IDKey is the field under which stored documents expose their generated id.
const IDKey = "_id"

// BookedKey is the place field mutated only by the status route.
const BookedKey = "booked"

// Clone returns a shallow copy of the document, never nil.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Without returns a copy of the document with the given keys removed.
func (d Document) Without(keys ...string) Document {
	out := d.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// String returns the top-level field as a string, or "" when absent or not a string.
func (d Document) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// EmailOf resolves a party reference that is either an email string
// or an object carrying an "email" field.
func (d Document) EmailOf(key string) string {
	switch v := d[key].(type) {
	case string:
		return v
	case map[string]any:
		s, _ := v["email"].(string)
		return s
	case Document:
		return v.String("email")
	}
	return ""
}

// Place documents carry their owner under "host".
type Place = Document

// Booking documents carry "guest", "host" and "transactionId".
type Booking = Document

// GuestEmail returns the guest's address on a booking.
func GuestEmail(b Booking) string { return b.EmailOf("guest") }

// HostEmail returns the host's address on a booking or place.
func HostEmail(d Document) string { return d.EmailOf("host") }

// TransactionID returns the payment transaction id recorded on a booking.
func TransactionID(b Booking) string { return b.String("transactionId") }

// InsertResult acknowledges a created document.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// UpdateResult acknowledges an update or upsert.
type UpdateResult struct {
	Acknowledged  bool    `json:"acknowledged"`
	MatchedCount  int64   `json:"matchedCount"`
	ModifiedCount int64   `json:"modifiedCount"`
	UpsertedCount int64   `json:"upsertedCount"`
	UpsertedID    *string `json:"upsertedId"`
}

// DeleteResult acknowledges a removal.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// TokenRequest is the identity payload exchanged for a bearer token.
// Fields other than Email are carried into the token claims verbatim.
type TokenRequest struct {
	Email  string         `json:"email" validate:"required,email"`
	Claims map[string]any `json:"-"`
}

// UnmarshalJSON keeps every field of the payload as a claim.
func (t *TokenRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.Claims = raw
	if email, ok := raw["email"].(string); ok {
		t.Email = strings.TrimSpace(email)
	}
	return nil
}

// TokenResponse carries a freshly issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// PaymentIntentRequest is the payload for staging a payment.
// Price accepts both a JSON number and a numeric string.
type PaymentIntentRequest struct {
	Price json.Number `json:"price" validate:"required"`
}

// PaymentIntentResponse carries the gateway's client secret.
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// PlaceStatusRequest is the payload for changing a place's booked flag.
type PlaceStatusRequest struct {
	Status *bool `json:"status" validate:"required"`
}

// MessageResponse is the plain acknowledgement used by booking deletion.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}
