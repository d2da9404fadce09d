package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/care-connect/internal/auth"
	"github.com/Shivanand-hulikatti/care-connect/internal/lib/logger/sl"
	"github.com/Shivanand-hulikatti/care-connect/internal/metrics"
	"github.com/Shivanand-hulikatti/care-connect/internal/model"
	"github.com/Shivanand-hulikatti/care-connect/internal/notify"
	"github.com/Shivanand-hulikatti/care-connect/internal/payment"
	"github.com/Shivanand-hulikatti/care-connect/internal/repository"
	"github.com/Shivanand-hulikatti/care-connect/internal/repository/memory"
	"github.com/Shivanand-hulikatti/care-connect/internal/service"
)

const testSecret = "test-secret"

type recordingNotifier struct {
	mu      sync.Mutex
	notices []notify.Notice
}

func (n *recordingNotifier) Dispatch(notice notify.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.notices)
}

type fakeGateway struct {
	amount int64
	err    error
}

func (g *fakeGateway) CreateIntent(_ context.Context, amount int64, _ string) (string, error) {
	g.amount = amount
	if g.err != nil {
		return "", g.err
	}
	return "pi_123_secret_456", nil
}

type testServer struct {
	handler  http.Handler
	store    *memory.Store
	notifier *recordingNotifier
	gateway  *fakeGateway
	tokens   *auth.Manager
}

func newTestServer(t *testing.T, strict bool) *testServer {
	t.Helper()

	log := sl.Discard()
	store := memory.New()
	notifier := &recordingNotifier{}
	gateway := &fakeGateway{}
	tokens := auth.NewManager(testSecret)

	h := NewRouter(Deps{
		Log:             log,
		Tokens:          tokens,
		Metrics:         metrics.New(),
		Users:           service.NewUserService(log, store.Users()),
		Places:          service.NewPlaceService(log, store.Places()),
		Bookings:        service.NewBookingService(log, store.Bookings(), notifier, "https://meet.example.com"),
		Payments:        service.NewPaymentService(log, gateway),
		StrictMutations: strict,
	})

	return &testServer{handler: h, store: store, notifier: notifier, gateway: gateway, tokens: tokens}
}

func (s *testServer) token(t *testing.T, email string) string {
	t.Helper()
	tok, err := s.tokens.Issue(map[string]any{"email": email})
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestRoot(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Care Connects Server is running.", rec.Body.String())

	rec = s.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestIssueToken(t *testing.T) {
	s := newTestServer(t, false)
	email := gofakeit.Email()

	rec := s.do(t, http.MethodPost, "/jwt", map[string]any{"email": email, "role": "host"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[model.TokenResponse](t, rec)
	claims, err := s.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, email, claims["email"])
	assert.Equal(t, "host", claims["role"])

	rec = s.do(t, http.MethodPost, "/jwt", map[string]any{"role": "host"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTokenRequired(t *testing.T) {
	s := newTestServer(t, false)

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"scheme only", "Bearer"},
		{"garbled", "Bearer not.a.token"},
		{"wrong secret", "Bearer " + mustIssue(t, "other-secret", "a@b.co")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/create-payment-intent", strings.NewReader(`{"price":"10"}`))
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			s.handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":true,"message":"Unauthorized Access"}`, rec.Body.String())
		})
	}
	assert.Zero(t, s.gateway.amount)
}

func mustIssue(t *testing.T, secret, email string) string {
	t.Helper()
	tok, err := auth.NewManager(secret).Issue(map[string]any{"email": email})
	require.NoError(t, err)
	return tok
}

func TestCreatePaymentIntent(t *testing.T) {
	s := newTestServer(t, false)
	tok := s.token(t, gofakeit.Email())

	rec := s.do(t, http.MethodPost, "/create-payment-intent", `{"price":"25.50"}`, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"clientSecret":"pi_123_secret_456"}`, rec.Body.String())
	assert.EqualValues(t, 2550, s.gateway.amount)

	rec = s.do(t, http.MethodPost, "/create-payment-intent", `{"price":19.99}`, tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1999, s.gateway.amount)

	for _, body := range []string{`{}`, `{"price":"abc"}`, `{"price":-5}`, `not json`} {
		rec = s.do(t, http.MethodPost, "/create-payment-intent", body, tok)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestCreatePaymentIntent_GatewayFailure(t *testing.T) {
	s := newTestServer(t, false)
	s.gateway.err = fmt.Errorf("%w: card_declined", payment.ErrGateway)

	rec := s.do(t, http.MethodPost, "/create-payment-intent", `{"price":"10"}`, s.token(t, gofakeit.Email()))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestUpsertUser_Idempotent(t *testing.T) {
	s := newTestServer(t, false)
	email := gofakeit.Email()

	rec := s.do(t, http.MethodPut, "/users/"+email, map[string]any{"name": "Ada", "role": "guest"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	first := decode[model.UpdateResult](t, rec)
	assert.EqualValues(t, 1, first.UpsertedCount)

	rec = s.do(t, http.MethodPut, "/users/"+email, map[string]any{"role": "host"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	second := decode[model.UpdateResult](t, rec)
	assert.EqualValues(t, 1, second.MatchedCount)
	assert.EqualValues(t, 0, second.UpsertedCount)

	users := s.store.Users()
	assert.Equal(t, 1, users.Count())
	doc, ok := users.Get(email)
	require.True(t, ok)
	assert.Equal(t, "Ada", doc["name"])
	assert.Equal(t, "host", doc["role"])
}

func TestPlaceRoundTrip(t *testing.T) {
	s := newTestServer(t, false)
	place := map[string]any{
		"title": "Cardiology consult",
		"price": 120.5,
		"host":  map[string]any{"email": gofakeit.Email(), "name": "Dr. Lee"},
		"tags":  []any{"heart", "adult"},
	}

	rec := s.do(t, http.MethodPost, "/places", place, "")
	require.Equal(t, http.StatusOK, rec.Code)
	created := decode[model.InsertResult](t, rec)
	require.True(t, created.Acknowledged)
	require.NotEmpty(t, created.InsertedID)

	rec = s.do(t, http.MethodGet, "/place/"+created.InsertedID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]any](t, rec)

	assert.Equal(t, created.InsertedID, got["_id"])
	assert.Equal(t, false, got["booked"])
	for k, v := range place {
		assert.Equal(t, v, got[k], k)
	}
}

func TestGetPlace_MissingAndInvalid(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodGet, "/place/3b241101-e2bb-4255-8caf-4136c566a962", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))

	rec = s.do(t, http.MethodGet, "/place/nope", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListPlaces_Empty(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodGet, "/places", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestListHostPlaces(t *testing.T) {
	s := newTestServer(t, false)
	host, other := gofakeit.Email(), gofakeit.Email()

	s.do(t, http.MethodPost, "/places", map[string]any{"title": "a", "host": map[string]any{"email": host}}, "")
	s.do(t, http.MethodPost, "/places", map[string]any{"title": "b", "host": map[string]any{"email": other}}, "")

	rec := s.do(t, http.MethodGet, "/places/"+host, nil, s.token(t, host))
	require.Equal(t, http.StatusOK, rec.Code)
	places := decode[[]map[string]any](t, rec)
	require.Len(t, places, 1)
	assert.Equal(t, "a", places[0]["title"])

	rec = s.do(t, http.MethodGet, "/places/"+other, nil, s.token(t, host))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":true,"message":"Forbidden Access"}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/places/"+host, nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdatePlace(t *testing.T) {
	s := newTestServer(t, false)
	tok := s.token(t, gofakeit.Email())

	rec := s.do(t, http.MethodPost, "/places", map[string]any{"title": "old"}, "")
	id := decode[model.InsertResult](t, rec).InsertedID

	rec = s.do(t, http.MethodPut, "/places/"+id, map[string]any{"title": "old"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPut, "/places/"+id, map[string]any{"title": "new", "booked": true}, tok)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[model.UpdateResult](t, rec)
	assert.EqualValues(t, 1, res.MatchedCount)
	assert.EqualValues(t, 1, res.ModifiedCount)

	got := decode[map[string]any](t, s.do(t, http.MethodGet, "/place/"+id, nil, ""))
	assert.Equal(t, "new", got["title"])
	assert.Equal(t, false, got["booked"])

	rec = s.do(t, http.MethodPut, "/places/"+id, map[string]any{}, tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetPlaceStatusAndDelete(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodPost, "/places", map[string]any{"title": "x"}, "")
	id := decode[model.InsertResult](t, rec).InsertedID

	rec = s.do(t, http.MethodPatch, "/places/status/"+id, map[string]any{"status": true}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[model.UpdateResult](t, rec).ModifiedCount)

	got := decode[map[string]any](t, s.do(t, http.MethodGet, "/place/"+id, nil, ""))
	assert.Equal(t, true, got["booked"])

	rec = s.do(t, http.MethodPatch, "/places/status/"+id, map[string]any{}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodDelete, "/places/"+id, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[model.DeleteResult](t, rec).DeletedCount)

	rec = s.do(t, http.MethodDelete, "/places/"+id, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, decode[model.DeleteResult](t, rec).DeletedCount)
}

func TestCreateBooking(t *testing.T) {
	s := newTestServer(t, false)
	guest, host := gofakeit.Email(), gofakeit.Email()
	booking := map[string]any{
		"guest":         map[string]any{"email": guest},
		"host":          map[string]any{"email": host},
		"transactionId": "pi_3NvXk2",
		"price":         42.0,
	}

	rec := s.do(t, http.MethodPost, "/bookings", booking, "")
	require.Equal(t, http.StatusOK, rec.Code)
	id := decode[model.InsertResult](t, rec).InsertedID
	assert.Equal(t, 2, s.notifier.count())

	rec = s.do(t, http.MethodGet, "/bookings?email="+guest, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]map[string]any](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0]["_id"])
	assert.Equal(t, "pi_3NvXk2", list[0]["transactionId"])

	rec = s.do(t, http.MethodGet, "/bookings/host?email="+host, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/bookings", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestDeleteBooking(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodPost, "/bookings", map[string]any{"transactionId": "t1"}, "")
	id := decode[model.InsertResult](t, rec).InsertedID

	rec = s.do(t, http.MethodDelete, "/bookings/e7a1c2f0-0000-4000-8000-000000000000", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Booking not found."}`, rec.Body.String())
	assert.Equal(t, 1, s.store.Bookings().Count())

	rec = s.do(t, http.MethodDelete, "/bookings/garbage", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, "/bookings/"+id, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Booking deleted successfully."}`, rec.Body.String())
	assert.Equal(t, 0, s.store.Bookings().Count())
}

func TestStrictMutations(t *testing.T) {
	s := newTestServer(t, true)
	tok := s.token(t, gofakeit.Email())

	rec := s.do(t, http.MethodPost, "/bookings", map[string]any{"transactionId": "t"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, s.notifier.count())

	rec = s.do(t, http.MethodPost, "/bookings", map[string]any{"transactionId": "t"}, tok)
	require.Equal(t, http.StatusOK, rec.Code)
	id := decode[model.InsertResult](t, rec).InsertedID

	rec = s.do(t, http.MethodDelete, "/bookings/"+id, nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = s.do(t, http.MethodDelete, "/bookings/"+id, nil, tok)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/places", map[string]any{"title": "x"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	pid := decode[model.InsertResult](t, rec).InsertedID

	rec = s.do(t, http.MethodPatch, "/places/status/"+pid, map[string]any{"status": true}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = s.do(t, http.MethodDelete, "/places/"+pid, nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = s.do(t, http.MethodDelete, "/places/"+pid, nil, tok)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, false)
	s.do(t, http.MethodGet, "/places", nil, "")

	rec := s.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/places`)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{fmt.Errorf("op: %w", repository.ErrInvalidID), http.StatusBadRequest, "invalid id"},
		{service.ErrEmailRequired, http.StatusBadRequest, "email is required"},
		{fmt.Errorf("a: %w", fmt.Errorf("b: %w", service.ErrEmptyUpdate)), http.StatusBadRequest, "update has no fields"},
		{fmt.Errorf("%w: \"-1\"", payment.ErrInvalidAmount), http.StatusBadRequest, "price must be a positive amount"},
		{repository.ErrNotFound, http.StatusNotFound, "not found"},
		{fmt.Errorf("op: %w: declined", payment.ErrGateway), http.StatusBadGateway, "payment gateway error"},
		{fmt.Errorf("connection reset"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		status, msg := statusFor(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.msg, msg, tt.err.Error())
	}
}

func TestEscapedEmailPath(t *testing.T) {
	s := newTestServer(t, false)
	host := "dr+ann@example.com"

	s.do(t, http.MethodPost, "/places", map[string]any{"title": "a", "host": map[string]any{"email": host}}, "")

	rec := s.do(t, http.MethodGet, "/places/dr%2Bann%40example.com", nil, s.token(t, host))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = s.do(t, http.MethodPut, "/users/ann%40example.com", map[string]any{"name": "Ann"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	users := s.store.Users()
	doc, ok := users.Get("ann@example.com")
	require.True(t, ok)
	assert.Equal(t, "Ann", doc["name"])
	_, ok = users.Get("ann%40example.com")
	assert.False(t, ok)
}
