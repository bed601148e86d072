package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"userd/internal/events"
	"userd/internal/user"
	"userd/internal/user/models"
	"userd/internal/user/store"
)

func TestCreateUser(t *testing.T) {
	router, _ := newUserRouter(t, events.Silent{})

	rec := postJSON(router, `{"name":"Jane Doe","email":"jane@example.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating user, got %d", rec.Code)
	}

	var resp models.IdentifiedUser
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID == uuid.Nil {
		t.Fatalf("expected id in response")
	}
	if resp.Name != "Jane Doe" || resp.Email != "jane@example.com" {
		t.Fatalf("unexpected user in response: %+v", resp)
	}
}

func TestCreateUserReportsAllValidationFailures(t *testing.T) {
	router, _ := newUserRouter(t, events.Silent{})

	rec := postJSON(router, `{"name":"","email":"bad"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid input, got %d", rec.Code)
	}

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !strings.Contains(resp.Error, "Name") || !strings.Contains(resp.Error, "email format") {
		t.Fatalf("expected both name and email problems reported, got %q", resp.Error)
	}
}

func TestCreateUserRejectsMalformedBody(t *testing.T) {
	router, _ := newUserRouter(t, events.Silent{})

	rec := postJSON(router, `{"name":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestCreateUserEmitsUserCreatedAfterPersisting(t *testing.T) {
	captured := &capturingEvents{}
	router, users := newUserRouter(t, captured)

	rec := postJSON(router, `{"name":"Jane Doe","email":"jane@example.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	if len(captured.events) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(captured.events))
	}
	created, ok := captured.events[0].(user.Created)
	if !ok {
		t.Fatalf("expected user.Created, got %T", captured.events[0])
	}
	if created.Name() != "UserCreated" {
		t.Fatalf("unexpected event name %q", created.Name())
	}

	// The event carries the persisted user.
	if _, err := users.Get(context.Background(), created.User.ID); err != nil {
		t.Fatalf("event fired for unpersisted user: %v", err)
	}
}

func TestCreateUserEmitsNothingOnValidationFailure(t *testing.T) {
	captured := &capturingEvents{}
	router, _ := newUserRouter(t, captured)

	postJSON(router, `{"name":"","email":"bad"}`)

	if len(captured.events) != 0 {
		t.Fatalf("expected no events for rejected input, got %d", len(captured.events))
	}
}

func TestGetUser(t *testing.T) {
	router, users := newUserRouter(t, events.Silent{})
	saved, err := users.Put(context.Background(), models.User{Name: "Jane Doe", Email: "jane@example.com"})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	rec := get(router, "/v1/users/"+saved.ID.String())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching user, got %d", rec.Code)
	}

	var resp models.IdentifiedUser
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp != saved {
		t.Fatalf("expected %+v, got %+v", saved, resp)
	}
}

func TestGetUserMissingReturns404(t *testing.T) {
	router, _ := newUserRouter(t, events.Silent{})

	rec := get(router, "/v1/users/550e8400-e29b-41d4-a716-446655440000")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing user, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"error":"User not found"}` {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestGetUserMalformedIDReturns400(t *testing.T) {
	router, _ := newUserRouter(t, events.Silent{})

	rec := get(router, "/v1/users/not-a-uuid")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", rec.Code)
	}
	if rec.Body.String() != "Invalid user ID format" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestGetUserSchemaErrorReturns500(t *testing.T) {
	router, _ := newUserRouterWithStore(t, failingStore{err: &store.SchemaError{UserID: uuid.New()}}, events.Silent{})

	rec := get(router, "/v1/users/"+uuid.NewString())
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for schema error, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"error":"Internal Server Error"}` {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestGetUserStorageErrorReturns500(t *testing.T) {
	router, _ := newUserRouterWithStore(t, failingStore{err: &store.StorageError{Op: "query user"}}, events.Silent{})

	rec := get(router, "/v1/users/"+uuid.NewString())
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for storage error, got %d", rec.Code)
	}
}

func newUserRouter(t *testing.T, ev events.Events) (http.Handler, *store.Memory) {
	t.Helper()
	users := store.NewMemory()
	router, _ := newUserRouterWithStore(t, users, ev)
	return router, users
}

func newUserRouterWithStore(t *testing.T, users store.Store, ev events.Events) (http.Handler, store.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	h := New(users, ev, logger, nil)
	r := chi.NewRouter()
	h.Register(r)
	return r, users
}

func postJSON(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type capturingEvents struct {
	events []events.Event
}

func (c *capturingEvents) Emit(_ context.Context, e events.Event) {
	c.events = append(c.events, e)
}

func (c *capturingEvents) AndThen(other events.Events) events.Events {
	return other
}

type failingStore struct {
	err error
}

func (f failingStore) Put(context.Context, models.User) (models.IdentifiedUser, error) {
	return models.IdentifiedUser{}, f.err
}

func (f failingStore) Get(context.Context, uuid.UUID) (models.IdentifiedUser, error) {
	return models.IdentifiedUser{}, f.err
}
