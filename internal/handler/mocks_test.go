package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/planner/internal/domain"
	"github.com/pkordes/planner/internal/handler"
	"github.com/pkordes/planner/internal/service"
)

// Test doubles for the handler's service interfaces.
// Set only the method fields your test needs.

type mockTripServicer struct {
	create  func(ctx context.Context, in domain.NewTrip) (domain.Trip, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	update  func(ctx context.Context, in domain.TripUpdate) (domain.Trip, error)
	confirm func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
}

func (m *mockTripServicer) Create(ctx context.Context, in domain.NewTrip) (domain.Trip, error) {
	return m.create(ctx, in)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) Update(ctx context.Context, in domain.TripUpdate) (domain.Trip, error) {
	return m.update(ctx, in)
}
func (m *mockTripServicer) Confirm(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.confirm(ctx, id)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

type mockParticipantServicer struct {
	invite       func(ctx context.Context, tripID uuid.UUID, email string) (domain.Trip, error)
	confirm      func(ctx context.Context, id uuid.UUID) (domain.Participant, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Participant, error)
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error)
}

func (m *mockParticipantServicer) Invite(ctx context.Context, tripID uuid.UUID, email string) (domain.Trip, error) {
	return m.invite(ctx, tripID, email)
}
func (m *mockParticipantServicer) Confirm(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	return m.confirm(ctx, id)
}
func (m *mockParticipantServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	return m.getByID(ctx, id)
}
func (m *mockParticipantServicer) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error) {
	return m.listByTripID(ctx, tripID)
}

var _ handler.ParticipantServicer = (*mockParticipantServicer)(nil)

type mockActivityServicer struct {
	create    func(ctx context.Context, a domain.Activity) (domain.Activity, error)
	listByDay func(ctx context.Context, tripID uuid.UUID) ([]domain.ActivityDay, error)
}

func (m *mockActivityServicer) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	return m.create(ctx, a)
}
func (m *mockActivityServicer) ListByDay(ctx context.Context, tripID uuid.UUID) ([]domain.ActivityDay, error) {
	return m.listByDay(ctx, tripID)
}

var _ handler.ActivityServicer = (*mockActivityServicer)(nil)

type mockLinkServicer struct {
	create       func(ctx context.Context, l domain.Link) (domain.Link, error)
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.Link, error)
}

func (m *mockLinkServicer) Create(ctx context.Context, l domain.Link) (domain.Link, error) {
	return m.create(ctx, l)
}
func (m *mockLinkServicer) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Link, error) {
	return m.listByTripID(ctx, tripID)
}

var _ handler.LinkServicer = (*mockLinkServicer)(nil)

// ---- helpers ---------------------------------------------------------------

var testURLs = service.URLs{APIBaseURL: "http://api.test", WebBaseURL: "http://web.test"}

// services bundles the mocks; nil fields get an empty mock so unexpected
// calls panic instead of compiling away.
type services struct {
	trips        *mockTripServicer
	participants *mockParticipantServicer
	activities   *mockActivityServicer
	links        *mockLinkServicer
}

// newHTTPHandler wires a Server with the given mocks into the router,
// the same way main.go wires it in production.
func newHTTPHandler(svcs services) http.Handler {
	if svcs.trips == nil {
		svcs.trips = &mockTripServicer{}
	}
	if svcs.participants == nil {
		svcs.participants = &mockParticipantServicer{}
	}
	if svcs.activities == nil {
		svcs.activities = &mockActivityServicer{}
	}
	if svcs.links == nil {
		svcs.links = &mockLinkServicer{}
	}
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	srv := handler.NewServer(svcs.trips, svcs.participants, svcs.activities, svcs.links, testURLs, log)
	return srv.Routes()
}

// do runs one request through h. body may be nil, a string (sent verbatim)
// or any value to be JSON-encoded.
func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		buf, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewBuffer(buf)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// errorCode decodes an error response and returns its code.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) (code, message string) {
	t.Helper()
	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error.Code, resp.Error.Message
}

func tripFixture() domain.Trip {
	return domain.Trip{
		ID:          uuid.New(),
		Destination: "Florianópolis",
		StartsAt:    time.Date(2030, 1, 10, 0, 0, 0, 0, time.UTC),
		EndsAt:      time.Date(2030, 1, 12, 0, 0, 0, 0, time.UTC),
		CreatedAt:   time.Date(2029, 12, 1, 10, 0, 0, 0, time.UTC),
	}
}
