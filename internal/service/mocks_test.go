package service_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/pkordes/planner/internal/domain"
	"github.com/pkordes/planner/internal/metrics"
	"github.com/pkordes/planner/internal/repo"
	"github.com/pkordes/planner/internal/service"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones your test needs. Calling an unset method panics, which is how tests
// assert a repo was never reached.

type mockTripRepo struct {
	create  func(ctx context.Context, trip domain.Trip, participants []domain.Participant) (domain.Trip, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	update  func(ctx context.Context, update domain.TripUpdate) (domain.Trip, error)
	confirm func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip, participants []domain.Participant) (domain.Trip, error) {
	return m.create(ctx, trip, participants)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) Update(ctx context.Context, update domain.TripUpdate) (domain.Trip, error) {
	return m.update(ctx, update)
}
func (m *mockTripRepo) Confirm(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.confirm(ctx, id)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

type mockParticipantRepo struct {
	create       func(ctx context.Context, p domain.Participant) (domain.Participant, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Participant, error)
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error)
	confirm      func(ctx context.Context, id uuid.UUID) (domain.Participant, error)
}

func (m *mockParticipantRepo) Create(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	return m.create(ctx, p)
}
func (m *mockParticipantRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	return m.getByID(ctx, id)
}
func (m *mockParticipantRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockParticipantRepo) Confirm(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	return m.confirm(ctx, id)
}

var _ repo.ParticipantRepo = (*mockParticipantRepo)(nil)

type mockActivityRepo struct {
	create       func(ctx context.Context, a domain.Activity) (domain.Activity, error)
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error)
}

func (m *mockActivityRepo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	return m.create(ctx, a)
}
func (m *mockActivityRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	return m.listByTripID(ctx, tripID)
}

var _ repo.ActivityRepo = (*mockActivityRepo)(nil)

type mockLinkRepo struct {
	create       func(ctx context.Context, l domain.Link) (domain.Link, error)
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.Link, error)
}

func (m *mockLinkRepo) Create(ctx context.Context, l domain.Link) (domain.Link, error) {
	return m.create(ctx, l)
}
func (m *mockLinkRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Link, error) {
	return m.listByTripID(ctx, tripID)
}

var _ repo.LinkRepo = (*mockLinkRepo)(nil)

// sentEmail is one call recorded by recordingNotifier.
type sentEmail struct {
	kind       string
	tripID     uuid.UUID
	to         string
	confirmURL string
}

// recordingNotifier records every call. Sends to addresses in fail return err.
// Safe for the concurrent fan-out in TripService.Confirm.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentEmail
	fail map[string]error
}

func (n *recordingNotifier) record(kind string, trip domain.Trip, to, url string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentEmail{kind: kind, tripID: trip.ID, to: to, confirmURL: url})
	return n.fail[to]
}

func (n *recordingNotifier) TripConfirmationRequested(_ context.Context, trip domain.Trip, owner domain.Participant, url string) error {
	return n.record("trip", trip, owner.Email, url)
}

func (n *recordingNotifier) ParticipantInvited(_ context.Context, trip domain.Trip, p domain.Participant, url string) error {
	return n.record("invite", trip, p.Email, url)
}

var _ service.Notifier = (*recordingNotifier)(nil)

// ctxCheckingNotifier records ctx.Err() as seen by each invite send.
type ctxCheckingNotifier struct {
	mu   sync.Mutex
	errs []error
}

func (n *ctxCheckingNotifier) TripConfirmationRequested(ctx context.Context, _ domain.Trip, _ domain.Participant, _ string) error {
	return nil
}

func (n *ctxCheckingNotifier) ParticipantInvited(ctx context.Context, _ domain.Trip, _ domain.Participant, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errs = append(n.errs, ctx.Err())
	return nil
}

var _ service.Notifier = (*ctxCheckingNotifier)(nil)

// ---- shared fixtures -------------------------------------------------------

var (
	now  = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	urls = service.URLs{APIBaseURL: "http://api.test", WebBaseURL: "http://web.test"}
)

func fixedClock() service.Option {
	return service.WithClock(func() time.Time { return now })
}

// tripFixture is an unconfirmed trip from 2024-01-10 to 2024-01-12.
func tripFixture() domain.Trip {
	return domain.Trip{
		ID:          uuid.New(),
		Destination: "Florianópolis",
		StartsAt:    time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
		EndsAt:      time.Date(2024, 1, 12, 18, 0, 0, 0, time.UTC),
		CreatedAt:   now,
	}
}

// tripsReturning is a TripRepo whose GetByID always returns trip.
func tripsReturning(trip domain.Trip) *mockTripRepo {
	return &mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return trip, nil },
	}
}

// missingTrips is a TripRepo where no trip exists.
func missingTrips() *mockTripRepo {
	return &mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
		update: func(_ context.Context, _ domain.TripUpdate) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	}
}

func mustNotCall(t *testing.T, what string) {
	t.Helper()
	t.Fatalf("%s must not be called", what)
}

// assertConfirmations checks the confirmation counter recorded exactly one
// event for entity and outcome.
func assertConfirmations(t *testing.T, m *metrics.Metrics, entity, outcome string) {
	t.Helper()
	want := fmt.Sprintf(`
# HELP planner_confirmations_total Confirmation links followed, by entity and whether state changed.
# TYPE planner_confirmations_total counter
planner_confirmations_total{entity=%q,outcome=%q} 1
`, entity, outcome)
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(want), "planner_confirmations_total"))
}
