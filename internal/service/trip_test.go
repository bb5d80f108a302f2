package service_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/planner/internal/domain"
	"github.com/pkordes/planner/internal/metrics"
	"github.com/pkordes/planner/internal/service"
)

// ---- helpers ---------------------------------------------------------------

func newTrip() domain.NewTrip {
	tomorrow := now.Add(24 * time.Hour)
	return domain.NewTrip{
		Destination:    "Floripa",
		StartsAt:       tomorrow,
		EndsAt:         tomorrow.AddDate(0, 0, 3),
		OwnerName:      "Ana",
		OwnerEmail:     "a@a.com",
		EmailsToInvite: []string{"b@b.com"},
	}
}

// capturingTrips records the participants passed to Create and echoes the
// trip back with a fresh ID.
func capturingTrips(got *[]domain.Participant) *mockTripRepo {
	return &mockTripRepo{
		create: func(_ context.Context, trip domain.Trip, ps []domain.Participant) (domain.Trip, error) {
			*got = ps
			trip.ID = uuid.New()
			trip.CreatedAt = now
			return trip, nil
		},
	}
}

func rejectingTrips(t *testing.T) *mockTripRepo {
	return &mockTripRepo{
		create: func(_ context.Context, _ domain.Trip, _ []domain.Participant) (domain.Trip, error) {
			mustNotCall(t, "TripRepo.Create")
			return domain.Trip{}, nil
		},
	}
}

// ---- Create tests ----------------------------------------------------------

func TestTripService_Create_OwnerAndInvitee(t *testing.T) {
	var participants []domain.Participant
	notifier := &recordingNotifier{}
	svc := service.NewTripService(capturingTrips(&participants), &mockParticipantRepo{}, notifier, urls, fixedClock())

	got, err := svc.Create(context.Background(), newTrip())

	require.NoError(t, err)
	assert.Equal(t, "Floripa", got.Destination)
	assert.False(t, got.IsConfirmed)

	require.Len(t, participants, 2)
	owner, guest := participants[0], participants[1]
	assert.Equal(t, "a@a.com", owner.Email)
	assert.True(t, owner.IsOwner)
	assert.True(t, owner.IsConfirmed)
	require.NotNil(t, owner.Name)
	assert.Equal(t, "Ana", *owner.Name)
	assert.Equal(t, "b@b.com", guest.Email)
	assert.False(t, guest.IsOwner)
	assert.False(t, guest.IsConfirmed)
	assert.Nil(t, guest.Name)

	// Only the owner is emailed at creation time.
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "trip", notifier.sent[0].kind)
	assert.Equal(t, "a@a.com", notifier.sent[0].to)
	assert.Equal(t, "http://api.test/trips/"+got.ID.String()+"/confirm", notifier.sent[0].confirmURL)
}

func TestTripService_Create_DuplicateInvitesAreKept(t *testing.T) {
	var participants []domain.Participant
	svc := service.NewTripService(capturingTrips(&participants), &mockParticipantRepo{}, &recordingNotifier{}, urls, fixedClock())

	in := newTrip()
	in.EmailsToInvite = []string{"b@b.com", "b@b.com"}
	_, err := svc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.Len(t, participants, 3)
}

func TestTripService_Create_EmptyOwnerNameIsNil(t *testing.T) {
	var participants []domain.Participant
	svc := service.NewTripService(capturingTrips(&participants), &mockParticipantRepo{}, &recordingNotifier{}, urls, fixedClock())

	in := newTrip()
	in.OwnerName = "  "
	_, err := svc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.Nil(t, participants[0].Name)
}

func TestTripService_Create_YearLongTrip(t *testing.T) {
	var participants []domain.Participant
	svc := service.NewTripService(capturingTrips(&participants), &mockParticipantRepo{}, &recordingNotifier{}, urls, fixedClock())

	in := newTrip()
	in.EndsAt = in.StartsAt.AddDate(0, 0, domain.MaxTripDays)
	_, err := svc.Create(context.Background(), in)

	require.NoError(t, err)
}

func TestTripService_Create_ValidationErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.NewTrip)
	}{
		{"short destination", func(in *domain.NewTrip) { in.Destination = "  Rio " }},
		{"starts in the past", func(in *domain.NewTrip) { in.StartsAt = now.Add(-time.Minute) }},
		{"ends before start", func(in *domain.NewTrip) { in.EndsAt = in.StartsAt.Add(-time.Hour) }},
		{"longer than a year", func(in *domain.NewTrip) { in.EndsAt = domain.Day(in.StartsAt).AddDate(0, 0, domain.MaxTripDays+1) }},
		{"ends in year 9999", func(in *domain.NewTrip) { in.EndsAt = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC) }},
		{"missing end", func(in *domain.NewTrip) { in.EndsAt = time.Time{} }},
		{"bad owner email", func(in *domain.NewTrip) { in.OwnerEmail = "not-an-email" }},
		{"display-name owner email", func(in *domain.NewTrip) { in.OwnerEmail = "Ana <a@a.com>" }},
		{"bad invite email", func(in *domain.NewTrip) { in.EmailsToInvite = []string{"b@b.com", "nope"} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			notifier := &recordingNotifier{}
			svc := service.NewTripService(rejectingTrips(t), &mockParticipantRepo{}, notifier, urls, fixedClock())

			in := newTrip()
			tc.mutate(&in)
			_, err := svc.Create(context.Background(), in)

			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Empty(t, notifier.sent)
		})
	}
}

func TestTripService_Create_SameDayTripIsValid(t *testing.T) {
	var participants []domain.Participant
	svc := service.NewTripService(capturingTrips(&participants), &mockParticipantRepo{}, &recordingNotifier{}, urls, fixedClock())

	in := newTrip()
	in.EndsAt = in.StartsAt

	_, err := svc.Create(context.Background(), in)

	assert.NoError(t, err)
}

func TestTripService_Create_NotifierFailureIsLogged(t *testing.T) {
	var participants []domain.Participant
	var logs bytes.Buffer
	notifier := &recordingNotifier{fail: map[string]error{"a@a.com": errors.New("smtp down")}}
	svc := service.NewTripService(capturingTrips(&participants), &mockParticipantRepo{}, notifier, urls,
		fixedClock(), service.WithLogger(slog.New(slog.NewJSONHandler(&logs, nil))))

	got, err := svc.Create(context.Background(), newTrip())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Contains(t, logs.String(), `"recipient":"a@a.com"`)
	assert.Contains(t, logs.String(), got.ID.String())
	assert.Contains(t, logs.String(), "smtp down")
}

func TestTripService_Create_RepoError(t *testing.T) {
	repoErr := errors.New("db exploded")
	r := &mockTripRepo{
		create: func(_ context.Context, _ domain.Trip, _ []domain.Participant) (domain.Trip, error) {
			return domain.Trip{}, repoErr
		},
	}
	notifier := &recordingNotifier{}
	svc := service.NewTripService(r, &mockParticipantRepo{}, notifier, urls, fixedClock())

	_, err := svc.Create(context.Background(), newTrip())

	assert.ErrorIs(t, err, repoErr)
	assert.Empty(t, notifier.sent)
}

// ---- GetByID tests ---------------------------------------------------------

func TestTripService_GetByID_Found(t *testing.T) {
	want := tripFixture()
	svc := service.NewTripService(tripsReturning(want), &mockParticipantRepo{}, &recordingNotifier{}, urls)

	got, err := svc.GetByID(context.Background(), want.ID)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTripService_GetByID_NotFound(t *testing.T) {
	svc := service.NewTripService(missingTrips(), &mockParticipantRepo{}, &recordingNotifier{}, urls)

	_, err := svc.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Update tests ----------------------------------------------------------

func TestTripService_Update_Valid(t *testing.T) {
	var got domain.TripUpdate
	r := &mockTripRepo{
		update: func(_ context.Context, u domain.TripUpdate) (domain.Trip, error) {
			got = u
			return domain.Trip{ID: u.ID, Destination: u.Destination, StartsAt: u.StartsAt, EndsAt: u.EndsAt}, nil
		},
	}
	svc := service.NewTripService(r, &mockParticipantRepo{}, &recordingNotifier{}, urls, fixedClock())
	id := uuid.New()

	trip, err := svc.Update(context.Background(), domain.TripUpdate{
		ID:          id,
		Destination: "  Salvador  ",
		StartsAt:    now.AddDate(0, 1, 0),
		EndsAt:      now.AddDate(0, 1, 7),
	})

	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Salvador", got.Destination)
	assert.Equal(t, "Salvador", trip.Destination)
}

func TestTripService_Update_ValidationBeforeExistence(t *testing.T) {
	r := &mockTripRepo{
		update: func(_ context.Context, _ domain.TripUpdate) (domain.Trip, error) {
			mustNotCall(t, "TripRepo.Update")
			return domain.Trip{}, nil
		},
	}
	svc := service.NewTripService(r, &mockParticipantRepo{}, &recordingNotifier{}, urls, fixedClock())

	_, err := svc.Update(context.Background(), domain.TripUpdate{
		ID:          uuid.New(),
		Destination: "Salvador",
		StartsAt:    now.AddDate(0, 0, -1),
		EndsAt:      now.AddDate(0, 0, 3),
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Update_NotFound(t *testing.T) {
	svc := service.NewTripService(missingTrips(), &mockParticipantRepo{}, &recordingNotifier{}, urls, fixedClock())

	_, err := svc.Update(context.Background(), domain.TripUpdate{
		ID:          uuid.New(),
		Destination: "Salvador",
		StartsAt:    now.AddDate(0, 0, 1),
		EndsAt:      now.AddDate(0, 0, 3),
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Confirm tests ---------------------------------------------------------

func TestTripService_Confirm_InvitesNonOwners(t *testing.T) {
	trip := tripFixture()
	ownerName := "Ana"
	participants := []domain.Participant{
		{ID: uuid.New(), TripID: trip.ID, Name: &ownerName, Email: "a@a.com", IsOwner: true, IsConfirmed: true},
		{ID: uuid.New(), TripID: trip.ID, Email: "b@b.com"},
		{ID: uuid.New(), TripID: trip.ID, Email: "c@c.com"},
	}
	confirmCalls := 0
	trips := tripsReturning(trip)
	trips.confirm = func(_ context.Context, _ uuid.UUID) (domain.Trip, error) {
		confirmCalls++
		confirmed := trip
		confirmed.IsConfirmed = true
		return confirmed, nil
	}
	ps := &mockParticipantRepo{
		listByTripID: func(_ context.Context, _ uuid.UUID) ([]domain.Participant, error) { return participants, nil },
	}
	notifier := &recordingNotifier{}
	m := metrics.New()
	svc := service.NewTripService(trips, ps, notifier, urls, service.WithMetrics(m))

	got, err := svc.Confirm(context.Background(), trip.ID)

	require.NoError(t, err)
	assert.True(t, got.IsConfirmed)
	assert.Equal(t, 1, confirmCalls)

	want := map[string]string{
		"b@b.com": "http://api.test/participants/" + participants[1].ID.String() + "/confirm",
		"c@c.com": "http://api.test/participants/" + participants[2].ID.String() + "/confirm",
	}
	require.Len(t, notifier.sent, 2)
	for _, s := range notifier.sent {
		assert.Equal(t, "invite", s.kind)
		assert.Equal(t, trip.ID, s.tripID)
		assert.Equal(t, want[s.to], s.confirmURL, "recipient %s", s.to)
	}
	assertConfirmations(t, m, "trip", "confirmed")
}

func TestTripService_Confirm_AlreadyConfirmedIsNoop(t *testing.T) {
	trip := tripFixture()
	trip.IsConfirmed = true
	trips := tripsReturning(trip)
	trips.confirm = func(_ context.Context, _ uuid.UUID) (domain.Trip, error) {
		mustNotCall(t, "TripRepo.Confirm")
		return domain.Trip{}, nil
	}
	ps := &mockParticipantRepo{
		listByTripID: func(_ context.Context, _ uuid.UUID) ([]domain.Participant, error) {
			mustNotCall(t, "ParticipantRepo.ListByTripID")
			return nil, nil
		},
	}
	notifier := &recordingNotifier{}
	m := metrics.New()
	svc := service.NewTripService(trips, ps, notifier, urls, service.WithMetrics(m))

	got, err := svc.Confirm(context.Background(), trip.ID)

	require.NoError(t, err)
	assert.True(t, got.IsConfirmed)
	assert.Empty(t, notifier.sent)
	assertConfirmations(t, m, "trip", "already_confirmed")
}

func TestTripService_Confirm_SendFailuresDoNotFail(t *testing.T) {
	trip := tripFixture()
	trips := tripsReturning(trip)
	trips.confirm = func(_ context.Context, _ uuid.UUID) (domain.Trip, error) {
		confirmed := trip
		confirmed.IsConfirmed = true
		return confirmed, nil
	}
	ps := &mockParticipantRepo{
		listByTripID: func(_ context.Context, _ uuid.UUID) ([]domain.Participant, error) {
			return []domain.Participant{
				{ID: uuid.New(), Email: "b@b.com"},
				{ID: uuid.New(), Email: "c@c.com"},
			}, nil
		},
	}
	var logs bytes.Buffer
	notifier := &recordingNotifier{fail: map[string]error{"b@b.com": errors.New("mailbox full")}}
	svc := service.NewTripService(trips, ps, notifier, urls, service.WithLogger(slog.New(slog.NewJSONHandler(&logs, nil))))

	got, err := svc.Confirm(context.Background(), trip.ID)

	require.NoError(t, err)
	assert.True(t, got.IsConfirmed)
	// c@c.com is still emailed even though b@b.com failed.
	assert.Len(t, notifier.sent, 2)
	assert.Equal(t, 1, strings.Count(logs.String(), "participant invite email not sent"))
	assert.Contains(t, logs.String(), `"recipient":"b@b.com"`)
}

func TestTripService_Confirm_ListFailureLeavesTripUnconfirmed(t *testing.T) {
	trip := tripFixture()
	confirmed := false
	trips := &mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) {
			got := trip
			got.IsConfirmed = confirmed
			return got, nil
		},
		confirm: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) {
			confirmed = true
			got := trip
			got.IsConfirmed = true
			return got, nil
		},
	}
	listCalls := 0
	ps := &mockParticipantRepo{
		listByTripID: func(_ context.Context, _ uuid.UUID) ([]domain.Participant, error) {
			listCalls++
			if listCalls == 1 {
				return nil, errors.New("conn reset")
			}
			return []domain.Participant{{ID: uuid.New(), TripID: trip.ID, Email: "b@b.com"}}, nil
		},
	}
	notifier := &recordingNotifier{}
	svc := service.NewTripService(trips, ps, notifier, urls)

	_, err := svc.Confirm(context.Background(), trip.ID)
	require.Error(t, err)
	assert.False(t, confirmed)
	assert.Empty(t, notifier.sent)

	got, err := svc.Confirm(context.Background(), trip.ID)
	require.NoError(t, err)
	assert.True(t, got.IsConfirmed)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "b@b.com", notifier.sent[0].to)
}

func TestTripService_Confirm_InvitesSurviveCanceledRequest(t *testing.T) {
	trip := tripFixture()
	ctx, cancel := context.WithCancel(context.Background())
	trips := tripsReturning(trip)
	trips.confirm = func(_ context.Context, _ uuid.UUID) (domain.Trip, error) {
		// The client goes away right after the confirmation is stored.
		cancel()
		confirmed := trip
		confirmed.IsConfirmed = true
		return confirmed, nil
	}
	ps := &mockParticipantRepo{
		listByTripID: func(_ context.Context, _ uuid.UUID) ([]domain.Participant, error) {
			return []domain.Participant{{ID: uuid.New(), TripID: trip.ID, Email: "b@b.com"}}, nil
		},
	}
	notifier := &ctxCheckingNotifier{}
	svc := service.NewTripService(trips, ps, notifier, urls)

	_, err := svc.Confirm(ctx, trip.ID)

	require.NoError(t, err)
	require.Len(t, notifier.errs, 1)
	assert.NoError(t, notifier.errs[0])
}

func TestTripService_Confirm_NotFound(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := service.NewTripService(missingTrips(), &mockParticipantRepo{}, notifier, urls)

	_, err := svc.Confirm(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, notifier.sent)
}
