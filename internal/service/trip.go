package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/planner/internal/domain"
	"github.com/pkordes/planner/internal/metrics"
	"github.com/pkordes/planner/internal/repo"
)

// maxConcurrentSends bounds the invite fan-out when a trip is confirmed.
const maxConcurrentSends = 8

// TripService implements the trip lifecycle: creation with the owner and
// initial invitees, updates, and the owner's confirmation.
type TripService struct {
	trips        repo.TripRepo
	participants repo.ParticipantRepo
	notifier     Notifier
	urls         URLs
	options
}

// NewTripService constructs a TripService.
func NewTripService(trips repo.TripRepo, participants repo.ParticipantRepo, notifier Notifier, urls URLs, opts ...Option) *TripService {
	return &TripService{
		trips:        trips,
		participants: participants,
		notifier:     notifier,
		urls:         urls,
		options:      newOptions(opts),
	}
}

// Create validates the request, then persists the trip, a confirmed owner
// and one unconfirmed participant per invite email in one transaction.
// The owner is emailed a confirmation link; a failed send is logged and
// does not fail the call.
// Returns domain.ErrValidation if input violates business rules.
func (s *TripService) Create(ctx context.Context, in domain.NewTrip) (domain.Trip, error) {
	destination, err := validateText("destination", in.Destination)
	if err != nil {
		return domain.Trip{}, err
	}
	if err := validateTripDates(in.StartsAt, in.EndsAt, s.now()); err != nil {
		return domain.Trip{}, err
	}
	ownerEmail, err := validateEmail("ownerEmail", in.OwnerEmail)
	if err != nil {
		return domain.Trip{}, err
	}

	owner := domain.Participant{Email: ownerEmail, IsOwner: true, IsConfirmed: true}
	if name := strings.TrimSpace(in.OwnerName); name != "" {
		owner.Name = &name
	}
	participants := make([]domain.Participant, 0, len(in.EmailsToInvite)+1)
	participants = append(participants, owner)
	for _, e := range in.EmailsToInvite {
		email, err := validateEmail("emailsToInvite", e)
		if err != nil {
			return domain.Trip{}, err
		}
		participants = append(participants, domain.Participant{Email: email})
	}

	trip := domain.Trip{
		Destination: destination,
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
	}
	created, err := s.trips.Create(ctx, trip, participants)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	owner.TripID = created.ID
	if err := s.notifier.TripConfirmationRequested(ctx, created, owner, s.urls.TripConfirmURL(created.ID)); err != nil {
		s.log.WarnContext(ctx, "trip confirmation email not sent",
			"trip_id", created.ID, "recipient", owner.Email, "error", err)
	}
	return created, nil
}

// GetByID returns a single trip by ID.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// Update validates and overwrites destination and dates. Validation runs
// before the existence check.
// Returns domain.ErrValidation for invalid input, domain.ErrNotFound if the
// trip does not exist.
func (s *TripService) Update(ctx context.Context, in domain.TripUpdate) (domain.Trip, error) {
	destination, err := validateText("destination", in.Destination)
	if err != nil {
		return domain.Trip{}, err
	}
	if err := validateTripDates(in.StartsAt, in.EndsAt, s.now()); err != nil {
		return domain.Trip{}, err
	}
	in.Destination = destination

	trip, err := s.trips.Update(ctx, in)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return trip, nil
}

// Confirm marks the trip confirmed and invites every non-owner participant.
// Confirming an already confirmed trip is a no-op: nothing is written and
// no email is sent. Invite failures are logged per recipient and never
// returned.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *TripService) Confirm(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Confirm: %w", err)
	}
	if trip.IsConfirmed {
		s.metrics.Confirmed(metrics.EntityTrip, false)
		return trip, nil
	}

	// Participants are loaded before the write so a failed read leaves the
	// trip unconfirmed and the call can be retried.
	participants, err := s.participants.ListByTripID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Confirm: %w", err)
	}

	trip, err = s.trips.Confirm(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Confirm: %w", err)
	}
	s.metrics.Confirmed(metrics.EntityTrip, true)

	// The confirmation is already stored; a client hanging up must not
	// abort the invites.
	s.inviteAll(context.WithoutCancel(ctx), trip, participants)
	return trip, nil
}

// inviteAll emails every non-owner participant concurrently. Tasks always
// return nil so one failed send never cancels the rest.
func (s *TripService) inviteAll(ctx context.Context, trip domain.Trip, participants []domain.Participant) {
	var g errgroup.Group
	g.SetLimit(maxConcurrentSends)
	for _, p := range participants {
		if p.IsOwner {
			continue
		}
		g.Go(func() error {
			err := s.notifier.ParticipantInvited(ctx, trip, p, s.urls.ParticipantConfirmURL(p.ID))
			if err != nil {
				s.log.WarnContext(ctx, "participant invite email not sent",
					"trip_id", trip.ID, "participant_id", p.ID, "recipient", p.Email, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}
