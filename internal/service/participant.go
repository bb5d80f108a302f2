package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/planner/internal/domain"
	"github.com/pkordes/planner/internal/metrics"
	"github.com/pkordes/planner/internal/repo"
)

// ParticipantService implements invitations and participant confirmation.
// It holds the trips repo because every participant operation is scoped to
// an existing trip.
type ParticipantService struct {
	trips        repo.TripRepo
	participants repo.ParticipantRepo
	notifier     Notifier
	urls         URLs
	options
}

// NewParticipantService constructs a ParticipantService.
func NewParticipantService(trips repo.TripRepo, participants repo.ParticipantRepo, notifier Notifier, urls URLs, opts ...Option) *ParticipantService {
	return &ParticipantService{
		trips:        trips,
		participants: participants,
		notifier:     notifier,
		urls:         urls,
		options:      newOptions(opts),
	}
}

// Invite adds an unconfirmed participant to the trip and emails them a
// confirmation link. The same address may be invited more than once.
// Returns domain.ErrValidation for a bad email, domain.ErrNotFound if the
// trip does not exist.
func (s *ParticipantService) Invite(ctx context.Context, tripID uuid.UUID, email string) (domain.Trip, error) {
	email, err := validateEmail("email", email)
	if err != nil {
		return domain.Trip{}, err
	}
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.ParticipantService.Invite: %w", err)
	}

	p, err := s.participants.Create(ctx, domain.Participant{TripID: tripID, Email: email})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.ParticipantService.Invite: %w", err)
	}

	if err := s.notifier.ParticipantInvited(ctx, trip, p, s.urls.ParticipantConfirmURL(p.ID)); err != nil {
		s.log.WarnContext(ctx, "participant invite email not sent",
			"trip_id", trip.ID, "participant_id", p.ID, "recipient", p.Email, "error", err)
	}
	return trip, nil
}

// Confirm marks the participant confirmed. Confirming twice is a no-op.
// Returns domain.ErrNotFound if the participant does not exist.
func (s *ParticipantService) Confirm(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	p, err := s.participants.GetByID(ctx, id)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Confirm: %w", err)
	}
	if p.IsConfirmed {
		s.metrics.Confirmed(metrics.EntityParticipant, false)
		return p, nil
	}

	p, err = s.participants.Confirm(ctx, id)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Confirm: %w", err)
	}
	s.metrics.Confirmed(metrics.EntityParticipant, true)
	return p, nil
}

// GetByID returns a single participant.
// Returns domain.ErrNotFound if the participant does not exist.
func (s *ParticipantService) GetByID(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	p, err := s.participants.GetByID(ctx, id)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.GetByID: %w", err)
	}
	return p, nil
}

// ListByTripID returns the trip's participants, owner first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ParticipantService) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.ParticipantService.ListByTripID: %w", err)
	}
	ps, err := s.participants.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ParticipantService.ListByTripID: %w", err)
	}
	if ps == nil {
		return []domain.Participant{}, nil
	}
	return ps, nil
}
