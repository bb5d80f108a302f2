package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/planner/internal/domain"
	"github.com/pkordes/planner/internal/repo"
)

// ActivityService schedules activities and builds the per-day calendar.
type ActivityService struct {
	trips      repo.TripRepo
	activities repo.ActivityRepo
}

// NewActivityService constructs an ActivityService backed by the provided repos.
func NewActivityService(trips repo.TripRepo, activities repo.ActivityRepo) *ActivityService {
	return &ActivityService{trips: trips, activities: activities}
}

// Create validates the activity, checks it falls inside the trip dates,
// then persists it.
// Returns domain.ErrValidation for a short title or an out-of-range date,
// domain.ErrNotFound if the trip does not exist.
func (s *ActivityService) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	title, err := validateText("title", a.Title)
	if err != nil {
		return domain.Activity{}, err
	}
	trip, err := s.trips.GetByID(ctx, a.TripID)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Create: %w", err)
	}
	if err := validateActivityDate(trip, a.OccursAt); err != nil {
		return domain.Activity{}, err
	}

	a.Title = title
	created, err := s.activities.Create(ctx, a)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Create: %w", err)
	}
	return created, nil
}

// ListByDay returns one ActivityDay per calendar day of the trip, each with
// that day's activities in chronological order.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *ActivityService) ListByDay(ctx context.Context, tripID uuid.UUID) ([]domain.ActivityDay, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ActivityService.ListByDay: %w", err)
	}
	activities, err := s.activities.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ActivityService.ListByDay: %w", err)
	}
	return domain.GroupActivitiesByDay(trip, activities), nil
}
