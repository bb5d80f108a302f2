package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/planner/internal/domain"
	"github.com/pkordes/planner/internal/repo"
)

// LinkService implements business logic for a trip's saved links.
type LinkService struct {
	trips repo.TripRepo
	links repo.LinkRepo
}

// NewLinkService constructs a LinkService backed by the provided repos.
func NewLinkService(trips repo.TripRepo, links repo.LinkRepo) *LinkService {
	return &LinkService{trips: trips, links: links}
}

// Create validates and persists a link.
// Returns domain.ErrValidation for a short title or a non-http(s) URL,
// domain.ErrNotFound if the trip does not exist.
func (s *LinkService) Create(ctx context.Context, l domain.Link) (domain.Link, error) {
	title, err := validateText("title", l.Title)
	if err != nil {
		return domain.Link{}, err
	}
	u, err := validateURL(l.URL)
	if err != nil {
		return domain.Link{}, err
	}
	if _, err := s.trips.GetByID(ctx, l.TripID); err != nil {
		return domain.Link{}, fmt.Errorf("service.LinkService.Create: %w", err)
	}

	l.Title, l.URL = title, u
	created, err := s.links.Create(ctx, l)
	if err != nil {
		return domain.Link{}, fmt.Errorf("service.LinkService.Create: %w", err)
	}
	return created, nil
}

// ListByTripID returns the trip's links in creation order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *LinkService) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Link, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.LinkService.ListByTripID: %w", err)
	}
	links, err := s.links.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.LinkService.ListByTripID: %w", err)
	}
	if links == nil {
		return []domain.Link{}, nil
	}
	return links, nil
}
