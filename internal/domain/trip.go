// Package domain contains the core data types for the plann.er API.
// It has no dependencies on other internal packages and is imported by
// every layer (repo, service, mail, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is the aggregate root. Participants, activities and links all
// belong to exactly one trip.
type Trip struct {
	ID          uuid.UUID
	Destination string
	StartsAt    time.Time
	EndsAt      time.Time
	// IsConfirmed flips once, from false to true, when the owner follows
	// the confirmation link. It never reverts.
	IsConfirmed bool
	CreatedAt   time.Time
}

// MaxTripDays is the largest DaySpan allowed between a trip's start and
// end, which caps the per-day calendar at MaxTripDays+1 buckets.
const MaxTripDays = 365

// NewTrip carries everything needed to create a trip together with its
// owner and the initial invite list.
type NewTrip struct {
	Destination    string
	StartsAt       time.Time
	EndsAt         time.Time
	OwnerName      string
	OwnerEmail     string
	EmailsToInvite []string
}

// TripUpdate holds the mutable fields of a trip.
type TripUpdate struct {
	ID          uuid.UUID
	Destination string
	StartsAt    time.Time
	EndsAt      time.Time
}
