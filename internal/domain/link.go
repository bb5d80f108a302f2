package domain

import (
	"time"

	"github.com/google/uuid"
)

// Link is a titled URL saved against a trip (bookings, docs, maps).
type Link struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	Title     string
	URL       string
	CreatedAt time.Time
}
