package domain

import "github.com/google/uuid"

// Participant is a person attached to a trip: either its owner, who is
// confirmed on creation, or an invitee who confirms through an emailed link.
type Participant struct {
	ID          uuid.UUID
	TripID      uuid.UUID
	Name        *string // nil for invitees until they tell us
	Email       string
	IsOwner     bool
	IsConfirmed bool
}
