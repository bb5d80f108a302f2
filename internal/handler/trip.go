package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/planner/internal/domain"
)

type createTripRequest struct {
	Destination    string                `json:"destination"`
	StartsAt       timestamp             `json:"startsAt"`
	EndsAt         timestamp             `json:"endsAt"`
	OwnerName      string                `json:"ownerName"`
	OwnerEmail     openapi_types.Email   `json:"ownerEmail"`
	EmailsToInvite []openapi_types.Email `json:"emailsToInvite"`
}

type updateTripRequest struct {
	Destination string    `json:"destination"`
	StartsAt    timestamp `json:"startsAt"`
	EndsAt      timestamp `json:"endsAt"`
}

type tripResponse struct {
	ID          uuid.UUID `json:"id"`
	Destination string    `json:"destination"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	IsConfirmed bool      `json:"isConfirmed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body createTripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	in := domain.NewTrip{
		Destination:    body.Destination,
		StartsAt:       body.StartsAt.Time,
		EndsAt:         body.EndsAt.Time,
		OwnerName:      body.OwnerName,
		OwnerEmail:     string(body.OwnerEmail),
		EmailsToInvite: make([]string, len(body.EmailsToInvite)),
	}
	for i, e := range body.EmailsToInvite {
		in.EmailsToInvite[i] = string(e)
	}

	created, err := s.trips.Create(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(created))
}

// GetTrip handles GET /trips/{tripId}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := bindPathUUID(w, r, "tripId")
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]tripResponse{"trip": tripToResponse(trip)})
}

// UpdateTrip handles PUT /trips/{tripId}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := bindPathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var body updateTripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	updated, err := s.trips.Update(r.Context(), domain.TripUpdate{
		ID:          id,
		Destination: body.Destination,
		StartsAt:    body.StartsAt.Time,
		EndsAt:      body.EndsAt.Time,
	})
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// ConfirmTrip handles GET /trips/{tripId}/confirm, the link in the owner's
// email. On success the browser is sent to the trip page.
func (s *Server) ConfirmTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := bindPathUUID(w, r, "tripId")
	if !ok {
		return
	}

	trip, err := s.trips.Confirm(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	http.Redirect(w, r, s.urls.TripPageURL(trip.ID), http.StatusFound)
}

// tripToResponse converts a domain.Trip to its JSON shape.
// Timestamps are always rendered in UTC.
func tripToResponse(t domain.Trip) tripResponse {
	return tripResponse{
		ID:          t.ID,
		Destination: t.Destination,
		StartsAt:    t.StartsAt.UTC(),
		EndsAt:      t.EndsAt.UTC(),
		IsConfirmed: t.IsConfirmed,
		CreatedAt:   t.CreatedAt.UTC(),
	}
}
