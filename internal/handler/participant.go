package handler

import (
	"net/http"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/planner/internal/domain"
)

type inviteRequest struct {
	Email openapi_types.Email `json:"email"`
}

type participantResponse struct {
	ID          uuid.UUID `json:"id"`
	TripID      uuid.UUID `json:"tripId"`
	Name        *string   `json:"name"`
	Email       string    `json:"email"`
	IsOwner     bool      `json:"isOwner"`
	IsConfirmed bool      `json:"isConfirmed"`
}

// InviteParticipant handles POST /trips/{tripId}/invites.
func (s *Server) InviteParticipant(w http.ResponseWriter, r *http.Request) {
	tripID, ok := bindPathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var body inviteRequest
	if !decodeBody(w, r, &body) {
		return
	}

	trip, err := s.participants.Invite(r.Context(), tripID, string(body.Email))
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(trip))
}

// ConfirmParticipant handles GET /participants/{participantId}/confirm, the
// link in an invite email. On success the browser is sent to the trip page.
func (s *Server) ConfirmParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := bindPathUUID(w, r, "participantId")
	if !ok {
		return
	}

	p, err := s.participants.Confirm(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "participant not found")
		return
	}
	http.Redirect(w, r, s.urls.TripPageURL(p.TripID), http.StatusFound)
}

// GetParticipant handles GET /participant/{participantId}.
func (s *Server) GetParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := bindPathUUID(w, r, "participantId")
	if !ok {
		return
	}

	p, err := s.participants.GetByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "participant not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]participantResponse{"participant": participantToResponse(p)})
}

// ListParticipants handles GET /trips/{tripId}/participants.
func (s *Server) ListParticipants(w http.ResponseWriter, r *http.Request) {
	tripID, ok := bindPathUUID(w, r, "tripId")
	if !ok {
		return
	}

	ps, err := s.participants.ListByTripID(r.Context(), tripID)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	out := make([]participantResponse, len(ps))
	for i, p := range ps {
		out[i] = participantToResponse(p)
	}
	writeJSON(w, http.StatusOK, map[string][]participantResponse{"participants": out})
}

func participantToResponse(p domain.Participant) participantResponse {
	return participantResponse{
		ID:          p.ID,
		TripID:      p.TripID,
		Name:        p.Name,
		Email:       p.Email,
		IsOwner:     p.IsOwner,
		IsConfirmed: p.IsConfirmed,
	}
}
