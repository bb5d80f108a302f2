package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/planner/internal/domain"
)

type createActivityRequest struct {
	Title    string    `json:"title"`
	OccursAt timestamp `json:"occursAt"`
}

type activityResponse struct {
	ID       uuid.UUID `json:"id"`
	TripID   uuid.UUID `json:"tripId"`
	Title    string    `json:"title"`
	OccursAt time.Time `json:"occursAt"`
}

type activityDayResponse struct {
	Date       time.Time          `json:"date"`
	Activities []activityResponse `json:"activities"`
}

// CreateActivity handles POST /trips/{tripId}/activities.
func (s *Server) CreateActivity(w http.ResponseWriter, r *http.Request) {
	tripID, ok := bindPathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var body createActivityRequest
	if !decodeBody(w, r, &body) {
		return
	}

	created, err := s.activities.Create(r.Context(), domain.Activity{
		TripID:   tripID,
		Title:    body.Title,
		OccursAt: body.OccursAt.Time,
	})
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, activityToResponse(created))
}

// ListActivities handles GET /trips/{tripId}/activities. The response has
// one entry per day of the trip, including days with no activities.
func (s *Server) ListActivities(w http.ResponseWriter, r *http.Request) {
	tripID, ok := bindPathUUID(w, r, "tripId")
	if !ok {
		return
	}

	days, err := s.activities.ListByDay(r.Context(), tripID)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	out := make([]activityDayResponse, len(days))
	for i, d := range days {
		acts := make([]activityResponse, len(d.Activities))
		for j, a := range d.Activities {
			acts[j] = activityToResponse(a)
		}
		out[i] = activityDayResponse{Date: d.Date.UTC(), Activities: acts}
	}
	writeJSON(w, http.StatusOK, map[string][]activityDayResponse{"activities": out})
}

func activityToResponse(a domain.Activity) activityResponse {
	return activityResponse{
		ID:       a.ID,
		TripID:   a.TripID,
		Title:    a.Title,
		OccursAt: a.OccursAt.UTC(),
	}
}
