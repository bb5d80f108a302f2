package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/planner/internal/domain"
)

type createLinkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type linkResponse struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"tripId"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateLink handles POST /trips/{tripId}/links.
func (s *Server) CreateLink(w http.ResponseWriter, r *http.Request) {
	tripID, ok := bindPathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var body createLinkRequest
	if !decodeBody(w, r, &body) {
		return
	}

	created, err := s.links.Create(r.Context(), domain.Link{TripID: tripID, Title: body.Title, URL: body.URL})
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, linkToResponse(created))
}

// ListLinks handles GET /trips/{tripId}/links. The body is a bare array.
func (s *Server) ListLinks(w http.ResponseWriter, r *http.Request) {
	tripID, ok := bindPathUUID(w, r, "tripId")
	if !ok {
		return
	}

	links, err := s.links.ListByTripID(r.Context(), tripID)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	out := make([]linkResponse, len(links))
	for i, l := range links {
		out[i] = linkToResponse(l)
	}
	writeJSON(w, http.StatusOK, out)
}

func linkToResponse(l domain.Link) linkResponse {
	return linkResponse{
		ID:        l.ID,
		TripID:    l.TripID,
		Title:     l.Title,
		URL:       l.URL,
		CreatedAt: l.CreatedAt.UTC(),
	}
}
