// Package handler implements the HTTP handlers for the plann.er API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, etc.) but share the same Server struct so they
// can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/planner/internal/domain"
	"github.com/pkordes/planner/internal/service"
)

// TripServicer defines the trip operations the handlers depend on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, in domain.NewTrip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	Update(ctx context.Context, in domain.TripUpdate) (domain.Trip, error)
	Confirm(ctx context.Context, id uuid.UUID) (domain.Trip, error)
}

// ParticipantServicer defines the participant operations the handlers depend on.
type ParticipantServicer interface {
	Invite(ctx context.Context, tripID uuid.UUID, email string) (domain.Trip, error)
	Confirm(ctx context.Context, id uuid.UUID) (domain.Participant, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Participant, error)
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error)
}

// ActivityServicer defines the activity operations the handlers depend on.
type ActivityServicer interface {
	Create(ctx context.Context, a domain.Activity) (domain.Activity, error)
	ListByDay(ctx context.Context, tripID uuid.UUID) ([]domain.ActivityDay, error)
}

// LinkServicer defines the link operations the handlers depend on.
type LinkServicer interface {
	Create(ctx context.Context, l domain.Link) (domain.Link, error)
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Link, error)
}

// Server holds the dependencies of every endpoint.
type Server struct {
	trips        TripServicer
	participants ParticipantServicer
	activities   ActivityServicer
	links        LinkServicer
	urls         service.URLs
	log          *slog.Logger
}

// NewServer constructs the Server with all its dependencies. urls builds the
// redirect targets of the confirmation routes. A nil log uses slog.Default.
func NewServer(trips TripServicer, participants ParticipantServicer, activities ActivityServicer, links LinkServicer, urls service.URLs, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		trips:        trips,
		participants: participants,
		activities:   activities,
		links:        links,
		urls:         urls,
		log:          log,
	}
}

// Routes returns the router for every API endpoint. Cross-cutting middleware
// (logging, CORS, body limits) is applied by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody(codeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody(codeBadRequest, "method not allowed"))
	})

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/trips", func(r chi.Router) {
		r.Post("/", s.CreateTrip)
		r.Route("/{tripId}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Get("/confirm", s.ConfirmTrip)
			r.Post("/invites", s.InviteParticipant)
			r.Get("/participants", s.ListParticipants)
			r.Post("/activities", s.CreateActivity)
			r.Get("/activities", s.ListActivities)
			r.Post("/links", s.CreateLink)
			r.Get("/links", s.ListLinks)
		})
	})
	r.Get("/participants/{participantId}/confirm", s.ConfirmParticipant)
	r.Get("/participant/{participantId}", s.GetParticipant)
	return r
}
