// Package service contains the business logic for the plann.er API.
// Services validate inputs, enforce business rules, and orchestrate repo calls
// and notification emails. No SQL lives here; services depend on repo
// interfaces, not implementations.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/planner/internal/domain"
	"github.com/pkordes/planner/internal/metrics"
)

// Notifier sends the emails that drive the confirmation flow.
// mail.Notifier is the production implementation.
type Notifier interface {
	TripConfirmationRequested(ctx context.Context, trip domain.Trip, owner domain.Participant, confirmURL string) error
	ParticipantInvited(ctx context.Context, trip domain.Trip, participant domain.Participant, confirmURL string) error
}

// URLs builds the absolute links placed in emails and redirects.
type URLs struct {
	// APIBaseURL is where confirmation links point, e.g. "http://localhost:3333".
	APIBaseURL string
	// WebBaseURL is the frontend users land on after confirming.
	WebBaseURL string
}

// TripConfirmURL is the link the owner follows to confirm a trip.
func (u URLs) TripConfirmURL(tripID uuid.UUID) string {
	return join(u.APIBaseURL, "trips", tripID.String(), "confirm")
}

// ParticipantConfirmURL is the link an invitee follows to confirm attendance.
func (u URLs) ParticipantConfirmURL(participantID uuid.UUID) string {
	return join(u.APIBaseURL, "participants", participantID.String(), "confirm")
}

// TripPageURL is the frontend page for a trip.
func (u URLs) TripPageURL(tripID uuid.UUID) string {
	return join(u.WebBaseURL, "trips", tripID.String())
}

func join(base string, parts ...string) string {
	return strings.TrimRight(base, "/") + "/" + strings.Join(parts, "/")
}

// Option configures the ambient dependencies shared by every service.
type Option func(*options)

type options struct {
	now     func() time.Time
	log     *slog.Logger
	metrics *metrics.Metrics
}

func newOptions(opts []Option) options {
	o := options{
		now: time.Now,
		log: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock overrides time.Now. Tests use it to pin "now" for date rules.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger used for notification failures.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithMetrics sets the confirmation counters. Nil disables them.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}
