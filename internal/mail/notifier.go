package mail

import (
	"context"
	"fmt"
	"net/mail"

	"golang.org/x/text/message"

	"github.com/pkordes/planner/internal/domain"
	"github.com/pkordes/planner/internal/metrics"
)

// Notifier renders the plann.er emails and hands them to a Sender.
// It implements service.Notifier.
type Notifier struct {
	sender  Sender
	from    mail.Address
	printer *message.Printer
	lang    string
	metrics *metrics.Metrics
}

// NewNotifier builds a Notifier. locale selects the copy ("pt-BR", "en");
// m may be nil.
func NewNotifier(sender Sender, from mail.Address, locale string, m *metrics.Metrics) *Notifier {
	tag := matchLocale(locale)
	return &Notifier{
		sender:  sender,
		from:    from,
		printer: message.NewPrinter(tag),
		lang:    tag.String(),
		metrics: m,
	}
}

// TripConfirmationRequested asks the trip owner to confirm a newly created trip.
func (n *Notifier) TripConfirmationRequested(ctx context.Context, trip domain.Trip, owner domain.Participant, confirmURL string) error {
	p := n.printer
	starts := LongDate(p, trip.StartsAt)
	view := emailView{
		Lang:    n.lang,
		Heading: p.Sprintf(keyOwnerHeading),
		Intro:   p.Sprintf(keyOwnerIntro),
		Details: []detail{
			{Label: p.Sprintf(keyDetailDestination), Value: trip.Destination},
			{Label: p.Sprintf(keyDetailStartsAt), Value: starts},
			{Label: p.Sprintf(keyDetailEndsAt), Value: LongDate(p, trip.EndsAt)},
		},
		ConfirmURL: confirmURL,
	}
	subject := p.Sprintf(keyOwnerSubject, trip.Destination, starts)
	return n.send(ctx, metrics.KindTripConfirmation, owner.Email, subject, view)
}

// ParticipantInvited sends an invitee the link that confirms their place on the trip.
func (n *Notifier) ParticipantInvited(ctx context.Context, trip domain.Trip, participant domain.Participant, confirmURL string) error {
	p := n.printer
	starts := LongDate(p, trip.StartsAt)
	view := emailView{
		Lang:    n.lang,
		Heading: p.Sprintf(keyInviteHeading),
		Intro:   p.Sprintf(keyInviteIntro),
		Details: []detail{
			{Label: p.Sprintf(keyDetailDestination), Value: trip.Destination},
			{Label: p.Sprintf(keyDetailStartsAt), Value: starts},
			{Label: p.Sprintf(keyDetailEndsAt), Value: LongDate(p, trip.EndsAt)},
		},
		ConfirmURL: confirmURL,
	}
	subject := p.Sprintf(keyInviteSubject, trip.Destination, starts)
	return n.send(ctx, metrics.KindParticipantInvite, participant.Email, subject, view)
}

func (n *Notifier) send(ctx context.Context, kind, to, subject string, view emailView) error {
	view.ConfirmLabel = n.printer.Sprintf(keyConfirm)
	view.Signoff = n.printer.Sprintf(keySignoff)
	view.Team = n.printer.Sprintf(keyTeam)

	body, err := renderEmail(view)
	if err != nil {
		n.metrics.NotificationFailed(kind)
		return fmt.Errorf("mail.Notifier: render %s: %w", kind, err)
	}

	err = n.sender.Send(ctx, Message{From: n.from, To: to, Subject: subject, HTML: body})
	if err != nil {
		n.metrics.NotificationFailed(kind)
		return fmt.Errorf("mail.Notifier: send %s: %w", kind, err)
	}
	n.metrics.NotificationSent(kind)
	return nil
}
