// Package mail renders and delivers the plann.er notification emails:
// the owner's "confirm your trip" message and the participant invitations.
package mail

import (
	"context"
	"net/mail"
)

// Message is one rendered email ready for a Sender.
type Message struct {
	From    mail.Address
	To      string
	Subject string
	HTML    string
}

// Sender delivers a rendered message. Implementations must be safe for
// concurrent use; trip confirmation sends to every invitee in parallel.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
