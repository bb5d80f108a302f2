package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"strconv"
	"time"
)

// SMTPConfig holds the relay settings. Username may be empty for relays
// that accept unauthenticated submissions (e.g. a local MailHog).
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPSender delivers messages through an SMTP relay, upgrading to TLS
// when the server offers STARTTLS.
type SMTPSender struct {
	cfg     SMTPConfig
	dialer  net.Dialer
	timeout time.Duration
	now     func() time.Time
}

// defaultSessionTimeout bounds one SMTP session when ctx has no earlier
// deadline.
const defaultSessionTimeout = 30 * time.Second

// NewSMTPSender returns a Sender for the given relay.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{
		cfg:     cfg,
		dialer:  net.Dialer{Timeout: 10 * time.Second},
		timeout: defaultSessionTimeout,
		now:     time.Now,
	}
}

// Send opens one SMTP session per message. The session ends at the ctx
// deadline or after the sender's timeout, whichever comes first.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	conn, err := s.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("mail.SMTPSender.Send: dial %s: %w", addr, err)
	}
	deadline := time.Now().Add(s.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("mail.SMTPSender.Send: handshake: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			return fmt.Errorf("mail.SMTPSender.Send: starttls: %w", err)
		}
	}
	if s.cfg.Username != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("mail.SMTPSender.Send: auth: %w", err)
		}
	}

	if err := c.Mail(msg.From.Address); err != nil {
		return fmt.Errorf("mail.SMTPSender.Send: MAIL FROM: %w", err)
	}
	if err := c.Rcpt(msg.To); err != nil {
		return fmt.Errorf("mail.SMTPSender.Send: RCPT TO %s: %w", msg.To, err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("mail.SMTPSender.Send: DATA: %w", err)
	}
	raw, err := buildMIME(msg, s.now())
	if err != nil {
		w.Close()
		return fmt.Errorf("mail.SMTPSender.Send: encode: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		w.Close()
		return fmt.Errorf("mail.SMTPSender.Send: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mail.SMTPSender.Send: end DATA: %w", err)
	}
	return c.Quit()
}

// buildMIME encodes msg as a single-part quoted-printable HTML message.
func buildMIME(msg Message, date time.Time) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", msg.From.String())
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", date.Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	buf.WriteString("Content-Transfer-Encoding: quoted-printable\r\n\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(msg.HTML)); err != nil {
		return nil, err
	}
	if err := qp.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
