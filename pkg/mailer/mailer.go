// Package mailer delivers rendered notices over SMTP.
package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"
)

// Message is one outbound notice. To may hold several comma-separated
// addresses, matching how distribution lists are configured.
type Message struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer is the mail-transport surface consumed by the workflow.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// SMTP sends messages through one SMTP relay.
type SMTP struct {
	host     string
	port     int
	username string
	password string
}

// NewSMTP builds a mailer for the given relay. Empty username disables
// authentication (internal relays).
func NewSMTP(host string, port int, username, password string) *SMTP {
	return &SMTP{host: host, port: port, username: username, password: password}
}

// Send delivers the message, blocking until the relay acknowledges it.
func (s *SMTP) Send(ctx context.Context, msg *Message) error {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return DeliveryErr{Err: fmt.Errorf("invalid sender %q: %w", msg.From, err)}
	}

	recipients := splitAddresses(msg.To)
	if len(recipients) == 0 {
		return DeliveryErr{Err: fmt.Errorf("no recipients for %q", msg.Subject)}
	}
	if err := m.To(recipients...); err != nil {
		return DeliveryErr{Err: fmt.Errorf("invalid recipients %q: %w", msg.To, err)}
	}

	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}

	opts := []mail.Option{mail.WithPort(s.port)}
	if s.username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.username),
			mail.WithPassword(s.password),
		)
	}

	client, err := mail.NewClient(s.host, opts...)
	if err != nil {
		return DeliveryErr{Err: fmt.Errorf("could not create smtp client: %w", err)}
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return DeliveryErr{Err: fmt.Errorf("could not deliver mail: %w", err)}
	}
	return nil
}

func splitAddresses(list string) []string {
	parts := strings.Split(list, ",")
	addrs := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			addrs = append(addrs, trimmed)
		}
	}
	return addrs
}
