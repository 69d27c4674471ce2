// Package mail composes notification emails and hands them to the SMTP relay.
package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/parcelco/backoffice/internal/infrastructure/config"
)

// Transport delivers composed messages. *gomail.Client satisfies it.
type Transport interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// Message is one outgoing email with a plain text body and an optional
// HTML alternative
type Message struct {
	To      []string
	Subject string
	Text    string
	HTML    string
}

// Sender builds go-mail messages from Message values and sends them
type Sender struct {
	transport Transport
	from      string
	timeout   time.Duration
}

// NewSender creates a relay client for the configured SMTP server
func NewSender(cfg config.SMTPConfig) (*Sender, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTimeout(15 * time.Second),
	}
	if cfg.TLS {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return NewSenderWithTransport(client, cfg.From), nil
}

// NewSenderWithTransport allows injecting a transport
func NewSenderWithTransport(t Transport, from string) *Sender {
	return &Sender{transport: t, from: from, timeout: 30 * time.Second}
}

// Send composes and delivers msg
func (s *Sender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("mail: no recipients")
	}

	m := gomail.NewMsg()
	if err := m.From(s.from); err != nil {
		return fmt.Errorf("mail from %q: %w", s.from, err)
	}
	if err := m.To(msg.To...); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetBodyString(gomail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.transport.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send %q: %w", msg.Subject, err)
	}
	return nil
}
