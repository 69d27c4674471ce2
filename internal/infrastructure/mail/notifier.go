package mail

import (
	"context"
	"fmt"

	"github.com/parcelco/backoffice/internal/application/contact"
	domaincontact "github.com/parcelco/backoffice/internal/domain/contact"
	"github.com/parcelco/backoffice/internal/domain/shared"
	"github.com/parcelco/backoffice/internal/domain/shipment"
	"go.uber.org/zap"
)

// StatusNotifier emails the receiver when a shipment changes status
type StatusNotifier struct {
	sender      *Sender
	company     string
	trackingURL func(trackingNumber string) string
	logger      *zap.Logger
}

// NewStatusNotifier creates a StatusNotifier. trackingURL builds the public
// tracking link for a tracking number.
func NewStatusNotifier(sender *Sender, company string, trackingURL func(string) string, logger *zap.Logger) *StatusNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusNotifier{sender: sender, company: company, trackingURL: trackingURL, logger: logger}
}

// EventTypes implements shared.EventHandler
func (n *StatusNotifier) EventTypes() []string {
	return []string{shipment.EventTypeShipmentStatusChanged}
}

type statusView struct {
	ReceiverName   string
	TrackingNumber string
	Status         string
	Location       string
	Description    string
	TrackingURL    string
	Company        string
}

// Handle implements shared.EventHandler
func (n *StatusNotifier) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*shipment.ShipmentStatusChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}
	if e.ReceiverEmail == "" {
		n.logger.Debug("receiver has no email, skipping status notification",
			zap.String("tracking_number", e.TrackingNumber))
		return nil
	}

	view := statusView{
		ReceiverName:   e.ReceiverName,
		TrackingNumber: e.TrackingNumber,
		Status:         e.NewStatus.Label(),
		Location:       e.Location,
		Description:    e.Description,
		TrackingURL:    n.trackingURL(e.TrackingNumber),
		Company:        n.company,
	}
	text, err := renderText("status_changed.txt", view)
	if err != nil {
		return err
	}
	html, err := renderHTML("status_changed.html", view)
	if err != nil {
		return err
	}

	return n.sender.Send(ctx, Message{
		To:      []string{e.ReceiverEmail},
		Subject: fmt.Sprintf("Parcel %s: %s", e.TrackingNumber, view.Status),
		Text:    text,
		HTML:    html,
	})
}

var _ shared.EventHandler = (*StatusNotifier)(nil)

// ContactNotifier emails staff about new contact form submissions
type ContactNotifier struct {
	sender     *Sender
	recipients []string
}

// NewContactNotifier creates a ContactNotifier sending to recipients
func NewContactNotifier(sender *Sender, recipients []string) *ContactNotifier {
	return &ContactNotifier{sender: sender, recipients: recipients}
}

// ContactSubmitted implements contact.Notifier
func (n *ContactNotifier) ContactSubmitted(ctx context.Context, form *domaincontact.Form) error {
	if len(n.recipients) == 0 {
		return nil
	}
	text, err := renderText("contact_submitted.txt", form)
	if err != nil {
		return err
	}
	subject := form.Subject
	if subject == "" {
		subject = "New contact request from " + form.Name
	}
	return n.sender.Send(ctx, Message{
		To:      n.recipients,
		Subject: "[Contact] " + subject,
		Text:    text,
	})
}

var _ contact.Notifier = (*ContactNotifier)(nil)
