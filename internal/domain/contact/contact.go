package contact

import (
	"net/mail"
	"strings"

	"github.com/parcelco/backoffice/internal/domain/shared"
)

// Status represents the handling state of a contact submission
type Status string

const (
	StatusNew        Status = "NEW"
	StatusInProgress Status = "IN_PROGRESS"
	StatusResolved   Status = "RESOLVED"
	StatusArchived   Status = "ARCHIVED"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusResolved, StatusArchived:
		return true
	}
	return false
}

// ParseStatus parses a status case-insensitively
func ParseStatus(v string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(v)))
	if !s.IsValid() {
		return "", shared.NewDomainError("INVALID_STATUS", "Unknown contact status: "+v)
	}
	return s, nil
}

// Form is an inquiry submitted through the public contact page
type Form struct {
	shared.BaseEntity
	Name    string
	Email   string
	Company string
	Phone   string
	Subject string
	Message string
	Status  Status
}

// NewForm validates and creates a NEW submission
func NewForm(name, email, company, phone, subject, message string) (*Form, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	message = strings.TrimSpace(message)

	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Name cannot exceed 100 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Email address is invalid")
	}
	if message == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Message cannot be empty")
	}
	if len(message) > 5000 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Message cannot exceed 5000 characters")
	}

	return &Form{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      email,
		Company:    strings.TrimSpace(company),
		Phone:      strings.TrimSpace(phone),
		Subject:    strings.TrimSpace(subject),
		Message:    message,
		Status:     StatusNew,
	}, nil
}

// ChangeStatus moves the submission to a new handling state
func (f *Form) ChangeStatus(status Status) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown contact status: "+string(status))
	}
	if f.Status == status {
		return shared.NewDomainError("INVALID_STATE", "Submission already has status "+string(status))
	}
	f.Status = status
	f.Touch()
	return nil
}
