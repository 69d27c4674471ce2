package shipment

import (
	"strings"

	"github.com/parcelco/backoffice/internal/domain/shared"
)

// Status represents the lifecycle status of a shipment
type Status string

const (
	StatusPending        Status = "PENDING"
	StatusPickedUp       Status = "PICKED_UP"
	StatusInTransit      Status = "IN_TRANSIT"
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"
	StatusDelivered      Status = "DELIVERED"
	StatusCancelled      Status = "CANCELLED"
)

// AllStatuses lists every status in lifecycle order
var AllStatuses = []Status{
	StatusPending,
	StatusPickedUp,
	StatusInTransit,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status change is allowed
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// IsActive reports whether the shipment is still moving through the network
func (s Status) IsActive() bool {
	return s == StatusPickedUp || s == StatusInTransit || s == StatusOutForDelivery
}

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// Label returns a human readable label, e.g. "out for delivery"
func (s Status) Label() string {
	return strings.ToLower(strings.ReplaceAll(string(s), "_", " "))
}

// ParseStatus parses a status case-insensitively
func ParseStatus(v string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(v)))
	if !s.IsValid() {
		return "", shared.NewDomainError("INVALID_STATUS", "Unknown shipment status: "+v)
	}
	return s, nil
}

// PaymentMode represents how a shipment is paid for
type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "CASH"
	PaymentModeCard         PaymentMode = "CARD"
	PaymentModeBankTransfer PaymentMode = "BANK_TRANSFER"
	PaymentModeAccount      PaymentMode = "ACCOUNT"
	PaymentModeCOD          PaymentMode = "COD"
)

// IsValid reports whether m is a known payment mode
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModeCard, PaymentModeBankTransfer, PaymentModeAccount, PaymentModeCOD:
		return true
	}
	return false
}

// PaymentStatus represents the payment state of a shipment
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// IsValid reports whether p is a known payment status
func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded:
		return true
	}
	return false
}
