package document

import (
	"strings"
	"time"

	"github.com/parcelco/backoffice/internal/domain/shared"
	"github.com/parcelco/backoffice/internal/domain/shipment"
	"github.com/shopspring/decimal"
)

// Kind identifies a shipping document template
type Kind string

const (
	KindReceipt Kind = "receipt"
	KindWaybill Kind = "waybill"
)

// ParseKind parses a document kind
func ParseKind(v string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(v)))
	if k != KindReceipt && k != KindWaybill {
		return "", shared.NewDomainError("INVALID_INPUT", "Unknown document kind: "+v)
	}
	return k, nil
}

// Filename returns "<kind>-<tracking>.<ext>" with unsafe characters dropped
func Filename(kind Kind, trackingNumber, ext string) string {
	var b strings.Builder
	for _, r := range trackingNumber {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" {
		name = "document"
	}
	return string(kind) + "-" + name + "." + ext
}

// WaybillCopies are printed in this order, one per page section
var WaybillCopies = []string{"ACCOUNTS COPY", "CONSIGNEE COPY", "SHIPPER COPY"}

// Receipt is the data rendered on a payment receipt
type Receipt struct {
	ReceiptNumber  string
	TrackingNumber string
	IssuedAt       time.Time
	Sender         shipment.Party
	Receiver       shipment.Party
	ServiceName    string
	PaymentMode    string
	PaymentStatus  string
	Status         string
	Packages       []PackageLine
	Currency       string
	DeclaredValue  decimal.Decimal
	ShippingCost   decimal.Decimal
	Notes          string
}

// Validate checks the fields every receipt needs
func (r *Receipt) Validate() error {
	if strings.TrimSpace(r.TrackingNumber) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Tracking number is required")
	}
	if strings.TrimSpace(r.Sender.Name) == "" || strings.TrimSpace(r.Receiver.Name) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Sender and receiver names are required")
	}
	for _, p := range r.Packages {
		if err := p.validate(); err != nil {
			return err
		}
	}
	if r.Currency == "" {
		r.Currency = shipment.DefaultCurrency
	}
	if r.IssuedAt.IsZero() {
		r.IssuedAt = time.Now()
	}
	if r.ReceiptNumber == "" {
		r.ReceiptNumber = "RC-" + r.TrackingNumber
	}
	return nil
}

// Totals returns the weight totals of the receipt's packages
func (r *Receipt) Totals() Totals {
	return ComputeTotals(r.Packages)
}

// Waybill is the data rendered on a three-copy waybill
type Waybill struct {
	TrackingNumber    string
	ShipDate          time.Time
	Sender            shipment.Party
	Receiver          shipment.Party
	ServiceName       string
	PaymentMode       string
	Status            string
	Contents          string
	Pieces            int
	Weight            decimal.Decimal
	Dimensions        shipment.Dimensions
	DeclaredValue     decimal.Decimal
	Currency          string
	EstimatedDelivery *time.Time
	Notes             string
}

// Validate checks the fields every waybill needs
func (w *Waybill) Validate() error {
	if strings.TrimSpace(w.TrackingNumber) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Tracking number is required")
	}
	if strings.TrimSpace(w.Sender.Name) == "" || strings.TrimSpace(w.Receiver.Name) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Sender and receiver names are required")
	}
	if w.Pieces < 0 || w.Weight.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Pieces and weight cannot be negative")
	}
	if w.Pieces == 0 {
		w.Pieces = 1
	}
	if w.Currency == "" {
		w.Currency = shipment.DefaultCurrency
	}
	if w.ShipDate.IsZero() {
		w.ShipDate = time.Now()
	}
	return nil
}

// Origin is the sender's "City, Country"
func (w *Waybill) Origin() string {
	return w.Sender.CityCountry()
}

// Destination is the receiver's "City, Country"
func (w *Waybill) Destination() string {
	return w.Receiver.CityCountry()
}
