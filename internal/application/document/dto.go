package document

import (
	"strings"
	"time"

	"github.com/parcelco/backoffice/internal/domain/document"
	"github.com/parcelco/backoffice/internal/domain/shipment"
	"github.com/shopspring/decimal"
)

// PartyData is a sender or receiver as printed on a document
type PartyData struct {
	Name         string `json:"name" binding:"required,max=100"`
	Email        string `json:"email" binding:"max=200"`
	Phone        string `json:"phone" binding:"max=50"`
	Company      string `json:"company" binding:"max=200"`
	AddressLine1 string `json:"address_line1" binding:"max=200"`
	AddressLine2 string `json:"address_line2" binding:"max=200"`
	City         string `json:"city" binding:"max=100"`
	State        string `json:"state" binding:"max=100"`
	PostalCode   string `json:"postal_code" binding:"max=20"`
	Country      string `json:"country" binding:"max=100"`
}

func (p PartyData) toDomain() shipment.Party {
	return shipment.Party{
		Name:         strings.TrimSpace(p.Name),
		Email:        strings.TrimSpace(p.Email),
		Phone:        strings.TrimSpace(p.Phone),
		Company:      strings.TrimSpace(p.Company),
		AddressLine1: strings.TrimSpace(p.AddressLine1),
		AddressLine2: strings.TrimSpace(p.AddressLine2),
		City:         strings.TrimSpace(p.City),
		State:        strings.TrimSpace(p.State),
		PostalCode:   strings.TrimSpace(p.PostalCode),
		Country:      strings.TrimSpace(p.Country),
	}
}

// PackageData is one row of the receipt's package table
type PackageData struct {
	Description string          `json:"description" binding:"max=200"`
	Quantity    int             `json:"quantity" binding:"min=0"`
	Weight      decimal.Decimal `json:"weight"`
	Length      decimal.Decimal `json:"length"`
	Width       decimal.Decimal `json:"width"`
	Height      decimal.Decimal `json:"height"`
}

// ReceiptRequest is receipt data supplied by the caller
type ReceiptRequest struct {
	ReceiptNumber  string          `json:"receipt_number" binding:"max=64"`
	TrackingNumber string          `json:"tracking_number" binding:"required,max=64"`
	IssuedAt       *time.Time      `json:"issued_at"`
	Sender         PartyData       `json:"sender" binding:"required"`
	Receiver       PartyData       `json:"receiver" binding:"required"`
	ServiceName    string          `json:"service_name" binding:"max=100"`
	PaymentMode    string          `json:"payment_mode" binding:"max=30"`
	PaymentStatus  string          `json:"payment_status" binding:"max=30"`
	Status         string          `json:"status" binding:"max=30"`
	Packages       []PackageData   `json:"packages" binding:"omitempty,max=100,dive"`
	Currency       string          `json:"currency" binding:"omitempty,len=3"`
	DeclaredValue  decimal.Decimal `json:"declared_value"`
	ShippingCost   decimal.Decimal `json:"shipping_cost"`
	Notes          string          `json:"notes" binding:"max=2000"`
}

// ToDomain converts the request to receipt data
func (r ReceiptRequest) ToDomain() *document.Receipt {
	rc := &document.Receipt{
		ReceiptNumber:  strings.TrimSpace(r.ReceiptNumber),
		TrackingNumber: strings.TrimSpace(r.TrackingNumber),
		Sender:         r.Sender.toDomain(),
		Receiver:       r.Receiver.toDomain(),
		ServiceName:    r.ServiceName,
		PaymentMode:    r.PaymentMode,
		PaymentStatus:  r.PaymentStatus,
		Status:         r.Status,
		Currency:       strings.ToUpper(r.Currency),
		DeclaredValue:  r.DeclaredValue,
		ShippingCost:   r.ShippingCost,
		Notes:          r.Notes,
	}
	if r.IssuedAt != nil {
		rc.IssuedAt = *r.IssuedAt
	}
	for _, p := range r.Packages {
		qty := p.Quantity
		if qty == 0 {
			qty = 1
		}
		rc.Packages = append(rc.Packages, document.PackageLine{
			Description: p.Description,
			Quantity:    qty,
			Weight:      p.Weight,
			Length:      p.Length,
			Width:       p.Width,
			Height:      p.Height,
		})
	}
	return rc
}

// WaybillRequest is waybill data supplied by the caller
type WaybillRequest struct {
	TrackingNumber    string          `json:"tracking_number" binding:"required,max=64"`
	ShipDate          *time.Time      `json:"ship_date"`
	Sender            PartyData       `json:"sender" binding:"required"`
	Receiver          PartyData       `json:"receiver" binding:"required"`
	ServiceName       string          `json:"service_name" binding:"max=100"`
	PaymentMode       string          `json:"payment_mode" binding:"max=30"`
	Status            string          `json:"status" binding:"max=30"`
	Contents          string          `json:"contents" binding:"max=500"`
	Pieces            int             `json:"pieces" binding:"min=0"`
	Weight            decimal.Decimal `json:"weight"`
	Length            decimal.Decimal `json:"length"`
	Width             decimal.Decimal `json:"width"`
	Height            decimal.Decimal `json:"height"`
	DeclaredValue     decimal.Decimal `json:"declared_value"`
	Currency          string          `json:"currency" binding:"omitempty,len=3"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery"`
	Notes             string          `json:"notes" binding:"max=2000"`
}

// ToDomain converts the request to waybill data
func (r WaybillRequest) ToDomain() *document.Waybill {
	w := &document.Waybill{
		TrackingNumber:    strings.TrimSpace(r.TrackingNumber),
		Sender:            r.Sender.toDomain(),
		Receiver:          r.Receiver.toDomain(),
		ServiceName:       r.ServiceName,
		PaymentMode:       r.PaymentMode,
		Status:            r.Status,
		Contents:          r.Contents,
		Pieces:            r.Pieces,
		Weight:            r.Weight,
		Dimensions:        shipment.Dimensions{Length: r.Length, Width: r.Width, Height: r.Height},
		DeclaredValue:     r.DeclaredValue,
		Currency:          strings.ToUpper(r.Currency),
		EstimatedDelivery: r.EstimatedDelivery,
		Notes:             r.Notes,
	}
	if r.ShipDate != nil {
		w.ShipDate = *r.ShipDate
	}
	return w
}

// Output is a rendered document ready to be written to the client
type Output struct {
	Filename    string
	ContentType string
	Attachment  bool
	Body        []byte
	ArchiveKey  string
}
