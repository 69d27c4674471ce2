package document

import (
	"time"

	"github.com/parcelco/backoffice/internal/domain/shipment"
)

func serviceName(svc *shipment.Service) string {
	if svc == nil {
		return ""
	}
	return svc.Name
}

func packageLines(s *shipment.Shipment) []PackageLine {
	lines := make([]PackageLine, 0, len(s.Packages))
	for _, p := range s.Packages {
		lines = append(lines, PackageLine{
			Description: p.Description,
			Quantity:    p.Quantity,
			Weight:      p.Weight,
			Length:      p.Length,
			Width:       p.Width,
			Height:      p.Height,
		})
	}
	return lines
}

// ReceiptFromShipment builds receipt data from a stored shipment.
// Shipments without package rows get one line carrying the headline weight
// and dimensions.
func ReceiptFromShipment(s *shipment.Shipment, svc *shipment.Service, issuedAt time.Time) *Receipt {
	lines := packageLines(s)
	if len(lines) == 0 && s.Weight.IsPositive() {
		lines = append(lines, PackageLine{
			Description: "Consignment",
			Quantity:    1,
			Weight:      s.Weight,
			Length:      s.Dimensions.Length,
			Width:       s.Dimensions.Width,
			Height:      s.Dimensions.Height,
		})
	}
	cost := s.ActualCost
	if cost.IsZero() {
		cost = s.EstimatedCost
	}
	return &Receipt{
		ReceiptNumber:  "RC-" + s.TrackingNumber,
		TrackingNumber: s.TrackingNumber,
		IssuedAt:       issuedAt,
		Sender:         s.Sender,
		Receiver:       s.Receiver,
		ServiceName:    serviceName(svc),
		PaymentMode:    string(s.PaymentMode),
		PaymentStatus:  string(s.PaymentStatus),
		Status:         string(s.Status),
		Packages:       lines,
		Currency:       s.Currency,
		DeclaredValue:  s.DeclaredValue,
		ShippingCost:   cost,
		Notes:          s.Notes,
	}
}

// WaybillFromShipment builds waybill data from a stored shipment
func WaybillFromShipment(s *shipment.Shipment, svc *shipment.Service) *Waybill {
	contents := ""
	for i, p := range s.Packages {
		if i > 0 {
			contents += ", "
		}
		contents += p.Description
	}
	return &Waybill{
		TrackingNumber:    s.TrackingNumber,
		ShipDate:          s.CreatedAt,
		Sender:            s.Sender,
		Receiver:          s.Receiver,
		ServiceName:       serviceName(svc),
		PaymentMode:       string(s.PaymentMode),
		Status:            string(s.Status),
		Contents:          contents,
		Pieces:            s.Pieces,
		Weight:            s.Weight,
		Dimensions:        s.Dimensions,
		DeclaredValue:     s.DeclaredValue,
		Currency:          s.Currency,
		EstimatedDelivery: s.EstimatedDelivery,
		Notes:             s.Notes,
	}
}
