package shipment

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/parcelco/backoffice/internal/domain/shared"
	"github.com/parcelco/backoffice/internal/domain/shipment"
	"github.com/shopspring/decimal"
)

// PartyRequest is a sender or receiver in a create/update request
type PartyRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	Email        string `json:"email" binding:"omitempty,email,max=200"`
	Phone        string `json:"phone" binding:"max=50"`
	Company      string `json:"company" binding:"max=200"`
	AddressLine1 string `json:"address_line1" binding:"required,max=200"`
	AddressLine2 string `json:"address_line2" binding:"max=200"`
	City         string `json:"city" binding:"required,max=100"`
	State        string `json:"state" binding:"max=100"`
	PostalCode   string `json:"postal_code" binding:"max=20"`
	Country      string `json:"country" binding:"required,max=100"`
}

func (p PartyRequest) toDomain() shipment.Party {
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

// PackageRequest is one line item
type PackageRequest struct {
	Description string          `json:"description" binding:"max=200"`
	Quantity    int             `json:"quantity" binding:"required,min=1,max=10000"`
	Weight      decimal.Decimal `json:"weight"`
	Length      decimal.Decimal `json:"length"`
	Width       decimal.Decimal `json:"width"`
	Height      decimal.Decimal `json:"height"`
}

// ShipmentRequest carries the editable fields of a shipment. It is used for
// both create and full update.
type ShipmentRequest struct {
	Sender            PartyRequest     `json:"sender" binding:"required"`
	Receiver          PartyRequest     `json:"receiver" binding:"required"`
	ServiceID         uuid.UUID        `json:"service_id" binding:"required"`
	Weight            decimal.Decimal  `json:"weight"`
	Length            decimal.Decimal  `json:"length"`
	Width             decimal.Decimal  `json:"width"`
	Height            decimal.Decimal  `json:"height"`
	Pieces            int              `json:"pieces" binding:"min=0"`
	Packages          []PackageRequest `json:"packages" binding:"omitempty,max=100,dive"`
	DeclaredValue     decimal.Decimal  `json:"declared_value"`
	EstimatedCost     *decimal.Decimal `json:"estimated_cost"`
	ActualCost        decimal.Decimal  `json:"actual_cost"`
	Currency          string           `json:"currency" binding:"omitempty,len=3"`
	PaymentMode       string           `json:"payment_mode" binding:"omitempty,oneof=CASH CARD BANK_TRANSFER ACCOUNT COD"`
	CurrentLocation   string           `json:"current_location" binding:"max=200"`
	Notes             string           `json:"notes" binding:"max=2000"`
	EstimatedDelivery *time.Time       `json:"estimated_delivery"`
}

// toDetails converts the request; a missing estimated cost is quoted from the service
func (r ShipmentRequest) toDetails(svc *shipment.Service) shipment.Details {
	d := shipment.Details{
		Sender:            r.Sender.toDomain(),
		Receiver:          r.Receiver.toDomain(),
		Weight:            r.Weight,
		Dimensions:        shipment.Dimensions{Length: r.Length, Width: r.Width, Height: r.Height},
		Pieces:            r.Pieces,
		DeclaredValue:     r.DeclaredValue,
		ActualCost:        r.ActualCost,
		Currency:          r.Currency,
		ServiceID:         r.ServiceID,
		PaymentMode:       shipment.PaymentMode(strings.ToUpper(r.PaymentMode)),
		CurrentLocation:   strings.TrimSpace(r.CurrentLocation),
		Notes:             r.Notes,
		EstimatedDelivery: r.EstimatedDelivery,
	}
	if r.EstimatedCost != nil {
		d.EstimatedCost = *r.EstimatedCost
	} else if svc != nil {
		d.EstimatedCost = svc.Quote(r.Weight)
	}
	if d.EstimatedDelivery == nil && svc != nil && svc.EstimatedDays > 0 {
		eta := time.Now().AddDate(0, 0, svc.EstimatedDays)
		d.EstimatedDelivery = &eta
	}
	for _, p := range r.Packages {
		d.Packages = append(d.Packages, shipment.Package{
			Description: strings.TrimSpace(p.Description),
			Quantity:    p.Quantity,
			Weight:      p.Weight,
			Length:      p.Length,
			Width:       p.Width,
			Height:      p.Height,
		})
	}
	return d
}

// UpdateStatusRequest moves a shipment to a new status
type UpdateStatusRequest struct {
	Status      string     `json:"status" binding:"required"`
	Description string     `json:"description" binding:"max=500"`
	Location    string     `json:"location" binding:"max=200"`
	Timestamp   *time.Time `json:"timestamp"`
	Latitude    *float64   `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude   *float64   `json:"longitude" binding:"omitempty,min=-180,max=180"`
}

// AddEventRequest appends a free-form tracking event
type AddEventRequest struct {
	Status      string     `json:"status" binding:"required,max=50"`
	Description string     `json:"description" binding:"max=500"`
	Location    string     `json:"location" binding:"max=200"`
	Timestamp   *time.Time `json:"timestamp"`
	Latitude    *float64   `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude   *float64   `json:"longitude" binding:"omitempty,min=-180,max=180"`
}

// BulkDeleteRequest deletes several shipments at once
type BulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1,max=500"`
}

// BulkDeleteResult reports how many of the requested shipments were removed
type BulkDeleteResult struct {
	Requested int   `json:"requested"`
	Deleted   int64 `json:"deleted"`
}

// ListQuery is the listing query string
type ListQuery struct {
	Page      int    `form:"page" json:"page" binding:"omitempty,min=1,max=1000000"`
	Limit     int    `form:"limit" json:"limit" binding:"omitempty,min=1,max=100"`
	Status    string `form:"status" json:"status"`
	Search    string `form:"search" json:"search" binding:"max=100"`
	From      string `form:"from" json:"from"`
	To        string `form:"to" json:"to"`
	ServiceID string `form:"service_id" json:"service_id"`
	SortBy    string `form:"sort_by" json:"sort_by"`
	SortOrder string `form:"sort_order" json:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// ToFilter validates the query and converts it to a domain filter.
// Dates are RFC 3339 or YYYY-MM-DD; a date-only "to" includes that whole day.
func (q ListQuery) ToFilter() (shipment.ListFilter, error) {
	f := shipment.ListFilter{
		Filter: shared.Filter{
			Page:     q.Page,
			PageSize: q.Limit,
			OrderBy:  q.SortBy,
			OrderDir: q.SortOrder,
			Search:   q.Search,
		},
	}
	if q.Status != "" {
		status, err := shipment.ParseStatus(q.Status)
		if err != nil {
			return f, err
		}
		f.Status = status
	}
	if q.ServiceID != "" {
		id, err := uuid.Parse(q.ServiceID)
		if err != nil {
			return f, shared.NewDomainError("INVALID_INPUT", "service_id must be a UUID")
		}
		f.ServiceID = &id
	}
	from, err := shared.ParseDateBound(q.From, false)
	if err != nil {
		return f, err
	}
	to, err := shared.ParseDateBound(q.To, true)
	if err != nil {
		return f, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return f, shared.NewDomainError("INVALID_INPUT", "to must not be before from")
	}
	f.From, f.To = from, to
	return f.Normalize(), nil
}


// ExportRequest selects shipments to export
type ExportRequest struct {
	ListQuery
	Format string `json:"format" binding:"omitempty,oneof=csv xlsx"`
}

// PartyResponse is a sender or receiver
type PartyResponse struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Company      string `json:"company"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

func toPartyResponse(p shipment.Party) PartyResponse {
	return PartyResponse(p)
}

// PackageResponse is one line item
type PackageResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Weight      decimal.Decimal `json:"weight"`
	Length      decimal.Decimal `json:"length"`
	Width       decimal.Decimal `json:"width"`
	Height      decimal.Decimal `json:"height"`
}

// TrackingEventResponse is one tracking history entry
type TrackingEventResponse struct {
	ID          uuid.UUID `json:"id"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Timestamp   time.Time `json:"timestamp"`
}

// ToTrackingEventResponse converts a domain tracking event
func ToTrackingEventResponse(e shipment.TrackingEvent) TrackingEventResponse {
	return TrackingEventResponse{
		ID:          e.ID,
		Status:      e.Status,
		Description: e.Description,
		Location:    e.Location,
		Timestamp:   e.Timestamp,
	}
}

func toTrackingEventResponses(events []shipment.TrackingEvent) []TrackingEventResponse {
	out := make([]TrackingEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, ToTrackingEventResponse(e))
	}
	return out
}

// ShipmentResponse is the full admin view of a shipment
type ShipmentResponse struct {
	ID                uuid.UUID               `json:"id"`
	TrackingNumber    string                  `json:"tracking_number"`
	Status            string                  `json:"status"`
	Sender            PartyResponse           `json:"sender"`
	Receiver          PartyResponse           `json:"receiver"`
	Weight            decimal.Decimal         `json:"weight"`
	Length            decimal.Decimal         `json:"length"`
	Width             decimal.Decimal         `json:"width"`
	Height            decimal.Decimal         `json:"height"`
	Pieces            int                     `json:"pieces"`
	Packages          []PackageResponse       `json:"packages"`
	DeclaredValue     decimal.Decimal         `json:"declared_value"`
	EstimatedCost     decimal.Decimal         `json:"estimated_cost"`
	ActualCost        decimal.Decimal         `json:"actual_cost"`
	Currency          string                  `json:"currency"`
	ServiceID         uuid.UUID               `json:"service_id"`
	PaymentMode       string                  `json:"payment_mode"`
	PaymentStatus     string                  `json:"payment_status"`
	CurrentLocation   string                  `json:"current_location"`
	Latitude          *float64                `json:"latitude,omitempty"`
	Longitude         *float64                `json:"longitude,omitempty"`
	Notes             string                  `json:"notes"`
	EstimatedDelivery *time.Time              `json:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time              `json:"actual_delivery,omitempty"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
	Events            []TrackingEventResponse `json:"events,omitempty"`
}

// ToShipmentResponse converts a domain shipment
func ToShipmentResponse(s *shipment.Shipment) ShipmentResponse {
	packages := make([]PackageResponse, 0, len(s.Packages))
	for _, p := range s.Packages {
		packages = append(packages, PackageResponse{
			ID:          p.ID,
			Description: p.Description,
			Quantity:    p.Quantity,
			Weight:      p.Weight,
			Length:      p.Length,
			Width:       p.Width,
			Height:      p.Height,
		})
	}
	return ShipmentResponse{
		ID:                s.ID,
		TrackingNumber:    s.TrackingNumber,
		Status:            string(s.Status),
		Sender:            toPartyResponse(s.Sender),
		Receiver:          toPartyResponse(s.Receiver),
		Weight:            s.Weight,
		Length:            s.Dimensions.Length,
		Width:             s.Dimensions.Width,
		Height:            s.Dimensions.Height,
		Pieces:            s.Pieces,
		Packages:          packages,
		DeclaredValue:     s.DeclaredValue,
		EstimatedCost:     s.EstimatedCost,
		ActualCost:        s.ActualCost,
		Currency:          s.Currency,
		ServiceID:         s.ServiceID,
		PaymentMode:       string(s.PaymentMode),
		PaymentStatus:     string(s.PaymentStatus),
		CurrentLocation:   s.CurrentLocation,
		Latitude:          s.CurrentLat,
		Longitude:         s.CurrentLng,
		Notes:             s.Notes,
		EstimatedDelivery: s.EstimatedDelivery,
		ActualDelivery:    s.ActualDelivery,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// ShipmentListItem is one row of the admin listing
type ShipmentListItem struct {
	ID                uuid.UUID       `json:"id"`
	TrackingNumber    string          `json:"tracking_number"`
	Status            string          `json:"status"`
	SenderName        string          `json:"sender_name"`
	ReceiverName      string          `json:"receiver_name"`
	Origin            string          `json:"origin"`
	Destination       string          `json:"destination"`
	Weight            decimal.Decimal `json:"weight"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`
	Currency          string          `json:"currency"`
	ServiceID         uuid.UUID       `json:"service_id"`
	CurrentLocation   string          `json:"current_location"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ToShipmentListItem converts a domain shipment to a listing row
func ToShipmentListItem(s *shipment.Shipment) ShipmentListItem {
	return ShipmentListItem{
		ID:                s.ID,
		TrackingNumber:    s.TrackingNumber,
		Status:            string(s.Status),
		SenderName:        s.Sender.Name,
		ReceiverName:      s.Receiver.Name,
		Origin:            s.Sender.CityCountry(),
		Destination:       s.Receiver.CityCountry(),
		Weight:            s.Weight,
		EstimatedCost:     s.EstimatedCost,
		Currency:          s.Currency,
		ServiceID:         s.ServiceID,
		CurrentLocation:   s.CurrentLocation,
		EstimatedDelivery: s.EstimatedDelivery,
		CreatedAt:         s.CreatedAt,
	}
}

// ListResult is one page of the admin listing
type ListResult = shared.Paginated[ShipmentListItem]

// CountryStat is the number of shipments bound for one country
type CountryStat struct {
	Country string `json:"country"`
	Count   int64  `json:"count"`
	Active  int64  `json:"active"`
}

// LocatedShipment is an active shipment with known coordinates
type LocatedShipment struct {
	ID              uuid.UUID `json:"id"`
	TrackingNumber  string    `json:"tracking_number"`
	Status          string    `json:"status"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	CurrentLocation string    `json:"current_location"`
	Destination     string    `json:"destination"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// WorldResponse is the data behind the world map
type WorldResponse struct {
	Countries []CountryStat     `json:"countries"`
	Shipments []LocatedShipment `json:"shipments"`
}

// TrackingView is the public tracking page. It carries no sender or
// receiver contact details.
type TrackingView struct {
	TrackingNumber    string                  `json:"tracking_number"`
	Status            string                  `json:"status"`
	StatusLabel       string                  `json:"status_label"`
	Origin            string                  `json:"origin"`
	Destination       string                  `json:"destination"`
	ServiceName       string                  `json:"service_name"`
	CurrentLocation   string                  `json:"current_location"`
	Pieces            int                     `json:"pieces"`
	Weight            decimal.Decimal         `json:"weight"`
	EstimatedDelivery *time.Time              `json:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time              `json:"actual_delivery,omitempty"`
	CreatedAt         time.Time               `json:"created_at"`
	Events            []TrackingEventResponse `json:"events"`
}

// ServiceRequest creates or updates a shipping service
type ServiceRequest struct {
	Code          string          `json:"code" binding:"required,max=50"`
	Name          string          `json:"name" binding:"required,max=100"`
	Description   string          `json:"description" binding:"max=2000"`
	BasePrice     decimal.Decimal `json:"base_price"`
	PricePerKg    decimal.Decimal `json:"price_per_kg"`
	EstimatedDays int             `json:"estimated_days" binding:"min=0,max=365"`
	Active        *bool           `json:"active"`
}

// ServiceResponse is a shipping service
type ServiceResponse struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	BasePrice     decimal.Decimal `json:"base_price"`
	PricePerKg    decimal.Decimal `json:"price_per_kg"`
	EstimatedDays int             `json:"estimated_days"`
	Active        bool            `json:"active"`
}

// ToServiceResponse converts a domain service
func ToServiceResponse(s *shipment.Service) ServiceResponse {
	return ServiceResponse{
		ID:            s.ID,
		Code:          s.Code,
		Name:          s.Name,
		Description:   s.Description,
		BasePrice:     s.BasePrice,
		PricePerKg:    s.PricePerKg,
		EstimatedDays: s.EstimatedDays,
		Active:        s.Active,
	}
}
