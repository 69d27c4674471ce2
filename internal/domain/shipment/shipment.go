package shipment

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/parcelco/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a shipment is created without a currency
const DefaultCurrency = "USD"

// Party is a sender or receiver with contact and address details
type Party struct {
	Name         string
	Email        string
	Phone        string
	Company      string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
}

// Validate checks the fields required to route a parcel
func (p Party) Validate(role string) error {
	if strings.TrimSpace(p.Name) == "" {
		return shared.NewDomainError("INVALID_PARTY", role+" name cannot be empty")
	}
	if strings.TrimSpace(p.AddressLine1) == "" {
		return shared.NewDomainError("INVALID_PARTY", role+" address cannot be empty")
	}
	if strings.TrimSpace(p.City) == "" {
		return shared.NewDomainError("INVALID_PARTY", role+" city cannot be empty")
	}
	if strings.TrimSpace(p.Country) == "" {
		return shared.NewDomainError("INVALID_PARTY", role+" country cannot be empty")
	}
	return nil
}

// CityCountry returns "City, Country" for routing labels
func (p Party) CityCountry() string {
	switch {
	case p.City == "":
		return p.Country
	case p.Country == "":
		return p.City
	}
	return p.City + ", " + p.Country
}

// Dimensions of the consignment in centimetres
type Dimensions struct {
	Length decimal.Decimal
	Width  decimal.Decimal
	Height decimal.Decimal
}

// Package is a line item of a shipment
type Package struct {
	ID          uuid.UUID
	Description string
	Quantity    int
	Weight      decimal.Decimal
	Length      decimal.Decimal
	Width       decimal.Decimal
	Height      decimal.Decimal
}

func (p Package) validate() error {
	if p.Quantity <= 0 {
		return shared.NewDomainError("INVALID_PACKAGE", "Package quantity must be positive")
	}
	if p.Weight.IsNegative() || p.Length.IsNegative() || p.Width.IsNegative() || p.Height.IsNegative() {
		return shared.NewDomainError("INVALID_PACKAGE", "Package measurements cannot be negative")
	}
	return nil
}

// Details holds the editable fields of a shipment
type Details struct {
	Sender            Party
	Receiver          Party
	Weight            decimal.Decimal
	Dimensions        Dimensions
	Pieces            int
	Packages          []Package
	DeclaredValue     decimal.Decimal
	EstimatedCost     decimal.Decimal
	ActualCost        decimal.Decimal
	Currency          string
	ServiceID         uuid.UUID
	PaymentMode       PaymentMode
	CurrentLocation   string
	Notes             string
	EstimatedDelivery *time.Time
}

func (d *Details) normalize() error {
	if err := d.Sender.Validate("Sender"); err != nil {
		return err
	}
	if err := d.Receiver.Validate("Receiver"); err != nil {
		return err
	}
	if d.ServiceID == uuid.Nil {
		return shared.NewDomainError("INVALID_SERVICE", "Shipment must reference a service")
	}
	if d.Weight.IsNegative() {
		return shared.NewDomainError("INVALID_WEIGHT", "Weight cannot be negative")
	}
	if d.DeclaredValue.IsNegative() || d.EstimatedCost.IsNegative() || d.ActualCost.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amounts cannot be negative")
	}
	if d.PaymentMode == "" {
		d.PaymentMode = PaymentModeCash
	}
	if !d.PaymentMode.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_MODE", "Unknown payment mode: "+string(d.PaymentMode))
	}
	d.Currency = strings.ToUpper(strings.TrimSpace(d.Currency))
	if d.Currency == "" {
		d.Currency = DefaultCurrency
	}
	if len(d.Currency) != 3 {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter code")
	}
	pieces := 0
	for i := range d.Packages {
		if err := d.Packages[i].validate(); err != nil {
			return err
		}
		if d.Packages[i].ID == uuid.Nil {
			d.Packages[i].ID = uuid.New()
		}
		pieces += d.Packages[i].Quantity
	}
	if pieces > 0 {
		d.Pieces = pieces
	}
	if d.Pieces <= 0 {
		d.Pieces = 1
	}
	return nil
}

// Shipment is the aggregate root of a single parcel movement
type Shipment struct {
	shared.BaseAggregateRoot
	TrackingNumber    string
	Status            Status
	Sender            Party
	Receiver          Party
	Weight            decimal.Decimal
	Dimensions        Dimensions
	Pieces            int
	Packages          []Package
	DeclaredValue     decimal.Decimal
	EstimatedCost     decimal.Decimal
	ActualCost        decimal.Decimal
	Currency          string
	ServiceID         uuid.UUID
	PaymentMode       PaymentMode
	PaymentStatus     PaymentStatus
	CurrentLocation   string
	CurrentLat        *float64
	CurrentLng        *float64
	Notes             string
	EstimatedDelivery *time.Time
	ActualDelivery    *time.Time

	pendingEvents []TrackingEvent
}

// NewShipment creates a PENDING shipment with a fresh tracking number and
// an initial tracking event.
func NewShipment(d Details) (*Shipment, error) {
	if err := d.normalize(); err != nil {
		return nil, err
	}
	s := &Shipment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            StatusPending,
		PaymentStatus:     PaymentStatusPending,
	}
	s.TrackingNumber = GenerateTrackingNumber(s.CreatedAt)
	s.apply(d)

	location := d.CurrentLocation
	if location == "" {
		location = d.Sender.CityCountry()
		s.CurrentLocation = location
	}
	ev, err := NewTrackingEvent(s.ID, string(StatusPending), "Shipment created", location, s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.pendingEvents = append(s.pendingEvents, *ev)
	s.AddDomainEvent(NewShipmentCreatedEvent(s))
	return s, nil
}

func (s *Shipment) apply(d Details) {
	s.Sender = d.Sender
	s.Receiver = d.Receiver
	s.Weight = d.Weight
	s.Dimensions = d.Dimensions
	s.Pieces = d.Pieces
	s.Packages = d.Packages
	s.DeclaredValue = d.DeclaredValue
	s.EstimatedCost = d.EstimatedCost
	s.ActualCost = d.ActualCost
	s.Currency = d.Currency
	s.ServiceID = d.ServiceID
	s.PaymentMode = d.PaymentMode
	if d.CurrentLocation != "" {
		s.CurrentLocation = d.CurrentLocation
	}
	s.Notes = d.Notes
	s.EstimatedDelivery = d.EstimatedDelivery
}

// UpdateDetails replaces the editable fields. Finished shipments are read-only.
func (s *Shipment) UpdateDetails(d Details) error {
	if s.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot edit a shipment that is "+s.Status.Label())
	}
	if err := d.normalize(); err != nil {
		return err
	}
	s.apply(d)
	s.Touch()
	return nil
}

// ChangeStatus moves the shipment to a new status and appends the matching
// tracking event. DELIVERED stamps the actual delivery time and settles COD.
func (s *Shipment) ChangeStatus(status Status, description, location string, at time.Time) (*TrackingEvent, error) {
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown shipment status: "+string(status))
	}
	if s.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", "Shipment is already "+s.Status.Label())
	}
	if s.Status == status {
		return nil, shared.NewDomainError("INVALID_STATE", "Shipment is already "+status.Label())
	}
	if at.IsZero() {
		at = time.Now()
	}
	if location == "" {
		location = s.CurrentLocation
	}
	if description == "" {
		description = "Shipment " + status.Label()
	}

	ev, err := NewTrackingEvent(s.ID, string(status), description, location, at)
	if err != nil {
		return nil, err
	}

	old := s.Status
	s.Status = status
	s.CurrentLocation = location
	if status == StatusDelivered {
		delivered := at
		s.ActualDelivery = &delivered
		if s.PaymentMode == PaymentModeCOD {
			s.PaymentStatus = PaymentStatusPaid
		}
	}
	s.Touch()
	s.pendingEvents = append(s.pendingEvents, *ev)
	s.AddDomainEvent(NewShipmentStatusChangedEvent(s, old, ev))
	return ev, nil
}

// AddEvent appends a free-form tracking event without changing the status.
// A non-empty location becomes the current location.
func (s *Shipment) AddEvent(label, description, location string, at time.Time) (*TrackingEvent, error) {
	ev, err := NewTrackingEvent(s.ID, label, description, location, at)
	if err != nil {
		return nil, err
	}
	if ev.Location != "" {
		s.CurrentLocation = ev.Location
	}
	s.Touch()
	s.pendingEvents = append(s.pendingEvents, *ev)
	return ev, nil
}

// SetPosition records the coordinates shown on the world map
func (s *Shipment) SetPosition(lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return shared.NewDomainError("INVALID_COORDINATES", "Coordinates are out of range")
	}
	s.CurrentLat = &lat
	s.CurrentLng = &lng
	s.Touch()
	return nil
}

// SetPaymentStatus updates the payment status
func (s *Shipment) SetPaymentStatus(status PaymentStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_STATUS", "Unknown payment status: "+string(status))
	}
	s.PaymentStatus = status
	s.Touch()
	return nil
}

// MarkDeleted records the deletion for event subscribers
func (s *Shipment) MarkDeleted() {
	s.AddDomainEvent(NewShipmentDeletedEvent(s))
}

// HasPosition reports whether coordinates are known
func (s *Shipment) HasPosition() bool {
	return s.CurrentLat != nil && s.CurrentLng != nil
}

// PendingTrackingEvents returns tracking events not yet persisted
func (s *Shipment) PendingTrackingEvents() []TrackingEvent {
	return s.pendingEvents
}

// ClearPendingTrackingEvents is called by the repository after persisting
func (s *Shipment) ClearPendingTrackingEvents() {
	s.pendingEvents = nil
}
