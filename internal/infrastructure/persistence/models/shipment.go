package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/parcelco/backoffice/internal/domain/shared"
	"github.com/parcelco/backoffice/internal/domain/shipment"
	"github.com/shopspring/decimal"
)

// PartyColumns is embedded twice in ShipmentModel with sender_/receiver_ prefixes
type PartyColumns struct {
	Name         string `gorm:"type:varchar(100);not null"`
	Email        string `gorm:"type:varchar(200)"`
	Phone        string `gorm:"type:varchar(50)"`
	Company      string `gorm:"type:varchar(200)"`
	AddressLine1 string `gorm:"type:varchar(200);not null"`
	AddressLine2 string `gorm:"type:varchar(200)"`
	City         string `gorm:"type:varchar(100);not null"`
	State        string `gorm:"type:varchar(100)"`
	PostalCode   string `gorm:"type:varchar(20)"`
	Country      string `gorm:"type:varchar(100);not null"`
}

func partyColumns(p shipment.Party) PartyColumns {
	return PartyColumns(p)
}

func (c PartyColumns) toDomain() shipment.Party {
	return shipment.Party(c)
}

// ShipmentModel is the persistence model for the Shipment aggregate
type ShipmentModel struct {
	BaseModel
	TrackingNumber    string                 `gorm:"type:varchar(32);not null;uniqueIndex"`
	Status            shipment.Status        `gorm:"type:varchar(20);not null;index"`
	Sender            PartyColumns           `gorm:"embedded;embeddedPrefix:sender_"`
	Receiver          PartyColumns           `gorm:"embedded;embeddedPrefix:receiver_"`
	Weight            decimal.Decimal        `gorm:"type:decimal(12,3);not null;default:0"`
	Length            decimal.Decimal        `gorm:"type:decimal(10,2);not null;default:0"`
	Width             decimal.Decimal        `gorm:"type:decimal(10,2);not null;default:0"`
	Height            decimal.Decimal        `gorm:"type:decimal(10,2);not null;default:0"`
	Pieces            int                    `gorm:"not null;default:1"`
	DeclaredValue     decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	EstimatedCost     decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	ActualCost        decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	Currency          string                 `gorm:"type:char(3);not null"`
	ServiceID         uuid.UUID              `gorm:"type:uuid;not null;index"`
	PaymentMode       shipment.PaymentMode   `gorm:"type:varchar(20);not null"`
	PaymentStatus     shipment.PaymentStatus `gorm:"type:varchar(20);not null"`
	CurrentLocation   string                 `gorm:"type:varchar(200)"`
	CurrentLat        *float64
	CurrentLng        *float64
	Notes             string `gorm:"type:text"`
	EstimatedDelivery *time.Time
	ActualDelivery    *time.Time
	Packages          []PackageModel `gorm:"foreignKey:ShipmentID"`
}

// TableName returns the table name for GORM
func (ShipmentModel) TableName() string {
	return "shipments"
}

// ToDomain converts the model to a domain Shipment
func (m *ShipmentModel) ToDomain() *shipment.Shipment {
	s := &shipment.Shipment{
		BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: m.BaseModel.ToDomain()},
		TrackingNumber:    m.TrackingNumber,
		Status:            m.Status,
		Sender:            m.Sender.toDomain(),
		Receiver:          m.Receiver.toDomain(),
		Weight:            m.Weight,
		Dimensions:        shipment.Dimensions{Length: m.Length, Width: m.Width, Height: m.Height},
		Pieces:            m.Pieces,
		DeclaredValue:     m.DeclaredValue,
		EstimatedCost:     m.EstimatedCost,
		ActualCost:        m.ActualCost,
		Currency:          m.Currency,
		ServiceID:         m.ServiceID,
		PaymentMode:       m.PaymentMode,
		PaymentStatus:     m.PaymentStatus,
		CurrentLocation:   m.CurrentLocation,
		CurrentLat:        m.CurrentLat,
		CurrentLng:        m.CurrentLng,
		Notes:             m.Notes,
		EstimatedDelivery: m.EstimatedDelivery,
		ActualDelivery:    m.ActualDelivery,
	}
	if len(m.Packages) > 0 {
		s.Packages = make([]shipment.Package, 0, len(m.Packages))
		for _, p := range m.Packages {
			s.Packages = append(s.Packages, p.ToDomain())
		}
	}
	return s
}

// FromDomain populates the model from a domain Shipment, packages included
func (m *ShipmentModel) FromDomain(s *shipment.Shipment) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.TrackingNumber = s.TrackingNumber
	m.Status = s.Status
	m.Sender = partyColumns(s.Sender)
	m.Receiver = partyColumns(s.Receiver)
	m.Weight = s.Weight
	m.Length = s.Dimensions.Length
	m.Width = s.Dimensions.Width
	m.Height = s.Dimensions.Height
	m.Pieces = s.Pieces
	m.DeclaredValue = s.DeclaredValue
	m.EstimatedCost = s.EstimatedCost
	m.ActualCost = s.ActualCost
	m.Currency = s.Currency
	m.ServiceID = s.ServiceID
	m.PaymentMode = s.PaymentMode
	m.PaymentStatus = s.PaymentStatus
	m.CurrentLocation = s.CurrentLocation
	m.CurrentLat = s.CurrentLat
	m.CurrentLng = s.CurrentLng
	m.Notes = s.Notes
	m.EstimatedDelivery = s.EstimatedDelivery
	m.ActualDelivery = s.ActualDelivery
	m.Packages = make([]PackageModel, 0, len(s.Packages))
	for i, p := range s.Packages {
		m.Packages = append(m.Packages, PackageModelFromDomain(s.ID, i, p))
	}
}

// ShipmentModelFromDomain creates a new model from a domain Shipment
func ShipmentModelFromDomain(s *shipment.Shipment) *ShipmentModel {
	m := &ShipmentModel{}
	m.FromDomain(s)
	return m
}

// PackageModel is one line item of a shipment
type PackageModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ShipmentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null;default:0"`
	Description string          `gorm:"type:varchar(200)"`
	Quantity    int             `gorm:"not null;default:1"`
	Weight      decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	Length      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Width       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Height      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (PackageModel) TableName() string {
	return "shipment_packages"
}

// ToDomain converts the model to a domain Package
func (m PackageModel) ToDomain() shipment.Package {
	return shipment.Package{
		ID:          m.ID,
		Description: m.Description,
		Quantity:    m.Quantity,
		Weight:      m.Weight,
		Length:      m.Length,
		Width:       m.Width,
		Height:      m.Height,
	}
}

// PackageModelFromDomain creates a package row at the given position
func PackageModelFromDomain(shipmentID uuid.UUID, position int, p shipment.Package) PackageModel {
	return PackageModel{
		ID:          p.ID,
		ShipmentID:  shipmentID,
		Position:    position,
		Description: p.Description,
		Quantity:    p.Quantity,
		Weight:      p.Weight,
		Length:      p.Length,
		Width:       p.Width,
		Height:      p.Height,
	}
}

// TrackingEventModel is the persistence model for tracking history
type TrackingEventModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShipmentID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Status      string    `gorm:"type:varchar(50);not null"`
	Description string    `gorm:"type:text"`
	Location    string    `gorm:"type:varchar(200)"`
	OccurredAt  time.Time `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TrackingEventModel) TableName() string {
	return "tracking_events"
}

// ToDomain converts the model to a domain TrackingEvent
func (m *TrackingEventModel) ToDomain() shipment.TrackingEvent {
	return shipment.TrackingEvent{
		ID:          m.ID,
		ShipmentID:  m.ShipmentID,
		Status:      m.Status,
		Description: m.Description,
		Location:    m.Location,
		Timestamp:   m.OccurredAt,
		CreatedAt:   m.CreatedAt,
	}
}

// TrackingEventModelFromDomain creates a model from a domain TrackingEvent
func TrackingEventModelFromDomain(e shipment.TrackingEvent) *TrackingEventModel {
	return &TrackingEventModel{
		ID:          e.ID,
		ShipmentID:  e.ShipmentID,
		Status:      e.Status,
		Description: e.Description,
		Location:    e.Location,
		OccurredAt:  e.Timestamp,
		CreatedAt:   e.CreatedAt,
	}
}

// ServiceModel is the persistence model for shipping services
type ServiceModel struct {
	BaseModel
	Code          string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string          `gorm:"type:varchar(100);not null"`
	Description   string          `gorm:"type:text"`
	BasePrice     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PricePerKg    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	EstimatedDays int             `gorm:"not null;default:0"`
	Active        bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ServiceModel) TableName() string {
	return "services"
}

// ToDomain converts the model to a domain Service
func (m *ServiceModel) ToDomain() *shipment.Service {
	return &shipment.Service{
		BaseEntity:    m.BaseModel.ToDomain(),
		Code:          m.Code,
		Name:          m.Name,
		Description:   m.Description,
		BasePrice:     m.BasePrice,
		PricePerKg:    m.PricePerKg,
		EstimatedDays: m.EstimatedDays,
		Active:        m.Active,
	}
}

// ServiceModelFromDomain creates a model from a domain Service
func ServiceModelFromDomain(s *shipment.Service) *ServiceModel {
	m := &ServiceModel{
		Code:          s.Code,
		Name:          s.Name,
		Description:   s.Description,
		BasePrice:     s.BasePrice,
		PricePerKg:    s.PricePerKg,
		EstimatedDays: s.EstimatedDays,
		Active:        s.Active,
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}
