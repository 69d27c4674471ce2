package models

import (
	"github.com/parcelco/backoffice/internal/domain/contact"
)

// ContactFormModel is the persistence model for contact submissions
type ContactFormModel struct {
	BaseModel
	Name    string         `gorm:"type:varchar(100);not null"`
	Email   string         `gorm:"type:varchar(200);not null"`
	Company string         `gorm:"type:varchar(200)"`
	Phone   string         `gorm:"type:varchar(50)"`
	Subject string         `gorm:"type:varchar(200)"`
	Message string         `gorm:"type:text;not null"`
	Status  contact.Status `gorm:"type:varchar(20);not null;index"`
}

// TableName returns the table name for GORM
func (ContactFormModel) TableName() string {
	return "contact_forms"
}

// ToDomain converts the model to a domain Form
func (m *ContactFormModel) ToDomain() *contact.Form {
	return &contact.Form{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Email:      m.Email,
		Company:    m.Company,
		Phone:      m.Phone,
		Subject:    m.Subject,
		Message:    m.Message,
		Status:     m.Status,
	}
}

// ContactFormModelFromDomain creates a model from a domain Form
func ContactFormModelFromDomain(f *contact.Form) *ContactFormModel {
	m := &ContactFormModel{
		Name:    f.Name,
		Email:   f.Email,
		Company: f.Company,
		Phone:   f.Phone,
		Subject: f.Subject,
		Message: f.Message,
		Status:  f.Status,
	}
	m.FromDomainBaseEntity(f.BaseEntity)
	return m
}
