package contact

import (
	"time"

	"github.com/google/uuid"
	"github.com/parcelco/backoffice/internal/domain/contact"
	"github.com/parcelco/backoffice/internal/domain/shared"
)

// SubmitRequest is the public contact form
type SubmitRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email,max=200"`
	Company string `json:"company" binding:"max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Subject string `json:"subject" binding:"max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}

// UpdateStatusRequest changes a submission's handling state
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=NEW IN_PROGRESS RESOLVED ARCHIVED new in_progress resolved archived"`
}

// ListQuery is the admin listing query string
type ListQuery struct {
	Page      int    `form:"page" binding:"omitempty,min=1,max=1000000"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status    string `form:"status"`
	Search    string `form:"search" binding:"max=100"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// FormResponse is a contact submission
type FormResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	Phone     string    `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToFormResponse converts a domain submission
func ToFormResponse(f *contact.Form) FormResponse {
	return FormResponse{
		ID:        f.ID,
		Name:      f.Name,
		Email:     f.Email,
		Company:   f.Company,
		Phone:     f.Phone,
		Subject:   f.Subject,
		Message:   f.Message,
		Status:    string(f.Status),
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// ListResult is one page of submissions
type ListResult = shared.Paginated[FormResponse]
