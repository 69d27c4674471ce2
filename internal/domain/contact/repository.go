package contact

import (
	"context"

	"github.com/google/uuid"
	"github.com/parcelco/backoffice/internal/domain/shared"
)

// ListFilter narrows a submission listing
type ListFilter struct {
	shared.Filter
	Status Status
}

// Repository defines persistence for contact submissions
type Repository interface {
	// FindByID finds a submission by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Form, error)

	// List returns one page of submissions, newest first, and the total
	List(ctx context.Context, filter ListFilter) ([]Form, int64, error)

	// Save creates or updates a submission
	Save(ctx context.Context, form *Form) error
}
