package contact

import (
	"context"

	"github.com/google/uuid"
	"github.com/parcelco/backoffice/internal/domain/contact"
	"github.com/parcelco/backoffice/internal/domain/shared"
	"github.com/parcelco/backoffice/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const defaultPageSize = 20

// Notifier tells staff about a new submission
type Notifier interface {
	ContactSubmitted(ctx context.Context, form *contact.Form) error
}

// ContactService handles contact form use cases
type ContactService struct {
	repo     contact.Repository
	notifier Notifier
}

// NewContactService creates a new ContactService. notifier may be nil.
func NewContactService(repo contact.Repository, notifier Notifier) *ContactService {
	return &ContactService{repo: repo, notifier: notifier}
}

// Submit stores a submission and notifies staff. A failed notification is
// logged and does not fail the submission.
func (s *ContactService) Submit(ctx context.Context, req SubmitRequest) (*FormResponse, error) {
	form, err := contact.NewForm(req.Name, req.Email, req.Company, req.Phone, req.Subject, req.Message)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, form); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.ContactSubmitted(ctx, form); err != nil {
			logger.L(ctx).Warn("Failed to send contact notification",
				zap.String("contact_id", form.ID.String()),
				zap.Error(err),
			)
		}
	}

	resp := ToFormResponse(form)
	return &resp, nil
}

// List returns one page of submissions, newest first by default
func (s *ContactService) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	filter := contact.ListFilter{
		Filter: shared.Filter{
			Page:     q.Page,
			PageSize: q.Limit,
			OrderBy:  q.SortBy,
			OrderDir: q.SortOrder,
			Search:   q.Search,
		},
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultPageSize
	}
	if q.Status != "" {
		status, err := contact.ParseStatus(q.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}

	forms, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]FormResponse, 0, len(forms))
	for i := range forms {
		items = append(items, ToFormResponse(&forms[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateStatus changes a submission's handling state
func (s *ContactService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*FormResponse, error) {
	status, err := contact.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	form, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := form.ChangeStatus(status); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, form); err != nil {
		return nil, err
	}
	resp := ToFormResponse(form)
	return &resp, nil
}
