package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/parcelco/backoffice/internal/domain/contact"
	"github.com/parcelco/backoffice/internal/domain/shared"
	"github.com/parcelco/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormContactRepository implements contact.Repository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// FindByID finds a submission by ID
func (r *GormContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*contact.Form, error) {
	var model models.ContactFormModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns one page of submissions and the total
func (r *GormContactRepository) List(ctx context.Context, filter contact.ListFilter) ([]contact.Form, int64, error) {
	filter.Page = shared.ClampPage(filter.Page)
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	query := r.db.WithContext(ctx).Model(&models.ContactFormModel{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := ContainsPattern(filter.Search)
		query = query.Where(`(name ILIKE ? ESCAPE '\' OR email ILIKE ? ESCAPE '\' OR company ILIKE ? ESCAPE '\')`,
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if filter.PastEnd(total) {
		return []contact.Form{}, total, nil
	}

	field := ValidateSortField(filter.OrderBy, ContactSortFields, "created_at")
	dir := ValidateSortOrder(filter.OrderDir)

	var rows []models.ContactFormModel
	if err := query.Order(field + " " + dir).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]contact.Form, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, total, nil
}

// Save creates or updates a submission
func (r *GormContactRepository) Save(ctx context.Context, f *contact.Form) error {
	return r.db.WithContext(ctx).Save(models.ContactFormModelFromDomain(f)).Error
}

// Ensure GormContactRepository implements contact.Repository
var _ contact.Repository = (*GormContactRepository)(nil)
