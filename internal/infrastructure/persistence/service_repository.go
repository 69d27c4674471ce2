package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/parcelco/backoffice/internal/domain/shared"
	"github.com/parcelco/backoffice/internal/domain/shipment"
	"github.com/parcelco/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormServiceRepository implements ServiceRepository using GORM
type GormServiceRepository struct {
	db *gorm.DB
}

// NewGormServiceRepository creates a new GormServiceRepository
func NewGormServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

// FindByID finds a service by ID
func (r *GormServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipment.Service, error) {
	var model models.ServiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a service by code
func (r *GormServiceRepository) FindByCode(ctx context.Context, code string) (*shipment.Service, error) {
	var model models.ServiceModel
	if err := r.db.WithContext(ctx).First(&model, "code = ?", strings.ToUpper(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns services ordered by name
func (r *GormServiceRepository) FindAll(ctx context.Context, activeOnly bool) ([]shipment.Service, error) {
	query := r.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var rows []models.ServiceModel
	if err := query.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]shipment.Service, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// Save creates or updates a service
func (r *GormServiceRepository) Save(ctx context.Context, s *shipment.Service) error {
	if err := r.db.WithContext(ctx).Save(models.ServiceModelFromDomain(s)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewDomainError("ALREADY_EXISTS", "Service code already exists")
		}
		return err
	}
	return nil
}

// Ensure GormServiceRepository implements ServiceRepository
var _ shipment.ServiceRepository = (*GormServiceRepository)(nil)
