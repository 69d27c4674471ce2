package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/parcelco/backoffice/internal/domain/shared"
	"github.com/parcelco/backoffice/internal/domain/shipment"
	"github.com/parcelco/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var activeStatuses = []shipment.Status{
	shipment.StatusPickedUp,
	shipment.StatusInTransit,
	shipment.StatusOutForDelivery,
}

// GormShipmentRepository implements ShipmentRepository using GORM
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new GormShipmentRepository
func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

func orderedPackages(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *GormShipmentRepository) findOne(ctx context.Context, query string, arg any) (*shipment.Shipment, error) {
	var model models.ShipmentModel
	err := r.db.WithContext(ctx).
		Preload("Packages", orderedPackages).
		First(&model, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByID finds a shipment with its packages
func (r *GormShipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipment.Shipment, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByTrackingNumber finds a shipment with its packages
func (r *GormShipmentRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*shipment.Shipment, error) {
	return r.findOne(ctx, "tracking_number = ?", trackingNumber)
}

// FindEvents returns tracking events ordered by timestamp ascending
func (r *GormShipmentRepository) FindEvents(ctx context.Context, shipmentID uuid.UUID) ([]shipment.TrackingEvent, error) {
	var rows []models.TrackingEventModel
	if err := r.db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("occurred_at ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	events := make([]shipment.TrackingEvent, 0, len(rows))
	for i := range rows {
		events = append(events, rows[i].ToDomain())
	}
	return events, nil
}

// List returns one page of shipments and the total number of matches.
// A page past the end yields an empty slice.
func (r *GormShipmentRepository) List(ctx context.Context, filter shipment.ListFilter) ([]shipment.Shipment, int64, error) {
	filter = filter.Normalize()

	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.ShipmentModel{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if filter.PastEnd(total) {
		return []shipment.Shipment{}, total, nil
	}

	var rows []models.ShipmentModel
	if err := r.applyOrder(r.applyFilter(r.db.WithContext(ctx), filter), filter).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toShipments(rows), total, nil
}

// FindForExport returns up to limit matching shipments ignoring paging
func (r *GormShipmentRepository) FindForExport(ctx context.Context, filter shipment.ListFilter, limit int) ([]shipment.Shipment, error) {
	var rows []models.ShipmentModel
	if err := r.applyOrder(r.applyFilter(r.db.WithContext(ctx), filter), filter).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toShipments(rows), nil
}

// CountByDestination counts shipments and active shipments per receiver country
func (r *GormShipmentRepository) CountByDestination(ctx context.Context) ([]shipment.CountryCount, error) {
	var rows []struct {
		Country string
		Count   int64
		Active  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.ShipmentModel{}).
		Select("receiver_country AS country, COUNT(*) AS count, "+
			"COALESCE(SUM(CASE WHEN status IN ? THEN 1 ELSE 0 END), 0) AS active", activeStatuses).
		Group("receiver_country").
		Order("count DESC, receiver_country ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]shipment.CountryCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, shipment.CountryCount{Country: row.Country, Count: row.Count, Active: row.Active})
	}
	return out, nil
}

// FindLocated returns active shipments with known coordinates, most recently updated first
func (r *GormShipmentRepository) FindLocated(ctx context.Context, limit int) ([]shipment.Shipment, error) {
	var rows []models.ShipmentModel
	if err := r.db.WithContext(ctx).
		Where("current_lat IS NOT NULL AND current_lng IS NOT NULL").
		Where("status IN ?", activeStatuses).
		Order("updated_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toShipments(rows), nil
}

// Save upserts the shipment, replaces its packages and appends pending
// tracking events in one transaction
func (r *GormShipmentRepository) Save(ctx context.Context, s *shipment.Shipment) error {
	model := models.ShipmentModelFromDomain(s)
	pending := s.PendingTrackingEvents()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("shipment_id = ?", s.ID).Delete(&models.PackageModel{}).Error; err != nil {
			return err
		}
		if len(model.Packages) > 0 {
			if err := tx.Create(&model.Packages).Error; err != nil {
				return err
			}
		}
		if len(pending) > 0 {
			events := make([]*models.TrackingEventModel, 0, len(pending))
			for _, e := range pending {
				events = append(events, models.TrackingEventModelFromDomain(e))
			}
			if err := tx.Create(&events).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return shared.NewDomainError("INVALID_SERVICE", "Referenced service does not exist")
		}
		return err
	}
	s.ClearPendingTrackingEvents()
	return nil
}

// Delete deletes a shipment; events and packages cascade in the schema
func (r *GormShipmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ShipmentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteMany deletes the given shipments and returns the number removed
func (r *GormShipmentRepository) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.ShipmentModel{})
	return result.RowsAffected, result.Error
}

// ExistsByTrackingNumber checks tracking number uniqueness
func (r *GormShipmentRepository) ExistsByTrackingNumber(ctx context.Context, trackingNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ShipmentModel{}).
		Where("tracking_number = ?", trackingNumber).
		Count(&count).Error
	return count > 0, err
}

// applyFilter AND-s every non-empty filter field
func (r *GormShipmentRepository) applyFilter(query *gorm.DB, filter shipment.ListFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := ContainsPattern(filter.Search)
		query = query.Where(
			`(tracking_number ILIKE ? ESCAPE '\' OR sender_name ILIKE ? ESCAPE '\' OR receiver_name ILIKE ? ESCAPE '\')`,
			pattern, pattern, pattern)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ServiceID != nil {
		query = query.Where("service_id = ?", *filter.ServiceID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}
	return query
}

func (r *GormShipmentRepository) applyOrder(query *gorm.DB, filter shipment.ListFilter) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, ShipmentSortFields, "created_at")
	dir := ValidateSortOrder(filter.OrderDir)
	// id breaks ties so pages are stable
	return query.Order(field + " " + dir).Order("id " + dir)
}

func toShipments(rows []models.ShipmentModel) []shipment.Shipment {
	out := make([]shipment.Shipment, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out
}

// Ensure GormShipmentRepository implements ShipmentRepository
var _ shipment.ShipmentRepository = (*GormShipmentRepository)(nil)
