package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/parcelco/backoffice/internal/domain/dashboard"
	"github.com/parcelco/backoffice/internal/domain/shipment"
	"github.com/parcelco/backoffice/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormDashboardRepository implements dashboard.Repository with aggregate queries
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewGormDashboardRepository creates a new GormDashboardRepository
func NewGormDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

func applyDateRange(query *gorm.DB, column string, r dashboard.DateRange) *gorm.DB {
	if r.From != nil {
		query = query.Where(column+" >= ?", *r.From)
	}
	if r.To != nil {
		query = query.Where(column+" < ?", *r.To)
	}
	return query
}

// CountByStatus counts shipments per status
func (r *GormDashboardRepository) CountByStatus(ctx context.Context, dr dashboard.DateRange) (map[shipment.Status]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	query := r.db.WithContext(ctx).
		Model(&models.ShipmentModel{}).
		Select("status, COUNT(*) AS count")
	if err := applyDateRange(query, "created_at", dr).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[shipment.Status]int64, len(rows))
	for _, row := range rows {
		counts[shipment.Status(row.Status)] = row.Count
	}
	return counts, nil
}

// SumEstimatedCost sums the estimated cost of shipments in the range
func (r *GormDashboardRepository) SumEstimatedCost(ctx context.Context, dr dashboard.DateRange) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	query := r.db.WithContext(ctx).
		Model(&models.ShipmentModel{}).
		Select("COALESCE(SUM(estimated_cost), 0) AS total")
	if err := applyDateRange(query, "created_at", dr).Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// CountContacts counts contact submissions created in [from, to)
func (r *GormDashboardRepository) CountContacts(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ContactFormModel{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}

// CountWindow counts shipments created and shipments delivered within the window
func (r *GormDashboardRepository) CountWindow(ctx context.Context, w dashboard.Window) (dashboard.WindowCounts, error) {
	var result struct {
		Shipments int64
		Delivered int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.ShipmentModel{}).
		Select(
			"COALESCE(SUM(CASE WHEN created_at >= ? AND created_at < ? THEN 1 ELSE 0 END), 0) AS shipments, "+
				"COALESCE(SUM(CASE WHEN status = ? AND actual_delivery >= ? AND actual_delivery < ? THEN 1 ELSE 0 END), 0) AS delivered",
			w.Start, w.End, shipment.StatusDelivered, w.Start, w.End).
		Scan(&result).Error
	if err != nil {
		return dashboard.WindowCounts{}, err
	}
	return dashboard.WindowCounts{Shipments: result.Shipments, Delivered: result.Delivered}, nil
}

// RevenueByService sums estimated cost per service for shipments created since the given time
func (r *GormDashboardRepository) RevenueByService(ctx context.Context, since time.Time) ([]dashboard.ServiceRevenue, error) {
	var rows []struct {
		ServiceID   uuid.UUID
		ServiceName string
		Revenue     decimal.Decimal
		Shipments   int64
	}
	err := r.db.WithContext(ctx).
		Table("shipments s").
		Select("s.service_id AS service_id, sv.name AS service_name, "+
			"COALESCE(SUM(s.estimated_cost), 0) AS revenue, COUNT(*) AS shipments").
		Joins("JOIN services sv ON sv.id = s.service_id").
		Where("s.created_at >= ?", since).
		Group("s.service_id, sv.name").
		Order("revenue DESC, sv.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]dashboard.ServiceRevenue, 0, len(rows))
	for _, row := range rows {
		out = append(out, dashboard.ServiceRevenue{
			ServiceID:   row.ServiceID,
			ServiceName: row.ServiceName,
			Revenue:     row.Revenue,
			Shipments:   row.Shipments,
		})
	}
	return out, nil
}

// Ensure GormDashboardRepository implements dashboard.Repository
var _ dashboard.Repository = (*GormDashboardRepository)(nil)
