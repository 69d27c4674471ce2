package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/parcelco/backoffice/internal/domain/shared"
	"github.com/parcelco/backoffice/internal/domain/shipment"
	"github.com/shopspring/decimal"
)

// RecentContactWindow is how far back "recent" contact submissions reach
// when no date range is given
const RecentContactWindow = 7 * 24 * time.Hour

// DateRange is an optional filter on shipment creation time. From is
// inclusive, To is exclusive.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// IsZero reports whether the range has no bounds
func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

// Validate rejects inverted ranges
func (r DateRange) Validate() error {
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return shared.NewDomainError("INVALID_INPUT", "Date range end must not be before its start")
	}
	return nil
}

// ContactWindow returns the window used for the recent contact count
func (r DateRange) ContactWindow(now time.Time) (time.Time, time.Time) {
	if r.IsZero() {
		return now.Add(-RecentContactWindow), now
	}
	from := time.Time{}
	to := now
	if r.From != nil {
		from = *r.From
	}
	if r.To != nil {
		to = *r.To
	}
	return from, to
}

// Stats is the dashboard headline read model
type Stats struct {
	Total          int64           `json:"total_shipments"`
	Pending        int64           `json:"pending"`
	PickedUp       int64           `json:"picked_up"`
	InTransit      int64           `json:"in_transit"`
	OutForDelivery int64           `json:"out_for_delivery"`
	Delivered      int64           `json:"delivered"`
	Cancelled      int64           `json:"cancelled"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	RecentContacts int64           `json:"recent_contacts"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// NewStats builds Stats from per-status counts. Total is the sum of the six
// status counts; unknown statuses are ignored.
func NewStats(counts map[shipment.Status]int64, revenue decimal.Decimal, recentContacts int64, at time.Time) *Stats {
	s := &Stats{
		Pending:        counts[shipment.StatusPending],
		PickedUp:       counts[shipment.StatusPickedUp],
		InTransit:      counts[shipment.StatusInTransit],
		OutForDelivery: counts[shipment.StatusOutForDelivery],
		Delivered:      counts[shipment.StatusDelivered],
		Cancelled:      counts[shipment.StatusCancelled],
		TotalRevenue:   revenue,
		RecentContacts: recentContacts,
		GeneratedAt:    at,
	}
	s.Total = s.Pending + s.PickedUp + s.InTransit + s.OutForDelivery + s.Delivered + s.Cancelled
	return s
}

// WindowCounts are the counts for one chart bucket
type WindowCounts struct {
	Shipments int64
	Delivered int64
}

// ServiceRevenue is the raw per-service revenue aggregate
type ServiceRevenue struct {
	ServiceID   uuid.UUID
	ServiceName string
	Revenue     decimal.Decimal
	Shipments   int64
}

// Repository defines the aggregate queries behind the dashboard
type Repository interface {
	// CountByStatus counts shipments per status within the range
	CountByStatus(ctx context.Context, r DateRange) (map[shipment.Status]int64, error)

	// SumEstimatedCost sums estimated cost of shipments within the range
	SumEstimatedCost(ctx context.Context, r DateRange) (decimal.Decimal, error)

	// CountContacts counts contact submissions created in [from, to)
	CountContacts(ctx context.Context, from, to time.Time) (int64, error)

	// CountWindow counts shipments created and delivered within the window
	CountWindow(ctx context.Context, w Window) (WindowCounts, error)

	// RevenueByService groups shipments created since the given time by service,
	// ordered by revenue descending
	RevenueByService(ctx context.Context, since time.Time) ([]ServiceRevenue, error)
}
