package dashboard

import (
	"github.com/google/uuid"
	"github.com/parcelco/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Revenue window bounds in days
const (
	DefaultRevenueDays = 30
	MaxRevenueDays     = 365
)

// Palette is cycled by index to colour revenue slices
var Palette = []string{
	"#2563eb",
	"#16a34a",
	"#f59e0b",
	"#dc2626",
	"#7c3aed",
	"#0891b2",
	"#db2777",
	"#65a30d",
}

// ColorAt returns Palette[i % len(Palette)]
func ColorAt(i int) string {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}

// NormalizeDays applies the default and rejects out-of-range windows
func NormalizeDays(days int) (int, error) {
	if days == 0 {
		return DefaultRevenueDays, nil
	}
	if days < 0 || days > MaxRevenueDays {
		return 0, shared.NewDomainError("INVALID_INPUT", "Days must be between 1 and 365")
	}
	return days, nil
}

// RevenueSlice is one service's share of revenue
type RevenueSlice struct {
	ServiceID   uuid.UUID       `json:"service_id"`
	ServiceName string          `json:"service_name"`
	Revenue     decimal.Decimal `json:"revenue"`
	Shipments   int64           `json:"shipments"`
	Percentage  decimal.Decimal `json:"percentage"`
	Color       string          `json:"color"`
}

// RevenueBreakdown is the revenue-by-service read model
type RevenueBreakdown struct {
	Days     int             `json:"days"`
	Total    decimal.Decimal `json:"total"`
	Services []RevenueSlice  `json:"services"`
}

var hundred = decimal.NewFromInt(100)

// BuildRevenueBreakdown computes each service's percentage share rounded to
// one decimal place. A zero total yields 0% for every service.
func BuildRevenueBreakdown(days int, rows []ServiceRevenue) *RevenueBreakdown {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Revenue)
	}

	slices := make([]RevenueSlice, 0, len(rows))
	for i, r := range rows {
		pct := decimal.Zero
		if !total.IsZero() {
			pct = r.Revenue.Div(total).Mul(hundred).Round(1)
		}
		slices = append(slices, RevenueSlice{
			ServiceID:   r.ServiceID,
			ServiceName: r.ServiceName,
			Revenue:     r.Revenue,
			Shipments:   r.Shipments,
			Percentage:  pct,
			Color:       ColorAt(i),
		})
	}
	return &RevenueBreakdown{Days: days, Total: total, Services: slices}
}
