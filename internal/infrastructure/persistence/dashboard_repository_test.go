package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/parcelco/backoffice/internal/domain/dashboard"
	"github.com/parcelco/backoffice/internal/domain/shipment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDashboardRepository(t *testing.T) (*GormDashboardRepository, sqlmock.Sqlmock, func()) {
	db, mock, mockDB := newMockGormDB(t)
	return NewGormDashboardRepository(db), mock, func() { mockDB.Close() }
}

func TestGormDashboardRepository_CountByStatus(t *testing.T) {
	t.Run("without range", func(t *testing.T) {
		repo, mock, done := newMockDashboardRepository(t)
		defer done()

		mock.ExpectQuery(`SELECT status, COUNT\(\*\) AS count FROM "shipments" GROUP BY "status"`).
			WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
				AddRow("PENDING", 4).
				AddRow("DELIVERED", 9))

		counts, err := repo.CountByStatus(context.Background(), dashboard.DateRange{})

		require.NoError(t, err)
		assert.Equal(t, int64(4), counts[shipment.StatusPending])
		assert.Equal(t, int64(9), counts[shipment.StatusDelivered])
		assert.Zero(t, counts[shipment.StatusCancelled])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("with range", func(t *testing.T) {
		repo, mock, done := newMockDashboardRepository(t)
		defer done()

		from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 0, 7)

		mock.ExpectQuery(`SELECT status, COUNT\(\*\) AS count FROM "shipments" WHERE created_at >= \$1 AND created_at < \$2 GROUP BY "status"`).
			WithArgs(from, to).
			WillReturnRows(sqlmock.NewRows([]string{"status", "count"}))

		counts, err := repo.CountByStatus(context.Background(), dashboard.DateRange{From: &from, To: &to})

		require.NoError(t, err)
		assert.Empty(t, counts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDashboardRepository_SumEstimatedCost(t *testing.T) {
	repo, mock, done := newMockDashboardRepository(t)
	defer done()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(estimated_cost\), 0\) AS total FROM "shipments"`).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("1234.50"))

	total, err := repo.SumEstimatedCost(context.Background(), dashboard.DateRange{})

	require.NoError(t, err)
	assert.Equal(t, "1234.5", total.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDashboardRepository_CountContacts(t *testing.T) {
	repo, mock, done := newMockDashboardRepository(t)
	defer done()

	to := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	from := to.Add(-dashboard.RecentContactWindow)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "contact_forms" WHERE created_at >= \$1 AND created_at < \$2`).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.CountContacts(context.Background(), from, to)

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDashboardRepository_CountWindow(t *testing.T) {
	repo, mock, done := newMockDashboardRepository(t)
	defer done()

	start := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	mock.ExpectQuery(`SELECT .* AS shipments, .* AS delivered FROM "shipments"`).
		WithArgs(start, end, shipment.StatusDelivered, start, end).
		WillReturnRows(sqlmock.NewRows([]string{"shipments", "delivered"}).AddRow(12, 5))

	counts, err := repo.CountWindow(context.Background(), dashboard.Window{Label: "Oct 14", Start: start, End: end})

	require.NoError(t, err)
	assert.Equal(t, dashboard.WindowCounts{Shipments: 12, Delivered: 5}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDashboardRepository_RevenueByService(t *testing.T) {
	repo, mock, done := newMockDashboardRepository(t)
	defer done()

	since := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	express := uuid.New()

	mock.ExpectQuery(`SELECT s.service_id AS service_id, sv.name AS service_name, .* FROM shipments s JOIN services sv ON sv.id = s.service_id WHERE s.created_at >= \$1 GROUP BY s.service_id, sv.name ORDER BY revenue DESC`).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"service_id", "service_name", "revenue", "shipments"}).
			AddRow(express, "Express", "900.00", 12))

	rows, err := repo.RevenueByService(context.Background(), since)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, express, rows[0].ServiceID)
	assert.Equal(t, "900", rows[0].Revenue.String())
	assert.Equal(t, int64(12), rows[0].Shipments)
	assert.NoError(t, mock.ExpectationsWereMet())
}
