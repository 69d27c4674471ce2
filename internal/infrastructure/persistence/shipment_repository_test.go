package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/parcelco/backoffice/internal/domain/shared"
	"github.com/parcelco/backoffice/internal/domain/shipment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockGormDB opens a gorm handle over sqlmock
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func newMockShipmentRepository(t *testing.T) (*GormShipmentRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, mockDB := newMockGormDB(t)
	return NewGormShipmentRepository(db), mock, mockDB
}

var shipmentColumns = []string{
	"id", "tracking_number", "status", "sender_name", "sender_city", "sender_country",
	"receiver_name", "receiver_city", "receiver_country", "weight", "pieces",
	"estimated_cost", "currency", "service_id", "payment_mode", "payment_status",
	"current_location", "created_at", "updated_at",
}

func shipmentRow(rows *sqlmock.Rows, id uuid.UUID, tn string, status shipment.Status) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, tn, string(status), "Ada Sender", "Lagos", "NG",
		"Bo Receiver", "Accra", "GH", "2.500", 1,
		"45.00", "USD", uuid.New(), "CASH", "PENDING",
		"Lagos, NG", now, now)
}

func TestNewGormShipmentRepository(t *testing.T) {
	repo, _, mockDB := newMockShipmentRepository(t)
	defer mockDB.Close()

	assert.NotNil(t, repo)
	assert.NotNil(t, repo.db)
}

func TestGormShipmentRepository_FindByID(t *testing.T) {
	t.Run("loads shipment with ordered packages", func(t *testing.T) {
		repo, mock, mockDB := newMockShipmentRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		pkgID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "shipments" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnRows(shipmentRow(sqlmock.NewRows(shipmentColumns), id, "PC2610150A1B2C3D", shipment.StatusInTransit))
		mock.ExpectQuery(`SELECT \* FROM "shipment_packages" WHERE "shipment_packages"."shipment_id" = \$1 ORDER BY position ASC`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"id", "shipment_id", "position", "description", "quantity", "weight"}).
				AddRow(pkgID, id, 0, "Books", 2, "1.250"))

		s, err := repo.FindByID(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, id, s.ID)
		assert.Equal(t, shipment.StatusInTransit, s.Status)
		assert.Equal(t, "Accra", s.Receiver.City)
		assert.True(t, decimal.RequireFromString("2.5").Equal(s.Weight))
		require.Len(t, s.Packages, 1)
		assert.Equal(t, "Books", s.Packages[0].Description)
		assert.Equal(t, 2, s.Packages[0].Quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to ErrNotFound", func(t *testing.T) {
		repo, mock, mockDB := newMockShipmentRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "shipments" WHERE id = \$1`).
			WithArgs(id, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		s, err := repo.FindByID(context.Background(), id)

		assert.Nil(t, s)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormShipmentRepository_FindByTrackingNumber(t *testing.T) {
	repo, mock, mockDB := newMockShipmentRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "shipments" WHERE tracking_number = \$1`).
		WithArgs("PC2610150A1B2C3D", 1).
		WillReturnRows(sqlmock.NewRows(shipmentColumns))

	s, err := repo.FindByTrackingNumber(context.Background(), "PC2610150A1B2C3D")

	assert.Nil(t, s)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormShipmentRepository_FindEvents(t *testing.T) {
	repo, mock, mockDB := newMockShipmentRepository(t)
	defer mockDB.Close()

	shipmentID := uuid.New()
	t1 := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(3 * time.Hour)

	mock.ExpectQuery(`SELECT \* FROM "tracking_events" WHERE shipment_id = \$1 ORDER BY occurred_at ASC, created_at ASC`).
		WithArgs(shipmentID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "shipment_id", "status", "description", "location", "occurred_at", "created_at"}).
			AddRow(uuid.New(), shipmentID, "PENDING", "Shipment created", "Lagos, NG", t1, t1).
			AddRow(uuid.New(), shipmentID, "PICKED_UP", "Shipment picked up", "Lagos, NG", t2, t2))

	events, err := repo.FindEvents(context.Background(), shipmentID)

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "PENDING", events[0].Status)
	assert.Equal(t, t2, events[1].Timestamp)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormShipmentRepository_List(t *testing.T) {
	t.Run("filters by status and search", func(t *testing.T) {
		repo, mock, mockDB := newMockShipmentRepository(t)
		defer mockDB.Close()

		filter := shipment.ListFilter{
			Filter: shared.Filter{Page: 1, PageSize: 10, Search: "50%"},
			Status: shipment.StatusInTransit,
		}

		mock.ExpectQuery(`SELECT count\(\*\) FROM "shipments" WHERE \(tracking_number ILIKE \$1 ESCAPE .* OR sender_name ILIKE \$2 .* OR receiver_name ILIKE \$3 .*\) AND status = \$4`).
			WithArgs(`%50\%%`, `%50\%%`, `%50\%%`, shipment.StatusInTransit).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT \* FROM "shipments" WHERE .* ORDER BY created_at DESC,id DESC LIMIT \$5`).
			WithArgs(`%50\%%`, `%50\%%`, `%50\%%`, shipment.StatusInTransit, 10).
			WillReturnRows(shipmentRow(sqlmock.NewRows(shipmentColumns), uuid.New(), "PC2610150A1B2C3D", shipment.StatusInTransit))

		items, total, err := repo.List(context.Background(), filter)

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, items, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("page past the end skips the row query", func(t *testing.T) {
		repo, mock, mockDB := newMockShipmentRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "shipments"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

		items, total, err := repo.List(context.Background(), shipment.ListFilter{
			Filter: shared.Filter{Page: 3, PageSize: 10},
		})

		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.NotNil(t, items)
		assert.Empty(t, items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("overflowing page number is past the end", func(t *testing.T) {
		repo, mock, mockDB := newMockShipmentRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "shipments"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

		items, total, err := repo.List(context.Background(), shipment.ListFilter{
			Filter: shared.Filter{Page: 1<<60 + 1, PageSize: 10},
		})

		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.NotNil(t, items)
		assert.Empty(t, items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown sort field falls back to created_at", func(t *testing.T) {
		repo, mock, mockDB := newMockShipmentRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "shipments"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT \* FROM "shipments" ORDER BY created_at ASC,id ASC LIMIT \$1`).
			WithArgs(10).
			WillReturnRows(sqlmock.NewRows(shipmentColumns))

		_, _, err := repo.List(context.Background(), shipment.ListFilter{
			Filter: shared.Filter{OrderBy: "1; DROP TABLE shipments", OrderDir: "asc"},
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormShipmentRepository_CountByDestination(t *testing.T) {
	repo, mock, mockDB := newMockShipmentRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT receiver_country AS country, COUNT\(\*\) AS count, .* FROM "shipments" GROUP BY "receiver_country" ORDER BY count DESC`).
		WithArgs(shipment.StatusPickedUp, shipment.StatusInTransit, shipment.StatusOutForDelivery).
		WillReturnRows(sqlmock.NewRows([]string{"country", "count", "active"}).
			AddRow("GH", 7, 3).
			AddRow("NG", 2, 0))

	counts, err := repo.CountByDestination(context.Background())

	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, shipment.CountryCount{Country: "GH", Count: 7, Active: 3}, counts[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormShipmentRepository_FindLocated(t *testing.T) {
	repo, mock, mockDB := newMockShipmentRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "shipments" WHERE \(current_lat IS NOT NULL AND current_lng IS NOT NULL\) AND status IN \(\$1,\$2,\$3\) ORDER BY updated_at DESC LIMIT \$4`).
		WithArgs(shipment.StatusPickedUp, shipment.StatusInTransit, shipment.StatusOutForDelivery, 50).
		WillReturnRows(sqlmock.NewRows(shipmentColumns))

	located, err := repo.FindLocated(context.Background(), 50)

	require.NoError(t, err)
	assert.Empty(t, located)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func newSavableShipment(t *testing.T) *shipment.Shipment {
	t.Helper()
	s, err := shipment.NewShipment(shipment.Details{
		Sender:    shipment.Party{Name: "Ada", AddressLine1: "1 Marina", City: "Lagos", Country: "NG"},
		Receiver:  shipment.Party{Name: "Bo", AddressLine1: "2 Ring Rd", City: "Accra", Country: "GH"},
		Weight:    decimal.NewFromInt(2),
		ServiceID: uuid.New(),
	})
	require.NoError(t, err)
	return s
}

func TestGormShipmentRepository_Save(t *testing.T) {
	t.Run("writes shipment and pending events in one transaction", func(t *testing.T) {
		repo, mock, mockDB := newMockShipmentRepository(t)
		defer mockDB.Close()

		s := newSavableShipment(t)
		require.Len(t, s.PendingTrackingEvents(), 1)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "shipments" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "shipment_packages" WHERE shipment_id = \$1`).
			WithArgs(s.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`INSERT INTO "tracking_events"`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Save(context.Background(), s)

		require.NoError(t, err)
		assert.Empty(t, s.PendingTrackingEvents())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("keeps pending events when the transaction fails", func(t *testing.T) {
		repo, mock, mockDB := newMockShipmentRepository(t)
		defer mockDB.Close()

		s := newSavableShipment(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "shipments" SET`).WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		err := repo.Save(context.Background(), s)

		require.Error(t, err)
		assert.Len(t, s.PendingTrackingEvents(), 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps duplicate key to ErrAlreadyExists", func(t *testing.T) {
		repo, mock, mockDB := newMockShipmentRepository(t)
		defer mockDB.Close()

		s := newSavableShipment(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "shipments" SET`).WillReturnError(gorm.ErrDuplicatedKey)
		mock.ExpectRollback()

		err := repo.Save(context.Background(), s)

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormShipmentRepository_Delete(t *testing.T) {
	t.Run("deletes existing shipment", func(t *testing.T) {
		repo, mock, mockDB := newMockShipmentRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectExec(`DELETE FROM "shipments" WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when nothing was deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockShipmentRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectExec(`DELETE FROM "shipments" WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), id), shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormShipmentRepository_DeleteMany(t *testing.T) {
	t.Run("returns number of deleted rows", func(t *testing.T) {
		repo, mock, mockDB := newMockShipmentRepository(t)
		defer mockDB.Close()

		ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
		mock.ExpectExec(`DELETE FROM "shipments" WHERE id IN \(\$1,\$2,\$3\)`).
			WithArgs(ids[0], ids[1], ids[2]).
			WillReturnResult(sqlmock.NewResult(0, 2))

		n, err := repo.DeleteMany(context.Background(), ids)

		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty id list is a no-op", func(t *testing.T) {
		repo, mock, mockDB := newMockShipmentRepository(t)
		defer mockDB.Close()

		n, err := repo.DeleteMany(context.Background(), nil)

		require.NoError(t, err)
		assert.Zero(t, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormShipmentRepository_ExistsByTrackingNumber(t *testing.T) {
	repo, mock, mockDB := newMockShipmentRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "shipments" WHERE tracking_number = \$1`).
		WithArgs("PC2610150A1B2C3D").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsByTrackingNumber(context.Background(), "PC2610150A1B2C3D")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
