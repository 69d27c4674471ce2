package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/parcelco/backoffice/internal/domain/dashboard"
	"github.com/parcelco/backoffice/internal/domain/shipment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CountByStatus(ctx context.Context, r dashboard.DateRange) (map[shipment.Status]int64, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[shipment.Status]int64), args.Error(1)
}

func (m *MockRepository) SumEstimatedCost(ctx context.Context, r dashboard.DateRange) (decimal.Decimal, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRepository) CountContacts(ctx context.Context, from, to time.Time) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) CountWindow(ctx context.Context, w dashboard.Window) (dashboard.WindowCounts, error) {
	args := m.Called(ctx, w)
	return args.Get(0).(dashboard.WindowCounts), args.Error(1)
}

func (m *MockRepository) RevenueByService(ctx context.Context, since time.Time) ([]dashboard.ServiceRevenue, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dashboard.ServiceRevenue), args.Error(1)
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.sets++
	return nil
}

var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func expectStats(repo *MockRepository) {
	repo.On("CountByStatus", mock.Anything, mock.Anything).Return(map[shipment.Status]int64{
		shipment.StatusPending:   3,
		shipment.StatusInTransit: 2,
		shipment.StatusDelivered: 5,
	}, nil)
	repo.On("SumEstimatedCost", mock.Anything, mock.Anything).Return(decimal.RequireFromString("1234.50"), nil)
	repo.On("CountContacts", mock.Anything, fixedNow.Add(-dashboard.RecentContactWindow), fixedNow).Return(int64(4), nil)
}

func TestDashboardService_GetStats(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates sub-queries", func(t *testing.T) {
		repo := new(MockRepository)
		expectStats(repo)

		stats, err := NewDashboardService(repo, WithClock(clock)).GetStats(ctx, dashboard.DateRange{})

		require.NoError(t, err)
		assert.Equal(t, int64(10), stats.Total)
		assert.Equal(t, int64(5), stats.Delivered)
		assert.True(t, stats.TotalRevenue.Equal(decimal.RequireFromString("1234.5")))
		assert.Equal(t, int64(4), stats.RecentContacts)
	})

	t.Run("any failure fails the call", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("CountByStatus", mock.Anything, mock.Anything).Return(map[shipment.Status]int64{}, nil)
		repo.On("SumEstimatedCost", mock.Anything, mock.Anything).Return(decimal.Zero, errors.New("timeout"))
		repo.On("CountContacts", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)

		stats, err := NewDashboardService(repo, WithClock(clock)).GetStats(ctx, dashboard.DateRange{})

		assert.Error(t, err)
		assert.Nil(t, stats)
	})

	t.Run("inverted range", func(t *testing.T) {
		from := fixedNow
		to := fixedNow.Add(-time.Hour)

		_, err := NewDashboardService(new(MockRepository)).GetStats(ctx, dashboard.DateRange{From: &from, To: &to})

		assert.Error(t, err)
	})

	t.Run("served from cache", func(t *testing.T) {
		repo := new(MockRepository)
		expectStats(repo)
		cache := newMemoryCache()
		svc := NewDashboardService(repo, WithClock(clock), WithCache(cache, time.Minute))

		first, err := svc.GetStats(ctx, dashboard.DateRange{})
		require.NoError(t, err)
		second, err := svc.GetStats(ctx, dashboard.DateRange{})
		require.NoError(t, err)

		assert.Equal(t, first.Total, second.Total)
		assert.Equal(t, 1, cache.sets)
		repo.AssertNumberOfCalls(t, "CountByStatus", 1)
	})

	t.Run("failure is not cached", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("CountByStatus", mock.Anything, mock.Anything).Return(nil, errors.New("down"))
		repo.On("SumEstimatedCost", mock.Anything, mock.Anything).Return(decimal.Zero, nil)
		repo.On("CountContacts", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)
		cache := newMemoryCache()

		_, err := NewDashboardService(repo, WithClock(clock), WithCache(cache, 0)).GetStats(ctx, dashboard.DateRange{})

		assert.Error(t, err)
		assert.Zero(t, cache.sets)
	})
}

type slowRepository struct {
	MockRepository
	calls atomic.Int32
	gate  chan struct{}
}

func (r *slowRepository) CountByStatus(ctx context.Context, _ dashboard.DateRange) (map[shipment.Status]int64, error) {
	r.calls.Add(1)
	<-r.gate
	return map[shipment.Status]int64{shipment.StatusPending: 1}, nil
}

func (r *slowRepository) SumEstimatedCost(context.Context, dashboard.DateRange) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (r *slowRepository) CountContacts(context.Context, time.Time, time.Time) (int64, error) {
	return 0, nil
}

func TestDashboardService_GetStats_CollapsesConcurrentMisses(t *testing.T) {
	repo := &slowRepository{gate: make(chan struct{})}
	svc := NewDashboardService(repo, WithClock(clock))

	var wg sync.WaitGroup
	results := make([]*dashboard.Stats, 5)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = svc.GetStats(context.Background(), dashboard.DateRange{})
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(repo.gate)
	wg.Wait()

	assert.Equal(t, int32(1), repo.calls.Load())
	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, int64(1), r.Total)
	}
}

type ctxAwareRepository struct {
	slowRepository
	started chan struct{}
}

func (r *ctxAwareRepository) CountByStatus(ctx context.Context, _ dashboard.DateRange) (map[shipment.Status]int64, error) {
	if r.calls.Add(1) == 1 {
		close(r.started)
	}
	select {
	case <-r.gate:
		return map[shipment.Status]int64{shipment.StatusDelivered: 2}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestDashboardService_GetStats_FirstCallerCancelDoesNotFailOthers(t *testing.T) {
	repo := &ctxAwareRepository{
		slowRepository: slowRepository{gate: make(chan struct{})},
		started:        make(chan struct{}),
	}
	svc := NewDashboardService(repo, WithClock(clock))

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.GetStats(firstCtx, dashboard.DateRange{})
		firstErr <- err
	}()
	<-repo.started

	type result struct {
		stats *dashboard.Stats
		err   error
	}
	second := make(chan result, 1)
	go func() {
		stats, err := svc.GetStats(context.Background(), dashboard.DateRange{})
		second <- result{stats, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(repo.gate)
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, int64(2), got.stats.Delivered)
	assert.Equal(t, int32(1), repo.calls.Load())
}

func TestStatsKey(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "dashboard:stats:-:-", statsKey(dashboard.DateRange{}))
	assert.Equal(t, "dashboard:stats:2026-01-01T00:00:00Z:-", statsKey(dashboard.DateRange{From: &from}))
}

func TestDashboardService_GetChartData(t *testing.T) {
	ctx := context.Background()

	t.Run("one point per daily bucket", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("CountWindow", mock.Anything, mock.Anything).Return(dashboard.WindowCounts{Shipments: 2, Delivered: 1}, nil)

		points, err := NewDashboardService(repo).GetChartData(ctx, dashboard.GranularityDaily, fixedNow)

		require.NoError(t, err)
		require.Len(t, points, dashboard.DailyBuckets)
		assert.True(t, points[0].Start.Before(points[len(points)-1].Start))
		last := points[len(points)-1]
		assert.False(t, fixedNow.Before(last.Start))
		assert.True(t, fixedNow.Before(last.End))
		assert.Equal(t, int64(2), last.Shipments)
	})

	t.Run("monthly", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("CountWindow", mock.Anything, mock.Anything).Return(dashboard.WindowCounts{}, nil)

		points, err := NewDashboardService(repo).GetChartData(ctx, dashboard.GranularityMonthly, fixedNow)

		require.NoError(t, err)
		assert.Len(t, points, dashboard.MonthlyBuckets)
		assert.Equal(t, "Mar 2026", points[len(points)-1].Label)
	})

	t.Run("query failure", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("CountWindow", mock.Anything, mock.Anything).Return(dashboard.WindowCounts{}, errors.New("boom"))

		_, err := NewDashboardService(repo).GetChartData(ctx, dashboard.GranularityWeekly, fixedNow)

		assert.Error(t, err)
	})
}

func TestDashboardService_GetRevenueByService(t *testing.T) {
	ctx := context.Background()

	t.Run("default window", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("RevenueByService", ctx, fixedNow.AddDate(0, 0, -30)).Return([]dashboard.ServiceRevenue{
			{ServiceID: uuid.New(), ServiceName: "Express", Revenue: decimal.NewFromInt(300), Shipments: 3},
			{ServiceID: uuid.New(), ServiceName: "Economy", Revenue: decimal.NewFromInt(100), Shipments: 4},
		}, nil)

		res, err := NewDashboardService(repo, WithClock(clock)).GetRevenueByService(ctx, 0)

		require.NoError(t, err)
		assert.Equal(t, 30, res.Days)
		require.Len(t, res.Services, 2)
		assert.Equal(t, "75", res.Services[0].Percentage.String())
		assert.Equal(t, dashboard.Palette[1], res.Services[1].Color)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := NewDashboardService(new(MockRepository)).GetRevenueByService(ctx, 400)
		assert.Error(t, err)
	})
}
