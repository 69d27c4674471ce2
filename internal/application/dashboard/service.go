package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/parcelco/backoffice/internal/domain/dashboard"
	"github.com/parcelco/backoffice/internal/domain/shipment"
	"github.com/parcelco/backoffice/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL is how long computed stats are served from cache
const DefaultCacheTTL = 30 * time.Second

// statsComputeTimeout bounds a shared stats computation, which outlives the
// request that started it
const statsComputeTimeout = 10 * time.Second

const statsKeyPrefix = "dashboard:stats:"

// StatsCache stores serialized stats by key
type StatsCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Option configures a DashboardService
type Option func(*DashboardService)

// WithCache enables stats caching
func WithCache(cache StatsCache, ttl time.Duration) Option {
	return func(s *DashboardService) {
		s.cache = cache
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *DashboardService) {
		s.now = now
	}
}

// DashboardService computes dashboard read models
type DashboardService struct {
	repo  dashboard.Repository
	cache StatsCache
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(repo dashboard.Repository, opts ...Option) *DashboardService {
	s := &DashboardService{
		repo: repo,
		ttl:  DefaultCacheTTL,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetStats returns headline counts for the optional range. Any failing
// sub-query fails the call.
func (s *DashboardService) GetStats(ctx context.Context, r dashboard.DateRange) (*dashboard.Stats, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	key := statsKey(r)
	if stats := s.cached(ctx, key); stats != nil {
		return stats, nil
	}

	ch := s.group.DoChan(key, func() (any, error) {
		// Callers joining this flight must not fail because the first one went away
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statsComputeTimeout)
		defer cancel()
		stats, err := s.computeStats(sctx, r)
		if err != nil {
			return nil, err
		}
		s.store(sctx, key, stats)
		return stats, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*dashboard.Stats), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *DashboardService) computeStats(ctx context.Context, r dashboard.DateRange) (*dashboard.Stats, error) {
	now := s.now()
	contactFrom, contactTo := r.ContactWindow(now)

	var (
		counts   map[shipment.Status]int64
		revenue  decimal.Decimal
		contacts int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.repo.CountByStatus(gctx, r)
		return err
	})
	g.Go(func() error {
		var err error
		revenue, err = s.repo.SumEstimatedCost(gctx, r)
		return err
	})
	g.Go(func() error {
		var err error
		contacts, err = s.repo.CountContacts(gctx, contactFrom, contactTo)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	return dashboard.NewStats(counts, revenue, contacts, now), nil
}

func (s *DashboardService) cached(ctx context.Context, key string) *dashboard.Stats {
	if s.cache == nil {
		return nil
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.L(ctx).Warn("Dashboard cache read failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	var stats dashboard.Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		logger.L(ctx).Warn("Dashboard cache entry is corrupt", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &stats
}

func (s *DashboardService) store(ctx context.Context, key string, stats *dashboard.Stats) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		logger.L(ctx).Warn("Dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func statsKey(r dashboard.DateRange) string {
	from, to := "-", "-"
	if r.From != nil {
		from = r.From.UTC().Format(time.RFC3339)
	}
	if r.To != nil {
		to = r.To.UTC().Format(time.RFC3339)
	}
	return statsKeyPrefix + from + ":" + to
}

// GetChartData returns one point per bucket, oldest first
func (s *DashboardService) GetChartData(ctx context.Context, g dashboard.Granularity, now time.Time) ([]dashboard.ChartPoint, error) {
	windows := dashboard.Windows(g, now)
	points := make([]dashboard.ChartPoint, len(windows))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(4)
	for i, w := range windows {
		eg.Go(func() error {
			counts, err := s.repo.CountWindow(gctx, w)
			if err != nil {
				return err
			}
			points[i] = dashboard.ChartPoint{
				Label:     w.Label,
				Start:     w.Start,
				End:       w.End,
				Shipments: counts.Shipments,
				Delivered: counts.Delivered,
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard chart: %w", err)
	}
	return points, nil
}

// GetRevenueByService returns each service's share of revenue over the
// trailing window of days
func (s *DashboardService) GetRevenueByService(ctx context.Context, days int) (*dashboard.RevenueBreakdown, error) {
	days, err := dashboard.NormalizeDays(days)
	if err != nil {
		return nil, err
	}
	since := s.now().AddDate(0, 0, -days)
	rows, err := s.repo.RevenueByService(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("dashboard revenue: %w", err)
	}
	return dashboard.BuildRevenueBreakdown(days, rows), nil
}
