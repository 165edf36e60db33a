package sql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// QueryStats holds statement execution statistics.
type QueryStats struct {
	TotalQueries  atomic.Int64
	TotalExecs    atomic.Int64
	TotalDuration atomic.Int64 // nanoseconds
	SlowQueries   atomic.Int64
	Errors        atomic.Int64
}

// Stats returns a snapshot of the current statistics.
func (s *QueryStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		TotalQueries:  s.TotalQueries.Load(),
		TotalExecs:    s.TotalExecs.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
		SlowQueries:   s.SlowQueries.Load(),
		Errors:        s.Errors.Load(),
	}
}

// StatsSnapshot is a point-in-time snapshot of query statistics.
type StatsSnapshot struct {
	TotalQueries  int64
	TotalExecs    int64
	TotalDuration time.Duration
	SlowQueries   int64
	Errors        int64
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf("queries=%d execs=%d duration=%s slow=%d errors=%d",
		s.TotalQueries, s.TotalExecs, s.TotalDuration, s.SlowQueries, s.Errors)
}

// StatsExecutor wraps an Executor, counts the statements a cascade runs
// and logs the slow ones.
type StatsExecutor struct {
	Executor
	stats         *QueryStats
	slowThreshold time.Duration
	logger        *slog.Logger
}

// StatsOption configures the StatsExecutor.
type StatsOption func(*StatsExecutor)

// WithSlowThreshold sets the threshold for slow statement detection.
// Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsExecutor) {
		s.slowThreshold = d
	}
}

// WithStatsLogger sets the logger slow statements are reported to.
func WithStatsLogger(l *slog.Logger) StatsOption {
	return func(s *StatsExecutor) {
		s.logger = l
	}
}

// NewStatsExecutor wraps ex with statistics collection.
//
//	tx, _ := drv.BeginTx(ctx, nil)
//	ex := sql.NewStatsExecutor(tx, sql.WithSlowThreshold(200*time.Millisecond))
//	err := agg.Save(ctx, ex)
//	slog.Info("saved", "stats", ex.QueryStats().Stats())
func NewStatsExecutor(ex Executor, opts ...StatsOption) *StatsExecutor {
	s := &StatsExecutor{
		Executor:      ex,
		stats:         &QueryStats{},
		slowThreshold: 100 * time.Millisecond,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryStats returns the underlying QueryStats for reading statistics.
func (s *StatsExecutor) QueryStats() *QueryStats {
	return s.stats
}

// ExecContext executes a statement and records statistics.
func (s *StatsExecutor) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := s.Executor.ExecContext(ctx, query, args...)
	s.stats.TotalExecs.Add(1)
	s.record(ctx, query, start, err)
	return res, err
}

// QueryContext executes a query and records statistics.
func (s *StatsExecutor) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := s.Executor.QueryContext(ctx, query, args...)
	s.stats.TotalQueries.Add(1)
	s.record(ctx, query, start, err)
	return rows, err
}

func (s *StatsExecutor) record(ctx context.Context, query string, start time.Time, err error) {
	duration := time.Since(start)
	s.stats.TotalDuration.Add(int64(duration))
	if err != nil {
		s.stats.Errors.Add(1)
	}
	if duration > s.slowThreshold {
		s.stats.SlowQueries.Add(1)
		s.logger.WarnContext(ctx, "slow statement detected", "duration", duration, "query", query)
	}
}

var _ Executor = (*StatsExecutor)(nil)
