package leaderboardservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	leaderboarddomain "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/domain"
	scoredomain "github.com/tipovacka-hokej/tipovacka/app/modules/score/domain"
	"github.com/tipovacka-hokej/tipovacka/internal/observability/metrics"
)

const serviceName = "LeaderboardService"

// LeaderboardService computes standings and every view derived from them.
// It keeps no state between calls: each operation loads a fresh snapshot.
type LeaderboardService struct {
	reader   SnapshotReader
	engine   leaderboarddomain.Engine
	entryFee int
	logger   *slog.Logger
	metrics  metrics.ServiceMetrics
	tracer   trace.Tracer
	palette  ChartPalette
	now      func() time.Time
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(
	reader SnapshotReader,
	engine leaderboarddomain.Engine,
	entryFee int,
	logger *slog.Logger,
	metrics metrics.ServiceMetrics,
	tracer trace.Tracer,
) *LeaderboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if entryFee <= 0 {
		entryFee = leaderboarddomain.DefaultEntryFee
	}
	return &LeaderboardService{
		reader:   reader,
		engine:   engine,
		entryFee: entryFee,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		palette:  DefaultPalette,
		now:      time.Now,
	}
}

// Location is the zone match days are grouped in.
func (s *LeaderboardService) Location() *time.Location {
	return s.engine.Location
}

// compute loads a snapshot and runs the full pipeline on it.
func (s *LeaderboardService) compute(ctx context.Context) (scoredomain.Snapshot, leaderboarddomain.Standings, error) {
	snap, err := s.reader.LoadSnapshot(ctx)
	if err != nil {
		return scoredomain.Snapshot{}, leaderboarddomain.Standings{}, fmt.Errorf("load snapshot: %w", err)
	}
	standings := s.engine.Compute(snap, s.now())
	if s.metrics != nil {
		s.metrics.RecordStandingsSize(ctx, len(standings.Entries))
	}
	return snap, standings, nil
}

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
// Every call gets its own computation ID so the log lines of one pass can be grouped.
func withTelemetry[T any](
	s *LeaderboardService,
	ctx context.Context,
	operationName string,
	op func(ctx context.Context) (T, error),
) (result T, err error) {
	computationID := uuid.NewString()

	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("computation_id", computationID),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
		}
	}()

	logger := s.logger.With(slog.String("computation_id", computationID))
	logger.DebugContext(ctx, "Operation triggered", slog.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			logger.ErrorContext(ctx, "Critical panic recovered", slog.Any("error", err))
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			}
			span.RecordError(err)
			var zero T
			result = zero
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		if isRejection(err) {
			logger.WarnContext(ctx, "Operation rejected",
				slog.String("operation", operationName),
				slog.Any("reason", err),
			)
		} else {
			logger.ErrorContext(ctx, "Operation failed with error",
				slog.String("operation", operationName),
				slog.Any("error", wrappedErr),
			)
			span.RecordError(wrappedErr)
		}
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		}
		return result, wrappedErr
	}

	logger.DebugContext(ctx, "Operation completed successfully", slog.String("operation", operationName))
	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}
	return result, nil
}

func isRejection(err error) bool {
	for _, target := range rejections {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
