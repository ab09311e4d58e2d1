package tournamentservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	scoredomain "github.com/tipovacka-hokej/tipovacka/app/modules/score/domain"
	tournamentdb "github.com/tipovacka-hokej/tipovacka/app/modules/tournament/infrastructure/repositories"
	"github.com/tipovacka-hokej/tipovacka/internal/handlerwrapper"
	"github.com/tipovacka-hokej/tipovacka/internal/observability/metrics"
)

const serviceName = "TournamentService"

// TournamentService owns every write to tournament data and announces each
// change on the event bus.
type TournamentService struct {
	repo      tournamentdb.Repository
	logger    *slog.Logger
	metrics   metrics.ServiceMetrics
	tracer    trace.Tracer
	db        *bun.DB
	publisher message.Publisher
	rules     scoredomain.Rules
	now       func() time.Time
}

// NewTournamentService creates a new TournamentService. publisher may be nil,
// in which case changes are stored but not announced.
func NewTournamentService(
	repo tournamentdb.Repository,
	logger *slog.Logger,
	metrics metrics.ServiceMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	publisher message.Publisher,
	rules scoredomain.Rules,
) *TournamentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TournamentService{
		repo:      repo,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
		publisher: publisher,
		rules:     rules,
		now:       time.Now,
	}
}

// publish announces a committed change. A failed publish is logged and does
// not undo the write; the next change triggers a full recompute anyway.
func (s *TournamentService) publish(ctx context.Context, topic string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := handlerwrapper.Publish(s.publisher, nil, []handlerwrapper.Result{{Topic: topic, Payload: payload}}); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish event",
			slog.String("topic", topic),
			slog.Any("error", err),
		)
	}
}

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[T any](
	s *TournamentService,
	ctx context.Context,
	operationName string,
	identifier string,
	op func(ctx context.Context) (T, error),
) (result T, err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
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

	s.logger.InfoContext(ctx, "Operation triggered", slog.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				slog.String("identifier", identifier),
				slog.Any("error", err),
			)
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
			s.logger.WarnContext(ctx, "Operation rejected",
				slog.String("operation", operationName),
				slog.String("identifier", identifier),
				slog.Any("reason", err),
			)
		} else {
			s.logger.ErrorContext(ctx, "Operation failed with error",
				slog.String("operation", operationName),
				slog.String("identifier", identifier),
				slog.Any("error", wrappedErr),
			)
			span.RecordError(wrappedErr)
		}
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		}
		return result, wrappedErr
	}

	s.logger.InfoContext(ctx, "Operation completed successfully",
		slog.String("operation", operationName),
		slog.String("identifier", identifier),
	)
	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}
	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[T any](
	s *TournamentService,
	ctx context.Context,
	opts *sql.TxOptions,
	fn func(ctx context.Context, db bun.IDB) (T, error),
) (T, error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result T
	err := s.db.RunInTx(ctx, opts, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	return result, err
}

// isRejection reports whether err is a business-rule refusal rather than an
// infrastructure failure.
func isRejection(err error) bool {
	for _, target := range rejections {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
