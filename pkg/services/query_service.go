package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/TFMV/querylab/pkg/errors"
	"github.com/TFMV/querylab/pkg/evaluator"
	"github.com/TFMV/querylab/pkg/infrastructure/metrics"
	"github.com/TFMV/querylab/pkg/models"
)

// Comparison batch limits.
const (
	MinCompareQueries = 2
	MaxCompareQueries = 5
)

// Fallback messages for failures that carry no backend message.
const (
	ExecuteFailedMessage = "Query execution failed"
	ExplainFailedMessage = "EXPLAIN failed"
	CompareFailedMessage = "Comparison failed"
)

const (
	actionExecute = "execute"
	actionExplain = "explain"
	actionCompare = "compare"
)

// queryService implements QueryService interface.
type queryService struct {
	backend  Backend
	logger   Logger
	metrics  MetricsCollector
	inflight *inflight
}

// NewQueryService creates a new query service.
func NewQueryService(backend Backend, logger Logger, collector MetricsCollector) QueryService {
	return &queryService{
		backend:  backend,
		logger:   logger,
		metrics:  collector,
		inflight: newInflight(),
	}
}

// Execute runs sql on the backend. Backend and transport failures become a
// synthetic ERROR outcome; only a missing session, cancellation and a newer
// execute are returned as errors.
func (s *queryService) Execute(ctx context.Context, sql string) (*models.QueryResult, error) {
	if strings.TrimSpace(sql) == "" {
		s.metrics.IncrementCounter("query_validation_errors_total")
		return nil, errors.ErrEmptyQuery
	}

	ctx, release := s.inflight.begin(ctx, actionExecute)
	defer release()

	s.logger.Debug("Executing query", "sql", sql)

	var result models.QueryResult
	if err := s.backend.Post(ctx, "/query/execute", nil, models.QueryRequest{SQL: sql}, &result); err != nil {
		if ferr := s.fatal(ctx, actionExecute, err); ferr != nil {
			return nil, ferr
		}
		s.logger.Warn("Query execution failed", "error", err)
		result = models.FailedResult(sql, failureMessage(err, ExecuteFailedMessage))
	}

	s.recordOutcome(&result)
	s.logger.Info("Query executed",
		"status", string(result.Status),
		"execution_time_ms", result.ExecutionTimeOrZero(),
		"rows_returned", result.RowsReturnedOrZero())

	return &result, nil
}

// Explain fetches the plan for sql without running it.
func (s *queryService) Explain(ctx context.Context, sql string) (*models.ExplainResult, error) {
	if strings.TrimSpace(sql) == "" {
		s.metrics.IncrementCounter("query_validation_errors_total")
		return nil, errors.ErrEmptyQuery
	}

	ctx, release := s.inflight.begin(ctx, actionExplain)
	defer release()

	s.logger.Debug("Explaining query", "sql", sql)

	var result models.ExplainResult
	if err := s.backend.Post(ctx, "/query/explain", nil, models.QueryRequest{SQL: sql}, &result); err != nil {
		if ferr := s.fatal(ctx, actionExplain, err); ferr != nil {
			return nil, ferr
		}
		s.logger.Warn("Explain failed", "error", err)
		result = models.ExplainResult{
			Success:      false,
			ErrorMessage: models.String(failureMessage(err, ExplainFailedMessage)),
		}
	}

	return &result, nil
}

// Compare runs 2 to 5 queries and ranks them. Blank entries are dropped
// before counting. When the call fails as a whole every query gets its own
// synthetic ERROR outcome so the result stays aligned with the input.
func (s *queryService) Compare(ctx context.Context, queries []string) (*Comparison, error) {
	valid := make([]string, 0, len(queries))
	for _, q := range queries {
		if strings.TrimSpace(q) != "" {
			valid = append(valid, q)
		}
	}
	if len(valid) < MinCompareQueries || len(valid) > MaxCompareQueries {
		s.metrics.IncrementCounter("query_validation_errors_total")
		return nil, errors.Newf(errors.CodeInvalidRequest,
			"compare needs between %d and %d non-empty queries, got %d",
			MinCompareQueries, MaxCompareQueries, len(valid))
	}

	ctx, release := s.inflight.begin(ctx, actionCompare)
	defer release()

	s.logger.Debug("Comparing queries", "count", len(valid))
	s.metrics.RecordHistogram(metrics.ComparisonBatchSize, float64(len(valid)))

	var outcomes []models.QueryResult
	err := s.backend.Post(ctx, "/query/compare", nil, models.CompareRequest{Queries: valid}, &outcomes)
	if err == nil && len(outcomes) != len(valid) {
		err = errors.Newf(errors.CodeDecodeFailed,
			"backend returned %d outcomes for %d queries", len(outcomes), len(valid))
	}
	if err != nil {
		if ferr := s.fatal(ctx, actionCompare, err); ferr != nil {
			return nil, ferr
		}
		s.logger.Warn("Comparison failed", "error", err)
		message := failureMessage(err, CompareFailedMessage)
		outcomes = make([]models.QueryResult, len(valid))
		for i, q := range valid {
			outcomes[i] = models.FailedResult(q, message)
		}
	}

	for i := range outcomes {
		s.recordOutcome(&outcomes[i])
	}

	result := evaluator.Evaluate(outcomes)
	if result.BestIndex < 0 {
		s.metrics.IncrementCounter(metrics.ComparisonNoWinner)
	}
	s.logger.Info("Comparison finished", "count", len(outcomes), "best_index", result.BestIndex)

	return &Comparison{
		Queries:  valid,
		Outcomes: outcomes,
		Result:   result,
	}, nil
}

// fatal returns the error to surface instead of a synthetic outcome, or nil
// when err should be folded into one.
func (s *queryService) fatal(ctx context.Context, action string, err error) error {
	switch {
	case superseded(ctx):
		s.metrics.IncrementCounter(metrics.SupersededTotal, "action", action)
		s.logger.Debug("Request superseded", "action", action)
		return errors.ErrSuperseded
	case errors.IsUnauthorized(err):
		return err
	case errors.GetCode(err) == errors.CodeCanceled:
		return err
	default:
		return nil
	}
}

func (s *queryService) recordOutcome(r *models.QueryResult) {
	s.metrics.IncrementCounter(metrics.QueryOutcomesTotal, "status", string(r.Status))
	if r.ExecutionTime != nil {
		s.metrics.RecordHistogram(metrics.QueryExecutionSecs, float64(*r.ExecutionTime)/1000,
			"indexed", strconv.FormatBool(r.IndexUsed != nil && *r.IndexUsed != ""))
	}
}

// failureMessage prefers the backend's own message over fallback.
func failureMessage(err error, fallback string) string {
	if msg := errors.BackendMessage(err); msg != "" {
		return msg
	}
	return fallback
}
