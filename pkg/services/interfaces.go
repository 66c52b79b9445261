// Package services wraps the backend HTTP contract in the operations the
// querylab commands perform.
package services

import (
	"context"
	"net/url"
	"time"

	"github.com/TFMV/querylab/pkg/evaluator"
	"github.com/TFMV/querylab/pkg/models"
	"github.com/TFMV/querylab/pkg/session"
)

// Backend is the transport the services speak through. *client.Client
// implements it.
type Backend interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, query url.Values, in, out any) error
}

// QueryService defines query operations.
type QueryService interface {
	Execute(ctx context.Context, sql string) (*models.QueryResult, error)
	Explain(ctx context.Context, sql string) (*models.ExplainResult, error)
	Compare(ctx context.Context, queries []string) (*Comparison, error)
}

// Comparison is the outcome of running several queries side by side.
type Comparison struct {
	Queries  []string
	Outcomes []models.QueryResult
	Result   evaluator.ComparisonResult
}

// HistoryService defines history browsing operations.
type HistoryService interface {
	Page(ctx context.Context, page, size int) (*models.PagedResponse[models.HistoryItem], error)
	Get(ctx context.Context, id int64) (*models.HistoryItem, error)
}

// SampleDataService defines sample-data administration operations.
type SampleDataService interface {
	Generate(ctx context.Context, req models.SampleDataRequest) (*models.GenerationAccepted, error)
	Status(ctx context.Context) (*models.GenerationStatus, error)
	Watch(ctx context.Context, interval time.Duration, onUpdate func(models.GenerationStatus)) (*models.GenerationStatus, error)
	WatchRun(ctx context.Context, interval time.Duration, onUpdate func(models.GenerationStatus)) (*models.GenerationStatus, error)
}

// AuthService defines login and registration.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*session.Session, error)
	Register(ctx context.Context, username, email, password string) (*session.Session, error)
	Logout() error
}

// Logger defines logging interface.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// MetricsCollector defines metrics collection interface.
type MetricsCollector interface {
	IncrementCounter(name string, labels ...string)
	RecordHistogram(name string, value float64, labels ...string)
	RecordGauge(name string, value float64, labels ...string)
	StartTimer(name string, labels ...string) Timer
}

// Timer represents a timing measurement.
type Timer interface {
	Stop() time.Duration
}
