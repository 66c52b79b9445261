package services

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/TFMV/querylab/pkg/errors"
	"github.com/TFMV/querylab/pkg/infrastructure/metrics"
	"github.com/TFMV/querylab/pkg/models"
	"github.com/TFMV/querylab/pkg/poller"
)

// sampleDataService implements SampleDataService interface.
type sampleDataService struct {
	backend Backend
	poller  *poller.Poller
	logger  Logger
	metrics MetricsCollector
}

// NewSampleDataService creates a new sample-data service. p drives Watch.
func NewSampleDataService(backend Backend, p *poller.Poller, logger Logger, collector MetricsCollector) SampleDataService {
	return &sampleDataService{
		backend: backend,
		poller:  p,
		logger:  logger,
		metrics: collector,
	}
}

// Generate starts an asynchronous generation run.
func (s *sampleDataService) Generate(ctx context.Context, req models.SampleDataRequest) (*models.GenerationAccepted, error) {
	if err := ValidateSampleDataRequest(req); err != nil {
		return nil, err
	}

	query := url.Values{
		"customers":     {strconv.Itoa(req.Customers)},
		"products":      {strconv.Itoa(req.Products)},
		"orders":        {strconv.Itoa(req.Orders)},
		"itemsPerOrder": {strconv.Itoa(req.ItemsPerOrder)},
	}

	var accepted models.GenerationAccepted
	if err := s.backend.Post(ctx, "/sample/generate", query, nil, &accepted); err != nil {
		s.logger.Error("Failed to start sample data generation", "error", err)
		return nil, err
	}

	s.logger.Info("Sample data generation started",
		"customers", req.Customers,
		"products", req.Products,
		"orders", req.Orders,
		"items_per_order", req.ItemsPerOrder)
	return &accepted, nil
}

// Status reads generation progress once.
func (s *sampleDataService) Status(ctx context.Context) (*models.GenerationStatus, error) {
	var status models.GenerationStatus
	if err := s.backend.Get(ctx, "/sample/status", nil, &status); err != nil {
		return nil, err
	}
	s.metrics.RecordGauge(metrics.GenerationProgress, float64(status.Progress))
	return &status, nil
}

// StartGraceTicks is how many idle readings WatchRun tolerates before the
// backend reports the run it just accepted.
const StartGraceTicks = 5

// Watch polls Status every interval, reporting each reading to onUpdate,
// until generation is no longer running. It returns the last status read.
// A 401 or cancellation of ctx ends the watch with an error; other polling
// failures are retried on the next tick.
func (s *sampleDataService) Watch(ctx context.Context, interval time.Duration, onUpdate func(models.GenerationStatus)) (*models.GenerationStatus, error) {
	return s.watch(ctx, interval, onUpdate, func(status *models.GenerationStatus) bool {
		return !status.IsGenerating
	})
}

// WatchRun is Watch for a run Generate has just started. The backend flips
// isGenerating on asynchronously after accepting the request, so an idle
// reading only counts as completion once the run was seen in progress, has
// reached 100%, or StartGraceTicks idle readings have gone by.
func (s *sampleDataService) WatchRun(ctx context.Context, interval time.Duration, onUpdate func(models.GenerationStatus)) (*models.GenerationStatus, error) {
	started, idle := false, 0
	return s.watch(ctx, interval, onUpdate, func(status *models.GenerationStatus) bool {
		if status.IsGenerating {
			started = true
			return false
		}
		if started || status.Progress >= 100 {
			return true
		}
		idle++
		return idle > StartGraceTicks
	})
}

func (s *sampleDataService) watch(ctx context.Context, interval time.Duration, onUpdate func(models.GenerationStatus), finished func(*models.GenerationStatus) bool) (*models.GenerationStatus, error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var last *models.GenerationStatus
	poll := func(ctx context.Context) (bool, error) {
		s.metrics.IncrementCounter(metrics.GenerationPollsTotal)
		status, err := s.Status(ctx)
		if err != nil {
			if errors.IsUnauthorized(err) {
				cancel(err)
			}
			return false, err
		}
		last = status
		if onUpdate != nil {
			onUpdate(*status)
		}
		return finished(status), nil
	}

	// Read once immediately so a finished or idle run needs no tick.
	if done, err := poll(ctx); err == nil && done {
		return last, nil
	} else if errors.IsUnauthorized(err) {
		return nil, err
	}

	if !s.poller.Start(ctx, interval, poll) {
		return nil, errors.New(errors.CodeConflict, "generation progress is already being watched")
	}
	defer s.poller.Stop()

	<-s.poller.Done()

	if ctx.Err() != nil {
		return last, context.Cause(ctx)
	}
	s.logger.Info("Sample data generation finished", "progress", last.Progress)
	return last, nil
}

// ValidateSampleDataRequest enforces the backend's generation limits.
func ValidateSampleDataRequest(req models.SampleDataRequest) error {
	check := func(field string, v, min, max int) error {
		if v < min || v > max {
			return errors.Newf(errors.CodeInvalidRequest, "%s must be between %d and %d, got %d", field, min, max, v).
				WithDetail("field", field)
		}
		return nil
	}

	if err := check("customers", req.Customers, 1, models.MaxCustomers); err != nil {
		return err
	}
	if err := check("products", req.Products, 1, models.MaxProducts); err != nil {
		return err
	}
	if err := check("orders", req.Orders, 1, models.MaxOrders); err != nil {
		return err
	}
	return check("itemsPerOrder", req.ItemsPerOrder, models.MinItemsPerOrder, models.MaxItemsPerOrder)
}
