package services

import (
	"context"
	"net/url"
	"strconv"

	"github.com/TFMV/querylab/pkg/errors"
	"github.com/TFMV/querylab/pkg/models"
)

// History page size bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// historyService implements HistoryService interface.
type historyService struct {
	backend Backend
	logger  Logger
}

// NewHistoryService creates a new history service.
func NewHistoryService(backend Backend, logger Logger) HistoryService {
	return &historyService{
		backend: backend,
		logger:  logger,
	}
}

// Page fetches one page of the caller's history, newest first. page is
// zero-based; size is clamped to [1, MaxPageSize] and 0 selects the default.
func (s *historyService) Page(ctx context.Context, page, size int) (*models.PagedResponse[models.HistoryItem], error) {
	if page < 0 {
		return nil, errors.Newf(errors.CodeInvalidRequest, "page must not be negative, got %d", page)
	}
	size = ClampPageSize(size)

	query := url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}

	var resp models.PagedResponse[models.HistoryItem]
	if err := s.backend.Get(ctx, "/history", query, &resp); err != nil {
		s.logger.Error("Failed to load history", "error", err, "page", page)
		return nil, err
	}

	s.logger.Debug("Loaded history page",
		"page", resp.Page,
		"items", len(resp.Items),
		"total_items", resp.TotalItems)
	return &resp, nil
}

// Get fetches a single history entry.
func (s *historyService) Get(ctx context.Context, id int64) (*models.HistoryItem, error) {
	if id <= 0 {
		return nil, errors.Newf(errors.CodeInvalidRequest, "invalid history id %d", id)
	}

	var item models.HistoryItem
	if err := s.backend.Get(ctx, "/history/"+strconv.FormatInt(id, 10), nil, &item); err != nil {
		s.logger.Error("Failed to load history item", "error", err, "id", id)
		return nil, err
	}
	return &item, nil
}

// ClampPageSize maps size onto [1, MaxPageSize] the same way the backend
// does.
func ClampPageSize(size int) int {
	switch {
	case size < 1:
		return 1
	case size > MaxPageSize:
		return MaxPageSize
	default:
		return size
	}
}
