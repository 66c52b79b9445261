package services

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/querylab/pkg/errors"
)

func TestClampPageSize(t *testing.T) {
	tests := []struct {
		in, expected int
	}{
		{0, 1},
		{-5, 1},
		{1, 1},
		{20, 20},
		{100, 100},
		{101, MaxPageSize},
		{10000, MaxPageSize},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ClampPageSize(tt.in), "size %d", tt.in)
	}
}

func TestHistoryService_Page(t *testing.T) {
	var gotQuery url.Values
	backend := &mockBackend{
		getFunc: func(ctx context.Context, path string, query url.Values, out any) error {
			assert.Equal(t, "/history", path)
			gotQuery = query
			return respond(out, `{
				"items": [
					{"id": 9, "sqlText": "SELECT 2", "executionTimeMs": 5, "rowsReturned": 1, "status": "SUCCESS", "createdAt": "2024-05-01T10:00:00"},
					{"id": 8, "sqlText": "SELEC 1", "status": "ERROR", "createdAt": [2024, 5, 1, 9, 59, 0]}
				],
				"page": 1, "pageSize": 100, "totalItems": 102, "totalPages": 2
			}`)
		},
	}
	svc := NewHistoryService(backend, &mockLogger{})

	page, err := svc.Page(context.Background(), 1, 500)
	require.NoError(t, err)

	assert.Equal(t, "1", gotQuery.Get("page"))
	assert.Equal(t, "100", gotQuery.Get("size"))
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(9), page.Items[0].ID)
	assert.Equal(t, 59, page.Items[1].CreatedAt.Minute())
	assert.True(t, page.HasPrevious())
	assert.False(t, page.HasNext())
}

func TestHistoryService_PageValidation(t *testing.T) {
	svc := NewHistoryService(&mockBackend{}, &mockLogger{})

	_, err := svc.Page(context.Background(), -1, 20)
	assert.True(t, errors.IsInvalidRequest(err))
}

func TestHistoryService_Get(t *testing.T) {
	backend := &mockBackend{
		getFunc: func(ctx context.Context, path string, query url.Values, out any) error {
			if path != "/history/42" {
				return errors.New(errors.CodeNotFound, "History not found")
			}
			return respond(out, `{"id": 42, "sqlText": "SELECT 1", "status": "SUCCESS", "indexUsed": "PRIMARY"}`)
		},
	}
	svc := NewHistoryService(backend, &mockLogger{})

	item, err := svc.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "PRIMARY", *item.IndexUsed)

	_, err = svc.Get(context.Background(), 7)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	_, err = svc.Get(context.Background(), 0)
	assert.True(t, errors.IsInvalidRequest(err))
}
