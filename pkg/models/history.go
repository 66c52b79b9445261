package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// HistoryItem is one logged execution.
type HistoryItem struct {
	ID            int64     `json:"id"`
	SQLText       string    `json:"sqlText"`
	ExecutionTime *int64    `json:"executionTimeMs"`
	RowsScanned   *int64    `json:"rowsScanned"`
	RowsReturned  *int64    `json:"rowsReturned"`
	IndexUsed     *string   `json:"indexUsed"`
	Status        Status    `json:"status"`
	CreatedAt     Timestamp `json:"createdAt"`
}

// PagedResponse is a single page of a paginated listing.
type PagedResponse[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// HasPrevious reports whether a page precedes this one.
func (p *PagedResponse[T]) HasPrevious() bool {
	return p.Page > 0
}

// HasNext reports whether a page follows this one.
func (p *PagedResponse[T]) HasNext() bool {
	return p.Page < p.TotalPages-1
}

// Timestamp decodes the backend's date-time values. The backend serializes
// local date-times without a zone, either as an ISO string or as a
// [year, month, day, hour, minute, second, nanos] array.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	if data[0] == '[' {
		var parts []int
		if err := json.Unmarshal(data, &parts); err != nil {
			return fmt.Errorf("timestamp array: %w", err)
		}
		if len(parts) < 3 {
			return fmt.Errorf("timestamp array: want at least 3 fields, got %d", len(parts))
		}
		for len(parts) < 7 {
			parts = append(parts, 0)
		}
		t.Time = time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], parts[6], time.Local)
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := dateparse.ParseLocal(raw)
	if err != nil {
		return fmt.Errorf("timestamp %q: %w", raw, err)
	}
	t.Time = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}
