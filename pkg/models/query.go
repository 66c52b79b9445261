// Package models provides the wire types exchanged with the querylab backend.
package models

// Status is the outcome of a single query execution.
type Status string

const (
	// StatusSuccess indicates the query ran to completion.
	StatusSuccess Status = "SUCCESS"
	// StatusError indicates the backend rejected or failed the query.
	StatusError Status = "ERROR"
	// StatusTimeout indicates the backend execution limit was exceeded.
	StatusTimeout Status = "TIMEOUT"
)

// QueryRequest is the body of /query/execute and /query/explain.
type QueryRequest struct {
	SQL string `json:"sql"`
}

// CompareRequest is the body of /query/compare.
type CompareRequest struct {
	Queries []string `json:"queries"`
}

// QueryResult is one query's complete execution outcome. Nil pointers mean
// the backend did not report the value.
type QueryResult struct {
	Status        Status           `json:"status"`
	OriginalSQL   string           `json:"originalSql"`
	ProcessedSQL  *string          `json:"processedSql"`
	Columns       []string         `json:"columns"`
	Data          []map[string]any `json:"data"`
	ExecutionTime *int64           `json:"executionTimeMs"`
	RowsReturned  *int64           `json:"rowsReturned"`
	RowsScanned   *int64           `json:"rowsScanned"`
	IndexUsed     *string          `json:"indexUsed"`
	ExplainResult []ExplainRow     `json:"explainResult"`
	ErrorMessage  *string          `json:"errorMessage"`
}

// Succeeded reports whether the outcome has SUCCESS status.
func (r *QueryResult) Succeeded() bool {
	return r.Status == StatusSuccess
}

// ExecutionTimeOrZero returns the execution time, treating absent as 0.
func (r *QueryResult) ExecutionTimeOrZero() int64 {
	return deref(r.ExecutionTime)
}

// RowsReturnedOrZero returns rows returned, treating absent as 0.
func (r *QueryResult) RowsReturnedOrZero() int64 {
	return deref(r.RowsReturned)
}

// RowsScannedOrZero returns rows scanned, treating absent as 0.
func (r *QueryResult) RowsScannedOrZero() int64 {
	return deref(r.RowsScanned)
}

// Rewritten reports whether the backend changed the submitted SQL.
func (r *QueryResult) Rewritten() bool {
	return r.ProcessedSQL != nil && *r.ProcessedSQL != "" && *r.ProcessedSQL != r.OriginalSQL
}

// FailedResult builds a synthetic ERROR outcome for sql.
func FailedResult(sql, message string) QueryResult {
	return QueryResult{
		Status:       StatusError,
		OriginalSQL:  sql,
		ErrorMessage: &message,
	}
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 {
	return &v
}

// String returns a pointer to v.
func String(v string) *string {
	return &v
}

func deref(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
