package models

// ExplainRow is one row of a MySQL-style EXPLAIN plan as returned by the
// backend. Field names follow the EXPLAIN column names.
type ExplainRow struct {
	ID           *int64   `json:"id"`
	SelectType   string   `json:"select_type"`
	Table        *string  `json:"table"`
	Partitions   *string  `json:"partitions"`
	Type         *string  `json:"type"`
	PossibleKeys *string  `json:"possible_keys"`
	Key          *string  `json:"key"`
	KeyLen       *string  `json:"key_len"`
	Ref          *string  `json:"ref"`
	Rows         *int64   `json:"rows"`
	Filtered     *float64 `json:"filtered"`
	Extra        *string  `json:"Extra"`
}

// AccessType returns the plan access type, or "" when absent.
func (r ExplainRow) AccessType() string {
	if r.Type == nil {
		return ""
	}
	return *r.Type
}

// ExplainResult is the response of /query/explain.
type ExplainResult struct {
	Success      bool         `json:"success"`
	ExplainData  []ExplainRow `json:"explainData"`
	IndexUsed    *string      `json:"indexUsed"`
	RowsScanned  *int64       `json:"rowsScanned"`
	ErrorMessage *string      `json:"errorMessage"`
}
