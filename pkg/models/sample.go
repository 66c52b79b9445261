package models

// Backend limits for sample-data generation.
const (
	MaxCustomers     = 1000000
	MaxProducts      = 100000
	MaxOrders        = 5000000
	MinItemsPerOrder = 1
	MaxItemsPerOrder = 10
)

// SampleDataRequest sizes a sample-data generation run.
type SampleDataRequest struct {
	Customers     int `json:"customers" yaml:"customers"`
	Products      int `json:"products" yaml:"products"`
	Orders        int `json:"orders" yaml:"orders"`
	ItemsPerOrder int `json:"itemsPerOrder" yaml:"items_per_order"`
}

// DefaultSampleDataRequest matches the backend's defaults.
func DefaultSampleDataRequest() SampleDataRequest {
	return SampleDataRequest{
		Customers:     10000,
		Products:      1000,
		Orders:        50000,
		ItemsPerOrder: 3,
	}
}

// ExpectedOrderItems is the approximate number of order_items rows.
func (r SampleDataRequest) ExpectedOrderItems() int64 {
	return int64(r.Orders) * int64(r.ItemsPerOrder)
}

// GenerationAccepted is the 202 body of /sample/generate.
type GenerationAccepted struct {
	Message       string `json:"message"`
	Customers     int    `json:"customers"`
	Products      int    `json:"products"`
	Orders        int    `json:"orders"`
	ItemsPerOrder int    `json:"itemsPerOrder"`
}

// GenerationStatus reports progress of an asynchronous generation run.
type GenerationStatus struct {
	IsGenerating bool   `json:"isGenerating"`
	Progress     int    `json:"progress"`
	CurrentTask  string `json:"currentTask"`
}
