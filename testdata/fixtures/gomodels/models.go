package gomodels

// Status of an order.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Order is placed by a customer.
type Order struct {
	// @zod.uuid()
	ID     string  `json:"id"`
	Status Status  `json:"status"`
	// @zod.positive()
	Total  float64 `json:"total"`
	// Free text from the customer.
	// @zod.max(500)
	Notes  *string `json:"notes,omitempty"`
	Lines  []Line  `json:"lines"`
}

// Line is one item of an order.
type Line struct {
	SKU string `json:"sku"` // @zod.length(8)
	Qty int    `json:"qty"` // @zod.min(1)
}
