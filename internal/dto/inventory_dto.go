package dto

// AdjustStockRequest is a manual stock correction. Quantity is signed:
// positive replenishes, negative removes. Zero must reach the service so it
// can answer with a conflict rather than a field error, so no validator tag.
type AdjustStockRequest struct {
	ProductID string  `json:"productId" validate:"required,uuid"`
	Quantity  int     `json:"quantity"`
	Reason    *string `json:"reason"`
}

type MovementResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName,omitempty"`
	Type        string  `json:"type"`
	Quantity    int     `json:"quantity"`
	StockBefore int     `json:"stockBefore"`
	StockAfter  int     `json:"stockAfter"`
	Reason      string  `json:"reason,omitempty"`
	UserID      *string `json:"userId,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

// MovementFilter is bound from query string of GET /v1/inventory/movements.
type MovementFilter struct {
	ProductID string `form:"productId" validate:"omitempty,uuid"`
}
