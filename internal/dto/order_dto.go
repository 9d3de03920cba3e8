package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OrderItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity"  validate:"required,min=1"`
}

type CreateOrderRequest struct {
	CustomerName    string `json:"customerName"    validate:"required"`
	CustomerEmail   string `json:"customerEmail"   validate:"required,email"`
	CustomerPhone   string `json:"customerPhone"   validate:"required"`
	FulfillmentType string `json:"fulfillmentType" validate:"required,oneof=DELIVERY PICKUP"`
	// DeliveryAddress/Zone are semantically required for DELIVERY but not
	// structurally enforced — the storefront collects them.
	DeliveryAddress *string            `json:"deliveryAddress"`
	Zone            *string            `json:"zone"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderItemResponse struct {
	ID           string `json:"id"`
	ProductID    string `json:"productId"`
	Quantity     int    `json:"quantity"`
	UnitPriceCLP int    `json:"unitPriceCLP"`
	LineTotalCLP int    `json:"lineTotalCLP"`
	CreatedAt    string `json:"createdAt"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	CustomerName    string              `json:"customerName"`
	CustomerEmail   string              `json:"customerEmail"`
	CustomerPhone   string              `json:"customerPhone"`
	FulfillmentType string              `json:"fulfillmentType"`
	DeliveryAddress *string             `json:"deliveryAddress,omitempty"`
	Zone            *string             `json:"zone,omitempty"`
	TotalCLP        int                 `json:"totalCLP"`
	Status          string              `json:"status"`
	PublicToken     string              `json:"publicToken"`
	CreatedAt       string              `json:"createdAt"`
	UpdatedAt       string              `json:"updatedAt"`
	Items           []OrderItemResponse `json:"items"`
}

// ─── Listing / reporting ─────────────────────────────────────────────────────

// OrderFilter is bound from query string of GET /v1/orders.
type OrderFilter struct {
	Status string `form:"status"`
	Page   int    `form:"page,default=1"  validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// SalesSummaryResponse aggregates paid orders. AverageTicketCLP keeps the
// fractional part (CLP is integer per order, the mean usually is not).
type SalesSummaryResponse struct {
	TotalOrders      int64           `json:"totalOrders"`
	RevenueCLP       int64           `json:"revenueCLP"`
	AverageTicketCLP decimal.Decimal `json:"averageTicketCLP"`
}
