package handler

import (
	"net/http"
	"strconv"

	"github.com/solucionesrptech/pasteleria-api/internal/apierror"
	"github.com/solucionesrptech/pasteleria-api/internal/dto"
	"github.com/solucionesrptech/pasteleria-api/internal/middleware"
	"github.com/solucionesrptech/pasteleria-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	svc             service.InventoryService
	lowStockDefault int
}

func NewInventoryHandler(svc service.InventoryService, lowStockDefault int) *InventoryHandler {
	return &InventoryHandler{svc: svc, lowStockDefault: lowStockDefault}
}

// Adjust handles POST /v1/inventory/adjust — manual stock correction.
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}

	var userID *uuid.UUID
	if claims, ok := middleware.Claims(c); ok {
		if uid, err := uuid.Parse(claims.UserID); err == nil {
			userID = &uid
		}
	}

	resp, err := h.svc.AdjustStock(c.Request.Context(), req, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movements handles GET /v1/inventory/movements — the audit ledger,
// newest first, optionally filtered by product.
func (h *InventoryHandler) Movements(c *gin.Context) {
	var filter dto.MovementFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LowStock handles GET /v1/inventory/low-stock. The threshold falls back to
// the configured default when the query param is absent.
func (h *InventoryHandler) LowStock(c *gin.Context) {
	threshold := h.lowStockDefault
	if raw, ok := c.GetQuery("threshold"); ok {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Umbral invalido"))
			return
		}
		threshold = parsed
	}
	resp, err := h.svc.LowStock(c.Request.Context(), threshold)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
