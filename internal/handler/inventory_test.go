package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/solucionesrptech/pasteleria-api/internal/domain"
	"github.com/solucionesrptech/pasteleria-api/internal/dto"
	"github.com/solucionesrptech/pasteleria-api/internal/handler"
	"github.com/solucionesrptech/pasteleria-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInventoryService struct {
	adjustReq  *dto.AdjustStockRequest
	adjustResp *dto.ProductResponse
	adjustErr  error
}

func (s *stubInventoryService) AdjustStock(_ context.Context, req dto.AdjustStockRequest, _ *uuid.UUID) (*dto.ProductResponse, error) {
	s.adjustReq = &req
	return s.adjustResp, s.adjustErr
}

func (s *stubInventoryService) ListMovements(_ context.Context, _ dto.MovementFilter) ([]dto.MovementResponse, error) {
	return []dto.MovementResponse{}, nil
}

func (s *stubInventoryService) LowStock(_ context.Context, _ int) ([]dto.ProductResponse, error) {
	return []dto.ProductResponse{}, nil
}

var _ service.InventoryService = (*stubInventoryService)(nil)

func newInventoryRouter(svc service.InventoryService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewInventoryHandler(svc, 5)
	r := gin.New()
	r.POST("/v1/inventory/adjust", h.Adjust)
	return r
}

func postAdjust(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/inventory/adjust", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAjusteHTTP_Exitoso(t *testing.T) {
	svc := &stubInventoryService{adjustResp: &dto.ProductResponse{
		ID:    "5cf8c9b0-58e5-4d98-a3a8-1f2db7e2c001",
		Name:  "Torta de Chocolate",
		Stock: 15,
	}}
	r := newInventoryRouter(svc)

	w := postAdjust(r, `{"productId": "5cf8c9b0-58e5-4d98-a3a8-1f2db7e2c001", "quantity": 5}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ProductResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 15, resp.Stock)
	require.NotNil(t, svc.adjustReq)
	assert.Equal(t, 5, svc.adjustReq.Quantity)
}

func TestAjusteHTTP_CantidadCero_Conflicto(t *testing.T) {
	// A zero delta must pass request binding and come back as the service's
	// conflict, not as a 422 field error.
	svc := &stubInventoryService{adjustErr: &domain.ZeroAdjustmentError{}}
	r := newInventoryRouter(svc)

	w := postAdjust(r, `{"productId": "5cf8c9b0-58e5-4d98-a3a8-1f2db7e2c001", "quantity": 0}`)
	require.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, svc.adjustReq)
	assert.Equal(t, 0, svc.adjustReq.Quantity)
}

func TestAjusteHTTP_ProductoFaltante_NoValido(t *testing.T) {
	svc := &stubInventoryService{}
	r := newInventoryRouter(svc)

	w := postAdjust(r, `{"quantity": 3}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Nil(t, svc.adjustReq)
}
