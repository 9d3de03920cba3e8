package service

import (
	"context"
	"errors"
	"time"

	"github.com/solucionesrptech/pasteleria-api/internal/domain"
	"github.com/solucionesrptech/pasteleria-api/internal/dto"
	"github.com/solucionesrptech/pasteleria-api/internal/infra"
	"github.com/solucionesrptech/pasteleria-api/internal/model"
	"github.com/solucionesrptech/pasteleria-api/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// InventoryService applies bounded stock deltas with validation and keeps the
// append-only movement ledger.
type InventoryService interface {
	// AdjustStock applies a signed manual correction and writes one ADJUST
	// ledger row, atomically. userID is the operator, recorded on the row.
	AdjustStock(ctx context.Context, req dto.AdjustStockRequest, userID *uuid.UUID) (*dto.ProductResponse, error)

	ListMovements(ctx context.Context, filter dto.MovementFilter) ([]dto.MovementResponse, error)
	LowStock(ctx context.Context, threshold int) ([]dto.ProductResponse, error)
}

type inventoryService struct {
	tx        repository.TxManager
	products  repository.ProductRepository
	movements repository.MovementRepository
	cache     *infra.ProductCache
	// maxAdjust caps |quantity| for adjustments that would otherwise
	// succeed — a fat-fingered -10000 should not wipe a warehouse.
	maxAdjust int
}

func NewInventoryService(
	tx repository.TxManager,
	products repository.ProductRepository,
	movements repository.MovementRepository,
	cache *infra.ProductCache,
	maxAdjust int,
) InventoryService {
	return &inventoryService{
		tx:        tx,
		products:  products,
		movements: movements,
		cache:     cache,
		maxAdjust: maxAdjust,
	}
}

func (s *inventoryService) AdjustStock(ctx context.Context, req dto.AdjustStockRequest, userID *uuid.UUID) (*dto.ProductResponse, error) {
	if req.Quantity == 0 {
		return nil, &domain.ZeroAdjustmentError{}
	}
	pid, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, &domain.ValidationError{Msg: "productId inválido: " + req.ProductID}
	}

	var updated model.Product
	txErr := s.tx.InTx(ctx, func(tx *gorm.DB) error {
		p, err := s.products.FindByIDForUpdateTx(tx, pid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &domain.NotFoundError{Entity: "Producto", ID: req.ProductID}
			}
			return err
		}
		if !p.Active {
			return &domain.InactiveProductError{Name: p.Name}
		}

		newStock := p.Stock + req.Quantity
		if newStock < 0 {
			return &domain.InsufficientStockError{
				Product:   p.Name,
				Available: p.Stock,
				Requested: -req.Quantity,
			}
		}
		// Magnitude bound, checked after the shortfall check so an absurd
		// decrement on a small stock still reports InsufficientStock.
		if req.Quantity > s.maxAdjust || -req.Quantity > s.maxAdjust {
			return &domain.ValidationError{
				Msg: "El ajuste supera la magnitud máxima permitida",
			}
		}

		if err := s.products.SetStockTx(tx, pid, newStock); err != nil {
			return err
		}

		reason := "Ajuste manual"
		if req.Reason != nil && *req.Reason != "" {
			reason = *req.Reason
		}
		mov := model.InventoryMovement{
			ProductID:   pid,
			Type:        model.MovementAdjust,
			Quantity:    req.Quantity,
			StockBefore: p.Stock,
			StockAfter:  newStock,
			Reason:      reason,
			UserID:      userID,
		}
		if err := s.movements.CreateTx(tx, &mov); err != nil {
			return err
		}

		updated = *p
		updated.Stock = newStock
		return nil
	})
	if txErr != nil {
		return nil, repository.ClassifyError(txErr)
	}

	s.cache.InvalidateProducts(ctx)
	log.Info().
		Str("product_id", pid.String()).
		Int("delta", req.Quantity).
		Int("stock", updated.Stock).
		Msg("stock ajustado")
	return productToResponse(&updated), nil
}

func (s *inventoryService) ListMovements(ctx context.Context, filter dto.MovementFilter) ([]dto.MovementResponse, error) {
	var productID *uuid.UUID
	if filter.ProductID != "" {
		pid, err := uuid.Parse(filter.ProductID)
		if err != nil {
			return nil, &domain.ValidationError{Msg: "productId inválido: " + filter.ProductID}
		}
		productID = &pid
	}

	movements, err := s.movements.List(ctx, productID)
	if err != nil {
		return nil, repository.ClassifyError(err)
	}

	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		resp := dto.MovementResponse{
			ID:          m.ID.String(),
			ProductID:   m.ProductID.String(),
			Type:        m.Type,
			Quantity:    m.Quantity,
			StockBefore: m.StockBefore,
			StockAfter:  m.StockAfter,
			Reason:      m.Reason,
			CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		}
		if m.Product != nil {
			resp.ProductName = m.Product.Name
		}
		if m.UserID != nil {
			uid := m.UserID.String()
			resp.UserID = &uid
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *inventoryService) LowStock(ctx context.Context, threshold int) ([]dto.ProductResponse, error) {
	if threshold < 0 {
		return nil, &domain.ValidationError{Msg: "El umbral no puede ser negativo"}
	}
	products, err := s.products.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, repository.ClassifyError(err)
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *productToResponse(&products[i]))
	}
	return out, nil
}
