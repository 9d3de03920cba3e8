package service

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"time"

	"github.com/solucionesrptech/pasteleria-api/internal/domain"
	"github.com/solucionesrptech/pasteleria-api/internal/dto"
	"github.com/solucionesrptech/pasteleria-api/internal/infra"
	"github.com/solucionesrptech/pasteleria-api/internal/model"
	"github.com/solucionesrptech/pasteleria-api/internal/repository"
	"github.com/solucionesrptech/pasteleria-api/internal/token"
	"github.com/solucionesrptech/pasteleria-api/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentProvider settles an order. Only the mocked provider exists; the
// interface keeps the coordinator ignorant of that.
type PaymentProvider interface {
	Charge(ctx context.Context, orderID uuid.UUID, amountCLP int) (provider, status string, err error)
}

type OrderService interface {
	Create(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	GetByPublicToken(ctx context.Context, publicToken string) (*dto.OrderResponse, error)
	List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	Summary(ctx context.Context) (*dto.SalesSummaryResponse, error)
}

type orderService struct {
	tx        repository.TxManager
	orders    repository.OrderRepository
	products  repository.ProductRepository
	movements repository.MovementRepository
	payments  PaymentProvider
	tokens    token.Source
	cache     *infra.ProductCache
	// dispatcher is nil-safe: without Redis the confirmation email is skipped.
	dispatcher *worker.Dispatcher
}

func NewOrderService(
	tx repository.TxManager,
	orders repository.OrderRepository,
	products repository.ProductRepository,
	movements repository.MovementRepository,
	payments PaymentProvider,
	tokens token.Source,
	cache *infra.ProductCache,
	dispatcher *worker.Dispatcher,
) OrderService {
	return &orderService{
		tx:         tx,
		orders:     orders,
		products:   products,
		movements:  movements,
		payments:   payments,
		tokens:     tokens,
		cache:      cache,
		dispatcher: dispatcher,
	}
}

// ── Create ───────────────────────────────────────────────────────────────────
// Order creation in three phases:
//  1. pre-validation against current snapshots (cheap rejection, no locks)
//  2. price snapshot + total computation — inside the transaction, from the
//     same locked rows that get decremented
//  3. atomic commit: per line re-verify under FOR UPDATE, decrement stock,
//     write the OrderItem and the OUT ledger row; then Order, Payment, and
//     the CREADO→PAGADO flip. Any failure rolls back everything.

func (s *orderService) Create(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	log.Info().Str("customer", req.CustomerName).Int("lines", len(req.Items)).Msg("creando orden")

	// Phase 1 — pre-validation. The snapshot may be stale by commit time, so
	// every check here is repeated under the row lock in phase 3; this pass
	// only rejects hopeless orders before opening a transaction.
	lines := make([]orderLine, 0, len(req.Items))
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, &domain.ValidationError{Msg: "productId inválido: " + item.ProductID}
		}
		if item.Quantity <= 0 {
			return nil, &domain.ValidationError{Msg: "La cantidad debe ser mayor a 0 para el producto " + item.ProductID}
		}
		p, err := s.products.FindByID(ctx, pid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &domain.NotFoundError{Entity: "Producto", ID: item.ProductID}
			}
			return nil, repository.ClassifyError(err)
		}
		if !p.Active {
			return nil, &domain.InactiveProductError{Name: p.Name}
		}
		if p.Stock < item.Quantity {
			return nil, &domain.InsufficientStockError{
				Product:   p.Name,
				Available: p.Stock,
				Requested: item.Quantity,
			}
		}
		lines = append(lines, orderLine{productID: pid, quantity: item.Quantity})
	}

	publicToken, err := s.tokens()
	if err != nil {
		return nil, &domain.StorageFaultError{Cause: err}
	}

	var order model.Order
	txErr := s.tx.InTx(ctx, func(tx *gorm.DB) error {
		// Phases 2+3 — lock each distinct product row exactly once, in a
		// stable global order so two concurrent multi-line orders can never
		// hold row locks in opposite order and deadlock.
		ids := make([]uuid.UUID, 0, len(lines))
		seen := make(map[uuid.UUID]bool, len(lines))
		for _, line := range lines {
			if !seen[line.productID] {
				seen[line.productID] = true
				ids = append(ids, line.productID)
			}
		}
		sort.Slice(ids, func(i, j int) bool {
			return bytes.Compare(ids[i][:], ids[j][:]) < 0
		})

		locked := make(map[uuid.UUID]*model.Product, len(ids))
		for _, id := range ids {
			p, err := s.products.FindByIDForUpdateTx(tx, id)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &domain.NotFoundError{Entity: "Producto", ID: id.String()}
				}
				return err
			}
			if !p.Active {
				return &domain.InactiveProductError{Name: p.Name}
			}
			locked[id] = p
		}

		// Re-verify per line against the running stock: when the same
		// product appears on several lines, later lines see what earlier
		// lines already consumed, and the snapshots chain the before/after
		// values the ledger rows are built from.
		total := 0
		for i := range lines {
			p := locked[lines[i].productID]
			if p.Stock < lines[i].quantity {
				return &domain.InsufficientStockError{
					Product:   p.Name,
					Available: p.Stock,
					Requested: lines[i].quantity,
				}
			}
			lines[i].snapshot = *p
			p.Stock -= lines[i].quantity
			total += p.PriceCLP * lines[i].quantity
		}

		order = model.Order{
			CustomerName:    req.CustomerName,
			CustomerEmail:   req.CustomerEmail,
			CustomerPhone:   req.CustomerPhone,
			FulfillmentType: req.FulfillmentType,
			DeliveryAddress: req.DeliveryAddress,
			Zone:            req.Zone,
			TotalCLP:        total,
			Status:          model.OrderStatusCreado,
			PublicToken:     publicToken,
		}
		if err := s.orders.CreateTx(tx, &order); err != nil {
			return err
		}

		for _, line := range lines {
			if err := s.products.DecrementStockTx(tx, line.snapshot.ID, line.quantity); err != nil {
				return err
			}

			item := model.OrderItem{
				OrderID:      order.ID,
				ProductID:    line.snapshot.ID,
				Quantity:     line.quantity,
				UnitPriceCLP: line.snapshot.PriceCLP,
				LineTotalCLP: line.snapshot.PriceCLP * line.quantity,
			}
			if err := s.orders.CreateItemTx(tx, &item); err != nil {
				return err
			}
			order.Items = append(order.Items, item)

			mov := model.InventoryMovement{
				ProductID:   line.snapshot.ID,
				Type:        model.MovementOut,
				Quantity:    line.quantity,
				StockBefore: line.snapshot.Stock,
				StockAfter:  line.snapshot.Stock - line.quantity,
				Reason:      "Venta - Orden " + order.ID.String(),
			}
			if err := s.movements.CreateTx(tx, &mov); err != nil {
				return err
			}
		}

		provider, status, err := s.payments.Charge(ctx, order.ID, total)
		if err != nil {
			if errors.Is(err, infra.ErrCircuitOpen) {
				return &domain.TransientConflictError{Cause: err}
			}
			return err
		}
		payment := model.Payment{
			OrderID:   order.ID,
			Provider:  provider,
			Status:    status,
			AmountCLP: total,
		}
		if err := s.orders.CreatePaymentTx(tx, &payment); err != nil {
			return err
		}
		order.Payment = &payment

		if err := s.orders.UpdateStatusTx(tx, order.ID, model.OrderStatusPagado); err != nil {
			return err
		}
		order.Status = model.OrderStatusPagado
		return nil
	})
	if txErr != nil {
		classified := repository.ClassifyError(txErr)
		var sf *domain.StorageFaultError
		if errors.As(classified, &sf) {
			log.Error().Err(txErr).
				Str("customer", req.CustomerName).
				Int("lines", len(req.Items)).
				Msg("fallo de almacenamiento creando orden")
		}
		return nil, classified
	}

	s.cache.InvalidateProducts(ctx)
	s.enqueueConfirmation(ctx, &order, lines)

	log.Info().Str("order_id", order.ID.String()).Int("total_clp", order.TotalCLP).Msg("orden creada")
	return orderToResponse(&order), nil
}

type orderLine struct {
	productID uuid.UUID
	quantity  int
	snapshot  model.Product
}

// enqueueConfirmation pushes the confirmation email job after commit.
// Best-effort: a queue failure never fails the order.
func (s *orderService) enqueueConfirmation(ctx context.Context, order *model.Order, lines []orderLine) {
	if s.dispatcher == nil {
		return
	}
	receipt := infra.Receipt{
		OrderID:      order.ID.String(),
		CustomerName: order.CustomerName,
		PublicToken:  order.PublicToken,
		TotalCLP:     order.TotalCLP,
		CreatedAt:    order.CreatedAt,
	}
	for _, line := range lines {
		receipt.Items = append(receipt.Items, infra.ReceiptItem{
			Name:         line.snapshot.Name,
			Quantity:     line.quantity,
			LineTotalCLP: line.snapshot.PriceCLP * line.quantity,
		})
	}
	payload := worker.OrderEmailPayload{
		ToEmail: order.CustomerEmail,
		Receipt: receipt,
	}
	if err := s.dispatcher.EnqueueOrderEmail(ctx, payload); err != nil {
		log.Warn().Err(err).Str("order_id", order.ID.String()).Msg("no se pudo encolar email de confirmación")
	}
}

// ── Lookup / listing ─────────────────────────────────────────────────────────

func (s *orderService) GetByPublicToken(ctx context.Context, publicToken string) (*dto.OrderResponse, error) {
	order, err := s.orders.FindByPublicToken(ctx, publicToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Entity: "Orden", ID: publicToken}
		}
		return nil, repository.ClassifyError(err)
	}
	return orderToResponse(order), nil
}

func (s *orderService) List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	orders, total, err := s.orders.List(ctx, repository.OrderFilter{
		Status: filter.Status,
		Page:   filter.Page,
		Limit:  filter.Limit,
	})
	if err != nil {
		return nil, repository.ClassifyError(err)
	}
	data := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		data = append(data, *orderToResponse(&orders[i]))
	}
	return &dto.OrderListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *orderService) Summary(ctx context.Context) (*dto.SalesSummaryResponse, error) {
	count, revenue, err := s.orders.Summary(ctx)
	if err != nil {
		return nil, repository.ClassifyError(err)
	}
	avg := decimal.Zero
	if count > 0 {
		avg = decimal.NewFromInt(revenue).Div(decimal.NewFromInt(count)).Round(2)
	}
	return &dto.SalesSummaryResponse{
		TotalOrders:      count,
		RevenueCLP:       revenue,
		AverageTicketCLP: avg,
	}, nil
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func orderToResponse(o *model.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ID:           item.ID.String(),
			ProductID:    item.ProductID.String(),
			Quantity:     item.Quantity,
			UnitPriceCLP: item.UnitPriceCLP,
			LineTotalCLP: item.LineTotalCLP,
			CreatedAt:    item.CreatedAt.Format(time.RFC3339),
		})
	}
	return &dto.OrderResponse{
		ID:              o.ID.String(),
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerPhone:   o.CustomerPhone,
		FulfillmentType: o.FulfillmentType,
		DeliveryAddress: o.DeliveryAddress,
		Zone:            o.Zone,
		TotalCLP:        o.TotalCLP,
		Status:          o.Status,
		PublicToken:     o.PublicToken,
		CreatedAt:       o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       o.UpdatedAt.Format(time.RFC3339),
		Items:           items,
	}
}
