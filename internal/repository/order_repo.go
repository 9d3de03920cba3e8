package repository

import (
	"context"

	"github.com/solucionesrptech/pasteleria-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderFilter narrows the admin order listing.
type OrderFilter struct {
	Status string
	Page   int
	Limit  int
}

type OrderRepository interface {
	CreateTx(tx *gorm.DB, o *model.Order) error
	CreateItemTx(tx *gorm.DB, item *model.OrderItem) error
	CreatePaymentTx(tx *gorm.DB, p *model.Payment) error
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error

	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	FindByPublicToken(ctx context.Context, token string) (*model.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error)

	// Summary returns the count and CLP revenue of paid orders.
	Summary(ctx context.Context) (count int64, revenueCLP int64, err error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) CreateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Create(o).Error
}

func (r *orderRepo) CreateItemTx(tx *gorm.DB, item *model.OrderItem) error {
	return tx.Create(item).Error
}

func (r *orderRepo) CreatePaymentTx(tx *gorm.DB, p *model.Payment) error {
	return tx.Create(p).Error
}

func (r *orderRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Order{}).Where("id = ?", id).Update("status", status).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Payment").
		First(&o, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByPublicToken(ctx context.Context, token string) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Payment").
		Where("public_token = ?", token).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := (page - 1) * limit

	var orders []model.Order
	err := q.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) Summary(ctx context.Context) (int64, int64, error) {
	var row struct {
		Count   int64
		Revenue int64
	}
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_clp), 0) AS revenue").
		Where("status = ?", model.OrderStatusPagado).
		Scan(&row).Error
	return row.Count, row.Revenue, err
}
