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
	"gorm.io/gorm"
)

// CatalogService owns product CRUD and the public catalog read path. Stock
// is never mutated here — that belongs to the inventory service and the
// order coordinator.
type CatalogService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	ListActive(ctx context.Context) ([]dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	repo  repository.ProductRepository
	cache *infra.ProductCache
}

func NewCatalogService(repo repository.ProductRepository, cache *infra.ProductCache) CatalogService {
	return &catalogService{repo: repo, cache: cache}
}

func (s *catalogService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p := model.Product{
		Name:        req.Name,
		Description: req.Description,
		PriceCLP:    req.PriceCLP,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		Active:      true,
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, repository.ClassifyError(err)
	}
	s.cache.InvalidateProducts(ctx)
	return productToResponse(&p), nil
}

func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Entity: "Producto", ID: id.String()}
		}
		return nil, repository.ClassifyError(err)
	}
	return productToResponse(p), nil
}

func (s *catalogService) ListActive(ctx context.Context) ([]dto.ProductResponse, error) {
	var cached []dto.ProductResponse
	if s.cache.GetProductList(ctx, &cached) {
		return cached, nil
	}

	products, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, repository.ClassifyError(err)
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *productToResponse(&products[i]))
	}
	s.cache.SetProductList(ctx, out)
	return out, nil
}

func (s *catalogService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Entity: "Producto", ID: id.String()}
		}
		return nil, repository.ClassifyError(err)
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.PriceCLP != nil {
		p.PriceCLP = *req.PriceCLP
	}
	if req.ImageURL != nil {
		p.ImageURL = req.ImageURL
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, repository.ClassifyError(err)
	}
	s.cache.InvalidateProducts(ctx)
	return productToResponse(p), nil
}

func (s *catalogService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return repository.ClassifyError(err)
	}
	s.cache.InvalidateProducts(ctx)
	return nil
}

func (s *catalogService) Reactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Reactivate(ctx, id); err != nil {
		return repository.ClassifyError(err)
	}
	s.cache.InvalidateProducts(ctx)
	return nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		PriceCLP:    p.PriceCLP,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}
