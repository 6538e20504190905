package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/aussiebroadwan/storefront/internal/storefront/store"
	"github.com/aussiebroadwan/storefront/pkg/idx"
	"github.com/aussiebroadwan/storefront/pkg/slogx"
)

type CreateProductInput struct {
	Title   string   `validate:"required,max=200"`
	Content string   `validate:"max=10000"`
	Price   *float64 `validate:"omitempty,gte=0"` // defaults to 0
}

// UpdateProductInput is a partial update; nil fields are left unchanged.
type UpdateProductInput struct {
	Title   *string  `validate:"omitnil,min=1,max=200"`
	Content *string  `validate:"omitnil,max=10000"`
	Price   *float64 `validate:"omitnil,gte=0"`
}

type ProductService struct {
	Store store.Store
}

// Create adds a product owned by ownerID.
func (s *ProductService) Create(ctx context.Context, ownerID string, in CreateProductInput) (domain.ProductWithOwner, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validateInput(in); err != nil {
		return domain.ProductWithOwner{}, err
	}

	now := time.Now().UTC()
	p := domain.Product{
		ID:        idx.New().String(),
		OwnerID:   ownerID,
		Title:     in.Title,
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Price != nil {
		p.Price = *in.Price
	}

	if err := s.Store.Products().CreateProduct(ctx, p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ProductWithOwner{}, domain.ErrUserNotFound
		}
		return domain.ProductWithOwner{}, err
	}

	slogx.FromContext(ctx).Info("product created", slog.String("product_id", p.ID), slog.String("owner_id", ownerID))
	return s.Get(ctx, p.ID)
}

// List returns all products, newest first.
func (s *ProductService) List(ctx context.Context) ([]domain.ProductWithOwner, error) {
	return s.Store.Products().ListProducts(ctx)
}

// ListByOwner returns the products of one owner, newest first. An unknown
// owner simply has no products.
func (s *ProductService) ListByOwner(ctx context.Context, ownerID string) ([]domain.ProductWithOwner, error) {
	return s.Store.Products().ListProductsByOwner(ctx, ownerID)
}

func (s *ProductService) Get(ctx context.Context, id string) (domain.ProductWithOwner, error) {
	p, err := s.Store.Products().GetProductByID(ctx, id)
	if err != nil {
		return domain.ProductWithOwner{}, mapProductErr(err)
	}
	return p, nil
}

// Update applies in to the product.
func (s *ProductService) Update(ctx context.Context, id string, in UpdateProductInput) (domain.ProductWithOwner, error) {
	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		in.Title = &trimmed
	}
	if err := validateInput(in); err != nil {
		return domain.ProductWithOwner{}, err
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		current, err := tx.Products().GetProductByID(ctx, id)
		if err != nil {
			return mapProductErr(err)
		}

		p := current.Product
		if in.Title != nil {
			p.Title = *in.Title
		}
		if in.Content != nil {
			p.Content = *in.Content
		}
		if in.Price != nil {
			p.Price = *in.Price
		}
		p.UpdatedAt = time.Now().UTC()

		return mapProductErr(tx.Products().UpdateProduct(ctx, p))
	})
	if err != nil {
		return domain.ProductWithOwner{}, err
	}

	slogx.FromContext(ctx).Info("product updated", slog.String("product_id", id))
	return s.Get(ctx, id)
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.Store.Products().DeleteProduct(ctx, id); err != nil {
		return mapProductErr(err)
	}
	slogx.FromContext(ctx).Info("product deleted", slog.String("product_id", id))
	return nil
}

func mapProductErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return domain.ErrProductNotFound
	}
	return err
}
