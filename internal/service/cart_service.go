package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/TammisettiVikram/SentientShop/internal/datamodels/cart"
	"github.com/TammisettiVikram/SentientShop/internal/datamodels/product"
)

type CartService struct {
	repo     cart.Repository
	products product.Repository
}

func NewCartService(repo cart.Repository, products product.Repository) *CartService {
	return &CartService{repo: repo, products: products}
}

// CartLine is a cart item joined with its variant for API responses.
type CartLine struct {
	ID        int64  `json:"id"`
	VariantID int64  `json:"variant_id"`
	Product   string `json:"product"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

// List returns the user's cart with catalog details attached.
func (s *CartService) List(ctx context.Context, userID int64) ([]CartLine, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]CartLine, 0, len(items))
	for _, it := range items {
		v, err := s.products.GetVariant(ctx, it.VariantID)
		if err != nil {
			return nil, err
		}
		p, err := s.products.GetByID(ctx, v.ProductID)
		if err != nil {
			return nil, err
		}
		out = append(out, CartLine{
			ID:        it.ID,
			VariantID: v.ID,
			Product:   p.Name,
			Size:      v.Size,
			Color:     v.Color,
			Price:     v.Price,
			Quantity:  it.Quantity,
		})
	}
	return out, nil
}

// Add puts qty units of a variant into the cart, merging with an existing
// item for the same variant.
func (s *CartService) Add(ctx context.Context, userID, variantID, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if _, err := s.products.GetVariant(ctx, variantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: variant %d", ErrValidation, variantID)
		}
		return err
	}

	existing, err := s.repo.GetByUserAndVariant(ctx, userID, variantID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return s.repo.Create(ctx, &cart.Item{
			UserID:    userID,
			VariantID: variantID,
			Quantity:  qty,
		})
	}
	existing.Quantity += qty
	return s.repo.Update(ctx, existing)
}

// UpdateQuantity sets the quantity of the user's cart item.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	it, err := s.getOwned(ctx, userID, itemID)
	if err != nil {
		return err
	}
	it.Quantity = qty
	return s.repo.Update(ctx, it)
}

// Remove deletes the user's cart item.
func (s *CartService) Remove(ctx context.Context, userID, itemID int64) error {
	it, err := s.getOwned(ctx, userID, itemID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, it.ID)
}

// Clear empties the user's cart.
func (s *CartService) Clear(ctx context.Context, userID int64) error {
	return s.repo.ClearByUser(ctx, userID)
}

func (s *CartService) getOwned(ctx context.Context, userID, itemID int64) (*cart.Item, error) {
	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cart item %d", ErrNotFound, itemID)
		}
		return nil, err
	}
	if it.UserID != userID {
		return nil, fmt.Errorf("%w: cart item %d", ErrNotFound, itemID)
	}
	return it, nil
}
