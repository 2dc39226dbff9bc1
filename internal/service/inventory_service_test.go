package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryDecrement(t *testing.T) {
	db := newTestDB(t)
	v := seedVariant(t, db, 1000, 5)
	inv := NewInventoryService(db)
	ctx := context.Background()

	require.NoError(t, inv.Decrement(ctx, v.ID, 2))
	assert.EqualValues(t, 3, variantStock(t, db, v.ID))

	avail, err := inv.Available(ctx, v.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, avail)
}

func TestInventoryDecrementInsufficient(t *testing.T) {
	db := newTestDB(t)
	v := seedVariant(t, db, 1000, 1)
	inv := NewInventoryService(db)

	err := inv.Decrement(context.Background(), v.ID, 2)
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, v.ID, stockErr.VariantID)
	assert.EqualValues(t, 2, stockErr.Requested)
	assert.EqualValues(t, 1, stockErr.Available)

	// Nothing was taken.
	assert.EqualValues(t, 1, variantStock(t, db, v.ID))
}

func TestInventoryDecrementUnknownVariant(t *testing.T) {
	db := newTestDB(t)
	inv := NewInventoryService(db)

	err := inv.Decrement(context.Background(), 9999, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInventoryDecrementRejectsNonPositiveQty(t *testing.T) {
	db := newTestDB(t)
	v := seedVariant(t, db, 1000, 5)
	inv := NewInventoryService(db)

	assert.ErrorIs(t, inv.Decrement(context.Background(), v.ID, 0), ErrValidation)
	assert.ErrorIs(t, inv.Decrement(context.Background(), v.ID, -1), ErrValidation)
	assert.EqualValues(t, 5, variantStock(t, db, v.ID))
}

// Concurrent decrements may win or lose individually, but stock must
// never go negative and exactly stock/qty of them may succeed.
func TestInventoryDecrementConcurrent(t *testing.T) {
	db := newTestDB(t)
	v := seedVariant(t, db, 1000, 10)
	inv := NewInventoryService(db)
	ctx := context.Background()

	const workers = 25
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := inv.Decrement(ctx, v.ID, 1)
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			var stockErr *InsufficientStockError
			if !errors.As(err, &stockErr) {
				t.Errorf("unexpected decrement error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.EqualValues(t, 0, variantStock(t, db, v.ID))
}
