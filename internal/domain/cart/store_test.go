package cart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func mustItem(t *testing.T, productID string, price int64, qty int) LineItem {
	t.Helper()
	item, err := NewLineItem(productID, "Product "+productID, price, qty, "")
	require.NoError(t, err)
	return item
}

func TestStoreAddItem_MergesQuantities(t *testing.T) {
	store := NewStore(NewMemoryRepository(), testLogger())
	ctx := context.Background()
	key := Key(1, CategoryPharmacy)

	_, err := store.AddItem(ctx, key, mustItem(t, "a", 999, 2))
	require.NoError(t, err)

	c, err := store.AddItem(ctx, key, mustItem(t, "a", 999, 3))
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
}

func TestStoreAddItem_RejectsInvalidQuantity(t *testing.T) {
	store := NewStore(NewMemoryRepository(), testLogger())
	key := Key(1, CategoryPharmacy)

	item := LineItem{ProductID: "a", Name: "Product a", UnitPrice: 100, Quantity: 0}
	_, err := store.AddItem(context.Background(), key, item)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestStoreIncreaseDecrease(t *testing.T) {
	store := NewStore(NewMemoryRepository(), testLogger())
	ctx := context.Background()
	key := Key(1, CategoryStore)

	_, err := store.AddItem(ctx, key, mustItem(t, "a", 500, 1))
	require.NoError(t, err)

	c, err := store.Increase(ctx, key, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Items[0].Quantity)

	c, err = store.Decrease(ctx, key, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestStoreDecrease_RemovesAtQuantityOne(t *testing.T) {
	store := NewStore(NewMemoryRepository(), testLogger())
	ctx := context.Background()
	key := Key(1, CategoryStore)

	_, err := store.AddItem(ctx, key, mustItem(t, "a", 500, 1))
	require.NoError(t, err)

	c, err := store.Decrease(ctx, key, "a")
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	// Gone entirely, not floored at zero
	_, err = store.Decrease(ctx, key, "a")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestStoreRemove(t *testing.T) {
	store := NewStore(NewMemoryRepository(), testLogger())
	ctx := context.Background()
	key := Key(1, CategoryParapharmacy)

	_, err := store.AddItem(ctx, key, mustItem(t, "a", 500, 4))
	require.NoError(t, err)
	_, err = store.AddItem(ctx, key, mustItem(t, "b", 300, 1))
	require.NoError(t, err)

	c, err := store.Remove(ctx, key, "a")
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "b", c.Items[0].ProductID)

	_, err = store.Remove(ctx, key, "missing")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestStore_WriteThroughPersistence(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	key := Key(7, CategoryPharmacy)

	store := NewStore(repo, testLogger())
	_, err := store.AddItem(ctx, key, mustItem(t, "a", 999, 2))
	require.NoError(t, err)

	// A fresh store over the same repository sees the persisted cart
	restored := NewStore(repo, testLogger()).Get(ctx, key)
	require.Len(t, restored.Items, 1)
	assert.Equal(t, int64(1998), restored.Total())
}

func TestStoreClear_PersistsEmptyCart(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	key := Key(7, CategoryPharmacy)

	store := NewStore(repo, testLogger())
	_, err := store.AddItem(ctx, key, mustItem(t, "a", 999, 2))
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx, key))
	assert.True(t, store.Get(ctx, key).IsEmpty())

	restored := NewStore(repo, testLogger()).Get(ctx, key)
	assert.True(t, restored.IsEmpty())
}

// flakyRepository fails saves on demand while loads keep working
type flakyRepository struct {
	inner     Repository
	failSaves bool
}

func (r *flakyRepository) Load(ctx context.Context, key string) (*Cart, error) {
	return r.inner.Load(ctx, key)
}

func (r *flakyRepository) Save(ctx context.Context, key string, c *Cart) error {
	if r.failSaves {
		return errors.New("storage offline")
	}
	return r.inner.Save(ctx, key, c)
}

func (r *flakyRepository) Delete(ctx context.Context, key string) error {
	return r.inner.Delete(ctx, key)
}

func TestStore_PersistenceFailureIsNonFatal(t *testing.T) {
	repo := &flakyRepository{inner: NewMemoryRepository(), failSaves: true}
	store := NewStore(repo, testLogger())
	ctx := context.Background()
	key := Key(3, CategoryStore)

	// Mutations succeed in memory while storage is down
	_, err := store.AddItem(ctx, key, mustItem(t, "a", 999, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(1998), store.Total(ctx, key))

	// Storage recovers; the next mutation flushes the full state
	repo.failSaves = false
	_, err = store.AddItem(ctx, key, mustItem(t, "b", 350, 1))
	require.NoError(t, err)

	restored := NewStore(repo, testLogger()).Get(ctx, key)
	require.Len(t, restored.Items, 2)
	assert.Equal(t, int64(2348), restored.Total())
}

func TestStore_RandomizedOperationSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	ctx := context.Background()

	for run := 0; run < 20; run++ {
		store := NewStore(NewMemoryRepository(), testLogger())
		key := Key(1, CategoryPharmacy)

		type line struct {
			price int64
			qty   int
		}
		expected := make(map[string]line)
		products := []string{"a", "b", "c", "d", "e"}

		for op := 0; op < 100; op++ {
			id := products[rng.Intn(len(products))]
			switch rng.Intn(4) {
			case 0:
				price := int64(rng.Intn(5000) + 1)
				qty := rng.Intn(3) + 1
				if existing, ok := expected[id]; ok {
					expected[id] = line{price: price, qty: existing.qty + qty}
				} else {
					expected[id] = line{price: price, qty: qty}
				}
				_, err := store.AddItem(ctx, key, mustItem(t, id, price, qty))
				require.NoError(t, err)
			case 1:
				_, err := store.Increase(ctx, key, id)
				if existing, ok := expected[id]; ok {
					require.NoError(t, err)
					expected[id] = line{price: existing.price, qty: existing.qty + 1}
				} else {
					require.ErrorIs(t, err, ErrItemNotFound)
				}
			case 2:
				_, err := store.Decrease(ctx, key, id)
				if existing, ok := expected[id]; ok {
					require.NoError(t, err)
					if existing.qty <= 1 {
						delete(expected, id)
					} else {
						expected[id] = line{price: existing.price, qty: existing.qty - 1}
					}
				} else {
					require.ErrorIs(t, err, ErrItemNotFound)
				}
			case 3:
				_, err := store.Remove(ctx, key, id)
				if _, ok := expected[id]; ok {
					require.NoError(t, err)
					delete(expected, id)
				} else {
					require.ErrorIs(t, err, ErrItemNotFound)
				}
			}

			var want int64
			for _, l := range expected {
				want += l.price * int64(l.qty)
			}
			require.Equal(t, want, store.Total(ctx, key), fmt.Sprintf("run %d op %d", run, op))

			// Quantities never drop below one
			for _, item := range store.Get(ctx, key).Items {
				require.GreaterOrEqual(t, item.Quantity, 1)
			}
		}
	}
}
