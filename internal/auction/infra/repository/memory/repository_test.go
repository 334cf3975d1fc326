package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cristianortiz/auctionSettlement/internal/auction/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduct(t *testing.T, name string, status domain.ProductStatus) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct(name, decimal.NewFromInt(100), status)
	require.NoError(t, err)
	return p
}

func TestProductRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository()

	lamp := newProduct(t, "Lamp", domain.StatusAvailable)
	chair := newProduct(t, "Chair", domain.StatusReserved)
	require.NoError(t, repo.Save(ctx, lamp))
	require.NoError(t, repo.Save(ctx, chair))
	assert.Equal(t, int64(1), lamp.ID)
	assert.Equal(t, int64(2), chair.ID)
	assert.False(t, lamp.CreatedAt.IsZero())

	// mutating the caller's copy does not touch the store
	require.NoError(t, lamp.SetStatus(domain.StatusExpired))
	stored, err := repo.FindByID(ctx, lamp.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAvailable, stored.Status())

	available, err := repo.FindAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "Lamp", available[0].Name)

	require.NoError(t, repo.UpdateStatus(ctx, chair.ID, domain.StatusAvailable))
	available, err = repo.FindAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, available, 2)
	assert.Equal(t, lamp.ID, available[0].ID)
	assert.Equal(t, chair.ID, available[1].ID)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, chair.ID, "archived"), domain.ErrInvalidStatus)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, 99, domain.StatusSold), domain.ErrProductNotFound)

	_, err = repo.FindByID(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	ghost := newProduct(t, "Ghost", domain.StatusAvailable)
	ghost.ID = 99
	assert.ErrorIs(t, repo.Save(ctx, ghost), domain.ErrProductNotFound)
}

func TestBidRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewBidRepository()
	product := newProduct(t, "Lamp", domain.StatusAvailable)
	product.ID = 6
	other := newProduct(t, "Chair", domain.StatusAvailable)
	other.ID = 7

	for _, productID := range []int64{6, 7, 6} {
		bid, err := domain.NewBid(productID, 1, decimal.NewFromInt(10), time.Time{})
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, bid))
		assert.False(t, bid.PlacedAt.IsZero())
	}

	bids, err := repo.FindByProduct(ctx, product)
	require.NoError(t, err)
	require.Len(t, bids, 2)
	assert.Equal(t, int64(1), bids[0].ID)
	assert.Equal(t, int64(3), bids[1].ID)

	found, err := repo.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, other.ID, found.ProductID)

	_, err = repo.FindByID(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrBidNotFound)

	assert.Error(t, repo.Save(ctx, found), "stored bids cannot be saved again")
}

func TestTxManager_Nested(t *testing.T) {
	m := NewTxManager()
	calls := 0
	err := m.WithinTx(context.Background(), func(ctx context.Context) error {
		calls++
		return m.WithinTx(ctx, func(context.Context) error {
			calls++
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	products := NewProductRepository()
	bids := NewBidRepository()
	settlements := NewSettlementRepository()
	m := NewTxManager(products, bids, settlements)

	lamp := newProduct(t, "Lamp", domain.StatusAvailable)
	require.NoError(t, products.Save(ctx, lamp))

	boom := errors.New("boom")
	err := m.WithinTx(ctx, func(ctx context.Context) error {
		require.NoError(t, products.UpdateStatus(ctx, lamp.ID, domain.StatusSold))
		require.NoError(t, products.Save(ctx, newProduct(t, "Chair", domain.StatusAvailable)))
		bid, err := domain.NewBid(lamp.ID, 1, decimal.NewFromInt(10), time.Time{})
		require.NoError(t, err)
		require.NoError(t, bids.Save(ctx, bid))
		require.NoError(t, settlements.Save(ctx, &domain.Settlement{ProductID: lamp.ID}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	stored, err := products.FindByID(ctx, lamp.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAvailable, stored.Status())
	_, err = products.FindByID(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	stillBids, err := bids.FindByProduct(ctx, lamp)
	require.NoError(t, err)
	assert.Empty(t, stillBids)
	records, err := settlements.FindByProduct(ctx, lamp.ID)
	require.NoError(t, err)
	assert.Empty(t, records)

	// ids handed out inside the failed unit are reused
	chair := newProduct(t, "Chair", domain.StatusAvailable)
	require.NoError(t, products.Save(ctx, chair))
	assert.Equal(t, int64(2), chair.ID)
}

func TestTxManager_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	products := NewProductRepository()
	m := NewTxManager(products)

	lamp := newProduct(t, "Lamp", domain.StatusAvailable)
	require.NoError(t, m.WithinTx(ctx, func(ctx context.Context) error {
		return products.Save(ctx, lamp)
	}))

	stored, err := products.FindByID(ctx, lamp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", stored.Name)
}
