package application

import (
	"context"
	"errors"
	"testing"

	"github.com/cristianortiz/auctionSettlement/internal/auction/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bidSeed = struct {
	user   int64
	amount string
}

func TestFinishAuction_Scenarios(t *testing.T) {
	tests := []struct {
		name          string
		bids          []bidSeed
		wantBidID     int64
		wantClearing  string
		wantWinnerAmt string
	}{
		{
			name:          "single bid pays reserve",
			bids:          []bidSeed{{1, "120"}},
			wantBidID:     1,
			wantClearing:  "100",
			wantWinnerAmt: "120",
		},
		{
			name:          "competitor sets the price",
			bids:          []bidSeed{{1, "110"}, {2, "130"}, {1, "120"}},
			wantBidID:     2,
			wantClearing:  "120",
			wantWinnerAmt: "130",
		},
		{
			name:          "tie resolves to lowest id",
			bids:          []bidSeed{{1, "130"}, {2, "130"}, {1, "125"}},
			wantBidID:     1,
			wantClearing:  "130",
			wantWinnerAmt: "130",
		},
		{
			name:          "winner's own bids are skipped",
			bids:          []bidSeed{{1, "450"}, {2, "480"}, {2, "500"}, {3, "420"}},
			wantBidID:     3,
			wantClearing:  "450",
			wantWinnerAmt: "500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture()
			product := f.seedProduct(t, "100", domain.StatusAvailable)
			f.seedBids(t, product.ID, tt.bids...)

			result, err := f.finish().Execute(ctx, product.ID)
			require.NoError(t, err)

			assert.Equal(t, tt.wantBidID, result.Winner.ID)
			assert.True(t, result.Winner.Amount().Equal(dec(tt.wantWinnerAmt)))
			assert.True(t, result.ClearingPrice.Equal(dec(tt.wantClearing)), "clearing price %s", result.ClearingPrice)
			assert.Equal(t, domain.StatusSold, result.Product.Status())

			stored, err := f.products.FindByID(ctx, product.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.StatusSold, stored.Status())
			require.NotNil(t, stored.WinningBid())
			assert.Equal(t, tt.wantBidID, stored.WinningBid().ID)

			settlements, err := f.settlements.FindByProduct(ctx, product.ID)
			require.NoError(t, err)
			require.Len(t, settlements, 1)
			assert.Equal(t, result.Settlement.ID, settlements[0].ID)
			assert.Equal(t, tt.wantBidID, settlements[0].WinningBidID)
			assert.True(t, settlements[0].ClearingPrice.Equal(dec(tt.wantClearing)))
			assert.Equal(t, fixedNow, settlements[0].SettledAt)
		})
	}
}

func TestFinishAuction_NoBidsLeavesProductUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	product := f.seedProduct(t, "100", domain.StatusAvailable)
	before, err := f.products.FindByID(ctx, product.ID)
	require.NoError(t, err)

	result, err := f.finish().Execute(ctx, product.ID)
	require.ErrorIs(t, err, domain.ErrNoBidsForProduct)
	assert.Nil(t, result)

	after, err := f.products.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	settlements, err := f.settlements.FindByProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Empty(t, settlements)
}

func TestFinishAuction_NoEligibleBidsLeavesProductUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	product := f.seedProduct(t, "100", domain.StatusAvailable)
	f.seedBids(t, product.ID, bidSeed{1, "80"}, bidSeed{2, "90"})

	_, err := f.finish().Execute(ctx, product.ID)
	require.ErrorIs(t, err, domain.ErrNoEligibleBids)

	after, err := f.products.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAvailable, after.Status())
	assert.Nil(t, after.WinningBid())
}

func TestFinishAuction_ProductNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.finish().Execute(context.Background(), 42)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Equal(t, domain.ErrProductNotFound, domain.Cause(err))
}

type failingSettlements struct{ err error }

func (s failingSettlements) Save(context.Context, *domain.Settlement) error { return s.err }

func (s failingSettlements) FindByProduct(context.Context, int64) ([]*domain.Settlement, error) {
	return nil, nil
}

func TestFinishAuction_SettlementWriteFailure(t *testing.T) {
	f := newFixture()
	product := f.seedProduct(t, "100", domain.StatusAvailable)
	f.seedBids(t, product.ID, bidSeed{1, "120"})

	boom := errors.New("disk full")
	uc := NewFinishAuctionUseCase(f.products, f.bids, failingSettlements{err: boom}, f.tx)

	_, err := uc.Execute(context.Background(), product.ID)
	require.ErrorIs(t, err, boom)
	assert.Nil(t, domain.Cause(err))

	stored, err := f.products.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAvailable, stored.Status())
	assert.Nil(t, stored.WinningBid())
}
