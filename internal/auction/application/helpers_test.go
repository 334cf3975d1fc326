package application

import (
	"context"
	"testing"
	"time"

	"github.com/cristianortiz/auctionSettlement/internal/auction/domain"
	"github.com/cristianortiz/auctionSettlement/internal/auction/infra/repository/memory"
	usermemory "github.com/cristianortiz/auctionSettlement/internal/user/infra/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 11, 12, 18, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type fixture struct {
	products    *memory.ProductRepository
	bids        *memory.BidRepository
	settlements *memory.SettlementRepository
	users       *usermemory.UserRepository
	tx          *memory.TxManager
}

func newFixture() *fixture {
	f := &fixture{
		products:    memory.NewProductRepository(),
		bids:        memory.NewBidRepository(),
		settlements: memory.NewSettlementRepository(),
		users:       usermemory.NewUserRepository(),
	}
	f.tx = memory.NewTxManager(f.products, f.bids, f.settlements, f.users)
	return f
}

func (f *fixture) stores() Stores {
	return Stores{
		Products:    f.products,
		Bids:        f.bids,
		Settlements: f.settlements,
		Users:       f.users,
		Tx:          f.tx,
	}
}

func (f *fixture) placeBid() *PlaceBidUseCase {
	uc := NewPlaceBidUseCase(f.products, f.bids, f.users, f.tx)
	uc.now = clock
	return uc
}

func (f *fixture) finish() *FinishAuctionUseCase {
	uc := NewFinishAuctionUseCase(f.products, f.bids, f.settlements, f.tx)
	uc.now = clock
	return uc
}

func (f *fixture) seedProduct(t *testing.T, reserve string, status domain.ProductStatus) *domain.Product {
	t.Helper()
	product, err := domain.NewProduct("Product TEST", dec(reserve), status)
	require.NoError(t, err)
	require.NoError(t, f.products.Save(context.Background(), product))
	return product
}

// seedBids places bids in order, so ids are 1..n. Each entry is {userID, amount}.
func (f *fixture) seedBids(t *testing.T, productID int64, bids ...struct {
	user   int64
	amount string
}) {
	t.Helper()
	for _, b := range bids {
		bid, err := domain.NewBid(productID, b.user, dec(b.amount), fixedNow)
		require.NoError(t, err)
		require.NoError(t, f.bids.Save(context.Background(), bid))
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
