package application

import (
	"context"
	"fmt"
	"time"

	"github.com/cristianortiz/auctionSettlement/internal/auction/domain"
	"github.com/shopspring/decimal"
)

// BidReceiptDTO confirms a stored bid. The amount stays sealed until the
// product has been settled.
type BidReceiptDTO struct {
	ID        int64            `json:"id"`
	ProductID int64            `json:"product_id"`
	UserID    int64            `json:"user_id"`
	PlacedAt  time.Time        `json:"placed_at"`
	Settled   bool             `json:"settled"`
	Winning   bool             `json:"winning"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
}

// GetBidUseCase looks up one bid of a product.
type GetBidUseCase struct {
	productRepo domain.ProductRepository
	bidRepo     domain.BidRepository
}

func NewGetBidUseCase(productRepo domain.ProductRepository, bidRepo domain.BidRepository) *GetBidUseCase {
	return &GetBidUseCase{productRepo: productRepo, bidRepo: bidRepo}
}

// Execute returns ErrBidNotFound when bidID is unknown or belongs to another product.
func (uc *GetBidUseCase) Execute(ctx context.Context, productID, bidID int64) (*BidReceiptDTO, error) {
	product, err := uc.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get bid use case: %w", err)
	}
	bid, err := uc.bidRepo.FindByID(ctx, bidID)
	if err != nil {
		return nil, fmt.Errorf("get bid use case: %w", err)
	}
	if bid.ProductID != product.ID {
		return nil, fmt.Errorf("get bid use case: bid %d on product %d: %w", bidID, productID, domain.ErrBidNotFound)
	}

	receipt := &BidReceiptDTO{
		ID:        bid.ID,
		ProductID: bid.ProductID,
		UserID:    bid.UserID,
		PlacedAt:  bid.PlacedAt,
	}
	if winner := product.WinningBid(); winner != nil {
		amount := bid.Amount()
		receipt.Settled = true
		receipt.Winning = winner.ID == bid.ID
		receipt.Amount = &amount
	}
	return receipt, nil
}
