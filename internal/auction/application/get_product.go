package application

import (
	"context"
	"fmt"
	"time"

	"github.com/cristianortiz/auctionSettlement/internal/auction/domain"
	"github.com/shopspring/decimal"
)

// ProductStateDTO is the public view of a product. Bids are sealed: only
// their count is shown until the auction is settled.
type ProductStateDTO struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	ReservePrice decimal.Decimal `json:"reserve_price"`
	Status       string          `json:"status"`
	ExpiresAt    *time.Time      `json:"expires_at,omitempty"`
	BidCount     int             `json:"bid_count"`
	Winner       *WinnerDTO      `json:"winner,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// WinnerDTO describes the settled result of an auction.
type WinnerDTO struct {
	BidID         int64            `json:"bid_id"`
	UserID        int64            `json:"user_id"`
	Amount        decimal.Decimal  `json:"amount"`
	ClearingPrice *decimal.Decimal `json:"clearing_price,omitempty"`
}

// GetProductUseCase retrieves the current state of a product.
type GetProductUseCase struct {
	productRepo    domain.ProductRepository
	bidRepo        domain.BidRepository
	settlementRepo domain.SettlementRepository
}

func NewGetProductUseCase(
	productRepo domain.ProductRepository,
	bidRepo domain.BidRepository,
	settlementRepo domain.SettlementRepository,
) *GetProductUseCase {
	return &GetProductUseCase{
		productRepo:    productRepo,
		bidRepo:        bidRepo,
		settlementRepo: settlementRepo,
	}
}

func (uc *GetProductUseCase) Execute(ctx context.Context, productID int64) (*ProductStateDTO, error) {
	product, err := uc.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product use case: %w", err)
	}
	return uc.toDTO(ctx, product)
}

func (uc *GetProductUseCase) toDTO(ctx context.Context, product *domain.Product) (*ProductStateDTO, error) {
	bids, err := uc.bidRepo.FindByProduct(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to count bids for product %d: %w", product.ID, err)
	}

	dto := &ProductStateDTO{
		ID:           product.ID,
		Name:         product.Name,
		ReservePrice: product.ReservePrice,
		Status:       string(product.Status()),
		ExpiresAt:    product.ExpiresAt,
		BidCount:     len(bids),
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}

	if winner := product.WinningBid(); winner != nil {
		dto.Winner = &WinnerDTO{
			BidID:  winner.ID,
			UserID: winner.UserID,
			Amount: winner.Amount(),
		}
		settlements, err := uc.settlementRepo.FindByProduct(ctx, product.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load settlements for product %d: %w", product.ID, err)
		}
		// latest settlement wins if the product was settled more than once
		if n := len(settlements); n > 0 {
			price := settlements[n-1].ClearingPrice
			dto.Winner.ClearingPrice = &price
		}
	}
	return dto, nil
}
