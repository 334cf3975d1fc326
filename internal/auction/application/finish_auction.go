package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cristianortiz/auctionSettlement/internal/auction/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FinishAuctionResult is what a successful settlement produced.
type FinishAuctionResult struct {
	Product       *domain.Product
	Winner        *domain.Bid
	ClearingPrice decimal.Decimal
	Settlement    *domain.Settlement
}

// FinishAuctionUseCase closes a product's auction: it picks the winner among
// the stored bids, marks the product sold and writes a settlement record.
// Nothing is written unless a winner was found.
type FinishAuctionUseCase struct {
	productRepo    domain.ProductRepository
	bidRepo        domain.BidRepository
	settlementRepo domain.SettlementRepository
	txManager      domain.TxManager
	now            func() time.Time
}

func NewFinishAuctionUseCase(
	productRepo domain.ProductRepository,
	bidRepo domain.BidRepository,
	settlementRepo domain.SettlementRepository,
	txManager domain.TxManager,
) *FinishAuctionUseCase {
	return &FinishAuctionUseCase{
		productRepo:    productRepo,
		bidRepo:        bidRepo,
		settlementRepo: settlementRepo,
		txManager:      txManager,
		now:            time.Now,
	}
}

func (uc *FinishAuctionUseCase) Execute(ctx context.Context, productID int64) (*FinishAuctionResult, error) {
	log.Info("Executing FinishAuctionUseCase", zap.Int64("productID", productID))

	product, err := uc.productRepo.FindByID(ctx, productID)
	if err != nil {
		if !errors.Is(err, domain.ErrProductNotFound) {
			log.Error("FinishAuctionUseCase: failed to get product",
				zap.Int64("productID", productID),
				zap.Error(err),
			)
		}
		return nil, fmt.Errorf("finish auction use case: failed to get product %d: %w", productID, err)
	}

	bids, err := uc.bidRepo.FindByProduct(ctx, product)
	if err != nil {
		log.Error("FinishAuctionUseCase: failed to load bids",
			zap.Int64("productID", productID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("finish auction use case: failed to load bids for product %d: %w", productID, err)
	}
	if len(bids) == 0 {
		log.Warn("FinishAuctionUseCase: no bids", zap.Int64("productID", productID))
		return nil, fmt.Errorf("finish auction use case: product %d: %w", productID, domain.ErrNoBidsForProduct)
	}

	outcome, err := domain.DetermineWinner(bids, product)
	if err != nil {
		log.Warn("FinishAuctionUseCase: no winner",
			zap.Int64("productID", productID),
			zap.Int("bids", len(bids)),
			zap.String("reservePrice", product.ReservePrice.StringFixed(domain.MonetaryPrecision)),
		)
		return nil, fmt.Errorf("finish auction use case: product %d: %w", productID, err)
	}

	product.ApplyWinningBid(outcome.Winner)
	settlement := domain.NewSettlement(product, outcome, uc.now().UTC())

	err = uc.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.productRepo.Save(ctx, product); err != nil {
			return fmt.Errorf("failed to save product: %w", err)
		}
		if err := uc.settlementRepo.Save(ctx, settlement); err != nil {
			return fmt.Errorf("failed to save settlement: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("FinishAuctionUseCase: failed to persist settlement",
			zap.Int64("productID", productID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("finish auction use case: %w", err)
	}

	log.Info("Auction settled",
		zap.Int64("productID", productID),
		zap.Int64("winningBidID", outcome.Winner.ID),
		zap.Int64("winnerUserID", outcome.Winner.UserID),
		zap.String("clearingPrice", outcome.ClearingPrice.StringFixed(domain.MonetaryPrecision)),
		zap.String("settlementID", settlement.ID.String()),
	)

	return &FinishAuctionResult{
		Product:       product,
		Winner:        outcome.Winner,
		ClearingPrice: outcome.ClearingPrice,
		Settlement:    settlement,
	}, nil
}
