package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cristianortiz/auctionSettlement/internal/auction/domain"
	"github.com/cristianortiz/auctionSettlement/internal/shared/logger"
	userdomain "github.com/cristianortiz/auctionSettlement/internal/user/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// PlaceBidDTO is the input for PlaceBidUseCase.
type PlaceBidDTO struct {
	ProductID int64
	UserID    int64
	Amount    decimal.Decimal
}

// PlaceBidUseCase records a sealed bid on an available product. The party is
// registered on first use.
type PlaceBidUseCase struct {
	productRepo domain.ProductRepository
	bidRepo     domain.BidRepository
	userRepo    userdomain.UserRepository
	txManager   domain.TxManager
	now         func() time.Time
}

func NewPlaceBidUseCase(
	productRepo domain.ProductRepository,
	bidRepo domain.BidRepository,
	userRepo userdomain.UserRepository,
	txManager domain.TxManager,
) *PlaceBidUseCase {
	return &PlaceBidUseCase{
		productRepo: productRepo,
		bidRepo:     bidRepo,
		userRepo:    userRepo,
		txManager:   txManager,
		now:         time.Now,
	}
}

func (uc *PlaceBidUseCase) Execute(ctx context.Context, cmd PlaceBidDTO) (*domain.Bid, error) {
	log.Info("Executing PlaceBidUseCase",
		zap.Int64("productID", cmd.ProductID),
		zap.Int64("userID", cmd.UserID),
	)

	// the amount rule lives in the domain constructor only
	bid, err := domain.NewBid(cmd.ProductID, cmd.UserID, cmd.Amount, uc.now().UTC())
	if err != nil {
		log.Warn("PlaceBidUseCase: invalid bid amount",
			zap.Int64("productID", cmd.ProductID),
			zap.Int64("userID", cmd.UserID),
		)
		return nil, fmt.Errorf("place bid use case: %w", err)
	}
	if cmd.UserID <= 0 {
		return nil, fmt.Errorf("place bid use case: %w", userdomain.ErrInvalidUserID)
	}

	err = uc.txManager.WithinTx(ctx, func(ctx context.Context) error {
		product, err := uc.productRepo.FindByID(ctx, cmd.ProductID)
		if err != nil {
			if !errors.Is(err, domain.ErrProductNotFound) {
				log.Error("PlaceBidUseCase: failed to get product",
					zap.Int64("productID", cmd.ProductID),
					zap.Error(err),
				)
			}
			return fmt.Errorf("failed to get product %d: %w", cmd.ProductID, err)
		}
		if !product.IsAvailable() {
			log.Warn("PlaceBidUseCase: product is not open for bids",
				zap.Int64("productID", product.ID),
				zap.String("status", string(product.Status())),
			)
			return domain.ErrProductNotAvailable
		}

		if _, err := uc.userRepo.Ensure(ctx, cmd.UserID); err != nil {
			return fmt.Errorf("failed to register user %d: %w", cmd.UserID, err)
		}

		if err := uc.bidRepo.Save(ctx, bid); err != nil {
			log.Error("PlaceBidUseCase: failed to save bid",
				zap.Int64("productID", cmd.ProductID),
				zap.Int64("userID", cmd.UserID),
				zap.Error(err),
			)
			return fmt.Errorf("failed to save bid: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("place bid use case: %w", err)
	}

	log.Info("Bid placed",
		zap.Int64("bidID", bid.ID),
		zap.Int64("productID", bid.ProductID),
		zap.Int64("userID", bid.UserID),
	)
	return bid, nil
}
