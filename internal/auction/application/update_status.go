package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/auctionSettlement/internal/auction/domain"
	"go.uber.org/zap"
)

// UpdateProductStatusUseCase moves a product to another lifecycle state.
type UpdateProductStatusUseCase struct {
	productRepo domain.ProductRepository
	txManager   domain.TxManager
}

func NewUpdateProductStatusUseCase(productRepo domain.ProductRepository, txManager domain.TxManager) *UpdateProductStatusUseCase {
	return &UpdateProductStatusUseCase{productRepo: productRepo, txManager: txManager}
}

func (uc *UpdateProductStatusUseCase) Execute(ctx context.Context, productID int64, status domain.ProductStatus) (*domain.Product, error) {
	var (
		product  *domain.Product
		previous domain.ProductStatus
	)
	err := uc.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		product, err = uc.productRepo.FindByID(ctx, productID)
		if err != nil {
			return err
		}
		previous = product.Status()
		if err := product.SetStatus(status); err != nil {
			return err
		}
		if err := uc.productRepo.UpdateStatus(ctx, productID, status); err != nil {
			log.Error("UpdateProductStatusUseCase: failed to update status",
				zap.Int64("productID", productID),
				zap.Error(err),
			)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update status use case: %w", err)
	}

	log.Info("Product status updated",
		zap.Int64("productID", productID),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
	)
	return product, nil
}
