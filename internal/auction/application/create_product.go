package application

import (
	"context"
	"fmt"
	"time"

	"github.com/cristianortiz/auctionSettlement/internal/auction/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateProductDTO is the input for CreateProductUseCase. An empty Status
// means available.
type CreateProductDTO struct {
	Name         string
	ReservePrice decimal.Decimal
	Status       domain.ProductStatus
}

// CreateProductUseCase lists a new product; its auction expires after the
// configured duration.
type CreateProductUseCase struct {
	productRepo domain.ProductRepository
	txManager   domain.TxManager
	duration    time.Duration
	now         func() time.Time
}

func NewCreateProductUseCase(
	productRepo domain.ProductRepository,
	txManager domain.TxManager,
	auctionDuration time.Duration,
) *CreateProductUseCase {
	return &CreateProductUseCase{
		productRepo: productRepo,
		txManager:   txManager,
		duration:    auctionDuration,
		now:         time.Now,
	}
}

func (uc *CreateProductUseCase) Execute(ctx context.Context, cmd CreateProductDTO) (*domain.Product, error) {
	status := cmd.Status
	if status == "" {
		status = domain.StatusAvailable
	}

	product, err := domain.NewProduct(cmd.Name, cmd.ReservePrice, status)
	if err != nil {
		log.Warn("CreateProductUseCase: rejected product",
			zap.String("name", cmd.Name),
			zap.Error(err),
		)
		return nil, fmt.Errorf("create product use case: %w", err)
	}
	expiresAt := uc.now().UTC().Add(uc.duration)
	product.SetExpiration(&expiresAt)

	err = uc.txManager.WithinTx(ctx, func(ctx context.Context) error {
		return uc.productRepo.Save(ctx, product)
	})
	if err != nil {
		log.Error("CreateProductUseCase: failed to save product", zap.Error(err))
		return nil, fmt.Errorf("create product use case: failed to save product: %w", err)
	}

	log.Info("Product created",
		zap.Int64("productID", product.ID),
		zap.String("name", product.Name),
		zap.String("status", string(product.Status())),
		zap.Time("expiresAt", expiresAt),
	)
	return product, nil
}
