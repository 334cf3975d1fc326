package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/auctionSettlement/internal/auction/domain"
)

// ListAvailableProductsUseCase returns every product still open for bids.
type ListAvailableProductsUseCase struct {
	productRepo domain.ProductRepository
	view        *GetProductUseCase
}

func NewListAvailableProductsUseCase(productRepo domain.ProductRepository, view *GetProductUseCase) *ListAvailableProductsUseCase {
	return &ListAvailableProductsUseCase{productRepo: productRepo, view: view}
}

func (uc *ListAvailableProductsUseCase) Execute(ctx context.Context) ([]*ProductStateDTO, error) {
	products, err := uc.productRepo.FindAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products use case: %w", err)
	}

	out := make([]*ProductStateDTO, 0, len(products))
	for _, p := range products {
		dto, err := uc.view.toDTO(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("list products use case: %w", err)
		}
		out = append(out, dto)
	}
	return out, nil
}
