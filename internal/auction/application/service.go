package application

import (
	"context"
	"time"

	"github.com/cristianortiz/auctionSettlement/internal/auction/domain"
	userdomain "github.com/cristianortiz/auctionSettlement/internal/user/domain"
)

// AuctionService defines the application layer of the auction module and
// exposes its use cases to the infra layer (CLI, HTTP, WebSocket).
type AuctionService interface {
	CreateProduct(ctx context.Context, cmd CreateProductDTO) (*domain.Product, error)
	PlaceBid(ctx context.Context, cmd PlaceBidDTO) (*domain.Bid, error)
	FinishAuction(ctx context.Context, productID int64) (*FinishAuctionResult, error)
	ListAvailableProducts(ctx context.Context) ([]*ProductStateDTO, error)
	GetProduct(ctx context.Context, productID int64) (*ProductStateDTO, error)
	GetBid(ctx context.Context, productID, bidID int64) (*BidReceiptDTO, error)
	UpdateProductStatus(ctx context.Context, productID int64, status domain.ProductStatus) (*domain.Product, error)
}

// Stores bundles the repositories the use cases run against.
type Stores struct {
	Products    domain.ProductRepository
	Bids        domain.BidRepository
	Settlements domain.SettlementRepository
	Users       userdomain.UserRepository
	Tx          domain.TxManager
}

type auctionService struct {
	createProductUC *CreateProductUseCase
	placeBidUC      *PlaceBidUseCase
	finishUC        *FinishAuctionUseCase
	listUC          *ListAvailableProductsUseCase
	getProductUC    *GetProductUseCase
	getBidUC        *GetBidUseCase
	updateStatusUC  *UpdateProductStatusUseCase
}

func NewAuctionService(stores Stores, auctionDuration time.Duration) AuctionService {
	getProductUC := NewGetProductUseCase(stores.Products, stores.Bids, stores.Settlements)
	return &auctionService{
		createProductUC: NewCreateProductUseCase(stores.Products, stores.Tx, auctionDuration),
		placeBidUC:      NewPlaceBidUseCase(stores.Products, stores.Bids, stores.Users, stores.Tx),
		finishUC:        NewFinishAuctionUseCase(stores.Products, stores.Bids, stores.Settlements, stores.Tx),
		listUC:          NewListAvailableProductsUseCase(stores.Products, getProductUC),
		getProductUC:    getProductUC,
		getBidUC:        NewGetBidUseCase(stores.Products, stores.Bids),
		updateStatusUC:  NewUpdateProductStatusUseCase(stores.Products, stores.Tx),
	}
}

func (as *auctionService) CreateProduct(ctx context.Context, cmd CreateProductDTO) (*domain.Product, error) {
	return as.createProductUC.Execute(ctx, cmd)
}

func (as *auctionService) PlaceBid(ctx context.Context, cmd PlaceBidDTO) (*domain.Bid, error) {
	return as.placeBidUC.Execute(ctx, cmd)
}

func (as *auctionService) FinishAuction(ctx context.Context, productID int64) (*FinishAuctionResult, error) {
	return as.finishUC.Execute(ctx, productID)
}

func (as *auctionService) ListAvailableProducts(ctx context.Context) ([]*ProductStateDTO, error) {
	return as.listUC.Execute(ctx)
}

func (as *auctionService) GetProduct(ctx context.Context, productID int64) (*ProductStateDTO, error) {
	return as.getProductUC.Execute(ctx, productID)
}

func (as *auctionService) GetBid(ctx context.Context, productID, bidID int64) (*BidReceiptDTO, error) {
	return as.getBidUC.Execute(ctx, productID, bidID)
}

func (as *auctionService) UpdateProductStatus(ctx context.Context, productID int64, status domain.ProductStatus) (*domain.Product, error) {
	return as.updateStatusUC.Execute(ctx, productID, status)
}
