package domain

import "context"

// ProductRepository is the product store. FindByID returns ErrProductNotFound
// for unknown ids. Save inserts when ID is zero (assigning it) and updates otherwise.
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*Product, error)
	Save(ctx context.Context, product *Product) error
	FindAvailable(ctx context.Context) ([]*Product, error)
	UpdateStatus(ctx context.Context, id int64, status ProductStatus) error
}

// BidRepository is the bid store. FindByID returns ErrBidNotFound for unknown
// ids. Save only inserts; bids are immutable once stored.
type BidRepository interface {
	FindByID(ctx context.Context, id int64) (*Bid, error)
	Save(ctx context.Context, bid *Bid) error
	FindByProduct(ctx context.Context, product *Product) ([]*Bid, error)
}

type SettlementRepository interface {
	Save(ctx context.Context, settlement *Settlement) error
	FindByProduct(ctx context.Context, productID int64) ([]*Settlement, error)
}

// TxManager runs fn atomically: every repository call made with the ctx passed
// to fn commits or rolls back together.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
