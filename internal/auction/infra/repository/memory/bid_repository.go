package memory

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/cristianortiz/auctionSettlement/internal/auction/domain"
)

var errBidAlreadyStored = errors.New("bid already stored")

// BidRepository is an in-process domain.BidRepository. Bids are kept in
// insertion order, which is also id order.
type BidRepository struct {
	mu     sync.RWMutex
	nextID int64
	bids   []domain.Bid
	now    func() time.Time
}

func NewBidRepository() *BidRepository {
	return &BidRepository{now: time.Now}
}

func (r *BidRepository) FindByID(_ context.Context, id int64) (*domain.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.bids {
		if r.bids[i].ID == id {
			b := r.bids[i]
			return &b, nil
		}
	}
	return nil, domain.ErrBidNotFound
}

func (r *BidRepository) Save(_ context.Context, bid *domain.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if bid.HasID() {
		return errBidAlreadyStored
	}
	r.nextID++
	bid.ID = r.nextID
	if bid.PlacedAt.IsZero() {
		bid.PlacedAt = r.now().UTC()
	}
	r.bids = append(r.bids, *bid)
	return nil
}

func (r *BidRepository) FindByProduct(_ context.Context, product *domain.Product) ([]*domain.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var bids []*domain.Bid
	for i := range r.bids {
		if r.bids[i].ProductID == product.ID {
			b := r.bids[i]
			bids = append(bids, &b)
		}
	}
	return bids, nil
}

func (r *BidRepository) Snapshot() func() {
	r.mu.RLock()
	nextID := r.nextID
	saved := slices.Clone(r.bids)
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.nextID = nextID
		r.bids = saved
	}
}
