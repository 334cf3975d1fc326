package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/cristianortiz/auctionSettlement/internal/auction/domain"
)

type SettlementRepository struct {
	mu          sync.RWMutex
	settlements []domain.Settlement
}

func NewSettlementRepository() *SettlementRepository {
	return &SettlementRepository{}
}

func (r *SettlementRepository) Save(_ context.Context, s *domain.Settlement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settlements = append(r.settlements, *s)
	return nil
}

func (r *SettlementRepository) FindByProduct(_ context.Context, productID int64) ([]*domain.Settlement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Settlement
	for i := range r.settlements {
		if r.settlements[i].ProductID == productID {
			s := r.settlements[i]
			out = append(out, &s)
		}
	}
	return out, nil
}

func (r *SettlementRepository) Snapshot() func() {
	r.mu.RLock()
	saved := slices.Clone(r.settlements)
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.settlements = saved
	}
}
