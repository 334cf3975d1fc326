package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/cristianortiz/auctionSettlement/internal/auction/domain"
)

// ProductRepository is an in-process domain.ProductRepository. It stores
// clones, so callers never share state with the store.
type ProductRepository struct {
	mu       sync.RWMutex
	nextID   int64
	products map[int64]*domain.Product
	now      func() time.Time
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: make(map[int64]*domain.Product),
		now:      time.Now,
	}
}

func (r *ProductRepository) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p.Clone(), nil
}

func (r *ProductRepository) Save(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	if product.ID == 0 {
		r.nextID++
		product.ID = r.nextID
		product.CreatedAt = now
	} else if _, ok := r.products[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	product.UpdatedAt = now

	r.products[product.ID] = product.Clone()
	return nil
}

func (r *ProductRepository) FindAvailable(_ context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var available []*domain.Product
	for _, p := range r.products {
		if p.IsAvailable() {
			available = append(available, p.Clone())
		}
	}
	slices.SortFunc(available, func(a, b *domain.Product) int { return cmp.Compare(a.ID, b.ID) })
	return available, nil
}

func (r *ProductRepository) UpdateStatus(_ context.Context, id int64, status domain.ProductStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	updated := p.Clone()
	if err := updated.SetStatus(status); err != nil {
		return err
	}
	updated.UpdatedAt = r.now().UTC()
	r.products[id] = updated
	return nil
}

func (r *ProductRepository) Snapshot() func() {
	r.mu.RLock()
	nextID := r.nextID
	saved := make(map[int64]*domain.Product, len(r.products))
	for id, p := range r.products {
		saved[id] = p.Clone()
	}
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.nextID = nextID
		r.products = saved
	}
}
