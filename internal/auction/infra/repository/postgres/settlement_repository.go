package postgres

import (
	"context"
	"fmt"

	"github.com/cristianortiz/auctionSettlement/internal/auction/domain"
	"github.com/cristianortiz/auctionSettlement/internal/shared/db"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SettlementRepository struct {
	pool *pgxpool.Pool
}

func NewSettlementRepository(pool *pgxpool.Pool) *SettlementRepository {
	return &SettlementRepository{pool: pool}
}

func (r *SettlementRepository) Save(ctx context.Context, s *domain.Settlement) error {
	query := `
        INSERT INTO settlements (id, product_id, winning_bid_id, winner_user_id, winning_amount, clearing_price, settled_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := db.Conn(ctx, r.pool).Exec(ctx, query,
		s.ID,
		s.ProductID,
		s.WinningBidID,
		s.WinnerUserID,
		s.WinningAmount,
		s.ClearingPrice,
		s.SettledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement for product %d: %w", s.ProductID, err)
	}
	return nil
}

func (r *SettlementRepository) FindByProduct(ctx context.Context, productID int64) ([]*domain.Settlement, error) {
	query := `
        SELECT id, product_id, winning_bid_id, winner_user_id, winning_amount, clearing_price, settled_at
        FROM settlements
        WHERE product_id = $1
        ORDER BY settled_at ASC
    `
	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get settlements for product %d: %w", productID, err)
	}
	defer rows.Close()

	var out []*domain.Settlement
	for rows.Next() {
		s := &domain.Settlement{}
		err := rows.Scan(
			&s.ID,
			&s.ProductID,
			&s.WinningBidID,
			&s.WinnerUserID,
			&s.WinningAmount,
			&s.ClearingPrice,
			&s.SettledAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get settlements for product %d: %w", productID, err)
	}
	return out, nil
}
