package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cristianortiz/auctionSettlement/internal/auction/domain"
	"github.com/cristianortiz/auctionSettlement/internal/shared/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// BidRepository implements domain.BidRepository interface
type BidRepository struct {
	pool *pgxpool.Pool
}

func NewBidRepository(pool *pgxpool.Pool) *BidRepository {
	return &BidRepository{pool: pool}
}

// Save only inserts; the generated id and timestamp are written back to bid.
func (r *BidRepository) Save(ctx context.Context, bid *domain.Bid) error {
	var placedAt *time.Time
	if !bid.PlacedAt.IsZero() {
		placedAt = &bid.PlacedAt
	}
	query := `
        INSERT INTO bids (product_id, user_id, amount, created_at)
        VALUES ($1, $2, $3, COALESCE($4, NOW()))
        RETURNING id, created_at
    `
	err := db.Conn(ctx, r.pool).QueryRow(ctx, query,
		bid.ProductID,
		bid.UserID,
		bid.Amount(),
		placedAt,
	).Scan(&bid.ID, &bid.PlacedAt)
	if err != nil {
		return fmt.Errorf("failed to insert bid for product %d: %w", bid.ProductID, err)
	}
	return nil
}

func (r *BidRepository) FindByID(ctx context.Context, id int64) (*domain.Bid, error) {
	query := `
        SELECT id, product_id, user_id, amount, created_at
        FROM bids
        WHERE id = $1
    `
	bid, err := scanBid(db.Conn(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBidNotFound
		}
		return nil, fmt.Errorf("failed to get bid %d: %w", id, err)
	}
	return bid, nil
}

func (r *BidRepository) FindByProduct(ctx context.Context, product *domain.Product) ([]*domain.Bid, error) {
	query := `
        SELECT id, product_id, user_id, amount, created_at
        FROM bids
        WHERE product_id = $1
        ORDER BY id ASC
    `
	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bids for product %d: %w", product.ID, err)
	}
	defer rows.Close()

	var bids []*domain.Bid
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bid: %w", err)
		}
		bids = append(bids, bid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get bids for product %d: %w", product.ID, err)
	}
	return bids, nil
}

func scanBid(row pgx.Row) (*domain.Bid, error) {
	var (
		id, productID, userID int64
		amount                decimal.Decimal
		placedAt              time.Time
	)
	if err := row.Scan(&id, &productID, &userID, &amount, &placedAt); err != nil {
		return nil, err
	}
	return domain.RestoreBid(id, productID, userID, amount, placedAt)
}
