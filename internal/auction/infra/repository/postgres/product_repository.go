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

// ProductRepository implements domain.ProductRepository. Every query runs on
// the transaction carried by ctx when there is one.
type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const selectProducts = `
    SELECT p.id, p.name, p.reserve_price, p.status, p.expires_at, p.created_at, p.updated_at,
           wb.id, wb.product_id, wb.user_id, wb.amount, wb.created_at
    FROM products p
    LEFT JOIN bids wb ON wb.id = p.winning_bid_id
`

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := db.Conn(ctx, r.pool).QueryRow(ctx, selectProducts+` WHERE p.id = $1`, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return product, nil
}

// Save inserts a product with no ID and assigns it, or updates an existing one.
func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) error {
	var winningBidID *int64
	if wb := product.WinningBid(); wb != nil {
		winningBidID = &wb.ID
	}
	conn := db.Conn(ctx, r.pool)

	if product.ID == 0 {
		query := `
            INSERT INTO products (name, reserve_price, status, expires_at, winning_bid_id)
            VALUES ($1, $2, $3, $4, $5)
            RETURNING id, created_at, updated_at
        `
		err := conn.QueryRow(ctx, query,
			product.Name,
			product.ReservePrice,
			string(product.Status()),
			product.ExpiresAt,
			winningBidID,
		).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert product: %w", err)
		}
		return nil
	}

	query := `
        UPDATE products
        SET name = $2, reserve_price = $3, status = $4, expires_at = $5, winning_bid_id = $6, updated_at = NOW()
        WHERE id = $1
        RETURNING updated_at
    `
	err := conn.QueryRow(ctx, query,
		product.ID,
		product.Name,
		product.ReservePrice,
		string(product.Status()),
		product.ExpiresAt,
		winningBidID,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("failed to update product %d: %w", product.ID, err)
	}
	return nil
}

func (r *ProductRepository) FindAvailable(ctx context.Context) ([]*domain.Product, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, selectProducts+` WHERE p.status = $1 ORDER BY p.id`, string(domain.StatusAvailable))
	if err != nil {
		return nil, fmt.Errorf("failed to list available products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list available products: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) UpdateStatus(ctx context.Context, id int64, status domain.ProductStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	tag, err := db.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE products SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return fmt.Errorf("failed to update status of product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// scanProduct reads one row of selectProducts. The winning bid columns are
// NULL when the product has not been settled.
func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		id                int64
		name              string
		reserve           decimal.Decimal
		status            string
		expiresAt         *time.Time
		createdAt         time.Time
		updatedAt         time.Time
		wbID, wbProductID *int64
		wbUserID          *int64
		wbAmount          decimal.NullDecimal
		wbCreatedAt       *time.Time
	)
	err := row.Scan(
		&id, &name, &reserve, &status, &expiresAt, &createdAt, &updatedAt,
		&wbID, &wbProductID, &wbUserID, &wbAmount, &wbCreatedAt,
	)
	if err != nil {
		return nil, err
	}

	var winningBid *domain.Bid
	if wbID != nil {
		winningBid, err = domain.RestoreBid(*wbID, *wbProductID, *wbUserID, wbAmount.Decimal, *wbCreatedAt)
		if err != nil {
			return nil, fmt.Errorf("winning bid %d: %w", *wbID, err)
		}
	}
	return domain.RestoreProduct(id, name, reserve, domain.ProductStatus(status), expiresAt, winningBid, createdAt, updatedAt)
}
