package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/cristianortiz/auctionSettlement/internal/shared/db"
	"github.com/cristianortiz/auctionSettlement/internal/user/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository implements domain.UserRepository for PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID loads a user, or domain.ErrUserNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT id, name FROM users WHERE id = $1`

	user := &domain.User{}
	err := db.Conn(ctx, r.pool).QueryRow(ctx, query, id).Scan(&user.ID, &user.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return user, nil
}

// Ensure upserts the user so bids can reference it. Existing names are kept.
func (r *UserRepository) Ensure(ctx context.Context, id int64) (*domain.User, error) {
	candidate, err := domain.NewUser(id, "")
	if err != nil {
		return nil, err
	}

	query := `
        INSERT INTO users (id, name)
        VALUES ($1, $2)
        ON CONFLICT (id) DO UPDATE SET name = users.name
        RETURNING id, name
    `
	user := &domain.User{}
	err = db.Conn(ctx, r.pool).QueryRow(ctx, query, candidate.ID, candidate.Name).Scan(&user.ID, &user.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user %d: %w", id, err)
	}
	return user, nil
}
