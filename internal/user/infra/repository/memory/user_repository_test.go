package memory

import (
	"context"
	"testing"

	"github.com/cristianortiz/auctionSettlement/internal/user/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Ensure(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	_, err := repo.GetByID(ctx, 4)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	u, err := repo.Ensure(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "User 4", u.Name)

	again, err := repo.Ensure(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, *u, *again)

	got, err := repo.GetByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.ID)

	_, err = repo.Ensure(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidUserID)
}
