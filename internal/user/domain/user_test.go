package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser(7, "")
	require.NoError(t, err)
	assert.Equal(t, "User 7", u.Name)

	u, err = NewUser(7, "Ada")
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)

	_, err = NewUser(0, "nobody")
	assert.ErrorIs(t, err, ErrInvalidUserID)
	_, err = NewUser(-3, "")
	assert.ErrorIs(t, err, ErrInvalidUserID)
}
