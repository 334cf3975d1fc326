package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidUserID = errors.New("user id must be a positive integer")
)

// User is a bidding party. Bids compare parties by ID only.
type User struct {
	ID   int64
	Name string
}

// NewUser builds a party; an empty name falls back to "User <id>".
func NewUser(id int64, name string) (*User, error) {
	if id <= 0 {
		return nil, ErrInvalidUserID
	}
	if name == "" {
		name = DefaultName(id)
	}
	return &User{ID: id, Name: name}, nil
}

func DefaultName(id int64) string {
	return fmt.Sprintf("User %d", id)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	// Ensure returns the user with this id, registering it with the default
	// name the first time it is seen.
	Ensure(ctx context.Context, id int64) (*User, error)
}
