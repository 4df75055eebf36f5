package auth

import (
	"context"

	"github.com/google/uuid"
)

var _ Checker = (*LoginChecker)(nil)
var _ Checker = (*LoginTestChecker)(nil)

// Checker resolves a session token to the user it was issued for.
type Checker interface {
	UserForToken(ctx context.Context, token string) (uuid.UUID, bool, error)
}

// LoginTestChecker is an in-memory Checker for tests and local development.
type LoginTestChecker struct {
	Sessions map[string]uuid.UUID
}

func NewLoginTestChecker() *LoginTestChecker {
	return &LoginTestChecker{
		Sessions: map[string]uuid.UUID{},
	}
}

func (c *LoginTestChecker) UserForToken(_ context.Context, token string) (uuid.UUID, bool, error) {
	userID, ok := c.Sessions[token]
	return userID, ok, nil
}
