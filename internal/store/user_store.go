package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vbonduro/travelwish/internal/domain"
)

// UserStore mirrors identities asserted by the authenticating proxy so places
// can reference them by id.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Ensure returns the user with the given username, creating it on first sight.
func (s *UserStore) Ensure(ctx context.Context, username string) (*domain.User, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username) VALUES (?) ON CONFLICT(username) DO NOTHING
	`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user: %w", err)
	}
	return s.GetByUsername(ctx, username)
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user := &domain.User{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, created_at FROM users WHERE username = ?
	`, username).Scan(&user.ID, &user.Username, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}
