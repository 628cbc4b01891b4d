package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/alanya/signaling-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

// UserRepository is the credential store adapter. An identifier resolves
// against the username, email and phone columns with a single query.
type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (model.User, error) {
	var user model.User
	query := `SELECT id, username, email, phone, password_digest, status, last_known_host, last_known_port
			  FROM users WHERE username = $1 OR email = $1 OR phone = $1`

	err := r.db.QueryRow(ctx, query, identifier).Scan(
		&user.ID, &user.Username, &user.Email, &user.Phone, &user.PasswordDigest,
		&user.Status, &user.LastKnownHost, &user.LastKnownPort,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by identifier: %w", err)
	}

	return user, nil
}

func (r *UserRepository) SetOnline(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET status = 'online', last_connected_at = now() WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to mark user online: %w", err)
	}

	return nil
}

func (r *UserRepository) SetOffline(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET status = 'offline', last_disconnected_at = now() WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to mark user offline: %w", err)
	}

	return nil
}

func (r *UserRepository) UpdateAdvertisedAddress(ctx context.Context, id uuid.UUID, host string, port int) error {
	query := `UPDATE users SET last_known_host = $2, last_known_port = $3 WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id, host, port); err != nil {
		return fmt.Errorf("failed to update advertised address: %w", err)
	}

	return nil
}
