package model

import (
	"context"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for user identities.
//
// GetByIdentifier resolves a username, email or phone number to a stored
// identity. The status and address updates are best-effort caches; their
// failures must never undo an already-delivered response.
type UserStore interface {
	GetByIdentifier(ctx context.Context, identifier string) (User, error)
	SetOnline(ctx context.Context, id uuid.UUID) error
	SetOffline(ctx context.Context, id uuid.UUID) error
	UpdateAdvertisedAddress(ctx context.Context, id uuid.UUID, host string, port int) error
}

// User represents a stored identity with authentication material.
type User struct {
	ID             uuid.UUID
	Username       string
	Email          string
	Phone          string
	PasswordDigest string
	Status         string
	LastKnownHost  string
	LastKnownPort  int
}
