package account

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines storage operations for users. Lookups of absent rows
// return an apperr not-found error.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
