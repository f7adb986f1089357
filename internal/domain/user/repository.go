package user

import "context"

type Repository interface {
	// Create fails with ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUserID(ctx context.Context, userID string) (*User, error)
	// Delete removes the user and every loan application they own.
	Delete(ctx context.Context, userID string) error
}
