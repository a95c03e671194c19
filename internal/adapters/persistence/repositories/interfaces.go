package repositories

import (
	"context"

	"loanbridge/internal/adapters/persistence/models"
	"loanbridge/internal/core/session"
)

// LoanRepository defines the record store adapter interface.
//
// Create is a public operation: applicants submit without a session.
// Every other operation requires an authenticated manager identity and
// fails with domain.ErrUnauthorized before any I/O is performed.
// ListStoredNames is an ungated internal read for maintenance jobs.
type LoanRepository interface {
	Create(ctx context.Context, loan *models.LoanApplication) error
	ListAll(ctx context.Context, ident *session.Identity) ([]*models.LoanApplication, error)
	GetByID(ctx context.Context, ident *session.Identity, id string) (*models.LoanApplication, error)
	Update(ctx context.Context, ident *session.Identity, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, ident *session.Identity, id string) error
	ListStoredNames(ctx context.Context) ([]string, error)
}

// UserRepository defines manager account data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}

// RefreshTokenRepository defines refresh token data access
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}
