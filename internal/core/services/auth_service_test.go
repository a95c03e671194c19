package services

import (
	"context"
	"testing"

	"loanbridge/internal/adapters/persistence/models"
	"loanbridge/internal/config"
	"loanbridge/internal/core/domain"
	"loanbridge/internal/core/session"
	"loanbridge/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserRepo is an in-memory UserRepository keyed by email
type fakeUserRepo struct {
	users map[string]*models.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := r.users[email]
	return ok, nil
}

func (r *fakeUserRepo) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	for _, user := range r.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

// fakeTokenRepo is an in-memory RefreshTokenRepository
type fakeTokenRepo struct {
	tokens map[string]*models.RefreshToken
	nextID uint
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*models.RefreshToken)}
}

func (r *fakeTokenRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	r.nextID++
	token.ID = r.nextID
	r.tokens[token.TokenHash] = token
	return nil
}

func (r *fakeTokenRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	token, ok := r.tokens[tokenHash]
	if !ok || token.RevokedAt != nil {
		return nil, domain.ErrTokenInvalid
	}
	return token, nil
}

func (r *fakeTokenRepo) Revoke(ctx context.Context, id uint) error {
	for _, token := range r.tokens {
		if token.ID == id {
			now := token.ExpiresAt
			token.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeTokenRepo) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	if token, ok := r.tokens[tokenHash]; ok {
		now := token.ExpiresAt
		token.RevokedAt = &now
	}
	return nil
}

func (r *fakeTokenRepo) RevokeAllByUserID(ctx context.Context, userID uint) error {
	for _, token := range r.tokens {
		if token.UserID == userID {
			now := token.ExpiresAt
			token.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeTokenRepo) DeleteExpired(ctx context.Context) error {
	return nil
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "access-secret",
			RefreshSecret:    "refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeLoanRepo, *session.State) {
	t.Helper()

	hashed, err := password.Hash("manager-password")
	require.NoError(t, err)

	userRepo := &fakeUserRepo{users: map[string]*models.User{
		"manager@example.com": {
			ID:       1,
			Name:     "Jane Manager",
			Email:    "manager@example.com",
			Password: hashed,
			Role:     "MANAGER",
			IsActive: true,
		},
	}}

	loanRepo := newFakeLoanRepo()
	state := session.NewState()
	svc := NewAuthService(userRepo, newFakeTokenRepo(), loanRepo, state, testAuthConfig())
	return svc, loanRepo, state
}

// Logging in must both set the identity and refresh the cached loan
// list, so the record list is available the moment the session starts.
func TestLoginSetsIdentityAndRefreshesLoanCache(t *testing.T) {
	svc, loanRepo, state := newTestAuthService(t)
	loanRepo.loans["loan-1"] = &models.LoanApplication{ID: "loan-1", Name: "Jane Doe"}

	result, err := svc.Login(context.Background(), &LoginInput{
		Email:    "manager@example.com",
		Password: "manager-password",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)

	ident := state.Identity()
	require.NotNil(t, ident)
	assert.Equal(t, uint(1), ident.UserID)

	loans, refreshedAt := state.Loans()
	require.Len(t, loans, 1)
	assert.Equal(t, "loan-1", loans[0].ID)
	assert.False(t, refreshedAt.IsZero())
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, state := newTestAuthService(t)

	_, err := svc.Login(context.Background(), &LoginInput{
		Email:    "manager@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Nil(t, state.Identity())
}

func TestLogoutClearsSessionState(t *testing.T) {
	svc, loanRepo, state := newTestAuthService(t)
	loanRepo.loans["loan-1"] = &models.LoanApplication{ID: "loan-1"}

	result, err := svc.Login(context.Background(), &LoginInput{
		Email:    "manager@example.com",
		Password: "manager-password",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), result.RefreshToken))

	assert.Nil(t, state.Identity())
	loans, _ := state.Loans()
	assert.Empty(t, loans)
}
