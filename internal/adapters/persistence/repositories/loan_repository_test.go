package repositories

import (
	"context"
	"testing"

	"loanbridge/internal/core/domain"
	"loanbridge/internal/core/session"

	"github.com/stretchr/testify/assert"
)

// The identity gate must reject before any database work: a repository
// built on a nil *gorm.DB would panic if the guarded methods touched it.
func TestLoanRepositoryGateRunsBeforeDatabaseAccess(t *testing.T) {
	repo := NewLoanRepository(nil)
	ctx := context.Background()

	idents := []*session.Identity{nil, {}}
	for _, ident := range idents {
		_, err := repo.ListAll(ctx, ident)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)

		_, err = repo.GetByID(ctx, ident, "some-id")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)

		err = repo.Update(ctx, ident, "some-id", map[string]interface{}{"name": "x"})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)

		err = repo.Delete(ctx, ident, "some-id")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	}
}
