package session

import (
	"sync"
	"testing"

	"loanbridge/internal/adapters/persistence/models"

	"github.com/stretchr/testify/assert"
)

func TestIdentityAuthenticated(t *testing.T) {
	var nilIdent *Identity
	assert.False(t, nilIdent.Authenticated())
	assert.False(t, (&Identity{}).Authenticated())
	assert.True(t, (&Identity{UserID: 7}).Authenticated())
}

func TestSetAndClearIdentity(t *testing.T) {
	state := NewState()
	assert.Nil(t, state.Identity())

	state.SetIdentity(&Identity{UserID: 1, Email: "manager@example.com"})
	ident := state.Identity()
	assert.NotNil(t, ident)
	assert.Equal(t, uint(1), ident.UserID)

	state.ClearIdentity()
	assert.Nil(t, state.Identity())
}

func TestClearIdentityDropsLoanCache(t *testing.T) {
	state := NewState()
	state.SetIdentity(&Identity{UserID: 1})
	state.SetLoans([]*models.LoanApplication{{ID: "a"}, {ID: "b"}})

	loans, refreshedAt := state.Loans()
	assert.Len(t, loans, 2)
	assert.False(t, refreshedAt.IsZero())

	state.ClearIdentity()

	loans, refreshedAt = state.Loans()
	assert.Empty(t, loans)
	assert.True(t, refreshedAt.IsZero())
}

func TestStateConcurrentAccess(t *testing.T) {
	state := NewState()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			state.SetIdentity(&Identity{UserID: 1})
			state.SetLoans([]*models.LoanApplication{{ID: "x"}})
		}()
		go func() {
			defer wg.Done()
			state.Identity()
			state.Loans()
			state.ClearIdentity()
		}()
	}
	wg.Wait()
}
