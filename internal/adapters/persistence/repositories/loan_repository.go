package repositories

import (
	"context"
	"errors"

	"loanbridge/internal/adapters/persistence/models"
	"loanbridge/internal/core/domain"
	"loanbridge/internal/core/session"

	"gorm.io/gorm"
)

// loanRepository implements LoanRepository against MySQL via GORM
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan application repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Create stores a new loan application. This is a public operation:
// no authorization gate, since applicants submit anonymously. The
// record ID and created_at are assigned here, at creation time.
func (r *loanRepository) Create(ctx context.Context, loan *models.LoanApplication) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// ListAll returns every loan application, newest first. Requires an
// authenticated manager; the gate runs before any query is issued.
func (r *loanRepository) ListAll(ctx context.Context, ident *session.Identity) ([]*models.LoanApplication, error) {
	if !ident.Authenticated() {
		return nil, domain.ErrUnauthorized
	}

	var loans []*models.LoanApplication
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&loans).Error
	return loans, err
}

// GetByID returns a single loan application. Manager only.
func (r *loanRepository) GetByID(ctx context.Context, ident *session.Identity, id string) (*models.LoanApplication, error) {
	if !ident.Authenticated() {
		return nil, domain.ErrUnauthorized
	}

	var loan models.LoanApplication
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&loan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	return &loan, nil
}

// Update overwrites only the supplied fields. Manager only. The id and
// created_at columns are never updatable and are stripped from the set.
func (r *loanRepository) Update(ctx context.Context, ident *session.Identity, id string, fields map[string]interface{}) error {
	if !ident.Authenticated() {
		return domain.ErrUnauthorized
	}

	delete(fields, "id")
	delete(fields, "created_at")
	if len(fields) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrLoanNotFound
	}
	return nil
}

// Delete removes a loan application. Manager only.
func (r *loanRepository) Delete(ctx context.Context, ident *session.Identity, id string) error {
	if !ident.Authenticated() {
		return domain.ErrUnauthorized
	}

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.LoanApplication{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrLoanNotFound
	}
	return nil
}

// ListStoredNames returns the stored object names referenced by any
// record. Internal maintenance read for the orphan sweep; not exposed
// through the manager-facing API, so it carries no gate.
func (r *loanRepository) ListStoredNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Where("paysheet_name <> ''").
		Pluck("paysheet_name", &names).Error
	return names, err
}
