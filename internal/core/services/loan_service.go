package services

import (
	"context"
	"log"
	"strconv"
	"strings"

	"loanbridge/internal/adapters/persistence/models"
	"loanbridge/internal/adapters/persistence/repositories"
	"loanbridge/internal/core/domain"
	"loanbridge/internal/core/session"
	"loanbridge/internal/pkg/validation"
)

// LoanService orchestrates validation, document upload/delete and
// record mutation for loan applications.
//
// Partial-failure contract: on create, the document upload is a hard
// precondition (no record without a document), but a record-create
// failure after a successful upload leaves the object orphaned — that
// inconsistency window is accepted and logged, never cleaned up
// automatically. On delete the prioritization is reversed: the record
// removal proceeds even when the document delete fails.
type LoanService struct {
	loanRepo repositories.LoanRepository
	storage  ObjectStorage
	state    *session.State
}

// NewLoanService creates a new loan service
func NewLoanService(loanRepo repositories.LoanRepository, storage ObjectStorage, state *session.State) *LoanService {
	return &LoanService{
		loanRepo: loanRepo,
		storage:  storage,
		state:    state,
	}
}

// SubmitInput represents a raw application form submission
type SubmitInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Telephone     string `json:"telephone"`
	Occupation    string `json:"occupation"`
	MonthlySalary string `json:"monthly_salary"`
}

// DocumentInput is an uploaded paysheet document
type DocumentInput struct {
	FileName string
	Content  []byte
}

// Submit validates and persists a new loan application. Public: no
// session required. All field validators run in full on every call and
// every failure is surfaced at once; nothing is uploaded or written
// unless the whole form is valid.
func (s *LoanService) Submit(ctx context.Context, input *SubmitInput, doc *DocumentInput) (*models.LoanApplication, error) {
	fields := validation.Fields{
		Name:          input.Name,
		Email:         input.Email,
		Telephone:     input.Telephone,
		Occupation:    input.Occupation,
		MonthlySalary: input.MonthlySalary,
	}
	var docSize int64
	if doc != nil {
		docSize = int64(len(doc.Content))
	}
	if errs := validation.Submission(fields, doc != nil, docSize); len(errs) > 0 {
		return nil, domain.NewValidationError(errs)
	}

	// Validated above, cannot fail here
	salary, _ := strconv.ParseFloat(strings.TrimSpace(input.MonthlySalary), 64)

	upload, err := s.storage.Upload(ctx, doc.Content, doc.FileName)
	if err != nil {
		return nil, err
	}

	loan := &models.LoanApplication{
		Name:          strings.TrimSpace(input.Name),
		Email:         strings.TrimSpace(input.Email),
		Telephone:     strings.TrimSpace(input.Telephone),
		Occupation:    strings.TrimSpace(input.Occupation),
		MonthlySalary: salary,
		PaysheetURL:   upload.URL,
		PaysheetName:  upload.StoredName,
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		// Accepted inconsistency window: the uploaded document stays
		// behind. The nightly orphan scan reports it.
		log.Printf("⚠️ Partial failure: record create failed after upload, object %s is orphaned: %v",
			upload.StoredName, err)
		return nil, err
	}

	log.Printf("✅ Loan application created: %s (%s)", loan.ID, loan.Email)
	return loan, nil
}

// List returns all loan applications (manager only) and refreshes the
// session cache on success.
func (s *LoanService) List(ctx context.Context, ident *session.Identity) ([]*models.LoanApplication, error) {
	loans, err := s.loanRepo.ListAll(ctx, ident)
	if err != nil {
		return nil, err
	}
	s.state.SetLoans(loans)
	return loans, nil
}

// GetByID returns a single loan application (manager only)
func (s *LoanService) GetByID(ctx context.Context, ident *session.Identity, id string) (*models.LoanApplication, error) {
	return s.loanRepo.GetByID(ctx, ident, id)
}

// UpdateInput carries the fields being changed. Nil pointers are left
// untouched; supplied fields are re-validated with the creation rules.
type UpdateInput struct {
	Name          *string `json:"name,omitempty"`
	Email         *string `json:"email,omitempty"`
	Telephone     *string `json:"telephone,omitempty"`
	Occupation    *string `json:"occupation,omitempty"`
	MonthlySalary *string `json:"monthly_salary,omitempty"`
}

// Update overwrites the supplied fields of a loan application (manager
// only). The attached document is untouched unless a replacement is
// supplied: the replacement is uploaded first, the record updated, then
// the previous object deleted best-effort. An update failure after the
// replacement upload orphans the new object, same contract as Submit.
func (s *LoanService) Update(ctx context.Context, ident *session.Identity, id string, input *UpdateInput, replacement *DocumentInput) (*models.LoanApplication, error) {
	errs := make(map[string]string)
	fields := make(map[string]interface{})

	if input.Name != nil {
		if msg := validation.Name(*input.Name); msg != "" {
			errs["name"] = msg
		} else {
			fields["name"] = strings.TrimSpace(*input.Name)
		}
	}
	if input.Email != nil {
		if msg := validation.Email(*input.Email); msg != "" {
			errs["email"] = msg
		} else {
			fields["email"] = strings.TrimSpace(*input.Email)
		}
	}
	if input.Telephone != nil {
		if msg := validation.Telephone(*input.Telephone); msg != "" {
			errs["telephone"] = msg
		} else {
			fields["telephone"] = strings.TrimSpace(*input.Telephone)
		}
	}
	if input.Occupation != nil {
		if msg := validation.Occupation(*input.Occupation); msg != "" {
			errs["occupation"] = msg
		} else {
			fields["occupation"] = strings.TrimSpace(*input.Occupation)
		}
	}
	if input.MonthlySalary != nil {
		if msg := validation.MonthlySalary(*input.MonthlySalary); msg != "" {
			errs["monthlySalary"] = msg
		} else {
			salary, _ := strconv.ParseFloat(strings.TrimSpace(*input.MonthlySalary), 64)
			fields["monthly_salary"] = salary
		}
	}
	if replacement != nil {
		if msg := validation.Document(true, int64(len(replacement.Content))); msg != "" {
			errs["paysheet"] = msg
		}
	}
	if len(errs) > 0 {
		return nil, domain.NewValidationError(errs)
	}

	current, err := s.loanRepo.GetByID(ctx, ident, id)
	if err != nil {
		return nil, err
	}

	var uploaded string
	if replacement != nil {
		upload, err := s.storage.Upload(ctx, replacement.Content, replacement.FileName)
		if err != nil {
			return nil, err
		}
		uploaded = upload.StoredName
		fields["paysheet_url"] = upload.URL
		fields["paysheet_name"] = upload.StoredName
	}

	if err := s.loanRepo.Update(ctx, ident, id, fields); err != nil {
		if uploaded != "" {
			log.Printf("⚠️ Partial failure: record update failed after upload, object %s is orphaned: %v",
				uploaded, err)
		}
		return nil, err
	}

	// Previous document is now unreferenced; removal is best-effort.
	// Legacy records carry only the URL, so fall back to it.
	if uploaded != "" && (current.PaysheetName != "" || current.PaysheetURL != "") {
		var delErr error
		if current.PaysheetName != "" {
			delErr = s.storage.Delete(ctx, current.PaysheetName)
		} else {
			delErr = s.storage.DeleteByURL(ctx, current.PaysheetURL)
		}
		if delErr != nil {
			log.Printf("⚠️ Failed to delete replaced document for loan %s: %v", id, delErr)
		}
	}

	log.Printf("✅ Loan application updated: %s", id)
	return s.loanRepo.GetByID(ctx, ident, id)
}

// Delete removes a loan application and its attached document (manager
// only). The record is re-read first so a stale caller still hits the
// current document URL. A failed document delete is reported but does
// not stop the record delete: removing the user-visible record wins
// over avoiding an orphaned document.
func (s *LoanService) Delete(ctx context.Context, ident *session.Identity, id string) error {
	loan, err := s.loanRepo.GetByID(ctx, ident, id)
	if err != nil {
		return err
	}

	if loan.PaysheetName != "" || loan.PaysheetURL != "" {
		var delErr error
		if loan.PaysheetName != "" {
			delErr = s.storage.Delete(ctx, loan.PaysheetName)
		} else {
			delErr = s.storage.DeleteByURL(ctx, loan.PaysheetURL)
		}
		if delErr != nil {
			log.Printf("⚠️ Document delete failed for loan %s, proceeding with record delete: %v", id, delErr)
		}
	}

	if err := s.loanRepo.Delete(ctx, ident, id); err != nil {
		return err
	}

	log.Printf("✅ Loan application deleted: %s", id)
	return nil
}

// DownloadPaysheet fetches the attached document of a loan application
// into local storage and returns the local path (manager only).
func (s *LoanService) DownloadPaysheet(ctx context.Context, ident *session.Identity, id string) (string, *models.LoanApplication, error) {
	loan, err := s.loanRepo.GetByID(ctx, ident, id)
	if err != nil {
		return "", nil, err
	}
	if loan.PaysheetURL == "" {
		return "", nil, domain.ErrObjectNotFound
	}

	destName := loan.PaysheetName
	if destName == "" {
		destName = loan.ID + ".pdf"
	}
	localPath, err := s.storage.Download(ctx, loan.PaysheetURL, destName)
	if err != nil {
		return "", nil, err
	}
	return localPath, loan, nil
}
