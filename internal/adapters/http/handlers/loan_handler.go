package handlers

import (
	"errors"
	"io"

	"loanbridge/internal/adapters/http/middleware"
	"loanbridge/internal/core/domain"
	"loanbridge/internal/core/services"
	"loanbridge/internal/core/session"
	"loanbridge/internal/pkg/response"
	"loanbridge/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles loan application endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// identityFrom extracts the caller identity set by the auth middleware
func identityFrom(c *fiber.Ctx) *session.Identity {
	return middleware.Identity(c)
}

// loanError maps a service error onto the response envelope
func loanError(c *fiber.Ctx, err error) error {
	var vErr *domain.ValidationError
	var sErr *domain.StoreError

	switch {
	case errors.As(err, &vErr):
		return response.ValidationFailed(c, vErr.Fields)
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Unauthorized(c, "Unauthorized")
	case errors.Is(err, domain.ErrLoanNotFound):
		return response.NotFound(c, "Loan application not found")
	case errors.Is(err, domain.ErrObjectNotFound):
		return response.NotFound(c, "Document not found")
	case errors.As(err, &sErr):
		return response.BadGateway(c, "Document store request failed")
	default:
		return response.InternalServerError(c, "Something went wrong")
	}
}

// Submit handles a public loan application submission
// @Summary Submit loan application
// @Description Submit a new loan application with an attached paysheet PDF
// @Tags Loans
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Applicant name"
// @Param email formData string true "Applicant email"
// @Param telephone formData string true "Telephone number"
// @Param occupation formData string true "Occupation"
// @Param monthly_salary formData string true "Monthly salary (LKR)"
// @Param paysheet formData file true "Paysheet PDF (max 10MB)"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /loans [post]
func (h *LoanHandler) Submit(c *fiber.Ctx) error {
	input := &services.SubmitInput{
		Name:          c.FormValue("name"),
		Email:         c.FormValue("email"),
		Telephone:     c.FormValue("telephone"),
		Occupation:    c.FormValue("occupation"),
		MonthlySalary: c.FormValue("monthly_salary"),
	}

	doc, err := h.readDocument(c, "paysheet")
	if err != nil {
		return loanError(c, err)
	}

	loan, err := h.loanService.Submit(c.Context(), input, doc)
	if err != nil {
		return loanError(c, err)
	}

	return response.Created(c, "Loan application submitted successfully", loan.ToResponse())
}

// List returns all loan applications
// @Summary List loan applications
// @Description List all submitted loan applications, newest first
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	loans, err := h.loanService.List(c.Context(), identityFrom(c))
	if err != nil {
		return loanError(c, err)
	}

	items := make([]interface{}, 0, len(loans))
	for _, loan := range loans {
		items = append(items, loan.ToResponse())
	}

	return response.Success(c, "Loan applications retrieved successfully", fiber.Map{
		"loans": items,
		"total": len(items),
	})
}

// GetByID returns one loan application
// @Summary Get loan application
// @Description Get a single loan application by ID
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan application ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [get]
func (h *LoanHandler) GetByID(c *fiber.Ctx) error {
	loan, err := h.loanService.GetByID(c.Context(), identityFrom(c), c.Params("id"))
	if err != nil {
		return loanError(c, err)
	}

	return response.Success(c, "Loan application retrieved successfully", loan.ToResponse())
}

// Update modifies a loan application
// @Summary Update loan application
// @Description Update fields of a loan application; optionally replace the paysheet
// @Tags Loans
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan application ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [put]
func (h *LoanHandler) Update(c *fiber.Ctx) error {
	input := &services.UpdateInput{}
	if form, err := c.MultipartForm(); err == nil {
		pick := func(key string) *string {
			if vals, ok := form.Value[key]; ok && len(vals) > 0 {
				v := vals[0]
				return &v
			}
			return nil
		}
		input.Name = pick("name")
		input.Email = pick("email")
		input.Telephone = pick("telephone")
		input.Occupation = pick("occupation")
		input.MonthlySalary = pick("monthly_salary")
	} else if err := c.BodyParser(input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	replacement, err := h.readDocument(c, "paysheet")
	if err != nil {
		return loanError(c, err)
	}

	loan, err := h.loanService.Update(c.Context(), identityFrom(c), c.Params("id"), input, replacement)
	if err != nil {
		return loanError(c, err)
	}

	return response.Success(c, "Loan application updated successfully", loan.ToResponse())
}

// Delete removes a loan application
// @Summary Delete loan application
// @Description Delete a loan application and its attached paysheet
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan application ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [delete]
func (h *LoanHandler) Delete(c *fiber.Ctx) error {
	if err := h.loanService.Delete(c.Context(), identityFrom(c), c.Params("id")); err != nil {
		return loanError(c, err)
	}

	return response.Success(c, "Loan application deleted successfully", nil)
}

// DownloadPaysheet streams the attached paysheet
// @Summary Download paysheet
// @Description Download the paysheet document attached to a loan application
// @Tags Loans
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Loan application ID"
// @Success 200 {file} file
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /loans/{id}/paysheet [get]
func (h *LoanHandler) DownloadPaysheet(c *fiber.Ctx) error {
	localPath, loan, err := h.loanService.DownloadPaysheet(c.Context(), identityFrom(c), c.Params("id"))
	if err != nil {
		return loanError(c, err)
	}

	return c.Download(localPath, loan.PaysheetName)
}

// readDocument reads an uploaded file part into memory. A missing part
// is not an error here: presence is validated downstream with the rest
// of the form. Oversized uploads are rejected before buffering.
func (h *LoanHandler) readDocument(c *fiber.Ctx, field string) (*services.DocumentInput, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}

	if fileHeader.Size > validation.MaxDocumentSize {
		return nil, domain.NewValidationError(map[string]string{
			field: "PDF must be less than 10MB",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &services.DocumentInput{
		FileName: fileHeader.Filename,
		Content:  content,
	}, nil
}
