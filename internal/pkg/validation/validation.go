// Package validation holds the pure per-field validators for loan
// applications. Each validator returns a human-readable reason string,
// or "" when the field is valid. Validators perform no I/O.
package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// MaxDocumentSize is the upload limit for paysheet documents (10 MiB)
const MaxDocumentSize = 10485760

// Salary bounds in LKR. The lower bound is inclusive, the upper exclusive.
const (
	MinMonthlySalary = 10000
	MaxMonthlySalary = 10000000
)

var (
	nameRegex        = regexp.MustCompile(`^[A-Za-z\s]+$`)
	emailRegex       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneFormatRegex = regexp.MustCompile(`^[0-9+\s\-()]+$`)
	nonDigitRegex    = regexp.MustCompile(`[^0-9]`)
)

// validPhonePrefixes are the two digits allowed after the leading zero of
// a local Sri Lankan number (mobile carriers and area codes).
var validPhonePrefixes = map[string]bool{
	"70": true, "71": true, "72": true, "74": true, "75": true, "76": true,
	"77": true, "78": true, "11": true, "21": true, "23": true, "24": true,
	"25": true, "26": true, "27": true, "31": true, "32": true, "33": true,
	"34": true, "35": true, "36": true, "37": true, "38": true, "41": true,
	"45": true, "47": true, "51": true, "52": true, "54": true, "55": true,
	"57": true, "63": true, "65": true, "66": true, "67": true, "81": true,
	"91": true,
}

// Name validates the applicant's full name
func Name(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "Name is required"
	}
	if len(trimmed) < 3 {
		return "Name must be at least 3 characters"
	}
	if !nameRegex.MatchString(trimmed) {
		return "Name can only contain letters"
	}
	return ""
}

// Email validates the applicant's email address
func Email(email string) string {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return "Email is required"
	}
	if !emailRegex.MatchString(trimmed) {
		return "Please enter a valid email address"
	}
	return ""
}

// Telephone validates a Sri Lankan phone number. Accepted shapes are
// +94XXXXXXXXX / 0094XXXXXXXXX (11 digits total) and 0XXXXXXXXX
// (10 digits, carrier/area prefix whitelisted).
func Telephone(phone string) string {
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" {
		return "Phone number is required"
	}

	digitsOnly := nonDigitRegex.ReplaceAllString(trimmed, "")
	if len(digitsOnly) < 10 {
		return "Phone number must be at least 10 digits"
	}
	if len(digitsOnly) > 15 {
		return "Phone number is too long"
	}

	switch {
	case strings.HasPrefix(trimmed, "+94") || strings.HasPrefix(trimmed, "0094"):
		if len(digitsOnly) != 11 {
			return "Invalid Sri Lankan phone number (should be 11 digits including country code)"
		}
	case strings.HasPrefix(trimmed, "0"):
		if len(digitsOnly) != 10 {
			return "Invalid Sri Lankan phone number (should be 10 digits)"
		}
		if !validPhonePrefixes[digitsOnly[1:3]] {
			return "Invalid Sri Lankan phone number prefix"
		}
	default:
		return "Phone number must start with +94, 0094, or 0"
	}

	if !phoneFormatRegex.MatchString(trimmed) {
		return "Phone number can only contain digits, spaces, hyphens, parentheses, and +"
	}
	return ""
}

// Occupation validates the applicant's occupation
func Occupation(occupation string) string {
	trimmed := strings.TrimSpace(occupation)
	if trimmed == "" {
		return "Occupation is required"
	}
	if len(trimmed) < 2 {
		return "Occupation must be at least 2 characters"
	}
	return ""
}

// MonthlySalary validates the raw salary input. The value must parse as
// a finite number and lie in [MinMonthlySalary, MaxMonthlySalary).
func MonthlySalary(salary string) string {
	trimmed := strings.TrimSpace(salary)
	if trimmed == "" {
		return "Monthly salary is required"
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return "Please enter a valid number"
	}
	if value <= 0 {
		return "Salary must be greater than 0"
	}
	if value < MinMonthlySalary {
		return "Salary seems too low (minimum LKR 10,000)"
	}
	if value >= MaxMonthlySalary {
		return "Salary seems too high (maximum LKR 10,000,000)"
	}
	return ""
}

// Document validates the paysheet attachment. The document is required
// on submission and must not exceed MaxDocumentSize bytes.
func Document(present bool, size int64) string {
	if !present {
		return "Paysheet PDF is required"
	}
	if size > MaxDocumentSize {
		return "PDF must be less than 10MB"
	}
	return ""
}

// Fields is the raw form input for a full submission check
type Fields struct {
	Name          string
	Email         string
	Telephone     string
	Occupation    string
	MonthlySalary string
}

// Submission re-runs every field validator and returns all failures at
// once, keyed by field name. An empty map means the submission is valid.
// Validation always runs in full, regardless of earlier per-field checks.
func Submission(fields Fields, documentPresent bool, documentSize int64) map[string]string {
	errs := make(map[string]string)
	if msg := Name(fields.Name); msg != "" {
		errs["name"] = msg
	}
	if msg := Email(fields.Email); msg != "" {
		errs["email"] = msg
	}
	if msg := Telephone(fields.Telephone); msg != "" {
		errs["telephone"] = msg
	}
	if msg := Occupation(fields.Occupation); msg != "" {
		errs["occupation"] = msg
	}
	if msg := MonthlySalary(fields.MonthlySalary); msg != "" {
		errs["monthlySalary"] = msg
	}
	if msg := Document(documentPresent, documentSize); msg != "" {
		errs["paysheet"] = msg
	}
	return errs
}
