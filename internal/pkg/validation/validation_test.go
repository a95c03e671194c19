package validation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"valid", "Jane Doe", ""},
		{"valid with extra spaces", "  Jane Doe  ", ""},
		{"empty", "", "Name is required"},
		{"only spaces", "   ", "Name is required"},
		{"too short", "Jo", "Name must be at least 3 characters"},
		{"digits", "Jane D03", "Name can only contain letters"},
		{"punctuation", "Jane-Doe", "Name can only contain letters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, Name(tt.input))
		})
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"valid", "jane@example.com", ""},
		{"valid subdomain", "jane@mail.example.lk", ""},
		{"empty", "", "Email is required"},
		{"no at", "jane.example.com", "Please enter a valid email address"},
		{"no domain dot", "jane@example", "Please enter a valid email address"},
		{"spaces inside", "jane doe@example.com", "Please enter a valid email address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, Email(tt.input))
		})
	}
}

func TestTelephone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"mobile local", "0771234567", ""},
		{"landline colombo", "0112345678", ""},
		{"intl plus", "+94771234567", ""},
		{"intl 0094", "0094771234567", ""},
		{"formatted", "077 123-4567", ""},
		{"empty", "", "Phone number is required"},
		{"too short", "07712345", "Phone number must be at least 10 digits"},
		{"too long", "0094771234567890123", "Phone number is too long"},
		{"intl wrong length", "+9477123456", "Invalid Sri Lankan phone number (should be 11 digits including country code)"},
		{"local wrong length 11", "07712345678", "Invalid Sri Lankan phone number (should be 10 digits)"},
		{"bad prefix", "0991234567", "Invalid Sri Lankan phone number prefix"},
		{"no leading zero", "7712345678", "Phone number must start with +94, 0094, or 0"},
		{"letters", "0771abc4567", "Phone number must be at least 10 digits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, Telephone(tt.input))
		})
	}
}

// Every whitelisted prefix must pass as a 10-digit local number, and
// every other two-digit prefix must be rejected.
func TestTelephonePrefixWhitelist(t *testing.T) {
	for i := 0; i < 100; i++ {
		prefix := fmt.Sprintf("%02d", i)
		number := "0" + prefix + "1234567"
		msg := Telephone(number)
		if validPhonePrefixes[prefix] {
			assert.Empty(t, msg, "prefix %s should be accepted", prefix)
		} else {
			assert.Equal(t, "Invalid Sri Lankan phone number prefix", msg, "prefix %s should be rejected", prefix)
		}
	}
}

func TestOccupation(t *testing.T) {
	assert.Empty(t, Occupation("Engineer"))
	assert.Empty(t, Occupation("IT"))
	assert.Equal(t, "Occupation is required", Occupation("  "))
	assert.Equal(t, "Occupation must be at least 2 characters", Occupation("X"))
}

func TestMonthlySalary(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"lower bound inclusive", "10000", ""},
		{"mid range", "185000.50", ""},
		{"just below upper bound", "9999999.99", ""},
		{"empty", "", "Monthly salary is required"},
		{"not a number", "ten thousand", "Please enter a valid number"},
		{"infinity", "Inf", "Please enter a valid number"},
		{"nan", "NaN", "Please enter a valid number"},
		{"negative", "-5000", "Salary must be greater than 0"},
		{"zero", "0", "Salary must be greater than 0"},
		{"just below minimum", "9999.99", "Salary seems too low (minimum LKR 10,000)"},
		{"upper bound exclusive", "10000000", "Salary seems too high (maximum LKR 10,000,000)"},
		{"far too high", "99999999", "Salary seems too high (maximum LKR 10,000,000)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, MonthlySalary(tt.input))
		})
	}
}

func TestDocument(t *testing.T) {
	assert.Equal(t, "Paysheet PDF is required", Document(false, 0))
	assert.Empty(t, Document(true, 1024))
	assert.Empty(t, Document(true, MaxDocumentSize))
	assert.Equal(t, "PDF must be less than 10MB", Document(true, MaxDocumentSize+1))
}

func TestSubmissionCollectsAllFailures(t *testing.T) {
	errs := Submission(Fields{}, false, 0)

	assert.Len(t, errs, 6)
	for _, key := range []string{"name", "email", "telephone", "occupation", "monthlySalary", "paysheet"} {
		assert.Contains(t, errs, key)
	}
}

func TestSubmissionValid(t *testing.T) {
	errs := Submission(Fields{
		Name:          "Jane Doe",
		Email:         "jane@example.com",
		Telephone:     "0771234567",
		Occupation:    "Engineer",
		MonthlySalary: "185000",
	}, true, 2048)

	assert.Empty(t, errs)
}
