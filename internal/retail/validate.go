package retail

import (
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Limits enforced on registration input.
const (
	MinAge       = 1
	MaxAge       = 150
	PhoneDigits  = 10
	ZipDigits    = 5
	CardDigits   = 16
	VoucherIDLen = 5
)

// NormalizeEmail trims, NFC-normalizes and lowercases an email address so
// that visually identical addresses compare equal as keys.
func NormalizeEmail(email string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(email)))
}

// ValidateEmail checks that email is a bare address (no display name).
func ValidateEmail(email string) error {
	if email == "" {
		return NewValidationError("validate email", "email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return NewValidationError("validate email", fmt.Sprintf("invalid email %q", email))
	}
	return nil
}

// ValidateCustomer checks registration fields the schema cannot express.
func ValidateCustomer(c Customer) error {
	if err := ValidateEmail(c.Email); err != nil {
		return err
	}
	if c.Password == "" {
		return NewValidationError("validate customer", "password is required")
	}
	if c.FirstName == "" {
		return NewValidationError("validate customer", "first name is required")
	}
	if c.Age < MinAge || c.Age > MaxAge {
		return NewValidationError("validate customer", fmt.Sprintf("age %d outside %d..%d", c.Age, MinAge, MaxAge))
	}
	if c.Sex != "M" && c.Sex != "F" {
		return NewValidationError("validate customer", fmt.Sprintf("sex must be M or F, got %q", c.Sex))
	}
	if !allDigits(c.Phone, PhoneDigits) {
		return NewValidationError("validate customer", fmt.Sprintf("phone number must be %d digits", PhoneDigits))
	}
	return nil
}

// ValidateZip checks a five-digit zip code.
func ValidateZip(zip int) error {
	if zip < 0 || zip > 99999 {
		return NewValidationError("validate zip", fmt.Sprintf("zip %d is not %d digits", zip, ZipDigits))
	}
	return nil
}

// ValidatePayment enforces the card number rules: cash payments carry no card
// number, card payments carry exactly CardDigits digits.
func ValidatePayment(isCash bool, cardNumber string) error {
	if isCash {
		if cardNumber != "" {
			return NewValidationError("validate payment", "card number must be empty for cash payments")
		}
		return nil
	}
	if !allDigits(cardNumber, CardDigits) {
		return NewValidationError("validate payment", fmt.Sprintf("card number must be %d digits", CardDigits))
	}
	return nil
}

func allDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
