// Package validation collects field checks for incoming requests.
package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72

	MaxDescriptionLength = 500

	// AdultAge is the minimum age for identity verification.
	AdultAge = 18
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// Moroccan mobile numbers: +2126 followed by eight digits.
	phoneRegex = regexp.MustCompile(`^\+2126\d{8}$`)

	// National identity card: one or two letters then five or six digits.
	cinRegex = regexp.MustCompile(`^[A-Za-z]{1,2}\d{5,6}$`)
)

// Validator accumulates per-field errors.
type Validator struct {
	Errors map[string]string
}

func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid reports whether no checks have failed.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

func (v *Validator) AddError(field, message string) {
	if _, exists := v.Errors[field]; !exists {
		v.Errors[field] = message
	}
}

// Check adds an error if the condition is false.
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Required checks that a string is not blank.
func (v *Validator) Required(field, value string) {
	v.Check(strings.TrimSpace(value) != "", field, "must not be empty")
}

func (v *Validator) Email(field, email string) {
	v.Check(emailRegex.MatchString(email), field, "must be a valid email address")
}

func (v *Validator) Phone(field, phone string) {
	v.Check(phoneRegex.MatchString(phone), field, "must be a valid +2126XXXXXXXX mobile number")
}

func (v *Validator) Cin(field, cin string) {
	v.Check(cinRegex.MatchString(cin), field, "must be a valid identity card number")
}

// PositiveAmount checks that a monetary amount is strictly positive.
func (v *Validator) PositiveAmount(field string, amount decimal.Decimal) {
	v.Check(amount.IsPositive(), field, "must be greater than zero")
}

// Adult checks that the date of birth is at least AdultAge years before now.
func (v *Validator) Adult(field string, dob time.Time, now time.Time) {
	v.Check(!dob.AddDate(AdultAge, 0, 0).After(now), field, "must be at least 18 years old")
}

// Password enforces length plus upper, lower, digit and special classes.
func (v *Validator) Password(field, password string) {
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		v.AddError(field, "must be between 8 and 72 characters")
		return
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	v.Check(hasUpper && hasLower && hasDigit && hasSpecial, field,
		"must contain upper and lower case letters, a digit and a special character")
}

// ValidPhone reports whether phone matches the accepted mobile format.
func ValidPhone(phone string) bool { return phoneRegex.MatchString(phone) }

// ValidCin reports whether cin matches the identity card format.
func ValidCin(cin string) bool { return cinRegex.MatchString(cin) }
