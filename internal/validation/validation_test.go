package validation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"+212612345678", true},
		{"+212712345678", false},
		{"+21261234567", false},
		{"+2126123456789", false},
		{"0612345678", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPhone(tt.phone))
		})
	}
}

func TestValidCin(t *testing.T) {
	tests := []struct {
		cin  string
		want bool
	}{
		{"A12345", true},
		{"AB123456", true},
		{"ab12345", true},
		{"ABC12345", false},
		{"A1234", false},
		{"A1234567", false},
		{"12345", false},
	}

	for _, tt := range tests {
		t.Run(tt.cin, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidCin(tt.cin))
		})
	}
}

func TestPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"strong", "Str0ng!pass", true},
		{"too short", "S1!a", false},
		{"no upper", "weak1!pass", false},
		{"no digit", "Weak!pass", false},
		{"no special", "Weak1pass", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Password("password", tt.password)
			assert.Equal(t, tt.valid, v.Valid())
		})
	}
}

func TestAdult(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	v := New()
	v.Adult("date_of_birth", time.Date(2008, 6, 1, 0, 0, 0, 0, time.UTC), now)
	assert.True(t, v.Valid(), "turns 18 today")

	v = New()
	v.Adult("date_of_birth", time.Date(2008, 6, 2, 0, 0, 0, 0, time.UTC), now)
	assert.False(t, v.Valid(), "one day short of 18")
}

func TestPositiveAmount(t *testing.T) {
	v := New()
	v.PositiveAmount("amount", decimal.NewFromInt(10))
	assert.True(t, v.Valid())

	v = New()
	v.PositiveAmount("amount", decimal.Zero)
	assert.False(t, v.Valid())

	v = New()
	v.PositiveAmount("amount", decimal.NewFromInt(-5))
	assert.False(t, v.Valid())
}
