package payment

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"atlaspay/internal/apperr"
	"atlaspay/internal/models"
)

func testGateway() *Gateway {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewGateway("", log)
}

func TestValidateCard(t *testing.T) {
	g := testGateway()
	nextYear := int64(time.Now().Year() + 1)

	tests := []struct {
		name    string
		details Details
		wantErr bool
	}{
		{
			"valid visa test number",
			Details{Method: models.PaymentMethodCreditCard, Card: &CardDetails{Number: "4242424242424242", ExpMonth: 12, ExpYear: nextYear, CVC: "123"}},
			false,
		},
		{
			"stripe test token skips luhn",
			Details{Method: models.PaymentMethodCreditCard, Card: &CardDetails{Number: "tok_visa", ExpMonth: 12, ExpYear: nextYear}},
			false,
		},
		{
			"luhn failure",
			Details{Method: models.PaymentMethodCreditCard, Card: &CardDetails{Number: "4242424242424241", ExpMonth: 12, ExpYear: nextYear}},
			true,
		},
		{
			"expired card",
			Details{Method: models.PaymentMethodCreditCard, Card: &CardDetails{Number: "4242424242424242", ExpMonth: 1, ExpYear: 2020}},
			true,
		},
		{
			"missing card details",
			Details{Method: models.PaymentMethodCreditCard},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Validate(tt.details)
			if tt.wantErr {
				assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateOtherMethods(t *testing.T) {
	g := testGateway()

	assert.NoError(t, g.Validate(Details{
		Method:      models.PaymentMethodBankTransfer,
		BankAccount: "123456789012345678901234",
	}))
	assert.Error(t, g.Validate(Details{
		Method:      models.PaymentMethodBankTransfer,
		BankAccount: "12345",
	}))

	assert.NoError(t, g.Validate(Details{
		Method:       models.PaymentMethodOrangeMoney,
		MobileNumber: "+212612345678",
	}))
	assert.Error(t, g.Validate(Details{
		Method:       models.PaymentMethodInwiMoney,
		MobileNumber: "0612345678",
	}))

	assert.NoError(t, g.Validate(Details{Method: models.PaymentMethodCash}))

	err := g.Validate(Details{Method: models.PaymentMethod("crypto")})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestLuhn(t *testing.T) {
	assert.True(t, luhnValid("4242424242424242"))
	assert.True(t, luhnValid("5555555555554444"))
	assert.False(t, luhnValid("4242424242424243"))
	assert.False(t, luhnValid("4242abcd42424242"))
}

func TestExpiryValid(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	assert.True(t, expiryValid(6, 2026, now), "expires this month")
	assert.True(t, expiryValid(1, 2027, now))
	assert.False(t, expiryValid(5, 2026, now), "expired last month")
	assert.False(t, expiryValid(13, 2027, now))
	assert.False(t, expiryValid(0, 2027, now))
}

func TestMaskAccount(t *testing.T) {
	assert.Equal(t, "****5678", maskAccount("123456789012345678"))
	assert.Equal(t, "****", maskAccount("123"))
}
