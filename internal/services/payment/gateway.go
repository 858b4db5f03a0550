// Package payment moves money across the external rails: card collection
// through Stripe, and the bank and mobile-money partner networks.
package payment

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/charge"
	"github.com/stripe/stripe-go/v72/token"

	"atlaspay/internal/apperr"
	"atlaspay/internal/models"
)

// CardDetails is the raw card input for a card-funded deposit.
type CardDetails struct {
	Number   string `json:"number"`
	ExpMonth int64  `json:"exp_month"`
	ExpYear  int64  `json:"exp_year"`
	CVC      string `json:"cvc"`
}

// Details carries the method-specific settlement data for one attempt.
type Details struct {
	Method       models.PaymentMethod `json:"method"`
	Card         *CardDetails         `json:"card,omitempty"`
	BankAccount  string               `json:"bank_account,omitempty"`
	MobileNumber string               `json:"mobile_number,omitempty"`
}

// Moroccan RIB: 24 digits.
var ribRegex = regexp.MustCompile(`^\d{24}$`)

var mobileRegex = regexp.MustCompile(`^\+2126\d{8}$`)

// Gateway settles against the outside world. Card collection goes through
// Stripe; bank and mobile-money settlement talk to partner rails, stubbed
// here behind the same interface.
type Gateway struct {
	log *logrus.Entry
}

func NewGateway(stripeKey string, log *logrus.Logger) *Gateway {
	stripe.Key = stripeKey
	return &Gateway{log: log.WithField("component", "payment")}
}

// Validate checks the settlement details before any money moves. Failures
// are validation errors: nothing has been attempted yet.
func (g *Gateway) Validate(details Details) error {
	switch details.Method {
	case models.PaymentMethodCreditCard:
		return validateCard(details.Card)
	case models.PaymentMethodBankTransfer:
		if !ribRegex.MatchString(details.BankAccount) {
			return apperr.Validation("bank account must be a 24 digit RIB")
		}
	case models.PaymentMethodOrangeMoney, models.PaymentMethodInwiMoney:
		if !mobileRegex.MatchString(details.MobileNumber) {
			return apperr.Validation("mobile number must be a valid +2126XXXXXXXX number")
		}
	case models.PaymentMethodCash:
		// Cash settles at the agent counter, nothing to validate.
	default:
		return apperr.Validation("unsupported payment method %q", details.Method)
	}
	return nil
}

func validateCard(card *CardDetails) error {
	if card == nil {
		return apperr.Validation("card details are required")
	}
	number := strings.ReplaceAll(card.Number, " ", "")
	if !strings.HasPrefix(number, "tok_") {
		if len(number) < 12 || !luhnValid(number) {
			return apperr.Validation("invalid card number")
		}
	}
	if !expiryValid(card.ExpMonth, card.ExpYear, time.Now()) {
		return apperr.Validation("card is expired")
	}
	return nil
}

// luhnValid runs the Luhn checksum over a digit string.
func luhnValid(number string) bool {
	var sum int
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return false
		}
		digit := int(c - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	return sum%10 == 0
}

func expiryValid(month, year int64, now time.Time) bool {
	if month < 1 || month > 12 {
		return false
	}
	nowYear, nowMonth, _ := now.Date()
	if year < int64(nowYear) {
		return false
	}
	return year > int64(nowYear) || month >= int64(nowMonth)
}

// Collect pulls funds in from the payer's rail for a deposit. A returned
// error means the rail rejected or failed the attempt.
func (g *Gateway) Collect(ctx context.Context, details Details, amount decimal.Decimal, currency, reference string) error {
	switch details.Method {
	case models.PaymentMethodCreditCard:
		return g.collectCard(details.Card, amount, currency, reference)
	case models.PaymentMethodBankTransfer:
		return g.settleBank("collect", details.BankAccount, amount, currency, reference)
	case models.PaymentMethodOrangeMoney, models.PaymentMethodInwiMoney:
		return g.settleMobile("collect", details.Method, details.MobileNumber, amount, currency, reference)
	case models.PaymentMethodCash:
		g.log.WithField("reference", reference).Info("cash collected at agent counter")
		return nil
	default:
		return apperr.Validation("unsupported payment method %q", details.Method)
	}
}

// Disburse pushes funds out to the payee's rail for a withdrawal.
func (g *Gateway) Disburse(ctx context.Context, details Details, amount decimal.Decimal, currency, reference string) error {
	switch details.Method {
	case models.PaymentMethodBankTransfer:
		return g.settleBank("disburse", details.BankAccount, amount, currency, reference)
	case models.PaymentMethodOrangeMoney, models.PaymentMethodInwiMoney:
		return g.settleMobile("disburse", details.Method, details.MobileNumber, amount, currency, reference)
	case models.PaymentMethodCash:
		g.log.WithField("reference", reference).Info("cash payout released to agent counter")
		return nil
	default:
		return apperr.Validation("unsupported withdrawal method %q", details.Method)
	}
}

func (g *Gateway) collectCard(card *CardDetails, amount decimal.Decimal, currency, reference string) error {
	source := card.Number
	if !strings.HasPrefix(source, "tok_") {
		params := &stripe.TokenParams{
			Card: &stripe.CardParams{
				Number:   stripe.String(card.Number),
				ExpMonth: stripe.String(strconv.FormatInt(card.ExpMonth, 10)),
				ExpYear:  stripe.String(strconv.FormatInt(card.ExpYear, 10)),
				CVC:      stripe.String(card.CVC),
			},
		}
		tok, err := token.New(params)
		if err != nil {
			return fmt.Errorf("card tokenization failed: %w", err)
		}
		source = tok.ID
	}

	cents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	chargeParams := &stripe.ChargeParams{
		Amount:      stripe.Int64(cents),
		Currency:    stripe.String(strings.ToLower(currency)),
		Description: stripe.String(reference),
	}
	if err := chargeParams.SetSource(source); err != nil {
		return fmt.Errorf("set charge source: %w", err)
	}
	if _, err := charge.New(chargeParams); err != nil {
		return fmt.Errorf("card charge failed: %w", err)
	}

	g.log.WithFields(logrus.Fields{
		"reference": reference,
		"amount":    amount.String(),
	}).Info("card charge settled")
	return nil
}

// settleBank and settleMobile stand in for the partner rails until the
// production connectors land.
func (g *Gateway) settleBank(direction, account string, amount decimal.Decimal, currency, reference string) error {
	g.log.WithFields(logrus.Fields{
		"direction": direction,
		"account":   maskAccount(account),
		"amount":    amount.String(),
		"currency":  currency,
		"reference": reference,
	}).Info("bank settlement accepted")
	return nil
}

func (g *Gateway) settleMobile(direction string, method models.PaymentMethod, number string, amount decimal.Decimal, currency, reference string) error {
	g.log.WithFields(logrus.Fields{
		"direction": direction,
		"operator":  string(method),
		"number":    maskAccount(number),
		"amount":    amount.String(),
		"currency":  currency,
		"reference": reference,
	}).Info("mobile money settlement accepted")
	return nil
}

func maskAccount(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
