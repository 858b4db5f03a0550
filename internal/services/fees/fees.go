// Package fees computes transaction fees and recharge bonuses. The
// calculator is pure: callers resolve the applicable offer first and pass it
// in only when it is currently valid.
package fees

import (
	"github.com/shopspring/decimal"

	"atlaspay/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Fee rates in percent, keyed by payment method. Unlisted methods fall back
// to the default rate so new methods stay chargeable without a code change.
var (
	depositRates = map[models.PaymentMethod]decimal.Decimal{
		models.PaymentMethodCreditCard:   decimal.NewFromFloat(1.5),
		models.PaymentMethodBankTransfer: decimal.NewFromFloat(0.5),
		models.PaymentMethodOrangeMoney:  decimal.NewFromFloat(1.0),
		models.PaymentMethodInwiMoney:    decimal.NewFromFloat(1.0),
	}
	depositDefaultRate = decimal.NewFromFloat(2.0)

	withdrawalRates = map[models.PaymentMethod]decimal.Decimal{
		models.PaymentMethodBankTransfer: decimal.NewFromFloat(1.0),
		models.PaymentMethodOrangeMoney:  decimal.NewFromFloat(1.5),
		models.PaymentMethodInwiMoney:    decimal.NewFromFloat(1.5),
		models.PaymentMethodCash:         decimal.NewFromFloat(2.0),
	}
	withdrawalDefaultRate = decimal.NewFromFloat(2.0)

	transferRate = decimal.NewFromFloat(1.0)

	billRates = map[models.BillType]decimal.Decimal{
		models.BillTypeTelecom:     decimal.NewFromFloat(1.0),
		models.BillTypeWater:       decimal.NewFromFloat(0.5),
		models.BillTypeElectricity: decimal.NewFromFloat(0.5),
		models.BillTypeTaxes:       decimal.NewFromFloat(1.5),
	}
	billDefaultRate = decimal.NewFromFloat(1.0)
)

type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// percentOf computes amount * rate% rounded to two decimals, half away
// from zero.
func percentOf(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Div(hundred).Round(2)
}

// applyDiscount reduces the fee by the offer's fee discount percentage.
func applyDiscount(fee decimal.Decimal, offer *models.Offer) decimal.Decimal {
	if offer == nil || offer.FeesDiscount == nil {
		return fee
	}
	remaining := hundred.Sub(*offer.FeesDiscount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return fee.Mul(remaining).Div(hundred).Round(2)
}

func (c *Calculator) DepositFee(amount decimal.Decimal, method models.PaymentMethod, offer *models.Offer) decimal.Decimal {
	rate, ok := depositRates[method]
	if !ok {
		rate = depositDefaultRate
	}
	return applyDiscount(percentOf(amount, rate), offer)
}

func (c *Calculator) WithdrawalFee(amount decimal.Decimal, method models.PaymentMethod, offer *models.Offer) decimal.Decimal {
	rate, ok := withdrawalRates[method]
	if !ok {
		rate = withdrawalDefaultRate
	}
	return applyDiscount(percentOf(amount, rate), offer)
}

func (c *Calculator) TransferFee(amount decimal.Decimal, offer *models.Offer) decimal.Decimal {
	return applyDiscount(percentOf(amount, transferRate), offer)
}

func (c *Calculator) BillPaymentFee(amount decimal.Decimal, billType models.BillType, offer *models.Offer) decimal.Decimal {
	rate, ok := billRates[billType]
	if !ok {
		rate = billDefaultRate
	}
	return applyDiscount(percentOf(amount, rate), offer)
}

// DepositBonus returns the recharge bonus the offer grants on a deposit, or
// zero when the offer carries none.
func (c *Calculator) DepositBonus(amount decimal.Decimal, offer *models.Offer) decimal.Decimal {
	if offer == nil || offer.RechargeBonus == nil {
		return decimal.Zero
	}
	return percentOf(amount, *offer.RechargeBonus)
}
