// Package policy holds the account rules: per-tier spending limits, tier
// upgrade preconditions and the daily/monthly usage rollover.
package policy

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"atlaspay/internal/apperr"
	"atlaspay/internal/models"
	"atlaspay/internal/repositories"
)

// Limits is the spending ceiling pair for a verification tier.
type Limits struct {
	Daily   decimal.Decimal
	Monthly decimal.Decimal
}

var kycLimits = map[models.KycLevel]Limits{
	models.KycLevelNone:     {Daily: decimal.NewFromInt(1_000), Monthly: decimal.NewFromInt(5_000)},
	models.KycLevelBasic:    {Daily: decimal.NewFromInt(5_000), Monthly: decimal.NewFromInt(20_000)},
	models.KycLevelStandard: {Daily: decimal.NewFromInt(10_000), Monthly: decimal.NewFromInt(50_000)},
	models.KycLevelAdvanced: {Daily: decimal.NewFromInt(20_000), Monthly: decimal.NewFromInt(100_000)},
}

// LimitsFor returns the spending limits of a tier. Unknown tiers get the
// unverified limits.
func LimitsFor(level models.KycLevel) Limits {
	if l, ok := kycLimits[level]; ok {
		return l
	}
	return kycLimits[models.KycLevelNone]
}

// IdentityVerificationPeriod is how long a completed identity check stays
// valid before it must be renewed.
const IdentityVerificationPeriod = 365 * 24 * time.Hour

// Engine evaluates account policy. Now is overridable so rollover and
// expiry rules can be tested at fixed instants.
type Engine struct {
	Now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{Now: time.Now}
}

// IdentityVerified reports whether the wallet holds a non-expired identity
// verification.
func (e *Engine) IdentityVerified(wallet *models.Wallet) bool {
	if !wallet.IsIdentityVerified || wallet.VerificationDate == nil {
		return false
	}
	return e.Now().Before(wallet.VerificationDate.Add(IdentityVerificationPeriod))
}

// ValidateUpgrade checks that a tier change is a strict upgrade and that the
// advanced tier's identity precondition holds. Downgrades are rejected.
func (e *Engine) ValidateUpgrade(wallet *models.Wallet, target models.KycLevel) error {
	if target <= wallet.KycLevel {
		return apperr.BusinessRule("kyc level can only be upgraded, wallet is already %s", wallet.KycLevel)
	}
	if target > models.KycLevelAdvanced {
		return apperr.Validation("unknown kyc level %d", target)
	}
	if target == models.KycLevelAdvanced && !e.IdentityVerified(wallet) {
		return apperr.BusinessRule("advanced kyc requires a valid identity verification")
	}
	return nil
}

// CanTransact runs the pre-flight checks on a debit attempt, where amount is
// the total debit including fees: wallet status first, then the balance, then
// daily and monthly ceilings, then the offer's per-transaction spending cap.
// Deposits never pass through here; they are exempt from limits.
func (e *Engine) CanTransact(wallet *models.Wallet, offer *models.Offer, amount decimal.Decimal) error {
	if wallet.Status != models.WalletStatusActive {
		return apperr.BusinessRule("wallet is %s", wallet.Status)
	}
	if wallet.Balance.LessThan(amount) {
		return apperr.InsufficientBalance("balance %s cannot cover a debit of %s", wallet.Balance, amount)
	}
	if wallet.CurrentDailyUsage.Add(amount).GreaterThan(wallet.DailyLimit) {
		return apperr.BusinessRule("daily limit of %s exceeded", wallet.DailyLimit)
	}
	if wallet.CurrentMonthlyUsage.Add(amount).GreaterThan(wallet.MonthlyLimit) {
		return apperr.BusinessRule("monthly limit of %s exceeded", wallet.MonthlyLimit)
	}
	if offer != nil && offer.CurrentlyValid(e.Now()) &&
		offer.SpendingLimit.IsPositive() && amount.GreaterThan(offer.SpendingLimit) {
		return apperr.OfferLimitExceeded("amount exceeds the offer spending limit of %s", offer.SpendingLimit)
	}
	return nil
}

// ResetUsageIfRolledOver zeroes the wallet's usage counters when the last
// successful transaction predates the current day or month. Each reset is
// persisted on its own so a later failure cannot undo the first.
func (e *Engine) ResetUsageIfRolledOver(ctx context.Context, wallets repositories.WalletRepository, wallet *models.Wallet) error {
	last, err := wallets.LastTransactionDate(ctx, wallet.ID)
	if err != nil {
		return err
	}
	if last == nil {
		return nil
	}

	now := e.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if last.Before(startOfDay) && !wallet.CurrentDailyUsage.IsZero() {
		wallet.CurrentDailyUsage = decimal.Zero
		if err := wallets.Update(ctx, wallet); err != nil {
			return err
		}
	}

	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if last.Before(startOfMonth) && !wallet.CurrentMonthlyUsage.IsZero() {
		wallet.CurrentMonthlyUsage = decimal.Zero
		if err := wallets.Update(ctx, wallet); err != nil {
			return err
		}
	}
	return nil
}
