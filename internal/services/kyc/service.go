// Package kyc manages the verification ladder: identity verification,
// tier upgrades and the limits that come with them.
package kyc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"atlaspay/internal/apperr"
	"atlaspay/internal/models"
	"atlaspay/internal/repositories"
	"atlaspay/internal/services/policy"
	"atlaspay/internal/validation"
)

type VerifyIdentityRequest struct {
	ActorID     uint
	WalletID    uuid.UUID
	CinNumber   string
	DateOfBirth time.Time
}

// Status is the wallet's verification state as the back office sees it.
type Status struct {
	Level              models.KycLevel
	IdentityVerified   bool
	VerificationDate   *time.Time
	VerificationExpiry *time.Time
	DailyLimit         string
	MonthlyLimit       string
}

// Notifier tells the wallet owner about verification events.
type Notifier interface {
	KycStatusChanged(ctx context.Context, wallet *models.Wallet, message string)
}

type Service struct {
	store    *repositories.Store
	policy   *policy.Engine
	notifier Notifier
	log      *logrus.Entry
}

func NewService(store *repositories.Store, policyEngine *policy.Engine, notifier Notifier, log *logrus.Logger) *Service {
	return &Service{
		store:    store,
		policy:   policyEngine,
		notifier: notifier,
		log:      log.WithField("component", "kyc"),
	}
}

func (s *Service) requireAdmin(ctx context.Context, actorID uint) error {
	admin, err := s.store.Users.IsAdmin(ctx, actorID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return apperr.Unauthorized("admin access required")
		}
		return err
	}
	if !admin {
		return apperr.Unauthorized("admin access required")
	}
	return nil
}

// InitiateBasicVerification moves an unverified wallet to the basic tier on a
// well-formed identity card number. The contract is lenient: a malformed
// number or a wallet already past the unverified tier reports false rather
// than an error so callers can fall back to the manual flow.
func (s *Service) InitiateBasicVerification(ctx context.Context, actorID uint, walletID uuid.UUID, cinNumber string) (bool, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return false, err
	}
	if !validation.ValidCin(cinNumber) {
		return false, nil
	}

	wallet, err := s.store.Wallets.GetByID(ctx, walletID)
	if err != nil {
		return false, err
	}
	if wallet.KycLevel != models.KycLevelNone {
		return false, nil
	}

	limits := policy.LimitsFor(models.KycLevelBasic)
	wallet.CinNumber = cinNumber
	wallet.KycLevel = models.KycLevelBasic
	wallet.DailyLimit = limits.Daily
	wallet.MonthlyLimit = limits.Monthly
	if err := s.store.Wallets.Update(ctx, wallet); err != nil {
		return false, err
	}

	s.log.WithField("wallet_id", wallet.ID).Info("basic verification completed")
	s.notifier.KycStatusChanged(ctx, wallet, "basic verification completed")
	return true, nil
}

// VerifyIdentity records a completed identity check. The verification is
// valid for one year from now.
func (s *Service) VerifyIdentity(ctx context.Context, req VerifyIdentityRequest) (*models.Wallet, error) {
	v := validation.New()
	v.Cin("cin_number", req.CinNumber)
	v.Adult("date_of_birth", req.DateOfBirth, s.policy.Now())
	if !v.Valid() {
		for field, msg := range v.Errors {
			return nil, apperr.Validation("%s %s", field, msg)
		}
	}
	if err := s.requireAdmin(ctx, req.ActorID); err != nil {
		return nil, err
	}

	wallet, err := s.store.Wallets.GetByID(ctx, req.WalletID)
	if err != nil {
		return nil, err
	}

	now := s.policy.Now()
	wallet.CinNumber = req.CinNumber
	wallet.IsIdentityVerified = true
	wallet.VerificationDate = &now

	// A completed identity check carries the standard tier and its limits,
	// unless the wallet already sits higher.
	if wallet.KycLevel < models.KycLevelStandard {
		limits := policy.LimitsFor(models.KycLevelStandard)
		wallet.KycLevel = models.KycLevelStandard
		wallet.DailyLimit = limits.Daily
		wallet.MonthlyLimit = limits.Monthly
	}
	if err := s.store.Wallets.Update(ctx, wallet); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"wallet_id": wallet.ID,
		"cin":       req.CinNumber,
	}).Info("identity verified")
	s.notifier.KycStatusChanged(ctx, wallet, "identity verification completed")
	return wallet, nil
}

// UpgradeLevel raises the wallet's tier and applies the new limits in the
// same write. Downgrades are rejected by policy.
func (s *Service) UpgradeLevel(ctx context.Context, actorID uint, walletID uuid.UUID, target models.KycLevel) (*models.Wallet, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	wallet, err := s.store.Wallets.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.ValidateUpgrade(wallet, target); err != nil {
		return nil, err
	}

	limits := policy.LimitsFor(target)
	wallet.KycLevel = target
	wallet.DailyLimit = limits.Daily
	wallet.MonthlyLimit = limits.Monthly
	if err := s.store.Wallets.Update(ctx, wallet); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"wallet_id": wallet.ID,
		"level":     target.String(),
	}).Info("kyc level upgraded")
	s.notifier.KycStatusChanged(ctx, wallet, "account upgraded to the "+target.String()+" tier")
	return wallet, nil
}

// GetStatus reports the wallet's current tier, limits and identity state.
func (s *Service) GetStatus(ctx context.Context, actorID uint, walletID uuid.UUID) (*Status, error) {
	wallet, err := s.store.Wallets.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if wallet.OwnerID != actorID {
		if err := s.requireAdmin(ctx, actorID); err != nil {
			return nil, err
		}
	}

	status := &Status{
		Level:            wallet.KycLevel,
		IdentityVerified: s.policy.IdentityVerified(wallet),
		VerificationDate: wallet.VerificationDate,
		DailyLimit:       wallet.DailyLimit.String(),
		MonthlyLimit:     wallet.MonthlyLimit.String(),
	}
	if wallet.VerificationDate != nil {
		expiry := wallet.VerificationDate.Add(policy.IdentityVerificationPeriod)
		status.VerificationExpiry = &expiry
	}
	return status, nil
}

// ReapplyLimits resets the wallet's limits to its tier's table values,
// undoing any manual override.
func (s *Service) ReapplyLimits(ctx context.Context, actorID uint, walletID uuid.UUID) (*models.Wallet, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	wallet, err := s.store.Wallets.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	limits := policy.LimitsFor(wallet.KycLevel)
	wallet.DailyLimit = limits.Daily
	wallet.MonthlyLimit = limits.Monthly
	if err := s.store.Wallets.Update(ctx, wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}
