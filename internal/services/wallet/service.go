// Package wallet manages the wallet lifecycle: creation, profile updates,
// status changes, offer assignment and balance reads. Monetary movement
// lives in the transaction service.
package wallet

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"atlaspay/internal/apperr"
	"atlaspay/internal/models"
	"atlaspay/internal/repositories"
	"atlaspay/internal/services/policy"
	"atlaspay/internal/validation"
)

// Cache is the read-through wallet cache.
type Cache interface {
	GetWallet(ctx context.Context, id uuid.UUID) (*models.Wallet, error)
	SetWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, id uuid.UUID) error
}

// BasicVerifier runs the lenient CIN-based verification on a fresh wallet.
type BasicVerifier interface {
	InitiateBasicVerification(ctx context.Context, actorID uint, walletID uuid.UUID, cinNumber string) (bool, error)
}

type CreateRequest struct {
	ActorID     uint
	OwnerID     uint
	OwnerName   string
	PhoneNumber string
	CinNumber   string
	Currency    string
}

type UpdateRequest struct {
	ActorID   uint
	WalletID  uuid.UUID
	OwnerName *string
	Status    *models.WalletStatus
}

type ListRequest struct {
	ActorID uint
	Filter  repositories.WalletFilter
}

type ListResult struct {
	Wallets []models.Wallet
	Total   int64
}

type Service struct {
	store  *repositories.Store
	cache  Cache
	policy *policy.Engine
	kyc    BasicVerifier
	log    *logrus.Entry
	now    func() time.Time
}

func NewService(store *repositories.Store, cache Cache, policyEngine *policy.Engine, kyc BasicVerifier, log *logrus.Logger) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		policy: policyEngine,
		kyc:    kyc,
		log:    log.WithField("component", "wallet"),
		now:    time.Now,
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

func (s *Service) authorize(ctx context.Context, actorID uint, wallet *models.Wallet) error {
	if wallet.OwnerID == actorID {
		return nil
	}
	return s.requireAdmin(ctx, actorID)
}

// Create opens a wallet at the unverified tier with its limits applied.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Wallet, error) {
	v := validation.New()
	v.Required("owner_name", req.OwnerName)
	v.Phone("phone_number", req.PhoneNumber)
	if !v.Valid() {
		return nil, apperr.Validation("%s", firstError(v))
	}
	if err := s.requireAdmin(ctx, req.ActorID); err != nil {
		return nil, err
	}

	owner, err := s.store.Users.GetByID(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}

	if existing, err := s.store.Wallets.GetByPhoneNumber(ctx, req.PhoneNumber); err == nil && existing != nil {
		return nil, apperr.BusinessRule("a wallet already exists for phone number %s", req.PhoneNumber)
	} else if err != nil && !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "MAD"
	}

	limits := policy.LimitsFor(models.KycLevelNone)
	wallet := &models.Wallet{
		OwnerID:             owner.ID,
		OwnerName:           req.OwnerName,
		PhoneNumber:         req.PhoneNumber,
		Currency:            currency,
		Status:              models.WalletStatusActive,
		KycLevel:            models.KycLevelNone,
		Balance:             decimal.Zero,
		DailyLimit:          limits.Daily,
		MonthlyLimit:        limits.Monthly,
		CurrentDailyUsage:   decimal.Zero,
		CurrentMonthlyUsage: decimal.Zero,
	}
	if err := s.store.Wallets.Create(ctx, wallet); err != nil {
		return nil, err
	}

	// A CIN supplied at creation triggers the lenient basic verification; a
	// malformed number leaves the wallet at the unverified tier.
	if req.CinNumber != "" {
		if _, err := s.kyc.InitiateBasicVerification(ctx, req.ActorID, wallet.ID, req.CinNumber); err != nil {
			s.log.WithError(err).WithField("wallet_id", wallet.ID).Warn("basic verification failed")
		} else if refreshed, err := s.store.Wallets.GetByID(ctx, wallet.ID); err == nil {
			wallet = refreshed
		}
	}

	s.log.WithFields(logrus.Fields{
		"wallet_id": wallet.ID,
		"owner_id":  owner.ID,
	}).Info("wallet created")
	return wallet, nil
}

// Get loads a wallet through the cache.
func (s *Service) Get(ctx context.Context, actorID uint, id uuid.UUID) (*models.Wallet, error) {
	if cached, err := s.cache.GetWallet(ctx, id); err == nil && cached != nil {
		if err := s.authorize(ctx, actorID, cached); err != nil {
			return nil, err
		}
		return cached, nil
	} else if err != nil {
		s.log.WithError(err).Warn("wallet cache read failed")
	}

	wallet, err := s.store.Wallets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actorID, wallet); err != nil {
		return nil, err
	}
	if err := s.cache.SetWallet(ctx, wallet); err != nil {
		s.log.WithError(err).Warn("wallet cache write failed")
	}
	return wallet, nil
}

// GetBalance rolls usage counters over before reading, so stale counters
// never reach the caller.
func (s *Service) GetBalance(ctx context.Context, actorID uint, id uuid.UUID) (decimal.Decimal, error) {
	wallet, err := s.store.Wallets.GetByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	if err := s.authorize(ctx, actorID, wallet); err != nil {
		return decimal.Zero, err
	}
	if err := s.policy.ResetUsageIfRolledOver(ctx, s.store.Wallets, wallet); err != nil {
		return decimal.Zero, err
	}
	return wallet.Balance, nil
}

// Update changes the owner name or status. Status changes are admin-only.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*models.Wallet, error) {
	wallet, err := s.store.Wallets.GetByID(ctx, req.WalletID)
	if err != nil {
		return nil, err
	}
	if req.Status != nil {
		if err := s.requireAdmin(ctx, req.ActorID); err != nil {
			return nil, err
		}
		switch *req.Status {
		case models.WalletStatusActive, models.WalletStatusInactive, models.WalletStatusBlocked:
		default:
			return nil, apperr.Validation("unknown wallet status %q", *req.Status)
		}
		wallet.Status = *req.Status
	} else if err := s.authorize(ctx, req.ActorID, wallet); err != nil {
		return nil, err
	}
	if req.OwnerName != nil {
		v := validation.New()
		v.Required("owner_name", *req.OwnerName)
		if !v.Valid() {
			return nil, apperr.Validation("%s", firstError(v))
		}
		wallet.OwnerName = *req.OwnerName
	}

	if err := s.store.Wallets.Update(ctx, wallet); err != nil {
		return nil, err
	}
	if err := s.cache.InvalidateWallet(ctx, wallet.ID); err != nil {
		s.log.WithError(err).Warn("wallet cache invalidation failed")
	}
	return wallet, nil
}

// Delete removes a wallet that has never transacted. Wallets with ledger
// history are blocked instead so the ledger keeps its referent.
func (s *Service) Delete(ctx context.Context, actorID uint, id uuid.UUID) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	wallet, err := s.store.Wallets.GetByID(ctx, id)
	if err != nil {
		return err
	}

	hasHistory, err := s.store.Wallets.HasTransactions(ctx, wallet.ID)
	if err != nil {
		return err
	}
	if hasHistory {
		return apperr.BusinessRule("wallet has transaction history and cannot be deleted")
	}
	if !wallet.Balance.IsZero() {
		return apperr.BusinessRule("wallet balance must be zero before deletion")
	}

	if err := s.store.Wallets.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.cache.InvalidateWallet(ctx, id); err != nil {
		s.log.WithError(err).Warn("wallet cache invalidation failed")
	}
	return nil
}

// List pages wallets for the back office.
func (s *Service) List(ctx context.Context, req ListRequest) (*ListResult, error) {
	if err := s.requireAdmin(ctx, req.ActorID); err != nil {
		return nil, err
	}
	wallets, err := s.store.Wallets.List(ctx, req.Filter)
	if err != nil {
		return nil, err
	}
	total, err := s.store.Wallets.Count(ctx, req.Filter)
	if err != nil {
		return nil, err
	}
	return &ListResult{Wallets: wallets, Total: total}, nil
}

// AssignOffer attaches an active, unexpired offer to the wallet.
func (s *Service) AssignOffer(ctx context.Context, actorID uint, walletID, offerID uuid.UUID) (*models.Wallet, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	wallet, err := s.store.Wallets.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	offer, err := s.store.Offers.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if !offer.CurrentlyValid(s.now()) {
		return nil, apperr.BusinessRule("offer %q is inactive or expired", offer.Name)
	}

	wallet.OfferID = &offer.ID
	wallet.Offer = offer
	if err := s.store.Wallets.Update(ctx, wallet); err != nil {
		return nil, err
	}
	if err := s.cache.InvalidateWallet(ctx, wallet.ID); err != nil {
		s.log.WithError(err).Warn("wallet cache invalidation failed")
	}
	return wallet, nil
}

// RemoveOffer detaches the wallet's offer.
func (s *Service) RemoveOffer(ctx context.Context, actorID uint, walletID uuid.UUID) (*models.Wallet, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	wallet, err := s.store.Wallets.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	wallet.OfferID = nil
	wallet.Offer = nil
	if err := s.store.Wallets.Update(ctx, wallet); err != nil {
		return nil, err
	}
	if err := s.cache.InvalidateWallet(ctx, wallet.ID); err != nil {
		s.log.WithError(err).Warn("wallet cache invalidation failed")
	}
	return wallet, nil
}

func firstError(v *validation.Validator) string {
	for field, msg := range v.Errors {
		return field + " " + msg
	}
	return "invalid request"
}
