// Package offer manages promotional offers: cashback, reduced fees and
// recharge bonuses that wallets can be enrolled into.
package offer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"atlaspay/internal/apperr"
	"atlaspay/internal/models"
	"atlaspay/internal/repositories"
	"atlaspay/internal/validation"
)

type CreateRequest struct {
	ActorID            uint
	Name               string
	Description        string
	Type               models.OfferType
	SpendingLimit      decimal.Decimal
	ValidFrom          time.Time
	ValidTo            time.Time
	CashbackPercentage *decimal.Decimal
	FeesDiscount       *decimal.Decimal
	RechargeBonus      *decimal.Decimal
}

type UpdateRequest struct {
	ActorID       uint
	OfferID       uuid.UUID
	Name          *string
	Description   *string
	SpendingLimit *decimal.Decimal
	ValidTo       *time.Time
}

type Service struct {
	store *repositories.Store
	log   *logrus.Entry
	now   func() time.Time
}

func NewService(store *repositories.Store, log *logrus.Logger) *Service {
	return &Service{
		store: store,
		log:   log.WithField("component", "offer"),
		now:   time.Now,
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

func validPercentage(p *decimal.Decimal) bool {
	return p == nil || (p.IsPositive() && p.LessThanOrEqual(decimal.NewFromInt(100)))
}

func validateRates(v *validation.Validator, req CreateRequest) {
	v.Check(validPercentage(req.CashbackPercentage), "cashback_percentage", "must be greater than 0 and at most 100")
	v.Check(validPercentage(req.FeesDiscount), "fees_discount", "must be greater than 0 and at most 100")
	v.Check(validPercentage(req.RechargeBonus), "recharge_bonus", "must be greater than 0 and at most 100")

	switch req.Type {
	case models.OfferTypeCashback:
		v.Check(req.CashbackPercentage != nil, "cashback_percentage", "required for cashback offers")
	case models.OfferTypeReducedFees:
		v.Check(req.FeesDiscount != nil, "fees_discount", "required for reduced-fee offers")
	case models.OfferTypeRechargeBonus:
		v.Check(req.RechargeBonus != nil, "recharge_bonus", "required for recharge-bonus offers")
	default:
		v.AddError("type", "unknown offer type")
	}
}

// Create registers a new offer, active immediately within its window.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Offer, error) {
	v := validation.New()
	v.Required("name", req.Name)
	v.Check(req.ValidTo.After(req.ValidFrom), "valid_to", "must be after valid_from")
	v.Check(!req.SpendingLimit.IsNegative(), "spending_limit", "must not be negative")
	validateRates(v, req)
	if !v.Valid() {
		for field, msg := range v.Errors {
			return nil, apperr.Validation("%s %s", field, msg)
		}
	}
	if err := s.requireAdmin(ctx, req.ActorID); err != nil {
		return nil, err
	}

	offer := &models.Offer{
		Name:               req.Name,
		Description:        req.Description,
		Type:               req.Type,
		SpendingLimit:      req.SpendingLimit,
		ValidFrom:          req.ValidFrom,
		ValidTo:            req.ValidTo,
		IsActive:           true,
		CashbackPercentage: req.CashbackPercentage,
		FeesDiscount:       req.FeesDiscount,
		RechargeBonus:      req.RechargeBonus,
	}
	if err := s.store.Offers.Create(ctx, offer); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"offer_id": offer.ID,
		"name":     offer.Name,
		"type":     string(offer.Type),
	}).Info("offer created")
	return offer, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	return s.store.Offers.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]models.Offer, error) {
	return s.store.Offers.List(ctx, activeOnly)
}

// Update edits the mutable offer fields. Rates are fixed after creation;
// retire the offer and create a new one instead.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*models.Offer, error) {
	if err := s.requireAdmin(ctx, req.ActorID); err != nil {
		return nil, err
	}
	offer, err := s.store.Offers.GetByID(ctx, req.OfferID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		v := validation.New()
		v.Required("name", *req.Name)
		if !v.Valid() {
			return nil, apperr.Validation("name must not be empty")
		}
		offer.Name = *req.Name
	}
	if req.Description != nil {
		offer.Description = *req.Description
	}
	if req.SpendingLimit != nil {
		if req.SpendingLimit.IsNegative() {
			return nil, apperr.Validation("spending_limit must not be negative")
		}
		offer.SpendingLimit = *req.SpendingLimit
	}
	if req.ValidTo != nil {
		if !req.ValidTo.After(offer.ValidFrom) {
			return nil, apperr.Validation("valid_to must be after valid_from")
		}
		offer.ValidTo = *req.ValidTo
	}

	if err := s.store.Offers.Update(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

func (s *Service) setActive(ctx context.Context, actorID uint, id uuid.UUID, active bool) (*models.Offer, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	offer, err := s.store.Offers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	offer.IsActive = active
	if err := s.store.Offers.Update(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

func (s *Service) Activate(ctx context.Context, actorID uint, id uuid.UUID) (*models.Offer, error) {
	return s.setActive(ctx, actorID, id, true)
}

func (s *Service) Deactivate(ctx context.Context, actorID uint, id uuid.UUID) (*models.Offer, error) {
	return s.setActive(ctx, actorID, id, false)
}

// Delete removes an offer no wallet is enrolled in. Enrolled offers must be
// deactivated instead.
func (s *Service) Delete(ctx context.Context, actorID uint, id uuid.UUID) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	enrolled, err := s.store.Wallets.CountByOfferID(ctx, id)
	if err != nil {
		return err
	}
	if enrolled > 0 {
		return apperr.BusinessRule("offer is assigned to %d wallets and cannot be deleted", enrolled)
	}
	return s.store.Offers.Delete(ctx, id)
}
