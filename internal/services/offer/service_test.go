package offer

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlaspay/internal/apperr"
	"atlaspay/internal/models"
	"atlaspay/internal/repositories"
)

const (
	adminID   = uint(9)
	regularID = uint(1)
)

type fakeOfferRepo struct {
	repositories.OfferRepository
	offers map[uuid.UUID]*models.Offer
}

func newFakeOfferRepo() *fakeOfferRepo {
	return &fakeOfferRepo{offers: make(map[uuid.UUID]*models.Offer)}
}

func (f *fakeOfferRepo) Create(ctx context.Context, offer *models.Offer) error {
	if offer.ID == uuid.Nil {
		offer.ID = uuid.New()
	}
	cp := *offer
	f.offers[offer.ID] = &cp
	return nil
}

func (f *fakeOfferRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	o, ok := f.offers[id]
	if !ok {
		return nil, apperr.NotFound("offer %s not found", id)
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOfferRepo) Update(ctx context.Context, offer *models.Offer) error {
	cp := *offer
	f.offers[offer.ID] = &cp
	return nil
}

func (f *fakeOfferRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.offers[id]; !ok {
		return apperr.NotFound("offer %s not found", id)
	}
	delete(f.offers, id)
	return nil
}

type fakeWalletRepo struct {
	repositories.WalletRepository
	enrolled map[uuid.UUID]int64
}

func (f *fakeWalletRepo) CountByOfferID(ctx context.Context, offerID uuid.UUID) (int64, error) {
	return f.enrolled[offerID], nil
}

type fakeUserRepo struct {
	repositories.UserRepository
	admins map[uint]bool
}

func (f *fakeUserRepo) IsAdmin(ctx context.Context, id uint) (bool, error) {
	admin, ok := f.admins[id]
	if !ok {
		return false, apperr.NotFound("user %d not found", id)
	}
	return admin, nil
}

type harness struct {
	svc     *Service
	offers  *fakeOfferRepo
	wallets *fakeWalletRepo
}

func newHarness() *harness {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	offers := newFakeOfferRepo()
	wallets := &fakeWalletRepo{enrolled: make(map[uuid.UUID]int64)}
	users := &fakeUserRepo{admins: map[uint]bool{regularID: false, adminID: true}}
	store := &repositories.Store{Wallets: wallets, Offers: offers, Users: users}

	return &harness{svc: NewService(store, log), offers: offers, wallets: wallets}
}

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

func cashbackRequest() CreateRequest {
	return CreateRequest{
		ActorID:            adminID,
		Name:               "Summer Cashback",
		Description:        "2% back on card deposits",
		Type:               models.OfferTypeCashback,
		SpendingLimit:      decimal.NewFromInt(2_000),
		ValidFrom:          time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:            time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		CashbackPercentage: ptr(decimal.NewFromInt(2)),
	}
}

func TestCreateOffer(t *testing.T) {
	ctx := context.Background()

	t.Run("registers an active offer", func(t *testing.T) {
		h := newHarness()
		offer, err := h.svc.Create(ctx, cashbackRequest())
		require.NoError(t, err)
		assert.True(t, offer.IsActive)
		assert.Equal(t, models.OfferTypeCashback, offer.Type)
		assert.NotEqual(t, uuid.Nil, offer.ID)
	})

	t.Run("requires the rate matching the type", func(t *testing.T) {
		h := newHarness()
		req := cashbackRequest()
		req.CashbackPercentage = nil

		_, err := h.svc.Create(ctx, req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("rejects a rate above 100", func(t *testing.T) {
		h := newHarness()
		req := cashbackRequest()
		req.CashbackPercentage = ptr(decimal.NewFromInt(150))

		_, err := h.svc.Create(ctx, req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("rejects a zero rate", func(t *testing.T) {
		h := newHarness()
		req := cashbackRequest()
		req.CashbackPercentage = ptr(decimal.Zero)

		_, err := h.svc.Create(ctx, req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("rejects a negative rate", func(t *testing.T) {
		h := newHarness()
		req := cashbackRequest()
		req.RechargeBonus = ptr(decimal.NewFromInt(-5))

		_, err := h.svc.Create(ctx, req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("rejects an inverted validity window", func(t *testing.T) {
		h := newHarness()
		req := cashbackRequest()
		req.ValidTo = req.ValidFrom.AddDate(0, 0, -1)

		_, err := h.svc.Create(ctx, req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("rejects an unknown type", func(t *testing.T) {
		h := newHarness()
		req := cashbackRequest()
		req.Type = models.OfferType("loyalty")

		_, err := h.svc.Create(ctx, req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("requires an admin actor", func(t *testing.T) {
		h := newHarness()
		req := cashbackRequest()
		req.ActorID = regularID

		_, err := h.svc.Create(ctx, req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	})
}

func TestUpdateOffer(t *testing.T) {
	ctx := context.Background()

	t.Run("edits the mutable fields", func(t *testing.T) {
		h := newHarness()
		offer, err := h.svc.Create(ctx, cashbackRequest())
		require.NoError(t, err)

		name := "Autumn Cashback"
		limit := decimal.NewFromInt(3_000)
		updated, err := h.svc.Update(ctx, UpdateRequest{
			ActorID:       adminID,
			OfferID:       offer.ID,
			Name:          &name,
			SpendingLimit: &limit,
		})
		require.NoError(t, err)
		assert.Equal(t, "Autumn Cashback", updated.Name)
		assert.True(t, updated.SpendingLimit.Equal(limit))
	})

	t.Run("rejects a valid_to before valid_from", func(t *testing.T) {
		h := newHarness()
		offer, err := h.svc.Create(ctx, cashbackRequest())
		require.NoError(t, err)

		bad := offer.ValidFrom.AddDate(0, 0, -1)
		_, err = h.svc.Update(ctx, UpdateRequest{ActorID: adminID, OfferID: offer.ID, ValidTo: &bad})
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("rejects a negative spending limit", func(t *testing.T) {
		h := newHarness()
		offer, err := h.svc.Create(ctx, cashbackRequest())
		require.NoError(t, err)

		neg := decimal.NewFromInt(-1)
		_, err = h.svc.Update(ctx, UpdateRequest{ActorID: adminID, OfferID: offer.ID, SpendingLimit: &neg})
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestActivationCycle(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	offer, err := h.svc.Create(ctx, cashbackRequest())
	require.NoError(t, err)

	deactivated, err := h.svc.Deactivate(ctx, adminID, offer.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	reactivated, err := h.svc.Activate(ctx, adminID, offer.ID)
	require.NoError(t, err)
	assert.True(t, reactivated.IsActive)
}

func TestDeleteOffer(t *testing.T) {
	ctx := context.Background()

	t.Run("refuses while wallets are enrolled", func(t *testing.T) {
		h := newHarness()
		offer, err := h.svc.Create(ctx, cashbackRequest())
		require.NoError(t, err)
		h.wallets.enrolled[offer.ID] = 3

		err = h.svc.Delete(ctx, adminID, offer.ID)
		require.Error(t, err)
		assert.True(t, apperr.IsBusinessRule(err))
	})

	t.Run("removes an unused offer", func(t *testing.T) {
		h := newHarness()
		offer, err := h.svc.Create(ctx, cashbackRequest())
		require.NoError(t, err)

		require.NoError(t, h.svc.Delete(ctx, adminID, offer.ID))
		_, err = h.svc.Get(ctx, offer.ID)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}
