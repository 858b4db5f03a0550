package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"atlaspay/internal/models"
	"atlaspay/internal/services/offer"
	"atlaspay/internal/utils"
)

type OfferHandler struct {
	offerService *offer.Service
}

func NewOfferHandler(offerService *offer.Service) *OfferHandler {
	return &OfferHandler{offerService: offerService}
}

func (h *OfferHandler) Create(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Name               string           `json:"name"`
		Description        string           `json:"description"`
		Type               models.OfferType `json:"type"`
		SpendingLimit      decimal.Decimal  `json:"spending_limit"`
		ValidFrom          time.Time        `json:"valid_from"`
		ValidTo            time.Time        `json:"valid_to"`
		CashbackPercentage *decimal.Decimal `json:"cashback_percentage"`
		FeesDiscount       *decimal.Decimal `json:"fees_discount"`
		RechargeBonus      *decimal.Decimal `json:"recharge_bonus"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	created, err := h.offerService.Create(c.UserContext(), offer.CreateRequest{
		ActorID:            claims.UserID,
		Name:               input.Name,
		Description:        input.Description,
		Type:               input.Type,
		SpendingLimit:      input.SpendingLimit,
		ValidFrom:          input.ValidFrom,
		ValidTo:            input.ValidTo,
		CashbackPercentage: input.CashbackPercentage,
		FeesDiscount:       input.FeesDiscount,
		RechargeBonus:      input.RechargeBonus,
	})
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Created(c, created)
}

func (h *OfferHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "invalid offer id")
	}
	o, err := h.offerService.Get(c.UserContext(), id)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, o)
}

func (h *OfferHandler) List(c *fiber.Ctx) error {
	activeOnly := c.QueryBool("active", false)
	offers, err := h.offerService.List(c.UserContext(), activeOnly)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{"offers": offers})
}

func (h *OfferHandler) Update(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "invalid offer id")
	}

	var input struct {
		Name          *string          `json:"name"`
		Description   *string          `json:"description"`
		SpendingLimit *decimal.Decimal `json:"spending_limit"`
		ValidTo       *time.Time       `json:"valid_to"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	updated, err := h.offerService.Update(c.UserContext(), offer.UpdateRequest{
		ActorID:       claims.UserID,
		OfferID:       id,
		Name:          input.Name,
		Description:   input.Description,
		SpendingLimit: input.SpendingLimit,
		ValidTo:       input.ValidTo,
	})
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, updated)
}

func (h *OfferHandler) Activate(c *fiber.Ctx) error {
	return h.setActive(c, true)
}

func (h *OfferHandler) Deactivate(c *fiber.Ctx) error {
	return h.setActive(c, false)
}

func (h *OfferHandler) setActive(c *fiber.Ctx, active bool) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "invalid offer id")
	}

	var o *models.Offer
	if active {
		o, err = h.offerService.Activate(c.UserContext(), claims.UserID, id)
	} else {
		o, err = h.offerService.Deactivate(c.UserContext(), claims.UserID, id)
	}
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, o)
}

func (h *OfferHandler) Delete(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "invalid offer id")
	}

	if err := h.offerService.Delete(c.UserContext(), claims.UserID, id); err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "offer deleted"})
}
