package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"atlaspay/internal/models"
	"atlaspay/internal/services/kyc"
	"atlaspay/internal/utils"
)

type KycHandler struct {
	kycService *kyc.Service
}

func NewKycHandler(kycService *kyc.Service) *KycHandler {
	return &KycHandler{kycService: kycService}
}

func (h *KycHandler) InitiateBasicVerification(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "invalid wallet id")
	}

	var input struct {
		CinNumber string `json:"cin_number"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	verified, err := h.kycService.InitiateBasicVerification(c.UserContext(), claims.UserID, id, input.CinNumber)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{"verified": verified})
}

func (h *KycHandler) VerifyIdentity(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "invalid wallet id")
	}

	var input struct {
		CinNumber   string    `json:"cin_number"`
		DateOfBirth time.Time `json:"date_of_birth"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	wallet, err := h.kycService.VerifyIdentity(c.UserContext(), kyc.VerifyIdentityRequest{
		ActorID:     claims.UserID,
		WalletID:    id,
		CinNumber:   input.CinNumber,
		DateOfBirth: input.DateOfBirth,
	})
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, wallet)
}

func (h *KycHandler) UpgradeLevel(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "invalid wallet id")
	}

	var input struct {
		Level models.KycLevel `json:"level"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	wallet, err := h.kycService.UpgradeLevel(c.UserContext(), claims.UserID, id, input.Level)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, wallet)
}

func (h *KycHandler) GetStatus(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "invalid wallet id")
	}

	status, err := h.kycService.GetStatus(c.UserContext(), claims.UserID, id)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, status)
}

func (h *KycHandler) ReapplyLimits(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "invalid wallet id")
	}

	wallet, err := h.kycService.ReapplyLimits(c.UserContext(), claims.UserID, id)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, wallet)
}
