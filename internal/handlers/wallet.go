package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"atlaspay/internal/models"
	"atlaspay/internal/repositories"
	"atlaspay/internal/services/wallet"
	"atlaspay/internal/utils"
)

type WalletHandler struct {
	walletService *wallet.Service
}

func NewWalletHandler(walletService *wallet.Service) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

func parseWalletID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (h *WalletHandler) Create(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		OwnerID     uint   `json:"owner_id"`
		OwnerName   string `json:"owner_name"`
		PhoneNumber string `json:"phone_number"`
		CinNumber   string `json:"cin_number"`
		Currency    string `json:"currency"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	created, err := h.walletService.Create(c.UserContext(), wallet.CreateRequest{
		ActorID:     claims.UserID,
		OwnerID:     input.OwnerID,
		OwnerName:   input.OwnerName,
		PhoneNumber: input.PhoneNumber,
		CinNumber:   input.CinNumber,
		Currency:    input.Currency,
	})
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Created(c, created)
}

func (h *WalletHandler) Get(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := parseWalletID(c)
	if err != nil {
		return utils.BadRequest(c, "invalid wallet id")
	}

	w, err := h.walletService.Get(c.UserContext(), claims.UserID, id)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, w)
}

func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := parseWalletID(c)
	if err != nil {
		return utils.BadRequest(c, "invalid wallet id")
	}

	balance, err := h.walletService.GetBalance(c.UserContext(), claims.UserID, id)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{"balance": balance})
}

func (h *WalletHandler) Update(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := parseWalletID(c)
	if err != nil {
		return utils.BadRequest(c, "invalid wallet id")
	}

	var input struct {
		OwnerName *string              `json:"owner_name"`
		Status    *models.WalletStatus `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	updated, err := h.walletService.Update(c.UserContext(), wallet.UpdateRequest{
		ActorID:   claims.UserID,
		WalletID:  id,
		OwnerName: input.OwnerName,
		Status:    input.Status,
	})
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, updated)
}

func (h *WalletHandler) Delete(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := parseWalletID(c)
	if err != nil {
		return utils.BadRequest(c, "invalid wallet id")
	}

	if err := h.walletService.Delete(c.UserContext(), claims.UserID, id); err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "wallet deleted"})
}

func (h *WalletHandler) List(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	pagination := utils.GetPagination(c, 1, 20)
	filter := repositories.WalletFilter{
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	}
	if status := c.Query("status"); status != "" {
		filter.Status = models.WalletStatus(status)
	}

	result, err := h.walletService.List(c.UserContext(), wallet.ListRequest{
		ActorID: claims.UserID,
		Filter:  filter,
	})
	if err != nil {
		return utils.Error(c, err)
	}

	pagination.SetTotal(result.Total)
	return utils.Success(c, utils.NewPaginatedResponse(result.Wallets, pagination))
}

func (h *WalletHandler) AssignOffer(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := parseWalletID(c)
	if err != nil {
		return utils.BadRequest(c, "invalid wallet id")
	}

	var input struct {
		OfferID uuid.UUID `json:"offer_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	updated, err := h.walletService.AssignOffer(c.UserContext(), claims.UserID, id, input.OfferID)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, updated)
}

func (h *WalletHandler) RemoveOffer(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := parseWalletID(c)
	if err != nil {
		return utils.BadRequest(c, "invalid wallet id")
	}

	updated, err := h.walletService.RemoveOffer(c.UserContext(), claims.UserID, id)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, updated)
}
