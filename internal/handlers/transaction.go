package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"atlaspay/internal/models"
	"atlaspay/internal/repositories"
	"atlaspay/internal/repositories/cache"
	"atlaspay/internal/services/payment"
	"atlaspay/internal/services/transaction"
	"atlaspay/internal/utils"
)

type TransactionHandler struct {
	txService *transaction.Service
	otpStore  *cache.OTPStore
}

func NewTransactionHandler(txService *transaction.Service, otpStore *cache.OTPStore) *TransactionHandler {
	return &TransactionHandler{txService: txService, otpStore: otpStore}
}

func (h *TransactionHandler) Deposit(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		WalletID    uuid.UUID       `json:"wallet_id"`
		Amount      decimal.Decimal `json:"amount"`
		Details     payment.Details `json:"details"`
		Description string          `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	res, err := h.txService.Deposit(c.UserContext(), transaction.DepositRequest{
		ActorID:     claims.UserID,
		WalletID:    input.WalletID,
		Amount:      input.Amount,
		Details:     input.Details,
		Description: input.Description,
	})
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Created(c, fiber.Map{
		"transaction": res.Transaction,
		"fee":         res.Fee,
		"bonus":       res.Bonus,
	})
}

func (h *TransactionHandler) Withdraw(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		WalletID    uuid.UUID       `json:"wallet_id"`
		Amount      decimal.Decimal `json:"amount"`
		Details     payment.Details `json:"details"`
		Description string          `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	res, err := h.txService.Withdraw(c.UserContext(), transaction.WithdrawRequest{
		ActorID:     claims.UserID,
		WalletID:    input.WalletID,
		Amount:      input.Amount,
		Details:     input.Details,
		Description: input.Description,
	})
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Created(c, fiber.Map{
		"transaction": res.Transaction,
		"fee":         res.Fee,
	})
}

func (h *TransactionHandler) Transfer(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		SourceWalletID      uuid.UUID       `json:"source_wallet_id"`
		DestinationWalletID uuid.UUID       `json:"destination_wallet_id"`
		Amount              decimal.Decimal `json:"amount"`
		OTPCode             string          `json:"otp_code"`
		Description         string          `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	res, err := h.txService.Transfer(c.UserContext(), transaction.TransferRequest{
		ActorID:             claims.UserID,
		SourceWalletID:      input.SourceWalletID,
		DestinationWalletID: input.DestinationWalletID,
		Amount:              input.Amount,
		OTPCode:             input.OTPCode,
		Description:         input.Description,
	})
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Created(c, fiber.Map{
		"transaction": res.Transaction,
		"fee":         res.Fee,
	})
}

func (h *TransactionHandler) PayBill(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		WalletID          uuid.UUID       `json:"wallet_id"`
		BillerName        string          `json:"biller_name"`
		BillType          models.BillType `json:"bill_type"`
		CustomerReference string          `json:"customer_reference"`
		Amount            decimal.Decimal `json:"amount"`
		Description       string          `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	res, err := h.txService.PayBill(c.UserContext(), transaction.PayBillRequest{
		ActorID:           claims.UserID,
		WalletID:          input.WalletID,
		BillerName:        input.BillerName,
		BillType:          input.BillType,
		CustomerReference: input.CustomerReference,
		Amount:            input.Amount,
		Description:       input.Description,
	})
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Created(c, fiber.Map{
		"transaction": res.Transaction,
		"fee":         res.Fee,
	})
}

// RequestOTP issues a confirmation code for a large transfer. The code is
// delivered out of band; the response never contains it.
func (h *TransactionHandler) RequestOTP(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	if _, err := h.otpStore.Issue(c.UserContext(), claims.UserID); err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "confirmation code sent"})
}

func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "invalid transaction id")
	}

	tx, err := h.txService.Get(c.UserContext(), claims.UserID, id)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, tx)
}

func (h *TransactionHandler) List(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	walletID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "invalid wallet id")
	}

	pagination := utils.GetPagination(c, 1, 20)
	filter := repositories.TransactionFilter{
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	}
	if txType := c.Query("type"); txType != "" {
		filter.Type = models.TransactionType(txType)
	}

	result, err := h.txService.List(c.UserContext(), transaction.ListRequest{
		ActorID:  claims.UserID,
		WalletID: walletID,
		Filter:   filter,
	})
	if err != nil {
		return utils.Error(c, err)
	}

	pagination.SetTotal(result.Total)
	return utils.Success(c, utils.NewPaginatedResponse(result.Transactions, pagination))
}
