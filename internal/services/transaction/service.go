// Package transaction runs the monetary operations: deposits, withdrawals,
// wallet-to-wallet transfers and bill payments. Every attempt follows the
// same skeleton: validate, load and authorize, roll usage counters, price,
// check limits, confirm, screen, settle, then commit the ledger rows and
// balance mutations atomically.
//
// Settlement failures are outcomes, not errors: the attempt is persisted as
// an unsuccessful ledger row and returned to the caller. Errors are reserved
// for attempts that never reached settlement.
package transaction

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"atlaspay/internal/apperr"
	"atlaspay/internal/models"
	"atlaspay/internal/repositories"
	"atlaspay/internal/services/fees"
	"atlaspay/internal/services/policy"
	"atlaspay/internal/validation"
)

// Transfers above this amount require OTP confirmation.
var otpThreshold = decimal.NewFromInt(1_000)

type Service struct {
	store    *repositories.Store
	calc     *fees.Calculator
	policy   *policy.Engine
	gateway  Gateway
	bills    BillProvider
	fraud    FraudChecker
	notifier Notifier
	otp      OTPVerifier
	cache    WalletCache
	log      *logrus.Entry
	now      func() time.Time
}

func NewService(
	store *repositories.Store,
	calc *fees.Calculator,
	policyEngine *policy.Engine,
	gateway Gateway,
	bills BillProvider,
	fraudChecker FraudChecker,
	notifier Notifier,
	otp OTPVerifier,
	cache WalletCache,
	log *logrus.Logger,
) *Service {
	return &Service{
		store:    store,
		calc:     calc,
		policy:   policyEngine,
		gateway:  gateway,
		bills:    bills,
		fraud:    fraudChecker,
		notifier: notifier,
		otp:      otp,
		cache:    cache,
		log:      log.WithField("component", "transaction"),
		now:      time.Now,
	}
}

// newReference builds the external reference shared by a primary row and its
// fee and bonus rows.
func newReference() string {
	return "TXN-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
}

func validationError(v *validation.Validator) error {
	fields := make([]string, 0, len(v.Errors))
	for f := range v.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+" "+v.Errors[f])
	}
	return apperr.Validation("%s", strings.Join(parts, "; "))
}

// authorize allows the wallet owner and back-office admins. The admin check
// reads the users table, never the token.
func (s *Service) authorize(ctx context.Context, actorID uint, wallet *models.Wallet) error {
	if wallet.OwnerID == actorID {
		return nil
	}
	admin, err := s.store.Users.IsAdmin(ctx, actorID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return apperr.Unauthorized("not allowed to operate on this wallet")
		}
		return err
	}
	if !admin {
		return apperr.Unauthorized("not allowed to operate on this wallet")
	}
	return nil
}

// validOffer returns the wallet's offer when it is currently valid.
func (s *Service) validOffer(wallet *models.Wallet) *models.Offer {
	if wallet.Offer != nil && wallet.Offer.CurrentlyValid(s.now()) {
		return wallet.Offer
	}
	return nil
}

func (s *Service) screen(ctx context.Context, txType models.TransactionType, amount decimal.Decimal, walletID uuid.UUID) bool {
	verdict := s.fraud.Screen(ctx, txType, amount, walletID)
	if verdict.Flagged {
		s.notifier.AdminAlert(ctx, "fraud screening", verdict.Reason)
	}
	return verdict.Flagged
}

func (s *Service) invalidate(ctx context.Context, ids ...uuid.UUID) {
	for _, id := range ids {
		if err := s.cache.InvalidateWallet(ctx, id); err != nil {
			s.log.WithError(err).WithField("wallet_id", id).Warn("wallet cache invalidation failed")
		}
	}
}

// Deposit funds a wallet from an external rail. The deposit fee is netted
// out of the credited amount; a valid recharge-bonus offer adds a separate
// bonus ledger row.
func (s *Service) Deposit(ctx context.Context, req DepositRequest) (*Result, error) {
	v := validation.New()
	v.PositiveAmount("amount", req.Amount)
	if !v.Valid() {
		return nil, validationError(v)
	}
	if err := s.gateway.Validate(req.Details); err != nil {
		return nil, err
	}

	wallet, err := s.store.Wallets.GetByID(ctx, req.WalletID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, req.ActorID, wallet); err != nil {
		return nil, err
	}
	if err := s.policy.ResetUsageIfRolledOver(ctx, s.store.Wallets, wallet); err != nil {
		return nil, err
	}

	// Deposits are exempt from the spending limits; only the wallet status
	// gates them.
	if wallet.Status != models.WalletStatusActive {
		return nil, apperr.BusinessRule("wallet is %s", wallet.Status)
	}

	offer := s.validOffer(wallet)
	fee := s.calc.DepositFee(req.Amount, req.Details.Method, offer)
	bonus := s.calc.DepositBonus(req.Amount, offer)

	flagged := s.screen(ctx, models.TransactionTypeDeposit, req.Amount, wallet.ID)

	ref := newReference()
	method := req.Details.Method
	settleErr := s.gateway.Collect(ctx, req.Details, req.Amount, wallet.Currency, ref)

	var tx *models.Transaction
	err = s.store.InTransaction(ctx, func(store *repositories.Store) error {
		locked, err := store.Wallets.GetByIDForUpdate(ctx, wallet.ID)
		if err != nil {
			return err
		}

		tx = &models.Transaction{
			WalletID:        wallet.ID,
			Type:            models.TransactionTypeDeposit,
			Amount:          req.Amount,
			Fee:             fee,
			Description:     req.Description,
			ReferenceNumber: ref,
			IsSuccessful:    settleErr == nil,
			PaymentMethod:   &method,
		}
		if settleErr != nil {
			tx.FailureReason = settleErr.Error()
		}
		if err := store.Transactions.Create(ctx, tx); err != nil {
			return err
		}
		if settleErr != nil {
			return nil
		}

		locked.Balance = locked.Balance.Add(req.Amount).Sub(fee).Add(bonus)
		if err := store.Wallets.Update(ctx, locked); err != nil {
			return err
		}

		if bonus.IsPositive() {
			bonusTx := &models.Transaction{
				WalletID:        wallet.ID,
				Type:            models.TransactionTypeBonus,
				Amount:          bonus,
				Fee:             decimal.Zero,
				Description:     "recharge bonus",
				ReferenceNumber: ref,
				IsSuccessful:    true,
			}
			if err := store.Transactions.Create(ctx, bonusTx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, wallet.ID)
	s.notifier.TransactionCompleted(ctx, wallet, tx)
	return &Result{Transaction: tx, Fee: fee, Bonus: bonus, FraudFlagged: flagged}, nil
}

// Withdraw moves wallet funds out to an external rail. The fee is recorded
// as its own ledger row and debited on top of the requested amount.
func (s *Service) Withdraw(ctx context.Context, req WithdrawRequest) (*Result, error) {
	v := validation.New()
	v.PositiveAmount("amount", req.Amount)
	if !v.Valid() {
		return nil, validationError(v)
	}
	if err := s.gateway.Validate(req.Details); err != nil {
		return nil, err
	}

	wallet, err := s.store.Wallets.GetByID(ctx, req.WalletID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, req.ActorID, wallet); err != nil {
		return nil, err
	}
	if err := s.policy.ResetUsageIfRolledOver(ctx, s.store.Wallets, wallet); err != nil {
		return nil, err
	}

	offer := s.validOffer(wallet)
	fee := s.calc.WithdrawalFee(req.Amount, req.Details.Method, offer)
	total := req.Amount.Add(fee)

	// The limit and balance checks run against the total debit, fee included.
	if err := s.policy.CanTransact(wallet, offer, total); err != nil {
		return nil, err
	}

	flagged := s.screen(ctx, models.TransactionTypeWithdrawal, req.Amount, wallet.ID)

	ref := newReference()
	method := req.Details.Method
	settleErr := s.gateway.Disburse(ctx, req.Details, req.Amount, wallet.Currency, ref)

	var tx *models.Transaction
	err = s.store.InTransaction(ctx, func(store *repositories.Store) error {
		locked, err := store.Wallets.GetByIDForUpdate(ctx, wallet.ID)
		if err != nil {
			return err
		}

		tx = &models.Transaction{
			WalletID:        wallet.ID,
			Type:            models.TransactionTypeWithdrawal,
			Amount:          req.Amount,
			Fee:             fee,
			Description:     req.Description,
			ReferenceNumber: ref,
			IsSuccessful:    settleErr == nil,
			PaymentMethod:   &method,
		}
		if settleErr != nil {
			tx.FailureReason = settleErr.Error()
		}
		if err := store.Transactions.Create(ctx, tx); err != nil {
			return err
		}
		if settleErr != nil {
			return nil
		}

		if locked.Balance.LessThan(total) {
			return apperr.InsufficientBalance("balance %s cannot cover %s plus %s fee", locked.Balance, req.Amount, fee)
		}
		locked.Balance = locked.Balance.Sub(total)
		locked.CurrentDailyUsage = locked.CurrentDailyUsage.Add(total)
		locked.CurrentMonthlyUsage = locked.CurrentMonthlyUsage.Add(total)
		if err := store.Wallets.Update(ctx, locked); err != nil {
			return err
		}

		feeTx := &models.Transaction{
			WalletID:        wallet.ID,
			Type:            models.TransactionTypeFee,
			Amount:          fee,
			Fee:             decimal.Zero,
			Description:     "withdrawal fee",
			ReferenceNumber: ref,
			IsSuccessful:    true,
		}
		return store.Transactions.Create(ctx, feeTx)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, wallet.ID)
	s.notifier.TransactionCompleted(ctx, wallet, tx)
	return &Result{Transaction: tx, Fee: fee, FraudFlagged: flagged}, nil
}

// Transfer moves funds between two wallets atomically. Both rows are locked
// in ascending id order so concurrent opposing transfers cannot deadlock.
func (s *Service) Transfer(ctx context.Context, req TransferRequest) (*Result, error) {
	v := validation.New()
	v.PositiveAmount("amount", req.Amount)
	if !v.Valid() {
		return nil, validationError(v)
	}
	if req.SourceWalletID == req.DestinationWalletID {
		return nil, apperr.Validation("cannot transfer to the same wallet")
	}

	source, err := s.store.Wallets.GetByID(ctx, req.SourceWalletID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, req.ActorID, source); err != nil {
		return nil, err
	}
	dest, err := s.store.Wallets.GetByID(ctx, req.DestinationWalletID)
	if err != nil {
		return nil, err
	}
	if dest.Status != models.WalletStatusActive {
		return nil, apperr.BusinessRule("destination wallet is %s", dest.Status)
	}
	if dest.Currency != source.Currency {
		return nil, apperr.BusinessRule("cannot transfer between %s and %s wallets", source.Currency, dest.Currency)
	}
	if err := s.policy.ResetUsageIfRolledOver(ctx, s.store.Wallets, source); err != nil {
		return nil, err
	}

	offer := s.validOffer(source)
	fee := s.calc.TransferFee(req.Amount, offer)
	total := req.Amount.Add(fee)

	if err := s.policy.CanTransact(source, offer, total); err != nil {
		return nil, err
	}

	// Transfers above the threshold must carry a code; any provided code is
	// verified and consumed, even below it.
	if req.Amount.GreaterThan(otpThreshold) && req.OTPCode == "" {
		return nil, apperr.BusinessRule("transfers above %s require an otp code", otpThreshold)
	}
	if req.OTPCode != "" {
		ok, err := s.otp.Verify(ctx, req.ActorID, req.OTPCode)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperr.BusinessRule("invalid or expired otp code")
		}
	}

	flagged := s.screen(ctx, models.TransactionTypeTransfer, req.Amount, source.ID)

	ref := newReference()
	destID := dest.ID

	var tx *models.Transaction
	err = s.store.InTransaction(ctx, func(store *repositories.Store) error {
		firstID, secondID := source.ID, dest.ID
		if bytes.Compare(dest.ID[:], source.ID[:]) < 0 {
			firstID, secondID = dest.ID, source.ID
		}
		first, err := store.Wallets.GetByIDForUpdate(ctx, firstID)
		if err != nil {
			return err
		}
		second, err := store.Wallets.GetByIDForUpdate(ctx, secondID)
		if err != nil {
			return err
		}
		lockedSource, lockedDest := first, second
		if first.ID != source.ID {
			lockedSource, lockedDest = second, first
		}

		if lockedSource.Balance.LessThan(total) {
			return apperr.InsufficientBalance("balance %s cannot cover %s plus %s fee", lockedSource.Balance, req.Amount, fee)
		}

		tx = &models.Transaction{
			WalletID:            source.ID,
			DestinationWalletID: &destID,
			Type:                models.TransactionTypeTransfer,
			Amount:              req.Amount,
			Fee:                 fee,
			Description:         req.Description,
			ReferenceNumber:     ref,
			IsSuccessful:        true,
		}
		if err := store.Transactions.Create(ctx, tx); err != nil {
			return err
		}

		lockedSource.Balance = lockedSource.Balance.Sub(total)
		lockedSource.CurrentDailyUsage = lockedSource.CurrentDailyUsage.Add(total)
		lockedSource.CurrentMonthlyUsage = lockedSource.CurrentMonthlyUsage.Add(total)
		if err := store.Wallets.Update(ctx, lockedSource); err != nil {
			return err
		}

		lockedDest.Balance = lockedDest.Balance.Add(req.Amount)
		if err := store.Wallets.Update(ctx, lockedDest); err != nil {
			return err
		}

		feeTx := &models.Transaction{
			WalletID:        source.ID,
			Type:            models.TransactionTypeFee,
			Amount:          fee,
			Fee:             decimal.Zero,
			Description:     "transfer fee",
			ReferenceNumber: ref,
			IsSuccessful:    true,
		}
		return store.Transactions.Create(ctx, feeTx)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, source.ID, dest.ID)
	s.notifier.TransactionCompleted(ctx, source, tx)
	s.notifier.TransactionCompleted(ctx, dest, tx)
	return &Result{Transaction: tx, Fee: fee, FraudFlagged: flagged}, nil
}

// PayBill settles a biller invoice from wallet funds. Verification happens
// before anything else touches the books: a bill that fails verification
// leaves no trace in the ledger. A verified bill whose provider settlement
// fails is recorded as an unsuccessful transaction, like any other rail.
func (s *Service) PayBill(ctx context.Context, req PayBillRequest) (*Result, error) {
	v := validation.New()
	v.PositiveAmount("amount", req.Amount)
	v.Required("biller_name", req.BillerName)
	if !v.Valid() {
		return nil, validationError(v)
	}

	wallet, err := s.store.Wallets.GetByID(ctx, req.WalletID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, req.ActorID, wallet); err != nil {
		return nil, err
	}
	if err := s.policy.ResetUsageIfRolledOver(ctx, s.store.Wallets, wallet); err != nil {
		return nil, err
	}

	invoice, err := s.bills.Verify(ctx, req.BillerName, req.BillType, req.CustomerReference, req.Amount)
	if err != nil {
		return nil, err
	}

	offer := s.validOffer(wallet)
	fee := s.calc.BillPaymentFee(invoice.Amount, req.BillType, offer)
	total := invoice.Amount.Add(fee)

	if err := s.policy.CanTransact(wallet, offer, total); err != nil {
		return nil, err
	}

	ref := newReference()
	paidAt := s.now()
	paymentRef, settleErr := s.bills.PayBill(ctx, invoice, invoice.Amount)

	var tx *models.Transaction
	err = s.store.InTransaction(ctx, func(store *repositories.Store) error {
		locked, err := store.Wallets.GetByIDForUpdate(ctx, wallet.ID)
		if err != nil {
			return err
		}

		tx = &models.Transaction{
			WalletID:        wallet.ID,
			Type:            models.TransactionTypeBillPayment,
			Amount:          invoice.Amount,
			Fee:             fee,
			Description:     req.Description,
			ReferenceNumber: ref,
			IsSuccessful:    settleErr == nil,
		}
		if settleErr != nil {
			tx.FailureReason = settleErr.Error()
			return store.Transactions.Create(ctx, tx)
		}

		if locked.Balance.LessThan(total) {
			return apperr.InsufficientBalance("balance %s cannot cover %s plus %s fee", locked.Balance, invoice.Amount, fee)
		}

		bill := &models.Bill{
			BillerName:        req.BillerName,
			BillerReference:   invoice.BillerReference,
			CustomerReference: req.CustomerReference,
			Amount:            invoice.Amount,
			DueDate:           invoice.DueDate,
			IsPaid:            true,
			PaymentDate:       &paidAt,
			PaymentReference:  paymentRef,
			BillType:          req.BillType,
		}
		if err := store.Transactions.CreateBill(ctx, bill); err != nil {
			return err
		}
		tx.BillID = &bill.ID
		if err := store.Transactions.Create(ctx, tx); err != nil {
			return err
		}

		locked.Balance = locked.Balance.Sub(total)
		locked.CurrentDailyUsage = locked.CurrentDailyUsage.Add(total)
		locked.CurrentMonthlyUsage = locked.CurrentMonthlyUsage.Add(total)
		if err := store.Wallets.Update(ctx, locked); err != nil {
			return err
		}

		feeTx := &models.Transaction{
			WalletID:        wallet.ID,
			Type:            models.TransactionTypeFee,
			Amount:          fee,
			Fee:             decimal.Zero,
			Description:     "bill payment fee",
			ReferenceNumber: ref,
			IsSuccessful:    true,
		}
		return store.Transactions.Create(ctx, feeTx)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, wallet.ID)
	s.notifier.TransactionCompleted(ctx, wallet, tx)
	return &Result{Transaction: tx, Fee: fee}, nil
}

// Get loads one ledger row if the actor may see its wallet.
func (s *Service) Get(ctx context.Context, actorID uint, id uuid.UUID) (*models.Transaction, error) {
	tx, err := s.store.Transactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	wallet, err := s.store.Wallets.GetByID(ctx, tx.WalletID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actorID, wallet); err != nil {
		return nil, err
	}
	return tx, nil
}

// List pages through a wallet's ledger.
func (s *Service) List(ctx context.Context, req ListRequest) (*ListResult, error) {
	wallet, err := s.store.Wallets.GetByID(ctx, req.WalletID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, req.ActorID, wallet); err != nil {
		return nil, err
	}

	filter := req.Filter
	filter.WalletID = wallet.ID
	txs, err := s.store.Transactions.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.store.Transactions.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ListResult{Transactions: txs, Total: total}, nil
}
