package transaction

import (
	"context"
	"errors"
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
	"atlaspay/internal/services/billing"
	"atlaspay/internal/services/fees"
	"atlaspay/internal/services/fraud"
	"atlaspay/internal/services/payment"
	"atlaspay/internal/services/policy"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// In-memory fakes. The nil-handle Store runs InTransaction inline, so these
// exercise the full engine flow without a database.

type fakeWalletRepo struct {
	repositories.WalletRepository
	wallets map[uuid.UUID]*models.Wallet
	lastTx  *time.Time
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{wallets: make(map[uuid.UUID]*models.Wallet)}
}

func (f *fakeWalletRepo) add(w *models.Wallet) {
	cp := *w
	f.wallets[w.ID] = &cp
}

func (f *fakeWalletRepo) get(id uuid.UUID) *models.Wallet {
	return f.wallets[id]
}

func (f *fakeWalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
	w, ok := f.wallets[id]
	if !ok {
		return nil, apperr.NotFound("wallet %s not found", id)
	}
	cp := *w
	return &cp, nil
}

func (f *fakeWalletRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeWalletRepo) Update(ctx context.Context, wallet *models.Wallet) error {
	cp := *wallet
	f.wallets[wallet.ID] = &cp
	return nil
}

func (f *fakeWalletRepo) LastTransactionDate(ctx context.Context, id uuid.UUID) (*time.Time, error) {
	return f.lastTx, nil
}

type fakeTxRepo struct {
	repositories.TransactionRepository
	txs   []*models.Transaction
	bills []*models.Bill
}

func (f *fakeTxRepo) Create(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	tx.CreatedAt = time.Now()
	f.txs = append(f.txs, tx)
	return nil
}

func (f *fakeTxRepo) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == uuid.Nil {
		bill.ID = uuid.New()
	}
	f.bills = append(f.bills, bill)
	return nil
}

func (f *fakeTxRepo) byType(t models.TransactionType) []*models.Transaction {
	var out []*models.Transaction
	for _, tx := range f.txs {
		if tx.Type == t {
			out = append(out, tx)
		}
	}
	return out
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

type fakeGateway struct {
	collectErr  error
	disburseErr error
}

func (f *fakeGateway) Validate(details payment.Details) error {
	if details.Method == "" {
		return apperr.Validation("payment method is required")
	}
	return nil
}

func (f *fakeGateway) Collect(ctx context.Context, details payment.Details, amount decimal.Decimal, currency, reference string) error {
	return f.collectErr
}

func (f *fakeGateway) Disburse(ctx context.Context, details payment.Details, amount decimal.Decimal, currency, reference string) error {
	return f.disburseErr
}

type fakeBills struct {
	invoice *billing.Invoice
	err     error
	payErr  error
}

func (f *fakeBills) Verify(ctx context.Context, billerName string, billType models.BillType, customerRef string, amount decimal.Decimal) (*billing.Invoice, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.invoice, nil
}

func (f *fakeBills) PayBill(ctx context.Context, invoice *billing.Invoice, amount decimal.Decimal) (string, error) {
	if f.payErr != nil {
		return "", f.payErr
	}
	return "PAY-" + invoice.BillerReference, nil
}

type fakeNotifier struct {
	receipts int
	alerts   []string
}

func (f *fakeNotifier) TransactionCompleted(ctx context.Context, wallet *models.Wallet, tx *models.Transaction) {
	f.receipts++
}

func (f *fakeNotifier) AdminAlert(ctx context.Context, subject, detail string) {
	f.alerts = append(f.alerts, subject)
}

type fakeOTP struct {
	valid string
}

func (f *fakeOTP) Verify(ctx context.Context, userID uint, code string) (bool, error) {
	return f.valid != "" && code == f.valid, nil
}

type fakeCache struct {
	invalidated []uuid.UUID
}

func (f *fakeCache) InvalidateWallet(ctx context.Context, id uuid.UUID) error {
	f.invalidated = append(f.invalidated, id)
	return nil
}

type harness struct {
	svc      *Service
	wallets  *fakeWalletRepo
	txs      *fakeTxRepo
	gateway  *fakeGateway
	bills    *fakeBills
	notifier *fakeNotifier
	otp      *fakeOTP
	cache    *fakeCache
}

func newHarness() *harness {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	wallets := newFakeWalletRepo()
	txs := &fakeTxRepo{}
	users := &fakeUserRepo{admins: map[uint]bool{1: false, 2: false, 9: true}}
	store := &repositories.Store{
		Wallets:      wallets,
		Transactions: txs,
		Users:        users,
	}

	gateway := &fakeGateway{}
	bills := &fakeBills{}
	notifier := &fakeNotifier{}
	otp := &fakeOTP{}
	cache := &fakeCache{}

	policyEngine := policy.NewEngine()
	svc := NewService(store, fees.NewCalculator(), policyEngine, gateway, bills,
		fraud.NewScreener(log), notifier, otp, cache, log)

	return &harness{
		svc:      svc,
		wallets:  wallets,
		txs:      txs,
		gateway:  gateway,
		bills:    bills,
		notifier: notifier,
		otp:      otp,
		cache:    cache,
	}
}

func activeWallet(ownerID uint, balance string) *models.Wallet {
	return &models.Wallet{
		ID:                  uuid.New(),
		OwnerID:             ownerID,
		Status:              models.WalletStatusActive,
		Currency:            "MAD",
		Balance:             dec(balance),
		DailyLimit:          dec("1000"),
		MonthlyLimit:        dec("5000"),
		CurrentDailyUsage:   decimal.Zero,
		CurrentMonthlyUsage: decimal.Zero,
	}
}

func bankDetails() payment.Details {
	return payment.Details{
		Method:      models.PaymentMethodBankTransfer,
		BankAccount: "123456789012345678901234",
	}
}

func TestDeposit(t *testing.T) {
	ctx := context.Background()

	t.Run("bank deposit nets the fee inline", func(t *testing.T) {
		h := newHarness()
		w := activeWallet(1, "0")
		h.wallets.add(w)

		res, err := h.svc.Deposit(ctx, DepositRequest{
			ActorID:  1,
			WalletID: w.ID,
			Amount:   dec("500"),
			Details:  bankDetails(),
		})
		require.NoError(t, err)

		// 0.5% of 500 is 2.50, credited amount is 497.50.
		assert.True(t, dec("2.5").Equal(res.Fee), "fee %s", res.Fee)
		assert.True(t, res.Transaction.IsSuccessful)

		stored := h.wallets.get(w.ID)
		assert.True(t, dec("497.5").Equal(stored.Balance), "balance %s", stored.Balance)

		// Deposits never spawn a fee row and never count toward usage.
		assert.True(t, stored.CurrentDailyUsage.IsZero())
		assert.True(t, stored.CurrentMonthlyUsage.IsZero())
		assert.Len(t, h.txs.txs, 1)
		assert.Empty(t, h.txs.byType(models.TransactionTypeFee))
		assert.Equal(t, 1, h.notifier.receipts)
		assert.Len(t, h.cache.invalidated, 1)
	})

	t.Run("deposits are exempt from the spending limits", func(t *testing.T) {
		h := newHarness()
		w := activeWallet(1, "0")
		h.wallets.add(w)

		// 1500 exceeds the 1000 daily limit; deposits go through anyway.
		res, err := h.svc.Deposit(ctx, DepositRequest{
			ActorID:  1,
			WalletID: w.ID,
			Amount:   dec("1500"),
			Details:  bankDetails(),
		})
		require.NoError(t, err)
		assert.True(t, res.Transaction.IsSuccessful)

		stored := h.wallets.get(w.ID)
		assert.True(t, dec("1492.5").Equal(stored.Balance), "balance %s", stored.Balance)
		assert.True(t, stored.CurrentDailyUsage.IsZero())
	})

	t.Run("blocked wallet cannot deposit", func(t *testing.T) {
		h := newHarness()
		w := activeWallet(1, "0")
		w.Status = models.WalletStatusBlocked
		h.wallets.add(w)

		_, err := h.svc.Deposit(ctx, DepositRequest{
			ActorID:  1,
			WalletID: w.ID,
			Amount:   dec("100"),
			Details:  bankDetails(),
		})
		assert.Equal(t, apperr.KindBusinessRule, apperr.KindOf(err))
		assert.Empty(t, h.txs.txs)
	})

	t.Run("recharge bonus adds a bonus row", func(t *testing.T) {
		h := newHarness()
		w := activeWallet(1, "0")
		bonus := dec("2")
		w.Offer = &models.Offer{
			IsActive:      true,
			ValidTo:       time.Now().AddDate(1, 0, 0),
			RechargeBonus: &bonus,
		}
		h.wallets.add(w)

		res, err := h.svc.Deposit(ctx, DepositRequest{
			ActorID:  1,
			WalletID: w.ID,
			Amount:   dec("500"),
			Details:  bankDetails(),
		})
		require.NoError(t, err)

		// 2% bonus on 500 is 10; credit 500 - 2.50 + 10.
		assert.True(t, dec("10").Equal(res.Bonus))
		stored := h.wallets.get(w.ID)
		assert.True(t, dec("507.5").Equal(stored.Balance), "balance %s", stored.Balance)

		bonusRows := h.txs.byType(models.TransactionTypeBonus)
		require.Len(t, bonusRows, 1)
		assert.True(t, dec("10").Equal(bonusRows[0].Amount))
		assert.Equal(t, res.Transaction.ReferenceNumber, bonusRows[0].ReferenceNumber)
	})

	t.Run("settlement failure persists a failed row", func(t *testing.T) {
		h := newHarness()
		h.gateway.collectErr = errors.New("card declined")
		w := activeWallet(1, "100")
		h.wallets.add(w)

		res, err := h.svc.Deposit(ctx, DepositRequest{
			ActorID:  1,
			WalletID: w.ID,
			Amount:   dec("500"),
			Details:  bankDetails(),
		})
		require.NoError(t, err)
		assert.False(t, res.Transaction.IsSuccessful)
		assert.Contains(t, res.Transaction.FailureReason, "card declined")

		stored := h.wallets.get(w.ID)
		assert.True(t, dec("100").Equal(stored.Balance), "balance untouched")
		assert.True(t, stored.CurrentDailyUsage.IsZero())
		assert.Len(t, h.txs.txs, 1)
		assert.Equal(t, 1, h.notifier.receipts)
	})

	t.Run("invalid amount persists nothing", func(t *testing.T) {
		h := newHarness()
		w := activeWallet(1, "0")
		h.wallets.add(w)

		_, err := h.svc.Deposit(ctx, DepositRequest{
			ActorID:  1,
			WalletID: w.ID,
			Amount:   dec("-5"),
			Details:  bankDetails(),
		})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		assert.Empty(t, h.txs.txs)
	})

	t.Run("stranger is rejected, admin is allowed", func(t *testing.T) {
		h := newHarness()
		w := activeWallet(1, "0")
		h.wallets.add(w)

		_, err := h.svc.Deposit(ctx, DepositRequest{
			ActorID:  2,
			WalletID: w.ID,
			Amount:   dec("100"),
			Details:  bankDetails(),
		})
		assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

		_, err = h.svc.Deposit(ctx, DepositRequest{
			ActorID:  9,
			WalletID: w.ID,
			Amount:   dec("100"),
			Details:  bankDetails(),
		})
		assert.NoError(t, err)
	})
}

func TestWithdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("success debits amount plus fee and records a fee row", func(t *testing.T) {
		h := newHarness()
		w := activeWallet(1, "1000")
		h.wallets.add(w)

		res, err := h.svc.Withdraw(ctx, WithdrawRequest{
			ActorID:  1,
			WalletID: w.ID,
			Amount:   dec("500"),
			Details:  bankDetails(),
		})
		require.NoError(t, err)

		// 1% bank withdrawal fee on 500 is 5.
		assert.True(t, dec("5").Equal(res.Fee))
		stored := h.wallets.get(w.ID)
		assert.True(t, dec("495").Equal(stored.Balance), "balance %s", stored.Balance)

		feeRows := h.txs.byType(models.TransactionTypeFee)
		require.Len(t, feeRows, 1)
		assert.True(t, dec("5").Equal(feeRows[0].Amount))

		// Usage counters track the full debit, fee included.
		assert.True(t, dec("505").Equal(stored.CurrentDailyUsage), "daily usage %s", stored.CurrentDailyUsage)
		assert.True(t, dec("505").Equal(stored.CurrentMonthlyUsage))
	})

	t.Run("fee counts toward the daily limit", func(t *testing.T) {
		h := newHarness()
		w := activeWallet(1, "10000")
		w.CurrentDailyUsage = dec("900")
		h.wallets.add(w)

		// 99 cash leaves headroom, but the 1.98 fee pushes the total
		// debit of 100.98 past the 1000 limit.
		_, err := h.svc.Withdraw(ctx, WithdrawRequest{
			ActorID:  1,
			WalletID: w.ID,
			Amount:   dec("99"),
			Details:  payment.Details{Method: models.PaymentMethodCash},
		})
		assert.Equal(t, apperr.KindBusinessRule, apperr.KindOf(err))
		assert.Empty(t, h.txs.txs)
	})

	t.Run("daily limit counts prior usage", func(t *testing.T) {
		h := newHarness()
		w := activeWallet(1, "10000")
		w.CurrentDailyUsage = dec("900")
		h.wallets.add(w)

		_, err := h.svc.Withdraw(ctx, WithdrawRequest{
			ActorID:  1,
			WalletID: w.ID,
			Amount:   dec("204"),
			Details:  bankDetails(),
		})
		assert.Equal(t, apperr.KindBusinessRule, apperr.KindOf(err))
		assert.Empty(t, h.txs.txs)
	})

	t.Run("insufficient balance covers the fee too", func(t *testing.T) {
		h := newHarness()
		w := activeWallet(1, "502")
		h.wallets.add(w)

		// 500 + 5 fee exceeds 502.
		_, err := h.svc.Withdraw(ctx, WithdrawRequest{
			ActorID:  1,
			WalletID: w.ID,
			Amount:   dec("500"),
			Details:  bankDetails(),
		})
		assert.Equal(t, apperr.KindInsufficientBalance, apperr.KindOf(err))
		assert.Empty(t, h.txs.txs)
	})

	t.Run("rail failure persists a failed row without mutations", func(t *testing.T) {
		h := newHarness()
		h.gateway.disburseErr = errors.New("rail timeout")
		w := activeWallet(1, "1000")
		h.wallets.add(w)

		res, err := h.svc.Withdraw(ctx, WithdrawRequest{
			ActorID:  1,
			WalletID: w.ID,
			Amount:   dec("500"),
			Details:  bankDetails(),
		})
		require.NoError(t, err)
		assert.False(t, res.Transaction.IsSuccessful)

		stored := h.wallets.get(w.ID)
		assert.True(t, dec("1000").Equal(stored.Balance))
		assert.Len(t, h.txs.txs, 1)
		assert.Empty(t, h.txs.byType(models.TransactionTypeFee))
	})
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()

	setup := func(h *harness) (*models.Wallet, *models.Wallet) {
		src := activeWallet(1, "2000")
		src.DailyLimit = dec("5000")
		dst := activeWallet(2, "100")
		h.wallets.add(src)
		h.wallets.add(dst)
		return src, dst
	}

	t.Run("small transfer needs no otp", func(t *testing.T) {
		h := newHarness()
		src, dst := setup(h)

		res, err := h.svc.Transfer(ctx, TransferRequest{
			ActorID:             1,
			SourceWalletID:      src.ID,
			DestinationWalletID: dst.ID,
			Amount:              dec("800"),
		})
		require.NoError(t, err)

		// 1% fee on 800 is 8.
		assert.True(t, dec("8").Equal(res.Fee))
		assert.True(t, dec("1192").Equal(h.wallets.get(src.ID).Balance))
		assert.True(t, dec("900").Equal(h.wallets.get(dst.ID).Balance))
		assert.Len(t, h.txs.byType(models.TransactionTypeFee), 1)
		assert.Equal(t, 2, h.notifier.receipts)
	})

	t.Run("large transfer requires otp", func(t *testing.T) {
		h := newHarness()
		src, dst := setup(h)

		req := TransferRequest{
			ActorID:             1,
			SourceWalletID:      src.ID,
			DestinationWalletID: dst.ID,
			Amount:              dec("1500"),
		}

		_, err := h.svc.Transfer(ctx, req)
		assert.Equal(t, apperr.KindBusinessRule, apperr.KindOf(err))

		h.otp.valid = "482913"
		req.OTPCode = "000000"
		_, err = h.svc.Transfer(ctx, req)
		assert.Equal(t, apperr.KindBusinessRule, apperr.KindOf(err))
		assert.Empty(t, h.txs.txs)

		req.OTPCode = "482913"
		res, err := h.svc.Transfer(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.Transaction.IsSuccessful)
		assert.True(t, dec("1600").Equal(h.wallets.get(dst.ID).Balance))
	})

	t.Run("an otp below the threshold is still checked", func(t *testing.T) {
		h := newHarness()
		src, dst := setup(h)
		h.otp.valid = "482913"

		_, err := h.svc.Transfer(ctx, TransferRequest{
			ActorID:             1,
			SourceWalletID:      src.ID,
			DestinationWalletID: dst.ID,
			Amount:              dec("100"),
			OTPCode:             "000000",
		})
		assert.Equal(t, apperr.KindBusinessRule, apperr.KindOf(err))
		assert.Empty(t, h.txs.txs)
	})

	t.Run("currency mismatch rejected", func(t *testing.T) {
		h := newHarness()
		src, dst := setup(h)
		other := h.wallets.get(dst.ID)
		other.Currency = "USD"
		h.wallets.add(other)

		_, err := h.svc.Transfer(ctx, TransferRequest{
			ActorID:             1,
			SourceWalletID:      src.ID,
			DestinationWalletID: dst.ID,
			Amount:              dec("100"),
		})
		assert.Equal(t, apperr.KindBusinessRule, apperr.KindOf(err))
		assert.Empty(t, h.txs.txs)
	})

	t.Run("self transfer rejected", func(t *testing.T) {
		h := newHarness()
		src, _ := setup(h)

		_, err := h.svc.Transfer(ctx, TransferRequest{
			ActorID:             1,
			SourceWalletID:      src.ID,
			DestinationWalletID: src.ID,
			Amount:              dec("100"),
		})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("blocked destination rejected", func(t *testing.T) {
		h := newHarness()
		src, dst := setup(h)
		blocked := h.wallets.get(dst.ID)
		blocked.Status = models.WalletStatusBlocked
		h.wallets.add(blocked)

		_, err := h.svc.Transfer(ctx, TransferRequest{
			ActorID:             1,
			SourceWalletID:      src.ID,
			DestinationWalletID: dst.ID,
			Amount:              dec("100"),
		})
		assert.Equal(t, apperr.KindBusinessRule, apperr.KindOf(err))
	})

	t.Run("fraud flag is advisory", func(t *testing.T) {
		h := newHarness()
		src, dst := setup(h)
		big := h.wallets.get(src.ID)
		big.Balance = dec("20000")
		big.DailyLimit = dec("50000")
		big.MonthlyLimit = dec("100000")
		h.wallets.add(big)
		h.otp.valid = "123456"

		res, err := h.svc.Transfer(ctx, TransferRequest{
			ActorID:             1,
			SourceWalletID:      src.ID,
			DestinationWalletID: dst.ID,
			Amount:              dec("8000"),
			OTPCode:             "123456",
		})
		require.NoError(t, err)
		assert.True(t, res.FraudFlagged)
		assert.True(t, res.Transaction.IsSuccessful)
		assert.NotEmpty(t, h.notifier.alerts)
	})
}

func TestPayBill(t *testing.T) {
	ctx := context.Background()

	t.Run("verified bill settles with fee and bill rows", func(t *testing.T) {
		h := newHarness()
		w := activeWallet(1, "1000")
		h.wallets.add(w)
		h.bills.invoice = &billing.Invoice{
			BillerReference: "INV-RD998877",
			Amount:          dec("400"),
			DueDate:         time.Now().AddDate(0, 0, 10),
		}

		res, err := h.svc.PayBill(ctx, PayBillRequest{
			ActorID:           1,
			WalletID:          w.ID,
			BillerName:        "Redal",
			BillType:          models.BillTypeWater,
			CustomerReference: "RD-998877",
			Amount:            dec("400"),
		})
		require.NoError(t, err)

		// 0.5% water fee on 400 is 2.
		assert.True(t, dec("2").Equal(res.Fee))
		assert.True(t, dec("598").Equal(h.wallets.get(w.ID).Balance))

		require.Len(t, h.txs.bills, 1)
		bill := h.txs.bills[0]
		assert.True(t, bill.IsPaid)
		require.NotNil(t, bill.PaymentDate)
		assert.Equal(t, "PAY-INV-RD998877", bill.PaymentReference)
		require.NotNil(t, res.Transaction.BillID)
		assert.Equal(t, bill.ID, *res.Transaction.BillID)
		assert.Len(t, h.txs.byType(models.TransactionTypeFee), 1)
	})

	t.Run("provider settlement failure persists a failed row", func(t *testing.T) {
		h := newHarness()
		w := activeWallet(1, "1000")
		h.wallets.add(w)
		h.bills.invoice = &billing.Invoice{
			BillerReference: "INV-RD998877",
			Amount:          dec("400"),
			DueDate:         time.Now().AddDate(0, 0, 10),
		}
		h.bills.payErr = errors.New("biller gateway unavailable")

		res, err := h.svc.PayBill(ctx, PayBillRequest{
			ActorID:           1,
			WalletID:          w.ID,
			BillerName:        "Redal",
			BillType:          models.BillTypeWater,
			CustomerReference: "RD-998877",
			Amount:            dec("400"),
		})
		require.NoError(t, err)
		assert.False(t, res.Transaction.IsSuccessful)
		assert.Contains(t, res.Transaction.FailureReason, "biller gateway unavailable")

		// The failed attempt is recorded, nothing else moves.
		assert.Len(t, h.txs.txs, 1)
		assert.Empty(t, h.txs.bills)
		assert.Empty(t, h.txs.byType(models.TransactionTypeFee))
		stored := h.wallets.get(w.ID)
		assert.True(t, dec("1000").Equal(stored.Balance))
		assert.True(t, stored.CurrentDailyUsage.IsZero())
	})

	t.Run("verification failure leaves no trace", func(t *testing.T) {
		h := newHarness()
		w := activeWallet(1, "1000")
		h.wallets.add(w)
		h.bills.err = apperr.BusinessRule("bill verification failed: invalid customer reference")

		_, err := h.svc.PayBill(ctx, PayBillRequest{
			ActorID:           1,
			WalletID:          w.ID,
			BillerName:        "Redal",
			BillType:          models.BillTypeWater,
			CustomerReference: "x",
			Amount:            dec("400"),
		})
		assert.Equal(t, apperr.KindBusinessRule, apperr.KindOf(err))
		assert.Empty(t, h.txs.txs)
		assert.Empty(t, h.txs.bills)
		assert.True(t, dec("1000").Equal(h.wallets.get(w.ID).Balance))
	})
}
