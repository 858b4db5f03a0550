package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"atlaspay/internal/apperr"
	"atlaspay/internal/models"
)

// WalletFilter narrows List results. Zero values mean "no constraint".
type WalletFilter struct {
	OwnerID    uint
	Status     models.WalletStatus
	KycLevel   *models.KycLevel
	MinBalance *float64
	Limit      int
	Offset     int
}

type WalletRepository interface {
	Create(ctx context.Context, wallet *models.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Wallet, error)
	// GetByIDForUpdate loads the row under a SELECT ... FOR UPDATE lock.
	// Only meaningful inside Store.InTransaction.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Wallet, error)
	GetByPhoneNumber(ctx context.Context, phone string) (*models.Wallet, error)
	Update(ctx context.Context, wallet *models.Wallet) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter WalletFilter) ([]models.Wallet, error)
	Count(ctx context.Context, filter WalletFilter) (int64, error)
	LastTransactionDate(ctx context.Context, walletID uuid.UUID) (*time.Time, error)
	HasTransactions(ctx context.Context, walletID uuid.UUID) (bool, error)
	CountByOfferID(ctx context.Context, offerID uuid.UUID) (int64, error)
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Create(ctx context.Context, wallet *models.Wallet) error {
	if err := r.db.WithContext(ctx).Create(wallet).Error; err != nil {
		return fmt.Errorf("create wallet: %w", err)
	}
	return nil
}

func (r *walletRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).Preload("Offer").First(&wallet, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("wallet %s not found", id)
		}
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&wallet, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("wallet %s not found", id)
		}
		return nil, fmt.Errorf("lock wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) GetByPhoneNumber(ctx context.Context, phone string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).First(&wallet, "phone_number = ?", phone).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no wallet for phone number %s", phone)
		}
		return nil, fmt.Errorf("get wallet by phone: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) Update(ctx context.Context, wallet *models.Wallet) error {
	if err := r.db.WithContext(ctx).Save(wallet).Error; err != nil {
		return fmt.Errorf("update wallet: %w", err)
	}
	return nil
}

func (r *walletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Wallet{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete wallet: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("wallet %s not found", id)
	}
	return nil
}

func (r *walletRepository) applyFilter(q *gorm.DB, filter WalletFilter) *gorm.DB {
	if filter.OwnerID != 0 {
		q = q.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.KycLevel != nil {
		q = q.Where("kyc_level = ?", *filter.KycLevel)
	}
	if filter.MinBalance != nil {
		q = q.Where("balance >= ?", *filter.MinBalance)
	}
	return q
}

func (r *walletRepository) List(ctx context.Context, filter WalletFilter) ([]models.Wallet, error) {
	var wallets []models.Wallet
	q := r.applyFilter(r.db.WithContext(ctx), filter).Order("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := q.Find(&wallets).Error; err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	return wallets, nil
}

func (r *walletRepository) Count(ctx context.Context, filter WalletFilter) (int64, error) {
	var count int64
	q := r.applyFilter(r.db.WithContext(ctx).Model(&models.Wallet{}), filter)
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count wallets: %w", err)
	}
	return count, nil
}

func (r *walletRepository) LastTransactionDate(ctx context.Context, walletID uuid.UUID) (*time.Time, error) {
	var tx models.Transaction
	err := r.db.WithContext(ctx).
		Where("wallet_id = ? AND is_successful = ?", walletID, true).
		Order("created_at DESC").
		First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get last transaction date: %w", err)
	}
	return &tx.CreatedAt, nil
}

func (r *walletRepository) HasTransactions(ctx context.Context, walletID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("wallet_id = ? OR destination_wallet_id = ?", walletID, walletID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count wallet transactions: %w", err)
	}
	return count > 0, nil
}

func (r *walletRepository) CountByOfferID(ctx context.Context, offerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("offer_id = ?", offerID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count wallets by offer: %w", err)
	}
	return count, nil
}
