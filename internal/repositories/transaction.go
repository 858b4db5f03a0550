package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"atlaspay/internal/apperr"
	"atlaspay/internal/models"
)

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	WalletID   uuid.UUID
	Type       models.TransactionType
	Successful *bool
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error)
	Count(ctx context.Context, filter TransactionFilter) (int64, error)

	CreateBill(ctx context.Context, bill *models.Bill) error
	GetBillByID(ctx context.Context, id uuid.UUID) (*models.Bill, error)
	UpdateBill(ctx context.Context, bill *models.Bill) error
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.WithContext(ctx).Preload("Bill").First(&tx, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("transaction %s not found", id)
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &tx, nil
}

func (r *transactionRepository) applyFilter(q *gorm.DB, filter TransactionFilter) *gorm.DB {
	if filter.WalletID != uuid.Nil {
		q = q.Where("wallet_id = ? OR destination_wallet_id = ?", filter.WalletID, filter.WalletID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Successful != nil {
		q = q.Where("is_successful = ?", *filter.Successful)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}
	return q
}

func (r *transactionRepository) List(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	var txs []models.Transaction
	q := r.applyFilter(r.db.WithContext(ctx), filter).Order("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := q.Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (r *transactionRepository) Count(ctx context.Context, filter TransactionFilter) (int64, error) {
	var count int64
	q := r.applyFilter(r.db.WithContext(ctx).Model(&models.Transaction{}), filter)
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return count, nil
}

func (r *transactionRepository) CreateBill(ctx context.Context, bill *models.Bill) error {
	if err := r.db.WithContext(ctx).Create(bill).Error; err != nil {
		return fmt.Errorf("create bill: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetBillByID(ctx context.Context, id uuid.UUID) (*models.Bill, error) {
	var bill models.Bill
	err := r.db.WithContext(ctx).First(&bill, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("bill %s not found", id)
		}
		return nil, fmt.Errorf("get bill: %w", err)
	}
	return &bill, nil
}

func (r *transactionRepository) UpdateBill(ctx context.Context, bill *models.Bill) error {
	if err := r.db.WithContext(ctx).Save(bill).Error; err != nil {
		return fmt.Errorf("update bill: %w", err)
	}
	return nil
}
