package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"atlaspay/internal/apperr"
	"atlaspay/internal/models"
)

type OfferRepository interface {
	Create(ctx context.Context, offer *models.Offer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error)
	Update(ctx context.Context, offer *models.Offer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, activeOnly bool) ([]models.Offer, error)
}

type offerRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

func (r *offerRepository) Create(ctx context.Context, offer *models.Offer) error {
	if err := r.db.WithContext(ctx).Create(offer).Error; err != nil {
		return fmt.Errorf("create offer: %w", err)
	}
	return nil
}

func (r *offerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	err := r.db.WithContext(ctx).First(&offer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("offer %s not found", id)
		}
		return nil, fmt.Errorf("get offer: %w", err)
	}
	return &offer, nil
}

func (r *offerRepository) Update(ctx context.Context, offer *models.Offer) error {
	if err := r.db.WithContext(ctx).Save(offer).Error; err != nil {
		return fmt.Errorf("update offer: %w", err)
	}
	return nil
}

func (r *offerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Offer{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete offer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("offer %s not found", id)
	}
	return nil
}

func (r *offerRepository) List(ctx context.Context, activeOnly bool) ([]models.Offer, error) {
	var offers []models.Offer
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&offers).Error; err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	return offers, nil
}
