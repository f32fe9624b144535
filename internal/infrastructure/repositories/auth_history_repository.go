package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/codeclip-inc/lastly-auth/domain"
)

// DBAuthHistory is the append-only record of an issued verification code
type DBAuthHistory struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	PhoneNumber string    `gorm:"index:idx_auth_histories_phone_date,priority:1;size:32;not null"`
	Code        string    `gorm:"size:6;not null"`
	CreateDate  time.Time `gorm:"index:idx_auth_histories_phone_date,priority:2;not null"`
}

// TableName returns the table name for GORM
func (DBAuthHistory) TableName() string {
	return "auth_histories"
}

// AuthHistoryRepositoryImpl implements domain.AuthHistoryRepository using GORM
type AuthHistoryRepositoryImpl struct {
	db *gorm.DB
}

// NewAuthHistoryRepository creates a new auth history repository
func NewAuthHistoryRepository(db *gorm.DB) domain.AuthHistoryRepository {
	return &AuthHistoryRepositoryImpl{db: db}
}

// Create implements domain.AuthHistoryRepository
func (r *AuthHistoryRepositoryImpl) Create(ctx context.Context, history *domain.AuthHistory) error {
	row := &DBAuthHistory{
		PhoneNumber: history.PhoneNumber,
		Code:        history.Code,
		CreateDate:  history.CreateDate,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	history.ID = row.ID
	return nil
}

// CountBetween implements domain.AuthHistoryRepository; both bounds are inclusive.
func (r *AuthHistoryRepositoryImpl) CountBetween(ctx context.Context, phone string, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBAuthHistory{}).
		Where("phone_number = ? AND create_date >= ? AND create_date <= ?", phone, from, to).
		Count(&count).Error
	return count, err
}

// FindLatest implements domain.AuthHistoryRepository
func (r *AuthHistoryRepositoryImpl) FindLatest(ctx context.Context, phone string) (*domain.AuthHistory, error) {
	var row DBAuthHistory
	err := r.db.WithContext(ctx).
		Where("phone_number = ?", phone).
		Order("create_date DESC").
		Order("id DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAuthHistoryNotFound
		}
		return nil, err
	}
	return &domain.AuthHistory{
		ID:          row.ID,
		PhoneNumber: row.PhoneNumber,
		Code:        row.Code,
		CreateDate:  row.CreateDate,
	}, nil
}
