package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/codeclip-inc/lastly-auth/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db   *gorm.DB
	node *snowflake.Node
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID            int64     `gorm:"primaryKey;autoIncrement:false"`
	Phone         string    `gorm:"uniqueIndex:idx_users_phone_provider;size:32;not null"`
	Provider      string    `gorm:"uniqueIndex:idx_users_phone_provider;size:16;not null"`
	Name          string    `gorm:"size:255"`
	CreateDate    time.Time `gorm:"not null"`
	LastLoginDate time.Time `gorm:"not null"`
	RefreshToken  *string   `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository. IDs are minted by node.
func NewUserRepository(db *gorm.DB, node *snowflake.Node) domain.UserRepository {
	return &UserRepositoryImpl{db: db, node: node}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	if user.ID == 0 {
		user.ID = r.node.Generate().Int64()
	}
	dbUser := r.domainToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// FindByPhone implements domain.UserRepository
func (r *UserRepositoryImpl) FindByPhone(ctx context.Context, phone string, provider domain.Provider) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).
		Where("phone = ? AND provider = ?", phone, string(provider)).
		First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// FindByIDAndRefreshToken implements domain.UserRepository
func (r *UserRepositoryImpl) FindByIDAndRefreshToken(ctx context.Context, id int64, refreshToken string) (*domain.User, error) {
	if refreshToken == "" {
		return nil, domain.ErrUserNotFound
	}

	var dbUser DBUser
	err := r.db.WithContext(ctx).
		Where("id = ? AND refresh_token = ?", id, refreshToken).
		First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// ExistsByPhone implements domain.UserRepository. Any provider counts.
func (r *UserRepositoryImpl) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBUser{}).Where("phone = ?", phone).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateLastLogin implements domain.UserRepository
func (r *UserRepositoryImpl) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", id).Update("last_login_date", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// RotateRefreshToken implements domain.UserRepository
func (r *UserRepositoryImpl) RotateRefreshToken(ctx context.Context, id int64, current, next string) error {
	q := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", id)
	if current != "" {
		q = q.Where("refresh_token = ?", current)
	}

	res := q.Update("refresh_token", next)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ClearRefreshToken implements domain.UserRepository
func (r *UserRepositoryImpl) ClearRefreshToken(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", id).Update("refresh_token", nil).Error
}

// domainToDB converts domain user to database user
func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:            user.ID,
		Phone:         user.Phone,
		Provider:      string(user.Provider),
		Name:          user.Name,
		CreateDate:    user.CreateDate,
		LastLoginDate: user.LastLoginDate,
		RefreshToken:  user.RefreshToken,
	}
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:            dbUser.ID,
		Phone:         dbUser.Phone,
		Provider:      domain.Provider(dbUser.Provider),
		Name:          dbUser.Name,
		CreateDate:    dbUser.CreateDate,
		LastLoginDate: dbUser.LastLoginDate,
		RefreshToken:  dbUser.RefreshToken,
	}
}
