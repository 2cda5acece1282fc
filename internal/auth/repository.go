package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"spendly/internal/users"
)

type Repository interface {
	GetByLoginID(ctx context.Context, loginID string) (*users.UserLogin, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{
		db: db,
	}
}

func (r *repository) GetByLoginID(ctx context.Context, loginID string) (*users.UserLogin, error) {
	var user users.UserLogin
	err := r.db.WithContext(ctx).Where("login_id = ?", loginID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
