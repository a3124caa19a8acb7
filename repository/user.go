package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/domain"
)

type userRepository struct {
	database *gorm.DB
}

func (u *userRepository) Create(ctx context.Context, user *User) error {
	return u.database.WithContext(ctx).Model(User{}).Create(user).Error
}

func (u *userRepository) GetById(ctx context.Context, userId string) (User, error) {
	var user User
	err := u.database.WithContext(ctx).Model(User{}).Where("id = ?", userId).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, domain.ErrNotFound
	}
	return user, err
}

func (u *userRepository) GetByUsername(ctx context.Context, username string) (User, error) {
	var user User
	err := u.database.WithContext(ctx).Model(User{}).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, domain.ErrNotFound
	}
	return user, err
}

func (u *userRepository) SetBanned(ctx context.Context, userId string, banned bool) error {
	if _, err := u.GetById(ctx, userId); err != nil {
		return err
	}
	return u.database.WithContext(ctx).Model(User{}).Where("id = ?", userId).Update("banned", banned).Error
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetById(ctx context.Context, userId string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	SetBanned(ctx context.Context, userId string, banned bool) error
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepository{database: db}
}
