package user

import (
	"context"
	"errors"

	userdomain "clubhub/internal/domain/user"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(userdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetUser(ctx context.Context, id int64) (*userdomain.User, error) {
	var u userdomain.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *PostgresRepository) UpdateUserFields(ctx context.Context, userID int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&userdomain.User{}).Where("id = ?", userID).Updates(fields).Error
}

func (r *PostgresRepository) GetOrganization(ctx context.Context, id int64) (*userdomain.Organization, error) {
	var org userdomain.Organization
	if err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrOrganizationNotFound
		}
		return nil, err
	}
	return &org, nil
}

func (r *PostgresRepository) ListInterests(ctx context.Context, userID int64) ([]userdomain.Interest, error) {
	var interests []userdomain.Interest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("category asc").
		Find(&interests).Error
	if err != nil {
		return nil, err
	}
	return interests, nil
}

func (r *PostgresRepository) ReplaceInterests(ctx context.Context, userID int64, categories []string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&userdomain.Interest{}).Error; err != nil {
		return err
	}
	for _, category := range categories {
		interest := userdomain.Interest{UserID: userID, Category: category}
		if err := r.db.WithContext(ctx).Create(&interest).Error; err != nil {
			return err
		}
	}
	return nil
}
