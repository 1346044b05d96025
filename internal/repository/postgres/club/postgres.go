package club

import (
	"context"
	"errors"

	clubdomain "clubhub/internal/domain/club"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(clubdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetClub(ctx context.Context, id int64) (*clubdomain.Club, error) {
	var c clubdomain.Club
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, clubdomain.ErrClubNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PostgresRepository) ListClubs(ctx context.Context, filter clubdomain.ListFilter, limit int) ([]clubdomain.Club, error) {
	query := r.db.WithContext(ctx).Model(&clubdomain.Club{})

	if filter.CursorID > 0 {
		query = query.Where("id < ?", filter.CursorID)
	}
	if filter.Category1ID != nil {
		query = query.Where("category1_id = ?", *filter.Category1ID)
	}
	if filter.Category2ID != nil {
		query = query.Where("category2_id = ?", *filter.Category2ID)
	}
	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var clubs []clubdomain.Club
	if err := query.Order("id desc").Limit(limit).Find(&clubs).Error; err != nil {
		return nil, err
	}
	return clubs, nil
}

func (r *PostgresRepository) CreateClub(ctx context.Context, c *clubdomain.Club) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *PostgresRepository) UpdateClubFields(ctx context.Context, clubID int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&clubdomain.Club{}).Where("id = ?", clubID).Updates(fields).Error
}

func (r *PostgresRepository) CountMembers(ctx context.Context, clubID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&clubdomain.Membership{}).
		Where("club_id = ? AND apply_status = ?", clubID, clubdomain.StatusApproved).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) CountLikes(ctx context.Context, clubID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&clubdomain.Like{}).Where("club_id = ?", clubID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) GetMembership(ctx context.Context, userID, clubID int64) (*clubdomain.Membership, error) {
	var m clubdomain.Membership
	if err := r.db.WithContext(ctx).Where("user_id = ? AND club_id = ?", userID, clubID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, clubdomain.ErrNoSuchMembership
		}
		return nil, err
	}
	return &m, nil
}

func (r *PostgresRepository) CreateMembership(ctx context.Context, m *clubdomain.Membership) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *PostgresRepository) SaveMembership(ctx context.Context, m *clubdomain.Membership) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *PostgresRepository) HasLike(ctx context.Context, userID, clubID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&clubdomain.Like{}).
		Where("user_id = ? AND club_id = ?", userID, clubID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) CreateLike(ctx context.Context, like *clubdomain.Like) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *PostgresRepository) DeleteLike(ctx context.Context, userID, clubID int64) error {
	return r.db.WithContext(ctx).Delete(&clubdomain.Like{}, "user_id = ? AND club_id = ?", userID, clubID).Error
}
