package schedule

import (
	"context"
	"errors"

	clubdomain "clubhub/internal/domain/club"
	scheduledomain "clubhub/internal/domain/schedule"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(scheduledomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetSchedule(ctx context.Context, id int64) (*scheduledomain.Schedule, error) {
	var s scheduledomain.Schedule
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, scheduledomain.ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *PostgresRepository) ListByClub(ctx context.Context, clubID int64) ([]scheduledomain.Schedule, error) {
	var schedules []scheduledomain.Schedule
	err := r.db.WithContext(ctx).
		Where("club_id = ?", clubID).
		Order("start_date asc").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *PostgresRepository) CreateSchedule(ctx context.Context, s *scheduledomain.Schedule) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *PostgresRepository) UpdateScheduleFields(ctx context.Context, scheduleID int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&scheduledomain.Schedule{}).Where("id = ?", scheduleID).Updates(fields).Error
}

func (r *PostgresRepository) IsApprovedMember(ctx context.Context, userID, clubID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&clubdomain.Membership{}).
		Where("user_id = ? AND club_id = ? AND apply_status = ?", userID, clubID, clubdomain.StatusApproved).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) GetRegistration(ctx context.Context, scheduleID, userID int64) (*scheduledomain.Registration, error) {
	var reg scheduledomain.Registration
	err := r.db.WithContext(ctx).
		Where("club_schedule_id = ? AND user_id = ?", scheduleID, userID).
		First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, scheduledomain.ErrRegistrationNotFound
		}
		return nil, err
	}
	return &reg, nil
}

func (r *PostgresRepository) CreateRegistration(ctx context.Context, reg *scheduledomain.Registration) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *PostgresRepository) DeleteRegistration(ctx context.Context, scheduleID, userID int64) error {
	return r.db.WithContext(ctx).
		Delete(&scheduledomain.Registration{}, "club_schedule_id = ? AND user_id = ?", scheduleID, userID).Error
}
