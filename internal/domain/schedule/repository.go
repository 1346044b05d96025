package schedule

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	GetSchedule(ctx context.Context, id int64) (*Schedule, error)
	ListByClub(ctx context.Context, clubID int64) ([]Schedule, error)
	CreateSchedule(ctx context.Context, s *Schedule) error
	UpdateScheduleFields(ctx context.Context, scheduleID int64, fields map[string]interface{}) error

	// IsApprovedMember reports whether the user holds an approved
	// membership in the club. Applied or rejected rows do not count.
	IsApprovedMember(ctx context.Context, userID, clubID int64) (bool, error)

	GetRegistration(ctx context.Context, scheduleID, userID int64) (*Registration, error)
	CreateRegistration(ctx context.Context, r *Registration) error
	DeleteRegistration(ctx context.Context, scheduleID, userID int64) error
}
