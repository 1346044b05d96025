package schedule

import "time"

type Schedule struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	ClubID    int64  `gorm:"not null;index"`
	Name      string `gorm:"size:120;not null"`
	Content   string
	Location  string
	StartDate time.Time `gorm:"not null;index"`
	EndDate   time.Time `gorm:"not null"`
	CreatorID int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Schedule) TableName() string { return "club_schedules" }

// Registration is the user_club_schedules row: at most one per
// (user, schedule) pair, enforced by a unique constraint.
type Registration struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	UserID     int64     `gorm:"not null;uniqueIndex:uq_user_club_schedules_user_schedule"`
	ScheduleID int64     `gorm:"column:club_schedule_id;not null;uniqueIndex:uq_user_club_schedules_user_schedule"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (Registration) TableName() string { return "user_club_schedules" }
