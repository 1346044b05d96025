package user

import "time"

type User struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	Name           string `gorm:"size:80;not null"`
	OrganizationID *int64 `gorm:"index"`
	Birthday       *time.Time
	Sex            string `gorm:"type:varchar(8)"`
	Email          string `gorm:"size:120"`
	ThumbnailURL   string
	PhoneNumber    string    `gorm:"size:20"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

type Organization struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:120;not null"`
}

// Interest is one category the user follows; the set of rows for a user
// is replaced wholesale on profile updates.
type Interest struct {
	UserID   int64  `gorm:"primaryKey;autoIncrement:false"`
	Category string `gorm:"primaryKey;size:60"`
}

func (Interest) TableName() string { return "user_interests" }

// Profile is the read projection served to clients: the user row plus
// the resolved organization name and interest categories.
type Profile struct {
	User
	OrganizationName string
	Interests        []string
}
