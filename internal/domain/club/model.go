package club

import "time"

type ApplyStatus string

const (
	StatusApplied  ApplyStatus = "applied"
	StatusApproved ApplyStatus = "approved"
	StatusRejected ApplyStatus = "rejected"
)

type Role string

const (
	RoleMember  Role = "member"
	RoleManager Role = "manager"
	RoleOwner   Role = "owner"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleMember, RoleManager, RoleOwner:
		return true
	}
	return false
}

type Club struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"size:120;not null"`
	Description  string
	Category1ID  *int64 `gorm:"index"`
	Category2ID  *int64 `gorm:"index"`
	ThumbnailURL string
	CreatorID    int64     `gorm:"not null;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

type Category struct {
	ID    int64  `gorm:"primaryKey;autoIncrement"`
	Name  string `gorm:"size:60;not null"`
	Level int    `gorm:"not null"`
}

// Membership is the user_clubs row: one application/approval lifecycle
// per (user, club) pair, enforced by a unique constraint.
type Membership struct {
	ID          int64       `gorm:"primaryKey;autoIncrement"`
	UserID      int64       `gorm:"not null;uniqueIndex:uq_user_clubs_user_club"`
	ClubID      int64       `gorm:"not null;uniqueIndex:uq_user_clubs_user_club"`
	ApplyStatus ApplyStatus `gorm:"type:varchar(16);not null"`
	Role        *Role       `gorm:"type:varchar(16)"`
	ApplyDate   time.Time   `gorm:"not null"`
	ApproveDate *time.Time
}

func (Membership) TableName() string { return "user_clubs" }

// Privileged reports whether the membership may approve applications
// and reassign roles.
func (m *Membership) Privileged() bool {
	if m == nil || m.ApplyStatus != StatusApproved || m.Role == nil {
		return false
	}
	return *m.Role == RoleManager || *m.Role == RoleOwner
}

type Like struct {
	UserID    int64     `gorm:"primaryKey;autoIncrement:false"`
	ClubID    int64     `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Like) TableName() string { return "club_likes" }

// Detail is a club plus the aggregate counts shown on its page.
type Detail struct {
	Club
	MemberCount int64
	LikeCount   int64
}

type ListFilter struct {
	CursorID    int64 // exclusive upper bound on id; 0 means newest first
	PageSize    int
	Category1ID *int64
	Category2ID *int64
	Keyword     string
}

// Page is one keyset-paginated slice of the club listing, newest first.
// NextCursor is the id of the last club in the page and is only
// meaningful when HasNext is true.
type Page struct {
	Clubs      []Club
	HasNext    bool
	NextCursor int64
}
