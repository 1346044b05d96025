package club

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	GetClub(ctx context.Context, id int64) (*Club, error)
	ListClubs(ctx context.Context, filter ListFilter, limit int) ([]Club, error)
	CreateClub(ctx context.Context, c *Club) error
	UpdateClubFields(ctx context.Context, clubID int64, fields map[string]interface{}) error
	CountMembers(ctx context.Context, clubID int64) (int64, error)
	CountLikes(ctx context.Context, clubID int64) (int64, error)

	GetMembership(ctx context.Context, userID, clubID int64) (*Membership, error)
	CreateMembership(ctx context.Context, m *Membership) error
	SaveMembership(ctx context.Context, m *Membership) error

	HasLike(ctx context.Context, userID, clubID int64) (bool, error)
	CreateLike(ctx context.Context, like *Like) error
	DeleteLike(ctx context.Context, userID, clubID int64) error
}
