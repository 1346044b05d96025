package user

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	GetUser(ctx context.Context, id int64) (*User, error)
	UpdateUserFields(ctx context.Context, userID int64, fields map[string]interface{}) error
	GetOrganization(ctx context.Context, id int64) (*Organization, error)
	ListInterests(ctx context.Context, userID int64) ([]Interest, error)
	ReplaceInterests(ctx context.Context, userID int64, categories []string) error
}
