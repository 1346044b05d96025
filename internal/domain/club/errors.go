package club

import "errors"

var (
	ErrClubNotFound      = errors.New("club not found")
	ErrAlreadyApplied    = errors.New("already applied to club")
	ErrNoSuchApplication = errors.New("no pending application")
	ErrNoSuchMembership  = errors.New("no membership for user and club")
	ErrNotAuthorized     = errors.New("not authorized")
	ErrInvalidRole       = errors.New("invalid role")
)
