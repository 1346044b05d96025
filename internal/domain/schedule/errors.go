package schedule

import "errors"

var (
	ErrScheduleNotFound     = errors.New("schedule not found")
	ErrNotAMember           = errors.New("not an approved club member")
	ErrAlreadyRegistered    = errors.New("already registered for schedule")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrInvalidTimeRange     = errors.New("end date precedes start date")
)
