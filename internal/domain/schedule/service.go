package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	ClubID    int64
	Name      string
	Content   string
	Location  string
	StartDate time.Time
	EndDate   time.Time
}

// Create inserts a schedule for the club. Only approved members may
// schedule events.
func (s *Service) Create(ctx context.Context, creatorID int64, in CreateInput) (*Schedule, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, ErrInvalidTimeRange
	}

	var result Schedule
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		approved, err := tx.IsApprovedMember(ctx, creatorID, in.ClubID)
		if err != nil {
			return err
		}
		if !approved {
			return ErrNotAMember
		}

		sched := Schedule{
			ClubID:    in.ClubID,
			Name:      in.Name,
			Content:   in.Content,
			Location:  in.Location,
			StartDate: in.StartDate,
			EndDate:   in.EndDate,
			CreatorID: creatorID,
		}
		if err := tx.CreateSchedule(ctx, &sched); err != nil {
			return err
		}

		result = sched
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

type UpdateInput struct {
	Name      *string
	Content   *string
	Location  *string
	StartDate *time.Time
	EndDate   *time.Time
}

// Update applies the supplied fields in one write so partial updates
// commit all-or-nothing. The resulting time range must stay valid.
func (s *Service) Update(ctx context.Context, scheduleID int64, in UpdateInput) (*Schedule, error) {
	fields := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("name must not be empty")
		}
		fields["name"] = name
	}
	if in.Content != nil {
		fields["content"] = *in.Content
	}
	if in.Location != nil {
		fields["location"] = *in.Location
	}
	if in.StartDate != nil {
		fields["start_date"] = *in.StartDate
	}
	if in.EndDate != nil {
		fields["end_date"] = *in.EndDate
	}

	var result Schedule
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		sched, err := tx.GetSchedule(ctx, scheduleID)
		if err != nil {
			return err
		}

		start := sched.StartDate
		if in.StartDate != nil {
			start = *in.StartDate
		}
		end := sched.EndDate
		if in.EndDate != nil {
			end = *in.EndDate
		}
		if end.Before(start) {
			return ErrInvalidTimeRange
		}

		if len(fields) > 0 {
			if err := tx.UpdateScheduleFields(ctx, scheduleID, fields); err != nil {
				return err
			}
			sched, err = tx.GetSchedule(ctx, scheduleID)
			if err != nil {
				return err
			}
		}

		result = *sched
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Register creates the user's registration for the schedule. The user
// must be an approved member of the schedule's club.
func (s *Service) Register(ctx context.Context, scheduleID, userID int64) (*Registration, error) {
	var result Registration
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		sched, err := tx.GetSchedule(ctx, scheduleID)
		if err != nil {
			return err
		}

		approved, err := tx.IsApprovedMember(ctx, userID, sched.ClubID)
		if err != nil {
			return err
		}
		if !approved {
			return ErrNotAMember
		}

		_, err = tx.GetRegistration(ctx, scheduleID, userID)
		if err == nil {
			return ErrAlreadyRegistered
		}
		if !errors.Is(err, ErrRegistrationNotFound) {
			return err
		}

		reg := Registration{UserID: userID, ScheduleID: scheduleID}
		if err := tx.CreateRegistration(ctx, &reg); err != nil {
			return err
		}

		result = reg
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Cancel removes the user's own registration. The schedule itself is
// untouched.
func (s *Service) Cancel(ctx context.Context, scheduleID, userID int64) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetRegistration(ctx, scheduleID, userID); err != nil {
			return err
		}
		return tx.DeleteRegistration(ctx, scheduleID, userID)
	})
}

// List returns every schedule of the club ordered by start date ascending.
func (s *Service) List(ctx context.Context, clubID int64) ([]Schedule, error) {
	return s.repo.ListByClub(ctx, clubID)
}
