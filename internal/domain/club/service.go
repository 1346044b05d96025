package club

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const DefaultPageSize = 5

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetClub(ctx context.Context, id int64) (*Detail, error) {
	c, err := s.repo.GetClub(ctx, id)
	if err != nil {
		return nil, err
	}

	members, err := s.repo.CountMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	likes, err := s.repo.CountLikes(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Detail{Club: *c, MemberCount: members, LikeCount: likes}, nil
}

// ListClubs returns one keyset page ordered by id descending. The repo is
// asked for one row beyond the page size to decide whether more pages exist.
func (s *Service) ListClubs(ctx context.Context, filter ListFilter) (*Page, error) {
	if filter.PageSize <= 0 {
		filter.PageSize = DefaultPageSize
	}

	clubs, err := s.repo.ListClubs(ctx, filter, filter.PageSize+1)
	if err != nil {
		return nil, err
	}

	page := Page{Clubs: clubs}
	if len(clubs) > filter.PageSize {
		page.Clubs = clubs[:filter.PageSize]
		page.HasNext = true
		page.NextCursor = page.Clubs[len(page.Clubs)-1].ID
	}

	return &page, nil
}

type CreateClubInput struct {
	Name         string
	Description  string
	Category1ID  *int64
	Category2ID  *int64
	ThumbnailURL string
}

// CreateClub inserts the club and makes the creator its first approved
// member with the owner role, in one transaction.
func (s *Service) CreateClub(ctx context.Context, creatorID int64, in CreateClubInput) (*Club, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	var result Club
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		c := Club{
			Name:         in.Name,
			Description:  in.Description,
			Category1ID:  in.Category1ID,
			Category2ID:  in.Category2ID,
			ThumbnailURL: in.ThumbnailURL,
			CreatorID:    creatorID,
		}
		if err := tx.CreateClub(ctx, &c); err != nil {
			return err
		}

		now := time.Now().UTC()
		role := RoleOwner
		owner := Membership{
			UserID:      creatorID,
			ClubID:      c.ID,
			ApplyStatus: StatusApproved,
			Role:        &role,
			ApplyDate:   now,
			ApproveDate: &now,
		}
		if err := tx.CreateMembership(ctx, &owner); err != nil {
			return err
		}

		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

type UpdateClubInput struct {
	Name         *string
	Description  *string
	Category1ID  *int64
	Category2ID  *int64
	ThumbnailURL *string
}

// UpdateClub applies the supplied fields in a single update so partial
// modifications commit all-or-nothing.
func (s *Service) UpdateClub(ctx context.Context, clubID int64, in UpdateClubInput) (*Club, error) {
	fields := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("name must not be empty")
		}
		fields["name"] = name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Category1ID != nil {
		fields["category1_id"] = *in.Category1ID
	}
	if in.Category2ID != nil {
		fields["category2_id"] = *in.Category2ID
	}
	if in.ThumbnailURL != nil {
		fields["thumbnail_url"] = *in.ThumbnailURL
	}

	var result Club
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		c, err := tx.GetClub(ctx, clubID)
		if err != nil {
			return err
		}

		if len(fields) > 0 {
			if err := tx.UpdateClubFields(ctx, clubID, fields); err != nil {
				return err
			}
			c, err = tx.GetClub(ctx, clubID)
			if err != nil {
				return err
			}
		}

		result = *c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Apply creates the membership row in the applied state. Any existing row
// for the pair blocks a new application: rejection is terminal and approved
// members cannot re-apply.
func (s *Service) Apply(ctx context.Context, userID, clubID int64) (*Membership, error) {
	var result Membership
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetClub(ctx, clubID); err != nil {
			return err
		}

		_, err := tx.GetMembership(ctx, userID, clubID)
		if err == nil {
			return ErrAlreadyApplied
		}
		if !errors.Is(err, ErrNoSuchMembership) {
			return err
		}

		m := Membership{
			UserID:      userID,
			ClubID:      clubID,
			ApplyStatus: StatusApplied,
			ApplyDate:   time.Now().UTC(),
		}
		if err := tx.CreateMembership(ctx, &m); err != nil {
			return err
		}

		result = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Approve transitions an applied membership to approved. The approver must
// hold an approved manager or owner membership in the same club. The role
// defaults to member when none is given.
func (s *Service) Approve(ctx context.Context, approverID, targetUserID, clubID int64, role *Role) (*Membership, error) {
	if role != nil && !ValidRole(*role) {
		return nil, ErrInvalidRole
	}

	var result Membership
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := requirePrivileged(ctx, tx, approverID, clubID); err != nil {
			return err
		}

		target, err := tx.GetMembership(ctx, targetUserID, clubID)
		if errors.Is(err, ErrNoSuchMembership) {
			return ErrNoSuchApplication
		}
		if err != nil {
			return err
		}
		if target.ApplyStatus != StatusApplied {
			return ErrNoSuchApplication
		}

		now := time.Now().UTC()
		target.ApplyStatus = StatusApproved
		target.ApproveDate = &now
		if role != nil {
			target.Role = role
		} else {
			member := RoleMember
			target.Role = &member
		}

		if err := tx.SaveMembership(ctx, target); err != nil {
			return err
		}

		result = *target
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// AllocateRole reassigns the target's role regardless of apply status.
// Unlike approval this never touches the status or dates.
func (s *Service) AllocateRole(ctx context.Context, callerID, clubID, targetUserID int64, role Role) (*Membership, error) {
	if !ValidRole(role) {
		return nil, ErrInvalidRole
	}

	var result Membership
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := requirePrivileged(ctx, tx, callerID, clubID); err != nil {
			return err
		}

		target, err := tx.GetMembership(ctx, targetUserID, clubID)
		if err != nil {
			return err
		}

		target.Role = &role
		if err := tx.SaveMembership(ctx, target); err != nil {
			return err
		}

		result = *target
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// ToggleLike flips the like relation for the pair and reports the
// resulting state: true when the like now exists.
func (s *Service) ToggleLike(ctx context.Context, userID, clubID int64) (bool, error) {
	liked := false
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetClub(ctx, clubID); err != nil {
			return err
		}

		present, err := tx.HasLike(ctx, userID, clubID)
		if err != nil {
			return err
		}

		if present {
			return tx.DeleteLike(ctx, userID, clubID)
		}

		liked = true
		return tx.CreateLike(ctx, &Like{UserID: userID, ClubID: clubID})
	})
	if err != nil {
		return false, err
	}

	return liked, nil
}

// GetRole returns the caller's membership in the club, or nil when no
// relationship exists. Absence is a valid state, not an error.
func (s *Service) GetRole(ctx context.Context, userID, clubID int64) (*Membership, error) {
	if _, err := s.repo.GetClub(ctx, clubID); err != nil {
		return nil, err
	}

	m, err := s.repo.GetMembership(ctx, userID, clubID)
	if errors.Is(err, ErrNoSuchMembership) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return m, nil
}

func requirePrivileged(ctx context.Context, repo Repository, userID, clubID int64) error {
	m, err := repo.GetMembership(ctx, userID, clubID)
	if errors.Is(err, ErrNoSuchMembership) {
		return ErrNotAuthorized
	}
	if err != nil {
		return err
	}
	if !m.Privileged() {
		return ErrNotAuthorized
	}
	return nil
}
