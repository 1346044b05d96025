package user

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

// GetProfile resolves the user row into its client-facing projection.
func (s *Service) GetProfile(ctx context.Context, id int64) (*Profile, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := Profile{User: *u}

	if u.OrganizationID != nil {
		org, err := s.repo.GetOrganization(ctx, *u.OrganizationID)
		if err != nil && !errors.Is(err, ErrOrganizationNotFound) {
			return nil, err
		}
		if err == nil {
			profile.OrganizationName = org.Name
		}
	}

	interests, err := s.repo.ListInterests(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, interest := range interests {
		profile.Interests = append(profile.Interests, interest.Category)
	}

	return &profile, nil
}

type UpdateProfileInput struct {
	Name         *string
	Birthday     *time.Time
	Email        *string
	ThumbnailURL *string
	PhoneNumber  *string
	Interests    []string
}

// UpdateProfile applies the supplied fields and, when given, replaces the
// interest set, all in one transaction.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (*Profile, error) {
	fields := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("name must not be empty")
		}
		fields["name"] = name
	}
	if in.Birthday != nil {
		fields["birthday"] = *in.Birthday
	}
	if in.Email != nil {
		fields["email"] = strings.TrimSpace(*in.Email)
	}
	if in.ThumbnailURL != nil {
		fields["thumbnail_url"] = *in.ThumbnailURL
	}
	if in.PhoneNumber != nil {
		fields["phone_number"] = strings.TrimSpace(*in.PhoneNumber)
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetUser(ctx, userID); err != nil {
			return err
		}

		if len(fields) > 0 {
			if err := tx.UpdateUserFields(ctx, userID, fields); err != nil {
				return err
			}
		}

		if in.Interests != nil {
			if err := tx.ReplaceInterests(ctx, userID, dedupe(in.Interests)); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, userID)
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}
