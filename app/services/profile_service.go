package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AkaOko/react-trpo/app/models"
	"github.com/AkaOko/react-trpo/app/repositories"
	"github.com/AkaOko/react-trpo/pkg/auth"
)

// ProfileInput edits the caller's own account. Nil fields are unchanged.
type ProfileInput struct {
	Name  *string
	Email *string
	Phone *string
}

type ProfileService struct {
	users *repositories.UserRepository
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{users: repositories.NewUserRepository(db)}
}

func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

func (s *ProfileService) Update(ctx context.Context, id uuid.UUID, in ProfileInput) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyContact(ctx, s.users, user, in.Name, in.Email, in.Phone); err != nil {
		return nil, err
	}
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *ProfileService) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.Password, current) {
		return ErrInvalidCredentials
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.Password = hash
	return s.users.UpdateProfile(ctx, user)
}

// applyContact copies the supplied contact fields onto user, enforcing email
// uniqueness.
func applyContact(ctx context.Context, users *repositories.UserRepository, user *models.User, name, email, phone *string) error {
	if name != nil {
		user.Name = strings.TrimSpace(*name)
	}
	if phone != nil {
		user.Phone = strings.TrimSpace(*phone)
	}
	if email != nil {
		e := normalizeEmail(*email)
		taken, err := users.EmailTaken(ctx, e, user.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailTaken
		}
		user.Email = e
	}
	return nil
}
