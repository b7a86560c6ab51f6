package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/AkaOko/react-trpo/app/models"
	"github.com/AkaOko/react-trpo/app/repositories"
	"github.com/AkaOko/react-trpo/pkg/auth"
	"github.com/AkaOko/react-trpo/pkg/logger"
	"github.com/AkaOko/react-trpo/pkg/rbac"
)

// RegisterInput is a new account. Role defaults to CLIENT.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     string
}

type AuthService struct {
	users  *repositories.UserRepository
	signer *auth.Signer
}

func NewAuthService(db *gorm.DB, signer *auth.Signer) *AuthService {
	return &AuthService{users: repositories.NewUserRepository(db), signer: signer}
}

// Register creates an account. Anonymous callers may only create clients;
// other roles need a caller holding rbac.RolesAssign.
func (s *AuthService) Register(ctx context.Context, caller *Actor, in RegisterInput) (*models.User, error) {
	role := models.RoleClient
	if in.Role != "" {
		r, err := models.ParseRole(in.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		role = r
	}
	if role != models.RoleClient && (caller == nil || !caller.Can(rbac.RolesAssign)) {
		return nil, ErrForbidden
	}

	email := normalizeEmail(in.Email)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: hash,
		Phone:    strings.TrimSpace(in.Phone),
		Role:     role,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID, "role", user.Role)
	return &user, nil
}

// Login checks the credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !auth.CheckPassword(user.Password, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.signer.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
