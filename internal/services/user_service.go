package services

import (
	"context"
	"fmt"

	"khata-backend/internal/auth"
	"khata-backend/internal/config"
	"khata-backend/internal/models"
	"khata-backend/internal/repositories"
)

type UserService struct {
	users *repositories.UserRepository
	jwt   *auth.JWTManager
}

func NewUserService(users *repositories.UserRepository, jwt *auth.JWTManager) *UserService {
	return &UserService{users: users, jwt: jwt}
}

// Login verifies credentials and issues a token. The error is the same
// for an unknown email and a wrong password.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, &models.PersistenceError{Op: "look up user", Err: err}
	}
	if user == nil || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, &models.ValidationError{Message: "invalid email or password"}
	}
	if !user.IsActive {
		return nil, &models.ValidationError{Message: "account is suspended"}
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &models.LoginResponse{Token: token, User: user}, nil
}

// SeedAdmin creates the first operator account on an empty users table.
// A no-op when any account already exists or no admin is configured.
func (s *UserService) SeedAdmin(ctx context.Context, cfg *config.Config) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		return nil
	}

	count, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Name:         "Admin",
		Email:        cfg.Admin.Email,
		PasswordHash: hash,
		Role:         "admin",
		IsActive:     true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	config.GetLogger().WithField("email", admin.Email).Info("seeded first admin account")
	return nil
}
