package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ArowuTest/draws-backend/internal/config"
	"github.com/ArowuTest/draws-backend/internal/models"
	"github.com/ArowuTest/draws-backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// ErrInvalidCredentials is returned when the admin password does not match
var ErrInvalidCredentials = errors.New("invalid credentials")

var _ AuthService = (*authService)(nil)

type authService struct {
	cfg *config.Config
}

// NewAuthService creates a new AuthService implementation checking the admin
// password against the configured bcrypt hash
func NewAuthService(cfg *config.Config) AuthService {
	return &authService{cfg: cfg}
}

// Login handles admin login
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if s.cfg.Admin.PasswordHash == "" {
		slog.Warn("Admin login attempted but no password hash is configured")
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.Admin.PasswordHash), []byte(req.Password)); err != nil {
		slog.Warn("Admin login failed", "error", err)
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(utils.RoleAdmin, utils.RoleAdmin, s.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &models.LoginResponse{Token: token, ExpiresIn: s.cfg.JWT.ExpiresIn}, nil
}

// HashPassword returns the bcrypt hash to configure as the admin password
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
