package services

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"

	"github.com/poolotto/poolotto-backend/internal/config"
	"github.com/poolotto/poolotto-backend/internal/models"
	"github.com/poolotto/poolotto-backend/internal/repositories"
	"github.com/poolotto/poolotto-backend/internal/utils"
)

// ErrInvalidCredentials is returned for any login failure; the reason is
// deliberately not disclosed to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

type authService struct {
	operatorRepo repositories.OperatorUserRepository
	cfg          *config.Config
}

// NewAuthService creates a new AuthService implementation
func NewAuthService(operatorRepo repositories.OperatorUserRepository, cfg *config.Config) AuthService {
	return &authService{
		operatorRepo: operatorRepo,
		cfg:          cfg,
	}
}

// Login verifies operator credentials and returns a signed token
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.operatorRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.Username, user.Role, s.cfg)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		Token:     token,
		ExpiresIn: s.cfg.JWT.ExpiresIn,
	}, nil
}

// EnsureDefaultOperator seeds the operator login from configuration when the
// collection is empty
func (s *authService) EnsureDefaultOperator(ctx context.Context) error {
	count, err := s.operatorRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if s.cfg.Operator.PasswordHash == "" {
		slog.Warn("no operator password hash configured, skipping operator seed")
		return nil
	}

	user := &models.OperatorUser{
		Username: s.cfg.Operator.Username,
		Password: s.cfg.Operator.PasswordHash,
		Role:     "operator",
	}
	if err := s.operatorRepo.Create(ctx, user); err != nil {
		return err
	}
	slog.Info("seeded default operator user", "username", user.Username)
	return nil
}
