package service

import (
	"errors"
	"strings"

	"github.com/lingora/lingora-backend/internal/common"
	"github.com/lingora/lingora-backend/internal/domain"
	"github.com/lingora/lingora-backend/internal/repository"
	"github.com/lingora/lingora-backend/pkg/jwt"
	"github.com/lingora/lingora-backend/pkg/logger"
	"gorm.io/gorm"
)

// AuthService authenticates users and issues tokens
type AuthService interface {
	Login(req *domain.LoginRequest) (*domain.LoginResponse, error)
	Refresh(refreshToken string) (*domain.LoginResponse, error)
	Me(userID string) (*domain.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtManager *jwt.Manager
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtManager *jwt.Manager) AuthService {
	return &authService{userRepo: userRepo, jwtManager: jwtManager}
}

func (s *authService) Login(req *domain.LoginRequest) (*domain.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same error as a wrong password, so probing for accounts
			// yields nothing.
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CheckPassword(req.Password) {
		logger.GetLogger().Warn().Str("email", email).Msg("failed login attempt")
		return nil, common.ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

func (s *authService) Refresh(refreshToken string) (*domain.LoginResponse, error) {
	claims, err := s.jwtManager.VerifyToken(refreshToken)
	if err != nil {
		return nil, common.ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, err
	}

	return s.issueTokens(user)
}

func (s *authService) Me(userID string) (*domain.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) issueTokens(user *domain.User) (*domain.LoginResponse, error) {
	accessToken, err := s.jwtManager.GenerateToken(user.ID, user.Name, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &domain.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}
