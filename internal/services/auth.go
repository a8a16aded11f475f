package services

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"umroh-system/internal/dto"
	"umroh-system/internal/repositories"
	apperrors "umroh-system/pkg/errors"
	"umroh-system/pkg/service"
)

type AuthService struct {
	userRepository repositories.UserRepositoryInterface
	jwtService     service.JWTService
	logger         *zap.Logger
}

func NewAuthService(
	userRepository repositories.UserRepositoryInterface,
	jwtService service.JWTService,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		jwtService:     jwtService,
		logger:         logger,
	}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.LoginResponseDTO, error) {
	user, err := s.userRepository.FindByEmail(ctx, payload.Email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		s.logger.Warn("percobaan login gagal", zap.String("email", payload.Email))
		return nil, apperrors.ErrInvalidCredential
	}

	access, refresh, err := s.jwtService.GenerateTokens(user.ID, user.FullName, user.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.logger.Info("login berhasil", zap.Int("user_id", user.ID))
	return &dto.LoginResponseDTO{
		User: dto.AuthUserDTO{
			ID:       user.ID,
			Email:    user.Email,
			FullName: user.FullName,
			Role:     user.Role,
		},
		Tokens: dto.TokenPairDTO{
			AccessToken:  access,
			RefreshToken: refresh,
		},
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairDTO, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepository.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	if !user.IsActive {
		return nil, apperrors.ErrForbidden
	}

	access, refresh, err := s.jwtService.GenerateTokens(user.ID, user.FullName, user.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &dto.TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}
