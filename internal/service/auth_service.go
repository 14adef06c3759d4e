package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ekusa/ekusa-backend/internal/config"
	"github.com/ekusa/ekusa-backend/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ============================================
// Auth Service
// ============================================

type AuthService interface {
	Login(ctx context.Context, email, password string) (*repository.Admin, string, string, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateToken(token string) (*jwt.Token, error)
	GetAdminIDFromToken(token *jwt.Token) (string, error)
	GetAdmin(ctx context.Context, id string) (*repository.Admin, error)
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

type authService struct {
	cfg       *config.Config
	adminRepo repository.AdminRepository
}

func NewAuthService(cfg *config.Config, adminRepo repository.AdminRepository) AuthService {
	return &authService{cfg: cfg, adminRepo: adminRepo}
}

func (s *authService) Login(ctx context.Context, email, password string) (*repository.Admin, string, string, error) {
	admin, err := s.adminRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil || admin == nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	s.adminRepo.UpdateLastLogin(ctx, admin.ID)

	accessToken, refreshToken, err := s.generateTokens(ctx, admin.ID)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	return admin, accessToken, refreshToken, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, string, error) {
	rt, err := s.adminRepo.FindRefreshToken(ctx, refreshToken)
	if err != nil || rt == nil {
		return "", "", ErrInvalidToken
	}

	// Refresh tokens are single use.
	s.adminRepo.DeleteRefreshToken(ctx, refreshToken)

	if time.Now().After(rt.ExpiresAt) {
		return "", "", ErrInvalidToken
	}

	accessToken, newRefreshToken, err := s.generateTokens(ctx, rt.AdminID)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	return accessToken, newRefreshToken, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	return s.adminRepo.DeleteRefreshToken(ctx, refreshToken)
}

func (s *authService) ValidateToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

func (s *authService) GetAdminIDFromToken(token *jwt.Token) (string, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	adminID, ok := claims["sub"].(string)
	if !ok || adminID == "" {
		return "", ErrInvalidToken
	}
	return adminID, nil
}

func (s *authService) GetAdmin(ctx context.Context, id string) (*repository.Admin, error) {
	admin, err := s.adminRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrNotFound
	}
	return admin, nil
}

func (s *authService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.adminRepo.DeleteExpiredRefreshTokens(ctx)
}

func (s *authService) generateTokens(ctx context.Context, adminID string) (string, string, error) {
	now := time.Now()
	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": adminID,
		"exp": now.Add(time.Hour * time.Duration(s.cfg.JWTExpiry)).Unix(),
		"iat": now.Unix(),
	})

	accessTokenString, err := accessToken.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", "", err
	}

	rt := &repository.RefreshToken{
		Token:     uuid.New().String(),
		AdminID:   adminID,
		ExpiresAt: now.Add(time.Hour * 24 * time.Duration(s.cfg.RefreshExpiry)),
	}

	if err := s.adminRepo.SaveRefreshToken(ctx, rt); err != nil {
		return "", "", err
	}

	return accessTokenString, rt.Token, nil
}
