package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/timecardhq/timecard-backend-go/internal/domain/auth"
	"github.com/timecardhq/timecard-backend-go/internal/domain/user"
	"github.com/timecardhq/timecard-backend-go/internal/pkg/jwt"
)

type AuthServiceImpl struct {
	userRepo   user.UserRepository
	jwtService jwt.Service
}

// Login implements auth.AuthService.
func (s *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	usr, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	return s.issueTokens(usr)
}

// Refresh implements auth.AuthService.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (auth.LoginResponse, error) {
	if refreshToken == "" || s.jwtService.IsTokenRevoked(refreshToken) {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}

	token, err := jwtauth.VerifyToken(s.jwtService.JWTAuth(), refreshToken)
	if err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}

	claims, err := token.AsMap(ctx)
	if err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}
	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}

	usr, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidToken
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get user by ID: %w", err)
	}

	// Rotate: the presented refresh token is single use.
	s.jwtService.RevokeToken(refreshToken)

	return s.issueTokens(usr)
}

// Logout implements auth.AuthService.
func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) {
	if refreshToken != "" {
		s.jwtService.RevokeToken(refreshToken)
	}
}

func (s *AuthServiceImpl) issueTokens(usr user.User) (auth.LoginResponse, error) {
	accessToken, accessExpiresAt, err := s.jwtService.GenerateAccessToken(usr.ID, usr.Email, usr.IsAdmin)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := s.jwtService.GenerateRefreshToken(usr.ID)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return auth.LoginResponse{
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessExpiresAt,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshExpiresAt,
		UserID:                usr.ID,
		Name:                  usr.Name,
		IsAdmin:               usr.IsAdmin,
	}, nil
}

func NewAuthService(userRepo user.UserRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// accessGate resolves admin checks against the user store.
type accessGate struct {
	userRepo user.UserRepository
}

// RequireAuthenticated implements auth.AccessGate.
func (g *accessGate) RequireAuthenticated(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", auth.ErrUnauthenticated
	}
	return userID, nil
}

// IsAdmin implements auth.AccessGate.
func (g *accessGate) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	usr, err := g.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return usr.IsAdmin, nil
}

// RequireAdmin implements auth.AccessGate.
func (g *accessGate) RequireAdmin(ctx context.Context, userID string) (string, error) {
	if _, err := g.RequireAuthenticated(ctx, userID); err != nil {
		return "", err
	}
	isAdmin, err := g.IsAdmin(ctx, userID)
	if err != nil {
		return "", err
	}
	if !isAdmin {
		return "", user.ErrAdminPrivilegeRequired
	}
	return userID, nil
}

// RequireOwnerOrAdmin implements auth.AccessGate.
func (g *accessGate) RequireOwnerOrAdmin(ctx context.Context, userID string, resourceOwnerID string) error {
	if _, err := g.RequireAuthenticated(ctx, userID); err != nil {
		return err
	}
	if userID == resourceOwnerID {
		return nil
	}
	isAdmin, err := g.IsAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return auth.ErrForbidden
	}
	return nil
}

func NewAccessGate(userRepo user.UserRepository) auth.AccessGate {
	return &accessGate{userRepo: userRepo}
}
