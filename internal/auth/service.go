package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"spendly/internal/tokens"
	"spendly/internal/users"
)

var (
	// ErrInvalidCredentials covers both a missing user and a password
	// mismatch so the response never reveals which check failed.
	ErrInvalidCredentials = errors.New("invalid user name or password")
	ErrUserNotFound       = errors.New("user not found")
)

type Service interface {
	Login(ctx context.Context, req *LoginRequest, clientIP string) (*LoginResponse, error)
	Refresh(ctx context.Context, refreshToken, oldAccessToken string) (*LoginResponse, error)
}

type service struct {
	repo         Repository
	tokenManager *tokens.Manager
}

func NewService(repo Repository, tokenManager *tokens.Manager) Service {
	return &service{
		repo:         repo,
		tokenManager: tokenManager,
	}
}

func (s *service) Login(ctx context.Context, req *LoginRequest, clientIP string) (*LoginResponse, error) {
	user, err := s.repo.GetByLoginID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	claims := &tokens.AccessClaims{
		ClientIP: clientIP,
		Role:     tokens.RoleUser,
		UserType: tokens.UserTypeCAUser,
	}
	result, err := s.tokenManager.Issue(ctx, user.UserGuid, claims, "")
	if err != nil {
		return nil, err
	}

	status := user.Status
	if status == "" {
		status = "Invalid"
	}
	return &LoginResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken.TokenString,
		UserName:     result.UserName,
		Role:         tokens.RoleUser,
		Status:       status,
	}, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken, oldAccessToken string) (*LoginResponse, error) {
	result, err := s.tokenManager.Refresh(ctx, refreshToken, oldAccessToken)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken.TokenString,
		UserName:     result.UserName,
		Role:         tokens.RoleUser,
		Status:       users.StatusActive,
	}, nil
}
