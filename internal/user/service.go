package user

import (
	"context"
	"errors"

	"github.com/yashcdw/Crew-Car/internal/auth"
	"github.com/yashcdw/Crew-Car/internal/logger"
	"github.com/yashcdw/Crew-Car/internal/wallet"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrEmployeeIDExists   = errors.New("employee id already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, string, string, error)
	Login(ctx context.Context, req LoginRequest) (*User, string, string, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *User, error)
}

type service struct {
	repo      Repository
	wallets   wallet.Repository
	jwtSecret string
}

func NewService(repo Repository, wallets wallet.Repository, jwtSecret string) Service {
	return &service{
		repo:      repo,
		wallets:   wallets,
		jwtSecret: jwtSecret,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, string, string, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, "", "", err
	}
	if exists {
		return nil, "", "", ErrEmailExists
	}

	exists, err = s.repo.EmployeeIDExists(ctx, req.EmployeeID)
	if err != nil {
		return nil, "", "", err
	}
	if exists {
		return nil, "", "", ErrEmployeeIDExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", "", err
	}

	u := &User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		EmployeeID:   req.EmployeeID,
		Department:   req.Department,
		PasswordHash: passwordHash,
	}
	if req.HomeAddress != nil {
		u.HomeAddress = &req.HomeAddress.Address
		u.HomeLat = &req.HomeAddress.Lat
		u.HomeLng = &req.HomeAddress.Lng
	}

	created, err := s.repo.Create(ctx, u)
	if err != nil {
		return nil, "", "", err
	}

	// Wallets are created lazily on first use; opening one here just means the
	// balance endpoint never has to take the insert path for fresh accounts.
	if _, err := s.wallets.GetOrCreateWallet(ctx, created.ID); err != nil {
		logger.Error("failed to open wallet at registration", "user_id", created.ID, "error", err)
	}

	accessToken, refreshToken, err := auth.GenerateTokens(created.ID, created.Email, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return nil, "", "", err
	}

	return created, accessToken, refreshToken, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := auth.GenerateTokens(u.ID, u.Email, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return nil, "", "", err
	}

	return u, accessToken, refreshToken, nil
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error) {
	return s.repo.UpdateProfile(ctx, userID, req)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	_, claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	u, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", nil, ErrUserNotFound
	}

	newAccessToken, err := auth.GenerateAccessToken(u.ID, u.Email, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return newAccessToken, u, nil
}
