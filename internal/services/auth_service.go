package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mockmate/backend/internal/models"
	pgrepo "github.com/mockmate/backend/internal/repositories/postgres"
	"github.com/mockmate/backend/internal/utils"
)

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, email, password, displayName string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	IssueToken(u *models.User) (string, error)
}

type authService struct {
	users  pgrepo.UserRepository
	secret []byte
	expiry time.Duration
}

func NewAuthService(users pgrepo.UserRepository, secret string, expiry time.Duration) AuthService {
	return &authService{users: users, secret: []byte(secret), expiry: expiry}
}

func (s *authService) Register(ctx context.Context, email, password, displayName string) (*models.User, string, error) {
	const op = "AuthService.Register"

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	u := &models.User{
		UserID:         uuid.NewString(),
		Email:          email,
		HashedPassword: &hash,
		DisplayName:    strings.TrimSpace(displayName),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, utils.ErrDuplicateEmail) {
			return nil, "", utils.E(utils.CodeConflict, op, "email already registered", err)
		}
		return nil, "", utils.E(utils.CodeInternal, op, "failed to create user", err)
	}

	token, err := s.IssueToken(u)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return u, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	const op = "AuthService.Login"

	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, "", utils.E(utils.CodeUnauthorized, op, "invalid email or password", nil)
		}
		return nil, "", utils.E(utils.CodeInternal, op, "failed to load user", err)
	}
	if u.HashedPassword == nil {
		// Google-only account, there is no password to check
		return nil, "", utils.E(utils.CodeUnauthorized, op, "invalid email or password", nil)
	}
	if err := utils.CheckPassword(*u.HashedPassword, password); err != nil {
		return nil, "", utils.E(utils.CodeUnauthorized, op, "invalid email or password", nil)
	}

	token, err := s.IssueToken(u)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return u, token, nil
}

func (s *authService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	const op = "AuthService.GetUser"

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", nil)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}
	return u, nil
}

func (s *authService) IssueToken(u *models.User) (string, error) {
	now := time.Now().UTC()
	claims := accessClaims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
