package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mockmate/backend/internal/models"
	"github.com/mockmate/backend/internal/utils"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]models.User // keyed by user id
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]models.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return utils.ErrDuplicateEmail
		}
	}
	r.users[u.UserID] = *u
	return nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (r *memUserRepo) GetByID(ctx context.Context, userID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := u
	return &cp, nil
}

func (r *memUserRepo) FindOrCreateGoogleUser(ctx context.Context, googleID, email, displayName string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			cp := u
			return &cp, nil
		}
	}
	u := models.User{UserID: "g-" + googleID, Email: email, GoogleID: &googleID, DisplayName: displayName}
	r.users[u.UserID] = u
	return &u, nil
}

const testSecret = "test-secret"

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newMemUserRepo(), testSecret, time.Hour)

	u, token, err := svc.Register(ctx, "Ada@Example.com", "hunter22", "Ada")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email, "email is normalized")
	assert.NotEmpty(t, token)
	require.NotNil(t, u.HashedPassword)
	assert.NotEqual(t, "hunter22", *u.HashedPassword, "password is stored hashed")
	assert.NoError(t, utils.CheckPassword(*u.HashedPassword, "hunter22"))

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "ada@example.com", "other", "Ada2")
		assert.True(t, utils.IsCode(err, utils.CodeConflict))
	})

	t.Run("login with good credentials", func(t *testing.T) {
		got, token, err := svc.Login(ctx, "ada@example.com", "hunter22")
		require.NoError(t, err)
		assert.Equal(t, u.UserID, got.UserID)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "ada@example.com", "wrong")
		assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))
	})

	t.Run("unknown email is unauthorized, not 404", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "ghost@example.com", "whatever")
		assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))
	})
}

func TestIssueTokenRoundTrip(t *testing.T) {
	svc := NewAuthService(newMemUserRepo(), testSecret, time.Hour)

	u := &models.User{UserID: "user-42", Email: "ada@example.com"}
	raw, err := svc.IssueToken(u)
	require.NoError(t, err)

	claims := &accessClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return []byte(testSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)
	require.True(t, tok.Valid)

	assert.Equal(t, "user-42", claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestLoginGoogleOnlyAccount(t *testing.T) {
	ctx := context.Background()
	repo := newMemUserRepo()
	svc := NewAuthService(repo, testSecret, time.Hour)

	_, err := repo.FindOrCreateGoogleUser(ctx, "gid-1", "g@example.com", "G")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "g@example.com", "anything")
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))
}
