package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mockmate/backend/internal/models"
	"github.com/mockmate/backend/internal/utils"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	FindOrCreateGoogleUser(ctx context.Context, googleID, email, displayName string) (*models.User, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	err := r.db.WithContext(ctx).Create(u).Error
	if err != nil && isUniqueViolation(err) {
		return utils.ErrDuplicateEmail
	}
	return err
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetByID(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindOrCreateGoogleUser resolves a Google login in three steps: returning
// visitor by google_id, then linking by email, then a fresh passwordless user.
func (r *userRepo) FindOrCreateGoogleUser(ctx context.Context, googleID, email, displayName string) (*models.User, error) {
	var out *models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		err := tx.Where("google_id = ?", googleID).Take(&u).Error
		if err == nil {
			out = &u
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		err = tx.Where("email = ?", email).Take(&u).Error
		if err == nil {
			if uerr := tx.Model(&models.User{}).
				Where("user_id = ?", u.UserID).
				Update("google_id", googleID).Error; uerr != nil {
				return uerr
			}
			u.GoogleID = &googleID
			out = &u
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		created := models.User{
			UserID:      uuid.NewString(),
			Email:       email,
			GoogleID:    &googleID,
			DisplayName: displayName,
			CreatedAt:   time.Now().UTC(),
		}
		if cerr := tx.Create(&created).Error; cerr != nil {
			return cerr
		}
		out = &created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key")
}
