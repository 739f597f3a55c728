package postgres

import (
	"context"

	"github.com/mockmate/backend/internal/models"
	"gorm.io/gorm"
)

type CVFileRepository interface {
	Insert(ctx context.Context, row *models.CVFile) error
}

type cvFileRepo struct {
	db *gorm.DB
}

func NewCVFileRepo(db *gorm.DB) CVFileRepository {
	return &cvFileRepo{db: db}
}

func (r *cvFileRepo) Insert(ctx context.Context, row *models.CVFile) error {
	return r.db.WithContext(ctx).Create(row).Error
}
