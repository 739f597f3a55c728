package postgres

import (
	"context"
	"errors"

	"github.com/mockmate/backend/internal/models"
	"github.com/mockmate/backend/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResultsRepository interface {
	// Upsert is idempotent per session id; a second write wins wholesale.
	Upsert(ctx context.Context, rec *models.InterviewResultRecord) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.InterviewResultRecord, error)
	// ListByUser returns a user's records ordered by creation time, oldest first.
	ListByUser(ctx context.Context, userID string) ([]models.InterviewResultRecord, error)
}

type resultsRepo struct {
	db *gorm.DB
}

func NewResultsRepo(db *gorm.DB) ResultsRepository {
	return &resultsRepo{db: db}
}

func (r *resultsRepo) Upsert(ctx context.Context, rec *models.InterviewResultRecord) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "user_id", "mode", "difficulty", "top_strengths", "top_improvements", "created_at"}),
		}).
		Create(rec).Error
}

func (r *resultsRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.InterviewResultRecord, error) {
	var rec models.InterviewResultRecord
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *resultsRepo) ListByUser(ctx context.Context, userID string) ([]models.InterviewResultRecord, error) {
	var rows []models.InterviewResultRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
