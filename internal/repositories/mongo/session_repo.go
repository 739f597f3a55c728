package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/mockmate/backend/internal/models"
	"github.com/mockmate/backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SessionRepository persists interview sessions wholesale under session_id.
// Every Put overwrites the full document and pushes expires_at forward; reads
// after expiry behave as absent.
type SessionRepository interface {
	Put(ctx context.Context, s *models.InterviewSession) error
	Get(ctx context.Context, sessionID string) (*models.InterviewSession, error)
}

type sessionRepo struct {
	col *mongo.Collection
	ttl time.Duration
}

func NewSessionRepo(db *mongo.Database, ttl time.Duration) SessionRepository {
	return &sessionRepo{col: db.Collection("interview_sessions"), ttl: ttl}
}

func (r *sessionRepo) Put(ctx context.Context, s *models.InterviewSession) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.ExpiresAt = now.Add(r.ttl)

	_, err := r.col.ReplaceOne(ctx,
		bson.M{"session_id": s.SessionID},
		s,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *sessionRepo) Get(ctx context.Context, sessionID string) (*models.InterviewSession, error) {
	// The TTL monitor sweeps lazily; the expires_at filter makes swept-but-not-
	// yet-deleted documents behave as absent.
	var s models.InterviewSession
	err := r.col.FindOne(ctx, bson.M{
		"session_id": sessionID,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
