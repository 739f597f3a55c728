package models

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// AnswerScore is produced once per answer during evaluation and never mutated.
type AnswerScore struct {
	QuestionID   string   `json:"question_id"`
	QuestionText string   `json:"question_text"`
	Transcript   string   `json:"transcript"`
	Score        int      `json:"score"` // 0-100
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

type CategoryScore struct {
	Category string `json:"category"`
	Score    int    `json:"score"`
	Label    string `json:"label"`
}

type Resource struct {
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description"`
}

type InterviewResults struct {
	SessionID            string          `json:"session_id"`
	OverallScore         int             `json:"overall_score"`
	Grade                string          `json:"grade"` // A, B, C, D, F
	CategoryScores       []CategoryScore `json:"category_scores"`
	AnswerReviews        []AnswerScore   `json:"answer_reviews"`
	TopStrengths         []string        `json:"top_strengths"`
	TopImprovements      []string        `json:"top_improvements"`
	RecommendedResources []Resource      `json:"recommended_resources"`
	Summary              string          `json:"summary"`
}

// ScoreToGrade maps an overall score to a letter grade.
func ScoreToGrade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// InterviewResultRecord is the durable row behind an evaluated session. The
// full report lives in Data; mode/difficulty/strengths are denormalized so
// history queries never touch the JSONB blob.
type InterviewResultRecord struct {
	SessionID       string         `gorm:"column:session_id;type:text;primaryKey" json:"session_id"`
	Data            datatypes.JSON `gorm:"column:data;type:jsonb" json:"data"`
	UserID          *string        `gorm:"column:user_id;type:text;index" json:"user_id,omitempty"`
	Mode            string         `gorm:"column:mode;type:text" json:"mode"`
	Difficulty      string         `gorm:"column:difficulty;type:text" json:"difficulty"`
	TopStrengths    pq.StringArray `gorm:"column:top_strengths;type:text[]" json:"top_strengths"`
	TopImprovements pq.StringArray `gorm:"column:top_improvements;type:text[]" json:"top_improvements"`
	CreatedAt       time.Time      `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (InterviewResultRecord) TableName() string { return "interview_results" }

// Results decodes the stored report payload.
func (r *InterviewResultRecord) Results() (*InterviewResults, error) {
	var out InterviewResults
	if err := json.Unmarshal(r.Data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NewInterviewResultRecord packs a report into its durable row form.
func NewInterviewResultRecord(res *InterviewResults, userID string, mode InterviewMode, difficulty Difficulty) (*InterviewResultRecord, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}
	rec := &InterviewResultRecord{
		SessionID:       res.SessionID,
		Data:            datatypes.JSON(data),
		Mode:            string(mode),
		Difficulty:      string(difficulty),
		TopStrengths:    pq.StringArray(res.TopStrengths),
		TopImprovements: pq.StringArray(res.TopImprovements),
		CreatedAt:       time.Now().UTC(),
	}
	if userID != "" {
		rec.UserID = &userID
	}
	return rec, nil
}
