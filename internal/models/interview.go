package models

import "time"

type InterviewMode string

const (
	ModeBehavioral   InterviewMode = "behavioral"
	ModeTechnical    InterviewMode = "technical"
	ModeSystemDesign InterviewMode = "system_design"
	ModeMixed        InterviewMode = "mixed"
	ModeHR           InterviewMode = "hr"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// SessionStatus only moves forward:
// active -> completed -> evaluating -> evaluated | error
type SessionStatus string

const (
	StatusActive     SessionStatus = "active"
	StatusCompleted  SessionStatus = "completed"
	StatusEvaluating SessionStatus = "evaluating"
	StatusEvaluated  SessionStatus = "evaluated"
	StatusError      SessionStatus = "error"
)

type Question struct {
	QuestionID   string `bson:"question_id" json:"question_id"`
	Text         string `bson:"text" json:"text"`
	Category     string `bson:"category" json:"category"`
	FollowUpHint string `bson:"follow_up_hint,omitempty" json:"follow_up_hint,omitempty"`
}

type Answer struct {
	QuestionID      string  `bson:"question_id" json:"question_id"`
	Transcript      string  `bson:"transcript" json:"transcript"`
	DurationSeconds float64 `bson:"duration_seconds" json:"duration_seconds"`
}

// InterviewSession is stored wholesale in Mongo under session_id; every update
// overwrites the full document and resets ExpiresAt.
type InterviewSession struct {
	SessionID            string        `bson:"session_id" json:"session_id"`
	CVProfile            CVProfile     `bson:"cv_profile" json:"cv_profile"`
	Mode                 InterviewMode `bson:"mode" json:"mode"`
	Difficulty           Difficulty    `bson:"difficulty" json:"difficulty"`
	Questions            []Question    `bson:"questions" json:"questions"`
	Answers              []Answer      `bson:"answers" json:"answers"`
	CurrentQuestionIndex int           `bson:"current_question_index" json:"current_question_index"`
	Status               SessionStatus `bson:"status" json:"status"`
	CreatedAt            time.Time     `bson:"created_at" json:"created_at"`
	ExpiresAt            time.Time     `bson:"expires_at" json:"-"`
	UserID               string        `bson:"user_id,omitempty" json:"user_id,omitempty"`
}
