package models

import "time"

// User rows come from either email/password signup or Google OAuth.
// HashedPassword is nil for Google-only accounts.
type User struct {
	UserID         string    `gorm:"column:user_id;type:text;primaryKey" json:"user_id"`
	Email          string    `gorm:"column:email;type:text;uniqueIndex" json:"email"`
	HashedPassword *string   `gorm:"column:hashed_password;type:text" json:"-"`
	GoogleID       *string   `gorm:"column:google_id;type:text;uniqueIndex" json:"-"`
	DisplayName    string    `gorm:"column:display_name;type:text" json:"display_name,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (User) TableName() string { return "users" }

type UserPublic struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}

func (u *User) Public() UserPublic {
	return UserPublic{UserID: u.UserID, Email: u.Email, DisplayName: u.DisplayName}
}

// SessionSummary is one row of a user's interview history.
type SessionSummary struct {
	SessionID       string   `json:"session_id"`
	Mode            string   `json:"mode"`
	Difficulty      string   `json:"difficulty"`
	OverallScore    int      `json:"overall_score"`
	Grade           string   `json:"grade"`
	TotalQuestions  int      `json:"total_questions"`
	Date            string   `json:"date"`
	TopStrengths    []string `json:"top_strengths"`
	TopImprovements []string `json:"top_improvements"`
}
