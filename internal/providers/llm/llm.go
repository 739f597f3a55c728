package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mockmate/backend/internal/models"
)

// Provider is the gateway through which CV extraction, question generation,
// answer scoring and report generation are delegated to an external model.
// It has no retry policy of its own; retries belong to the caller.
type Provider interface {
	ExtractProfile(ctx context.Context, rawText string) (*models.CVProfile, error)
	GenerateQuestions(ctx context.Context, profile *models.CVProfile, mode models.InterviewMode, difficulty models.Difficulty, count int) ([]models.Question, error)
	ScoreAnswer(ctx context.Context, question models.Question, answer models.Answer, mode models.InterviewMode, profile *models.CVProfile) (*models.AnswerScore, error)
	GenerateReport(ctx context.Context, scores []models.AnswerScore, profile *models.CVProfile, mode models.InterviewMode, sessionID string) (*models.InterviewResults, error)
	CoachingOverview(ctx context.Context, sessions []SessionDigest, candidateName string) (string, error)
	Close() error
}

// SessionDigest is the slice of a past session the coaching overview prompt needs.
type SessionDigest struct {
	Mode         string
	Difficulty   string
	Score        int
	Grade        string
	Strengths    []string
	Improvements []string
}

type Config struct {
	Provider  string // "gemini" | "vertex"
	APIKey    string
	ProjectID string
	Location  string
	Model     string
}

// textModel is the raw prompt-in/text-out capability each backend implements.
type textModel interface {
	generate(ctx context.Context, prompt string) (string, error)
	close() error
}

// New selects the concrete backend once from configuration.
func New(ctx context.Context, cfg Config) (Provider, error) {
	var (
		m   textModel
		err error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "gemini":
		m, err = newGeminiModel(ctx, cfg.APIKey, cfg.Model)
	case "vertex":
		m, err = newVertexModel(ctx, cfg.ProjectID, cfg.Location, cfg.Model)
	default:
		err = fmt.Errorf("unknown LLM provider %q (want gemini or vertex)", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return &client{model: m}, nil
}

type client struct {
	model textModel
}

func (c *client) Close() error { return c.model.close() }

func (c *client) ExtractProfile(ctx context.Context, rawText string) (*models.CVProfile, error) {
	out, err := c.model.generate(ctx, buildCVExtractionPrompt(rawText))
	if err != nil {
		return nil, fmt.Errorf("extract profile: %w", err)
	}

	var data struct {
		Name              string                  `json:"name"`
		CurrentRole       string                  `json:"current_role"`
		YearsOfExperience float64                 `json:"years_of_experience"`
		Skills            []string                `json:"skills"`
		WorkExperience    []models.WorkExperience `json:"work_experience"`
		Education         []models.Education      `json:"education"`
	}
	if err := decodeJSON(out, &data); err != nil {
		return nil, fmt.Errorf("extract profile: %w", err)
	}

	if data.Name == "" {
		data.Name = "Candidate"
	}
	return &models.CVProfile{
		Name:              data.Name,
		CurrentRole:       data.CurrentRole,
		YearsOfExperience: data.YearsOfExperience,
		Skills:            data.Skills,
		WorkExperience:    data.WorkExperience,
		Education:         data.Education,
		RawText:           rawText,
	}, nil
}

func (c *client) GenerateQuestions(ctx context.Context, profile *models.CVProfile, mode models.InterviewMode, difficulty models.Difficulty, count int) ([]models.Question, error) {
	out, err := c.model.generate(ctx, buildQuestionPrompt(profile, mode, difficulty, count))
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	var items []struct {
		Text         string `json:"text"`
		Category     string `json:"category"`
		FollowUpHint string `json:"follow_up_hint"`
	}
	if err := decodeJSON(out, &items); err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	questions := make([]models.Question, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Text) == "" {
			continue
		}
		category := item.Category
		if category == "" {
			category = "General"
		}
		questions = append(questions, models.Question{
			QuestionID:   uuid.NewString(),
			Text:         item.Text,
			Category:     category,
			FollowUpHint: item.FollowUpHint,
		})
	}
	return questions, nil
}

func (c *client) ScoreAnswer(ctx context.Context, question models.Question, answer models.Answer, mode models.InterviewMode, profile *models.CVProfile) (*models.AnswerScore, error) {
	out, err := c.model.generate(ctx, buildEvaluationPrompt(question, answer, mode, profile.Name))
	if err != nil {
		return nil, fmt.Errorf("score answer: %w", err)
	}

	var data struct {
		Score        int      `json:"score"`
		Feedback     string   `json:"feedback"`
		Strengths    []string `json:"strengths"`
		Improvements []string `json:"improvements"`
	}
	if err := decodeJSON(out, &data); err != nil {
		return nil, fmt.Errorf("score answer: %w", err)
	}

	return &models.AnswerScore{
		QuestionID:   question.QuestionID,
		QuestionText: question.Text,
		Transcript:   answer.Transcript,
		Score:        clampScore(data.Score),
		Feedback:     data.Feedback,
		Strengths:    data.Strengths,
		Improvements: data.Improvements,
	}, nil
}

func (c *client) GenerateReport(ctx context.Context, scores []models.AnswerScore, profile *models.CVProfile, mode models.InterviewMode, sessionID string) (*models.InterviewResults, error) {
	out, err := c.model.generate(ctx, buildReportPrompt(scores, profile, mode))
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}

	var data struct {
		OverallScore         int                    `json:"overall_score"`
		Grade                string                 `json:"grade"`
		CategoryScores       []models.CategoryScore `json:"category_scores"`
		TopStrengths         []string               `json:"top_strengths"`
		TopImprovements      []string               `json:"top_improvements"`
		RecommendedResources []models.Resource      `json:"recommended_resources"`
		Summary              string                 `json:"summary"`
	}
	if err := decodeJSON(out, &data); err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}

	overall := clampScore(data.OverallScore)
	grade := data.Grade
	if grade == "" {
		grade = models.ScoreToGrade(overall)
	}
	return &models.InterviewResults{
		SessionID:            sessionID,
		OverallScore:         overall,
		Grade:                grade,
		CategoryScores:       data.CategoryScores,
		AnswerReviews:        scores,
		TopStrengths:         data.TopStrengths,
		TopImprovements:      data.TopImprovements,
		RecommendedResources: data.RecommendedResources,
		Summary:              data.Summary,
	}, nil
}

func (c *client) CoachingOverview(ctx context.Context, sessions []SessionDigest, candidateName string) (string, error) {
	out, err := c.model.generate(ctx, buildOverviewPrompt(sessions, candidateName))
	if err != nil {
		return "", fmt.Errorf("coaching overview: %w", err)
	}

	var data struct {
		AIRecommendation string `json:"ai_recommendation"`
	}
	if err := decodeJSON(out, &data); err != nil {
		return "", fmt.Errorf("coaching overview: %w", err)
	}
	return data.AIRecommendation, nil
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
