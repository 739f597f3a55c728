package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mockmate/backend/internal/models"
	"github.com/mockmate/backend/internal/providers/llm"
	pgrepo "github.com/mockmate/backend/internal/repositories/postgres"
	"github.com/mockmate/backend/internal/utils"
)

// Overview aggregates a user's interview history with an AI coaching note.
type Overview struct {
	TotalSessions          int                     `json:"total_sessions"`
	AverageScore           float64                 `json:"average_score"`
	BestScore              int                     `json:"best_score"`
	WorstScore             int                     `json:"worst_score"`
	MostCommonStrengths    []string                `json:"most_common_strengths"`
	MostCommonImprovements []string                `json:"most_common_improvements"`
	AIRecommendation       string                  `json:"ai_recommendation"`
	Sessions               []models.SessionSummary `json:"sessions"`
}

type UserService interface {
	History(ctx context.Context, userID string) ([]models.SessionSummary, error)
	Overview(ctx context.Context, userID string) (*Overview, error)
}

type userService struct {
	results  pgrepo.ResultsRepository
	provider llm.Provider
	users    pgrepo.UserRepository
	log      *logrus.Logger
}

func NewUserService(results pgrepo.ResultsRepository, users pgrepo.UserRepository, provider llm.Provider, log *logrus.Logger) UserService {
	return &userService{results: results, users: users, provider: provider, log: log}
}

// History lists a user's evaluated sessions, newest first.
func (s *userService) History(ctx context.Context, userID string) ([]models.SessionSummary, error) {
	const op = "UserService.History"

	recs, err := s.results.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load history", err)
	}

	summaries := make([]models.SessionSummary, 0, len(recs))
	for _, rec := range recs {
		sum, err := summarize(&rec)
		if err != nil {
			// a single corrupt row should not take down the whole listing
			s.log.WithError(err).WithField("session_id", rec.SessionID).Warn("skipping undecodable result row")
			continue
		}
		summaries = append(summaries, *sum)
	}

	// repository orders oldest first
	for i, j := 0, len(summaries)-1; i < j; i, j = i+1, j-1 {
		summaries[i], summaries[j] = summaries[j], summaries[i]
	}
	return summaries, nil
}

func (s *userService) Overview(ctx context.Context, userID string) (*Overview, error) {
	const op = "UserService.Overview"

	recs, err := s.results.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load history", err)
	}
	if len(recs) == 0 {
		return &Overview{Sessions: []models.SessionSummary{}}, nil
	}

	var (
		summaries []models.SessionSummary
		digests   []llm.SessionDigest
		total     int
		best      = 0
		worst     = 101
		strengths = map[string]int{}
		improves  = map[string]int{}
	)
	for _, rec := range recs {
		sum, err := summarize(&rec)
		if err != nil {
			s.log.WithError(err).WithField("session_id", rec.SessionID).Warn("skipping undecodable result row")
			continue
		}
		summaries = append(summaries, *sum)

		total += sum.OverallScore
		if sum.OverallScore > best {
			best = sum.OverallScore
		}
		if sum.OverallScore < worst {
			worst = sum.OverallScore
		}
		for _, v := range rec.TopStrengths {
			strengths[v]++
		}
		for _, v := range rec.TopImprovements {
			improves[v]++
		}
		digests = append(digests, llm.SessionDigest{
			Mode:         sum.Mode,
			Difficulty:   sum.Difficulty,
			Score:        sum.OverallScore,
			Grade:        sum.Grade,
			Strengths:    rec.TopStrengths,
			Improvements: rec.TopImprovements,
		})
	}
	if len(summaries) == 0 {
		return &Overview{Sessions: []models.SessionSummary{}}, nil
	}

	out := &Overview{
		TotalSessions:          len(summaries),
		AverageScore:           float64(total) / float64(len(summaries)),
		BestScore:              best,
		WorstScore:             worst,
		MostCommonStrengths:    topByCount(strengths, 3),
		MostCommonImprovements: topByCount(improves, 3),
		Sessions:               summaries,
	}

	// coaching note covers the most recent sessions only
	if len(digests) > 10 {
		digests = digests[len(digests)-10:]
	}
	candidate := s.candidateName(ctx, userID)
	note, err := s.provider.CoachingOverview(ctx, digests, candidate)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("coaching overview generation failed, using fallback")
		note = fmt.Sprintf("You have completed %d interview session(s) with an average score of %.0f. Keep practicing to improve further.",
			out.TotalSessions, out.AverageScore)
	}
	out.AIRecommendation = note
	return out, nil
}

func (s *userService) candidateName(ctx context.Context, userID string) string {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil || u.DisplayName == "" {
		return "Candidate"
	}
	return u.DisplayName
}

func summarize(rec *models.InterviewResultRecord) (*models.SessionSummary, error) {
	res, err := rec.Results()
	if err != nil {
		return nil, err
	}
	return &models.SessionSummary{
		SessionID:       rec.SessionID,
		Mode:            rec.Mode,
		Difficulty:      rec.Difficulty,
		OverallScore:    res.OverallScore,
		Grade:           res.Grade,
		TotalQuestions:  len(res.AnswerReviews),
		Date:            rec.CreatedAt.UTC().Format(time.RFC3339),
		TopStrengths:    firstN(res.TopStrengths, 3),
		TopImprovements: firstN(res.TopImprovements, 3),
	}, nil
}

func firstN(in []string, n int) []string {
	if len(in) <= n {
		return in
	}
	return in[:n]
}

// topByCount returns the n most frequent keys, ties broken alphabetically so
// the output is stable.
func topByCount(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
