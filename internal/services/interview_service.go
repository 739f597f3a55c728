package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mockmate/backend/internal/models"
	"github.com/mockmate/backend/internal/providers/llm"
	mongorepo "github.com/mockmate/backend/internal/repositories/mongo"
	pgrepo "github.com/mockmate/backend/internal/repositories/postgres"
	"github.com/mockmate/backend/internal/utils"
)

const (
	minQuestionCount = 1
	maxQuestionCount = 20
)

var validModes = map[models.InterviewMode]bool{
	models.ModeBehavioral:   true,
	models.ModeTechnical:    true,
	models.ModeSystemDesign: true,
	models.ModeMixed:        true,
	models.ModeHR:           true,
}

var validDifficulties = map[models.Difficulty]bool{
	models.DifficultyEasy:   true,
	models.DifficultyMedium: true,
	models.DifficultyHard:   true,
}

// StartResult is the first question plus enough context for the client to
// render progress.
type StartResult struct {
	SessionID      string          `json:"session_id"`
	Question       models.Question `json:"question"`
	QuestionNumber int             `json:"question_number"`
	TotalQuestions int             `json:"total_questions"`
}

type RespondResult struct {
	NextQuestion   *models.Question `json:"next_question,omitempty"`
	QuestionNumber int              `json:"question_number"`
	TotalQuestions int              `json:"total_questions"`
	IsFinal        bool             `json:"is_final"`
}

// ResultsView distinguishes "still evaluating" from finished results so the
// handler can answer 202 instead of 404 while the background run is in flight.
type ResultsView struct {
	Processing bool
	Results    *models.InterviewResults
}

type InterviewService interface {
	Start(ctx context.Context, cvToken string, mode models.InterviewMode, difficulty models.Difficulty, questionCount int, userID string) (*StartResult, error)
	Respond(ctx context.Context, sessionID, questionID, transcript string, durationSeconds float64) (*RespondResult, error)
	// End flips the session into evaluating and kicks off scoring in the
	// background. The returned channel closes when the run finishes; the HTTP
	// layer ignores it, tests wait on it.
	End(ctx context.Context, sessionID string) (<-chan struct{}, error)
	Results(ctx context.Context, sessionID string) (*ResultsView, error)
}

type interviewService struct {
	provider  llm.Provider
	profiles  CVProfileStore
	sessions  mongorepo.SessionRepository
	results   pgrepo.ResultsRepository
	evaluator *Evaluator
	log       *logrus.Logger
}

func NewInterviewService(provider llm.Provider, profiles CVProfileStore, sessions mongorepo.SessionRepository, results pgrepo.ResultsRepository, evaluator *Evaluator, log *logrus.Logger) InterviewService {
	return &interviewService{
		provider:  provider,
		profiles:  profiles,
		sessions:  sessions,
		results:   results,
		evaluator: evaluator,
		log:       log,
	}
}

func (s *interviewService) Start(ctx context.Context, cvToken string, mode models.InterviewMode, difficulty models.Difficulty, questionCount int, userID string) (*StartResult, error) {
	const op = "InterviewService.Start"

	if !validModes[mode] {
		return nil, utils.E(utils.CodeInvalidArgument, op, fmt.Sprintf("unknown interview mode %q", mode), nil)
	}
	if !validDifficulties[difficulty] {
		return nil, utils.E(utils.CodeInvalidArgument, op, fmt.Sprintf("unknown difficulty %q", difficulty), nil)
	}
	if questionCount < minQuestionCount || questionCount > maxQuestionCount {
		return nil, utils.E(utils.CodeInvalidArgument, op, fmt.Sprintf("question_count must be between %d and %d", minQuestionCount, maxQuestionCount), nil)
	}

	profile, ok, err := s.profiles.Find(ctx, cvToken)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load CV profile", err)
	}
	if !ok {
		return nil, utils.E(utils.CodeNotFound, op, "CV session not found or expired", nil)
	}

	questions, err := s.provider.GenerateQuestions(ctx, profile, mode, difficulty, questionCount)
	if err != nil {
		return nil, utils.E(utils.CodeGenerationFailed, op, "question generation failed", err)
	}
	if len(questions) < questionCount {
		return nil, utils.E(utils.CodeGenerationFailed, op,
			fmt.Sprintf("model returned %d questions, want %d", len(questions), questionCount), nil)
	}
	questions = questions[:questionCount]

	sess := &models.InterviewSession{
		SessionID:            uuid.NewString(),
		CVProfile:            *profile,
		Mode:                 mode,
		Difficulty:           difficulty,
		Questions:            questions,
		Answers:              []models.Answer{},
		CurrentQuestionIndex: 0,
		Status:               models.StatusActive,
		CreatedAt:            time.Now().UTC(),
		UserID:               userID,
	}
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist session", err)
	}

	s.log.WithFields(logrus.Fields{
		"session_id": sess.SessionID,
		"mode":       mode,
		"difficulty": difficulty,
		"questions":  questionCount,
	}).Info("interview session started")

	return &StartResult{
		SessionID:      sess.SessionID,
		Question:       questions[0],
		QuestionNumber: 1,
		TotalQuestions: len(questions),
	}, nil
}

func (s *interviewService) Respond(ctx context.Context, sessionID, questionID, transcript string, durationSeconds float64) (*RespondResult, error) {
	const op = "InterviewService.Respond"

	sess, err := s.getSession(ctx, op, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status != models.StatusActive {
		return nil, utils.E(utils.CodeConflict, op,
			fmt.Sprintf("session is %s, not accepting answers", sess.Status), nil)
	}

	// The answer is recorded against whichever question id the client sent;
	// the cursor advances regardless. Mismatched ids get dropped at scoring.
	sess.Answers = append(sess.Answers, models.Answer{
		QuestionID:      questionID,
		Transcript:      transcript,
		DurationSeconds: durationSeconds,
	})
	sess.CurrentQuestionIndex++

	res := &RespondResult{TotalQuestions: len(sess.Questions)}
	if sess.CurrentQuestionIndex < len(sess.Questions) {
		next := sess.Questions[sess.CurrentQuestionIndex]
		res.NextQuestion = &next
		res.QuestionNumber = sess.CurrentQuestionIndex + 1
	} else {
		sess.Status = models.StatusCompleted
		res.QuestionNumber = len(sess.Questions)
		res.IsFinal = true
	}

	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist session", err)
	}
	return res, nil
}

func (s *interviewService) End(ctx context.Context, sessionID string) (<-chan struct{}, error) {
	const op = "InterviewService.End"

	sess, err := s.getSession(ctx, op, sessionID)
	if err != nil {
		return nil, err
	}
	switch sess.Status {
	case models.StatusActive, models.StatusCompleted:
		// fallthrough to evaluation
	default:
		return nil, utils.E(utils.CodeConflict, op,
			fmt.Sprintf("session is already %s", sess.Status), nil)
	}
	if len(sess.Answers) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session has no answers to evaluate", nil)
	}

	sess.Status = models.StatusEvaluating
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist session", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		// detached from the request context on purpose; the client is long gone
		_ = s.evaluator.Run(context.Background(), sess)
	}()
	return done, nil
}

func (s *interviewService) Results(ctx context.Context, sessionID string) (*ResultsView, error) {
	const op = "InterviewService.Results"

	sess, err := s.getSession(ctx, op, sessionID)
	if err != nil {
		return nil, err
	}

	switch sess.Status {
	case models.StatusEvaluating:
		return &ResultsView{Processing: true}, nil
	case models.StatusError:
		return nil, utils.E(utils.CodeEvaluationFailed, op, "evaluation failed for this session", nil)
	}

	// Any other status reads through to the results row. A session still being
	// answered has no row yet and polls as processing, same as evaluating.

	rec, err := s.results.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			// status flipped before the row landed; treat as still in flight
			return &ResultsView{Processing: true}, nil
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load results", err)
	}

	results, err := rec.Results()
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to decode results", err)
	}
	return &ResultsView{Results: results}, nil
}

func (s *interviewService) getSession(ctx context.Context, op, sessionID string) (*models.InterviewSession, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "interview session not found or expired", nil)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load session", err)
	}
	return sess, nil
}
