package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mockmate/backend/internal/models"
	"github.com/mockmate/backend/internal/providers/llm"
	mongorepo "github.com/mockmate/backend/internal/repositories/mongo"
	pgrepo "github.com/mockmate/backend/internal/repositories/postgres"
)

// Evaluator turns a completed session into persisted results. Scoring is
// all-or-nothing: if any answer fails to score, no results row is written and
// the session lands in the error state.
type Evaluator struct {
	provider llm.Provider
	sessions mongorepo.SessionRepository
	results  pgrepo.ResultsRepository
	log      *logrus.Logger
}

func NewEvaluator(provider llm.Provider, sessions mongorepo.SessionRepository, results pgrepo.ResultsRepository, log *logrus.Logger) *Evaluator {
	return &Evaluator{provider: provider, sessions: sessions, results: results, log: log}
}

// Run evaluates the session and always finishes with a terminal status write,
// evaluated on success, error otherwise.
func (e *Evaluator) Run(ctx context.Context, sess *models.InterviewSession) error {
	err := e.evaluate(ctx, sess)
	if err != nil {
		e.log.WithError(err).WithField("session_id", sess.SessionID).Error("session evaluation failed")
		sess.Status = models.StatusError
	} else {
		sess.Status = models.StatusEvaluated
	}

	if perr := e.sessions.Put(ctx, sess); perr != nil {
		// Without this write the session is stuck in "evaluating" until the
		// TTL sweeps it; operators need to know.
		e.log.WithError(perr).WithField("session_id", sess.SessionID).Error("failed to persist terminal session status")
		if err == nil {
			err = perr
		}
	}
	return err
}

func (e *Evaluator) evaluate(ctx context.Context, sess *models.InterviewSession) error {
	questionByID := make(map[string]models.Question, len(sess.Questions))
	for _, q := range sess.Questions {
		questionByID[q.QuestionID] = q
	}

	type pair struct {
		question models.Question
		answer   models.Answer
	}
	var pairs []pair
	for _, a := range sess.Answers {
		q, ok := questionByID[a.QuestionID]
		if !ok {
			// an answer that references no known question is dropped, not scored
			e.log.WithFields(logrus.Fields{
				"session_id":  sess.SessionID,
				"question_id": a.QuestionID,
			}).Warn("answer references unknown question, skipping")
			continue
		}
		pairs = append(pairs, pair{question: q, answer: a})
	}
	if len(pairs) == 0 {
		return fmt.Errorf("session %s has no scorable answers", sess.SessionID)
	}

	scores := make([]models.AnswerScore, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range pairs {
		g.Go(func() error {
			score, err := e.provider.ScoreAnswer(gctx, p.question, p.answer, sess.Mode, &sess.CVProfile)
			if err != nil {
				return fmt.Errorf("score answer %s: %w", p.question.QuestionID, err)
			}
			scores[i] = *score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	results, err := e.provider.GenerateReport(ctx, scores, &sess.CVProfile, sess.Mode, sess.SessionID)
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	rec, err := models.NewInterviewResultRecord(results, sess.UserID, sess.Mode, sess.Difficulty)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	if err := e.results.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("persist results: %w", err)
	}
	return nil
}
