package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mockmate/backend/internal/models"
	"github.com/mockmate/backend/internal/utils"
)

type interviewFixture struct {
	clock    *testClock
	provider *fakeProvider
	profiles CVProfileStore
	sessions *memSessionRepo
	results  *memResultsRepo
	svc      InterviewService
}

func newInterviewFixture(t *testing.T, provider *fakeProvider) *interviewFixture {
	t.Helper()

	clock := newTestClock()
	log := logrus.New()
	log.SetOutput(io.Discard)

	sessions := newMemSessionRepo(2*time.Hour, clock)
	results := newMemResultsRepo()
	profiles := NewCVProfileStore(newMemCache(clock), 30*time.Minute)
	evaluator := NewEvaluator(provider, sessions, results, log)

	return &interviewFixture{
		clock:    clock,
		provider: provider,
		profiles: profiles,
		sessions: sessions,
		results:  results,
		svc:      NewInterviewService(provider, profiles, sessions, results, evaluator, log),
	}
}

func (f *interviewFixture) saveProfile(t *testing.T) string {
	t.Helper()
	token, err := f.profiles.Save(context.Background(), &models.CVProfile{Name: "Ada"})
	require.NoError(t, err)
	return token
}

func TestInterviewHappyPath(t *testing.T) {
	ctx := context.Background()
	f := newInterviewFixture(t, &fakeProvider{questions: testQuestions(3)})
	token := f.saveProfile(t)

	start, err := f.svc.Start(ctx, token, models.ModeBehavioral, models.DifficultyMedium, 3, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, start.QuestionNumber)
	assert.Equal(t, 3, start.TotalQuestions)
	assert.Equal(t, "a", start.Question.QuestionID)

	// answer k leaves the cursor at k
	questionIDs := []string{"a", "b", "c"}
	for i, qid := range questionIDs {
		res, err := f.svc.Respond(ctx, start.SessionID, qid, "my answer", 30)
		require.NoError(t, err)

		sess, err := f.sessions.Get(ctx, start.SessionID)
		require.NoError(t, err)
		assert.Equal(t, i+1, sess.CurrentQuestionIndex)

		if i < len(questionIDs)-1 {
			assert.False(t, res.IsFinal)
			require.NotNil(t, res.NextQuestion)
			assert.Equal(t, questionIDs[i+1], res.NextQuestion.QuestionID)
			assert.Equal(t, models.StatusActive, sess.Status)
		} else {
			assert.True(t, res.IsFinal)
			assert.Nil(t, res.NextQuestion)
			assert.Equal(t, models.StatusCompleted, sess.Status)
		}
	}

	done, err := f.svc.End(ctx, start.SessionID)
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("evaluation did not finish")
	}

	sess, err := f.sessions.Get(ctx, start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEvaluated, sess.Status)

	view, err := f.svc.Results(ctx, start.SessionID)
	require.NoError(t, err)
	require.False(t, view.Processing)
	require.NotNil(t, view.Results)
	assert.Equal(t, 80, view.Results.OverallScore)
	assert.Equal(t, "B", view.Results.Grade)
	assert.Len(t, view.Results.AnswerReviews, 3)
}

func TestStartValidation(t *testing.T) {
	ctx := context.Background()
	f := newInterviewFixture(t, &fakeProvider{questions: testQuestions(3)})
	token := f.saveProfile(t)

	t.Run("unknown mode", func(t *testing.T) {
		_, err := f.svc.Start(ctx, token, "speedrun", models.DifficultyMedium, 3, "")
		assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
	})

	t.Run("question count out of range", func(t *testing.T) {
		_, err := f.svc.Start(ctx, token, models.ModeBehavioral, models.DifficultyMedium, 21, "")
		assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := f.svc.Start(ctx, "nope", models.ModeBehavioral, models.DifficultyMedium, 3, "")
		assert.True(t, utils.IsCode(err, utils.CodeNotFound))
	})

	t.Run("expired token behaves like a missing one", func(t *testing.T) {
		tok := f.saveProfile(t)
		f.clock.Advance(31 * time.Minute)
		_, err := f.svc.Start(ctx, tok, models.ModeBehavioral, models.DifficultyMedium, 3, "")
		assert.True(t, utils.IsCode(err, utils.CodeNotFound))
	})

	t.Run("model returning too few questions is a hard failure", func(t *testing.T) {
		short := newInterviewFixture(t, &fakeProvider{questions: testQuestions(2)})
		tok := short.saveProfile(t)
		_, err := short.svc.Start(ctx, tok, models.ModeBehavioral, models.DifficultyMedium, 3, "")
		assert.True(t, utils.IsCode(err, utils.CodeGenerationFailed))
	})
}

func TestRespondConflicts(t *testing.T) {
	ctx := context.Background()
	f := newInterviewFixture(t, &fakeProvider{questions: testQuestions(1)})
	token := f.saveProfile(t)

	start, err := f.svc.Start(ctx, token, models.ModeTechnical, models.DifficultyEasy, 1, "")
	require.NoError(t, err)

	res, err := f.svc.Respond(ctx, start.SessionID, "a", "answer", 10)
	require.NoError(t, err)
	assert.True(t, res.IsFinal)

	// session is completed, further answers conflict
	_, err = f.svc.Respond(ctx, start.SessionID, "a", "again", 10)
	assert.True(t, utils.IsCode(err, utils.CodeConflict))

	_, err = f.svc.Respond(ctx, "missing", "a", "answer", 10)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestEndStateChecks(t *testing.T) {
	ctx := context.Background()
	f := newInterviewFixture(t, &fakeProvider{questions: testQuestions(2)})
	token := f.saveProfile(t)

	start, err := f.svc.Start(ctx, token, models.ModeMixed, models.DifficultyHard, 2, "")
	require.NoError(t, err)

	t.Run("zero answers rejected", func(t *testing.T) {
		_, err := f.svc.End(ctx, start.SessionID)
		assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
	})

	_, err = f.svc.Respond(ctx, start.SessionID, "a", "partial answer", 20)
	require.NoError(t, err)

	t.Run("ending an active session with answers works", func(t *testing.T) {
		done, err := f.svc.End(ctx, start.SessionID)
		require.NoError(t, err)
		<-done
	})

	t.Run("ending twice conflicts", func(t *testing.T) {
		_, err := f.svc.End(ctx, start.SessionID)
		assert.True(t, utils.IsCode(err, utils.CodeConflict))
	})
}

func TestEvaluationFailureNeverPersistsPartialResults(t *testing.T) {
	ctx := context.Background()

	provider := &fakeProvider{
		questions: testQuestions(3),
		scoreFn: func(q models.Question, a models.Answer) (*models.AnswerScore, error) {
			if q.QuestionID == "b" {
				return nil, errors.New("model timeout")
			}
			return &models.AnswerScore{QuestionID: q.QuestionID, Score: 75}, nil
		},
	}
	f := newInterviewFixture(t, provider)
	token := f.saveProfile(t)

	start, err := f.svc.Start(ctx, token, models.ModeBehavioral, models.DifficultyMedium, 3, "")
	require.NoError(t, err)
	for _, qid := range []string{"a", "b", "c"} {
		_, err := f.svc.Respond(ctx, start.SessionID, qid, "answer", 15)
		require.NoError(t, err)
	}

	done, err := f.svc.End(ctx, start.SessionID)
	require.NoError(t, err)
	<-done

	sess, err := f.sessions.Get(ctx, start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusError, sess.Status)
	assert.Zero(t, f.results.count(), "no partial results may be written")

	_, err = f.svc.Results(ctx, start.SessionID)
	assert.True(t, utils.IsCode(err, utils.CodeEvaluationFailed))
}

func TestResultsWhileInterviewInProgress(t *testing.T) {
	ctx := context.Background()
	f := newInterviewFixture(t, &fakeProvider{questions: testQuestions(2)})
	token := f.saveProfile(t)

	start, err := f.svc.Start(ctx, token, models.ModeBehavioral, models.DifficultyMedium, 2, "")
	require.NoError(t, err)

	t.Run("polling an active session reads as processing", func(t *testing.T) {
		view, err := f.svc.Results(ctx, start.SessionID)
		require.NoError(t, err)
		assert.True(t, view.Processing)
	})

	for _, qid := range []string{"a", "b"} {
		_, err := f.svc.Respond(ctx, start.SessionID, qid, "answer", 10)
		require.NoError(t, err)
	}

	t.Run("polling a completed session before end reads as processing", func(t *testing.T) {
		view, err := f.svc.Results(ctx, start.SessionID)
		require.NoError(t, err)
		assert.True(t, view.Processing)
	})
}

func TestResultsRaceTolerance(t *testing.T) {
	ctx := context.Background()
	f := newInterviewFixture(t, &fakeProvider{questions: testQuestions(1)})
	token := f.saveProfile(t)

	start, err := f.svc.Start(ctx, token, models.ModeHR, models.DifficultyEasy, 1, "")
	require.NoError(t, err)

	sess, err := f.sessions.Get(ctx, start.SessionID)
	require.NoError(t, err)

	t.Run("evaluating reads as processing", func(t *testing.T) {
		sess.Status = models.StatusEvaluating
		require.NoError(t, f.sessions.Put(ctx, sess))

		view, err := f.svc.Results(ctx, start.SessionID)
		require.NoError(t, err)
		assert.True(t, view.Processing)
	})

	t.Run("evaluated without a row reads as processing", func(t *testing.T) {
		sess.Status = models.StatusEvaluated
		require.NoError(t, f.sessions.Put(ctx, sess))

		view, err := f.svc.Results(ctx, start.SessionID)
		require.NoError(t, err)
		assert.True(t, view.Processing)
	})
}
