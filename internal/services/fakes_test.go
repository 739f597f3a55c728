package services

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/mockmate/backend/internal/models"
	"github.com/mockmate/backend/internal/providers/llm"
	"github.com/mockmate/backend/internal/utils"
)

// testClock lets TTL behavior be tested without sleeping.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fakeProvider struct {
	questions  []models.Question
	genErr     error
	scoreFn    func(q models.Question, a models.Answer) (*models.AnswerScore, error)
	reportFn   func(scores []models.AnswerScore, sessionID string) (*models.InterviewResults, error)
	overviewFn func(sessions []llm.SessionDigest) (string, error)
}

func (f *fakeProvider) ExtractProfile(ctx context.Context, rawText string) (*models.CVProfile, error) {
	return &models.CVProfile{Name: "Ada", CurrentRole: "Engineer"}, nil
}

func (f *fakeProvider) GenerateQuestions(ctx context.Context, profile *models.CVProfile, mode models.InterviewMode, difficulty models.Difficulty, count int) ([]models.Question, error) {
	if f.genErr != nil {
		return nil, f.genErr
	}
	return f.questions, nil
}

func (f *fakeProvider) ScoreAnswer(ctx context.Context, question models.Question, answer models.Answer, mode models.InterviewMode, profile *models.CVProfile) (*models.AnswerScore, error) {
	if f.scoreFn != nil {
		return f.scoreFn(question, answer)
	}
	return &models.AnswerScore{QuestionID: question.QuestionID, QuestionText: question.Text, Score: 80}, nil
}

func (f *fakeProvider) GenerateReport(ctx context.Context, scores []models.AnswerScore, profile *models.CVProfile, mode models.InterviewMode, sessionID string) (*models.InterviewResults, error) {
	if f.reportFn != nil {
		return f.reportFn(scores, sessionID)
	}
	total := 0
	for _, s := range scores {
		total += s.Score
	}
	overall := 0
	if len(scores) > 0 {
		overall = total / len(scores)
	}
	return &models.InterviewResults{
		SessionID:     sessionID,
		OverallScore:  overall,
		Grade:         models.ScoreToGrade(overall),
		AnswerReviews: scores,
	}, nil
}

func (f *fakeProvider) CoachingOverview(ctx context.Context, sessions []llm.SessionDigest, candidateName string) (string, error) {
	if f.overviewFn != nil {
		return f.overviewFn(sessions)
	}
	return "keep practicing", nil
}

func (f *fakeProvider) Close() error { return nil }

// memSessionRepo mimics the Mongo store including its read-time TTL filter.
type memSessionRepo struct {
	mu    sync.Mutex
	ttl   time.Duration
	clock *testClock
	docs  map[string]models.InterviewSession
}

func newMemSessionRepo(ttl time.Duration, clock *testClock) *memSessionRepo {
	return &memSessionRepo{ttl: ttl, clock: clock, docs: map[string]models.InterviewSession{}}
}

func (r *memSessionRepo) Put(ctx context.Context, s *models.InterviewSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = r.clock.Now()
	}
	cp.ExpiresAt = r.clock.Now().Add(r.ttl)
	r.docs[cp.SessionID] = cp
	return nil
}

func (r *memSessionRepo) Get(ctx context.Context, sessionID string) (*models.InterviewSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[sessionID]
	if !ok || !doc.ExpiresAt.After(r.clock.Now()) {
		return nil, utils.ErrNotFound
	}
	cp := doc
	return &cp, nil
}

type memResultsRepo struct {
	mu   sync.Mutex
	rows map[string]models.InterviewResultRecord
}

func newMemResultsRepo() *memResultsRepo {
	return &memResultsRepo{rows: map[string]models.InterviewResultRecord{}}
}

func (r *memResultsRepo) Upsert(ctx context.Context, rec *models.InterviewResultRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[rec.SessionID] = *rec
	return nil
}

func (r *memResultsRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.InterviewResultRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[sessionID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := row
	return &cp, nil
}

func (r *memResultsRepo) ListByUser(ctx context.Context, userID string) ([]models.InterviewResultRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.InterviewResultRecord
	for _, row := range r.rows {
		if row.UserID != nil && *row.UserID == userID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memResultsRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type cacheItem struct {
	data []byte
	exp  time.Time
}

// memCache implements cache.Cache with real expiry against the test clock.
type memCache struct {
	mu    sync.Mutex
	clock *testClock
	items map[string]cacheItem
}

func newMemCache(clock *testClock) *memCache {
	return &memCache{clock: clock, items: map[string]cacheItem{}}
}

func (c *memCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[key]
	if !ok || !item.exp.After(c.clock.Now()) {
		return false, nil
	}
	return true, json.Unmarshal(item.data, dst)
}

func (c *memCache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = cacheItem{data: data, exp: c.clock.Now().Add(ttl)}
	return nil
}

func (c *memCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

func testQuestions(n int) []models.Question {
	qs := make([]models.Question, n)
	for i := range qs {
		qs[i] = models.Question{
			QuestionID: string(rune('a' + i)),
			Text:       "question",
			Category:   "General",
		}
	}
	return qs
}
