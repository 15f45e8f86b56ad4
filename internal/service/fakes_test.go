package service

import (
	"context"
	"sync"

	"identitymap/internal/model"
	"identitymap/internal/registry"
)

// In-memory stand-ins for the Mongo repositories and Redis caches.
// They keep insertion order so rank and modal computations are
// deterministic in tests.

type fakeAnswerRepo struct {
	mu   sync.Mutex
	rows []*model.Answer
}

func newFakeAnswerRepo() *fakeAnswerRepo {
	return &fakeAnswerRepo{}
}

func (r *fakeAnswerRepo) Upsert(ctx context.Context, answer *model.Answer) (*model.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, row := range r.rows {
		if row.UserID == answer.UserID && row.QuestionID == answer.QuestionID {
			previous := *row
			r.rows[i] = answer
			return &previous, nil
		}
	}
	r.rows = append(r.rows, answer)
	return nil, nil
}

func (r *fakeAnswerRepo) GetUserAnswers(ctx context.Context, userID string) (map[string]model.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]model.Answer)
	for _, row := range r.rows {
		if row.UserID == userID {
			out[row.QuestionID] = *row
		}
	}
	return out, nil
}

func (r *fakeAnswerRepo) GetQuestionAnswers(ctx context.Context, questionID string) ([]model.QuestionAnswer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.QuestionAnswer
	for _, row := range r.rows {
		if row.QuestionID == questionID {
			out = append(out, model.QuestionAnswer{
				UserID:     row.UserID,
				Value:      row.Value,
				AnsweredAt: row.AnsweredAt,
			})
		}
	}
	return out, nil
}

func (r *fakeAnswerRepo) ListUsers(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool)
	var users []string
	for _, row := range r.rows {
		if !seen[row.UserID] {
			seen[row.UserID] = true
			users = append(users, row.UserID)
		}
	}
	return users, nil
}

type fakeScoreCache struct {
	mu     sync.Mutex
	scores map[string]map[string]float64
}

func newFakeScoreCache() *fakeScoreCache {
	return &fakeScoreCache{scores: make(map[string]map[string]float64)}
}

func (c *fakeScoreCache) SaveUserScores(ctx context.Context, userID string, scores map[string]float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scores[userID] == nil {
		c.scores[userID] = make(map[string]float64)
	}
	for questionID, score := range scores {
		c.scores[userID][questionID] = score
	}
	return nil
}

func (c *fakeScoreCache) GetUserScores(ctx context.Context, userID string) (map[string]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]float64, len(c.scores[userID]))
	for questionID, score := range c.scores[userID] {
		out[questionID] = score
	}
	return out, nil
}

type fakeStatsCache struct {
	mu    sync.Mutex
	stats map[string]map[string]int64
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{stats: make(map[string]map[string]int64)}
}

func (c *fakeStatsCache) Increment(ctx context.Context, questionID, tallyKey string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stats[questionID] == nil {
		c.stats[questionID] = make(map[string]int64)
	}
	c.stats[questionID][tallyKey]++
	return nil
}

func (c *fakeStatsCache) Decrement(ctx context.Context, questionID, tallyKey string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stats[questionID] == nil {
		return nil
	}
	c.stats[questionID][tallyKey]--
	if c.stats[questionID][tallyKey] <= 0 {
		delete(c.stats[questionID], tallyKey)
	}
	return nil
}

func (c *fakeStatsCache) GetQuestionStats(ctx context.Context, questionID string) (map[string]int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int64, len(c.stats[questionID]))
	for key, count := range c.stats[questionID] {
		out[key] = count
	}
	return out, nil
}

type fakeAxesCache struct {
	mu    sync.Mutex
	raw   map[string]model.AxisPoint
	final map[string]model.AxisPoint
}

func newFakeAxesCache() *fakeAxesCache {
	return &fakeAxesCache{
		raw:   make(map[string]model.AxisPoint),
		final: make(map[string]model.AxisPoint),
	}
}

func (c *fakeAxesCache) SaveRawAxes(ctx context.Context, userID string, point model.AxisPoint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.raw[userID] = point
	return nil
}

func (c *fakeAxesCache) GetRawAxes(ctx context.Context, userID string) (model.AxisPoint, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.raw[userID], nil
}

func (c *fakeAxesCache) GetAllRawAxes(ctx context.Context) ([]model.AxisPoint, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.AxisPoint, 0, len(c.raw))
	for _, p := range c.raw {
		out = append(out, p)
	}
	return out, nil
}

func (c *fakeAxesCache) SaveFinalAxes(ctx context.Context, userID string, point model.AxisPoint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.final[userID] = point
	return nil
}

func (c *fakeAxesCache) GetFinalAxes(ctx context.Context, userID string) (model.AxisPoint, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.final[userID], nil
}

func (c *fakeAxesCache) GetAllFinalAxes(ctx context.Context) ([]model.AxisPoint, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.AxisPoint, 0, len(c.final))
	for _, p := range c.final {
		out = append(out, p)
	}
	return out, nil
}

type fakeQuestionScoreRepo struct {
	mu     sync.Mutex
	scores map[string]*model.QuestionScore
}

func newFakeQuestionScoreRepo() *fakeQuestionScoreRepo {
	return &fakeQuestionScoreRepo{scores: make(map[string]*model.QuestionScore)}
}

func (r *fakeQuestionScoreRepo) Save(ctx context.Context, score *model.QuestionScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scores[score.QuestionID] = score
	return nil
}

func (r *fakeQuestionScoreRepo) Get(ctx context.Context, questionID string) (*model.QuestionScore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scores[questionID], nil
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (b *fakeBroadcaster) BroadcastToDashboards(msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, msgType)
}

func (b *fakeBroadcaster) Events() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.events...)
}

// testEngine wires the full service stack over the in-memory fakes
type testEngine struct {
	answers *fakeAnswerRepo
	scores  *fakeScoreCache
	stats   *fakeStatsCache
	axes    *fakeAxesCache
	qscores *fakeQuestionScoreRepo
	reg     *registry.Registry

	scoreSvc  *ScoreService
	axesSvc   *AxesService
	recalcSvc *RecalcService
	answerSvc *AnswerService
}

func newTestEngine(reg *registry.Registry) *testEngine {
	e := &testEngine{
		answers: newFakeAnswerRepo(),
		scores:  newFakeScoreCache(),
		stats:   newFakeStatsCache(),
		axes:    newFakeAxesCache(),
		qscores: newFakeQuestionScoreRepo(),
		reg:     reg,
	}
	e.scoreSvc = NewScoreService(e.answers, e.scores, e.stats, e.qscores, reg)
	e.axesSvc = NewAxesService(e.answers, e.scores, e.axes, reg)
	e.recalcSvc = NewRecalcService(e.answers, e.scoreSvc, e.axesSvc, reg)
	e.answerSvc = NewAnswerService(e.answers, e.stats, e.scoreSvc, e.axesSvc, e.recalcSvc, reg)
	return e
}

// seed stores an answer directly and keeps the tallies in step, the
// same bookkeeping Submit does, without triggering any recalculation.
func (e *testEngine) seed(ctx context.Context, userID, questionID string, value model.AnswerValue) {
	previous, _ := e.answers.Upsert(ctx, &model.Answer{
		UserID:     userID,
		QuestionID: questionID,
		Value:      value,
	})
	if value.Kind != model.ValueNumber {
		if previous != nil && previous.Value.Kind != model.ValueNumber {
			e.stats.Decrement(ctx, questionID, previous.Value.TallyKey())
		}
		e.stats.Increment(ctx, questionID, value.TallyKey())
	}
}
