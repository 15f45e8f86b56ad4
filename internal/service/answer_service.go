package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"identitymap/internal/cache"
	"identitymap/internal/model"
	"identitymap/internal/registry"
	"identitymap/internal/repository"
)

var (
	ErrUnknownQuestion = errors.New("unknown question")
	ErrValueType       = errors.New("answer value does not match question type")
)

// AnswerService handles answer submission and the read surfaces built
// directly on raw answers.
type AnswerService struct {
	answers     repository.AnswerRepo
	stats       cache.StatsCache
	scoreSvc    *ScoreService
	axesSvc     *AxesService
	recalcSvc   *RecalcService
	registry    *registry.Registry
	broadcaster Broadcaster
}

// NewAnswerService creates a new answer service
func NewAnswerService(
	answers repository.AnswerRepo,
	stats cache.StatsCache,
	scoreSvc *ScoreService,
	axesSvc *AxesService,
	recalcSvc *RecalcService,
	reg *registry.Registry,
) *AnswerService {
	return &AnswerService{
		answers:   answers,
		stats:     stats,
		scoreSvc:  scoreSvc,
		axesSvc:   axesSvc,
		recalcSvc: recalcSvc,
		registry:  reg,
	}
}

// SetBroadcaster sets the broadcaster for dashboard events
func (s *AnswerService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Submit stores one answer (overwriting any previous answer to the
// same question), keeps vote tallies in step, rescores the submitting
// user, and runs the full batch recalculation when the question feeds
// any population-relative computation.
func (s *AnswerService) Submit(ctx context.Context, req *model.SubmitAnswerRequest) (*model.SubmitAnswerResponse, error) {
	q := s.registry.Get(req.QuestionID)
	if q == nil {
		return nil, ErrUnknownQuestion
	}

	value, err := ParseValue(q, req.Value)
	if err != nil {
		return nil, err
	}

	answer := &model.Answer{
		UserID:     req.UserID,
		QuestionID: req.QuestionID,
		Value:      value,
		AnsweredAt: time.Now(),
	}

	previous, err := s.answers.Upsert(ctx, answer)
	if err != nil {
		return nil, fmt.Errorf("failed to save answer: %w", err)
	}

	// Numeric answers are ranked from the answer pool itself; only
	// option and combo answers are tallied.
	if value.Kind != model.ValueNumber {
		if previous != nil && previous.Value.Kind != model.ValueNumber {
			if err := s.stats.Decrement(ctx, q.ID, previous.Value.TallyKey()); err != nil {
				return nil, fmt.Errorf("failed to update tallies: %w", err)
			}
		}
		if err := s.stats.Increment(ctx, q.ID, value.TallyKey()); err != nil {
			return nil, fmt.Errorf("failed to update tallies: %w", err)
		}
	}

	// Opportunistic user-local refresh; cheap even for rank rules
	scores, err := s.scoreSvc.CalculateUserScores(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if _, err := s.axesSvc.CalculateAxesScores(ctx, req.UserID); err != nil {
		return nil, err
	}

	recalculated := false
	if s.populationRelative(q) {
		if err := s.recalcSvc.RecalculateAll(ctx); err != nil {
			return nil, err
		}
		recalculated = true

		if s.broadcaster != nil {
			if avg, err := s.axesSvc.GetAverageAxesScores(ctx); err == nil {
				s.broadcaster.BroadcastToDashboards(EventPopulationUpdate, map[string]interface{}{
					"questionId": q.ID,
					"average":    avg,
				})
			}
		}
	}

	return &model.SubmitAnswerResponse{
		UserID:       req.UserID,
		QuestionID:   req.QuestionID,
		Scores:       scores,
		Recalculated: recalculated,
		SubmittedAt:  answer.AnsweredAt,
	}, nil
}

// populationRelative reports whether an answer to q can move any other
// respondent's derived scores: its own rule is population-relative, it
// is the Y-axis weighting question, or it is the direction source of a
// conditional_rank question.
func (s *AnswerService) populationRelative(q *model.Question) bool {
	if q.Rule.PopulationRelative() {
		return true
	}
	if q.ID == s.registry.Axes().Weighting.QuestionID {
		return true
	}
	for _, other := range s.registry.Scored() {
		if other.Direction != nil && other.Direction.QuestionID == q.ID {
			return true
		}
	}
	return false
}

// GetUserAnswers returns the user's current answers keyed by question
func (s *AnswerService) GetUserAnswers(ctx context.Context, userID string) (map[string]model.Answer, error) {
	answers, err := s.answers.GetUserAnswers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers for %s: %w", userID, err)
	}
	return answers, nil
}

// QuestionDistribution summarizes the current answers to one question:
// option percentages for choice questions, combo percentages for
// combination questions, raw value counts otherwise.
func (s *AnswerService) QuestionDistribution(ctx context.Context, questionID string) (*model.DistributionResponse, error) {
	q := s.registry.Get(questionID)
	if q == nil {
		return nil, ErrUnknownQuestion
	}

	all, err := s.answers.GetQuestionAnswers(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers for question %s: %w", questionID, err)
	}

	resp := &model.DistributionResponse{
		QuestionID:       questionID,
		Label:            q.Label,
		TotalRespondents: len(all),
		Distribution:     make(map[string]string),
	}
	if len(all) == 0 {
		return resp, nil
	}

	switch q.Type {
	case model.QuestionTypeSingleChoice:
		counts := make(map[string]int, len(all))
		for _, a := range all {
			counts[a.Value.String()]++
		}
		for _, option := range q.Options {
			percentage := float64(counts[option]) / float64(len(all)) * 100
			resp.Distribution[option] = fmt.Sprintf("%.2f%%", percentage)
		}

	case model.QuestionTypeCombination, model.QuestionTypeMultipleChoice:
		counts := make(map[string]int, len(all))
		for _, a := range all {
			key := strings.TrimPrefix(a.Value.TallyKey(), model.ComboKeyPrefix)
			counts[key]++
		}
		for combo, count := range counts {
			percentage := float64(count) / float64(len(all)) * 100
			resp.Distribution[combo] = fmt.Sprintf("%.2f%%", percentage)
		}

	default:
		counts := make(map[string]int, len(all))
		for _, a := range all {
			counts[a.Value.String()]++
		}
		for value, count := range counts {
			resp.Distribution[value] = strconv.Itoa(count)
		}
	}

	return resp, nil
}

// ParseValue decodes a submitted JSON value against the question's
// declared type. The only permitted coercion is numeric parsing of
// strings for number questions.
func ParseValue(q *model.Question, raw interface{}) (model.AnswerValue, error) {
	switch q.Type {
	case model.QuestionTypeNumber:
		switch v := raw.(type) {
		case float64:
			return model.NumberValue(v), nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return model.AnswerValue{}, ErrValueType
			}
			return model.NumberValue(f), nil
		}

	case model.QuestionTypeText, model.QuestionTypeSingleChoice:
		if v, ok := raw.(string); ok {
			return model.TextValue(v), nil
		}

	case model.QuestionTypeMultipleChoice, model.QuestionTypeCombination:
		items, ok := raw.([]interface{})
		if !ok {
			return model.AnswerValue{}, ErrValueType
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return model.AnswerValue{}, ErrValueType
			}
			out = append(out, s)
		}
		return model.ListValue(out), nil
	}

	return model.AnswerValue{}, ErrValueType
}
