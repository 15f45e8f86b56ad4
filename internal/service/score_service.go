package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"identitymap/internal/cache"
	"identitymap/internal/model"
	"identitymap/internal/registry"
	"identitymap/internal/repository"
)

// ScoreService is the rule evaluator: it turns raw answers into
// per-question scores and maintains per-question aggregate statistics.
// Population-relative rules read the current answer pool, so a score
// computed here is only valid until the next answer to the same
// question from any respondent.
type ScoreService struct {
	answers  repository.AnswerRepo
	scores   cache.ScoreCache
	stats    cache.StatsCache
	qscores  repository.QuestionScoreRepo
	registry *registry.Registry
}

// NewScoreService creates a new score service
func NewScoreService(
	answers repository.AnswerRepo,
	scores cache.ScoreCache,
	stats cache.StatsCache,
	qscores repository.QuestionScoreRepo,
	reg *registry.Registry,
) *ScoreService {
	return &ScoreService{
		answers:  answers,
		scores:   scores,
		stats:    stats,
		qscores:  qscores,
		registry: reg,
	}
}

// CalculateUserScores runs the rule evaluator over every answered,
// rule-bearing question for one user, persists the scores and returns
// them. Questions without a configured rule are skipped.
func (s *ScoreService) CalculateUserScores(ctx context.Context, userID string) (map[string]float64, error) {
	answers, err := s.answers.GetUserAnswers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers for %s: %w", userID, err)
	}

	scores := make(map[string]float64)
	for questionID, answer := range answers {
		q := s.registry.Get(questionID)
		if q == nil || !q.Scored() {
			continue
		}

		score, err := s.scoreQuestion(ctx, q, answer.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to score %s for %s: %w", questionID, userID, err)
		}
		scores[questionID] = score
	}

	if err := s.scores.SaveUserScores(ctx, userID, scores); err != nil {
		return nil, fmt.Errorf("failed to save scores for %s: %w", userID, err)
	}
	return scores, nil
}

// scoreQuestion dispatches on the question's rule. Scoring itself never
// fails: unknown rules and malformed answers score 0, degenerate pools
// score the configured maximum. Only store reads can error.
func (s *ScoreService) scoreQuestion(ctx context.Context, q *model.Question, value model.AnswerValue) (float64, error) {
	switch q.Rule {
	case model.RuleStaticWeight:
		return staticWeightScore(q, value), nil
	case model.RuleStaticMapping:
		return staticMappingScore(q, value), nil
	case model.RuleRealTimeRank, model.RuleCountRank:
		return s.realTimeRankScore(ctx, q, value)
	case model.RuleDistanceScore:
		return s.distanceScore(ctx, q, value)
	case model.RuleMajorityVote:
		return s.majorityVoteScore(ctx, q, value)
	case model.RuleDynamicYN:
		return s.dynamicYNScore(ctx, q, value)
	case model.RuleVoteRankStatic:
		return s.voteRankStaticScore(ctx, q, value)
	case model.RuleConditionalRank:
		return s.conditionalRankScore(ctx, q, value)
	}
	return 0, nil
}

// CalculateQuestionScores recomputes and persists one question's
// aggregate statistics: mean score, respondent count and score-value
// distribution across the current population.
func (s *ScoreService) CalculateQuestionScores(ctx context.Context, questionID string) (*model.QuestionScore, error) {
	all, err := s.answers.GetQuestionAnswers(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers for question %s: %w", questionID, err)
	}

	result := &model.QuestionScore{
		QuestionID:       questionID,
		TotalRespondents: len(all),
		Distribution:     make(map[string]int),
		UpdatedAt:        time.Now(),
	}

	var sum float64
	var counted int
	for _, a := range all {
		scores, err := s.scores.GetUserScores(ctx, a.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to load scores for %s: %w", a.UserID, err)
		}
		score, ok := scores[questionID]
		if !ok {
			continue
		}
		sum += score
		counted++
		result.Distribution[strconv.FormatFloat(score, 'g', -1, 64)]++
	}
	if counted > 0 {
		result.AvgScore = sum / float64(counted)
	}

	if err := s.qscores.Save(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to save question score %s: %w", questionID, err)
	}
	return result, nil
}
