package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"identitymap/internal/cache"
	"identitymap/internal/model"
	"identitymap/internal/registry"
	"identitymap/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

// AxesService composes per-question scores into the two raw axis
// values and normalizes them against the current population.
type AxesService struct {
	answers  repository.AnswerRepo
	scores   cache.ScoreCache
	axes     cache.AxesCache
	registry *registry.Registry
}

// NewAxesService creates a new axes service
func NewAxesService(
	answers repository.AnswerRepo,
	scores cache.ScoreCache,
	axes cache.AxesCache,
	reg *registry.Registry,
) *AxesService {
	return &AxesService{
		answers:  answers,
		scores:   scores,
		axes:     axes,
		registry: reg,
	}
}

// CalculateAxesScores computes and persists the user's raw (x, y).
//
// X is the base score sum plus one parentage branch selected by the
// user's own answer. Y is a blend of the configured sub-dimensions,
// each weighted by the fraction of all respondents who chose its
// option on the weighting question; with no respondents to that
// question every weight is 0.
func (s *AxesService) CalculateAxesScores(ctx context.Context, userID string) (model.AxisPoint, error) {
	scores, err := s.scores.GetUserScores(ctx, userID)
	if err != nil {
		return model.AxisPoint{}, fmt.Errorf("failed to load scores for %s: %w", userID, err)
	}
	answers, err := s.answers.GetUserAnswers(ctx, userID)
	if err != nil {
		return model.AxisPoint{}, fmt.Errorf("failed to load answers for %s: %w", userID, err)
	}

	cfg := s.registry.Axes()

	var rawX float64
	for _, questionID := range cfg.XBase {
		rawX += scores[questionID]
	}
	if branch, ok := answers[cfg.Parentage.QuestionID]; ok {
		for _, questionID := range cfg.Parentage.Branches[branch.Value.String()] {
			rawX += scores[questionID]
		}
	}

	rawY, err := s.weightedY(ctx, cfg.Weighting, scores)
	if err != nil {
		return model.AxisPoint{}, err
	}

	point := model.AxisPoint{X: rawX, Y: rawY}
	if err := s.axes.SaveRawAxes(ctx, userID, point); err != nil {
		return model.AxisPoint{}, fmt.Errorf("failed to save raw axes for %s: %w", userID, err)
	}
	return point, nil
}

func (s *AxesService) weightedY(ctx context.Context, weighting registry.Weighting, scores map[string]float64) (float64, error) {
	all, err := s.answers.GetQuestionAnswers(ctx, weighting.QuestionID)
	if err != nil {
		return 0, fmt.Errorf("failed to load weighting answers: %w", err)
	}
	if len(all) == 0 {
		return 0, nil
	}

	counts := make(map[string]int, len(all))
	for _, a := range all {
		counts[a.Value.String()]++
	}

	var rawY float64
	for _, dim := range weighting.Dimensions {
		weight := float64(counts[dim.Option]) / float64(len(all))
		var sub float64
		for _, questionID := range dim.Questions {
			sub += scores[questionID]
		}
		rawY += weight * sub
	}
	return rawY, nil
}

// GetFinalAxesScores maps the user's raw axes into [-100, 100] against
// the current population and persists the result. Each axis is scaled
// independently: the population median maps to 0, the maximum to +100,
// the minimum to -100.
//
// Users with no answers are rejected before anything is persisted; a
// finalized zero point for a never-seen user would join the stored
// population and skew the average for good.
func (s *AxesService) GetFinalAxesScores(ctx context.Context, userID string) (model.AxisPoint, error) {
	answers, err := s.answers.GetUserAnswers(ctx, userID)
	if err != nil {
		return model.AxisPoint{}, fmt.Errorf("failed to load answers for %s: %w", userID, err)
	}
	if len(answers) == 0 {
		return model.AxisPoint{}, ErrUserNotFound
	}

	all, err := s.axes.GetAllRawAxes(ctx)
	if err != nil {
		return model.AxisPoint{}, fmt.Errorf("failed to load raw axes: %w", err)
	}
	raw, err := s.axes.GetRawAxes(ctx, userID)
	if err != nil {
		return model.AxisPoint{}, fmt.Errorf("failed to load raw axes for %s: %w", userID, err)
	}

	xs := make([]float64, 0, len(all))
	ys := make([]float64, 0, len(all))
	for _, p := range all {
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
	}

	final := model.AxisPoint{
		X: mapToScale(raw.X, xs),
		Y: mapToScale(raw.Y, ys),
	}
	if err := s.axes.SaveFinalAxes(ctx, userID, final); err != nil {
		return model.AxisPoint{}, fmt.Errorf("failed to save final axes for %s: %w", userID, err)
	}
	return final, nil
}

// GetAverageAxesScores returns the arithmetic mean of all stored final
// axes, or the origin when nobody has been finalized yet.
func (s *AxesService) GetAverageAxesScores(ctx context.Context) (model.AxisPoint, error) {
	all, err := s.axes.GetAllFinalAxes(ctx)
	if err != nil {
		return model.AxisPoint{}, fmt.Errorf("failed to load final axes: %w", err)
	}
	if len(all) == 0 {
		return model.AxisPoint{}, nil
	}

	var avg model.AxisPoint
	for _, p := range all {
		avg.X += p.X
		avg.Y += p.Y
	}
	avg.X /= float64(len(all))
	avg.Y /= float64(len(all))
	return avg, nil
}

// mapToScale is the median-split piecewise-linear transform: values at
// or above the median scale linearly onto [0, 100] by the max, values
// below onto [0, -100] by the min. Degenerate halves collapse to 0, as
// does a population of at most one.
func mapToScale(value float64, values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}

	m := median(values)
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	if value >= m {
		if hi == m {
			return 0
		}
		return 100 * (value - m) / (hi - m)
	}
	if lo == m {
		return 0
	}
	return -100 * (value - m) / (lo - m)
}

// median averages the two middle values for even-sized populations
func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
