package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"identitymap/internal/model"
	"identitymap/internal/registry"
)

func TestCalculateUserScoresSkipsUnscored(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(registry.Default())

	e.seed(ctx, "u1", "q1", model.TextValue("Ming"))
	e.seed(ctx, "u1", "d", model.TextValue(registry.DimensionCulture))
	e.seed(ctx, "u1", "a1", model.TextValue("Y"))

	scores, err := e.scoreSvc.CalculateUserScores(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"a1": 1}, scores)

	stored, err := e.scores.GetUserScores(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, scores, stored)
}

func TestCalculateUserScoresMixedRules(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(registry.Default())

	e.seed(ctx, "u1", "a1", model.TextValue("Y"))
	e.seed(ctx, "u1", "g", model.NumberValue(6))
	e.seed(ctx, "u1", "c3", model.NumberValue(240))
	e.seed(ctx, "u2", "c3", model.NumberValue(12))

	scores, err := e.scoreSvc.CalculateUserScores(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, 1.0, scores["a1"])
	assert.Equal(t, 0.6, scores["g"])
	assert.Equal(t, 1.0, scores["c3"], "longer residence ranks first of two")
}

func TestCalculateQuestionScores(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(registry.Default())

	e.seed(ctx, "u1", "a1", model.TextValue("Y"))
	e.seed(ctx, "u2", "a1", model.TextValue("N"))

	for _, userID := range []string{"u1", "u2"} {
		_, err := e.scoreSvc.CalculateUserScores(ctx, userID)
		require.NoError(t, err)
	}

	result, err := e.scoreSvc.CalculateQuestionScores(ctx, "a1")
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalRespondents)
	assert.Equal(t, 0.0, result.AvgScore)
	assert.Equal(t, map[string]int{"1": 1, "-1": 1}, result.Distribution)

	stored, err := e.qscores.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, result, stored)
}

func TestCalculateQuestionScoresNoAnswers(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(registry.Default())

	result, err := e.scoreSvc.CalculateQuestionScores(ctx, "a1")
	require.NoError(t, err)

	assert.Equal(t, 0, result.TotalRespondents)
	assert.Equal(t, 0.0, result.AvgScore)
	assert.Empty(t, result.Distribution)
}
