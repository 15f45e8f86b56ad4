package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"identitymap/internal/model"
	"identitymap/internal/registry"
)

func TestMapToScale(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{"median maps to zero", 3, 0},
		{"maximum maps to +100", 5, 100},
		{"minimum maps to -100", 1, -100},
		{"upper half scales linearly", 4, 50},
		{"lower half scales linearly", 2, -50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapToScale(tt.value, values))
		})
	}

	t.Run("population of one collapses to zero", func(t *testing.T) {
		assert.Equal(t, 0.0, mapToScale(7, []float64{7}))
	})

	t.Run("identical population collapses to zero", func(t *testing.T) {
		assert.Equal(t, 0.0, mapToScale(4, []float64{4, 4, 4}))
	})
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 3.0, median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, median([]float64{4, 1, 2, 3}))
	assert.Equal(t, 9.0, median([]float64{9}))
}

func TestCalculateAxesScoresParentageBranch(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(registry.Default())

	// YY parentage pulls in the b2 follow-up score
	e.seed(ctx, "u1", "a1", model.TextValue("Y"))
	e.seed(ctx, "u1", "b1", model.TextValue("YY"))
	e.seed(ctx, "u1", "b2", model.TextValue("YY"))
	e.seed(ctx, "u1", "c1", model.TextValue("Y"))

	_, err := e.scoreSvc.CalculateUserScores(ctx, "u1")
	require.NoError(t, err)

	point, err := e.axesSvc.CalculateAxesScores(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4.0, point.X, "a1 + b1 + c1 + branch b2")
	assert.Equal(t, 0.0, point.Y, "no weighting answers yet")
}

func TestCalculateAxesScoresBranchNotTaken(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(registry.Default())

	// NN parentage selects b5, so the b2 answer is scored but never
	// aggregated into X
	e.seed(ctx, "u1", "b1", model.TextValue("NN"))
	e.seed(ctx, "u1", "b2", model.TextValue("YY"))

	_, err := e.scoreSvc.CalculateUserScores(ctx, "u1")
	require.NoError(t, err)

	point, err := e.axesSvc.CalculateAxesScores(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, -1.0, point.X, "b1 NN only; b5 unanswered")
}

func TestCalculateAxesScoresWeightedY(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(registry.Default())

	// Both respondents pick "county", so the county dimension carries
	// the full weight and h1 is the only Y contributor
	e.seed(ctx, "u1", "d", model.TextValue(registry.DimensionCounty))
	e.seed(ctx, "u2", "d", model.TextValue(registry.DimensionCounty))
	e.seed(ctx, "u1", "h1", model.NumberValue(8))
	e.seed(ctx, "u2", "h1", model.NumberValue(4))
	e.seed(ctx, "u1", "h2", model.NumberValue(10))

	_, err := e.scoreSvc.CalculateUserScores(ctx, "u1")
	require.NoError(t, err)

	point, err := e.axesSvc.CalculateAxesScores(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, point.Y, "h1 rank 1 at weight 1; h2 carries weight 0")
}

func TestCalculateAxesScoresSplitWeights(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(registry.Default())

	e.seed(ctx, "u1", "d", model.TextValue(registry.DimensionCounty))
	e.seed(ctx, "u2", "d", model.TextValue(registry.DimensionMunicipality))
	e.seed(ctx, "u1", "h1", model.NumberValue(8))
	e.seed(ctx, "u1", "h2", model.NumberValue(3))

	_, err := e.scoreSvc.CalculateUserScores(ctx, "u1")
	require.NoError(t, err)

	// Sole respondent on both rounds scores 1.0 each; the two chosen
	// dimensions weigh 0.5 apiece
	point, err := e.axesSvc.CalculateAxesScores(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, point.Y)
}

func TestGetFinalAxesScores(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(registry.Default())

	for _, userID := range []string{"u1", "u2", "u3"} {
		e.seed(ctx, userID, "a1", model.TextValue("Y"))
	}
	require.NoError(t, e.axes.SaveRawAxes(ctx, "u1", model.AxisPoint{X: 10}))
	require.NoError(t, e.axes.SaveRawAxes(ctx, "u2", model.AxisPoint{X: 20}))
	require.NoError(t, e.axes.SaveRawAxes(ctx, "u3", model.AxisPoint{X: 30}))

	tests := []struct {
		userID string
		wantX  float64
	}{
		{"u1", -100},
		{"u2", 0},
		{"u3", 100},
	}
	for _, tt := range tests {
		final, err := e.axesSvc.GetFinalAxesScores(ctx, tt.userID)
		require.NoError(t, err)
		assert.Equal(t, tt.wantX, final.X, "user %s", tt.userID)

		stored, err := e.axes.GetFinalAxes(ctx, tt.userID)
		require.NoError(t, err)
		assert.Equal(t, final, stored)
	}
}

func TestGetFinalAxesScoresUnknownUser(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(registry.Default())

	e.seed(ctx, "u1", "a1", model.TextValue("Y"))
	e.seed(ctx, "u2", "a1", model.TextValue("N"))
	require.NoError(t, e.axes.SaveRawAxes(ctx, "u1", model.AxisPoint{X: 10}))
	require.NoError(t, e.axes.SaveRawAxes(ctx, "u2", model.AxisPoint{X: 30}))
	for _, userID := range []string{"u1", "u2"} {
		_, err := e.axesSvc.GetFinalAxesScores(ctx, userID)
		require.NoError(t, err)
	}

	before, err := e.axesSvc.GetAverageAxesScores(ctx)
	require.NoError(t, err)

	// A user who never answered must not be finalized: a persisted
	// zero point would join the population and drag the average
	_, err = e.axesSvc.GetFinalAxesScores(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)

	finals, err := e.axes.GetAllFinalAxes(ctx)
	require.NoError(t, err)
	assert.Len(t, finals, 2)

	after, err := e.axesSvc.GetAverageAxesScores(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestGetAverageAxesScoresEmpty(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(registry.Default())

	avg, err := e.axesSvc.GetAverageAxesScores(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.AxisPoint{}, avg)
}

func TestGetAverageAxesScores(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(registry.Default())

	require.NoError(t, e.axes.SaveFinalAxes(ctx, "u1", model.AxisPoint{X: -100, Y: 40}))
	require.NoError(t, e.axes.SaveFinalAxes(ctx, "u2", model.AxisPoint{X: 100, Y: 60}))

	avg, err := e.axesSvc.GetAverageAxesScores(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.AxisPoint{X: 0, Y: 50}, avg)
}
