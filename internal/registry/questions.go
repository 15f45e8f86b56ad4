package registry

import (
	"strconv"

	"identitymap/internal/model"
)

// Weighting question options for the subjective axis
const (
	DimensionCounty       = "county"
	DimensionMunicipality = "municipality"
	DimensionCulture      = "culture"
)

func rng(min, max float64) *model.ScoreRange {
	return &model.ScoreRange{Min: min, Max: max}
}

// Default returns the built-in identity questionnaire: 26 questions
// across an intake section, an "objective identity" chapter and a
// "subjective identity" chapter.
func Default() *Registry {
	questions := []*model.Question{
		// Intake, unscored
		{ID: "q1", Label: "Preferred name", Type: model.QuestionTypeText},
		{ID: "p", Label: "MBTI type", Type: model.QuestionTypeText},
		{ID: "q2", Label: "Gender", Type: model.QuestionTypeSingleChoice,
			Options: []string{"male", "female"}},

		// Chapter 1: objective identity, static weights
		{ID: "a1", Label: "ID card prefix is local", Type: model.QuestionTypeSingleChoice,
			Options: []string{"Y", "N"}, Rule: model.RuleStaticWeight,
			Weights: map[string]float64{"Y": 1, "N": -1}},
		{ID: "a2", Label: "Born after the municipality charter", Type: model.QuestionTypeSingleChoice,
			Options: []string{"Y", "N"}, Rule: model.RuleStaticWeight,
			Weights: map[string]float64{"Y": 1, "N": 0}},
		{ID: "b1", Label: "Parents from the city", Type: model.QuestionTypeSingleChoice,
			Options: []string{"YY", "YN", "NN"}, Rule: model.RuleStaticWeight,
			Weights: map[string]float64{"YY": 1, "YN": 0, "NN": -1}},
		{ID: "b2", Label: "Parents from the nine core districts", Type: model.QuestionTypeSingleChoice,
			Options: []string{"YY", "YN", "NN"}, Rule: model.RuleStaticWeight,
			Weights: map[string]float64{"YY": 1, "YN": 0.5, "NN": 0}},
		{ID: "b3", Label: "Local parent from the nine core districts", Type: model.QuestionTypeSingleChoice,
			Options: []string{"Y", "N"}, Rule: model.RuleStaticWeight,
			Weights: map[string]float64{"Y": 1, "N": 0.5}},
		{ID: "b4", Label: "Non-local parent from the neighboring province", Type: model.QuestionTypeSingleChoice,
			Options: []string{"Y", "N"}, Rule: model.RuleStaticWeight,
			Weights: map[string]float64{"Y": 0, "N": -0.5}},
		{ID: "b5", Label: "Parents both from the neighboring province", Type: model.QuestionTypeSingleChoice,
			Options: []string{"YY", "YN", "NN"}, Rule: model.RuleStaticWeight,
			Weights: map[string]float64{"YY": 0.5, "YN": 0, "NN": -1}},
		{ID: "c1", Label: "Spent childhood in the city", Type: model.QuestionTypeSingleChoice,
			Options: []string{"Y", "N"}, Rule: model.RuleStaticWeight,
			Weights: map[string]float64{"Y": 1, "N": -1}},
		{ID: "c2", Label: "Currently lives in the city", Type: model.QuestionTypeSingleChoice,
			Options: []string{"Y", "N"}, Rule: model.RuleStaticWeight,
			Weights: map[string]float64{"Y": 1, "N": -1}},

		// Chapter 1: population-relative
		{ID: "c3", Label: "Months lived in the city", Type: model.QuestionTypeNumber,
			Rule: model.RuleRealTimeRank, Range: rng(0, 1)},
		{ID: "e", Label: "Where the city's center is", Type: model.QuestionTypeText,
			Rule: model.RuleDistanceScore, Range: rng(0, 1)},
		{ID: "d", Label: "Core tension of local identity", Type: model.QuestionTypeSingleChoice,
			Options: []string{DimensionCounty, DimensionMunicipality, DimensionCulture}},

		// Chapter 2: subjective identity
		{ID: "f", Label: "Tongue twister - mistakes made", Type: model.QuestionTypeNumber,
			Rule: model.RuleConditionalRank, Range: rng(0, 1),
			Direction: &model.DirectionSource{Kind: model.DirectionQuestionYN, QuestionID: "a1"}},
		{ID: "g", Label: "Maze checkpoints cleared", Type: model.QuestionTypeNumber,
			Rule: model.RuleStaticMapping,
			Mapping: map[int]float64{0: 0.0, 1: 0.1, 2: 0.2, 3: 0.3, 4: 0.4,
				5: 0.5, 6: 0.6, 7: 0.7, 8: 0.8, 9: 0.9, 10: 1.0}},
		{ID: "h1", Label: "Cake cutting - county round", Type: model.QuestionTypeNumber,
			Rule: model.RuleRealTimeRank, Range: rng(0, 1)},
		{ID: "h2", Label: "Cake cutting - municipality round", Type: model.QuestionTypeNumber,
			Rule: model.RuleRealTimeRank, Range: rng(0, 1)},
		{ID: "j", Label: "Most iconic night view", Type: model.QuestionTypeSingleChoice,
			Options: []string{"photo1", "photo2", "photo3", "photo4", "photo5", "photo6", "photo7"},
			Rule:    model.RuleMajorityVote, Range: rng(0, 1)},
		{ID: "k", Label: "Wildfire volunteer donation target", Type: model.QuestionTypeSingleChoice,
			Options: []string{"medics", "riders", "sawyers", "none"},
			Rule:    model.RuleMajorityVote, Range: rng(0, 1)},
		{ID: "l", Label: "Swear cards - local curses used", Type: model.QuestionTypeNumber,
			Rule: model.RuleConditionalRank, Range: rng(0, 1),
			Direction: &model.DirectionSource{Kind: model.DirectionSelfZeroSplit}},
		{ID: "m", Label: "Hotpot dip combination", Type: model.QuestionTypeCombination,
			Options: comboOptions(18), Rule: model.RuleMajorityVote, Range: rng(0, 1)},
		{ID: "n", Label: "Mahjong - winning hand score", Type: model.QuestionTypeNumber,
			Rule: model.RuleRealTimeRank, Range: rng(0, 1)},
		{ID: "o1", Label: "Height measure - height (cm)", Type: model.QuestionTypeNumber,
			Rule: model.RuleDistanceScore, Range: rng(0, 0.2), Metric: model.MetricAbsDiffFromAvg},
		{ID: "o2", Label: "Height measure - years of social insurance", Type: model.QuestionTypeNumber,
			Rule: model.RuleRealTimeRank, Range: rng(0, 0.2)},
		{ID: "o3", Label: "Height measure - spent on site today", Type: model.QuestionTypeNumber,
			Rule: model.RuleRealTimeRank, Range: rng(0, 0.2)},
		{ID: "o4", Label: "Height measure - visitors brought in 2024", Type: model.QuestionTypeNumber,
			Rule: model.RuleRealTimeRank, Range: rng(0, 0.2)},
		{ID: "o5", Label: "Height measure - residency permits caused", Type: model.QuestionTypeNumber,
			Rule: model.RuleRealTimeRank, Range: rng(0, 0.2)},
	}

	axes := AxesConfig{
		XBase: []string{"a1", "a2", "b1", "c1", "c2", "c3", "e"},
		Parentage: ParentageBranch{
			QuestionID: "b1",
			Branches: map[string][]string{
				"YY": {"b2"},
				"YN": {"b3", "b4"},
				"NN": {"b5"},
			},
		},
		Weighting: Weighting{
			QuestionID: "d",
			Dimensions: []WeightedDimension{
				{Option: DimensionCounty, Questions: []string{"h1"}},
				{Option: DimensionMunicipality, Questions: []string{"h2"}},
				{Option: DimensionCulture, Questions: []string{
					"f", "g", "j", "k", "l", "m", "n", "o1", "o2", "o3", "o4", "o5"}},
			},
		},
	}

	return New(questions, axes)
}

// comboOptions numbers the dip ingredients "1".."18"
func comboOptions(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(i + 1)
	}
	return out
}
