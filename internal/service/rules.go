package service

import (
	"context"
	"math"
	"sort"
	"strings"

	"identitymap/internal/model"
)

// roundScore rounds to 3 decimal places, applied to every rank-mapped
// score before it is persisted.
func roundScore(score float64) float64 {
	return math.Round(score*1000) / 1000
}

// rankToScore linearly maps rank 1..n onto [max..min]. Rank 1 earns the
// configured maximum; a pool of one (or an out-of-band n) short-circuits
// to the maximum to avoid dividing by zero.
func rankToScore(rank, n int, rng *model.ScoreRange) float64 {
	if rng == nil {
		return 0
	}
	if n <= 1 {
		return rng.Max
	}
	score := rng.Max - float64(rank-1)*(rng.Max-rng.Min)/float64(n-1)
	return roundScore(score)
}

// firstRank returns the 1-based position of the first occurrence of
// value in sorted, or len+1 when absent. Tied respondents all land on
// the first occurrence and therefore share the same rank.
func firstRank(sorted []float64, value float64) int {
	for i, v := range sorted {
		if v == value {
			return i + 1
		}
	}
	return len(sorted) + 1
}

func allEqual(values []float64) bool {
	for _, v := range values {
		if v != values[0] {
			return false
		}
	}
	return true
}

// staticWeightScore looks the answer up in the configured weight table
func staticWeightScore(q *model.Question, value model.AnswerValue) float64 {
	return q.Weights[value.String()]
}

// staticMappingScore looks the integer-coerced answer up in the mapping
func staticMappingScore(q *model.Question, value model.AnswerValue) float64 {
	f, ok := value.Float()
	if !ok {
		return 0
	}
	return q.Mapping[int(f)]
}

// realTimeRankScore ranks the user's numeric answer against every
// current numeric answer to the question, descending (higher is
// better). Also serves count_rank.
func (s *ScoreService) realTimeRankScore(ctx context.Context, q *model.Question, value model.AnswerValue) (float64, error) {
	userValue, ok := value.Float()
	if !ok {
		return 0, nil
	}

	all, err := s.answers.GetQuestionAnswers(ctx, q.ID)
	if err != nil {
		return 0, err
	}

	values := make([]float64, 0, len(all))
	for _, a := range all {
		if f, ok := a.Value.Float(); ok {
			values = append(values, f)
		}
	}

	if len(values) == 0 {
		// First ever respondent
		return q.Range.Max, nil
	}
	if len(values) == 1 || allEqual(values) {
		return q.Range.Max, nil
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(values)))
	rank := firstRank(values, userValue)
	return rankToScore(rank, len(values), q.Range), nil
}

// distanceScore ranks respondents by their distance from the population
// center: the mean for numeric answers, the modal answer for text.
// Smaller distance earns the better rank.
func (s *ScoreService) distanceScore(ctx context.Context, q *model.Question, value model.AnswerValue) (float64, error) {
	all, err := s.answers.GetQuestionAnswers(ctx, q.ID)
	if err != nil {
		return 0, err
	}

	var userDistance float64
	var distances []float64

	if q.Metric == model.MetricAbsDiffFromAvg {
		userValue, ok := value.Float()
		if !ok {
			return 0, nil
		}

		values := make([]float64, 0, len(all))
		for _, a := range all {
			if f, ok := a.Value.Float(); ok {
				values = append(values, f)
			}
		}
		if len(values) == 0 {
			return q.Range.Max, nil
		}

		var sum float64
		for _, v := range values {
			sum += v
		}
		mean := sum / float64(len(values))

		userDistance = math.Abs(userValue - mean)
		distances = make([]float64, 0, len(values))
		for _, v := range values {
			distances = append(distances, math.Abs(v-mean))
		}
	} else {
		if len(all) == 0 {
			return q.Range.Max, nil
		}

		mode := modalAnswer(all)
		userDistance = 1
		if value.String() == mode {
			userDistance = 0
		}
		distances = make([]float64, 0, len(all))
		for _, a := range all {
			if a.Value.String() == mode {
				distances = append(distances, 0)
			} else {
				distances = append(distances, 1)
			}
		}
	}

	if len(distances) == 1 {
		return q.Range.Max, nil
	}

	sort.Float64s(distances)
	rank := firstRank(distances, userDistance)
	return rankToScore(rank, len(distances), q.Range), nil
}

// modalAnswer returns the most frequent answer value; ties go to the
// value seen first.
func modalAnswer(all []model.QuestionAnswer) string {
	counts := make(map[string]int, len(all))
	for _, a := range all {
		counts[a.Value.String()]++
	}

	best := ""
	bestCount := 0
	for _, a := range all {
		key := a.Value.String()
		if counts[key] > bestCount {
			best = key
			bestCount = counts[key]
		}
	}
	return best
}

// majorityVoteScore ranks the user's option (or sorted combo) by vote
// tally. Rank counts only strictly better tallies, so equally voted
// keys share a rank.
func (s *ScoreService) majorityVoteScore(ctx context.Context, q *model.Question, value model.AnswerValue) (float64, error) {
	stats, err := s.stats.GetQuestionStats(ctx, q.ID)
	if err != nil {
		return 0, err
	}

	prefix := model.OptionKeyPrefix
	if value.Kind == model.ValueList {
		prefix = model.ComboKeyPrefix
	}

	voteCounts := make(map[string]int64)
	for key, count := range stats {
		if strings.HasPrefix(key, prefix) {
			voteCounts[strings.TrimPrefix(key, prefix)] = count
		}
	}

	if len(voteCounts) == 0 {
		return q.Range.Max, nil
	}

	userKey := strings.TrimPrefix(value.TallyKey(), prefix)
	userVotes := voteCounts[userKey]

	rank := 1
	for _, votes := range voteCounts {
		if votes > userVotes {
			rank++
		}
	}

	return rankToScore(rank, len(voteCounts), q.Range), nil
}

// dynamicYNScore rewards the current majority answer with +1 and the
// minority with -1. A tie counts as an "N" majority.
func (s *ScoreService) dynamicYNScore(ctx context.Context, q *model.Question, value model.AnswerValue) (float64, error) {
	stats, err := s.stats.GetQuestionStats(ctx, q.ID)
	if err != nil {
		return 0, err
	}

	yCount := stats[model.OptionKeyPrefix+"Y"]
	nCount := stats[model.OptionKeyPrefix+"N"]

	majority := "N"
	if yCount > nCount {
		majority = "Y"
	}
	if value.String() == majority {
		return 1, nil
	}
	return -1, nil
}

// voteRankStaticScore sorts the declared options by answer frequency
// (stable on declaration order for ties) and pays out the fixed score
// at the user's option's rank.
func (s *ScoreService) voteRankStaticScore(ctx context.Context, q *model.Question, value model.AnswerValue) (float64, error) {
	all, err := s.answers.GetQuestionAnswers(ctx, q.ID)
	if err != nil {
		return 0, err
	}

	if len(all) == 0 {
		// First voter gets the top score
		if len(q.Scores) == 0 {
			return 0, nil
		}
		return q.Scores[0], nil
	}

	counts := make(map[string]int, len(all))
	for _, a := range all {
		counts[a.Value.String()]++
	}

	sorted := append([]string(nil), q.Options...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return counts[sorted[i]] > counts[sorted[j]]
	})

	rank := 0
	for i, option := range sorted {
		if option == value.String() {
			rank = i + 1
			break
		}
	}
	if rank == 0 || rank > len(q.Scores) {
		return 0, nil
	}
	return q.Scores[rank-1], nil
}

// conditionalRankScore ranks the user's numeric answer ascending by
// default, flipping to descending when the configured reference
// distribution leans negative.
func (s *ScoreService) conditionalRankScore(ctx context.Context, q *model.Question, value model.AnswerValue) (float64, error) {
	userValue, ok := value.Float()
	if !ok {
		return 0, nil
	}

	all, err := s.answers.GetQuestionAnswers(ctx, q.ID)
	if err != nil {
		return 0, err
	}

	values := make([]float64, 0, len(all))
	for _, a := range all {
		if f, ok := a.Value.Float(); ok {
			values = append(values, f)
		}
	}
	if len(values) == 0 {
		return q.Range.Max, nil
	}

	descending, err := s.rankDescending(ctx, q, values)
	if err != nil {
		return 0, err
	}

	if descending {
		sort.Sort(sort.Reverse(sort.Float64Slice(values)))
	} else {
		sort.Float64s(values)
	}

	if len(values) == 1 {
		return q.Range.Max, nil
	}

	rank := firstRank(values, userValue)
	return rankToScore(rank, len(values), q.Range), nil
}

// rankDescending evaluates the question's direction source against the
// current population.
func (s *ScoreService) rankDescending(ctx context.Context, q *model.Question, values []float64) (bool, error) {
	if q.Direction == nil {
		return false, nil
	}

	switch q.Direction.Kind {
	case model.DirectionQuestionYN:
		ref, err := s.answers.GetQuestionAnswers(ctx, q.Direction.QuestionID)
		if err != nil {
			return false, err
		}
		var yCount, nCount int
		for _, a := range ref {
			switch a.Value.String() {
			case "Y":
				yCount++
			case "N":
				nCount++
			}
		}
		return nCount > yCount, nil

	case model.DirectionSelfZeroSplit:
		var zeroCount int
		for _, v := range values {
			if v == 0 {
				zeroCount++
			}
		}
		return zeroCount > len(values)-zeroCount, nil
	}

	return false, nil
}
