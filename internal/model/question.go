package model

// QuestionType defines how a question's raw answer is shaped
type QuestionType string

const (
	QuestionTypeSingleChoice   QuestionType = "single_choice"
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeNumber         QuestionType = "number"
	QuestionTypeText           QuestionType = "text"
	QuestionTypeCombination    QuestionType = "combination" // multi-pick scored as one combo
)

// ScoringRule names the rule used to turn an answer into a score.
// An empty rule marks an unscored metadata question.
type ScoringRule string

const (
	RuleStaticWeight    ScoringRule = "static_weight"
	RuleStaticMapping   ScoringRule = "static_mapping"
	RuleRealTimeRank    ScoringRule = "real_time_rank"
	RuleCountRank       ScoringRule = "count_rank"
	RuleDistanceScore   ScoringRule = "distance_score"
	RuleMajorityVote    ScoringRule = "majority_vote"
	RuleDynamicYN       ScoringRule = "dynamic_yn"
	RuleVoteRankStatic  ScoringRule = "vote_rank_static"
	RuleConditionalRank ScoringRule = "conditional_rank"
)

// PopulationRelative reports whether a score under this rule can change
// when any other respondent answers the same question.
func (r ScoringRule) PopulationRelative() bool {
	switch r {
	case RuleRealTimeRank, RuleCountRank, RuleDistanceScore,
		RuleMajorityVote, RuleDynamicYN, RuleVoteRankStatic, RuleConditionalRank:
		return true
	}
	return false
}

// DistanceMetric selects how distance_score measures distance
type DistanceMetric string

const (
	// MetricModal scores distance 0 for the modal answer, 1 otherwise
	MetricModal DistanceMetric = ""
	// MetricAbsDiffFromAvg uses |value - population mean|
	MetricAbsDiffFromAvg DistanceMetric = "abs_diff_from_avg"
)

// DirectionKind selects the distribution that decides a conditional_rank
// question's sort direction.
type DirectionKind string

const (
	// DirectionQuestionYN flips to descending when the referenced
	// question's "N" answers outnumber its "Y" answers
	DirectionQuestionYN DirectionKind = "question_yn"
	// DirectionSelfZeroSplit flips to descending when zero-valued
	// answers to this same question outnumber the nonzero ones
	DirectionSelfZeroSplit DirectionKind = "self_zero_split"
)

// DirectionSource configures conditional_rank's sort-direction check
type DirectionSource struct {
	Kind       DirectionKind `json:"kind"`
	QuestionID string        `json:"questionId,omitempty"`
}

// ScoreRange is the [min, max] band a rank-style rule maps onto
type ScoreRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Question is one immutable entry of the question registry
type Question struct {
	ID      string       `json:"id"`
	Label   string       `json:"label"`
	Type    QuestionType `json:"type"`
	Options []string     `json:"options,omitempty"`
	Rule    ScoringRule  `json:"rule,omitempty"`

	// Rule parameters; which fields apply depends on Rule
	Weights   map[string]float64 `json:"weights,omitempty"`   // static_weight
	Mapping   map[int]float64    `json:"mapping,omitempty"`   // static_mapping
	Range     *ScoreRange        `json:"range,omitempty"`     // rank-style rules
	Scores    []float64          `json:"scores,omitempty"`    // vote_rank_static, indexed by rank
	Metric    DistanceMetric     `json:"metric,omitempty"`    // distance_score
	Direction *DirectionSource   `json:"direction,omitempty"` // conditional_rank
}

// Scored reports whether the question carries a scoring rule
func (q *Question) Scored() bool {
	return q.Rule != ""
}
