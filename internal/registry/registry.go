// Package registry holds the immutable question table and the axis
// composition config. It is loaded once at startup and never mutated.
package registry

import "identitymap/internal/model"

// ParentageBranch adds one of several mutually exclusive follow-up
// score groups to the X axis, keyed by the answer to QuestionID.
type ParentageBranch struct {
	QuestionID string
	Branches   map[string][]string // answer -> question ids whose scores are added
}

// WeightedDimension is one Y-axis sub-dimension: the questions whose
// summed scores it contributes, weighted by the fraction of respondents
// who chose Option on the weighting question.
type WeightedDimension struct {
	Option    string
	Questions []string
}

// Weighting blends the Y-axis sub-dimensions by the current answer
// distribution of QuestionID.
type Weighting struct {
	QuestionID string
	Dimensions []WeightedDimension
}

// AxesConfig describes how per-question scores compose into the two
// raw axis values.
type AxesConfig struct {
	XBase     []string // question ids summed unconditionally into X
	Parentage ParentageBranch
	Weighting Weighting
}

// Registry is a read-only question lookup
type Registry struct {
	questions map[string]*model.Question
	order     []string
	axes      AxesConfig
}

// New builds a registry from a question list in display order
func New(questions []*model.Question, axes AxesConfig) *Registry {
	r := &Registry{
		questions: make(map[string]*model.Question, len(questions)),
		order:     make([]string, 0, len(questions)),
		axes:      axes,
	}
	for _, q := range questions {
		r.questions[q.ID] = q
		r.order = append(r.order, q.ID)
	}
	return r
}

// Get returns the question for id, or nil if none is configured
func (r *Registry) Get(id string) *model.Question {
	return r.questions[id]
}

// All returns every question in declared order
func (r *Registry) All() []*model.Question {
	out := make([]*model.Question, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.questions[id])
	}
	return out
}

// Scored returns every rule-bearing question in declared order
func (r *Registry) Scored() []*model.Question {
	out := make([]*model.Question, 0, len(r.order))
	for _, id := range r.order {
		if q := r.questions[id]; q.Scored() {
			out = append(out, q)
		}
	}
	return out
}

// Axes returns the axis composition config
func (r *Registry) Axes() AxesConfig {
	return r.axes
}
