package model

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// ValueKind tags the shape of a stored answer value
type ValueKind string

const (
	ValueText   ValueKind = "text"
	ValueNumber ValueKind = "number"
	ValueList   ValueKind = "list"
)

// AnswerValue is the typed payload of an answer. Exactly one of Text,
// Number or Items is meaningful, selected by Kind.
type AnswerValue struct {
	Kind   ValueKind `json:"kind" bson:"kind"`
	Text   string    `json:"text,omitempty" bson:"text,omitempty"`
	Number float64   `json:"number,omitempty" bson:"number,omitempty"`
	Items  []string  `json:"items,omitempty" bson:"items,omitempty"`
}

// TextValue builds a text-kind value
func TextValue(s string) AnswerValue {
	return AnswerValue{Kind: ValueText, Text: s}
}

// NumberValue builds a number-kind value
func NumberValue(n float64) AnswerValue {
	return AnswerValue{Kind: ValueNumber, Number: n}
}

// ListValue builds a list-kind value
func ListValue(items []string) AnswerValue {
	return AnswerValue{Kind: ValueList, Items: items}
}

// Float returns the value as a float64. Text values go through numeric
// parsing; list values never parse.
func (v AnswerValue) Float() (float64, bool) {
	switch v.Kind {
	case ValueNumber:
		return v.Number, true
	case ValueText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// String renders the value for display and raw-distribution keys
func (v AnswerValue) String() string {
	switch v.Kind {
	case ValueNumber:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case ValueList:
		return strings.Join(v.Items, ",")
	}
	return v.Text
}

// TallyKey returns the canonical vote-tally key for this value:
// "combo:<sorted,items>" for lists, "option:<value>" otherwise.
func (v AnswerValue) TallyKey() string {
	if v.Kind == ValueList {
		items := append([]string(nil), v.Items...)
		sort.Strings(items)
		return ComboKeyPrefix + strings.Join(items, ",")
	}
	return OptionKeyPrefix + v.String()
}

// Tally key prefixes, shared by the stats cache and the rule evaluator
const (
	OptionKeyPrefix = "option:"
	ComboKeyPrefix  = "combo:"
)

// Answer is one respondent's current answer to one question. There is
// at most one per (user, question); resubmission overwrites.
type Answer struct {
	ID         string      `json:"id,omitempty" bson:"_id,omitempty"`
	UserID     string      `json:"userId" bson:"userId"`
	QuestionID string      `json:"questionId" bson:"questionId"`
	Value      AnswerValue `json:"value" bson:"value"`
	AnsweredAt time.Time   `json:"answeredAt" bson:"answeredAt"`
}

// QuestionAnswer pairs an answer value with its respondent, as returned
// by per-question queries.
type QuestionAnswer struct {
	UserID     string      `json:"userId" bson:"userId"`
	Value      AnswerValue `json:"value" bson:"value"`
	AnsweredAt time.Time   `json:"answeredAt" bson:"answeredAt"`
}

// SubmitAnswerRequest is the body of POST /v1/answers. Value is decoded
// against the question's declared type.
type SubmitAnswerRequest struct {
	UserID     string      `json:"userId"`
	QuestionID string      `json:"questionId"`
	Value      interface{} `json:"value"`
}

// SubmitAnswerResponse acknowledges a submission
type SubmitAnswerResponse struct {
	UserID       string             `json:"userId"`
	QuestionID   string             `json:"questionId"`
	Scores       map[string]float64 `json:"scores"`
	Recalculated bool               `json:"recalculated"`
	SubmittedAt  time.Time          `json:"submittedAt"`
}
