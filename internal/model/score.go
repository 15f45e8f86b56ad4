package model

import "time"

// AxisPoint is a position on the two composite axes: X is the
// "objective identity" axis, Y the "subjective identity" axis.
type AxisPoint struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// QuestionScore holds the aggregate statistics persisted per
// rule-bearing question after a batch recalculation.
type QuestionScore struct {
	QuestionID       string         `json:"questionId" bson:"questionId"`
	AvgScore         float64        `json:"avgScore" bson:"avgScore"`
	TotalRespondents int            `json:"totalRespondents" bson:"totalRespondents"`
	Distribution     map[string]int `json:"distribution" bson:"distribution"` // score value -> count
	UpdatedAt        time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// UserScoreResponse is the body of GET /v1/scores/{userId}
type UserScoreResponse struct {
	UserID  string    `json:"userId"`
	Final   AxisPoint `json:"final"`
	Average AxisPoint `json:"average"`
}

// DistributionResponse is the body of GET /v1/questions/{id}/distribution
type DistributionResponse struct {
	QuestionID       string            `json:"questionId"`
	Label            string            `json:"label"`
	TotalRespondents int               `json:"totalRespondents"`
	Distribution     map[string]string `json:"distribution"`
}

// UserExport is one respondent's slice of the full data dump
type UserExport struct {
	Answers map[string]Answer  `json:"answers"`
	Scores  map[string]float64 `json:"scores"`
}

// QuestionExport is one question's slice of the full data dump
type QuestionExport struct {
	Stats   map[string]int64 `json:"stats"`
	Answers []QuestionAnswer `json:"answers"`
}

// Export is the full data dump returned by the admin export endpoint
type Export struct {
	Users     map[string]UserExport     `json:"users"`
	Questions map[string]QuestionExport `json:"questions"`
	Timestamp time.Time                 `json:"timestamp"`
}
