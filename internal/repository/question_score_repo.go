package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"identitymap/internal/model"
)

// QuestionScoreRepo persists per-question aggregate statistics produced
// by batch recalculation.
type QuestionScoreRepo interface {
	Save(ctx context.Context, score *model.QuestionScore) error
	Get(ctx context.Context, questionID string) (*model.QuestionScore, error)
}

type questionScoreRepo struct {
	collection *mongo.Collection
}

// NewQuestionScoreRepo creates a new question score repository
func NewQuestionScoreRepo(db *mongo.Database) QuestionScoreRepo {
	return &questionScoreRepo{
		collection: db.Collection("question_scores"),
	}
}

func (r *questionScoreRepo) Save(ctx context.Context, score *model.QuestionScore) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"questionId": score.QuestionID}, score, opts)
	return err
}

func (r *questionScoreRepo) Get(ctx context.Context, questionID string) (*model.QuestionScore, error) {
	var score model.QuestionScore
	err := r.collection.FindOne(ctx, bson.M{"questionId": questionID}).Decode(&score)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &score, nil
}
