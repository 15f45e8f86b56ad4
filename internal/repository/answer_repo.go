package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"identitymap/internal/model"
)

// AnswerRepo is the durable answer store. It keeps exactly one answer
// per (user, question); saving again replaces the previous answer.
type AnswerRepo interface {
	// Upsert stores the answer and returns the answer it replaced,
	// or nil if this is the first submission for the pair.
	Upsert(ctx context.Context, answer *model.Answer) (*model.Answer, error)
	GetUserAnswers(ctx context.Context, userID string) (map[string]model.Answer, error)
	GetQuestionAnswers(ctx context.Context, questionID string) ([]model.QuestionAnswer, error)
	ListUsers(ctx context.Context) ([]string, error)
}

type answerRepo struct {
	collection *mongo.Collection
}

// NewAnswerRepo creates a new answer repository
func NewAnswerRepo(db *mongo.Database) AnswerRepo {
	return &answerRepo{
		collection: db.Collection("answers"),
	}
}

func (r *answerRepo) Upsert(ctx context.Context, answer *model.Answer) (*model.Answer, error) {
	if answer.AnsweredAt.IsZero() {
		answer.AnsweredAt = time.Now()
	}

	filter := bson.M{"userId": answer.UserID, "questionId": answer.QuestionID}
	replacement := bson.M{
		"userId":     answer.UserID,
		"questionId": answer.QuestionID,
		"value":      answer.Value,
		"answeredAt": answer.AnsweredAt,
	}
	opts := options.FindOneAndReplace().
		SetUpsert(true).
		SetReturnDocument(options.Before)

	var previous model.Answer
	err := r.collection.FindOneAndReplace(ctx, filter, replacement, opts).Decode(&previous)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &previous, nil
}

func (r *answerRepo) GetUserAnswers(ctx context.Context, userID string) (map[string]model.Answer, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var answers []model.Answer
	if err = cursor.All(ctx, &answers); err != nil {
		return nil, err
	}

	byQuestion := make(map[string]model.Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}
	return byQuestion, nil
}

func (r *answerRepo) GetQuestionAnswers(ctx context.Context, questionID string) ([]model.QuestionAnswer, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"questionId": questionID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var answers []model.Answer
	if err = cursor.All(ctx, &answers); err != nil {
		return nil, err
	}

	out := make([]model.QuestionAnswer, 0, len(answers))
	for _, a := range answers {
		out = append(out, model.QuestionAnswer{
			UserID:     a.UserID,
			Value:      a.Value,
			AnsweredAt: a.AnsweredAt,
		})
	}
	return out, nil
}

func (r *answerRepo) ListUsers(ctx context.Context) ([]string, error) {
	raw, err := r.collection.Distinct(ctx, "userId", bson.M{})
	if err != nil {
		return nil, err
	}

	users := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok {
			users = append(users, id)
		}
	}
	return users, nil
}
