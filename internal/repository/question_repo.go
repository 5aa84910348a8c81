package repository

import (
	"context"
	"fmt"

	"wellplay/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QuestionRepo stores the trivia question pool.
type QuestionRepo interface {
	Create(ctx context.Context, question *model.Question) error
	GetByID(ctx context.Context, id string) (*model.Question, error)
	List(ctx context.Context, filter model.QuestionFilter) ([]*model.Question, error)
	Delete(ctx context.Context, id string) error

	// FetchLeastUsed returns up to count questions matching the filter,
	// least-used first. Callers check the returned length themselves.
	FetchLeastUsed(ctx context.Context, filter model.QuestionFilter, count int) ([]*model.Question, error)
	// IncrementUsage bumps the usage counter for the given question IDs.
	IncrementUsage(ctx context.Context, ids []string) error
}

type questionRepo struct {
	collection *mongo.Collection
}

// NewQuestionRepo creates a question repository over the given database.
func NewQuestionRepo(db *mongo.Database) QuestionRepo {
	return &questionRepo{
		collection: db.Collection("questions"),
	}
}

func (r *questionRepo) Create(ctx context.Context, question *model.Question) error {
	if question.ID == "" {
		question.ID = primitive.NewObjectID().Hex()
	}
	if len(question.Options) < 2 || len(question.Options) > 6 {
		return fmt.Errorf("question must have 2-6 options, got %d", len(question.Options))
	}
	if question.CorrectOptionIndex < 0 || question.CorrectOptionIndex >= len(question.Options) {
		return fmt.Errorf("correct option index %d out of range", question.CorrectOptionIndex)
	}

	_, err := r.collection.InsertOne(ctx, question)
	return err
}

func (r *questionRepo) GetByID(ctx context.Context, id string) (*model.Question, error) {
	var question model.Question
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Question not found
		}
		return nil, err
	}
	return &question, nil
}

func (r *questionRepo) List(ctx context.Context, filter model.QuestionFilter) ([]*model.Question, error) {
	cursor, err := r.collection.Find(ctx, filterQuery(filter))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []*model.Question
	if err = cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *questionRepo) FetchLeastUsed(ctx context.Context, filter model.QuestionFilter, count int) ([]*model.Question, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timesUsed", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(count))

	cursor, err := r.collection.Find(ctx, filterQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []*model.Question
	if err = cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) IncrementUsage(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$inc": bson.M{"timesUsed": 1}},
	)
	return err
}

func filterQuery(filter model.QuestionFilter) bson.M {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Difficulty != "" {
		query["difficulty"] = filter.Difficulty
	}
	return query
}
