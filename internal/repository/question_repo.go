package repository

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"truthordare/internal/model"
)

// QuestionBank owns the prompt pools. The engine only reads from it.
type QuestionBank interface {
	ListPrompts(ctx context.Context, category model.Category) ([]string, error)
	AddPrompt(ctx context.Context, category model.Category, text string) error
	RemovePrompt(ctx context.Context, category model.Category, text string) (bool, error)
}

type QuestionRepo interface {
	QuestionBank
	List(ctx context.Context, category model.Category) ([]*model.Prompt, error)
	Count(ctx context.Context, category model.Category) (int64, error)
}

type questionRepo struct {
	collection *mongo.Collection
}

func NewQuestionRepo(client *mongo.Client, database string) QuestionRepo {
	db := client.Database(database)
	return newQuestionRepo(db.Collection("prompts"))
}

func newQuestionRepo(collection *mongo.Collection) *questionRepo {
	return &questionRepo{collection: collection}
}

func (r *questionRepo) List(ctx context.Context, category model.Category) ([]*model.Prompt, error) {
	// Bank order is insertion order
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"category": category}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var prompts []*model.Prompt
	if err = cursor.All(ctx, &prompts); err != nil {
		return nil, err
	}
	return prompts, nil
}

func (r *questionRepo) ListPrompts(ctx context.Context, category model.Category) ([]string, error) {
	prompts, err := r.List(ctx, category)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(prompts))
	for _, p := range prompts {
		if text := strings.TrimSpace(p.Text); text != "" {
			out = append(out, text)
		}
	}
	return out, nil
}

func (r *questionRepo) AddPrompt(ctx context.Context, category model.Category, text string) error {
	prompt := &model.Prompt{
		ID:        primitive.NewObjectID().Hex(),
		Category:  category,
		Text:      strings.TrimSpace(text),
		CreatedAt: time.Now(),
	}
	_, err := r.collection.InsertOne(ctx, prompt)
	return err
}

func (r *questionRepo) RemovePrompt(ctx context.Context, category model.Category, text string) (bool, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"category": category, "text": strings.TrimSpace(text)})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *questionRepo) Count(ctx context.Context, category model.Category) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"category": category})
}
