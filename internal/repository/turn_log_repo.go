package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"truthordare/internal/model"
)

// TurnLogRepository keeps the history of resolved turns
type TurnLogRepository interface {
	RecordTurn(ctx context.Context, rec *model.TurnRecord) error
	History(ctx context.Context, sessionID string, limit int64) ([]*model.TurnRecord, error)
}

type turnLogRepository struct {
	collection *mongo.Collection
}

func NewTurnLogRepository(client *mongo.Client, database string) TurnLogRepository {
	db := client.Database(database)
	return newTurnLogRepository(db.Collection("turns"))
}

func newTurnLogRepository(collection *mongo.Collection) *turnLogRepository {
	return &turnLogRepository{collection: collection}
}

func (r *turnLogRepository) RecordTurn(ctx context.Context, rec *model.TurnRecord) error {
	if rec.ID == "" {
		rec.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.collection.InsertOne(ctx, rec)
	return err
}

// History returns the latest turns of a session, newest first
func (r *turnLogRepository) History(ctx context.Context, sessionID string, limit int64) ([]*model.TurnRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "turn", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.collection.Find(ctx, bson.M{"sessionId": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*model.TurnRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
