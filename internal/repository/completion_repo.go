package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"wordstake/internal/model"
)

type CompletionRepo interface {
	Create(ctx context.Context, c *model.Completion) error
	HasPlayed(ctx context.Context, walletID, period string) (bool, error)
	WonInPeriod(ctx context.Context, walletID, period string) (bool, error)
	Clear(ctx context.Context) error
}

type completionRepo struct {
	collection *mongo.Collection
}

func NewCompletionRepo(db *mongo.Database) CompletionRepo {
	return &completionRepo{
		collection: db.Collection("completions"),
	}
}

func (r *completionRepo) Create(ctx context.Context, c *model.Completion) error {
	if c.ID == "" {
		c.ID = primitive.NewObjectID().Hex()
	}
	if c.CompletedAt.IsZero() {
		c.CompletedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, c)
	return err
}

func (r *completionRepo) HasPlayed(ctx context.Context, walletID, period string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"walletId": walletID, "period": period})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *completionRepo) WonInPeriod(ctx context.Context, walletID, period string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"walletId": walletID,
		"period":   period,
		"status":   model.SessionWon,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *completionRepo) Clear(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}
