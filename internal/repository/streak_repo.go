package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"wordstake/internal/model"
)

type StreakRepo interface {
	Get(ctx context.Context, walletID string) (*model.StreakRecord, error)
	Save(ctx context.Context, rec *model.StreakRecord) error
	All(ctx context.Context) ([]*model.StreakRecord, error)
	AllWithStreak(ctx context.Context) ([]*model.StreakRecord, error)
	Clear(ctx context.Context) error
}

type streakRepo struct {
	collection *mongo.Collection
}

func NewStreakRepo(db *mongo.Database) StreakRepo {
	return &streakRepo{
		collection: db.Collection("streaks"),
	}
}

func (r *streakRepo) Get(ctx context.Context, walletID string) (*model.StreakRecord, error) {
	var rec model.StreakRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": walletID}).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *streakRepo) Save(ctx context.Context, rec *model.StreakRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": rec.WalletID}, rec, opts)
	return err
}

func (r *streakRepo) All(ctx context.Context) ([]*model.StreakRecord, error) {
	return r.find(ctx, bson.M{})
}

func (r *streakRepo) AllWithStreak(ctx context.Context) ([]*model.StreakRecord, error) {
	return r.find(ctx, bson.M{"currentStreak": bson.M{"$gt": 0}})
}

func (r *streakRepo) find(ctx context.Context, filter bson.M) ([]*model.StreakRecord, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recs []*model.StreakRecord
	if err = cursor.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *streakRepo) Clear(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}
