package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"wordstake/internal/model"
)

type DepositRepo interface {
	Create(ctx context.Context, dep *model.DepositRecord) error
	Get(ctx context.Context, walletID, period string) (*model.DepositRecord, error)
	Has(ctx context.Context, walletID, period string) (bool, error)
	// Convert folds a previous-period deposit onto the new period without
	// creating a second record. Returns false if no record existed to fold.
	Convert(ctx context.Context, walletID, fromPeriod, toPeriod string) (bool, error)
	Clear(ctx context.Context) error
}

type depositRepo struct {
	collection *mongo.Collection
}

func NewDepositRepo(db *mongo.Database) DepositRepo {
	return &depositRepo{
		collection: db.Collection("deposits"),
	}
}

func (r *depositRepo) Create(ctx context.Context, dep *model.DepositRecord) error {
	if dep.ID == "" {
		dep.ID = primitive.NewObjectID().Hex()
	}
	if dep.RecordedAt.IsZero() {
		dep.RecordedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, dep)
	return err
}

func (r *depositRepo) Get(ctx context.Context, walletID, period string) (*model.DepositRecord, error) {
	var dep model.DepositRecord
	err := r.collection.FindOne(ctx, bson.M{"walletId": walletID, "period": period}).Decode(&dep)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &dep, nil
}

func (r *depositRepo) Has(ctx context.Context, walletID, period string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"walletId": walletID, "period": period})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *depositRepo) Convert(ctx context.Context, walletID, fromPeriod, toPeriod string) (bool, error) {
	update := bson.M{"$set": bson.M{"period": toPeriod, "isGracePeriod": true}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"walletId": walletID, "period": fromPeriod}, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

func (r *depositRepo) Clear(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}
