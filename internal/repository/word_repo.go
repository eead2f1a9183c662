package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"wordstake/internal/model"
)

type WordRepo interface {
	// Assignment queue
	Queue(ctx context.Context, a *model.WordAssignment) error
	NextUnused(ctx context.Context, walletID string) (*model.WordAssignment, error)
	HasUnused(ctx context.Context, walletID string) (bool, error)
	MarkUsed(ctx context.Context, id string) error
	ClearAssignments(ctx context.Context) error

	// Answer pool
	AddAnswer(ctx context.Context, word string) error
	RandomAnswer(ctx context.Context) (string, error)
}

type wordRepo struct {
	assignments *mongo.Collection
	answers     *mongo.Collection
}

func NewWordRepo(db *mongo.Database) WordRepo {
	return &wordRepo{
		assignments: db.Collection("word_assignments"),
		answers:     db.Collection("answer_pool"),
	}
}

func (r *wordRepo) Queue(ctx context.Context, a *model.WordAssignment) error {
	if a.ID == "" {
		a.ID = primitive.NewObjectID().Hex()
	}
	if a.AssignedAt.IsZero() {
		a.AssignedAt = time.Now()
	}
	_, err := r.assignments.InsertOne(ctx, a)
	return err
}

func (r *wordRepo) NextUnused(ctx context.Context, walletID string) (*model.WordAssignment, error) {
	opts := options.FindOne().SetSort(bson.M{"assignedAt": 1})
	var a model.WordAssignment
	err := r.assignments.FindOne(ctx, bson.M{"walletId": walletID, "used": false}, opts).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *wordRepo) HasUnused(ctx context.Context, walletID string) (bool, error) {
	count, err := r.assignments.CountDocuments(ctx, bson.M{"walletId": walletID, "used": false})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *wordRepo) MarkUsed(ctx context.Context, id string) error {
	_, err := r.assignments.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"used": true}})
	return err
}

func (r *wordRepo) ClearAssignments(ctx context.Context) error {
	_, err := r.assignments.DeleteMany(ctx, bson.M{})
	return err
}

func (r *wordRepo) AddAnswer(ctx context.Context, word string) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.answers.ReplaceOne(ctx, bson.M{"_id": word},
		&model.AnswerWord{Word: word, AddedAt: time.Now()}, opts)
	return err
}

func (r *wordRepo) RandomAnswer(ctx context.Context) (string, error) {
	cursor, err := r.answers.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$sample", Value: bson.D{{Key: "size", Value: 1}}}},
	})
	if err != nil {
		return "", err
	}
	defer cursor.Close(ctx)

	var words []model.AnswerWord
	if err = cursor.All(ctx, &words); err != nil {
		return "", err
	}
	if len(words) == 0 {
		return "", mongo.ErrNoDocuments
	}
	return words[0].Word, nil
}
