package models

import (
	"context"
	"fmt"

	"github.com/joshua-takyi/eventhub/internal/helpers"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListLimit caps every list query; there is no pagination.
const ListLimit int64 = 100

type EntityRepo interface {
	Insert(ctx context.Context, rec Record) (primitive.ObjectID, error)
	List(ctx context.Context, limit int64) ([]bson.Raw, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]any) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// EntityStore is the MongoDB implementation of EntityRepo for one collection.
type EntityStore struct {
	mdb    *MongodbRepo
	entity Entity
}

func (mdb *MongodbRepo) EntityStore(entity Entity) *EntityStore {
	return &EntityStore{mdb: mdb, entity: entity}
}

func (s *EntityStore) Insert(ctx context.Context, rec Record) (primitive.ObjectID, error) {
	col, err := s.mdb.GetCollection(s.entity.Collection)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("error getting collection: %w", err)
	}

	res, err := col.InsertOne(ctx, rec)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert %s: %w", s.entity.Collection, err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id, nil
}

func (s *EntityStore) List(ctx context.Context, limit int64) ([]bson.Raw, error) {
	col, err := s.mdb.GetCollection(s.entity.Collection)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	cursor, err := col.Find(ctx, bson.D{}, options.Find().SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("error finding %s: %w", s.entity.Collection, err)
	}
	defer cursor.Close(ctx)

	docs := make([]bson.Raw, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", s.entity.Collection, err)
	}
	return docs, nil
}

func (s *EntityStore) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]any) error {
	col, err := s.mdb.GetCollection(s.entity.Collection)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}

	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("error updating %s: %w", s.entity.Collection, err)
	}
	if res.MatchedCount == 0 {
		return helpers.NotFound(s.entity.Name)
	}
	return nil
}

func (s *EntityStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	col, err := s.mdb.GetCollection(s.entity.Collection)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting from %s: %w", s.entity.Collection, err)
	}
	if res.DeletedCount == 0 {
		return helpers.NotFound(s.entity.Name)
	}
	return nil
}
