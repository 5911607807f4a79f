// internal/app/store/faqs/faqstore.go
package faqstore

import (
	"context"
	"time"

	"github.com/bracu-research/thesishub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("faqs")}
}

func (s *Store) Create(ctx context.Context, f models.FAQ) (models.FAQ, error) {
	f.ID = primitive.NewObjectID()
	f.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, f); err != nil {
		return models.FAQ{}, err
	}
	return f, nil
}

// List returns all FAQ entries, oldest first.
func (s *Store) List(ctx context.Context) ([]models.FAQ, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.FAQ{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
