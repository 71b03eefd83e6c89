package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/poolotto/poolotto-backend/internal/models"
	"github.com/poolotto/poolotto-backend/internal/repositories"
)

// EntryRepository implements the repositories.EntryRepository interface
type EntryRepository struct {
	collection *mongo.Collection
}

// NewEntryRepository creates a new EntryRepository
func NewEntryRepository(db *mongo.Database) repositories.EntryRepository {
	return &EntryRepository{
		collection: db.Collection("entries"),
	}
}

// Create creates a new entry record
func (r *EntryRepository) Create(ctx context.Context, entry *models.Entry) error {
	entry.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// FindByTier finds entry records for a tier with pagination
func (r *EntryRepository) FindByTier(ctx context.Context, tier int, page, limit int) ([]*models.Entry, error) {
	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"enteredAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{"tier": tier}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Count counts all entry records
func (r *EntryRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
