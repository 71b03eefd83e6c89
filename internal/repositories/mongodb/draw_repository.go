package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/poolotto/poolotto-backend/internal/models"
	"github.com/poolotto/poolotto-backend/internal/repositories"
)

// DrawRepository implements the repositories.DrawRepository interface
type DrawRepository struct {
	collection *mongo.Collection
}

// NewDrawRepository creates a new DrawRepository
func NewDrawRepository(db *mongo.Database) repositories.DrawRepository {
	return &DrawRepository{
		collection: db.Collection("draws"),
	}
}

// Create creates a new draw record
func (r *DrawRepository) Create(ctx context.Context, draw *models.Draw) error {
	draw.CreatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, draw)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		draw.ID = id
	}
	return nil
}

// FindByID finds a draw record by ID
func (r *DrawRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Draw, error) {
	var draw models.Draw
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&draw)
	if err != nil {
		return nil, err
	}
	return &draw, nil
}

// FindByTier finds draw records for a tier with pagination
func (r *DrawRepository) FindByTier(ctx context.Context, tier int, page, limit int) ([]*models.Draw, error) {
	return r.find(ctx, bson.M{"tier": tier}, page, limit)
}

// FindAll finds all draw records with pagination
func (r *DrawRepository) FindAll(ctx context.Context, page, limit int) ([]*models.Draw, error) {
	return r.find(ctx, bson.M{}, page, limit)
}

func (r *DrawRepository) find(ctx context.Context, filter bson.M, page, limit int) ([]*models.Draw, error) {
	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"drawnAt": -1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var draws []*models.Draw
	if err := cursor.All(ctx, &draws); err != nil {
		return nil, err
	}
	return draws, nil
}

// Count counts all draw records
func (r *DrawRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
