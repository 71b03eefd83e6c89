package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/poolotto/poolotto-backend/internal/models"
	"github.com/poolotto/poolotto-backend/internal/repositories"
)

// OperatorUserRepository implements the repositories.OperatorUserRepository interface
type OperatorUserRepository struct {
	collection *mongo.Collection
}

// NewOperatorUserRepository creates a new OperatorUserRepository
func NewOperatorUserRepository(db *mongo.Database) repositories.OperatorUserRepository {
	return &OperatorUserRepository{
		collection: db.Collection("operator_users"),
	}
}

// Create creates a new operator user
func (r *OperatorUserRepository) Create(ctx context.Context, user *models.OperatorUser) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// FindByUsername finds an operator user by username
func (r *OperatorUserRepository) FindByUsername(ctx context.Context, username string) (*models.OperatorUser, error) {
	var user models.OperatorUser
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Count counts all operator users
func (r *OperatorUserRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
