package expertRepo

import (
	"context"
	"fmt"
	"time"

	"maato/database"
	"maato/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoExpertRepo implements ExpertRepository using MongoDB.
type MongoExpertRepo struct {
	coll *mongo.Collection
}

// NewMongoExpertRepo creates a new ExpertRepository backed by the users
// collection.
func NewMongoExpertRepo() ExpertRepository {
	repo := &MongoExpertRepo{coll: database.DB().Collection("users")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create user indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoExpertRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		// Primary matcher query pattern.
		{Keys: bson.D{
			{Key: "role", Value: 1},
			{Key: "expertStatus", Value: 1},
			{Key: "labMunicipality", Value: 1},
		}, Options: options.Index().SetName("matchable_expert_idx")},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a user by its unique ID.
func (r *MongoExpertRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	cctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var u models.User
	if err := r.coll.FindOne(cctx, bson.M{"id": id}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, err)
	}
	return &u, nil
}

// FindApprovedByMunicipality returns the matchable experts for a
// municipality. Ranking happens in the matching service; the repository
// only narrows the candidate set.
func (r *MongoExpertRepo) FindApprovedByMunicipality(ctx context.Context, municipality string, excludeIDs []string) ([]models.User, error) {
	cctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{
		"role":            models.RoleExpert,
		"expertStatus":    models.ExpertApproved,
		"labMunicipality": municipality,
	}
	if len(excludeIDs) > 0 {
		filter["id"] = bson.M{"$nin": excludeIDs}
	}

	cursor, err := r.coll.Find(cctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search experts: %w", err)
	}
	defer cursor.Close(cctx)

	var experts []models.User
	for cursor.Next(cctx) {
		var u models.User
		if err := cursor.Decode(&u); err != nil {
			return nil, fmt.Errorf("failed to decode expert: %w", err)
		}
		experts = append(experts, u)
	}
	return experts, nil
}
