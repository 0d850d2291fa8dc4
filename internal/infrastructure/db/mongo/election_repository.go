package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zkvote/voting-system/internal/core/domain"
)

const collectionElections = "elections"

type ElectionRepository struct {
	col *mongo.Collection
}

func NewElectionRepository(db *mongo.Database) *ElectionRepository {
	return &ElectionRepository{col: db.Collection(collectionElections)}
}

// Create inserts the election with its options embedded. One document, one
// write, so there is no window where the election exists without its ballot.
func (r *ElectionRepository) Create(ctx context.Context, e *domain.Election) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("insert election: %w", err)
	}
	return nil
}

func (r *ElectionRepository) FindByID(ctx context.Context, id string) (*domain.Election, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var e domain.Election
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrElectionNotFound
		}
		return nil, fmt.Errorf("find election: %w", err)
	}
	return &e, nil
}

// List returns all elections, newest first.
func (r *ElectionRepository) List(ctx context.Context) ([]*domain.Election, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list elections: %w", err)
	}
	defer cur.Close(ctx)

	elections := []*domain.Election{}
	for cur.Next(ctx) {
		var e domain.Election
		if err := cur.Decode(&e); err != nil {
			return nil, fmt.Errorf("decode election: %w", err)
		}
		elections = append(elections, &e)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list elections: %w", err)
	}
	return elections, nil
}

func (r *ElectionRepository) Update(ctx context.Context, e *domain.Election) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": e.ID}, e)
	if err != nil {
		return fmt.Errorf("update election: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrElectionNotFound
	}
	return nil
}

func (r *ElectionRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete election: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrElectionNotFound
	}
	return nil
}
