package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zkvote/voting-system/internal/core/domain"
	"github.com/zkvote/voting-system/internal/core/ports"
)

const collectionVotes = "votes"

type VoteRepository struct {
	col *mongo.Collection
}

func NewVoteRepository(db *mongo.Database) *VoteRepository {
	return &VoteRepository{col: db.Collection(collectionVotes)}
}

// Insert appends a vote to the ledger. The unique (election_id, voter_id)
// index is the single-vote invariant: under concurrent casts the store keeps
// exactly one document and every other insert comes back ErrDuplicateVote.
func (r *VoteRepository) Insert(ctx context.Context, v *domain.Vote) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, v); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateVote
		}
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

func (r *VoteRepository) FindByElectionAndVoter(ctx context.Context, electionID, voterID string) (*domain.Vote, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var v domain.Vote
	err := r.col.FindOne(ctx, bson.M{"election_id": electionID, "voter_id": voterID}).Decode(&v)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVoteNotFound
		}
		return nil, fmt.Errorf("find vote: %w", err)
	}
	return &v, nil
}

func (r *VoteRepository) FindByToken(ctx context.Context, token string) (*domain.Vote, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var v domain.Vote
	if err := r.col.FindOne(ctx, bson.M{"token": token}).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVoteNotFound
		}
		return nil, fmt.Errorf("find vote by token: %w", err)
	}
	return &v, nil
}

// ListByElection returns an election's votes in cast order.
func (r *VoteRepository) ListByElection(ctx context.Context, electionID string) ([]*domain.Vote, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "cast_at", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"election_id": electionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	defer cur.Close(ctx)

	votes := []*domain.Vote{}
	for cur.Next(ctx) {
		var v domain.Vote
		if err := cur.Decode(&v); err != nil {
			return nil, fmt.Errorf("decode vote: %w", err)
		}
		votes = append(votes, &v)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	return votes, nil
}

// TallyByOption groups the election's votes by option in a single aggregation
// pass, so all rows come from one snapshot of the ledger.
func (r *VoteRepository) TallyByOption(ctx context.Context, electionID string) ([]ports.TallyRow, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"election_id": electionID}}},
		{{Key: "$group", Value: bson.M{"_id": "$option_id", "votes": bson.M{"$sum": 1}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("tally votes: %w", err)
	}
	defer cur.Close(ctx)

	var rows []ports.TallyRow
	for cur.Next(ctx) {
		var row struct {
			OptionID string `bson:"_id"`
			Votes    int64  `bson:"votes"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode tally row: %w", err)
		}
		rows = append(rows, ports.TallyRow{OptionID: row.OptionID, Votes: row.Votes})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("tally votes: %w", err)
	}
	return rows, nil
}

func (r *VoteRepository) CountByElection(ctx context.Context, electionID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"election_id": electionID})
	if err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}
	return n, nil
}

// EnsureIndexes creates the ledger indexes. The compound unique index on
// (election_id, voter_id) carries the single-vote invariant; the unique token
// index backs receipt lookups.
func (r *VoteRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "election_id", Value: 1}, {Key: "voter_id", Value: 1}},
			Options: uniqueIndex(),
		},
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: uniqueIndex(),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
