package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/streetmuse/freelance-platform/internal/core/domain"
)

const collectionProposals = "proposals"

type ProposalRepository struct {
	col *mongo.Collection
}

func NewProposalRepository(db *mongo.Database) *ProposalRepository {
	return &ProposalRepository{col: db.Collection(collectionProposals)}
}

type proposalDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	JobID          string             `bson:"job_id"`
	FreelancerID   string             `bson:"freelancer_id"`
	FreelancerName string             `bson:"freelancer_name"`
	CoverLetter    string             `bson:"cover_letter"`
	ProposedBudget float64            `bson:"proposed_budget"`
	Timeline       string             `bson:"timeline"`
	Status         string             `bson:"status"`
	CreatedAt      time.Time          `bson:"created_at"`
}

func (d *proposalDoc) toDomain() *domain.Proposal {
	return &domain.Proposal{
		ID:             d.ID.Hex(),
		JobID:          d.JobID,
		FreelancerID:   d.FreelancerID,
		FreelancerName: d.FreelancerName,
		CoverLetter:    d.CoverLetter,
		ProposedBudget: d.ProposedBudget,
		Timeline:       d.Timeline,
		Status:         domain.ProposalStatus(d.Status),
		CreatedAt:      d.CreatedAt.UTC(),
	}
}

// Insert persists a new proposal document and returns the assigned id.
func (r *ProposalRepository) Insert(ctx context.Context, p *domain.Proposal) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := proposalDoc{
		ID:             primitive.NewObjectID(),
		JobID:          p.JobID,
		FreelancerID:   p.FreelancerID,
		FreelancerName: p.FreelancerName,
		CoverLetter:    p.CoverLetter,
		ProposedBudget: p.ProposedBudget,
		Timeline:       p.Timeline,
		Status:         string(p.Status),
		CreatedAt:      p.CreatedAt,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return doc.ID.Hex(), nil
}

func (r *ProposalRepository) FindByID(ctx context.Context, id string) (*domain.Proposal, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProposalNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc proposalDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProposalNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// List returns proposals, restricted to a single job when jobID is non-empty.
func (r *ProposalRepository) List(ctx context.Context, jobID string) ([]*domain.Proposal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if jobID != "" {
		filter["job_id"] = jobID
	}

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var proposals []*domain.Proposal
	for cur.Next(ctx) {
		var doc proposalDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		proposals = append(proposals, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return proposals, nil
}

func (r *ProposalRepository) UpdateStatus(ctx context.Context, id string, status domain.ProposalStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrProposalNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"status": string(status)}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrProposalNotFound
	}
	return nil
}

// RejectPendingSiblings rejects every pending proposal on the job except
// keepID. Already finalized proposals are untouched.
func (r *ProposalRepository) RejectPendingSiblings(ctx context.Context, jobID, keepID string) (int64, error) {
	keepOID, err := primitive.ObjectIDFromHex(keepID)
	if err != nil {
		return 0, domain.ErrProposalNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateMany(ctx,
		bson.M{
			"job_id": jobID,
			"_id":    bson.M{"$ne": keepOID},
			"status": string(domain.ProposalStatusPending),
		},
		bson.M{"$set": bson.M{"status": string(domain.ProposalStatusRejected)}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// DeleteByJobID removes every proposal referencing the job.
func (r *ProposalRepository) DeleteByJobID(ctx context.Context, jobID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"job_id": jobID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates necessary indexes on the proposals collection.
func (r *ProposalRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "job_id", Value: 1}}},
		{Keys: bson.D{{Key: "job_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "freelancer_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
