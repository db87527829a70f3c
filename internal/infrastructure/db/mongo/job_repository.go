package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/streetmuse/freelance-platform/internal/core/domain"
	"github.com/streetmuse/freelance-platform/internal/core/ports"
)

const collectionJobs = "jobs"

type JobRepository struct {
	col *mongo.Collection
}

func NewJobRepository(db *mongo.Database) *JobRepository {
	return &JobRepository{col: db.Collection(collectionJobs)}
}

type jobDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	ClientID          string             `bson:"client_id"`
	ClientName        string             `bson:"client_name"`
	Title             string             `bson:"title"`
	Description       string             `bson:"description"`
	Budget            float64            `bson:"budget"`
	Status            string             `bson:"status"`
	HiredFreelancerID string             `bson:"hired_freelancer_id,omitempty"`
	CreatedAt         time.Time          `bson:"created_at"`
}

func (d *jobDoc) toDomain() *domain.Job {
	return &domain.Job{
		ID:                d.ID.Hex(),
		ClientID:          d.ClientID,
		ClientName:        d.ClientName,
		Title:             d.Title,
		Description:       d.Description,
		Budget:            d.Budget,
		Status:            domain.JobStatus(d.Status),
		HiredFreelancerID: d.HiredFreelancerID,
		CreatedAt:         d.CreatedAt.UTC(),
	}
}

// Insert persists a new job document and returns the assigned id.
func (r *JobRepository) Insert(ctx context.Context, job *domain.Job) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := jobDoc{
		ID:          primitive.NewObjectID(),
		ClientID:    job.ClientID,
		ClientName:  job.ClientName,
		Title:       job.Title,
		Description: job.Description,
		Budget:      job.Budget,
		Status:      string(job.Status),
		CreatedAt:   job.CreatedAt,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return doc.ID.Hex(), nil
}

func (r *JobRepository) FindByID(ctx context.Context, id string) (*domain.Job, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrJobNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc jobDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// List returns a page of jobs matching filter and the total count.
func (r *JobRepository) List(ctx context.Context, f ports.ListJobsFilter) ([]*domain.Job, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := buildJobFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if f.Limit > 0 {
		opts = opts.SetLimit(int64(f.Limit))
		if f.Page > 1 {
			opts = opts.SetSkip(int64((f.Page - 1) * f.Limit))
		}
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var jobs []*domain.Job
	for cur.Next(ctx) {
		var doc jobDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func buildJobFilter(f ports.ListJobsFilter) bson.M {
	var clauses []bson.M

	if f.OpenOrHiredBy != "" {
		clauses = append(clauses, bson.M{"$or": []bson.M{
			{"status": string(domain.JobStatusOpen)},
			{"hired_freelancer_id": f.OpenOrHiredBy},
		}})
	}
	if f.ClientID != "" {
		clauses = append(clauses, bson.M{"client_id": f.ClientID})
	}
	if f.Status != "" {
		clauses = append(clauses, bson.M{"status": f.Status})
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		clauses = append(clauses, bson.M{"$or": []bson.M{
			{"title": re},
			{"client_name": re},
		}})
	}
	if !f.DateFrom.IsZero() || !f.DateTo.IsZero() {
		created := bson.M{}
		if !f.DateFrom.IsZero() {
			created["$gte"] = f.DateFrom
		}
		if !f.DateTo.IsZero() {
			created["$lte"] = f.DateTo
		}
		clauses = append(clauses, bson.M{"created_at": created})
	}

	if len(clauses) == 0 {
		return bson.M{}
	}
	return bson.M{"$and": clauses}
}

// UpdateFields overwrites the externally mutable fields of a job.
func (r *JobRepository) UpdateFields(ctx context.Context, id, title, description string, budget float64) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrJobNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"title":       title,
		"description": description,
		"budget":      budget,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

// SetHired marks the job in_progress with the given freelancer hired.
func (r *JobRepository) SetHired(ctx context.Context, id, freelancerID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrJobNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"status":              string(domain.JobStatusInProgress),
		"hired_freelancer_id": freelancerID,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

// Delete removes the job document. Deleting an absent job reports not found.
func (r *JobRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrJobNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the jobs collection.
func (r *JobRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "client_id", Value: 1}}},
		{Keys: bson.D{{Key: "hired_freelancer_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
