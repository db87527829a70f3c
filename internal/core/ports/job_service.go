package ports

import (
	"context"
	"time"

	"github.com/streetmuse/freelance-platform/internal/core/domain"
)

// Actor identifies the authenticated caller of a service operation.
type Actor struct {
	ID   string
	Role domain.Role
}

// CreateJobInput carries all data needed to post a new job.
type CreateJobInput struct {
	ClientID    string
	ClientName  string
	Title       string
	Description string
	Budget      float64
}

// UpdateJobPatch enumerates the fields mutable through UpdateJob. Nil fields
// are left untouched. Status and hired freelancer are deliberately absent;
// only the accept transaction moves them.
type UpdateJobPatch struct {
	Title       *string
	Description *string
	Budget      *float64
}

// ListJobsInput carries all parameters for the job list endpoint.
type ListJobsInput struct {
	Role     domain.Role
	UserID   string
	Status   string
	ClientID string
	Search   string
	DateFrom time.Time
	DateTo   time.Time
	Page     int
	Limit    int
}

// ListJobsResult is returned by List.
type ListJobsResult struct {
	Items      []*domain.Job
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// JobService defines use-case operations on job postings.
type JobService interface {
	Create(ctx context.Context, input CreateJobInput) (*domain.Job, error)
	Get(ctx context.Context, id string) (*domain.Job, error)
	// List applies the role visibility rule: freelancers see open jobs plus
	// their own engagements, clients and admins see everything.
	List(ctx context.Context, input ListJobsInput) (*ListJobsResult, error)
	Update(ctx context.Context, actor Actor, id string, patch UpdateJobPatch) (*domain.Job, error)
	// Delete removes the job and cascades to its proposals atomically.
	Delete(ctx context.Context, actor Actor, id string) error
}
