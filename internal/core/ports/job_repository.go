package ports

import (
	"context"
	"time"

	"github.com/streetmuse/freelance-platform/internal/core/domain"
)

// ListJobsFilter carries all query parameters for listing jobs.
// Visibility scoping is always decided by the service layer from the
// actor's role; repositories only translate the filter.
type ListJobsFilter struct {
	// OpenOrHiredBy, when non-empty, restricts the result to jobs that are
	// open plus jobs whose hired freelancer id matches (freelancer view).
	OpenOrHiredBy string
	ClientID      string    // optional: jobs posted by a specific client
	Status        string    // optional: filter by job status
	Search        string    // optional: partial match on title or client name
	DateFrom      time.Time // optional: created_at >= DateFrom
	DateTo        time.Time // optional: created_at <= DateTo
	Page          int       // 1-based
	Limit         int       // max rows per page (capped at 100 by service)
}

// JobRepository defines persistence operations for jobs.
type JobRepository interface {
	// Insert persists a new job and returns the assigned id.
	Insert(ctx context.Context, job *domain.Job) (string, error)
	FindByID(ctx context.Context, id string) (*domain.Job, error)
	// List returns a page of jobs matching filter and the total count.
	List(ctx context.Context, filter ListJobsFilter) ([]*domain.Job, int64, error)
	// UpdateFields overwrites title, description and budget of an existing
	// job. Status and hire assignment are not reachable through this call.
	UpdateFields(ctx context.Context, id, title, description string, budget float64) error
	// SetHired marks the job in_progress with the given freelancer. Only the
	// accept transaction calls this.
	SetHired(ctx context.Context, id, freelancerID string) error
	// Delete removes the job, returning domain.ErrJobNotFound when absent.
	Delete(ctx context.Context, id string) error
}
