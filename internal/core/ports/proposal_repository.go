package ports

import (
	"context"

	"github.com/streetmuse/freelance-platform/internal/core/domain"
)

// ProposalRepository defines persistence operations for proposals.
type ProposalRepository interface {
	// Insert persists a new proposal and returns the assigned id.
	Insert(ctx context.Context, p *domain.Proposal) (string, error)
	FindByID(ctx context.Context, id string) (*domain.Proposal, error)
	// List returns proposals, optionally restricted to a single job when
	// jobID is non-empty.
	List(ctx context.Context, jobID string) ([]*domain.Proposal, error)
	UpdateStatus(ctx context.Context, id string, status domain.ProposalStatus) error
	// RejectPendingSiblings moves every pending proposal on the job, except
	// the one identified by keepID, to rejected. Proposals already accepted
	// or rejected are left untouched. Returns the number rejected.
	RejectPendingSiblings(ctx context.Context, jobID, keepID string) (int64, error)
	// DeleteByJobID removes all proposals referencing the job (cascade on
	// job deletion). Returns the number removed.
	DeleteByJobID(ctx context.Context, jobID string) (int64, error)
}
