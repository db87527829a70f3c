package ports

import (
	"context"

	"github.com/streetmuse/freelance-platform/internal/core/domain"
)

// CreateProposalInput carries all data needed to submit a proposal.
type CreateProposalInput struct {
	JobID          string
	FreelancerID   string
	FreelancerName string
	CoverLetter    string
	ProposedBudget float64
	Timeline       string
}

// AcceptResult is returned by Accept: the accepted proposal together with its
// job after the hire was recorded, plus the number of sibling pending
// proposals rejected by the cascade.
type AcceptResult struct {
	Proposal         *domain.Proposal
	Job              *domain.Job
	RejectedSiblings int64
}

// ProposalService defines use-case operations on proposals.
type ProposalService interface {
	Create(ctx context.Context, input CreateProposalInput) (*domain.Proposal, error)
	List(ctx context.Context, jobID string) ([]*domain.Proposal, error)
	// SetStatus covers the manual reject path. The target must still be
	// pending and the only permitted destination is rejected; the parent job
	// is not touched.
	SetStatus(ctx context.Context, actor Actor, id string, status domain.ProposalStatus) (*domain.Proposal, error)
	// Accept atomically marks the proposal accepted, its job in_progress
	// with the proposal's freelancer hired, and every sibling pending
	// proposal rejected.
	Accept(ctx context.Context, actor Actor, id string) (*AcceptResult, error)
}
