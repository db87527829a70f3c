package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/streetmuse/freelance-platform/internal/core/domain"
	"github.com/streetmuse/freelance-platform/internal/core/ports"
)

// SubmissionGuard abstracts the duplicate-submission store (Redis). It
// suppresses repeat proposals by the same freelancer against the same job.
type SubmissionGuard interface {
	IsDuplicate(ctx context.Context, jobID, freelancerID string) (bool, error)
	Mark(ctx context.Context, jobID, freelancerID string) error
}

type proposalService struct {
	proposals ports.ProposalRepository
	jobs      ports.JobRepository
	tx        ports.TxRunner
	guard     SubmissionGuard
	log       zerolog.Logger
}

// NewProposalService returns a ProposalService implementation.
func NewProposalService(
	proposals ports.ProposalRepository,
	jobs ports.JobRepository,
	tx ports.TxRunner,
	guard SubmissionGuard,
	log zerolog.Logger,
) ports.ProposalService {
	return &proposalService{
		proposals: proposals,
		jobs:      jobs,
		tx:        tx,
		guard:     guard,
		log:       log,
	}
}

// Create submits a new proposal against an existing open job.
func (s *proposalService) Create(ctx context.Context, input ports.CreateProposalInput) (*domain.Proposal, error) {
	if strings.TrimSpace(input.CoverLetter) == "" {
		return nil, fmt.Errorf("%w: cover letter is required", domain.ErrValidation)
	}
	if input.ProposedBudget < 0 {
		return nil, fmt.Errorf("%w: proposed budget must be non-negative", domain.ErrValidation)
	}

	// Duplicate-submission check. A guard failure is logged, not fatal.
	isDup, err := s.guard.IsDuplicate(ctx, input.JobID, input.FreelancerID)
	if err != nil {
		s.log.Warn().Err(err).Str("job_id", input.JobID).Msg("submission guard check failed, processing anyway")
	} else if isDup {
		return nil, domain.ErrDuplicateProposal
	}

	proposal := &domain.Proposal{
		JobID:          input.JobID,
		FreelancerID:   input.FreelancerID,
		FreelancerName: input.FreelancerName,
		CoverLetter:    input.CoverLetter,
		ProposedBudget: input.ProposedBudget,
		Timeline:       input.Timeline,
		Status:         domain.ProposalStatusPending,
		CreatedAt:      time.Now().UTC(),
	}

	// The existence and openness checks must not race an accept or a delete,
	// so the insert shares their transaction scope.
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		job, err := s.jobs.FindByID(ctx, input.JobID)
		if err != nil {
			return err
		}
		if job.Status != domain.JobStatusOpen {
			return domain.ErrJobNotOpen
		}

		id, err := s.proposals.Insert(ctx, proposal)
		if err != nil {
			return err
		}
		proposal.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	if markErr := s.guard.Mark(ctx, input.JobID, input.FreelancerID); markErr != nil {
		s.log.Warn().Err(markErr).Str("job_id", input.JobID).Msg("failed to mark submission")
	}

	s.log.Info().
		Str("proposal_id", proposal.ID).
		Str("job_id", input.JobID).
		Str("freelancer_id", input.FreelancerID).
		Msg("proposal created")

	return proposal, nil
}

// List returns proposals, optionally restricted to a single job.
func (s *proposalService) List(ctx context.Context, jobID string) ([]*domain.Proposal, error) {
	return s.proposals.List(ctx, jobID)
}

// SetStatus handles the manual reject path. Accepting goes through Accept;
// finalized proposals never change again.
func (s *proposalService) SetStatus(ctx context.Context, actor ports.Actor, id string, status domain.ProposalStatus) (*domain.Proposal, error) {
	if status != domain.ProposalStatusRejected {
		return nil, fmt.Errorf("%w: status must be %q", domain.ErrValidation, domain.ProposalStatusRejected)
	}

	var updated *domain.Proposal
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		proposal, err := s.proposals.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if proposal.Status.IsTerminal() {
			return domain.ErrProposalFinalized
		}

		job, err := s.jobs.FindByID(ctx, proposal.JobID)
		if err != nil {
			return err
		}
		if err := requireOwner(actor, job.ClientID); err != nil {
			return err
		}

		if err := s.proposals.UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		proposal.Status = status
		updated = proposal
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("proposal_id", id).Str("status", string(status)).Msg("proposal rejected")
	return updated, nil
}

// Accept is the core engagement transaction. Inside one store transaction it
// marks the proposal accepted, its job in_progress with the freelancer hired,
// and every sibling pending proposal rejected. A proposal that is no longer
// pending is refused without side effects, so at most one proposal per job
// can ever be accepted.
func (s *proposalService) Accept(ctx context.Context, actor ports.Actor, id string) (*ports.AcceptResult, error) {
	var result ports.AcceptResult

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		proposal, err := s.proposals.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if proposal.Status.IsTerminal() {
			return domain.ErrProposalFinalized
		}

		job, err := s.jobs.FindByID(ctx, proposal.JobID)
		if err != nil {
			return err
		}
		if err := requireOwner(actor, job.ClientID); err != nil {
			return err
		}
		if job.Status != domain.JobStatusOpen {
			return domain.ErrJobNotOpen
		}

		if err := s.proposals.UpdateStatus(ctx, id, domain.ProposalStatusAccepted); err != nil {
			return err
		}
		if err := s.jobs.SetHired(ctx, job.ID, proposal.FreelancerID); err != nil {
			return err
		}
		rejected, err := s.proposals.RejectPendingSiblings(ctx, proposal.JobID, id)
		if err != nil {
			return err
		}

		proposal.Status = domain.ProposalStatusAccepted
		job.Status = domain.JobStatusInProgress
		job.HiredFreelancerID = proposal.FreelancerID
		result.Proposal = proposal
		result.Job = job
		result.RejectedSiblings = rejected

		s.log.Info().
			Str("proposal_id", id).
			Str("job_id", job.ID).
			Str("freelancer_id", proposal.FreelancerID).
			Int64("siblings_rejected", rejected).
			Msg("proposal accepted")
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}
