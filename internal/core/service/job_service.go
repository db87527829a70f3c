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

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type JobService struct {
	jobs      ports.JobRepository
	proposals ports.ProposalRepository
	tx        ports.TxRunner
	logger    zerolog.Logger
}

func NewJobService(jobs ports.JobRepository, proposals ports.ProposalRepository, tx ports.TxRunner, logger zerolog.Logger) *JobService {
	return &JobService{jobs: jobs, proposals: proposals, tx: tx, logger: logger}
}

// Create posts a new job with status open and no hired freelancer.
func (s *JobService) Create(ctx context.Context, input ports.CreateJobInput) (*domain.Job, error) {
	if err := validateJobFields(input.Title, input.Description, input.Budget); err != nil {
		return nil, err
	}

	job := &domain.Job{
		ClientID:    input.ClientID,
		ClientName:  input.ClientName,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Budget:      input.Budget,
		Status:      domain.JobStatusOpen,
		CreatedAt:   time.Now().UTC(),
	}

	id, err := s.jobs.Insert(ctx, job)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create job")
		return nil, err
	}
	job.ID = id

	s.logger.Info().Str("job_id", id).Str("client_id", input.ClientID).Msg("job created")
	return job, nil
}

// Get retrieves a single job by id.
func (s *JobService) Get(ctx context.Context, id string) (*domain.Job, error) {
	return s.jobs.FindByID(ctx, id)
}

// List returns jobs visible to the actor. Freelancers see open jobs plus
// engagements they were hired for; clients and admins see everything.
func (s *JobService) List(ctx context.Context, input ports.ListJobsInput) (*ports.ListJobsResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := ports.ListJobsFilter{
		ClientID: input.ClientID,
		Status:   input.Status,
		Search:   input.Search,
		DateFrom: input.DateFrom,
		DateTo:   input.DateTo,
		Page:     page,
		Limit:    limit,
	}
	if input.Role == domain.RoleFreelancer {
		filter.OpenOrHiredBy = input.UserID
	}

	jobs, total, err := s.jobs.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list jobs")
		return nil, err
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return &ports.ListJobsResult{
		Items:      jobs,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// Update applies a partial field update to a job. Only title, description
// and budget are reachable; status and hire assignment belong to the accept
// transaction. The read-modify-write runs inside the store transaction scope
// so a concurrent accept cannot interleave.
func (s *JobService) Update(ctx context.Context, actor ports.Actor, id string, patch ports.UpdateJobPatch) (*domain.Job, error) {
	var updated *domain.Job

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		job, err := s.jobs.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwner(actor, job.ClientID); err != nil {
			return err
		}

		if patch.Title != nil {
			job.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Description != nil {
			job.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.Budget != nil {
			job.Budget = *patch.Budget
		}
		if err := validateJobFields(job.Title, job.Description, job.Budget); err != nil {
			return err
		}

		if err := s.jobs.UpdateFields(ctx, id, job.Title, job.Description, job.Budget); err != nil {
			return err
		}
		updated = job
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("job_id", id).Msg("job updated")
	return updated, nil
}

// Delete removes the job and every proposal submitted against it in a single
// transaction, so no orphaned proposal is ever observable.
func (s *JobService) Delete(ctx context.Context, actor ports.Actor, id string) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		job, err := s.jobs.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwner(actor, job.ClientID); err != nil {
			return err
		}

		if err := s.jobs.Delete(ctx, id); err != nil {
			return err
		}
		removed, err := s.proposals.DeleteByJobID(ctx, id)
		if err != nil {
			return err
		}
		s.logger.Info().Str("job_id", id).Int64("proposals_removed", removed).Msg("job deleted")
		return nil
	})
	return err
}

// requireOwner allows admins and the owning client through.
func requireOwner(actor ports.Actor, clientID string) error {
	if actor.Role == domain.RoleAdmin {
		return nil
	}
	if actor.Role == domain.RoleClient && actor.ID == clientID {
		return nil
	}
	return domain.ErrForbidden
}

func validateJobFields(title, description string, budget float64) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	if budget < 0 {
		return fmt.Errorf("%w: budget must be non-negative", domain.ErrValidation)
	}
	return nil
}
