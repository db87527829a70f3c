package handler

import (
	"time"

	"github.com/streetmuse/freelance-platform/internal/core/domain"
	"github.com/streetmuse/freelance-platform/internal/core/ports"
)

// --- Request types ---

type createProposalRequest struct {
	JobID          string  `json:"job_id"          validate:"required"`
	CoverLetter    string  `json:"cover_letter"    validate:"required"`
	ProposedBudget float64 `json:"proposed_budget" validate:"gte=0"`
	Timeline       string  `json:"timeline"`
}

type setProposalStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=rejected"`
}

// --- Response types ---

type proposalResponse struct {
	ID             string    `json:"id"`
	JobID          string    `json:"job_id"`
	FreelancerID   string    `json:"freelancer_id"`
	FreelancerName string    `json:"freelancer_name"`
	CoverLetter    string    `json:"cover_letter"`
	ProposedBudget float64   `json:"proposed_budget"`
	Timeline       string    `json:"timeline"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

type listProposalsResponse struct {
	Data []proposalResponse `json:"data"`
}

// acceptProposalResponse carries both entities touched by the accept
// transaction.
type acceptProposalResponse struct {
	Proposal proposalResponse `json:"proposal"`
	Job      jobResponse      `json:"job"`
}

// --- Mappers ---

func toProposalResponse(p *domain.Proposal) proposalResponse {
	return proposalResponse{
		ID:             p.ID,
		JobID:          p.JobID,
		FreelancerID:   p.FreelancerID,
		FreelancerName: p.FreelancerName,
		CoverLetter:    p.CoverLetter,
		ProposedBudget: p.ProposedBudget,
		Timeline:       p.Timeline,
		Status:         string(p.Status),
		CreatedAt:      p.CreatedAt.UTC(),
	}
}

func toAcceptResponse(r *ports.AcceptResult) acceptProposalResponse {
	return acceptProposalResponse{
		Proposal: toProposalResponse(r.Proposal),
		Job:      toJobResponse(r.Job),
	}
}
