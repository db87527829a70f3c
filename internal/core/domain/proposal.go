package domain

import (
	"errors"
	"time"
)

// ProposalStatus represents the lifecycle state of a proposal.
type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "pending"
	ProposalStatusAccepted ProposalStatus = "accepted"
	ProposalStatusRejected ProposalStatus = "rejected"
)

var ErrProposalNotFound = errors.New("proposal not found")
var ErrProposalFinalized = errors.New("proposal already finalized")
var ErrDuplicateProposal = errors.New("proposal already submitted for this job")

// IsTerminal reports whether the status can no longer change. Accepted and
// rejected proposals never revert to pending.
func (s ProposalStatus) IsTerminal() bool {
	return s == ProposalStatusAccepted || s == ProposalStatusRejected
}

// Proposal is a freelancer's bid against a specific job. JobID is immutable
// after creation; proposals are destroyed only when their parent job is
// deleted.
type Proposal struct {
	ID             string         `json:"id"`
	JobID          string         `json:"job_id"`
	FreelancerID   string         `json:"freelancer_id"`
	FreelancerName string         `json:"freelancer_name"`
	CoverLetter    string         `json:"cover_letter"`
	ProposedBudget float64        `json:"proposed_budget"`
	Timeline       string         `json:"timeline"`
	Status         ProposalStatus `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
}
