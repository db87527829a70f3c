package domain

import (
	"errors"
	"time"
)

// JobStatus represents the lifecycle state of a job posting.
type JobStatus string

const (
	JobStatusOpen       JobStatus = "open"
	JobStatusInProgress JobStatus = "in_progress"
)

var ErrJobNotFound = errors.New("job not found")
var ErrJobNotOpen = errors.New("job is not open")
var ErrValidation = errors.New("validation failed")

// Job is a posted work opportunity owned by a client.
//
// Invariants maintained by the service layer:
//   - Status == open  ⟺ HiredFreelancerID is empty.
//   - Status == in_progress ⟹ exactly one proposal for this job is accepted
//     and its freelancer id equals HiredFreelancerID.
type Job struct {
	ID                string    `json:"id"`
	ClientID          string    `json:"client_id"`
	ClientName        string    `json:"client_name"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Budget            float64   `json:"budget"`
	Status            JobStatus `json:"status"`
	HiredFreelancerID string    `json:"hired_freelancer_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// VisibleTo reports whether the job may appear in listings for the given
// actor. Clients and admins see everything; freelancers see open jobs plus
// engagements they were hired for.
func (j *Job) VisibleTo(role Role, userID string) bool {
	if role != RoleFreelancer {
		return true
	}
	return j.Status == JobStatusOpen || j.HiredFreelancerID == userID
}
