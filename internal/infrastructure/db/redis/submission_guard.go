package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const submissionTTL = 24 * time.Hour

// SubmissionGuard suppresses duplicate proposal submissions backed by Redis.
// Key format: proposal:<job_id>:<freelancer_id>
type SubmissionGuard struct {
	client *redis.Client
}

// NewSubmissionGuard creates a SubmissionGuard wrapping the given Redis client.
func NewSubmissionGuard(client *redis.Client) *SubmissionGuard {
	return &SubmissionGuard{client: client}
}

// IsDuplicate reports whether this freelancer has already submitted a
// proposal for this job recently.
func (g *SubmissionGuard) IsDuplicate(ctx context.Context, jobID, freelancerID string) (bool, error) {
	n, err := g.client.Exists(ctx, g.key(jobID, freelancerID)).Result()
	if err != nil {
		return false, fmt.Errorf("submission check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this freelancer has submitted for this job (expires
// after submissionTTL).
func (g *SubmissionGuard) Mark(ctx context.Context, jobID, freelancerID string) error {
	return g.client.Set(ctx, g.key(jobID, freelancerID), "1", submissionTTL).Err()
}

func (g *SubmissionGuard) key(jobID, freelancerID string) string {
	return fmt.Sprintf("proposal:%s:%s", jobID, freelancerID)
}
