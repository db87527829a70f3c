package handler

import (
	"time"

	"github.com/streetmuse/freelance-platform/internal/core/domain"
	"github.com/streetmuse/freelance-platform/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createJobRequest struct {
	Title       string  `json:"title"       validate:"required"`
	Description string  `json:"description" validate:"required"`
	Budget      float64 `json:"budget"      validate:"gte=0"`
}

// updateJobRequest is a typed patch: nil fields are left untouched. Status
// and hired freelancer are deliberately not bindable here.
type updateJobRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Budget      *float64 `json:"budget" validate:"omitempty,gte=0"`
}

// --- Response types ---
// Response-only types owned by the transport layer. These are intentionally
// separate from domain types so the JSON contract is not coupled to internal
// service changes.

type jobResponse struct {
	ID                string    `json:"id"`
	ClientID          string    `json:"client_id"`
	ClientName        string    `json:"client_name"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Budget            float64   `json:"budget"`
	Status            string    `json:"status"`
	HiredFreelancerID string    `json:"hired_freelancer_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listJobsResponse struct {
	Data       []jobResponse      `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// --- Mappers ---

func toJobResponse(j *domain.Job) jobResponse {
	return jobResponse{
		ID:                j.ID,
		ClientID:          j.ClientID,
		ClientName:        j.ClientName,
		Title:             j.Title,
		Description:       j.Description,
		Budget:            j.Budget,
		Status:            string(j.Status),
		HiredFreelancerID: j.HiredFreelancerID,
		CreatedAt:         j.CreatedAt.UTC(),
	}
}

func toListJobsResponse(r *ports.ListJobsResult) listJobsResponse {
	items := make([]jobResponse, len(r.Items))
	for i, j := range r.Items {
		items[i] = toJobResponse(j)
	}
	return listJobsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}
