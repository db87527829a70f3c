package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/streetmuse/freelance-platform/internal/api/metrics"
	"github.com/streetmuse/freelance-platform/internal/core/ports"
)

// JobHandler handles HTTP requests for job operations.
type JobHandler struct {
	service ports.JobService
}

func NewJobHandler(service ports.JobService) *JobHandler {
	return &JobHandler{service: service}
}

// List handles GET /v1/jobs. Visibility follows the caller's role: clients
// and admins see every job, freelancers see open jobs plus their own
// engagements.
//
// @Summary      List jobs visible to the caller
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "Filter by job status (open, in_progress)"
// @Param        client_id  query     string  false  "Filter by posting client"
// @Param        search     query     string  false  "Partial match on title or client name"
// @Param        date_from  query     string  false  "created_at >= (RFC 3339)"
// @Param        date_to    query     string  false  "created_at <= (RFC 3339)"
// @Param        page       query     int     false  "Page number (1-based)"
// @Param        limit      query     int     false  "Page size (max 100)"
// @Success      200        {object}  listJobsResponse
// @Failure      401        {object}  errorResponse
// @Router       /v1/jobs [get]
func (h *JobHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	input := ports.ListJobsInput{
		Role:     actor.Role,
		UserID:   actor.ID,
		Status:   c.QueryParam("status"),
		ClientID: c.QueryParam("client_id"),
		Search:   c.QueryParam("search"),
	}
	if v := c.QueryParam("date_from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date_from must be RFC 3339")
		}
		input.DateFrom = t
	}
	if v := c.QueryParam("date_to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date_to must be RFC 3339")
		}
		input.DateTo = t
	}
	input.Page = intQueryParam(c, "page")
	input.Limit = intQueryParam(c, "limit")

	result, err := h.service.List(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListJobsResponse(result))
}

// Get handles GET /v1/jobs/:id.
//
// @Summary      Get a job by id
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Job id"
// @Success      200  {object}  jobResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/jobs/{id} [get]
func (h *JobHandler) Get(c echo.Context) error {
	if _, err := ctxActor(c); err != nil {
		return err
	}

	job, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toJobResponse(job))
}

// Create handles POST /v1/jobs. The posting client is taken from the JWT,
// never from the payload.
//
// @Summary      Post a new job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createJobRequest  true  "Job details"
// @Success      201   {object}  jobResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/jobs [post]
func (h *JobHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createJobRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	job, err := h.service.Create(c.Request().Context(), ports.CreateJobInput{
		ClientID:    actor.ID,
		ClientName:  ctxName(c),
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
	})
	if err != nil {
		return err
	}

	metrics.JobsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toJobResponse(job))
}

// Update handles PUT /v1/jobs/:id with a typed patch.
//
// @Summary      Update a job's mutable fields
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Job id"
// @Param        body  body      updateJobRequest  true  "Fields to update"
// @Success      200   {object}  jobResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/jobs/{id} [put]
func (h *JobHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateJobRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	job, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), ports.UpdateJobPatch{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toJobResponse(job))
}

// Delete handles DELETE /v1/jobs/:id. Dependent proposals are removed in the
// same transaction.
//
// @Summary      Delete a job and its proposals
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Job id"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/jobs/{id} [delete]
func (h *JobHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}

	metrics.JobsDeletedTotal.Inc()
	return c.JSON(http.StatusOK, map[string]string{"message": "job deleted"})
}

// intQueryParam parses an integer query parameter, returning 0 when absent
// or malformed (the service applies defaults).
func intQueryParam(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
