package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/streetmuse/freelance-platform/internal/api/metrics"
	"github.com/streetmuse/freelance-platform/internal/core/domain"
	"github.com/streetmuse/freelance-platform/internal/core/ports"
)

// ProposalHandler handles HTTP requests for proposal operations.
type ProposalHandler struct {
	service ports.ProposalService
}

func NewProposalHandler(service ports.ProposalService) *ProposalHandler {
	return &ProposalHandler{service: service}
}

// List handles GET /v1/proposals with an optional job_id filter.
//
// @Summary      List proposals
// @Tags         proposals
// @Produce      json
// @Security     BearerAuth
// @Param        job_id  query     string  false  "Restrict to a single job"
// @Success      200     {object}  listProposalsResponse
// @Failure      401     {object}  errorResponse
// @Router       /v1/proposals [get]
func (h *ProposalHandler) List(c echo.Context) error {
	if _, err := ctxActor(c); err != nil {
		return err
	}

	proposals, err := h.service.List(c.Request().Context(), c.QueryParam("job_id"))
	if err != nil {
		return err
	}

	items := make([]proposalResponse, len(proposals))
	for i, p := range proposals {
		items[i] = toProposalResponse(p)
	}
	return c.JSON(http.StatusOK, listProposalsResponse{Data: items})
}

// Create handles POST /v1/proposals. The submitting freelancer is taken from
// the JWT, never from the payload.
//
// @Summary      Submit a proposal against an open job
// @Tags         proposals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProposalRequest  true  "Proposal details"
// @Success      201   {object}  proposalResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/proposals [post]
func (h *ProposalHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createProposalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	proposal, err := h.service.Create(c.Request().Context(), ports.CreateProposalInput{
		JobID:          req.JobID,
		FreelancerID:   actor.ID,
		FreelancerName: ctxName(c),
		CoverLetter:    req.CoverLetter,
		ProposedBudget: req.ProposedBudget,
		Timeline:       req.Timeline,
	})
	if err != nil {
		return err
	}

	metrics.ProposalsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toProposalResponse(proposal))
}

// SetStatus handles PUT /v1/proposals/:id/status, the manual reject path.
//
// @Summary      Reject a pending proposal
// @Tags         proposals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Proposal id"
// @Param        body  body      setProposalStatusRequest  true  "Target status"
// @Success      200   {object}  proposalResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/proposals/{id}/status [put]
func (h *ProposalHandler) SetStatus(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req setProposalStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	proposal, err := h.service.SetStatus(c.Request().Context(), actor, c.Param("id"), domain.ProposalStatus(req.Status))
	if err != nil {
		return err
	}

	metrics.ProposalsRejectedTotal.WithLabelValues("manual").Inc()
	return c.JSON(http.StatusOK, toProposalResponse(proposal))
}

// Accept handles POST /v1/proposals/:id/accept, the engagement transaction.
//
// @Summary      Accept a proposal
// @Description  Marks the proposal accepted, its job in progress with the freelancer hired, and rejects all sibling pending proposals, atomically.
// @Tags         proposals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Proposal id"
// @Success      200  {object}  acceptProposalResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/proposals/{id}/accept [post]
func (h *ProposalHandler) Accept(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	result, err := h.service.Accept(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrProposalFinalized) || errors.Is(err, domain.ErrJobNotOpen) {
			metrics.AcceptConflictsTotal.Inc()
		}
		return err
	}

	metrics.ProposalsAcceptedTotal.Inc()
	metrics.ProposalsRejectedTotal.WithLabelValues("cascade").Add(float64(result.RejectedSiblings))
	return c.JSON(http.StatusOK, toAcceptResponse(result))
}
