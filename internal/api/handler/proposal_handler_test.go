package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/streetmuse/freelance-platform/internal/core/domain"
	"github.com/streetmuse/freelance-platform/internal/core/ports"
)

type stubProposalService struct {
	createFn func(ctx context.Context, input ports.CreateProposalInput) (*domain.Proposal, error)
	acceptFn func(ctx context.Context, actor ports.Actor, id string) (*ports.AcceptResult, error)
}

func (s *stubProposalService) Create(ctx context.Context, input ports.CreateProposalInput) (*domain.Proposal, error) {
	return s.createFn(ctx, input)
}

func (s *stubProposalService) List(ctx context.Context, jobID string) ([]*domain.Proposal, error) {
	return nil, nil
}

func (s *stubProposalService) SetStatus(ctx context.Context, actor ports.Actor, id string, status domain.ProposalStatus) (*domain.Proposal, error) {
	return nil, errors.New("not used")
}

func (s *stubProposalService) Accept(ctx context.Context, actor ports.Actor, id string) (*ports.AcceptResult, error) {
	return s.acceptFn(ctx, actor, id)
}

func newProposalContext(e *echo.Echo, method, target string, body string, userID, role string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("role", role)
	return c, rec
}

func TestProposalHandler_Create_FreelancerTakenFromToken(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	stub := &stubProposalService{
		createFn: func(ctx context.Context, input ports.CreateProposalInput) (*domain.Proposal, error) {
			if input.FreelancerID != "user_7" {
				t.Fatalf("freelancer id must come from the token, got %q", input.FreelancerID)
			}
			if input.FreelancerName != "Jane Freelancer" {
				t.Fatalf("freelancer name must come from the token, got %q", input.FreelancerName)
			}
			return &domain.Proposal{
				ID: "p1", JobID: input.JobID, FreelancerID: input.FreelancerID,
				Status: domain.ProposalStatusPending,
			}, nil
		},
	}
	handler := NewProposalHandler(stub)

	// The payload tries to spoof another freelancer; the field does not exist
	// in the request schema and must be ignored.
	body := `{"job_id":"job_1","cover_letter":"I can do this","proposed_budget":400,"freelancer_id":"someone_else"}`
	c, rec := newProposalContext(e, http.MethodPost, "/v1/proposals", body, "user_7", "freelancer")
	c.Set("name", "Jane Freelancer")

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "pending" {
		t.Fatalf("expected pending, got %v", resp["status"])
	}
}

func TestProposalHandler_Create_MissingFields(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	stub := &stubProposalService{
		createFn: func(ctx context.Context, input ports.CreateProposalInput) (*domain.Proposal, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewProposalHandler(stub)

	c, _ := newProposalContext(e, http.MethodPost, "/v1/proposals", `{"job_id":"job_1"}`, "user_7", "freelancer")

	err := handler.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestProposalHandler_Create_NoClaims(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	handler := NewProposalHandler(&stubProposalService{})

	req := httptest.NewRequest(http.MethodPost, "/v1/proposals", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestProposalHandler_Accept_ReturnsProposalAndJob(t *testing.T) {
	e := echo.New()

	stub := &stubProposalService{
		acceptFn: func(ctx context.Context, actor ports.Actor, id string) (*ports.AcceptResult, error) {
			if actor.ID != "client_1" || actor.Role != domain.RoleClient {
				t.Fatalf("unexpected actor: %+v", actor)
			}
			if id != "p1" {
				t.Fatalf("unexpected id: %s", id)
			}
			return &ports.AcceptResult{
				Proposal: &domain.Proposal{ID: "p1", JobID: "job_1", FreelancerID: "f3", Status: domain.ProposalStatusAccepted},
				Job:      &domain.Job{ID: "job_1", Status: domain.JobStatusInProgress, HiredFreelancerID: "f3"},
			}, nil
		},
	}
	handler := NewProposalHandler(stub)

	c, rec := newProposalContext(e, http.MethodPost, "/v1/proposals/p1/accept", "", "client_1", "client")
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if err := handler.Accept(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	proposal, _ := resp["proposal"].(map[string]any)
	job, _ := resp["job"].(map[string]any)
	if proposal["status"] != "accepted" {
		t.Errorf("proposal status: got %v", proposal["status"])
	}
	if job["status"] != "in_progress" || job["hired_freelancer_id"] != "f3" {
		t.Errorf("job payload: got %v", job)
	}
}

func TestProposalHandler_Accept_ConflictPropagates(t *testing.T) {
	e := echo.New()

	stub := &stubProposalService{
		acceptFn: func(ctx context.Context, actor ports.Actor, id string) (*ports.AcceptResult, error) {
			return nil, domain.ErrProposalFinalized
		},
	}
	handler := NewProposalHandler(stub)

	c, _ := newProposalContext(e, http.MethodPost, "/v1/proposals/p1/accept", "", "client_1", "client")
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if err := handler.Accept(c); !errors.Is(err, domain.ErrProposalFinalized) {
		t.Fatalf("expected ErrProposalFinalized to propagate, got %v", err)
	}
}
