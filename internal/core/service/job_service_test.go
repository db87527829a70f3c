package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/streetmuse/freelance-platform/internal/core/domain"
	"github.com/streetmuse/freelance-platform/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubJobRepo struct {
	jobs      map[string]*domain.Job
	nextID    int
	insertErr error // if set, Insert returns this error
}

func newStubJobRepo() *stubJobRepo {
	return &stubJobRepo{jobs: make(map[string]*domain.Job), nextID: 1}
}

func (r *stubJobRepo) Insert(_ context.Context, job *domain.Job) (string, error) {
	if r.insertErr != nil {
		return "", r.insertErr
	}
	id := fmt.Sprintf("job_%d", r.nextID)
	r.nextID++
	clone := *job
	clone.ID = id
	r.jobs[id] = &clone
	return id, nil
}

func (r *stubJobRepo) FindByID(_ context.Context, id string) (*domain.Job, error) {
	j, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	clone := *j
	return &clone, nil
}

// List applies the same filters the real Mongo repo would use.
func (r *stubJobRepo) List(_ context.Context, f ports.ListJobsFilter) ([]*domain.Job, int64, error) {
	var matched []*domain.Job
	for _, j := range r.jobs {
		if f.OpenOrHiredBy != "" && j.Status != domain.JobStatusOpen && j.HiredFreelancerID != f.OpenOrHiredBy {
			continue
		}
		if f.ClientID != "" && j.ClientID != f.ClientID {
			continue
		}
		if f.Status != "" && string(j.Status) != f.Status {
			continue
		}
		if f.Search != "" {
			titleMatch := strings.Contains(strings.ToLower(j.Title), strings.ToLower(f.Search))
			nameMatch := strings.Contains(strings.ToLower(j.ClientName), strings.ToLower(f.Search))
			if !titleMatch && !nameMatch {
				continue
			}
		}
		if !f.DateFrom.IsZero() && j.CreatedAt.Before(f.DateFrom) {
			continue
		}
		if !f.DateTo.IsZero() && j.CreatedAt.After(f.DateTo) {
			continue
		}
		clone := *j
		matched = append(matched, &clone)
	}

	total := int64(len(matched))

	limit := f.Limit
	if limit <= 0 {
		limit = len(matched)
	}
	skip := (f.Page - 1) * limit
	if skip < 0 {
		skip = 0
	}
	if skip > len(matched) {
		return []*domain.Job{}, total, nil
	}
	end := skip + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubJobRepo) UpdateFields(_ context.Context, id, title, description string, budget float64) error {
	j, ok := r.jobs[id]
	if !ok {
		return domain.ErrJobNotFound
	}
	j.Title = title
	j.Description = description
	j.Budget = budget
	return nil
}

func (r *stubJobRepo) SetHired(_ context.Context, id, freelancerID string) error {
	j, ok := r.jobs[id]
	if !ok {
		return domain.ErrJobNotFound
	}
	j.Status = domain.JobStatusInProgress
	j.HiredFreelancerID = freelancerID
	return nil
}

func (r *stubJobRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.jobs[id]; !ok {
		return domain.ErrJobNotFound
	}
	delete(r.jobs, id)
	return nil
}

type stubProposalRepo struct {
	proposals map[string]*domain.Proposal
	nextID    int
}

func newStubProposalRepo() *stubProposalRepo {
	return &stubProposalRepo{proposals: make(map[string]*domain.Proposal), nextID: 1}
}

func (r *stubProposalRepo) Insert(_ context.Context, p *domain.Proposal) (string, error) {
	id := fmt.Sprintf("prop_%d", r.nextID)
	r.nextID++
	clone := *p
	clone.ID = id
	r.proposals[id] = &clone
	return id, nil
}

func (r *stubProposalRepo) FindByID(_ context.Context, id string) (*domain.Proposal, error) {
	p, ok := r.proposals[id]
	if !ok {
		return nil, domain.ErrProposalNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProposalRepo) List(_ context.Context, jobID string) ([]*domain.Proposal, error) {
	var out []*domain.Proposal
	for _, p := range r.proposals {
		if jobID != "" && p.JobID != jobID {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubProposalRepo) UpdateStatus(_ context.Context, id string, status domain.ProposalStatus) error {
	p, ok := r.proposals[id]
	if !ok {
		return domain.ErrProposalNotFound
	}
	p.Status = status
	return nil
}

func (r *stubProposalRepo) RejectPendingSiblings(_ context.Context, jobID, keepID string) (int64, error) {
	var n int64
	for id, p := range r.proposals {
		if p.JobID != jobID || id == keepID || p.Status != domain.ProposalStatusPending {
			continue
		}
		p.Status = domain.ProposalStatusRejected
		n++
	}
	return n, nil
}

func (r *stubProposalRepo) DeleteByJobID(_ context.Context, jobID string) (int64, error) {
	var n int64
	for id, p := range r.proposals {
		if p.JobID != jobID {
			continue
		}
		delete(r.proposals, id)
		n++
	}
	return n, nil
}

// passthroughTx runs fn directly. Serialization and rollback are properties
// of the Mongo implementation; the services only need the scope to exist.
type passthroughTx struct {
	calls int
}

func (t *passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newJobService(jobs *stubJobRepo, proposals *stubProposalRepo) *JobService {
	return NewJobService(jobs, proposals, &passthroughTx{}, discardLogger)
}

func seedJob(repo *stubJobRepo, id, clientID string, status domain.JobStatus, hired string) *domain.Job {
	j := &domain.Job{
		ID:                id,
		ClientID:          clientID,
		ClientName:        "John Client",
		Title:             "Build a landing page",
		Description:       "Responsive marketing site",
		Budget:            500,
		Status:            status,
		HiredFreelancerID: hired,
		CreatedAt:         time.Now().UTC(),
	}
	repo.jobs[id] = j
	return j
}

// ---------------------------------------------------------------------------
// Create tests
// ---------------------------------------------------------------------------

func TestJobService_Create_Success(t *testing.T) {
	jobs := newStubJobRepo()
	svc := newJobService(jobs, newStubProposalRepo())

	job, err := svc.Create(context.Background(), ports.CreateJobInput{
		ClientID:    "client_1",
		ClientName:  "John Client",
		Title:       "  Build an API  ",
		Description: "REST backend",
		Budget:      1200,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.ID == "" {
		t.Error("expected assigned id")
	}
	if job.Status != domain.JobStatusOpen {
		t.Errorf("new job must be open, got %q", job.Status)
	}
	if job.HiredFreelancerID != "" {
		t.Errorf("new job must have no hired freelancer, got %q", job.HiredFreelancerID)
	}
	if job.Title != "Build an API" {
		t.Errorf("title must be trimmed, got %q", job.Title)
	}
	if job.CreatedAt.IsZero() {
		t.Error("CreatedAt must not be zero")
	}
}

func TestJobService_Create_Validation(t *testing.T) {
	svc := newJobService(newStubJobRepo(), newStubProposalRepo())

	cases := []struct {
		name  string
		input ports.CreateJobInput
	}{
		{"empty title", ports.CreateJobInput{ClientID: "c1", Description: "d", Budget: 10}},
		{"blank title", ports.CreateJobInput{ClientID: "c1", Title: "   ", Description: "d", Budget: 10}},
		{"empty description", ports.CreateJobInput{ClientID: "c1", Title: "t", Budget: 10}},
		{"negative budget", ports.CreateJobInput{ClientID: "c1", Title: "t", Description: "d", Budget: -1}},
	}
	for _, tc := range cases {
		if _, err := svc.Create(context.Background(), tc.input); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}
}

func TestJobService_Create_RepoError(t *testing.T) {
	jobs := newStubJobRepo()
	jobs.insertErr = errors.New("db unavailable")
	svc := newJobService(jobs, newStubProposalRepo())

	_, err := svc.Create(context.Background(), ports.CreateJobInput{
		ClientID: "c1", Title: "t", Description: "d", Budget: 10,
	})
	if err == nil {
		t.Fatal("expected error when repo fails, got nil")
	}
}

// ---------------------------------------------------------------------------
// List visibility tests
// ---------------------------------------------------------------------------

func seedVisibilityFixture(jobs *stubJobRepo) {
	seedJob(jobs, "job_a", "client_1", domain.JobStatusOpen, "")
	seedJob(jobs, "job_b", "client_1", domain.JobStatusInProgress, "freelancer_7")
	seedJob(jobs, "job_c", "client_2", domain.JobStatusInProgress, "freelancer_3")
}

func TestJobService_List_FreelancerSeesOpenPlusOwnEngagements(t *testing.T) {
	jobs := newStubJobRepo()
	seedVisibilityFixture(jobs)
	svc := newJobService(jobs, newStubProposalRepo())

	res, err := svc.List(context.Background(), ports.ListJobsInput{
		Role: domain.RoleFreelancer, UserID: "freelancer_7", Page: 1, Limit: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 2 {
		t.Fatalf("expected 2 visible jobs, got %d", res.Total)
	}
	seen := map[string]bool{}
	for _, j := range res.Items {
		seen[j.ID] = true
	}
	if !seen["job_a"] || !seen["job_b"] {
		t.Errorf("expected job_a and job_b, got %v", seen)
	}
	if seen["job_c"] {
		t.Error("freelancer_7 must not see another freelancer's engagement")
	}
}

func TestJobService_List_FreelancerWithoutEngagementsSeesOnlyOpen(t *testing.T) {
	jobs := newStubJobRepo()
	seedVisibilityFixture(jobs)
	svc := newJobService(jobs, newStubProposalRepo())

	res, err := svc.List(context.Background(), ports.ListJobsInput{
		Role: domain.RoleFreelancer, UserID: "freelancer_99", Page: 1, Limit: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 1 {
		t.Fatalf("expected 1 visible job, got %d", res.Total)
	}
	if res.Items[0].ID != "job_a" {
		t.Errorf("expected job_a, got %s", res.Items[0].ID)
	}
}

func TestJobService_List_ClientSeesAll(t *testing.T) {
	jobs := newStubJobRepo()
	seedVisibilityFixture(jobs)
	svc := newJobService(jobs, newStubProposalRepo())

	res, err := svc.List(context.Background(), ports.ListJobsInput{
		Role: domain.RoleClient, UserID: "client_1", Page: 1, Limit: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 3 {
		t.Errorf("client: expected 3, got %d", res.Total)
	}
}

func TestJobService_List_AdminSeesAll(t *testing.T) {
	jobs := newStubJobRepo()
	seedVisibilityFixture(jobs)
	svc := newJobService(jobs, newStubProposalRepo())

	res, err := svc.List(context.Background(), ports.ListJobsInput{
		Role: domain.RoleAdmin, UserID: "admin_1", Page: 1, Limit: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 3 {
		t.Errorf("admin: expected 3, got %d", res.Total)
	}
}

func TestJobService_List_DefaultLimit(t *testing.T) {
	svc := newJobService(newStubJobRepo(), newStubProposalRepo())

	res, err := svc.List(context.Background(), ports.ListJobsInput{Role: domain.RoleAdmin})
	if err != nil {
		t.Fatal(err)
	}
	if res.Limit != 20 {
		t.Errorf("expected default limit 20, got %d", res.Limit)
	}
	if res.Page != 1 {
		t.Errorf("expected page 1, got %d", res.Page)
	}
}

func TestJobService_List_LimitCappedAt100(t *testing.T) {
	svc := newJobService(newStubJobRepo(), newStubProposalRepo())

	res, err := svc.List(context.Background(), ports.ListJobsInput{
		Role: domain.RoleAdmin, Limit: 999, Page: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Limit != 100 {
		t.Errorf("expected limit 100, got %d", res.Limit)
	}
}

func TestJobService_List_PaginationMath(t *testing.T) {
	jobs := newStubJobRepo()
	for i := 0; i < 5; i++ {
		seedJob(jobs, fmt.Sprintf("job_%d", i), "client_1", domain.JobStatusOpen, "")
	}
	svc := newJobService(jobs, newStubProposalRepo())

	res, err := svc.List(context.Background(), ports.ListJobsInput{
		Role: domain.RoleAdmin, Limit: 2, Page: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 5 {
		t.Errorf("total: expected 5, got %d", res.Total)
	}
	if res.TotalPages != 3 {
		t.Errorf("total_pages: expected 3, got %d", res.TotalPages)
	}
	if len(res.Items) != 2 {
		t.Errorf("items: expected 2, got %d", len(res.Items))
	}
}

func TestJobService_List_SearchByTitle(t *testing.T) {
	jobs := newStubJobRepo()
	a := seedJob(jobs, "job_a", "client_1", domain.JobStatusOpen, "")
	a.Title = "React dashboard"
	b := seedJob(jobs, "job_b", "client_1", domain.JobStatusOpen, "")
	b.Title = "Logo design"
	svc := newJobService(jobs, newStubProposalRepo())

	res, err := svc.List(context.Background(), ports.ListJobsInput{
		Role: domain.RoleAdmin, Search: "react", Page: 1, Limit: 10,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 {
		t.Errorf("search: expected 1, got %d", res.Total)
	}
}

// ---------------------------------------------------------------------------
// Update tests
// ---------------------------------------------------------------------------

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestJobService_Update_OwnerCanPatchFields(t *testing.T) {
	jobs := newStubJobRepo()
	seedJob(jobs, "job_1", "client_1", domain.JobStatusOpen, "")
	svc := newJobService(jobs, newStubProposalRepo())

	updated, err := svc.Update(context.Background(), ports.Actor{ID: "client_1", Role: domain.RoleClient}, "job_1", ports.UpdateJobPatch{
		Title:  strPtr("New title"),
		Budget: floatPtr(900),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "New title" {
		t.Errorf("title: got %q", updated.Title)
	}
	if updated.Budget != 900 {
		t.Errorf("budget: got %v", updated.Budget)
	}
	// Untouched field survives.
	if updated.Description != "Responsive marketing site" {
		t.Errorf("description must be unchanged, got %q", updated.Description)
	}
	if jobs.jobs["job_1"].Title != "New title" {
		t.Error("update not persisted")
	}
}

func TestJobService_Update_CannotTouchStatusOrHire(t *testing.T) {
	jobs := newStubJobRepo()
	seedJob(jobs, "job_1", "client_1", domain.JobStatusOpen, "")
	svc := newJobService(jobs, newStubProposalRepo())

	_, err := svc.Update(context.Background(), ports.Actor{ID: "client_1", Role: domain.RoleClient}, "job_1", ports.UpdateJobPatch{
		Title: strPtr("Renamed"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := jobs.jobs["job_1"]
	if stored.Status != domain.JobStatusOpen || stored.HiredFreelancerID != "" {
		t.Errorf("update must not move status or hire: %+v", stored)
	}
}

func TestJobService_Update_NonOwnerForbidden(t *testing.T) {
	jobs := newStubJobRepo()
	seedJob(jobs, "job_1", "client_1", domain.JobStatusOpen, "")
	svc := newJobService(jobs, newStubProposalRepo())

	_, err := svc.Update(context.Background(), ports.Actor{ID: "client_2", Role: domain.RoleClient}, "job_1", ports.UpdateJobPatch{
		Title: strPtr("Hijacked"),
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if jobs.jobs["job_1"].Title == "Hijacked" {
		t.Error("forbidden update must not persist")
	}
}

func TestJobService_Update_AdminAllowed(t *testing.T) {
	jobs := newStubJobRepo()
	seedJob(jobs, "job_1", "client_1", domain.JobStatusOpen, "")
	svc := newJobService(jobs, newStubProposalRepo())

	_, err := svc.Update(context.Background(), ports.Actor{ID: "admin_1", Role: domain.RoleAdmin}, "job_1", ports.UpdateJobPatch{
		Budget: floatPtr(100),
	})
	if err != nil {
		t.Fatalf("admin must be allowed, got %v", err)
	}
}

func TestJobService_Update_NotFound(t *testing.T) {
	svc := newJobService(newStubJobRepo(), newStubProposalRepo())

	_, err := svc.Update(context.Background(), ports.Actor{ID: "admin_1", Role: domain.RoleAdmin}, "missing", ports.UpdateJobPatch{})
	if !errors.Is(err, domain.ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound, got %v", err)
	}
}

func TestJobService_Update_PatchedFieldsRevalidated(t *testing.T) {
	jobs := newStubJobRepo()
	seedJob(jobs, "job_1", "client_1", domain.JobStatusOpen, "")
	svc := newJobService(jobs, newStubProposalRepo())

	_, err := svc.Update(context.Background(), ports.Actor{ID: "client_1", Role: domain.RoleClient}, "job_1", ports.UpdateJobPatch{
		Budget: floatPtr(-5),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Delete + cascade tests
// ---------------------------------------------------------------------------

func TestJobService_Delete_CascadesToProposals(t *testing.T) {
	jobs := newStubJobRepo()
	proposals := newStubProposalRepo()
	seedJob(jobs, "job_1", "client_1", domain.JobStatusOpen, "")
	seedJob(jobs, "job_2", "client_1", domain.JobStatusOpen, "")
	proposals.proposals["p1"] = &domain.Proposal{ID: "p1", JobID: "job_1", Status: domain.ProposalStatusPending}
	proposals.proposals["p2"] = &domain.Proposal{ID: "p2", JobID: "job_1", Status: domain.ProposalStatusRejected}
	proposals.proposals["p3"] = &domain.Proposal{ID: "p3", JobID: "job_2", Status: domain.ProposalStatusPending}

	svc := newJobService(jobs, proposals)
	err := svc.Delete(context.Background(), ports.Actor{ID: "client_1", Role: domain.RoleClient}, "job_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := jobs.jobs["job_1"]; ok {
		t.Error("job_1 must be gone")
	}
	if _, ok := proposals.proposals["p1"]; ok {
		t.Error("p1 must cascade")
	}
	if _, ok := proposals.proposals["p2"]; ok {
		t.Error("p2 must cascade regardless of status")
	}
	if _, ok := proposals.proposals["p3"]; !ok {
		t.Error("p3 belongs to another job and must survive")
	}
}

func TestJobService_Delete_NonOwnerForbidden(t *testing.T) {
	jobs := newStubJobRepo()
	proposals := newStubProposalRepo()
	seedJob(jobs, "job_1", "client_1", domain.JobStatusOpen, "")
	proposals.proposals["p1"] = &domain.Proposal{ID: "p1", JobID: "job_1", Status: domain.ProposalStatusPending}

	svc := newJobService(jobs, proposals)
	err := svc.Delete(context.Background(), ports.Actor{ID: "freelancer_1", Role: domain.RoleFreelancer}, "job_1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, ok := jobs.jobs["job_1"]; !ok {
		t.Error("job must survive a forbidden delete")
	}
	if _, ok := proposals.proposals["p1"]; !ok {
		t.Error("proposal must survive a forbidden delete")
	}
}

func TestJobService_Delete_NotFound(t *testing.T) {
	svc := newJobService(newStubJobRepo(), newStubProposalRepo())

	err := svc.Delete(context.Background(), ports.Actor{ID: "admin_1", Role: domain.RoleAdmin}, "missing")
	if !errors.Is(err, domain.ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound, got %v", err)
	}
}

func TestJobService_Delete_RunsInsideTransaction(t *testing.T) {
	jobs := newStubJobRepo()
	seedJob(jobs, "job_1", "client_1", domain.JobStatusOpen, "")
	tx := &passthroughTx{}
	svc := NewJobService(jobs, newStubProposalRepo(), tx, discardLogger)

	_ = svc.Delete(context.Background(), ports.Actor{ID: "client_1", Role: domain.RoleClient}, "job_1")
	if tx.calls != 1 {
		t.Errorf("delete must run in a transaction, got %d calls", tx.calls)
	}
}

// ---------------------------------------------------------------------------
// Visibility predicate
// ---------------------------------------------------------------------------

func TestJobVisibleTo(t *testing.T) {
	open := &domain.Job{Status: domain.JobStatusOpen}
	hired := &domain.Job{Status: domain.JobStatusInProgress, HiredFreelancerID: "f7"}

	if !open.VisibleTo(domain.RoleFreelancer, "f1") {
		t.Error("open job must be visible to any freelancer")
	}
	if !hired.VisibleTo(domain.RoleFreelancer, "f7") {
		t.Error("engagement must be visible to its hired freelancer")
	}
	if hired.VisibleTo(domain.RoleFreelancer, "f1") {
		t.Error("engagement must be hidden from other freelancers")
	}
	if !hired.VisibleTo(domain.RoleClient, "anyone") {
		t.Error("clients see everything")
	}
	if !hired.VisibleTo(domain.RoleAdmin, "anyone") {
		t.Error("admins see everything")
	}
}
