package ui_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/khrees2412/jobhunter/internal/api"
	"github.com/khrees2412/jobhunter/internal/board"
	"github.com/khrees2412/jobhunter/internal/store"
	"github.com/khrees2412/jobhunter/internal/testserver"
	"github.com/khrees2412/jobhunter/internal/ui"
	"github.com/khrees2412/jobhunter/pkg/models"
)

func score(v float64) *float64 { return &v }

func TestRenderEmptyBoard(t *testing.T) {
	out := ui.RenderBoard(board.Group(nil), 0)

	for _, c := range board.Columns() {
		assert.Contains(t, out, c.Title()+" (0)")
	}
	assert.Equal(t, len(board.Columns()), strings.Count(out, "No jobs here yet"))
}

func TestRenderBoardNarrowStacks(t *testing.T) {
	b := board.Group([]models.Job{{ID: "a", Title: "Backend Engineer", Company: "Acme", Status: models.StatusNew}})

	wide := ui.RenderBoard(b, 0)
	narrow := ui.RenderBoard(b, 40)

	assert.Contains(t, narrow, "Pending Review (1)")
	assert.Contains(t, narrow, "1. Backend Engineer")
	assert.Greater(t, strings.Count(narrow, "\n"), strings.Count(wide, "\n"))
}

func TestCardOrderFollowsLanes(t *testing.T) {
	b := board.Group([]models.Job{
		{ID: "applied", Status: models.StatusApplied},
		{ID: "new", Status: models.StatusNew},
		{ID: "draft", Status: models.StatusDraft},
	})

	assert.Equal(t, []string{"new", "draft", "applied"}, ui.CardOrder(b))
}

func TestRenderProfileWithoutSavedProfile(t *testing.T) {
	for _, u := range []*models.User{nil, {UserID: "u1", Email: "a@b.c"}} {
		out := ui.RenderProfile(u)

		assert.Contains(t, out, "No profile saved yet")
		assert.Contains(t, out, "5 years")
		assert.Contains(t, out, "Remote")
		assert.Contains(t, out, "Auto-scan")
	}
}

func TestRenderProfileSaved(t *testing.T) {
	p := models.DefaultProfile()
	p.Name = "Ada"
	p.Skills = []string{"go", "sql"}
	p.ExperienceYears = 9

	out := ui.RenderProfile(&models.User{UserID: "u1", Profile: &p})

	assert.NotContains(t, out, "No profile saved yet")
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "go, sql")
	assert.Contains(t, out, "9 years")
}

func TestRenderJobDetail(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	job := models.Job{
		ID:         "j1",
		Title:      "Platform Engineer",
		Company:    "Initech",
		Status:     models.StatusDraft,
		MatchScore: score(0.87),
		PostedAt:   models.NewTimestamp(now.Add(-2 * time.Hour)),
		ListingURL: "https://jobs.example.com/1",
		Outreach:   models.OutreachContent{EmailSubject: "Hello Initech"},
	}

	out := ui.RenderJobDetail(job, now)

	assert.Contains(t, out, "Draft (Drafts)")
	assert.Contains(t, out, "87%")
	assert.Contains(t, out, "2h ago")
	assert.Contains(t, out, "https://jobs.example.com/1")
	assert.Contains(t, out, "Hello Initech")
}

func TestRenderJobListEmpty(t *testing.T) {
	assert.Contains(t, ui.RenderJobList(nil, 0), "No jobs found")
	assert.Contains(t, ui.RenderJobList([]models.Job{{ID: "a", Title: "x"}}, 10), "Showing 1 of 10 jobs")
}

func TestRenderDashboard(t *testing.T) {
	now := time.Now()
	out := ui.RenderDashboard(ui.Dashboard{
		Stats: &models.DashboardStats{
			Stats:      models.DashboardCounters{TotalJobsScanned: 42, AverageMatchScore: 0.5},
			TopSources: []models.SourceCount{{Source: "linkedin", Count: 30}},
		},
		Status: &models.RunStatus{Status: models.AgentRunning},
		Next:   &models.NextScan{NextScan: models.NewTimestamp(now.Add(90 * time.Minute))},
	}, now)

	assert.Contains(t, out, "42")
	assert.Contains(t, out, "50%")
	assert.Contains(t, out, "Running")
	assert.Contains(t, out, "in 1h")
	assert.Contains(t, out, "linkedin")
	assert.Contains(t, out, "Nothing yet")
}

func TestUntil(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "not scheduled", ui.Until(models.Timestamp{}, now))
	assert.Equal(t, "due now", ui.Until(models.NewTimestamp(now.Add(-time.Minute)), now))
	assert.Equal(t, "in 5m", ui.Until(models.NewTimestamp(now.Add(5*time.Minute+10*time.Second)), now))
	assert.Equal(t, "in 2d", ui.Until(models.NewTimestamp(now.Add(50*time.Hour)), now))
}

func TestRenderError(t *testing.T) {
	notFound := &api.Error{StatusCode: 404, Method: "GET", Path: "/api/jobs/x", Detail: "Job not found"}
	out := ui.RenderError(notFound, "jobhunter jobs list")

	assert.Contains(t, out, "Not found: Job not found")
	assert.Contains(t, out, "Retry with: jobhunter jobs list")

	assert.Contains(t, ui.RenderError(errors.New("boom"), ""), "boom")
	assert.Contains(t, ui.RenderError(context.Canceled, ""), "Cancelled")
}

func TestRenderTemplatesAndTimeline(t *testing.T) {
	now := time.Now()
	assert.Contains(t, ui.RenderTemplates(nil), "No templates yet")
	assert.Contains(t, ui.RenderTemplates([]models.OutreachTemplate{{ID: "t1", Name: "Intro", Type: models.TemplateFollowUp}}), "Follow-up")
	assert.Contains(t, ui.RenderTemplate(models.OutreachTemplate{Name: "Intro", Body: "Hi {{hiring_manager}}"}), "{{my_skills}}")

	tl := ui.RenderTimeline([]models.TimelineEntry{{Step: "matching_jobs", Timestamp: models.NewTimestamp(now), Metadata: map[string]any{"count": 3}}}, now)
	assert.Contains(t, tl, "Matching Jobs")
	assert.Contains(t, tl, "count=3")

	h := ui.RenderHistory([]models.ScanRun{{Status: "failed", JobsFound: 4, Error: "rate limited"}}, now)
	assert.Contains(t, h, "found 4")
	assert.Contains(t, h, "rate limited")
	assert.Contains(t, ui.RenderHistory(nil, now), "No scans")
}

func newSession(t *testing.T, jobs ...models.Job) (*testserver.Server, *ui.Session, *board.Mover, *bytes.Buffer) {
	t.Helper()
	srv := testserver.New(t)
	srv.SetUser(models.User{UserID: "u1"})
	srv.AddJob(jobs...)

	var out bytes.Buffer
	sess := ui.NewSession(&out, 0)
	logger := zaptest.NewLogger(t)
	mover := board.NewMover(api.New(srv.URL(), 5*time.Second, logger), store.NewJobStore(), "u1", logger,
		board.WithOnChange(sess.OnChange))
	return srv, sess, mover, &out
}

func TestSessionMoveAndReject(t *testing.T) {
	srv, sess, mover, out := newSession(t,
		models.Job{ID: "j1", Title: "Go Engineer", Company: "Acme", Status: models.StatusNew},
		models.Job{ID: "j2", Title: "SRE", Company: "Globex", Status: models.StatusMatched},
	)

	script := "m 1 drafts\nx 2\nq\n"
	require.NoError(t, sess.Run(context.Background(), strings.NewReader(script), mover))

	j1, _ := srv.Job("j1")
	j2, _ := srv.Job("j2")
	assert.Equal(t, models.StatusDraft, j1.Status)
	assert.Equal(t, models.StatusRejected, j2.Status)
	assert.Contains(t, out.String(), "Drafts (1)")
	assert.Contains(t, out.String(), "Rejected (1)")
}

func TestSessionReportsBadInput(t *testing.T) {
	srv, sess, mover, out := newSession(t, models.Job{ID: "j1", Title: "Go Engineer", Status: models.StatusNew})

	script := "m 9 drafts\nm 1 nowhere\nfoo\nh\n"
	require.NoError(t, sess.Run(context.Background(), strings.NewReader(script), mover))

	assert.Contains(t, out.String(), "no card 9 on the board")
	assert.Contains(t, out.String(), "unknown column")
	assert.Contains(t, out.String(), "unknown command")
	assert.Contains(t, out.String(), "Commands:")
	assert.Empty(t, srv.RequestsTo("PATCH", "/api/jobs/:id/status"))
}

func TestSessionOutreachAndShow(t *testing.T) {
	srv, sess, mover, out := newSession(t, models.Job{ID: "j1", Title: "Go Engineer", Company: "Acme", Status: models.StatusMatched})

	require.NoError(t, sess.Run(context.Background(), strings.NewReader("o 1\ns 1\nq\n"), mover))

	j1, _ := srv.Job("j1")
	assert.Equal(t, models.StatusDraft, j1.Status)
	assert.Contains(t, out.String(), "Application for Go Engineer at Acme")
}

func TestSessionLoadFailureShowsRetry(t *testing.T) {
	srv, sess, mover, out := newSession(t, models.Job{ID: "j1", Title: "Go Engineer", Status: models.StatusNew})
	srv.FailNext("GET", "/api/jobs", 500, "database unavailable")

	require.NoError(t, sess.Run(context.Background(), strings.NewReader("r\nq\n"), mover))

	assert.Contains(t, out.String(), "database unavailable")
	assert.Contains(t, out.String(), "Retry with: r")
	assert.Contains(t, out.String(), "Pending Review (1)")
}
