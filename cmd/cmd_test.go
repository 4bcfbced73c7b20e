package cmd

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/khrees2412/jobhunter/internal/api"
	"github.com/khrees2412/jobhunter/internal/app"
	"github.com/khrees2412/jobhunter/internal/config"
	"github.com/khrees2412/jobhunter/internal/testserver"
	"github.com/khrees2412/jobhunter/pkg/models"
)

const testUser = "user_cli"

type harness struct {
	t   *testing.T
	srv *testserver.Server
	dir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := testserver.New(t)
	t.Setenv("JOBHUNTER_API_BASE_URL", srv.URL())
	t.Setenv("JOBHUNTER_USER_ID", "")
	return &harness{t: t, srv: srv, dir: t.TempDir()}
}

// exec runs the CLI as testUser and returns everything it printed
func (h *harness) exec(args ...string) (string, error) {
	return h.execAs(testUser, "", args...)
}

func (h *harness) execAs(user, stdin string, args ...string) (string, error) {
	h.t.Helper()
	resetFlags(rootCmd)

	full := []string{"--config-dir", h.dir}
	if user != "" {
		full = append(full, "--user", user)
	}
	full = append(full, args...)

	var out bytes.Buffer
	err := run(context.Background(), full, strings.NewReader(stdin), &out, &out)
	return out.String(), err
}

// resetFlags restores defaults so runs in one process do not leak flag values
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	c.SetContext(nil)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func sampleJobs() []models.Job {
	score := 0.91
	return []models.Job{
		{ID: "j1", Title: "Go Engineer", Company: "Acme", Status: models.StatusNew, MatchScore: &score, Source: "linkedin"},
		{ID: "j2", Title: "SRE", Company: "Globex", Status: models.StatusApplied, Source: "indeed"},
	}
}

func TestBoardShowsColumns(t *testing.T) {
	h := newHarness(t)
	h.srv.AddJob(sampleJobs()...)

	out, err := h.exec("board", "--width", "0")
	require.NoError(t, err)

	assert.Contains(t, out, "Pending Review (1)")
	assert.Contains(t, out, "Applied (1)")
	assert.Contains(t, out, "Drafts (0)")
	assert.Contains(t, out, "Go Engineer")
}

func TestBoardOfflineUsesSnapshot(t *testing.T) {
	h := newHarness(t)
	h.srv.AddJob(sampleJobs()...)

	_, err := h.exec("board")
	require.NoError(t, err)
	before := len(h.srv.RequestsTo(http.MethodGet, "/api/jobs"))

	out, err := h.exec("--offline", "board")
	require.NoError(t, err)
	assert.Contains(t, out, "Offline")
	assert.Contains(t, out, "Pending Review (1)")
	assert.Len(t, h.srv.RequestsTo(http.MethodGet, "/api/jobs"), before)
}

func TestBoardOfflineWithoutSnapshot(t *testing.T) {
	h := newHarness(t)

	_, err := h.exec("--offline", "board")
	assert.ErrorIs(t, err, app.ErrOffline)
}

func TestInteractiveBoard(t *testing.T) {
	h := newHarness(t)
	h.srv.AddJob(sampleJobs()...)

	out, err := h.execAs(testUser, "m 1 ready\nq\n", "board", "-i")
	require.NoError(t, err)

	j1, _ := h.srv.Job("j1")
	assert.Equal(t, models.StatusOutreach, j1.Status)
	assert.Contains(t, out, "Ready for Outreach (1)")
}

func TestJobsListRejectsBadStatus(t *testing.T) {
	h := newHarness(t)

	_, err := h.exec("jobs", "list", "--status", "interviewing")
	assert.ErrorIs(t, err, app.ErrInvalidArgument)
	assert.Empty(t, h.srv.RequestsTo(http.MethodGet, "/api/jobs"))
}

func TestJobsListSendsFilters(t *testing.T) {
	h := newHarness(t)
	h.srv.AddJob(sampleJobs()...)

	out, err := h.exec("jobs", "list", "--source", "linkedin", "--min-score", "0.5", "--limit", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Go Engineer")
	assert.NotContains(t, out, "SRE")

	reqs := h.srv.RequestsTo(http.MethodGet, "/api/jobs")
	require.NotEmpty(t, reqs)
	q, err := url.ParseQuery(reqs[len(reqs)-1].Query)
	require.NoError(t, err)
	assert.Equal(t, "linkedin", q.Get("source"))
	assert.Equal(t, "10", q.Get("limit"))
	assert.Equal(t, testUser, q.Get("clerk_user_id"))
}

func TestJobsMove(t *testing.T) {
	h := newHarness(t)
	h.srv.AddJob(sampleJobs()...)

	out, err := h.exec("jobs", "move", "j1", "drafts")
	require.NoError(t, err)
	assert.Contains(t, out, "Moved j1 to Drafts")

	j1, _ := h.srv.Job("j1")
	assert.Equal(t, models.StatusDraft, j1.Status)
}

func TestJobsMoveFailureKeepsBackendState(t *testing.T) {
	h := newHarness(t)
	h.srv.AddJob(sampleJobs()...)
	h.srv.FailNext(http.MethodPatch, "/api/jobs/:id/status", http.StatusInternalServerError, "write failed")

	_, err := h.exec("jobs", "reject", "j1")
	assert.ErrorIs(t, err, api.ErrServer)

	j1, _ := h.srv.Job("j1")
	assert.Equal(t, models.StatusNew, j1.Status)
	// the failed change triggers a reload
	assert.NotEmpty(t, h.srv.RequestsTo(http.MethodGet, "/api/jobs"))
}

func TestJobsMoveUnknownColumn(t *testing.T) {
	h := newHarness(t)
	h.srv.AddJob(sampleJobs()...)

	_, err := h.exec("jobs", "move", "j1", "interview")
	assert.ErrorIs(t, err, app.ErrInvalidArgument)
}

func TestJobsOutreach(t *testing.T) {
	h := newHarness(t)
	h.srv.AddJob(sampleJobs()...)

	out, err := h.exec("jobs", "outreach", "j1")
	require.NoError(t, err)
	assert.Contains(t, out, "Application for Go Engineer at Acme")

	j1, _ := h.srv.Job("j1")
	assert.Equal(t, models.StatusDraft, j1.Status)
}

func TestJobsOutreachPrintsContentWhenStatusChangeFails(t *testing.T) {
	h := newHarness(t)
	h.srv.AddJob(sampleJobs()...)
	h.srv.FailNext(http.MethodPatch, "/api/jobs/:id/status", http.StatusInternalServerError, "Failed to update status")

	out, err := h.exec("jobs", "outreach", "j1")
	assert.ErrorIs(t, err, api.ErrServer)
	assert.Contains(t, out, "Application for Go Engineer at Acme")
}

func TestJobsShowMissing(t *testing.T) {
	h := newHarness(t)

	_, err := h.exec("jobs", "show", "nope")
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestJobsExport(t *testing.T) {
	h := newHarness(t)
	h.srv.AddJob(sampleJobs()...)
	path := filepath.Join(t.TempDir(), "jobs.xlsx")

	out, err := h.exec("jobs", "export", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 jobs")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	id, err := f.GetCellValue("Jobs", "A2")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestJobsScan(t *testing.T) {
	h := newHarness(t)
	h.srv.SetUser(models.User{UserID: testUser})

	_, err := h.exec("jobs", "scan", "--source", "linkedin", "--keyword", "golang", "--threshold", "0.8")
	require.NoError(t, err)
	require.Len(t, h.srv.RequestsTo(http.MethodPost, "/api/jobs/scan"), 1)

	_, err = h.exec("jobs", "scan", "--threshold", "2")
	assert.ErrorIs(t, err, app.ErrInvalidArgument)
}

func TestProfileShowWithoutProfile(t *testing.T) {
	h := newHarness(t)

	out, err := h.exec("profile", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "No profile saved yet")
	assert.Contains(t, out, "5 years")
}

func TestProfileSetKeepsDefaults(t *testing.T) {
	h := newHarness(t)

	_, err := h.exec("profile", "set", "--name", "Ada", "--skills", "go,sql")
	require.NoError(t, err)

	u, ok := h.srv.User(testUser)
	require.True(t, ok)
	require.NotNil(t, u.Profile)
	assert.Equal(t, "Ada", u.Profile.Name)
	assert.Equal(t, []string{"go", "sql"}, u.Profile.Skills)
	assert.Equal(t, 5, u.Profile.ExperienceYears)
	assert.True(t, u.Profile.Preferences.AutoScanEnabled)
}

func TestProfileSetValidates(t *testing.T) {
	h := newHarness(t)

	_, err := h.exec("profile", "set", "--linkedin", "not a url")
	assert.ErrorIs(t, err, app.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "LinkedIn URL must be a valid URL")
	assert.Empty(t, h.srv.RequestsTo(http.MethodPost, "/api/users/profile"))

	_, err = h.exec("profile", "set")
	assert.ErrorIs(t, err, app.ErrInvalidArgument)
}

func TestProfileEdit(t *testing.T) {
	h := newHarness(t)
	p := models.DefaultProfile()
	p.Name = "Ada"
	h.srv.SetUser(models.User{UserID: testUser, Profile: &p})

	// keep name and email, change summary and skills, 8 years, keep the rest
	stdin := "\n\nBackend developer\ngo, rust\n\n\n\n8\n\nn\n"
	_, err := h.execAs(testUser, stdin, "profile", "edit")
	require.NoError(t, err)

	u, _ := h.srv.User(testUser)
	assert.Equal(t, "Ada", u.Profile.Name)
	assert.Equal(t, "Backend developer", u.Profile.Summary)
	assert.Equal(t, []string{"go", "rust"}, u.Profile.Skills)
	assert.Equal(t, 8, u.Profile.ExperienceYears)
	assert.False(t, u.Profile.Preferences.AutoScanEnabled)
}

func TestProfileResumeChecksFile(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()

	_, err := h.exec("profile", "resume", filepath.Join(dir, "cv.png"))
	assert.ErrorIs(t, err, app.ErrInvalidArgument)

	_, err = h.exec("profile", "resume", filepath.Join(dir, "missing.pdf"))
	assert.ErrorIs(t, err, app.ErrInvalidArgument)

	path := filepath.Join(dir, "cv.txt")
	require.NoError(t, os.WriteFile(path, []byte("Go developer, 8 years"), 0o600))
	h.srv.SetUser(models.User{UserID: testUser})
	_, err = h.exec("profile", "resume", path)
	require.NoError(t, err)
	assert.Len(t, h.srv.RequestsTo(http.MethodPost, "/api/users/resume"), 1)
}

func TestTemplatesLifecycle(t *testing.T) {
	h := newHarness(t)

	out, err := h.exec("templates", "create", "--name", "Intro", "--subject", "{{job_title}} at {{company_name}}", "--body", "Hi {{hiring_manager}}")
	require.NoError(t, err)
	assert.Contains(t, out, `Template "Intro" created`)

	out, err = h.exec("templates", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Intro")
}

func TestTemplatesRejectUnknownPlaceholder(t *testing.T) {
	h := newHarness(t)

	_, err := h.exec("templates", "create", "--name", "Bad", "--body", "Hi {{salary}}")
	assert.ErrorIs(t, err, app.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "salary")
	assert.Empty(t, h.srv.RequestsTo(http.MethodPost, "/api/outreach/templates"))
}

func TestTemplatesUpdateKeepsUnsetFields(t *testing.T) {
	h := newHarness(t)
	id := h.srv.AddTemplate(testUser, models.OutreachTemplate{Name: "Intro", Type: models.TemplateInitial, Body: "Hello {{my_name}}"})

	_, err := h.exec("templates", "update", id, "--name", "Intro v2")
	require.NoError(t, err)

	tmpl, ok := h.srv.Template(id)
	require.True(t, ok)
	assert.Equal(t, "Intro v2", tmpl.Name)
	assert.Equal(t, "Hello {{my_name}}", tmpl.Body)
}

func TestRunsStartStop(t *testing.T) {
	h := newHarness(t)
	h.srv.SetUser(models.User{UserID: testUser})

	out, err := h.exec("runs", "start")
	require.NoError(t, err)
	assert.Contains(t, out, "Agent started")

	_, err = h.exec("runs", "start")
	assert.ErrorIs(t, err, api.ErrBadRequest)

	out, err = h.exec("runs", "stop")
	require.NoError(t, err)
	assert.Contains(t, out, "Stopped")
}

func TestRunsAutoScan(t *testing.T) {
	h := newHarness(t)
	p := models.DefaultProfile()
	h.srv.SetUser(models.User{UserID: testUser, Profile: &p})

	out, err := h.exec("runs", "auto-scan", "off")
	require.NoError(t, err)
	assert.Contains(t, out, "Auto-scan off")

	u, _ := h.srv.User(testUser)
	assert.False(t, u.Profile.Preferences.AutoScanEnabled)

	out, err = h.exec("--offline", "profile", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Auto-scan: no")

	_, err = h.exec("runs", "auto-scan", "maybe")
	assert.ErrorIs(t, err, app.ErrInvalidArgument)
}

func TestRunsWatchPrintsStatus(t *testing.T) {
	h := newHarness(t)
	h.srv.SetAgentStatus(models.AgentRunning)

	out, err := h.exec("runs", "watch", "--duration", "1500ms")
	require.NoError(t, err)
	assert.Contains(t, out, "Running")
}

func TestDashboard(t *testing.T) {
	h := newHarness(t)
	h.srv.AddJob(sampleJobs()...)

	out, err := h.exec("dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Dashboard")
	assert.Contains(t, out, "Jobs scanned")
}

func TestAnalytics(t *testing.T) {
	h := newHarness(t)

	out, err := h.exec("analytics", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No scans have run yet")

	out, err = h.exec("analytics", "timeline")
	require.NoError(t, err)
	assert.Contains(t, out, "No agent activity yet")
}

func TestNoUserConfigured(t *testing.T) {
	h := newHarness(t)

	_, err := h.execAs("", "", "jobs", "list")
	assert.ErrorIs(t, err, app.ErrNoUser)
}

func TestConfigSet(t *testing.T) {
	h := newHarness(t)

	_, err := h.exec("config", "set", "--key", "jobs_limit", "--value", "20")
	require.NoError(t, err)
	cfg, err := config.Load(h.dir)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.JobsLimit)

	_, err = h.exec("config", "set", "--key", "openai_key", "--value", "x")
	assert.ErrorIs(t, err, app.ErrInvalidArgument)

	out, err := h.exec("config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Not configured")
	assert.Contains(t, out, h.srv.URL())
}

func TestConfigSetRejectsInvalidValue(t *testing.T) {
	h := newHarness(t)

	_, err := h.exec("config", "set", "--key", "jobs_limit", "--value", "0")
	require.ErrorIs(t, err, app.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "jobs_limit must be at least 1")

	out, err := h.exec("config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "50")
}

func TestConfigSetRepairsBrokenFile(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.MkdirAll(h.dir, 0755))
	require.NoError(t, os.WriteFile(config.Path(h.dir), []byte("jobs_limit: 0\n"), 0600))

	_, err := h.exec("config", "show")
	require.ErrorIs(t, err, config.ErrInvalid)

	_, err = h.exec("config", "set", "--key", "jobs_limit", "--value", "40")
	require.NoError(t, err)

	out, err := h.exec("config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "40")
}

func TestRetryHint(t *testing.T) {
	args := []string{"jobs", "list"}

	assert.Equal(t, "jobhunter jobs list", retryHint(errors.New("dial tcp: connection refused"), args))
	assert.Equal(t, "jobhunter jobs list", retryHint(&api.Error{StatusCode: 503}, args))
	assert.Empty(t, retryHint(&api.Error{StatusCode: 404}, args))
	assert.Empty(t, retryHint(app.ErrNoUser, args))
}
