// Package testserver is an in-memory stand-in for the JobHunter backend used
// by package tests. It speaks the same wire format, records every request and
// can be told to fail or hold specific routes.
package testserver

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/khrees2412/jobhunter/pkg/models"
)

// RecordedRequest is a request the server received
type RecordedRequest struct {
	Method string
	Route  string
	Path   string
	Query  string
	Header http.Header
}

type failure struct {
	status int
	detail string
}

// Gate holds requests on a route until released
type Gate struct {
	Arrived chan struct{}
	release chan struct{}
	once    sync.Once
}

// Release lets held and future requests through
func (g *Gate) Release() {
	g.once.Do(func() { close(g.release) })
}

// Server is the fake backend
type Server struct {
	mu          sync.Mutex
	jobOrder    []string
	jobs        map[string]*models.Job
	users       map[string]*models.User
	templates   map[string]*models.OutreachTemplate
	owners      map[string]string
	timeline    []models.TimelineEntry
	history     []models.ScanRun
	agentStatus models.AgentStatus
	nextScan    time.Time
	lastScan    models.LastScan
	failures    map[string][]failure
	gates       map[string]*Gate
	requests    []RecordedRequest

	httpServer *httptest.Server
}

// New starts a server that is shut down when the test ends
func New(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		jobs:        make(map[string]*models.Job),
		users:       make(map[string]*models.User),
		templates:   make(map[string]*models.OutreachTemplate),
		owners:      make(map[string]string),
		agentStatus: models.AgentIdle,
		failures:    make(map[string][]failure),
		gates:       make(map[string]*Gate),
	}

	router := gin.New()
	router.Use(s.record, s.inject)
	s.registerRoutes(router)

	s.httpServer = httptest.NewServer(router)
	t.Cleanup(func() {
		s.mu.Lock()
		for _, g := range s.gates {
			g.Release()
		}
		s.mu.Unlock()
		s.httpServer.Close()
	})
	return s
}

// URL is the base URL clients should use
func (s *Server) URL() string {
	return s.httpServer.URL
}

func routeKey(method, route string) string {
	return method + " " + route
}

// FailNext makes the next call to route (a gin pattern such as
// "/api/jobs/:id/status") answer with status and a FastAPI detail body.
func (s *Server) FailNext(method, route string, status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := routeKey(method, route)
	s.failures[key] = append(s.failures[key], failure{status: status, detail: detail})
}

// Hold blocks requests to route until the returned gate is released
func (s *Server) Hold(method, route string) *Gate {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := &Gate{Arrived: make(chan struct{}, 16), release: make(chan struct{})}
	s.gates[routeKey(method, route)] = g
	return g
}

// Requests returns a copy of everything received so far
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestsTo returns received requests matching method and route
func (s *Server) RequestsTo(method, route string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range s.Requests() {
		if r.Method == method && r.Route == route {
			out = append(out, r)
		}
	}
	return out
}

// AddJob stores jobs in insertion order
func (s *Server) AddJob(jobs ...models.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range jobs {
		job := jobs[i]
		if job.ID == "" {
			job.ID = uuid.NewString()
		}
		if _, ok := s.jobs[job.ID]; !ok {
			s.jobOrder = append(s.jobOrder, job.ID)
		}
		s.jobs[job.ID] = &job
	}
}

// Job returns the server-side copy of a job
func (s *Server) Job(id string) (models.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return models.Job{}, false
	}
	return *job, true
}

// SetUser stores a user document keyed by its external id
func (s *Server) SetUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.users[u.UserID] = &u
}

// User returns the stored user document
func (s *Server) User(userID string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return models.User{}, false
	}
	return *u, true
}

// AddTemplate stores a template owned by userID and returns its id
func (s *Server) AddTemplate(userID string, tmpl models.OutreachTemplate) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tmpl.ID == "" {
		tmpl.ID = uuid.NewString()
	}
	s.templates[tmpl.ID] = &tmpl
	s.owners[tmpl.ID] = userID
	return tmpl.ID
}

// Template returns a stored template
func (s *Server) Template(id string) (models.OutreachTemplate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[id]
	if !ok {
		return models.OutreachTemplate{}, false
	}
	return *t, true
}

// AddTimeline appends agent activity entries
func (s *Server) AddTimeline(entries ...models.TimelineEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeline = append(s.timeline, entries...)
}

// AddHistory appends scan runs
func (s *Server) AddHistory(runs ...models.ScanRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, runs...)
}

// SetAgentStatus changes the reported agent state
func (s *Server) SetAgentStatus(status models.AgentStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agentStatus = status
}

// SetSchedule sets the next and last scan answers
func (s *Server) SetSchedule(next time.Time, last models.LastScan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextScan = next
	s.lastScan = last
}

func (s *Server) record(c *gin.Context) {
	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method: c.Request.Method,
		Route:  c.FullPath(),
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.RawQuery,
		Header: c.Request.Header.Clone(),
	})
	s.mu.Unlock()
	c.Next()
}

func (s *Server) inject(c *gin.Context) {
	key := routeKey(c.Request.Method, c.FullPath())

	s.mu.Lock()
	gate := s.gates[key]
	var f *failure
	if queue := s.failures[key]; len(queue) > 0 {
		f = &queue[0]
		s.failures[key] = queue[1:]
	}
	s.mu.Unlock()

	if gate != nil {
		select {
		case gate.Arrived <- struct{}{}:
		default:
		}
		select {
		case <-gate.release:
		case <-c.Request.Context().Done():
			c.Abort()
			return
		}
	}

	if f != nil {
		c.AbortWithStatusJSON(f.status, gin.H{"detail": f.detail})
		return
	}
	c.Next()
}

func (s *Server) registerRoutes(r *gin.Engine) {
	api := r.Group("/api")

	users := api.Group("/users")
	users.GET("/profile/:id", s.getProfile)
	users.POST("/profile", s.saveProfile)
	users.POST("/resume", s.uploadResume)

	jobs := api.Group("/jobs")
	jobs.GET("", s.listJobs)
	jobs.GET("/:id", s.getJob)
	jobs.POST("/scan", s.scan)
	jobs.POST("/:id/outreach", s.outreach)
	jobs.PATCH("/:id/status", s.updateStatus)

	api.GET("/dashboard/stats", s.dashboardStats)

	tmpl := api.Group("/outreach/templates")
	tmpl.GET("", s.listTemplates)
	tmpl.GET("/:id", s.getTemplate)
	tmpl.POST("", s.createTemplate)
	tmpl.PUT("/:id", s.updateTemplate)
	tmpl.POST("/:id/duplicate", s.duplicateTemplate)
	tmpl.DELETE("/:id", s.deleteTemplate)

	api.GET("/agents/timeline", s.agentTimeline)
	api.GET("/agents/history", s.agentHistory)

	runs := api.Group("/runs")
	runs.GET("/status", s.runStatus)
	runs.GET("/next-scan", s.runNextScan)
	runs.GET("/last-scan", s.runLastScan)
	runs.GET("/timeline", s.agentTimeline)
	runs.PATCH("/auto-scan", s.autoScan)
	runs.POST("/start", s.startRun)
	runs.POST("/stop", s.stopRun)
}

func detail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"detail": msg})
}

func requireUser(c *gin.Context) (string, bool) {
	id := c.Query("clerk_user_id")
	if id == "" {
		detail(c, http.StatusUnprocessableEntity, "clerk_user_id is required")
		return "", false
	}
	return id, true
}

func queryLimit(c *gin.Context, def int) int {
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
		return n
	}
	return def
}

func (s *Server) getProfile(c *gin.Context) {
	u, ok := s.User(c.Param("id"))
	if !ok {
		detail(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) saveProfile(c *gin.Context) {
	var u models.User
	if err := c.ShouldBindJSON(&u); err != nil || u.UserID == "" {
		detail(c, http.StatusUnprocessableEntity, "clerk_user_id is required")
		return
	}
	if existing, ok := s.User(u.UserID); ok {
		u.ID = existing.ID
	}
	s.SetUser(u)
	saved, _ := s.User(u.UserID)
	c.JSON(http.StatusOK, models.ProfileSaved{Message: "Profile saved", UserID: saved.ID})
}

func (s *Server) uploadResume(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		detail(c, http.StatusBadRequest, "file is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		detail(c, http.StatusNotFound, "User not found")
		return
	}
	if u.Profile == nil {
		p := models.DefaultProfile()
		u.Profile = &p
	}
	u.Profile.ResumeFileURL = "/uploads/" + fh.Filename
	c.JSON(http.StatusOK, models.ResumeUploaded{
		Message:       "Resume uploaded",
		ResumeFileURL: u.Profile.ResumeFileURL,
		ParsedChars:   int(fh.Size),
	})
}

func (s *Server) listJobs(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	status := c.Query("status")
	source := c.Query("source")
	minScore, _ := strconv.ParseFloat(c.Query("min_match_score"), 64)
	limit := queryLimit(c, 50)

	s.mu.Lock()
	jobs := make([]models.Job, 0, len(s.jobOrder))
	for _, id := range s.jobOrder {
		job := *s.jobs[id]
		if status != "" && string(job.Status) != status {
			continue
		}
		if source != "" && job.Source != source {
			continue
		}
		if minScore > 0 && job.Score() < minScore {
			continue
		}
		jobs = append(jobs, job)
	}
	runs := append([]models.ScanRun{}, s.history...)
	s.mu.Unlock()

	if c.Query("sort_by") == "match_score" {
		desc := c.Query("sort_order") != "asc"
		sort.SliceStable(jobs, func(i, j int) bool {
			if desc {
				return jobs[i].Score() > jobs[j].Score()
			}
			return jobs[i].Score() < jobs[j].Score()
		})
	}

	total := len(jobs)
	if len(jobs) > limit {
		jobs = jobs[:limit]
	}
	c.JSON(http.StatusOK, models.JobList{Jobs: jobs, Total: total, ScanRuns: runs})
}

func (s *Server) getJob(c *gin.Context) {
	job, ok := s.Job(c.Param("id"))
	if !ok {
		detail(c, http.StatusNotFound, "Job not found")
		return
	}
	c.JSON(http.StatusOK, job)
}

func (s *Server) scan(c *gin.Context) {
	var req models.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		detail(c, http.StatusUnprocessableEntity, "clerk_user_id is required")
		return
	}
	if _, ok := s.User(req.UserID); !ok {
		detail(c, http.StatusNotFound, "User not found")
		return
	}

	runID := uuid.NewString()
	s.AddHistory(models.ScanRun{
		ID:        runID,
		Status:    "pending",
		Sources:   req.Sources,
		StartedAt: models.NewTimestamp(time.Now()),
	})
	c.JSON(http.StatusOK, models.ScanStarted{Message: "Job scan started", Status: "processing", ScanRunID: runID})
}

func (s *Server) outreach(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	if _, ok := s.User(userID); !ok {
		detail(c, http.StatusNotFound, "User not found")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[c.Param("id")]
	if !ok {
		detail(c, http.StatusNotFound, "Job not found or generation failed")
		return
	}
	// generated content is returned, not stored on the job
	content := models.OutreachContent{
		EmailSubject: fmt.Sprintf("Application for %s at %s", job.Title, job.Company),
		EmailBody:    fmt.Sprintf("Hello,\n\nI am interested in the %s role at %s.", job.Title, job.Company),
		LinkedInDM:   fmt.Sprintf("Hi! I'd love to chat about %s.", job.Title),
	}
	c.JSON(http.StatusOK, models.OutreachResult{JobID: job.ID, OutreachContent: content})
}

func (s *Server) updateStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Status == "" {
		detail(c, http.StatusUnprocessableEntity, "status is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[c.Param("id")]
	if !ok {
		detail(c, http.StatusInternalServerError, "Failed to update status")
		return
	}
	job.Status = models.JobStatus(body.Status)
	c.JSON(http.StatusOK, models.StatusUpdate{Message: "Status updated", JobID: job.ID, NewStatus: job.Status})
}

func (s *Server) dashboardStats(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stats := models.DashboardStats{
		StatusBreakdown: map[string]int{},
		RecentActivity:  []models.Activity{},
		TopSources:      []models.SourceCount{},
	}
	sources := map[string]int{}
	var scoreSum float64
	var scored int
	for _, id := range s.jobOrder {
		job := s.jobs[id]
		stats.Stats.TotalJobsScanned++
		stats.StatusBreakdown[string(job.Status)]++
		sources[job.Source]++
		if job.MatchScore != nil {
			scoreSum += *job.MatchScore
			scored++
			if *job.MatchScore >= 0.8 {
				stats.Stats.HighMatchJobs++
			}
		}
		switch job.Status {
		case models.StatusMatched:
			stats.Stats.MatchedJobs++
		case models.StatusApplied:
			stats.Stats.ApplicationsSent++
		case models.StatusNew:
			stats.Stats.PendingReviews++
		}
	}
	if scored > 0 {
		stats.Stats.AverageMatchScore = scoreSum / float64(scored)
	}
	for src, n := range sources {
		stats.TopSources = append(stats.TopSources, models.SourceCount{Source: src, Count: n})
	}
	sort.Slice(stats.TopSources, func(i, j int) bool {
		if stats.TopSources[i].Count == stats.TopSources[j].Count {
			return stats.TopSources[i].Source < stats.TopSources[j].Source
		}
		return stats.TopSources[i].Count > stats.TopSources[j].Count
	})
	c.JSON(http.StatusOK, stats)
}

func (s *Server) listTemplates(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.OutreachTemplate{}
	for id, t := range s.templates {
		if s.owners[id] == userID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	c.JSON(http.StatusOK, out)
}

func (s *Server) getTemplate(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[c.Param("id")]
	if !ok || s.owners[t.ID] != userID {
		detail(c, http.StatusNotFound, "Template not found")
		return
	}
	c.JSON(http.StatusOK, templateWire(*t))
}

// templateWire mirrors the backend, which stores the body as "content"
func templateWire(t models.OutreachTemplate) gin.H {
	return gin.H{
		"_id":        t.ID,
		"name":       t.Name,
		"type":       t.Type,
		"subject":    t.Subject,
		"content":    t.Body,
		"created_at": t.CreatedAt,
		"updated_at": t.UpdatedAt,
	}
}

func (s *Server) createTemplate(c *gin.Context) {
	var in models.TemplateInput
	if err := c.ShouldBindJSON(&in); err != nil || in.UserID == "" || in.Name == "" {
		detail(c, http.StatusUnprocessableEntity, "clerk_user_id and name are required")
		return
	}
	now := models.NewTimestamp(time.Now())
	id := s.AddTemplate(in.UserID, models.OutreachTemplate{
		Name: in.Name, Type: in.Type, Subject: in.Subject, Body: in.Body,
		CreatedAt: now, UpdatedAt: now,
	})
	c.JSON(http.StatusOK, models.TemplateCreated{ID: id, Message: "Template created"})
}

func (s *Server) updateTemplate(c *gin.Context) {
	var in models.TemplateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[c.Param("id")]
	if !ok || s.owners[t.ID] != in.UserID {
		detail(c, http.StatusNotFound, "Template not found")
		return
	}
	t.Name, t.Type, t.Subject, t.Body = in.Name, in.Type, in.Subject, in.Body
	t.UpdatedAt = models.NewTimestamp(time.Now())
	c.JSON(http.StatusOK, gin.H{"message": "Template updated"})
}

func (s *Server) duplicateTemplate(c *gin.Context) {
	var body struct {
		UserID string `json:"clerk_user_id"`
	}
	_ = c.ShouldBindJSON(&body)

	src, ok := s.Template(c.Param("id"))
	s.mu.Lock()
	owner := s.owners[src.ID]
	s.mu.Unlock()
	if !ok || owner != body.UserID {
		detail(c, http.StatusNotFound, "Template not found")
		return
	}

	src.ID = ""
	src.Name += " (Copy)"
	id := s.AddTemplate(body.UserID, src)
	c.JSON(http.StatusOK, models.TemplateCreated{ID: id, Message: "Template duplicated"})
}

func (s *Server) deleteTemplate(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := c.Param("id")
	if _, ok := s.templates[id]; !ok || s.owners[id] != userID {
		detail(c, http.StatusNotFound, "Template not found")
		return
	}
	delete(s.templates, id)
	delete(s.owners, id)
	c.JSON(http.StatusOK, gin.H{"message": "Template deleted"})
}

func (s *Server) agentTimeline(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	limit := queryLimit(c, 50)

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.TimelineEntry{}
	for i := len(s.timeline) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.timeline[i])
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) agentHistory(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	limit := queryLimit(c, 20)

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.ScanRun{}
	for i := len(s.history) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.history[i])
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) runStatus(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, models.RunStatus{Status: s.agentStatus})
}

func (s *Server) runNextScan(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nextScan.IsZero() {
		c.JSON(http.StatusOK, gin.H{"next_scan": nil})
		return
	}
	// the backend emits naive UTC timestamps
	c.JSON(http.StatusOK, gin.H{"next_scan": s.nextScan.UTC().Format("2006-01-02T15:04:05.000000")})
}

func (s *Server) runLastScan(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.lastScan)
}

func (s *Server) autoScan(c *gin.Context) {
	var body struct {
		Enabled bool   `json:"enabled"`
		UserID  string `json:"clerk_user_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.UserID == "" {
		detail(c, http.StatusUnprocessableEntity, "clerk_user_id is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[body.UserID]
	if !ok {
		detail(c, http.StatusNotFound, "User not found")
		return
	}
	if u.Profile == nil {
		p := models.DefaultProfile()
		u.Profile = &p
	}
	u.Profile.Preferences.AutoScanEnabled = body.Enabled
	c.JSON(http.StatusOK, models.AutoScan{Enabled: body.Enabled})
}

func (s *Server) startRun(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.agentStatus == models.AgentRunning {
		detail(c, http.StatusBadRequest, "A run is already in progress")
		return
	}
	s.agentStatus = models.AgentRunning
	c.JSON(http.StatusOK, models.RunStarted{RunID: uuid.NewString(), Status: models.AgentRunning})
}

func (s *Server) stopRun(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agentStatus = models.AgentIdle
	c.JSON(http.StatusOK, gin.H{"status": "stopped"})
}
