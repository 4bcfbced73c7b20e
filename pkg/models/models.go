package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Salary is the structured salary block of a job posting
type Salary struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Currency string   `json:"currency,omitempty"`
	Interval string   `json:"interval,omitempty"` // year, month, hour
}

// String renders the salary the way the job cards show it, e.g. "USD 120k - 180k / year"
func (s Salary) String() string {
	if s.Min == nil && s.Max == nil {
		return ""
	}
	var b strings.Builder
	if s.Currency != "" {
		b.WriteString(s.Currency)
		b.WriteString(" ")
	}
	switch {
	case s.Min != nil && s.Max != nil:
		fmt.Fprintf(&b, "%s - %s", compactAmount(*s.Min), compactAmount(*s.Max))
	case s.Min != nil:
		fmt.Fprintf(&b, "from %s", compactAmount(*s.Min))
	default:
		fmt.Fprintf(&b, "up to %s", compactAmount(*s.Max))
	}
	if s.Interval != "" {
		b.WriteString(" / ")
		b.WriteString(s.Interval)
	}
	return b.String()
}

func compactAmount(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("%gk", v/1000)
	}
	return fmt.Sprintf("%g", v)
}

// OutreachContent holds the generated outreach messages attached to a job
type OutreachContent struct {
	EmailSubject string `json:"email_subject,omitempty"`
	EmailBody    string `json:"email_body,omitempty"`
	LinkedInDM   string `json:"linkedin_dm,omitempty"`
}

// IsEmpty reports whether no outreach message has been generated
func (o OutreachContent) IsEmpty() bool {
	return strings.TrimSpace(o.EmailSubject) == "" &&
		strings.TrimSpace(o.EmailBody) == "" &&
		strings.TrimSpace(o.LinkedInDM) == ""
}

// JobMetadata carries collection details set by the scanner
type JobMetadata struct {
	CollectedAt Timestamp `json:"collected_at"`
	ScrapedFrom string    `json:"scraped_from,omitempty"`
	ScanRunID   string    `json:"scan_run_id,omitempty"`
}

// Job represents a scanned job posting as delivered by the backend
type Job struct {
	ID             string          `json:"_id"`
	Title          string          `json:"title"`
	Company        string          `json:"company"`
	Description    string          `json:"description,omitempty"`
	Location       string          `json:"location,omitempty"`
	Remote         bool            `json:"remote,omitempty"`
	Salary         Salary          `json:"salary"`
	SalaryRange    string          `json:"salary_range,omitempty"`
	MatchScore     *float64        `json:"match_score,omitempty"` // 0..1
	MatchReasoning string          `json:"match_reasoning,omitempty"`
	Status         JobStatus       `json:"status"`
	Source         string          `json:"source"`
	PostedAt       Timestamp       `json:"posted_at"`
	CreatedAt      Timestamp       `json:"created_at"`
	Metadata       JobMetadata     `json:"metadata"`
	ListingURL     string          `json:"listing_url,omitempty"`
	ApplyURL       string          `json:"apply_url,omitempty"`
	Outreach       OutreachContent `json:"outreach"`
}

// UnmarshalJSON accepts the legacy company_name field used by older backend builds
func (j *Job) UnmarshalJSON(data []byte) error {
	type plain Job
	aux := struct {
		*plain
		CompanyName string `json:"company_name"`
	}{plain: (*plain)(j)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if j.Company == "" {
		j.Company = aux.CompanyName
	}
	return nil
}

// HasOutreach reports whether generated outreach content is attached
func (j *Job) HasOutreach() bool {
	return !j.Outreach.IsEmpty()
}

// SalaryText returns the structured salary or the free-form range
func (j *Job) SalaryText() string {
	if s := j.Salary.String(); s != "" {
		return s
	}
	return j.SalaryRange
}

// URL returns the best link to the posting
func (j *Job) URL() string {
	if j.ListingURL != "" {
		return j.ListingURL
	}
	return j.ApplyURL
}

// Score returns the match score, 0 when the backend has not scored the job
func (j *Job) Score() float64 {
	if j.MatchScore == nil {
		return 0
	}
	return *j.MatchScore
}

// JobList is the response of GET /api/jobs
type JobList struct {
	Jobs     []Job     `json:"jobs"`
	Total    int       `json:"total"`
	ScanRuns []ScanRun `json:"scan_runs,omitempty"`
}

// ScanRequest triggers a backend job scan
type ScanRequest struct {
	UserID         string   `json:"clerk_user_id"`
	Sources        []string `json:"sources,omitempty"`
	MatchThreshold float64  `json:"match_threshold"`
	Keywords       []string `json:"keywords,omitempty"`
	Location       string   `json:"location,omitempty"`
}

// ScanStarted is returned when a scan has been queued
type ScanStarted struct {
	Message   string `json:"message"`
	Status    string `json:"status"`
	ScanRunID string `json:"scan_run_id"`
}

// OutreachResult is returned by POST /api/jobs/:id/outreach
type OutreachResult struct {
	JobID string `json:"job_id,omitempty"`
	OutreachContent
}

// StatusUpdate is returned by PATCH /api/jobs/:id/status
type StatusUpdate struct {
	Message   string    `json:"message"`
	JobID     string    `json:"job_id"`
	NewStatus JobStatus `json:"new_status"`
}

// UserPreferences represents the job search preferences stored with the profile
type UserPreferences struct {
	Location        string `json:"location,omitempty"`
	RemoteOnly      bool   `json:"remote_only"`
	SalaryMin       int    `json:"salary_min,omitempty"`
	SalaryMax       int    `json:"salary_max,omitempty"`
	AutoScanEnabled bool   `json:"auto_scan_enabled"`
}

// WorkExperience is one entry of the profile's work history
type WorkExperience struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
}

// UserProfile is the profile singleton the backend keeps per user
type UserProfile struct {
	Name            string           `json:"name" validate:"max=120"`
	Skills          []string         `json:"skills" validate:"dive,required,max=60"`
	Keywords        []string         `json:"keywords" validate:"dive,required,max=60"`
	Summary         string           `json:"summary,omitempty" validate:"max=4000"`
	ExperienceYears int              `json:"experience_years" validate:"gte=0,lte=60"`
	WorkExperience  []WorkExperience `json:"work_experience,omitempty"`
	LinkedInURL     string           `json:"linkedin_url,omitempty" validate:"omitempty,url"`
	ResumeFileURL   string           `json:"resume_file_url,omitempty"`
	Preferences     UserPreferences  `json:"preferences"`
}

// DefaultProfile returns the values the profile form starts from
func DefaultProfile() UserProfile {
	return UserProfile{
		Skills:          []string{},
		Keywords:        []string{},
		ExperienceYears: 5,
		Preferences: UserPreferences{
			Location:        "Remote",
			RemoteOnly:      true,
			AutoScanEnabled: true,
		},
	}
}

// User is the document returned by GET /api/users/profile/:id
type User struct {
	ID        string       `json:"_id,omitempty"`
	UserID    string       `json:"clerk_user_id"`
	Email     string       `json:"email"`
	Profile   *UserProfile `json:"profile,omitempty"`
	CreatedAt Timestamp    `json:"created_at"`
}

// ProfileOrDefault returns the stored profile or the form defaults when absent
func (u *User) ProfileOrDefault() UserProfile {
	if u == nil || u.Profile == nil {
		return DefaultProfile()
	}
	return *u.Profile
}

// ProfileSaved is returned by POST /api/users/profile
type ProfileSaved struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// ResumeUploaded is returned by POST /api/users/resume
type ResumeUploaded struct {
	Message       string `json:"message"`
	ResumeFileURL string `json:"resume_file_url,omitempty"`
	ParsedChars   int    `json:"parsed_chars,omitempty"`
}

// TemplateType distinguishes first-contact templates from follow-ups
type TemplateType string

const (
	TemplateInitial  TemplateType = "initial"
	TemplateFollowUp TemplateType = "follow_up"
)

// TemplateVariables lists the placeholders the backend substitutes
var TemplateVariables = []string{
	"{{company_name}}",
	"{{job_title}}",
	"{{hiring_manager}}",
	"{{my_name}}",
	"{{my_skills}}",
}

// OutreachTemplate is a reusable message skeleton owned by a user
type OutreachTemplate struct {
	ID        string       `json:"_id"`
	Name      string       `json:"name"`
	Type      TemplateType `json:"type"`
	Subject   string       `json:"subject,omitempty"`
	Body      string       `json:"body"`
	CreatedAt Timestamp    `json:"created_at"`
	UpdatedAt Timestamp    `json:"updated_at"`
}

// UnmarshalJSON falls back to the backend's content field for the body
func (t *OutreachTemplate) UnmarshalJSON(data []byte) error {
	type plain OutreachTemplate
	aux := struct {
		*plain
		Content string `json:"content"`
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if t.Body == "" {
		t.Body = aux.Content
	}
	return nil
}

// TemplateInput is the payload for creating or updating a template
type TemplateInput struct {
	UserID  string       `json:"clerk_user_id" validate:"required"`
	Name    string       `json:"name" validate:"required,max=120"`
	Type    TemplateType `json:"type" validate:"required,oneof=initial follow_up"`
	Subject string       `json:"subject,omitempty" validate:"max=200,placeholders"`
	Body    string       `json:"content" validate:"required,max=10000,placeholders"`
}

// TemplateCreated is returned by POST /api/outreach/templates and duplicate
type TemplateCreated struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// AgentStatus is the state of the backend agent run loop
type AgentStatus string

const (
	AgentIdle    AgentStatus = "idle"
	AgentRunning AgentStatus = "running"
	AgentPaused  AgentStatus = "paused"
)

// RunStatus is returned by GET /api/runs/status
type RunStatus struct {
	Status AgentStatus `json:"status"`
}

// NextScan is returned by GET /api/runs/next-scan
type NextScan struct {
	NextScan Timestamp `json:"next_scan"`
}

// LastScan is returned by GET /api/runs/last-scan
type LastScan struct {
	LastScan    Timestamp `json:"last_scan"`
	JobsScanned int       `json:"jobs_scanned"`
}

// RunStarted is returned by POST /api/runs/start
type RunStarted struct {
	RunID  string      `json:"run_id"`
	Status AgentStatus `json:"status"`
}

// AutoScan is returned by PATCH /api/runs/auto-scan
type AutoScan struct {
	Enabled bool `json:"auto_scan_enabled"`
}

// TimelineEntry is one step of the agent activity log
type TimelineEntry struct {
	ID        string         `json:"_id,omitempty"`
	Step      string         `json:"step"`
	RunID     string         `json:"run_id,omitempty"`
	Timestamp Timestamp      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// ScanRun is one entry of the scan history
type ScanRun struct {
	ID          string    `json:"_id"`
	Status      string    `json:"status"` // pending, running, completed, failed
	Sources     []string  `json:"sources,omitempty"`
	JobsFound   int       `json:"jobs_found"`
	JobsMatched int       `json:"jobs_matched"`
	AvgScore    float64   `json:"avg_score"`
	StartedAt   Timestamp `json:"started_at"`
	CompletedAt Timestamp `json:"completed_at"`
	Error       string    `json:"error,omitempty"`
}

// DashboardCounters are the KPI tiles of the dashboard
type DashboardCounters struct {
	TotalJobsScanned  int     `json:"total_jobs_scanned"`
	MatchedJobs       int     `json:"matched_jobs"`
	ApplicationsSent  int     `json:"applications_sent"`
	PendingReviews    int     `json:"pending_reviews"`
	AverageMatchScore float64 `json:"average_match_score"`
	HighMatchJobs     int     `json:"high_match_jobs"`
}

// Activity is one item of the dashboard activity feed
type Activity struct {
	Type         string    `json:"type"`
	Message      string    `json:"message"`
	Details      string    `json:"details"`
	Timestamp    Timestamp `json:"timestamp"`
	RelativeTime string    `json:"relative_time"`
}

// SourceCount is the number of jobs collected from a source
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// DashboardStats is returned by GET /api/dashboard/stats
type DashboardStats struct {
	Stats           DashboardCounters `json:"stats"`
	RecentActivity  []Activity        `json:"recent_activity"`
	TopSources      []SourceCount     `json:"top_sources"`
	StatusBreakdown map[string]int    `json:"status_breakdown"`
}
