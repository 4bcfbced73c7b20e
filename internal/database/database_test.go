package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/khrees2412/jobhunter/internal/cache"
	"github.com/khrees2412/jobhunter/pkg/models"
)

// createTestStore creates a temporary test database
func createTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nested", "cache.db")

	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func score(v float64) *float64 { return &v }

// TestJobsRoundTrip tests that a saved list comes back intact and in order
func TestJobsRoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	jobs := []models.Job{
		{ID: "b", Title: "SRE", Company: "Globex", Status: models.StatusNew},
		{ID: "a", Title: "Go Engineer", Company: "Acme", Status: models.StatusMatched, MatchScore: score(0.87),
			Outreach: models.OutreachContent{EmailSubject: "Hi"}},
	}

	before := time.Now().Add(-time.Second)
	if err := s.SaveJobs(ctx, "user_1", jobs); err != nil {
		t.Fatalf("SaveJobs failed: %v", err)
	}

	got, savedAt, err := s.LoadJobs(ctx, "user_1")
	if err != nil {
		t.Fatalf("LoadJobs failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(got))
	}
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("order not preserved: %s, %s", got[0].ID, got[1].ID)
	}
	if got[1].Score() != 0.87 || !got[1].HasOutreach() {
		t.Errorf("job fields lost: %+v", got[1])
	}
	if savedAt.Before(before) {
		t.Errorf("savedAt %v is before save", savedAt)
	}
}

// TestSaveJobsReplaces tests that a new snapshot drops jobs no longer listed
func TestSaveJobsReplaces(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_ = s.SaveJobs(ctx, "user_1", []models.Job{{ID: "a"}, {ID: "b"}})
	if err := s.SaveJobs(ctx, "user_1", []models.Job{{ID: "c", Status: models.StatusDraft}}); err != nil {
		t.Fatalf("SaveJobs failed: %v", err)
	}

	got, _, err := s.LoadJobs(ctx, "user_1")
	if err != nil {
		t.Fatalf("LoadJobs failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "c" {
		t.Errorf("expected only job c, got %+v", got)
	}
}

// TestSnapshotsArePerUser tests isolation between users
func TestSnapshotsArePerUser(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_ = s.SaveJobs(ctx, "user_1", []models.Job{{ID: "a"}})

	if _, _, err := s.LoadJobs(ctx, "user_2"); err != cache.ErrMiss {
		t.Errorf("expected ErrMiss for user_2, got %v", err)
	}
}

// TestEmptyListIsNotAMiss tests that an empty saved list loads as empty
func TestEmptyListIsNotAMiss(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.SaveJobs(ctx, "user_1", nil); err != nil {
		t.Fatalf("SaveJobs failed: %v", err)
	}
	got, _, err := s.LoadJobs(ctx, "user_1")
	if err != nil {
		t.Fatalf("LoadJobs failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", got)
	}
}

// TestProfileRoundTrip tests saving, overwriting and removing a profile
func TestProfileRoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, _, err := s.LoadProfile(ctx, "user_1"); err != cache.ErrMiss {
		t.Fatalf("expected ErrMiss, got %v", err)
	}

	p := models.DefaultProfile()
	p.Name = "Ada"
	if err := s.SaveProfile(ctx, "user_1", &models.User{UserID: "user_1", Email: "ada@example.com", Profile: &p}); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}

	p.Name = "Ada Lovelace"
	_ = s.SaveProfile(ctx, "user_1", &models.User{UserID: "user_1", Email: "ada@example.com", Profile: &p})

	got, _, err := s.LoadProfile(ctx, "user_1")
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if got.ProfileOrDefault().Name != "Ada Lovelace" {
		t.Errorf("expected overwritten name, got %q", got.ProfileOrDefault().Name)
	}

	if err := s.SaveProfile(ctx, "user_1", nil); err != nil {
		t.Fatalf("SaveProfile(nil) failed: %v", err)
	}
	if _, _, err := s.LoadProfile(ctx, "user_1"); err != cache.ErrMiss {
		t.Errorf("expected ErrMiss after removal, got %v", err)
	}
}

// TestReopenKeepsData tests persistence across connections
func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	_ = s.SaveJobs(ctx, "user_1", []models.Job{{ID: "a"}})
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	got, _, err := s.LoadJobs(ctx, "user_1")
	if err != nil || len(got) != 1 {
		t.Errorf("expected 1 job after reopen, got %v (err %v)", got, err)
	}
}
