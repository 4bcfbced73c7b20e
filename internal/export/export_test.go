package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/khrees2412/jobhunter/pkg/models"
)

func TestWriteJobs(t *testing.T) {
	score := 0.92
	jobs := []models.Job{
		{ID: "a", Title: "Go Engineer", Company: "Acme", Status: models.StatusMatched, MatchScore: &score,
			Outreach: models.OutreachContent{EmailSubject: "Hello Acme"}, ListingURL: "https://jobs.example.com/a"},
		{ID: "b", Title: "SRE", Company: "Globex", Status: models.StatusApplied,
			PostedAt: models.NewTimestamp(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJobs(&buf, jobs))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(JobsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "TITLE", rows[0][1])
	assert.Equal(t, "Go Engineer", rows[1][1])
	assert.Equal(t, "Ready for Outreach", rows[1][8])
	assert.Equal(t, "Hello Acme", rows[1][12])
	assert.Equal(t, "Applied", rows[2][8])
	assert.Equal(t, "2026-01-05", rows[2][10])

	boardRows, err := f.GetRows(BoardSheet)
	require.NoError(t, err)
	require.Len(t, boardRows, 7)
	assert.Equal(t, []string{"Pending Review", "0"}, boardRows[1])
	assert.Equal(t, []string{"Ready for Outreach", "1"}, boardRows[2])
	assert.Equal(t, []string{"Applied", "1"}, boardRows[4])
	assert.Equal(t, []string{"Total", "2"}, boardRows[6])
}

func TestWriteJobsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJobs(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(JobsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFileName(t *testing.T) {
	at := time.Date(2026, 4, 1, 8, 5, 9, 0, time.UTC)
	assert.Equal(t, "jobhunter_jobs_20260401_080509.xlsx", FileName(at))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.xlsx")

	require.NoError(t, WriteFile(path, []models.Job{{ID: "a", Title: "Go Engineer", Status: models.StatusNew}}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(JobsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFileLeavesNothingOnFailure(t *testing.T) {
	dir := t.TempDir()
	// a non-empty directory cannot be replaced by the finished file
	target := filepath.Join(dir, "taken")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "inner"), 0755))

	err := WriteFile(target, []models.Job{{ID: "a"}})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "taken", entries[0].Name())

	_, err = os.Stat(filepath.Join(dir, "missing", "jobs.xlsx"))
	assert.True(t, os.IsNotExist(err))
	assert.Error(t, WriteFile(filepath.Join(dir, "missing", "jobs.xlsx"), nil))
}
