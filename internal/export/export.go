// Package export writes the job pipeline to an Excel workbook.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/khrees2412/jobhunter/internal/board"
	"github.com/khrees2412/jobhunter/pkg/models"
)

const (
	JobsSheet  = "Jobs"
	BoardSheet = "Board"
)

// JobColumns are the headers of the Jobs sheet
var JobColumns = []string{
	"ID", "TITLE", "COMPANY", "LOCATION", "REMOTE", "SALARY", "MATCH SCORE",
	"STATUS", "COLUMN", "SOURCE", "POSTED", "URL", "EMAIL SUBJECT",
}

func jobRow(job models.Job) []interface{} {
	var score interface{}
	if job.MatchScore != nil {
		score = *job.MatchScore
	}
	var posted interface{}
	if !job.PostedAt.IsZero() {
		posted = job.PostedAt.UTC().Format("2006-01-02")
	}
	return []interface{}{
		job.ID,
		job.Title,
		job.Company,
		job.Location,
		job.Remote,
		job.SalaryText(),
		score,
		string(job.Status),
		board.ColumnFor(job).Title(),
		job.Source,
		posted,
		job.URL(),
		job.Outreach.EmailSubject,
	}
}

// FileName is the default export name
func FileName(now time.Time) string {
	return fmt.Sprintf("jobhunter_jobs_%s.xlsx", now.Format("20060102_150405"))
}

// WriteFile writes the workbook to path. The file only appears once it has
// been fully written; nothing is left behind on failure.
func WriteFile(path string, jobs []models.Job) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jobhunter-export-*.xlsx")
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := WriteJobs(tmp, jobs); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save export file: %w", err)
	}
	return nil
}

// WriteJobs writes a workbook with one row per job and a board summary sheet
func WriteJobs(w io.Writer, jobs []models.Job) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", JobsSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := writeRow(f, JobsSheet, 1, toRow(JobColumns)); err != nil {
		return err
	}
	endCell, _ := excelize.CoordinatesToCellName(len(JobColumns), 1)
	if err := f.SetCellStyle(JobsSheet, "A1", endCell, headerStyle); err != nil {
		return err
	}

	for i, job := range jobs {
		if err := writeRow(f, JobsSheet, i+2, jobRow(job)); err != nil {
			return err
		}
	}

	for i := range JobColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(JobsSheet, colName, colName, 20)
	}
	_ = f.SetPanes(JobsSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	if err := writeBoardSheet(f, jobs, headerStyle); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func writeBoardSheet(f *excelize.File, jobs []models.Job, headerStyle int) error {
	if _, err := f.NewSheet(BoardSheet); err != nil {
		return err
	}
	if err := writeRow(f, BoardSheet, 1, []interface{}{"COLUMN", "JOBS"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(BoardSheet, "A1", "B1", headerStyle); err != nil {
		return err
	}

	b := board.Group(jobs)
	for i, lane := range b.Lanes {
		if err := writeRow(f, BoardSheet, i+2, []interface{}{lane.Column.Title(), len(lane.Jobs)}); err != nil {
			return err
		}
	}
	totalRow := len(b.Lanes) + 2
	if err := writeRow(f, BoardSheet, totalRow, []interface{}{"Total", b.Total()}); err != nil {
		return err
	}
	_ = f.SetColWidth(BoardSheet, "A", "A", 24)
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toRow(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
