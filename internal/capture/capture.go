// Package capture saves a full-page screenshot and the visible text of a job
// posting with headless Chrome, so postings can be reviewed after they expire.
package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/khrees2412/jobhunter/pkg/models"
)

const (
	pageLoadTimeout = 45 * time.Second
	settleDelay     = 2 * time.Second
	pngQuality      = 100 // chromedp encodes PNG only at 100
)

// ErrNoURL is returned for jobs without a listing or apply link
var ErrNoURL = errors.New("job has no listing url")

// Progress reports capture steps on a terminal line
type Progress struct {
	mu  sync.Mutex
	out io.Writer
}

// NewProgress writes progress to out; nil discards it
func NewProgress(out io.Writer) *Progress {
	if out == nil {
		out = io.Discard
	}
	return &Progress{out: out}
}

func (p *Progress) Step(status string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "\r\033[K⏳ %s...", status)
}

func (p *Progress) Done(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "\r\033[K✓ saved %s\n", path)
}

func (p *Progress) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "\r\033[K✗ %v\n", err)
}

// Result lists the files written for one job
type Result struct {
	Screenshot string
	Text       string
	Title      string
}

// Capturer drives a headless browser
type Capturer struct {
	dir    string
	logger *zap.Logger
	now    func() time.Time
}

// New writes captures under dir
func New(dir string, logger *zap.Logger) *Capturer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Capturer{dir: dir, logger: logger, now: time.Now}
}

// createBrowserContext creates a new browser context with appropriate options
func (c *Capturer) createBrowserContext(parent context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1280, 1024),
		chromedp.UserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(parent, opts...)
	sugar := c.logger.Sugar()
	ctx, cancel2 := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...interface{}) {
		msg := fmt.Sprintf(format, v...)
		if strings.Contains(msg, "could not unmarshal event") {
			return
		}
		sugar.Debugf(format, v...)
	}))

	return ctx, func() {
		cancel2()
		cancel()
	}
}

// Capture renders the job's posting and writes <dir>/<name>.png and .txt
func (c *Capturer) Capture(ctx context.Context, job models.Job, progress *Progress) (*Result, error) {
	if progress == nil {
		progress = NewProgress(nil)
	}
	url := job.URL()
	if url == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoURL, job.ID)
	}
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return nil, fmt.Errorf("create capture directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, pageLoadTimeout)
	defer cancel()
	browserCtx, closeBrowser := c.createBrowserContext(ctx)
	defer closeBrowser()

	var (
		png   []byte
		title string
		text  string
	)

	progress.Step("opening " + url)
	c.logger.Info("capturing job posting", zap.String("job_id", job.ID), zap.String("url", url))

	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(settleDelay),
		chromedp.Title(&title),
		chromedp.Text("body", &text, chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			progress.Step("taking screenshot")
			return chromedp.FullScreenshot(&png, pngQuality).Do(ctx)
		}),
	)
	if err != nil {
		progress.Fail(err)
		return nil, fmt.Errorf("capture %s: %w", job.ID, err)
	}

	base := filepath.Join(c.dir, FileName(job, c.now()))
	res := &Result{Screenshot: base + ".png", Text: base + ".txt", Title: strings.TrimSpace(title)}

	if err := os.WriteFile(res.Screenshot, png, 0644); err != nil {
		return nil, fmt.Errorf("write screenshot: %w", err)
	}
	header := fmt.Sprintf("%s\n%s\n%s\n\n", res.Title, url, c.now().UTC().Format(time.RFC3339))
	if err := os.WriteFile(res.Text, []byte(header+strings.TrimSpace(text)+"\n"), 0644); err != nil {
		return nil, fmt.Errorf("write page text: %w", err)
	}

	progress.Done(res.Screenshot)
	return res, nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slug(s string) string {
	s = nonSlug.ReplaceAllString(strings.ToLower(s), "-")
	s = strings.Trim(s, "-")
	if len(s) > 40 {
		s = strings.TrimRight(s[:40], "-")
	}
	return s
}

// FileName is the capture base name: date, company, title and job id
func FileName(job models.Job, at time.Time) string {
	parts := []string{at.UTC().Format("20060102")}
	for _, p := range []string{slug(job.Company), slug(job.Title), slug(job.ID)} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "_")
}
