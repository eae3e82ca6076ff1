package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/use-agent/foxread/config"
	"github.com/use-agent/foxread/models"
)

// rawPrefixLimit caps how much worker stdout is quoted in MALFORMED_OUTPUT.
const rawPrefixLimit = 512

// Scraper is the extraction orchestrator. Every Extract call spawns one
// fresh worker process; nothing is pooled or cached between calls.
// It is safe for concurrent use.
type Scraper struct {
	worker         Worker
	defaultTimeout time.Duration
	maxTimeout     time.Duration
	slots          *semaphore.Weighted // nil = unlimited
}

// NewScraper builds a Scraper from the worker configuration.
func NewScraper(cfg config.WorkerConfig) *Scraper {
	var args []string
	if cfg.Engine != "" {
		args = append(args, "--engine", cfg.Engine)
	}
	if cfg.Markdown {
		args = append(args, "--markdown")
	}
	return NewScraperWithWorker(Worker{Bin: cfg.Bin, Args: args}, cfg)
}

// NewScraperWithWorker builds a Scraper around an explicit Worker. Only the
// timeout and concurrency fields of cfg are used.
func NewScraperWithWorker(w Worker, cfg config.WorkerConfig) *Scraper {
	s := &Scraper{
		worker:         w,
		defaultTimeout: cfg.DefaultTimeout,
		maxTimeout:     cfg.MaxTimeout,
	}
	if s.defaultTimeout <= 0 {
		s.defaultTimeout = 30 * time.Second
	}
	if cfg.MaxWorkers > 0 {
		s.slots = semaphore.NewWeighted(int64(cfg.MaxWorkers))
	}
	return s
}

// WorkerPath returns the configured worker executable.
func (s *Scraper) WorkerPath() string {
	return s.worker.Bin
}

// WorkerAvailable reports whether the worker executable can be found.
func (s *Scraper) WorkerAvailable() bool {
	_, err := s.worker.Resolve()
	return err == nil
}

// Extract fetches rawURL in a dedicated worker and returns its record.
//
// A returned record may itself describe a failed fetch (sentinel content);
// that is not an error. Errors are always *models.ExtractError:
//
//	INVALID_URL        – no http(s) scheme/host after normalization
//	WORKER_UNAVAILABLE – executable missing; nothing was spawned
//	EXTRACT_TIMEOUT    – deadline hit; worker killed, output discarded
//	WORKER_CRASHED     – non-zero exit; stderr in Detail
//	MALFORMED_OUTPUT   – stdout is not a record; raw prefix in Detail
//
// timeout <= 0 uses the configured default. There are no retries.
func (s *Scraper) Extract(ctx context.Context, rawURL string, timeout time.Duration) (*models.ExtractionRecord, error) {
	// ── 1. Normalize ────────────────────────────────────────────────
	target, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	// ── 2. Worker presence ──────────────────────────────────────────
	path, err := s.worker.Resolve()
	if err != nil {
		return nil, models.NewExtractError(
			models.ErrCodeWorkerUnavailable,
			fmt.Sprintf("worker %q not found", s.worker.Bin),
			err,
		)
	}

	// ── 3. Deadline ─────────────────────────────────────────────────
	if timeout <= 0 {
		timeout = s.defaultTimeout
	}
	if s.maxTimeout > 0 && timeout > s.maxTimeout {
		timeout = s.maxTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// ── 3b. Optional admission limit ────────────────────────────────
	if s.slots != nil {
		if err := s.slots.Acquire(ctx, 1); err != nil {
			return nil, timeoutError(err, "no worker slot became free before the deadline")
		}
		defer s.slots.Release(1)
	}

	// ── 4. Spawn ────────────────────────────────────────────────────
	proc, err := s.worker.Spawn(path, target)
	if err != nil {
		return nil, models.NewExtractError(
			models.ErrCodeWorkerUnavailable,
			"failed to start worker",
			err,
		)
	}
	slog.Debug("worker spawned", "url", target, "pid", proc.PID(), "timeout", timeout)

	// ── 5. Await ────────────────────────────────────────────────────
	out := proc.Await(ctx)

	if out.TimedOut {
		slog.Warn("worker killed",
			"url", target,
			"pid", proc.PID(),
			"elapsed", out.Elapsed.Round(time.Millisecond).String(),
			"cause", out.Cause,
		)
		return nil, timeoutError(out.Cause, fmt.Sprintf("worker did not finish within %s", timeout))
	}

	if out.ExitCode != 0 {
		slog.Warn("worker crashed", "url", target, "exitCode", out.ExitCode)
		diag := strings.TrimSpace(strings.ToValidUTF8(string(out.Stderr), "�"))
		if diag == "" {
			diag = "unknown error"
		}
		return nil, models.NewExtractError(
			models.ErrCodeWorkerCrashed,
			fmt.Sprintf("worker exited with status %d", out.ExitCode),
			nil,
		).WithDetail(diag)
	}

	// ── 6. Parse ────────────────────────────────────────────────────
	rec, err := parseRecord(out.Stdout)
	if err != nil {
		return nil, err
	}
	if rec.URL == "" {
		rec.URL = target
	}

	slog.Info("extraction finished",
		"url", target,
		"elapsed", out.Elapsed.Round(time.Millisecond).String(),
		"failed", rec.Failed(),
	)
	return rec, nil
}

// wireRecord detects a missing content field, which a plain
// ExtractionRecord would silently zero.
type wireRecord struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Content     *string `json:"content"`
	ContentType string  `json:"content_type"`
	Markdown    string  `json:"markdown"`
}

// parseRecord decodes exactly one JSON record from worker stdout.
func parseRecord(stdout []byte) (*models.ExtractionRecord, error) {
	var w wireRecord
	if err := json.Unmarshal(stdout, &w); err != nil {
		return nil, models.NewExtractError(
			models.ErrCodeMalformedOutput,
			"failed to parse worker output",
			err,
		).WithDetail(fmt.Sprintf("%v; raw output: %q", err, rawPrefix(stdout)))
	}
	if w.Content == nil {
		return nil, models.NewExtractError(
			models.ErrCodeMalformedOutput,
			"worker output has no content field",
			nil,
		).WithDetail(fmt.Sprintf("raw output: %q", rawPrefix(stdout)))
	}
	return &models.ExtractionRecord{
		Title:       w.Title,
		URL:         w.URL,
		Content:     *w.Content,
		ContentType: w.ContentType,
		Markdown:    w.Markdown,
	}, nil
}

func rawPrefix(b []byte) string {
	if len(b) > rawPrefixLimit {
		b = b[:rawPrefixLimit]
	}
	return strings.ToValidUTF8(string(b), "�")
}

func timeoutError(cause error, msg string) *models.ExtractError {
	if errors.Is(cause, context.Canceled) {
		msg = "request canceled"
	}
	return models.NewExtractError(models.ErrCodeTimeout, msg, cause)
}
