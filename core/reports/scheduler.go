package reports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"itsm-desk/config"
	"itsm-desk/core/utils"

	"github.com/robfig/cron/v3"
)

// Scheduler writes KPI reports into the output directory on a cron schedule.
type Scheduler struct {
	cfg    config.ReportsConfig
	gen    *Generator
	logger *utils.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	cancel  context.CancelFunc
	running bool
}

func NewScheduler(cfg config.ReportsConfig, gen *Generator, logger *utils.Logger) *Scheduler {
	return &Scheduler{cfg: cfg, gen: gen, logger: logger}
}

func (s *Scheduler) Enabled() bool {
	return s != nil && s.gen != nil && strings.TrimSpace(s.cfg.Schedule) != ""
}

func (s *Scheduler) StartWithContext(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	c := cron.New(cron.WithLocation(time.UTC), cron.WithLogger(cron.PrintfLogger(s.logger)))
	if _, err := c.AddFunc(s.cfg.Schedule, func() {
		if _, err := s.RunOnce(runCtx, time.Now().UTC()); err != nil {
			s.logger.Errorf("scheduled report failed: %v", err)
		}
	}); err != nil {
		cancel()
		s.logger.Errorf("report schedule %q rejected: %v", s.cfg.Schedule, err)
		return
	}
	c.Start()
	s.cron = c
	s.cancel = cancel
	s.running = true
	s.logger.Printf("report scheduler started schedule=%q dir=%s", s.cfg.Schedule, s.cfg.OutputDir)
}

func (s *Scheduler) StopWithContext(ctx context.Context) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	c, cancel, wasRunning := s.cron, s.cancel, s.running
	s.cron, s.cancel, s.running = nil, nil, false
	s.mu.Unlock()
	if !wasRunning || c == nil {
		return nil
	}
	cancel()
	done := c.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce generates one report with the configured defaults and returns the
// written path.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) (string, error) {
	if s == nil || s.gen == nil {
		return "", nil
	}
	doc, err := s.gen.KPIReport(ctx, KPIRequest{
		Metrics: s.cfg.Metrics,
		Period:  s.cfg.DefaultPeriod,
		Format:  s.cfg.DefaultFormat,
	})
	if err != nil {
		return "", err
	}
	dir := strings.TrimSpace(s.cfg.OutputDir)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("report dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s", now.UTC().Format("20060102T150405Z"), doc.Filename)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, doc.Data, 0o640); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	s.logger.Printf("scheduled report written path=%s bytes=%d blake2b=%s", path, len(doc.Data), doc.Checksum())
	return path, nil
}
