package maintenance

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/charlesng35/flaskr/internal/services"
	"github.com/charlesng35/flaskr/pkg/logger"
	"github.com/charlesng35/flaskr/pkg/metrics"
)

const (
	DefaultAuditRetentionDays = 90
	DefaultAuditSchedule      = "@daily"
	DefaultEntryStatsSchedule = "@every 1m"
)

type job struct {
	name string
	spec string
	run  func(ctx context.Context) error
}

// Cleaner runs the periodic housekeeping jobs: pruning old audit rows and
// refreshing the stored entries gauge.
type Cleaner struct {
	audit   *services.AuditService
	entries *services.EntryService
	cron    *cron.Cron
	log     *zap.Logger

	retentionDays int
	auditSpec     string
	statsSpec     string
}

type Option func(*Cleaner)

// WithCron replaces the scheduler. Tests use it to control timing.
func WithCron(c *cron.Cron) Option {
	return func(cl *Cleaner) {
		if c != nil {
			cl.cron = c
		}
	}
}

func WithAuditRetentionDays(days int) Option {
	return func(cl *Cleaner) {
		if days > 0 {
			cl.retentionDays = days
		}
	}
}

func WithAuditSchedule(spec string) Option {
	return func(cl *Cleaner) {
		if spec != "" {
			cl.auditSpec = spec
		}
	}
}

// WithEntryStats enables the job that publishes the number of stored
// entries to the flaskr_entries_stored gauge.
func WithEntryStats(entries *services.EntryService, spec string) Option {
	return func(cl *Cleaner) {
		cl.entries = entries
		if spec != "" {
			cl.statsSpec = spec
		}
	}
}

// NewCleaner builds a Cleaner. Jobs whose service is nil are skipped.
func NewCleaner(audit *services.AuditService, opts ...Option) *Cleaner {
	cl := &Cleaner{
		audit:         audit,
		retentionDays: DefaultAuditRetentionDays,
		auditSpec:     DefaultAuditSchedule,
		statsSpec:     DefaultEntryStatsSchedule,
		log:           logger.WithModule("maintenance"),
	}
	for _, opt := range opts {
		opt(cl)
	}
	if cl.cron == nil {
		cl.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}
	return cl
}

func (c *Cleaner) jobs() []job {
	var jobs []job
	if c.audit != nil {
		jobs = append(jobs, job{name: "audit retention", spec: c.auditSpec, run: c.pruneAudit})
	}
	if c.entries != nil {
		jobs = append(jobs, job{name: "entry stats", spec: c.statsSpec, run: c.publishEntryStats})
	}
	return jobs
}

func (c *Cleaner) pruneAudit(ctx context.Context) error {
	removed, err := c.audit.CleanupOlderThan(ctx, c.retentionDays)
	if err != nil {
		return err
	}
	if removed > 0 {
		c.log.Info("pruned audit logs",
			zap.Int64("removed", removed),
			zap.Int("retention_days", c.retentionDays),
		)
	}
	return nil
}

func (c *Cleaner) publishEntryStats(ctx context.Context) error {
	count, err := c.entries.Count(ctx)
	if err != nil {
		return err
	}
	metrics.StoredEntries.Set(float64(count))
	return nil
}

// Start schedules every enabled job. It does nothing when none are enabled.
func (c *Cleaner) Start() error {
	jobs := c.jobs()
	if len(jobs) == 0 {
		return nil
	}

	for _, j := range jobs {
		if _, err := c.cron.AddFunc(j.spec, func() {
			if err := j.run(context.Background()); err != nil {
				c.log.Warn("maintenance job failed", zap.String("job", j.name), zap.Error(err))
			}
		}); err != nil {
			return fmt.Errorf("maintenance: schedule %s: %w", j.name, err)
		}
	}
	c.cron.Start()
	return nil
}

// Stop stops scheduling. The returned context is done once running jobs
// have finished.
func (c *Cleaner) Stop() context.Context {
	return c.cron.Stop()
}

// RunOnce runs every enabled job now and returns all of their errors.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var errs error
	for _, j := range c.jobs() {
		if err := j.run(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("maintenance: %s: %w", j.name, err))
		}
	}
	return errs
}
