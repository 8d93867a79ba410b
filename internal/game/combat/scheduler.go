package combat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler defaults.
const (
	DefaultSweepInterval = time.Minute
	DefaultBattleTimeout = 30 * time.Minute
)

// SchedulerConfig configures a Scheduler. Zero values select the defaults.
type SchedulerConfig struct {
	Interval time.Duration    // DefaultSweepInterval
	Timeout  time.Duration    // DefaultBattleTimeout
	Clock    func() time.Time // time.Now
}

// SweepReport summarizes one sweep.
type SweepReport struct {
	Checked  int
	TimedOut []string
	Failed   []string
}

// Scheduler periodically times out battles that have been active for longer
// than the configured ceiling. It implements server.Service.
type Scheduler struct {
	engine   *Engine
	interval time.Duration
	timeout  time.Duration
	clock    func() time.Time
	logger   *zap.Logger
	cron     *cron.Cron

	// expire is replaceable so tests can inject per-battle failures.
	expire func(ctx context.Context, battleID string, now time.Time, ceiling time.Duration) (bool, error)

	stopOnce sync.Once
	done     chan struct{}
}

// NewScheduler creates a Scheduler for engine. It does not start sweeping
// until Start is called.
//
// Precondition: engine and logger must not be nil.
func NewScheduler(engine *Engine, cfg SchedulerConfig, logger *zap.Logger) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultSweepInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultBattleTimeout
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	cl := cronLogger{logger.Sugar()}
	return &Scheduler{
		engine:   engine,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		clock:    cfg.Clock,
		logger:   logger,
		cron:     cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		expire:   engine.expireIfStale,
		done:     make(chan struct{}),
	}
}

// Start registers the sweep job and runs the cron scheduler, blocking until Stop.
func (s *Scheduler) Start() error {
	schedule := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(schedule, func() { s.Sweep(context.Background()) }); err != nil {
		return fmt.Errorf("scheduling battle sweep %q: %w", schedule, err)
	}
	s.cron.Start()
	s.logger.Info("battle scheduler started",
		zap.Duration("interval", s.interval),
		zap.Duration("timeout", s.timeout),
	)
	<-s.done
	return nil
}

// Stop halts the cron scheduler and waits for a running sweep to finish.
// Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		<-s.cron.Stop().Done()
		close(s.done)
	})
}

// Sweep checks every active battle once and times out the stale ones.
// A failure while handling one battle, including a panic, is logged and does
// not prevent the remaining battles from being checked.
func (s *Scheduler) Sweep(ctx context.Context) SweepReport {
	now := s.clock()
	var report SweepReport
	for _, id := range s.engine.activeIDs() {
		report.Checked++
		expired, err := s.sweepOne(ctx, id, now)
		switch {
		case err != nil:
			report.Failed = append(report.Failed, id)
			s.logger.Error("battle timeout check failed", zap.String("battle_id", id), zap.Error(err))
		case expired:
			report.TimedOut = append(report.TimedOut, id)
		}
	}
	if len(report.TimedOut) > 0 || len(report.Failed) > 0 {
		s.logger.Info("battle sweep complete",
			zap.Int("checked", report.Checked),
			zap.Int("timed_out", len(report.TimedOut)),
			zap.Int("failed", len(report.Failed)),
		)
	}
	return report
}

func (s *Scheduler) sweepOne(ctx context.Context, id string, now time.Time) (expired bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.expire(ctx, id, now, s.timeout)
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
