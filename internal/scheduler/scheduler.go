package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/weatherverse/internal/alerts"
)

// Checker runs one refresh-and-evaluate pass.
type Checker interface {
	Check(ctx context.Context) (alerts.Result, error)
}

// Scheduler periodically refreshes the weather of favorite locations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	checker   Checker
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler. Intervals below one second default to 30s.
func New(interval time.Duration, checker Checker) *Scheduler {
	if interval < time.Second {
		interval = 30 * time.Second
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		checker:   checker,
		interval:  interval,
		timeout:   30 * time.Second,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	seconds := int(s.interval.Seconds())

	_, err := s.scheduler.Every(seconds).Seconds().SingletonMode().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	log.Info().Dur("interval", s.interval).Msg("scheduler: started")
	return nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	res, err := s.checker.Check(ctx)
	if err != nil {
		log.Error().Err(err).Msg("scheduler: refresh failed")
		return
	}
	log.Info().Int("checked", res.Checked).Int("alerts", len(res.Alerts)).Msg("scheduler: refresh completed")
}

// Stop stops the scheduler and cancels any future jobs. A run already in
// progress is allowed to finish.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
