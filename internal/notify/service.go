package notify

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"dutybot/internal/duty"
	"dutybot/internal/profile"
	kit "dutybot/internal/transport"
	"dutybot/pkg/logx"
)

// ErrWrongWeekday is returned when a job fires on a day its schedule does
// not allow. The guard protects against misconfigured cron specs and
// manual triggers on the wrong day.
var ErrWrongWeekday = errors.New("job fired on the wrong weekday")

const (
	defaultBroadcastSpec = "0 16 * * 3" // Wednesday 16:00
	defaultTargetedSpec  = "0 18 * * 5" // Friday 18:00
	defaultRatePerSec    = 20
)

type Config struct {
	BroadcastSpec string
	TargetedSpec  string
	Location      *time.Location
	RatePerSec    float64
}

// Submitter hands a job to the application event loop, which serializes
// all schedule and profile access.
type Submitter interface {
	Submit(fn func(ctx context.Context)) bool
}

// Service owns the weekly reminder cron. Jobs run on the event loop so
// they never race with chat handlers over the schedule.
type Service struct {
	cfg      Config
	log      logx.Logger
	sender   kit.Adapter
	users    profile.Repo
	schedule *duty.Schedule
	roster   *duty.Roster
	loop     Submitter

	cron    *cron.Cron
	limiter *rate.Limiter
}

func New(cfg Config, sender kit.Adapter, users profile.Repo, schedule *duty.Schedule, roster *duty.Roster, loop Submitter, log logx.Logger) *Service {
	if cfg.BroadcastSpec == "" {
		cfg.BroadcastSpec = defaultBroadcastSpec
	}
	if cfg.TargetedSpec == "" {
		cfg.TargetedSpec = defaultTargetedSpec
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = defaultRatePerSec
	}
	return &Service{
		cfg:      cfg,
		log:      log,
		sender:   sender,
		users:    users,
		schedule: schedule,
		roster:   roster,
		loop:     loop,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
	}
}

func (s *Service) Start() error {
	c := cron.New(cron.WithLocation(s.cfg.Location))

	if _, err := c.AddFunc(s.cfg.BroadcastSpec, func() {
		s.submit("broadcast", func(ctx context.Context, now time.Time) error {
			_, err := s.RunBroadcast(ctx, now)
			return err
		})
	}); err != nil {
		return err
	}

	if _, err := c.AddFunc(s.cfg.TargetedSpec, func() {
		s.submit("targeted", func(ctx context.Context, now time.Time) error {
			_, err := s.RunTargeted(ctx, now)
			return err
		})
	}); err != nil {
		return err
	}

	c.Start()
	s.cron = c
	s.log.Info("reminder cron started",
		logx.String("broadcast", s.cfg.BroadcastSpec),
		logx.String("targeted", s.cfg.TargetedSpec),
		logx.String("tz", s.cfg.Location.String()))
	return nil
}

func (s *Service) submit(name string, job func(ctx context.Context, now time.Time) error) {
	ok := s.loop.Submit(func(ctx context.Context) {
		now := time.Now().In(s.cfg.Location)
		if err := job(ctx, now); err != nil {
			s.log.Error("reminder job failed", logx.String("job", name), logx.Err(err))
		}
	})
	if !ok {
		s.log.Error("reminder job dropped, event loop full", logx.String("job", name))
	}
}

// Stop halts the cron and waits for a running job to finish.
func (s *Service) Stop(ctx context.Context) error {
	if s.cron == nil {
		return nil
	}
	done := s.cron.Stop().Done()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SendTest delivers the admin test payload to a single chat.
func (s *Service) SendTest(ctx context.Context, chatID int64, now time.Time) error {
	_, err := s.sender.SendText(ctx, kit.ChatTarget{ChatID: chatID}, TestText(now), htmlOpts())
	return err
}

func (s *Service) phoneLookup() PhoneLookup {
	return func(name string) (string, bool) { return s.roster.Phone(name) }
}

func htmlOpts() *kit.SendOptions {
	return &kit.SendOptions{ParseMode: "HTML", DisablePreview: true}
}
