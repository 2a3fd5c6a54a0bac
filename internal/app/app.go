package app

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"dutybot/internal/bot"
	"dutybot/internal/config"
	"dutybot/internal/duty"
	"dutybot/internal/notify"
	"dutybot/internal/profile"
	"dutybot/internal/runtime/supervisor"
	kit "dutybot/internal/transport"
	telegram "dutybot/internal/transport/telegram/adapter"
	"dutybot/pkg/logx"
)

type App struct {
	cfgm *config.Manager
	sup  *supervisor.Supervisor

	log  logx.Logger
	logs *logx.Service

	adapter   kit.Adapter
	users     profile.Repo
	schedule  *duty.Schedule
	roster    *duty.Roster
	reminders *notify.Service
	bot       *bot.Bot
	loop      *Loop

	updates chan kit.Update
}

func New(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	// Logging first; the telegram sink attaches once the adapter exists.
	logSvc, log := logx.New(mapLogConfig(cfg), nil)
	log = log.With(logx.String("comp", "app"))

	pollTimeout, err := config.ParseDurationOrDefault("telegram.poll_timeout", cfg.Telegram.PollTimeout, 10*time.Second)
	if err != nil {
		return nil, err
	}
	ad, err := telegram.New(telegram.Config{
		Token:       cfg.Telegram.Token,
		PollTimeout: pollTimeout,
	}, logSvc.Logger().With(logx.String("comp", "telegram")))
	if err != nil {
		return nil, err
	}
	logSvc.SetSender(ad)

	busy, err := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout)
	if err != nil {
		return nil, err
	}
	users, err := profile.Open(profile.Config{
		Path:        cfg.Storage.Path,
		BusyTimeout: busy,
	}, logSvc.Logger().With(logx.String("comp", "profile")))
	if err != nil {
		return nil, err
	}

	now := time.Now().In(loc)
	schedule := duty.NewSchedule(logSvc.Logger().With(logx.String("comp", "schedule")))
	schedule.Load(seedShifts(cfg.Schedule, log), now)
	roster := duty.NewRoster(cfg.Roster, logSvc.Logger().With(logx.String("comp", "roster")))

	loop := NewLoop(256, logSvc.Logger().With(logx.String("comp", "loop")))

	reminders := notify.New(notify.Config{
		BroadcastSpec: cfg.Notify.BroadcastSpec,
		TargetedSpec:  cfg.Notify.TargetedSpec,
		Location:      loc,
		RatePerSec:    cfg.Notify.RatePerSec,
	}, ad, users, schedule, roster, loop, logSvc.Logger().With(logx.String("comp", "notify")))

	b := bot.New(bot.Config{
		AdminLogin:    cfg.Admin.Login,
		AdminPassword: cfg.Admin.Password,
		ProtocolPath:  protocolPath(cfg),
		Location:      loc,
		Handles:       cfg.Handles,
	}, ad, users, schedule, roster, reminders, logSvc.Logger().With(logx.String("comp", "bot")))

	return &App{
		cfgm:      cfgm,
		log:       log,
		logs:      logSvc,
		adapter:   ad,
		users:     users,
		schedule:  schedule,
		roster:    roster,
		reminders: reminders,
		bot:       b,
		loop:      loop,
		updates:   make(chan kit.Update, 256),
	}, nil
}

func (a *App) Start(ctx context.Context) error {
	a.sup = supervisor.New(ctx,
		supervisor.WithLogger(a.log),
		supervisor.WithCancelOnError(true))
	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))

	if err := a.adapter.Start(a.sup.Context(), a.updates); err != nil {
		return err
	}

	a.sup.Go("loop.run", a.loop.Run)

	// Every update funnels through the loop; Bot.HandleUpdate is never
	// called concurrently.
	a.sup.Go0("updates.dispatch", func(c context.Context) {
		for {
			select {
			case <-c.Done():
				return
			case up, ok := <-a.updates:
				if !ok {
					return
				}
				if !a.loop.Submit(func(jc context.Context) { a.bot.HandleUpdate(jc, up) }) {
					a.log.Warn("update dropped, event loop full")
				}
			}
		}
	})

	if err := a.reminders.Start(); err != nil {
		return fmt.Errorf("start reminders: %w", err)
	}

	if menu, ok := a.adapter.(kit.CommandMenuUpdater); ok {
		if err := menu.UpdateMenuCommands(a.sup.Context(), []kit.BotCommand{
			{Command: "/start", Description: "Запустить бота"},
		}); err != nil {
			a.log.Warn("set command menu failed", logx.Err(err))
		}
	}

	// Hot reload: logging applies live, everything else needs a restart.
	sub := a.cfgm.Subscribe(4)
	a.sup.Go0("config.reload", func(c context.Context) {
		defer a.cfgm.Unsubscribe(sub)
		for {
			select {
			case <-c.Done():
				return
			case newCfg, ok := <-sub:
				if !ok {
					return
				}
				a.logs.Apply(mapLogConfig(newCfg))
				a.log.Info("logging config applied; other sections take effect on restart")
			}
		}
	})
	a.sup.Go("config.watch", a.cfgm.Watch)

	a.notifySystemd(daemon.SdNotifyReady)
	a.startWatchdog()

	a.log.Info("app started",
		logx.Int("schedule_entries", a.schedule.Len()),
		logx.Int("roster_size", a.roster.Len()))
	return nil
}

// Done is closed when a fatal error cancels the app context.
func (a *App) Done() <-chan struct{} {
	if a.sup == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return a.sup.Context().Done()
}

func (a *App) Err() error {
	if a.sup == nil {
		return nil
	}
	return a.sup.Err()
}

func (a *App) Stop(ctx context.Context) error {
	if a.sup == nil {
		return nil
	}
	a.notifySystemd(daemon.SdNotifyStopping)
	a.log.Info("stopping")
	a.sup.Cancel()

	step := func(name string, max time.Duration, fn func(context.Context) error) {
		stepCtx, cancel := context.WithTimeout(ctx, max)
		defer cancel()
		if err := fn(stepCtx); err != nil {
			a.log.Warn("stop step failed", logx.String("step", name), logx.Err(err))
		}
	}

	step("reminders", 2*time.Second, a.reminders.Stop)
	step("adapter", 3*time.Second, a.adapter.Stop)
	step("supervisor", 3*time.Second, a.sup.Wait)
	step("profiles", time.Second, func(context.Context) error { return a.users.Close() })

	a.log.Info("stopped")
	_ = a.logs.Close()
	return nil
}

func (a *App) notifySystemd(state string) {
	if ok, err := daemon.SdNotify(false, state); err != nil {
		a.log.Debug("sd_notify failed", logx.Err(err))
	} else if ok {
		a.log.Debug("sd_notify sent", logx.String("state", state))
	}
}

func (a *App) startWatchdog() {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil || interval <= 0 {
		return
	}
	tick := interval / 2
	a.sup.Go0("systemd.watchdog", func(c context.Context) {
		t := time.NewTicker(tick)
		defer t.Stop()
		for {
			select {
			case <-c.Done():
				return
			case <-t.C:
				_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
			}
		}
	})
}

func mapLogConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
		Telegram: logx.TelegramConfig{
			Enabled:    cfg.Logging.Telegram.Enabled,
			ChatID:     cfg.Logging.Telegram.ChatID,
			MinLevel:   cfg.Logging.Telegram.MinLevel,
			RatePerSec: cfg.Logging.Telegram.RatePerSec,
		},
	}
}

func protocolPath(cfg *config.Config) string {
	if cfg.Protocol.Path != "" {
		return cfg.Protocol.Path
	}
	return "./data/protocol.docx"
}

// seedShifts converts config entries to schedule shifts; a malformed date
// is skipped with a warning instead of refusing to start.
func seedShifts(seed []config.SeedShift, log logx.Logger) []duty.Shift {
	out := make([]duty.Shift, 0, len(seed))
	for _, s := range seed {
		d, err := duty.ParseDate(s.Date)
		if err != nil {
			log.Warn("skipping seed shift with bad date", logx.String("date", s.Date), logx.Err(err))
			continue
		}
		out = append(out, duty.Shift{
			Date:      d,
			Assignees: append([]string(nil), s.Assignees...),
			Phones:    append([]string(nil), s.Phones...),
			Paired:    s.Paired,
		})
	}
	return out
}
