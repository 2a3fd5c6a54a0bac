package notify

import (
	"context"
	"fmt"
	"time"

	"dutybot/internal/duty"
	kit "dutybot/internal/transport"
	"dutybot/pkg/logx"
)

type BroadcastStats struct {
	Sent   int
	Failed int
	Pruned int
}

// RunBroadcast sends the Wednesday announcement about the coming Saturday
// to every subscribed user. Recipients the platform reports as permanently
// gone are pruned from the profile store in one batch at the end; other
// delivery failures are counted and skipped. The job itself never fails
// because of a single recipient.
func (s *Service) RunBroadcast(ctx context.Context, now time.Time) (BroadcastStats, error) {
	var stats BroadcastStats

	if now.Weekday() != time.Wednesday {
		s.log.Warn("broadcast fired on the wrong weekday", logx.String("weekday", now.Weekday().String()))
		return stats, fmt.Errorf("%w: %s", ErrWrongWeekday, now.Weekday())
	}

	saturday := duty.DayOf(now).AddDate(0, 0, 3)

	var message string
	if sh, ok := s.schedule.OnDate(saturday); ok {
		message = BroadcastDutyText(sh, saturday)
	} else {
		s.log.Info("no shift this saturday", logx.String("date", duty.FormatDate(saturday)))
		message = BroadcastNoDutyText(saturday)
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return stats, fmt.Errorf("list users: %w", err)
	}

	var gone []int64
	for _, u := range users {
		if !u.Notifications {
			continue
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return stats, err
		}
		_, err := s.sender.SendText(ctx, kit.ChatTarget{ChatID: u.ChatID}, message, htmlOpts())
		if err == nil {
			stats.Sent++
			continue
		}
		stats.Failed++
		if kit.KindOf(err) == kit.KindRecipientGone {
			s.log.Warn("recipient gone, will prune", logx.Int64("chat_id", u.ChatID), logx.Err(err))
			gone = append(gone, u.ChatID)
		} else {
			s.log.Error("broadcast delivery failed", logx.Int64("chat_id", u.ChatID), logx.Err(err))
		}
	}

	if len(gone) > 0 {
		n, err := s.users.DeleteMany(ctx, gone)
		if err != nil {
			s.log.Error("prune failed", logx.Err(err))
		}
		stats.Pruned = n
	}

	s.log.Info("broadcast finished",
		logx.Int("sent", stats.Sent),
		logx.Int("failed", stats.Failed),
		logx.Int("pruned", stats.Pruned))
	return stats, nil
}
