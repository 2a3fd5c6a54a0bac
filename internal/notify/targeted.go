package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dutybot/internal/duty"
	kit "dutybot/internal/transport"
	"dutybot/pkg/logx"
)

type TargetedStats struct {
	Sent      int
	Unmatched []string
}

// RunTargeted sends the Friday evening reminder to tomorrow's assignees
// only. Each assignee gets an individualized message with their own phone
// and the co-assignees' contacts. An assignee with no bound chat is logged
// and skipped. Delivery failures here do not prune anyone: the weekly
// broadcast is the janitor for dead recipients.
func (s *Service) RunTargeted(ctx context.Context, now time.Time) (TargetedStats, error) {
	var stats TargetedStats

	if now.Weekday() != time.Friday {
		s.log.Warn("targeted reminder fired on the wrong weekday", logx.String("weekday", now.Weekday().String()))
		return stats, fmt.Errorf("%w: %s", ErrWrongWeekday, now.Weekday())
	}

	tomorrow := duty.DayOf(now).AddDate(0, 0, 1)
	sh, ok := s.schedule.OnDate(tomorrow)
	if !ok {
		s.log.Info("no shift tomorrow, skipping reminder", logx.String("date", duty.FormatDate(tomorrow)))
		return stats, nil
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return stats, fmt.Errorf("list users: %w", err)
	}
	byEmployee := make(map[string][]int64)
	for _, u := range users {
		if u.Notifications && u.Employee != "" {
			byEmployee[u.Employee] = append(byEmployee[u.Employee], u.ChatID)
		}
	}

	for _, name := range sh.Assignees {
		chatIDs := byEmployee[name]
		if len(chatIDs) == 0 {
			s.log.Warn("no chat bound to assignee", logx.String("employee", name))
			stats.Unmatched = append(stats.Unmatched, name)
			continue
		}
		message := TargetedText(name, tomorrow, sh, s.phoneLookup())
		for _, chatID := range chatIDs {
			if err := s.limiter.Wait(ctx); err != nil {
				return stats, err
			}
			if _, err := s.sender.SendText(ctx, kit.ChatTarget{ChatID: chatID}, message, htmlOpts()); err != nil {
				s.log.Error("targeted delivery failed",
					logx.String("employee", name),
					logx.Int64("chat_id", chatID),
					logx.Err(err))
				continue
			}
			stats.Sent++
		}
	}

	s.log.Info("targeted reminder finished",
		logx.Int("sent", stats.Sent),
		logx.String("unmatched", strings.Join(stats.Unmatched, ", ")))
	return stats, nil
}
