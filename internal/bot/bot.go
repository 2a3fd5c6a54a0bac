package bot

import (
	"context"
	"strings"
	"time"

	"dutybot/internal/duty"
	"dutybot/internal/notify"
	"dutybot/internal/profile"
	kit "dutybot/internal/transport"
	"dutybot/pkg/logx"
)

type pendingState int

const (
	pendingNone pendingState = iota
	pendingAddShift
	pendingRemoveShift
	pendingAddEmployee
	pendingRemoveEmployee
	pendingEditPhone
)

type Config struct {
	AdminLogin    string
	AdminPassword string
	ProtocolPath  string
	Location      *time.Location
	// Handles maps "@username" (lower case) to the roster name used for
	// auto-binding on first /start.
	Handles map[string]string
}

// Bot routes chat updates to handlers. It must only be called from the
// application event loop: all schedule, roster and session state is
// mutated without locks.
type Bot struct {
	cfg       Config
	log       logx.Logger
	sender    kit.Adapter
	users     profile.Repo
	schedule  *duty.Schedule
	roster    *duty.Roster
	reminders *notify.Service
	protocol  *ProtocolStore

	handles  map[string]string
	sessions map[int64]time.Time
	pending  map[int64]pendingState

	now func() time.Time
}

func New(cfg Config, sender kit.Adapter, users profile.Repo, schedule *duty.Schedule, roster *duty.Roster, reminders *notify.Service, log logx.Logger) *Bot {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	handles := make(map[string]string, len(cfg.Handles))
	for h, name := range cfg.Handles {
		handles[NormalizeHandle(h)] = name
	}
	loc := cfg.Location
	return &Bot{
		cfg:       cfg,
		log:       log,
		sender:    sender,
		users:     users,
		schedule:  schedule,
		roster:    roster,
		reminders: reminders,
		protocol:  NewProtocolStore(cfg.ProtocolPath),
		handles:   handles,
		sessions:  make(map[int64]time.Time),
		pending:   make(map[int64]pendingState),
		now:       func() time.Time { return time.Now().In(loc) },
	}
}

// HandleUpdate processes one incoming update. Errors are handled inside:
// a chat failure is logged, never propagated.
func (b *Bot) HandleUpdate(ctx context.Context, up kit.Update) {
	switch up.Kind {
	case kit.UpdateMessage:
		if up.Message == nil {
			return
		}
		b.handleMessage(ctx, up.Message)
	case kit.UpdateCallback:
		if up.Callback == nil {
			return
		}
		b.handleCallback(ctx, up.Callback)
	}
}

func (b *Bot) handleMessage(ctx context.Context, m *kit.Message) {
	b.touch(ctx, m.ChatID)
	if m.DocFileID != "" {
		b.handleDocument(ctx, m)
		return
	}
	text := strings.TrimSpace(m.Text)
	if strings.HasPrefix(text, "/") {
		b.handleCommand(ctx, m, text)
		return
	}
	b.handleText(ctx, m, text)
}

func (b *Bot) handleCommand(ctx context.Context, m *kit.Message, text string) {
	fields := strings.Fields(text)
	cmd := strings.ToLower(fields[0])
	// Strip the @botname suffix Telegram appends in groups.
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}
	args := fields[1:]

	switch cmd {
	case "/start":
		b.cmdStart(ctx, m)
	case "/admin":
		b.cmdAdminLogin(ctx, m, args)
	case "/test_wednesday", "/send_now":
		b.cmdTestBroadcast(ctx, m)
	case "/test_friday":
		b.cmdTestTargeted(ctx, m)
	case "/test_user":
		b.cmdTestUser(ctx, m, args)
	default:
		b.log.Debug("unknown command", logx.String("cmd", cmd), logx.Int64("chat_id", m.ChatID))
	}
}

// handleText feeds free-form text into whatever admin mutation is pending;
// everyone else gets the info hint.
func (b *Bot) handleText(ctx context.Context, m *kit.Message, text string) {
	if !b.isAdmin(ctx, m.ChatID) {
		b.send(ctx, m.ChatID, infoText, nil)
		return
	}
	state := b.pending[m.ChatID]
	delete(b.pending, m.ChatID)

	switch state {
	case pendingAddShift:
		b.adminAddShift(ctx, m.ChatID, text)
	case pendingRemoveShift:
		b.adminRemoveShift(ctx, m.ChatID, text)
	case pendingAddEmployee:
		b.adminAddEmployee(ctx, m.ChatID, text)
	case pendingRemoveEmployee:
		b.adminRemoveEmployee(ctx, m.ChatID, text)
	case pendingEditPhone:
		b.adminEditPhone(ctx, m.ChatID, text)
	default:
		b.send(ctx, m.ChatID, adminInfoText, adminMenu())
	}
}

func (b *Bot) touch(ctx context.Context, chatID int64) {
	if err := b.users.TouchLastActive(ctx, chatID, b.now()); err != nil {
		b.log.Debug("touch failed", logx.Int64("chat_id", chatID), logx.Err(err))
	}
}

// employeeByHandle resolves a Telegram username to a roster name.
func (b *Bot) employeeByHandle(username string) (string, bool) {
	if username == "" {
		return "", false
	}
	name, ok := b.handles[NormalizeHandle(username)]
	return name, ok
}

// isAdmin requires both the persisted admin flag and a live session.
func (b *Bot) isAdmin(ctx context.Context, chatID int64) bool {
	if _, ok := b.sessions[chatID]; !ok {
		return false
	}
	u, ok, err := b.users.Get(ctx, chatID)
	if err != nil {
		b.log.Error("admin lookup failed", logx.Int64("chat_id", chatID), logx.Err(err))
		return false
	}
	return ok && u.Admin
}

func (b *Bot) send(ctx context.Context, chatID int64, text string, kb any) {
	opt := &kit.SendOptions{ParseMode: "HTML", DisablePreview: true, ReplyMarkup: kb}
	if _, err := b.sender.SendText(ctx, kit.ChatTarget{ChatID: chatID}, text, opt); err != nil {
		b.log.Warn("send failed", logx.Int64("chat_id", chatID), logx.Err(err))
	}
}

// edit rewrites the message a callback button lives under; panels navigate
// in place instead of stacking new messages.
func (b *Bot) edit(ctx context.Context, cb *kit.Callback, text string, kb any) {
	ref := kit.MessageRef{ChatID: cb.ChatID, MessageID: cb.MessageID}
	opt := &kit.SendOptions{ParseMode: "HTML", DisablePreview: true, ReplyMarkup: kb}
	if err := b.sender.EditText(ctx, ref, text, opt); err != nil {
		b.log.Warn("edit failed", logx.Int64("chat_id", cb.ChatID), logx.Err(err))
	}
}
