package notify

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"dutybot/internal/duty"
	"dutybot/internal/profile"
	kit "dutybot/internal/transport"
	"dutybot/pkg/logx"
)

type sentMsg struct {
	ChatID int64
	Text   string
}

// fakeSender records deliveries and fails chats listed in failWith.
type fakeSender struct {
	sent     []sentMsg
	failWith map[int64]error
}

func (f *fakeSender) SendText(_ context.Context, to kit.ChatTarget, text string, _ *kit.SendOptions) (kit.MessageRef, error) {
	if err, ok := f.failWith[to.ChatID]; ok {
		return kit.MessageRef{}, err
	}
	f.sent = append(f.sent, sentMsg{ChatID: to.ChatID, Text: text})
	return kit.MessageRef{ChatID: to.ChatID, MessageID: len(f.sent)}, nil
}

func (f *fakeSender) Start(context.Context, chan<- kit.Update) error { return nil }
func (f *fakeSender) Stop(context.Context) error                     { return nil }
func (f *fakeSender) EditText(context.Context, kit.MessageRef, string, *kit.SendOptions) error {
	return nil
}
func (f *fakeSender) AnswerCallback(context.Context, string, string) error { return nil }
func (f *fakeSender) SendDocument(context.Context, kit.ChatTarget, kit.Document, *kit.SendOptions) (kit.MessageRef, error) {
	return kit.MessageRef{}, nil
}
func (f *fakeSender) DownloadDocument(context.Context, string, string) error { return nil }
func (f *fakeSender) Pin(context.Context, kit.MessageRef) error              { return nil }

// fakeRepo is an in-memory profile.Repo.
type fakeRepo struct {
	users map[int64]profile.User
}

func newFakeRepo(users ...profile.User) *fakeRepo {
	r := &fakeRepo{users: make(map[int64]profile.User)}
	for _, u := range users {
		r.users[u.ChatID] = u
	}
	return r
}

func (r *fakeRepo) Upsert(_ context.Context, u profile.User) error {
	r.users[u.ChatID] = u
	return nil
}

func (r *fakeRepo) Get(_ context.Context, chatID int64) (profile.User, bool, error) {
	u, ok := r.users[chatID]
	return u, ok, nil
}

func (r *fakeRepo) List(context.Context) ([]profile.User, error) {
	out := make([]profile.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b profile.User) int { return int(a.ChatID - b.ChatID) })
	return out, nil
}

func (r *fakeRepo) SetEmployee(_ context.Context, chatID int64, employee string) error {
	u := r.users[chatID]
	u.Employee = employee
	r.users[chatID] = u
	return nil
}

func (r *fakeRepo) SetNotifications(_ context.Context, chatID int64, enabled bool) error {
	u := r.users[chatID]
	u.Notifications = enabled
	r.users[chatID] = u
	return nil
}

func (r *fakeRepo) SetAdmin(_ context.Context, chatID int64, admin bool) error {
	u := r.users[chatID]
	u.Admin = admin
	r.users[chatID] = u
	return nil
}

func (r *fakeRepo) TouchLastActive(_ context.Context, chatID int64, at time.Time) error {
	u := r.users[chatID]
	u.LastActive = at
	r.users[chatID] = u
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, chatID int64) error {
	delete(r.users, chatID)
	return nil
}

func (r *fakeRepo) DeleteMany(_ context.Context, chatIDs []int64) (int, error) {
	n := 0
	for _, id := range chatIDs {
		if _, ok := r.users[id]; ok {
			delete(r.users, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) Close() error { return nil }

var (
	// Wednesday and Friday of the same week; Saturday 07.02.2026 has a shift.
	wednesday = time.Date(2026, time.February, 4, 16, 0, 0, 0, time.UTC)
	friday    = time.Date(2026, time.February, 6, 18, 0, 0, 0, time.UTC)
)

func newTestService(t *testing.T, sender *fakeSender, repo profile.Repo, shifts []duty.Shift) *Service {
	t.Helper()
	sched := duty.NewSchedule(logx.Nop())
	sched.Load(shifts, wednesday)
	roster := duty.NewRoster(map[string]string{
		"Петров П.П.":  "+7-900-000-00-02",
		"Сидоров С.С.": "+7-900-000-00-03",
	}, logx.Nop())
	return New(Config{RatePerSec: 10000}, sender, repo, sched, roster, nil, logx.Nop())
}

func saturdayShift() []duty.Shift {
	return []duty.Shift{{
		Date:      time.Date(2026, time.February, 7, 0, 0, 0, 0, time.UTC),
		Assignees: []string{"Петров П.П.", "Сидоров С.С."},
		Phones:    []string{"+7-900-000-00-02", "+7-900-000-00-03"},
		Paired:    true,
	}}
}

func TestBroadcastSendsToSubscribersOnly(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{}
	repo := newFakeRepo(
		profile.User{ChatID: 1, Notifications: true},
		profile.User{ChatID: 2, Notifications: false},
		profile.User{ChatID: 3, Notifications: true},
	)
	svc := newTestService(t, sender, repo, saturdayShift())

	stats, err := svc.RunBroadcast(context.Background(), wednesday)
	if err != nil {
		t.Fatalf("RunBroadcast: %v", err)
	}
	if stats.Sent != 2 || stats.Failed != 0 || stats.Pruned != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	for _, m := range sender.sent {
		if m.ChatID == 2 {
			t.Fatal("unsubscribed user received broadcast")
		}
		if !strings.Contains(m.Text, "07.02.2026") || !strings.Contains(m.Text, "Петров П.П. + Сидоров С.С.") {
			t.Fatalf("unexpected message:\n%s", m.Text)
		}
	}
}

func TestBroadcastNoDutyVariant(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{}
	repo := newFakeRepo(profile.User{ChatID: 1, Notifications: true})
	svc := newTestService(t, sender, repo, nil)

	if _, err := svc.RunBroadcast(context.Background(), wednesday); err != nil {
		t.Fatalf("RunBroadcast: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].Text, "дежурных нет") {
		t.Fatalf("expected no-duty variant:\n%s", sender.sent[0].Text)
	}
}

func TestBroadcastWeekdayGuard(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{}
	repo := newFakeRepo(profile.User{ChatID: 1, Notifications: true})
	svc := newTestService(t, sender, repo, saturdayShift())

	_, err := svc.RunBroadcast(context.Background(), friday)
	if !errors.Is(err, ErrWrongWeekday) {
		t.Fatalf("error = %v, want ErrWrongWeekday", err)
	}
	if len(sender.sent) != 0 {
		t.Fatal("guard did not stop the broadcast")
	}
}

func TestBroadcastPrunesGoneRecipients(t *testing.T) {
	t.Parallel()
	gone := &kit.SendError{Kind: kit.KindRecipientGone, Err: errors.New("blocked")}
	flaky := &kit.SendError{Kind: kit.KindOther, Err: errors.New("timeout")}
	sender := &fakeSender{failWith: map[int64]error{2: gone, 3: flaky}}
	repo := newFakeRepo(
		profile.User{ChatID: 1, Notifications: true},
		profile.User{ChatID: 2, Notifications: true},
		profile.User{ChatID: 3, Notifications: true},
	)
	svc := newTestService(t, sender, repo, saturdayShift())

	stats, err := svc.RunBroadcast(context.Background(), wednesday)
	if err != nil {
		t.Fatalf("RunBroadcast: %v", err)
	}
	if stats.Sent != 1 || stats.Failed != 2 || stats.Pruned != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if _, ok := repo.users[2]; ok {
		t.Fatal("gone recipient not pruned")
	}
	if _, ok := repo.users[3]; !ok {
		t.Fatal("transient failure pruned the user")
	}
}

func TestTargetedIndividualMessages(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{}
	repo := newFakeRepo(
		profile.User{ChatID: 10, Notifications: true, Employee: "Петров П.П."},
		profile.User{ChatID: 20, Notifications: true, Employee: "Сидоров С.С."},
		profile.User{ChatID: 30, Notifications: true}, // not an assignee
	)
	svc := newTestService(t, sender, repo, saturdayShift())

	stats, err := svc.RunTargeted(context.Background(), friday)
	if err != nil {
		t.Fatalf("RunTargeted: %v", err)
	}
	if stats.Sent != 2 || len(stats.Unmatched) != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("sent = %d, want 2", len(sender.sent))
	}
	for _, m := range sender.sent {
		if !strings.Contains(m.Text, "ВАШЕ ДЕЖУРСТВО") || !strings.Contains(m.Text, "07.02.2026") {
			t.Fatalf("unexpected message:\n%s", m.Text)
		}
	}
	// Each assignee sees their own phone and the partner under co-assignees.
	first := sender.sent[0].Text
	if !strings.Contains(first, "Другие дежурные") {
		t.Fatalf("co-assignee section missing:\n%s", first)
	}
}

func TestTargetedSilentWhenNoShift(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{}
	repo := newFakeRepo(profile.User{ChatID: 10, Notifications: true, Employee: "Петров П.П."})
	svc := newTestService(t, sender, repo, nil)

	stats, err := svc.RunTargeted(context.Background(), friday)
	if err != nil {
		t.Fatalf("RunTargeted: %v", err)
	}
	if stats.Sent != 0 || len(sender.sent) != 0 {
		t.Fatal("reminder sent with no shift tomorrow")
	}
}

func TestTargetedUnmatchedAssignee(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{}
	repo := newFakeRepo(profile.User{ChatID: 10, Notifications: true, Employee: "Петров П.П."})
	svc := newTestService(t, sender, repo, saturdayShift())

	stats, err := svc.RunTargeted(context.Background(), friday)
	if err != nil {
		t.Fatalf("RunTargeted: %v", err)
	}
	if stats.Sent != 1 {
		t.Fatalf("Sent = %d, want 1", stats.Sent)
	}
	if len(stats.Unmatched) != 1 || stats.Unmatched[0] != "Сидоров С.С." {
		t.Fatalf("Unmatched = %v", stats.Unmatched)
	}
}

func TestTargetedDoesNotPrune(t *testing.T) {
	t.Parallel()
	gone := &kit.SendError{Kind: kit.KindRecipientGone, Err: errors.New("blocked")}
	sender := &fakeSender{failWith: map[int64]error{10: gone}}
	repo := newFakeRepo(profile.User{ChatID: 10, Notifications: true, Employee: "Петров П.П."})
	svc := newTestService(t, sender, repo, saturdayShift())

	if _, err := svc.RunTargeted(context.Background(), friday); err != nil {
		t.Fatalf("RunTargeted: %v", err)
	}
	if _, ok := repo.users[10]; !ok {
		t.Fatal("targeted reminder pruned a user")
	}
}

func TestTargetedTextPhoneFallback(t *testing.T) {
	t.Parallel()
	sh := saturdayShift()[0]
	lookup := func(name string) (string, bool) {
		if name == "Петров П.П." {
			return "+7-900-000-00-02", true
		}
		return "", false
	}
	text := TargetedText("Петров П.П.", sh.Date, sh, lookup)
	if !strings.Contains(text, "+7-900-000-00-02") {
		t.Fatalf("own phone missing:\n%s", text)
	}
	if !strings.Contains(text, "Сидоров С.С.: не указан") {
		t.Fatalf("fallback for unknown co-assignee missing:\n%s", text)
	}
}
