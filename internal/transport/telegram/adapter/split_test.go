package adapter

import (
	"errors"
	"strings"
	"testing"

	tele "gopkg.in/telebot.v4"

	kit "dutybot/internal/transport"
)

func TestSplitTelegramTextShort(t *testing.T) {
	t.Parallel()
	got := splitTelegramText("привет", 100, "")
	if len(got) != 1 || got[0] != "привет" {
		t.Fatalf("unexpected result: %#v", got)
	}
}

func TestSplitTelegramTextPrefersNewline(t *testing.T) {
	t.Parallel()
	text := strings.Repeat("a", 60) + "\n" + strings.Repeat("b", 60)
	got := splitTelegramText(text, 100, "")
	if len(got) != 2 {
		t.Fatalf("chunks = %d, want 2: %#v", len(got), got)
	}
	if !strings.HasSuffix(got[0], "a") || !strings.HasPrefix(got[1], "b") {
		t.Fatalf("split not on newline: %#v", got)
	}
}

func TestSplitTelegramTextAvoidsTagBreak(t *testing.T) {
	t.Parallel()
	text := strings.Repeat("x", 95) + "<b>жирный</b>"
	got := splitTelegramText(text, 100, "HTML")
	for _, chunk := range got {
		if strings.Count(chunk, "<") != strings.Count(chunk, ">") {
			t.Fatalf("chunk has dangling tag: %q", chunk)
		}
	}
}

func TestSplitTelegramTextCountsRunes(t *testing.T) {
	t.Parallel()
	text := strings.Repeat("ж", 150)
	got := splitTelegramText(text, 100, "")
	if len(got) != 2 {
		t.Fatalf("chunks = %d, want 2", len(got))
	}
	for _, chunk := range got {
		if n := len([]rune(chunk)); n > 100 {
			t.Fatalf("chunk too long: %d runes", n)
		}
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		kind kit.ErrorKind
	}{
		{name: "blocked", err: tele.ErrBlockedByUser, kind: kit.KindRecipientGone},
		{name: "deactivated", err: tele.ErrUserIsDeactivated, kind: kit.KindRecipientGone},
		{name: "chat not found", err: tele.ErrChatNotFound, kind: kit.KindRecipientGone},
		{name: "generic", err: errors.New("boom"), kind: kit.KindOther},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			if kit.KindOf(got) != tt.kind {
				t.Fatalf("KindOf = %v, want %v", kit.KindOf(got), tt.kind)
			}
			if !errors.Is(got, tt.err) {
				t.Fatal("classified error does not unwrap to the original")
			}
		})
	}

	if classify(nil) != nil {
		t.Fatal("classify(nil) != nil")
	}
}
