package adapter

import (
	"errors"
	"net/http"

	tele "gopkg.in/telebot.v4"

	kit "dutybot/internal/transport"
)

// classify maps telebot errors onto transport error kinds so callers can
// branch on structure instead of error text. Kicked/blocked/deactivated
// recipients and missing chats all come back as KindRecipientGone.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var flood tele.FloodError
	if errors.As(err, &flood) {
		return &kit.SendError{Kind: kit.KindRateLimited, Err: err}
	}

	if errors.Is(err, tele.ErrBlockedByUser) ||
		errors.Is(err, tele.ErrUserIsDeactivated) ||
		errors.Is(err, tele.ErrChatNotFound) {
		return &kit.SendError{Kind: kit.KindRecipientGone, Err: err}
	}

	var te *tele.Error
	if errors.As(err, &te) {
		switch te.Code {
		case http.StatusForbidden:
			return &kit.SendError{Kind: kit.KindRecipientGone, Err: err}
		case http.StatusTooManyRequests:
			return &kit.SendError{Kind: kit.KindRateLimited, Err: err}
		}
	}

	return &kit.SendError{Kind: kit.KindOther, Err: err}
}
