package transport

import (
	"context"
	"errors"
)

type UpdateKind string

const (
	UpdateMessage  UpdateKind = "message"
	UpdateCallback UpdateKind = "callback"
)

type Update struct {
	Kind     UpdateKind
	Message  *Message
	Callback *Callback
}

type Message struct {
	ID           int
	ChatID       int64
	FromID       int64
	FromUsername string
	FromName     string
	Text         string

	// Document fields are set when the message carries a file attachment.
	DocFileID string
	DocName   string
	DocSize   int64
	Caption   string
}

type Callback struct {
	ID        string
	FromID    int64
	ChatID    int64
	MessageID int
	Data      string
}

type ChatTarget struct {
	ChatID int64
}

type MessageRef struct {
	ChatID    int64
	MessageID int
}

type SendOptions struct {
	ParseMode      string
	DisablePreview bool
	ReplyMarkup    any // adapter-specific markup (Telegram: *telebot.ReplyMarkup)
}

// Document describes a file to send. Either FileID (re-send a file the
// platform already has) or Path (upload from disk) must be set.
type Document struct {
	FileID  string
	Path    string
	Name    string
	Caption string
}

// ErrorKind classifies delivery failures. The adapter decides the kind from
// platform error codes; callers must never match on error text.
type ErrorKind int

const (
	KindOther ErrorKind = iota
	// KindRecipientGone covers blocked/kicked/deactivated/not-found: the
	// recipient is permanently unreachable and may be pruned.
	KindRecipientGone
	KindRateLimited
)

// SendError wraps a transport failure with its classification.
type SendError struct {
	Kind ErrorKind
	Err  error
}

func (e *SendError) Error() string { return e.Err.Error() }
func (e *SendError) Unwrap() error { return e.Err }

// KindOf extracts the ErrorKind from err, defaulting to KindOther.
func KindOf(err error) ErrorKind {
	var se *SendError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindOther
}

// Adapter is the chat platform boundary. The core talks to it and never to
// the platform SDK directly.
type Adapter interface {
	Start(ctx context.Context, out chan<- Update) error
	Stop(ctx context.Context) error

	SendText(ctx context.Context, to ChatTarget, text string, opt *SendOptions) (MessageRef, error)
	EditText(ctx context.Context, ref MessageRef, text string, opt *SendOptions) error
	AnswerCallback(ctx context.Context, callbackID string, text string) error

	SendDocument(ctx context.Context, to ChatTarget, doc Document, opt *SendOptions) (MessageRef, error)
	DownloadDocument(ctx context.Context, fileID, dst string) error
	Pin(ctx context.Context, ref MessageRef) error
}

// BotCommand represents a single bot command menu entry.
type BotCommand struct {
	Command     string
	Description string
}

// CommandMenuUpdater is an optional interface adapters can implement to
// update platform-specific command menus (e.g. Telegram's / list).
type CommandMenuUpdater interface {
	UpdateMenuCommands(ctx context.Context, cmds []BotCommand) error
}
