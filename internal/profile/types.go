package profile

import (
	"context"
	"time"
)

// User is a registered chat user. Employee is the roster name the chat is
// bound to; empty means the user never picked one. Notifications gates the
// weekly broadcast.
type User struct {
	ChatID        int64
	Username      string
	DisplayName   string
	Employee      string
	Notifications bool
	Admin         bool
	RegisteredAt  time.Time
	LastActive    time.Time
}

// Repo persists user profiles. Implementations are safe for concurrent use.
type Repo interface {
	Upsert(ctx context.Context, u User) error
	Get(ctx context.Context, chatID int64) (User, bool, error)
	List(ctx context.Context) ([]User, error)

	SetEmployee(ctx context.Context, chatID int64, employee string) error
	SetNotifications(ctx context.Context, chatID int64, enabled bool) error
	SetAdmin(ctx context.Context, chatID int64, admin bool) error
	TouchLastActive(ctx context.Context, chatID int64, at time.Time) error

	Delete(ctx context.Context, chatID int64) error
	// DeleteMany removes dead recipients in one statement and reports how
	// many rows went away.
	DeleteMany(ctx context.Context, chatIDs []int64) (int, error)

	Close() error
}
