package profile

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"dutybot/pkg/logx"
)

//go:embed migrations.sql
var migrationsFS embed.FS

const timeLayout = time.RFC3339

type Config struct {
	Path        string
	BusyTimeout time.Duration // 0 means default
}

type sqliteRepo struct {
	db  *sql.DB
	log logx.Logger
}

// Open opens (or creates) the profile database at cfg.Path and applies
// migrations.
func Open(cfg Config, log logx.Logger) (Repo, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("profile db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if cfg.BusyTimeout > 0 {
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds()))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	r := &sqliteRepo{db: db, log: log}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *sqliteRepo) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, string(b))
	return err
}

func (r *sqliteRepo) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *sqliteRepo) Upsert(ctx context.Context, u User) error {
	if u.RegisteredAt.IsZero() {
		u.RegisteredAt = time.Now()
	}
	if u.LastActive.IsZero() {
		u.LastActive = u.RegisteredAt
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users(chat_id, username, display_name, employee, notifications, is_admin, registered_at, last_active)
		 VALUES(?,?,?,?,?,?,?,?)
		 ON CONFLICT(chat_id) DO UPDATE SET
		   username=excluded.username,
		   display_name=excluded.display_name,
		   last_active=excluded.last_active`,
		u.ChatID, u.Username, u.DisplayName, u.Employee,
		boolInt(u.Notifications), boolInt(u.Admin),
		u.RegisteredAt.Format(timeLayout), u.LastActive.Format(timeLayout),
	)
	return err
}

func (r *sqliteRepo) Get(ctx context.Context, chatID int64) (User, bool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT chat_id, username, display_name, employee, notifications, is_admin, registered_at, last_active
		 FROM users WHERE chat_id = ?`, chatID)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, err
	}
	return u, true, nil
}

func (r *sqliteRepo) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT chat_id, username, display_name, employee, notifications, is_admin, registered_at, last_active
		 FROM users ORDER BY chat_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *sqliteRepo) SetEmployee(ctx context.Context, chatID int64, employee string) error {
	return r.update(ctx, chatID, `UPDATE users SET employee = ? WHERE chat_id = ?`, employee, chatID)
}

func (r *sqliteRepo) SetNotifications(ctx context.Context, chatID int64, enabled bool) error {
	return r.update(ctx, chatID, `UPDATE users SET notifications = ? WHERE chat_id = ?`, boolInt(enabled), chatID)
}

func (r *sqliteRepo) SetAdmin(ctx context.Context, chatID int64, admin bool) error {
	return r.update(ctx, chatID, `UPDATE users SET is_admin = ? WHERE chat_id = ?`, boolInt(admin), chatID)
}

func (r *sqliteRepo) TouchLastActive(ctx context.Context, chatID int64, at time.Time) error {
	return r.update(ctx, chatID, `UPDATE users SET last_active = ? WHERE chat_id = ?`, at.Format(timeLayout), chatID)
}

func (r *sqliteRepo) update(ctx context.Context, chatID int64, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %d not found", chatID)
	}
	return nil
}

func (r *sqliteRepo) Delete(ctx context.Context, chatID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE chat_id = ?`, chatID)
	return err
}

func (r *sqliteRepo) DeleteMany(ctx context.Context, chatIDs []int64) (int, error) {
	if len(chatIDs) == 0 {
		return 0, nil
	}
	ph := strings.Repeat("?,", len(chatIDs))
	ph = ph[:len(ph)-1]
	args := make([]any, len(chatIDs))
	for i, id := range chatIDs {
		args[i] = id
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE chat_id IN (`+ph+`)`, args...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		r.log.Info("pruned users", logx.Int64("count", n))
	}
	return int(n), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var (
		u                        User
		notif, admin             int
		registeredAt, lastActive string
	)
	err := row.Scan(&u.ChatID, &u.Username, &u.DisplayName, &u.Employee, &notif, &admin, &registeredAt, &lastActive)
	if err != nil {
		return User{}, err
	}
	u.Notifications = notif != 0
	u.Admin = admin != 0
	if u.RegisteredAt, err = time.Parse(timeLayout, registeredAt); err != nil {
		return User{}, fmt.Errorf("bad registered_at for %d: %w", u.ChatID, err)
	}
	if u.LastActive, err = time.Parse(timeLayout, lastActive); err != nil {
		return User{}, fmt.Errorf("bad last_active for %d: %w", u.ChatID, err)
	}
	return u, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
