package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cdJohnEl/PocketLens/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when an id does not match any record.
var ErrNotFound = errors.New("record not found")

// Preference document keys, one group per key.
const (
	PrefKeyCurrency      = "currency"
	PrefKeyDarkMode      = "dark-mode"
	PrefKeyNotifications = "notifications"
	PrefKeyProfile       = "profile"
)

// SQLiteRepository persists transactions, preferences and cached insights.
// Creation timestamps are assigned here, never accepted from callers, and
// are strictly increasing per process so retrieval order is stable.
type SQLiteRepository struct {
	db *sql.DB

	mu          sync.Mutex
	lastCreated time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// nextCreatedAt returns a server-assigned timestamp that is strictly after
// every timestamp this process has handed out before.
func (r *SQLiteRepository) nextCreatedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if !now.After(r.lastCreated) {
		now = r.lastCreated.Add(time.Microsecond)
	}
	r.lastCreated = now
	return now
}

// AddTransaction stores a new transaction, assigning its id and creation
// timestamp, and returns the stored record.
func (r *SQLiteRepository) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.ID = uuid.NewString()
	t.CreatedAt = r.nextCreatedAt()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, type, category, amount, method, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, string(t.Type), t.Category, t.Amount, t.Method, t.Date, t.CreatedAt)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"transaction_id", t.ID,
		"user_id", t.UserID,
		"type", t.Type,
		"amount", t.Amount)

	return t, nil
}

// ListTransactions returns the user's transactions ordered by creation
// time descending, most recent first. The result is never nil.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, type, category, amount, method, date, created_at
		 FROM transactions WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]core.Transaction, 0)
	for rows.Next() {
		var t core.Transaction
		var typ string
		if err := rows.Scan(&t.ID, &t.UserID, &typ, &t.Category, &t.Amount, &t.Method, &t.Date, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = core.TransactionType(typ)
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return transactions, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	var t core.Transaction
	var typ string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, type, category, amount, method, date, created_at
		 FROM transactions WHERE id = ?`, id).
		Scan(&t.ID, &t.UserID, &typ, &t.Category, &t.Amount, &t.Method, &t.Date, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	t.Type = core.TransactionType(typ)
	return t, nil
}

// UpdateTransaction merges the patch fields into the stored record. The
// owner and createdAt are never touched; last write wins.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, id string, patch core.TransactionPatch) error {
	if patch.Empty() {
		return nil
	}

	var sets []string
	var args []any
	if patch.Type != nil {
		sets = append(sets, "type = ?")
		args = append(args, string(*patch.Type))
	}
	if patch.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *patch.Category)
	}
	if patch.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *patch.Amount)
	}
	if patch.Method != nil {
		sets = append(sets, "method = ?")
		args = append(args, *patch.Method)
	}
	if patch.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, *patch.Date)
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx,
		"UPDATE transactions SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Preferences assembles the per-user settings document from its stored
// key groups, filling defaults for groups never written.
func (r *SQLiteRepository) Preferences(ctx context.Context, userID string) (core.Preferences, error) {
	prefs := core.DefaultPreferences()

	rows, err := r.db.QueryContext(ctx,
		`SELECT key, value FROM preferences WHERE user_id = ?`, userID)
	if err != nil {
		return prefs, fmt.Errorf("read preferences: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return prefs, fmt.Errorf("scan preference: %w", err)
		}
		switch key {
		case PrefKeyCurrency:
			var c string
			if json.Unmarshal([]byte(value), &c) == nil && c != "" {
				prefs.Currency = c
			}
		case PrefKeyDarkMode:
			_ = json.Unmarshal([]byte(value), &prefs.DarkMode)
		case PrefKeyNotifications:
			_ = json.Unmarshal([]byte(value), &prefs.Notifications)
		case PrefKeyProfile:
			_ = json.Unmarshal([]byte(value), &prefs.Profile)
		}
	}
	return prefs, rows.Err()
}

// SavePreferences writes every preference group under its own key.
func (r *SQLiteRepository) SavePreferences(ctx context.Context, userID string, prefs core.Preferences) error {
	groups := map[string]any{
		PrefKeyCurrency:      prefs.Currency,
		PrefKeyDarkMode:      prefs.DarkMode,
		PrefKeyNotifications: prefs.Notifications,
		PrefKeyProfile:       prefs.Profile,
	}
	for key, v := range groups {
		value, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal preference %s: %w", key, err)
		}
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO preferences (user_id, key, value, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT (user_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			userID, key, string(value), time.Now().UTC())
		if err != nil {
			return fmt.Errorf("save preference %s: %w", key, err)
		}
	}
	return nil
}

// Insight returns the cached insight text for a user, ErrNotFound when
// none has been generated yet.
func (r *SQLiteRepository) Insight(ctx context.Context, userID string) (core.Insight, error) {
	var ins core.Insight
	var generatedAt sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT content, dirty, generated_at FROM insights WHERE user_id = ?`, userID).
		Scan(&ins.Text, &ins.Dirty, &generatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Insight{}, ErrNotFound
	}
	if err != nil {
		return core.Insight{}, fmt.Errorf("get insight: %w", err)
	}
	if generatedAt.Valid {
		ins.GeneratedAt = generatedAt.Time
	}
	return ins, nil
}

// SaveInsight stores freshly generated insight text and clears the dirty
// flag.
func (r *SQLiteRepository) SaveInsight(ctx context.Context, userID, text string) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO insights (user_id, content, dirty, generated_at, updated_at) VALUES (?, ?, 0, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET content = excluded.content, dirty = 0,
		 generated_at = excluded.generated_at, updated_at = excluded.updated_at`,
		userID, text, now, now)
	if err != nil {
		return fmt.Errorf("save insight: %w", err)
	}
	return nil
}

// MarkInsightDirty records that the user's transaction list changed since
// the cached insight was generated.
func (r *SQLiteRepository) MarkInsightDirty(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO insights (user_id, dirty, updated_at) VALUES (?, 1, ?)
		 ON CONFLICT (user_id) DO UPDATE SET dirty = 1, updated_at = excluded.updated_at`,
		userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark insight dirty: %w", err)
	}
	return nil
}

// DirtyInsightUsers lists users whose cached insight is stale, oldest
// change first. Backup path for lost queue messages.
func (r *SQLiteRepository) DirtyInsightUsers(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM insights WHERE dirty = 1 ORDER BY updated_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list dirty insight users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan dirty insight user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
