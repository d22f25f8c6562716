package grocery

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"grocerylens/internal/config"
)

// Store manages list persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open initializes or connects to the list database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.DatabasePath())
}

// OpenPath opens the database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection keeps write transactions serialized.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, now: time.Now}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Create inserts a new open item. The ID and timestamps are assigned here;
// a zero quantity defaults to 1.
func (s *Store) Create(ctx context.Context, item Item) (*Item, error) {
	name, err := validateName(item.Name)
	if err != nil {
		return nil, err
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	if err := validateQuantity(item.Quantity); err != nil {
		return nil, err
	}
	if item.Source == "" {
		item.Source = SourceManual
	}

	now := s.now().UTC()
	item.ID = uuid.NewString()
	item.Name = name
	item.Completed = false
	item.CreatedAt = now
	item.UpdatedAt = now

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO items (`+itemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.Name,
		item.Quantity,
		nullableString(item.Unit),
		nullableString(item.Category),
		nullableString(item.Notes),
		0,
		string(item.Source),
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return &item, nil
}

// Get fetches an item by identifier. A missing item returns nil, nil.
func (s *Store) Get(ctx context.Context, id string) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// List returns items oldest first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items`
	var (
		where []string
		args  []any
	)
	switch filter.Status {
	case StatusOpen:
		where = append(where, "completed = 0")
	case StatusCompleted:
		where = append(where, "completed = 1")
	case StatusAll, "":
	default:
		return nil, fmt.Errorf("list items: unknown status %q", filter.Status)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		where = append(where, "LOWER(category) = LOWER(?)")
		args = append(args, category)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// Update applies a partial update and returns the stored item.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (*Item, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, notFound("update", id)
	}
	if patch.Name != nil {
		name, err := validateName(*patch.Name)
		if err != nil {
			return nil, err
		}
		item.Name = name
	}
	if patch.Quantity != nil {
		if err := validateQuantity(*patch.Quantity); err != nil {
			return nil, err
		}
		item.Quantity = *patch.Quantity
	}
	if patch.Unit != nil {
		item.Unit = strings.TrimSpace(*patch.Unit)
	}
	if patch.Category != nil {
		item.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Notes != nil {
		item.Notes = strings.TrimSpace(*patch.Notes)
	}
	item.UpdatedAt = s.now().UTC()

	_, err = s.db.ExecContext(ctx,
		`UPDATE items SET name = ?, quantity = ?, unit = ?, category = ?, notes = ?, updated_at = ? WHERE id = ?`,
		item.Name,
		item.Quantity,
		nullableString(item.Unit),
		nullableString(item.Category),
		nullableString(item.Notes),
		formatTime(item.UpdatedAt),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return item, nil
}

// Delete removes an item from the list.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete item rows affected: %w", err)
	}
	if affected == 0 {
		return notFound("delete", id)
	}
	return nil
}

// SetCompleted marks an item done or not done.
func (s *Store) SetCompleted(ctx context.Context, id string, completed bool) (*Item, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE items SET completed = ?, updated_at = ? WHERE id = ?`,
		boolToInt(completed),
		formatTime(s.now().UTC()),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("set completed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("set completed rows affected: %w", err)
	}
	if affected == 0 {
		return nil, notFound("complete", id)
	}
	return s.Get(ctx, id)
}

// Progress counts completed and total items on the list.
func (s *Store) Progress(ctx context.Context) (Progress, error) {
	var p Progress
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1), COALESCE(SUM(completed), 0) FROM items`,
	).Scan(&p.Total, &p.Completed)
	if err != nil {
		return Progress{}, fmt.Errorf("progress: %w", err)
	}
	return p, nil
}
