package grocery

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// MoveToHistory copies the given items into history and removes them from
// the list in one transaction. With no ids every item on the list is moved.
// Repeated ids are moved once. Unknown ids are reported as not found and
// nothing is moved.
func (s *Store) MoveToHistory(ctx context.Context, ids ...string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin history tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if len(ids) == 0 {
		rows, err := tx.QueryContext(ctx, `SELECT id FROM items ORDER BY created_at, id`)
		if err != nil {
			return 0, fmt.Errorf("select items: %w", err)
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return 0, fmt.Errorf("scan item id: %w", err)
			}
			ids = append(ids, id)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return 0, fmt.Errorf("iterate item ids: %w", err)
		}
		rows.Close()
	}

	movedAt := formatTime(s.now().UTC())
	moved := 0
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO history (id, item_id, name, quantity, unit, category, notes, completed, source, created_at, updated_at, moved_at)
             SELECT ?, id, name, quantity, unit, category, notes, completed, source, created_at, updated_at, ?
             FROM items WHERE id = ?`,
			uuid.NewString(), movedAt, id,
		)
		if err != nil {
			return 0, fmt.Errorf("insert history: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("history rows affected: %w", err)
		}
		if affected == 0 {
			return 0, notFound("archive", id)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
			return 0, fmt.Errorf("delete archived item: %w", err)
		}
		moved++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit history: %w", err)
	}
	return moved, nil
}

// History returns every history entry, most recently moved first.
func (s *Store) History(ctx context.Context) ([]*HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+historyColumns+` FROM history ORDER BY moved_at DESC, created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []*HistoryEntry
	for rows.Next() {
		entry, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

// HistoryByDay groups history by the calendar date (in loc) the item was
// originally added to the list, newest day first. Entries within a day keep
// History order.
func (s *Store) HistoryByDay(ctx context.Context, loc *time.Location) ([]HistoryDay, error) {
	if loc == nil {
		loc = time.Local
	}
	entries, err := s.History(ctx)
	if err != nil {
		return nil, err
	}
	return GroupByDay(entries, loc), nil
}

// GroupByDay buckets entries by the local date of CreatedAt, newest first.
func GroupByDay(entries []*HistoryEntry, loc *time.Location) []HistoryDay {
	index := make(map[string]int)
	var days []HistoryDay
	for _, entry := range entries {
		local := entry.CreatedAt.In(loc)
		key := local.Format(time.DateOnly)
		pos, ok := index[key]
		if !ok {
			y, m, d := local.Date()
			days = append(days, HistoryDay{Date: time.Date(y, m, d, 0, 0, 0, 0, loc)})
			pos = len(days) - 1
			index[key] = pos
		}
		days[pos].Entries = append(days[pos].Entries, *entry)
	}
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Date.After(days[j].Date)
	})
	return days
}

// ClearHistory deletes every history entry and returns how many were removed.
func (s *Store) ClearHistory(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM history`)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return res.RowsAffected()
}
