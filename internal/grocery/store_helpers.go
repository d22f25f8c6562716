package grocery

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"grocerylens/internal/services"
)

const itemColumns = "id, name, quantity, unit, category, notes, completed, source, created_at, updated_at"

// historyColumns mirrors itemColumns (with the original list id) followed by
// the history row's own id and moved_at.
const historyColumns = "item_id, name, quantity, unit, category, notes, completed, source, created_at, updated_at, id, moved_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(scanner rowScanner) (*Item, error) {
	return scanInto(scanner)
}

func scanInto(scanner rowScanner, extra ...any) (*Item, error) {
	var (
		item       Item
		unit       sql.NullString
		category   sql.NullString
		notes      sql.NullString
		completed  int
		source     string
		createdRaw string
		updatedRaw string
	)
	dest := []any{&item.ID, &item.Name, &item.Quantity, &unit, &category, &notes, &completed, &source, &createdRaw, &updatedRaw}
	if err := scanner.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	item.Unit = unit.String
	item.Category = category.String
	item.Notes = notes.String
	item.Completed = completed != 0
	item.Source = Source(source)
	item.CreatedAt = parseTime(createdRaw)
	item.UpdatedAt = parseTime(updatedRaw)
	return &item, nil
}

func scanHistory(scanner rowScanner) (*HistoryEntry, error) {
	var historyID, movedRaw string
	item, err := scanInto(scanner, &historyID, &movedRaw)
	if err != nil {
		return nil, err
	}
	return &HistoryEntry{Item: *item, HistoryID: historyID, MovedAt: parseTime(movedRaw)}, nil
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func validateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", services.Wrap(services.ErrValidation, "grocery", "validate", "name is required", nil)
	}
	return trimmed, nil
}

func validateQuantity(quantity int) error {
	if quantity < 1 {
		return services.Wrap(services.ErrValidation, "grocery", "validate", fmt.Sprintf("quantity must be at least 1 (got %d)", quantity), nil)
	}
	return nil
}

func notFound(operation, id string) error {
	return services.Wrap(services.ErrNotFound, "grocery", operation, fmt.Sprintf("item %q", id), nil)
}
