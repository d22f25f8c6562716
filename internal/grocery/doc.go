// Package grocery persists the shopping list and its history in SQLite.
//
// Items live in the items table until the list is finished, at which point
// MoveToHistory copies them into history (stamped with moved_at) and removes
// them from the list in a single transaction. The store uses
// modernc.org/sqlite, WAL journaling, and embedded SQL migrations recorded in
// schema_migrations, so opening an older database upgrades it in place.
package grocery
