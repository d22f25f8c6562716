package grocery

import "time"

// Source records how an item reached the list.
type Source string

const (
	// SourceManual is an item typed in by hand.
	SourceManual Source = "manual"
	// SourceScan is an item added from a photo scan.
	SourceScan Source = "scan"
)

// Item is one entry on the shopping list.
type Item struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Unit      string    `json:"unit,omitempty"`
	Category  string    `json:"category,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Completed bool      `json:"completed"`
	Source    Source    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HistoryEntry is an item moved off the list when it was finished.
type HistoryEntry struct {
	Item
	// HistoryID identifies the history row; Item.ID keeps the original list id.
	HistoryID string    `json:"historyId"`
	MovedAt   time.Time `json:"movedAt"`
}

// Patch carries a partial update. Nil fields are left unchanged.
type Patch struct {
	Name     *string `json:"name,omitempty"`
	Quantity *int    `json:"quantity,omitempty"`
	Unit     *string `json:"unit,omitempty"`
	Category *string `json:"category,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Quantity == nil && p.Unit == nil && p.Category == nil && p.Notes == nil
}

// Status filters List results.
type Status string

const (
	StatusAll       Status = "all"
	StatusOpen      Status = "open"
	StatusCompleted Status = "completed"
)

// ListFilter narrows List results.
type ListFilter struct {
	Status   Status
	Category string
}

// Progress summarizes how much of the list is done.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Percent returns completion as 0..100. An empty list is 0.
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total) * 100
}

// HistoryDay groups history entries sharing a local calendar date.
type HistoryDay struct {
	// Date is midnight of the day in the grouping location.
	Date    time.Time      `json:"date"`
	Entries []HistoryEntry `json:"entries"`
}
