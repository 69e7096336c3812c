package models

// JournalEntry is the header of one simulated business-process event.
// It is created once and never mutated.
type JournalEntry struct {
	ID       int64   // assigned by the store
	Time     float64 // simulation clock value
	Name     string  // process instance label, e.g. "Sales17"
	Category string  // process type label, e.g. "Sales"
}
