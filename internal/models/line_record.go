package models

import (
	"github.com/shopspring/decimal"
)

// LineRecord is a single posting under a JournalEntry.
// Negative amounts are credits (left side), positive amounts are debits (right side).
type LineRecord struct {
	ID           int64           // assigned by the store
	EntryID      int64           // parent journal entry
	AccountName  string          // unique within the entry
	AccountGroup string          // coarse classification, e.g. Revenue, Tax
	Amount       decimal.Decimal // signed
	EntryTag     string          // correlates lines of the same economic leg
	Noise        bool            // true for generated noise lines
}

// TrueLine is one line of the real economic transaction as supplied by the caller.
type TrueLine struct {
	AccountName  string
	AccountGroup string
	Amount       decimal.Decimal
	Tag          string // optional, defaults to the entry id
}

// DatasetRow is one flattened line record joined with its journal entry header.
// This is the tabular shape downstream processing consumes.
type DatasetRow struct {
	EntryID      int64           `json:"entry_id"`
	LineID       int64           `json:"line_id"`
	Time         float64         `json:"timestamp"`
	ProcessLabel string          `json:"process_label"`
	Category     string          `json:"category"`
	AccountName  string          `json:"account_name"`
	AccountGroup string          `json:"account_group"`
	Amount       decimal.Decimal `json:"amount"`
	EntryTag     string          `json:"entry_tag"`
	Noise        bool            `json:"noise"`
}
