package events

import (
	"github.com/shopspring/decimal"
)

const EntryGeneratedTopic = "entry_generated"

type EntryGenerated struct {
	RunID        string          `json:"run_id"`
	EntryID      int64           `json:"entry_id"`
	ProcessLabel string          `json:"process_label"`
	Category     string          `json:"category"`
	Time         float64         `json:"timestamp"`
	TrueLines    int             `json:"true_lines"`
	NoiseLines   int             `json:"noise_lines"`
	NoiseLeft    decimal.Decimal `json:"noise_left"`
	NoiseRight   decimal.Decimal `json:"noise_right"`
}
