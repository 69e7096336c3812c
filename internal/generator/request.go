package generator

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/models"
)

// maxNumAmplitude caps the noise line count drawn per entry.
const maxNumAmplitude = 1 << 16

// Request describes one simulated business-process event.
type Request struct {
	ProcessName string
	Category    string // defaults to ProcessName
	Postfix     string // instance suffix; defaults to a per-process counter
	BaseAmount  decimal.Decimal
	TrueLines   []models.TrueLine
	Noise       models.NoiseConfig
}

// Result is what one Generate call wrote.
type Result struct {
	EntryID      int64
	LineIDs      []int64
	NoiseLineIDs []int64
	Noise        models.NoiseStats
}

// Validate checks the request without touching the store.
func (r Request) Validate() error {
	if err := ValidateNoiseConfig(r.Noise); err != nil {
		return err
	}
	if r.ProcessName == "" {
		return dataError("process_name", "must not be empty")
	}
	if !r.BaseAmount.IsPositive() {
		return dataError("base_amount", "must be positive")
	}
	return ValidateTrueLines(r.TrueLines)
}

func (r Request) category() string {
	if r.Category != "" {
		return r.Category
	}
	return r.ProcessName
}

// ValidateNoiseConfig checks probabilities are in [0,1] and amplitudes are non-negative.
func ValidateNoiseConfig(cfg models.NoiseConfig) error {
	if !isProbability(cfg.Frequency) {
		return configError("frequency", "must be within [0,1]")
	}
	if !isProbability(cfg.Proportion) {
		return configError("proportion", "must be within [0,1]")
	}
	if !isAmplitude(cfg.NumAmplitude) {
		return configError("num_amplitude", "must be a non-negative number")
	}
	if cfg.NumAmplitude > maxNumAmplitude {
		return configError("num_amplitude", fmt.Sprintf("must not exceed %d", maxNumAmplitude))
	}
	if !isAmplitude(cfg.NoiseAmplitude) {
		return configError("noise_amplitude", "must be a non-negative number")
	}
	return nil
}

// ValidateTrueLines requires at least one line, distinct non-empty account
// names, and amounts that sum to exactly zero.
func ValidateTrueLines(lines []models.TrueLine) error {
	if len(lines) == 0 {
		return dataError("true_lines", "must not be empty")
	}

	seen := make(map[string]struct{}, len(lines))
	total := decimal.Zero
	for _, l := range lines {
		if l.AccountName == "" {
			return dataError("true_lines", "contain a line without account name")
		}
		if _, dup := seen[l.AccountName]; dup {
			return dataError("true_lines", "repeat account "+l.AccountName)
		}
		seen[l.AccountName] = struct{}{}
		total = total.Add(l.Amount)
	}

	if !total.IsZero() {
		return dataError("true_lines", "are unbalanced by "+total.String())
	}
	return nil
}

func isProbability(v float64) bool {
	return v >= 0 && v <= 1
}

func isAmplitude(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}
