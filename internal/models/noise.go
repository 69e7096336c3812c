package models

import (
	"github.com/shopspring/decimal"
)

// NoiseConfig controls injection of spurious small-value accounts.
type NoiseConfig struct {
	Frequency      float64 `yaml:"frequency" json:"frequency"`             // probability that an event gets any noise
	NumAmplitude   float64 `yaml:"num_amplitude" json:"num_amplitude"`     // exclusive upper bound on noise line count
	NoiseAmplitude float64 `yaml:"noise_amplitude" json:"noise_amplitude"` // exclusive upper bound on magnitude / base amount
	Proportion     float64 `yaml:"proportion" json:"proportion"`           // probability of the left (credit) side
}

// NoiseStats holds the magnitudes of the noise lines drawn for one entry, split by side.
type NoiseStats struct {
	Left  []decimal.Decimal `json:"left"`
	Right []decimal.Decimal `json:"right"`
}

func (n NoiseStats) Count() int {
	return len(n.Left) + len(n.Right)
}

func (n NoiseStats) LeftTotal() decimal.Decimal {
	return sum(n.Left)
}

func (n NoiseStats) RightTotal() decimal.Decimal {
	return sum(n.Right)
}

func sum(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
