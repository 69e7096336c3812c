package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/generator"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/models"
)

// Catalog lists the business processes the simulator draws events from.
type Catalog struct {
	Seed      uint64             `yaml:"seed"`
	Noise     models.NoiseConfig `yaml:"noise"`
	Processes []Process          `yaml:"processes"`
}

// Process is a business-process template. Each line posts base × coefficient.
type Process struct {
	Name    string              `yaml:"name"`
	BaseMin float64             `yaml:"base_min"`
	BaseMax float64             `yaml:"base_max"`
	Noise   *models.NoiseConfig `yaml:"noise,omitempty"` // overrides the catalog noise
	Lines   []ProcessLine       `yaml:"lines"`
}

type ProcessLine struct {
	Account     string  `yaml:"account"`
	Group       string  `yaml:"group"`
	Coefficient float64 `yaml:"coefficient"`
	Tag         string  `yaml:"tag,omitempty"`
}

func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects catalogs that would make the generator fail on every event.
func (c *Catalog) Validate() error {
	if len(c.Processes) == 0 {
		return fmt.Errorf("catalog has no processes")
	}
	if err := generator.ValidateNoiseConfig(c.Noise); err != nil {
		return fmt.Errorf("catalog noise: %w", err)
	}

	names := make(map[string]bool)
	for _, p := range c.Processes {
		if p.Name == "" {
			return fmt.Errorf("catalog process without name")
		}
		if names[p.Name] {
			return fmt.Errorf("process %s: defined twice", p.Name)
		}
		names[p.Name] = true

		if p.BaseMin <= 0 || p.BaseMax < p.BaseMin {
			return fmt.Errorf("process %s: base range [%v, %v] is invalid", p.Name, p.BaseMin, p.BaseMax)
		}
		if p.Noise != nil {
			if err := generator.ValidateNoiseConfig(*p.Noise); err != nil {
				return fmt.Errorf("process %s noise: %w", p.Name, err)
			}
		}
		if err := generator.ValidateTrueLines(p.TrueLines(decimal.NewFromInt(1))); err != nil {
			return fmt.Errorf("process %s: %w", p.Name, err)
		}
	}
	return nil
}

// TrueLines expands the template for one base amount.
// Coefficients summing to zero give lines summing to zero for any base.
func (p Process) TrueLines(base decimal.Decimal) []models.TrueLine {
	lines := make([]models.TrueLine, 0, len(p.Lines))
	for _, l := range p.Lines {
		lines = append(lines, models.TrueLine{
			AccountName:  l.Account,
			AccountGroup: l.Group,
			Amount:       base.Mul(decimal.NewFromFloat(l.Coefficient)),
			Tag:          l.Tag,
		})
	}
	return lines
}

// NoiseFor returns the noise configuration that applies to p.
func (c *Catalog) NoiseFor(p Process) models.NoiseConfig {
	if p.Noise != nil {
		return *p.Noise
	}
	return c.Noise
}
