// Package generator produces synthetic journal entries: the balanced lines of
// a business-process event plus optional noise lines on small spurious accounts.
package generator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	interfaces "github.com/sheikh-saqib/synthetic-ledger-generator/internal/interfaces"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/models"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/models/events"
)

const noiseNameLength = 6

// Generator writes one journal entry per Generate call through a LedgerStore.
// Calls are serialized, so the random sequence and the store writes of one
// event never interleave with another.
type Generator struct {
	mu        sync.Mutex
	store     interfaces.LedgerStore
	clock     Clock
	rng       *rand.Rand
	publisher interfaces.EventPublisher
	logger    *zap.Logger
	runID     string
	topic     string
	instances map[string]int64 // process name -> instances generated
}

type Option func(*Generator)

// WithPublisher publishes an EntryGenerated event after every successful Generate.
func WithPublisher(p interfaces.EventPublisher) Option {
	return func(g *Generator) { g.publisher = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithRunID overrides the random run id attached to published events.
func WithRunID(id string) Option {
	return func(g *Generator) { g.runID = id }
}

// WithTopic sets the topic EntryGenerated events are published to.
func WithTopic(topic string) Option {
	return func(g *Generator) { g.topic = topic }
}

// NewGenerator wires a generator to its store, clock and random source.
// The random source is owned by the generator from here on and is never reseeded.
func NewGenerator(store interfaces.LedgerStore, clock Clock, rng *rand.Rand, opts ...Option) *Generator {
	g := &Generator{
		store:     store,
		clock:     clock,
		rng:       rng,
		logger:    zap.NewNop(),
		runID:     uuid.NewString(),
		topic:     events.EntryGeneratedTopic,
		instances: make(map[string]int64),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) RunID() string {
	return g.runID
}

// Generate validates req, then writes the entry header, every true line and,
// when the frequency draw triggers, the noise lines.
//
// Nothing is written when validation fails. A store failure is reported as
// ErrStore; lines written before it stay persisted because the store is
// append-only, and the returned Result lists them.
func (g *Generator) Generate(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	entry, res, err := g.write(ctx, req)
	if err != nil {
		return res, err
	}

	g.logger.Debug("journal entry generated",
		zap.Int64("entry_id", entry.ID),
		zap.String("name", entry.Name),
		zap.Float64("time", entry.Time),
		zap.Int("true_lines", len(res.LineIDs)),
		zap.Int("noise_lines", len(res.NoiseLineIDs)),
	)

	g.publish(ctx, entry, res)
	return res, nil
}

// write issues every store call for one event under the generator lock.
func (g *Generator) write(ctx context.Context, req Request) (models.JournalEntry, Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	postfix, counted := g.postfix(req)
	entry := models.JournalEntry{
		Time:     g.clock.Now(),
		Name:     req.ProcessName + postfix,
		Category: req.category(),
	}

	entryID, err := g.store.CreateEntry(ctx, entry)
	if err != nil {
		return entry, Result{}, fmt.Errorf("%w: create entry %s: %w", ErrStore, entry.Name, err)
	}
	entry.ID = entryID
	if counted {
		g.instances[req.ProcessName]++
	}

	res := Result{EntryID: entryID}
	entryTag := strconv.FormatInt(entryID, 10)

	for _, tl := range req.TrueLines {
		tag := tl.Tag
		if tag == "" {
			tag = entryTag
		}

		lineID, err := g.store.AddLine(ctx, models.LineRecord{
			EntryID:      entryID,
			AccountName:  tl.AccountName,
			AccountGroup: tl.AccountGroup,
			Amount:       tl.Amount,
			EntryTag:     tag,
		})
		if err != nil {
			return entry, res, fmt.Errorf("%w: entry %d: true line %s: %w", ErrStore, entryID, tl.AccountName, err)
		}
		res.LineIDs = append(res.LineIDs, lineID)
	}

	if err := g.addNoise(ctx, entryID, entryTag, req, &res); err != nil {
		return entry, res, err
	}
	return entry, res, nil
}

// addNoise draws the noise lines for one entry. Each line sits on its own
// account named after a random group so unrelated noise never aggregates.
func (g *Generator) addNoise(ctx context.Context, entryID int64, entryTag string, req Request, res *Result) error {
	cfg := req.Noise
	if g.rng.Float64() >= cfg.Frequency {
		return nil
	}

	count := int(g.rng.Float64() * cfg.NumAmplitude)
	for i := 0; i < count; i++ {
		group := randomString(g.rng, noiseNameLength)
		magnitude := req.BaseAmount.Mul(decimal.NewFromFloat(g.rng.Float64() * cfg.NoiseAmplitude))
		left := g.rng.Float64() < cfg.Proportion

		amount := magnitude
		if left {
			amount = magnitude.Neg()
		}

		lineID, err := g.store.AddLine(ctx, models.LineRecord{
			EntryID:      entryID,
			AccountName:  group + "_" + entryTag,
			AccountGroup: group,
			Amount:       amount,
			EntryTag:     entryTag,
			Noise:        true,
		})
		if err != nil {
			return fmt.Errorf("%w: entry %d: noise line %s: %w", ErrStore, entryID, group, err)
		}

		res.NoiseLineIDs = append(res.NoiseLineIDs, lineID)
		if left {
			res.Noise.Left = append(res.Noise.Left, magnitude)
		} else {
			res.Noise.Right = append(res.Noise.Right, magnitude)
		}
	}
	return nil
}

// postfix returns the instance suffix and whether it came from the
// per-process counter, which advances only once the entry exists.
func (g *Generator) postfix(req Request) (string, bool) {
	if req.Postfix != "" {
		return req.Postfix, false
	}
	return strconv.FormatInt(g.instances[req.ProcessName]+1, 10), true
}

// publish is best effort; failures are logged and the entry stands.
// It runs outside the generator lock.
func (g *Generator) publish(ctx context.Context, entry models.JournalEntry, res Result) {
	if g.publisher == nil {
		return
	}

	event := events.EntryGenerated{
		RunID:        g.runID,
		EntryID:      entry.ID,
		ProcessLabel: entry.Name,
		Category:     entry.Category,
		Time:         entry.Time,
		TrueLines:    len(res.LineIDs),
		NoiseLines:   len(res.NoiseLineIDs),
		NoiseLeft:    res.Noise.LeftTotal(),
		NoiseRight:   res.Noise.RightTotal(),
	}
	if err := g.publisher.Publish(ctx, g.topic, g.runID, event); err != nil {
		g.logger.Warn("failed to publish entry event",
			zap.Int64("entry_id", entry.ID),
			zap.Error(err),
		)
	}
}
