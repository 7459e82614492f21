// Package catalogue assembles the device catalogue at startup.
//
// A Builder runs the startup sequence over every configuration entry:
//
//	compile-all -> validate-all -> derive aliases -> freeze -> log count
//
// Validation is an all-or-nothing gate: a single invalid device fails the
// build before aliases are derived or the count is logged. Run adds the
// announce and service hand-off steps on top of Build.
//
// Usage:
//
//	b, err := catalogue.New(catalogue.Deps{Logger: log, Vocabulary: action.Default(), Service: srv})
//	registry, stats, err := b.Run(ctx, catalogue.FromTree(tree))
package catalogue

import (
	"context"
	"errors"
	"fmt"

	"github.com/nerrad567/gray-logic-alexa/internal/compiler"
	"github.com/nerrad567/gray-logic-alexa/internal/device"
	"github.com/nerrad567/gray-logic-alexa/internal/item"
)

// Domain errors for the catalogue package.
var (
	// ErrValidationFailed is returned when at least one device is invalid.
	ErrValidationFailed = errors.New("catalogue: device validation failed")

	// ErrServiceStart wraps a failure of the runtime service to start.
	ErrServiceStart = errors.New("catalogue: service start failed")
)

// Logger is the logging interface used by the builder.
type Logger = device.Logger

// Entry is one configuration entry fed to the compiler.
type Entry = compiler.Entry

// Service is the runtime collaborator that receives the frozen registry.
type Service interface {
	Start(ctx context.Context, registry *device.Registry) error
}

// Announcer publishes the finished catalogue to an external system.
type Announcer interface {
	Announce(ctx context.Context, registry *device.Registry, stats Stats) error
}

// Stats summarises one catalogue build.
type Stats struct {
	Entries        int `json:"entries"`
	Compiled       int `json:"compiled"`
	Skipped        int `json:"skipped"`
	Rejected       int `json:"rejected"`
	Devices        int `json:"devices"`
	Aliases        int `json:"aliases"`
	AliasesSkipped int `json:"aliases_skipped"`
}

// Deps holds the dependencies of a Builder.
type Deps struct {
	Logger     Logger
	Vocabulary compiler.Vocabulary
	Service    Service     // optional; Run skips the hand-off when nil
	Announcers []Announcer // optional
	// TokenSource overrides proxy token generation. Nil uses compiler.NewToken.
	TokenSource func() string
}

// Builder runs the startup sequence.
type Builder struct {
	logger     Logger
	vocab      compiler.Vocabulary
	service    Service
	announcers []Announcer
	tokens     func() string
}

// New creates a Builder.
//
// Returns an error if the action vocabulary is missing.
func New(deps Deps) (*Builder, error) {
	if deps.Vocabulary == nil {
		return nil, fmt.Errorf("action vocabulary is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = device.NopLogger()
	}
	return &Builder{
		logger:     logger,
		vocab:      deps.Vocabulary,
		service:    deps.Service,
		announcers: deps.Announcers,
		tokens:     deps.TokenSource,
	}, nil
}

// FromTree returns the items of tree as compiler entries, in tree order.
func FromTree(tree *item.Tree) []Entry {
	items := tree.Items()
	entries := make([]Entry, len(items))
	for i, it := range items {
		entries[i] = it
	}
	return entries
}

// Build compiles entries into a new registry, validates every device,
// derives alias devices and freezes the registry.
//
// On validation failure the returned error wraps ErrValidationFailed and the
// first device error; the registry is not returned.
func (b *Builder) Build(entries []Entry) (*device.Registry, Stats, error) {
	registry := device.NewRegistry()
	stats := Stats{Entries: len(entries)}

	c := compiler.New(registry, b.vocab)
	c.SetLogger(b.logger)
	if b.tokens != nil {
		c.SetTokenSource(b.tokens)
	}

	for _, e := range entries {
		switch c.Compile(e) {
		case compiler.OutcomeCompiled:
			stats.Compiled++
		case compiler.OutcomeSkipped:
			stats.Skipped++
		case compiler.OutcomeRejected:
			stats.Rejected++
		}
	}

	if err := b.validate(registry); err != nil {
		return nil, stats, err
	}

	if err := b.deriveAliases(registry, &stats); err != nil {
		return nil, stats, err
	}

	registry.Freeze()
	stats.Devices = registry.Count()
	b.logger.Info("providing devices", "count", stats.Devices, "aliases", stats.Aliases)

	return registry, stats, nil
}

// validate checks every device and logs each failure.
func (b *Builder) validate(registry *device.Registry) error {
	var first error
	failed := 0
	devices := registry.All()

	for _, d := range devices {
		if err := d.Validate(); err != nil {
			b.logger.Error("device validation failed", "device", d.ID, "error", err)
			if first == nil {
				first = err
			}
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d devices: %w", ErrValidationFailed, failed, len(devices), first)
	}
	return nil
}

// deriveAliases inserts one device per alias name of every primary device.
// Alias devices are not validated again. An alias whose id is already taken
// is skipped with a warning.
func (b *Builder) deriveAliases(registry *device.Registry, stats *Stats) error {
	for _, primary := range registry.All() {
		for _, alias := range primary.CreateAliasDevices() {
			if registry.Exists(alias.ID) {
				b.logger.Warn("alias device id already in use, skipping",
					"device", primary.ID, "alias", alias.Name, "id", alias.ID)
				stats.AliasesSkipped++
				continue
			}
			if err := registry.Put(alias); err != nil {
				return fmt.Errorf("adding alias %q of %s: %w", alias.Name, primary.ID, err)
			}
			b.logger.Debug("alias device added", "device", primary.ID, "alias", alias.Name, "id", alias.ID)
			stats.Aliases++
		}
	}
	return nil
}

// Run builds the catalogue, announces it and hands it to the service.
//
// Announcer failures are logged and do not stop the hand-off.
func (b *Builder) Run(ctx context.Context, entries []Entry) (*device.Registry, Stats, error) {
	registry, stats, err := b.Build(entries)
	if err != nil {
		return nil, stats, err
	}

	for _, a := range b.announcers {
		if err := a.Announce(ctx, registry, stats); err != nil {
			b.logger.Warn("catalogue announce failed", "error", err)
		}
	}

	if b.service == nil {
		return registry, stats, nil
	}
	if err := b.service.Start(ctx, registry); err != nil {
		return nil, stats, fmt.Errorf("%w: %w", ErrServiceStart, err)
	}
	return registry, stats, nil
}
