// Package container provides dependency injection for the stmt-import application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/statement-import/internal/cardfilter"
	"fjacquet/statement-import/internal/common"
	"fjacquet/statement-import/internal/config"
	"fjacquet/statement-import/internal/formats"
	"fjacquet/statement-import/internal/importer"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger   logging.Logger
	config   *config.Config
	registry *formats.Registry
	cards    *cardfilter.Policy
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, config.NewLogger(cfg))
}

// NewContainerWithLogger wires the dependencies around an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = config.NewLogger(cfg)
	}

	registry, err := formats.NewRegistry(cfg.Formats.File, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load formats: %w", err)
	}
	if cfg.Formats.Default != "" {
		if _, err := registry.Get(cfg.Formats.Default); err != nil {
			return nil, fmt.Errorf("default format: %w", err)
		}
	}

	cards := cardfilter.FromLists(cfg.Cards.Allowed, cfg.Cards.Blocked)

	if delim := cfg.DelimiterRune(); delim != 0 {
		common.SetDelimiter(delim)
	}

	c := &Container{
		logger:   logger,
		config:   cfg,
		registry: registry,
		cards:    cards,
	}

	logger.Info("Container initialized successfully",
		logging.F(logging.FieldCount, len(registry.Names())),
		logging.F("card_filter", cards != nil))
	return c, nil
}

func (c *Container) pipelineConfig() importer.Config {
	return importer.Config{
		MaxFileSize:       c.config.Import.MaxFileSize,
		HeaderScanRows:    c.config.Import.HeaderScanRows,
		DescriptionLength: c.config.Import.DescriptionMaxLength,
	}
}

// NewPipeline returns a pipeline whose gate refuses imports once stored reaches
// import.max_stored_transactions.
func (c *Container) NewPipeline(stored int) *importer.Pipeline {
	gate := importer.LimitGate{Max: c.config.Import.MaxStoredTransactions, Stored: stored}
	return importer.NewPipeline(c.pipelineConfig(), gate, c.logger)
}

// GetFormat returns the named format, or the configured default when name is empty.
func (c *Container) GetFormat(name string) (*models.FormatDescriptor, error) {
	if name == "" {
		name = c.config.Formats.Default
	}
	if name == "" {
		return nil, fmt.Errorf("no format given and no default configured")
	}
	return c.registry.Get(name)
}

// GetRegistry returns the format registry.
func (c *Container) GetRegistry() *formats.Registry {
	return c.registry
}

// GetCardPolicy returns the configured card filter, or nil when none is configured.
func (c *Container) GetCardPolicy() *cardfilter.Policy {
	return c.cards
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
