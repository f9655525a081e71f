package gen

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/syssam/zodgen"
	"github.com/syssam/zodgen/compiler/ts"
	"github.com/syssam/zodgen/typegraph"
)

// DefaultFilename is the name of the emitted module.
const DefaultFilename = "models.ts"

// DefaultHeader is the comment placed at the top of the emitted module.
const DefaultHeader = "// Code generated by zodgen, DO NOT EDIT."

// Config holds the global configuration of an emission.
type Config struct {
	// Target is the output directory.
	Target string
	// Filename is the module written to Target. Defaults to models.ts.
	Filename string
	// Header is printed above the imports. Empty disables it.
	Header string
	// NamePolicy transforms declaration names. Defaults to camelCase.
	NamePolicy ts.NamePolicy
	// Width is the line width the printer breaks arrays at.
	Width int
	// ZodModule is the module z is imported from.
	ZodModule string
	// Custom holds per-type and per-kind emission overrides.
	Custom *CustomEmitOptions
	// EnumsAsUnions registers the EnumsAsUnions preset for every enum that
	// has no customization of its own.
	EnumsAsUnions bool
	// Logger receives generation diagnostics.
	Logger *slog.Logger
	// Cache skips writing files whose content did not change.
	Cache zodgen.Cache
}

// Option configures code generation.
type Option func(*Config) error

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return zodgen.NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithFilename sets the name of the emitted module.
// It must be a relative path ending in .ts.
func WithFilename(name string) Option {
	return func(c *Config) error {
		if !strings.HasSuffix(name, ".ts") {
			return zodgen.NewConfigError("Filename", name, "filename must end in .ts")
		}
		if strings.HasPrefix(name, "/") || strings.Contains(name, "..") {
			return zodgen.NewConfigError("Filename", name, "filename must be relative to the target")
		}
		c.Filename = name
		return nil
	}
}

// WithHeader sets the file header comment.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithNamePolicy sets the declaration name policy by name.
// Supported policies: "camel", "pascal", "none".
func WithNamePolicy(name string) Option {
	return func(c *Config) error {
		p, err := ts.PolicyByName(name)
		if err != nil {
			return zodgen.NewConfigError("NamePolicy", name, "unsupported policy; use camel, pascal, or none")
		}
		c.NamePolicy = p
		return nil
	}
}

// WithWidth sets the printer line width.
func WithWidth(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return zodgen.NewConfigError("Width", n, "width must be positive")
		}
		c.Width = n
		return nil
	}
}

// WithZodModule sets the module z is imported from, e.g. "zod/v4".
func WithZodModule(module string) Option {
	return func(c *Config) error {
		if module == "" {
			return zodgen.NewConfigError("ZodModule", nil, "module cannot be empty")
		}
		c.ZodModule = module
		return nil
	}
}

// WithCustomEmit sets the customization registry.
func WithCustomEmit(o *CustomEmitOptions) Option {
	return func(c *Config) error {
		if o == nil {
			return zodgen.NewConfigError("CustomEmit", nil, "options cannot be nil")
		}
		c.Custom = o
		return nil
	}
}

// WithEnumsAsUnions inlines enums as unions of literals.
func WithEnumsAsUnions(enabled bool) Option {
	return func(c *Config) error {
		c.EnumsAsUnions = enabled
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return zodgen.NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithCache sets the output cache.
func WithCache(cache zodgen.Cache) Option {
	return func(c *Config) error {
		c.Cache = cache
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Filename:   DefaultFilename,
		Header:     DefaultHeader,
		NamePolicy: ts.CamelCase,
		Width:      ts.DefaultWidth,
		ZodModule:  ZodModule,
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// logger returns the configured logger or the default one.
func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// customizations returns the registry the synthesizer runs with, adding the
// EnumsAsUnions preset when enabled.
func (c *Config) customizations() *CustomEmitOptions {
	if !c.EnumsAsUnions {
		return c.Custom
	}
	o := NewCustomEmitOptions()
	if c.Custom != nil {
		for t, ce := range c.Custom.byType {
			o.byType[t] = ce
		}
		for k, ce := range c.Custom.byKind {
			o.byKind[k] = ce
		}
	}
	if _, ok := o.byKind[typegraph.KindEnum]; !ok {
		o.ForTypeKind(typegraph.KindEnum, EnumsAsUnions())
	}
	return o
}
