package gen

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/syssam/zodgen"
	"github.com/syssam/zodgen/compiler/ts"
	"github.com/syssam/zodgen/typegraph"
)

// Emitter emits the Zod schemas of a type graph into one TypeScript module.
type Emitter struct {
	types     TypeSystem
	cfg       *Config
	logger    *slog.Logger
	synth     *Synthesizer
	collector *Collector
	collected bool
}

// NewEmitter returns an emitter for types. A nil cfg uses the defaults.
func NewEmitter(types TypeSystem, cfg *Config) *Emitter {
	if cfg == nil {
		cfg = MustNewConfig()
	}
	custom := cfg.customizations()
	logger := cfg.logger()
	return &Emitter{
		types:  types,
		cfg:    cfg,
		logger: logger,
		synth: NewSynthesizer(types,
			WithCustomizations(custom),
			WithSynthLogger(logger),
			WithZodImport(cfg.ZodModule),
		),
		collector: NewCollector(types, custom),
	}
}

// Synthesizer returns the synthesizer the emitter renders with.
func (e *Emitter) Synthesizer() *Synthesizer { return e.synth }

// Collector returns the collector holding the declared types.
func (e *Emitter) Collector() *Collector { return e.collector }

// Collect walks every namespace outside the built-in one and collects the
// types that get a declaration. It runs once; later calls are no-ops.
func (e *Emitter) Collect() {
	if e.collected {
		return
	}
	e.collected = true
	e.navigate(e.types.GlobalNamespace())
	e.logger.Debug("zodgen: collected declarations", "count", e.collector.Len())
}

// navigate visits the members of ns in a fixed order: models, scalars,
// operations, sub-namespaces, unions, interfaces, enums.
func (e *Emitter) navigate(ns *typegraph.Namespace) {
	if ns == nil || isStdNamespace(e.types, ns) {
		return
	}
	for _, m := range ns.Models {
		e.collector.Collect(m)
	}
	for _, s := range ns.Scalars {
		e.collector.Collect(s)
	}
	for _, o := range ns.Operations {
		e.operation(o)
	}
	for _, child := range ns.Namespaces {
		e.navigate(child)
	}
	for _, u := range ns.Unions {
		e.collector.Collect(u)
	}
	for _, i := range ns.Interfaces {
		for _, o := range i.Operations {
			e.operation(o)
		}
	}
	for _, en := range ns.Enums {
		e.collector.Collect(en)
	}
}

// operation collects the declared types an operation signature uses.
func (e *Emitter) operation(o *typegraph.Operation) {
	if o.Parameters != nil {
		for _, p := range o.Parameters.Properties {
			e.collector.Collect(p.Type)
		}
	}
	e.collector.Collect(o.ReturnType)
}

// File builds the TypeScript module: one exported declaration per collected
// type, in dependency order.
func (e *Emitter) File() *ts.File {
	e.Collect()
	f := ts.NewFile(e.cfg.Filename, e.cfg.NamePolicy)
	if e.cfg.Width > 0 {
		f.Width = e.cfg.Width
	}
	for _, t := range e.collector.Types() {
		f.Add(e.synth.Declaration(t, DeclExport()))
	}
	return f
}

// Render returns the module source with its header.
func (e *Emitter) Render() ([]byte, error) {
	f := e.File()
	body, err := f.Render()
	if err != nil {
		return nil, zodgen.NewGenerationError("render", f.Path, "unresolved references", err)
	}
	var b bytes.Buffer
	if e.cfg.Header != "" {
		b.WriteString(e.cfg.Header)
		b.WriteString("\n\n")
	}
	b.Write(body)
	return b.Bytes(), nil
}

// Emit renders the module and writes it to the configured target.
func (e *Emitter) Emit(ctx context.Context) error {
	if e.cfg.Target == "" {
		return zodgen.NewConfigError("Target", nil, "missing target directory in config")
	}
	start := time.Now()
	out, err := e.Render()
	if err != nil {
		return err
	}
	w := NewWriter(e.cfg.Target, e.cfg.Cache).WithLogger(e.logger)
	if err := w.WriteAll(ctx, OutputFile{Name: e.cfg.Filename, Content: out}); err != nil {
		return err
	}
	m := w.Metrics()
	e.logger.Info("zodgen: emit finished",
		"declarations", e.collector.Len(),
		"written", m.FilesWritten,
		"skipped", m.FilesSkipped,
		"duration", time.Since(start),
	)
	return nil
}

// Emit emits the Zod schemas of types as configured by cfg.
func Emit(ctx context.Context, types TypeSystem, cfg *Config) error {
	return NewEmitter(types, cfg).Emit(ctx)
}
