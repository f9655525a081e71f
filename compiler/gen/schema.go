package gen

import (
	"log/slog"

	"github.com/syssam/zodgen/compiler/ts"
	"github.com/syssam/zodgen/typegraph"
)

// ZodModule is the module the z namespace is imported from by default.
const ZodModule = "zod"

// Synthesizer turns type graph nodes into Zod schema expressions. It is
// not safe for concurrent use.
type Synthesizer struct {
	types    TypeSystem
	custom   *CustomEmitOptions
	logger   *slog.Logger
	z        ts.Refkey
	inlining map[typegraph.Type]bool
}

// SynthOption configures a Synthesizer.
type SynthOption func(*Synthesizer)

// WithCustomizations sets the customization registry.
func WithCustomizations(o *CustomEmitOptions) SynthOption {
	return func(s *Synthesizer) { s.custom = o }
}

// WithSynthLogger sets the logger used for warnings.
func WithSynthLogger(l *slog.Logger) SynthOption {
	return func(s *Synthesizer) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithZodImport sets the module z is imported from.
func WithZodImport(module string) SynthOption {
	return func(s *Synthesizer) {
		if module != "" {
			s.z = ts.External(module, "z")
		}
	}
}

// NewSynthesizer returns a synthesizer over types.
func NewSynthesizer(types TypeSystem, opts ...SynthOption) *Synthesizer {
	s := &Synthesizer{
		types:    types,
		logger:   slog.Default(),
		z:        ts.External(ZodModule, "z"),
		inlining: make(map[typegraph.Type]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Types returns the type system the synthesizer reads.
func (s *Synthesizer) Types() TypeSystem { return s.types }

// Customizations returns the registry in use, possibly nil.
func (s *Synthesizer) Customizations() *CustomEmitOptions { return s.custom }

type declKey struct{ t typegraph.Type }

// Refkey returns the key the declaration of t is bound to.
func (s *Synthesizer) Refkey(t typegraph.Type) ts.Refkey {
	return ts.KeyOf(declKey{t})
}

// ShouldReference reports whether t is referenced by name under the
// synthesizer's customizations.
func (s *Synthesizer) ShouldReference(t typegraph.Type) bool {
	return ShouldReference(s.types, t, s.custom)
}

// Schema returns the schema of t in declaration context: its full
// structure, constraints and description.
func (s *Synthesizer) Schema(t typegraph.Type) ts.Code {
	parts := s.BaseSchemaParts(t)
	parts = append(parts, s.ConstraintParts(t, nil)...)
	parts = append(parts, s.DescriptionParts(t, nil)...)
	return ts.Member(parts...)
}

// NestedSchema returns the schema of t where it is used, e.g. as a property
// type. Declared types are referenced by name. A model property contributes
// its optionality, default and documentation.
func (s *Synthesizer) NestedSchema(t typegraph.Type) ts.Code {
	var member *typegraph.ModelProperty
	if p, ok := t.(*typegraph.ModelProperty); ok {
		member, t = p, p.Type
	}
	var parts ts.Parts
	switch {
	case s.ShouldReference(t):
		parts = ts.Parts{ts.RefPart(s.Refkey(t))}
	case s.inlining[t]:
		s.logger.Warn("zodgen: recursive inline type emitted as any", "type", typegraph.Name(t), "kind", t.Kind())
		parts = s.zodCall("any")
	default:
		if IsDeclaration(s.types, t) {
			s.inlining[t] = true
			defer delete(s.inlining, t)
		}
		parts = s.BaseSchemaParts(t)
	}
	parts = append(parts, s.ConstraintParts(t, member)...)
	parts = append(parts, s.MemberParts(member)...)
	parts = append(parts, s.DescriptionParts(t, member)...)
	return s.reference(t, member, ts.Member(parts...))
}

type declConfig struct {
	name    string
	refkeys []ts.Refkey
	export  bool
}

// DeclOption configures Declaration.
type DeclOption func(*declConfig)

// DeclName overrides the declared name.
func DeclName(name string) DeclOption {
	return func(c *declConfig) { c.name = name }
}

// DeclRefkeys binds additional refkeys to the declaration. Callers mint
// their own keys with ts.NewRefkey and reference the declaration through
// ts.Ref from code emitted elsewhere.
func DeclRefkeys(keys ...ts.Refkey) DeclOption {
	return func(c *declConfig) { c.refkeys = append(c.refkeys, keys...) }
}

// DeclExport exports the declaration.
func DeclExport() DeclOption {
	return func(c *declConfig) { c.export = true }
}

// Declaration returns the variable declaration of t's schema. The name
// defaults to the type name, then to its kind.
func (s *Synthesizer) Declaration(t typegraph.Type, opts ...DeclOption) ts.Code {
	var cfg declConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	name := cfg.name
	if name == "" {
		name = typegraph.Name(t)
	}
	if name == "" {
		name = string(t.Kind())
	}
	refkeys := append(cfg.refkeys, s.Refkey(t))
	wrap := func(body ts.Code) ts.Code {
		return &ts.VarDecl{Name: name, Refkeys: refkeys, Export: cfg.export, Body: body}
	}
	return s.declare(t, wrap(s.Schema(t)), name, refkeys, wrap)
}

// zod prefixes parts with the z identifier.
func (s *Synthesizer) zod(parts ...ts.Parts) ts.Parts {
	out := ts.Parts{ts.RefPart(s.z)}
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func (s *Synthesizer) zodCall(name string, args ...ts.Code) ts.Parts {
	return s.zod(ts.Call(name, args...))
}

func (s *Synthesizer) zodExpr(name string, args ...ts.Code) *ts.MemberExpr {
	return ts.Member(s.zodCall(name, args...)...)
}
