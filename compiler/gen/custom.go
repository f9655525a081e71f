package gen

import (
	"github.com/syssam/zodgen/compiler/ts"
	"github.com/syssam/zodgen/typegraph"
)

type (
	// CustomEmit overrides how matching types are emitted.
	CustomEmit struct {
		// Declare replaces the rendering of a type in declaration context:
		// the variable declaration of a declared type, an object property, or
		// an enum member.
		Declare func(*DeclareProps) ts.Code
		// Reference replaces the rendering of a type where it is used.
		Reference func(*ReferenceProps) ts.Code
		// NoDeclaration suppresses the standalone declaration of matching
		// types; they are inlined at every use instead.
		NoDeclaration bool
	}

	// DeclareProps is passed to CustomEmit.Declare.
	DeclareProps struct {
		Zod     *Synthesizer
		Type    typegraph.Type
		Default ts.Code
		Name    string
		Refkeys []ts.Refkey
		// Declaration wraps a replacement body the way Default is wrapped:
		// a variable declaration, an object property or nothing.
		Declaration      func(body ts.Code) ts.Code
		BaseSchemaParts  func() ts.Parts
		ConstraintParts  func() ts.Parts
		DescriptionParts func() ts.Parts
	}

	// ReferenceProps is passed to CustomEmit.Reference.
	ReferenceProps struct {
		Zod              *Synthesizer
		Type             typegraph.Type
		Member           *typegraph.ModelProperty
		Default          ts.Code
		BaseSchemaParts  func() ts.Parts
		ConstraintParts  func() ts.Parts
		DescriptionParts func() ts.Parts
		MemberParts      func() ts.Parts
	}
)

// CustomEmitOptions registers CustomEmit overrides per type and per kind.
// A nil *CustomEmitOptions has no overrides.
type CustomEmitOptions struct {
	byType map[typegraph.Type]CustomEmit
	byKind map[typegraph.Kind]CustomEmit
}

// NewCustomEmitOptions returns an empty registry.
func NewCustomEmitOptions() *CustomEmitOptions {
	return &CustomEmitOptions{
		byType: make(map[typegraph.Type]CustomEmit),
		byKind: make(map[typegraph.Kind]CustomEmit),
	}
}

// ForType registers c for t, replacing any previous registration.
func (o *CustomEmitOptions) ForType(t typegraph.Type, c CustomEmit) *CustomEmitOptions {
	o.byType[t] = c
	return o
}

// ForTypeKind registers c for every type of kind k, replacing any previous
// registration.
func (o *CustomEmitOptions) ForTypeKind(k typegraph.Kind, c CustomEmit) *CustomEmitOptions {
	o.byKind[k] = c
	return o
}

// forType finds the entry registered for t. Scalars without an entry
// inherit the entry of the nearest base scalar, walking through non built-in
// scalars only.
func (o *CustomEmitOptions) forType(types TypeSystem, t typegraph.Type) (CustomEmit, bool) {
	if o == nil {
		return CustomEmit{}, false
	}
	cur := t
	for {
		if c, ok := o.byType[cur]; ok {
			return c, true
		}
		s, ok := cur.(*typegraph.Scalar)
		if !ok || s.BaseScalar == nil || IsBuiltIn(types, s) {
			return CustomEmit{}, false
		}
		cur = s.BaseScalar
	}
}

func (o *CustomEmitOptions) forKind(k typegraph.Kind) (CustomEmit, bool) {
	if o == nil {
		return CustomEmit{}, false
	}
	c, ok := o.byKind[k]
	return c, ok
}

// lookup returns the type entry, falling back to the kind entry.
func (o *CustomEmitOptions) lookup(types TypeSystem, t typegraph.Type) (CustomEmit, bool) {
	if c, ok := o.forType(types, t); ok {
		return c, true
	}
	return o.forKind(t.Kind())
}

// declare renders t in declaration context through its Declare override.
func (s *Synthesizer) declare(t typegraph.Type, def ts.Code, name string, refkeys []ts.Refkey, declaration func(ts.Code) ts.Code) ts.Code {
	c, ok := s.custom.lookup(s.types, t)
	if !ok || c.Declare == nil {
		return def
	}
	return c.Declare(&DeclareProps{
		Zod:              s,
		Type:             t,
		Default:          def,
		Name:             name,
		Refkeys:          refkeys,
		Declaration:      declaration,
		BaseSchemaParts:  func() ts.Parts { return s.BaseSchemaParts(t) },
		ConstraintParts:  func() ts.Parts { return s.ConstraintParts(t, nil) },
		DescriptionParts: func() ts.Parts { return s.DescriptionParts(t, nil) },
	})
}

// reference renders t in reference context through its Reference override.
func (s *Synthesizer) reference(t typegraph.Type, member *typegraph.ModelProperty, def ts.Code) ts.Code {
	c, ok := s.custom.lookup(s.types, t)
	if !ok || c.Reference == nil {
		return def
	}
	base := t
	if member != nil {
		base = member
	}
	return c.Reference(&ReferenceProps{
		Zod:              s,
		Type:             t,
		Member:           member,
		Default:          def,
		BaseSchemaParts:  func() ts.Parts { return s.BaseSchemaParts(base) },
		ConstraintParts:  func() ts.Parts { return s.ConstraintParts(t, member) },
		DescriptionParts: func() ts.Parts { return s.DescriptionParts(t, member) },
		MemberParts:      func() ts.Parts { return s.MemberParts(member) },
	})
}
