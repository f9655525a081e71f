package typegraph

import "strings"

// StdNamespaceName is the name of the built-in namespace.
const StdNamespaceName = "TypeSpec"

// Std names a standard scalar of the built-in namespace.
type Std string

// Standard scalars.
const (
	StdNumeric        Std = "numeric"
	StdInteger        Std = "integer"
	StdFloat          Std = "float"
	StdInt64          Std = "int64"
	StdInt32          Std = "int32"
	StdInt16          Std = "int16"
	StdInt8           Std = "int8"
	StdSafeint        Std = "safeint"
	StdUint64         Std = "uint64"
	StdUint32         Std = "uint32"
	StdUint16         Std = "uint16"
	StdUint8          Std = "uint8"
	StdFloat64        Std = "float64"
	StdFloat32        Std = "float32"
	StdDecimal        Std = "decimal"
	StdDecimal128     Std = "decimal128"
	StdString         Std = "string"
	StdURL            Std = "url"
	StdBoolean        Std = "boolean"
	StdBytes          Std = "bytes"
	StdPlainDate      Std = "plainDate"
	StdPlainTime      Std = "plainTime"
	StdUTCDateTime    Std = "utcDateTime"
	StdOffsetDateTime Std = "offsetDateTime"
	StdDuration       Std = "duration"
)

// stdScalars is ordered so every base precedes the scalars derived from it.
var stdScalars = []struct{ name, base Std }{
	{StdNumeric, ""},
	{StdInteger, StdNumeric},
	{StdFloat, StdNumeric},
	{StdInt64, StdInteger},
	{StdInt32, StdInt64},
	{StdInt16, StdInt32},
	{StdInt8, StdInt16},
	{StdSafeint, StdInt64},
	{StdUint64, StdInteger},
	{StdUint32, StdUint64},
	{StdUint16, StdUint32},
	{StdUint8, StdUint16},
	{StdFloat64, StdFloat},
	{StdFloat32, StdFloat64},
	{StdDecimal, StdNumeric},
	{StdDecimal128, StdDecimal},
	{StdString, ""},
	{StdURL, StdString},
	{StdBoolean, ""},
	{StdBytes, ""},
	{StdPlainDate, ""},
	{StdPlainTime, ""},
	{StdUTCDateTime, ""},
	{StdOffsetDateTime, ""},
	{StdDuration, ""},
}

// Intrinsic names.
const (
	IntrinsicNull    = "null"
	IntrinsicNever   = "never"
	IntrinsicUnknown = "unknown"
	IntrinsicVoid    = "void"
	IntrinsicError   = "ErrorType"
)

// Program is a complete type graph: the global namespace, the built-in
// namespace and the instantiated Array/Record templates.
type Program struct {
	global     *Namespace
	std        *Namespace
	scalars    map[Std]*Scalar
	intrinsics map[string]*Intrinsic
	arrays     map[Type]*Model
	records    map[Type]*Model
}

// NewProgram returns a program holding only the built-in namespace.
func NewProgram() *Program {
	p := &Program{
		global:     &Namespace{},
		scalars:    make(map[Std]*Scalar, len(stdScalars)),
		intrinsics: make(map[string]*Intrinsic),
		arrays:     make(map[Type]*Model),
		records:    make(map[Type]*Model),
	}
	p.std = p.global.AddNamespace(&Namespace{Name: StdNamespaceName})
	for _, s := range stdScalars {
		p.scalars[s.name] = p.std.AddScalar(&Scalar{Name: string(s.name), BaseScalar: p.scalars[s.base]})
	}
	for _, name := range []string{IntrinsicNull, IntrinsicNever, IntrinsicUnknown, IntrinsicVoid, IntrinsicError} {
		p.intrinsics[name] = &Intrinsic{Name: name}
	}
	return p
}

// GlobalNamespace returns the root namespace.
func (p *Program) GlobalNamespace() *Namespace { return p.global }

// StdNamespace returns the built-in "TypeSpec" namespace.
func (p *Program) StdNamespace() *Namespace { return p.std }

// Std returns the standard scalar with the given name, or nil.
func (p *Program) Std(name Std) *Scalar { return p.scalars[name] }

// Intrinsic returns the intrinsic with the given name, or nil.
func (p *Program) Intrinsic(name string) *Intrinsic { return p.intrinsics[name] }

// Namespace returns the namespace at the dotted path, creating missing
// segments under the global namespace. An empty path is the global namespace.
func (p *Program) Namespace(path string) *Namespace {
	ns := p.global
	if path == "" {
		return ns
	}
	for _, seg := range strings.Split(path, ".") {
		c := ns.Child(seg)
		if c == nil {
			c = ns.AddNamespace(&Namespace{Name: seg})
		}
		ns = c
	}
	return ns
}

// ArrayOf returns the Array instantiation for elem.
func (p *Program) ArrayOf(elem Type) *Model {
	if m, ok := p.arrays[elem]; ok {
		return m
	}
	m := &Model{Name: "Array", Namespace: p.std, Indexer: &Indexer{Key: p.scalars[StdInteger], Value: elem}}
	p.arrays[elem] = m
	return m
}

// RecordOf returns the Record instantiation for elem.
func (p *Program) RecordOf(elem Type) *Model {
	if m, ok := p.records[elem]; ok {
		return m
	}
	m := &Model{Name: "Record", Namespace: p.std, Indexer: &Indexer{Key: p.scalars[StdString], Value: elem}}
	p.records[elem] = m
	return m
}

// IsArray reports whether t is a model indexed by integer.
func (p *Program) IsArray(t Type) bool {
	m, ok := t.(*Model)
	return ok && m.Indexer != nil && m.Indexer.Key == Type(p.scalars[StdInteger])
}

// IsRecord reports whether t is a model indexed by string.
func (p *Program) IsRecord(t Type) bool {
	m, ok := t.(*Model)
	return ok && m.Indexer != nil && m.Indexer.Key == Type(p.scalars[StdString])
}

// IsStd reports whether t is declared in the built-in namespace.
func (p *Program) IsStd(t Type) bool {
	return NamespaceOf(t) == p.std
}

// Extends reports whether t is a scalar equal to or derived from std.
func (p *Program) Extends(t Type, std Std) bool {
	s, ok := t.(*Scalar)
	if !ok {
		return false
	}
	target := p.scalars[std]
	for ; s != nil; s = s.BaseScalar {
		if s == target {
			return true
		}
	}
	return false
}

// StdBase returns the nearest built-in ancestor of t, or nil.
func (p *Program) StdBase(t Type) *Scalar {
	s, ok := t.(*Scalar)
	if !ok {
		return nil
	}
	for ; s != nil; s = s.BaseScalar {
		if s.Namespace == p.std {
			return s
		}
	}
	return nil
}

// Encoding returns the encoding declared on a scalar, or nil.
func (p *Program) Encoding(t Type) *Encoding {
	if s, ok := t.(*Scalar); ok {
		return s.Encoding
	}
	return nil
}

// Doc returns the documentation attached to t.
func (p *Program) Doc(t Type) string {
	switch t := t.(type) {
	case *Namespace:
		return t.Doc
	case *Model:
		return t.Doc
	case *ModelProperty:
		return t.Doc
	case *Scalar:
		return t.Doc
	case *Enum:
		return t.Doc
	case *EnumMember:
		return t.Doc
	case *Union:
		return t.Doc
	case *UnionVariant:
		return t.Doc
	default:
		return ""
	}
}

// Constraints returns the decorator constraints declared on t.
func (p *Program) Constraints(t Type) Constraints {
	switch t := t.(type) {
	case *Model:
		return t.Constraints
	case *ModelProperty:
		return t.Constraints
	case *Scalar:
		return t.Constraints
	default:
		return Constraints{}
	}
}

// Discriminator returns the discriminated options of u with defaults
// applied, or nil when u is not discriminated.
func (p *Program) Discriminator(u *Union) *Discriminated {
	if u.Discriminated == nil {
		return nil
	}
	d := *u.Discriminated
	if d.Envelope == "" {
		d.Envelope = EnvelopeObject
	}
	if d.DiscriminatorPropertyName == "" {
		d.DiscriminatorPropertyName = "kind"
	}
	if d.EnvelopePropertyName == "" {
		d.EnvelopePropertyName = "value"
	}
	return &d
}

// CreateModel returns a new anonymous model with the given properties.
func (p *Program) CreateModel(props ...*ModelProperty) *Model {
	m := &Model{}
	for _, prop := range props {
		m.AddProperty(prop)
	}
	return m
}

// CreateProperty returns a new detached required property.
func (p *Program) CreateProperty(name string, t Type) *ModelProperty {
	return &ModelProperty{Name: name, Type: t}
}

// CreateLiteral returns the literal type for a string, bool or number.
func (p *Program) CreateLiteral(v any) Type {
	switch v := v.(type) {
	case string:
		return &StringLiteral{Value: v}
	case bool:
		return &BooleanLiteral{Value: v}
	}
	if n, ok := NumericOf(v); ok {
		return &NumberLiteral{Value: n}
	}
	return p.intrinsics[IntrinsicError]
}

// UnionFromEnum returns a union expression of the literal values of e's
// members, in member order.
func (p *Program) UnionFromEnum(e *Enum) *Union {
	u := &Union{}
	for _, m := range e.Members {
		var lit Type
		if m.Value != nil {
			lit = p.CreateLiteral(m.Value)
		} else {
			lit = p.CreateLiteral(m.Name)
		}
		u.AddVariant(&UnionVariant{Name: m.Name, Type: lit})
	}
	return u
}
