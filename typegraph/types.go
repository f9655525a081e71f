// Package typegraph models the typed graph that zodgen translates into Zod
// schemas: namespaces, models, scalars, enums, unions, tuples, literals and
// the decorator metadata attached to them.
//
// Nodes are compared by pointer identity. A Program owns the global
// namespace and the built-in "TypeSpec" namespace holding the standard
// scalars, intrinsics and the Array/Record templates.
package typegraph

// Kind is the kind tag of a type node.
type Kind string

// Node kinds.
const (
	KindNamespace     Kind = "Namespace"
	KindInterface     Kind = "Interface"
	KindOperation     Kind = "Operation"
	KindModel         Kind = "Model"
	KindModelProperty Kind = "ModelProperty"
	KindScalar        Kind = "Scalar"
	KindEnum          Kind = "Enum"
	KindEnumMember    Kind = "EnumMember"
	KindUnion         Kind = "Union"
	KindUnionVariant  Kind = "UnionVariant"
	KindTuple         Kind = "Tuple"
	KindIntrinsic     Kind = "Intrinsic"
	KindString        Kind = "String"
	KindNumber        Kind = "Number"
	KindBoolean       Kind = "Boolean"
)

// Kinds lists every node kind.
var Kinds = []Kind{
	KindNamespace, KindInterface, KindOperation, KindModel, KindModelProperty,
	KindScalar, KindEnum, KindEnumMember, KindUnion, KindUnionVariant,
	KindTuple, KindIntrinsic, KindString, KindNumber, KindBoolean,
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, v := range Kinds {
		if v == k {
			return true
		}
	}
	return false
}

// Type is a node of the type graph.
type Type interface {
	Kind() Kind
}

type (
	// Namespace groups declarations. The global namespace has no parent.
	Namespace struct {
		Name       string
		Namespace  *Namespace
		Namespaces []*Namespace
		Models     []*Model
		Scalars    []*Scalar
		Enums      []*Enum
		Unions     []*Union
		Interfaces []*Interface
		Operations []*Operation
		Doc        string
	}

	// Model is a structured type with ordered properties, an optional base
	// model and an optional indexer (arrays and records).
	Model struct {
		Name        string
		Namespace   *Namespace
		Properties  []*ModelProperty
		BaseModel   *Model
		Indexer     *Indexer
		Constraints Constraints // MinItems, MaxItems
		Doc         string
	}

	// Indexer is the key/value signature of an array or record model.
	Indexer struct {
		Key   Type
		Value Type
	}

	// ModelProperty is a named member of a model.
	ModelProperty struct {
		Name        string
		Type        Type
		Optional    bool
		Default     *Value
		Model       *Model
		Constraints Constraints
		Doc         string
	}

	// Scalar is a primitive type, optionally derived from a base scalar.
	Scalar struct {
		Name        string
		Namespace   *Namespace
		BaseScalar  *Scalar
		Encoding    *Encoding
		Constraints Constraints
		Doc         string
	}

	// Encoding describes how a scalar is represented on the wire,
	// e.g. a utcDateTime encoded as an int32 unixTimestamp.
	Encoding struct {
		Name string
		Type *Scalar
	}

	// Enum is a closed set of named members.
	Enum struct {
		Name      string
		Namespace *Namespace
		Members   []*EnumMember
		Doc       string
	}

	// EnumMember is a member of an enum. Value is a string, a Numeric or nil.
	EnumMember struct {
		Name  string
		Value any
		Enum  *Enum
		Doc   string
	}

	// Union is a set of variants. Unnamed unions are union expressions.
	Union struct {
		Name          string
		Namespace     *Namespace
		Variants      []*UnionVariant
		Discriminated *Discriminated
		Doc           string
	}

	// UnionVariant is one alternative of a union.
	UnionVariant struct {
		Name  string
		Type  Type
		Union *Union
		Doc   string
	}

	// Discriminated holds the options of a discriminated union.
	Discriminated struct {
		Envelope                  Envelope
		DiscriminatorPropertyName string
		EnvelopePropertyName      string
	}

	// Tuple is a fixed-length ordered list of types.
	Tuple struct {
		Values []Type
	}

	// Intrinsic is one of null, never, unknown, void or ErrorType.
	Intrinsic struct {
		Name string
	}

	// StringLiteral is a string literal type.
	StringLiteral struct {
		Value string
	}

	// NumberLiteral is a numeric literal type.
	NumberLiteral struct {
		Value Numeric
	}

	// BooleanLiteral is a boolean literal type.
	BooleanLiteral struct {
		Value bool
	}

	// Interface groups operations.
	Interface struct {
		Name       string
		Namespace  *Namespace
		Operations []*Operation
	}

	// Operation is a callable with a parameters model and a return type.
	Operation struct {
		Name       string
		Namespace  *Namespace
		Interface  *Interface
		Parameters *Model
		ReturnType Type
	}
)

// Envelope is the shape of discriminated union variants.
type Envelope string

// Envelope values.
const (
	EnvelopeObject Envelope = "object"
	EnvelopeNone   Envelope = "none"
)

// Constraints holds the decorator constraints declared on a node.
// Nil pointers and empty strings mean "not declared".
type Constraints struct {
	MinValue          *Numeric
	MaxValue          *Numeric
	MinValueExclusive *Numeric
	MaxValueExclusive *Numeric
	MinLength         *float64
	MaxLength         *float64
	MinItems          *int64
	MaxItems          *int64
	Pattern           string
	Format            string
}

func (*Namespace) Kind() Kind      { return KindNamespace }
func (*Model) Kind() Kind          { return KindModel }
func (*ModelProperty) Kind() Kind  { return KindModelProperty }
func (*Scalar) Kind() Kind         { return KindScalar }
func (*Enum) Kind() Kind           { return KindEnum }
func (*EnumMember) Kind() Kind     { return KindEnumMember }
func (*Union) Kind() Kind          { return KindUnion }
func (*UnionVariant) Kind() Kind   { return KindUnionVariant }
func (*Tuple) Kind() Kind          { return KindTuple }
func (*Intrinsic) Kind() Kind      { return KindIntrinsic }
func (*StringLiteral) Kind() Kind  { return KindString }
func (*NumberLiteral) Kind() Kind  { return KindNumber }
func (*BooleanLiteral) Kind() Kind { return KindBoolean }
func (*Interface) Kind() Kind      { return KindInterface }
func (*Operation) Kind() Kind      { return KindOperation }

// AddNamespace appends a child namespace.
func (n *Namespace) AddNamespace(c *Namespace) *Namespace {
	c.Namespace = n
	n.Namespaces = append(n.Namespaces, c)
	return c
}

// AddModel appends a model to the namespace.
func (n *Namespace) AddModel(m *Model) *Model {
	m.Namespace = n
	n.Models = append(n.Models, m)
	return m
}

// AddScalar appends a scalar to the namespace.
func (n *Namespace) AddScalar(s *Scalar) *Scalar {
	s.Namespace = n
	n.Scalars = append(n.Scalars, s)
	return s
}

// AddEnum appends an enum to the namespace.
func (n *Namespace) AddEnum(e *Enum) *Enum {
	e.Namespace = n
	n.Enums = append(n.Enums, e)
	return e
}

// AddUnion appends a union to the namespace.
func (n *Namespace) AddUnion(u *Union) *Union {
	u.Namespace = n
	n.Unions = append(n.Unions, u)
	return u
}

// AddInterface appends an interface to the namespace.
func (n *Namespace) AddInterface(i *Interface) *Interface {
	i.Namespace = n
	n.Interfaces = append(n.Interfaces, i)
	return i
}

// AddOperation appends an operation to the namespace.
func (n *Namespace) AddOperation(o *Operation) *Operation {
	o.Namespace = n
	n.Operations = append(n.Operations, o)
	return o
}

// Child returns the direct child namespace with the given name, or nil.
func (n *Namespace) Child(name string) *Namespace {
	for _, c := range n.Namespaces {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Lookup returns the declaration named name in n, or nil.
func (n *Namespace) Lookup(name string) Type {
	for _, m := range n.Models {
		if m.Name == name {
			return m
		}
	}
	for _, s := range n.Scalars {
		if s.Name == name {
			return s
		}
	}
	for _, e := range n.Enums {
		if e.Name == name {
			return e
		}
	}
	for _, u := range n.Unions {
		if u.Name == name {
			return u
		}
	}
	for _, i := range n.Interfaces {
		if i.Name == name {
			return i
		}
	}
	for _, o := range n.Operations {
		if o.Name == name {
			return o
		}
	}
	if c := n.Child(name); c != nil {
		return c
	}
	return nil
}

// FullName returns the dotted name of n, without the global namespace.
func (n *Namespace) FullName() string {
	if n == nil || n.Namespace == nil {
		return ""
	}
	if p := n.Namespace.FullName(); p != "" {
		return p + "." + n.Name
	}
	return n.Name
}

// AddProperty appends a property to the model.
func (m *Model) AddProperty(p *ModelProperty) *ModelProperty {
	p.Model = m
	m.Properties = append(m.Properties, p)
	return p
}

// Property returns the property with the given name, or nil.
func (m *Model) Property(name string) *ModelProperty {
	for _, p := range m.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// AddMember appends a member to the enum.
func (e *Enum) AddMember(m *EnumMember) *EnumMember {
	m.Enum = e
	e.Members = append(e.Members, m)
	return m
}

// Member returns the member with the given name, or nil.
func (e *Enum) Member(name string) *EnumMember {
	for _, m := range e.Members {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// AddVariant appends a variant to the union.
func (u *Union) AddVariant(v *UnionVariant) *UnionVariant {
	v.Union = u
	u.Variants = append(u.Variants, v)
	return v
}

// Variant returns the variant with the given name, or nil.
func (u *Union) Variant(name string) *UnionVariant {
	for _, v := range u.Variants {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// IsExpression reports whether u is an anonymous union expression.
func (u *Union) IsExpression() bool { return u.Name == "" }

// AddOperation appends an operation to the interface.
func (i *Interface) AddOperation(o *Operation) *Operation {
	o.Interface = i
	o.Namespace = i.Namespace
	i.Operations = append(i.Operations, o)
	return o
}

// Operation returns the operation with the given name, or nil.
func (i *Interface) Operation(name string) *Operation {
	for _, o := range i.Operations {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// Name returns the declared name of t, or "" for anonymous nodes.
func Name(t Type) string {
	switch t := t.(type) {
	case *Namespace:
		return t.Name
	case *Model:
		return t.Name
	case *ModelProperty:
		return t.Name
	case *Scalar:
		return t.Name
	case *Enum:
		return t.Name
	case *EnumMember:
		return t.Name
	case *Union:
		return t.Name
	case *UnionVariant:
		return t.Name
	case *Intrinsic:
		return t.Name
	case *Interface:
		return t.Name
	case *Operation:
		return t.Name
	default:
		return ""
	}
}

// NamespaceOf returns the namespace a node is declared in, or nil.
func NamespaceOf(t Type) *Namespace {
	switch t := t.(type) {
	case *Namespace:
		return t.Namespace
	case *Model:
		return t.Namespace
	case *Scalar:
		return t.Namespace
	case *Enum:
		return t.Namespace
	case *Union:
		return t.Namespace
	case *Interface:
		return t.Namespace
	case *Operation:
		return t.Namespace
	default:
		return nil
	}
}
