package load

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/zodgen/typegraph"
)

// Document is one input file decoded into declarations. Type references
// are kept as type expressions (see ParseTypeExpr) and resolved once every
// document of a load is declared.
type Document struct {
	Path       string           `yaml:"-" json:"-"`
	Namespace  string           `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	Doc        string           `yaml:"doc,omitempty" json:"doc,omitempty"`
	Models     []*ModelDecl     `yaml:"models,omitempty" json:"models,omitempty"`
	Scalars    []*ScalarDecl    `yaml:"scalars,omitempty" json:"scalars,omitempty"`
	Enums      []*EnumDecl      `yaml:"enums,omitempty" json:"enums,omitempty"`
	Unions     []*UnionDecl     `yaml:"unions,omitempty" json:"unions,omitempty"`
	Operations []*OperationDecl `yaml:"operations,omitempty" json:"operations,omitempty"`
	Interfaces []*InterfaceDecl `yaml:"interfaces,omitempty" json:"interfaces,omitempty"`
}

// ModelDecl declares a model. Array and Record make it a declared array or
// record of the given element type.
type ModelDecl struct {
	Name        string          `yaml:"name" json:"name"`
	Doc         string          `yaml:"doc,omitempty" json:"doc,omitempty"`
	Extends     string          `yaml:"extends,omitempty" json:"extends,omitempty"`
	Array       string          `yaml:"array,omitempty" json:"array,omitempty"`
	Record      string          `yaml:"record,omitempty" json:"record,omitempty"`
	Properties  []*PropertyDecl `yaml:"properties,omitempty" json:"properties,omitempty"`
	Constraints `yaml:",inline"`
	Line        int `yaml:"-" json:"-"`
}

// PropertyDecl declares a model property.
type PropertyDecl struct {
	Name        string `yaml:"name" json:"name"`
	Type        string `yaml:"type" json:"type"`
	Optional    bool   `yaml:"optional,omitempty" json:"optional,omitempty"`
	Default     *Value `yaml:"default,omitempty" json:"default,omitempty"`
	Doc         string `yaml:"doc,omitempty" json:"doc,omitempty"`
	Constraints `yaml:",inline"`
	Line        int `yaml:"-" json:"-"`
}

// ScalarDecl declares a scalar derived from a base scalar.
type ScalarDecl struct {
	Name        string        `yaml:"name" json:"name"`
	Doc         string        `yaml:"doc,omitempty" json:"doc,omitempty"`
	Extends     string        `yaml:"extends,omitempty" json:"extends,omitempty"`
	Encoding    *EncodingDecl `yaml:"encoding,omitempty" json:"encoding,omitempty"`
	Constraints `yaml:",inline"`
	Line        int `yaml:"-" json:"-"`
}

// EncodingDecl is the wire encoding of a scalar.
type EncodingDecl struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
}

// EnumDecl declares an enum.
type EnumDecl struct {
	Name    string        `yaml:"name" json:"name"`
	Doc     string        `yaml:"doc,omitempty" json:"doc,omitempty"`
	Members []*MemberDecl `yaml:"members" json:"members"`
	Line    int           `yaml:"-" json:"-"`
}

// MemberDecl declares an enum member. Value is a string, a number or
// absent.
type MemberDecl struct {
	Name  string `yaml:"name" json:"name"`
	Value *Value `yaml:"value,omitempty" json:"value,omitempty"`
	Doc   string `yaml:"doc,omitempty" json:"doc,omitempty"`
}

// UnionDecl declares a named union.
type UnionDecl struct {
	Name          string             `yaml:"name" json:"name"`
	Doc           string             `yaml:"doc,omitempty" json:"doc,omitempty"`
	Discriminated *DiscriminatedDecl `yaml:"discriminated,omitempty" json:"discriminated,omitempty"`
	Variants      []*VariantDecl     `yaml:"variants" json:"variants"`
	Line          int                `yaml:"-" json:"-"`
}

// DiscriminatedDecl holds the options of a discriminated union. Empty
// fields take the type system defaults.
type DiscriminatedDecl struct {
	Envelope              string `yaml:"envelope,omitempty" json:"envelope,omitempty"`
	DiscriminatorProperty string `yaml:"discriminatorPropertyName,omitempty" json:"discriminatorPropertyName,omitempty"`
	EnvelopeProperty      string `yaml:"envelopePropertyName,omitempty" json:"envelopePropertyName,omitempty"`
}

// VariantDecl declares a union variant.
type VariantDecl struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	Type string `yaml:"type" json:"type"`
	Doc  string `yaml:"doc,omitempty" json:"doc,omitempty"`
}

// OperationDecl declares an operation.
type OperationDecl struct {
	Name       string          `yaml:"name" json:"name"`
	Parameters []*PropertyDecl `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Returns    string          `yaml:"returns,omitempty" json:"returns,omitempty"`
	Line       int             `yaml:"-" json:"-"`
}

// InterfaceDecl declares an interface grouping operations.
type InterfaceDecl struct {
	Name       string           `yaml:"name" json:"name"`
	Operations []*OperationDecl `yaml:"operations" json:"operations"`
	Line       int              `yaml:"-" json:"-"`
}

// Constraints are the validation decorators accepted on models, properties
// and scalars.
type Constraints struct {
	MinValue          *Number  `yaml:"minValue,omitempty" json:"minValue,omitempty"`
	MaxValue          *Number  `yaml:"maxValue,omitempty" json:"maxValue,omitempty"`
	MinValueExclusive *Number  `yaml:"minValueExclusive,omitempty" json:"minValueExclusive,omitempty"`
	MaxValueExclusive *Number  `yaml:"maxValueExclusive,omitempty" json:"maxValueExclusive,omitempty"`
	MinLength         *float64 `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	MaxLength         *float64 `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	MinItems          *int64   `yaml:"minItems,omitempty" json:"minItems,omitempty"`
	MaxItems          *int64   `yaml:"maxItems,omitempty" json:"maxItems,omitempty"`
	Pattern           string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Format            string   `yaml:"format,omitempty" json:"format,omitempty"`
}

func (c Constraints) typegraph() typegraph.Constraints {
	return typegraph.Constraints{
		MinValue:          c.MinValue.numeric(),
		MaxValue:          c.MaxValue.numeric(),
		MinValueExclusive: c.MinValueExclusive.numeric(),
		MaxValueExclusive: c.MaxValueExclusive.numeric(),
		MinLength:         c.MinLength,
		MaxLength:         c.MaxLength,
		MinItems:          c.MinItems,
		MaxItems:          c.MaxItems,
		Pattern:           c.Pattern,
		Format:            c.Format,
	}
}

// Number is an exact numeric bound. It accepts YAML and JSON numbers as
// well as strings, so bounds beyond float64 precision survive decoding.
type Number struct {
	typegraph.Numeric
}

func (n *Number) numeric() *typegraph.Numeric {
	if n == nil {
		return nil
	}
	v := n.Numeric
	return &v
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Number) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", node.Line)
	}
	return n.parse(node.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	return n.parse(strings.Trim(string(b), `"`))
}

func (n *Number) parse(s string) error {
	v, err := typegraph.ParseNumeric(s)
	if err != nil {
		return err
	}
	n.Numeric = v
	return nil
}

// The line of a declaration is recorded while decoding YAML.

func (d *ModelDecl) UnmarshalYAML(node *yaml.Node) error {
	type plain ModelDecl
	return decodeAt(node, (*plain)(d), &d.Line)
}

func (d *PropertyDecl) UnmarshalYAML(node *yaml.Node) error {
	type plain PropertyDecl
	return decodeAt(node, (*plain)(d), &d.Line)
}

func (d *ScalarDecl) UnmarshalYAML(node *yaml.Node) error {
	type plain ScalarDecl
	return decodeAt(node, (*plain)(d), &d.Line)
}

func (d *EnumDecl) UnmarshalYAML(node *yaml.Node) error {
	type plain EnumDecl
	return decodeAt(node, (*plain)(d), &d.Line)
}

func (d *UnionDecl) UnmarshalYAML(node *yaml.Node) error {
	type plain UnionDecl
	return decodeAt(node, (*plain)(d), &d.Line)
}

func (d *OperationDecl) UnmarshalYAML(node *yaml.Node) error {
	type plain OperationDecl
	return decodeAt(node, (*plain)(d), &d.Line)
}

func (d *InterfaceDecl) UnmarshalYAML(node *yaml.Node) error {
	type plain InterfaceDecl
	return decodeAt(node, (*plain)(d), &d.Line)
}

func decodeAt[T any](node *yaml.Node, v *T, line *int) error {
	if err := node.Decode(v); err != nil {
		return err
	}
	*line = node.Line
	return nil
}
