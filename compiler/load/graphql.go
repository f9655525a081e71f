package load

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/syssam/zodgen"
	"github.com/syssam/zodgen/typegraph"
)

// GraphQLPrelude declares the directives the GraphQL frontend understands.
// Input files may include it so editors and other tools accept them; the
// frontend itself does not require the declarations.
const GraphQLPrelude = `
directive @namespace(name: String!) on SCHEMA
directive @extends(type: String!) on SCALAR
directive @encode(name: String!, type: String) on SCALAR
directive @minValue(value: String!) on SCALAR | FIELD_DEFINITION | ARGUMENT_DEFINITION | INPUT_FIELD_DEFINITION
directive @maxValue(value: String!) on SCALAR | FIELD_DEFINITION | ARGUMENT_DEFINITION | INPUT_FIELD_DEFINITION
directive @minValueExclusive(value: String!) on SCALAR | FIELD_DEFINITION | ARGUMENT_DEFINITION | INPUT_FIELD_DEFINITION
directive @maxValueExclusive(value: String!) on SCALAR | FIELD_DEFINITION | ARGUMENT_DEFINITION | INPUT_FIELD_DEFINITION
directive @minLength(value: Int!) on SCALAR | FIELD_DEFINITION | ARGUMENT_DEFINITION | INPUT_FIELD_DEFINITION
directive @maxLength(value: Int!) on SCALAR | FIELD_DEFINITION | ARGUMENT_DEFINITION | INPUT_FIELD_DEFINITION
directive @minItems(value: Int!) on OBJECT | INPUT_OBJECT | FIELD_DEFINITION | ARGUMENT_DEFINITION | INPUT_FIELD_DEFINITION
directive @maxItems(value: Int!) on OBJECT | INPUT_OBJECT | FIELD_DEFINITION | ARGUMENT_DEFINITION | INPUT_FIELD_DEFINITION
directive @pattern(value: String!) on SCALAR | FIELD_DEFINITION | ARGUMENT_DEFINITION | INPUT_FIELD_DEFINITION
directive @format(value: String!) on SCALAR | FIELD_DEFINITION | ARGUMENT_DEFINITION | INPUT_FIELD_DEFINITION
directive @value(value: String!) on ENUM_VALUE
directive @discriminated(envelope: String, discriminatorPropertyName: String, envelopePropertyName: String) on UNION
`

// GraphQL built-in scalars and the standard scalars they map to.
var graphqlScalars = map[string]typegraph.Std{
	"String":  typegraph.StdString,
	"Int":     typegraph.StdInt32,
	"Float":   typegraph.StdFloat64,
	"Boolean": typegraph.StdBoolean,
	"ID":      typegraph.StdString,
}

// ParseGraphQL decodes a GraphQL SDL document. Object, input and interface
// types become models, the root operation types become interfaces whose
// fields are operations, and directives carry namespaces and constraints.
// Nullable fields are optional properties.
func ParseGraphQL(path string, src []byte) (*Document, error) {
	sd, err := parser.ParseSchema(&ast.Source{Name: path, Input: string(src)})
	if err != nil {
		line := 0
		var gerr *gqlerror.Error
		if errors.As(err, &gerr) && len(gerr.Locations) > 0 {
			line = gerr.Locations[0].Line
		}
		return nil, zodgen.NewSchemaError(path, line, "", "parse graphql", err)
	}
	c := &gqlConverter{
		doc:   &Document{Path: path},
		roots: map[string]bool{"Query": true, "Mutation": true, "Subscription": true},
	}
	c.schema(sd)
	for _, def := range sd.Definitions {
		c.definition(def)
	}
	for _, ext := range sd.Extensions {
		c.extension(ext)
	}
	if len(c.errs) > 0 {
		return nil, errors.Join(c.errs...)
	}
	return c.doc, nil
}

type gqlConverter struct {
	doc    *Document
	roots  map[string]bool
	models map[string]*ModelDecl
	ifaces map[string]*InterfaceDecl
	errs   []error
}

func (c *gqlConverter) errorf(pos *ast.Position, name, format string, args ...any) {
	line := 0
	if pos != nil {
		line = pos.Line
	}
	c.errs = append(c.errs, zodgen.NewSchemaError(c.doc.Path, line, name, fmt.Sprintf(format, args...), nil))
}

// schema reads the namespace and the root operation type names from the
// schema definition and its extensions.
func (c *gqlConverter) schema(sd *ast.SchemaDocument) {
	defs := append(append(ast.SchemaDefinitionList{}, sd.Schema...), sd.SchemaExtension...)
	for _, def := range defs {
		if d := def.Directives.ForName("namespace"); d != nil {
			if name, ok := c.stringArg(d, "name"); ok {
				c.doc.Namespace = name
			}
		}
		if def.Description != "" {
			c.doc.Doc = def.Description
		}
		if len(def.OperationTypes) > 0 {
			c.roots = map[string]bool{}
		}
	}
	for _, def := range defs {
		for _, op := range def.OperationTypes {
			c.roots[op.Type] = true
		}
	}
}

func (c *gqlConverter) definition(def *ast.Definition) {
	switch def.Kind {
	case ast.Scalar:
		c.scalar(def)
	case ast.Enum:
		c.enum(def)
	case ast.Union:
		c.union(def)
	case ast.Object, ast.InputObject, ast.Interface:
		if def.Kind == ast.Object && c.roots[def.Name] {
			c.root(def)
			return
		}
		c.model(def)
	}
}

// extension appends the fields of an "extend type" to the type declared in
// the same document.
func (c *gqlConverter) extension(ext *ast.Definition) {
	if d, ok := c.ifaces[ext.Name]; ok {
		for _, f := range ext.Fields {
			d.Operations = append(d.Operations, c.operation(ext.Name, f))
		}
		return
	}
	d, ok := c.models[ext.Name]
	if !ok {
		c.errorf(ext.Position, ext.Name, "extension of a type not declared in this document")
		return
	}
	for _, f := range ext.Fields {
		d.Properties = append(d.Properties, c.property(ext.Name, f.Name, f.Type, f.DefaultValue, f.Description, f.Directives, f.Position))
	}
}

func (c *gqlConverter) scalar(def *ast.Definition) {
	d := &ScalarDecl{Name: def.Name, Doc: def.Description, Line: line(def.Position)}
	if dir := def.Directives.ForName("extends"); dir != nil {
		if t, ok := c.stringArg(dir, "type"); ok {
			d.Extends = graphqlTypeName(t)
		}
	}
	if dir := def.Directives.ForName("encode"); dir != nil {
		enc := &EncodingDecl{}
		enc.Name, _ = c.stringArg(dir, "name")
		if arg := dir.Arguments.ForName("type"); arg != nil && arg.Value != nil {
			enc.Type = graphqlTypeName(arg.Value.Raw)
		}
		d.Encoding = enc
	}
	d.Constraints = c.constraints(def.Name, def.Directives)
	c.doc.Scalars = append(c.doc.Scalars, d)
}

func (c *gqlConverter) enum(def *ast.Definition) {
	d := &EnumDecl{Name: def.Name, Doc: def.Description, Line: line(def.Position)}
	for _, ev := range def.EnumValues {
		m := &MemberDecl{Name: ev.Name, Doc: ev.Description}
		if dir := ev.Directives.ForName("value"); dir != nil {
			if arg := dir.Arguments.ForName("value"); arg != nil && arg.Value != nil {
				switch arg.Value.Kind {
				case ast.IntValue, ast.FloatValue:
					num, err := typegraph.ParseNumeric(arg.Value.Raw)
					if err != nil {
						c.errorf(ev.Position, def.Name, "enum value %s: %v", ev.Name, err)
						continue
					}
					m.Value = &Value{typegraph.NumberValue(num)}
				default:
					m.Value = &Value{typegraph.StringValue(arg.Value.Raw)}
				}
			}
		}
		d.Members = append(d.Members, m)
	}
	c.doc.Enums = append(c.doc.Enums, d)
}

func (c *gqlConverter) union(def *ast.Definition) {
	d := &UnionDecl{Name: def.Name, Doc: def.Description, Line: line(def.Position)}
	if dir := def.Directives.ForName("discriminated"); dir != nil {
		dd := &DiscriminatedDecl{}
		dd.Envelope, _ = c.optionalStringArg(dir, "envelope")
		dd.DiscriminatorProperty, _ = c.optionalStringArg(dir, "discriminatorPropertyName")
		dd.EnvelopeProperty, _ = c.optionalStringArg(dir, "envelopePropertyName")
		d.Discriminated = dd
	}
	for _, t := range def.Types {
		d.Variants = append(d.Variants, &VariantDecl{Name: t, Type: graphqlTypeName(t)})
	}
	c.doc.Unions = append(c.doc.Unions, d)
}

func (c *gqlConverter) model(def *ast.Definition) {
	d := &ModelDecl{Name: def.Name, Doc: def.Description, Line: line(def.Position)}
	for _, f := range def.Fields {
		d.Properties = append(d.Properties, c.property(def.Name, f.Name, f.Type, f.DefaultValue, f.Description, f.Directives, f.Position))
	}
	cons := c.constraints(def.Name, def.Directives)
	d.MinItems, d.MaxItems = cons.MinItems, cons.MaxItems
	if c.models == nil {
		c.models = map[string]*ModelDecl{}
	}
	c.models[def.Name] = d
	c.doc.Models = append(c.doc.Models, d)
}

// root turns a root operation type into an interface.
func (c *gqlConverter) root(def *ast.Definition) {
	d := &InterfaceDecl{Name: def.Name, Line: line(def.Position)}
	for _, f := range def.Fields {
		d.Operations = append(d.Operations, c.operation(def.Name, f))
	}
	if c.ifaces == nil {
		c.ifaces = map[string]*InterfaceDecl{}
	}
	c.ifaces[def.Name] = d
	c.doc.Interfaces = append(c.doc.Interfaces, d)
}

func (c *gqlConverter) operation(owner string, f *ast.FieldDefinition) *OperationDecl {
	op := &OperationDecl{Name: f.Name, Line: line(f.Position)}
	for _, a := range f.Arguments {
		op.Parameters = append(op.Parameters, c.property(owner+"."+f.Name, a.Name, a.Type, a.DefaultValue, a.Description, a.Directives, a.Position))
	}
	ret, nullable := graphqlType(f.Type)
	if nullable {
		ret += " | null"
	}
	op.Returns = ret
	return op
}

func (c *gqlConverter) property(owner, name string, t *ast.Type, def *ast.Value, doc string, dirs ast.DirectiveList, pos *ast.Position) *PropertyDecl {
	p := &PropertyDecl{Name: name, Doc: doc, Line: line(pos)}
	p.Type, p.Optional = graphqlType(t)
	p.Constraints = c.constraints(owner, dirs)
	if def != nil {
		v, err := graphqlValue(def)
		if err != nil {
			c.errorf(pos, owner, "default of %s: %v", name, err)
		} else {
			p.Default = &Value{v}
		}
	}
	return p
}

// constraints reads the constraint directives of a declaration.
func (c *gqlConverter) constraints(owner string, dirs ast.DirectiveList) Constraints {
	var cons Constraints
	number := func(name string) *Number {
		d := dirs.ForName(name)
		if d == nil {
			return nil
		}
		raw, ok := c.rawArg(d, "value")
		if !ok {
			return nil
		}
		n, err := typegraph.ParseNumeric(raw)
		if err != nil {
			c.errorf(d.Position, owner, "@%s: %v", name, err)
			return nil
		}
		return &Number{n}
	}
	cons.MinValue = number("minValue")
	cons.MaxValue = number("maxValue")
	cons.MinValueExclusive = number("minValueExclusive")
	cons.MaxValueExclusive = number("maxValueExclusive")
	if n := number("minLength"); n != nil {
		f := n.Float64()
		cons.MinLength = &f
	}
	if n := number("maxLength"); n != nil {
		f := n.Float64()
		cons.MaxLength = &f
	}
	if n := number("minItems"); n != nil {
		i := int64(n.Float64())
		cons.MinItems = &i
	}
	if n := number("maxItems"); n != nil {
		i := int64(n.Float64())
		cons.MaxItems = &i
	}
	if d := dirs.ForName("pattern"); d != nil {
		cons.Pattern, _ = c.stringArg(d, "value")
	}
	if d := dirs.ForName("format"); d != nil {
		cons.Format, _ = c.stringArg(d, "value")
	}
	return cons
}

func (c *gqlConverter) rawArg(d *ast.Directive, name string) (string, bool) {
	arg := d.Arguments.ForName(name)
	if arg == nil || arg.Value == nil {
		c.errorf(d.Position, "", "@%s requires argument %q", d.Name, name)
		return "", false
	}
	return arg.Value.Raw, true
}

func (c *gqlConverter) stringArg(d *ast.Directive, name string) (string, bool) {
	raw, ok := c.rawArg(d, name)
	if ok && raw == "" {
		c.errorf(d.Position, "", "@%s argument %q is empty", d.Name, name)
		return "", false
	}
	return raw, ok
}

func (c *gqlConverter) optionalStringArg(d *ast.Directive, name string) (string, bool) {
	arg := d.Arguments.ForName(name)
	if arg == nil || arg.Value == nil {
		return "", false
	}
	return arg.Value.Raw, true
}

// graphqlType returns the type expression of t and whether it is nullable.
func graphqlType(t *ast.Type) (string, bool) {
	if t == nil {
		return "", true
	}
	var expr string
	if t.Elem != nil {
		elem, nullable := graphqlType(t.Elem)
		if nullable {
			expr = "(" + elem + " | null)[]"
		} else {
			expr = elem + "[]"
		}
	} else {
		expr = graphqlTypeName(t.NamedType)
	}
	return expr, !t.NonNull
}

func graphqlTypeName(name string) string {
	if std, ok := graphqlScalars[name]; ok {
		return string(std)
	}
	return name
}

// graphqlValue converts a constant GraphQL value. Enum values become their
// name as a string.
func graphqlValue(v *ast.Value) (*typegraph.Value, error) {
	switch v.Kind {
	case ast.NullValue:
		return typegraph.NullValue(), nil
	case ast.IntValue, ast.FloatValue:
		num, err := typegraph.ParseNumeric(v.Raw)
		if err != nil {
			return nil, err
		}
		return typegraph.NumberValue(num), nil
	case ast.StringValue, ast.BlockValue, ast.EnumValue:
		return typegraph.StringValue(v.Raw), nil
	case ast.BooleanValue:
		return typegraph.BoolValue(strings.EqualFold(v.Raw, "true")), nil
	case ast.ListValue:
		items := make([]*typegraph.Value, 0, len(v.Children))
		for _, child := range v.Children {
			it, err := graphqlValue(child.Value)
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		}
		return typegraph.ArrayValue(items...), nil
	case ast.ObjectValue:
		fields := make([]typegraph.ValueField, 0, len(v.Children))
		for _, child := range v.Children {
			fv, err := graphqlValue(child.Value)
			if err != nil {
				return nil, err
			}
			fields = append(fields, typegraph.ValueField{Name: child.Name, Value: fv})
		}
		return typegraph.ObjectValue(fields...), nil
	default:
		return nil, fmt.Errorf("unsupported value %s", v.String())
	}
}

func line(pos *ast.Position) int {
	if pos == nil {
		return 0
	}
	return pos.Line
}
