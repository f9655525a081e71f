package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/syssam/zodgen/compiler/load"
	"github.com/syssam/zodgen/internal/cli"
	"github.com/syssam/zodgen/typegraph"
)

var graphOut string

var graphCmd = &cobra.Command{
	Use:   "graph [inputs...]",
	Short: "Dump the resolved type graph as JSON",
	Long: `Load and resolve the input documents and print the declarations of every
namespace as JSON. Types are written as expressions: qualified names,
T[], Record<T>, unions, tuples and literals.`,
	Example: `  # Inspect the graph built from zodgen.yaml inputs
  zodgen graph

  # Write the graph of one document to a file
  zodgen graph schemas/api.graphql --out graph.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if graphOut != "" {
			f, err := os.Create(graphOut)
			if err != nil {
				return cli.GeneralError("creating output file", err)
			}
			defer f.Close()
			w = f
		}
		return dumpGraph(cmd.Context(), resolveInputs(args), w)
	},
}

func init() {
	graphCmd.Flags().StringVar(&graphOut, "out", "", "output file (default: stdout)")
}

func dumpGraph(ctx context.Context, inputs []string, w io.Writer) error {
	prog, err := load.New(load.WithLogger(logger)).Load(ctx, inputs...)
	if err != nil {
		return cli.Classify("loading schemas", err)
	}
	out, err := json.MarshalIndent(describe(prog), "", "  ")
	if err != nil {
		return cli.GeneralError("encoding graph", err)
	}
	if _, err := fmt.Fprintf(w, "%s\n", out); err != nil {
		return cli.GeneralError("writing graph", err)
	}
	return nil
}

type (
	graphNamespace struct {
		Name       string            `json:"name"`
		Doc        string            `json:"doc,omitempty"`
		Scalars    []graphScalar     `json:"scalars,omitempty"`
		Models     []graphModel      `json:"models,omitempty"`
		Enums      []graphEnum       `json:"enums,omitempty"`
		Unions     []graphUnion      `json:"unions,omitempty"`
		Interfaces []graphInterface  `json:"interfaces,omitempty"`
		Namespaces []*graphNamespace `json:"namespaces,omitempty"`
	}

	graphScalar struct {
		Name        string           `json:"name"`
		Extends     string           `json:"extends,omitempty"`
		Encoding    string           `json:"encoding,omitempty"`
		Constraints *graphConstraint `json:"constraints,omitempty"`
		Doc         string           `json:"doc,omitempty"`
	}

	graphModel struct {
		Name        string           `json:"name"`
		Extends     string           `json:"extends,omitempty"`
		Indexer     string           `json:"indexer,omitempty"`
		Properties  []graphProperty  `json:"properties,omitempty"`
		Constraints *graphConstraint `json:"constraints,omitempty"`
		Doc         string           `json:"doc,omitempty"`
	}

	graphProperty struct {
		Name        string           `json:"name"`
		Type        string           `json:"type"`
		Optional    bool             `json:"optional,omitempty"`
		Default     any              `json:"default,omitempty"`
		Constraints *graphConstraint `json:"constraints,omitempty"`
		Doc         string           `json:"doc,omitempty"`
	}

	graphEnum struct {
		Name    string            `json:"name"`
		Members []graphEnumMember `json:"members"`
		Doc     string            `json:"doc,omitempty"`
	}

	graphEnumMember struct {
		Name  string `json:"name"`
		Value any    `json:"value,omitempty"`
	}

	graphUnion struct {
		Name          string              `json:"name"`
		Variants      []graphVariant      `json:"variants"`
		Discriminated *graphDiscriminated `json:"discriminated,omitempty"`
		Doc           string              `json:"doc,omitempty"`
	}

	graphDiscriminated struct {
		Envelope              string `json:"envelope"`
		DiscriminatorProperty string `json:"discriminatorPropertyName"`
		EnvelopeProperty      string `json:"envelopePropertyName,omitempty"`
	}

	graphVariant struct {
		Name string `json:"name,omitempty"`
		Type string `json:"type"`
	}

	graphInterface struct {
		Name       string           `json:"name"`
		Operations []graphOperation `json:"operations"`
	}

	graphOperation struct {
		Name       string          `json:"name"`
		Parameters []graphProperty `json:"parameters,omitempty"`
		Returns    string          `json:"returns"`
	}

	graphConstraint struct {
		MinValue          *typegraph.Numeric `json:"minValue,omitempty"`
		MaxValue          *typegraph.Numeric `json:"maxValue,omitempty"`
		MinValueExclusive *typegraph.Numeric `json:"minValueExclusive,omitempty"`
		MaxValueExclusive *typegraph.Numeric `json:"maxValueExclusive,omitempty"`
		MinLength         *float64           `json:"minLength,omitempty"`
		MaxLength         *float64           `json:"maxLength,omitempty"`
		MinItems          *int64             `json:"minItems,omitempty"`
		MaxItems          *int64             `json:"maxItems,omitempty"`
		Pattern           string             `json:"pattern,omitempty"`
		Format            string             `json:"format,omitempty"`
	}
)

// describe returns the user namespaces of prog. The built-in namespace is
// left out.
func describe(prog *typegraph.Program) *graphNamespace {
	g := &graphDescriber{prog: prog}
	return g.namespace(prog.GlobalNamespace())
}

type graphDescriber struct {
	prog *typegraph.Program
}

func (g *graphDescriber) namespace(ns *typegraph.Namespace) *graphNamespace {
	out := &graphNamespace{Name: ns.FullName(), Doc: ns.Doc}
	for _, s := range ns.Scalars {
		gs := graphScalar{Name: s.Name, Constraints: constraints(s.Constraints), Doc: s.Doc}
		if s.BaseScalar != nil {
			gs.Extends = g.typeRef(s.BaseScalar)
		}
		if s.Encoding != nil {
			gs.Encoding = s.Encoding.Name
			if s.Encoding.Type != nil {
				gs.Encoding += " as " + g.typeRef(s.Encoding.Type)
			}
		}
		out.Scalars = append(out.Scalars, gs)
	}
	for _, m := range ns.Models {
		gm := graphModel{Name: m.Name, Properties: g.properties(m), Constraints: constraints(m.Constraints), Doc: m.Doc}
		if m.BaseModel != nil {
			gm.Extends = g.typeRef(m.BaseModel)
		}
		if m.Indexer != nil {
			gm.Indexer = g.typeRef(m.Indexer.Key) + " -> " + g.typeRef(m.Indexer.Value)
		}
		out.Models = append(out.Models, gm)
	}
	for _, e := range ns.Enums {
		ge := graphEnum{Name: e.Name, Doc: e.Doc, Members: []graphEnumMember{}}
		for _, m := range e.Members {
			ge.Members = append(ge.Members, graphEnumMember{Name: m.Name, Value: m.Value})
		}
		out.Enums = append(out.Enums, ge)
	}
	for _, u := range ns.Unions {
		gu := graphUnion{Name: u.Name, Doc: u.Doc, Variants: []graphVariant{}}
		if d := g.prog.Discriminator(u); d != nil {
			gu.Discriminated = &graphDiscriminated{
				Envelope:              string(d.Envelope),
				DiscriminatorProperty: d.DiscriminatorPropertyName,
				EnvelopeProperty:      d.EnvelopePropertyName,
			}
		}
		for _, v := range u.Variants {
			gu.Variants = append(gu.Variants, graphVariant{Name: v.Name, Type: g.typeRef(v.Type)})
		}
		out.Unions = append(out.Unions, gu)
	}
	for _, i := range ns.Interfaces {
		gi := graphInterface{Name: i.Name, Operations: []graphOperation{}}
		for _, o := range i.Operations {
			gi.Operations = append(gi.Operations, g.operation(o))
		}
		out.Interfaces = append(out.Interfaces, gi)
	}
	for _, child := range ns.Namespaces {
		if child == g.prog.StdNamespace() {
			continue
		}
		out.Namespaces = append(out.Namespaces, g.namespace(child))
	}
	return out
}

func (g *graphDescriber) properties(m *typegraph.Model) []graphProperty {
	if m == nil {
		return nil
	}
	var out []graphProperty
	for _, p := range m.Properties {
		gp := graphProperty{
			Name:        p.Name,
			Type:        g.typeRef(p.Type),
			Optional:    p.Optional,
			Constraints: constraints(p.Constraints),
			Doc:         p.Doc,
		}
		if p.Default != nil {
			gp.Default = value(p.Default)
		}
		out = append(out, gp)
	}
	return out
}

func (g *graphDescriber) operation(o *typegraph.Operation) graphOperation {
	return graphOperation{Name: o.Name, Parameters: g.properties(o.Parameters), Returns: g.typeRef(o.ReturnType)}
}

// typeRef writes t as a type expression. Declarations are written by
// qualified name; built-in scalars by their bare name.
func (g *graphDescriber) typeRef(t typegraph.Type) string {
	switch t := t.(type) {
	case nil:
		return "unknown"
	case *typegraph.Model:
		switch {
		case g.prog.IsArray(t):
			elem := g.typeRef(t.Indexer.Value)
			if u, ok := t.Indexer.Value.(*typegraph.Union); ok && u.IsExpression() {
				elem = "(" + elem + ")"
			}
			return elem + "[]"
		case g.prog.IsRecord(t):
			return "Record<" + g.typeRef(t.Indexer.Value) + ">"
		case t.Name == "":
			var props []string
			for _, p := range t.Properties {
				opt := ""
				if p.Optional {
					opt = "?"
				}
				props = append(props, p.Name+opt+": "+g.typeRef(p.Type))
			}
			if len(props) == 0 {
				return "{}"
			}
			return "{ " + strings.Join(props, ", ") + " }"
		}
	case *typegraph.Union:
		if t.IsExpression() {
			var variants []string
			for _, v := range t.Variants {
				variants = append(variants, g.typeRef(v.Type))
			}
			return strings.Join(variants, " | ")
		}
	case *typegraph.Tuple:
		var values []string
		for _, v := range t.Values {
			values = append(values, g.typeRef(v))
		}
		return "[" + strings.Join(values, ", ") + "]"
	case *typegraph.StringLiteral:
		b, _ := json.Marshal(t.Value)
		return string(b)
	case *typegraph.NumberLiteral:
		return t.Value.String()
	case *typegraph.BooleanLiteral:
		return fmt.Sprint(t.Value)
	case *typegraph.EnumMember:
		return g.typeRef(t.Enum) + "." + t.Name
	}
	return g.qualified(t)
}

func (g *graphDescriber) qualified(t typegraph.Type) string {
	name := typegraph.Name(t)
	ns := typegraph.NamespaceOf(t)
	if ns == nil || ns == g.prog.StdNamespace() || ns.FullName() == "" {
		return name
	}
	return ns.FullName() + "." + name
}

func constraints(c typegraph.Constraints) *graphConstraint {
	if c == (typegraph.Constraints{}) {
		return nil
	}
	return &graphConstraint{
		MinValue:          c.MinValue,
		MaxValue:          c.MaxValue,
		MinValueExclusive: c.MinValueExclusive,
		MaxValueExclusive: c.MaxValueExclusive,
		MinLength:         c.MinLength,
		MaxLength:         c.MaxLength,
		MinItems:          c.MinItems,
		MaxItems:          c.MaxItems,
		Pattern:           c.Pattern,
		Format:            c.Format,
	}
}

// value converts a default to plain JSON. Scalar constructor calls become
// {"$scalar": "utcDateTime.fromISO", "args": [...]}.
func value(v *typegraph.Value) any {
	switch v.Kind {
	case typegraph.ValueString:
		return v.Str
	case typegraph.ValueNumber:
		return json.Number(v.Num.String())
	case typegraph.ValueBoolean:
		return v.Bool
	case typegraph.ValueArray:
		items := make([]any, 0, len(v.Items))
		for _, item := range v.Items {
			items = append(items, value(item))
		}
		return items
	case typegraph.ValueObject:
		fields := make(orderedObject, 0, len(v.Fields))
		for _, f := range v.Fields {
			fields = append(fields, orderedField{f.Name, value(f.Value)})
		}
		return fields
	case typegraph.ValueScalar:
		args := make([]any, 0, len(v.Args))
		for _, a := range v.Args {
			args = append(args, value(a))
		}
		ctor := v.Constructor
		if v.Scalar != nil {
			ctor = v.Scalar.Name + "." + v.Constructor
		}
		return orderedObject{{"$scalar", ctor}, {"args", args}}
	default:
		return nil
	}
}

type orderedField struct {
	name  string
	value any
}

// orderedObject is a JSON object that keeps its field order.
type orderedObject []orderedField

func (o orderedObject) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			b.WriteByte(',')
		}
		name, err := json.Marshal(f.name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.value)
		if err != nil {
			return nil, err
		}
		b.Write(name)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}
