package load

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/zodgen"
	"github.com/syssam/zodgen/typegraph"
)

// Resolve builds a program from documents. Declarations are created first
// so type expressions may reference declarations of any document, in any
// order. Every problem found is returned, joined.
func Resolve(docs ...*Document) (*typegraph.Program, error) {
	r := &resolver{prog: typegraph.NewProgram()}
	for _, doc := range docs {
		r.declare(doc)
	}
	if len(r.errs) > 0 {
		return nil, errors.Join(r.errs...)
	}
	for _, p := range r.scalars {
		r.scalar(p.site, p.decl, p.node)
	}
	for _, p := range r.models {
		r.model(p.site, p.decl, p.node)
	}
	for _, p := range r.unions {
		r.union(p.site, p.decl, p.node)
	}
	for _, p := range r.operations {
		r.operation(p.site, p.decl, p.node)
	}
	r.checkCycles()
	if len(r.errs) > 0 {
		return nil, errors.Join(r.errs...)
	}
	return r.prog, nil
}

type (
	// site locates a declaration for error reporting.
	site struct {
		doc  *Document
		ns   *typegraph.Namespace
		line int
		name string
	}

	pending[D, N any] struct {
		site site
		decl D
		node N
	}

	resolver struct {
		prog       *typegraph.Program
		scalars    []pending[*ScalarDecl, *typegraph.Scalar]
		models     []pending[*ModelDecl, *typegraph.Model]
		unions     []pending[*UnionDecl, *typegraph.Union]
		operations []pending[*OperationDecl, *typegraph.Operation]
		errs       []error
	}
)

func (r *resolver) errorf(s site, format string, args ...any) {
	r.errs = append(r.errs, zodgen.NewSchemaError(s.doc.Path, s.line, s.qualified(), fmt.Sprintf(format, args...), nil))
}

func (r *resolver) wrap(s site, message string, err error) {
	r.errs = append(r.errs, zodgen.NewSchemaError(s.doc.Path, s.line, s.qualified(), message, err))
}

func (s site) qualified() string {
	if p := s.ns.FullName(); p != "" && s.name != "" {
		return p + "." + s.name
	}
	return s.name
}

// declare creates the nodes of doc without resolving any type reference.
func (r *resolver) declare(doc *Document) {
	if doc.Namespace == typegraph.StdNamespaceName || strings.HasPrefix(doc.Namespace, typegraph.StdNamespaceName+".") {
		r.errs = append(r.errs, zodgen.NewSchemaError(doc.Path, 0, "", fmt.Sprintf("namespace %s is reserved", doc.Namespace), nil))
		return
	}
	ns := r.prog.Namespace(doc.Namespace)
	if doc.Doc != "" {
		ns.Doc = doc.Doc
	}
	at := func(line int, name string) (site, bool) {
		s := site{doc: doc, ns: ns, line: line, name: name}
		switch {
		case name == "":
			r.errorf(s, "declaration has no name")
			return s, false
		case ns.Lookup(name) != nil:
			r.errorf(s, "duplicate declaration %q", name)
			return s, false
		}
		return s, true
	}
	for _, d := range doc.Scalars {
		if s, ok := at(d.Line, d.Name); ok {
			n := ns.AddScalar(&typegraph.Scalar{Name: d.Name, Doc: d.Doc})
			r.scalars = append(r.scalars, pending[*ScalarDecl, *typegraph.Scalar]{s, d, n})
		}
	}
	for _, d := range doc.Models {
		if s, ok := at(d.Line, d.Name); ok {
			n := ns.AddModel(&typegraph.Model{Name: d.Name, Doc: d.Doc})
			r.models = append(r.models, pending[*ModelDecl, *typegraph.Model]{s, d, n})
		}
	}
	for _, d := range doc.Enums {
		if s, ok := at(d.Line, d.Name); ok {
			r.enum(s, d, ns.AddEnum(&typegraph.Enum{Name: d.Name, Doc: d.Doc}))
		}
	}
	for _, d := range doc.Unions {
		if s, ok := at(d.Line, d.Name); ok {
			n := ns.AddUnion(&typegraph.Union{Name: d.Name, Doc: d.Doc})
			r.unions = append(r.unions, pending[*UnionDecl, *typegraph.Union]{s, d, n})
		}
	}
	for _, d := range doc.Operations {
		if s, ok := at(d.Line, d.Name); ok {
			n := ns.AddOperation(&typegraph.Operation{Name: d.Name})
			r.operations = append(r.operations, pending[*OperationDecl, *typegraph.Operation]{s, d, n})
		}
	}
	for _, d := range doc.Interfaces {
		s, ok := at(d.Line, d.Name)
		if !ok {
			continue
		}
		iface := ns.AddInterface(&typegraph.Interface{Name: d.Name})
		for _, od := range d.Operations {
			opSite := s.at(od.Line)
			opSite.name = d.Name + "." + od.Name
			if iface.Operation(od.Name) != nil {
				r.errorf(opSite, "duplicate operation %q", od.Name)
				continue
			}
			n := iface.AddOperation(&typegraph.Operation{Name: od.Name})
			r.operations = append(r.operations, pending[*OperationDecl, *typegraph.Operation]{opSite, od, n})
		}
	}
}

// enum fills the members of an enum. Members carry no type references.
func (r *resolver) enum(s site, d *EnumDecl, e *typegraph.Enum) {
	if len(d.Members) == 0 {
		r.errorf(s, "enum has no members")
	}
	for _, md := range d.Members {
		if e.Member(md.Name) != nil {
			r.errorf(s, "duplicate enum member %q", md.Name)
			continue
		}
		m := &typegraph.EnumMember{Name: md.Name, Doc: md.Doc}
		if md.Value != nil && md.Value.Value != nil {
			switch v := md.Value.Value; v.Kind {
			case typegraph.ValueString:
				m.Value = v.Str
			case typegraph.ValueNumber:
				m.Value = v.Num
			case typegraph.ValueNull:
			default:
				r.errorf(s, "enum member %q must have a string or numeric value", md.Name)
			}
		}
		e.AddMember(m)
	}
}

func (r *resolver) scalar(s site, d *ScalarDecl, n *typegraph.Scalar) {
	n.Constraints = d.Constraints.typegraph()
	if d.Extends != "" {
		switch base := r.lookup(s, d.Extends).(type) {
		case *typegraph.Scalar:
			n.BaseScalar = base
		case nil:
		default:
			r.errorf(s, "scalar can only extend a scalar, not %s", d.Extends)
		}
	}
	if d.Encoding != nil {
		enc := &typegraph.Encoding{Name: d.Encoding.Name}
		if d.Encoding.Type != "" {
			switch t := r.lookup(s, d.Encoding.Type).(type) {
			case *typegraph.Scalar:
				enc.Type = t
			case nil:
			default:
				r.errorf(s, "encoding type %s is not a scalar", d.Encoding.Type)
			}
		}
		n.Encoding = enc
	}
}

func (r *resolver) model(s site, d *ModelDecl, n *typegraph.Model) {
	n.Constraints = d.Constraints.typegraph()
	if d.Extends != "" {
		switch base := r.lookup(s, d.Extends).(type) {
		case *typegraph.Model:
			n.BaseModel = base
		case nil:
		default:
			r.errorf(s, "model can only extend a model, not %s", d.Extends)
		}
	}
	switch {
	case d.Array != "" && d.Record != "":
		r.errorf(s, "model cannot be both an array and a record")
	case d.Array != "":
		n.Indexer = &typegraph.Indexer{Key: r.prog.Std(typegraph.StdInteger), Value: r.typeOf(s, d.Array)}
	case d.Record != "":
		n.Indexer = &typegraph.Indexer{Key: r.prog.Std(typegraph.StdString), Value: r.typeOf(s, d.Record)}
	}
	if n.Indexer != nil && len(d.Properties) > 0 && d.Array != "" {
		r.errorf(s, "array model cannot declare properties")
	}
	for _, pd := range d.Properties {
		if n.Property(pd.Name) != nil {
			r.errorf(s.at(pd.Line), "duplicate property %q", pd.Name)
			continue
		}
		n.AddProperty(r.property(s.at(pd.Line), pd))
	}
}

// at returns the site moved to line, when line is known.
func (s site) at(line int) site {
	if line > 0 {
		s.line = line
	}
	return s
}

func (r *resolver) property(s site, d *PropertyDecl) *typegraph.ModelProperty {
	if d.Name == "" {
		r.errorf(s, "property has no name")
	}
	p := &typegraph.ModelProperty{
		Name:        d.Name,
		Type:        r.typeOf(s, d.Type),
		Optional:    d.Optional,
		Doc:         d.Doc,
		Constraints: d.Constraints.typegraph(),
	}
	if d.Default != nil && d.Default.Value != nil {
		p.Default = r.value(s, d.Default.Value)
	}
	return p
}

func (r *resolver) union(s site, d *UnionDecl, n *typegraph.Union) {
	if len(d.Variants) == 0 {
		r.errorf(s, "union has no variants")
	}
	if dd := d.Discriminated; dd != nil {
		env := typegraph.Envelope(dd.Envelope)
		if env != "" && env != typegraph.EnvelopeObject && env != typegraph.EnvelopeNone {
			r.errorf(s, "unknown envelope %q", dd.Envelope)
		}
		n.Discriminated = &typegraph.Discriminated{
			Envelope:                  env,
			DiscriminatorPropertyName: dd.DiscriminatorProperty,
			EnvelopePropertyName:      dd.EnvelopeProperty,
		}
	}
	for _, vd := range d.Variants {
		if vd.Name != "" && n.Variant(vd.Name) != nil {
			r.errorf(s, "duplicate variant %q", vd.Name)
			continue
		}
		n.AddVariant(&typegraph.UnionVariant{Name: vd.Name, Type: r.typeOf(s, vd.Type), Doc: vd.Doc})
	}
}

func (r *resolver) operation(s site, d *OperationDecl, n *typegraph.Operation) {
	params := r.prog.CreateModel()
	for _, pd := range d.Parameters {
		if params.Property(pd.Name) != nil {
			r.errorf(s.at(pd.Line), "duplicate parameter %q", pd.Name)
			continue
		}
		params.AddProperty(r.property(s.at(pd.Line), pd))
	}
	n.Parameters = params
	if d.Returns == "" {
		n.ReturnType = r.prog.Intrinsic(typegraph.IntrinsicVoid)
		return
	}
	n.ReturnType = r.typeOf(s, d.Returns)
}

// typeOf parses and resolves a type expression. Failures are recorded and
// yield the error intrinsic so resolution can carry on.
func (r *resolver) typeOf(s site, src string) typegraph.Type {
	if strings.TrimSpace(src) == "" {
		r.errorf(s, "missing type")
		return r.prog.Intrinsic(typegraph.IntrinsicError)
	}
	e, err := ParseTypeExpr(src)
	if err != nil {
		r.wrap(s, "invalid type", err)
		return r.prog.Intrinsic(typegraph.IntrinsicError)
	}
	return r.expr(s, e)
}

func (r *resolver) expr(s site, e TypeExpr) typegraph.Type {
	switch e := e.(type) {
	case *NameExpr:
		return r.name(s, e)
	case *ArrayExpr:
		return r.prog.ArrayOf(r.expr(s, e.Elem))
	case *UnionExpr:
		u := &typegraph.Union{}
		for _, v := range e.Variants {
			u.AddVariant(&typegraph.UnionVariant{Type: r.expr(s, v)})
		}
		return u
	case *TupleExpr:
		t := &typegraph.Tuple{}
		for _, it := range e.Items {
			t.Values = append(t.Values, r.expr(s, it))
		}
		return t
	case *LiteralExpr:
		return r.prog.CreateLiteral(e.Value)
	case *ObjectExpr:
		m := r.prog.CreateModel()
		for _, p := range e.Props {
			m.AddProperty(&typegraph.ModelProperty{Name: p.Name, Type: r.expr(s, p.Type), Optional: p.Optional})
		}
		return m
	default:
		r.errorf(s, "unsupported type expression %s", e)
		return r.prog.Intrinsic(typegraph.IntrinsicError)
	}
}

// name resolves a named reference: the Array and Record templates, then
// declarations visible from the current namespace, then the built-in
// namespace, then the intrinsics.
func (r *resolver) name(s site, e *NameExpr) typegraph.Type {
	if len(e.Path) == 1 && len(e.Args) > 0 {
		if len(e.Args) != 1 {
			r.errorf(s, "%s takes exactly one argument", e.Path[0])
			return r.prog.Intrinsic(typegraph.IntrinsicError)
		}
		switch e.Path[0] {
		case "Array":
			return r.prog.ArrayOf(r.expr(s, e.Args[0]))
		case "Record":
			return r.prog.RecordOf(r.expr(s, e.Args[0]))
		}
	}
	if len(e.Args) > 0 {
		r.errorf(s, "%s is not a template", strings.Join(e.Path, "."))
		return r.prog.Intrinsic(typegraph.IntrinsicError)
	}
	t := r.find(s.ns, e.Path)
	switch t.(type) {
	case *typegraph.Model, *typegraph.Scalar, *typegraph.Enum, *typegraph.EnumMember, *typegraph.Union, *typegraph.Intrinsic:
		return t
	case nil:
		r.errorf(s, "unknown type %s", e)
	default:
		r.errorf(s, "%s is a %s, not a data type", e, strings.ToLower(string(t.Kind())))
	}
	return r.prog.Intrinsic(typegraph.IntrinsicError)
}

// lookup resolves a plain or qualified name, recording an error when it is
// not declared.
func (r *resolver) lookup(s site, name string) typegraph.Type {
	e, err := ParseTypeExpr(name)
	if err != nil {
		r.wrap(s, "invalid reference", err)
		return nil
	}
	ne, ok := e.(*NameExpr)
	if !ok || len(ne.Args) > 0 {
		r.errorf(s, "%s is not a declaration name", name)
		return nil
	}
	t := r.find(s.ns, ne.Path)
	if t == nil {
		r.errorf(s, "unknown type %s", name)
	}
	return t
}

func (r *resolver) find(ns *typegraph.Namespace, path []string) typegraph.Type {
	for scope := ns; scope != nil; scope = scope.Namespace {
		if t := walk(scope, path); t != nil {
			return t
		}
	}
	if t := walk(r.prog.StdNamespace(), path); t != nil {
		return t
	}
	if len(path) == 1 {
		if t := r.prog.Intrinsic(path[0]); t != nil && path[0] != typegraph.IntrinsicError {
			return t
		}
	}
	return nil
}

// walk follows path from ns through child namespaces. A final segment
// after an enum names one of its members.
func walk(ns *typegraph.Namespace, path []string) typegraph.Type {
	var t typegraph.Type = ns
	for _, seg := range path {
		switch cur := t.(type) {
		case *typegraph.Namespace:
			t = cur.Lookup(seg)
		case *typegraph.Enum:
			if m := cur.Member(seg); m != nil {
				t = m
			} else {
				t = nil
			}
		default:
			return nil
		}
		if t == nil {
			return nil
		}
	}
	return t
}

// value resolves the scalar constructor calls nested in v.
func (r *resolver) value(s site, v *typegraph.Value) *typegraph.Value {
	switch v.Kind {
	case typegraph.ValueArray:
		for i, it := range v.Items {
			v.Items[i] = r.value(s, it)
		}
	case typegraph.ValueObject:
		for i := range v.Fields {
			v.Fields[i].Value = r.value(s, v.Fields[i].Value)
		}
	case typegraph.ValueScalar:
		if v.Scalar != nil {
			break
		}
		i := strings.LastIndex(v.Constructor, ".")
		if i <= 0 || i == len(v.Constructor)-1 {
			r.errorf(s, "invalid scalar constructor %q", v.Constructor)
			break
		}
		var sc *typegraph.Scalar
		switch t := r.lookup(s, v.Constructor[:i]).(type) {
		case *typegraph.Scalar:
			sc = t
		case nil:
			return v
		default:
			r.errorf(s, "%s is not a scalar", v.Constructor[:i])
			return v
		}
		for j, a := range v.Args {
			v.Args[j] = r.value(s, a)
		}
		return typegraph.ScalarValue(sc, v.Constructor[i+1:], v.Args...)
	}
	return v
}

// checkCycles rejects scalars and models that extend themselves.
func (r *resolver) checkCycles() {
	for _, p := range r.scalars {
		seen := map[*typegraph.Scalar]bool{}
		for sc := p.node; sc != nil; sc = sc.BaseScalar {
			if seen[sc] {
				r.errorf(p.site, "circular scalar extends")
				break
			}
			seen[sc] = true
		}
	}
	for _, p := range r.models {
		seen := map[*typegraph.Model]bool{}
		for m := p.node; m != nil; m = m.BaseModel {
			if seen[m] {
				r.errorf(p.site, "circular model extends")
				break
			}
			seen[m] = true
		}
	}
}
