package gen

import (
	"github.com/syssam/zodgen/typegraph"
)

// TypeSystem is the read-only view of the type graph used by the generator.
// *typegraph.Program implements it.
type TypeSystem interface {
	GlobalNamespace() *typegraph.Namespace
	StdNamespace() *typegraph.Namespace
	Std(name typegraph.Std) *typegraph.Scalar
	Extends(t typegraph.Type, std typegraph.Std) bool
	StdBase(t typegraph.Type) *typegraph.Scalar
	Encoding(t typegraph.Type) *typegraph.Encoding
	Doc(t typegraph.Type) string
	Constraints(t typegraph.Type) typegraph.Constraints
	IsArray(t typegraph.Type) bool
	IsRecord(t typegraph.Type) bool
	Discriminator(u *typegraph.Union) *typegraph.Discriminated
	CreateModel(props ...*typegraph.ModelProperty) *typegraph.Model
	CreateProperty(name string, t typegraph.Type) *typegraph.ModelProperty
	CreateLiteral(v any) typegraph.Type
	UnionFromEnum(e *typegraph.Enum) *typegraph.Union
}

var _ TypeSystem = (*typegraph.Program)(nil)

// IsDeclaration reports whether t is a named declaration (or an
// instantiation of one) that can be emitted as its own schema.
func IsDeclaration(types TypeSystem, t typegraph.Type) bool {
	switch t := t.(type) {
	case *typegraph.Model:
		if (types.IsArray(t) || types.IsRecord(t)) && IsBuiltIn(types, t) {
			return false
		}
		return t.Name != ""
	case *typegraph.Union:
		return t.Name != ""
	case *typegraph.Enum, *typegraph.Scalar:
		return true
	default:
		// Namespaces, interfaces, operations, enum members and union
		// variants are never declared on their own.
		return false
	}
}

// IsBuiltIn reports whether t lives under the built-in namespace. A model
// property is classified by its model.
func IsBuiltIn(types TypeSystem, t typegraph.Type) bool {
	if p, ok := t.(*typegraph.ModelProperty); ok && p.Model != nil {
		t = p.Model
	}
	ns := typegraph.NamespaceOf(t)
	if ns == nil {
		return false
	}
	return isStdNamespace(types, ns)
}

// isStdNamespace reports whether the top-level ancestor of ns (ns included)
// is the built-in namespace.
func isStdNamespace(types TypeSystem, ns *typegraph.Namespace) bool {
	global := types.GlobalNamespace()
	if ns == nil || ns == global {
		return false
	}
	for ns.Namespace != nil && ns.Namespace != global {
		ns = ns.Namespace
	}
	return ns == types.StdNamespace()
}

// IsRecord reports whether t is a model indexed by string.
func IsRecord(types TypeSystem, t typegraph.Type) bool {
	return types.IsRecord(t)
}

// ShouldReference reports whether t is emitted as its own declaration and
// referenced by name elsewhere, rather than inlined.
func ShouldReference(types TypeSystem, t typegraph.Type, custom *CustomEmitOptions) bool {
	if !IsDeclaration(types, t) || IsBuiltIn(types, t) {
		return false
	}
	c, ok := custom.lookup(types, t)
	return !ok || !c.NoDeclaration
}
