package ts

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/syssam/zodgen"
)

// DefaultWidth is the column limit used to decide whether an array literal
// fits on one line.
const DefaultWidth = 80

// File is a TypeScript module: imports followed by statements.
type File struct {
	Path       string
	NamePolicy NamePolicy
	Width      int
	statements []Code
}

// NewFile returns an empty file printed with the given name policy.
// A nil policy keeps names unchanged.
func NewFile(path string, policy NamePolicy) *File {
	if policy == nil {
		policy = Identity
	}
	return &File{Path: path, NamePolicy: policy, Width: DefaultWidth}
}

// Add appends statements to the file.
func (f *File) Add(stmts ...Code) {
	f.statements = append(f.statements, stmts...)
}

// Len returns the number of statements.
func (f *File) Len() int { return len(f.statements) }

// Render prints the file: one import line per module, a blank line, then the
// statements each terminated by a semicolon and separated by a blank line.
func (f *File) Render() ([]byte, error) {
	p := f.printer()
	body := make([]string, 0, len(f.statements))
	for _, s := range f.statements {
		body = append(body, p.print(s, 0)+";")
	}
	var b strings.Builder
	if len(p.modules) > 0 {
		for _, mod := range p.modules {
			fmt.Fprintf(&b, "import { %s } from %s;\n", strings.Join(p.imports[mod], ", "), Quote(mod))
		}
		b.WriteString("\n")
	}
	b.WriteString(strings.Join(body, "\n\n"))
	if len(body) > 0 {
		b.WriteString("\n")
	}
	return []byte(b.String()), p.err()
}

// Format prints a single tree without imports or terminators. Declarations
// inside c are bound with the identity policy.
func Format(c Code) (string, error) {
	f := NewFile("", Identity)
	f.Add(c)
	p := f.printer()
	out := p.print(c, 0)
	return out, p.err()
}

// printer binds names and prints a set of statements.
type printer struct {
	width    int
	names    map[Refkey]string
	decls    map[*VarDecl]string
	taken    map[string]struct{}
	modules  []string
	imports  map[string][]string
	imported map[external]bool
	missing  map[Refkey]bool
	errs     []error
}

func (f *File) printer() *printer {
	p := &printer{
		width:    f.Width,
		names:    make(map[Refkey]string),
		decls:    make(map[*VarDecl]string),
		taken:    make(map[string]struct{}),
		imports:  make(map[string][]string),
		imported: make(map[external]bool),
		missing:  make(map[Refkey]bool),
	}
	if p.width <= 0 {
		p.width = DefaultWidth
	}
	// Imported symbols claim their names before any declaration.
	for _, s := range f.statements {
		walk(s, func(c Code) {
			for _, k := range refsOf(c) {
				if ext, ok := k.v.(external); ok {
					if _, bound := p.names[k]; !bound {
						p.names[k] = p.claim(ext.name)
					}
				}
			}
		})
	}
	for _, s := range f.statements {
		walk(s, func(c Code) {
			d, ok := c.(*VarDecl)
			if !ok {
				return
			}
			if _, seen := p.decls[d]; seen {
				return
			}
			name := p.claim(Identifier(f.NamePolicy(d.Name)))
			p.decls[d] = name
			for _, k := range d.Refkeys {
				if _, bound := p.names[k]; !bound {
					p.names[k] = name
				}
			}
		})
	}
	return p
}

func refsOf(c Code) []Refkey {
	switch c := c.(type) {
	case *refCode:
		return []Refkey{c.key}
	case *MemberExpr:
		var keys []Refkey
		for _, part := range c.parts {
			if part.kind == partRef {
				keys = append(keys, part.key)
			}
		}
		return keys
	}
	return nil
}

// claim reserves name, suffixing _2, _3... on collision.
func (p *printer) claim(name string) string {
	candidate := name
	for i := 2; ; i++ {
		if _, ok := p.taken[candidate]; !ok {
			p.taken[candidate] = struct{}{}
			return candidate
		}
		candidate = name + "_" + strconv.Itoa(i)
	}
}

func (p *printer) err() error {
	return errors.Join(p.errs...)
}

func (p *printer) resolve(k Refkey) string {
	name, ok := p.names[k]
	if !ok {
		if !p.missing[k] {
			p.missing[k] = true
			p.errs = append(p.errs, fmt.Errorf("%w: %v", zodgen.ErrUnresolvedReference, k.v))
		}
		return "undefined"
	}
	if ext, ok := k.v.(external); ok && !p.imported[ext] {
		p.imported[ext] = true
		if _, seen := p.imports[ext.module]; !seen {
			p.modules = append(p.modules, ext.module)
		}
		p.imports[ext.module] = append(p.imports[ext.module], name)
	}
	return name
}

func indent(n int) string { return strings.Repeat("  ", n) }

func (p *printer) print(c Code, level int) string {
	switch c := c.(type) {
	case nil:
		return ""
	case *rawCode:
		return c.text
	case *groupCode:
		var b strings.Builder
		for _, it := range c.items {
			b.WriteString(p.print(it, level))
		}
		return b.String()
	case *refCode:
		return p.resolve(c.key)
	case *VarDecl:
		var b strings.Builder
		if c.Export {
			b.WriteString("export ")
		}
		if c.Let {
			b.WriteString("let ")
		} else {
			b.WriteString("const ")
		}
		b.WriteString(p.decls[c])
		b.WriteString(" = ")
		b.WriteString(p.print(c.Body, level))
		return b.String()
	case *MemberExpr:
		return p.member(c, level)
	case *objectCode:
		if len(c.items) == 0 {
			return "{}"
		}
		var b strings.Builder
		b.WriteString("{\n")
		for _, it := range c.items {
			b.WriteString(indent(level + 1))
			b.WriteString(p.print(it, level+1))
			b.WriteString(",\n")
		}
		b.WriteString(indent(level))
		b.WriteString("}")
		return b.String()
	case *propertyCode:
		key := c.name
		if !IsIdentifier(key) {
			key = Quote(key)
		}
		return key + ": " + p.print(c.value, level)
	case *arrayCode:
		return p.array(c, level)
	default:
		return ""
	}
}

func (p *printer) member(m *MemberExpr, level int) string {
	var b strings.Builder
	for i, part := range m.parts {
		switch part.kind {
		case partID:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(part.name)
		case partRef:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(p.resolve(part.key))
		case partArgs:
			b.WriteString(p.args(part.args, level))
		case partExpr:
			b.WriteString(p.print(part.expr, level))
		}
	}
	return b.String()
}

// args hugs a single argument and breaks several arguments one per line
// when any of them spans lines.
func (p *printer) args(args []Code, level int) string {
	if len(args) == 0 {
		return "()"
	}
	if len(args) > 1 {
		broken := make([]string, len(args))
		multiline := false
		for i, a := range args {
			broken[i] = p.print(a, level+1)
			multiline = multiline || strings.Contains(broken[i], "\n")
		}
		if multiline {
			sep := ",\n" + indent(level+1)
			return "(\n" + indent(level+1) + strings.Join(broken, sep) + "\n" + indent(level) + ")"
		}
	}
	flat := make([]string, len(args))
	for i, a := range args {
		flat[i] = p.print(a, level)
	}
	return "(" + strings.Join(flat, ", ") + ")"
}

// array prints inline when every element is single line and the result fits
// the width; otherwise one element per line.
func (p *printer) array(a *arrayCode, level int) string {
	if len(a.items) == 0 {
		return "[]"
	}
	elems := make([]string, len(a.items))
	size := 2 + 2*(len(a.items)-1) + 2*level
	multiline := false
	for i, it := range a.items {
		elems[i] = p.print(it, level+1)
		size += len(elems[i])
		multiline = multiline || strings.Contains(elems[i], "\n")
	}
	if !multiline && size <= p.width {
		return "[" + strings.Join(elems, ", ") + "]"
	}
	sep := ",\n" + indent(level+1)
	return "[\n" + indent(level+1) + strings.Join(elems, sep) + "\n" + indent(level) + "]"
}
