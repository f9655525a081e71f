package load

import (
	"bytes"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/syssam/zodgen/typegraph"
)

// scalarKey marks an object value as a scalar constructor call:
//
//	default: {$scalar: utcDateTime.fromISO, args: ["2024-01-01T00:00:00Z"]}
const scalarKey = "$scalar"

// Value is a constant from an input file, e.g. a property default. Object
// fields keep their source order. Scalar constructor calls carry the
// qualified constructor name until the scalar is resolved.
type Value struct {
	*typegraph.Value
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	tv, err := yamlValue(node)
	if err != nil {
		return err
	}
	v.Value = tv
	return nil
}

func yamlValue(n *yaml.Node) (*typegraph.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return typegraph.NullValue(), nil
		}
		return yamlValue(n.Content[0])
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.SequenceNode:
		items := make([]*typegraph.Value, 0, len(n.Content))
		for _, c := range n.Content {
			it, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		}
		return typegraph.ArrayValue(items...), nil
	case yaml.MappingNode:
		fields := make([]typegraph.ValueField, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			fv, err := yamlValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			fields = append(fields, typegraph.ValueField{Name: n.Content[i].Value, Value: fv})
		}
		return objectOrScalar(fields)
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return typegraph.NullValue(), nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return nil, err
			}
			return typegraph.BoolValue(b), nil
		case "!!int", "!!float":
			num, err := typegraph.ParseNumeric(n.Value)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n.Line, err)
			}
			return typegraph.NumberValue(num), nil
		default:
			return typegraph.StringValue(n.Value), nil
		}
	default:
		return nil, fmt.Errorf("line %d: unsupported value", n.Line)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	tv, err := jsonValue(dec)
	if err != nil {
		return err
	}
	v.Value = tv
	return nil
}

func jsonValue(dec *json.Decoder) (*typegraph.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case nil:
		return typegraph.NullValue(), nil
	case bool:
		return typegraph.BoolValue(t), nil
	case string:
		return typegraph.StringValue(t), nil
	case json.Number:
		num, err := typegraph.ParseNumeric(t.String())
		if err != nil {
			return nil, err
		}
		return typegraph.NumberValue(num), nil
	case json.Delim:
		switch t {
		case '[':
			var items []*typegraph.Value
			for dec.More() {
				it, err := jsonValue(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, it)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return typegraph.ArrayValue(items...), nil
		case '{':
			var fields []typegraph.ValueField
			for dec.More() {
				key, err := dec.Token()
				if err != nil {
					return nil, err
				}
				name, ok := key.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", key)
				}
				fv, err := jsonValue(dec)
				if err != nil {
					return nil, err
				}
				fields = append(fields, typegraph.ValueField{Name: name, Value: fv})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return objectOrScalar(fields)
		}
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// objectOrScalar builds an object value, or a scalar constructor call when
// the object carries the $scalar key.
func objectOrScalar(fields []typegraph.ValueField) (*typegraph.Value, error) {
	var (
		ctor string
		args []*typegraph.Value
		call bool
	)
	for _, f := range fields {
		switch f.Name {
		case scalarKey:
			if f.Value.Kind != typegraph.ValueString || !strings.Contains(f.Value.Str, ".") {
				return nil, fmt.Errorf("%s must be a string of the form scalar.constructor", scalarKey)
			}
			ctor, call = f.Value.Str, true
		case "args":
			if f.Value.Kind == typegraph.ValueArray {
				args = f.Value.Items
			} else {
				args = []*typegraph.Value{f.Value}
			}
		}
	}
	if !call {
		return typegraph.ObjectValue(fields...), nil
	}
	return &typegraph.Value{Kind: typegraph.ValueScalar, Constructor: ctor, Args: args}, nil
}
