package typegraph

// ValueKind is the kind of a constant Value.
type ValueKind int

// Value kinds.
const (
	ValueNull ValueKind = iota
	ValueString
	ValueNumber
	ValueBoolean
	ValueArray
	ValueObject
	ValueScalar
)

// Value is a constant value, used for property defaults.
type Value struct {
	Kind   ValueKind
	Str    string
	Num    Numeric
	Bool   bool
	Items  []*Value
	Fields []ValueField

	// Scalar constructor calls such as utcDateTime.fromISO("...").
	Scalar      *Scalar
	Constructor string
	Args        []*Value
}

// ValueField is a named entry of an object value.
type ValueField struct {
	Name  string
	Value *Value
}

// NullValue returns the null value.
func NullValue() *Value { return &Value{Kind: ValueNull} }

// StringValue returns a string value.
func StringValue(s string) *Value { return &Value{Kind: ValueString, Str: s} }

// NumberValue returns a numeric value.
func NumberValue(n Numeric) *Value { return &Value{Kind: ValueNumber, Num: n} }

// BoolValue returns a boolean value.
func BoolValue(b bool) *Value { return &Value{Kind: ValueBoolean, Bool: b} }

// ArrayValue returns an array value.
func ArrayValue(items ...*Value) *Value { return &Value{Kind: ValueArray, Items: items} }

// ObjectValue returns an object value with ordered fields.
func ObjectValue(fields ...ValueField) *Value { return &Value{Kind: ValueObject, Fields: fields} }

// ScalarValue returns a scalar constructor call value.
func ScalarValue(s *Scalar, ctor string, args ...*Value) *Value {
	return &Value{Kind: ValueScalar, Scalar: s, Constructor: ctor, Args: args}
}
