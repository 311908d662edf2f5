package envflat

// Kind identifies which case of Value a node holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindNumber: "number",
	KindString: "string",
	KindArray:  "array",
	KindObject: "object",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Value is a parsed configuration node. The set of cases is closed:
// Object, Array, String, Number, Bool and Null.
type Value interface {
	Kind() Kind
	value()
}

// Member is one key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is a mapping that keeps its members in declaration order.
type Object []Member

// Array is an ordered sequence of values.
type Array []Value

// String is a text leaf.
type String string

// Number is a numeric leaf kept in the textual form the parser saw.
type Number string

// Bool is a boolean leaf.
type Bool bool

// Null is the null leaf.
type Null struct{}

func (Object) Kind() Kind { return KindObject }
func (Array) Kind() Kind  { return KindArray }
func (String) Kind() Kind { return KindString }
func (Number) Kind() Kind { return KindNumber }
func (Bool) Kind() Kind   { return KindBool }
func (Null) Kind() Kind   { return KindNull }

func (Object) value() {}
func (Array) value()  {}
func (String) value() {}
func (Number) value() {}
func (Bool) value()   {}
func (Null) value()   {}

// Get returns the value stored under key.
func (o Object) Get(key string) (Value, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Set stores v under key. A key that already exists keeps its position and
// takes the new value.
func (o Object) Set(key string, v Value) Object {
	for i := range o {
		if o[i].Key == key {
			o[i].Value = v
			return o
		}
	}
	return append(o, Member{Key: key, Value: v})
}

// KindOf returns the kind of v. A nil Value is treated as null.
func KindOf(v Value) Kind {
	if v == nil {
		return KindNull
	}
	return v.Kind()
}

// Scalar returns the textual form of a leaf. Strings are returned bare,
// numbers as parsed, booleans as true/false and null as "null".
// Containers report false.
func Scalar(v Value) (string, bool) {
	switch v := v.(type) {
	case nil, Null:
		return "null", true
	case String:
		return string(v), true
	case Number:
		return string(v), true
	case Bool:
		if v {
			return "true", true
		}
		return "false", true
	default:
		return "", false
	}
}

// CountLeaves returns the number of leaves strictly below root. A root that is
// itself a leaf counts as zero because it has no key to be named by.
func CountLeaves(root Value) int {
	switch v := root.(type) {
	case Object:
		n := 0
		for _, m := range v {
			n += countFrom(m.Value)
		}
		return n
	case Array:
		n := 0
		for _, e := range v {
			n += countFrom(e)
		}
		return n
	default:
		return 0
	}
}

func countFrom(v Value) int {
	switch v.(type) {
	case Object, Array:
		return CountLeaves(v)
	default:
		return 1
	}
}
