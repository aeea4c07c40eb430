package tablematch

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
)

// Kind is the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is a single cell value. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  *apd.Decimal
	b    bool
}

func NullValue() Value {
	return Value{}
}

func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// NumberValue wraps d. A nil d is null.
func NumberValue(d *apd.Decimal) Value {
	if d == nil {
		return NullValue()
	}
	return Value{kind: KindNumber, num: d}
}

func IntValue(i int64) Value {
	return NumberValue(apd.New(i, 0))
}

// ParseNumber parses a decimal literal such as "-12" or "3.50".
func ParseNumber(s string) (Value, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return Value{}, errors.Wrapf(err, "invalid number %q", s)
	}
	return NumberValue(d), nil
}

// ValueOf converts a Go scalar into a Value.
func ValueOf(v interface{}) (Value, error) {
	switch v := v.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return v, nil
	case string:
		return StringValue(v), nil
	case bool:
		return BoolValue(v), nil
	case int:
		return IntValue(int64(v)), nil
	case int64:
		return IntValue(v), nil
	case uint64:
		return ParseNumber(strconv.FormatUint(v, 10))
	case float64:
		d, err := new(apd.Decimal).SetFloat64(v)
		if err != nil {
			return Value{}, errors.Wrapf(err, "invalid number %v", v)
		}
		return NumberValue(d), nil
	case *apd.Decimal:
		if v == nil {
			return Value{}, errors.New("nil *apd.Decimal")
		}
		return NumberValue(v), nil
	}
	return Value{}, errors.Newf("unsupported value type %T", v)
}

var numberRE = regexp.MustCompile(`^-?\d+(?:\.\d*)?$`)

// GuessValue infers the type of a cell written as text: "true" and "false"
// are booleans, "null" is null, decimal literals are numbers and anything
// else is kept as a string.
func GuessValue(s string) Value {
	switch s {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	case "null":
		return NullValue()
	}
	if numberRE.MatchString(s) {
		if v, err := ParseNumber(s); err == nil {
			return v
		}
	}
	return StringValue(s)
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Str returns the string held by a string value.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// Bool returns the boolean held by a boolean value.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Decimal returns the number held by a numeric value.
func (v Value) Decimal() (*apd.Decimal, bool) {
	return v.num, v.kind == KindNumber
}

// Equal is type-aware equality: values of different kinds are never equal
// and numbers compare numerically.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.num.Cmp(o.num) == 0
	}
	return false
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.str)
	case KindNumber:
		return v.num.Text('f')
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return "null"
}
