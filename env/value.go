// Package env holds the variable environments produced by program graph
// actions.
//
// Values and environments are immutable and comparable with ==, so they can
// be used directly as (part of) a state of a transition system.
package env

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/benbjohnson/immutable"
)

var ErrType = errors.New("env: type error")

type Kind uint8

const (
	KindInt Kind = iota + 1
	KindBool
	KindString
	KindTuple
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindTuple:
		return "tuple"
	default:
		return "invalid"
	}
}

// Value is an integer, a boolean, a string or a tuple of values.
//
// Tuples are kept in their encoded form so that the Value stays comparable.
type Value struct {
	kind Kind
	i    int64
	s    string
}

var _ fmt.Stringer = Value{}

var (
	True  = Bool(true)
	False = Bool(false)
)

func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

func Bool(b bool) Value {
	if b {
		return Value{kind: KindBool, i: 1}
	}
	return Value{kind: KindBool}
}

func String(s string) Value {
	return Value{kind: KindString, s: s}
}

func Tuple(elements ...Value) Value {
	var buf []byte
	for _, v := range elements {
		buf = appendValue(buf, v)
	}
	return Value{kind: KindTuple, s: string(buf)}
}

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsValid() bool  { return v.kind != 0 }
func (v Value) IsInt() bool    { return v.kind == KindInt }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsString() bool { return v.kind == KindString }
func (v Value) IsTuple() bool  { return v.kind == KindTuple }

func (v Value) require(kind Kind) {
	if v.kind != kind {
		panic(fmt.Errorf("%w: %v is not a %v", ErrType, v, kind))
	}
}

func (v Value) AsInt() int64 {
	v.require(KindInt)
	return v.i
}

func (v Value) AsBool() bool {
	v.require(KindBool)
	return v.i != 0
}

func (v Value) AsString() string {
	v.require(KindString)
	return v.s
}

func (v Value) AsTuple() *immutable.List[Value] {
	v.require(KindTuple)
	builder := immutable.NewListBuilder[Value]()
	for rest := []byte(v.s); len(rest) > 0; {
		elem, n := consumeValue(rest)
		builder.Append(elem)
		rest = rest[n:]
	}
	return builder.List()
}

// Len returns the number of elements of a tuple.
func (v Value) Len() int {
	return v.AsTuple().Len()
}

// Append returns the tuple extended by elem.
func (v Value) Append(elem Value) Value {
	v.require(KindTuple)
	return Value{kind: KindTuple, s: string(appendValue([]byte(v.s), elem))}
}

// Head splits a non-empty tuple into its first element and the remaining tuple.
func (v Value) Head() (Value, Value, bool) {
	v.require(KindTuple)
	if len(v.s) == 0 {
		return Value{}, v, false
	}
	elem, n := consumeValue([]byte(v.s))
	return elem, Value{kind: KindTuple, s: v.s[n:]}, true
}

func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindBool:
		return strconv.FormatBool(v.i != 0)
	case KindString:
		return strconv.Quote(v.s)
	case KindTuple:
		var elems []string
		it := v.AsTuple().Iterator()
		for !it.Done() {
			_, elem := it.Next()
			elems = append(elems, elem.String())
		}
		return "<" + strings.Join(elems, ", ") + ">"
	default:
		return "undefined"
	}
}
