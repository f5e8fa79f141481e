package env

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Values and environments are stored in a canonical binary form.
// Two values are equal iff their encodings are equal.

func appendValue(b []byte, v Value) []byte {
	b = protowire.AppendVarint(b, uint64(v.kind))
	switch v.kind {
	case KindInt:
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(v.i))
	case KindBool:
		b = protowire.AppendVarint(b, uint64(v.i))
	case KindString, KindTuple:
		b = protowire.AppendString(b, v.s)
	default:
		panic(fmt.Errorf("%w: cannot encode %v", ErrType, v))
	}
	return b
}

func consumeValue(b []byte) (Value, int) {
	k, n := protowire.ConsumeVarint(b)
	mustConsume(n)
	v := Value{kind: Kind(k)}
	switch v.kind {
	case KindInt:
		i, m := protowire.ConsumeVarint(b[n:])
		mustConsume(m)
		v.i = protowire.DecodeZigZag(i)
		n += m
	case KindBool:
		i, m := protowire.ConsumeVarint(b[n:])
		mustConsume(m)
		v.i = int64(i)
		n += m
	case KindString, KindTuple:
		s, m := protowire.ConsumeString(b[n:])
		mustConsume(m)
		v.s = s
		n += m
	default:
		panic(fmt.Errorf("%w: corrupt encoding with kind %v", ErrType, k))
	}
	return v, n
}

func appendEntry(b []byte, name string, v Value) []byte {
	return appendValue(protowire.AppendString(b, name), v)
}

func consumeEntry(b []byte) (string, Value, int) {
	name, n := protowire.ConsumeString(b)
	mustConsume(n)
	v, m := consumeValue(b[n:])
	return name, v, n + m
}

func mustConsume(n int) {
	if n < 0 {
		panic(fmt.Errorf("%w: corrupt encoding: %v", ErrType, protowire.ParseError(n)))
	}
}
