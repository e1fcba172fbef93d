package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// ErrMalformedProperty reports a reply whose payload is too short for its type.
var ErrMalformedProperty = errors.New("malformed property value")

// Property is a window property: a name atom and a typed value.
type Property struct {
	Key   xproto.Atom
	Value PropertyValue
}

// PropertyValue is one of StringValue, Int32Value, Uint32Value, AtomValue,
// NoneValue or UnknownAtomValue.
type PropertyValue interface {
	// TypeAtom is the wire type the value is tagged with.
	TypeAtom() xproto.Atom
}

type (
	StringValue string
	Int32Value  int32
	Uint32Value uint32
	AtomValue   xproto.Atom
	NoneValue   struct{}
	// UnknownAtomValue is a value whose type atom backdrop cannot decode.
	// It holds the type atom itself.
	UnknownAtomValue xproto.Atom
)

func (StringValue) TypeAtom() xproto.Atom { return xproto.AtomString }
func (Int32Value) TypeAtom() xproto.Atom { return xproto.AtomInteger }
func (Uint32Value) TypeAtom() xproto.Atom { return xproto.AtomCardinal }
func (AtomValue) TypeAtom() xproto.Atom { return xproto.AtomAtom }
func (NoneValue) TypeAtom() xproto.Atom { return xproto.AtomNone }
func (v UnknownAtomValue) TypeAtom() xproto.Atom { return xproto.Atom(v) }

// decodeProperty turns a raw reply into a typed value. Types outside the
// core table are looked up by name; only UTF8_STRING is understood.
func (c *Connection) decodeProperty(reply PropertyReply) (PropertyValue, error) {
	switch reply.Type {
	case xproto.AtomString:
		return StringValue(reply.Value), nil
	case xproto.AtomInteger:
		v, err := first32(reply)
		return Int32Value(int32(v)), err
	case xproto.AtomCardinal:
		v, err := first32(reply)
		return Uint32Value(v), err
	case xproto.AtomAtom:
		v, err := first32(reply)
		return AtomValue(v), err
	case xproto.AtomNone:
		return NoneValue{}, nil
	}

	name, err := c.server.AtomName(reply.Type)
	if err != nil {
		return nil, err
	}
	if name == AtomUTF8String {
		return StringValue(reply.Value), nil
	}
	return UnknownAtomValue(reply.Type), nil
}

func first32(reply PropertyReply) (uint32, error) {
	if len(reply.Value) < 4 {
		return 0, fmt.Errorf("%w: type %d has %d bytes", ErrMalformedProperty, reply.Type, len(reply.Value))
	}
	return xgb.Get32(reply.Value), nil
}

// encodeProperty returns the wire format and payload for v.
// An UnknownAtomValue has no defined encoding; passing one is a programming error.
func encodeProperty(v PropertyValue) (format byte, data []byte) {
	switch v := v.(type) {
	case StringValue:
		return 8, []byte(v)
	case Int32Value:
		return 32, put32(uint32(v))
	case Uint32Value:
		return 32, put32(uint32(v))
	case AtomValue:
		return 32, put32(uint32(v))
	case NoneValue:
		return 32, put32(uint32(xproto.AtomNone))
	case UnknownAtomValue:
		panic(fmt.Sprintf("x11: cannot encode property of unknown type atom %d", xproto.Atom(v)))
	}
	panic(fmt.Sprintf("x11: unsupported property value %T", v))
}

func put32(v uint32) []byte {
	buf := make([]byte, 4)
	xgb.Put32(buf, v)
	return buf
}
