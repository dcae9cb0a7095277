package protocol

import (
	"errors"
	"strings"
)

var ErrBadFormat = errors.New("protocol: bad message format")

// ParamKind is the wire type of one message parameter.
type ParamKind uint8

const (
	KindUint   ParamKind = iota // %u %hu %c
	KindInt                     // %i %hi
	KindBuffer                  // %*s %.*s
)

// Param is one "name=%x" entry of a message format.
type Param struct {
	Name string
	Kind ParamKind
}

// MessageFormat is a parsed dictionary entry such as
// "tone oid=%c freq=%u duration=%u".
type MessageFormat struct {
	Name   string
	Params []Param
}

// ParseFormat splits a dictionary key into its name and parameters.
func ParseFormat(s string) (MessageFormat, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return MessageFormat{}, ErrBadFormat
	}
	mf := MessageFormat{Name: fields[0]}
	for _, f := range fields[1:] {
		name, typ, ok := strings.Cut(f, "=")
		if !ok || name == "" {
			return MessageFormat{}, ErrBadFormat
		}
		var kind ParamKind
		switch typ {
		case "%u", "%hu", "%c":
			kind = KindUint
		case "%i", "%hi":
			kind = KindInt
		case "%*s", "%.*s":
			kind = KindBuffer
		default:
			return MessageFormat{}, ErrBadFormat
		}
		mf.Params = append(mf.Params, Param{Name: name, Kind: kind})
	}
	return mf, nil
}

// Values holds decoded message arguments. Integers are int64, buffers are
// []byte.
type Values map[string]any

// Uint returns an integer argument, or 0 when it is missing.
func (v Values) Uint(name string) uint32 {
	n, _ := v[name].(int64)
	return uint32(n)
}

// Int returns a signed argument, or 0 when it is missing.
func (v Values) Int(name string) int32 {
	n, _ := v[name].(int64)
	return int32(n)
}

// Bytes returns a buffer argument.
func (v Values) Bytes(name string) []byte {
	b, _ := v[name].([]byte)
	return b
}

// Decode reads the message's arguments from *data.
func (mf MessageFormat) Decode(data *[]byte) (Values, error) {
	out := make(Values, len(mf.Params))
	for _, p := range mf.Params {
		switch p.Kind {
		case KindBuffer:
			b, err := DecodeBytes(data)
			if err != nil {
				return nil, err
			}
			out[p.Name] = append([]byte(nil), b...)
		case KindInt:
			n, err := DecodeInt(data)
			if err != nil {
				return nil, err
			}
			out[p.Name] = int64(n)
		default:
			n, err := DecodeUint(data)
			if err != nil {
				return nil, err
			}
			out[p.Name] = int64(n)
		}
	}
	return out, nil
}

// Encode writes args in parameter order. Buffer parameters are not
// supported on the host to device path.
func (mf MessageFormat) Encode(out Sink, args ...int32) error {
	if len(args) != len(mf.Params) {
		return ErrBadFormat
	}
	for i, p := range mf.Params {
		if p.Kind == KindBuffer {
			return ErrBadFormat
		}
		EncodeInt(out, args[i])
	}
	return nil
}
