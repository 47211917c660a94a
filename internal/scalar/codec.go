package scalar

import (
	"encoding/binary"
	"math"
	"reflect"
)

// Numeric is the set of fixed-width value types a column can hold.
// int and uint are always encoded as 8 bytes.
type Numeric interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint |
		~float32 | ~float64
}

// Codec encodes one value of T as little-endian bytes of a fixed width.
// The zero Codec is not usable; create one with NewCodec.
type Codec[T Numeric] struct {
	name  string
	width int
	put   func(b []byte, v T)
	get   func(b []byte) T
}

// NewCodec returns the codec for T.
func NewCodec[T Numeric]() Codec[T] {
	c := Codec[T]{}
	switch k := reflect.TypeFor[T]().Kind(); k {
	case reflect.Int8:
		c.name, c.width = "int8", 1
		c.put = func(b []byte, v T) { b[0] = byte(int8(v)) }
		c.get = func(b []byte) T { return T(int8(b[0])) }
	case reflect.Uint8:
		c.name, c.width = "uint8", 1
		c.put = func(b []byte, v T) { b[0] = uint8(v) }
		c.get = func(b []byte) T { return T(b[0]) }
	case reflect.Int16:
		c.name, c.width = "int16", 2
		c.put = func(b []byte, v T) { binary.LittleEndian.PutUint16(b, uint16(int16(v))) }
		c.get = func(b []byte) T { return T(int16(binary.LittleEndian.Uint16(b))) }
	case reflect.Uint16:
		c.name, c.width = "uint16", 2
		c.put = func(b []byte, v T) { binary.LittleEndian.PutUint16(b, uint16(v)) }
		c.get = func(b []byte) T { return T(binary.LittleEndian.Uint16(b)) }
	case reflect.Int32:
		c.name, c.width = "int32", 4
		c.put = func(b []byte, v T) { binary.LittleEndian.PutUint32(b, uint32(int32(v))) }
		c.get = func(b []byte) T { return T(int32(binary.LittleEndian.Uint32(b))) }
	case reflect.Uint32:
		c.name, c.width = "uint32", 4
		c.put = func(b []byte, v T) { binary.LittleEndian.PutUint32(b, uint32(v)) }
		c.get = func(b []byte) T { return T(binary.LittleEndian.Uint32(b)) }
	case reflect.Int64, reflect.Int:
		c.name, c.width = "int64", 8
		c.put = func(b []byte, v T) { binary.LittleEndian.PutUint64(b, uint64(int64(v))) }
		c.get = func(b []byte) T { return T(int64(binary.LittleEndian.Uint64(b))) }
	case reflect.Uint64, reflect.Uint:
		c.name, c.width = "uint64", 8
		c.put = func(b []byte, v T) { binary.LittleEndian.PutUint64(b, uint64(v)) }
		c.get = func(b []byte) T { return T(binary.LittleEndian.Uint64(b)) }
	case reflect.Float32:
		c.name, c.width = "float32", 4
		c.put = func(b []byte, v T) { binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v))) }
		c.get = func(b []byte) T { return T(math.Float32frombits(binary.LittleEndian.Uint32(b))) }
	case reflect.Float64:
		c.name, c.width = "float64", 8
		c.put = func(b []byte, v T) { binary.LittleEndian.PutUint64(b, math.Float64bits(float64(v))) }
		c.get = func(b []byte) T { return T(math.Float64frombits(binary.LittleEndian.Uint64(b))) }
	default:
		panic("scalar: unsupported kind " + k.String())
	}
	return c
}

// Name returns the wire type name ("int32", "float64", ...).
// int and uint report their encoded width ("int64", "uint64").
func (c Codec[T]) Name() string { return c.name }

// Width returns the encoded size of one value in bytes.
func (c Codec[T]) Width() int { return c.width }

// Put encodes v into b[:Width()].
func (c Codec[T]) Put(b []byte, v T) { c.put(b, v) }

// Get decodes a value from b[:Width()].
func (c Codec[T]) Get(b []byte) T { return c.get(b) }

// Append encodes v and appends it to dst.
func (c Codec[T]) Append(dst []byte, v T) []byte {
	n := len(dst)
	dst = append(dst, make([]byte, c.width)...)
	c.put(dst[n:], v)
	return dst
}
