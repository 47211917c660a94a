package dataset

import (
	"errors"
	"fmt"

	"github.com/hupe1980/scalarindex/internal/conv"
	"github.com/hupe1980/scalarindex/internal/scalar"
)

// ErrMalformed is returned when a dataset's buffer does not match its
// declared row count or encoding.
var ErrMalformed = errors.New("dataset: malformed buffer")

// Kind describes how Tensor is encoded.
type Kind uint8

const (
	// KindFixedWidth is a contiguous little-endian array of fixed-width values.
	KindFixedWidth Kind = iota
	// KindStringArray is a length-prefixed string array
	// (protobuf "repeated string" field 1).
	KindStringArray
)

func (k Kind) String() string {
	switch k {
	case KindFixedWidth:
		return "fixed-width"
	case KindStringArray:
		return "string-array"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Dataset is one column handed to an index at build time: a row count and
// a raw value buffer. Indexes read it once and keep no reference to it.
type Dataset struct {
	Kind   Kind
	Rows   int64
	Tensor []byte
}

// FromValues encodes a numeric column.
func FromValues[T scalar.Numeric](values []T) *Dataset {
	c := scalar.NewCodec[T]()
	buf := make([]byte, 0, len(values)*c.Width())
	for _, v := range values {
		buf = c.Append(buf, v)
	}
	return &Dataset{
		Kind:   KindFixedWidth,
		Rows:   int64(len(values)),
		Tensor: buf,
	}
}

// Values decodes a numeric column. The buffer must hold exactly Rows values of T.
func Values[T scalar.Numeric](ds *Dataset) ([]T, error) {
	if ds == nil {
		return nil, fmt.Errorf("%w: nil dataset", ErrMalformed)
	}
	if ds.Kind != KindFixedWidth {
		return nil, fmt.Errorf("%w: want %s, got %s", ErrMalformed, KindFixedWidth, ds.Kind)
	}
	rows, err := conv.ToInt(ds.Rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	c := scalar.NewCodec[T]()
	if len(ds.Tensor)%c.Width() != 0 || len(ds.Tensor)/c.Width() != rows {
		return nil, fmt.Errorf("%w: %d bytes cannot hold %d %s values",
			ErrMalformed, len(ds.Tensor), rows, c.Name())
	}

	values := make([]T, rows)
	for i := range values {
		values[i] = c.Get(ds.Tensor[i*c.Width():])
	}
	return values, nil
}
