package dataset

import (
	"fmt"

	"github.com/hupe1980/scalarindex/internal/conv"
	"google.golang.org/protobuf/encoding/protowire"
)

// stringArrayField is the field number of "repeated string data = 1".
const stringArrayField protowire.Number = 1

// FromStrings encodes a string column as a length-prefixed string array.
func FromStrings(values []string) *Dataset {
	return &Dataset{
		Kind:   KindStringArray,
		Rows:   int64(len(values)),
		Tensor: AppendStringArray(nil, values),
	}
}

// AppendStringArray appends the wire encoding of values to dst.
func AppendStringArray(dst []byte, values []string) []byte {
	for _, v := range values {
		dst = protowire.AppendTag(dst, stringArrayField, protowire.BytesType)
		dst = protowire.AppendString(dst, v)
	}
	return dst
}

// DecodeStringArray decodes a length-prefixed string array.
// Unknown fields are skipped, matching protobuf semantics.
func DecodeStringArray(b []byte) ([]string, error) {
	var values []string
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]

		if num == stringArrayField && typ == protowire.BytesType {
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: %w", ErrMalformed, protowire.ParseError(n))
			}
			values = append(values, v)
			b = b[n:]
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return values, nil
}

// Strings decodes a string column. The decoded count must equal Rows.
func Strings(ds *Dataset) ([]string, error) {
	if ds == nil {
		return nil, fmt.Errorf("%w: nil dataset", ErrMalformed)
	}
	if ds.Kind != KindStringArray {
		return nil, fmt.Errorf("%w: want %s, got %s", ErrMalformed, KindStringArray, ds.Kind)
	}
	rows, err := conv.ToInt(ds.Rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	values, err := DecodeStringArray(ds.Tensor)
	if err != nil {
		return nil, err
	}
	if len(values) != rows {
		return nil, fmt.Errorf("%w: decoded %d strings, dataset declares %d", ErrMalformed, len(values), rows)
	}
	return values, nil
}
