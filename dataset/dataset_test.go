package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestValues_RoundTrip(t *testing.T) {
	in := []int64{5, 3, 3, 8, 1}
	ds := FromValues(in)
	assert.Equal(t, KindFixedWidth, ds.Kind)
	assert.Equal(t, int64(5), ds.Rows)
	assert.Len(t, ds.Tensor, 40)

	out, err := Values[int64](ds)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestValues_Malformed(t *testing.T) {
	tests := []struct {
		name string
		ds   *Dataset
	}{
		{"nil", nil},
		{"wrong kind", FromStrings([]string{"a"})},
		{"short buffer", &Dataset{Rows: 2, Tensor: make([]byte, 7)}},
		{"rows mismatch", &Dataset{Rows: 3, Tensor: make([]byte, 16)}},
		{"negative rows", &Dataset{Rows: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Values[float64](tt.ds)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestStrings_RoundTrip(t *testing.T) {
	in := []string{"banana", "", "apple", "ümlaut"}
	ds := FromStrings(in)
	assert.Equal(t, KindStringArray, ds.Kind)

	out, err := Strings(ds)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestStrings_WireFormat(t *testing.T) {
	// tag (field 1, bytes) = 0x0a, then length, then bytes.
	assert.Equal(t, []byte{0x0a, 0x02, 'h', 'i'}, AppendStringArray(nil, []string{"hi"}))
}

func TestDecodeStringArray_SkipsUnknownFields(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, 99)
	b = AppendStringArray(b, []string{"x", "y"})

	out, err := DecodeStringArray(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, out)
}

func TestStrings_Malformed(t *testing.T) {
	_, err := DecodeStringArray([]byte{0x0a, 0x05, 'a'})
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Strings(&Dataset{Kind: KindStringArray, Rows: 3, Tensor: AppendStringArray(nil, []string{"a"})})
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Strings(FromValues([]int32{1}))
	assert.ErrorIs(t, err, ErrMalformed)
}
