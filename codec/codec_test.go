package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manifestLike struct {
	Kind     string `json:"kind"`
	Rows     uint64 `json:"rows"`
	Checksum uint32 `json:"checksum"`
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json", "go-json-indent"} {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecsInterchangeable(t *testing.T) {
	in := manifestLike{Kind: "fixed-width", Rows: 1 << 40, Checksum: 0xE3069283}
	codecs := []Codec{JSON{}, GoJSON{}, GoJSON{Indent: "  "}}

	for _, enc := range codecs {
		for _, dec := range codecs {
			t.Run(enc.Name()+"->"+dec.Name(), func(t *testing.T) {
				data, err := enc.Marshal(in)
				require.NoError(t, err)

				var out manifestLike
				require.NoError(t, dec.Unmarshal(data, &out))
				assert.Equal(t, in, out)
			})
		}
	}
}

func TestGoJSONIndent(t *testing.T) {
	data, err := GoJSON{Indent: "  "}.Marshal(manifestLike{Kind: "string", Rows: 3})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"kind\": \"string\",\n  \"rows\": 3,\n  \"checksum\": 0\n}", string(data))

	_, err = JSON{}.Marshal(make(chan int))
	assert.Error(t, err)
}
