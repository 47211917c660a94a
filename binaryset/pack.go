package binaryset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/scalarindex/internal/conv"
	"github.com/hupe1980/scalarindex/internal/hash"
)

// ErrCorrupt is returned when a packed BinarySet cannot be decoded.
var ErrCorrupt = errors.New("binaryset: corrupt packed data")

// Packed layout:
//
//	[magic "SIBS"][version u8][compression u8][reserved u16]
//	[block: uncompressedSize u64, compressedSize u64, payload]
//	[crc32c u32 over everything before it]
//
// The uncompressed block payload is
//
//	[count uvarint] then count x [nameLen uvarint][name][dataLen uvarint][data]
const (
	packMagic      = "SIBS"
	packVersion    = 1
	packHeaderSize = 8
	packTrailer    = 4
)

// Marshal packs the set into a single self-checking byte slice.
func Marshal(s *BinarySet, c Compression) ([]byte, error) {
	body := make([]byte, 0, s.Size()+int64(s.Len())*8+binary.MaxVarintLen64)
	body = binary.AppendUvarint(body, uint64(s.Len()))
	for _, e := range s.entries {
		body = binary.AppendUvarint(body, uint64(len(e.Name)))
		body = append(body, e.Name...)
		body = binary.AppendUvarint(body, uint64(len(e.Data)))
		body = append(body, e.Data...)
	}

	block, err := compressBlock(body, c)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, packHeaderSize+len(block)+packTrailer)
	out = append(out, packMagic...)
	out = append(out, packVersion, byte(c), 0, 0)
	out = append(out, block...)
	out = hash.AppendCRC32C(out, out)
	return out, nil
}

// Pack writes the packed form of s to w.
func Pack(w io.Writer, s *BinarySet, c Compression) (int64, error) {
	data, err := Marshal(s, c)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Unmarshal decodes a packed BinarySet. The returned blobs never alias
// data, so data may be released once Unmarshal returns.
func Unmarshal(data []byte) (*BinarySet, Compression, error) {
	if len(data) < packHeaderSize+blockHeaderSize+packTrailer {
		return nil, 0, fmt.Errorf("%w: %d bytes is too short", ErrCorrupt, len(data))
	}
	if string(data[:4]) != packMagic {
		return nil, 0, fmt.Errorf("%w: bad magic", ErrCorrupt)
	}
	if data[4] != packVersion {
		return nil, 0, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, data[4])
	}

	trailerAt := len(data) - packTrailer
	want := binary.LittleEndian.Uint32(data[trailerAt:])
	if got := hash.CRC32C(data[:trailerAt]); got != want {
		return nil, 0, fmt.Errorf("%w: checksum mismatch (got %08x, want %08x)", ErrCorrupt, got, want)
	}

	c := Compression(data[5])
	body, err := decompressBlock(data[packHeaderSize:trailerAt], c)
	if err != nil {
		return nil, 0, err
	}

	s, err := decodeBody(body)
	if err != nil {
		return nil, 0, err
	}
	return s, c, nil
}

// Unpack reads everything from r and decodes it with Unmarshal.
func Unpack(r io.Reader) (*BinarySet, Compression, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}
	return Unmarshal(data)
}

func decodeBody(body []byte) (*BinarySet, error) {
	off := 0
	next := func(what string) (int, error) {
		v, n := binary.Uvarint(body[off:])
		if n <= 0 {
			return 0, fmt.Errorf("%w: bad %s varint at offset %d", ErrCorrupt, what, off)
		}
		off += n
		l, err := conv.ToInt(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		return l, nil
	}
	take := func(l int) ([]byte, error) {
		if l > len(body)-off {
			return nil, fmt.Errorf("%w: truncated entry at offset %d", ErrCorrupt, off)
		}
		b := body[off : off+l : off+l]
		off += l
		return b, nil
	}

	count, err := next("count")
	if err != nil {
		return nil, err
	}
	// Each entry needs at least two length bytes.
	if count > (len(body)-off)/2 {
		return nil, fmt.Errorf("%w: entry count %d exceeds body", ErrCorrupt, count)
	}

	s := New()
	for range count {
		nameLen, err := next("name length")
		if err != nil {
			return nil, err
		}
		name, err := take(nameLen)
		if err != nil {
			return nil, err
		}
		dataLen, err := next("data length")
		if err != nil {
			return nil, err
		}
		data, err := take(dataLen)
		if err != nil {
			return nil, err
		}
		if s.Contains(string(name)) {
			return nil, fmt.Errorf("%w: duplicate blob %q", ErrCorrupt, name)
		}
		s.Append(string(name), data)
	}
	if off != len(body) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(body)-off)
	}
	return s, nil
}
