package binaryset

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/hupe1980/scalarindex/internal/conv"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects how the body of a packed BinarySet is compressed.
type Compression uint8

const (
	// CompressionNone stores the body as is.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast, good for hot data).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD compression (better ratio, good for cold data).
	CompressionZSTD Compression = 2
)

// String returns the stable name of the compression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression returns the compression with the given stable name.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("binaryset: unknown compression %q", name)
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxBlockSize))
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// lz4MaxRatio is the largest expansion an LZ4 block can encode.
const lz4MaxRatio = 255

// maxBlockSize caps the uncompressed size of a ZSTD block.
const maxBlockSize = 1 << 34

// blockHeaderSize covers [UncompressedSize uint64][CompressedSize uint64].
// CompressedSize == 0 means the block is stored uncompressed.
const blockHeaderSize = 16

// compressBlock compresses data and prefixes it with a block header.
// Falls back to storing the data uncompressed when compression does not
// save at least 10%.
func compressBlock(data []byte, c Compression) ([]byte, error) {
	var (
		compressed []byte
		err        error
	)

	switch c {
	case CompressionNone:
	case CompressionLZ4:
		compressed, err = compressBlockLZ4(data)
	case CompressionZSTD:
		compressed = compressBlockZSTD(data)
	default:
		return nil, fmt.Errorf("binaryset: unsupported compression %s", c)
	}
	if err != nil {
		return nil, err
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		result := make([]byte, blockHeaderSize+len(data))
		binary.LittleEndian.PutUint64(result[0:], uint64(len(data)))
		binary.LittleEndian.PutUint64(result[8:], 0)
		copy(result[blockHeaderSize:], data)
		return result, nil
	}

	result := make([]byte, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint64(result[0:], uint64(len(data)))
	binary.LittleEndian.PutUint64(result[8:], uint64(len(compressed)))
	copy(result[blockHeaderSize:], compressed)
	return result, nil
}

func compressBlockLZ4(data []byte) ([]byte, error) {
	compressed := make([]byte, lz4.CompressBlockBound(len(data)))

	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // incompressible
	}
	return compressed[:n], nil
}

func compressBlockZSTD(data []byte) []byte {
	enc := getZstdEncoder()
	defer putZstdEncoder(enc)

	return enc.EncodeAll(data, nil)
}

// decompressBlock reverses compressBlock. The returned slice never aliases
// block, so the caller may release the source (e.g. unmap it).
func decompressBlock(block []byte, c Compression) ([]byte, error) {
	if len(block) < blockHeaderSize {
		return nil, fmt.Errorf("%w: block too small for header", ErrCorrupt)
	}

	uncompressedSize := binary.LittleEndian.Uint64(block[0:])
	compressedSize := binary.LittleEndian.Uint64(block[8:])
	payload := block[blockHeaderSize:]

	if compressedSize == 0 {
		if uint64(len(payload)) != uncompressedSize {
			return nil, fmt.Errorf("%w: stored block size mismatch", ErrCorrupt)
		}
		out := make([]byte, len(payload))
		copy(out, payload)
		return out, nil
	}

	if uint64(len(payload)) != compressedSize {
		return nil, fmt.Errorf("%w: compressed block size mismatch", ErrCorrupt)
	}

	switch c {
	case CompressionLZ4:
		if uncompressedSize > lz4MaxRatio*uint64(len(payload)) {
			return nil, fmt.Errorf("%w: block claims %d bytes from %d compressed", ErrCorrupt, uncompressedSize, len(payload))
		}
		size, err := conv.ToInt(uncompressedSize)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		result := make([]byte, size)
		n, err := lz4.UncompressBlock(payload, result)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint64(n) != uncompressedSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return result, nil

	case CompressionZSTD:
		if uncompressedSize > maxBlockSize {
			return nil, fmt.Errorf("%w: block claims %d bytes", ErrCorrupt, uncompressedSize)
		}
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		// The decoder sizes dst from the frame itself, bounded by maxBlockSize.
		decoded, err := dec.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint64(len(decoded)) != uncompressedSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return decoded, nil

	default:
		return nil, fmt.Errorf("%w: compressed block with compression %s", ErrCorrupt, c)
	}
}
