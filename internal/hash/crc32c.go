package hash

import (
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}

// AppendCRC32C appends the little-endian checksum of data to dst.
// Passing data == dst seals a buffer with its own trailer.
func AppendCRC32C(dst, data []byte) []byte {
	return binary.LittleEndian.AppendUint32(dst, CRC32C(data))
}

// CRC32CBase64 encodes the checksum the way S3 expects it in the
// x-amz-checksum-crc32c header: base64 of the big-endian bytes.
func CRC32CBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(binary.BigEndian.AppendUint32(nil, CRC32C(data)))
}
