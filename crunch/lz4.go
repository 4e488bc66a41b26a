package crunch

import (
	"github.com/pierrec/lz4/v4"
)

// CompressLZ4 compresses data as a raw LZ4 block.
func CompressLZ4(data []byte) (out []byte, err error) {
	if len(data) == 0 {
		err = ErrEmpty
		return
	}

	var c lz4.Compressor
	buf := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := c.CompressBlock(data, buf)
	if err != nil {
		return
	}

	out = buf[:n]
	return
}

// DecompressLZ4 reverses CompressLZ4, given the uncompressed size.
func DecompressLZ4(data []byte, size int) (out []byte, err error) {
	out = make([]byte, size)
	n, err := lz4.UncompressBlock(data, out)
	if err != nil {
		return
	}
	out = out[:n]
	return
}
