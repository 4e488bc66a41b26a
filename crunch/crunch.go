// Package crunch compresses produced bytes for crunched sections and
// transformed binary inclusions.
package crunch

import (
	"errors"
	"strings"

	"github.com/ezrec/cpcasm/translate"
)

var f = translate.From

var (
	ErrEmpty     = errors.New(f("cannot compress empty data"))
	ErrAlgorithm = errors.New(f("unknown compression algorithm"))
	ErrCorrupt   = errors.New(f("corrupt compressed data"))
)

//go:generate go tool stringer -linecomment -type=Algorithm

// Algorithm names a compressor.
type Algorithm int

const (
	None Algorithm = iota // none
	LZ48                  // lz48
	LZ4                   // lz4
)

// ParseAlgorithm looks an algorithm up by name.
func ParseAlgorithm(name string) (Algorithm, bool) {
	switch strings.ToLower(name) {
	case "lz48":
		return LZ48, true
	case "lz4":
		return LZ4, true
	case "", "none":
		return None, true
	}
	return None, false
}

// Compressor turns raw bytes into compressed bytes.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// CompressorFunc adapts a function to Compressor.
type CompressorFunc func(data []byte) ([]byte, error)

func (cf CompressorFunc) Compress(data []byte) ([]byte, error) {
	return cf(data)
}

// For returns the compressor of an algorithm.
func For(alg Algorithm) (Compressor, error) {
	switch alg {
	case LZ48:
		return CompressorFunc(CompressLZ48), nil
	case LZ4:
		return CompressorFunc(CompressLZ4), nil
	case None:
		return CompressorFunc(func(data []byte) ([]byte, error) {
			return append([]byte(nil), data...), nil
		}), nil
	}
	return nil, ErrAlgorithm
}

// Compress data with alg.
func Compress(alg Algorithm, data []byte) ([]byte, error) {
	c, err := For(alg)
	if err != nil {
		return nil, err
	}
	return c.Compress(data)
}
