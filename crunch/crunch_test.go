package crunch

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLZ48Vector(t *testing.T) {
	assert := assert.New(t)

	out, err := CompressLZ48([]byte("AAAAAAAA"))
	assert.NoError(err)
	assert.Equal([]byte{'A', 0x04, 0x00, 0x00, 0xff}, out)

	out, err = CompressLZ48([]byte{1, 2, 3})
	assert.NoError(err)
	assert.Equal([]byte{1, 0x20, 2, 3, 0xff}, out)

	_, err = CompressLZ48(nil)
	assert.ErrorIs(err, ErrEmpty)
}

func TestLZ48RoundTrip(t *testing.T) {
	assert := assert.New(t)

	inputs := [][]byte{
		[]byte("hello hello hello hello, world"),
		bytes.Repeat([]byte{0xaa, 0x55, 0x00}, 200),
		bytes.Repeat([]byte{7}, 1000),
	}
	noisy := make([]byte, 700)
	seed := uint32(1)
	for n := range noisy {
		seed = seed*1103515245 + 12345
		noisy[n] = byte(seed >> 16)
	}
	inputs = append(inputs, noisy)

	for _, input := range inputs {
		packed, err := CompressLZ48(input)
		assert.NoError(err)
		unpacked, err := DecompressLZ48(packed)
		assert.NoError(err)
		assert.Equal(input, unpacked)
	}
}

func TestLZ4RoundTrip(t *testing.T) {
	assert := assert.New(t)

	input := bytes.Repeat([]byte("cpc 6128 "), 100)
	packed, err := Compress(LZ4, input)
	assert.NoError(err)
	assert.Less(len(packed), len(input))

	unpacked, err := DecompressLZ4(packed, len(input))
	assert.NoError(err)
	assert.Equal(input, unpacked)

	_, err = Compress(LZ4, nil)
	assert.ErrorIs(err, ErrEmpty)
}

func TestAlgorithm(t *testing.T) {
	assert := assert.New(t)

	alg, ok := ParseAlgorithm("LZ48")
	assert.True(ok)
	assert.Equal(LZ48, alg)
	assert.Equal("lz48", alg.String())

	_, ok = ParseAlgorithm("zx0")
	assert.False(ok)

	_, err := For(Algorithm(42))
	assert.ErrorIs(err, ErrAlgorithm)

	out, err := Compress(None, []byte{1, 2})
	assert.NoError(err)
	assert.Equal([]byte{1, 2}, out)
}
