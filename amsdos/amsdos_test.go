package amsdos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeader(t *testing.T) {
	assert := assert.New(t)

	h := Header{Name: "loader", Extension: "bin", Type: Binary, Load: 0x4000, Entry: 0x4010, Length: 3}
	data := append(h.Bytes(), 1, 2, 3)

	got, ok := Parse(data)
	assert.True(ok)
	assert.Equal("LOADER", got.Name)
	assert.Equal("BIN", got.Extension)
	assert.Equal(uint16(0x4000), got.Load)
	assert.Equal(uint16(0x4010), got.Entry)
	assert.Equal(3, got.Length)

	body, stripped := Strip(data)
	assert.True(stripped)
	assert.Equal([]byte{1, 2, 3}, body)

	data[5] ^= 0xff
	body, stripped = Strip(data)
	assert.False(stripped)
	assert.Equal(len(data), len(body))

	_, ok = Parse(make([]byte, HeaderSize))
	assert.False(ok)
	_, ok = Parse([]byte{1, 2})
	assert.False(ok)
}
