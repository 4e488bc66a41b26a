// Package amsdos handles the 128 byte header Amsdos prepends to files.
package amsdos

import (
	"encoding/binary"
	"strings"
)

// HeaderSize is the size of an Amsdos header.
const HeaderSize = 128

const checksumOffset = 67

// FileType of the header.
type FileType byte

const (
	Basic     FileType = 0
	Protected FileType = 1
	Binary    FileType = 2
)

// Header is the decoded content of an Amsdos header.
type Header struct {
	User      byte
	Name      string // up to 8 characters
	Extension string // up to 3 characters
	Type      FileType
	Load      uint16
	Entry     uint16
	Length    int
}

func checksum(raw []byte) uint16 {
	var sum uint16
	for _, b := range raw[:checksumOffset] {
		sum += uint16(b)
	}
	return sum
}

func field(raw []byte) string {
	return strings.TrimRight(string(raw), " \x00")
}

// Parse decodes the header at the start of data, if there is a valid one.
func Parse(data []byte) (h Header, ok bool) {
	if len(data) < HeaderSize {
		return
	}
	raw := data[:HeaderSize]
	if binary.LittleEndian.Uint16(raw[checksumOffset:]) != checksum(raw) {
		return
	}
	// An all zero block has a valid checksum but is not a header.
	if checksum(raw) == 0 {
		return
	}

	h = Header{
		User:      raw[0],
		Name:      field(raw[1:9]),
		Extension: field(raw[9:12]),
		Type:      FileType(raw[18]),
		Load:      binary.LittleEndian.Uint16(raw[21:]),
		Entry:     binary.LittleEndian.Uint16(raw[26:]),
		Length:    int(raw[64]) | int(raw[65])<<8 | int(raw[66])<<16,
	}
	ok = true
	return
}

// Bytes encodes the header.
func (h Header) Bytes() []byte {
	raw := make([]byte, HeaderSize)
	raw[0] = h.User
	copy(raw[1:9], []byte(strings.ToUpper(h.Name)+"        ")[:8])
	copy(raw[9:12], []byte(strings.ToUpper(h.Extension)+"   ")[:3])
	raw[18] = byte(h.Type)
	binary.LittleEndian.PutUint16(raw[21:], h.Load)
	binary.LittleEndian.PutUint16(raw[24:], uint16(h.Length))
	binary.LittleEndian.PutUint16(raw[26:], h.Entry)
	raw[64] = byte(h.Length)
	raw[65] = byte(h.Length >> 8)
	raw[66] = byte(h.Length >> 16)
	binary.LittleEndian.PutUint16(raw[checksumOffset:], checksum(raw))
	return raw
}

// Strip removes a valid header from data.
func Strip(data []byte) (body []byte, stripped bool) {
	if _, ok := Parse(data); ok {
		return data[HeaderSize:], true
	}
	return data, false
}
