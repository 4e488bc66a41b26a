package assembler

import (
	"fmt"
	"io"
	"strings"

	"github.com/ezrec/cpcasm/token"
)

// ListingEntry is the output of one data producing token.
type ListingEntry struct {
	Span    token.Span
	Address uint16
	Bytes   []byte
}

// ListingRecorder receives the entries of each pass.
type ListingRecorder interface {
	Reset()
	Record(entry ListingEntry)
}

// ListingBuffer keeps the entries of the last pass.
type ListingBuffer struct {
	Entries []ListingEntry
}

func (lb *ListingBuffer) Reset() {
	lb.Entries = nil
}

func (lb *ListingBuffer) Record(entry ListingEntry) {
	lb.Entries = append(lb.Entries, entry)
}

const listingBytesPerLine = 8

// WriteTo writes one line per group of eight bytes: address, bytes, then
// location of the token that produced them.
func (lb *ListingBuffer) WriteTo(w io.Writer) (n int64, err error) {
	for _, entry := range lb.Entries {
		for offset := 0; offset < len(entry.Bytes); offset += listingBytesPerLine {
			chunk := entry.Bytes[offset:min(offset+listingBytesPerLine, len(entry.Bytes))]
			hex := make([]string, len(chunk))
			for i, b := range chunk {
				hex[i] = fmt.Sprintf("%02X", b)
			}
			var written int
			written, err = fmt.Fprintf(w, "%04X  %-23s  %v\n", uint16(int(entry.Address)+offset), strings.Join(hex, " "), entry.Span)
			n += int64(written)
			if err != nil {
				return
			}
		}
	}
	return
}
