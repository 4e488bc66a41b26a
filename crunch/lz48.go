package crunch

// LZ48 stream layout, after a leading literal byte, is a series of blocks:
//
//	token    high nibble literal count, low nibble match length - 3
//	[ext]    literal count extension when the nibble is 15
//	literals
//	[ext]    match length extension (minus 18) when the nibble is 15
//	offset   distance - 1; 0xff ends the stream
const (
	lz48MinMatch = 3
	lz48Window   = 255
)

func lz48Extend(out []byte, length int) []byte {
	for length >= 255 {
		out = append(out, 0xff)
		length -= 255
	}
	return append(out, byte(length))
}

func lz48Block(out []byte, literals []byte, length int, offset int) []byte {
	token := len(out)
	out = append(out, 0)

	if len(literals) < 15 {
		out[token] = byte(len(literals) << 4)
	} else {
		out[token] = 0xf0
		out = lz48Extend(out, len(literals)-15)
	}
	out = append(out, literals...)

	if length < 18 {
		if length > 2 {
			out[token] |= byte(length - lz48MinMatch)
		}
	} else {
		out[token] |= 0x0f
		out = lz48Extend(out, length-18)
	}

	if offset == 0 {
		return append(out, 0xff)
	}
	return append(out, byte(offset-1))
}

// CompressLZ48 compresses data in the LZ48 format.
func CompressLZ48(data []byte) (out []byte, err error) {
	if len(data) == 0 {
		err = ErrEmpty
		return
	}

	out = []byte{data[0]}
	if len(data) < 5 {
		out = append(out, byte((len(data)-1)<<4))
		out = append(out, data[1:]...)
		out = append(out, 0xff)
		return
	}

	current := 1
	literal := current
	for current < len(data) {
		bestLength, bestOffset := 0, 0
		for start := max(0, current-lz48Window); start < current; start++ {
			length := 0
			for current+length < len(data) && data[start+length] == data[current+length] {
				length++
			}
			if length >= lz48MinMatch && length > bestLength {
				bestLength = length
				bestOffset = current - start
			}
		}

		if bestLength == 0 {
			current++
			continue
		}

		out = lz48Block(out, data[literal:current], bestLength, bestOffset)
		current += bestLength
		literal = current
	}

	out = lz48Block(out, data[literal:current], 0, 0)
	return
}

// DecompressLZ48 reverses CompressLZ48.
func DecompressLZ48(data []byte) (out []byte, err error) {
	if len(data) == 0 {
		err = ErrEmpty
		return
	}

	out = []byte{data[0]}
	pos := 1
	next := func() (b byte, ok bool) {
		if pos >= len(data) {
			return 0, false
		}
		b = data[pos]
		pos++
		return b, true
	}
	extend := func(length int) (int, bool) {
		for {
			b, ok := next()
			if !ok {
				return 0, false
			}
			length += int(b)
			if b != 0xff {
				return length, true
			}
		}
	}

	for {
		token, ok := next()
		if !ok {
			return out, ErrCorrupt
		}

		literals := int(token >> 4)
		if literals == 15 {
			if literals, ok = extend(15); !ok {
				return out, ErrCorrupt
			}
		}
		if pos+literals > len(data) {
			return out, ErrCorrupt
		}
		out = append(out, data[pos:pos+literals]...)
		pos += literals

		length := int(token&0x0f) + lz48MinMatch
		if token&0x0f == 0x0f {
			if length, ok = extend(18); !ok {
				return out, ErrCorrupt
			}
		}

		offset, ok := next()
		if !ok {
			return out, ErrCorrupt
		}
		if offset == 0xff {
			return out, nil
		}

		from := len(out) - int(offset) - 1
		if from < 0 {
			return out, ErrCorrupt
		}
		for n := range length {
			out = append(out, out[from+n])
		}
	}
}
