package assembler

const pageSize = 0x10000

// page is a 64 KiB memory image with written byte tracking.
type page struct {
	mem     [pageSize]byte
	written [pageSize]bool
	start   int
	end     int
}

func newPage() *page {
	return &page{start: pageSize}
}

// write stores b at addr, and reports whether addr was already written.
func (p *page) write(addr int, b byte) (overridden bool) {
	overridden = p.written[addr]
	p.mem[addr] = b
	p.written[addr] = true
	p.start = min(p.start, addr)
	p.end = max(p.end, addr+1)
	return
}

// bytes returns the span of memory between the lowest and highest written
// addresses.
func (p *page) bytes() []byte {
	if p.end <= p.start {
		return nil
	}
	return append([]byte(nil), p.mem[p.start:p.end]...)
}

// slice returns the memory from addr to end.
func (p *page) slice(addr int, end int) []byte {
	if end <= addr {
		return nil
	}
	return append([]byte(nil), p.mem[addr:end]...)
}

// outputCommand is a write recorded by a restricted environment.
type outputCommand struct {
	address int
	data    []byte
}

// controlStore tracks the inner passes of a restricted environment.
type controlStore struct {
	remaining int
	page      *page
	commands  []outputCommand
}

func (cs *controlStore) record(address int, data []byte) {
	cs.commands = append(cs.commands, outputCommand{address: address, data: append([]byte(nil), data...)})
}
