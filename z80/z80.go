// Package z80 encodes the Z80 instruction set used by plain opcode statements.
package z80

import (
	"errors"
	"strings"

	"github.com/ezrec/cpcasm/translate"
)

var f = translate.From

var (
	ErrOperands     = errors.New(f("invalid operands"))
	ErrRange        = errors.New(f("value out of range"))
	ErrRelativeJump = errors.New(f("relative jump out of range"))
)

// ErrMnemonic is returned for unknown instructions.
type ErrMnemonic string

func (err ErrMnemonic) Error() string {
	return f("unknown instruction %v", string(err))
}

// Operand is a resolved instruction operand.
type Operand struct {
	Register   string // lower case register or condition name, empty for values
	Value      int
	Indirect   bool
	Unresolved bool // Value is a placeholder, so range checks are skipped
}

// Reg is a register operand.
func Reg(name string) Operand {
	return Operand{Register: strings.ToLower(name)}
}

// Imm is an immediate operand.
func Imm(value int) Operand {
	return Operand{Value: value}
}

// Mem is an indirect operand, on a register when name is set.
func Mem(name string, value int) Operand {
	return Operand{Register: strings.ToLower(name), Value: value, Indirect: true}
}

var r8 = map[string]byte{"b": 0, "c": 1, "d": 2, "e": 3, "h": 4, "l": 5, "a": 7}

var rp = map[string]byte{"bc": 0, "de": 1, "hl": 2, "sp": 3}

var rp2 = map[string]byte{"bc": 0, "de": 1, "hl": 2, "af": 3}

var cc = map[string]byte{"nz": 0, "z": 1, "nc": 2, "c": 3, "po": 4, "pe": 5, "p": 6, "m": 7}

var implied = map[string][]byte{
	"nop": {0x00}, "halt": {0x76}, "di": {0xf3}, "ei": {0xfb}, "exx": {0xd9},
	"ret": {0xc9}, "rla": {0x17}, "rra": {0x1f}, "rlca": {0x07}, "rrca": {0x0f},
	"cpl": {0x2f}, "scf": {0x37}, "ccf": {0x3f}, "daa": {0x27},
	"neg": {0xed, 0x44}, "reti": {0xed, 0x4d}, "retn": {0xed, 0x45},
	"ldi": {0xed, 0xa0}, "ldd": {0xed, 0xa8}, "ldir": {0xed, 0xb0}, "lddr": {0xed, 0xb8},
	"cpi": {0xed, 0xa1}, "cpd": {0xed, 0xa9}, "cpir": {0xed, 0xb1}, "cpdr": {0xed, 0xb9},
	"ini": {0xed, 0xa2}, "inir": {0xed, 0xb2}, "outi": {0xed, 0xa3}, "otir": {0xed, 0xb3},
	"rld": {0xed, 0x6f}, "rrd": {0xed, 0x67},
}

var alu = map[string]byte{"add": 0, "adc": 1, "sub": 2, "sbc": 3, "and": 4, "xor": 5, "or": 6, "cp": 7}

var rot = map[string]byte{"rlc": 0, "rrc": 1, "rl": 2, "rr": 3, "sla": 4, "sra": 5, "sll": 6, "srl": 7}

var bitop = map[string]byte{"bit": 0x40, "res": 0x80, "set": 0xc0}

// reg8 returns the 3 bit code of an 8 bit register, (hl) included.
func reg8(op Operand) (code byte, ok bool) {
	if op.Indirect {
		return 6, op.Register == "hl"
	}
	code, ok = r8[op.Register]
	return
}

func isImm(op Operand) bool {
	return len(op.Register) == 0 && !op.Indirect
}

func isAddr(op Operand) bool {
	return len(op.Register) == 0 && op.Indirect
}

func is(op Operand, name string) bool {
	return op.Register == name && !op.Indirect
}

func byteValue(op Operand) (byte, error) {
	if !op.Unresolved && (op.Value < -128 || op.Value > 255) {
		return 0, ErrRange
	}
	return byte(op.Value), nil
}

func word(op Operand) []byte {
	return []byte{byte(op.Value), byte(op.Value >> 8)}
}

func relative(op Operand, pc uint16) (byte, error) {
	delta := op.Value - (int(pc) + 2)
	if !op.Unresolved && (delta < -128 || delta > 127) {
		return 0, ErrRelativeJump
	}
	return byte(delta), nil
}

func condition(op Operand) (code byte, ok bool) {
	if op.Indirect {
		return
	}
	code, ok = cc[op.Register]
	return
}

// Encode assembles one instruction located at pc.
func Encode(mnemonic string, ops []Operand, pc uint16) (code []byte, err error) {
	mnemonic = strings.ToLower(mnemonic)

	if bytes, ok := implied[mnemonic]; ok && len(ops) == 0 {
		return append([]byte(nil), bytes...), nil
	}

	if op, ok := alu[mnemonic]; ok {
		return encodeAlu(mnemonic, op, ops)
	}

	if op, ok := rot[mnemonic]; ok && len(ops) == 1 {
		r, ok := reg8(ops[0])
		if !ok {
			return nil, ErrOperands
		}
		return []byte{0xcb, op<<3 | r}, nil
	}

	if base, ok := bitop[mnemonic]; ok && len(ops) == 2 {
		r, ok := reg8(ops[1])
		if !ok || !isImm(ops[0]) || (!ops[0].Unresolved && (ops[0].Value < 0 || ops[0].Value > 7)) {
			return nil, ErrOperands
		}
		return []byte{0xcb, base | byte(ops[0].Value&7)<<3 | r}, nil
	}

	switch mnemonic {
	case "ld":
		return encodeLd(ops)
	case "inc", "dec":
		if len(ops) != 1 {
			return nil, ErrOperands
		}
		if r, ok := reg8(ops[0]); ok {
			if mnemonic == "inc" {
				return []byte{0x04 | r<<3}, nil
			}
			return []byte{0x05 | r<<3}, nil
		}
		if p, ok := rp[ops[0].Register]; ok && !ops[0].Indirect {
			if mnemonic == "inc" {
				return []byte{0x03 | p<<4}, nil
			}
			return []byte{0x0b | p<<4}, nil
		}
	case "push", "pop":
		if len(ops) != 1 || ops[0].Indirect {
			return nil, ErrOperands
		}
		if p, ok := rp2[ops[0].Register]; ok {
			if mnemonic == "push" {
				return []byte{0xc5 | p<<4}, nil
			}
			return []byte{0xc1 | p<<4}, nil
		}
	case "jp", "call":
		return encodeJump(mnemonic, ops)
	case "jr", "djnz":
		return encodeRelative(mnemonic, ops, pc)
	case "ret":
		if len(ops) == 1 {
			if c, ok := condition(ops[0]); ok {
				return []byte{0xc0 | c<<3}, nil
			}
		}
	case "rst":
		if len(ops) == 1 && isImm(ops[0]) && ops[0].Value&^0x38 == 0 {
			return []byte{0xc7 | byte(ops[0].Value)}, nil
		}
	case "ex":
		if len(ops) == 2 {
			switch {
			case is(ops[0], "de") && is(ops[1], "hl"):
				return []byte{0xeb}, nil
			case is(ops[0], "af") && (is(ops[1], "af'") || is(ops[1], "af")):
				return []byte{0x08}, nil
			case ops[0].Indirect && ops[0].Register == "sp" && is(ops[1], "hl"):
				return []byte{0xe3}, nil
			}
		}
	case "im":
		if len(ops) == 1 && isImm(ops[0]) {
			switch ops[0].Value {
			case 0:
				return []byte{0xed, 0x46}, nil
			case 1:
				return []byte{0xed, 0x56}, nil
			case 2:
				return []byte{0xed, 0x5e}, nil
			}
		}
	case "out":
		if len(ops) == 2 && isAddr(ops[0]) && is(ops[1], "a") {
			n, err := byteValue(ops[0])
			return []byte{0xd3, n}, err
		}
		if len(ops) == 2 && ops[0].Indirect && ops[0].Register == "c" {
			if r, ok := reg8(ops[1]); ok && r != 6 {
				return []byte{0xed, 0x41 | r<<3}, nil
			}
		}
	case "in":
		if len(ops) == 2 && is(ops[0], "a") && isAddr(ops[1]) {
			n, err := byteValue(ops[1])
			return []byte{0xdb, n}, err
		}
		if len(ops) == 2 && ops[1].Indirect && ops[1].Register == "c" {
			if r, ok := reg8(ops[0]); ok && r != 6 {
				return []byte{0xed, 0x40 | r<<3}, nil
			}
		}
	default:
		return nil, ErrMnemonic(mnemonic)
	}

	return nil, ErrOperands
}

func encodeAlu(mnemonic string, op byte, ops []Operand) (code []byte, err error) {
	if len(ops) == 2 && is(ops[0], "hl") {
		p, ok := rp[ops[1].Register]
		if !ok || ops[1].Indirect {
			return nil, ErrOperands
		}
		switch mnemonic {
		case "add":
			return []byte{0x09 | p<<4}, nil
		case "adc":
			return []byte{0xed, 0x4a | p<<4}, nil
		case "sbc":
			return []byte{0xed, 0x42 | p<<4}, nil
		}
		return nil, ErrOperands
	}

	if len(ops) == 2 && is(ops[0], "a") {
		ops = ops[1:]
	}
	if len(ops) != 1 {
		return nil, ErrOperands
	}

	if r, ok := reg8(ops[0]); ok {
		return []byte{0x80 | op<<3 | r}, nil
	}
	if isImm(ops[0]) {
		n, err := byteValue(ops[0])
		return []byte{0xc6 | op<<3, n}, err
	}
	return nil, ErrOperands
}

func encodeJump(mnemonic string, ops []Operand) (code []byte, err error) {
	base, conditional := byte(0xc3), byte(0xc2)
	if mnemonic == "call" {
		base, conditional = 0xcd, 0xc4
	}

	switch len(ops) {
	case 1:
		if mnemonic == "jp" && ops[0].Indirect && ops[0].Register == "hl" {
			return []byte{0xe9}, nil
		}
		if isImm(ops[0]) {
			return append([]byte{base}, word(ops[0])...), nil
		}
	case 2:
		c, ok := condition(ops[0])
		if ok && isImm(ops[1]) {
			return append([]byte{conditional | c<<3}, word(ops[1])...), nil
		}
	}
	return nil, ErrOperands
}

func encodeRelative(mnemonic string, ops []Operand, pc uint16) (code []byte, err error) {
	var opcode byte
	var target Operand
	switch {
	case mnemonic == "djnz" && len(ops) == 1:
		opcode, target = 0x10, ops[0]
	case len(ops) == 1:
		opcode, target = 0x18, ops[0]
	case len(ops) == 2:
		c, ok := condition(ops[0])
		if !ok || c > 3 {
			return nil, ErrOperands
		}
		opcode, target = 0x20|c<<3, ops[1]
	default:
		return nil, ErrOperands
	}
	if !isImm(target) {
		return nil, ErrOperands
	}
	e, err := relative(target, pc)
	return []byte{opcode, e}, err
}

func encodeLd(ops []Operand) (code []byte, err error) {
	if len(ops) != 2 {
		return nil, ErrOperands
	}
	dst, src := ops[0], ops[1]

	if d, ok := reg8(dst); ok {
		if s, ok := reg8(src); ok {
			if d == 6 && s == 6 {
				return nil, ErrOperands
			}
			return []byte{0x40 | d<<3 | s}, nil
		}
		if isImm(src) {
			n, err := byteValue(src)
			return []byte{0x06 | d<<3, n}, err
		}
	}

	if is(dst, "a") {
		switch {
		case src.Indirect && src.Register == "bc":
			return []byte{0x0a}, nil
		case src.Indirect && src.Register == "de":
			return []byte{0x1a}, nil
		case isAddr(src):
			return append([]byte{0x3a}, word(src)...), nil
		case is(src, "i"):
			return []byte{0xed, 0x57}, nil
		case is(src, "r"):
			return []byte{0xed, 0x5f}, nil
		}
	}

	if is(src, "a") {
		switch {
		case dst.Indirect && dst.Register == "bc":
			return []byte{0x02}, nil
		case dst.Indirect && dst.Register == "de":
			return []byte{0x12}, nil
		case isAddr(dst):
			return append([]byte{0x32}, word(dst)...), nil
		case is(dst, "i"):
			return []byte{0xed, 0x47}, nil
		case is(dst, "r"):
			return []byte{0xed, 0x4f}, nil
		}
	}

	if p, ok := rp[dst.Register]; ok && !dst.Indirect {
		switch {
		case isImm(src):
			return append([]byte{0x01 | p<<4}, word(src)...), nil
		case isAddr(src) && p == 2:
			return append([]byte{0x2a}, word(src)...), nil
		case isAddr(src):
			return append([]byte{0xed, 0x4b | p<<4}, word(src)...), nil
		case p == 3 && is(src, "hl"):
			return []byte{0xf9}, nil
		}
	}

	if p, ok := rp[src.Register]; ok && !src.Indirect && isAddr(dst) {
		if p == 2 {
			return append([]byte{0x22}, word(dst)...), nil
		}
		return append([]byte{0xed, 0x43 | p<<4}, word(dst)...), nil
	}

	return nil, ErrOperands
}

var mnemonics = map[string]bool{
	"ld": true, "inc": true, "dec": true, "push": true, "pop": true,
	"jp": true, "call": true, "jr": true, "djnz": true, "ret": true,
	"rst": true, "ex": true, "im": true, "out": true, "in": true,
}

// IsMnemonic reports whether name is a known instruction.
func IsMnemonic(name string) bool {
	name = strings.ToLower(name)
	if mnemonics[name] {
		return true
	}
	_, isImplied := implied[name]
	_, isAlu := alu[name]
	_, isRot := rot[name]
	_, isBit := bitop[name]
	return isImplied || isAlu || isRot || isBit
}

var registers = map[string]bool{
	"a": true, "b": true, "c": true, "d": true, "e": true, "h": true, "l": true,
	"i": true, "r": true, "af": true, "af'": true, "bc": true, "de": true,
	"hl": true, "sp": true, "ix": true, "iy": true,
	"nz": true, "z": true, "nc": true, "po": true, "pe": true, "p": true, "m": true,
}

// IsRegister reports whether name is a register or condition name.
func IsRegister(name string) bool {
	return registers[strings.ToLower(name)]
}
