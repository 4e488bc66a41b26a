// Package assembler runs the passes of a Z80 assembly for the Amstrad CPC.
//
// A parsed listing is first wrapped into processed tokens, each holding the
// state that must survive from one pass to the next: the branches of an IF
// built so far, the expansion of a macro call, the file read by an INCLUDE,
// the bytes last given to a compressor. Passes are then run over the
// processed tokens until labels stop moving and every expression resolves.
//
// Symbols are kept in namespaces. Labels starting with '.' are local to the
// last global label, and labels starting with '@' are unique to one macro
// call or loop iteration.
package assembler
