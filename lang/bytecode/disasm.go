package bytecode

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/mna/dicelang/lang/value"
)

// Disassemble renders c as one line per instruction in the form
// "OFFSET | OPCODE_NAME | OPERAND(s)", matching spec.md §6's disassembler
// contract. It is used by tests (often via golden-file comparison) and by
// the host's `disassemble` entry point for debugging.
//
// Closure is the one variable-width instruction; its upvalue count isn't
// self-describing in the byte stream, but the function constant it
// references always carries its own Chunk with UpvalueCount already known,
// so the disassembler looks that up rather than guessing from bytes alone.
func Disassemble(c *Chunk) string {
	var sb strings.Builder
	off := 0
	for off < len(c.Code) {
		off = disassembleOne(&sb, c, off)
	}
	return sb.String()
}

func disassembleOne(sb *strings.Builder, c *Chunk, off int) int {
	op := Opcode(c.Code[off])

	if op == Closure {
		return disassembleClosure(sb, c, off)
	}

	fmt.Fprintf(sb, "%04d | %s", off, op)
	switch operandWidth(op) {
	case 0:
		sb.WriteByte('\n')
		return off + 1
	case 1:
		fmt.Fprintf(sb, " | %d", c.Code[off+1])
		sb.WriteByte('\n')
		return off + 2
	case 2:
		operand := int16(binary.BigEndian.Uint16(c.Code[off+1 : off+3]))
		fmt.Fprintf(sb, " | %d", operand)
		sb.WriteByte('\n')
		return off + 3
	}
	sb.WriteByte('\n')
	return off + 1
}

func disassembleClosure(sb *strings.Builder, c *Chunk, off int) int {
	constIdx := c.Code[off+1]
	fmt.Fprintf(sb, "%04d | %s | const=%d", off, Closure, constIdx)

	upCount := 0
	if int(constIdx) < len(c.Constants) {
		if fn, ok := c.Constants[constIdx].(*value.ScriptFunction); ok {
			if proto, ok := fn.Proto.(*Chunk); ok {
				upCount = proto.UpvalueCount
			}
		}
	}

	pos := off + 2
	for i := 0; i < upCount; i++ {
		isParentLocal := c.Code[pos]
		idx := c.Code[pos+1]
		fmt.Fprintf(sb, " | (%v,%d)", isParentLocal == 1, idx)
		pos += 2
	}
	sb.WriteByte('\n')
	return pos
}
