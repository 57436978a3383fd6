// Package debug implements the bytecode disassembler. It is a read-only
// observer over a chunk.Chunk, kept outside the compiler/VM core.
package debug

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/loxbytecode/cloxgo/internal/chunk"
	"github.com/loxbytecode/cloxgo/internal/value"
)

var (
	mnemonicColor = color.New(color.FgCyan)
	operandColor  = color.New(color.FgYellow)
	offsetColor   = color.New(color.FgHiBlack)
)

// DisassembleChunk prints name followed by one line per instruction in c.
func DisassembleChunk(w io.Writer, c *chunk.Chunk, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < len(c.Code); {
		offset = DisassembleInstruction(w, c, offset)
	}
}

// DisassembleInstruction prints the instruction at offset and returns the
// offset of the next one.
func DisassembleInstruction(w io.Writer, c *chunk.Chunk, offset int) int {
	offsetColor.Fprintf(w, "%04d ", offset)

	if offset > 0 && c.Lines[offset] == c.Lines[offset-1] {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", c.Lines[offset])
	}

	op := chunk.OpCode(c.Code[offset])
	switch op {
	case chunk.OpConstant:
		return constantInstruction(w, op, c, offset)
	case chunk.OpGetLocal, chunk.OpSetLocal:
		return byteInstruction(w, op, c, offset)
	case chunk.OpGetGlobal, chunk.OpDefineGlobal, chunk.OpSetGlobal:
		return constantInstruction(w, op, c, offset)
	case chunk.OpJump, chunk.OpJumpIfFalse:
		return jumpInstruction(w, op, c, offset, 1)
	case chunk.OpLoop:
		return jumpInstruction(w, op, c, offset, -1)
	default:
		return simpleInstruction(w, op, offset)
	}
}

func simpleInstruction(w io.Writer, op chunk.OpCode, offset int) int {
	mnemonicColor.Fprintln(w, op.String())
	return offset + 1
}

func byteInstruction(w io.Writer, op chunk.OpCode, c *chunk.Chunk, offset int) int {
	slot := c.Code[offset+1]
	mnemonicColor.Fprintf(w, "%-16s ", op.String())
	operandColor.Fprintf(w, "%d\n", slot)
	return offset + 2
}

func constantInstruction(w io.Writer, op chunk.OpCode, c *chunk.Chunk, offset int) int {
	idx := c.Code[offset+1]
	mnemonicColor.Fprintf(w, "%-16s ", op.String())
	operandColor.Fprintf(w, "%d ", idx)
	fmt.Fprintf(w, "'%s'\n", value.DebugPrint(c.Constants[idx]))
	return offset + 2
}

func jumpInstruction(w io.Writer, op chunk.OpCode, c *chunk.Chunk, offset int, sign int) int {
	jump := int(c.Code[offset+1])<<8 | int(c.Code[offset+2])
	mnemonicColor.Fprintf(w, "%-16s ", op.String())
	target := offset + 3 + sign*jump
	operandColor.Fprintf(w, "%d -> %d\n", offset, target)
	return offset + 3
}

// DisableColor forces plain-text disassembly output, used by the CLI's
// -no-color flag.
func DisableColor() {
	mnemonicColor.DisableColor()
	operandColor.DisableColor()
	offsetColor.DisableColor()
}
