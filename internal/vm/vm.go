// Package vm implements the stack-based dispatch loop that executes a
// compiled chunk.Chunk: a value stack, the globals table, and jump/loop
// control flow. One VM instance owns its intern table, globals, and heap;
// two instances never share state.
package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/loxbytecode/cloxgo/internal/chunk"
	"github.com/loxbytecode/cloxgo/internal/value"
)

// VM is a single-threaded, synchronous bytecode interpreter. Run executes
// one chunk to completion (Ok, or a RuntimeError); there is no suspension
// or cancellation below the statement boundary.
type VM struct {
	stack   []value.Value
	globals map[string]value.Value
	interns *value.Table
	heap    *value.Heap

	// Out receives PRINT output; defaults to os.Stdout.
	Out io.Writer
}

// New returns a VM with an empty stack, globals table, and heap.
func New() *VM {
	heap := &value.Heap{}
	return &VM{
		stack:   make([]value.Value, 0, 256),
		globals: make(map[string]value.Value),
		interns: value.NewTable(heap),
		heap:    heap,
		Out:     os.Stdout,
	}
}

// Interns exposes the VM's intern table so the compiler can share it —
// required for the REPL, where each line compiles into a fresh chunk but
// literals/identifiers must intern into the same table the running VM
// already populated.
func (vm *VM) Interns() *value.Table { return vm.interns }

// Close releases every heap object the VM's intern table tracked.
func (vm *VM) Close() { vm.heap.Release() }

func (vm *VM) push(v value.Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() value.Value {
	n := len(vm.stack) - 1
	v := vm.stack[n]
	vm.stack = vm.stack[:n]
	return v
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[len(vm.stack)-1-distance]
}

func (vm *VM) resetStack() { vm.stack = vm.stack[:0] }

// Run executes c to completion. On a RuntimeError the stack is cleared
// before returning, so a REPL session can keep going after a bad line.
func (vm *VM) Run(c *chunk.Chunk) error {
	ip := 0

	runtimeErr := func(line int, format string, args ...any) error {
		vm.resetStack()
		return &RuntimeError{Line: line, Message: fmt.Sprintf(format, args...)}
	}

	readByte := func() byte {
		b := c.Code[ip]
		ip++
		return b
	}
	readShort := func() int {
		hi := c.Code[ip]
		lo := c.Code[ip+1]
		ip += 2
		return int(hi)<<8 | int(lo)
	}
	readConstant := func() value.Value { return c.Constants[readByte()] }

	for {
		opLine := c.Lines[ip]
		op := chunk.OpCode(readByte())

		switch op {
		case chunk.OpConstant:
			vm.push(readConstant())

		case chunk.OpNil:
			vm.push(value.Nil)
		case chunk.OpTrue:
			vm.push(value.Bool(true))
		case chunk.OpFalse:
			vm.push(value.Bool(false))

		case chunk.OpPop:
			vm.pop()

		case chunk.OpGetLocal:
			vm.push(vm.stack[readByte()])
		case chunk.OpSetLocal:
			vm.stack[readByte()] = vm.peek(0)

		case chunk.OpGetGlobal:
			name := readConstant().AsString()
			v, ok := vm.globals[name]
			if !ok {
				return runtimeErr(opLine, "Undefined variable '%s'.", name)
			}
			vm.push(v)

		case chunk.OpDefineGlobal:
			name := readConstant().AsString()
			vm.globals[name] = vm.pop()

		case chunk.OpSetGlobal:
			name := readConstant().AsString()
			if _, ok := vm.globals[name]; !ok {
				return runtimeErr(opLine, "Undefined variable '%s'.", name)
			}
			vm.globals[name] = vm.peek(0)

		case chunk.OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.Bool(value.Equals(a, b)))

		case chunk.OpGreater, chunk.OpLess:
			b := vm.pop()
			a := vm.pop()
			if !a.IsNumber() || !b.IsNumber() {
				vm.push(a)
				vm.push(b)
				return runtimeErr(opLine, "Operands must be numbers.")
			}
			if op == chunk.OpGreater {
				vm.push(value.Bool(a.AsNumber() > b.AsNumber()))
			} else {
				vm.push(value.Bool(a.AsNumber() < b.AsNumber()))
			}

		case chunk.OpAdd:
			b := vm.pop()
			a := vm.pop()
			switch {
			case a.IsNumber() && b.IsNumber():
				vm.push(value.Number(a.AsNumber() + b.AsNumber()))
			case a.IsString() && b.IsString():
				vm.push(value.FromObject(vm.interns.Concat(a.AsString(), b.AsString())))
			default:
				vm.push(a)
				vm.push(b)
				return runtimeErr(opLine, "Operands must be two numbers or two strings.")
			}

		case chunk.OpSubtract, chunk.OpMultiply, chunk.OpDivide:
			b := vm.pop()
			a := vm.pop()
			if !a.IsNumber() || !b.IsNumber() {
				vm.push(a)
				vm.push(b)
				return runtimeErr(opLine, "Operands must be numbers.")
			}
			x, y := a.AsNumber(), b.AsNumber()
			switch op {
			case chunk.OpSubtract:
				vm.push(value.Number(x - y))
			case chunk.OpMultiply:
				vm.push(value.Number(x * y))
			case chunk.OpDivide:
				vm.push(value.Number(x / y))
			}

		case chunk.OpNot:
			vm.push(value.Bool(vm.pop().IsFalsey()))

		case chunk.OpNegate:
			a := vm.pop()
			if !a.IsNumber() {
				vm.push(a)
				return runtimeErr(opLine, "Operand must be a number.")
			}
			vm.push(value.Number(-a.AsNumber()))

		case chunk.OpPrint:
			fmt.Fprintln(vm.Out, value.Print(vm.pop()))

		case chunk.OpJump:
			offset := readShort()
			ip += offset

		case chunk.OpJumpIfFalse:
			offset := readShort()
			if vm.peek(0).IsFalsey() {
				ip += offset
			}

		case chunk.OpLoop:
			offset := readShort()
			ip -= offset

		case chunk.OpReturn:
			return nil

		default:
			return runtimeErr(opLine, "Unknown opcode.")
		}
	}
}
