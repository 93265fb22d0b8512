package mos6502

import "fmt"

// Disassemble decodes the single instruction at addr using the CPU's
// own bus, without mutating any CPU state (registers, flags, or the
// pending micro-job queue are all untouched).
func (c *CPU) Disassemble(addr uint16) (string, AddressingMode, int) {
	return disassemble(c.mem, addr)
}

// disassemble is the Memory-only implementation behind CPU.Disassemble.
// It reads only through mem, so it cannot touch CPU state.
func disassemble(mem Memory, addr uint16) (string, AddressingMode, int) {
	opcode := mem.Read(addr)
	instr, ok := opcodes[opcode]
	if !ok {
		return fmt.Sprintf(".byte $%02x", opcode), Implied, 1
	}

	switch int(instr.bytes) {
	case 1:
		return formatOperandless(&instr), instr.mode, 1
	case 2:
		operand := mem.Read(addr + 1)
		return formatOneByteOperand(&instr, addr, operand), instr.mode, 2
	default:
		lo := mem.Read(addr + 1)
		hi := mem.Read(addr + 2)
		return formatTwoByteOperand(&instr, uint16(hi)<<8|uint16(lo)), instr.mode, 3
	}
}

func formatOperandless(i *instruction) string {
	if i.mode == Accumulator {
		return fmt.Sprintf("%s A", i.mnemonic)
	}
	return i.mnemonic.String()
}

func formatOneByteOperand(i *instruction, addr uint16, operand uint8) string {
	switch i.mode {
	case Immediate:
		return fmt.Sprintf("%s #$%02x", i.mnemonic, operand)
	case ZeroPage:
		return fmt.Sprintf("%s $%02x", i.mnemonic, operand)
	case ZeroPageX:
		return fmt.Sprintf("%s $%02x,X", i.mnemonic, operand)
	case ZeroPageY:
		return fmt.Sprintf("%s $%02x,Y", i.mnemonic, operand)
	case IndirectX:
		return fmt.Sprintf("%s ($%02x,X)", i.mnemonic, operand)
	case IndirectY:
		return fmt.Sprintf("%s ($%02x),Y", i.mnemonic, operand)
	case Relative:
		target := uint16(int32(addr) + 2 + int32(int8(operand)))
		return fmt.Sprintf("%s $%04x", i.mnemonic, target)
	default:
		return fmt.Sprintf("%s $%02x", i.mnemonic, operand)
	}
}

func formatTwoByteOperand(i *instruction, operand uint16) string {
	switch i.mode {
	case Indirect:
		return fmt.Sprintf("%s ($%04x)", i.mnemonic, operand)
	case AbsoluteX:
		return fmt.Sprintf("%s $%04x,X", i.mnemonic, operand)
	case AbsoluteY:
		return fmt.Sprintf("%s $%04x,Y", i.mnemonic, operand)
	default:
		return fmt.Sprintf("%s $%04x", i.mnemonic, operand)
	}
}
