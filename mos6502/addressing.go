package mos6502

// buildSequence returns the micro-jobs for instr, not counting the
// opcode fetch that already happened. Read/write/read-modify-write
// share builders per addressing mode; control flow, stack, and
// implied/accumulator instructions are special-cased.
func buildSequence(instr *instruction) []microJob {
	switch instr.mnemonic {
	case JMP:
		if instr.mode == Indirect {
			return jmpIndirectSequence()
		}
		return jmpAbsoluteSequence()
	case JSR:
		return jsrSequence()
	case RTS:
		return rtsSequence()
	case RTI:
		return rtiSequence()
	case BRK:
		return brkSequence()
	case PHA:
		return pushSequence(writeA)
	case PHP:
		return pushSequence(writeStatusBreak)
	case PLA, PLP:
		return pullSequence()
	}

	switch instr.mode {
	case Relative:
		return branchSequence()
	}

	if instr.mode == Implied || instr.mode == Accumulator {
		return []microJob{{addrSrc: srcPC, busOp: busNone, internalOp: opExecute}}
	}

	return operandSequence(instr)
}

// operandSequence builds the address-resolution + access cycles for
// every data-addressing mode (everything but IMPLIED/ACCUMULATOR/
// RELATIVE and the dedicated control-flow/stack instructions above).
func operandSequence(instr *instruction) []microJob {
	var jobs []microJob
	ws := writeNone
	switch instr.group {
	case groupWrite:
		switch instr.mnemonic {
		case STA:
			ws = writeA
		case STX:
			ws = writeX
		case STY:
			ws = writeY
		}
	}

	switch instr.mode {
	case Immediate:
		jobs = []microJob{{addrSrc: srcPC, busOp: busFetchData, incPC: true, internalOp: opExecute}}
		return jobs

	case ZeroPage:
		jobs = append(jobs, microJob{addrSrc: srcPC, busOp: busFetchOperandLow, incPC: true, internalOp: opLatchAddress})

	case ZeroPageX, ZeroPageY:
		jobs = append(jobs,
			microJob{addrSrc: srcPC, busOp: busFetchOperandLow, incPC: true},
			microJob{addrSrc: srcOperandAddress, busOp: busNone, internalOp: opLatchAddress},
		)

	case Absolute:
		jobs = append(jobs,
			microJob{addrSrc: srcPC, busOp: busFetchOperandLow, incPC: true},
			microJob{addrSrc: srcPC, busOp: busFetchOperandHigh, incPC: true, internalOp: opLatchAddress},
		)

	case AbsoluteX, AbsoluteY:
		jobs = append(jobs,
			microJob{addrSrc: srcPC, busOp: busFetchOperandLow, incPC: true},
			microJob{addrSrc: srcPC, busOp: busFetchOperandHigh, incPC: true, internalOp: opLatchAddress},
		)
		if instr.group != groupRead {
			// stores and read-modify-write always pay the fixup cycle
			jobs = append(jobs, microJob{addrSrc: srcOperandAddress, busOp: busNone})
		}

	case IndirectX:
		jobs = append(jobs,
			microJob{addrSrc: srcPC, busOp: busFetchOperandLow, incPC: true, internalOp: opLatchAddress},
			microJob{addrSrc: srcOperandAddress, busOp: busFetchData, internalOp: opLatchAddress},
			microJob{addrSrc: srcOperandAddress, busOp: busFetchOperandLow, internalOp: opLatchAddress},
			microJob{addrSrc: srcOperandAddress, busOp: busFetchOperandHigh, internalOp: opLatchAddress},
		)

	case IndirectY:
		jobs = append(jobs,
			microJob{addrSrc: srcPC, busOp: busFetchOperandLow, incPC: true, internalOp: opLatchAddress},
			microJob{addrSrc: srcOperandAddress, busOp: busFetchOperandLow, internalOp: opLatchAddress},
			microJob{addrSrc: srcOperandAddress, busOp: busFetchOperandHigh, internalOp: opLatchAddress},
		)
		if instr.group != groupRead {
			jobs = append(jobs, microJob{addrSrc: srcOperandAddress, busOp: busNone})
		}
	}

	switch instr.group {
	case groupRead:
		jobs = append(jobs, readTail(instr)...)
	case groupWrite:
		jobs = append(jobs, microJob{addrSrc: srcOperandAddress, busOp: busWriteData, writeSrc: ws})
	case groupRMW:
		jobs = append(jobs,
			microJob{addrSrc: srcOperandAddress, busOp: busFetchData},
			microJob{addrSrc: srcOperandAddress, busOp: busWriteData, writeSrc: writeOperand},
			microJob{addrSrc: srcOperandAddress, busOp: busWriteData, writeSrc: writeOperand, internalOp: opExecute},
		)
	}

	return jobs
}

// readTail appends the final data fetch and execute for a read-group
// instruction. The conditional +1 page-cross cycle for indexed/
// indirect-Y reads isn't known until LATCH_ADDRESS runs, so it's
// pushed dynamically from there rather than built in statically here.
func readTail(instr *instruction) []microJob {
	return []microJob{{addrSrc: srcOperandAddress, busOp: busFetchData, internalOp: opExecute}}
}

func branchSequence() []microJob {
	return []microJob{{addrSrc: srcPC, busOp: busFetchOperandLow, internalOp: opEvaluateBranch}}
}

func pushSequence(src writeSource) []microJob {
	return []microJob{
		{addrSrc: srcPC, busOp: busNone},
		{addrSrc: srcStackPointer, busOp: busWriteData, writeSrc: src, internalOp: opSPDecrement},
	}
}

func pullSequence() []microJob {
	return []microJob{
		{addrSrc: srcPC, busOp: busNone},
		{addrSrc: srcPC, busOp: busNone, internalOp: opSPIncrement},
		{addrSrc: srcStackPointer, busOp: busFetchData, internalOp: opExecute},
	}
}

func jmpAbsoluteSequence() []microJob {
	return []microJob{
		{addrSrc: srcPC, busOp: busFetchOperandLow, incPC: true},
		{addrSrc: srcPC, busOp: busFetchOperandHigh, incPC: true, internalOp: opSetPCFromOperand},
	}
}

func jmpIndirectSequence() []microJob {
	return []microJob{
		{addrSrc: srcPC, busOp: busFetchOperandLow, incPC: true},
		{addrSrc: srcPC, busOp: busFetchOperandHigh, incPC: true, internalOp: opLatchAddress},
		{addrSrc: srcOperandAddress, busOp: busFetchOperandLow, internalOp: opLatchAddress},
		{addrSrc: srcOperandAddress, busOp: busFetchOperandHigh, internalOp: opSetPCFromOperand},
	}
}

func jsrSequence() []microJob {
	return []microJob{
		{addrSrc: srcPC, busOp: busFetchOperandLow, incPC: true},
		{addrSrc: srcPC, busOp: busNone},
		{addrSrc: srcStackPointer, busOp: busWritePCHigh, internalOp: opSPDecrement},
		{addrSrc: srcStackPointer, busOp: busWritePCLow, internalOp: opSPDecrement},
		{addrSrc: srcPC, busOp: busFetchOperandHigh, internalOp: opSetPCFromOperand},
	}
}

func rtsSequence() []microJob {
	return []microJob{
		{addrSrc: srcPC, busOp: busNone},
		{addrSrc: srcPC, busOp: busNone, internalOp: opSPIncrement},
		{addrSrc: srcStackPointer, busOp: busFetchOperandLow, internalOp: opSPIncrement},
		{addrSrc: srcStackPointer, busOp: busFetchOperandHigh},
		{addrSrc: srcPC, busOp: busNone, internalOp: opExecute},
	}
}

func rtiSequence() []microJob {
	return []microJob{
		{addrSrc: srcPC, busOp: busNone},
		{addrSrc: srcPC, busOp: busNone, internalOp: opSPIncrement},
		{addrSrc: srcStackPointer, busOp: busFetchData, internalOp: opSPIncrement},
		{addrSrc: srcStackPointer, busOp: busFetchOperandLow, internalOp: opSPIncrement},
		{addrSrc: srcStackPointer, busOp: busFetchOperandHigh, internalOp: opExecute},
	}
}

func brkSequence() []microJob {
	return []microJob{
		// the skipped signature byte; EXECUTE here points operandAddr at
		// the IRQ/BRK vector for the fetch below
		{addrSrc: srcPC, busOp: busNone, incPC: true, internalOp: opExecute},
		{addrSrc: srcStackPointer, busOp: busWritePCHigh, internalOp: opSPDecrement},
		{addrSrc: srcStackPointer, busOp: busWritePCLow, internalOp: opSPDecrement},
		// pushes the pre-BRK status (I not yet set); I is set on the next
		// job, once this push can no longer observe it, and that job also
		// advances operandAddr to the vector's high byte
		{addrSrc: srcStackPointer, busOp: busWriteData, writeSrc: writeStatusBreak, internalOp: opSPDecrement},
		{addrSrc: srcOperandAddress, busOp: busFetchOperandLow, internalOp: opSetInterruptDisable},
		{addrSrc: srcOperandAddress, busOp: busFetchOperandHigh, internalOp: opSetPCFromOperand},
	}
}

// interruptSequence builds the hardware NMI/IRQ sequence: two idle
// cycles, push PC and status, then load PC from vector. brk selects
// which status copy gets pushed: B set for IRQ (grouped with BRK) and
// clear only for NMI. Mutates operandAddr and clears decoded so
// LATCH_ADDRESS/SET_PC_FROM_OPERAND take the interrupt path instead of
// consulting a stale decoded instruction.
func (c *CPU) interruptSequence(vector uint16, brk bool) []microJob {
	c.decoded = nil
	c.operandAddr = vector
	ws := writeStatus
	if brk {
		ws = writeStatusBreak
	}
	return []microJob{
		{addrSrc: srcPC, busOp: busNone},
		{addrSrc: srcPC, busOp: busNone},
		{addrSrc: srcStackPointer, busOp: busWritePCHigh, internalOp: opSPDecrement},
		{addrSrc: srcStackPointer, busOp: busWritePCLow, internalOp: opSPDecrement},
		{addrSrc: srcStackPointer, busOp: busWriteData, writeSrc: ws, internalOp: opSPDecrement},
		{addrSrc: srcOperandAddress, busOp: busFetchOperandLow, internalOp: opLatchAddress},
		{addrSrc: srcOperandAddress, busOp: busFetchOperandHigh, internalOp: opSetPCFromOperand},
	}
}

// latchAddress resolves or advances the working address (operandAddr)
// for the addressing mode of the instruction currently decoding. A
// nil decoded instruction means this call is part of a hardware NMI/
// IRQ's vector fetch, not a decoded instruction's addressing: that's
// also the point, once interruptSequence's status push can no longer
// observe it, where the real 6502 asserts I for the handler.
func (c *CPU) latchAddress() {
	if c.decoded == nil {
		c.operandAddr++
		c.flagsOn(FlagInterruptDisable)
		return
	}

	switch c.decoded.mode {
	case ZeroPage:
		c.operandAddr = uint16(c.pendingLow)

	case ZeroPageX:
		c.operandAddr = uint16(c.pendingLow + c.x)
	case ZeroPageY:
		c.operandAddr = uint16(c.pendingLow + c.y)

	case Absolute:
		c.operandAddr = uint16(c.pendingHigh)<<8 | uint16(c.pendingLow)

	case AbsoluteX:
		base := uint16(c.pendingHigh)<<8 | uint16(c.pendingLow)
		eff := base + uint16(c.x)
		c.pageCrossed = eff&0xFF00 != base&0xFF00
		c.operandAddr = eff
		c.pushPageCrossFiller()

	case AbsoluteY:
		base := uint16(c.pendingHigh)<<8 | uint16(c.pendingLow)
		eff := base + uint16(c.y)
		c.pageCrossed = eff&0xFF00 != base&0xFF00
		c.operandAddr = eff
		c.pushPageCrossFiller()

	case IndirectX:
		switch c.stage {
		case 0:
			c.ptr = c.pendingLow
			c.operandAddr = uint16(c.ptr)
		case 1:
			c.ptr += c.x
			c.operandAddr = uint16(c.ptr)
		case 2:
			c.operandAddr = uint16(c.ptr + 1)
		case 3:
			c.operandAddr = uint16(c.pendingHigh)<<8 | uint16(c.pendingLow)
		}
		c.stage++

	case IndirectY:
		switch c.stage {
		case 0:
			c.ptr = c.pendingLow
			c.operandAddr = uint16(c.ptr)
		case 1:
			c.operandAddr = uint16(c.ptr + 1)
		case 2:
			base := uint16(c.pendingHigh)<<8 | uint16(c.pendingLow)
			eff := base + uint16(c.y)
			c.pageCrossed = eff&0xFF00 != base&0xFF00
			c.operandAddr = eff
			c.pushPageCrossFiller()
		}
		c.stage++

	case Indirect:
		switch c.stage {
		case 0:
			c.ptrLow, c.ptrHigh = c.pendingLow, c.pendingHigh
			c.operandAddr = uint16(c.ptrHigh)<<8 | uint16(c.ptrLow)
		case 1:
			if c.ptrLow == 0xFF {
				c.operandAddr = uint16(c.ptrHigh) << 8
			} else {
				c.operandAddr = uint16(c.ptrHigh)<<8 | uint16(c.ptrLow+1)
			}
		}
		c.stage++
	}
}

// pushPageCrossFiller inserts the conditional +1 dummy read cycle
// read-group indexed/indirect-Y addressing pays when indexing crosses
// a page boundary. Write and read-modify-write instructions pay this
// unconditionally, built directly into their static sequence instead.
func (c *CPU) pushPageCrossFiller() {
	if c.decoded != nil && c.decoded.group == groupRead && c.pageCrossed {
		c.queue.pushFront(microJob{addrSrc: srcOperandAddress, busOp: busNone})
	}
}

// evaluateBranch checks the condition for the just-fetched branch
// opcode; if taken, it appends the 1 (same page) or 2 (crossed page)
// extra cycles the real 6502 spends actually moving PC.
func (c *CPU) evaluateBranch() {
	offset := int8(c.pendingLow)
	taken := false
	switch c.decoded.mnemonic {
	case BCC:
		taken = !c.flag(FlagCarry)
	case BCS:
		taken = c.flag(FlagCarry)
	case BEQ:
		taken = c.flag(FlagZero)
	case BNE:
		taken = !c.flag(FlagZero)
	case BMI:
		taken = c.flag(FlagNegative)
	case BPL:
		taken = !c.flag(FlagNegative)
	case BVC:
		taken = !c.flag(FlagOverflow)
	case BVS:
		taken = c.flag(FlagOverflow)
	}
	// c.pc still points at the operand byte just fetched; the job that
	// called us carries no incPC, so base is the address of the next
	// instruction (the canonical reference point for the page-cross
	// check) computed by hand instead.
	base := c.pc + 1
	if !taken {
		c.pc = base
		return
	}

	target := uint16(int32(base) + int32(offset))
	crossed := base&0xFF00 != target&0xFF00
	c.pc = target

	c.queue.push(microJob{addrSrc: srcPC, busOp: busNone})
	if crossed {
		c.queue.push(microJob{addrSrc: srcPC, busOp: busNone})
	}
	c.pc = target
}
