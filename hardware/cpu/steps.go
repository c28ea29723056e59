package cpu

// halfStep is one phi1 or phi2 micro-step: internal work or a single bus
// access, never both. Spec.md §4.1 describes the per-opcode array of these
// as the unit the engine dispatches without consulting addressing-mode
// tables at runtime; here each array is produced once, at package init, by
// the builder functions below, so the hot path is still a flat index into a
// prebuilt sequence.
type halfStep func(c *CPU)

// stepPair bundles one master cycle's phi1 and phi2 halves.
type stepPair struct {
	phi1 halfStep
	phi2 halfStep
}

// opSeq is the sequence of stepPairs that follow an opcode's fetch cycle.
type opSeq []stepPair

// finishOp is implemented by every addressing-mode builder's terminal
// callback: given the fetched/computed operand, perform the instruction's
// actual effect (ALU update, register load, flag changes). The builder step
// that calls it marks the instruction done.
type finishOp func(c *CPU, value uint8)

// storeOp computes the byte an instruction writes, used by the write-mode
// builders (STA/STX/STY and friends).
type storeOp func(c *CPU) uint8

// rmwOp is a read-modify-write instruction's transform: given the byte read,
// return the byte to write back.
type rmwOp func(c *CPU, value uint8) uint8

func (c *CPU) finish() { c.instrDone = true }

// --- addressing-mode builders -------------------------------------------

// buildImplied is the 2-cycle implied/accumulator-no-memory sequence: the
// single extra cycle performs the instruction's effect with no bus access
// (phi2 is the standard "fetch next opcode byte and discard it" filler, but
// since our fetch cycle is handled separately by the main engine, we simply
// perform a harmless read of the current PC to mimic the real bus
// activity on this filler cycle).
func buildImplied(op func(c *CPU)) opSeq {
	return opSeq{
		{
			phi1: func(c *CPU) { op(c) },
			phi2: func(c *CPU) { c.Bus.Read(c.PC.Value()); c.finish() },
		},
	}
}

// buildImmediate is the 2-cycle #imm sequence.
func buildImmediate(finish finishOp) opSeq {
	return opSeq{
		{
			phi2: func(c *CPU) {
				v := c.Bus.Read(c.PC.Value())
				c.PC.Add(1)
				finish(c, v)
				c.finish()
			},
		},
	}
}

// buildZeroPageRead is the 3-cycle zero-page read sequence.
func buildZeroPageRead(finish finishOp) opSeq {
	return opSeq{
		{phi2: func(c *CPU) { c.addr = uint16(c.Bus.Read(c.PC.Value())); c.PC.Add(1) }},
		{phi2: func(c *CPU) { finish(c, c.Bus.Read(c.addr)); c.finish() }},
	}
}

func buildZeroPageWrite(store storeOp) opSeq {
	return opSeq{
		{phi2: func(c *CPU) { c.addr = uint16(c.Bus.Read(c.PC.Value())); c.PC.Add(1) }},
		{phi2: func(c *CPU) { c.Bus.Write(c.addr, store(c)); c.finish() }},
	}
}

// buildZeroPageRMW is the 5-cycle zero-page read-modify-write sequence:
// read, dummy write-back of the original value, then the modified write.
func buildZeroPageRMW(transform rmwOp) opSeq {
	return opSeq{
		{phi2: func(c *CPU) { c.addr = uint16(c.Bus.Read(c.PC.Value())); c.PC.Add(1) }},
		{phi2: func(c *CPU) { c.operand = c.Bus.Read(c.addr) }},
		{phi2: func(c *CPU) { c.Bus.Write(c.addr, c.operand) }},
		{phi2: func(c *CPU) { c.Bus.Write(c.addr, transform(c, c.operand)); c.finish() }},
	}
}

func buildZeroPageIndexedRead(index func(c *CPU) uint8, finish finishOp) opSeq {
	return opSeq{
		{phi2: func(c *CPU) { c.addr = uint16(c.Bus.Read(c.PC.Value())); c.PC.Add(1) }},
		{phi2: func(c *CPU) { c.Bus.Read(c.addr); c.addr = uint16(uint8(c.addr) + index(c)) }},
		{phi2: func(c *CPU) { finish(c, c.Bus.Read(c.addr)); c.finish() }},
	}
}

func buildZeroPageIndexedWrite(index func(c *CPU) uint8, store storeOp) opSeq {
	return opSeq{
		{phi2: func(c *CPU) { c.addr = uint16(c.Bus.Read(c.PC.Value())); c.PC.Add(1) }},
		{phi2: func(c *CPU) { c.Bus.Read(c.addr); c.addr = uint16(uint8(c.addr) + index(c)) }},
		{phi2: func(c *CPU) { c.Bus.Write(c.addr, store(c)); c.finish() }},
	}
}

func buildZeroPageIndexedRMW(index func(c *CPU) uint8, transform rmwOp) opSeq {
	return opSeq{
		{phi2: func(c *CPU) { c.addr = uint16(c.Bus.Read(c.PC.Value())); c.PC.Add(1) }},
		{phi2: func(c *CPU) { c.Bus.Read(c.addr); c.addr = uint16(uint8(c.addr) + index(c)) }},
		{phi2: func(c *CPU) { c.operand = c.Bus.Read(c.addr) }},
		{phi2: func(c *CPU) { c.Bus.Write(c.addr, c.operand) }},
		{phi2: func(c *CPU) { c.Bus.Write(c.addr, transform(c, c.operand)); c.finish() }},
	}
}

func readAbsLo(c *CPU) { c.addr = uint16(c.Bus.Read(c.PC.Value())); c.PC.Add(1) }
func readAbsHi(c *CPU) {
	hi := uint16(c.Bus.Read(c.PC.Value())) << 8
	c.PC.Add(1)
	c.addr |= hi
}

func buildAbsoluteRead(finish finishOp) opSeq {
	return opSeq{
		{phi2: readAbsLo},
		{phi2: readAbsHi},
		{phi2: func(c *CPU) { finish(c, c.Bus.Read(c.addr)); c.finish() }},
	}
}

func buildAbsoluteWrite(store storeOp) opSeq {
	return opSeq{
		{phi2: readAbsLo},
		{phi2: readAbsHi},
		{phi2: func(c *CPU) { c.Bus.Write(c.addr, store(c)); c.finish() }},
	}
}

func buildAbsoluteRMW(transform rmwOp) opSeq {
	return opSeq{
		{phi2: readAbsLo},
		{phi2: readAbsHi},
		{phi2: func(c *CPU) { c.operand = c.Bus.Read(c.addr) }},
		{phi2: func(c *CPU) { c.Bus.Write(c.addr, c.operand) }},
		{phi2: func(c *CPU) { c.Bus.Write(c.addr, transform(c, c.operand)); c.finish() }},
	}
}

// buildAbsoluteIndexedRead is the variable-length absolute,X/Y read: 4
// cycles when the indexed address stays on the same page, 5 when it
// crosses, per spec.md §4.1's page-crossing rule.
func buildAbsoluteIndexedRead(index func(c *CPU) uint8, finish finishOp) opSeq {
	return opSeq{
		{phi2: readAbsLo},
		{phi2: func(c *CPU) {
			hi := uint16(c.Bus.Read(c.PC.Value())) << 8
			c.PC.Add(1)
			base := c.addr | hi
			lo := uint8(base) + index(c)
			c.pageCrossed = uint16(lo) < uint16(uint8(base))
			c.target = (base &^ 0xFF) | uint16(lo)
			c.addr = base
		}},
		{phi2: func(c *CPU) {
			// read from the possibly-wrong page; if no crossing this IS
			// the real read and the instruction finishes here.
			v := c.Bus.Read(boundaryAddr(c.addr, c.target))
			if !c.pageCrossed {
				finish(c, v)
				c.finish()
			}
		}},
		{phi2: func(c *CPU) { finish(c, c.Bus.Read(c.target)); c.finish() }},
	}
}

// boundaryAddr returns the dummy address read on the page-crossing cycle:
// same low byte as the final target, but the original (pre-carry) high
// byte.
func boundaryAddr(base, target uint16) uint16 {
	return (base &^ 0xFF) | (target & 0xFF)
}

// buildAbsoluteIndexedWrite always takes 5 cycles: the dummy read at the
// unfixed address happens unconditionally on writes per spec.md §4.1.
func buildAbsoluteIndexedWrite(index func(c *CPU) uint8, store storeOp) opSeq {
	return opSeq{
		{phi2: readAbsLo},
		{phi2: func(c *CPU) {
			hi := uint16(c.Bus.Read(c.PC.Value())) << 8
			c.PC.Add(1)
			base := c.addr | hi
			lo := uint8(base) + index(c)
			c.target = (base &^ 0xFF) | uint16(lo)
			c.addr = base
		}},
		{phi2: func(c *CPU) { c.Bus.Read(boundaryAddr(c.addr, c.target)) }},
		{phi2: func(c *CPU) { c.Bus.Write(c.target, store(c)); c.finish() }},
	}
}

func buildAbsoluteIndexedRMW(index func(c *CPU) uint8, transform rmwOp) opSeq {
	return opSeq{
		{phi2: readAbsLo},
		{phi2: func(c *CPU) {
			hi := uint16(c.Bus.Read(c.PC.Value())) << 8
			c.PC.Add(1)
			base := c.addr | hi
			lo := uint8(base) + index(c)
			c.target = (base &^ 0xFF) | uint16(lo)
			c.addr = base
		}},
		{phi2: func(c *CPU) { c.Bus.Read(boundaryAddr(c.addr, c.target)) }},
		{phi2: func(c *CPU) { c.operand = c.Bus.Read(c.target) }},
		{phi2: func(c *CPU) { c.Bus.Write(c.target, c.operand) }},
		{phi2: func(c *CPU) { c.Bus.Write(c.target, transform(c, c.operand)); c.finish() }},
	}
}

// buildIndexedIndirectRead is (zp,X): 6 cycles.
func buildIndexedIndirectRead(finish finishOp) opSeq {
	return opSeq{
		{phi2: func(c *CPU) { c.ptr = uint16(c.Bus.Read(c.PC.Value())); c.PC.Add(1) }},
		{phi2: func(c *CPU) { c.Bus.Read(c.ptr); c.ptr = uint16(uint8(c.ptr) + c.X.Value()) }},
		{phi2: func(c *CPU) { c.addr = uint16(c.Bus.Read(c.ptr)) }},
		{phi2: func(c *CPU) { c.addr |= uint16(c.Bus.Read(uint16(uint8(c.ptr+1)))) << 8 }},
		{phi2: func(c *CPU) { finish(c, c.Bus.Read(c.addr)); c.finish() }},
	}
}

func buildIndexedIndirectWrite(store storeOp) opSeq {
	return opSeq{
		{phi2: func(c *CPU) { c.ptr = uint16(c.Bus.Read(c.PC.Value())); c.PC.Add(1) }},
		{phi2: func(c *CPU) { c.Bus.Read(c.ptr); c.ptr = uint16(uint8(c.ptr) + c.X.Value()) }},
		{phi2: func(c *CPU) { c.addr = uint16(c.Bus.Read(c.ptr)) }},
		{phi2: func(c *CPU) { c.addr |= uint16(c.Bus.Read(uint16(uint8(c.ptr+1)))) << 8 }},
		{phi2: func(c *CPU) { c.Bus.Write(c.addr, store(c)); c.finish() }},
	}
}

// buildIndirectIndexedRead is (zp),Y: 5 cycles same-page, 6 crossing.
func buildIndirectIndexedRead(finish finishOp) opSeq {
	return opSeq{
		{phi2: func(c *CPU) { c.ptr = uint16(c.Bus.Read(c.PC.Value())); c.PC.Add(1) }},
		{phi2: func(c *CPU) { c.addr = uint16(c.Bus.Read(c.ptr)) }},
		{phi2: func(c *CPU) {
			hi := uint16(c.Bus.Read(uint16(uint8(c.ptr+1)))) << 8
			base := c.addr | hi
			lo := uint8(base) + c.Y.Value()
			c.pageCrossed = uint16(lo) < uint16(uint8(base))
			c.target = (base &^ 0xFF) | uint16(lo)
			c.addr = base
		}},
		{phi2: func(c *CPU) {
			v := c.Bus.Read(boundaryAddr(c.addr, c.target))
			if !c.pageCrossed {
				finish(c, v)
				c.finish()
			}
		}},
		{phi2: func(c *CPU) { finish(c, c.Bus.Read(c.target)); c.finish() }},
	}
}

func buildIndirectIndexedWrite(store storeOp) opSeq {
	return opSeq{
		{phi2: func(c *CPU) { c.ptr = uint16(c.Bus.Read(c.PC.Value())); c.PC.Add(1) }},
		{phi2: func(c *CPU) { c.addr = uint16(c.Bus.Read(c.ptr)) }},
		{phi2: func(c *CPU) {
			hi := uint16(c.Bus.Read(uint16(uint8(c.ptr+1)))) << 8
			base := c.addr | hi
			lo := uint8(base) + c.Y.Value()
			c.target = (base &^ 0xFF) | uint16(lo)
			c.addr = base
		}},
		{phi2: func(c *CPU) { c.Bus.Read(boundaryAddr(c.addr, c.target)) }},
		{phi2: func(c *CPU) { c.Bus.Write(c.target, store(c)); c.finish() }},
	}
}

// buildIndexedIndirectRMW is (zp,X) read-modify-write: 8 cycles, the (zp,X)
// pointer steps followed by read, dummy write-back, then the modified write.
func buildIndexedIndirectRMW(transform rmwOp) opSeq {
	return append(append(opSeq{}, buildIndexedIndirectRead(nil)[:4]...), buildAbsoluteRMW(transform)[2:]...)
}

// buildIndirectIndexedRMW is (zp),Y read-modify-write: always 8 cycles, with
// the dummy read at the unfixed address taken unconditionally as on writes.
func buildIndirectIndexedRMW(transform rmwOp) opSeq {
	return append(append(opSeq{}, buildIndirectIndexedWrite(nil)[:4]...), buildAbsoluteIndexedRMW(regY, transform)[3:]...)
}

// buildRelative is a branch: 2 cycles not taken, 3 same-page taken, 4
// page-crossing taken. Interrupt polling happens one cycle earlier when the
// branch is not taken, at its normal second-to-last-cycle point when taken
// without crossing a page, and is skipped entirely on a page-crossing take
// — spec.md §4.1's documented quirk.
func buildRelative(takeIf func(c *CPU) bool) opSeq {
	return opSeq{
		{phi2: func(c *CPU) {
			c.operand = c.Bus.Read(c.PC.Value())
			c.PC.Add(1)
			c.takeBranch = takeIf(c)
			if !c.takeBranch {
				c.pollInterrupts()
				c.finish()
			}
		}},
		{phi2: func(c *CPU) {
			c.Bus.Read(c.PC.Value())
			base := c.PC.Value()
			offset := int16(int8(c.operand))
			target := uint16(int32(base) + int32(offset))
			c.pageCrossed = (target & 0xFF00) != (base & 0xFF00)
			c.target = target
			if !c.pageCrossed {
				c.pollInterrupts()
				c.PC.Load(target)
				c.finish()
			}
		}},
		{phi2: func(c *CPU) {
			c.Bus.Read((c.PC.Value() & 0xFF00) | (c.target & 0x00FF))
			c.PC.Load(c.target)
			c.finish()
		}},
	}
}
