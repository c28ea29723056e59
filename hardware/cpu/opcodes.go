package cpu

// opcodeTable is the 258-entry dispatch table spec.md §4.1 describes: 256
// real opcodes plus the synthetic NMI/IRQ entries. It holds only the steps
// that follow an instruction's fetch cycle (the fetch itself is handled by
// CPU.fetch, which is shared by every entry). Built once at package init by
// the addressing-mode builders in steps.go, so the hot dispatch path is a
// flat index into a prebuilt slice, never a runtime table walk.
var opcodeTable [258]opSeq

// jamSeq is installed for any opcode slot this table construction does not
// populate, and for the documented JAM opcodes: the CPU transitions to the
// JAMMED state and never advances. Reports through the central logger
// regardless of which path led here, per spec.md §7's structural-anomaly
// category.
var jamSeq = opSeq{
	{phi2: func(c *CPU) {
		c.Bus.Read(c.PC.Value())
		logStructural("JAM opcode %#02x encountered at PC=%#04x", c.opcode, c.PC.Value())
		c.state = stateJammed
		c.Killed = true
	}},
}

func (c *CPU) push(v uint8) {
	if c.resetSuppressWrites {
		c.Bus.Read(0x0100 + uint16(c.S))
	} else {
		c.Bus.Write(0x0100+uint16(c.S), v)
	}
	c.S--
}

func (c *CPU) pull() uint8 {
	c.S++
	return c.Bus.Read(0x0100 + uint16(c.S))
}

func ld(setter func(*CPU, uint8)) finishOp {
	return func(c *CPU, v uint8) {
		setter(c, v)
		c.P.SetZN(v)
	}
}

func setA(c *CPU, v uint8) { c.A.Load(v) }
func setX(c *CPU, v uint8) { c.X.Load(v) }
func setY(c *CPU, v uint8) { c.Y.Load(v) }

func init() {
	buildOfficialLoadStore()
	buildOfficialALU()
	buildOfficialShifts()
	buildOfficialIncDec()
	buildOfficialTransfers()
	buildOfficialStack()
	buildOfficialBranches()
	buildOfficialJumps()
	buildOfficialFlags()
	buildOfficialMisc()
	buildInterruptSequences()
	buildUndocumented()
}

func buildOfficialLoadStore() {
	// LDA
	opcodeTable[0xA9] = buildImmediate(ld(setA))
	opcodeTable[0xA5] = buildZeroPageRead(ld(setA))
	opcodeTable[0xB5] = buildZeroPageIndexedRead(regX, ld(setA))
	opcodeTable[0xAD] = buildAbsoluteRead(ld(setA))
	opcodeTable[0xBD] = buildAbsoluteIndexedRead(regX, ld(setA))
	opcodeTable[0xB9] = buildAbsoluteIndexedRead(regY, ld(setA))
	opcodeTable[0xA1] = buildIndexedIndirectRead(ld(setA))
	opcodeTable[0xB1] = buildIndirectIndexedRead(ld(setA))

	// LDX
	opcodeTable[0xA2] = buildImmediate(ld(setX))
	opcodeTable[0xA6] = buildZeroPageRead(ld(setX))
	opcodeTable[0xB6] = buildZeroPageIndexedRead(regY, ld(setX))
	opcodeTable[0xAE] = buildAbsoluteRead(ld(setX))
	opcodeTable[0xBE] = buildAbsoluteIndexedRead(regY, ld(setX))

	// LDY
	opcodeTable[0xA0] = buildImmediate(ld(setY))
	opcodeTable[0xA4] = buildZeroPageRead(ld(setY))
	opcodeTable[0xB4] = buildZeroPageIndexedRead(regX, ld(setY))
	opcodeTable[0xAC] = buildAbsoluteRead(ld(setY))
	opcodeTable[0xBC] = buildAbsoluteIndexedRead(regX, ld(setY))

	// STA
	opcodeTable[0x85] = buildZeroPageWrite(storeA)
	opcodeTable[0x95] = buildZeroPageIndexedWrite(regX, storeA)
	opcodeTable[0x8D] = buildAbsoluteWrite(storeA)
	opcodeTable[0x9D] = buildAbsoluteIndexedWrite(regX, storeA)
	opcodeTable[0x99] = buildAbsoluteIndexedWrite(regY, storeA)
	opcodeTable[0x81] = buildIndexedIndirectWrite(storeA)
	opcodeTable[0x91] = buildIndirectIndexedWrite(storeA)

	// STX
	opcodeTable[0x86] = buildZeroPageWrite(storeX)
	opcodeTable[0x96] = buildZeroPageIndexedWrite(regY, storeX)
	opcodeTable[0x8E] = buildAbsoluteWrite(storeX)

	// STY
	opcodeTable[0x84] = buildZeroPageWrite(storeY)
	opcodeTable[0x94] = buildZeroPageIndexedWrite(regX, storeY)
	opcodeTable[0x8C] = buildAbsoluteWrite(storeY)
}

func regX(c *CPU) uint8 { return c.X.Value() }
func regY(c *CPU) uint8 { return c.Y.Value() }

func storeA(c *CPU) uint8 { return c.A.Value() }
func storeX(c *CPU) uint8 { return c.X.Value() }
func storeY(c *CPU) uint8 { return c.Y.Value() }

func buildOfficialALU() {
	type op struct {
		imm, zp, zpx, abs, absx, absy, indx, indy uint8
		finish                                    finishOp
	}
	ops := []op{
		{0x69, 0x65, 0x75, 0x6D, 0x7D, 0x79, 0x61, 0x71, adc},
		{0xE9, 0xE5, 0xF5, 0xED, 0xFD, 0xF9, 0xE1, 0xF1, sbc},
		{0x29, 0x25, 0x35, 0x2D, 0x3D, 0x39, 0x21, 0x31, and},
		{0x09, 0x05, 0x15, 0x0D, 0x1D, 0x19, 0x01, 0x11, ora},
		{0x49, 0x45, 0x55, 0x4D, 0x5D, 0x59, 0x41, 0x51, eor},
	}
	for _, o := range ops {
		opcodeTable[o.imm] = buildImmediate(o.finish)
		opcodeTable[o.zp] = buildZeroPageRead(o.finish)
		opcodeTable[o.zpx] = buildZeroPageIndexedRead(regX, o.finish)
		opcodeTable[o.abs] = buildAbsoluteRead(o.finish)
		opcodeTable[o.absx] = buildAbsoluteIndexedRead(regX, o.finish)
		opcodeTable[o.absy] = buildAbsoluteIndexedRead(regY, o.finish)
		opcodeTable[o.indx] = buildIndexedIndirectRead(o.finish)
		opcodeTable[o.indy] = buildIndirectIndexedRead(o.finish)
	}

	cmpA := func(c *CPU, v uint8) { compare(c, c.A.Value(), v) }
	opcodeTable[0xC9] = buildImmediate(cmpA)
	opcodeTable[0xC5] = buildZeroPageRead(cmpA)
	opcodeTable[0xD5] = buildZeroPageIndexedRead(regX, cmpA)
	opcodeTable[0xCD] = buildAbsoluteRead(cmpA)
	opcodeTable[0xDD] = buildAbsoluteIndexedRead(regX, cmpA)
	opcodeTable[0xD9] = buildAbsoluteIndexedRead(regY, cmpA)
	opcodeTable[0xC1] = buildIndexedIndirectRead(cmpA)
	opcodeTable[0xD1] = buildIndirectIndexedRead(cmpA)

	cmpX := func(c *CPU, v uint8) { compare(c, c.X.Value(), v) }
	opcodeTable[0xE0] = buildImmediate(cmpX)
	opcodeTable[0xE4] = buildZeroPageRead(cmpX)
	opcodeTable[0xEC] = buildAbsoluteRead(cmpX)

	cmpY := func(c *CPU, v uint8) { compare(c, c.Y.Value(), v) }
	opcodeTable[0xC0] = buildImmediate(cmpY)
	opcodeTable[0xC4] = buildZeroPageRead(cmpY)
	opcodeTable[0xCC] = buildAbsoluteRead(cmpY)

	opcodeTable[0x24] = buildZeroPageRead(bit)
	opcodeTable[0x2C] = buildAbsoluteRead(bit)
}

func buildOfficialShifts() {
	asl := func(c *CPU, v uint8) uint8 { r, carry := aslByte(v); c.P.Carry = carry; c.P.SetZN(r); return r }
	lsr := func(c *CPU, v uint8) uint8 { r, carry := lsrByte(v); c.P.Carry = carry; c.P.SetZN(r); return r }
	rol := func(c *CPU, v uint8) uint8 { r, carry := rolByte(v, c.P.Carry); c.P.Carry = carry; c.P.SetZN(r); return r }
	ror := func(c *CPU, v uint8) uint8 { r, carry := rorByte(v, c.P.Carry); c.P.Carry = carry; c.P.SetZN(r); return r }

	type op struct {
		acc, zp, zpx, abs, absx uint8
		transform               rmwOp
		accOp                   func(c *CPU)
	}
	ops := []op{
		{0x0A, 0x06, 0x16, 0x0E, 0x1E, asl, func(c *CPU) { carry := c.A.ASL(); c.P.Carry = carry; c.P.SetZN(c.A.Value()) }},
		{0x4A, 0x46, 0x56, 0x4E, 0x5E, lsr, func(c *CPU) { carry := c.A.LSR(); c.P.Carry = carry; c.P.SetZN(c.A.Value()) }},
		{0x2A, 0x26, 0x36, 0x2E, 0x3E, rol, func(c *CPU) { carry := c.A.ROL(c.P.Carry); c.P.Carry = carry; c.P.SetZN(c.A.Value()) }},
		{0x6A, 0x66, 0x76, 0x6E, 0x7E, ror, func(c *CPU) { carry := c.A.ROR(c.P.Carry); c.P.Carry = carry; c.P.SetZN(c.A.Value()) }},
	}
	for _, o := range ops {
		opcodeTable[o.acc] = buildImplied(o.accOp)
		opcodeTable[o.zp] = buildZeroPageRMW(o.transform)
		opcodeTable[o.zpx] = buildZeroPageIndexedRMW(regX, o.transform)
		opcodeTable[o.abs] = buildAbsoluteRMW(o.transform)
		opcodeTable[o.absx] = buildAbsoluteIndexedRMW(regX, o.transform)
	}
}

func buildOfficialIncDec() {
	inc := func(c *CPU, v uint8) uint8 { r := incByte(v); c.P.SetZN(r); return r }
	dec := func(c *CPU, v uint8) uint8 { r := decByte(v); c.P.SetZN(r); return r }
	opcodeTable[0xE6] = buildZeroPageRMW(inc)
	opcodeTable[0xF6] = buildZeroPageIndexedRMW(regX, inc)
	opcodeTable[0xEE] = buildAbsoluteRMW(inc)
	opcodeTable[0xFE] = buildAbsoluteIndexedRMW(regX, inc)
	opcodeTable[0xC6] = buildZeroPageRMW(dec)
	opcodeTable[0xD6] = buildZeroPageIndexedRMW(regX, dec)
	opcodeTable[0xCE] = buildAbsoluteRMW(dec)
	opcodeTable[0xDE] = buildAbsoluteIndexedRMW(regX, dec)

	opcodeTable[0xE8] = buildImplied(func(c *CPU) { c.X.Load(c.X.Value() + 1); c.P.SetZN(c.X.Value()) })
	opcodeTable[0xC8] = buildImplied(func(c *CPU) { c.Y.Load(c.Y.Value() + 1); c.P.SetZN(c.Y.Value()) })
	opcodeTable[0xCA] = buildImplied(func(c *CPU) { c.X.Load(c.X.Value() - 1); c.P.SetZN(c.X.Value()) })
	opcodeTable[0x88] = buildImplied(func(c *CPU) { c.Y.Load(c.Y.Value() - 1); c.P.SetZN(c.Y.Value()) })
}

func buildOfficialTransfers() {
	opcodeTable[0xAA] = buildImplied(func(c *CPU) { c.X.Load(c.A.Value()); c.P.SetZN(c.X.Value()) })
	opcodeTable[0x8A] = buildImplied(func(c *CPU) { c.A.Load(c.X.Value()); c.P.SetZN(c.A.Value()) })
	opcodeTable[0xA8] = buildImplied(func(c *CPU) { c.Y.Load(c.A.Value()); c.P.SetZN(c.Y.Value()) })
	opcodeTable[0x98] = buildImplied(func(c *CPU) { c.A.Load(c.Y.Value()); c.P.SetZN(c.A.Value()) })
	opcodeTable[0xBA] = buildImplied(func(c *CPU) { c.X.Load(c.S); c.P.SetZN(c.X.Value()) })
	opcodeTable[0x9A] = buildImplied(func(c *CPU) { c.S = c.X.Value() })
}

func buildOfficialStack() {
	opcodeTable[0x48] = opSeq{
		{phi1: func(c *CPU) {}, phi2: func(c *CPU) { c.Bus.Read(c.PC.Value()) }},
		{phi2: func(c *CPU) { c.push(c.A.Value()); c.finish() }},
	}
	opcodeTable[0x08] = opSeq{
		{phi2: func(c *CPU) { c.Bus.Read(c.PC.Value()) }},
		{phi2: func(c *CPU) { c.push(c.P.Value(true)); c.finish() }},
	}
	opcodeTable[0x68] = opSeq{
		{phi2: func(c *CPU) { c.Bus.Read(c.PC.Value()) }},
		{phi2: func(c *CPU) { c.Bus.Read(0x0100 + uint16(c.S)) }},
		{phi2: func(c *CPU) { c.A.Load(c.pull()); c.P.SetZN(c.A.Value()); c.finish() }},
	}
	opcodeTable[0x28] = opSeq{
		{phi2: func(c *CPU) { c.Bus.Read(c.PC.Value()) }},
		{phi2: func(c *CPU) { c.Bus.Read(0x0100 + uint16(c.S)) }},
		{phi2: func(c *CPU) { c.P.FromValue(c.pull()); c.finish() }},
	}
}

func buildOfficialBranches() {
	opcodeTable[0x90] = buildRelative(func(c *CPU) bool { return !c.P.Carry })
	opcodeTable[0xB0] = buildRelative(func(c *CPU) bool { return c.P.Carry })
	opcodeTable[0xF0] = buildRelative(func(c *CPU) bool { return c.P.Zero })
	opcodeTable[0xD0] = buildRelative(func(c *CPU) bool { return !c.P.Zero })
	opcodeTable[0x30] = buildRelative(func(c *CPU) bool { return c.P.Sign })
	opcodeTable[0x10] = buildRelative(func(c *CPU) bool { return !c.P.Sign })
	opcodeTable[0x50] = buildRelative(func(c *CPU) bool { return !c.P.Overflow })
	opcodeTable[0x70] = buildRelative(func(c *CPU) bool { return c.P.Overflow })
}

func buildOfficialJumps() {
	// JMP absolute
	opcodeTable[0x4C] = opSeq{
		{phi2: readAbsLo},
		{phi2: func(c *CPU) { readAbsHi(c); c.PC.Load(c.addr); c.finish() }},
	}
	// JMP (indirect) — reproduces the "JMP ($xxFF)" page-wrap bug: the high
	// byte is read from the operand with the low byte wrapped within the
	// page rather than crossing it.
	opcodeTable[0x6C] = opSeq{
		{phi2: readAbsLo},
		{phi2: readAbsHi},
		{phi2: func(c *CPU) { c.target = uint16(c.Bus.Read(c.addr)) }},
		{phi2: func(c *CPU) {
			hiAddr := (c.addr & 0xFF00) | uint16(uint8(c.addr)+1)
			c.target |= uint16(c.Bus.Read(hiAddr)) << 8
			c.PC.Load(c.target)
			c.finish()
		}},
	}
	// JSR
	opcodeTable[0x20] = opSeq{
		{phi2: readAbsLo},
		{phi2: func(c *CPU) { c.Bus.Read(0x0100 + uint16(c.S)) }},
		{phi2: func(c *CPU) { c.push(c.PC.Hi()) }},
		{phi2: func(c *CPU) { c.push(c.PC.Lo()) }},
		{phi2: func(c *CPU) {
			readAbsHi(c)
			c.PC.Load(c.addr)
			c.finish()
		}},
	}
	// RTS
	opcodeTable[0x60] = opSeq{
		{phi2: func(c *CPU) { c.Bus.Read(c.PC.Value()) }},
		{phi2: func(c *CPU) { c.Bus.Read(0x0100 + uint16(c.S)) }},
		{phi2: func(c *CPU) { c.PC.LoadLo(c.pull()) }},
		{phi2: func(c *CPU) { c.PC.LoadHi(c.pull()) }},
		{phi2: func(c *CPU) { c.Bus.Read(c.PC.Value()); c.PC.Add(1); c.finish() }},
	}
	// RTI
	opcodeTable[0x40] = opSeq{
		{phi2: func(c *CPU) { c.Bus.Read(c.PC.Value()) }},
		{phi2: func(c *CPU) { c.Bus.Read(0x0100 + uint16(c.S)) }},
		{phi2: func(c *CPU) { c.P.FromValue(c.pull()) }},
		{phi2: func(c *CPU) { c.PC.LoadLo(c.pull()) }},
		{phi2: func(c *CPU) { c.PC.LoadHi(c.pull()); c.finish() }},
	}
}

func buildOfficialFlags() {
	opcodeTable[0x18] = buildImplied(func(c *CPU) { c.P.Carry = false })
	opcodeTable[0x38] = buildImplied(func(c *CPU) { c.P.Carry = true })
	opcodeTable[0x58] = buildImplied(func(c *CPU) { c.P.InterruptDisable = false })
	opcodeTable[0x78] = buildImplied(func(c *CPU) { c.P.InterruptDisable = true })
	opcodeTable[0xB8] = buildImplied(func(c *CPU) { c.P.Overflow = false })
	opcodeTable[0xD8] = buildImplied(func(c *CPU) { c.P.DecimalMode = false })
	opcodeTable[0xF8] = buildImplied(func(c *CPU) { c.P.DecimalMode = true })
}

func buildOfficialMisc() {
	opcodeTable[0xEA] = buildImplied(func(c *CPU) {})
	// BRK
	opcodeTable[0x00] = opSeq{
		{phi2: func(c *CPU) { c.Bus.Read(c.PC.Value()); c.PC.Add(1) }}, // signature byte, discarded
		{phi2: func(c *CPU) { c.push(c.PC.Hi()) }},
		{phi2: func(c *CPU) { c.push(c.PC.Lo()) }},
		{phi2: func(c *CPU) { c.push(c.P.Value(true)); c.pollInterrupts() }},
		{phi2: func(c *CPU) { c.target = uint16(c.Bus.Read(0xFFFE)); c.P.InterruptDisable = true }},
		{phi2: func(c *CPU) {
			c.target |= uint16(c.Bus.Read(0xFFFF)) << 8
			c.PC.Load(c.target)
			c.finish()
		}},
	}
}
