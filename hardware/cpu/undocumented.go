package cpu

// buildUndocumented installs the stable illegal-opcode set (SLO, RLA, SRE,
// RRA, SAX, LAX, DCP, ISB, ANC, ASR, ARR, SBX, LAS) with their full side
// effects, the unstable set (ANE, LXA, SHA, SHS, SHX, SHY) using the widely
// accepted magic-constant model spec.md §4.1/§9 describes, the illegal
// multi-byte NOPs, and the JAM opcodes that halt the CPU. Slots this
// function does not reach keep whatever buildOfficial* already installed,
// or fall back to jamSeq if nothing claimed them.
func buildUndocumented() {
	buildSLO()
	buildRLA()
	buildSRE()
	buildRRA()
	buildSAXLAX()
	buildDCP()
	buildISB()
	buildSingleByteIllegals()
	buildUnstable()
	buildIllegalNOPs()
	buildJAMOpcodes()
}

func slo(c *CPU, v uint8) uint8 {
	r, carry := aslByte(v)
	c.P.Carry = carry
	c.A.ORA(r)
	c.P.SetZN(c.A.Value())
	return r
}

func buildSLO() {
	opcodeTable[0x07] = buildZeroPageRMW(slo)
	opcodeTable[0x17] = buildZeroPageIndexedRMW(regX, slo)
	opcodeTable[0x0F] = buildAbsoluteRMW(slo)
	opcodeTable[0x1F] = buildAbsoluteIndexedRMW(regX, slo)
	opcodeTable[0x1B] = buildAbsoluteIndexedRMW(regY, slo)
	opcodeTable[0x03] = buildIndexedIndirectRMW(slo)
	opcodeTable[0x13] = buildIndirectIndexedRMW(slo)
}

func rla(c *CPU, v uint8) uint8 {
	r, carry := rolByte(v, c.P.Carry)
	c.P.Carry = carry
	c.A.AND(r)
	c.P.SetZN(c.A.Value())
	return r
}

func buildRLA() {
	opcodeTable[0x27] = buildZeroPageRMW(rla)
	opcodeTable[0x37] = buildZeroPageIndexedRMW(regX, rla)
	opcodeTable[0x2F] = buildAbsoluteRMW(rla)
	opcodeTable[0x3F] = buildAbsoluteIndexedRMW(regX, rla)
	opcodeTable[0x3B] = buildAbsoluteIndexedRMW(regY, rla)
	opcodeTable[0x23] = buildIndexedIndirectRMW(rla)
	opcodeTable[0x33] = buildIndirectIndexedRMW(rla)
}

func sre(c *CPU, v uint8) uint8 {
	r, carry := lsrByte(v)
	c.P.Carry = carry
	c.A.EOR(r)
	c.P.SetZN(c.A.Value())
	return r
}

func buildSRE() {
	opcodeTable[0x47] = buildZeroPageRMW(sre)
	opcodeTable[0x57] = buildZeroPageIndexedRMW(regX, sre)
	opcodeTable[0x4F] = buildAbsoluteRMW(sre)
	opcodeTable[0x5F] = buildAbsoluteIndexedRMW(regX, sre)
	opcodeTable[0x5B] = buildAbsoluteIndexedRMW(regY, sre)
	opcodeTable[0x43] = buildIndexedIndirectRMW(sre)
	opcodeTable[0x53] = buildIndirectIndexedRMW(sre)
}

func rra(c *CPU, v uint8) uint8 {
	r, carry := rorByte(v, c.P.Carry)
	c.P.Carry = carry
	adc(c, r)
	return r
}

func buildRRA() {
	opcodeTable[0x67] = buildZeroPageRMW(rra)
	opcodeTable[0x77] = buildZeroPageIndexedRMW(regX, rra)
	opcodeTable[0x6F] = buildAbsoluteRMW(rra)
	opcodeTable[0x7F] = buildAbsoluteIndexedRMW(regX, rra)
	opcodeTable[0x7B] = buildAbsoluteIndexedRMW(regY, rra)
	opcodeTable[0x63] = buildIndexedIndirectRMW(rra)
	opcodeTable[0x73] = buildIndirectIndexedRMW(rra)
}

func storeSAX(c *CPU) uint8 { return c.A.Value() & c.X.Value() }

func lax(c *CPU, v uint8) {
	c.A.Load(v)
	c.X.Load(v)
	c.P.SetZN(v)
}

func buildSAXLAX() {
	opcodeTable[0x87] = buildZeroPageWrite(storeSAX)
	opcodeTable[0x97] = buildZeroPageIndexedWrite(regY, storeSAX)
	opcodeTable[0x8F] = buildAbsoluteWrite(storeSAX)
	opcodeTable[0x83] = buildIndexedIndirectWrite(storeSAX)

	opcodeTable[0xA7] = buildZeroPageRead(lax)
	opcodeTable[0xB7] = buildZeroPageIndexedRead(regY, lax)
	opcodeTable[0xAF] = buildAbsoluteRead(lax)
	opcodeTable[0xBF] = buildAbsoluteIndexedRead(regY, lax)
	opcodeTable[0xA3] = buildIndexedIndirectRead(lax)
	opcodeTable[0xB3] = buildIndirectIndexedRead(lax)
}

func dcp(c *CPU, v uint8) uint8 {
	r := decByte(v)
	compare(c, c.A.Value(), r)
	return r
}

func buildDCP() {
	opcodeTable[0xC7] = buildZeroPageRMW(dcp)
	opcodeTable[0xD7] = buildZeroPageIndexedRMW(regX, dcp)
	opcodeTable[0xCF] = buildAbsoluteRMW(dcp)
	opcodeTable[0xDF] = buildAbsoluteIndexedRMW(regX, dcp)
	opcodeTable[0xDB] = buildAbsoluteIndexedRMW(regY, dcp)
	opcodeTable[0xC3] = buildIndexedIndirectRMW(dcp)
	opcodeTable[0xD3] = buildIndirectIndexedRMW(dcp)
}

func isb(c *CPU, v uint8) uint8 {
	r := incByte(v)
	sbc(c, r)
	return r
}

func buildISB() {
	opcodeTable[0xE7] = buildZeroPageRMW(isb)
	opcodeTable[0xF7] = buildZeroPageIndexedRMW(regX, isb)
	opcodeTable[0xEF] = buildAbsoluteRMW(isb)
	opcodeTable[0xFF] = buildAbsoluteIndexedRMW(regX, isb)
	opcodeTable[0xFB] = buildAbsoluteIndexedRMW(regY, isb)
	opcodeTable[0xE3] = buildIndexedIndirectRMW(isb)
	opcodeTable[0xF3] = buildIndirectIndexedRMW(isb)
}

// buildSingleByteIllegals installs ANC, ASR/ALR, ARR, SBX/AXS and LAS/LAR,
// the stable illegal opcodes with no direct documented counterpart. All are
// immediate-addressed except LAS, which uses absolute,Y.
func buildSingleByteIllegals() {
	anc := func(c *CPU, v uint8) {
		c.A.AND(v)
		c.P.Carry = c.A.Value()&0x80 != 0
		c.P.SetZN(c.A.Value())
	}
	opcodeTable[0x0B] = buildImmediate(anc)
	opcodeTable[0x2B] = buildImmediate(anc)

	asr := func(c *CPU, v uint8) {
		c.A.AND(v)
		carry := c.A.LSR()
		c.P.Carry = carry
		c.P.SetZN(c.A.Value())
	}
	opcodeTable[0x4B] = buildImmediate(asr)

	arr := func(c *CPU, v uint8) {
		t := c.A.Value() & v
		carryIn := c.P.Carry
		r := t >> 1
		if carryIn {
			r |= 0x80
		}
		c.A.Load(r)
		c.P.Carry = r&0x40 != 0
		c.P.Overflow = ((r>>6)^(r>>5))&1 != 0
		c.P.SetZN(r)
	}
	opcodeTable[0x6B] = buildImmediate(arr)

	sbx := func(c *CPU, v uint8) {
		t := c.X.Value() & c.A.Value()
		c.P.Carry = t >= v
		diff := t - v
		c.X.Load(diff)
		c.P.SetZN(diff)
	}
	opcodeTable[0xCB] = buildImmediate(sbx)

	las := func(c *CPU, v uint8) {
		r := c.S & v
		c.A.Load(r)
		c.X.Load(r)
		c.S = r
		c.P.SetZN(r)
	}
	opcodeTable[0xBB] = buildAbsoluteIndexedRead(regY, las)
}

// buildUnstable installs the unstable opcode set using the widely accepted
// model spec.md §4.1/§9 describes: ANE/LXA use a runtime-configurable
// "magic constant" (0xEE for single-step-tests compatibility, 0xFF
// otherwise); SHA/SHS/SHX/SHY write reg & (high_byte(addr)+1) with the
// documented page-crossing corruption.
func buildUnstable() {
	opcodeTable[0x8B] = buildImmediate(func(c *CPU, v uint8) {
		magic := c.Cfg.UnstableMagicConstant.Get()
		r := (c.A.Value() | magic) & c.X.Value() & v
		c.A.Load(r)
		c.P.SetZN(r)
	})
	opcodeTable[0xAB] = buildImmediate(func(c *CPU, v uint8) {
		magic := c.Cfg.UnstableMagicConstant.Get()
		r := (c.A.Value() | magic) & v
		c.A.Load(r)
		c.X.Load(r)
		c.P.SetZN(r)
	})

	opcodeTable[0x9F] = buildUnstableHighByteWrite(regY, func(c *CPU) uint8 { return c.A.Value() & c.X.Value() })
	opcodeTable[0x93] = buildUnstableHighByteWriteIndirect(func(c *CPU) uint8 { return c.A.Value() & c.X.Value() })
	opcodeTable[0x9E] = buildUnstableHighByteWrite(regY, func(c *CPU) uint8 { return c.X.Value() })
	opcodeTable[0x9C] = buildUnstableHighByteWrite(regX, func(c *CPU) uint8 { return c.Y.Value() })
	opcodeTable[0x9B] = buildUnstableHighByteWrite(regY, func(c *CPU) uint8 {
		r := c.A.Value() & c.X.Value()
		c.S = r
		return r
	})
}

// buildUnstableHighByteWrite is the shared shape for SHA/SHX/SHY/SHS
// (absolute,index): the value written is reg() & (high byte of the
// unfixed address + 1); when the index causes a page cross, the write
// lands at the AND-corrupted address instead of the intended one.
func buildUnstableHighByteWrite(index func(c *CPU) uint8, value func(c *CPU) uint8) opSeq {
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
		{phi2: func(c *CPU) { c.Bus.Read(boundaryAddr(c.addr, c.target)) }},
		{phi2: func(c *CPU) {
			v := value(c) & (uint8(c.target>>8) + 1)
			addr := c.target
			if c.pageCrossed {
				addr = (uint16(v) << 8) | (c.target & 0xFF)
			}
			c.Bus.Write(addr, v)
			c.finish()
		}},
	}
}

func buildUnstableHighByteWriteIndirect(value func(c *CPU) uint8) opSeq {
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
		{phi2: func(c *CPU) { c.Bus.Read(boundaryAddr(c.addr, c.target)) }},
		{phi2: func(c *CPU) {
			v := value(c) & (uint8(c.target>>8) + 1)
			addr := c.target
			if c.pageCrossed {
				addr = (uint16(v) << 8) | (c.target & 0xFF)
			}
			c.Bus.Write(addr, v)
			c.finish()
		}},
	}
}

// buildIllegalNOPs installs the illegal multi-byte NOP opcodes: they
// perform the addressing mode's reads and discard the result.
func buildIllegalNOPs() {
	discard := func(c *CPU, v uint8) {}

	for _, op := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		opcodeTable[op] = buildImplied(func(c *CPU) {})
	}
	for _, op := range []uint8{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		opcodeTable[op] = buildImmediate(discard)
	}
	for _, op := range []uint8{0x04, 0x44, 0x64} {
		opcodeTable[op] = buildZeroPageRead(discard)
	}
	for _, op := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		opcodeTable[op] = buildZeroPageIndexedRead(regX, discard)
	}
	opcodeTable[0x0C] = buildAbsoluteRead(discard)
	for _, op := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		opcodeTable[op] = buildAbsoluteIndexedRead(regX, discard)
	}
}

// buildJAMOpcodes installs the documented JAM opcodes: the CPU transitions
// to the JAMMED state and never advances, per spec.md §4.1.
func buildJAMOpcodes() {
	for _, op := range []uint8{0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2} {
		opcodeTable[op] = jamSeq
	}
}
