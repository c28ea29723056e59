package cpu

import "github.com/L-Spiro/L.-Spiro-NES/hardware/cpu/instructions"

// buildInterruptSequences installs the synthetic NMI and IRQ table entries
// spec.md §3 and §4.1 describe: they share BRK's push/vector-fetch shape
// but never increment PC and always push with B=0. RESET reuses the IRQ
// slot (chosen by CPU.chooseInterruptEntry), with c.resetSuppressWrites
// turning each stack "write" into a read per spec.md §4.5, while S still
// decrements three times.
func buildInterruptSequences() {
	seq := func() opSeq {
		return opSeq{
			{phi2: func(c *CPU) { c.Bus.Read(c.PC.Value()) }},
			{phi2: func(c *CPU) { c.push(c.PC.Hi()) }},
			{phi2: func(c *CPU) { c.push(c.PC.Lo()) }},
			{phi2: func(c *CPU) { c.push(c.P.Value(c.pushB)) }},
			{phi2: func(c *CPU) {
				c.target = uint16(c.Bus.Read(c.vector))
				c.P.InterruptDisable = true
			}},
			{phi2: func(c *CPU) {
				c.target |= uint16(c.Bus.Read(c.vector+1)) << 8
				c.PC.Load(c.target)
				c.resetSuppressWrites = false
				c.finish()
			}},
		}
	}
	opcodeTable[instructions.OpcodeNMI] = seq()
	opcodeTable[instructions.OpcodeIRQ] = seq()
}
