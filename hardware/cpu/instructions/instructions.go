// Package instructions holds the synthetic opcode numbers the CPU's
// dispatch table reserves for the NMI and IRQ entries that share BRK's
// push/vector-fetch sequence, per spec.md §3. Declared in their own package,
// the way the teacher separates instruction identity from the cpu package
// itself; interrupts.go and cpu.go's chooseInterruptEntry both name them.
package instructions

// Synthetic opcode numbers for the NMI and IRQ entries that share BRK's
// sequence, per spec.md §3. They sit just past the real 0x00-0xFF opcode
// space, inside opcodeTable's 258-entry range.
const (
	OpcodeNMI uint16 = 0x100
	OpcodeIRQ uint16 = 0x101
)
