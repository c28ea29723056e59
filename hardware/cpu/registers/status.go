package registers

import "strings"

// StatusRegister is the 6502 flags register: C=0, Z=1, I=2, D=3, B=4, U=5
// (always reads as 1), V=6, N=7 — the bit layout spec.md §3 specifies. B has
// no field here: spec.md §3 is explicit that B has no physical storage in
// the real chip, so there is nothing to hold between pushes — it is
// synthesized by Value's pushB argument and discarded by FromValue.
type StatusRegister struct {
	Carry            bool
	Zero             bool
	InterruptDisable bool
	DecimalMode      bool
	Overflow         bool
	Sign             bool
}

// NewStatusRegister returns a zeroed status register.
func NewStatusRegister() StatusRegister {
	return StatusRegister{}
}

// Label returns the canonical register name.
func (sr StatusRegister) Label() string { return "P" }

func (sr StatusRegister) String() string {
	s := strings.Builder{}
	put := func(set bool, up, down rune) {
		if set {
			s.WriteRune(up)
		} else {
			s.WriteRune(down)
		}
	}
	put(sr.Sign, 'N', 'n')
	put(sr.Overflow, 'V', 'v')
	s.WriteRune('-')
	s.WriteRune('b') // B has no storage between pushes; always shown clear
	put(sr.DecimalMode, 'D', 'd')
	put(sr.InterruptDisable, 'I', 'i')
	put(sr.Zero, 'Z', 'z')
	put(sr.Carry, 'C', 'c')
	return s.String()
}

// Reset clears every flag (the U bit still reads as 1 through Value()).
func (sr *StatusRegister) Reset() {
	*sr = StatusRegister{}
}

// Value packs the flags into an 8-bit value suitable for pushing onto the
// stack. pushB selects whether the B flag is reported as 1 (PHP/BRK) or 0
// (NMI/IRQ/RESET) — spec.md §3 notes B is never stored physically and is
// synthesized only at push time.
func (sr StatusRegister) Value(pushB bool) uint8 {
	var v uint8
	if sr.Sign {
		v |= 0x80
	}
	if sr.Overflow {
		v |= 0x40
	}
	// U always reads as 1.
	v |= 0x20
	if pushB {
		v |= 0x10
	}
	if sr.DecimalMode {
		v |= 0x08
	}
	if sr.InterruptDisable {
		v |= 0x04
	}
	if sr.Zero {
		v |= 0x02
	}
	if sr.Carry {
		v |= 0x01
	}
	return v
}

// FromValue unpacks an 8-bit value (e.g. pulled from the stack) into the
// flags. The B and U bits have no physical storage and are discarded.
func (sr *StatusRegister) FromValue(v uint8) {
	sr.Sign = v&0x80 != 0
	sr.Overflow = v&0x40 != 0
	sr.DecimalMode = v&0x08 != 0
	sr.InterruptDisable = v&0x04 != 0
	sr.Zero = v&0x02 != 0
	sr.Carry = v&0x01 != 0
}

// SetZN sets the Zero and Sign flags from the given result byte, the most
// common flag update shared by nearly every data-moving instruction.
func (sr *StatusRegister) SetZN(v uint8) {
	sr.Zero = v == 0
	sr.Sign = v&0x80 != 0
}
