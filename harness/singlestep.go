// Package harness drives this module's CPU engine against the
// single-step-tests JSON corpus format: one record per test case, each
// naming an initial register/RAM snapshot, the expected final snapshot,
// and the exact bus-cycle trace the instruction must produce.
//
// Generalized from the teacher's hardware/cpu/tests/thomharte test file —
// the same decode shape and per-cycle/final-state comparisons, reworked
// into a reusable function any _test.go file can call instead of one
// hard-coded test.
package harness

import (
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/L-Spiro/L.-Spiro-NES/hardware/cpu"
	"github.com/L-Spiro/L.-Spiro-NES/hardware/memory/bus"
)

// RAMEntry decodes a single-step-tests [address, value] pair.
type RAMEntry struct {
	Address uint16
	Value   uint8
}

func (r *RAMEntry) UnmarshalJSON(data []byte) error {
	var raw [2]uint64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Address = uint16(raw[0])
	r.Value = uint8(raw[1])
	return nil
}

// BusCycle decodes one [address, data, "read"|"write"] entry from a test
// case's expected cycle trace.
type BusCycle struct {
	Address uint16
	Data    uint8
	IsRead  bool
}

func (b *BusCycle) UnmarshalJSON(data []byte) error {
	var raw [3]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	addr, _ := raw[0].(float64)
	dat, _ := raw[1].(float64)
	event, _ := raw[2].(string)

	b.Address = uint16(addr)
	b.Data = uint8(dat)
	switch event {
	case "read":
		b.IsRead = true
	case "write":
		b.IsRead = false
	default:
		return fmt.Errorf("harness: unexpected bus event %q", event)
	}
	return nil
}

// State is one side (initial or final) of a test case's register/RAM
// snapshot.
type State struct {
	PC  uint16     `json:"pc"`
	S   uint8      `json:"s"`
	A   uint8      `json:"a"`
	X   uint8      `json:"x"`
	Y   uint8      `json:"y"`
	P   uint8      `json:"p"`
	RAM []RAMEntry `json:"ram"`
}

// Case is one decoded single-step-tests record.
type Case struct {
	Name    string     `json:"name"`
	Initial State      `json:"initial"`
	Final   State      `json:"final"`
	Cycles  []BusCycle `json:"cycles"`
}

// LoadJSONCases decodes a single-step-tests file, an array of Case records,
// from r.
func LoadJSONCases(r io.Reader) ([]Case, error) {
	var cases []Case
	if err := json.NewDecoder(r).Decode(&cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// NewFlatBus installs a full 64KiB flat read/write RAM with no mirroring or
// mapper banking, the plain address space the single-step-tests corpus
// assumes — unlike bus.New's default NES memory map.
func NewFlatBus() *bus.Bus {
	b := &bus.Bus{}
	ram := new([0x10000]uint8)
	b.SetReadRange(0, 0xFFFF, func(ctx any, param uint16) uint8 {
		return ctx.(*[0x10000]uint8)[param]
	}, ram)
	b.SetWriteRange(0, 0xFFFF, func(ctx any, param uint16, value uint8) {
		ctx.(*[0x10000]uint8)[param] = value
	}, ram)
	return b
}

// NewCPU constructs a CPU over b and flushes its pending power-on reset
// sequence, leaving it at a fetch boundary ready for RunJSONTest to load an
// arbitrary initial register/RAM state onto.
func NewCPU(b *bus.Bus) *cpu.CPU {
	c := cpu.New(b, nil, nil)
	c.StepInstruction()
	return c
}

// statusMaskB clears the B flag bit before comparison: it has no physical
// storage and is synthesized only when pushed, so the corpus's recorded P
// value and this engine's StatusRegister.Value(true) agree on every bit but
// that one.
const statusMaskB = 0x10

// Diff loads tc's initial register and RAM state onto c/b, steps exactly
// one instruction, and returns one description per mismatch between the
// observed bus trace/final state and what tc expects (nil on a clean
// pass). Used directly by callers with no *testing.T, such as a CLI
// corpus runner; RunJSONTest builds on it for _test.go files.
func Diff(c *cpu.CPU, b *bus.Bus, tc Case) []string {
	var mismatches []string

	c.PC.Load(tc.Initial.PC)
	c.A.Load(tc.Initial.A)
	c.X.Load(tc.Initial.X)
	c.Y.Load(tc.Initial.Y)
	c.S = tc.Initial.S
	c.P.FromValue(tc.Initial.P)
	for _, r := range tc.Initial.RAM {
		b.Write(r.Address, r.Value)
	}

	b.EnableTape()
	c.StepInstruction()

	observed := b.Tape()
	if len(observed) != len(tc.Cycles) {
		mismatches = append(mismatches, fmt.Sprintf("got %d bus cycles, want %d", len(observed), len(tc.Cycles)))
	} else {
		for i, want := range tc.Cycles {
			got := observed[i]
			if got.Addr != want.Address || got.Value != want.Data || got.IsRead != want.IsRead {
				mismatches = append(mismatches, fmt.Sprintf(
					"cycle %d: got (addr=%#04x data=%#02x read=%v), want (addr=%#04x data=%#02x read=%v)",
					i, got.Addr, got.Value, got.IsRead, want.Address, want.Data, want.IsRead))
			}
		}
	}

	if c.PC.Value() != tc.Final.PC {
		mismatches = append(mismatches, fmt.Sprintf("PC = %#04x, want %#04x", c.PC.Value(), tc.Final.PC))
	}
	if c.A.Value() != tc.Final.A {
		mismatches = append(mismatches, fmt.Sprintf("A = %#02x, want %#02x", c.A.Value(), tc.Final.A))
	}
	if c.X.Value() != tc.Final.X {
		mismatches = append(mismatches, fmt.Sprintf("X = %#02x, want %#02x", c.X.Value(), tc.Final.X))
	}
	if c.Y.Value() != tc.Final.Y {
		mismatches = append(mismatches, fmt.Sprintf("Y = %#02x, want %#02x", c.Y.Value(), tc.Final.Y))
	}
	if c.S != tc.Final.S {
		mismatches = append(mismatches, fmt.Sprintf("S = %#02x, want %#02x", c.S, tc.Final.S))
	}
	if got := c.P.Value(true) &^ statusMaskB; got != tc.Final.P&^statusMaskB {
		mismatches = append(mismatches, fmt.Sprintf("P = %#02x, want %#02x", got, tc.Final.P))
	}
	for _, r := range tc.Final.RAM {
		if got := b.Peek(r.Address); got != r.Value {
			mismatches = append(mismatches, fmt.Sprintf("RAM[%#04x] = %#02x, want %#02x", r.Address, got, r.Value))
		}
	}

	return mismatches
}

// RunJSONTest is Diff wired to a *testing.T: it fails t with every
// mismatch Diff reports.
func RunJSONTest(t *testing.T, c *cpu.CPU, b *bus.Bus, tc Case) {
	t.Helper()
	for _, m := range Diff(c, b, tc) {
		t.Errorf("%s: %s", tc.Name, m)
	}
}
