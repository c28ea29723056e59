// Package cpu implements the 6502 cycle engine spec.md §4.1 describes: a
// two-phase (phi1/phi2) tick contract, one micro-step executed per half
// clock, interrupt polling and vector selection, and JAM.
//
// Grounded on the teacher's hardware/cpu/cpu.go for overall shape — a CPU
// struct holding register types, a bus interface, per-cycle hooks — and on
// the original source's LSNCpu6502.h/.cpp for the two-phase, half-clock
// micro-step mechanics themselves, which the teacher's own engine (driven
// by a whole-instruction ExecuteInstruction plus a cycleCallback) does not
// model at this grain.
package cpu

import (
	"github.com/L-Spiro/L.-Spiro-NES/config"
	"github.com/L-Spiro/L.-Spiro-NES/hardware/cpu/instructions"
	"github.com/L-Spiro/L.-Spiro-NES/hardware/cpu/registers"
	"github.com/L-Spiro/L.-Spiro-NES/hardware/memory/bus"
	"github.com/L-Spiro/L.-Spiro-NES/logger"
)

// Ticker is the subset of the mapper interface the CPU needs: a per-cycle
// hook run during phi1, before the micro-step. Declared here rather than
// imported from the mapper package to avoid a cpu->mapper import; any
// mapper.Mapper satisfies it.
type Ticker interface {
	Tick()
}

type state int

const (
	stateFetch state = iota
	stateExecute
	stateDMA
	stateJammed
)

// CPU is the 6502-family execution engine.
type CPU struct {
	A, X, Y registers.Register
	S       uint8
	PC      registers.ProgramCounter
	P       registers.StatusRegister

	Bus    *bus.Bus
	Mapper Ticker
	Cfg    *config.Options

	state state
	seq   opSeq
	step  int

	opcode  uint16
	operand uint8
	addr    uint16
	ptr     uint16
	target  uint16

	pageCrossed         bool
	takeBranch          bool
	pushB               bool
	vector              uint16
	instrDone           bool
	resetSuppressWrites bool

	nmiLine        bool
	lastNMI        bool
	nmiDetected    bool
	irqLine        bool
	irqSeenLowPhi2 bool
	irqStatusPhi1  bool
	handleNMI      bool
	handleIRQ      bool
	isReset        bool

	cycle uint64

	dma dmaState

	Killed bool
}

// New constructs a CPU wired to bus b, with the given mapper tick hook
// (may be nil) and runtime options.
func New(b *bus.Bus, mapper Ticker, cfg *config.Options) *CPU {
	if cfg == nil {
		cfg = config.NewOptions()
	}
	c := &CPU{
		Bus:    b,
		Mapper: mapper,
		Cfg:    cfg,
	}
	c.A = registers.NewRegister(0, "A")
	c.X = registers.NewRegister(0, "X")
	c.Y = registers.NewRegister(0, "Y")
	c.installDMA()
	if b != nil {
		b.SetRandomOpenBusPins(cfg.RandomOpenBusPins.Get())
		cfg.RandomOpenBusPins.SetHook(func(v bool) { b.SetRandomOpenBusPins(v) })
	}
	c.ResetToKnown()
	return c
}

// Cycle returns the monotonically increasing master-cycle counter.
func (c *CPU) Cycle() uint64 { return c.cycle }

// AssertNMI raises the NMI line; it is edge-triggered, so the CPU only
// reacts to the 0->1 transition.
func (c *CPU) AssertNMI() { c.nmiLine = true }

// ClearNMI lowers the NMI line.
func (c *CPU) ClearNMI() { c.nmiLine = false }

// AssertIRQ raises the level-sensitive IRQ line.
func (c *CPU) AssertIRQ() { c.irqLine = true }

// ClearIRQ lowers the IRQ line.
func (c *CPU) ClearIRQ() { c.irqLine = false }

// ResetToKnown sets the registers to their documented power-on values and
// steers the next opcode fetch into the BRK sequence with the RESET vector,
// per spec.md §4.5.
func (c *CPU) ResetToKnown() {
	if c.Cfg != nil && c.Cfg.RandomPowerOnState.Get() {
		c.A.Load(randomByte())
		c.X.Load(randomByte())
		c.Y.Load(randomByte())
		c.S = randomByte()
	} else {
		c.A.Load(0)
		c.X.Load(0)
		c.Y.Load(0)
		c.S = 0xFD
	}
	c.P = registers.NewStatusRegister()
	c.P.FromValue(0x34)
	c.state = stateFetch
	c.seq = nil
	c.step = 0
	c.isReset = true
	c.handleNMI = false
	c.handleIRQ = false
	c.nmiDetected = false
	c.irqSeenLowPhi2 = false
	c.irqStatusPhi1 = false
	c.Killed = false
}

// TickPhi1 runs the internal-work half of one master cycle: it snapshots
// the level-sampled IRQ line, runs the mapper's per-cycle hook, and then
// executes the phi1 half of the current micro-step.
func (c *CPU) TickPhi1() {
	c.irqStatusPhi1 = c.irqSeenLowPhi2
	c.irqSeenLowPhi2 = false
	if c.Mapper != nil {
		c.Mapper.Tick()
	}

	switch c.state {
	case stateJammed:
	case stateDMA:
		c.dma.phi1(c)
	default:
		c.runPhi1()
	}
}

// TickPhi2 runs the bus-access half of one master cycle, then latches the
// NMI edge and accumulates the IRQ level, and advances the cycle counter.
func (c *CPU) TickPhi2() {
	switch c.state {
	case stateJammed:
		c.Bus.Read(c.PC.Value())
	case stateDMA:
		c.dma.phi2(c)
	default:
		c.runPhi2()
	}

	c.nmiDetected = c.nmiDetected || (!c.lastNMI && c.nmiLine)
	c.lastNMI = c.nmiLine
	c.irqSeenLowPhi2 = c.irqSeenLowPhi2 || c.irqLine
	c.cycle++
}

func (c *CPU) runPhi1() {
	if c.state == stateFetch {
		return // the fetch cycle's phi1 does nothing extra
	}
	if c.step < len(c.seq) && c.seq[c.step].phi1 != nil {
		c.seq[c.step].phi1(c)
	}
}

func (c *CPU) runPhi2() {
	if c.state == stateFetch {
		c.fetch()
		return
	}
	if c.step < len(c.seq) {
		// Generic polling point: the second-to-last cycle of most
		// instructions, per spec.md §4.1. Branch sequences poll at their
		// own specific points instead and never hit this.
		if c.step == len(c.seq)-2 && !c.opcodeIsBranch() {
			c.pollInterrupts()
		}
		if c.seq[c.step].phi2 != nil {
			c.seq[c.step].phi2(c)
		}
		c.step++
	}
	// A write to $4014 inside the step just run may have switched c.state to
	// stateDMA; in that case the fetch/resume decision below is deferred
	// until dmaState.phi2 finishes the transfer, per spec.md §4.4.
	if c.state == stateExecute && (c.instrDone || c.step >= len(c.seq)) {
		c.state = stateFetch
		c.instrDone = false
		c.seq = nil
		c.step = 0
	}
}

// pollInterrupts implements spec.md §4.1's interrupt-polling rule, called
// at the tail of an instruction's second-to-last cycle by opcode sequences
// that want the standard polling point.
func (c *CPU) pollInterrupts() {
	if c.nmiDetected {
		c.handleNMI = true
	} else if c.irqStatusPhi1 && !c.P.InterruptDisable {
		c.handleIRQ = true
	}
}

func (c *CPU) fetch() {
	interrupting := c.isReset || c.handleNMI || c.handleIRQ

	var opIndex uint16
	if interrupting {
		opIndex = c.chooseInterruptEntry()
		c.Bus.Read(c.PC.Value()) // discarded
	} else {
		opIndex = uint16(c.Bus.Read(c.PC.Value()))
		c.PC.Add(1)
	}

	c.opcode = opIndex
	c.pageCrossed = false
	c.takeBranch = false

	if seq := opcodeTable[opIndex]; seq != nil {
		c.seq = seq
	} else {
		c.seq = jamSeq
	}
	c.step = 0
	c.state = stateExecute
}

// chooseInterruptEntry selects the vector, push-B behavior, and synthetic
// opcode slot per spec.md §4.1's RESET > NMI > IRQ/BRK priority, and clears
// the flag(s) being serviced.
func (c *CPU) chooseInterruptEntry() uint16 {
	switch {
	case c.isReset:
		c.isReset = false
		c.vector = 0xFFFC
		c.pushB = false
		c.resetSuppressWrites = true
		return instructions.OpcodeIRQ
	case c.handleNMI:
		c.handleNMI = false
		c.nmiDetected = false
		c.vector = 0xFFFA
		c.pushB = false
		c.resetSuppressWrites = false
		return instructions.OpcodeNMI
	default:
		c.handleIRQ = false
		c.vector = 0xFFFE
		c.pushB = false
		c.resetSuppressWrites = false
		return instructions.OpcodeIRQ
	}
}

func randomByte() uint8 {
	// A simple xorshift is sufficient: this only needs to exercise
	// undefined-state code paths, not withstand adversarial analysis.
	seed ^= seed << 13
	seed ^= seed >> 7
	seed ^= seed << 17
	return uint8(seed)
}

var seed uint64 = 0x2545F4914F6CDD1D

var branchOpcodes = map[uint16]bool{
	0x10: true, 0x30: true, 0x50: true, 0x70: true,
	0x90: true, 0xB0: true, 0xD0: true, 0xF0: true,
}

func (c *CPU) opcodeIsBranch() bool { return branchOpcodes[c.opcode] }

// LastOpcode returns the most recently dispatched opcode index (0x00-0xFF,
// or the synthetic NMI/IRQ slot), for debugging and the harness package.
func (c *CPU) LastOpcode() uint16 { return c.opcode }

// Jammed reports whether the CPU has halted on an illegal JAM opcode.
func (c *CPU) Jammed() bool { return c.state == stateJammed }

// StepInstruction runs whole master cycles until the engine returns to the
// fetch state, having completed exactly one instruction or interrupt
// sequence (or halted on JAM) — instruction-grained stepping for callers
// that don't need the raw TickPhi1/TickPhi2 half-clock interface, such as
// the harness package and single-instruction debugging tools.
func (c *CPU) StepInstruction() {
	c.TickPhi1()
	c.TickPhi2()
	for c.state != stateFetch && c.state != stateJammed {
		c.TickPhi1()
		c.TickPhi2()
	}
}

// logStructural reports a build-time/structural anomaly through the central
// logger, per spec.md §7's "structural (panic-worthy)" category — these
// indicate an implementation bug and are logged rather than silently eaten.
func logStructural(format string, args ...any) {
	logger.Logf(logger.Allow, "cpu", format, args...)
}
