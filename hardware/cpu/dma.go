package cpu

// dmaState drives the OAM DMA transfer spec.md §4.4 describes: writing any
// value to $4014 halts the CPU for one cycle (two if the write landed on an
// odd CPU cycle), then copies 256 bytes from page*$100 to $2004 one byte
// per two cycles. Interrupt detection keeps running unconditionally while
// this is in progress; only the CPU's own instruction stream is paused.
type dmaState struct {
	page    uint8
	offset  uint16
	latch   uint8
	cycle   int
	oddLead bool
}

// installDMA traps writes to $4014 and kicks off a transfer: the CPU state
// switches to stateDMA, suspending whatever instruction step was in
// progress so it can resume once the transfer completes.
func (c *CPU) installDMA() {
	c.Bus.SetWrite(0x4014, func(ctx any, param uint16, value uint8) {
		cpu := ctx.(*CPU)
		cpu.dma = dmaState{page: value, oddLead: cpu.cycle%2 == 1}
		cpu.state = stateDMA
	}, c, 0)
}

// phi1 has no internal work of its own; the mapper tick and interrupt
// sampling the main engine performs around it are unconditional regardless
// of CPU state.
func (d *dmaState) phi1(c *CPU) {}

func (d *dmaState) phi2(c *CPU) {
	lead := 1
	if d.oddLead {
		lead = 2
	}

	switch {
	case d.cycle < lead:
		c.Bus.Read(c.PC.Value()) // halt/alignment cycle, discarded
	default:
		transferCycle := d.cycle - lead
		if transferCycle%2 == 0 {
			addr := uint16(d.page)<<8 | d.offset
			d.latch = c.Bus.Read(addr)
		} else {
			c.Bus.Write(0x2004, d.latch)
			d.offset++
		}
	}

	d.cycle++
	if d.cycle >= lead+512 {
		if c.instrDone || c.step >= len(c.seq) {
			c.state = stateFetch
			c.instrDone = false
			c.seq = nil
			c.step = 0
		} else {
			c.state = stateExecute
		}
	}
}
