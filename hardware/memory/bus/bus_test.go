package bus

import "testing"

func TestSetReadAndWriteRoundTripThroughContextAndParam(t *testing.T) {
	b := &Bus{}
	backing := uint8(0)
	b.SetFloatMask(0x1000, 0x00)
	b.SetRead(0x1000, func(ctx any, param uint16) uint8 {
		return *ctx.(*uint8) + uint8(param)
	}, &backing, 5)
	b.SetWrite(0x1000, func(ctx any, param uint16, value uint8) {
		*ctx.(*uint8) = value + uint8(param)
	}, &backing, 5)

	b.Write(0x1000, 10)
	if backing != 15 {
		t.Fatalf("backing = %d, want 15", backing)
	}
	if got := b.Read(0x1000); got != 20 {
		t.Fatalf("Read = %d, want 20", got)
	}
}

func TestReadFromUndrivenCellReturnsOpenBus(t *testing.T) {
	b := &Bus{}
	for a := range b.floatMask {
		b.floatMask[a] = 0xFF
	}
	b.Write(0x2000, 0x42) // latches openBus, no handler installed there
	if got := b.Read(0x3000); got != 0x42 {
		t.Fatalf("Read of undriven cell = %#02x, want 0x42 (open bus)", got)
	}
}

func TestFloatMaskMixesHandlerResultWithOpenBus(t *testing.T) {
	b := &Bus{}
	b.SetFloatMask(0x4000, 0x0F) // low nibble floats, high nibble driven
	b.SetRead(0x4000, func(ctx any, param uint16) uint8 { return 0x50 }, nil, 0)

	b.Write(0x0000, 0xAF) // latch openBus = 0xAF
	if got := b.Read(0x4000); got != 0x5F {
		t.Fatalf("Read = %#02x, want 0x5F (driven high nibble 0x50 | floated low nibble 0x0F)", got)
	}
}

func TestWriteLatchesOpenBusBeforeHandlerRuns(t *testing.T) {
	b := &Bus{}
	var seenOpenBus uint8
	b.SetWrite(0x5000, func(ctx any, param uint16, value uint8) {
		seenOpenBus = ctx.(*Bus).OpenBus()
	}, b, 0)

	b.Write(0x5000, 0x77)
	if seenOpenBus != 0x77 {
		t.Fatalf("handler observed openBus = %#02x, want 0x77", seenOpenBus)
	}
	if b.OpenBus() != 0x77 {
		t.Fatalf("OpenBus() = %#02x, want 0x77", b.OpenBus())
	}
}

func TestSetReadRangeAndWriteRangeInstallAcrossWindow(t *testing.T) {
	b := &Bus{}
	store := make([]uint8, 0x10)
	b.SetFloatMask(0, 0x00)
	for a := uint16(0x6000); a <= 0x600F; a++ {
		b.SetFloatMask(a, 0x00)
	}
	b.SetReadRange(0x6000, 0x600F, func(ctx any, param uint16) uint8 {
		return ctx.([]uint8)[param-0x6000]
	}, store)
	b.SetWriteRange(0x6000, 0x600F, func(ctx any, param uint16, value uint8) {
		ctx.([]uint8)[param-0x6000] = value
	}, store)

	for a := uint16(0x6000); a <= 0x600F; a++ {
		b.Write(a, uint8(a))
	}
	for a := uint16(0x6000); a <= 0x600F; a++ {
		if got := b.Read(a); got != uint8(a) {
			t.Fatalf("Read(%#04x) = %#02x, want %#02x", a, got, uint8(a))
		}
	}
}

func TestApplyMapMirrorsInternalRAMAcrossFourWindows(t *testing.T) {
	b := New()
	b.Write(0x0001, 0xAB)
	for _, mirror := range []uint16{0x0001, 0x0801, 0x1001, 0x1801} {
		if got := b.Read(mirror); got != 0xAB {
			t.Fatalf("Read(%#04x) = %#02x, want 0xAB (RAM mirror)", mirror, got)
		}
	}
}

func TestApplyMapLeavesCartridgeSpaceAsOpenBus(t *testing.T) {
	b := New()
	b.Write(0x0000, 0x55) // latch openBus
	if got := b.Read(0x8000); got != 0x55 {
		t.Fatalf("Read(0x8000) on an unmapped bus = %#02x, want 0x55 (open bus)", got)
	}
}

func TestTapeRecordsReadsAndWritesUntilReset(t *testing.T) {
	b := New()
	b.EnableTape()
	b.Write(0x0000, 0x10)
	b.Read(0x0000)

	tape := b.Tape()
	if len(tape) != 2 {
		t.Fatalf("len(tape) = %d, want 2", len(tape))
	}
	if tape[0].IsRead || tape[0].Addr != 0x0000 || tape[0].Value != 0x10 {
		t.Errorf("tape[0] = %+v, want write 0x0000=0x10", tape[0])
	}
	if !tape[1].IsRead || tape[1].Addr != 0x0000 || tape[1].Value != 0x10 {
		t.Errorf("tape[1] = %+v, want read 0x0000=0x10", tape[1])
	}

	b.ResetTape()
	if len(b.Tape()) != 0 {
		t.Fatalf("len(tape) after ResetTape = %d, want 0", len(b.Tape()))
	}
}

func TestPeekDoesNotDisturbOpenBusOrTape(t *testing.T) {
	b := New()
	b.Write(0x0000, 0x99)
	b.EnableTape()

	if got := b.Peek(0x0000); got != 0x99 {
		t.Fatalf("Peek(0x0000) = %#02x, want 0x99", got)
	}
	if len(b.Tape()) != 0 {
		t.Fatalf("Peek recorded %d tape entries, want 0", len(b.Tape()))
	}

	b.Write(0x0001, 0x11) // changes openBus
	if got := b.Peek(0x0000); got != 0x99 {
		t.Fatalf("Peek(0x0000) after unrelated write = %#02x, want 0x99 (RAM cell unaffected)", got)
	}
}

func TestPeekOfUnmappedCellReturnsOpenBus(t *testing.T) {
	b := &Bus{}
	b.Write(0x1234, 0x7E)
	if got := b.Peek(0x5678); got != 0x7E {
		t.Fatalf("Peek of unmapped cell = %#02x, want 0x7E (open bus)", got)
	}
}

func TestRandomOpenBusPinsDisabledByDefaultRepeatsLatch(t *testing.T) {
	b := &Bus{}
	for a := range b.floatMask {
		b.floatMask[a] = 0xFF
	}
	b.Write(0x2000, 0x42)
	for i := 0; i < 3; i++ {
		if got := b.Read(0x3000); got != 0x42 {
			t.Fatalf("Read(0x3000) = %#02x, want 0x42 (deterministic open bus)", got)
		}
	}
}

func TestRandomOpenBusPinsEnabledVariesFloatingBits(t *testing.T) {
	b := &Bus{}
	for a := range b.floatMask {
		b.floatMask[a] = 0xFF
	}
	b.SetRandomOpenBusPins(true)
	b.Write(0x2000, 0x42)

	sawDifferentValue := false
	for i := 0; i < 64; i++ {
		if got := b.Read(0x3000); got != 0x42 {
			sawDifferentValue = true
			break
		}
	}
	if !sawDifferentValue {
		t.Fatal("Read(0x3000) with RandomOpenBusPins enabled never deviated from the latched value across 64 reads")
	}
}

func TestRandomOpenBusPinsNeverTouchesDrivenBits(t *testing.T) {
	b := &Bus{}
	b.SetFloatMask(0x4000, 0x00)
	b.SetRead(0x4000, func(ctx any, param uint16) uint8 { return 0x5A }, nil, 0)
	b.SetRandomOpenBusPins(true)

	for i := 0; i < 16; i++ {
		if got := b.Read(0x4000); got != 0x5A {
			t.Fatalf("Read(0x4000) = %#02x, want 0x5A: a fully-driven cell must never be touched by randomization", got)
		}
	}
}
