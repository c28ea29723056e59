package mapper

import (
	"testing"

	"github.com/L-Spiro/L.-Spiro-NES/hardware/memory/bus"
	"github.com/L-Spiro/L.-Spiro-NES/hardware/memory/cartridge"
)

func newTestMapper094(t *testing.T, banks int) *Mapper094 {
	prg := make([]uint8, banks*mapper094PRGBankSize)
	for bank := 0; bank < banks; bank++ {
		for i := 0; i < mapper094PRGBankSize; i++ {
			prg[bank*mapper094PRGBankSize+i] = uint8(bank)
		}
	}
	m, err := NewMapper094(prg, MirrorHorizontal)
	if err != nil {
		t.Fatalf("NewMapper094(%d banks) = %v, want no error", banks, err)
	}
	return m
}

func TestSelectedBankMasksAndShiftsRegisterModuloBankCount(t *testing.T) {
	m := newTestMapper094(t, 4)

	m.bank = 0b0000_0000
	if got := m.selectedBank(); got != 0 {
		t.Fatalf("selectedBank() = %d, want 0", got)
	}

	m.bank = 0b0000_0100 // bits 4:2 = 001
	if got := m.selectedBank(); got != 1 {
		t.Fatalf("selectedBank() = %d, want 1", got)
	}

	m.bank = 0b0001_1100 // bits 4:2 = 111 = 7, modulo 4 banks = 3
	if got := m.selectedBank(); got != 3 {
		t.Fatalf("selectedBank() = %d, want 3 (7 %% 4)", got)
	}

	m.bank = 0b1110_0011 // low/high bits outside the select field are ignored
	if got := m.selectedBank(); got != 0 {
		t.Fatalf("selectedBank() = %d, want 0 (select field is 0)", got)
	}
}

func TestUpperWindowFixedToLastBankRegardlessOfSelect(t *testing.T) {
	m := newTestMapper094(t, 4)
	b := bus.New()
	m.ApplyMap(b)

	m.bank = 0 // selects bank 0 for the lower window
	if got := b.Read(0xC000); got != 3 {
		t.Fatalf("Read(0xC000) = %d, want 3 (last bank, fixed)", got)
	}
	if got := b.Read(0xFFFF); got != 3 {
		t.Fatalf("Read(0xFFFF) = %d, want 3 (last bank, fixed)", got)
	}
}

func TestLowerWindowFollowsBankSelectWrite(t *testing.T) {
	m := newTestMapper094(t, 4)
	b := bus.New()
	m.ApplyMap(b)

	b.Write(0x8000, 0b0000_1000) // bits 4:2 = 010 -> bank 2
	if got := b.Read(0x8000); got != 2 {
		t.Fatalf("Read(0x8000) after select = %d, want 2", got)
	}
	if got := b.Read(0xBFFF); got != 2 {
		t.Fatalf("Read(0xBFFF) after select = %d, want 2", got)
	}
}

func TestApplyMapDoesNotInstallHandlersOverInternalRAM(t *testing.T) {
	m := newTestMapper094(t, 2)
	b := bus.New() // installs internal RAM at 0x0000-0x1FFF first
	m.ApplyMap(b)

	b.Write(0x0001, 0xAB)
	if got := b.Read(0x0001); got != 0xAB {
		t.Fatalf("Read(0x0001) = %#02x, want 0xAB: mapper094 must not overwrite internal RAM handlers", got)
	}
	if got := b.Read(0x1801); got != 0xAB { // RAM mirror
		t.Fatalf("Read(0x1801) = %#02x, want 0xAB (RAM mirror): mapper094 must not claim CHR space on the CPU bus", got)
	}
}

func TestReadCHRAndWriteCHRAreIndependentOfTheCPUBus(t *testing.T) {
	m := newTestMapper094(t, 2)
	b := bus.New()
	m.ApplyMap(b)

	m.WriteCHR(0x0010, 0x77)
	if got := m.ReadCHR(0x0010); got != 0x77 {
		t.Fatalf("ReadCHR(0x0010) = %#02x, want 0x77", got)
	}
	// Nothing a mapper094 installs on the CPU bus should observe CHR writes.
	if got := b.Read(0x0010); got == 0x77 {
		t.Fatalf("Read(0x0010) unexpectedly reflects CHR RAM; CHR must stay off the CPU bus")
	}
}

func TestCopyBanksReportsPRGBanksPlusCHRRAM(t *testing.T) {
	m := newTestMapper094(t, 3)
	banks := m.CopyBanks()
	if len(banks) != 4 { // 3 PRG banks + 1 CHR RAM entry
		t.Fatalf("len(CopyBanks()) = %d, want 4", len(banks))
	}
	last := banks[len(banks)-1]
	if !last.IsRAM || last.Size != mapper094CHRSize {
		t.Fatalf("CopyBanks() last entry = %+v, want CHR RAM of size %d", last, mapper094CHRSize)
	}
}

func TestGetBankReportsFixedSwitchableAndUnmapped(t *testing.T) {
	m := newTestMapper094(t, 4)
	m.bank = 0b0000_1000 // bank 2

	if got := m.GetBank(0xC000); got != m.lastBank() {
		t.Fatalf("GetBank(0xC000) = %d, want %d (fixed last bank)", got, m.lastBank())
	}
	if got := m.GetBank(0x8000); got != 2 {
		t.Fatalf("GetBank(0x8000) = %d, want 2", got)
	}
	if got := m.GetBank(0x0000); got != -1 {
		t.Fatalf("GetBank(0x0000) = %d, want -1 (outside mapper's windows)", got)
	}
}

func TestIRQLineAndTickAreInertNoOps(t *testing.T) {
	m := newTestMapper094(t, 2)
	m.Tick()
	if m.IRQLine() {
		t.Fatal("IRQLine() = true, want false: mapper094 never asserts IRQ")
	}
}

func TestNewMapper094RejectsEmptyPRG(t *testing.T) {
	_, err := NewMapper094(nil, MirrorHorizontal)
	if err == nil {
		t.Fatal("NewMapper094(nil, ...) = nil error, want cartridge.ErrNoROM")
	}
	if !cartridge.IsNoROM(err) {
		t.Fatalf("NewMapper094(nil, ...) = %v, want an error matching cartridge.ErrNoROM", err)
	}
}

func TestNewMapper094RejectsMisalignedPRG(t *testing.T) {
	prg := make([]uint8, mapper094PRGBankSize+1)
	_, err := NewMapper094(prg, MirrorHorizontal)
	if err == nil {
		t.Fatal("NewMapper094(misaligned prg, ...) = nil error, want cartridge.ErrBadBankSelect")
	}
	if !cartridge.IsBadBankSelect(err) {
		t.Fatalf("NewMapper094(misaligned prg, ...) = %v, want an error matching cartridge.ErrBadBankSelect", err)
	}
}
