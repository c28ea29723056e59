// Package cartridge holds the host-boundary error sentinels mapper
// construction can fail with, per spec.md §7: "Host-boundary: ROM parse
// failures and I/O live outside the core and are reported to callers; the
// core accepts only a constructed mapper." A mapper constructor validating
// the ROM bytes it was handed sits right at that boundary, so its failures
// are reported through these curated errors rather than a panic.
package cartridge

import "github.com/L-Spiro/L.-Spiro-NES/curated"

const (
	noROMPattern         = "cartridge: no ROM data"
	badBankSelectPattern = "cartridge: PRG size %d is not a multiple of the %d-byte bank size"
)

// ErrNoROM reports that a mapper was constructed with an empty PRG image.
func ErrNoROM() error {
	return curated.Errorf(noROMPattern)
}

// ErrBadBankSelect reports that a PRG image's length doesn't divide evenly
// into bankSize, so no bank-select register value could ever address a
// whole bank.
func ErrBadBankSelect(prgSize, bankSize int) error {
	return curated.Errorf(badBankSelectPattern, prgSize, bankSize)
}

// IsNoROM reports whether err is (or wraps, via the curated chain) ErrNoROM.
func IsNoROM(err error) bool { return curated.Has(err, noROMPattern) }

// IsBadBankSelect reports whether err is (or wraps) ErrBadBankSelect.
func IsBadBankSelect(err error) bool { return curated.Has(err, badBankSelectPattern) }
