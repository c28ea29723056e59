// Package config holds the CORE's small set of runtime options: power-on
// register randomization, open-bus pin randomization, and the ANE/LXA
// "magic constant" selection spec.md §9 calls out as needing to be a
// runtime choice rather than a compile-time switch. Modeled on the
// teacher's prefs.Bool (atomic.Value-backed, optional hooks) with the
// on-disk persistence half dropped — the CORE never touches a filesystem.
package config

import "sync/atomic"

// Bool is an atomically-guarded boolean option.
type Bool struct {
	value atomic.Bool
	hook  func(bool)
}

// NewBool constructs a Bool with the given initial value.
func NewBool(initial bool) *Bool {
	b := &Bool{}
	b.value.Store(initial)
	return b
}

// Get returns the current value.
func (b *Bool) Get() bool { return b.value.Load() }

// Set stores a new value and, if one is registered, runs the post-set hook.
func (b *Bool) Set(v bool) {
	b.value.Store(v)
	if b.hook != nil {
		b.hook(v)
	}
}

// SetHook installs a callback run after every Set.
func (b *Bool) SetHook(f func(bool)) { b.hook = f }

// Byte is an atomically-guarded 8-bit option, used for UnstableMagicConstant.
type Byte struct {
	value atomic.Uint32 // stored widened; only the low 8 bits are meaningful
}

// NewByte constructs a Byte with the given initial value.
func NewByte(initial uint8) *Byte {
	b := &Byte{}
	b.value.Store(uint32(initial))
	return b
}

// Get returns the current value.
func (b *Byte) Get() uint8 { return uint8(b.value.Load()) }

// Set stores a new value.
func (b *Byte) Set(v uint8) { b.value.Store(uint32(v)) }

// Options bundles the CORE's runtime configuration. The zero value is not
// usable; construct with NewOptions to get spec-compliant defaults.
type Options struct {
	// RandomPowerOnState randomizes A, X, Y and the low byte of S at
	// construction/reset instead of using the fixed power-on values, to
	// exercise code paths that assume undefined state.
	RandomPowerOnState *Bool

	// RandomOpenBusPins randomizes the bits an unmapped read's float mask
	// lets through, instead of deterministically repeating the latch.
	RandomOpenBusPins *Bool

	// UnstableMagicConstant selects the ANE/LXA "magic constant" model
	// named in spec.md §4.1/§9: 0xEE for compatibility with the common
	// external single-step-tests corpus, 0xFF otherwise.
	UnstableMagicConstant *Byte
}

// NewOptions returns Options with spec-compliant defaults: no
// randomization, magic constant 0xEE.
func NewOptions() *Options {
	return &Options{
		RandomPowerOnState:    NewBool(false),
		RandomOpenBusPins:     NewBool(false),
		UnstableMagicConstant: NewByte(0xEE),
	}
}
