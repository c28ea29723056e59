package config

import "testing"

func TestBoolGetSetRoundTrip(t *testing.T) {
	b := NewBool(false)
	if b.Get() {
		t.Fatal("NewBool(false).Get() = true")
	}
	b.Set(true)
	if !b.Get() {
		t.Fatal("Get() after Set(true) = false")
	}
}

func TestBoolHookRunsAfterSet(t *testing.T) {
	b := NewBool(false)
	var seen []bool
	b.SetHook(func(v bool) { seen = append(seen, v) })

	b.Set(true)
	b.Set(false)

	if len(seen) != 2 || seen[0] != true || seen[1] != false {
		t.Fatalf("hook observed %v, want [true false]", seen)
	}
}

func TestByteGetSetRoundTrip(t *testing.T) {
	b := NewByte(0xEE)
	if b.Get() != 0xEE {
		t.Fatalf("NewByte(0xEE).Get() = %#02x", b.Get())
	}
	b.Set(0xFF)
	if b.Get() != 0xFF {
		t.Fatalf("Get() after Set(0xFF) = %#02x", b.Get())
	}
}

func TestNewOptionsHasSpecCompliantDefaults(t *testing.T) {
	cfg := NewOptions()
	if cfg.RandomPowerOnState.Get() {
		t.Error("RandomPowerOnState should default to false")
	}
	if cfg.RandomOpenBusPins.Get() {
		t.Error("RandomOpenBusPins should default to false")
	}
	if got := cfg.UnstableMagicConstant.Get(); got != 0xEE {
		t.Errorf("UnstableMagicConstant default = %#02x, want 0xEE", got)
	}
}
