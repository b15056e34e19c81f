package controller

import "testing"

func TestStrobeLatchesButtonOrder(t *testing.T) {
	c := New()
	c.SetButtonState(A, true)
	c.SetButtonState(Start, true)
	c.SetButtonState(Right, true)

	c.Write(0x01)
	c.Write(0x00)

	want := []uint8{1, 0, 0, 1, 0, 0, 0, 1}
	for i, w := range want {
		if got := c.Read(); got != w {
			t.Fatalf("bit %d: Read() = %d, want %d", i, got, w)
		}
	}
}

func TestReadsPastEighthReturnOne(t *testing.T) {
	c := New()
	c.Write(0x01)
	c.Write(0x00)
	for i := 0; i < 8; i++ {
		c.Read()
	}
	for i := 0; i < 3; i++ {
		if got := c.Read(); got != 1 {
			t.Errorf("read past 8th bit (extra %d) = %d, want 1", i, got)
		}
	}
}

func TestStrobeHeldHighAlwaysReportsA(t *testing.T) {
	c := New()
	c.Write(0x01)
	if got := c.Read(); got != 0 {
		t.Errorf("A not pressed: Read() = %d, want 0", got)
	}
	c.SetButtonState(A, true)
	if got := c.Read(); got != 1 {
		t.Errorf("A pressed while strobe high: Read() = %d, want 1", got)
	}
	c.SetButtonState(B, true)
	if got := c.Read(); got != 1 {
		t.Errorf("B state should not leak through strobe-high reads: Read() = %d, want 1 (still A)", got)
	}
}

func TestResetClearsState(t *testing.T) {
	c := New()
	c.SetButtonState(A, true)
	c.Write(0x01)
	c.Write(0x00)
	c.Reset()
	if got := c.Read(); got != 0 {
		t.Errorf("after Reset, A should read as released: Read() = %d, want 0", got)
	}
}
