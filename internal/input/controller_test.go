package input

import "testing"

func TestStrobeHighAlwaysReturnsButtonA(t *testing.T) {
	c := NewController()
	c.SetButton(ButtonA, true)
	c.SetButton(ButtonB, true)
	c.Write(0x01) // strobe high

	for i := 0; i < 3; i++ {
		if got := c.Read(); got != 1 {
			t.Errorf("expected button A bit while strobed, got %d", got)
		}
	}
}

func TestReadOrderIsLSBFirst(t *testing.T) {
	c := NewController()
	c.SetButton(ButtonA, true)
	c.SetButton(ButtonSelect, true)
	c.SetButton(ButtonRight, true)
	c.Write(0x01)
	c.Write(0x00) // latch snapshot

	expected := []uint8{1, 0, 1, 0, 0, 0, 0, 1} // A, B, Select, Start, Up, Down, Left, Right
	for i, want := range expected {
		if got := c.Read(); got != want {
			t.Errorf("bit %d: expected %d, got %d", i, want, got)
		}
	}
}

func TestReadsPastEighthBitReturnOne(t *testing.T) {
	c := NewController()
	c.Write(0x01)
	c.Write(0x00)
	for i := 0; i < 8; i++ {
		c.Read()
	}
	if got := c.Read(); got != 1 {
		t.Errorf("expected 1 past the 8th bit, got %d", got)
	}
}

type fakePoller struct{ pressed map[Button]bool }

func (f *fakePoller) IsPressed(b Button) bool { return f.pressed[b] }

func TestPollerTakesPrecedenceAtStrobeTime(t *testing.T) {
	c := NewController()
	c.SetButton(ButtonA, true) // would be true via SetButton alone
	c.SetPoller(&fakePoller{pressed: map[Button]bool{ButtonB: true}})

	c.Write(0x01)
	c.Write(0x00)

	if got := c.Read(); got != 0 {
		t.Errorf("expected poller state (A unpressed) to win, got %d", got)
	}
}
