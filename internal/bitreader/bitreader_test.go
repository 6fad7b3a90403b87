package bitreader

import "testing"

func TestReadLSBFirst(t *testing.T) {
	// 0b10110010, 0b00000001 -> first 3 bits (LSB first) are 0,1,0
	r := New([]byte{0b10110010, 0b00000001})

	got, err := r.Read(3)
	if err != nil {
		t.Fatalf("Read(3): %v", err)
	}
	if want := uint32(0b010); got != want {
		t.Errorf("Read(3) = %#b, want %#b", got, want)
	}

	got, err = r.Read(5)
	if err != nil {
		t.Fatalf("Read(5): %v", err)
	}
	if want := uint32(0b10110); got != want {
		t.Errorf("Read(5) = %#b, want %#b", got, want)
	}

	got, err = r.Read(8)
	if err != nil {
		t.Fatalf("Read(8): %v", err)
	}
	if want := uint32(1); got != want {
		t.Errorf("Read(8) = %d, want %d", got, want)
	}
}

func TestReadZeroBits(t *testing.T) {
	r := New([]byte{0xFF})
	got, err := r.Read(0)
	if err != nil || got != 0 {
		t.Errorf("Read(0) = %d, %v, want 0, nil", got, err)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	r := New([]byte{0b00001111})
	a, err := r.Peek(4)
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Peek(4)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("Peek not idempotent: %d != %d", a, b)
	}
}

func TestTruncated(t *testing.T) {
	r := New([]byte{0x01})
	if _, err := r.Read(16); err != ErrTruncated {
		t.Errorf("Read past end: got %v, want ErrTruncated", err)
	}
}

func TestAlignByteDiscardsPartialByte(t *testing.T) {
	r := New([]byte{0b10100101, 0xAB, 0xCD})
	if _, err := r.Read(3); err != nil {
		t.Fatal(err)
	}
	r.AlignByte()
	if r.Count() != 0 {
		t.Fatalf("Count() after AlignByte = %d, want 0", r.Count())
	}
	b, err := r.ReadByte()
	if err != nil {
		t.Fatal(err)
	}
	if b != 0xAB {
		t.Errorf("ReadByte after align = %#x, want 0xAB", b)
	}
}
