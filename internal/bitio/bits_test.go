package bitio

import "testing"

func TestGetSetBitRoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	for i := 0; i < 32; i++ {
		if i%3 == 0 {
			SetBit(buf, i, 1)
		}
	}
	for i := 0; i < 32; i++ {
		want := byte(0)
		if i%3 == 0 {
			want = 1
		}
		if got := GetBit(buf, i); got != want {
			t.Fatalf("bit %d: got %d, want %d", i, got, want)
		}
	}
}

func TestNumBytes(t *testing.T) {
	cases := map[int]int{0: 0, 1: 1, 7: 1, 8: 1, 9: 2, 127: 16, 128: 16}
	for bits, want := range cases {
		if got := NumBytes(bits); got != want {
			t.Errorf("NumBytes(%d) = %d, want %d", bits, got, want)
		}
	}
}

func TestPaddingIsZero(t *testing.T) {
	buf := []byte{0xFF, 0x0F} // low nibble of byte 1 set, high nibble clear
	if !PaddingIsZero(buf, 2, 12) {
		t.Error("expected padding bits [12,16) to read as zero")
	}
	buf[1] = 0x1F
	if PaddingIsZero(buf, 2, 12) {
		t.Error("expected a set padding bit to be detected")
	}
}

func TestPaddingIsZeroWholeByteUsed(t *testing.T) {
	buf := []byte{0xFF}
	if !PaddingIsZero(buf, 1, 8) {
		t.Error("bitLength == byteLength*8 has no padding, should always pass")
	}
}
