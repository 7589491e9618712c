package params

import "testing"

func validArgs() (n, t, tau, lowmcN, lowmcR, lowmcM, seedSize, digestSize, viewSize, inputOutputSize int) {
	return 16, 16, 5, 32, 2, 3, 16, 32, 9, 4
}

func TestNewAcceptsValidBundle(t *testing.T) {
	n, tt, tau, lowmcN, lowmcR, lowmcM, seedSize, digestSize, viewSize, ioSize := validArgs()
	if _, err := New(n, tt, tau, lowmcN, lowmcR, lowmcM, seedSize, digestSize, viewSize, ioSize); err != nil {
		t.Fatalf("New with a valid bundle: %v", err)
	}
}

func TestNewRejectsNNotMultipleOfFour(t *testing.T) {
	n, tt, tau, lowmcN, lowmcR, lowmcM, seedSize, digestSize, viewSize, ioSize := validArgs()
	n = 15
	if _, err := New(n, tt, tau, lowmcN, lowmcR, lowmcM, seedSize, digestSize, viewSize, ioSize); err == nil {
		t.Fatal("New accepted N=15, which is not a multiple of 4")
	}
}

func TestNewRejectsTauNotLessThanT(t *testing.T) {
	n, tt, _, lowmcN, lowmcR, lowmcM, seedSize, digestSize, viewSize, ioSize := validArgs()
	if _, err := New(n, tt, tt, lowmcN, lowmcR, lowmcM, seedSize, digestSize, viewSize, ioSize); err == nil {
		t.Fatal("New accepted Tau == T")
	}
	if _, err := New(n, tt, 0, lowmcN, lowmcR, lowmcM, seedSize, digestSize, viewSize, ioSize); err == nil {
		t.Fatal("New accepted Tau == 0")
	}
}

func TestNewRejectsDigestSizeOutOfRange(t *testing.T) {
	n, tt, tau, lowmcN, lowmcR, lowmcM, seedSize, _, viewSize, ioSize := validArgs()
	if _, err := New(n, tt, tau, lowmcN, lowmcR, lowmcM, seedSize, 0, viewSize, ioSize); err == nil {
		t.Fatal("New accepted DigestSize=0")
	}
	if _, err := New(n, tt, tau, lowmcN, lowmcR, lowmcM, seedSize, MaxDigestSize+1, viewSize, ioSize); err == nil {
		t.Fatal("New accepted DigestSize > MaxDigestSize")
	}
}

func TestNewRejectsViewSizeTooSmall(t *testing.T) {
	n, tt, tau, lowmcN, lowmcR, lowmcM, seedSize, digestSize, _, ioSize := validArgs()
	if _, err := New(n, tt, tau, lowmcN, lowmcR, lowmcM, seedSize, digestSize, 0, ioSize); err == nil {
		t.Fatal("New accepted a ViewSize too small to hold 3*R*M aux bits")
	}
}

func TestNewRejectsInputOutputSizeTooSmall(t *testing.T) {
	n, tt, tau, lowmcN, lowmcR, lowmcM, seedSize, digestSize, viewSize, _ := validArgs()
	if _, err := New(n, tt, tau, lowmcN, lowmcR, lowmcM, seedSize, digestSize, viewSize, 1); err == nil {
		t.Fatal("New accepted an InputOutputSize too small to hold LowMCN bits")
	}
}

func TestNewRejectsTooFewRoundsOrParties(t *testing.T) {
	_, _, tau, lowmcN, lowmcR, lowmcM, seedSize, digestSize, viewSize, ioSize := validArgs()
	if _, err := New(16, 8, tau, lowmcN, lowmcR, lowmcM, seedSize, digestSize, viewSize, ioSize); err == nil {
		t.Fatal("New accepted T=8, whose ceil(log2(T)) is below the required 4 bits")
	}
	if _, err := New(8, 16, tau, lowmcN, lowmcR, lowmcM, seedSize, digestSize, viewSize, ioSize); err == nil {
		t.Fatal("New accepted N=8, whose ceil(log2(N)) is below the required 4 bits")
	}
}

func TestBitsPerChunkMatchCeilLog2(t *testing.T) {
	n, tt, tau, lowmcN, lowmcR, lowmcM, seedSize, digestSize, viewSize, ioSize := validArgs()
	b, err := New(n, tt, tau, lowmcN, lowmcR, lowmcM, seedSize, digestSize, viewSize, ioSize)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := b.BitsPerChunkC(); got != 4 {
		t.Errorf("BitsPerChunkC() = %d, want 4 for T=16", got)
	}
	if got := b.BitsPerChunkP(); got != 4 {
		t.Errorf("BitsPerChunkP() = %d, want 4 for N=16", got)
	}
}
