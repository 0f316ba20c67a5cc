package group

import "testing"

func TestLookupKnownBitlengths(t *testing.T) {
	for _, bits := range Bitlengths() {
		g, err := Lookup(bits)
		if err != nil {
			t.Fatalf("Lookup(%d): %v", bits, err)
		}
		if got := len(g.N.Bin()) * 8; got != bits {
			t.Errorf("Lookup(%d).N has %d bits, want %d", bits, got, bits)
		}
		if g.G.Int().Sign() <= 0 {
			t.Errorf("Lookup(%d).G is not positive", bits)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup(512); err == nil {
		t.Error("Lookup(512) succeeded, want ErrUnknownGroup")
	}
}

func TestDefault(t *testing.T) {
	if Default().Bits != DefaultBits {
		t.Errorf("Default().Bits = %d, want %d", Default().Bits, DefaultBits)
	}
}

func TestSameInstance(t *testing.T) {
	a, _ := Lookup(2048)
	b, _ := Lookup(2048)
	if a != b {
		t.Error("Lookup(2048) returned distinct instances, want the same process-constant Group")
	}
}
