package router

import (
	"bytes"
	"testing"
)

func TestDeriveSeedDeterministic(t *testing.T) {
	a := deriveSeed("shared entropy")
	b := deriveSeed("shared entropy")
	if len(a) != 32 {
		t.Fatalf("expected 32-byte seed, got %d", len(a))
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("same entropy must derive the same seed")
	}
	if bytes.Equal(a, deriveSeed("different entropy")) {
		t.Fatalf("different entropy must derive different seeds")
	}
}

func TestRandomBytesDeterministicGivenFixedInputs(t *testing.T) {
	seed := deriveSeed("entropy")
	caller := make([]byte, 20)
	caller[0] = 0xaa

	first := randomBytes(seed, 12, 1700000000, caller)
	second := randomBytes(seed, 12, 1700000000, caller)
	if len(first) != randomAliasLength {
		t.Fatalf("expected %d bytes, got %d", randomAliasLength, len(first))
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("identical inputs must yield identical output")
	}
}

func TestRandomBytesChangesWithAnyInput(t *testing.T) {
	seed := deriveSeed("entropy")
	caller := make([]byte, 20)
	base := randomBytes(seed, 12, 1700000000, caller)

	if bytes.Equal(base, randomBytes(seed, 13, 1700000000, caller)) {
		t.Fatalf("height change must alter the output")
	}
	if bytes.Equal(base, randomBytes(seed, 12, 1700000001, caller)) {
		t.Fatalf("time change must alter the output")
	}
	otherCaller := make([]byte, 20)
	otherCaller[19] = 1
	if bytes.Equal(base, randomBytes(seed, 12, 1700000000, otherCaller)) {
		t.Fatalf("caller change must alter the output")
	}
	if bytes.Equal(base, randomBytes(deriveSeed("other"), 12, 1700000000, caller)) {
		t.Fatalf("seed change must alter the output")
	}
}
