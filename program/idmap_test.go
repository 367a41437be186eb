package program

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFeaturePositionMap(t *testing.T) {
	m := NewFeaturePositionMap()

	if m.Contains("a") {
		t.Fatal("Contains on empty map = true")
	}
	if m.Positions("a") != nil {
		t.Fatal("Positions on empty map != nil")
	}

	m.Add("a", 0, 0, 3)
	m.Add("b", 1, 3, 7)
	m.Add("a", 4, 7, 9)

	if m.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", m.Len())
	}
	if !m.Contains("a") || !m.Contains("b") {
		t.Fatal("Contains lost a recorded id")
	}

	want := []FeatureRange{
		{Index: 0, Start: 0, End: 3},
		{Index: 4, Start: 7, End: 9},
	}
	if diff := cmp.Diff(want, m.Positions("a")); diff != "" {
		t.Errorf("Positions(a) mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]FeatureRange{{Index: 1, Start: 3, End: 7}}, m.Positions("b")); diff != "" {
		t.Errorf("Positions(b) mismatch (-want +got):\n%s", diff)
	}
}
