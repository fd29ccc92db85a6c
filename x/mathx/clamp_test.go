package mathx

import "testing"

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want uint32
	}{
		{0, 0, 4095, 0},
		{1305, 0, 4095, 1305},
		{4096, 0, 4095, 4095},
		{70000, 4095, 0, 4095}, // swapped bounds
	}
	for _, tc := range tests {
		if got := Clamp(tc.v, tc.lo, tc.hi); got != tc.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, want %d", tc.v, tc.lo, tc.hi, got, tc.want)
		}
	}
}

func TestMinMax(t *testing.T) {
	if Min(3, 7) != 3 || Max(3, 7) != 7 {
		t.Errorf("Min/Max broken")
	}
	if Min(-1.5, 2.0) != -1.5 {
		t.Errorf("Min float broken")
	}
}
