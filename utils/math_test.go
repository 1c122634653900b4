package utils

import "testing"

func TestMath_Min(t *testing.T) {
	if got := Min(3, 7); got != 3 {
		t.Errorf("Min(3, 7) expected to be 3. Got %v", got)
	}
	if got := Min(2.5, -1.5); got != -1.5 {
		t.Errorf("Min(2.5, -1.5) expected to be -1.5. Got %v", got)
	}
}

func TestMath_Max(t *testing.T) {
	if got := Max(3, 7); got != 7 {
		t.Errorf("Max(3, 7) expected to be 7. Got %v", got)
	}
}

func TestMath_Abs(t *testing.T) {
	if got := Abs(-4); got != 4 {
		t.Errorf("Abs(-4) expected to be 4. Got %v", got)
	}
	if got := Abs(4.25); got != 4.25 {
		t.Errorf("Abs(4.25) expected to be 4.25. Got %v", got)
	}
}
