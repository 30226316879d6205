package player

import "testing"

func TestClampStick(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 0},
		{15, 0},
		{-15, 0},
		{16, 1},
		{-16, -1},
		{127, 112},
		{-128, -113},
	}
	for _, tt := range tests {
		if got := clampStick(tt.in, StickDeadzone); got != tt.want {
			t.Errorf("clampStick(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
