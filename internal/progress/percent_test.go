package progress

import "testing"

func TestPercent(t *testing.T) {
	tests := []struct {
		completed, total int
		want             int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 4, 0},
		{1, 4, 25},
		{2, 4, 50},
		{4, 4, 100},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},  // 12.5 rounds up
		{1, 200, 1}, // 0.5 rounds up
		{1, 201, 0},
		{5, 4, 100},
		{-1, 4, 0},
	}

	for _, tt := range tests {
		if got := Percent(tt.completed, tt.total); got != tt.want {
			t.Errorf("Percent(%d, %d) = %d, want %d", tt.completed, tt.total, got, tt.want)
		}
	}
}

func TestPercent_AlwaysInRange(t *testing.T) {
	for total := 0; total <= 50; total++ {
		for completed := 0; completed <= total; completed++ {
			p := Percent(completed, total)
			if p < 0 || p > 100 {
				t.Fatalf("Percent(%d, %d) = %d, out of range", completed, total, p)
			}
		}
	}
}
