package repository

import "testing"

func TestClampActivityLimit(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{0, DefaultActivityLimit},
		{-1, DefaultActivityLimit},
		{1, 1},
		{MaxActivityLimit, MaxActivityLimit},
		{MaxActivityLimit + 1, MaxActivityLimit},
		{1 << 30, MaxActivityLimit},
	}
	for _, tc := range cases {
		if got := ClampActivityLimit(tc.in); got != tc.want {
			t.Errorf("ClampActivityLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
