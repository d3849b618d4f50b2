package core

import "testing"

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}
}

func TestCentered(t *testing.T) {
	tests := []struct {
		name         string
		areaW, areaH int
		w, h         int
		expected     Rect
	}{
		{"fits", 80, 24, 20, 4, NewRect(30, 10, 20, 4)},
		{"odd remainder", 11, 5, 4, 2, NewRect(3, 1, 4, 2)},
		{"too large", 10, 3, 14, 4, NewRect(0, 0, 14, 4)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Centered(tc.areaW, tc.areaH, tc.w, tc.h); got != tc.expected {
				t.Errorf("Centered() = %+v, expected %+v", got, tc.expected)
			}
		})
	}
}

func TestRectInset(t *testing.T) {
	tests := []struct {
		r        Rect
		n        int
		expected Rect
	}{
		{NewRect(0, 0, 12, 22), 1, NewRect(1, 1, 10, 20)},
		{NewRect(4, 2, 3, 3), 2, NewRect(6, 4, 0, 0)},
	}

	for _, tc := range tests {
		if got := tc.r.Inset(tc.n); got != tc.expected {
			t.Errorf("%+v.Inset(%d) = %+v, expected %+v", tc.r, tc.n, got, tc.expected)
		}
	}
}

func TestRectSplitRight(t *testing.T) {
	left, right := NewRect(10, 2, 35, 22).SplitRight(12, 1)
	if left != NewRect(10, 2, 22, 22) {
		t.Errorf("left = %+v", left)
	}
	if right != NewRect(33, 2, 12, 22) {
		t.Errorf("right = %+v", right)
	}

	left, right = NewRect(0, 0, 5, 1).SplitRight(8, 1)
	if left.W != 0 || right != NewRect(0, 0, 5, 1) {
		t.Errorf("oversized split = %+v, %+v", left, right)
	}
}
