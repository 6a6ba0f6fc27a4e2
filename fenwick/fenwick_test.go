package fenwick

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/wyfcoding/rangekit/xerrors"
)

func TestTreeBasic(t *testing.T) {
	tree, err := From([]int64{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("From: %v", err)
	}

	got, _ := tree.RangeSum(1, 4)
	if got != 9 {
		t.Errorf("RangeSum(1, 4) = %d, want 9", got)
	}

	if err := tree.Add(2, 10); err != nil {
		t.Fatalf("Add: %v", err)
	}
	got, _ = tree.PrefixSum(5)
	if got != 25 {
		t.Errorf("PrefixSum(5) = %d, want 25", got)
	}
	got, _ = tree.PrefixSum(0)
	if got != 0 {
		t.Errorf("PrefixSum(0) = %d, want 0", got)
	}
}

func TestTreeCrossCheck(t *testing.T) {
	const n = 50
	rng := rand.New(rand.NewSource(81))

	ref := make([]int64, n)
	for i := range ref {
		ref[i] = rng.Int63n(100) - 50
	}
	tree, err := From(ref)
	if err != nil {
		t.Fatalf("From: %v", err)
	}
	oracle := ref

	for step := 0; step < 2000; step++ {
		if rng.Intn(2) == 0 {
			pos := rng.Intn(n)
			delta := rng.Int63n(20) - 10
			if err := tree.Add(pos, delta); err != nil {
				t.Fatalf("step %d: Add: %v", step, err)
			}
			oracle[pos] += delta
		} else {
			l := rng.Intn(n + 1)
			r := l + rng.Intn(n+1-l)
			got, err := tree.RangeSum(l, r)
			if err != nil {
				t.Fatalf("step %d: RangeSum: %v", step, err)
			}
			var want int64
			for i := l; i < r; i++ {
				want += oracle[i]
			}
			if got != want {
				t.Fatalf("step %d: RangeSum(%d, %d) = %d, want %d", step, l, r, got, want)
			}
		}
	}
}

func TestTreeFloat(t *testing.T) {
	tree, err := New[float64](4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tree.Add(0, 1.5)
	tree.Add(3, 2.25)
	got, _ := tree.RangeSum(0, 4)
	if got != 3.75 {
		t.Errorf("RangeSum(0, 4) = %v, want 3.75", got)
	}
}

func TestTreeErrors(t *testing.T) {
	if _, err := New[int64](0); !errors.Is(err, xerrors.ErrInvalidSize) {
		t.Errorf("New(0) error = %v, want ErrInvalidSize", err)
	}
	if _, err := From[int64](nil); !errors.Is(err, xerrors.ErrEmptyData) {
		t.Errorf("From(nil) error = %v, want ErrEmptyData", err)
	}

	tree, _ := New[int64](5)
	if err := tree.Add(5, 1); !errors.Is(err, xerrors.ErrIndexOutOfBounds) {
		t.Errorf("Add(5) error = %v, want ErrIndexOutOfBounds", err)
	}
	if _, err := tree.RangeSum(3, 2); !errors.Is(err, xerrors.ErrRangeInverted) {
		t.Errorf("RangeSum(3, 2) error = %v, want ErrRangeInverted", err)
	}
	if _, err := tree.PrefixSum(6); !errors.Is(err, xerrors.ErrRangeOutOfBounds) {
		t.Errorf("PrefixSum(6) error = %v, want ErrRangeOutOfBounds", err)
	}
}
