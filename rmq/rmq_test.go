package rmq

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/wyfcoding/rangekit/xerrors"
)

func TestSparseTableMin(t *testing.T) {
	values := []int64{5, 2, 8, 1, 9, 3, 7, 4, 6}
	table, err := NewSparseTable(values, func(a, b int64) int64 { return min(a, b) })
	if err != nil {
		t.Fatalf("NewSparseTable: %v", err)
	}

	cases := []struct {
		l, r int
		want int64
	}{
		{0, 9, 1},
		{0, 3, 2},
		{4, 9, 3},
		{4, 5, 9},
		{2, 4, 1},
	}
	for _, c := range cases {
		got, err := table.Query(c.l, c.r)
		if err != nil {
			t.Fatalf("Query(%d, %d): %v", c.l, c.r, err)
		}
		if got != c.want {
			t.Errorf("Query(%d, %d) = %d, want %d", c.l, c.r, got, c.want)
		}
	}
}

func TestSparseTableCrossCheck(t *testing.T) {
	rng := rand.New(rand.NewSource(71))

	for _, n := range []int{1, 2, 3, 17, 64, 100} {
		values := make([]int64, n)
		for i := range values {
			values[i] = rng.Int63n(1000)
		}
		table, err := NewSparseTable(values, func(a, b int64) int64 { return max(a, b) })
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}

		for l := 0; l < n; l++ {
			for r := l + 1; r <= n; r++ {
				want := values[l]
				for i := l + 1; i < r; i++ {
					want = max(want, values[i])
				}
				got, err := table.Query(l, r)
				if err != nil {
					t.Fatalf("Query(%d, %d): %v", l, r, err)
				}
				if got != want {
					t.Fatalf("n=%d: Query(%d, %d) = %d, want %d", n, l, r, got, want)
				}
			}
		}
	}
}

// Sums exercise the non-idempotent path that SparseTable cannot serve.
func TestDisjointTableSumCrossCheck(t *testing.T) {
	rng := rand.New(rand.NewSource(72))

	for _, n := range []int{1, 2, 3, 17, 64, 100} {
		values := make([]int64, n)
		for i := range values {
			values[i] = rng.Int63n(1000) - 500
		}
		table, err := NewDisjointTable(values, func(a, b int64) int64 { return a + b })
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}

		for l := 0; l < n; l++ {
			for r := l + 1; r <= n; r++ {
				var want int64
				for i := l; i < r; i++ {
					want += values[i]
				}
				got, err := table.Query(l, r)
				if err != nil {
					t.Fatalf("Query(%d, %d): %v", l, r, err)
				}
				if got != want {
					t.Fatalf("n=%d: Query(%d, %d) = %d, want %d", n, l, r, got, want)
				}
			}
		}
	}
}

func TestRangeErrors(t *testing.T) {
	if _, err := NewSparseTable(nil, func(a, b int64) int64 { return a }); !errors.Is(err, xerrors.ErrEmptyData) {
		t.Errorf("NewSparseTable(nil) error = %v, want ErrEmptyData", err)
	}
	if _, err := NewDisjointTable[int64](nil, func(a, b int64) int64 { return a }); !errors.Is(err, xerrors.ErrEmptyData) {
		t.Errorf("NewDisjointTable(nil) error = %v, want ErrEmptyData", err)
	}

	values := []int64{1, 2, 3}
	sparse, _ := NewSparseTable(values, func(a, b int64) int64 { return min(a, b) })
	disjoint, _ := NewDisjointTable(values, func(a, b int64) int64 { return a + b })

	for name, query := range map[string]func(int, int) error{
		"sparse": func(l, r int) error {
			_, err := sparse.Query(l, r)
			return err
		},
		"disjoint": func(l, r int) error {
			_, err := disjoint.Query(l, r)
			return err
		},
	} {
		if err := query(2, 1); !errors.Is(err, xerrors.ErrRangeInverted) {
			t.Errorf("%s: Query(2, 1) error = %v, want ErrRangeInverted", name, err)
		}
		if err := query(1, 1); !errors.Is(err, xerrors.ErrEmptyRange) {
			t.Errorf("%s: Query(1, 1) error = %v, want ErrEmptyRange", name, err)
		}
		if err := query(0, 4); !errors.Is(err, xerrors.ErrRangeOutOfBounds) {
			t.Errorf("%s: Query(0, 4) error = %v, want ErrRangeOutOfBounds", name, err)
		}
	}
}
