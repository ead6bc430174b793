package solver_test

import (
	"testing"

	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/matrix"
	"github.com/katalvlaran/denseq/vector"
)

// denseOf builds a GeneralMatrix from a row-major literal.
func denseOf(t *testing.T, rows, cols int, xs []float64) *matrix.GeneralMatrix {
	t.Helper()
	dim, err := dimension.NewMatrixDim(rows, cols)
	if err != nil {
		t.Fatalf("NewMatrixDim: %v", err)
	}
	b, err := matrix.NewDenseBuilder(dim)
	if err != nil {
		t.Fatalf("NewDenseBuilder: %v", err)
	}
	if err := b.SetRowMajor(xs); err != nil {
		t.Fatalf("SetRowMajor: %v", err)
	}
	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

// symOf builds a SymmetricMatrix from its full row-major representation,
// reading only the lower triangle (the caller's upper triangle must mirror
// it, as any real symmetric input does).
func symOf(t *testing.T, n int, xs []float64) *matrix.SymmetricMatrix {
	t.Helper()
	b, err := matrix.NewSymmetricBuilder(n)
	if err != nil {
		t.Fatalf("NewSymmetricBuilder: %v", err)
	}
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			if err := b.SetValue(i, j, xs[i*n+j]); err != nil {
				t.Fatalf("SetValue(%d,%d): %v", i, j, err)
			}
		}
	}
	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

// symBandOf builds a SymmetricBandMatrix of lower/upper bandwidth b from
// its full row-major representation.
func symBandOf(t *testing.T, n, band int, xs []float64) *matrix.SymmetricBandMatrix {
	t.Helper()
	bd, err := dimension.NewBandDim(n, band, band)
	if err != nil {
		t.Fatalf("NewBandDim: %v", err)
	}
	bld, err := matrix.NewSymmetricBandBuilder(bd)
	if err != nil {
		t.Fatalf("NewSymmetricBandBuilder: %v", err)
	}
	for i := 0; i < n; i++ {
		lo := i - band
		if lo < 0 {
			lo = 0
		}
		for j := lo; j <= i; j++ {
			if xs[i*n+j] == 0 {
				continue
			}
			if err := bld.SetValue(i, j, xs[i*n+j]); err != nil {
				t.Fatalf("SetValue(%d,%d): %v", i, j, err)
			}
		}
	}
	m, err := bld.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

// bandOf builds a general GeneralBandMatrix (possibly asymmetric bands)
// from its full row-major representation.
func bandOf(t *testing.T, n, bL, bU int, xs []float64) *matrix.GeneralBandMatrix {
	t.Helper()
	bd, err := dimension.NewBandDim(n, bL, bU)
	if err != nil {
		t.Fatalf("NewBandDim: %v", err)
	}
	bld, err := matrix.NewBandBuilder(bd)
	if err != nil {
		t.Fatalf("NewBandBuilder: %v", err)
	}
	for i := 0; i < n; i++ {
		lo, hi := i-bL, i+bU
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		for j := lo; j <= hi; j++ {
			if xs[i*n+j] == 0 {
				continue
			}
			if err := bld.SetValue(i, j, xs[i*n+j]); err != nil {
				t.Fatalf("SetValue(%d,%d): %v", i, j, err)
			}
		}
	}
	m, err := bld.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

// vecOf builds a dense vector.Vector from a literal.
func vecOf(t *testing.T, xs []float64) *vector.Vector {
	t.Helper()
	vd, err := dimension.NewVectorDim(len(xs))
	if err != nil {
		t.Fatalf("NewVectorDim: %v", err)
	}
	b := vector.ZeroBuilder(vd)
	if err := b.SetEntryValue(xs); err != nil {
		t.Fatalf("SetEntryValue: %v", err)
	}
	v, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return v
}

// operate runs m.Operate(vecOf(xs)) and returns the raw result array.
func operate(t *testing.T, m matrix.Matrix, xs []float64) []float64 {
	t.Helper()
	out, err := m.Operate(vecOf(t, xs))
	if err != nil {
		t.Fatalf("Operate: %v", err)
	}
	return out.EntryAsArray()
}

// almostEqual compares two float slices within an absolute tolerance.
func almostEqual(t *testing.T, got, want []float64, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d want %d", len(got), len(want))
	}
	for i := range got {
		d := got[i] - want[i]
		if d < 0 {
			d = -d
		}
		if d > tol {
			t.Errorf("index %d: got %v want %v (diff %v > tol %v)", i, got[i], want[i], d, tol)
		}
	}
}
