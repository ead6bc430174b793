package solver

import (
	"math"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/matrix"
	"github.com/katalvlaran/denseq/numkit"
	"github.com/katalvlaran/denseq/vector"
)

// CholeskyBand is the banded counterpart of Cholesky: A = L L^T where L
// inherits A's lower bandwidth exactly (banded Cholesky never fills in,
// unlike banded LU).
type CholeskyBand struct {
	n    int
	lTri *triangularBand
	det  numkit.Determinant
	inv  *numkit.Once[matrix.Matrix]
}

// triangularBand stores a general (non-unit-diagonal) lower-triangular
// band matrix: a diagonal plus a packed strict lower band of width bL.
type triangularBand struct {
	n    int
	bL   int
	diag []float64
	data []float64 // row i holds bL slots for columns i-bL..i-1
}

func newTriangularBand(n, bL int, diag, data []float64) *triangularBand {
	return &triangularBand{n: n, bL: bL, diag: diag, data: data}
}

func (t *triangularBand) strictSlot(i, j int) (int, bool) {
	off := i - j
	if off <= 0 || off > t.bL {
		return 0, false
	}
	return i*t.bL + (off - 1), true
}

func (t *triangularBand) at(i, j int) float64 {
	if i == j {
		return t.diag[i]
	}
	if j > i {
		return 0
	}
	idx, ok := t.strictSlot(i, j)
	if !ok {
		return 0
	}
	return t.data[idx]
}

func (t *triangularBand) Dim() dimension.MatrixDim {
	d, _ := dimension.NewMatrixDim(t.n, t.n)
	return d
}

func (t *triangularBand) Operate(v *vector.Vector) (*vector.Vector, error) {
	x := v.EntryAsArray()
	out := make([]float64, t.n)
	for i := 0; i < t.n; i++ {
		lo := i - t.bL
		if lo < 0 {
			lo = 0
		}
		s := t.diag[i] * x[i]
		for j := lo; j < i; j++ {
			s += t.at(i, j) * x[j]
		}
		out[i] = s
	}
	vd, _ := dimension.NewVectorDim(t.n)
	b := vector.ZeroBuilder(vd)
	if err := b.SetEntryValue(out); err != nil {
		return nil, err
	}
	return b.Build()
}

func (t *triangularBand) OperateTranspose(v *vector.Vector) (*vector.Vector, error) {
	x := v.EntryAsArray()
	out := make([]float64, t.n)
	for i := 0; i < t.n; i++ {
		out[i] += t.diag[i] * x[i]
	}
	for i := 0; i < t.n; i++ {
		lo := i - t.bL
		if lo < 0 {
			lo = 0
		}
		for j := lo; j < i; j++ {
			out[j] += t.at(i, j) * x[i]
		}
	}
	vd, _ := dimension.NewVectorDim(t.n)
	b := vector.ZeroBuilder(vd)
	if err := b.SetEntryValue(out); err != nil {
		return nil, err
	}
	return b.Build()
}

func (t *triangularBand) Transpose() matrix.Matrix { return matrix.CreateTransposedOf(t) }

func (t *triangularBand) forwardSubstitute(rhs []float64) []float64 {
	x := make([]float64, t.n)
	for i := 0; i < t.n; i++ {
		lo := i - t.bL
		if lo < 0 {
			lo = 0
		}
		s := rhs[i]
		for j := lo; j < i; j++ {
			s -= t.at(i, j) * x[j]
		}
		x[i] = s / t.diag[i]
	}
	return x
}

func (t *triangularBand) backSubstituteTranspose(rhs []float64) []float64 {
	x := make([]float64, t.n)
	for i := t.n - 1; i >= 0; i-- {
		s := rhs[i]
		hi := i + t.bL
		if hi > t.n-1 {
			hi = t.n - 1
		}
		for j := i + 1; j <= hi; j++ {
			s -= t.at(j, i) * x[j]
		}
		x[i] = s / t.diag[i]
	}
	return x
}

var _ matrix.Matrix = (*triangularBand)(nil)

// AsymmSqrt returns L such that A = L L^T.
func (f *CholeskyBand) AsymmSqrt() matrix.Matrix { return f.lTri }

// Determinant returns sign*exp(logAbsDeterminant()).
func (f *CholeskyBand) Determinant() float64 { return f.det.Det() }

// LogAbsDeterminant returns log|det|.
func (f *CholeskyBand) LogAbsDeterminant() float64 { return f.det.LogAbsDet() }

// SignOfDeterminant returns 1 for a successfully-factored input.
func (f *CholeskyBand) SignOfDeterminant() int { return f.det.Sign() }

// Inverse returns the lazily-cached inverse operator, marked Symmetric.
func (f *CholeskyBand) Inverse() matrix.Matrix { return f.inv.Get() }

type choleskyBandInverse struct {
	// Embedded, and left nil, only to carry matrix.Symmetric's unexported
	// marker method; every Matrix method is defined on choleskyBandInverse.
	matrix.Symmetric
	f *CholeskyBand
}

func (iv *choleskyBandInverse) Dim() dimension.MatrixDim {
	d, _ := dimension.NewMatrixDim(iv.f.n, iv.f.n)
	return d
}

func (iv *choleskyBandInverse) Operate(b *vector.Vector) (*vector.Vector, error) {
	f := iv.f
	rhs := b.EntryAsArray()
	y := f.lTri.forwardSubstitute(rhs)
	x := f.lTri.backSubstituteTranspose(y)
	vd, _ := dimension.NewVectorDim(f.n)
	bd := vector.ZeroBuilder(vd)
	if err := bd.SetEntryValue(x); err != nil {
		return nil, err
	}
	return bd.Build()
}

func (iv *choleskyBandInverse) OperateTranspose(b *vector.Vector) (*vector.Vector, error) {
	return iv.Operate(b)
}

func (iv *choleskyBandInverse) Transpose() matrix.Matrix { return iv }

var (
	_ matrix.Matrix    = (*choleskyBandInverse)(nil)
	_ matrix.Symmetric = (*choleskyBandInverse)(nil)
)

// CholeskyBandExecutor is the singleton entry point for banded Cholesky
// factorization.
type CholeskyBandExecutor struct{}

// NewCholeskyBandExecutor returns the banded Cholesky executor.
func NewCholeskyBandExecutor() CholeskyBandExecutor { return CholeskyBandExecutor{} }

// Accepts reports whether a can be factored: must be a symmetric band
// matrix within band storage capacity.
func (CholeskyBandExecutor) Accepts(a interface {
	matrix.Symmetric
	matrix.Band
}) dimension.Acceptance {
	if !a.BandDim().AcceptedForBandMatrix() {
		return dimension.Rejected(denseerr.ErrElementsTooMany)
	}
	return dimension.Accepted()
}

// ApplyDefault factors a with DefaultEpsilon.
func (e CholeskyBandExecutor) ApplyDefault(a interface {
	matrix.Symmetric
	matrix.Band
	matrix.EntryReadable
}) (*CholeskyBand, error) {
	return e.Apply(a, DefaultEpsilon)
}

// Apply factors a, returning nil (no error) if a is not positive-definite
// at tolerance epsilon.
func (e CholeskyBandExecutor) Apply(a interface {
	matrix.Symmetric
	matrix.Band
	matrix.EntryReadable
}, epsilon float64) (*CholeskyBand, error) {
	if err := checkEpsilon(epsilon); err != nil {
		return nil, err
	}
	if acc := e.Accepts(a); !acc.IsAccepted() {
		return nil, acc.Reason()
	}
	bd := a.BandDim()
	n := bd.N()
	bL := bd.LowerWidth()
	threshold := epsilon*a.EntryNormMax() + StabilityAnchor

	diag := make([]float64, n)
	data := make([]float64, n*bL)
	l := newTriangularBand(n, bL, diag, data)

	for j := 0; j < n; j++ {
		ajj, err := a.ValueAt(j, j)
		if err != nil {
			return nil, err
		}
		s := ajj
		lo := j - bL
		if lo < 0 {
			lo = 0
		}
		for k := lo; k < j; k++ {
			lk := l.at(j, k)
			s -= lk * lk
		}
		if s < threshold {
			return nil, nil
		}
		ljj := math.Sqrt(s)
		diag[j] = ljj
		hi := j + bL
		if hi > n-1 {
			hi = n - 1
		}
		for i := j + 1; i <= hi; i++ {
			aij, err := a.ValueAt(i, j)
			if err != nil {
				return nil, err
			}
			s := aij
			loK := i - bL
			if loK < lo {
				loK = lo
			}
			for k := loK; k < j; k++ {
				s -= l.at(i, k) * l.at(j, k)
			}
			idx, ok := l.strictSlot(i, j)
			if !ok {
				return nil, denseerr.ErrMatrixFormatMismatch
			}
			data[idx] = s / ljj
		}
	}

	accD := numkit.NewDeterminantAccumulator()
	for _, d := range diag {
		accD.MultiplyScalar(d)
		accD.MultiplyScalar(d)
	}

	f := &CholeskyBand{n: n, lTri: l, det: accD.Determinant()}
	f.inv = numkit.NewOnce(func() matrix.Matrix { return &choleskyBandInverse{f: f} })
	return f, nil
}
