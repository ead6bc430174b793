package solver

import (
	"math"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/matrix"
	"github.com/katalvlaran/denseq/numkit"
	"github.com/katalvlaran/denseq/vector"
)

// Cholesky is the factorization A = L L^T of a symmetric positive-definite
// matrix, computed by column-by-column elimination. The determinant is
// accumulated as 2*sum(log L[k,k]) in log-space, since every diagonal
// entry of L is strictly positive for a genuinely positive-definite input.
type Cholesky struct {
	n    int
	lTri *triangularDense
	det  numkit.Determinant
	inv  *numkit.Once[matrix.Matrix]
}

// triangularDense stores a general (non-unit-diagonal) lower-triangular
// matrix: the diagonal plus the strict lower triangle.
type triangularDense struct {
	n      int
	diag   []float64
	strict []float64
}

// strictIndex is the offset of (i, j), j < i, in a row-packed strict lower
// triangle.
func strictIndex(i, j int) int { return i*(i-1)/2 + j }

func newTriangularDense(n int, diag, strict []float64) *triangularDense {
	return &triangularDense{n: n, diag: diag, strict: strict}
}

func (t *triangularDense) at(i, j int) float64 {
	switch {
	case i == j:
		return t.diag[i]
	case j > i:
		return 0
	default:
		return t.strict[strictIndex(i, j)]
	}
}

func (t *triangularDense) Dim() dimension.MatrixDim {
	d, _ := dimension.NewMatrixDim(t.n, t.n)
	return d
}

func (t *triangularDense) Operate(v *vector.Vector) (*vector.Vector, error) {
	x := v.EntryAsArray()
	out := make([]float64, t.n)
	for i := 0; i < t.n; i++ {
		s := t.diag[i] * x[i]
		for j := 0; j < i; j++ {
			s += t.strict[strictIndex(i, j)] * x[j]
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

func (t *triangularDense) OperateTranspose(v *vector.Vector) (*vector.Vector, error) {
	x := v.EntryAsArray()
	out := make([]float64, t.n)
	for i := 0; i < t.n; i++ {
		out[i] += t.diag[i] * x[i]
	}
	for i := 0; i < t.n; i++ {
		for j := 0; j < i; j++ {
			out[j] += t.strict[strictIndex(i, j)] * x[i]
		}
	}
	vd, _ := dimension.NewVectorDim(t.n)
	b := vector.ZeroBuilder(vd)
	if err := b.SetEntryValue(out); err != nil {
		return nil, err
	}
	return b.Build()
}

func (t *triangularDense) Transpose() matrix.Matrix { return matrix.CreateTransposedOf(t) }

func (t *triangularDense) forwardSubstitute(rhs []float64) []float64 {
	x := make([]float64, t.n)
	for i := 0; i < t.n; i++ {
		s := rhs[i]
		for j := 0; j < i; j++ {
			s -= t.strict[strictIndex(i, j)] * x[j]
		}
		x[i] = s / t.diag[i]
	}
	return x
}

func (t *triangularDense) backSubstituteTranspose(rhs []float64) []float64 {
	x := make([]float64, t.n)
	for i := t.n - 1; i >= 0; i-- {
		s := rhs[i]
		for j := i + 1; j < t.n; j++ {
			s -= t.strict[strictIndex(j, i)] * x[j]
		}
		x[i] = s / t.diag[i]
	}
	return x
}

var _ matrix.Matrix = (*triangularDense)(nil)

// AsymmSqrt returns L such that A = L L^T.
func (f *Cholesky) AsymmSqrt() matrix.Matrix { return f.lTri }

// Determinant returns sign*exp(logAbsDeterminant()); always non-negative.
func (f *Cholesky) Determinant() float64 { return f.det.Det() }

// LogAbsDeterminant returns log|det|.
func (f *Cholesky) LogAbsDeterminant() float64 { return f.det.LogAbsDet() }

// SignOfDeterminant returns 1 for a successfully-factored positive-definite
// input (never -1; 0 would mean Apply returned no factorization at all).
func (f *Cholesky) SignOfDeterminant() int { return f.det.Sign() }

// Inverse returns the lazily-cached inverse operator, marked Symmetric.
func (f *Cholesky) Inverse() matrix.Matrix { return f.inv.Get() }

type choleskyInverse struct {
	// Embedded, and left nil, only to carry matrix.Symmetric's unexported
	// marker method; every Matrix method is defined on choleskyInverse.
	matrix.Symmetric
	f *Cholesky
}

func (iv *choleskyInverse) Dim() dimension.MatrixDim {
	d, _ := dimension.NewMatrixDim(iv.f.n, iv.f.n)
	return d
}

func (iv *choleskyInverse) Operate(b *vector.Vector) (*vector.Vector, error) {
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

func (iv *choleskyInverse) OperateTranspose(b *vector.Vector) (*vector.Vector, error) {
	return iv.Operate(b)
}

func (iv *choleskyInverse) Transpose() matrix.Matrix { return iv }

var (
	_ matrix.Matrix    = (*choleskyInverse)(nil)
	_ matrix.Symmetric = (*choleskyInverse)(nil)
)

// CholeskyExecutor is the singleton entry point for Cholesky factorization.
type CholeskyExecutor struct{}

// NewCholeskyExecutor returns the Cholesky executor.
func NewCholeskyExecutor() CholeskyExecutor { return CholeskyExecutor{} }

// Accepts reports whether a can be factored: must carry Symmetric, be
// square, and fit dense storage capacity.
func (CholeskyExecutor) Accepts(a matrix.Symmetric) dimension.Acceptance {
	ea, ok := a.(matrix.EntryReadable)
	if !ok {
		return dimension.Rejected(denseerr.ErrMatrixNotSymmetric)
	}
	dim := ea.Dim()
	if acc := acceptSquare(dim); !acc.IsAccepted() {
		return acc
	}
	if !dim.AcceptedForDenseMatrix() {
		return dimension.Rejected(denseerr.ErrElementsTooMany)
	}
	return dimension.Accepted()
}

// ApplyDefault factors a with DefaultEpsilon.
func (e CholeskyExecutor) ApplyDefault(a interface {
	matrix.Symmetric
	matrix.EntryReadable
}) (*Cholesky, error) {
	return e.Apply(a, DefaultEpsilon)
}

// Apply factors a, returning nil (no error) if a is not positive-definite
// at tolerance epsilon (i.e. some pivot would be < epsilon*||A||max +
// StabilityAnchor).
func (e CholeskyExecutor) Apply(a interface {
	matrix.Symmetric
	matrix.EntryReadable
}, epsilon float64) (*Cholesky, error) {
	if err := checkEpsilon(epsilon); err != nil {
		return nil, err
	}
	if acc := e.Accepts(a); !acc.IsAccepted() {
		return nil, acc.Reason()
	}
	n := a.Dim().Rows()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := 0; j <= i; j++ {
			v, err := a.ValueAt(i, j)
			if err != nil {
				return nil, err
			}
			rows[i][j] = v
		}
	}
	threshold := epsilon*a.EntryNormMax() + StabilityAnchor

	diag := make([]float64, n)
	strict := make([]float64, n*(n-1)/2)
	for j := 0; j < n; j++ {
		s := rows[j][j]
		for k := 0; k < j; k++ {
			l := strictOrDiag(strict, diag, j, k)
			s -= l * l
		}
		if s < threshold {
			return nil, nil
		}
		ljj := math.Sqrt(s)
		diag[j] = ljj
		for i := j + 1; i < n; i++ {
			s := rows[i][j]
			for k := 0; k < j; k++ {
				s -= strictOrDiag(strict, diag, i, k) * strictOrDiag(strict, diag, j, k)
			}
			strict[strictIndex(i, j)] = s / ljj
		}
	}

	accD := numkit.NewDeterminantAccumulator()
	for _, d := range diag {
		accD.MultiplyScalar(d)
		accD.MultiplyScalar(d)
	}

	lTri := newTriangularDense(n, diag, strict)
	f := &Cholesky{n: n, lTri: lTri, det: accD.Determinant()}
	f.inv = numkit.NewOnce(func() matrix.Matrix { return &choleskyInverse{f: f} })
	return f, nil
}

func strictOrDiag(strict, diag []float64, i, j int) float64 {
	if i == j {
		return diag[i]
	}
	return strict[strictIndex(i, j)]
}
