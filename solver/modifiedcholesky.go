package solver

import (
	"math"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/matrix"
	"github.com/katalvlaran/denseq/numkit"
	"github.com/katalvlaran/denseq/vector"
)

// bunchKaufmanAlpha is the Bunch-Kaufman pivoting threshold (1+sqrt(17))/8,
// balancing element growth against the cost of forming 2x2 pivots.
const bunchKaufmanAlpha = (1 + 4.1231056256176606) / 8

// ModifiedCholesky is the factorization A = L B L^T of a symmetric
// (possibly indefinite) matrix, where L is unit lower-triangular and B is
// a Block2OrderSymmetricDiagonalMatrix of 1x1 and 2x2 pivots selected by a
// Bunch-Kaufman-style diagonal search restricted to adjacent index pairs.
type ModifiedCholesky struct {
	n   int
	l   *matrix.LowerUnitriangularDense
	b   *matrix.Block2OrderSymmetricDiagonalMatrix
	det numkit.Determinant
	inv *numkit.Once[matrix.Matrix]
}

// AsymmSqrt returns L such that A = L B L^T.
func (f *ModifiedCholesky) AsymmSqrt() matrix.Matrix { return f.l }

// BlockDiagonal returns B such that A = L B L^T.
func (f *ModifiedCholesky) BlockDiagonal() *matrix.Block2OrderSymmetricDiagonalMatrix { return f.b }

// Determinant returns sign*exp(logAbsDeterminant()).
func (f *ModifiedCholesky) Determinant() float64 { return f.det.Det() }

// LogAbsDeterminant returns log|det|.
func (f *ModifiedCholesky) LogAbsDeterminant() float64 { return f.det.LogAbsDet() }

// SignOfDeterminant returns -1, 0, or 1.
func (f *ModifiedCholesky) SignOfDeterminant() int { return f.det.Sign() }

// Inverse returns the lazily-cached inverse operator, marked Symmetric.
func (f *ModifiedCholesky) Inverse() matrix.Matrix { return f.inv.Get() }

type modifiedCholeskyInverse struct {
	// Embedded, and left nil, only to carry matrix.Symmetric's unexported
	// marker method; every Matrix method is defined on modifiedCholeskyInverse.
	matrix.Symmetric
	f *ModifiedCholesky
}

func (iv *modifiedCholeskyInverse) Dim() dimension.MatrixDim {
	d, _ := dimension.NewMatrixDim(iv.f.n, iv.f.n)
	return d
}

func (iv *modifiedCholeskyInverse) Operate(b *vector.Vector) (*vector.Vector, error) {
	f := iv.f
	y, err := f.l.ForwardSubstitute(b)
	if err != nil {
		return nil, err
	}
	binv, ok := f.b.Inverse().(*matrix.Block2OrderSymmetricDiagonalMatrix)
	if !ok {
		return nil, denseerr.ErrIllegalState
	}
	z, err := binv.Operate(y)
	if err != nil {
		return nil, err
	}
	return f.l.BackSubstituteTranspose(z)
}

func (iv *modifiedCholeskyInverse) OperateTranspose(b *vector.Vector) (*vector.Vector, error) {
	return iv.Operate(b)
}

func (iv *modifiedCholeskyInverse) Transpose() matrix.Matrix { return iv }

var (
	_ matrix.Matrix    = (*modifiedCholeskyInverse)(nil)
	_ matrix.Symmetric = (*modifiedCholeskyInverse)(nil)
)

// ModifiedCholeskyExecutor is the singleton entry point for modified
// Cholesky factorization.
type ModifiedCholeskyExecutor struct{}

// NewModifiedCholeskyExecutor returns the modified Cholesky executor.
func NewModifiedCholeskyExecutor() ModifiedCholeskyExecutor { return ModifiedCholeskyExecutor{} }

// Accepts reports whether a can be factored: must carry Symmetric, be
// square, and fit dense storage capacity.
func (ModifiedCholeskyExecutor) Accepts(a matrix.Symmetric) dimension.Acceptance {
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
func (e ModifiedCholeskyExecutor) ApplyDefault(a interface {
	matrix.Symmetric
	matrix.EntryReadable
}) (*ModifiedCholesky, error) {
	return e.Apply(a, DefaultEpsilon)
}

// Apply factors a, returning nil (no error) if a pivot candidate is
// numerically singular at tolerance epsilon.
func (e ModifiedCholeskyExecutor) Apply(a interface {
	matrix.Symmetric
	matrix.EntryReadable
}, epsilon float64) (*ModifiedCholesky, error) {
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
		for j := 0; j < n; j++ {
			v, err := a.ValueAt(i, j)
			if err != nil {
				return nil, err
			}
			rows[i][j] = v
		}
	}
	threshold := epsilon*a.EntryNormMax() + StabilityAnchor

	lBuilder, err := matrix.NewLowerUnitriangularBuilder(n)
	if err != nil {
		return nil, err
	}
	bBuilder, err := matrix.NewBlock2OrderSymmetricDiagonalMatrixBuilder(n)
	if err != nil {
		return nil, err
	}

	k := 0
	for k < n {
		if k == n-1 {
			pivot := rows[k][k]
			if math.Abs(pivot) < threshold {
				return nil, nil
			}
			if err := bBuilder.AddBlock1(pivot); err != nil {
				return nil, err
			}
			k++
			continue
		}

		lambda := 0.0
		for i := k + 1; i < n; i++ {
			if v := math.Abs(rows[i][k]); v > lambda {
				lambda = v
			}
		}
		use1x1 := math.Abs(rows[k][k]) >= bunchKaufmanAlpha*lambda || lambda == 0

		if use1x1 {
			pivot := rows[k][k]
			if math.Abs(pivot) < threshold {
				return nil, nil
			}
			lCol := make([]float64, n)
			for i := k + 1; i < n; i++ {
				lCol[i] = rows[i][k] / pivot
				if lCol[i] != 0 {
					if err := lBuilder.SetValue(i, k, lCol[i]); err != nil {
						return nil, err
					}
				}
			}
			for i := k + 1; i < n; i++ {
				for j := k + 1; j <= i; j++ {
					rows[i][j] -= lCol[i] * pivot * lCol[j]
					if i != j {
						rows[j][i] = rows[i][j]
					}
				}
			}
			if err := bBuilder.AddBlock1(pivot); err != nil {
				return nil, err
			}
			k++
			continue
		}

		d00, d01, d11 := rows[k][k], rows[k][k+1], rows[k+1][k+1]
		d := d00*d11 - d01*d01
		if math.Abs(d) < threshold {
			return nil, nil
		}
		lBlockK := make([]float64, n)
		lBlockK1 := make([]float64, n)
		for i := k + 2; i < n; i++ {
			rik, rik1 := rows[i][k], rows[i][k+1]
			lBlockK[i] = (rik*d11 - rik1*d01) / d
			lBlockK1[i] = (rik1*d00 - rik*d01) / d
		}
		for i := k + 2; i < n; i++ {
			lik, lik1 := lBlockK[i], lBlockK1[i]
			if lik != 0 {
				if err := lBuilder.SetValue(i, k, lik); err != nil {
					return nil, err
				}
			}
			if lik1 != 0 {
				if err := lBuilder.SetValue(i, k+1, lik1); err != nil {
					return nil, err
				}
			}
			for j := k + 2; j <= i; j++ {
				ljk, ljk1 := lBlockK[j], lBlockK1[j]
				contribution := lik*d00*ljk + lik*d01*ljk1 + lik1*d01*ljk + lik1*d11*ljk1
				rows[i][j] -= contribution
				if i != j {
					rows[j][i] = rows[i][j]
				}
			}
		}
		if err := bBuilder.AddBlock2(d00, d01, d11); err != nil {
			return nil, err
		}
		k += 2
	}

	l, err := lBuilder.Build()
	if err != nil {
		return nil, err
	}
	b, err := bBuilder.Build()
	if err != nil {
		return nil, err
	}

	// L is unit lower-triangular, so det(A) = det(B) exactly.
	det := numkit.NewDeterminant(b.SignOfDeterminant(), b.LogAbsDeterminant())

	f := &ModifiedCholesky{n: n, l: l, b: b, det: det}
	f.inv = numkit.NewOnce(func() matrix.Matrix { return &modifiedCholeskyInverse{f: f} })
	return f, nil
}
