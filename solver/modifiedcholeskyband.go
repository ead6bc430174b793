package solver

import (
	"math"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/matrix"
	"github.com/katalvlaran/denseq/numkit"
	"github.com/katalvlaran/denseq/vector"
)

// ModifiedCholeskyBand is the banded counterpart of ModifiedCholesky. A
// 2x2 pivot couples the adjacent pair (k, k+1); because column k+1 reaches
// one row further than column k within the band, L's column k can pick up
// fill one row beyond A's original lower bandwidth. L is stored with
// bandwidth bL+1 to accommodate this; a 1x1 pivot alone never widens it.
type ModifiedCholeskyBand struct {
	n   int
	l   *matrix.LowerUnitriangularBand
	b   *matrix.Block2OrderSymmetricDiagonalMatrix
	det numkit.Determinant
	inv *numkit.Once[matrix.Matrix]
}

// AsymmSqrt returns L such that A = L B L^T.
func (f *ModifiedCholeskyBand) AsymmSqrt() matrix.Matrix { return f.l }

// BlockDiagonal returns B such that A = L B L^T.
func (f *ModifiedCholeskyBand) BlockDiagonal() *matrix.Block2OrderSymmetricDiagonalMatrix {
	return f.b
}

// Determinant returns sign*exp(logAbsDeterminant()).
func (f *ModifiedCholeskyBand) Determinant() float64 { return f.det.Det() }

// LogAbsDeterminant returns log|det|.
func (f *ModifiedCholeskyBand) LogAbsDeterminant() float64 { return f.det.LogAbsDet() }

// SignOfDeterminant returns -1, 0, or 1.
func (f *ModifiedCholeskyBand) SignOfDeterminant() int { return f.det.Sign() }

// Inverse returns the lazily-cached inverse operator, marked Symmetric.
func (f *ModifiedCholeskyBand) Inverse() matrix.Matrix { return f.inv.Get() }

type modifiedCholeskyBandInverse struct {
	// Embedded, and left nil, only to carry matrix.Symmetric's unexported
	// marker method; every Matrix method is defined on
	// modifiedCholeskyBandInverse.
	matrix.Symmetric
	f *ModifiedCholeskyBand
}

func (iv *modifiedCholeskyBandInverse) Dim() dimension.MatrixDim {
	d, _ := dimension.NewMatrixDim(iv.f.n, iv.f.n)
	return d
}

func (iv *modifiedCholeskyBandInverse) Operate(b *vector.Vector) (*vector.Vector, error) {
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

func (iv *modifiedCholeskyBandInverse) OperateTranspose(b *vector.Vector) (*vector.Vector, error) {
	return iv.Operate(b)
}

func (iv *modifiedCholeskyBandInverse) Transpose() matrix.Matrix { return iv }

var (
	_ matrix.Matrix    = (*modifiedCholeskyBandInverse)(nil)
	_ matrix.Symmetric = (*modifiedCholeskyBandInverse)(nil)
)

// ModifiedCholeskyBandExecutor is the singleton entry point for banded
// modified Cholesky factorization.
type ModifiedCholeskyBandExecutor struct{}

// NewModifiedCholeskyBandExecutor returns the banded modified Cholesky
// executor.
func NewModifiedCholeskyBandExecutor() ModifiedCholeskyBandExecutor {
	return ModifiedCholeskyBandExecutor{}
}

// Accepts reports whether a can be factored: must be a symmetric band
// matrix, and its band extended by 1 (the fill a single 2x2 pivot can
// introduce in L's column) must still fit band storage capacity.
func (ModifiedCholeskyBandExecutor) Accepts(a interface {
	matrix.Symmetric
	matrix.Band
}) dimension.Acceptance {
	bd := a.BandDim()
	extended, err := dimension.NewBandDim(bd.N(), bd.LowerWidth()+1, bd.UpperWidth()+1)
	if err != nil {
		return dimension.Rejected(denseerr.ErrElementsTooMany)
	}
	if !extended.AcceptedForBandMatrix() {
		return dimension.Rejected(denseerr.ErrElementsTooMany)
	}
	return dimension.Accepted()
}

// ApplyDefault factors a with DefaultEpsilon.
func (e ModifiedCholeskyBandExecutor) ApplyDefault(a interface {
	matrix.Symmetric
	matrix.Band
	matrix.EntryReadable
}) (*ModifiedCholeskyBand, error) {
	return e.Apply(a, DefaultEpsilon)
}

// Apply factors a, returning nil (no error) if a pivot candidate is
// numerically singular at tolerance epsilon.
func (e ModifiedCholeskyBandExecutor) Apply(a interface {
	matrix.Symmetric
	matrix.Band
	matrix.EntryReadable
}, epsilon float64) (*ModifiedCholeskyBand, error) {
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

	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		lo, hi := i-bL, i+bL
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		for j := lo; j <= hi; j++ {
			v, err := a.ValueAt(i, j)
			if err != nil {
				return nil, err
			}
			rows[i][j] = v
		}
	}

	lBandDim, err := dimension.NewBandDim(n, bL+1, 0)
	if err != nil {
		return nil, err
	}
	lBuilder, err := matrix.NewLowerUnitriangularBandBuilder(lBandDim)
	if err != nil {
		return nil, err
	}
	bBuilder, err := matrix.NewBlock2OrderSymmetricDiagonalMatrixBuilder(n)
	if err != nil {
		return nil, err
	}

	k := 0
	for k < n {
		limit := k + bL
		if limit > n-1 {
			limit = n - 1
		}
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
		for i := k + 1; i <= limit; i++ {
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
			for i := k + 1; i <= limit; i++ {
				lCol[i] = rows[i][k] / pivot
				if lCol[i] != 0 {
					if err := lBuilder.SetValue(i, k, lCol[i]); err != nil {
						return nil, err
					}
				}
			}
			for i := k + 1; i <= limit; i++ {
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
		limit2 := k + 1 + bL
		if limit2 > n-1 {
			limit2 = n - 1
		}
		lBlockK := make([]float64, n)
		lBlockK1 := make([]float64, n)
		for i := k + 2; i <= limit2; i++ {
			rik, rik1 := rows[i][k], rows[i][k+1]
			lBlockK[i] = (rik*d11 - rik1*d01) / d
			lBlockK1[i] = (rik1*d00 - rik*d01) / d
		}
		for i := k + 2; i <= limit2; i++ {
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

	det := numkit.NewDeterminant(b.SignOfDeterminant(), b.LogAbsDeterminant())

	f := &ModifiedCholeskyBand{n: n, l: l, b: b, det: det}
	f.inv = numkit.NewOnce(func() matrix.Matrix { return &modifiedCholeskyBandInverse{f: f} })
	return f, nil
}
