package solver

import (
	"math"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/matrix"
	"github.com/katalvlaran/denseq/numkit"
	"github.com/katalvlaran/denseq/vector"
)

// LUBand is the banded counterpart of LUPivoting. Pivot-induced fill-in
// can grow the working upper bandwidth by up to the original lower
// bandwidth, so internally the working storage uses an extended upper
// width bU' = bL + bU; candidate pivots for row k are searched only among
// rows k..min(n-1, k+bL), the span partial pivoting can reach without
// violating the band structure.
type LUBand struct {
	n    int
	perm *matrix.PermutationMatrix
	l    *matrix.LowerUnitriangularBand
	rT   *matrix.LowerUnitriangularDense
	diag []float64
	det  numkit.Determinant
	inv  *numkit.Once[matrix.Matrix]
}

// Determinant returns sign*exp(logAbsDeterminant()).
func (f *LUBand) Determinant() float64 { return f.det.Det() }

// LogAbsDeterminant returns log|det|.
func (f *LUBand) LogAbsDeterminant() float64 { return f.det.LogAbsDet() }

// SignOfDeterminant returns -1, 0, or 1.
func (f *LUBand) SignOfDeterminant() int { return f.det.Sign() }

// Inverse returns the lazily-cached inverse operator.
func (f *LUBand) Inverse() matrix.Matrix { return f.inv.Get() }

type luBandInverse struct{ f *LUBand }

func (iv *luBandInverse) Dim() dimension.MatrixDim {
	d, _ := dimension.NewMatrixDim(iv.f.n, iv.f.n)
	return d
}

func (iv *luBandInverse) Operate(b *vector.Vector) (*vector.Vector, error) {
	f := iv.f
	y, err := f.perm.Operate(b)
	if err != nil {
		return nil, err
	}
	z, err := f.l.ForwardSubstitute(y)
	if err != nil {
		return nil, err
	}
	w := z.EntryAsArray()
	for i := range w {
		w[i] /= f.diag[i]
	}
	vd, _ := dimension.NewVectorDim(f.n)
	wb := vector.ZeroBuilder(vd)
	if err := wb.SetEntryValue(w); err != nil {
		return nil, err
	}
	wVec, err := wb.Build()
	if err != nil {
		return nil, err
	}
	return f.rT.BackSubstituteTranspose(wVec)
}

func (iv *luBandInverse) OperateTranspose(b *vector.Vector) (*vector.Vector, error) {
	f := iv.f
	y1, err := f.rT.ForwardSubstitute(b)
	if err != nil {
		return nil, err
	}
	y2 := y1.EntryAsArray()
	for i := range y2 {
		y2[i] /= f.diag[i]
	}
	vd, _ := dimension.NewVectorDim(f.n)
	y2b := vector.ZeroBuilder(vd)
	if err := y2b.SetEntryValue(y2); err != nil {
		return nil, err
	}
	y2Vec, err := y2b.Build()
	if err != nil {
		return nil, err
	}
	y3, err := f.l.BackSubstituteTranspose(y2Vec)
	if err != nil {
		return nil, err
	}
	return f.perm.OperateTranspose(y3)
}

func (iv *luBandInverse) Transpose() matrix.Matrix { return matrix.CreateTransposedOf(iv) }

var _ matrix.Matrix = (*luBandInverse)(nil)

// LUBandExecutor is the singleton entry point for banded LU factorization.
type LUBandExecutor struct{}

// NewLUBandExecutor returns the banded LU executor.
func NewLUBandExecutor() LUBandExecutor { return LUBandExecutor{} }

// Accepts reports whether a can be factored: its extended band (bL +
// (bL+bU) + 1) must fit within band storage capacity.
func (LUBandExecutor) Accepts(a matrix.Band) dimension.Acceptance {
	bd := a.BandDim()
	extended, err := dimension.NewBandDim(bd.N(), bd.LowerWidth(), bd.LowerWidth()+bd.UpperWidth())
	if err != nil {
		return dimension.Rejected(denseerr.ErrElementsTooMany)
	}
	if !extended.AcceptedForBandMatrix() {
		return dimension.Rejected(denseerr.ErrElementsTooMany)
	}
	return dimension.Accepted()
}

// ApplyDefault factors a with DefaultEpsilon.
func (e LUBandExecutor) ApplyDefault(a interface {
	matrix.Band
	matrix.EntryReadable
}) (*LUBand, error) {
	return e.Apply(a, DefaultEpsilon)
}

// Apply factors a, returning nil (no error) if a is numerically
// rank-deficient at tolerance epsilon.
func (e LUBandExecutor) Apply(a interface {
	matrix.Band
	matrix.EntryReadable
}, epsilon float64) (*LUBand, error) {
	if err := checkEpsilon(epsilon); err != nil {
		return nil, err
	}
	acc := e.Accepts(a)
	if !acc.IsAccepted() {
		return nil, acc.Reason()
	}
	bd := a.BandDim()
	n := bd.N()
	bL, bU := bd.LowerWidth(), bd.UpperWidth()
	bUExt := bL + bU

	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		lo, hi := i-bL, i+bUExt
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		for j := lo; j <= hi; j++ {
			if j <= i+bU {
				v, err := a.ValueAt(i, j)
				if err != nil {
					return nil, err
				}
				rows[i][j] = v
			}
		}
	}
	normInf := infNorm(rows)
	threshold := epsilon*normInf + StabilityAnchor

	pi := make([]int, n)
	for i := range pi {
		pi[i] = i
	}
	lStrict := make(map[[2]int]float64)
	diag := make([]float64, n)

	for k := 0; k < n; k++ {
		p := k
		best := math.Abs(rows[k][k])
		limit := k + bL
		if limit > n-1 {
			limit = n - 1
		}
		for i := k + 1; i <= limit; i++ {
			if v := math.Abs(rows[i][k]); v > best {
				best = v
				p = i
			}
		}
		if best < threshold {
			return nil, nil
		}
		if p != k {
			rows[k], rows[p] = rows[p], rows[k]
			pi[k], pi[p] = pi[p], pi[k]
		}
		diag[k] = rows[k][k]
		hi := k + bUExt
		if hi > n-1 {
			hi = n - 1
		}
		for i := k + 1; i <= limit; i++ {
			factor := rows[i][k] / rows[k][k]
			lStrict[[2]int{i, k}] = factor
			for j := k; j <= hi; j++ {
				rows[i][j] -= factor * rows[k][j]
			}
		}
	}

	lBandDim, err := dimension.NewBandDim(n, bL, 0)
	if err != nil {
		return nil, err
	}
	lBuilder, err := matrix.NewLowerUnitriangularBandBuilder(lBandDim)
	if err != nil {
		return nil, err
	}
	for key, v := range lStrict {
		if err := lBuilder.SetValue(key[0], key[1], v); err != nil {
			return nil, err
		}
	}
	l, err := lBuilder.Build()
	if err != nil {
		return nil, err
	}

	rTBuilder, err := matrix.NewLowerUnitriangularBuilder(n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		hi := i + bUExt
		if hi > n-1 {
			hi = n - 1
		}
		for j := i + 1; j <= hi; j++ {
			rVal := rows[i][j] / diag[i]
			if rVal == 0 {
				continue
			}
			if err := rTBuilder.SetValue(j, i, rVal); err != nil {
				return nil, err
			}
		}
	}
	rT, err := rTBuilder.Build()
	if err != nil {
		return nil, err
	}

	permMatrix, err := matrix.NewPermutationMatrix(pi)
	if err != nil {
		return nil, err
	}

	accD := numkit.NewDeterminantAccumulator()
	accD.MultiplyParity(permMatrix.InversionParity())
	for _, d := range diag {
		accD.MultiplyScalar(d)
	}

	f := &LUBand{n: n, perm: permMatrix, l: l, rT: rT, diag: diag, det: accD.Determinant()}
	f.inv = numkit.NewOnce(func() matrix.Matrix { return &luBandInverse{f: f} })
	return f, nil
}
