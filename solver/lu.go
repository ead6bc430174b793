package solver

import (
	"math"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/matrix"
	"github.com/katalvlaran/denseq/numkit"
	"github.com/katalvlaran/denseq/vector"
)

// LUPivoting is the factorization A = P^T L D R produced by Doolittle
// elimination with partial pivoting, where L is lower unitriangular, D is
// the diagonal of pivots, and R is upper unitriangular (stored as the
// transpose of a LowerUnitriangularDense so L and R share one packed
// representation style).
type LUPivoting struct {
	n    int
	perm *matrix.PermutationMatrix
	l    *matrix.LowerUnitriangularDense
	rT   *matrix.LowerUnitriangularDense // rT.Transpose() == R
	diag []float64
	det  numkit.Determinant
	inv  *numkit.Once[matrix.Matrix]
}

// Determinant returns sign*exp(logAbsDeterminant()).
func (f *LUPivoting) Determinant() float64 { return f.det.Det() }

// LogAbsDeterminant returns log|det|.
func (f *LUPivoting) LogAbsDeterminant() float64 { return f.det.LogAbsDet() }

// SignOfDeterminant returns -1, 0, or 1.
func (f *LUPivoting) SignOfDeterminant() int { return f.det.Sign() }

// Inverse returns the lazily-cached inverse operator.
func (f *LUPivoting) Inverse() matrix.Matrix { return f.inv.Get() }

type luInverse struct {
	f *LUPivoting
}

func (iv *luInverse) dim() dimension.MatrixDim {
	d, _ := dimension.NewMatrixDim(iv.f.n, iv.f.n)
	return d
}
func (iv *luInverse) Dim() dimension.MatrixDim { return iv.dim() }

func (iv *luInverse) Operate(b *vector.Vector) (*vector.Vector, error) {
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

func (iv *luInverse) OperateTranspose(b *vector.Vector) (*vector.Vector, error) {
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

func (iv *luInverse) Transpose() matrix.Matrix { return matrix.CreateTransposedOf(iv) }

var _ matrix.Matrix = (*luInverse)(nil)

// LUPivotingExecutor is the singleton entry point for LU factorization. It
// carries no state and can be constructed freely.
type LUPivotingExecutor struct{}

// NewLUPivotingExecutor returns the LU-with-partial-pivoting executor.
func NewLUPivotingExecutor() LUPivotingExecutor { return LUPivotingExecutor{} }

// Accepts reports whether a can be factored: must be square and within
// dense storage capacity.
func (LUPivotingExecutor) Accepts(a matrix.EntryReadable) dimension.Acceptance {
	dim := a.Dim()
	if acc := acceptSquare(dim); !acc.IsAccepted() {
		return acc
	}
	if !dim.AcceptedForDenseMatrix() {
		return dimension.Rejected(denseerr.ErrElementsTooMany)
	}
	return dimension.Accepted()
}

// ApplyDefault factors a with DefaultEpsilon.
func (e LUPivotingExecutor) ApplyDefault(a matrix.EntryReadable) (*LUPivoting, error) {
	return e.Apply(a, DefaultEpsilon)
}

// Apply factors a, returning nil (no error) if a is numerically
// rank-deficient at tolerance epsilon. A validation error is returned if
// a is rejected by Accepts or epsilon is invalid.
func (e LUPivotingExecutor) Apply(a matrix.EntryReadable, epsilon float64) (*LUPivoting, error) {
	if err := checkEpsilon(epsilon); err != nil {
		return nil, err
	}
	acc := e.Accepts(a)
	if !acc.IsAccepted() {
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
		for i := k + 1; i < n; i++ {
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
		for i := k + 1; i < n; i++ {
			factor := rows[i][k] / rows[k][k]
			lStrict[[2]int{i, k}] = factor
			for j := k; j < n; j++ {
				rows[i][j] -= factor * rows[k][j]
			}
		}
	}

	lBuilder, err := matrix.NewLowerUnitriangularBuilder(n)
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
		for j := i + 1; j < n; j++ {
			rVal := rows[i][j] / diag[i]
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

	acc2 := numkit.NewDeterminantAccumulator()
	acc2.MultiplyParity(permMatrix.InversionParity())
	for _, d := range diag {
		acc2.MultiplyScalar(d)
	}

	f := &LUPivoting{n: n, perm: permMatrix, l: l, rT: rT, diag: diag, det: acc2.Determinant()}
	f.inv = numkit.NewOnce(func() matrix.Matrix { return &luInverse{f: f} })
	return f, nil
}

func infNorm(rows [][]float64) float64 {
	var max float64
	for _, row := range rows {
		var s float64
		for _, x := range row {
			s += math.Abs(x)
		}
		if s > max {
			max = s
		}
	}
	return max
}
