package solver

import (
	"math"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/matrix"
	"github.com/katalvlaran/denseq/numkit"
	"github.com/katalvlaran/denseq/sparsevec"
	"github.com/katalvlaran/denseq/vector"
)

// HouseholderQRBand is the banded counterpart of HouseholderQR: a square
// band matrix with lower bandwidth bL and upper bandwidth bU factored as
// A = Q R, where each Householder reflector only ever touches the rows
// a single column's band support reaches (k..min(n-1,k+bL)), so Q is a
// product of locally-supported reflectors rather than full-width ones.
// As with LUBand, eliminating within the band can fill R in up to
// bL+bU columns past the diagonal; R is stored densely (via the same
// triangularDense helper HouseholderQR uses) rather than re-banded.
type HouseholderQRBand struct {
	n   int
	q   *matrix.OrthogonalProduct
	rT  *triangularDense
	det numkit.Determinant
	inv *numkit.Once[matrix.Matrix]
}

// Q returns the orthogonal factor.
func (f *HouseholderQRBand) Q() matrix.Matrix { return f.q }

// R applies the upper-triangular factor.
func (f *HouseholderQRBand) R() matrix.Matrix { return rBandOperator{f: f} }

type rBandOperator struct{ f *HouseholderQRBand }

func (r rBandOperator) Dim() dimension.MatrixDim {
	d, _ := dimension.NewMatrixDim(r.f.n, r.f.n)
	return d
}

func (r rBandOperator) Operate(v *vector.Vector) (*vector.Vector, error) {
	x := v.EntryAsArray()
	n := r.f.n
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		s := r.f.rT.diag[i] * x[i]
		for j := i + 1; j < n; j++ {
			s += r.f.rT.at(j, i) * x[j]
		}
		out[i] = s
	}
	vd, _ := dimension.NewVectorDim(n)
	b := vector.ZeroBuilder(vd)
	if err := b.SetEntryValue(out); err != nil {
		return nil, err
	}
	return b.Build()
}

func (r rBandOperator) OperateTranspose(v *vector.Vector) (*vector.Vector, error) {
	x := v.EntryAsArray()
	n := r.f.n
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		s := r.f.rT.diag[i] * x[i]
		for j := 0; j < i; j++ {
			s += r.f.rT.at(i, j) * x[j]
		}
		out[i] = s
	}
	vd, _ := dimension.NewVectorDim(n)
	b := vector.ZeroBuilder(vd)
	if err := b.SetEntryValue(out); err != nil {
		return nil, err
	}
	return b.Build()
}

func (r rBandOperator) Transpose() matrix.Matrix { return matrix.CreateTransposedOf(r) }

var _ matrix.Matrix = rBandOperator{}

// Determinant returns sign*exp(logAbsDeterminant()).
func (f *HouseholderQRBand) Determinant() float64 { return f.det.Det() }

// LogAbsDeterminant returns log|det|.
func (f *HouseholderQRBand) LogAbsDeterminant() float64 { return f.det.LogAbsDet() }

// SignOfDeterminant returns -1, 0, or 1.
func (f *HouseholderQRBand) SignOfDeterminant() int { return f.det.Sign() }

// Inverse returns the lazily-cached inverse operator: A^-1 = R^-1 Q^T.
func (f *HouseholderQRBand) Inverse() matrix.Matrix { return f.inv.Get() }

type qrBandInverse struct{ f *HouseholderQRBand }

func (iv *qrBandInverse) Dim() dimension.MatrixDim {
	d, _ := dimension.NewMatrixDim(iv.f.n, iv.f.n)
	return d
}

func (iv *qrBandInverse) Operate(v *vector.Vector) (*vector.Vector, error) {
	f := iv.f
	w, err := f.q.OperateTranspose(v)
	if err != nil {
		return nil, err
	}
	y := f.rT.backSubstituteTranspose(w.EntryAsArray())
	vd, _ := dimension.NewVectorDim(f.n)
	b := vector.ZeroBuilder(vd)
	if err := b.SetEntryValue(y); err != nil {
		return nil, err
	}
	return b.Build()
}

func (iv *qrBandInverse) OperateTranspose(v *vector.Vector) (*vector.Vector, error) {
	f := iv.f
	x := f.rT.forwardSubstitute(v.EntryAsArray())
	vd, _ := dimension.NewVectorDim(f.n)
	b := vector.ZeroBuilder(vd)
	if err := b.SetEntryValue(x); err != nil {
		return nil, err
	}
	xVec, err := b.Build()
	if err != nil {
		return nil, err
	}
	return f.q.Operate(xVec)
}

func (iv *qrBandInverse) Transpose() matrix.Matrix { return matrix.CreateTransposedOf(iv) }

var _ matrix.Matrix = (*qrBandInverse)(nil)

// HouseholderQRBandExecutor is the singleton entry point for banded
// Householder QR factorization.
type HouseholderQRBandExecutor struct{}

// NewHouseholderQRBandExecutor returns the banded Householder QR executor.
func NewHouseholderQRBandExecutor() HouseholderQRBandExecutor {
	return HouseholderQRBandExecutor{}
}

// Accepts reports whether a can be factored: its extended band (bL,
// bL+bU), the working width elimination fill can reach, must fit band
// storage capacity.
func (HouseholderQRBandExecutor) Accepts(a matrix.Band) dimension.Acceptance {
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
func (e HouseholderQRBandExecutor) ApplyDefault(a interface {
	matrix.Band
	matrix.EntryReadable
}) (*HouseholderQRBand, error) {
	return e.Apply(a, DefaultEpsilon)
}

// Apply factors a, returning nil (no error) if a does not have full
// rank at tolerance epsilon.
func (e HouseholderQRBandExecutor) Apply(a interface {
	matrix.Band
	matrix.EntryReadable
}, epsilon float64) (*HouseholderQRBand, error) {
	if err := checkEpsilon(epsilon); err != nil {
		return nil, err
	}
	if acc := e.Accepts(a); !acc.IsAccepted() {
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
	threshold := epsilon*infNorm(rows) + StabilityAnchor

	diag := make([]float64, n)
	strict := make([]float64, n*(n-1)/2)
	factors := make([]matrix.Orthogonal, 0, n+1)
	signs := make([]int8, n)
	for i := range signs {
		signs[i] = 1
	}

	vd, err := dimension.NewVectorDim(n)
	if err != nil {
		return nil, err
	}

	for k := 0; k < n; k++ {
		limit := k + bL
		if limit > n-1 {
			limit = n - 1
		}
		hi := k + bUExt
		if hi > n-1 {
			hi = n - 1
		}

		sub := make([]float64, limit-k+1)
		for i := k; i <= limit; i++ {
			sub[i-k] = rows[i][k]
		}
		uSub, ok := matrix.ReflectionVectorFromColumn(sub)
		if !ok {
			return nil, nil
		}

		for j := k; j <= hi; j++ {
			var dot float64
			for i := k; i <= limit; i++ {
				dot += uSub[i-k] * rows[i][j]
			}
			for i := k; i <= limit; i++ {
				rows[i][j] -= 2 * dot * uSub[i-k]
			}
		}

		alpha := rows[k][k]
		if math.Abs(alpha) < threshold {
			return nil, nil
		}
		if alpha < 0 {
			signs[k] = -1
			for j := k; j <= hi; j++ {
				rows[k][j] = -rows[k][j]
			}
		}
		diag[k] = rows[k][k]
		for j := k + 1; j <= hi; j++ {
			strict[strictIndex(j, k)] = rows[k][j]
		}

		localVec, err := sparsevec.NewLocalRangeVector(vd, k, uSub)
		if err != nil {
			return nil, err
		}
		h, err := matrix.NewHouseholderFromSparse(localVec)
		if err != nil {
			return nil, err
		}
		factors = append(factors, h)
	}

	needsSign := false
	for _, s := range signs {
		if s < 0 {
			needsSign = true
			break
		}
	}
	if needsSign {
		sb, err := matrix.NewSignatureBuilder(n)
		if err != nil {
			return nil, err
		}
		for i, s := range signs {
			if err := sb.SetSign(i, s > 0); err != nil {
				return nil, err
			}
		}
		sig, err := sb.Build()
		if err != nil {
			return nil, err
		}
		factors = append(factors, sig)
	}

	q, err := matrix.NewOrthogonalProduct(factors)
	if err != nil {
		return nil, err
	}
	rT := newTriangularDense(n, diag, strict)

	// det(A) = det(Q) * det(R), square since band matrices are always
	// square: each reflector contributes -1, the optional trailing
	// signature factor contributes its parity, R's determinant is its
	// diagonal product.
	accD := numkit.NewDeterminantAccumulator()
	for i := 0; i < n; i++ {
		accD.MultiplyParity(-1)
	}
	if needsSign {
		parity := 1
		for _, s := range signs {
			parity *= int(s)
		}
		accD.MultiplyParity(parity)
	}
	for _, d := range diag {
		accD.MultiplyScalar(d)
	}

	f := &HouseholderQRBand{n: n, q: q, rT: rT, det: accD.Determinant()}
	f.inv = numkit.NewOnce(func() matrix.Matrix { return &qrBandInverse{f: f} })
	return f, nil
}
