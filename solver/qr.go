package solver

import (
	"math"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/matrix"
	"github.com/katalvlaran/denseq/numkit"
	"github.com/katalvlaran/denseq/vector"
)

// HouseholderQR is the factorization A = Q R of an r by c matrix with
// r >= c and full column rank: Q is r by r orthogonal (a product of c
// Householder reflectors, padded with a sign-correcting signature factor),
// R is r by c upper triangular with the bottom r-c rows implicitly zero
// and a strictly positive diagonal, stored via its transpose rT (a
// c by c lower triangular matrix) the same way LUPivoting stores R.
type HouseholderQR struct {
	rRows, cCols int
	q            *matrix.OrthogonalProduct
	rT           *triangularDense // rT.at(j,i) == R[i,j] for i<=j<cCols
	det          numkit.Determinant
	inv          *numkit.Once[matrix.Matrix]
}

// Q returns the orthogonal factor.
func (f *HouseholderQR) Q() matrix.Matrix { return f.q }

// R applies the upper-triangular factor as a c-vector -> r-vector map
// (zero-extending the bottom r-c rows).
func (f *HouseholderQR) R() matrix.Matrix { return rOperator{f: f} }

type rOperator struct{ f *HouseholderQR }

func (r rOperator) Dim() dimension.MatrixDim {
	d, _ := dimension.NewMatrixDim(r.f.rRows, r.f.cCols)
	return d
}

func (r rOperator) Operate(v *vector.Vector) (*vector.Vector, error) {
	x := v.EntryAsArray()
	out := make([]float64, r.f.rRows)
	c := r.f.cCols
	for i := 0; i < c; i++ {
		s := r.f.rT.diag[i] * x[i]
		for j := i + 1; j < c; j++ {
			s += r.f.rT.at(j, i) * x[j]
		}
		out[i] = s
	}
	vd, _ := dimension.NewVectorDim(r.f.rRows)
	b := vector.ZeroBuilder(vd)
	if err := b.SetEntryValue(out); err != nil {
		return nil, err
	}
	return b.Build()
}

func (r rOperator) OperateTranspose(v *vector.Vector) (*vector.Vector, error) {
	x := v.EntryAsArray()
	c := r.f.cCols
	out := make([]float64, c)
	for i := 0; i < c; i++ {
		s := r.f.rT.diag[i] * x[i]
		for j := 0; j < i; j++ {
			s += r.f.rT.at(i, j) * x[j]
		}
		out[i] = s
	}
	vd, _ := dimension.NewVectorDim(c)
	b := vector.ZeroBuilder(vd)
	if err := b.SetEntryValue(out); err != nil {
		return nil, err
	}
	return b.Build()
}

func (r rOperator) Transpose() matrix.Matrix { return matrix.CreateTransposedOf(r) }

var _ matrix.Matrix = rOperator{}

// Determinant returns sign*exp(logAbsDeterminant()); only meaningful when
// rRows == cCols.
func (f *HouseholderQR) Determinant() float64 { return f.det.Det() }

// LogAbsDeterminant returns log|det|.
func (f *HouseholderQR) LogAbsDeterminant() float64 { return f.det.LogAbsDet() }

// SignOfDeterminant returns -1, 0, or 1.
func (f *HouseholderQR) SignOfDeterminant() int { return f.det.Sign() }

// Inverse returns the lazily-cached Moore-Penrose generalized inverse: a
// c by r operator with Inverse().Operate(Av) == v for v of dimension c.
func (f *HouseholderQR) Inverse() matrix.Matrix { return f.inv.Get() }

type qrPseudoInverse struct{ f *HouseholderQR }

func (iv *qrPseudoInverse) Dim() dimension.MatrixDim {
	d, _ := dimension.NewMatrixDim(iv.f.cCols, iv.f.rRows)
	return d
}

// Operate computes A+ v = R^-1 (Q^T v)[:c] for an r-vector v.
func (iv *qrPseudoInverse) Operate(v *vector.Vector) (*vector.Vector, error) {
	f := iv.f
	w, err := f.q.OperateTranspose(v)
	if err != nil {
		return nil, err
	}
	full := w.EntryAsArray()
	y := f.rT.backSubstituteTranspose(full[:f.cCols])
	vd, _ := dimension.NewVectorDim(f.cCols)
	b := vector.ZeroBuilder(vd)
	if err := b.SetEntryValue(y); err != nil {
		return nil, err
	}
	return b.Build()
}

// OperateTranspose computes (A+)^T v = Q (R^-T v extended with zeros) for
// a c-vector v.
func (iv *qrPseudoInverse) OperateTranspose(v *vector.Vector) (*vector.Vector, error) {
	f := iv.f
	x := v.EntryAsArray()
	y := f.rT.forwardSubstitute(x)
	full := make([]float64, f.rRows)
	copy(full, y)
	vd, _ := dimension.NewVectorDim(f.rRows)
	b := vector.ZeroBuilder(vd)
	if err := b.SetEntryValue(full); err != nil {
		return nil, err
	}
	padded, err := b.Build()
	if err != nil {
		return nil, err
	}
	return f.q.Operate(padded)
}

func (iv *qrPseudoInverse) Transpose() matrix.Matrix { return matrix.CreateTransposedOf(iv) }

var _ matrix.Matrix = (*qrPseudoInverse)(nil)

// HouseholderQRExecutor is the singleton entry point for dense Householder
// QR factorization.
type HouseholderQRExecutor struct{}

// NewHouseholderQRExecutor returns the dense Householder QR executor.
func NewHouseholderQRExecutor() HouseholderQRExecutor { return HouseholderQRExecutor{} }

// Accepts reports whether a can be factored: must have at least as many
// rows as columns and fit dense storage capacity.
func (HouseholderQRExecutor) Accepts(a matrix.EntryReadable) dimension.Acceptance {
	dim := a.Dim()
	if dim.Rows() < dim.Cols() {
		return dimension.Rejected(denseerr.ErrMatrixFormatMismatch)
	}
	if !dim.AcceptedForDenseMatrix() {
		return dimension.Rejected(denseerr.ErrElementsTooMany)
	}
	return dimension.Accepted()
}

// ApplyDefault factors a with DefaultEpsilon.
func (e HouseholderQRExecutor) ApplyDefault(a matrix.EntryReadable) (*HouseholderQR, error) {
	return e.Apply(a, DefaultEpsilon)
}

// Apply factors a, returning nil (no error) if a does not have full
// column rank at tolerance epsilon.
func (e HouseholderQRExecutor) Apply(a matrix.EntryReadable, epsilon float64) (*HouseholderQR, error) {
	if err := checkEpsilon(epsilon); err != nil {
		return nil, err
	}
	if acc := e.Accepts(a); !acc.IsAccepted() {
		return nil, acc.Reason()
	}
	r := a.Dim().Rows()
	c := a.Dim().Cols()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = make([]float64, c)
		for j := 0; j < c; j++ {
			v, err := a.ValueAt(i, j)
			if err != nil {
				return nil, err
			}
			rows[i][j] = v
		}
	}
	threshold := epsilon*a.EntryNormMax() + StabilityAnchor

	diag := make([]float64, c)
	strict := make([]float64, c*(c-1)/2)
	factors := make([]matrix.Orthogonal, 0, c+1)
	signs := make([]int8, r)
	for i := range signs {
		signs[i] = 1
	}

	for k := 0; k < c; k++ {
		sub := make([]float64, r-k)
		for i := k; i < r; i++ {
			sub[i-k] = rows[i][k]
		}
		uSub, ok := matrix.ReflectionVectorFromColumn(sub)
		if !ok {
			return nil, nil
		}

		for j := k; j < c; j++ {
			var dot float64
			for i := k; i < r; i++ {
				dot += uSub[i-k] * rows[i][j]
			}
			for i := k; i < r; i++ {
				rows[i][j] -= 2 * dot * uSub[i-k]
			}
		}

		alpha := rows[k][k]
		if math.Abs(alpha) < threshold {
			return nil, nil
		}
		if alpha < 0 {
			signs[k] = -1
			for j := k; j < c; j++ {
				rows[k][j] = -rows[k][j]
			}
		}
		diag[k] = rows[k][k]
		for j := k + 1; j < c; j++ {
			strict[strictIndex(j, k)] = rows[k][j]
		}

		full := make([]float64, r)
		copy(full[k:], uSub)
		vd, err := dimension.NewVectorDim(r)
		if err != nil {
			return nil, err
		}
		ub := vector.ZeroBuilder(vd)
		if err := ub.SetEntryValue(full); err != nil {
			return nil, err
		}
		uVec, err := ub.Build()
		if err != nil {
			return nil, err
		}
		h, err := matrix.NewHouseholderFromDense(uVec)
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
		sb, err := matrix.NewSignatureBuilder(r)
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
	rT := newTriangularDense(c, diag, strict)

	// det(A) = det(Q) * det(R): det(Q) is the product of each Householder
	// reflector's determinant (-1) times the trailing signature factor's
	// parity (if present); det(R) is the product of its diagonal. Only
	// meaningful when the factored matrix is square.
	accD := numkit.NewDeterminantAccumulator()
	if r == c {
		for i := 0; i < c; i++ {
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
	}

	f := &HouseholderQR{rRows: r, cCols: c, q: q, rT: rT, det: accD.Determinant()}
	f.inv = numkit.NewOnce(func() matrix.Matrix { return &qrPseudoInverse{f: f} })
	return f, nil
}
