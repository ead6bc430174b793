package matrix

import (
	"fmt"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/vector"
)

// MatrixProduct holds an ordered sequence of factors M0 M1 ... Mk-1 with
// adjacent-dimension compatibility: column count of Mi equals row count
// of Mi+1.
type MatrixProduct struct {
	factors []Matrix
	dim     dimension.MatrixDim
	t       lazyTranspose
}

var _ Matrix = (*MatrixProduct)(nil)

// NewMatrixProduct validates adjacent-dimension compatibility and builds
// the product (the Matrix.multiply combinator for heterogeneous,
// non-orthogonal factors).
func NewMatrixProduct(factors []Matrix) (*MatrixProduct, error) {
	if len(factors) == 0 {
		return nil, denseerr.ErrIllegalArgument
	}
	for i := 0; i+1 < len(factors); i++ {
		if factors[i].Dim().Cols() != factors[i+1].Dim().Rows() {
			return nil, fmt.Errorf("matrix.NewMatrixProduct: %w", denseerr.ErrMatrixFormatMismatch)
		}
	}
	dim, err := dimension.NewMatrixDim(factors[0].Dim().Rows(), factors[len(factors)-1].Dim().Cols())
	if err != nil {
		return nil, err
	}
	m := &MatrixProduct{factors: factors, dim: dim}
	m.t = newLazyTranspose(func() Matrix { return CreateTransposedOf(m) })
	return m, nil
}

// Dim returns the overall product shape.
func (m *MatrixProduct) Dim() dimension.MatrixDim { return m.dim }

// Operate applies the factors right to left: M0(M1(...Mk-1(v))).
func (m *MatrixProduct) Operate(v *vector.Vector) (*vector.Vector, error) {
	if v == nil {
		return nil, denseerr.ErrNullArgument
	}
	cur := v
	var err error
	for i := len(m.factors) - 1; i >= 0; i-- {
		cur, err = m.factors[i].Operate(cur)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// OperateTranspose applies the factors' transposes left to right:
// Mk-1^T(...M1^T(M0^T(v))).
func (m *MatrixProduct) OperateTranspose(v *vector.Vector) (*vector.Vector, error) {
	if v == nil {
		return nil, denseerr.ErrNullArgument
	}
	cur := v
	var err error
	for i := 0; i < len(m.factors); i++ {
		cur, err = m.factors[i].OperateTranspose(cur)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// Transpose returns the lazily-cached companion matrix representing A^T.
func (m *MatrixProduct) Transpose() Matrix { return m.t.get() }
