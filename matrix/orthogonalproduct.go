package matrix

import (
	"fmt"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/vector"
)

// OrthogonalProduct holds an ordered sequence of orthogonal factors
// sharing a common square dimension. Operate applies the factors in
// reverse order (as a composed linear map Q = Q0 Q1 ... Qk-1 applies
// Qk-1 first); OperateTranspose applies their transposes forward.
type OrthogonalProduct struct {
	dim     dimension.MatrixDim
	factors []Orthogonal
	t       lazyTranspose
}

var (
	_ Matrix     = (*OrthogonalProduct)(nil)
	_ Orthogonal = (*OrthogonalProduct)(nil)
)

func (m *OrthogonalProduct) orthogonalMarker() {}

// NewOrthogonalProduct builds the product of factors (in the given
// order), flattening any nested OrthogonalProduct one level. All factors
// must share the same square dimension.
func NewOrthogonalProduct(factors []Orthogonal) (*OrthogonalProduct, error) {
	if len(factors) == 0 {
		return nil, denseerr.ErrIllegalArgument
	}
	flat := make([]Orthogonal, 0, len(factors))
	for _, f := range factors {
		if nested, ok := f.(*OrthogonalProduct); ok {
			flat = append(flat, nested.factors...)
		} else {
			flat = append(flat, f)
		}
	}
	dim := flat[0].Dim()
	for _, f := range flat {
		if !f.Dim().Equals(dim) {
			return nil, fmt.Errorf("matrix.NewOrthogonalProduct: %w", denseerr.ErrMatrixFormatMismatch)
		}
	}
	m := &OrthogonalProduct{dim: dim, factors: flat}
	m.t = newLazyTranspose(func() Matrix {
		reversed := make([]Orthogonal, len(flat))
		for i, f := range flat {
			reversed[len(flat)-1-i] = f.Transpose().(Orthogonal)
		}
		product, _ := NewOrthogonalProduct(reversed)
		product.t = newLazyTranspose(func() Matrix { return m })
		return product
	})
	return m, nil
}

// Dim returns the common square shape of the factors.
func (m *OrthogonalProduct) Dim() dimension.MatrixDim { return m.dim }

// Operate applies the factors in reverse order: Q0(Q1(...Qk-1(v))).
func (m *OrthogonalProduct) Operate(v *vector.Vector) (*vector.Vector, error) {
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

// OperateTranspose applies the factors' transposes forward: Qk-1^T(...Q1^T(Q0^T(v))).
func (m *OrthogonalProduct) OperateTranspose(v *vector.Vector) (*vector.Vector, error) {
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

// Transpose returns the lazily-cached reversed-and-transposed product, so
// that A.Transpose().Transpose() == A by identical reference.
func (m *OrthogonalProduct) Transpose() Matrix { return m.t.get() }

// Inverse returns the transpose, since an orthogonal matrix's inverse is
// its transpose.
func (m *OrthogonalProduct) Inverse() Matrix { return m.Transpose() }

var _ Invertible = (*OrthogonalProduct)(nil)
