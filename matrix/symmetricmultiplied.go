package matrix

import (
	"fmt"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/vector"
)

// SymmetricMultiplied represents L D L^T for a side matrix L (square or
// not) and a symmetric middle D whose dimension equals L's column count;
// the composite is square, of L's row count, and always symmetric
// regardless of L's shape.
type SymmetricMultiplied struct {
	l   Matrix
	d   Symmetric
	dim dimension.MatrixDim
}

var (
	_ Matrix    = (*SymmetricMultiplied)(nil)
	_ Symmetric = (*SymmetricMultiplied)(nil)
)

func (m *SymmetricMultiplied) symmetricMarker() {}

// NewSymmetricMultiplied builds L D L^T, requiring L's column count to
// equal D's dimension.
func NewSymmetricMultiplied(l Matrix, d Symmetric) (*SymmetricMultiplied, error) {
	if l == nil || d == nil {
		return nil, denseerr.ErrNullArgument
	}
	if l.Dim().Cols() != d.Dim().Rows() {
		return nil, fmt.Errorf("matrix.NewSymmetricMultiplied: %w", denseerr.ErrMatrixFormatMismatch)
	}
	dim, err := dimension.NewMatrixDim(l.Dim().Rows(), l.Dim().Rows())
	if err != nil {
		return nil, err
	}
	return &SymmetricMultiplied{l: l, d: d, dim: dim}, nil
}

// Dim returns the (square) overall shape.
func (m *SymmetricMultiplied) Dim() dimension.MatrixDim { return m.dim }

// Operate computes L*(D*(L^T*v)).
func (m *SymmetricMultiplied) Operate(v *vector.Vector) (*vector.Vector, error) {
	if v == nil {
		return nil, denseerr.ErrNullArgument
	}
	lt, err := m.l.OperateTranspose(v)
	if err != nil {
		return nil, err
	}
	dv, err := m.d.Operate(lt)
	if err != nil {
		return nil, err
	}
	return m.l.Operate(dv)
}

// OperateTranspose is identical to Operate for a symmetric matrix.
func (m *SymmetricMultiplied) OperateTranspose(v *vector.Vector) (*vector.Vector, error) {
	return m.Operate(v)
}

// Transpose returns the receiver itself.
func (m *SymmetricMultiplied) Transpose() Matrix { return m }
