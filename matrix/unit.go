package matrix

import (
	"fmt"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/vector"
)

// UnitMatrix is the n by n identity matrix, stored only as its dimension.
type UnitMatrix struct {
	n int
}

var (
	_ Matrix           = (*UnitMatrix)(nil)
	_ Symmetric        = (*UnitMatrix)(nil)
	_ Orthogonal       = (*UnitMatrix)(nil)
	_ Diagonal         = (*UnitMatrix)(nil)
	_ EntryReadable    = (*UnitMatrix)(nil)
	_ Determinantable  = (*UnitMatrix)(nil)
	_ Invertible       = (*UnitMatrix)(nil)
)

// NewUnitMatrix returns the n by n identity matrix.
func NewUnitMatrix(n int) (*UnitMatrix, error) {
	if n < 1 {
		return nil, denseerr.ErrIllegalArgument
	}
	return &UnitMatrix{n: n}, nil
}

func (m *UnitMatrix) symmetricMarker()  {}
func (m *UnitMatrix) orthogonalMarker() {}
func (m *UnitMatrix) diagonalMarker()   {}

// Dim returns the matrix's (square) shape.
func (m *UnitMatrix) Dim() dimension.MatrixDim {
	d, _ := dimension.NewMatrixDim(m.n, m.n)
	return d
}

// ValueAt returns A[i,j].
func (m *UnitMatrix) ValueAt(i, j int) (float64, error) {
	if i < 0 || i >= m.n || j < 0 || j >= m.n {
		return 0, fmt.Errorf("UnitMatrix.ValueAt(%d,%d): %w", i, j, denseerr.ErrIndexOutOfBounds)
	}
	if i == j {
		return 1, nil
	}
	return 0, nil
}

// EntryNormMax is always 1.
func (m *UnitMatrix) EntryNormMax() float64 { return 1 }

// Operate returns v unchanged (as a fresh Vector of the same dimension).
func (m *UnitMatrix) Operate(v *vector.Vector) (*vector.Vector, error) {
	if v == nil {
		return nil, denseerr.ErrNullArgument
	}
	vd, _ := dimension.NewVectorDim(m.n)
	if !v.Dim().Equals(vd) {
		return nil, fmt.Errorf("UnitMatrix.Operate: %w", denseerr.ErrMatrixFormatMismatch)
	}
	return v.Times(1), nil
}

// OperateTranspose is identical to Operate.
func (m *UnitMatrix) OperateTranspose(v *vector.Vector) (*vector.Vector, error) {
	return m.Operate(v)
}

// Transpose returns the receiver itself.
func (m *UnitMatrix) Transpose() Matrix { return m }

// Inverse returns the receiver itself.
func (m *UnitMatrix) Inverse() Matrix { return m }

// Determinant is always 1.
func (m *UnitMatrix) Determinant() float64 { return 1 }

// LogAbsDeterminant is always 0.
func (m *UnitMatrix) LogAbsDeterminant() float64 { return 0 }

// SignOfDeterminant is always 1.
func (m *UnitMatrix) SignOfDeterminant() int { return 1 }
