package matrix

import (
	"fmt"
	"math"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/vector"
)

// ZeroMatrix is the r by c all-zero matrix, stored only as its dimension.
type ZeroMatrix struct {
	dim dimension.MatrixDim
	t   lazyTranspose
}

var (
	_ Matrix          = (*ZeroMatrix)(nil)
	_ EntryReadable   = (*ZeroMatrix)(nil)
	_ Determinantable = (*ZeroMatrix)(nil)
)

// NewZeroMatrix returns the all-zero matrix of shape dim.
func NewZeroMatrix(dim dimension.MatrixDim) *ZeroMatrix {
	m := &ZeroMatrix{dim: dim}
	m.t = newLazyTranspose(func() Matrix { return NewZeroMatrix(dim.Transpose()) })
	return m
}

// Dim returns the matrix's shape.
func (m *ZeroMatrix) Dim() dimension.MatrixDim { return m.dim }

// ValueAt always returns 0.
func (m *ZeroMatrix) ValueAt(i, j int) (float64, error) {
	if i < 0 || i >= m.dim.Rows() || j < 0 || j >= m.dim.Cols() {
		return 0, fmt.Errorf("ZeroMatrix.ValueAt(%d,%d): %w", i, j, denseerr.ErrIndexOutOfBounds)
	}
	return 0, nil
}

// EntryNormMax is always 0.
func (m *ZeroMatrix) EntryNormMax() float64 { return 0 }

// Operate returns the zero vector of the left-operable dimension.
func (m *ZeroMatrix) Operate(v *vector.Vector) (*vector.Vector, error) {
	if v == nil {
		return nil, denseerr.ErrNullArgument
	}
	if !m.dim.RightOperable(v.Dim()) {
		return nil, fmt.Errorf("ZeroMatrix.Operate: %w", denseerr.ErrMatrixFormatMismatch)
	}
	rowDim, _ := m.dim.ColVectorDim()
	b := vector.ZeroBuilder(rowDim)
	return b.Build()
}

// OperateTranspose returns the zero vector of the right-operable dimension.
func (m *ZeroMatrix) OperateTranspose(v *vector.Vector) (*vector.Vector, error) {
	if v == nil {
		return nil, denseerr.ErrNullArgument
	}
	if !m.dim.LeftOperable(v.Dim()) {
		return nil, fmt.Errorf("ZeroMatrix.OperateTranspose: %w", denseerr.ErrMatrixFormatMismatch)
	}
	colDim, _ := m.dim.RowVectorDim()
	b := vector.ZeroBuilder(colDim)
	return b.Build()
}

// Transpose returns the lazily-cached zero companion of transposed shape.
func (m *ZeroMatrix) Transpose() Matrix { return m.t.get() }

// Determinant is always 0 for a square zero matrix (undefined/0 for
// non-square, but callers only query this capability on square inputs).
func (m *ZeroMatrix) Determinant() float64 { return 0 }

// LogAbsDeterminant is always -Inf.
func (m *ZeroMatrix) LogAbsDeterminant() float64 { return math.Inf(-1) }

// SignOfDeterminant is always 0.
func (m *ZeroMatrix) SignOfDeterminant() int { return 0 }
