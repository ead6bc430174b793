package matrix

import (
	"fmt"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/numkit"
	"github.com/katalvlaran/denseq/vector"
)

// DiagonalMatrix stores only its diagonal entries; off-diagonal entries
// are zero by construction.
type DiagonalMatrix struct {
	diag    []float64
	entryNM *numkit.Once[float64]
}

var (
	_ Matrix        = (*DiagonalMatrix)(nil)
	_ Symmetric     = (*DiagonalMatrix)(nil)
	_ Diagonal      = (*DiagonalMatrix)(nil)
	_ EntryReadable = (*DiagonalMatrix)(nil)
)

func newDiagonalMatrix(diag []float64) *DiagonalMatrix {
	m := &DiagonalMatrix{diag: diag}
	m.entryNM = numkit.NewOnce(func() float64 { return numkit.MaxNorm(m.diag) })
	return m
}

func (m *DiagonalMatrix) symmetricMarker() {}
func (m *DiagonalMatrix) diagonalMarker() {}

// Dim returns the matrix's (square) shape.
func (m *DiagonalMatrix) Dim() dimension.MatrixDim {
	d, _ := dimension.NewMatrixDim(len(m.diag), len(m.diag))
	return d
}

// ValueAt returns A[i,j].
func (m *DiagonalMatrix) ValueAt(i, j int) (float64, error) {
	n := len(m.diag)
	if i < 0 || i >= n || j < 0 || j >= n {
		return 0, fmt.Errorf("DiagonalMatrix.ValueAt(%d,%d): %w", i, j, denseerr.ErrIndexOutOfBounds)
	}
	if i != j {
		return 0, nil
	}
	return m.diag[i], nil
}

// EntryNormMax returns the maximum absolute diagonal entry.
func (m *DiagonalMatrix) EntryNormMax() float64 { return m.entryNM.Get() }

// Operate returns A*v, i.e. the elementwise product of the diagonal and v.
func (m *DiagonalMatrix) Operate(v *vector.Vector) (*vector.Vector, error) {
	if v == nil {
		return nil, denseerr.ErrNullArgument
	}
	vd, _ := dimension.NewVectorDim(len(m.diag))
	if !v.Dim().Equals(vd) {
		return nil, fmt.Errorf("DiagonalMatrix.Operate: %w", denseerr.ErrMatrixFormatMismatch)
	}
	x := v.EntryAsArray()
	out := make([]float64, len(m.diag))
	for i, d := range m.diag {
		out[i] = d * x[i]
	}
	b := vector.ZeroBuilder(vd)
	if err := b.SetEntryValue(out); err != nil {
		return nil, err
	}
	return b.Build()
}

// OperateTranspose is identical to Operate for a diagonal matrix.
func (m *DiagonalMatrix) OperateTranspose(v *vector.Vector) (*vector.Vector, error) {
	return m.Operate(v)
}

// Transpose returns the receiver itself.
func (m *DiagonalMatrix) Transpose() Matrix { return m }

// Inverse returns a DiagonalMatrix of reciprocals; callers must ensure no
// diagonal entry is zero before calling.
func (m *DiagonalMatrix) Inverse() Matrix {
	out := make([]float64, len(m.diag))
	for i, d := range m.diag {
		out[i] = 1 / d
	}
	return newDiagonalMatrix(out)
}

var _ Invertible = (*DiagonalMatrix)(nil)

// DiagonalBuilder builds a DiagonalMatrix one diagonal entry at a time.
type DiagonalBuilder struct {
	diag  []float64
	built bool
}

// NewDiagonalBuilder returns a DiagonalBuilder for an n by n diagonal
// matrix, pre-populated with zeros.
func NewDiagonalBuilder(n int) (*DiagonalBuilder, error) {
	if n < 1 {
		return nil, denseerr.ErrIllegalArgument
	}
	return &DiagonalBuilder{diag: make([]float64, n)}, nil
}

func (b *DiagonalBuilder) checkUsable(method string) error {
	if b.built {
		return fmt.Errorf("matrix.DiagonalBuilder.%s: %w", method, denseerr.ErrIllegalState)
	}
	return nil
}

// SetValue sets the i-th diagonal entry.
func (b *DiagonalBuilder) SetValue(i int, x float64) error {
	if err := b.checkUsable("SetValue"); err != nil {
		return err
	}
	if i < 0 || i >= len(b.diag) {
		return fmt.Errorf("matrix.DiagonalBuilder.SetValue(%d): %w", i, denseerr.ErrIndexOutOfBounds)
	}
	b.diag[i] = numkit.Canonicalize(x)
	return nil
}

// Build consumes the builder and returns the finished DiagonalMatrix.
func (b *DiagonalBuilder) Build() (*DiagonalMatrix, error) {
	if err := b.checkUsable("Build"); err != nil {
		return nil, err
	}
	b.built = true
	out := make([]float64, len(b.diag))
	copy(out, b.diag)
	return newDiagonalMatrix(out), nil
}
