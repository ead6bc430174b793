package matrix

import (
	"fmt"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/numkit"
	"github.com/katalvlaran/denseq/vector"
)

// SymmetricMatrix stores only the lower triangle (row-major, packed) of a
// symmetric matrix; upper entries are derived by mirroring on read.
type SymmetricMatrix struct {
	n       int
	lower   []float64 // packed lower triangle, row i holds i+1 entries
	entryNM *numkit.Once[float64]
}

var (
	_ Matrix        = (*SymmetricMatrix)(nil)
	_ Symmetric     = (*SymmetricMatrix)(nil)
	_ EntryReadable = (*SymmetricMatrix)(nil)
)

func packedIndex(i, j int) int {
	if j > i {
		i, j = j, i
	}
	return i*(i+1)/2 + j
}

func newSymmetricMatrix(n int, lower []float64) *SymmetricMatrix {
	m := &SymmetricMatrix{n: n, lower: lower}
	m.entryNM = numkit.NewOnce(func() float64 { return numkit.MaxNorm(m.lower) })
	return m
}

func (m *SymmetricMatrix) symmetricMarker() {}

// Dim returns the matrix's (square) shape.
func (m *SymmetricMatrix) Dim() dimension.MatrixDim {
	d, _ := dimension.NewMatrixDim(m.n, m.n)
	return d
}

// ValueAt returns A[i,j], mirroring into the packed lower triangle.
func (m *SymmetricMatrix) ValueAt(i, j int) (float64, error) {
	if i < 0 || i >= m.n || j < 0 || j >= m.n {
		return 0, fmt.Errorf("SymmetricMatrix.ValueAt(%d,%d): %w", i, j, denseerr.ErrIndexOutOfBounds)
	}
	return m.lower[packedIndex(i, j)], nil
}

// EntryNormMax returns the maximum absolute entry.
func (m *SymmetricMatrix) EntryNormMax() float64 { return m.entryNM.Get() }

// Operate returns A*v.
func (m *SymmetricMatrix) Operate(v *vector.Vector) (*vector.Vector, error) {
	if v == nil {
		return nil, denseerr.ErrNullArgument
	}
	vd, _ := dimension.NewVectorDim(m.n)
	if !v.Dim().Equals(vd) {
		return nil, fmt.Errorf("SymmetricMatrix.Operate: %w", denseerr.ErrMatrixFormatMismatch)
	}
	x := v.EntryAsArray()
	out := make([]float64, m.n)
	for i := 0; i < m.n; i++ {
		var s float64
		for j := 0; j < m.n; j++ {
			a, _ := m.ValueAt(i, j)
			s += a * x[j]
		}
		out[i] = s
	}
	b := vector.ZeroBuilder(vd)
	if err := b.SetEntryValue(out); err != nil {
		return nil, err
	}
	return b.Build()
}

// OperateTranspose is identical to Operate for a symmetric matrix.
func (m *SymmetricMatrix) OperateTranspose(v *vector.Vector) (*vector.Vector, error) {
	return m.Operate(v)
}

// Transpose returns the receiver itself.
func (m *SymmetricMatrix) Transpose() Matrix { return m }

// SymmetricBuilder builds a SymmetricMatrix by setting lower-triangle
// entries; setting an upper entry is accepted and mirrored to its
// transpose position.
type SymmetricBuilder struct {
	n     int
	lower []float64
	built bool
}

// NewSymmetricBuilder returns a SymmetricBuilder for an n by n symmetric
// matrix, pre-populated with zeros.
func NewSymmetricBuilder(n int) (*SymmetricBuilder, error) {
	dim, err := dimension.NewMatrixDim(n, n)
	if err != nil {
		return nil, err
	}
	if !dim.AcceptedForDenseMatrix() {
		return nil, denseerr.ErrElementsTooMany
	}
	return &SymmetricBuilder{n: n, lower: make([]float64, n*(n+1)/2)}, nil
}

func (b *SymmetricBuilder) checkUsable(method string) error {
	if b.built {
		return fmt.Errorf("matrix.SymmetricBuilder.%s: %w", method, denseerr.ErrIllegalState)
	}
	return nil
}

// SetValue sets both A[i,j] and A[j,i] to x.
func (b *SymmetricBuilder) SetValue(i, j int, x float64) error {
	if err := b.checkUsable("SetValue"); err != nil {
		return err
	}
	if i < 0 || i >= b.n || j < 0 || j >= b.n {
		return fmt.Errorf("matrix.SymmetricBuilder.SetValue(%d,%d): %w", i, j, denseerr.ErrIndexOutOfBounds)
	}
	b.lower[packedIndex(i, j)] = numkit.Canonicalize(x)
	return nil
}

// Build consumes the builder and returns the finished SymmetricMatrix.
func (b *SymmetricBuilder) Build() (*SymmetricMatrix, error) {
	if err := b.checkUsable("Build"); err != nil {
		return nil, err
	}
	b.built = true
	out := make([]float64, len(b.lower))
	copy(out, b.lower)
	return newSymmetricMatrix(b.n, out), nil
}
