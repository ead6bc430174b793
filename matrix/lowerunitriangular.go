package matrix

import (
	"fmt"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/numkit"
	"github.com/katalvlaran/denseq/vector"
)

// LowerUnitriangularDense is a dense lower-triangular matrix with an
// implicit unit diagonal; only the strict lower triangle is stored.
type LowerUnitriangularDense struct {
	n       int
	strict  []float64 // packed strict lower triangle, row i holds i entries
	entryNM *numkit.Once[float64]
	t       lazyTranspose
}

var (
	_ Matrix             = (*LowerUnitriangularDense)(nil)
	_ LowerUnitriangular = (*LowerUnitriangularDense)(nil)
	_ EntryReadable      = (*LowerUnitriangularDense)(nil)
)

func (m *LowerUnitriangularDense) lowerUnitriangularMarker() {}

func newLowerUnitriangularDense(n int, strict []float64) *LowerUnitriangularDense {
	m := &LowerUnitriangularDense{n: n, strict: strict}
	m.entryNM = numkit.NewOnce(func() float64 {
		max := 1.0
		for _, x := range m.strict {
			if a := abs(x); a > max {
				max = a
			}
		}
		return max
	})
	m.t = newLazyTranspose(func() Matrix { return CreateTransposedOf(m) })
	return m
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func strictIndex(i, j int) int { return i*(i-1)/2 + j }

// Dim returns the matrix's (square) shape.
func (m *LowerUnitriangularDense) Dim() dimension.MatrixDim {
	d, _ := dimension.NewMatrixDim(m.n, m.n)
	return d
}

// ValueAt returns A[i,j]: 1 on the diagonal, the stored entry below it, 0
// above it.
func (m *LowerUnitriangularDense) ValueAt(i, j int) (float64, error) {
	if i < 0 || i >= m.n || j < 0 || j >= m.n {
		return 0, fmt.Errorf("LowerUnitriangularDense.ValueAt(%d,%d): %w", i, j, denseerr.ErrIndexOutOfBounds)
	}
	switch {
	case i == j:
		return 1, nil
	case j > i:
		return 0, nil
	default:
		return m.strict[strictIndex(i, j)], nil
	}
}

// EntryNormMax returns the maximum absolute entry (at least 1, from the
// diagonal).
func (m *LowerUnitriangularDense) EntryNormMax() float64 { return m.entryNM.Get() }

// Operate returns A*v.
func (m *LowerUnitriangularDense) Operate(v *vector.Vector) (*vector.Vector, error) {
	if v == nil {
		return nil, denseerr.ErrNullArgument
	}
	vd, _ := dimension.NewVectorDim(m.n)
	if !v.Dim().Equals(vd) {
		return nil, fmt.Errorf("LowerUnitriangularDense.Operate: %w", denseerr.ErrMatrixFormatMismatch)
	}
	x := v.EntryAsArray()
	out := make([]float64, m.n)
	for i := 0; i < m.n; i++ {
		s := x[i]
		for j := 0; j < i; j++ {
			s += m.strict[strictIndex(i, j)] * x[j]
		}
		out[i] = s
	}
	b := vector.ZeroBuilder(vd)
	if err := b.SetEntryValue(out); err != nil {
		return nil, err
	}
	return b.Build()
}

// OperateTranspose returns A^T*v.
func (m *LowerUnitriangularDense) OperateTranspose(v *vector.Vector) (*vector.Vector, error) {
	if v == nil {
		return nil, denseerr.ErrNullArgument
	}
	vd, _ := dimension.NewVectorDim(m.n)
	if !v.Dim().Equals(vd) {
		return nil, fmt.Errorf("LowerUnitriangularDense.OperateTranspose: %w", denseerr.ErrMatrixFormatMismatch)
	}
	x := v.EntryAsArray()
	out := make([]float64, m.n)
	copy(out, x)
	for i := 0; i < m.n; i++ {
		for j := 0; j < i; j++ {
			out[j] += m.strict[strictIndex(i, j)] * x[i]
		}
	}
	b := vector.ZeroBuilder(vd)
	if err := b.SetEntryValue(out); err != nil {
		return nil, err
	}
	return b.Build()
}

// Transpose returns the lazily-cached companion matrix representing A^T.
func (m *LowerUnitriangularDense) Transpose() Matrix { return m.t.get() }

// ForwardSubstitute solves this*x = b for x, assuming this is lower
// unitriangular (so no division is needed).
func (m *LowerUnitriangularDense) ForwardSubstitute(b *vector.Vector) (*vector.Vector, error) {
	if b == nil {
		return nil, denseerr.ErrNullArgument
	}
	vd, _ := dimension.NewVectorDim(m.n)
	if !b.Dim().Equals(vd) {
		return nil, fmt.Errorf("LowerUnitriangularDense.ForwardSubstitute: %w", denseerr.ErrMatrixFormatMismatch)
	}
	rhs := b.EntryAsArray()
	x := make([]float64, m.n)
	for i := 0; i < m.n; i++ {
		s := rhs[i]
		for j := 0; j < i; j++ {
			s -= m.strict[strictIndex(i, j)] * x[j]
		}
		x[i] = s
	}
	bd := vector.ZeroBuilder(vd)
	if err := bd.SetEntryValue(x); err != nil {
		return nil, err
	}
	return bd.Build()
}

// BackSubstituteTranspose solves this^T*x = b for x (back substitution
// against the implicit upper-triangular transpose).
func (m *LowerUnitriangularDense) BackSubstituteTranspose(b *vector.Vector) (*vector.Vector, error) {
	if b == nil {
		return nil, denseerr.ErrNullArgument
	}
	vd, _ := dimension.NewVectorDim(m.n)
	if !b.Dim().Equals(vd) {
		return nil, fmt.Errorf("LowerUnitriangularDense.BackSubstituteTranspose: %w", denseerr.ErrMatrixFormatMismatch)
	}
	rhs := b.EntryAsArray()
	x := make([]float64, m.n)
	for i := m.n - 1; i >= 0; i-- {
		s := rhs[i]
		for j := i + 1; j < m.n; j++ {
			s -= m.strict[strictIndex(j, i)] * x[j]
		}
		x[i] = s
	}
	bd := vector.ZeroBuilder(vd)
	if err := bd.SetEntryValue(x); err != nil {
		return nil, err
	}
	return bd.Build()
}

// LowerUnitriangularBuilder builds a LowerUnitriangularDense one strict
// sub-diagonal entry at a time.
type LowerUnitriangularBuilder struct {
	n      int
	strict []float64
	built  bool
}

// NewLowerUnitriangularBuilder returns a builder for an n by n lower
// unitriangular matrix, pre-populated with a zero strict lower triangle.
func NewLowerUnitriangularBuilder(n int) (*LowerUnitriangularBuilder, error) {
	dim, err := dimension.NewMatrixDim(n, n)
	if err != nil {
		return nil, err
	}
	if !dim.AcceptedForDenseMatrix() {
		return nil, denseerr.ErrElementsTooMany
	}
	return &LowerUnitriangularBuilder{n: n, strict: make([]float64, n*(n-1)/2)}, nil
}

func (b *LowerUnitriangularBuilder) checkUsable(method string) error {
	if b.built {
		return fmt.Errorf("matrix.LowerUnitriangularBuilder.%s: %w", method, denseerr.ErrIllegalState)
	}
	return nil
}

// SetValue sets the strict sub-diagonal entry A[i,j] (j < i required).
func (b *LowerUnitriangularBuilder) SetValue(i, j int, x float64) error {
	if err := b.checkUsable("SetValue"); err != nil {
		return err
	}
	if i < 0 || i >= b.n || j < 0 || j >= i {
		return fmt.Errorf("matrix.LowerUnitriangularBuilder.SetValue(%d,%d): %w", i, j, denseerr.ErrIndexOutOfBounds)
	}
	b.strict[strictIndex(i, j)] = numkit.Canonicalize(x)
	return nil
}

// Build consumes the builder and returns the finished
// LowerUnitriangularDense.
func (b *LowerUnitriangularBuilder) Build() (*LowerUnitriangularDense, error) {
	if err := b.checkUsable("Build"); err != nil {
		return nil, err
	}
	b.built = true
	out := make([]float64, len(b.strict))
	copy(out, b.strict)
	return newLowerUnitriangularDense(b.n, out), nil
}
