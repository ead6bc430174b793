package matrix

import (
	"fmt"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/numkit"
	"github.com/katalvlaran/denseq/vector"
)

// GeneralMatrix is a dense, row-major, immutable general matrix backed by
// a single flat slice with bounds-checked access.
type GeneralMatrix struct {
	dim     dimension.MatrixDim
	data    []float64 // row-major, len == r*c
	entryNM *numkit.Once[float64]
	t       lazyTranspose
}

var (
	_ Matrix         = (*GeneralMatrix)(nil)
	_ EntryReadable  = (*GeneralMatrix)(nil)
)

func newGeneralMatrix(dim dimension.MatrixDim, data []float64) *GeneralMatrix {
	m := &GeneralMatrix{dim: dim, data: data}
	m.entryNM = numkit.NewOnce(func() float64 { return numkit.MaxNorm(m.data) })
	m.t = newLazyTranspose(func() Matrix { return CreateTransposedOf(m) })
	return m
}

// Dim returns the matrix's shape.
func (m *GeneralMatrix) Dim() dimension.MatrixDim { return m.dim }

// ValueAt returns A[i,j].
func (m *GeneralMatrix) ValueAt(i, j int) (float64, error) {
	if i < 0 || i >= m.dim.Rows() || j < 0 || j >= m.dim.Cols() {
		return 0, fmt.Errorf("GeneralMatrix.ValueAt(%d,%d): %w", i, j, denseerr.ErrIndexOutOfBounds)
	}
	return m.data[i*m.dim.Cols()+j], nil
}

// EntryNormMax returns the maximum absolute entry.
func (m *GeneralMatrix) EntryNormMax() float64 { return m.entryNM.Get() }

// Operate returns A*v.
func (m *GeneralMatrix) Operate(v *vector.Vector) (*vector.Vector, error) {
	if v == nil {
		return nil, denseerr.ErrNullArgument
	}
	if !m.dim.RightOperable(v.Dim()) {
		return nil, fmt.Errorf("GeneralMatrix.Operate: %w", denseerr.ErrMatrixFormatMismatch)
	}
	r, c := m.dim.Rows(), m.dim.Cols()
	x := v.EntryAsArray()
	out := make([]float64, r)
	for i := 0; i < r; i++ {
		row := m.data[i*c : i*c+c]
		var s float64
		for j, a := range row {
			s += a * x[j]
		}
		out[i] = s
	}
	rowDim, _ := m.dim.ColVectorDim()
	b := vector.ZeroBuilder(rowDim)
	if err := b.SetEntryValue(out); err != nil {
		return nil, err
	}
	return b.Build()
}

// OperateTranspose returns A^T*v.
func (m *GeneralMatrix) OperateTranspose(v *vector.Vector) (*vector.Vector, error) {
	if v == nil {
		return nil, denseerr.ErrNullArgument
	}
	if !m.dim.LeftOperable(v.Dim()) {
		return nil, fmt.Errorf("GeneralMatrix.OperateTranspose: %w", denseerr.ErrMatrixFormatMismatch)
	}
	r, c := m.dim.Rows(), m.dim.Cols()
	x := v.EntryAsArray()
	out := make([]float64, c)
	for i := 0; i < r; i++ {
		xi := x[i]
		if xi == 0 {
			continue
		}
		row := m.data[i*c : i*c+c]
		for j, a := range row {
			out[j] += a * xi
		}
	}
	colDim, _ := m.dim.RowVectorDim()
	b := vector.ZeroBuilder(colDim)
	if err := b.SetEntryValue(out); err != nil {
		return nil, err
	}
	return b.Build()
}

// Transpose returns the lazily-cached companion matrix representing A^T.
func (m *GeneralMatrix) Transpose() Matrix { return m.t.get() }

// rawRowMajor returns the internal row-major buffer; used only by
// solver/numkit-facing helpers within this module that need direct
// access to avoid an O(n^2) copy through ValueAt.
func (m *GeneralMatrix) rawRowMajor() (data []float64, rows, cols int) {
	return m.data, m.dim.Rows(), m.dim.Cols()
}

// DenseBuilder builds a GeneralMatrix entry by entry or from a flat
// row-major array, following the same single-shot-builder discipline as
// vector.Builder.
type DenseBuilder struct {
	dim   dimension.MatrixDim
	data  []float64
	built bool
}

// NewDenseBuilder returns a DenseBuilder for dim, pre-populated with
// zeros. ErrElementsTooMany is returned if dim exceeds dense capacity.
func NewDenseBuilder(dim dimension.MatrixDim) (*DenseBuilder, error) {
	if !dim.AcceptedForDenseMatrix() {
		return nil, denseerr.ErrElementsTooMany
	}
	return &DenseBuilder{dim: dim, data: make([]float64, dim.Rows()*dim.Cols())}, nil
}

func (b *DenseBuilder) checkUsable(method string) error {
	if b.built {
		return fmt.Errorf("matrix.DenseBuilder.%s: %w", method, denseerr.ErrIllegalState)
	}
	return nil
}

// SetValue sets A[i,j] to x, canonicalizing x if not already finite.
func (b *DenseBuilder) SetValue(i, j int, x float64) error {
	if err := b.checkUsable("SetValue"); err != nil {
		return err
	}
	if i < 0 || i >= b.dim.Rows() || j < 0 || j >= b.dim.Cols() {
		return fmt.Errorf("matrix.DenseBuilder.SetValue(%d,%d): %w", i, j, denseerr.ErrIndexOutOfBounds)
	}
	b.data[i*b.dim.Cols()+j] = numkit.Canonicalize(x)
	return nil
}

// SetRowMajor bulk-replaces the backing buffer from a row-major array of
// length rows*cols, defensively copied and canonicalized.
func (b *DenseBuilder) SetRowMajor(xs []float64) error {
	if err := b.checkUsable("SetRowMajor"); err != nil {
		return err
	}
	if len(xs) != len(b.data) {
		return fmt.Errorf("matrix.DenseBuilder.SetRowMajor: %w", denseerr.ErrMatrixFormatMismatch)
	}
	for i, x := range xs {
		b.data[i] = numkit.Canonicalize(x)
	}
	return nil
}

// Build consumes the builder and returns the finished GeneralMatrix.
func (b *DenseBuilder) Build() (*GeneralMatrix, error) {
	if err := b.checkUsable("Build"); err != nil {
		return nil, err
	}
	b.built = true
	out := make([]float64, len(b.data))
	copy(out, b.data)
	return newGeneralMatrix(b.dim, out), nil
}

// DenseCopyOf materializes any EntryReadable matrix to a fresh
// GeneralMatrix, letting tests/inspection code work with a uniform dense
// buffer regardless of the source representation (gonum-gonum/mat64's
// DenseCopyOf helper, spec-supplemented per SPEC_FULL.md §4 item 4).
func DenseCopyOf(a EntryReadable) (*GeneralMatrix, error) {
	dim := a.Dim()
	b, err := NewDenseBuilder(dim)
	if err != nil {
		return nil, err
	}
	for i := 0; i < dim.Rows(); i++ {
		for j := 0; j < dim.Cols(); j++ {
			v, err := a.ValueAt(i, j)
			if err != nil {
				return nil, err
			}
			if err := b.SetValue(i, j, v); err != nil {
				return nil, err
			}
		}
	}
	return b.Build()
}
