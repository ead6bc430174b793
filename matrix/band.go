package matrix

import (
	"fmt"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/numkit"
	"github.com/katalvlaran/denseq/vector"
)

// GeneralBandMatrix stores a general (non-symmetric) band matrix as a
// packed buffer: row i holds bL+bU+1 slots for columns i-bL..i+bU,
// entries whose column falls outside [0,n) are simply unused slots.
type GeneralBandMatrix struct {
	bd      dimension.BandDim
	width   int // bL+bU+1
	data    []float64
	entryNM *numkit.Once[float64]
	t       lazyTranspose
}

var (
	_ Matrix        = (*GeneralBandMatrix)(nil)
	_ Band          = (*GeneralBandMatrix)(nil)
	_ EntryReadable = (*GeneralBandMatrix)(nil)
)

func newGeneralBandMatrix(bd dimension.BandDim, data []float64) *GeneralBandMatrix {
	m := &GeneralBandMatrix{bd: bd, width: bd.LowerWidth() + bd.UpperWidth() + 1, data: data}
	m.entryNM = numkit.NewOnce(func() float64 { return numkit.MaxNorm(m.data) })
	m.t = newLazyTranspose(func() Matrix { return CreateTransposedOf(m) })
	return m
}

func (m *GeneralBandMatrix) slot(i, j int) (int, bool) {
	off := j - i + m.bd.LowerWidth()
	if off < 0 || off >= m.width {
		return 0, false
	}
	return i*m.width + off, true
}

// Dim returns the matrix's (square) shape.
func (m *GeneralBandMatrix) Dim() dimension.MatrixDim { return m.bd.MatrixDim() }

// BandDim returns the band shape.
func (m *GeneralBandMatrix) BandDim() dimension.BandDim { return m.bd }

// ValueAt returns A[i,j], 0 when (i,j) lies outside the band.
func (m *GeneralBandMatrix) ValueAt(i, j int) (float64, error) {
	n := m.bd.N()
	if i < 0 || i >= n || j < 0 || j >= n {
		return 0, fmt.Errorf("GeneralBandMatrix.ValueAt(%d,%d): %w", i, j, denseerr.ErrIndexOutOfBounds)
	}
	idx, ok := m.slot(i, j)
	if !ok {
		return 0, nil
	}
	return m.data[idx], nil
}

// EntryNormMax returns the maximum absolute entry.
func (m *GeneralBandMatrix) EntryNormMax() float64 { return m.entryNM.Get() }

// Operate returns A*v, walking only the band per row.
func (m *GeneralBandMatrix) Operate(v *vector.Vector) (*vector.Vector, error) {
	if v == nil {
		return nil, denseerr.ErrNullArgument
	}
	n := m.bd.N()
	vd, _ := dimension.NewVectorDim(n)
	if !v.Dim().Equals(vd) {
		return nil, fmt.Errorf("GeneralBandMatrix.Operate: %w", denseerr.ErrMatrixFormatMismatch)
	}
	x := v.EntryAsArray()
	out := make([]float64, n)
	bL, bU := m.bd.LowerWidth(), m.bd.UpperWidth()
	for i := 0; i < n; i++ {
		lo, hi := i-bL, i+bU
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		var s float64
		for j := lo; j <= hi; j++ {
			idx, _ := m.slot(i, j)
			s += m.data[idx] * x[j]
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
func (m *GeneralBandMatrix) OperateTranspose(v *vector.Vector) (*vector.Vector, error) {
	if v == nil {
		return nil, denseerr.ErrNullArgument
	}
	n := m.bd.N()
	vd, _ := dimension.NewVectorDim(n)
	if !v.Dim().Equals(vd) {
		return nil, fmt.Errorf("GeneralBandMatrix.OperateTranspose: %w", denseerr.ErrMatrixFormatMismatch)
	}
	x := v.EntryAsArray()
	out := make([]float64, n)
	bL, bU := m.bd.LowerWidth(), m.bd.UpperWidth()
	for i := 0; i < n; i++ {
		lo, hi := i-bL, i+bU
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		xi := x[i]
		if xi == 0 {
			continue
		}
		for j := lo; j <= hi; j++ {
			idx, _ := m.slot(i, j)
			out[j] += m.data[idx] * xi
		}
	}
	b := vector.ZeroBuilder(vd)
	if err := b.SetEntryValue(out); err != nil {
		return nil, err
	}
	return b.Build()
}

// Transpose returns the lazily-cached companion matrix representing A^T.
func (m *GeneralBandMatrix) Transpose() Matrix { return m.t.get() }

// BandBuilder builds a GeneralBandMatrix entry by entry within the band.
type BandBuilder struct {
	bd    dimension.BandDim
	width int
	data  []float64
	built bool
}

// NewBandBuilder returns a BandBuilder for bd, pre-populated with zeros.
func NewBandBuilder(bd dimension.BandDim) (*BandBuilder, error) {
	if !bd.AcceptedForBandMatrix() {
		return nil, denseerr.ErrElementsTooMany
	}
	width := bd.LowerWidth() + bd.UpperWidth() + 1
	return &BandBuilder{bd: bd, width: width, data: make([]float64, bd.N()*width)}, nil
}

func (b *BandBuilder) checkUsable(method string) error {
	if b.built {
		return fmt.Errorf("matrix.BandBuilder.%s: %w", method, denseerr.ErrIllegalState)
	}
	return nil
}

// SetValue sets A[i,j]; (i,j) must lie within the band.
func (b *BandBuilder) SetValue(i, j int, x float64) error {
	if err := b.checkUsable("SetValue"); err != nil {
		return err
	}
	n := b.bd.N()
	if i < 0 || i >= n || j < 0 || j >= n {
		return fmt.Errorf("matrix.BandBuilder.SetValue(%d,%d): %w", i, j, denseerr.ErrIndexOutOfBounds)
	}
	if !b.bd.InBand(i, j) {
		return fmt.Errorf("matrix.BandBuilder.SetValue(%d,%d): %w", i, j, denseerr.ErrIndexOutOfBounds)
	}
	off := j - i + b.bd.LowerWidth()
	b.data[i*b.width+off] = numkit.Canonicalize(x)
	return nil
}

// Build consumes the builder and returns the finished GeneralBandMatrix.
func (b *BandBuilder) Build() (*GeneralBandMatrix, error) {
	if err := b.checkUsable("Build"); err != nil {
		return nil, err
	}
	b.built = true
	out := make([]float64, len(b.data))
	copy(out, b.data)
	return newGeneralBandMatrix(b.bd, out), nil
}
