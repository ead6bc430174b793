package matrix

import (
	"fmt"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/numkit"
	"github.com/katalvlaran/denseq/vector"
)

// SymmetricBandMatrix stores only the lower half-band of a symmetric band
// matrix; upper-band reads mirror from the lower store.
type SymmetricBandMatrix struct {
	bd      dimension.BandDim // bL == bU
	width   int               // bL+1
	data    []float64         // row i holds bL+1 slots for columns i-bL..i
	entryNM *numkit.Once[float64]
}

var (
	_ Matrix        = (*SymmetricBandMatrix)(nil)
	_ Symmetric     = (*SymmetricBandMatrix)(nil)
	_ Band          = (*SymmetricBandMatrix)(nil)
	_ EntryReadable = (*SymmetricBandMatrix)(nil)
)

func newSymmetricBandMatrix(bd dimension.BandDim, data []float64) *SymmetricBandMatrix {
	m := &SymmetricBandMatrix{bd: bd, width: bd.LowerWidth() + 1, data: data}
	m.entryNM = numkit.NewOnce(func() float64 { return numkit.MaxNorm(m.data) })
	return m
}

func (m *SymmetricBandMatrix) symmetricMarker() {}

// Dim returns the matrix's (square) shape.
func (m *SymmetricBandMatrix) Dim() dimension.MatrixDim { return m.bd.MatrixDim() }

// BandDim returns the band shape.
func (m *SymmetricBandMatrix) BandDim() dimension.BandDim { return m.bd }

func (m *SymmetricBandMatrix) lowerSlot(i, j int) (int, bool) {
	if j > i {
		i, j = j, i
	}
	off := i - j
	if off > m.bd.LowerWidth() {
		return 0, false
	}
	return i*m.width + off, true
}

// ValueAt returns A[i,j], 0 when (i,j) lies outside the band.
func (m *SymmetricBandMatrix) ValueAt(i, j int) (float64, error) {
	n := m.bd.N()
	if i < 0 || i >= n || j < 0 || j >= n {
		return 0, fmt.Errorf("SymmetricBandMatrix.ValueAt(%d,%d): %w", i, j, denseerr.ErrIndexOutOfBounds)
	}
	idx, ok := m.lowerSlot(i, j)
	if !ok {
		return 0, nil
	}
	return m.data[idx], nil
}

// EntryNormMax returns the maximum absolute entry.
func (m *SymmetricBandMatrix) EntryNormMax() float64 { return m.entryNM.Get() }

// Operate returns A*v.
func (m *SymmetricBandMatrix) Operate(v *vector.Vector) (*vector.Vector, error) {
	if v == nil {
		return nil, denseerr.ErrNullArgument
	}
	n := m.bd.N()
	vd, _ := dimension.NewVectorDim(n)
	if !v.Dim().Equals(vd) {
		return nil, fmt.Errorf("SymmetricBandMatrix.Operate: %w", denseerr.ErrMatrixFormatMismatch)
	}
	x := v.EntryAsArray()
	out := make([]float64, n)
	b := m.bd.LowerWidth()
	for i := 0; i < n; i++ {
		lo, hi := i-b, i+b
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		var s float64
		for j := lo; j <= hi; j++ {
			a, _ := m.ValueAt(i, j)
			s += a * x[j]
		}
		out[i] = s
	}
	bd := vector.ZeroBuilder(vd)
	if err := bd.SetEntryValue(out); err != nil {
		return nil, err
	}
	return bd.Build()
}

// OperateTranspose is identical to Operate for a symmetric matrix.
func (m *SymmetricBandMatrix) OperateTranspose(v *vector.Vector) (*vector.Vector, error) {
	return m.Operate(v)
}

// Transpose returns the receiver itself.
func (m *SymmetricBandMatrix) Transpose() Matrix { return m }

// SymmetricBandBuilder builds a SymmetricBandMatrix by setting lower
// half-band entries; each value is mirrored implicitly on read.
type SymmetricBandBuilder struct {
	bd    dimension.BandDim
	width int
	data  []float64
	built bool
}

// NewSymmetricBandBuilder returns a builder for a symmetric band matrix of
// shape bd. bd.Symmetric() must hold (bL == bU).
func NewSymmetricBandBuilder(bd dimension.BandDim) (*SymmetricBandBuilder, error) {
	if !bd.Symmetric() {
		return nil, denseerr.ErrIllegalArgument
	}
	if !bd.AcceptedForBandMatrix() {
		return nil, denseerr.ErrElementsTooMany
	}
	width := bd.LowerWidth() + 1
	return &SymmetricBandBuilder{bd: bd, width: width, data: make([]float64, bd.N()*width)}, nil
}

func (b *SymmetricBandBuilder) checkUsable(method string) error {
	if b.built {
		return fmt.Errorf("matrix.SymmetricBandBuilder.%s: %w", method, denseerr.ErrIllegalState)
	}
	return nil
}

// SetValue sets both A[i,j] and A[j,i]; the pair must lie within the band.
func (b *SymmetricBandBuilder) SetValue(i, j int, x float64) error {
	if err := b.checkUsable("SetValue"); err != nil {
		return err
	}
	n := b.bd.N()
	if i < 0 || i >= n || j < 0 || j >= n {
		return fmt.Errorf("matrix.SymmetricBandBuilder.SetValue(%d,%d): %w", i, j, denseerr.ErrIndexOutOfBounds)
	}
	if !b.bd.InBand(i, j) {
		return fmt.Errorf("matrix.SymmetricBandBuilder.SetValue(%d,%d): %w", i, j, denseerr.ErrIndexOutOfBounds)
	}
	hi, lo := i, j
	if lo > hi {
		hi, lo = lo, hi
	}
	off := hi - lo
	b.data[hi*b.width+off] = numkit.Canonicalize(x)
	return nil
}

// Build consumes the builder and returns the finished SymmetricBandMatrix.
func (b *SymmetricBandBuilder) Build() (*SymmetricBandMatrix, error) {
	if err := b.checkUsable("Build"); err != nil {
		return nil, err
	}
	b.built = true
	out := make([]float64, len(b.data))
	copy(out, b.data)
	return newSymmetricBandMatrix(b.bd, out), nil
}
