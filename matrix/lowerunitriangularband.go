package matrix

import (
	"fmt"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/numkit"
	"github.com/katalvlaran/denseq/vector"
)

// LowerUnitriangularBand is the band-storage counterpart of
// LowerUnitriangularDense: an implicit unit diagonal plus a packed strict
// lower band of width bL, upper width always 0.
type LowerUnitriangularBand struct {
	bd      dimension.BandDim // UpperWidth() == 0
	data    []float64         // row i holds bL slots for columns i-bL..i-1
	entryNM *numkit.Once[float64]
	t       lazyTranspose
}

var (
	_ Matrix             = (*LowerUnitriangularBand)(nil)
	_ LowerUnitriangular = (*LowerUnitriangularBand)(nil)
	_ Band               = (*LowerUnitriangularBand)(nil)
	_ EntryReadable      = (*LowerUnitriangularBand)(nil)
)

func (m *LowerUnitriangularBand) lowerUnitriangularMarker() {}

func newLowerUnitriangularBand(bd dimension.BandDim, data []float64) *LowerUnitriangularBand {
	m := &LowerUnitriangularBand{bd: bd, data: data}
	m.entryNM = numkit.NewOnce(func() float64 {
		max := 1.0
		for _, x := range m.data {
			if a := abs(x); a > max {
				max = a
			}
		}
		return max
	})
	m.t = newLazyTranspose(func() Matrix { return CreateTransposedOf(m) })
	return m
}

// Dim returns the matrix's (square) shape.
func (m *LowerUnitriangularBand) Dim() dimension.MatrixDim { return m.bd.MatrixDim() }

// BandDim returns the band shape.
func (m *LowerUnitriangularBand) BandDim() dimension.BandDim { return m.bd }

func (m *LowerUnitriangularBand) slot(i, j int) (int, bool) {
	bL := m.bd.LowerWidth()
	if bL == 0 {
		return 0, false
	}
	off := j - i + bL
	if off < 0 || off >= bL {
		return 0, false
	}
	return i*bL + off, true
}

// ValueAt returns A[i,j]: 1 on the diagonal, the stored entry within the
// lower band, 0 elsewhere.
func (m *LowerUnitriangularBand) ValueAt(i, j int) (float64, error) {
	n := m.bd.N()
	if i < 0 || i >= n || j < 0 || j >= n {
		return 0, fmt.Errorf("LowerUnitriangularBand.ValueAt(%d,%d): %w", i, j, denseerr.ErrIndexOutOfBounds)
	}
	if i == j {
		return 1, nil
	}
	if j > i {
		return 0, nil
	}
	idx, ok := m.slot(i, j)
	if !ok {
		return 0, nil
	}
	return m.data[idx], nil
}

// EntryNormMax returns the maximum absolute entry (at least 1).
func (m *LowerUnitriangularBand) EntryNormMax() float64 { return m.entryNM.Get() }

// Operate returns A*v.
func (m *LowerUnitriangularBand) Operate(v *vector.Vector) (*vector.Vector, error) {
	if v == nil {
		return nil, denseerr.ErrNullArgument
	}
	n := m.bd.N()
	vd, _ := dimension.NewVectorDim(n)
	if !v.Dim().Equals(vd) {
		return nil, fmt.Errorf("LowerUnitriangularBand.Operate: %w", denseerr.ErrMatrixFormatMismatch)
	}
	x := v.EntryAsArray()
	bL := m.bd.LowerWidth()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		s := x[i]
		lo := i - bL
		if lo < 0 {
			lo = 0
		}
		for j := lo; j < i; j++ {
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
func (m *LowerUnitriangularBand) OperateTranspose(v *vector.Vector) (*vector.Vector, error) {
	if v == nil {
		return nil, denseerr.ErrNullArgument
	}
	n := m.bd.N()
	vd, _ := dimension.NewVectorDim(n)
	if !v.Dim().Equals(vd) {
		return nil, fmt.Errorf("LowerUnitriangularBand.OperateTranspose: %w", denseerr.ErrMatrixFormatMismatch)
	}
	x := v.EntryAsArray()
	bL := m.bd.LowerWidth()
	out := make([]float64, n)
	copy(out, x)
	for i := 0; i < n; i++ {
		lo := i - bL
		if lo < 0 {
			lo = 0
		}
		for j := lo; j < i; j++ {
			idx, _ := m.slot(i, j)
			out[j] += m.data[idx] * x[i]
		}
	}
	b := vector.ZeroBuilder(vd)
	if err := b.SetEntryValue(out); err != nil {
		return nil, err
	}
	return b.Build()
}

// Transpose returns the lazily-cached companion matrix representing A^T.
func (m *LowerUnitriangularBand) Transpose() Matrix { return m.t.get() }

// ForwardSubstitute solves this*x = b for x.
func (m *LowerUnitriangularBand) ForwardSubstitute(b *vector.Vector) (*vector.Vector, error) {
	if b == nil {
		return nil, denseerr.ErrNullArgument
	}
	n := m.bd.N()
	vd, _ := dimension.NewVectorDim(n)
	if !b.Dim().Equals(vd) {
		return nil, fmt.Errorf("LowerUnitriangularBand.ForwardSubstitute: %w", denseerr.ErrMatrixFormatMismatch)
	}
	rhs := b.EntryAsArray()
	x := make([]float64, n)
	bL := m.bd.LowerWidth()
	for i := 0; i < n; i++ {
		s := rhs[i]
		lo := i - bL
		if lo < 0 {
			lo = 0
		}
		for j := lo; j < i; j++ {
			idx, _ := m.slot(i, j)
			s -= m.data[idx] * x[j]
		}
		x[i] = s
	}
	bd := vector.ZeroBuilder(vd)
	if err := bd.SetEntryValue(x); err != nil {
		return nil, err
	}
	return bd.Build()
}

// BackSubstituteTranspose solves this^T*x = b for x.
func (m *LowerUnitriangularBand) BackSubstituteTranspose(b *vector.Vector) (*vector.Vector, error) {
	if b == nil {
		return nil, denseerr.ErrNullArgument
	}
	n := m.bd.N()
	vd, _ := dimension.NewVectorDim(n)
	if !b.Dim().Equals(vd) {
		return nil, fmt.Errorf("LowerUnitriangularBand.BackSubstituteTranspose: %w", denseerr.ErrMatrixFormatMismatch)
	}
	rhs := b.EntryAsArray()
	x := make([]float64, n)
	bL := m.bd.LowerWidth()
	for i := n - 1; i >= 0; i-- {
		s := rhs[i]
		hi := i + bL
		if hi > n-1 {
			hi = n - 1
		}
		for j := i + 1; j <= hi; j++ {
			idx, ok := m.slot(j, i)
			if !ok {
				continue
			}
			s -= m.data[idx] * x[j]
		}
		x[i] = s
	}
	bd := vector.ZeroBuilder(vd)
	if err := bd.SetEntryValue(x); err != nil {
		return nil, err
	}
	return bd.Build()
}

// LowerUnitriangularBandBuilder builds a LowerUnitriangularBand one
// strict sub-diagonal band entry at a time.
type LowerUnitriangularBandBuilder struct {
	bd    dimension.BandDim
	data  []float64
	built bool
}

// NewLowerUnitriangularBandBuilder returns a builder for shape bd, whose
// UpperWidth() must be 0.
func NewLowerUnitriangularBandBuilder(bd dimension.BandDim) (*LowerUnitriangularBandBuilder, error) {
	if bd.UpperWidth() != 0 {
		return nil, denseerr.ErrIllegalArgument
	}
	if !bd.AcceptedForBandMatrix() {
		return nil, denseerr.ErrElementsTooMany
	}
	bL := bd.LowerWidth()
	size := bd.N() * bL
	return &LowerUnitriangularBandBuilder{bd: bd, data: make([]float64, size)}, nil
}

func (b *LowerUnitriangularBandBuilder) checkUsable(method string) error {
	if b.built {
		return fmt.Errorf("matrix.LowerUnitriangularBandBuilder.%s: %w", method, denseerr.ErrIllegalState)
	}
	return nil
}

// SetValue sets the strict sub-diagonal band entry A[i,j] (j < i,
// i-j <= bL required).
func (b *LowerUnitriangularBandBuilder) SetValue(i, j int, x float64) error {
	if err := b.checkUsable("SetValue"); err != nil {
		return err
	}
	n := b.bd.N()
	bL := b.bd.LowerWidth()
	if i < 0 || i >= n || j < 0 || j >= i || i-j > bL {
		return fmt.Errorf("matrix.LowerUnitriangularBandBuilder.SetValue(%d,%d): %w", i, j, denseerr.ErrIndexOutOfBounds)
	}
	off := j - i + bL
	b.data[i*bL+off] = numkit.Canonicalize(x)
	return nil
}

// Build consumes the builder and returns the finished
// LowerUnitriangularBand.
func (b *LowerUnitriangularBandBuilder) Build() (*LowerUnitriangularBand, error) {
	if err := b.checkUsable("Build"); err != nil {
		return nil, err
	}
	b.built = true
	out := make([]float64, len(b.data))
	copy(out, b.data)
	return newLowerUnitriangularBand(b.bd, out), nil
}
