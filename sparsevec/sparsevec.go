// Package sparsevec provides the SparseVector capability and a concrete
// local-range implementation: a vector whose nonzero entries all lie in
// one contiguous index range. This is the storage banded Householder
// reflectors use, since a banded reflector only ever touches a bounded
// column span instead of the whole vector.
//
// This is intentionally the only sparse representation in scope; general
// CSR/COO sparse vectors are out of scope.
package sparsevec

import (
	"fmt"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/numkit"
	"github.com/katalvlaran/denseq/vector"
)

// SparseVector is a finite-dimensional real vector whose nonzero support
// may be a proper subset of [0, dim). Implementations expose enough to
// dot against, and accumulate into, a dense vector.Vector without the
// caller needing to materialize the full dense vector first.
type SparseVector interface {
	// Dim returns the vector's dimension.
	Dim() dimension.VectorDim
	// ValueAt returns the i-th entry, 0 for indices outside the support.
	ValueAt(i int) (float64, error)
	// DotDense returns the inner product of this sparse vector and a dense
	// vector.Vector of the same dimension.
	DotDense(v *vector.Vector) (float64, error)
	// ToVector materializes this sparse vector as a dense vector.Vector.
	ToVector() (*vector.Vector, error)
}

// LocalRangeVector is a SparseVector whose nonzero entries occupy the
// contiguous range [start, start+len(values)).
type LocalRangeVector struct {
	dim    dimension.VectorDim
	start  int
	values []float64
}

// NewLocalRangeVector validates start/values against dim and constructs a
// LocalRangeVector. values is defensively copied and canonicalized.
func NewLocalRangeVector(dim dimension.VectorDim, start int, values []float64) (*LocalRangeVector, error) {
	if start < 0 || start+len(values) > dim.N() {
		return nil, fmt.Errorf("sparsevec.NewLocalRangeVector: range [%d,%d) outside dim %d: %w",
			start, start+len(values), dim.N(), denseerr.ErrIndexOutOfBounds)
	}
	out := make([]float64, len(values))
	for i, x := range values {
		out[i] = numkit.Canonicalize(x)
	}
	return &LocalRangeVector{dim: dim, start: start, values: out}, nil
}

var _ SparseVector = (*LocalRangeVector)(nil)

// Dim returns the vector's dimension.
func (l *LocalRangeVector) Dim() dimension.VectorDim { return l.dim }

// Start returns the index of the first element of the nonzero support.
func (l *LocalRangeVector) Start() int { return l.start }

// End returns the index just past the nonzero support.
func (l *LocalRangeVector) End() int { return l.start + len(l.values) }

// ValueAt returns the i-th entry, 0 outside [Start, End).
func (l *LocalRangeVector) ValueAt(i int) (float64, error) {
	if i < 0 || i >= l.dim.N() {
		return 0, fmt.Errorf("sparsevec.LocalRangeVector.ValueAt(%d): %w", i, denseerr.ErrIndexOutOfBounds)
	}
	if i < l.start || i >= l.End() {
		return 0, nil
	}
	return l.values[i-l.start], nil
}

// DotDense returns the inner product of this vector and v, walking only
// the local nonzero range rather than the full dimension.
func (l *LocalRangeVector) DotDense(v *vector.Vector) (float64, error) {
	if v == nil {
		return 0, denseerr.ErrNullArgument
	}
	if !v.Dim().Equals(l.dim) {
		return 0, fmt.Errorf("sparsevec.LocalRangeVector.DotDense: %w", denseerr.ErrMatrixFormatMismatch)
	}
	var sum float64
	for i, lv := range l.values {
		vx, err := v.ValueAt(l.start + i)
		if err != nil {
			return 0, err
		}
		sum += lv * vx
	}
	return sum, nil
}

// AddScaledTo returns v + c*this as a new dense vector.Vector, touching
// only the local nonzero range.
func (l *LocalRangeVector) AddScaledTo(v *vector.Vector, c float64) (*vector.Vector, error) {
	if v == nil {
		return nil, denseerr.ErrNullArgument
	}
	if !v.Dim().Equals(l.dim) {
		return nil, fmt.Errorf("sparsevec.LocalRangeVector.AddScaledTo: %w", denseerr.ErrMatrixFormatMismatch)
	}
	out := v.EntryAsArray()
	for i, lv := range l.values {
		out[l.start+i] += c * lv
	}
	b := vector.ZeroBuilder(l.dim)
	if err := b.SetEntryValue(out); err != nil {
		return nil, err
	}
	return b.Build()
}

// ToVector materializes this sparse vector as a dense vector.Vector.
func (l *LocalRangeVector) ToVector() (*vector.Vector, error) {
	out := make([]float64, l.dim.N())
	for i, lv := range l.values {
		out[l.start+i] = lv
	}
	b := vector.ZeroBuilder(l.dim)
	if err := b.SetEntryValue(out); err != nil {
		return nil, err
	}
	return b.Build()
}

// NormMax returns the maximum absolute value among the local nonzero
// entries (0 outside the support cannot exceed this).
func (l *LocalRangeVector) NormMax() float64 {
	return numkit.NormMax(l.values)
}

// Norm2 returns the overflow-safe Euclidean norm of the local entries.
func (l *LocalRangeVector) Norm2() float64 {
	return numkit.Norm2(l.values)
}
