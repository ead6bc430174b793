// Package vector implements an immutable, finite-dimensional real vector
// with a single-shot builder, elementwise arithmetic, norms, dot product,
// scaled-add, and Euclidean normalization. Storage is a single
// bounds-checked, defensively-copied slice, built once through Builder
// and never mutated afterward.
package vector

import (
	"fmt"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/numkit"
)

// Vector is an immutable, finite-dimensional real vector. Its entries are
// canonicalized on ingress (see numkit.Canonicalize) so that internal
// arithmetic never has to handle NaN/Inf itself. Vectors are safe for
// concurrent use: nothing about them mutates after Builder.Build.
type Vector struct {
	dim     dimension.VectorDim
	entries []float64
	normMax *numkit.Once[float64]
}

func newVector(dim dimension.VectorDim, entries []float64) *Vector {
	v := &Vector{dim: dim, entries: entries}
	v.normMax = numkit.NewOnce(func() float64 {
		return numkit.NormMax(v.entries)
	})
	return v
}

// Dim returns the vector's dimension.
func (v *Vector) Dim() dimension.VectorDim { return v.dim }

// ValueAt returns the i-th entry (0-indexed), or ErrIndexOutOfBounds if i
// is out of range.
func (v *Vector) ValueAt(i int) (float64, error) {
	if i < 0 || i >= v.dim.N() {
		return 0, fmt.Errorf("Vector.ValueAt(%d): %w", i, denseerr.ErrIndexOutOfBounds)
	}
	return v.entries[i], nil
}

// EntryAsArray returns a defensive copy of the backing entries, so callers
// cannot alias or mutate the vector's internal storage.
func (v *Vector) EntryAsArray() []float64 {
	out := make([]float64, len(v.entries))
	copy(out, v.entries)
	return out
}

// NormMax returns the cached maximum absolute entry.
func (v *Vector) NormMax() float64 { return v.normMax.Get() }

func sameDim(a, b *Vector) error {
	if a == nil || b == nil {
		return denseerr.ErrNullArgument
	}
	if !a.dim.Equals(b.dim) {
		return fmt.Errorf("vector dims %d vs %d: %w", a.dim.N(), b.dim.N(), denseerr.ErrMatrixFormatMismatch)
	}
	return nil
}

// PlusCTimes returns this + c*u as a new Vector.
func (v *Vector) PlusCTimes(u *Vector, c float64) (*Vector, error) {
	if err := sameDim(v, u); err != nil {
		return nil, fmt.Errorf("Vector.PlusCTimes: %w", err)
	}
	out := make([]float64, v.dim.N())
	for i, x := range v.entries {
		out[i] = x + c*u.entries[i]
	}
	return newVector(v.dim, out), nil
}

// Plus returns this + u as a new Vector.
func (v *Vector) Plus(u *Vector) (*Vector, error) {
	result, err := v.PlusCTimes(u, 1)
	if err != nil {
		return nil, fmt.Errorf("Vector.Plus: %w", err)
	}
	return result, nil
}

// Minus returns this - u as a new Vector, defined as PlusCTimes(u, -1).
func (v *Vector) Minus(u *Vector) (*Vector, error) {
	result, err := v.PlusCTimes(u, -1)
	if err != nil {
		return nil, fmt.Errorf("Vector.Minus: %w", err)
	}
	return result, nil
}

// Dot returns the inner product of this and u.
func (v *Vector) Dot(u *Vector) (float64, error) {
	if err := sameDim(v, u); err != nil {
		return 0, fmt.Errorf("Vector.Dot: %w", err)
	}
	return numkit.Dot(v.entries, u.entries), nil
}

// Times returns this scaled by c as a new Vector.
func (v *Vector) Times(c float64) *Vector {
	out := make([]float64, v.dim.N())
	for i, x := range v.entries {
		out[i] = c * x
	}
	return newVector(v.dim, out)
}

// Negated returns -this as a new Vector.
func (v *Vector) Negated() *Vector { return v.Times(-1) }

// Norm1 returns the 1-norm (sum of absolute values).
func (v *Vector) Norm1() float64 { return numkit.Norm1(v.entries) }

// Norm2Square returns the squared Euclidean norm, computed with the same
// rescaling Norm2 uses so intermediate squares cannot overflow.
func (v *Vector) Norm2Square() float64 {
	n := v.Norm2()
	return n * n
}

// Norm2 returns the Euclidean norm, computed by rescaling against the
// cached NormMax (a Blue-like algorithm) so that sums of squares cannot
// overflow or underflow even near the edges of float64 range.
func (v *Vector) Norm2() float64 {
	return numkit.Norm2Rescaled(v.entries, v.NormMax())
}

// NormMaxValue returns the max-norm, an alias kept for symmetry with
// Norm1/Norm2 alongside the cached accessor NormMax.
func (v *Vector) NormMaxValue() float64 { return v.NormMax() }

// NormalizedEuclidean returns this / ||this||_2 as a new Vector. When the
// vector is exactly zero (NormMax() == 0) it returns this unchanged
// rather than dividing by zero.
func (v *Vector) NormalizedEuclidean() *Vector {
	if v.NormMax() == 0 {
		return v
	}
	return v.Times(1 / v.Norm2())
}

// String renders v as a bracketed, comma-separated list, e.g. "[1, 2, 3]".
func (v *Vector) String() string {
	s := "["
	for i, x := range v.entries {
		s += fmt.Sprintf("%g", x)
		if i < len(v.entries)-1 {
			s += ", "
		}
	}
	return s + "]"
}

// Equal reports whether v and other have the same dimension and
// identical entries.
func (v *Vector) Equal(other *Vector) bool {
	return v.EqualApprox(other, 0)
}

// EqualApprox reports whether v and other have the same dimension and
// every entry differs by at most tol.
func (v *Vector) EqualApprox(other *Vector, tol float64) bool {
	if other == nil || v.dim.N() != other.dim.N() {
		return false
	}
	for i, x := range v.entries {
		d := x - other.entries[i]
		if d < 0 {
			d = -d
		}
		if d > tol {
			return false
		}
	}
	return true
}
