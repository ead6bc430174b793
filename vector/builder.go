package vector

import (
	"fmt"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/numkit"
)

// Builder constructs a Vector one entry (or one bulk array) at a time.
// Builder is single-use: once Build() succeeds the builder is consumed
// and further mutator calls return ErrIllegalState. Builder is not safe
// for concurrent use.
type Builder struct {
	dim     dimension.VectorDim
	entries []float64
	built   bool
}

// ZeroBuilder returns a Builder for dim, pre-populated with zeros.
func ZeroBuilder(dim dimension.VectorDim) *Builder {
	return &Builder{dim: dim, entries: make([]float64, dim.N())}
}

func (b *Builder) checkUsable(method string) error {
	if b.built {
		return fmt.Errorf("vector.Builder.%s: %w", method, denseerr.ErrIllegalState)
	}
	return nil
}

// SetValue sets entry i to x, canonicalizing x (see numkit.Canonicalize)
// if it is not already finite.
func (b *Builder) SetValue(i int, x float64) error {
	if err := b.checkUsable("SetValue"); err != nil {
		return err
	}
	if i < 0 || i >= b.dim.N() {
		return fmt.Errorf("vector.Builder.SetValue(%d): %w", i, denseerr.ErrIndexOutOfBounds)
	}
	b.entries[i] = numkit.Canonicalize(x)
	return nil
}

// SetValueOrElseThrow sets entry i to x if x is already canonical
// (finite); otherwise it returns the error produced by errSupplier
// instead of silently canonicalizing.
func (b *Builder) SetValueOrElseThrow(i int, x float64, errSupplier func(x float64) error) error {
	if err := b.checkUsable("SetValueOrElseThrow"); err != nil {
		return err
	}
	if i < 0 || i >= b.dim.N() {
		return fmt.Errorf("vector.Builder.SetValueOrElseThrow(%d): %w", i, denseerr.ErrIndexOutOfBounds)
	}
	if !numkit.IsCanonical(x) {
		return errSupplier(x)
	}
	b.entries[i] = x
	return nil
}

// SetEntryValue bulk-replaces all entries from xs, which is defensively
// copied and canonicalized entry-by-entry. len(xs) must equal the
// builder's dimension.
func (b *Builder) SetEntryValue(xs []float64) error {
	if err := b.checkUsable("SetEntryValue"); err != nil {
		return err
	}
	if len(xs) != b.dim.N() {
		return fmt.Errorf("vector.Builder.SetEntryValue: len %d vs dim %d: %w", len(xs), b.dim.N(), denseerr.ErrMatrixFormatMismatch)
	}
	for i, x := range xs {
		b.entries[i] = numkit.Canonicalize(x)
	}
	return nil
}

// Build consumes the builder and returns the finished Vector. A second
// call to Build, or any mutator call after Build, returns ErrIllegalState.
func (b *Builder) Build() (*Vector, error) {
	if err := b.checkUsable("Build"); err != nil {
		return nil, err
	}
	b.built = true
	out := make([]float64, len(b.entries))
	copy(out, b.entries)
	return newVector(b.dim, out), nil
}
