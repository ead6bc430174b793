package dimension

import "github.com/katalvlaran/denseq/denseerr"

// Position classifies an (i, j) entry of a band matrix relative to its
// band support.
type Position int

const (
	// Diagonal marks i == j.
	Diagonal Position = iota
	// LowerBand marks an entry strictly below the diagonal but within bL.
	LowerBand
	// UpperBand marks an entry strictly above the diagonal but within bU.
	UpperBand
	// OutOfBand marks an in-matrix entry outside the band support (must be 0).
	OutOfBand
	// OutOfMatrix marks an (i, j) outside [0, n) x [0, n) entirely.
	OutOfMatrix
)

// BandDim is the shape of a square band matrix: order n with lower
// bandwidth bL and upper bandwidth bU, 0 <= bL, bU <= n-1.
type BandDim struct {
	n, bL, bU int
}

// NewBandDim validates n, bL, bU and returns the corresponding BandDim.
func NewBandDim(n, bL, bU int) (BandDim, error) {
	if n < 1 || n > MaxN {
		return BandDim{}, denseerr.ErrIllegalArgument
	}
	if bL < 0 || bU < 0 || bL > n-1 || bU > n-1 {
		return BandDim{}, denseerr.ErrIllegalArgument
	}
	return BandDim{n: n, bL: bL, bU: bU}, nil
}

// N returns the matrix order.
func (d BandDim) N() int { return d.n }

// LowerWidth returns bL.
func (d BandDim) LowerWidth() int { return d.bL }

// UpperWidth returns bU.
func (d BandDim) UpperWidth() int { return d.bU }

// Symmetric reports whether bL == bU.
func (d BandDim) Symmetric() bool { return d.bL == d.bU }

// Transpose returns the BandDim with lower and upper widths swapped.
func (d BandDim) Transpose() BandDim { return BandDim{n: d.n, bL: d.bU, bU: d.bL} }

// MatrixDim returns the equivalent square MatrixDim.
func (d BandDim) MatrixDim() MatrixDim { return MatrixDim{r: d.n, c: d.n} }

// Equals reports whether d and other describe the same band shape.
func (d BandDim) Equals(other BandDim) bool {
	return d.n == other.n && d.bL == other.bL && d.bU == other.bU
}

// Position classifies (i, j) against this band's support.
func (d BandDim) Position(i, j int) Position {
	if i < 0 || j < 0 || i >= d.n || j >= d.n {
		return OutOfMatrix
	}
	diff := i - j
	switch {
	case diff == 0:
		return Diagonal
	case diff > 0:
		if diff <= d.bL {
			return LowerBand
		}
		return OutOfBand
	default:
		if -diff <= d.bU {
			return UpperBand
		}
		return OutOfBand
	}
}

// InBand reports whether (i, j) is within the matrix and within the band
// support (diagonal, lower, or upper band).
func (d BandDim) InBand(i, j int) bool {
	switch d.Position(i, j) {
	case Diagonal, LowerBand, UpperBand:
		return true
	default:
		return false
	}
}

// AcceptedForBandMatrix reports whether n*(bL+bU+1) fits MaxDenseElements,
// bounding band-packed storage the same way AcceptedForDenseMatrix bounds
// row-major storage.
func (d BandDim) AcceptedForBandMatrix() bool {
	width := int64(d.bL) + int64(d.bU) + 1
	return int64(d.n)*width <= MaxDenseElements
}
