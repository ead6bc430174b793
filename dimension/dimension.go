// Package dimension defines the value types used to describe the shape of
// vectors and matrices (full, banded) together with the size-capacity
// checks that keep dense and band storage from overflowing addressable
// memory, and the Acceptance sum type solver executors use to report
// whether they can process a given matrix.
//
// Stage discipline: every constructor here follows the same
// validate-then-construct shape used throughout the module's fail-fast
// validators.
package dimension

import "github.com/katalvlaran/denseq/denseerr"

// MaxDenseElements bounds r*c for dense (and r*c for band: n*(bL+bU+1))
// storage so that a requested allocation cannot silently overflow an int
// or exhaust addressable memory. It is deliberately generous for a
// single-threaded, double-precision kernel: 2^27 entries is 1GiB of
// float64 storage.
const MaxDenseElements = 1 << 27

// MaxN is the largest permitted vector dimension or matrix row/column
// count, independent of the dense-capacity check above (a tall skinny
// band matrix can have huge n with small bL+bU).
const MaxN = 1 << 30

// VectorDim is the dimension of a finite-dimensional real vector: a
// positive integer n. Two VectorDim values are equal iff their n agree.
type VectorDim struct {
	n int
}

// NewVectorDim validates n and returns the corresponding VectorDim.
func NewVectorDim(n int) (VectorDim, error) {
	if n < 1 || n > MaxN {
		return VectorDim{}, denseerr.ErrIllegalArgument
	}
	return VectorDim{n: n}, nil
}

// N returns the vector length.
func (d VectorDim) N() int { return d.n }

// Equals reports whether d and other describe the same length.
func (d VectorDim) Equals(other VectorDim) bool { return d.n == other.n }

// MatrixDim is the shape (r, c) of a matrix, each in [1, MaxN].
type MatrixDim struct {
	r, c int
}

// NewMatrixDim validates r and c and returns the corresponding MatrixDim.
func NewMatrixDim(r, c int) (MatrixDim, error) {
	if r < 1 || r > MaxN || c < 1 || c > MaxN {
		return MatrixDim{}, denseerr.ErrIllegalArgument
	}
	return MatrixDim{r: r, c: c}, nil
}

// Rows returns the row count.
func (d MatrixDim) Rows() int { return d.r }

// Cols returns the column count.
func (d MatrixDim) Cols() int { return d.c }

// Square reports whether r == c.
func (d MatrixDim) Square() bool { return d.r == d.c }

// Horizontal reports whether r < c (wider than tall).
func (d MatrixDim) Horizontal() bool { return d.r < d.c }

// Vertical reports whether r > c (taller than wide).
func (d MatrixDim) Vertical() bool { return d.r > d.c }

// RightOperable reports whether a vector of dimension vd can be supplied
// to Operate (i.e. vd.N() == c).
func (d MatrixDim) RightOperable(vd VectorDim) bool { return vd.n == d.c }

// LeftOperable reports whether a vector of dimension vd can be supplied
// to OperateTranspose (i.e. vd.N() == r).
func (d MatrixDim) LeftOperable(vd VectorDim) bool { return vd.n == d.r }

// Transpose returns the dimension of the transposed matrix.
func (d MatrixDim) Transpose() MatrixDim { return MatrixDim{r: d.c, c: d.r} }

// Equals reports whether d and other describe the same shape.
func (d MatrixDim) Equals(other MatrixDim) bool { return d.r == other.r && d.c == other.c }

// AcceptedForDenseMatrix reports whether r*c fits within MaxDenseElements,
// so that dense row-major storage cannot overflow addressable memory.
func (d MatrixDim) AcceptedForDenseMatrix() bool {
	return int64(d.r)*int64(d.c) <= MaxDenseElements
}

// RowVectorDim returns the VectorDim compatible with Operate's argument.
func (d MatrixDim) RowVectorDim() (VectorDim, error) { return NewVectorDim(d.c) }

// ColVectorDim returns the VectorDim compatible with OperateTranspose's argument.
func (d MatrixDim) ColVectorDim() (VectorDim, error) { return NewVectorDim(d.r) }
