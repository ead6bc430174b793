// Package solver implements the direct factorization executors: LU with
// partial pivoting (dense and banded), Cholesky (dense and banded) for
// symmetric positive-definite systems, modified Cholesky with 1x1/2x2
// block pivoting (dense and banded) for symmetric indefinite systems, and
// Householder QR (dense and banded) for column-full-rank systems. Each
// executor validates its input via Accepts, factors it via Apply, and
// hands back a factorization object exposing inverse/determinant access.
package solver

import (
	"math"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
)

// DefaultEpsilon is the tolerance Apply uses when the caller does not
// supply one.
const DefaultEpsilon = 1e-12

// StabilityAnchor is added to the scaled tolerance epsilon*scale inside
// every solver's pivot/rank acceptance check, so a caller-supplied epsilon
// of exactly 0 still rejects truly degenerate pivots.
const StabilityAnchor = 1e-100

// checkEpsilon validates that epsilon is finite and non-negative.
func checkEpsilon(epsilon float64) error {
	if epsilon < 0 || epsilon != epsilon || math.IsInf(epsilon, 1) {
		return denseerr.ErrIllegalArgument
	}
	return nil
}

// acceptSquare rejects non-square input, mirroring the dense/band
// capacity checks every executor performs before factoring.
func acceptSquare(dim dimension.MatrixDim) dimension.Acceptance {
	if !dim.Square() {
		return dimension.Rejected(denseerr.ErrMatrixFormatMismatch)
	}
	return dimension.Accepted()
}
