// Package denseerr collects the sentinel errors shared by every layer of
// denseq, from dimension validation up through the solver executors.
//
// Error policy (explicit and strict):
//   - Only sentinel variables are exposed; callers branch with errors.Is.
//   - Sentinels are never stringified with dynamic context at their
//     definition site; call sites wrap them with fmt.Errorf("...: %w", ...)
//     when extra context (index, dimension, method name) is useful.
//   - Validation failures are returned, never panicked: only numerical
//     process failure (rank deficiency, non-PD, non-full-rank) is modeled
//     as an absent result rather than an error.
package denseerr

import "errors"

var (
	// ErrMatrixFormatMismatch indicates incompatible dimensions between an
	// operator and the vector/matrix it is applied to, or between the
	// operands of a structural combinator (block, product, transpose).
	ErrMatrixFormatMismatch = errors.New("denseq: matrix format mismatch")

	// ErrMatrixNotSymmetric indicates a solver that requires a Symmetric
	// capability was handed a matrix that does not carry it.
	ErrMatrixNotSymmetric = errors.New("denseq: matrix is not symmetric")

	// ErrElementsTooMany indicates a requested dense or band allocation
	// would exceed the package's addressable-storage capacity bound.
	ErrElementsTooMany = errors.New("denseq: too many elements for storage")

	// ErrIndexOutOfBounds indicates a builder or accessor index fell
	// outside the valid support region (full range, band, or triangle).
	ErrIndexOutOfBounds = errors.New("denseq: index out of bounds")

	// ErrIllegalArgument indicates an invalid argument to a constructor or
	// method call, e.g. a negative epsilon, a zero-norm reflection vector,
	// or a re-used single-shot builder.
	ErrIllegalArgument = errors.New("denseq: illegal argument")

	// ErrNullArgument indicates a required argument was nil/absent.
	ErrNullArgument = errors.New("denseq: null argument")

	// ErrIllegalState indicates a builder was used after build() consumed
	// it, or an immutable object was asked to mutate.
	ErrIllegalState = errors.New("denseq: illegal state")
)
