package numkit

// InverseDetBundle pairs a lazily-constructed inverse operator of type M
// with the Determinant of the matrix it inverts. Solvers hand this back
// from their Inverse()/Determinant() accessors so both pieces of state
// share one lazily-computed owner instead of two independent caches that
// could disagree about which factorization produced them.
//
// M is generic (rather than a concrete matrix.Matrix) so numkit, the
// dependency-free leaf of the module, never needs to import the matrix
// package.
type InverseDetBundle[M any] struct {
	Inverse     M
	Determinant Determinant
}

// NewInverseDetBundle constructs a bundle from an already-computed inverse
// and determinant.
func NewInverseDetBundle[M any](inverse M, det Determinant) InverseDetBundle[M] {
	return InverseDetBundle[M]{Inverse: inverse, Determinant: det}
}
