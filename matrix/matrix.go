package matrix

import (
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/numkit"
	"github.com/katalvlaran/denseq/vector"
)

// Matrix is the basic polymorphic operator interface every concrete
// matrix representation implements: its shape, and the two linear
// operators Av and A^T v.
type Matrix interface {
	// Dim returns the matrix's shape.
	Dim() dimension.MatrixDim
	// Operate returns A*v. v must satisfy Dim().RightOperable(v.Dim()).
	Operate(v *vector.Vector) (*vector.Vector, error)
	// OperateTranspose returns A^T*v. v must satisfy Dim().LeftOperable(v.Dim()).
	OperateTranspose(v *vector.Vector) (*vector.Vector, error)
	// Transpose returns a matrix representing A^T. For a non-symmetric
	// matrix this is a lazily-created companion whose own Transpose()
	// returns the original (round-trip identity); for a Symmetric matrix
	// it is the receiver itself.
	Transpose() Matrix
}

// Symmetric is implemented by matrices A with OperateTranspose(v) ==
// Operate(v) for all v, and Transpose() == self.
type Symmetric interface {
	Matrix
	symmetricMarker()
}

// Orthogonal is implemented by matrices with Operate(OperateTranspose(v))
// == v (within tolerance) and Inverse() == Transpose().
type Orthogonal interface {
	Matrix
	orthogonalMarker()
}

// Invertible is implemented by matrices that can produce an inverse
// operator B with A.Operate(B.Operate(v)) == v for all compatible v.
type Invertible interface {
	Matrix
	// Inverse returns the inverse operator. Total once the owning
	// factorization exists, since solvers reject singular inputs up
	// front rather than producing an invertible wrapper over one.
	Inverse() Matrix
}

// Determinantable is implemented by matrices that can report their
// determinant as a (sign, log|det|) triple plus the raw value.
type Determinantable interface {
	Matrix
	// Determinant returns sign*exp(logAbsDeterminant()).
	Determinant() float64
	// LogAbsDeterminant returns log|det|, or -Inf if singular.
	LogAbsDeterminant() float64
	// SignOfDeterminant returns -1, 0, or 1.
	SignOfDeterminant() int
}

// EntryReadable is implemented by matrices that support direct entry
// access and an entry-wise max-norm.
type EntryReadable interface {
	Matrix
	// ValueAt returns A[i,j].
	ValueAt(i, j int) (float64, error)
	// EntryNormMax returns the maximum absolute entry.
	EntryNormMax() float64
}

// Band is implemented by matrices stored with bounded bandwidth; entries
// outside the band support are guaranteed zero.
type Band interface {
	Matrix
	// BandDim returns the band shape.
	BandDim() dimension.BandDim
}

// Diagonal marks a matrix whose off-diagonal entries are all zero.
type Diagonal interface {
	Matrix
	diagonalMarker()
}

// LowerUnitriangular marks a lower-triangular matrix with unit diagonal.
type LowerUnitriangular interface {
	Matrix
	lowerUnitriangularMarker()
}

// SignatureCapability marks a diagonal matrix whose diagonal entries are
// all ±1, with cached parity.
type SignatureCapability interface {
	Matrix
	// Parity returns the product of the diagonal signs (+1 or -1).
	Parity() int
}

// PermutationCapability marks an orthogonal matrix representing a row
// permutation, with cached inversion parity.
type PermutationCapability interface {
	Matrix
	// InversionParity returns the sign of the permutation (+1 or -1).
	InversionParity() int
}

// HouseholderReflector marks a matrix of the form I - 2uu^T: it is both
// Symmetric and Orthogonal, and always has determinant -1.
type HouseholderReflector interface {
	Symmetric
	Orthogonal
}

// determinantTriple is a small embeddable helper most Determinantable
// concrete types use to implement Determinant/LogAbsDeterminant/
// SignOfDeterminant from a single cached numkit.Determinant.
type determinantTriple struct {
	det numkit.Determinant
}

func newDeterminantTriple(det numkit.Determinant) determinantTriple {
	return determinantTriple{det: det}
}

func (d determinantTriple) Determinant() float64        { return d.det.Det() }
func (d determinantTriple) LogAbsDeterminant() float64   { return d.det.LogAbsDet() }
func (d determinantTriple) SignOfDeterminant() int        { return d.det.Sign() }
