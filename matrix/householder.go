package matrix

import (
	"math"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/vector"
)

// reflectionSource abstracts the normalized reflection vector u backing a
// HouseholderMatrix, letting the same H = I - 2uu^T logic run whether u is
// stored densely or as a local-range sparse vector.
type reflectionSource interface {
	Dim() dimension.VectorDim
	DotDense(v *vector.Vector) (float64, error)
	AddScaledTo(v *vector.Vector, c float64) (*vector.Vector, error)
}

type denseReflection struct{ u *vector.Vector }

func (d denseReflection) Dim() dimension.VectorDim { return d.u.Dim() }
func (d denseReflection) DotDense(v *vector.Vector) (float64, error) {
	return d.u.Dot(v)
}
func (d denseReflection) AddScaledTo(v *vector.Vector, c float64) (*vector.Vector, error) {
	return v.PlusCTimes(d.u, c)
}

// HouseholderMatrix represents H = I - 2uu^T for a normalized vector u.
// It is always symmetric, orthogonal, and has determinant -1.
type HouseholderMatrix struct {
	dim dimension.MatrixDim
	u   reflectionSource
}

var (
	_ Matrix              = (*HouseholderMatrix)(nil)
	_ HouseholderReflector = (*HouseholderMatrix)(nil)
	_ Determinantable     = (*HouseholderMatrix)(nil)
	_ Invertible          = (*HouseholderMatrix)(nil)
)

func (m *HouseholderMatrix) symmetricMarker()  {}
func (m *HouseholderMatrix) orthogonalMarker() {}

// NewHouseholderFromDense builds a HouseholderMatrix from a dense
// normalized reflection vector u.
func NewHouseholderFromDense(u *vector.Vector) (*HouseholderMatrix, error) {
	if u == nil {
		return nil, denseerr.ErrNullArgument
	}
	n := u.Dim().N()
	dim, err := dimension.NewMatrixDim(n, n)
	if err != nil {
		return nil, err
	}
	return &HouseholderMatrix{dim: dim, u: denseReflection{u: u}}, nil
}

// NewHouseholderFromSparse builds a HouseholderMatrix from a (typically
// local-range) sparse normalized reflection vector u.
func NewHouseholderFromSparse(u reflectionSource) (*HouseholderMatrix, error) {
	if u == nil {
		return nil, denseerr.ErrNullArgument
	}
	n := u.Dim().N()
	dim, err := dimension.NewMatrixDim(n, n)
	if err != nil {
		return nil, err
	}
	return &HouseholderMatrix{dim: dim, u: u}, nil
}

// Dim returns the matrix's (square) shape.
func (m *HouseholderMatrix) Dim() dimension.MatrixDim { return m.dim }

// Operate computes v - 2(u.v)u.
func (m *HouseholderMatrix) Operate(v *vector.Vector) (*vector.Vector, error) {
	if v == nil {
		return nil, denseerr.ErrNullArgument
	}
	c, err := m.u.DotDense(v)
	if err != nil {
		return nil, err
	}
	return m.u.AddScaledTo(v, -2*c)
}

// OperateTranspose is identical to Operate since H is symmetric.
func (m *HouseholderMatrix) OperateTranspose(v *vector.Vector) (*vector.Vector, error) {
	return m.Operate(v)
}

// Transpose returns the receiver itself.
func (m *HouseholderMatrix) Transpose() Matrix { return m }

// Inverse returns the receiver itself: H is its own inverse.
func (m *HouseholderMatrix) Inverse() Matrix { return m }

// Determinant is always -1.
func (m *HouseholderMatrix) Determinant() float64 { return -1 }

// LogAbsDeterminant is always 0 (|det| == 1).
func (m *HouseholderMatrix) LogAbsDeterminant() float64 { return 0 }

// SignOfDeterminant is always -1.
func (m *HouseholderMatrix) SignOfDeterminant() int { return -1 }

// ReflectionVectorFromColumn builds the normalized Householder reflection
// vector that zeros all but the leading entry of column, using the
// numerically-stable formulation: when the leading component p0 is
// non-positive, the pivot shift is p0 - 1 (scaled by the column norm);
// otherwise the shift is computed as -sum(p[1:]^2) / (1 + sqrt(1 - sum))
// to avoid catastrophic cancellation subtracting two nearly-equal
// positive quantities.
func ReflectionVectorFromColumn(column []float64) ([]float64, bool) {
	n := len(column)
	if n == 0 {
		return nil, false
	}
	if n == 1 {
		// The 1-dimensional reflector is always the singleton [-1],
		// independent of the input value.
		return []float64{1}, true
	}
	var normSq float64
	for _, x := range column {
		normSq += x * x
	}
	norm := math.Sqrt(normSq)
	if norm == 0 {
		return nil, false
	}
	p := make([]float64, n)
	for i, x := range column {
		p[i] = x / norm
	}
	var tailSq float64
	for _, x := range p[1:] {
		tailSq += x * x
	}
	var shift float64
	if p[0] <= 0 {
		shift = p[0] - 1
	} else {
		shift = -tailSq / (1 + math.Sqrt(1-tailSq))
	}
	u := make([]float64, n)
	u[0] = shift
	copy(u[1:], p[1:])
	var uNormSq float64
	for _, x := range u {
		uNormSq += x * x
	}
	uNorm := math.Sqrt(uNormSq)
	if uNorm == 0 {
		// column is already a positive multiple of e0: the reflector
		// along e1, orthogonal to e0, leaves it in place.
		u[1] = 1
		return u, true
	}
	for i := range u {
		u[i] /= uNorm
	}
	return u, true
}

// FromSourceToTarget builds a single Householder reflector H such that
// H.Operate(source) is parallel to target (both already unit vectors),
// via the composite H1 H2 H1 construction collapsed algebraically: H1
// reflects source to the first standard basis vector e0, H2 reflects e0
// to target, and the product collapses to the single reflector carrying
// source directly to target, u = normalize(source - target). When
// source == target, diff is the zero vector and no reflector (a
// well-defined one has no unique mirror plane through a null direction)
// can be built; this is rejected rather than silently returning a
// degenerate identity-behaving matrix that would still claim det == -1.
func FromSourceToTarget(source, target *vector.Vector) (*HouseholderMatrix, error) {
	if source == nil || target == nil {
		return nil, denseerr.ErrNullArgument
	}
	diff, err := source.Minus(target)
	if err != nil {
		return nil, err
	}
	if diff.NormMax() == 0 {
		return nil, denseerr.ErrIllegalArgument
	}
	u := diff.NormalizedEuclidean()
	return NewHouseholderFromDense(u)
}
