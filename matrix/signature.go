package matrix

import (
	"fmt"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/numkit"
	"github.com/katalvlaran/denseq/vector"
)

// SignatureMatrix is a diagonal matrix whose diagonal entries are all
// exactly +1 or -1. The product of the diagonal signs is cached as the
// matrix's parity.
type SignatureMatrix struct {
	signs  []int8
	parity *numkit.Once[int]
}

var (
	_ Matrix              = (*SignatureMatrix)(nil)
	_ Symmetric           = (*SignatureMatrix)(nil)
	_ Orthogonal          = (*SignatureMatrix)(nil)
	_ Diagonal            = (*SignatureMatrix)(nil)
	_ SignatureCapability = (*SignatureMatrix)(nil)
	_ EntryReadable       = (*SignatureMatrix)(nil)
	_ Determinantable     = (*SignatureMatrix)(nil)
	_ Invertible          = (*SignatureMatrix)(nil)
)

func newSignatureMatrix(signs []int8) *SignatureMatrix {
	m := &SignatureMatrix{signs: signs}
	m.parity = numkit.NewOnce(func() int {
		p := 1
		for _, s := range m.signs {
			p *= int(s)
		}
		return p
	})
	return m
}

func (m *SignatureMatrix) symmetricMarker()  {}
func (m *SignatureMatrix) orthogonalMarker() {}
func (m *SignatureMatrix) diagonalMarker()   {}

// Dim returns the matrix's (square) shape.
func (m *SignatureMatrix) Dim() dimension.MatrixDim {
	d, _ := dimension.NewMatrixDim(len(m.signs), len(m.signs))
	return d
}

// Parity returns the product of the diagonal signs.
func (m *SignatureMatrix) Parity() int { return m.parity.Get() }

// ValueAt returns A[i,j].
func (m *SignatureMatrix) ValueAt(i, j int) (float64, error) {
	n := len(m.signs)
	if i < 0 || i >= n || j < 0 || j >= n {
		return 0, fmt.Errorf("SignatureMatrix.ValueAt(%d,%d): %w", i, j, denseerr.ErrIndexOutOfBounds)
	}
	if i != j {
		return 0, nil
	}
	return float64(m.signs[i]), nil
}

// EntryNormMax is always 1 for a nonempty signature matrix.
func (m *SignatureMatrix) EntryNormMax() float64 { return 1 }

// Operate returns A*v, flipping signs per entry.
func (m *SignatureMatrix) Operate(v *vector.Vector) (*vector.Vector, error) {
	if v == nil {
		return nil, denseerr.ErrNullArgument
	}
	vd, _ := dimension.NewVectorDim(len(m.signs))
	if !v.Dim().Equals(vd) {
		return nil, fmt.Errorf("SignatureMatrix.Operate: %w", denseerr.ErrMatrixFormatMismatch)
	}
	x := v.EntryAsArray()
	out := make([]float64, len(m.signs))
	for i, s := range m.signs {
		out[i] = float64(s) * x[i]
	}
	b := vector.ZeroBuilder(vd)
	if err := b.SetEntryValue(out); err != nil {
		return nil, err
	}
	return b.Build()
}

// OperateTranspose is identical to Operate.
func (m *SignatureMatrix) OperateTranspose(v *vector.Vector) (*vector.Vector, error) {
	return m.Operate(v)
}

// Transpose returns the receiver itself.
func (m *SignatureMatrix) Transpose() Matrix { return m }

// Inverse returns the receiver itself: a signature matrix is its own
// inverse.
func (m *SignatureMatrix) Inverse() Matrix { return m }

// Determinant returns the product of the diagonal signs.
func (m *SignatureMatrix) Determinant() float64 { return float64(m.Parity()) }

// LogAbsDeterminant is always 0 (|det| == 1).
func (m *SignatureMatrix) LogAbsDeterminant() float64 { return 0 }

// SignOfDeterminant returns the cached parity.
func (m *SignatureMatrix) SignOfDeterminant() int { return m.Parity() }

// SignatureBuilder builds a SignatureMatrix one sign at a time.
type SignatureBuilder struct {
	signs []int8
	built bool
}

// NewSignatureBuilder returns a SignatureBuilder for an n by n signature
// matrix, pre-populated with +1 signs.
func NewSignatureBuilder(n int) (*SignatureBuilder, error) {
	if n < 1 {
		return nil, denseerr.ErrIllegalArgument
	}
	signs := make([]int8, n)
	for i := range signs {
		signs[i] = 1
	}
	return &SignatureBuilder{signs: signs}, nil
}

func (b *SignatureBuilder) checkUsable(method string) error {
	if b.built {
		return fmt.Errorf("matrix.SignatureBuilder.%s: %w", method, denseerr.ErrIllegalState)
	}
	return nil
}

// SetSign sets the i-th diagonal sign; positive is treated as +1,
// non-positive as -1.
func (b *SignatureBuilder) SetSign(i int, positive bool) error {
	if err := b.checkUsable("SetSign"); err != nil {
		return err
	}
	if i < 0 || i >= len(b.signs) {
		return fmt.Errorf("matrix.SignatureBuilder.SetSign(%d): %w", i, denseerr.ErrIndexOutOfBounds)
	}
	if positive {
		b.signs[i] = 1
	} else {
		b.signs[i] = -1
	}
	return nil
}

// Build consumes the builder and returns the finished SignatureMatrix.
func (b *SignatureBuilder) Build() (*SignatureMatrix, error) {
	if err := b.checkUsable("Build"); err != nil {
		return nil, err
	}
	b.built = true
	out := make([]int8, len(b.signs))
	copy(out, b.signs)
	return newSignatureMatrix(out), nil
}
