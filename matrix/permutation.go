package matrix

import (
	"fmt"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/numkit"
	"github.com/katalvlaran/denseq/vector"
)

// PermutationMatrix represents A[i, pi(i)] = 1 for a permutation pi of
// [0,n). Inversion parity (the sign of the permutation) is cached.
type PermutationMatrix struct {
	pi      []int
	piInv   []int
	parity  *numkit.Once[int]
	t       lazyTranspose
}

var (
	_ Matrix                 = (*PermutationMatrix)(nil)
	_ Orthogonal             = (*PermutationMatrix)(nil)
	_ PermutationCapability  = (*PermutationMatrix)(nil)
	_ EntryReadable          = (*PermutationMatrix)(nil)
	_ Invertible             = (*PermutationMatrix)(nil)
)

func newPermutationMatrix(pi []int) *PermutationMatrix {
	piInv := make([]int, len(pi))
	for i, p := range pi {
		piInv[p] = i
	}
	m := &PermutationMatrix{pi: pi, piInv: piInv}
	m.parity = numkit.NewOnce(func() int { return permutationParity(m.pi) })
	m.t = newLazyTranspose(func() Matrix { return newPermutationMatrix(piInv) })
	return m
}

// permutationParity computes the sign of a permutation by counting
// transpositions via cycle decomposition: a cycle of length L contributes
// sign (-1)^(L-1).
func permutationParity(pi []int) int {
	n := len(pi)
	visited := make([]bool, n)
	sign := 1
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		cycleLen := 0
		j := i
		for !visited[j] {
			visited[j] = true
			j = pi[j]
			cycleLen++
		}
		if cycleLen%2 == 0 {
			sign = -sign
		}
	}
	return sign
}

func (m *PermutationMatrix) orthogonalMarker() {}

// Dim returns the matrix's (square) shape.
func (m *PermutationMatrix) Dim() dimension.MatrixDim {
	d, _ := dimension.NewMatrixDim(len(m.pi), len(m.pi))
	return d
}

// InversionParity returns the sign of the permutation.
func (m *PermutationMatrix) InversionParity() int { return m.parity.Get() }

// ValueAt returns A[i,j].
func (m *PermutationMatrix) ValueAt(i, j int) (float64, error) {
	n := len(m.pi)
	if i < 0 || i >= n || j < 0 || j >= n {
		return 0, fmt.Errorf("PermutationMatrix.ValueAt(%d,%d): %w", i, j, denseerr.ErrIndexOutOfBounds)
	}
	if m.pi[i] == j {
		return 1, nil
	}
	return 0, nil
}

// EntryNormMax is always 1 for a nonempty permutation matrix.
func (m *PermutationMatrix) EntryNormMax() float64 { return 1 }

// Operate returns A*v: out[i] = v[pi(i)].
func (m *PermutationMatrix) Operate(v *vector.Vector) (*vector.Vector, error) {
	if v == nil {
		return nil, denseerr.ErrNullArgument
	}
	n := len(m.pi)
	vd, _ := dimension.NewVectorDim(n)
	if !v.Dim().Equals(vd) {
		return nil, fmt.Errorf("PermutationMatrix.Operate: %w", denseerr.ErrMatrixFormatMismatch)
	}
	x := v.EntryAsArray()
	out := make([]float64, n)
	for i, p := range m.pi {
		out[i] = x[p]
	}
	b := vector.ZeroBuilder(vd)
	if err := b.SetEntryValue(out); err != nil {
		return nil, err
	}
	return b.Build()
}

// OperateTranspose returns A^T*v: out[pi(i)] = v[i].
func (m *PermutationMatrix) OperateTranspose(v *vector.Vector) (*vector.Vector, error) {
	if v == nil {
		return nil, denseerr.ErrNullArgument
	}
	n := len(m.pi)
	vd, _ := dimension.NewVectorDim(n)
	if !v.Dim().Equals(vd) {
		return nil, fmt.Errorf("PermutationMatrix.OperateTranspose: %w", denseerr.ErrMatrixFormatMismatch)
	}
	x := v.EntryAsArray()
	out := make([]float64, n)
	for i, p := range m.pi {
		out[p] = x[i]
	}
	b := vector.ZeroBuilder(vd)
	if err := b.SetEntryValue(out); err != nil {
		return nil, err
	}
	return b.Build()
}

// Transpose returns the lazily-cached companion representing A^T (which
// equals A^-1, the inverse permutation).
func (m *PermutationMatrix) Transpose() Matrix { return m.t.get() }

// Inverse returns the transpose, which for an orthogonal permutation
// matrix is the inverse permutation.
func (m *PermutationMatrix) Inverse() Matrix { return m.Transpose() }

// NewIdentityPermutation returns the identity permutation of size n.
func NewIdentityPermutation(n int) (*PermutationMatrix, error) {
	if n < 1 {
		return nil, denseerr.ErrIllegalArgument
	}
	pi := make([]int, n)
	for i := range pi {
		pi[i] = i
	}
	return newPermutationMatrix(pi), nil
}

// NewPermutationMatrix validates pi as a bijection of [0,n) and returns
// the corresponding PermutationMatrix.
func NewPermutationMatrix(pi []int) (*PermutationMatrix, error) {
	n := len(pi)
	seen := make([]bool, n)
	for _, p := range pi {
		if p < 0 || p >= n || seen[p] {
			return nil, denseerr.ErrIllegalArgument
		}
		seen[p] = true
	}
	out := make([]int, n)
	copy(out, pi)
	return newPermutationMatrix(out), nil
}

// SwapRows returns a new PermutationMatrix equal to this one after
// swapping the images of rows i and j (used by LU pivoting to record row
// swaps incrementally without mutating the original).
func (m *PermutationMatrix) SwapRows(i, j int) (*PermutationMatrix, error) {
	n := len(m.pi)
	if i < 0 || i >= n || j < 0 || j >= n {
		return nil, fmt.Errorf("matrix.PermutationMatrix.SwapRows(%d,%d): %w", i, j, denseerr.ErrIndexOutOfBounds)
	}
	out := make([]int, n)
	copy(out, m.pi)
	out[i], out[j] = out[j], out[i]
	return newPermutationMatrix(out), nil
}
