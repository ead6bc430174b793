package matrix

import (
	"fmt"
	"math"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/numkit"
	"github.com/katalvlaran/denseq/vector"
)

// block2order is one diagonal pivot block: size 1 (a lone diagonal entry
// d00) or size 2 (a coupled pair d00, d01, d11 with d01 != 0).
type block2order struct {
	start int
	size  int
	d00   float64
	d01   float64
	d11   float64
}

func (b block2order) det() float64 {
	if b.size == 1 {
		return b.d00
	}
	return b.d00*b.d11 - b.d01*b.d01
}

// Block2OrderSymmetricDiagonalMatrix is a symmetric matrix that is
// block-diagonal with 1x1 or 2x2 blocks: every off-diagonal entry either
// belongs to a 2x2 block's single sub-diagonal coupling or is zero. This
// is the pivot matrix B in the symmetric indefinite factorization A = L B
// L^T.
type Block2OrderSymmetricDiagonalMatrix struct {
	n      int
	blocks []block2order
	// blockOf[i] is the index into blocks owning row/column i.
	blockOf []int
	entryNM *numkit.Once[float64]
	det     *numkit.Once[numkit.Determinant]
}

var (
	_ Matrix        = (*Block2OrderSymmetricDiagonalMatrix)(nil)
	_ Symmetric     = (*Block2OrderSymmetricDiagonalMatrix)(nil)
	_ EntryReadable = (*Block2OrderSymmetricDiagonalMatrix)(nil)
	_ Determinantable = (*Block2OrderSymmetricDiagonalMatrix)(nil)
	_ Invertible      = (*Block2OrderSymmetricDiagonalMatrix)(nil)
)

func (m *Block2OrderSymmetricDiagonalMatrix) symmetricMarker() {}

func newBlock2Order(n int, blocks []block2order) *Block2OrderSymmetricDiagonalMatrix {
	blockOf := make([]int, n)
	for bi, b := range blocks {
		for k := 0; k < b.size; k++ {
			blockOf[b.start+k] = bi
		}
	}
	m := &Block2OrderSymmetricDiagonalMatrix{n: n, blocks: blocks, blockOf: blockOf}
	m.entryNM = numkit.NewOnce(func() float64 {
		max := 0.0
		for _, b := range m.blocks {
			for _, v := range []float64{b.d00, b.d01, b.d11} {
				if a := math.Abs(v); a > max {
					max = a
				}
			}
		}
		return max
	})
	m.det = numkit.NewOnce(func() numkit.Determinant {
		acc := numkit.NewDeterminantAccumulator()
		for _, b := range m.blocks {
			acc.MultiplyScalar(b.det())
		}
		return acc.Determinant()
	})
	return m
}

// Dim returns the matrix's (square) shape.
func (m *Block2OrderSymmetricDiagonalMatrix) Dim() dimension.MatrixDim {
	d, _ := dimension.NewMatrixDim(m.n, m.n)
	return d
}

// ValueAt returns A[i,j]: 0 unless i and j belong to the same block.
func (m *Block2OrderSymmetricDiagonalMatrix) ValueAt(i, j int) (float64, error) {
	if i < 0 || i >= m.n || j < 0 || j >= m.n {
		return 0, fmt.Errorf("Block2OrderSymmetricDiagonalMatrix.ValueAt(%d,%d): %w", i, j, denseerr.ErrIndexOutOfBounds)
	}
	bi := m.blockOf[i]
	if m.blockOf[j] != bi {
		return 0, nil
	}
	b := m.blocks[bi]
	if i == j {
		if i == b.start {
			return b.d00, nil
		}
		return b.d11, nil
	}
	return b.d01, nil
}

// EntryNormMax returns the maximum absolute entry.
func (m *Block2OrderSymmetricDiagonalMatrix) EntryNormMax() float64 { return m.entryNM.Get() }

// Operate returns A*v.
func (m *Block2OrderSymmetricDiagonalMatrix) Operate(v *vector.Vector) (*vector.Vector, error) {
	if v == nil {
		return nil, denseerr.ErrNullArgument
	}
	vd, _ := dimension.NewVectorDim(m.n)
	if !v.Dim().Equals(vd) {
		return nil, fmt.Errorf("Block2OrderSymmetricDiagonalMatrix.Operate: %w", denseerr.ErrMatrixFormatMismatch)
	}
	x := v.EntryAsArray()
	out := make([]float64, m.n)
	for _, b := range m.blocks {
		if b.size == 1 {
			out[b.start] = b.d00 * x[b.start]
			continue
		}
		i, j := b.start, b.start+1
		out[i] = b.d00*x[i] + b.d01*x[j]
		out[j] = b.d01*x[i] + b.d11*x[j]
	}
	bd := vector.ZeroBuilder(vd)
	if err := bd.SetEntryValue(out); err != nil {
		return nil, err
	}
	return bd.Build()
}

// OperateTranspose is identical to Operate for a symmetric matrix.
func (m *Block2OrderSymmetricDiagonalMatrix) OperateTranspose(v *vector.Vector) (*vector.Vector, error) {
	return m.Operate(v)
}

// Transpose returns the receiver itself.
func (m *Block2OrderSymmetricDiagonalMatrix) Transpose() Matrix { return m }

// Determinant returns sign*exp(logAbsDeterminant()).
func (m *Block2OrderSymmetricDiagonalMatrix) Determinant() float64 { return m.det.Get().Det() }

// LogAbsDeterminant returns log|det|.
func (m *Block2OrderSymmetricDiagonalMatrix) LogAbsDeterminant() float64 {
	return m.det.Get().LogAbsDet()
}

// SignOfDeterminant returns -1, 0, or 1.
func (m *Block2OrderSymmetricDiagonalMatrix) SignOfDeterminant() int { return m.det.Get().Sign() }

// Inverse returns the block-wise explicit inverse: each 1x1 block inverts
// to its reciprocal, each 2x2 block inverts via the closed-form 2x2
// formula. A block whose determinant is exactly zero is not checked for:
// the division yields infinite or NaN entries rather than a panic or an
// error. ModifiedCholesky's pivot threshold keeps such blocks out of B.
func (m *Block2OrderSymmetricDiagonalMatrix) Inverse() Matrix {
	inv := make([]block2order, len(m.blocks))
	for bi, b := range m.blocks {
		if b.size == 1 {
			inv[bi] = block2order{start: b.start, size: 1, d00: 1 / b.d00}
			continue
		}
		d := b.det()
		inv[bi] = block2order{
			start: b.start,
			size:  2,
			d00:   b.d11 / d,
			d01:   -b.d01 / d,
			d11:   b.d00 / d,
		}
	}
	return newBlock2Order(m.n, inv)
}

// Block2OrderSymmetricDiagonalMatrixBuilder builds a
// Block2OrderSymmetricDiagonalMatrix by appending 1x1 and 2x2 blocks left
// to right. Building sequentially (rather than by arbitrary index)
// guarantees the blocks partition 0..n-1 with no gap and no overlap, so
// no sub-diagonal entry can ever be claimed by two different blocks.
type Block2OrderSymmetricDiagonalMatrixBuilder struct {
	n      int
	blocks []block2order
	next   int
	built  bool
}

// NewBlock2OrderSymmetricDiagonalMatrixBuilder returns a builder for an n
// by n block-diagonal pivot matrix.
func NewBlock2OrderSymmetricDiagonalMatrixBuilder(n int) (*Block2OrderSymmetricDiagonalMatrixBuilder, error) {
	dim, err := dimension.NewMatrixDim(n, n)
	if err != nil {
		return nil, err
	}
	if !dim.AcceptedForDenseMatrix() {
		return nil, denseerr.ErrElementsTooMany
	}
	return &Block2OrderSymmetricDiagonalMatrixBuilder{n: n}, nil
}

func (b *Block2OrderSymmetricDiagonalMatrixBuilder) checkUsable(method string) error {
	if b.built {
		return fmt.Errorf("matrix.Block2OrderSymmetricDiagonalMatrixBuilder.%s: %w", method, denseerr.ErrIllegalState)
	}
	return nil
}

// AddBlock1 appends the next 1x1 pivot block, d00 on the diagonal.
func (b *Block2OrderSymmetricDiagonalMatrixBuilder) AddBlock1(d00 float64) error {
	if err := b.checkUsable("AddBlock1"); err != nil {
		return err
	}
	if b.next >= b.n {
		return fmt.Errorf("matrix.Block2OrderSymmetricDiagonalMatrixBuilder.AddBlock1: %w", denseerr.ErrIllegalArgument)
	}
	b.blocks = append(b.blocks, block2order{start: b.next, size: 1, d00: numkit.Canonicalize(d00)})
	b.next++
	return nil
}

// AddBlock2 appends the next 2x2 coupled pivot block.
func (b *Block2OrderSymmetricDiagonalMatrixBuilder) AddBlock2(d00, d01, d11 float64) error {
	if err := b.checkUsable("AddBlock2"); err != nil {
		return err
	}
	if b.next+1 >= b.n {
		return fmt.Errorf("matrix.Block2OrderSymmetricDiagonalMatrixBuilder.AddBlock2: %w", denseerr.ErrIllegalArgument)
	}
	b.blocks = append(b.blocks, block2order{
		start: b.next, size: 2,
		d00: numkit.Canonicalize(d00), d01: numkit.Canonicalize(d01), d11: numkit.Canonicalize(d11),
	})
	b.next += 2
	return nil
}

// Build consumes the builder and returns the finished matrix. Fails if
// the appended blocks do not exactly cover 0..n-1.
func (b *Block2OrderSymmetricDiagonalMatrixBuilder) Build() (*Block2OrderSymmetricDiagonalMatrix, error) {
	if err := b.checkUsable("Build"); err != nil {
		return nil, err
	}
	if b.next != b.n {
		return nil, fmt.Errorf("matrix.Block2OrderSymmetricDiagonalMatrixBuilder.Build: %w", denseerr.ErrMatrixFormatMismatch)
	}
	b.built = true
	return newBlock2Order(b.n, b.blocks), nil
}
