package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/denseq/matrix"
)

// Block2OrderSuite exercises the block-diagonal pivot matrix used by
// symmetric indefinite factorization.
type Block2OrderSuite struct {
	suite.Suite
}

func TestBlock2OrderSuite(t *testing.T) {
	suite.Run(t, new(Block2OrderSuite))
}

// TestMixedBlocksOperate verifies Operate applies a 1x1 block and a 2x2
// block independently, leaving cross entries at zero.
func (s *Block2OrderSuite) TestMixedBlocksOperate() {
	b, err := matrix.NewBlock2OrderSymmetricDiagonalMatrixBuilder(3)
	require.NoError(s.T(), err)
	require.NoError(s.T(), b.AddBlock1(2))
	require.NoError(s.T(), b.AddBlock2(1, 3, 4))
	m, err := b.Build()
	require.NoError(s.T(), err)

	out, err := m.Operate(vecOf(s.T(), []float64{1, 1, 1}))
	require.NoError(s.T(), err)
	got := out.EntryAsArray()
	// block0: 2*1 = 2. block1 (2x2): [1 3;3 4]*[1 1] = [4, 7].
	require.InDelta(s.T(), 2.0, got[0], 1e-12)
	require.InDelta(s.T(), 4.0, got[1], 1e-12)
	require.InDelta(s.T(), 7.0, got[2], 1e-12)
}

// TestValueAtIsZeroAcrossBlocks verifies entries spanning two different
// blocks read back as zero.
func (s *Block2OrderSuite) TestValueAtIsZeroAcrossBlocks() {
	b, err := matrix.NewBlock2OrderSymmetricDiagonalMatrixBuilder(3)
	require.NoError(s.T(), err)
	require.NoError(s.T(), b.AddBlock1(2))
	require.NoError(s.T(), b.AddBlock2(1, 3, 4))
	m, err := b.Build()
	require.NoError(s.T(), err)

	v, err := m.ValueAt(0, 1)
	require.NoError(s.T(), err)
	require.Zero(s.T(), v)
	v, err = m.ValueAt(1, 2)
	require.NoError(s.T(), err)
	require.InDelta(s.T(), 3.0, v, 1e-12)
}

// TestBuildRejectsGapOrOverlap verifies Build fails if the appended
// blocks do not exactly partition 0..n-1.
func (s *Block2OrderSuite) TestBuildRejectsGapOrOverlap() {
	b, err := matrix.NewBlock2OrderSymmetricDiagonalMatrixBuilder(3)
	require.NoError(s.T(), err)
	require.NoError(s.T(), b.AddBlock1(1))
	_, err = b.Build()
	require.Error(s.T(), err)
}

// TestInverseOfBlock2x2 verifies the closed-form 2x2 inverse satisfies
// B * B^-1 == I on a probe vector.
func (s *Block2OrderSuite) TestInverseOfBlock2x2() {
	b, err := matrix.NewBlock2OrderSymmetricDiagonalMatrixBuilder(2)
	require.NoError(s.T(), err)
	require.NoError(s.T(), b.AddBlock2(2, 1, 3))
	m, err := b.Build()
	require.NoError(s.T(), err)

	inv, ok := m.Inverse().(*matrix.Block2OrderSymmetricDiagonalMatrix)
	require.True(s.T(), ok)

	probe := vecOf(s.T(), []float64{5, -2})
	y, err := inv.Operate(probe)
	require.NoError(s.T(), err)
	back, err := m.Operate(y)
	require.NoError(s.T(), err)
	got := back.EntryAsArray()
	require.InDelta(s.T(), 5.0, got[0], 1e-9)
	require.InDelta(s.T(), -2.0, got[1], 1e-9)
}

// TestDeterminantOfMixedBlocks verifies det(B) is the product of each
// block's own determinant.
func (s *Block2OrderSuite) TestDeterminantOfMixedBlocks() {
	b, err := matrix.NewBlock2OrderSymmetricDiagonalMatrixBuilder(3)
	require.NoError(s.T(), err)
	require.NoError(s.T(), b.AddBlock1(2))
	require.NoError(s.T(), b.AddBlock2(1, 3, 4))
	m, err := b.Build()
	require.NoError(s.T(), err)
	// block0 det = 2, block1 det = 1*4-3*3 = -5, product = -10.
	require.InDelta(s.T(), -10.0, m.Determinant(), 1e-9)
}
