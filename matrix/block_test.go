package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/denseq/matrix"
)

// BlockSuite exercises BlockMatrixStructure and the BlockMatrix/
// BlockMatrixEntryReadable views over it.
type BlockSuite struct {
	suite.Suite
}

func TestBlockSuite(t *testing.T) {
	suite.Run(t, new(BlockSuite))
}

// TestOperateSumsPresentBlocksAlignedToOffsets verifies a 2x2 block grid
// with one absent (implicitly zero) block behaves like the corresponding
// dense product.
func (s *BlockSuite) TestOperateSumsPresentBlocksAlignedToOffsets() {
	a := denseOf(s.T(), 1, 1, []float64{2})
	d := denseOf(s.T(), 1, 1, []float64{3})

	b, err := matrix.NewBlockMatrixStructureBuilder[matrix.Matrix](2, 2)
	require.NoError(s.T(), err)
	require.NoError(s.T(), b.SetBlock(0, 0, a))
	require.NoError(s.T(), b.SetBlock(1, 1, d))
	structure, err := b.Build()
	require.NoError(s.T(), err)

	m := matrix.NewBlockMatrix(structure)
	out := operate(s.T(), m, []float64{5, 7})
	almostEqual(s.T(), out, []float64{10, 21}, 1e-12)
}

// TestBuildRejectsRowWithNoPresentBlock verifies Build fails when a
// structural row's height cannot be inferred.
func (s *BlockSuite) TestBuildRejectsRowWithNoPresentBlock() {
	a := denseOf(s.T(), 1, 1, []float64{2})
	b, err := matrix.NewBlockMatrixStructureBuilder[matrix.Matrix](2, 1)
	require.NoError(s.T(), err)
	require.NoError(s.T(), b.SetBlock(0, 0, a))
	_, err = b.Build()
	require.Error(s.T(), err)
}

// TestEntryReadableLocatesOwningBlock verifies
// BlockMatrixEntryReadable.ValueAt dispatches to the block that owns the
// requested global (i,j).
func (s *BlockSuite) TestEntryReadableLocatesOwningBlock() {
	a := denseOf(s.T(), 1, 1, []float64{2})
	d := denseOf(s.T(), 1, 1, []float64{3})

	b, err := matrix.NewBlockMatrixStructureBuilder[matrix.EntryReadable](2, 2)
	require.NoError(s.T(), err)
	require.NoError(s.T(), b.SetBlock(0, 0, a))
	require.NoError(s.T(), b.SetBlock(1, 1, d))
	structure, err := b.Build()
	require.NoError(s.T(), err)

	m := matrix.NewBlockMatrixEntryReadable(structure)
	v, err := m.ValueAt(1, 1)
	require.NoError(s.T(), err)
	require.InDelta(s.T(), 3.0, v, 1e-12)

	v, err = m.ValueAt(0, 1)
	require.NoError(s.T(), err)
	require.Zero(s.T(), v)
}
