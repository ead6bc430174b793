package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/denseq/matrix"
)

// SymmetricSuite exercises SymmetricMatrix's packed lower-triangle storage.
type SymmetricSuite struct {
	suite.Suite
}

func TestSymmetricSuite(t *testing.T) {
	suite.Run(t, new(SymmetricSuite))
}

// TestUpperEntryMirrorsLower verifies ValueAt(i,j) == ValueAt(j,i) for an
// off-diagonal pair set only through the lower triangle.
func (s *SymmetricSuite) TestUpperEntryMirrorsLower() {
	m := symOf(s.T(), 3, []float64{
		2, 0, 0,
		1, 3, 0,
		4, 5, 6,
	})
	lower, err := m.ValueAt(2, 0)
	require.NoError(s.T(), err)
	upper, err := m.ValueAt(0, 2)
	require.NoError(s.T(), err)
	require.InDelta(s.T(), lower, upper, 1e-12)
	require.InDelta(s.T(), 4.0, lower, 1e-12)
}

// TestOperateMatchesMirroredDenseProduct verifies Operate treats the
// stored lower triangle as the full symmetric matrix.
func (s *SymmetricSuite) TestOperateMatchesMirroredDenseProduct() {
	m := symOf(s.T(), 2, []float64{
		2, 0,
		1, 3,
	})
	// full matrix is [[2,1],[1,3]]
	out := operate(s.T(), m, []float64{1, 1})
	almostEqual(s.T(), out, []float64{3, 4}, 1e-12)
}

// TestOperateTransposeEqualsOperate verifies symmetry makes the two
// operators identical.
func (s *SymmetricSuite) TestOperateTransposeEqualsOperate() {
	m := symOf(s.T(), 2, []float64{2, 0, 1, 3})
	a := operate(s.T(), m, []float64{5, -1})
	v, err := m.OperateTranspose(vecOf(s.T(), []float64{5, -1}))
	require.NoError(s.T(), err)
	almostEqual(s.T(), a, v.EntryAsArray(), 1e-12)
}

// TestBuilderSetValueMirrorsBothPositions verifies SetValue(i,j,x) makes
// both A[i,j] and A[j,i] read back as x.
func (s *SymmetricSuite) TestBuilderSetValueMirrorsBothPositions() {
	b, err := matrix.NewSymmetricBuilder(2)
	require.NoError(s.T(), err)
	require.NoError(s.T(), b.SetValue(0, 1, 7))
	m, err := b.Build()
	require.NoError(s.T(), err)
	v1, err := m.ValueAt(0, 1)
	require.NoError(s.T(), err)
	v2, err := m.ValueAt(1, 0)
	require.NoError(s.T(), err)
	require.InDelta(s.T(), 7.0, v1, 1e-12)
	require.InDelta(s.T(), 7.0, v2, 1e-12)
}
