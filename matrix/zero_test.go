package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/matrix"
)

// ZeroSuite exercises ZeroMatrix.
type ZeroSuite struct {
	suite.Suite
}

func TestZeroSuite(t *testing.T) {
	suite.Run(t, new(ZeroSuite))
}

// TestOperateReturnsZeroVector verifies Operate always yields zeros of
// the correct row dimension, even for a non-square shape.
func (s *ZeroSuite) TestOperateReturnsZeroVector() {
	dim, err := dimension.NewMatrixDim(2, 3)
	require.NoError(s.T(), err)
	m := matrix.NewZeroMatrix(dim)
	out := operate(s.T(), m, []float64{1, 2, 3})
	almostEqual(s.T(), out, []float64{0, 0}, 1e-12)
}

// TestDeterminantOfSquareZeroMatrixIsZero verifies Determinant/
// LogAbsDeterminant/SignOfDeterminant match a singular matrix's values.
func (s *ZeroSuite) TestDeterminantOfSquareZeroMatrixIsZero() {
	dim, err := dimension.NewMatrixDim(2, 2)
	require.NoError(s.T(), err)
	m := matrix.NewZeroMatrix(dim)
	require.Zero(s.T(), m.Determinant())
	require.True(s.T(), math.IsInf(m.LogAbsDeterminant(), -1))
	require.Equal(s.T(), 0, m.SignOfDeterminant())
}

// TestTransposeHasSwappedDimensions verifies Transpose flips rows/cols.
func (s *ZeroSuite) TestTransposeHasSwappedDimensions() {
	dim, err := dimension.NewMatrixDim(2, 3)
	require.NoError(s.T(), err)
	m := matrix.NewZeroMatrix(dim)
	td := m.Transpose().Dim()
	require.Equal(s.T(), 3, td.Rows())
	require.Equal(s.T(), 2, td.Cols())
}
