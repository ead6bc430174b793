package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/denseq/matrix"
)

// MatrixProductSuite exercises MatrixProduct's right-to-left composition.
type MatrixProductSuite struct {
	suite.Suite
}

func TestMatrixProductSuite(t *testing.T) {
	suite.Run(t, new(MatrixProductSuite))
}

// TestOperateComposesFactorsRightToLeft verifies M0(M1(v)) matches
// MatrixProduct's Operate for two dense factors.
func (s *MatrixProductSuite) TestOperateComposesFactorsRightToLeft() {
	m0 := denseOf(s.T(), 2, 2, []float64{1, 0, 0, 2})
	m1 := denseOf(s.T(), 2, 2, []float64{0, 1, 1, 0})
	product, err := matrix.Multiply(m0, m1)
	require.NoError(s.T(), err)

	manual := operate(s.T(), m1, []float64{3, 5})
	manual = operate(s.T(), m0, manual)
	got := operate(s.T(), product, []float64{3, 5})
	almostEqual(s.T(), got, manual, 1e-12)
}

// TestNewMatrixProductRejectsIncompatibleShapes verifies adjacent
// dimension mismatch is rejected.
func (s *MatrixProductSuite) TestNewMatrixProductRejectsIncompatibleShapes() {
	m0 := denseOf(s.T(), 2, 3, []float64{1, 2, 3, 4, 5, 6})
	m1 := denseOf(s.T(), 2, 2, []float64{1, 0, 0, 1})
	_, err := matrix.Multiply(m0, m1)
	require.Error(s.T(), err)
}

// TestDimIsOuterProductShape verifies the overall shape is rows of the
// first factor by columns of the last.
func (s *MatrixProductSuite) TestDimIsOuterProductShape() {
	m0 := denseOf(s.T(), 2, 3, []float64{1, 2, 3, 4, 5, 6})
	m1 := denseOf(s.T(), 3, 1, []float64{1, 1, 1})
	product, err := matrix.Multiply(m0, m1)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 2, product.Dim().Rows())
	require.Equal(s.T(), 1, product.Dim().Cols())
}
