package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/denseq/matrix"
)

// OrthogonalProductSuite exercises OrthogonalProduct's reverse-order
// composition.
type OrthogonalProductSuite struct {
	suite.Suite
}

func TestOrthogonalProductSuite(t *testing.T) {
	suite.Run(t, new(OrthogonalProductSuite))
}

func reflectorOf(t *testing.T, col []float64) *matrix.HouseholderMatrix {
	t.Helper()
	u, ok := matrix.ReflectionVectorFromColumn(col)
	require.True(t, ok)
	h, err := matrix.NewHouseholderFromDense(vecOf(t, u))
	require.NoError(t, err)
	return h
}

// TestOperateAppliesFactorsInReverseOrder verifies Q = Q0*Q1 applies Q1
// first, matching manual composition.
func (s *OrthogonalProductSuite) TestOperateAppliesFactorsInReverseOrder() {
	q0 := reflectorOf(s.T(), []float64{1, 0})
	q1 := reflectorOf(s.T(), []float64{0, 1})
	product, err := matrix.NewOrthogonalProduct([]matrix.Orthogonal{q0, q1})
	require.NoError(s.T(), err)

	manual := operate(s.T(), q1, []float64{3, 4})
	manual = operate(s.T(), q0, manual)
	got := operate(s.T(), product, []float64{3, 4})
	almostEqual(s.T(), got, manual, 1e-9)
}

// TestOperateTransposeInvertsOperate verifies Q^T Q v == v for a
// multi-factor orthogonal product.
func (s *OrthogonalProductSuite) TestOperateTransposeInvertsOperate() {
	q0 := reflectorOf(s.T(), []float64{1, 0})
	q1 := reflectorOf(s.T(), []float64{0, 1})
	product, err := matrix.NewOrthogonalProduct([]matrix.Orthogonal{q0, q1})
	require.NoError(s.T(), err)

	out := operate(s.T(), product, []float64{3, 4})
	v, err := product.OperateTranspose(vecOf(s.T(), out))
	require.NoError(s.T(), err)
	almostEqual(s.T(), v.EntryAsArray(), []float64{3, 4}, 1e-9)
}

// TestNewOrthogonalProductFlattensNestedProducts verifies an
// OrthogonalProduct passed as a factor is flattened rather than nested.
func (s *OrthogonalProductSuite) TestNewOrthogonalProductFlattensNestedProducts() {
	q0 := reflectorOf(s.T(), []float64{1, 0})
	q1 := reflectorOf(s.T(), []float64{0, 1})
	inner, err := matrix.NewOrthogonalProduct([]matrix.Orthogonal{q0, q1})
	require.NoError(s.T(), err)
	q2 := reflectorOf(s.T(), []float64{1, 1})
	outer, err := matrix.NewOrthogonalProduct([]matrix.Orthogonal{inner, q2})
	require.NoError(s.T(), err)

	manual := operate(s.T(), q2, []float64{2, 1})
	manual = operate(s.T(), q1, manual)
	manual = operate(s.T(), q0, manual)
	got := operate(s.T(), outer, []float64{2, 1})
	almostEqual(s.T(), got, manual, 1e-9)
}
