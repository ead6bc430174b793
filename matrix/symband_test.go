package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/matrix"
)

// SymBandSuite exercises SymmetricBandMatrix's packed half-band storage.
type SymBandSuite struct {
	suite.Suite
}

func TestSymBandSuite(t *testing.T) {
	suite.Run(t, new(SymBandSuite))
}

// TestUpperBandMirrorsLower verifies ValueAt(i,j) == ValueAt(j,i) for a
// within-band off-diagonal pair.
func (s *SymBandSuite) TestUpperBandMirrorsLower() {
	m := symBandOf(s.T(), 3, 1, []float64{
		2, 1, 0,
		1, 3, 4,
		0, 4, 5,
	})
	a, err := m.ValueAt(1, 2)
	require.NoError(s.T(), err)
	b, err := m.ValueAt(2, 1)
	require.NoError(s.T(), err)
	require.InDelta(s.T(), a, b, 1e-12)
	require.InDelta(s.T(), 4.0, a, 1e-12)
}

// TestOperateMatchesTridiagonalProduct verifies Operate against a
// hand-computed tridiagonal product.
func (s *SymBandSuite) TestOperateMatchesTridiagonalProduct() {
	m := symBandOf(s.T(), 3, 1, []float64{
		2, 1, 0,
		1, 3, 4,
		0, 4, 5,
	})
	out := operate(s.T(), m, []float64{1, 1, 1})
	almostEqual(s.T(), out, []float64{3, 8, 9}, 1e-12)
}

// TestNewSymmetricBandBuilderRejectsAsymmetricBand verifies the builder
// refuses a BandDim whose lower/upper widths differ.
func (s *SymBandSuite) TestNewSymmetricBandBuilderRejectsAsymmetricBand() {
	bd, err := dimension.NewBandDim(3, 1, 2)
	require.NoError(s.T(), err)
	_, err = matrix.NewSymmetricBandBuilder(bd)
	require.Error(s.T(), err)
}
