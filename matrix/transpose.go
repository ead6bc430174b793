package matrix

import (
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/numkit"
	"github.com/katalvlaran/denseq/vector"
)

// lazyTranspose is the single-shot cache every non-symmetric concrete
// matrix embeds to implement Transpose(): the first call constructs the
// companion via create, subsequent calls return the cached reference.
// Symmetric matrices skip this entirely and return themselves.
type lazyTranspose struct {
	once *numkit.Once[Matrix]
}

func newLazyTranspose(create func() Matrix) lazyTranspose {
	return lazyTranspose{once: numkit.NewOnce(create)}
}

func (l lazyTranspose) get() Matrix { return l.once.Get() }

// transposeView is the generic "create_transpose" device: a matrix whose
// Operate/OperateTranspose delegate to original with the roles swapped,
// and whose own Transpose() returns original directly rather than
// wrapping again, so A.Transpose().Transpose() is the identical A
// reference rather than an equivalent-but-distinct object.
type transposeView struct {
	original Matrix
	dim      dimension.MatrixDim
}

// CreateTransposedOf builds the generic lazily-backed transpose companion
// of a. Most concrete types call this from inside their own lazyTranspose
// supplier rather than exposing a transposeView directly.
func CreateTransposedOf(a Matrix) Matrix {
	return &transposeView{original: a, dim: a.Dim().Transpose()}
}

func (t *transposeView) Dim() dimension.MatrixDim { return t.dim }

func (t *transposeView) Operate(v *vector.Vector) (*vector.Vector, error) {
	return t.original.OperateTranspose(v)
}

func (t *transposeView) OperateTranspose(v *vector.Vector) (*vector.Vector, error) {
	return t.original.Operate(v)
}

func (t *transposeView) Transpose() Matrix { return t.original }
