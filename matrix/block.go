package matrix

import (
	"fmt"

	"github.com/katalvlaran/denseq/denseerr"
	"github.com/katalvlaran/denseq/dimension"
	"github.com/katalvlaran/denseq/vector"
)

// BlockMatrixStructure is a grid of r by c optional blocks of type T with
// row heights and column widths inferred from whichever blocks are
// present. Every row and every column must have at least one present
// block so its size can be determined; absent cells are implicitly zero
// blocks of the inferred shape.
type BlockMatrixStructure[T Matrix] struct {
	rows, cols int
	blocks     [][]T
	present    [][]bool
	rowHeights []int
	colWidths  []int
}

// Rows returns the structural row count.
func (s *BlockMatrixStructure[T]) Rows() int { return s.rows }

// Cols returns the structural column count.
func (s *BlockMatrixStructure[T]) Cols() int { return s.cols }

// RowHeight returns the inferred height of structural row i.
func (s *BlockMatrixStructure[T]) RowHeight(i int) int { return s.rowHeights[i] }

// ColWidth returns the inferred width of structural column j.
func (s *BlockMatrixStructure[T]) ColWidth(j int) int { return s.colWidths[j] }

// BlockAt returns the block at (i,j) and whether it is present (absent
// cells must be treated as a zero block of the inferred shape).
func (s *BlockMatrixStructure[T]) BlockAt(i, j int) (T, bool) {
	return s.blocks[i][j], s.present[i][j]
}

// Dim returns the overall matrix shape: the sum of row heights by the sum
// of column widths.
func (s *BlockMatrixStructure[T]) Dim() dimension.MatrixDim {
	var r, c int
	for _, h := range s.rowHeights {
		r += h
	}
	for _, w := range s.colWidths {
		c += w
	}
	d, _ := dimension.NewMatrixDim(r, c)
	return d
}

// BlockMatrixStructureBuilder builds a BlockMatrixStructure[T] cell by
// cell, leaving any unset cell absent.
type BlockMatrixStructureBuilder[T Matrix] struct {
	rows, cols int
	blocks     [][]T
	present    [][]bool
	built      bool
}

// NewBlockMatrixStructureBuilder returns a builder for an r by c grid.
func NewBlockMatrixStructureBuilder[T Matrix](rows, cols int) (*BlockMatrixStructureBuilder[T], error) {
	if rows < 1 || cols < 1 {
		return nil, denseerr.ErrIllegalArgument
	}
	blocks := make([][]T, rows)
	present := make([][]bool, rows)
	for i := range blocks {
		blocks[i] = make([]T, cols)
		present[i] = make([]bool, cols)
	}
	return &BlockMatrixStructureBuilder[T]{rows: rows, cols: cols, blocks: blocks, present: present}, nil
}

func (b *BlockMatrixStructureBuilder[T]) checkUsable(method string) error {
	if b.built {
		return fmt.Errorf("matrix.BlockMatrixStructureBuilder.%s: %w", method, denseerr.ErrIllegalState)
	}
	return nil
}

// SetBlock places block at structural position (i,j).
func (b *BlockMatrixStructureBuilder[T]) SetBlock(i, j int, block T) error {
	if err := b.checkUsable("SetBlock"); err != nil {
		return err
	}
	if i < 0 || i >= b.rows || j < 0 || j >= b.cols {
		return fmt.Errorf("matrix.BlockMatrixStructureBuilder.SetBlock(%d,%d): %w", i, j, denseerr.ErrIndexOutOfBounds)
	}
	b.blocks[i][j] = block
	b.present[i][j] = true
	return nil
}

// Build consumes the builder, infers row/column sizes from present
// blocks, verifies agreement within each row/column, and returns the
// finished structure. A row or column with no present block, or
// conflicting sizes within a row/column, fails with
// ErrMatrixFormatMismatch.
func (b *BlockMatrixStructureBuilder[T]) Build() (*BlockMatrixStructure[T], error) {
	if err := b.checkUsable("Build"); err != nil {
		return nil, err
	}
	b.built = true

	rowHeights := make([]int, b.rows)
	colWidths := make([]int, b.cols)
	for i := range rowHeights {
		rowHeights[i] = -1
	}
	for j := range colWidths {
		colWidths[j] = -1
	}
	for i := 0; i < b.rows; i++ {
		for j := 0; j < b.cols; j++ {
			if !b.present[i][j] {
				continue
			}
			d := b.blocks[i][j].Dim()
			if rowHeights[i] == -1 {
				rowHeights[i] = d.Rows()
			} else if rowHeights[i] != d.Rows() {
				return nil, fmt.Errorf("matrix.BlockMatrixStructureBuilder.Build: row %d height conflict: %w", i, denseerr.ErrMatrixFormatMismatch)
			}
			if colWidths[j] == -1 {
				colWidths[j] = d.Cols()
			} else if colWidths[j] != d.Cols() {
				return nil, fmt.Errorf("matrix.BlockMatrixStructureBuilder.Build: column %d width conflict: %w", j, denseerr.ErrMatrixFormatMismatch)
			}
		}
	}
	for i, h := range rowHeights {
		if h == -1 {
			return nil, fmt.Errorf("matrix.BlockMatrixStructureBuilder.Build: row %d undetermined: %w", i, denseerr.ErrMatrixFormatMismatch)
		}
	}
	for j, w := range colWidths {
		if w == -1 {
			return nil, fmt.Errorf("matrix.BlockMatrixStructureBuilder.Build: column %d undetermined: %w", j, denseerr.ErrMatrixFormatMismatch)
		}
	}

	blocks := make([][]T, b.rows)
	present := make([][]bool, b.rows)
	for i := range blocks {
		blocks[i] = make([]T, b.cols)
		copy(blocks[i], b.blocks[i])
		present[i] = make([]bool, b.cols)
		copy(present[i], b.present[i])
	}
	return &BlockMatrixStructure[T]{
		rows: b.rows, cols: b.cols,
		blocks: blocks, present: present,
		rowHeights: rowHeights, colWidths: colWidths,
	}, nil
}

// BlockMatrix is a Matrix view over a BlockMatrixStructure[Matrix]:
// operate distributes the input vector across column widths, applies
// each present block (absent blocks contribute nothing, as if zero), and
// sums column-wise results aligned to row heights.
type BlockMatrix struct {
	s   *BlockMatrixStructure[Matrix]
	dim dimension.MatrixDim
	t   lazyTranspose
}

var _ Matrix = (*BlockMatrix)(nil)

// NewBlockMatrix wraps structure as a Matrix (the BlockMatrix.of
// combinator).
func NewBlockMatrix(s *BlockMatrixStructure[Matrix]) *BlockMatrix {
	m := &BlockMatrix{s: s, dim: s.Dim()}
	m.t = newLazyTranspose(func() Matrix { return CreateTransposedOf(m) })
	return m
}

// Dim returns the overall matrix shape.
func (m *BlockMatrix) Dim() dimension.MatrixDim { return m.dim }

func rowOffsets(sizes []int) []int {
	offs := make([]int, len(sizes)+1)
	for i, s := range sizes {
		offs[i+1] = offs[i] + s
	}
	return offs
}

// Operate distributes v across column widths, applies each present block,
// and sums results aligned to row heights.
func (m *BlockMatrix) Operate(v *vector.Vector) (*vector.Vector, error) {
	if v == nil {
		return nil, denseerr.ErrNullArgument
	}
	if !m.dim.RightOperable(v.Dim()) {
		return nil, fmt.Errorf("BlockMatrix.Operate: %w", denseerr.ErrMatrixFormatMismatch)
	}
	x := v.EntryAsArray()
	colOffs := rowOffsets(m.s.colWidths)
	rowOffs := rowOffsets(m.s.rowHeights)
	out := make([]float64, rowOffs[m.s.rows])
	for i := 0; i < m.s.rows; i++ {
		for j := 0; j < m.s.cols; j++ {
			blk, present := m.s.BlockAt(i, j)
			if !present {
				continue
			}
			seg := x[colOffs[j]:colOffs[j+1]]
			vd, _ := dimension.NewVectorDim(len(seg))
			bld := vector.ZeroBuilder(vd)
			if err := bld.SetEntryValue(seg); err != nil {
				return nil, err
			}
			segVec, err := bld.Build()
			if err != nil {
				return nil, err
			}
			contrib, err := blk.Operate(segVec)
			if err != nil {
				return nil, err
			}
			cArr := contrib.EntryAsArray()
			for k, cv := range cArr {
				out[rowOffs[i]+k] += cv
			}
		}
	}
	vd, _ := dimension.NewVectorDim(len(out))
	bld := vector.ZeroBuilder(vd)
	if err := bld.SetEntryValue(out); err != nil {
		return nil, err
	}
	return bld.Build()
}

// OperateTranspose is the dual of Operate: distributes v across row
// heights, applies each present block's transpose, and sums results
// aligned to column widths.
func (m *BlockMatrix) OperateTranspose(v *vector.Vector) (*vector.Vector, error) {
	if v == nil {
		return nil, denseerr.ErrNullArgument
	}
	if !m.dim.LeftOperable(v.Dim()) {
		return nil, fmt.Errorf("BlockMatrix.OperateTranspose: %w", denseerr.ErrMatrixFormatMismatch)
	}
	x := v.EntryAsArray()
	colOffs := rowOffsets(m.s.colWidths)
	rowOffs := rowOffsets(m.s.rowHeights)
	out := make([]float64, colOffs[m.s.cols])
	for i := 0; i < m.s.rows; i++ {
		for j := 0; j < m.s.cols; j++ {
			blk, present := m.s.BlockAt(i, j)
			if !present {
				continue
			}
			seg := x[rowOffs[i]:rowOffs[i+1]]
			vd, _ := dimension.NewVectorDim(len(seg))
			bld := vector.ZeroBuilder(vd)
			if err := bld.SetEntryValue(seg); err != nil {
				return nil, err
			}
			segVec, err := bld.Build()
			if err != nil {
				return nil, err
			}
			contrib, err := blk.OperateTranspose(segVec)
			if err != nil {
				return nil, err
			}
			cArr := contrib.EntryAsArray()
			for k, cv := range cArr {
				out[colOffs[j]+k] += cv
			}
		}
	}
	vd, _ := dimension.NewVectorDim(len(out))
	bld := vector.ZeroBuilder(vd)
	if err := bld.SetEntryValue(out); err != nil {
		return nil, err
	}
	return bld.Build()
}

// Transpose returns the lazily-cached companion matrix representing A^T.
func (m *BlockMatrix) Transpose() Matrix { return m.t.get() }

// BlockMatrixEntryReadable wraps a BlockMatrixStructure[EntryReadable],
// answering ValueAt by locating the owning block (or 0 for an absent
// one) and delegating.
type BlockMatrixEntryReadable struct {
	*BlockMatrix
	s *BlockMatrixStructure[EntryReadable]
}

var _ EntryReadable = (*BlockMatrixEntryReadable)(nil)

// NewBlockMatrixEntryReadable wraps structure as an EntryReadable Matrix
// (the BlockMatrixEntryReadable.of combinator).
func NewBlockMatrixEntryReadable(s *BlockMatrixStructure[EntryReadable]) *BlockMatrixEntryReadable {
	generic, _ := NewBlockMatrixStructureBuilder[Matrix](s.rows, s.cols)
	for i := 0; i < s.rows; i++ {
		for j := 0; j < s.cols; j++ {
			if blk, present := s.BlockAt(i, j); present {
				_ = generic.SetBlock(i, j, blk)
			}
		}
	}
	built, _ := generic.Build()
	return &BlockMatrixEntryReadable{BlockMatrix: NewBlockMatrix(built), s: s}
}

// ValueAt returns A[i,j] by locating the owning block (0 for an absent
// one).
func (m *BlockMatrixEntryReadable) ValueAt(i, j int) (float64, error) {
	n, nCols := m.s.Dim().Rows(), m.s.Dim().Cols()
	if i < 0 || i >= n || j < 0 || j >= nCols {
		return 0, fmt.Errorf("BlockMatrixEntryReadable.ValueAt(%d,%d): %w", i, j, denseerr.ErrIndexOutOfBounds)
	}
	rowOffs := rowOffsets(m.s.rowHeights)
	colOffs := rowOffsets(m.s.colWidths)
	bi, bj := 0, 0
	for bi+1 < len(rowOffs) && rowOffs[bi+1] <= i {
		bi++
	}
	for bj+1 < len(colOffs) && colOffs[bj+1] <= j {
		bj++
	}
	blk, present := m.s.BlockAt(bi, bj)
	if !present {
		return 0, nil
	}
	return blk.ValueAt(i-rowOffs[bi], j-colOffs[bj])
}

// EntryNormMax returns the maximum absolute entry across all present
// blocks.
func (m *BlockMatrixEntryReadable) EntryNormMax() float64 {
	var max float64
	for i := 0; i < m.s.rows; i++ {
		for j := 0; j < m.s.cols; j++ {
			if blk, present := m.s.BlockAt(i, j); present {
				if nm := blk.EntryNormMax(); nm > max {
					max = nm
				}
			}
		}
	}
	return max
}
