package matrix

import "github.com/katalvlaran/denseq/vector"

// Multiply builds the composed linear operator representing the product
// of factors applied right to left (the Matrix.multiply combinator).
func Multiply(factors ...Matrix) (*MatrixProduct, error) {
	return NewMatrixProduct(factors)
}

// MultiplyOrthogonal builds the composed orthogonal operator representing
// the product of factors applied right to left (the
// OrthogonalMatrix.multiply combinator).
func MultiplyOrthogonal(factors ...Orthogonal) (*OrthogonalProduct, error) {
	return NewOrthogonalProduct(factors)
}

// BlockOf wraps structure as a general Matrix (the BlockMatrix.of
// combinator).
func BlockOf(structure *BlockMatrixStructure[Matrix]) *BlockMatrix {
	return NewBlockMatrix(structure)
}

// BlockEntryReadableOf wraps structure as an EntryReadable Matrix (the
// BlockMatrixEntryReadable.of combinator).
func BlockEntryReadableOf(structure *BlockMatrixStructure[EntryReadable]) *BlockMatrixEntryReadable {
	return NewBlockMatrixEntryReadable(structure)
}

// HouseholderFrom builds the single reflector carrying source to target
// (the HouseholderMatrix.from combinator).
func HouseholderFrom(source, target *vector.Vector) (*HouseholderMatrix, error) {
	return FromSourceToTarget(source, target)
}
