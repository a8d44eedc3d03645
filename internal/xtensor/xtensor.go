// Package xtensor adapts gorgonia.org/tensor to the narrow shapes bayesnet
// needs: dense integer sample matrices, dense float weight vectors, and
// dense N-dimensional float CPT tensors with axis-0 normalization and
// flat-index scatter-add. It is deliberately thin -- the tensor runtime
// itself (elementwise ops, argmax, indexing) is treated as an external
// collaborator, not reimplemented here.
package xtensor

import (
	"fmt"

	"gorgonia.org/tensor"
)

// IntMatrix is a dense (rows x cols) matrix of ints, used for the sample
// matrix: row i<n_features is feature i's codes, the last row is the class.
type IntMatrix struct {
	t *tensor.Dense
}

// NewIntMatrix allocates a zeroed rows x cols int matrix.
func NewIntMatrix(rows, cols int) *IntMatrix {
	return &IntMatrix{t: tensor.New(tensor.Of(tensor.Int), tensor.WithShape(rows, cols))}
}

// NewIntMatrixFromRows builds a matrix from row-major int slices, one per row.
func NewIntMatrixFromRows(rows [][]int) *IntMatrix {
	nr := len(rows)
	if nr == 0 {
		return NewIntMatrix(0, 0)
	}
	nc := len(rows[0])
	m := NewIntMatrix(nr, nc)
	for i, row := range rows {
		for j, v := range row {
			m.Set(i, j, v)
		}
	}
	return m
}

// Dims returns (rows, cols).
func (m *IntMatrix) Dims() (int, int) {
	sh := m.t.Shape()
	if len(sh) != 2 {
		return 0, 0
	}
	return sh[0], sh[1]
}

// At returns the value at (row, col).
func (m *IntMatrix) At(row, col int) int {
	v, err := m.t.At(row, col)
	if err != nil {
		panic(fmt.Sprintf("xtensor: IntMatrix.At(%d,%d): %v", row, col, err))
	}
	return v.(int)
}

// Set assigns the value at (row, col).
func (m *IntMatrix) Set(row, col, v int) {
	if err := m.t.SetAt(v, row, col); err != nil {
		panic(fmt.Sprintf("xtensor: IntMatrix.Set(%d,%d): %v", row, col, err))
	}
}

// Row returns a copy of row i as a plain int slice.
func (m *IntMatrix) Row(i int) []int {
	_, cols := m.Dims()
	out := make([]int, cols)
	for j := 0; j < cols; j++ {
		out[j] = m.At(i, j)
	}
	return out
}

// Rows returns the number of rows.
func (m *IntMatrix) Rows() int { r, _ := m.Dims(); return r }

// Cols returns the number of columns.
func (m *IntMatrix) Cols() int { _, c := m.Dims(); return c }

// Clone deep-copies the matrix.
func (m *IntMatrix) Clone() *IntMatrix {
	return &IntMatrix{t: m.t.Clone().(*tensor.Dense)}
}

// AppendRow returns a new matrix with row appended beneath m.
func (m *IntMatrix) AppendRow(row []int) *IntMatrix {
	rows, cols := m.Dims()
	out := NewIntMatrix(rows+1, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, m.At(i, j))
		}
	}
	for j, v := range row {
		out.Set(rows, j, v)
	}
	return out
}

// FloatVector is a dense 1-D float64 vector, used for per-sample weights.
type FloatVector struct {
	t *tensor.Dense
}

// NewFloatVector allocates a zeroed vector of length n.
func NewFloatVector(n int) *FloatVector {
	return &FloatVector{t: tensor.New(tensor.Of(tensor.Float64), tensor.WithShape(n))}
}

// NewUniformWeights returns a vector of length n filled with 1/n.
func NewUniformWeights(n int) *FloatVector {
	v := NewFloatVector(n)
	if n == 0 {
		return v
	}
	fill := 1.0 / float64(n)
	data := v.Data()
	for i := range data {
		data[i] = fill
	}
	return v
}

// NewFloatVectorFromSlice copies data into a new vector.
func NewFloatVectorFromSlice(data []float64) *FloatVector {
	v := NewFloatVector(len(data))
	copy(v.Data(), data)
	return v
}

// Len returns the vector length.
func (v *FloatVector) Len() int { return v.t.Shape()[0] }

// At returns element i.
func (v *FloatVector) At(i int) float64 { return v.Data()[i] }

// Set assigns element i.
func (v *FloatVector) Set(i int, val float64) { v.Data()[i] = val }

// Data returns the underlying flat slice (mutating it mutates the vector).
func (v *FloatVector) Data() []float64 { return v.t.Data().([]float64) }

// Clone deep-copies the vector.
func (v *FloatVector) Clone() *FloatVector { return &FloatVector{t: v.t.Clone().(*tensor.Dense)} }

// Sum returns the sum of all elements.
func (v *FloatVector) Sum() float64 {
	var s float64
	for _, x := range v.Data() {
		s += x
	}
	return s
}

// Normalize divides every element by the vector's sum, in place.
func (v *FloatVector) Normalize() {
	sum := v.Sum()
	if sum == 0 {
		return
	}
	data := v.Data()
	for i := range data {
		data[i] /= sum
	}
}

// FloatMatrix is a dense 2-D float64 matrix, used for conditionalEdge output.
type FloatMatrix struct {
	t *tensor.Dense
}

// NewFloatMatrix allocates a zeroed rows x cols float64 matrix.
func NewFloatMatrix(rows, cols int) *FloatMatrix {
	return &FloatMatrix{t: tensor.New(tensor.Of(tensor.Float64), tensor.WithShape(rows, cols))}
}

// Dims returns (rows, cols).
func (m *FloatMatrix) Dims() (int, int) {
	sh := m.t.Shape()
	return sh[0], sh[1]
}

// At returns the value at (row, col).
func (m *FloatMatrix) At(row, col int) float64 {
	v, err := m.t.At(row, col)
	if err != nil {
		panic(fmt.Sprintf("xtensor: FloatMatrix.At(%d,%d): %v", row, col, err))
	}
	return v.(float64)
}

// Set assigns the value at (row, col).
func (m *FloatMatrix) Set(row, col int, val float64) {
	if err := m.t.SetAt(val, row, col); err != nil {
		panic(fmt.Sprintf("xtensor: FloatMatrix.Set(%d,%d): %v", row, col, err))
	}
}

// Clone deep-copies the matrix.
func (m *FloatMatrix) Clone() *FloatMatrix { return &FloatMatrix{t: m.t.Clone().(*tensor.Dense)} }

// Row returns a copy of row i.
func (m *FloatMatrix) Row(i int) []float64 {
	_, cols := m.Dims()
	out := make([]float64, cols)
	for j := 0; j < cols; j++ {
		out[j] = m.At(i, j)
	}
	return out
}
