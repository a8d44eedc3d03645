package xtensor

import (
	"fmt"

	"gorgonia.org/tensor"
)

// CPTTensor is a dense N-dimensional float64 tensor used to hold a node's
// conditional probability table. Axis 0 is always the node's own value;
// axes 1..k are its parents, in insertion order.
type CPTTensor struct {
	t       *tensor.Dense
	strides []int
}

// NewCPTTensor allocates a tensor of the given shape filled with fill.
func NewCPTTensor(fill float64, shape ...int) *CPTTensor {
	d := tensor.New(tensor.Of(tensor.Float64), tensor.WithShape(shape...))
	data := d.Data().([]float64)
	for i := range data {
		data[i] = fill
	}
	return &CPTTensor{t: d, strides: rowMajorStrides(shape)}
}

func rowMajorStrides(shape []int) []int {
	strides := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= shape[i]
	}
	return strides
}

// Shape returns the tensor's dimension sizes.
func (c *CPTTensor) Shape() []int {
	sh := c.t.Shape()
	out := make([]int, len(sh))
	copy(out, sh)
	return out
}

// Data returns the underlying flat row-major slice (mutable).
func (c *CPTTensor) Data() []float64 { return c.t.Data().([]float64) }

// FlatIndex computes the row-major flat offset for the given coordinates,
// one per dimension, coords[0] being the node's own value.
func (c *CPTTensor) FlatIndex(coords []int) int {
	idx := 0
	for i, v := range coords {
		idx += v * c.strides[i]
	}
	return idx
}

// At returns the value at the given coordinates.
func (c *CPTTensor) At(coords ...int) float64 {
	return c.Data()[c.FlatIndex(coords)]
}

// ScatterAddFlat accumulates weights[i] into flat position flatIndices[i],
// for every sample i. This is the vectorized count-accumulation step of
// Node.computeCPT: a single pass over samples, touching the dense backing
// slice directly rather than the tensor library's generic indexed accessor.
func (c *CPTTensor) ScatterAddFlat(flatIndices []int, weights []float64) {
	data := c.Data()
	for i, idx := range flatIndices {
		data[idx] += weights[i]
	}
}

// NormalizeAxis0 divides every axis-0 column by its sum, so that
// sum(cpTable[:, j1, ..., jk]) == 1 for every column (j1, ..., jk).
func (c *CPTTensor) NormalizeAxis0() {
	shape := c.Shape()
	if len(shape) == 0 {
		return
	}
	n0 := shape[0]
	colStride := c.strides[0]
	nCols := colStride
	data := c.Data()
	for col := 0; col < nCols; col++ {
		sum := 0.0
		for k := 0; k < n0; k++ {
			sum += data[k*colStride+col]
		}
		if sum == 0 {
			continue
		}
		for k := 0; k < n0; k++ {
			data[k*colStride+col] /= sum
		}
	}
}

// Clone deep-copies the tensor.
func (c *CPTTensor) Clone() *CPTTensor {
	strides := make([]int, len(c.strides))
	copy(strides, c.strides)
	return &CPTTensor{t: c.t.Clone().(*tensor.Dense), strides: strides}
}

// String renders the tensor shape and flat contents, used by dump_cpt.
func (c *CPTTensor) String() string {
	return fmt.Sprintf("shape=%v data=%v", c.Shape(), c.Data())
}
