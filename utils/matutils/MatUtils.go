// Package matutils implements utility function for working with mat.Matrix
// structs
package matutils

import (
	"gonum.org/v1/gonum/mat"
)

// VecFilled returns a vector of the given length with every element set
// to value. A length of 0 returns an empty (zero-sized) vector.
func VecFilled(length int, value float64) *mat.VecDense {
	if length == 0 {
		return &mat.VecDense{}
	}

	data := make([]float64, length)
	for i := range data {
		data[i] = value
	}
	return mat.NewVecDense(length, data)
}

// VecData returns a copy of the elements of a vector as a slice
func VecData(v mat.Vector) []float64 {
	data := make([]float64, v.Len())
	for i := range data {
		data[i] = v.AtVec(i)
	}
	return data
}
