// Package matutils implements utility function for working with mat.Matrix
// structs
package matutils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Format formats a matrix for printing
func Format(X mat.Matrix) string {
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	return fmt.Sprintf("%v", fa)
}

// VecConst returns a vector of the given length with every element
// set to value
func VecConst(length int, value float64) *mat.VecDense {
	constSlice := make([]float64, length)
	for i := 0; i < length; i++ {
		constSlice[i] = value
	}
	return mat.NewVecDense(length, constSlice)
}

// VecMin returns the minimum element of a vector
func VecMin(values mat.Vector) float64 {
	min := values.AtVec(0)
	for i := 1; i < values.Len(); i++ {
		if v := values.AtVec(i); v < min {
			min = v
		}
	}
	return min
}
