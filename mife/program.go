/*
 * Copyright (c) 2018 XLAB d.o.o
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package mife

import (
	"fmt"
	"strings"

	"github.com/fentec-project/mife/data"
)

// Program describes the function a MIFE instance computes, as a
// product of matrices, one per slot, spread over several inputs.
//
// The slots of all inputs are laid out on kappa global positions by
// Order. Encrypt builds the matrices of a message with Matrices and
// Evaluate multiplies the matrices of several ciphertexts in position
// order. Only whether the entries of the product are zero is revealed,
// and Interpret turns that pattern into the result.
type Program interface {
	// Inputs returns the number of inputs.
	Inputs() int
	// Slots returns the number of matrices of the given input.
	Slots(input int) int
	// KilianDims returns the dimensions of the NumR Kilian matrices.
	// The k-th one sits between global positions k and k+1, so it
	// must equal the number of columns of the matrix at position k.
	KilianDims(pp *PublicParams) ([]int, error)
	// Order maps a global position in [0, kappa) to an (input, slot)
	// pair. It must be a bijection.
	Order(pp *PublicParams, position int) (input, slot int)
	// Matrices builds the matrices of msg for every input and slot.
	Matrices(pp *PublicParams, msg data.Vector) (ClearMatrices, error)
	// Interpret maps the support of the product to the result.
	Interpret(pp *PublicParams, support data.Support) (int, error)
}

// ClearMatrices holds the matrices of a message indexed by input and
// slot.
type ClearMatrices [][]data.Matrix

func (c ClearMatrices) String() string {
	var b strings.Builder
	for i, slots := range c {
		for j, m := range slots {
			fmt.Fprintf(&b, "input %d slot %d (%dx%d)\n%v\n", i, j, m.Rows(), m.Cols(), m)
		}
	}

	return b.String()
}
