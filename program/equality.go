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

// Package program contains matrix branching programs that can be
// evaluated by the mife package.
package program

import (
	"math/big"

	"github.com/fentec-project/mife/data"
	"github.com/fentec-project/mife/internal"
	"github.com/fentec-project/mife/mife"
	"github.com/pkg/errors"
)

// Equality is a two input program that reports whether two bit strings
// of length Bits are equal.
//
// Slot j of input 0 holds bit j of the first string and slot j of
// input 1 bit j of the second one. The slots are interleaved, A1 B1 A2
// B2 and so on. A row vector (1, d) is carried through the product,
// where d counts the positions where the strings differ so far: an A
// matrix spreads the state on four coordinates selected by a, and the
// following B matrix adds 1 to d when b != a. The last B matrix keeps
// only d, so the 1x1 product is the Hamming distance of the strings.
type Equality struct {
	Bits int
}

// NewEquality returns an Equality program for strings of bits bits.
func NewEquality(bits int) (*Equality, error) {
	if bits < 1 {
		return nil, errors.Wrapf(internal.MalformedInput, "%d bits", bits)
	}

	return &Equality{Bits: bits}, nil
}

// Inputs returns 2.
func (e *Equality) Inputs() int {
	return 2
}

// Slots returns Bits.
func (e *Equality) Slots(int) int {
	return e.Bits
}

// KilianDims returns 4 after every A matrix and 2 after every B matrix.
func (e *Equality) KilianDims(pp *mife.PublicParams) ([]int, error) {
	dims := make([]int, pp.NumR)
	for k := range dims {
		if k%2 == 0 {
			dims[k] = 4
		} else {
			dims[k] = 2
		}
	}

	return dims, nil
}

// Order interleaves the slots of the two inputs.
func (e *Equality) Order(pp *mife.PublicParams, position int) (int, int) {
	return position % 2, position / 2
}

// Matrices returns the A matrices of the bits of msg for input 0 and
// the B matrices for input 1.
func (e *Equality) Matrices(pp *mife.PublicParams, msg data.Vector) (mife.ClearMatrices, error) {
	if len(msg) != e.Bits {
		return nil, errors.Wrapf(internal.MalformedInput, "message of length %d, expected %d", len(msg), e.Bits)
	}
	if pp.P.Cmp(big.NewInt(int64(e.Bits))) <= 0 {
		return nil, errors.Wrapf(internal.MalformedPubParams, "modulus too small for %d bits", e.Bits)
	}

	mats := mife.ClearMatrices{make([]data.Matrix, e.Bits), make([]data.Matrix, e.Bits)}
	for j, x := range msg {
		if x.Cmp(big.NewInt(0)) != 0 && x.Cmp(big.NewInt(1)) != 0 {
			return nil, errors.Wrapf(internal.MalformedInput, "entry %d is not a bit", j)
		}
		bit := x.Int64()
		mats[0][j] = e.matrixA(j, bit)
		mats[1][j] = e.matrixB(j, bit)
	}

	return mats, nil
}

func (e *Equality) matrixA(j int, a int64) data.Matrix {
	spread := data.Vector{big.NewInt(1), big.NewInt(a), big.NewInt(1 - a), big.NewInt(0)}
	if j == 0 {
		return data.Matrix{spread}
	}

	keep := data.Vector{big.NewInt(0), big.NewInt(0), big.NewInt(0), big.NewInt(1)}
	return data.Matrix{spread, keep}
}

func (e *Equality) matrixB(j int, b int64) data.Matrix {
	if j == e.Bits-1 {
		return data.Matrix{
			data.Vector{big.NewInt(0)},
			data.Vector{big.NewInt(1 - b)},
			data.Vector{big.NewInt(b)},
			data.Vector{big.NewInt(1)},
		}
	}

	return data.Matrix{
		data.Vector{big.NewInt(1), big.NewInt(0)},
		data.Vector{big.NewInt(0), big.NewInt(1 - b)},
		data.Vector{big.NewInt(0), big.NewInt(b)},
		data.Vector{big.NewInt(0), big.NewInt(1)},
	}
}

// Interpret returns 1 if the Hamming distance is zero and 0 otherwise.
func (e *Equality) Interpret(pp *mife.PublicParams, s data.Support) (int, error) {
	if s.Rows() != 1 || s.Cols() != 1 {
		return 0, errors.Wrapf(internal.MalformedInput, "expected a 1x1 support, got %dx%d", s.Rows(), s.Cols())
	}
	if s.AllZero() {
		return 1, nil
	}

	return 0, nil
}

// BitString returns the n lowest bits of x as a message, least
// significant bit first.
func BitString(x uint64, n int) data.Vector {
	v := make(data.Vector, n)
	for i := range v {
		v[i] = big.NewInt(int64((x >> uint(i)) & 1))
	}

	return v
}
