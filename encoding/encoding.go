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

// Package encoding defines graded encodings with index sets, the
// primitive the MIFE engine encrypts with.
//
// An encoding hides a plaintext x in Z_p under an index set S, a
// multiset over the positions 0 ... gamma-1. Encodings under the same
// set can be added, encodings under disjoint sets can be multiplied
// (the sets are joined), and an encoding under the full set, every
// position exactly once, can be tested for encoding zero. Nothing else
// about x can be learned from an encoding.
//
// Implementations live in the subpackages: clear (no hiding at all,
// for tests), bilinear (a pairing, two levels) and ggh (a lattice
// based jigsaw puzzle).
package encoding

import (
	"io"
	"math/big"

	"github.com/pkg/errors"
)

// ErrNotTopLevel is returned by IsZero for an encoding whose index set
// does not cover every position exactly once.
var ErrNotTopLevel = errors.New("zero test needs an encoding at the top level index set")

// ErrIndexSet is returned when the index sets of the operands do not
// permit the operation.
var ErrIndexSet = errors.New("index sets do not match")

// ErrForeign is returned when an element was not produced by the
// evaluator it is passed to.
var ErrForeign = errors.New("element belongs to a different encoding")

// Element is an encoding of a plaintext under an index set.
// Elements are immutable.
type Element interface {
	IndexSet() IndexSet
}

// Evaluator holds the public parameters of a graded encoding. It is
// safe for concurrent use.
type Evaluator interface {
	// Modulus returns the prime p of the plaintext space Z_p.
	Modulus() *big.Int
	// Universe returns the number of positions gamma of index sets.
	Universe() int
	// Add returns an encoding of the sum of the plaintexts. The
	// index sets of a and b must be equal.
	Add(a, b Element) (Element, error)
	// Mul returns an encoding of the product of the plaintexts under
	// the union of the index sets, which must be disjoint.
	Mul(a, b Element) (Element, error)
	// IsZero reports whether a encodes 0. It returns ErrNotTopLevel
	// unless a is at the top level index set.
	IsZero(a Element) (bool, error)
}

// Encoder holds the secret parameters of a graded encoding on top of
// its public ones.
type Encoder interface {
	Evaluator
	// Encode encodes x under the index set s.
	Encode(x *big.Int, s IndexSet) (Element, error)
	// Public returns the public part of the encoding.
	Public() Evaluator
}

// Scheme instantiates a graded encoding.
type Scheme interface {
	// Setup samples the parameters of an encoding supporting products
	// of kappa encodings over index sets of gamma positions.
	Setup(kappa, gamma int) (Encoder, error)
}

// Codec writes and reads elements of a particular encoding.
type Codec interface {
	WriteElement(w io.Writer, e Element) error
	ReadElement(r io.Reader) (Element, error)
}
