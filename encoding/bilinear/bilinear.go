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

// Package bilinear implements a graded encoding of degree at most two
// from the BN256 pairing. A level one encoding of x is the pair
// (x*g1, x*g2), the product of two of them is the pairing
// e(x*g1, y*g2) = xy*gT, and an encoding is zero iff it is the
// identity of its group. The plaintext modulus is bn256.Order.
//
// Index sets are tracked exactly as in any other graded encoding,
// but they add no hiding on top of the discrete logarithm problem.
package bilinear

import (
	"math/big"

	"github.com/fentec-project/bn256"
	"github.com/fentec-project/mife/encoding"
	"github.com/pkg/errors"
)

// Scheme instantiates pairing based encodings.
type Scheme struct{}

// New returns a pairing based Scheme.
func New() *Scheme {
	return &Scheme{}
}

// Setup returns an Encoder over gamma positions. A pairing multiplies
// exactly once, so kappa must be 1 or 2.
func (s *Scheme) Setup(kappa, gamma int) (encoding.Encoder, error) {
	if kappa < 1 || kappa > 2 {
		return nil, errors.Errorf("pairing supports products of at most 2 encodings, got kappa = %d", kappa)
	}
	if gamma < 1 {
		return nil, errors.Errorf("invalid number of positions %d", gamma)
	}

	return &Encoder{
		kappa:  kappa,
		gamma:  gamma,
		zeroG1: new(bn256.G1).ScalarBaseMult(big.NewInt(0)).String(),
		zeroGT: new(bn256.GT).ScalarBaseMult(big.NewInt(0)).String(),
	}, nil
}

// Element is an encoding in G1 x G2 (level one) or in GT (level two).
type Element struct {
	g1  *bn256.G1
	g2  *bn256.G2
	gt  *bn256.GT
	set encoding.IndexSet
}

// IndexSet returns the index set of e.
func (e *Element) IndexSet() encoding.IndexSet {
	return e.set
}

// Level returns 1 for an element in G1 x G2 and 2 for one in GT.
func (e *Element) Level() int {
	if e.gt != nil {
		return 2
	}
	return 1
}

// Encoder encodes into the pairing groups. Encoding needs no secret,
// so the Encoder is its own public part.
type Encoder struct {
	kappa  int
	gamma  int
	zeroG1 string
	zeroGT string
}

// Modulus returns the order of the pairing groups.
func (c *Encoder) Modulus() *big.Int {
	return bn256.Order
}

// Universe returns the number of index set positions.
func (c *Encoder) Universe() int {
	return c.gamma
}

// Public returns c itself.
func (c *Encoder) Public() encoding.Evaluator {
	return c
}

// Encode encodes x under s at level one.
func (c *Encoder) Encode(x *big.Int, s encoding.IndexSet) (encoding.Element, error) {
	if err := s.Validate(c.gamma); err != nil {
		return nil, err
	}
	xMod := new(big.Int).Mod(x, bn256.Order)

	return &Element{
		g1:  new(bn256.G1).ScalarBaseMult(xMod),
		g2:  new(bn256.G2).ScalarBaseMult(xMod),
		set: s.Copy(),
	}, nil
}

func (c *Encoder) cast(a, b encoding.Element) (*Element, *Element, error) {
	x, ok1 := a.(*Element)
	y, ok2 := b.(*Element)
	if !ok1 || !ok2 {
		return nil, nil, encoding.ErrForeign
	}

	return x, y, nil
}

// Add adds two encodings under the same index set.
func (c *Encoder) Add(a, b encoding.Element) (encoding.Element, error) {
	x, y, err := c.cast(a, b)
	if err != nil {
		return nil, err
	}
	if !x.set.Equal(y.set) || x.Level() != y.Level() {
		return nil, errors.Wrapf(encoding.ErrIndexSet, "cannot add %v and %v", x.set, y.set)
	}

	if x.Level() == 2 {
		return &Element{
			gt:  new(bn256.GT).Add(x.gt, y.gt),
			set: x.set.Copy(),
		}, nil
	}

	return &Element{
		g1:  new(bn256.G1).Add(x.g1, y.g1),
		g2:  new(bn256.G2).Add(x.g2, y.g2),
		set: x.set.Copy(),
	}, nil
}

// Mul pairs two level one encodings under disjoint index sets.
func (c *Encoder) Mul(a, b encoding.Element) (encoding.Element, error) {
	x, y, err := c.cast(a, b)
	if err != nil {
		return nil, err
	}
	if c.kappa < 2 || x.Level() != 1 || y.Level() != 1 {
		return nil, errors.New("pairing can only multiply two level one encodings")
	}
	set, err := x.set.Union(y.set)
	if err != nil {
		return nil, err
	}

	return &Element{
		gt:  bn256.Pair(x.g1, y.g2),
		set: set,
	}, nil
}

// IsZero reports whether a top level encoding is the identity.
func (c *Encoder) IsZero(a encoding.Element) (bool, error) {
	x, ok := a.(*Element)
	if !ok {
		return false, encoding.ErrForeign
	}
	if !x.set.IsTop() {
		return false, encoding.ErrNotTopLevel
	}

	if x.Level() == 2 {
		return new(bn256.GT).Set(x.gt).String() == c.zeroGT, nil
	}
	return new(bn256.G1).Set(x.g1).String() == c.zeroG1, nil
}
