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

// Package clear implements a graded encoding that does not hide
// anything: an element is the plaintext itself together with its
// index set and level. Every rule of the index set calculus is still
// enforced, which makes it the reference backend for tests and for
// debugging programs.
package clear

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/fentec-project/mife/encoding"
	"github.com/pkg/errors"
)

// Scheme instantiates clear encodings modulo a fixed prime.
type Scheme struct {
	p *big.Int
}

// New returns a Scheme over Z_p. It returns an error if p is not
// a prime.
func New(p *big.Int) (*Scheme, error) {
	if p == nil || !p.ProbablyPrime(20) {
		return nil, errors.New("plaintext modulus must be a prime")
	}

	return &Scheme{p: new(big.Int).Set(p)}, nil
}

// Setup returns an Encoder for products of up to kappa encodings over
// gamma positions.
func (s *Scheme) Setup(kappa, gamma int) (encoding.Encoder, error) {
	if kappa < 1 || gamma < 1 {
		return nil, errors.Errorf("invalid parameters kappa = %d, gamma = %d", kappa, gamma)
	}

	return &Encoder{p: s.p, kappa: kappa, gamma: gamma}, nil
}

// Element is a clear encoding.
type Element struct {
	Value *big.Int
	Set   encoding.IndexSet
	// number of encodings multiplied into this one
	Level int
}

// IndexSet returns the index set of e.
func (e *Element) IndexSet() encoding.IndexSet {
	return e.Set
}

// Encoder is both the public and the secret side of a clear encoding.
type Encoder struct {
	p     *big.Int
	kappa int
	gamma int
}

// Modulus returns the plaintext modulus.
func (c *Encoder) Modulus() *big.Int {
	return c.p
}

// Universe returns the number of index set positions.
func (c *Encoder) Universe() int {
	return c.gamma
}

// Public returns c itself.
func (c *Encoder) Public() encoding.Evaluator {
	return c
}

// Encode encodes x under s at level 1.
func (c *Encoder) Encode(x *big.Int, s encoding.IndexSet) (encoding.Element, error) {
	if err := s.Validate(c.gamma); err != nil {
		return nil, err
	}

	return &Element{
		Value: new(big.Int).Mod(x, c.p),
		Set:   s.Copy(),
		Level: 1,
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

// Add adds two encodings under the same index set and level.
func (c *Encoder) Add(a, b encoding.Element) (encoding.Element, error) {
	x, y, err := c.cast(a, b)
	if err != nil {
		return nil, err
	}
	if !x.Set.Equal(y.Set) || x.Level != y.Level {
		return nil, errors.Wrapf(encoding.ErrIndexSet, "cannot add %v and %v", x.Set, y.Set)
	}

	sum := new(big.Int).Add(x.Value, y.Value)
	return &Element{
		Value: sum.Mod(sum, c.p),
		Set:   x.Set.Copy(),
		Level: x.Level,
	}, nil
}

// Mul multiplies two encodings under disjoint index sets.
func (c *Encoder) Mul(a, b encoding.Element) (encoding.Element, error) {
	x, y, err := c.cast(a, b)
	if err != nil {
		return nil, err
	}
	set, err := x.Set.Union(y.Set)
	if err != nil {
		return nil, err
	}
	if x.Level+y.Level > c.kappa {
		return nil, errors.Errorf("product of %d encodings exceeds the degree %d",
			x.Level+y.Level, c.kappa)
	}

	prod := new(big.Int).Mul(x.Value, y.Value)
	return &Element{
		Value: prod.Mod(prod, c.p),
		Set:   set,
		Level: x.Level + y.Level,
	}, nil
}

// IsZero reports whether a top level encoding encodes 0.
func (c *Encoder) IsZero(a encoding.Element) (bool, error) {
	x, ok := a.(*Element)
	if !ok {
		return false, encoding.ErrForeign
	}
	if !x.Set.IsTop() {
		return false, encoding.ErrNotTopLevel
	}

	return x.Value.Sign() == 0, nil
}

// WriteElement writes e as a single token.
func (c *Encoder) WriteElement(w io.Writer, e encoding.Element) error {
	x, ok := e.(*Element)
	if !ok {
		return encoding.ErrForeign
	}
	_, err := fmt.Fprintf(w, "%v:%d:%s ", x.Set, x.Level, x.Value.Text(16))

	return err
}

// ReadElement reads an element written by WriteElement.
func (c *Encoder) ReadElement(r io.Reader) (encoding.Element, error) {
	var tok string
	if _, err := fmt.Fscan(r, &tok); err != nil {
		return nil, errors.Wrap(err, "cannot read element")
	}
	parts := strings.Split(tok, ":")
	if len(parts) != 3 {
		return nil, errors.Errorf("malformed element %q", tok)
	}
	set, err := encoding.ParseIndexSet(parts[0])
	if err != nil {
		return nil, err
	}
	if len(set) != c.gamma {
		return nil, errors.Wrapf(encoding.ErrIndexSet, "element over %d positions", len(set))
	}
	var level int
	if _, err := fmt.Sscan(parts[1], &level); err != nil {
		return nil, errors.Wrapf(err, "malformed level %q", parts[1])
	}
	value, ok := new(big.Int).SetString(parts[2], 16)
	if !ok || value.Sign() < 0 || value.Cmp(c.p) >= 0 {
		return nil, errors.Errorf("malformed value %q", parts[2])
	}

	return &Element{Value: value, Set: set, Level: level}, nil
}
