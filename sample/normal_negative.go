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

package sample

import (
	"crypto/rand"
	"math/big"

	"github.com/pkg/errors"
)

// NormalNegative samples random values from the discrete Gaussian
// distribution centered on 0 by rejection: a candidate is drawn
// uniformly from [-cut, cut] and accepted with probability
// exp(-x^2 / 2sigma^2).
type NormalNegative struct {
	*gaussian
	width *big.Int
}

// NewNormalNegative returns an instance of NormalNegative sampler
// with standard deviation sigma and precision prec. The tail is cut
// at sigma * sqrt(prec).
func NewNormalNegative(sigma *big.Float, prec uint) *NormalNegative {
	g := newGaussian(sigma, prec)
	g.precompExp()

	width := new(big.Int).Lsh(g.cut, 1)
	width.Add(width, big.NewInt(1))

	return &NormalNegative{
		gaussian: g,
		width:    width,
	}
}

// Sample samples a value from the discrete Gaussian distribution.
func (s *NormalNegative) Sample() (*big.Int, error) {
	u := new(big.Float).SetPrec(s.prec)
	square := new(big.Int)

	for {
		x, err := rand.Int(rand.Reader, s.width)
		if err != nil {
			return nil, errors.Wrap(err, "error while sampling")
		}
		x.Sub(x, s.cut)
		square.Mul(x, x)

		r, err := rand.Int(rand.Reader, s.powN)
		if err != nil {
			return nil, errors.Wrap(err, "error while sampling")
		}
		u.SetInt(r)
		u.Quo(u, s.powNF)
		if !s.isExpGreater(u, square) {
			return x, nil
		}
	}
}
