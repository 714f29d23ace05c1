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
	"math"
	"math/big"
)

// gaussian holds what the discrete Gaussian samplers centered on 0
// share: the standard deviation, the precision of the floating point
// arithmetic and the tail cut.
type gaussian struct {
	sigma *big.Float
	// precision in bits
	prec uint
	// samples are drawn from [-cut, cut]
	cut *big.Int
	// exp(-2^i / 2sigma^2) for 0 <= i <= 2*bits(cut)
	preExp []*big.Float
	// 2^prec
	powN  *big.Int
	powNF *big.Float
}

func newGaussian(sigma *big.Float, prec uint) *gaussian {
	cutF := new(big.Float).Mul(sigma, big.NewFloat(math.Sqrt(float64(prec))))
	cut, _ := cutF.Int(nil)

	powN := new(big.Int).Lsh(big.NewInt(1), prec)
	powNF := new(big.Float).SetPrec(prec).SetInt(powN)

	return &gaussian{
		sigma: sigma,
		prec:  prec,
		cut:   cut,
		powN:  powN,
		powNF: powNF,
	}
}

// twoSigmaSquare returns 2*sigma^2 with the precision of g.
func (g *gaussian) twoSigmaSquare() *big.Float {
	ret := new(big.Float).SetPrec(g.prec)
	ret.Mul(g.sigma, g.sigma)
	return ret.Mul(ret, big.NewFloat(2))
}

// precompExp fills preExp. Beyond 2^(2*bits(cut)) the values are
// negligible.
func (g *gaussian) precompExp() {
	maxBits := 2 * g.cut.BitLen()
	alpha := g.twoSigmaSquare()
	g.preExp = make([]*big.Float, maxBits+1)

	x := big.NewInt(1)
	for i := range g.preExp {
		g.preExp[i] = expNeg(x, alpha, 8*g.prec, g.prec)
		x.Lsh(x, 1)
	}
}

// isExpGreater reports whether y > exp(-x/(2sigma^2)). The exponential
// is narrowed down bit by bit of x from precomputed powers and the
// loop stops as soon as y falls outside the current bounds.
func (g *gaussian) isExpGreater(y *big.Float, x *big.Int) bool {
	bits := x.BitLen()
	if bits >= len(g.preExp) {
		return true
	}

	upper := new(big.Float).SetPrec(g.prec).SetInt64(1)
	lower := new(big.Float).SetPrec(g.prec).Set(g.preExp[bits])
	lower.Quo(lower, g.preExp[0])
	if lower.Cmp(y) > 0 {
		return false
	}

	for i := bits - 1; i >= 0; i-- {
		if x.Bit(i) == 1 {
			upper.Mul(upper, g.preExp[i])
			if y.Cmp(upper) > 0 {
				return true
			}
		} else {
			lower.Quo(lower, g.preExp[i])
			if y.Cmp(lower) < 0 {
				return false
			}
		}
	}

	return false
}

// expNeg approximates exp(-x/alpha) with a Taylor polynomial
// of degree at most k, precise up to 2^-prec.
func expNeg(x *big.Int, alpha *big.Float, k uint, prec uint) *big.Float {
	val := new(big.Float).SetPrec(prec).SetInt(x)
	val.Quo(val, alpha)

	sum := new(big.Float).SetPrec(prec).SetInt64(1)
	term := new(big.Float).SetPrec(prec).SetInt64(1)
	eps := new(big.Float).SetPrec(prec).SetMantExp(big.NewFloat(1), -int(prec))

	for i := uint(1); i <= k; i++ {
		term.Mul(term, val)
		term.Quo(term, new(big.Float).SetUint64(uint64(i)))
		sum.Add(sum, term)
		if term.Cmp(eps) < 0 {
			break
		}
	}

	return sum.Quo(new(big.Float).SetPrec(prec).SetInt64(1), sum)
}
