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

package internal

import "math/big"

// ModExp calculates g^x in Z_m*, even if x < 0. For negative x it
// returns nil when g is not invertible modulo m.
func ModExp(g, x, m *big.Int) *big.Int {
	ret := new(big.Int)
	if x.Sign() == -1 {
		xNeg := new(big.Int).Neg(x)
		ret.Exp(g, xNeg, m)
		return ret.ModInverse(ret, m)
	}

	return ret.Exp(g, x, m)
}

// DivRound returns the integer closest to a/b for b > 0, rounding
// halves up.
func DivRound(a, b *big.Int) *big.Int {
	num := new(big.Int).Lsh(a, 1)
	num.Add(num, b)
	den := new(big.Int).Lsh(b, 1)

	// floor division
	q, r := new(big.Int).QuoRem(num, den, new(big.Int))
	if r.Sign() < 0 {
		q.Sub(q, big.NewInt(1))
	}

	return q
}
