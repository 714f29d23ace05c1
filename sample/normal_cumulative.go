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
	"sort"

	"github.com/pkg/errors"
)

// NormalCumulative samples random values from the discrete Gaussian
// distribution centered on 0 by inverting a precomputed cumulative
// table. It is the fastest of the Gaussian samplers but the table
// grows linearly with sigma, so it suits small deviations such as
// the short ring elements of a lattice encoding.
type NormalCumulative struct {
	*gaussian
	// table[i+1] - table[i] is proportional to the weight of i
	table []*big.Int
	// samples are symmetric around 0 if set, nonnegative otherwise
	twoSided bool
}

// NewNormalCumulative returns an instance of NormalCumulative sampler
// with standard deviation sigma and precision prec.
func NewNormalCumulative(sigma *big.Float, prec uint, twoSided bool) *NormalCumulative {
	s := &NormalCumulative{
		gaussian: newGaussian(sigma, prec),
		twoSided: twoSided,
	}
	s.precompTable()

	return s
}

func (s *NormalCumulative) precompTable() {
	cut := s.cut.Int64() + 1
	alpha := s.twoSigmaSquare()

	s.table = make([]*big.Int, cut+1)
	s.table[0] = big.NewInt(0)
	weight := new(big.Float).SetPrec(s.prec)
	w := new(big.Int)
	for i := int64(0); i < cut; i++ {
		value := expNeg(big.NewInt(i*i), alpha, 8*s.prec, s.prec)
		if i == 0 && s.twoSided {
			value.Quo(value, big.NewFloat(2))
		}
		weight.Mul(value, s.powNF)
		weight.Int(w)
		s.table[i+1] = new(big.Int).Add(s.table[i], w)
	}
}

// Sample samples a value from the discrete Gaussian distribution.
func (s *NormalCumulative) Sample() (*big.Int, error) {
	total := s.table[len(s.table)-1]
	bound := total
	if s.twoSided {
		bound = new(big.Int).Lsh(total, 1)
	}

	u, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return nil, errors.Wrap(err, "error while sampling")
	}
	sign := int64(1)
	if u.Cmp(total) >= 0 {
		u.Sub(u, total)
		sign = -1
	}

	// smallest i with u < table[i]
	i := sort.Search(len(s.table), func(i int) bool { return u.Cmp(s.table[i]) < 0 })

	return big.NewInt(sign * int64(i-1)), nil
}
