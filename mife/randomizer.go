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
	"math/big"

	"github.com/fentec-project/mife/data"
	"github.com/fentec-project/mife/sample"
	"github.com/pkg/errors"
)

// maxZeroDraws bounds the number of zero scalars Randomize tolerates
// from a sampler before it reports the sampler as broken.
const maxZeroDraws = 64

// Randomize multiplies every entry of m by a random nonzero scalar
// modulo p. A zero draw is rejected and resampled, so the support of
// the result is the support of m.
func Randomize(m data.Matrix, p *big.Int, sampler sample.Sampler) (data.Matrix, error) {
	for i := 0; i < maxZeroDraws; i++ {
		r, err := sampler.Sample()
		if err != nil {
			return nil, err
		}
		r.Mod(r, p)
		if r.Sign() == 0 {
			continue
		}

		return m.MulScalar(r).Mod(p), nil
	}

	return nil, errors.Errorf("randomizer sampler returned 0 modulo p %d times", maxZeroDraws)
}
