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
	"github.com/fentec-project/mife/internal"
	"github.com/fentec-project/mife/internal/parallel"
	"github.com/fentec-project/mife/sample"
	"github.com/pkg/errors"
)

// MaxKilianAttempts is the number of times a singular Kilian matrix is
// resampled before GenerateKilian gives up.
const MaxKilianAttempts = 8

// AdjugateMaxDim is the largest Kilian dimension inverted through the
// adjugate. Larger matrices are inverted by Gauss-Jordan elimination.
const AdjugateMaxDim = 4

// KilianChain holds random invertible matrices R[k] together with their
// inverses modulo p. R[k] links global positions k and k+1.
type KilianChain struct {
	Dims []int
	R    []data.Matrix
	RInv []data.Matrix
}

// GenerateKilian samples a KilianChain with the given dimensions.
//
// The matrices are drawn one after another from sampler, which
// therefore need not be safe for concurrent use. The inverses are
// computed in parallel. A link whose matrix turns out to be singular
// modulo p is resampled, at most MaxKilianAttempts times, after which
// data.ErrSingular is returned.
func GenerateKilian(dims []int, p *big.Int, sampler sample.Sampler, mon Monitor) (*KilianChain, error) {
	mon = orNop(mon)
	for k, d := range dims {
		if d < 1 {
			return nil, errors.Wrapf(internal.MalformedInput, "Kilian dimension %d of link %d", d, k)
		}
	}

	numR := len(dims)
	kc := &KilianChain{
		Dims: append([]int(nil), dims...),
		R:    make([]data.Matrix, numR),
		RInv: make([]data.Matrix, numR),
	}

	mon.Start("kilian")
	defer mon.Finish("kilian")

	for k := 0; k < numR; k++ {
		r, err := data.NewRandomMatrix(dims[k], dims[k], sampler)
		if err != nil {
			return nil, err
		}
		kc.R[k] = r
	}

	counter := NewCounter(mon, "kilian", numR)
	singular := make([]bool, numR)
	err := parallel.For(numR, func(k int) error {
		inv, err := invertMod(kc.R[k], p)
		if errors.Cause(err) == data.ErrSingular {
			singular[k] = true
			return nil
		}
		if err != nil {
			return err
		}
		kc.RInv[k] = inv
		counter.Inc()
		return nil
	})
	if err != nil {
		return nil, err
	}

	for k := 0; k < numR; k++ {
		if !singular[k] {
			continue
		}
		if err := kc.resample(k, p, sampler); err != nil {
			return nil, err
		}
		counter.Inc()
	}

	return kc, nil
}

// resample replaces the k-th link by a fresh invertible matrix.
func (kc *KilianChain) resample(k int, p *big.Int, sampler sample.Sampler) error {
	for attempt := 0; attempt < MaxKilianAttempts; attempt++ {
		r, err := data.NewRandomMatrix(kc.Dims[k], kc.Dims[k], sampler)
		if err != nil {
			return err
		}
		inv, err := invertMod(r, p)
		if errors.Cause(err) == data.ErrSingular {
			continue
		}
		if err != nil {
			return err
		}
		kc.R[k], kc.RInv[k] = r, inv
		return nil
	}

	return errors.Wrapf(data.ErrSingular, "Kilian link %d singular after %d attempts", k, MaxKilianAttempts)
}

func invertMod(r data.Matrix, p *big.Int) (data.Matrix, error) {
	if r.Rows() > AdjugateMaxDim {
		return r.InverseModGauss(p)
	}

	return r.InverseMod(p)
}

// NumR returns the number of links of the chain.
func (kc *KilianChain) NumR() int {
	return len(kc.R)
}

// Apply randomizes the matrix m at the given global position of a
// product of kappa = NumR() + 1 matrices:
//
//	position 0:        m R[0]
//	position kappa-1:  RInv[kappa-2] m
//	otherwise:         RInv[position-1] m R[position]
//
// The product of the randomized matrices in position order equals the
// product of the original ones modulo p. A chain without links leaves
// m unchanged.
func (kc *KilianChain) Apply(position int, m data.Matrix, p *big.Int) (data.Matrix, error) {
	numR := kc.NumR()
	if position < 0 || position > numR {
		return nil, errors.Wrapf(internal.MalformedInput, "position %d outside [0, %d]", position, numR)
	}
	if numR == 0 {
		return m.Copy(), nil
	}

	var err error
	res := m
	if position > 0 {
		if res, err = kc.RInv[position-1].MulMod(res, p); err != nil {
			return nil, errors.Wrapf(err, "left Kilian factor at position %d", position)
		}
	}
	if position < numR {
		if res, err = res.MulMod(kc.R[position], p); err != nil {
			return nil, errors.Wrapf(err, "right Kilian factor at position %d", position)
		}
	}

	return res, nil
}

// Check verifies that R[k] RInv[k] is the identity modulo p for every
// link.
func (kc *KilianChain) Check(p *big.Int) error {
	if len(kc.RInv) != len(kc.R) || len(kc.Dims) != len(kc.R) {
		return errors.Wrap(internal.MalformedSecKey, "Kilian chain lengths differ")
	}
	for k := range kc.R {
		if !kc.R[k].CheckDims(kc.Dims[k], kc.Dims[k]) || !kc.RInv[k].CheckDims(kc.Dims[k], kc.Dims[k]) {
			return errors.Wrapf(internal.MalformedSecKey, "Kilian link %d has wrong dimensions", k)
		}
		prod, err := kc.R[k].MulMod(kc.RInv[k], p)
		if err != nil {
			return err
		}
		id := data.NewIdentityMatrix(kc.Dims[k])
		for i := range prod {
			for j := range prod[i] {
				if prod[i][j].Cmp(id[i][j]) != 0 {
					return errors.Wrapf(internal.MalformedSecKey, "Kilian link %d is not inverted", k)
				}
			}
		}
	}

	return nil
}
