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

	"github.com/fentec-project/mife/encoding"
	"github.com/fentec-project/mife/internal"
	"github.com/pkg/errors"
)

// PublicParams are the public parameters of a MIFE instance.
type PublicParams struct {
	// NumInputs is the number of inputs.
	NumInputs int
	// N[i] is the number of slots of input i.
	N []int
	// L is the logarithm of the size of the partition family.
	L int
	// Gamma is the number of index set positions, the sum of Gammas.
	Gamma int
	// Gammas[i] = 1 + (N[i]-1)(L+1) positions are owned by input i.
	Gammas []int
	// Kappa is the total number of slots, the sum of N.
	Kappa int
	// NumR = Kappa - 1 is the number of Kilian matrices.
	NumR int
	// P is the plaintext modulus of the encoding.
	P     *big.Int
	Flags Flags
	// KilianDims[k] is the dimension of the k-th Kilian matrix.
	KilianDims []int

	Program   Program
	Evaluator encoding.Evaluator

	// positions[k] is the (input, slot) pair at global position k.
	positions [][2]int
}

// SecretKey is the secret key of a MIFE instance. It is never
// modified after Setup.
type SecretKey struct {
	Encoder encoding.Encoder
	// Kilian is nil when the Kilian randomization is switched off.
	Kilian *KilianChain
}

// newPublicParams derives the dimensions of the scheme from prog.
func newPublicParams(prog Program, L int, flags Flags) (*PublicParams, error) {
	if prog == nil {
		return nil, errors.Wrap(internal.MalformedInput, "program is nil")
	}
	if L < 0 || L > 62 {
		return nil, errors.Wrapf(internal.MalformedInput, "L = %d outside [0, 62]", L)
	}
	numInputs := prog.Inputs()
	if numInputs < 1 {
		return nil, errors.Wrapf(internal.MalformedInput, "program has %d inputs", numInputs)
	}

	pp := &PublicParams{
		NumInputs: numInputs,
		N:         make([]int, numInputs),
		L:         L,
		Gammas:    make([]int, numInputs),
		Flags:     flags,
		Program:   prog,
	}
	for i := 0; i < numInputs; i++ {
		n := prog.Slots(i)
		if n < 1 {
			return nil, errors.Wrapf(internal.MalformedInput, "input %d has %d slots", i, n)
		}
		pp.N[i] = n
		pp.Gammas[i] = 1 + (n-1)*(L+1)
		pp.Kappa += n
		pp.Gamma += pp.Gammas[i]
	}
	pp.NumR = pp.Kappa - 1

	return pp, nil
}

// resolveOrder queries Program.Order for every position and checks that
// it is a bijection onto the (input, slot) pairs.
func (pp *PublicParams) resolveOrder() error {
	seen := make([][]bool, pp.NumInputs)
	for i := range seen {
		seen[i] = make([]bool, pp.N[i])
	}

	pp.positions = make([][2]int, pp.Kappa)
	for k := 0; k < pp.Kappa; k++ {
		i, j := pp.Program.Order(pp, k)
		if i < 0 || i >= pp.NumInputs || j < 0 || j >= pp.N[i] {
			return errors.Wrapf(internal.MalformedInput, "position %d maps to invalid slot (%d, %d)", k, i, j)
		}
		if seen[i][j] {
			return errors.Wrapf(internal.MalformedInput, "slot (%d, %d) is ordered twice", i, j)
		}
		seen[i][j] = true
		pp.positions[k] = [2]int{i, j}
	}

	return nil
}

// Position returns the (input, slot) pair at global position k.
func (pp *PublicParams) Position(k int) (input, slot int) {
	return pp.positions[k][0], pp.positions[k][1]
}

// shape returns the dimensions the matrix at position k must have to
// fit the Kilian chain, 0 for a dimension the chain leaves free.
func (pp *PublicParams) shape(k int) (rows, cols int) {
	if k > 0 && k-1 < len(pp.KilianDims) {
		rows = pp.KilianDims[k-1]
	}
	if k < len(pp.KilianDims) {
		cols = pp.KilianDims[k]
	}

	return rows, cols
}

// Offset returns the first index set position owned by input i.
func (pp *PublicParams) Offset(i int) int {
	offset := 0
	for h := 0; h < i; h++ {
		offset += pp.Gammas[h]
	}

	return offset
}

// Validate checks the consistency of the dimensions of pp.
func (pp *PublicParams) Validate() error {
	if pp.NumInputs < 1 || len(pp.N) != pp.NumInputs || len(pp.Gammas) != pp.NumInputs {
		return errors.Wrap(internal.MalformedPubParams, "number of inputs")
	}
	gamma, kappa := 0, 0
	for i := 0; i < pp.NumInputs; i++ {
		if pp.N[i] < 1 || pp.Gammas[i] != 1+(pp.N[i]-1)*(pp.L+1) {
			return errors.Wrapf(internal.MalformedPubParams, "dimensions of input %d", i)
		}
		gamma += pp.Gammas[i]
		kappa += pp.N[i]
	}
	if gamma != pp.Gamma || kappa != pp.Kappa || pp.NumR != pp.Kappa-1 {
		return errors.Wrap(internal.MalformedPubParams, "gamma, kappa or numR")
	}
	if pp.P == nil || pp.P.Sign() <= 0 {
		return errors.Wrap(internal.MalformedPubParams, "plaintext modulus")
	}
	if !pp.Flags.Has(NoKilian) && len(pp.KilianDims) != pp.NumR {
		return errors.Wrap(internal.MalformedPubParams, "Kilian dimensions")
	}
	if len(pp.positions) != pp.Kappa {
		return errors.Wrap(internal.MalformedPubParams, "order of the slots")
	}

	return nil
}
