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
	"github.com/fentec-project/mife/encoding"
	"github.com/fentec-project/mife/internal"
	"github.com/pkg/errors"
)

// ToDigits returns the length lowest digits of x in base d, most
// significant digit first. It returns an error if x does not fit.
func ToDigits(x uint64, length int, d uint64) ([]int, error) {
	if d < 2 {
		return nil, errors.Wrapf(internal.MalformedInput, "base %d", d)
	}
	if length < 0 {
		return nil, errors.Wrapf(internal.MalformedInput, "length %d", length)
	}

	digits := make([]int, length)
	for i := length - 1; i >= 0; i-- {
		digits[i] = int(x % d)
		x /= d
	}
	if x != 0 {
		return nil, errors.Wrapf(internal.MalformedInput, "value has more than %d digits in base %d", length, d)
	}

	return digits, nil
}

// GenPartitioning assigns each of the 1 + (nu-1)(L+1) positions owned by
// an input with nu slots to one of the slots, as determined by
// idx in [0, 2^L).
//
// Position j < nu belongs to slot j. The remaining positions come in
// L groups, one per bit of idx from the most significant one. In a
// group, the position of slot j1 in [1, nu) belongs to j1 when the bit
// is set and to slot 0 otherwise.
func GenPartitioning(idx uint64, L, nu int) ([]int, error) {
	if nu < 1 {
		return nil, errors.Wrapf(internal.MalformedInput, "%d slots", nu)
	}
	bits, err := ToDigits(idx, L, 2)
	if err != nil {
		return nil, err
	}

	assignment := make([]int, 0, 1+(nu-1)*(L+1))
	for j := 0; j < nu; j++ {
		assignment = append(assignment, j)
	}
	for _, bit := range bits {
		for j1 := 1; j1 < nu; j1++ {
			if bit == 1 {
				assignment = append(assignment, j1)
			} else {
				assignment = append(assignment, 0)
			}
		}
	}

	return assignment, nil
}

// Partitions holds the index set of every slot of every input.
type Partitions [][]encoding.IndexSet

// ComputePartitions returns the index sets under which the slots are
// encoded for the given idx. The sets of the slots of one input
// partition the positions of that input, which lie at Offset(i) in the
// universe of Gamma positions.
//
// With the SimplePartitions flag, the first slot of the first input
// gets the whole universe and every other slot the empty set.
func ComputePartitions(pp *PublicParams, idx uint64) (Partitions, error) {
	parts := make(Partitions, pp.NumInputs)
	for i := range parts {
		parts[i] = make([]encoding.IndexSet, pp.N[i])
		for j := range parts[i] {
			parts[i][j] = encoding.NewIndexSet(pp.Gamma)
		}
	}

	if pp.Flags.Has(SimplePartitions) {
		for t := range parts[0][0] {
			parts[0][0][t] = 1
		}
		return parts, nil
	}

	offset := 0
	for i := 0; i < pp.NumInputs; i++ {
		assignment, err := GenPartitioning(idx, pp.L, pp.N[i])
		if err != nil {
			return nil, err
		}
		if len(assignment) != pp.Gammas[i] {
			return nil, errors.Wrapf(internal.MalformedPubParams, "input %d owns %d positions, not %d",
				i, pp.Gammas[i], len(assignment))
		}
		for t, j := range assignment {
			parts[i][j][offset+t] = 1
		}
		offset += pp.Gammas[i]
	}

	return parts, nil
}
