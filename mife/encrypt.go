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
	"github.com/fentec-project/mife/encoding"
	"github.com/fentec-project/mife/internal"
	"github.com/fentec-project/mife/internal/parallel"
	"github.com/fentec-project/mife/sample"
	"github.com/pkg/errors"
)

// Ciphertext holds the encoded matrices of every slot of every input
// of a message, indexed by input and slot. It is not modified after
// Encrypt returns and may be shared between goroutines.
type Ciphertext struct {
	Enc [][]EncodedMatrix
}

// Encrypt encrypts msg. The monitor may be nil.
func Encrypt(pp *PublicParams, sk *SecretKey, msg data.Vector, mon Monitor) (*Ciphertext, error) {
	mon = orNop(mon)
	if err := pp.Validate(); err != nil {
		return nil, err
	}
	if sk == nil || sk.Encoder == nil {
		return nil, errors.Wrap(internal.MalformedSecKey, "no encoder")
	}
	if !pp.Flags.Has(NoKilian) && sk.Kilian == nil {
		return nil, errors.Wrap(internal.MalformedSecKey, "no Kilian chain")
	}

	idxSampler := sample.NewUniform(new(big.Int).Lsh(big.NewInt(1), uint(pp.L)))
	idx, err := idxSampler.Sample()
	if err != nil {
		return nil, err
	}

	mats, err := pp.Program.Matrices(pp, msg)
	if err != nil {
		return nil, err
	}
	if err := checkShapes(pp, mats); err != nil {
		return nil, err
	}

	if err := randomize(pp, sk, mats); err != nil {
		return nil, err
	}

	parts, err := ComputePartitions(pp, idx.Uint64())
	if err != nil {
		return nil, err
	}

	ct, err := encode(pp, sk.Encoder, mats, parts, mon)
	if err != nil {
		return nil, err
	}

	return ct, nil
}

// checkShapes verifies that the matrices can be multiplied in the
// order of the program and that they fit the Kilian chain.
func checkShapes(pp *PublicParams, mats ClearMatrices) error {
	if len(mats) != pp.NumInputs {
		return errors.Wrapf(internal.MalformedInput, "matrices for %d inputs, expected %d",
			len(mats), pp.NumInputs)
	}
	for i := range mats {
		if len(mats[i]) != pp.N[i] {
			return errors.Wrapf(internal.MalformedInput, "%d matrices for input %d, expected %d",
				len(mats[i]), i, pp.N[i])
		}
	}

	var prev data.Matrix
	for k := 0; k < pp.Kappa; k++ {
		i, j := pp.Position(k)
		m := mats[i][j]
		if m.Rows() == 0 || m.Cols() == 0 {
			return errors.Wrapf(internal.MalformedInput, "empty matrix at position %d", k)
		}
		if prev != nil && prev.Cols() != m.Rows() {
			return errors.Wrapf(internal.MalformedInput, "%d columns at position %d but %d rows at position %d",
				prev.Cols(), k-1, m.Rows(), k)
		}
		if !pp.Flags.Has(NoKilian) && k < pp.NumR && m.Cols() != pp.KilianDims[k] {
			return errors.Wrapf(internal.MalformedInput, "%d columns at position %d but Kilian dimension %d",
				m.Cols(), k, pp.KilianDims[k])
		}
		prev = m
	}

	return nil
}

// randomize applies the scalar and the Kilian randomization to every
// matrix in place. Every matrix draws its scalar from its own stream,
// all of them keyed from a single fresh seed.
func randomize(pp *PublicParams, sk *SecretKey, mats ClearMatrices) error {
	if pp.Flags.Has(NoRandomizers) && pp.Flags.Has(NoKilian) {
		return nil
	}
	seed, err := sample.NewKey()
	if err != nil {
		return err
	}

	return parallel.For(pp.Kappa, func(k int) error {
		i, j := pp.Position(k)
		m := mats[i][j]
		if !pp.Flags.Has(NoRandomizers) {
			stream, err := sample.NewUniformStream(pp.P, sample.DeriveKey(seed[:], "randomizer", uint64(k)))
			if err != nil {
				return err
			}
			if m, err = Randomize(m, pp.P, stream); err != nil {
				return err
			}
		}
		if !pp.Flags.Has(NoKilian) {
			var err error
			if m, err = sk.Kilian.Apply(k, m, pp.P); err != nil {
				return err
			}
		}
		mats[i][j] = m
		return nil
	})
}

// encode encodes every entry of every matrix under the index set of
// its slot.
func encode(pp *PublicParams, enc encoding.Encoder, mats ClearMatrices, parts Partitions, mon Monitor) (*Ciphertext, error) {
	type entry struct{ i, j, r, c int }
	var entries []entry

	ct := &Ciphertext{Enc: make([][]EncodedMatrix, pp.NumInputs)}
	for i := range mats {
		ct.Enc[i] = make([]EncodedMatrix, pp.N[i])
		for j, m := range mats[i] {
			ct.Enc[i][j] = NewEncodedMatrix(m.Rows(), m.Cols())
			for r := 0; r < m.Rows(); r++ {
				for c := 0; c < m.Cols(); c++ {
					entries = append(entries, entry{i, j, r, c})
				}
			}
		}
	}

	mon.Start("encoding")
	defer mon.Finish("encoding")
	counter := NewCounter(mon, "encoding", len(entries))

	err := parallel.For(len(entries), func(n int) error {
		e := entries[n]
		el, err := enc.Encode(mats[e.i][e.j][e.r][e.c], parts[e.i][e.j])
		if err != nil {
			return errors.Wrapf(err, "cannot encode entry (%d, %d) of slot (%d, %d)", e.r, e.c, e.i, e.j)
		}
		ct.Enc[e.i][e.j][e.r][e.c] = el
		counter.Inc()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ct, nil
}
