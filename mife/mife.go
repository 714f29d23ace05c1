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

// Package mife implements multi-input functional encryption for
// functions given as matrix branching programs, on top of a graded
// encoding.
//
// Setup derives the public parameters of a Program and samples the
// secret key. Encrypt turns a message into a Ciphertext holding the
// encoded matrices of every input, each randomized by a scalar and by
// a chain of Kilian matrices and encoded under index sets drawn from
// an exclusive partition family. Evaluate takes one ciphertext per
// input, multiplies the matrices of input i taken from the i-th
// ciphertext in the order of the Program and zero tests the product.
// Only which entries of the product are zero is revealed.
package mife

import (
	"math/big"

	"github.com/fentec-project/mife/encoding"
	"github.com/fentec-project/mife/internal"
	"github.com/fentec-project/mife/sample"
	"github.com/pkg/errors"
)

// Setup returns the public parameters and the secret key of a MIFE
// instance for prog, supporting 2^L partitions per input, with its
// encoding instantiated from scheme. The monitor may be nil.
func Setup(prog Program, scheme encoding.Scheme, L int, flags Flags, mon Monitor) (*PublicParams, *SecretKey, error) {
	mon = orNop(mon)
	pp, err := newPublicParams(prog, L, flags)
	if err != nil {
		return nil, nil, err
	}
	if err := pp.resolveOrder(); err != nil {
		return nil, nil, err
	}

	mon.Start("encoding setup")
	enc, err := scheme.Setup(pp.Kappa, pp.Gamma)
	mon.Finish("encoding setup")
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot set up the encoding")
	}
	if enc.Universe() != pp.Gamma {
		return nil, nil, errors.Errorf("encoding has %d positions instead of %d", enc.Universe(), pp.Gamma)
	}
	pp.P = new(big.Int).Set(enc.Modulus())
	pp.Evaluator = enc.Public()

	dims, err := prog.KilianDims(pp)
	if err != nil {
		return nil, nil, err
	}
	if len(dims) != pp.NumR {
		return nil, nil, errors.Wrapf(internal.MalformedInput, "%d Kilian dimensions for %d links",
			len(dims), pp.NumR)
	}
	pp.KilianDims = dims

	sk := &SecretKey{Encoder: enc}
	if !flags.Has(NoKilian) {
		sk.Kilian, err = GenerateKilian(dims, pp.P, sample.NewUniform(pp.P), mon)
		if err != nil {
			return nil, nil, err
		}
	}

	return pp, sk, nil
}
